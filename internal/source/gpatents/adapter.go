package gpatents

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harborlight/ipsearch/internal/fetch"
	"github.com/harborlight/ipsearch/internal/policy/humanize"
	"github.com/harborlight/ipsearch/internal/records"
)

// Config controls the index adapter.
type Config struct {
	Endpoint  string        `mapstructure:"endpoint"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	// Enrich fetches each result's detail page to fill abstract and
	// inventor gaps. Sequential with a fixed pause per item.
	Enrich bool `mapstructure:"enrich"`
}

// Waiter admits one request against a host before it is made.
type Waiter interface {
	Wait(ctx context.Context, url string) error
}

// Adapter is the external-index acquisition strategy.
type Adapter struct {
	cfg     Config
	client  *Client
	fetcher *fetch.Client
	hum     *humanize.Humanizer
	limiter Waiter
	logger  *zap.Logger
}

// New builds the adapter. fetcher may be nil when enrichment is off;
// limiter may be nil.
func New(cfg Config, fetcher *fetch.Client, hum *humanize.Humanizer, limiter Waiter, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hum == nil {
		hum = humanize.New(humanize.Config{})
	}
	return &Adapter{
		cfg:     cfg,
		client:  NewClient(cfg.Endpoint, cfg.UserAgent, cfg.Timeout),
		fetcher: fetcher,
		hum:     hum,
		limiter: limiter,
		logger:  logger,
	}
}

// Name implements source.Source.
func (a *Adapter) Name() string { return records.SourceIndex }

// Search implements source.Source. Guard clauses first: the index serves
// patents only, and an empty query returns empty without a network call.
// One GET, no internal retry; any failure is returned for the orchestrator
// to absorb.
func (a *Adapter) Search(ctx context.Context, q records.SearchQuery) (records.Raw, error) {
	raw := records.Raw{Adapter: a.Name()}
	if q.Kind != records.KindPatent {
		return raw, nil
	}
	text := buildQueryText(q)
	if strings.TrimSpace(text) == "" {
		return raw, nil
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, a.client.endpoint); err != nil {
			return raw, err
		}
	}

	env, err := a.client.Search(ctx, text, q.Limit)
	if err != nil {
		return raw, err
	}

	patents := flattenEnvelope(env, q.Limit)
	if a.cfg.Enrich && a.fetcher != nil {
		a.enrichAll(ctx, patents)
	}

	raw.Index = &records.IndexBatch{Patents: patents}
	return raw, nil
}

// buildQueryText folds the best-effort filters into the index's query
// grammar alongside the free text.
func buildQueryText(q records.SearchQuery) string {
	parts := []string{q.Text}
	if q.Inventor != "" {
		parts = append(parts, "inventor:"+quoteIfSpaced(q.Inventor))
	}
	if q.Applicant != "" {
		parts = append(parts, "assignee:"+quoteIfSpaced(q.Applicant))
	}
	if q.DateFrom != "" {
		parts = append(parts, "after:priority:"+strings.ReplaceAll(q.DateFrom, "-", ""))
	}
	if q.DateTo != "" {
		parts = append(parts, "before:priority:"+strings.ReplaceAll(q.DateTo, "-", ""))
	}
	if q.ClassificationCode != "" {
		parts = append(parts, "cpc:"+q.ClassificationCode)
	}
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func quoteIfSpaced(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}

// flattenEnvelope walks clusters in order, preserving entry order within
// each, and truncates to limit.
func flattenEnvelope(env envelope, limit int) []records.IndexPatent {
	var out []records.IndexPatent
	for _, cl := range env.Results.Cluster {
		for _, entry := range cl.Result {
			p := entry.Patent
			if p.PublicationNumber == "" && p.ApplicationNumber == "" && p.Title == "" && p.Snippet == "" {
				continue
			}
			out = append(out, records.IndexPatent{
				PublicationNumber: p.PublicationNumber,
				ApplicationNumber: p.ApplicationNumber,
				Title:             p.Title,
				Snippet:           p.Snippet,
				Inventor:          p.Inventor,
				Assignee:          p.Assignee,
				FilingDate:        p.FilingDate,
				GrantDate:         p.GrantDate,
			})
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}

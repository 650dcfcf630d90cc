// Package browser drives a headless Chrome session against the patent
// office's public search interfaces. It is the preferred acquisition
// strategy: the most realistic traffic shape, and also the slowest and most
// likely to break when the target markup shifts.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/harborlight/ipsearch/internal/policy/humanize"
	"github.com/harborlight/ipsearch/internal/records"
)

// Default search interface locations. PatFT is the legacy interface kept as
// an in-adapter secondary when the primary renders nothing.
const (
	defaultPatentURL    = "https://ppubs.uspto.gov/pubwebapp/"
	defaultPatentAltURL = "https://patft.uspto.gov/netahtml/PTO/search-bool.html"
	defaultMarkURL      = "https://tmsearch.uspto.gov/search/search-information"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config controls the browser adapter.
type Config struct {
	PatentURL    string        `mapstructure:"patent_url"`
	PatentAltURL string        `mapstructure:"patent_alt_url"`
	MarkURL      string        `mapstructure:"mark_url"`
	UserAgent    string        `mapstructure:"user_agent"`
	// Timeout bounds one whole session, launch through extraction.
	Timeout time.Duration `mapstructure:"timeout"`
	// ResultsWait bounds polling for a results container after submitting
	// the query. Expiry is an empty result, not a failure.
	ResultsWait time.Duration `mapstructure:"results_wait"`
	// MaxSessions bounds concurrent browser processes. Zero means one.
	MaxSessions int `mapstructure:"max_sessions"`
}

func (c *Config) applyDefaults() {
	if c.PatentURL == "" {
		c.PatentURL = defaultPatentURL
	}
	if c.PatentAltURL == "" {
		c.PatentAltURL = defaultPatentAltURL
	}
	if c.MarkURL == "" {
		c.MarkURL = defaultMarkURL
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = 90 * time.Second
	}
	if c.ResultsWait <= 0 {
		c.ResultsWait = 10 * time.Second
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = 1
	}
}

// searchFieldSelectors locate the query input on each interface generation.
var searchFieldSelectors = []string{
	"input#searchText1",
	"textarea#searchText1",
	"input[name='searchText']",
	"input[name='TERM1']",
	"input[type='search']",
	"input[type='text']",
}

// Adapter is the browser-automation acquisition strategy.
type Adapter struct {
	cfg    Config
	hum    *humanize.Humanizer
	sem    chan struct{}
	logger *zap.Logger
}

// New builds the adapter. hum may be nil; a default humanizer is used.
func New(cfg Config, hum *humanize.Humanizer, logger *zap.Logger) *Adapter {
	cfg.applyDefaults()
	if hum == nil {
		hum = humanize.New(humanize.Config{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		cfg:    cfg,
		hum:    hum,
		sem:    make(chan struct{}, cfg.MaxSessions),
		logger: logger,
	}
}

// Name implements source.Source.
func (a *Adapter) Name() string { return records.SourceBrowser }

// Search implements source.Source. Each invocation owns exactly one browser
// session, torn down on every exit path. A results-wait timeout is an empty
// result so the orchestrator falls through; only session-level failures
// (launch, navigation) are returned as errors.
func (a *Adapter) Search(ctx context.Context, q records.SearchQuery) (records.Raw, error) {
	raw := records.Raw{Adapter: a.Name()}

	release, err := a.acquireSlot(ctx)
	if err != nil {
		return raw, err
	}
	defer release()

	switch q.Kind {
	case records.KindTrademark:
		marks, err := a.searchMarks(ctx, q)
		if err != nil {
			return raw, err
		}
		if len(marks) > 0 {
			raw.Browser = &records.BrowserBatch{Marks: marks}
		}
		return raw, nil
	default:
		patents, err := a.searchPatents(ctx, q)
		if err != nil {
			return raw, err
		}
		if len(patents) > 0 {
			raw.Browser = &records.BrowserBatch{Patents: patents}
		}
		return raw, nil
	}
}

func (a *Adapter) searchPatents(ctx context.Context, q records.SearchQuery) ([]records.BrowserPatent, error) {
	html, err := a.renderResults(ctx, a.cfg.PatentURL, q.Text)
	if err != nil {
		return nil, err
	}
	if rows := parsePatentRows(html, a.cfg.PatentURL, q.Limit); len(rows) > 0 {
		return rows, nil
	}

	// Primary rendered nothing usable; try the legacy interface before
	// giving up.
	a.logger.Debug("primary patent interface empty, trying secondary",
		zap.String("url", a.cfg.PatentAltURL))
	html, err = a.renderResults(ctx, a.cfg.PatentAltURL, q.Text)
	if err != nil {
		return nil, err
	}
	return parsePatentRows(html, a.cfg.PatentAltURL, q.Limit), nil
}

func (a *Adapter) searchMarks(ctx context.Context, q records.SearchQuery) ([]records.BrowserMark, error) {
	html, err := a.renderResults(ctx, a.cfg.MarkURL, q.Text)
	if err != nil {
		return nil, err
	}
	return parseMarkRows(html, a.cfg.MarkURL, q.Limit), nil
}

// renderResults runs one full session: launch, navigate, type the query like
// a person would, submit, wait for results, snapshot the DOM. An expired
// results wait returns empty HTML with no error.
func (a *Adapter) renderResults(ctx context.Context, target, query string) (string, error) {
	sess := newSession(ctx, a.cfg)
	defer sess.close()

	start := time.Now()
	if err := sess.run(
		installStealth(),
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("open %s: %w", target, err)
	}
	a.hum.Sleep(ctx, a.hum.ShortPause())

	field, err := a.findSearchField(sess)
	if err != nil {
		return "", err
	}
	if err := sess.run(typeHumanized(a.hum, field, query)); err != nil {
		return "", fmt.Errorf("enter query: %w", err)
	}
	a.hum.Sleep(ctx, a.hum.MediumPause())

	if err := sess.run(submitField(field)); err != nil {
		return "", fmt.Errorf("submit query: %w", err)
	}

	waitErr := sess.run(firstVisible(resultContainerSelectors, a.cfg.ResultsWait))
	if errors.Is(waitErr, errNoResults) {
		a.logger.Debug("no results container rendered",
			zap.String("url", target),
			zap.Duration("waited", time.Since(start)))
		return "", nil
	}
	if waitErr != nil {
		return "", waitErr
	}

	var html string
	if err := sess.run(snapshotHTML(&html)...); err != nil {
		return "", fmt.Errorf("snapshot results: %w", err)
	}
	a.logger.Debug("results page rendered",
		zap.String("url", target),
		zap.Int("bytes", len(html)),
		zap.Duration("elapsed", time.Since(start)))
	return html, nil
}

// resultContainerSelectors cover container markup across interface
// generations; any one appearing means the page has results to walk.
var resultContainerSelectors = []string{
	"div.search-results-display",
	"div#searchResults",
	"table.results-table",
	"div.search-results",
	"table#searchResultsTable",
	"table[summary*='result']",
}

// findSearchField probes the field selector list against the live page.
func (a *Adapter) findSearchField(sess *session) (string, error) {
	var found string
	err := sess.run(chromedp.ActionFunc(func(ctx context.Context) error {
		for _, sel := range searchFieldSelectors {
			var nodes []*cdp.Node
			if err := chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)).Do(ctx); err == nil && len(nodes) > 0 {
				found = sel
				return nil
			}
		}
		return errors.New("no search field found")
	}))
	if err != nil {
		return "", fmt.Errorf("locate search field: %w", err)
	}
	return found, nil
}

func (a *Adapter) acquireSlot(ctx context.Context) (func(), error) {
	select {
	case a.sem <- struct{}{}:
		return func() { <-a.sem }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("acquire browser slot: %w", ctx.Err())
	}
}

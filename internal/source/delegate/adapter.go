// Package delegate hands URLs to an external content-extraction process and
// maps its JSON output into raw result batches. The process applies either
// deterministic selector extraction or natural-language-instructed
// extraction, chosen by a first-pass content classification.
package delegate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harborlight/ipsearch/internal/policy/humanize"
	"github.com/harborlight/ipsearch/internal/records"
)

// batchSize bounds concurrent crawls in CrawlMultiple. Concurrency is
// bounded by the batch alone; there is no worker pool behind it.
const batchSize = 5

// Default search pages the adapter extracts records from.
const (
	defaultPatentSearchURL = "https://patents.google.com/"
	defaultMarkSearchURL   = "https://tmsearch.uspto.gov/search/search-information"
)

// Config controls the delegated-extraction adapter.
type Config struct {
	// Python names the interpreter binary. Empty uses the environment
	// override, then PATH candidates.
	Python  string        `mapstructure:"python"`
	Timeout time.Duration `mapstructure:"timeout"`

	PatentSearchURL string `mapstructure:"patent_search_url"`
	MarkSearchURL   string `mapstructure:"mark_search_url"`

	// BatchPause separates CrawlMultiple batches.
	BatchPause time.Duration `mapstructure:"batch_pause"`
}

func (c *Config) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.BatchPause <= 0 {
		c.BatchPause = humanize.BatchPause
	}
	if c.PatentSearchURL == "" {
		c.PatentSearchURL = defaultPatentSearchURL
	}
	if c.MarkSearchURL == "" {
		c.MarkSearchURL = defaultMarkSearchURL
	}
}

// harnessRunner runs one harness invocation. Satisfied by *Runner.
type harnessRunner interface {
	Run(ctx context.Context, req harnessRequest) (harnessResponse, error)
}

// Adapter is the delegated-extraction acquisition strategy.
type Adapter struct {
	cfg    Config
	runner harnessRunner
	hum    *humanize.Humanizer
	logger *zap.Logger
}

// New builds the adapter, resolving the extraction interpreter eagerly so a
// missing runtime surfaces at startup rather than mid-search.
func New(cfg Config, hum *humanize.Humanizer, logger *zap.Logger) (*Adapter, error) {
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if hum == nil {
		hum = humanize.New(humanize.Config{})
	}
	runner, err := NewRunner(cfg.Python, cfg.Timeout, logger)
	if err != nil {
		return nil, err
	}
	return &Adapter{cfg: cfg, runner: runner, hum: hum, logger: logger}, nil
}

// Close releases the harness temp file.
func (a *Adapter) Close() error {
	if r, ok := a.runner.(*Runner); ok {
		return r.Close()
	}
	return nil
}

// Name implements source.Source.
func (a *Adapter) Name() string { return records.SourceDelegate }

// Search implements source.Source. The query is turned into a public
// search-page URL, crawled with the two-pass protocol, and the extracted
// documents are returned as a raw delegate batch.
func (a *Adapter) Search(ctx context.Context, q records.SearchQuery) (records.Raw, error) {
	raw := records.Raw{Adapter: a.Name()}
	target, err := a.searchURL(q)
	if err != nil {
		return raw, err
	}

	docs, err := a.extractDocs(ctx, target)
	if err != nil {
		return raw, err
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	if len(docs) > 0 {
		raw.Delegate = &records.DelegateBatch{Docs: docs}
	}
	return raw, nil
}

// searchURL builds the search-page URL for the query. Query text reaches the
// URL only through encoded parameters.
func (a *Adapter) searchURL(q records.SearchQuery) (string, error) {
	base := a.cfg.PatentSearchURL
	param := "q"
	if q.Kind == records.KindTrademark {
		base = a.cfg.MarkSearchURL
		param = "query"
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse search url: %w", err)
	}
	values := u.Query()
	values.Set(param, q.Text)
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// extractDocs runs both passes against one URL.
func (a *Adapter) extractDocs(ctx context.Context, target string) ([]records.DelegateDoc, error) {
	first, err := a.runner.Run(ctx, harnessRequest{URL: target, Strategy: strategyAuto})
	if err != nil {
		return nil, fmt.Errorf("classification pass: %w", err)
	}
	if !first.Success {
		return nil, fmt.Errorf("classification pass: %s", errorOr(first.Error, "crawl failed"))
	}

	docType := Classify(first.Title, first.Content)
	a.logger.Debug("classified document",
		zap.String("url", target),
		zap.String("doc_type", docType))

	second, err := a.runner.Run(ctx, planRequest(target, docType))
	if err != nil {
		return nil, fmt.Errorf("extraction pass: %w", err)
	}
	if !second.Success {
		return nil, fmt.Errorf("extraction pass: %s", errorOr(second.Error, "crawl failed"))
	}

	return decodeDocs(second, docType), nil
}

// decodeDocs maps harness output into delegate documents. The extracted
// payload may be an array of objects, one object, or absent entirely; absent
// extraction still yields one document carrying the page title.
func decodeDocs(resp harnessResponse, docType string) []records.DelegateDoc {
	doc := func(fields map[string]string) records.DelegateDoc {
		return records.DelegateDoc{
			DocType: docType,
			URL:     resp.URL,
			Title:   resp.Title,
			Fields:  fields,
		}
	}

	if len(resp.Extracted) == 0 {
		return []records.DelegateDoc{doc(nil)}
	}

	var list []map[string]any
	if err := json.Unmarshal(resp.Extracted, &list); err == nil {
		docs := make([]records.DelegateDoc, 0, len(list))
		for _, entry := range list {
			docs = append(docs, doc(stringifyFields(entry)))
		}
		if len(docs) > 0 {
			return docs
		}
		return []records.DelegateDoc{doc(nil)}
	}

	var single map[string]any
	if err := json.Unmarshal(resp.Extracted, &single); err == nil {
		return []records.DelegateDoc{doc(stringifyFields(single))}
	}

	return []records.DelegateDoc{doc(nil)}
}

func stringifyFields(in map[string]any) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case string:
			out[k] = strings.TrimSpace(val)
		case nil:
		case []any:
			parts := make([]string, 0, len(val))
			for _, p := range val {
				parts = append(parts, strings.TrimSpace(fmt.Sprint(p)))
			}
			out[k] = strings.Join(parts, "; ")
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}

func errorOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

// Crawl runs the two-pass protocol against one URL and reports the outcome,
// including failures, as a CrawlResult.
func (a *Adapter) Crawl(ctx context.Context, target string) records.CrawlResult {
	result := records.CrawlResult{URL: target}
	if _, err := url.ParseRequestURI(target); err != nil {
		result.Error = fmt.Sprintf("invalid url: %v", err)
		return result
	}

	first, err := a.runner.Run(ctx, harnessRequest{URL: target, Strategy: strategyAuto})
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if !first.Success {
		result.Error = errorOr(first.Error, "crawl failed")
		return result
	}

	docType := Classify(first.Title, first.Content)
	second, err := a.runner.Run(ctx, planRequest(target, docType))
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if !second.Success {
		result.Error = errorOr(second.Error, "crawl failed")
		return result
	}

	result.Success = true
	result.ContentType = docType
	result.Title = second.Title
	result.Markdown = second.Content
	if docs := decodeDocs(second, docType); len(docs) > 0 {
		result.Extracted = docs[0].Fields
	}
	return result
}

// CrawlMultiple processes URLs in fixed-size batches with a pause between
// batches. Within one batch the crawls run concurrently; across batches
// nothing overlaps. Output order matches input order.
func (a *Adapter) CrawlMultiple(ctx context.Context, targets []string) []records.CrawlResult {
	results := make([]records.CrawlResult, len(targets))

	for start := 0; start < len(targets); start += batchSize {
		end := start + batchSize
		if end > len(targets) {
			end = len(targets)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx] = a.Crawl(ctx, targets[idx])
			}(i)
		}
		wg.Wait()

		if end < len(targets) {
			a.hum.Sleep(ctx, a.cfg.BatchPause)
			if ctx.Err() != nil {
				for i := end; i < len(targets); i++ {
					results[i] = records.CrawlResult{URL: targets[i], Error: ctx.Err().Error()}
				}
				return results
			}
		}
	}
	return results
}

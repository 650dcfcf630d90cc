package delegate

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/harborlight/ipsearch/internal/policy/humanize"
	"github.com/harborlight/ipsearch/internal/records"
)

type fakeRunner struct {
	mu        sync.Mutex
	active    int
	maxActive int
	calls     []harnessRequest
	respond   func(req harnessRequest) (harnessResponse, error)
}

func (f *fakeRunner) Run(_ context.Context, req harnessRequest) (harnessResponse, error) {
	f.mu.Lock()
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.active--
	f.mu.Unlock()
	return f.respond(req)
}

func (f *fakeRunner) snapshot() []harnessRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]harnessRequest(nil), f.calls...)
}

func newTestAdapter(runner harnessRunner) *Adapter {
	cfg := Config{BatchPause: time.Millisecond}
	cfg.applyDefaults()
	hum := humanize.New(humanize.Config{
		TypeDelayMin: time.Millisecond, TypeDelayMax: 2 * time.Millisecond,
		PauseMin: time.Millisecond, PauseMax: 2 * time.Millisecond,
	})
	return &Adapter{cfg: cfg, runner: runner, hum: hum, logger: zap.NewNop()}
}

// patentPageRunner answers the classification pass with patent-grant signals
// and the extraction pass with two extracted documents.
func patentPageRunner() *fakeRunner {
	extracted, _ := json.Marshal([]map[string]any{
		{"patent_number": "US11234567", "title": "Neural inference engine", "inventors": []any{"J. Smith", "A. Lee"}},
		{"patent_number": "US10987654", "title": "Cache warming", "status": "granted"},
	})
	return &fakeRunner{respond: func(req harnessRequest) (harnessResponse, error) {
		if req.Strategy == strategyAuto {
			return harnessResponse{
				Success: true,
				URL:     req.URL,
				Title:   "Patent search: granted results",
				Content: "patent grant listing",
			}, nil
		}
		return harnessResponse{
			Success:   true,
			URL:       req.URL,
			Title:     "Patent search: granted results",
			Content:   "patent grant listing",
			Extracted: extracted,
		}, nil
	}}
}

func TestSearchTwoPassFlow(t *testing.T) {
	runner := patentPageRunner()
	a := newTestAdapter(runner)

	raw, err := a.Search(context.Background(), records.SearchQuery{
		Kind: records.KindPatent, Text: "neural network", Limit: 10,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if raw.Adapter != records.SourceDelegate {
		t.Errorf("Adapter = %q", raw.Adapter)
	}
	if raw.Delegate == nil || len(raw.Delegate.Docs) != 2 {
		t.Fatalf("raw = %+v, want 2 docs", raw)
	}

	calls := runner.snapshot()
	if len(calls) != 2 {
		t.Fatalf("harness calls = %d, want 2 (one per pass)", len(calls))
	}
	if calls[0].Strategy != strategyAuto {
		t.Errorf("first pass strategy = %q", calls[0].Strategy)
	}
	if calls[1].Strategy != strategyLLM || calls[1].Instruction != patentInstruction {
		t.Errorf("second pass = %+v, want llm with patent instruction", calls[1])
	}
	if !strings.Contains(calls[0].URL, "q=neural+network") {
		t.Errorf("search url = %q, query not encoded", calls[0].URL)
	}

	doc := raw.Delegate.Docs[0]
	if doc.DocType != DocPatentGrant {
		t.Errorf("DocType = %q", doc.DocType)
	}
	if doc.Fields["patent_number"] != "US11234567" {
		t.Errorf("fields = %v", doc.Fields)
	}
	if doc.Fields["inventors"] != "J. Smith; A. Lee" {
		t.Errorf("inventors = %q, list not joined", doc.Fields["inventors"])
	}
}

func TestSearchLimitTruncates(t *testing.T) {
	a := newTestAdapter(patentPageRunner())

	raw, err := a.Search(context.Background(), records.SearchQuery{
		Kind: records.KindPatent, Text: "x", Limit: 1,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if raw.Delegate == nil || len(raw.Delegate.Docs) != 1 {
		t.Fatalf("docs = %+v, want 1", raw.Delegate)
	}
}

func TestSearchTrademarkUsesSelectors(t *testing.T) {
	runner := &fakeRunner{respond: func(req harnessRequest) (harnessResponse, error) {
		if req.Strategy == strategyAuto {
			return harnessResponse{Success: true, URL: req.URL, Title: "Trademark registration", Content: "registration detail"}, nil
		}
		extracted, _ := json.Marshal(map[string]any{"serial_number": "97123456", "mark": "NEURALEDGE"})
		return harnessResponse{Success: true, URL: req.URL, Title: "Trademark registration", Extracted: extracted}, nil
	}}
	a := newTestAdapter(runner)

	raw, err := a.Search(context.Background(), records.SearchQuery{
		Kind: records.KindTrademark, Text: "neuraledge", Limit: 5,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if raw.Delegate == nil || len(raw.Delegate.Docs) != 1 {
		t.Fatalf("raw = %+v", raw)
	}
	if raw.Delegate.Docs[0].DocType != DocTrademarkRegistration {
		t.Errorf("DocType = %q", raw.Delegate.Docs[0].DocType)
	}

	calls := runner.snapshot()
	if calls[1].Strategy != strategySelector || len(calls[1].Selectors) == 0 {
		t.Errorf("second pass = %+v, want selector map", calls[1])
	}
}

func TestSearchHarnessFailureSurfaces(t *testing.T) {
	wantErr := errors.New("exit status 3")
	runner := &fakeRunner{respond: func(harnessRequest) (harnessResponse, error) {
		return harnessResponse{}, wantErr
	}}
	a := newTestAdapter(runner)

	_, err := a.Search(context.Background(), records.SearchQuery{Kind: records.KindPatent, Text: "x"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped harness failure", err)
	}
}

func TestCrawlReportsFailureAsResult(t *testing.T) {
	runner := &fakeRunner{respond: func(harnessRequest) (harnessResponse, error) {
		return harnessResponse{Success: false, Error: "blocked"}, nil
	}}
	a := newTestAdapter(runner)

	res := a.Crawl(context.Background(), "https://example.gov/doc")
	if res.Success {
		t.Fatal("expected failed result")
	}
	if res.Error != "blocked" {
		t.Errorf("Error = %q", res.Error)
	}
}

func TestCrawlInvalidURLSkipsProcess(t *testing.T) {
	runner := &fakeRunner{respond: func(harnessRequest) (harnessResponse, error) {
		t.Fatal("harness must not run for an invalid url")
		return harnessResponse{}, nil
	}}
	a := newTestAdapter(runner)

	res := a.Crawl(context.Background(), "::not a url")
	if res.Success || res.Error == "" {
		t.Fatalf("res = %+v, want failed result", res)
	}
}

func TestCrawlMultipleBatches(t *testing.T) {
	runner := patentPageRunner()
	a := newTestAdapter(runner)

	urls := make([]string, 12)
	for i := range urls {
		urls[i] = "https://example.gov/doc/" + string(rune('a'+i))
	}

	results := a.CrawlMultiple(context.Background(), urls)
	if len(results) != 12 {
		t.Fatalf("results = %d, want 12", len(results))
	}
	for i, res := range results {
		if !res.Success {
			t.Fatalf("result %d failed: %+v", i, res)
		}
		if res.URL != urls[i] {
			t.Fatalf("result %d out of order: %q", i, res.URL)
		}
	}

	runner.mu.Lock()
	maxActive := runner.maxActive
	calls := len(runner.calls)
	runner.mu.Unlock()

	if maxActive > batchSize {
		t.Errorf("maxActive = %d, want <= %d", maxActive, batchSize)
	}
	if calls != 24 {
		t.Errorf("harness calls = %d, want 24 (two passes per url)", calls)
	}
}

package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/harborlight/ipsearch/internal/policy/humanize"
	"github.com/harborlight/ipsearch/internal/records"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	if cfg.PatentURL == "" || cfg.PatentAltURL == "" || cfg.MarkURL == "" {
		t.Fatalf("target URLs not defaulted: %+v", cfg)
	}
	if cfg.Timeout <= 0 || cfg.ResultsWait <= 0 {
		t.Fatalf("timeouts not defaulted: %+v", cfg)
	}
	if cfg.ResultsWait != 10*time.Second {
		t.Errorf("ResultsWait = %v, want 10s", cfg.ResultsWait)
	}
	if cfg.MaxSessions != 1 {
		t.Errorf("MaxSessions = %v, want 1", cfg.MaxSessions)
	}
}

func TestAdapterName(t *testing.T) {
	a := New(Config{}, nil, zap.NewNop())
	if a.Name() != records.SourceBrowser {
		t.Fatalf("Name() = %q", a.Name())
	}
}

// The live-session test drives a real headless Chrome against a local page
// shaped like a results interface. Skipped wherever Chrome is not installed.
func TestSearchAgainstLocalPage(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<!doctype html><html><body>
<input type="text" id="q">
<div class="search-results-display">
<table><tbody>
<tr><td class="patent-number">11000001</td><td class="patent-title">Local fixture patent</td></tr>
</tbody></table>
</div>
</body></html>`)
	}))
	defer srv.Close()

	hum := humanize.New(humanize.Config{
		TypeDelayMin: time.Millisecond,
		TypeDelayMax: 2 * time.Millisecond,
		PauseMin:     time.Millisecond,
		PauseMax:     2 * time.Millisecond,
	})
	a := New(Config{
		PatentURL:    srv.URL,
		PatentAltURL: srv.URL,
		Timeout:      30 * time.Second,
		ResultsWait:  5 * time.Second,
	}, hum, zap.NewNop())

	raw, err := a.Search(context.Background(), records.SearchQuery{
		Kind:  records.KindPatent,
		Text:  "fixture",
		Limit: 5,
	})
	if err != nil {
		t.Skipf("chromedp unavailable: %v", err)
	}
	if raw.Adapter != records.SourceBrowser {
		t.Fatalf("Adapter = %q", raw.Adapter)
	}
	if raw.Browser == nil || len(raw.Browser.Patents) != 1 {
		t.Fatalf("raw = %+v, want one patent row", raw)
	}
	if raw.Browser.Patents[0].Number != "11000001" {
		t.Errorf("Number = %q", raw.Browser.Patents[0].Number)
	}
}

package delegate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

// shRunner builds a runner that executes a shell stub instead of the Python
// harness. The process contract under test is identical: request on stdin,
// one JSON object on stdout, exit code is the verdict.
func shRunner(t *testing.T, stub string, timeout time.Duration) *Runner {
	t.Helper()
	r, err := NewRunner("sh", timeout, zap.NewNop())
	if err != nil {
		t.Skipf("sh unavailable: %v", err)
	}
	r.script = stub
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRunnerSuccess(t *testing.T) {
	out := filepath.Join(t.TempDir(), "request.json")
	t.Setenv("STUB_OUT", out)

	r := shRunner(t, `cat > "$STUB_OUT"
printf '{"success":true,"url":"stub","title":"Patent 1","content":"body"}\n'
`, 5*time.Second)

	resp, err := r.Run(context.Background(), harnessRequest{
		URL:      "https://example.gov/doc?q=neural+network",
		Strategy: strategyAuto,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !resp.Success || resp.Title != "Patent 1" {
		t.Fatalf("resp = %+v", resp)
	}

	// The request reached the process on stdin, not in the script.
	captured, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read captured stdin: %v", err)
	}
	if !strings.Contains(string(captured), `"https://example.gov/doc?q=neural+network"`) {
		t.Fatalf("stdin = %s, missing request url", captured)
	}
}

func TestRunnerNonZeroExit(t *testing.T) {
	r := shRunner(t, `echo "boom: no interpreter" >&2
exit 3
`, 5*time.Second)

	_, err := r.Run(context.Background(), harnessRequest{URL: "u", Strategy: strategyAuto})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("err = %v, want stderr detail", err)
	}
}

func TestRunnerMalformedOutput(t *testing.T) {
	r := shRunner(t, `cat > /dev/null
printf 'not json at all'
`, 5*time.Second)

	_, err := r.Run(context.Background(), harnessRequest{URL: "u", Strategy: strategyAuto})
	if err == nil || !strings.Contains(err.Error(), "malformed") {
		t.Fatalf("err = %v, want malformed output error", err)
	}
}

func TestRunnerTimeout(t *testing.T) {
	r := shRunner(t, `cat > /dev/null
sleep 5
`, 100*time.Millisecond)

	start := time.Now()
	_, err := r.Run(context.Background(), harnessRequest{URL: "u", Strategy: strategyAuto})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Errorf("runner did not enforce its timeout")
	}
}

// The harness on disk must be the fixed constant regardless of what is being
// crawled; caller parameters travel only on stdin.
func TestHarnessFileIsConstant(t *testing.T) {
	r, err := NewRunner("sh", time.Second, zap.NewNop())
	if err != nil {
		t.Skipf("sh unavailable: %v", err)
	}
	t.Cleanup(func() { r.Close() })

	path, err := r.harnessPath()
	if err != nil {
		t.Fatalf("harnessPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read harness: %v", err)
	}
	if string(data) != harnessScript {
		t.Fatal("harness file differs from the script constant")
	}
	if strings.Contains(harnessScript, "example.gov") {
		t.Fatal("harness constant embeds caller data")
	}

	again, err := r.harnessPath()
	if err != nil {
		t.Fatalf("harnessPath: %v", err)
	}
	if again != path {
		t.Fatalf("harness rewritten: %q then %q", path, again)
	}
}

func TestResolveInterpreterFailure(t *testing.T) {
	_, err := resolveInterpreter("/nonexistent/bin/python-xyz")
	if err == nil {
		// A real interpreter further down the candidate list is fine.
		return
	}
	if !errors.Is(err, ErrNoInterpreter) {
		t.Fatalf("err = %v, want ErrNoInterpreter", err)
	}
}

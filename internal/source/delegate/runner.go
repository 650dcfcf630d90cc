package delegate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PythonEnvVar overrides interpreter resolution for the extraction harness.
const PythonEnvVar = "IPSEARCH_DELEGATE_PYTHON"

var pythonCandidates = []string{"python3", "python", "/usr/bin/python3", "/usr/local/bin/python3"}

// ErrNoInterpreter indicates no usable Python interpreter was found.
var ErrNoInterpreter = errors.New("no python interpreter found")

// Runner executes the extraction harness, one process per call. The harness
// script is written to a temp file once and reused; per-call parameters
// travel as JSON on stdin.
type Runner struct {
	bin     string
	timeout time.Duration
	logger  *zap.Logger

	// script defaults to harnessScript; tests substitute a stub.
	script string

	writeOnce sync.Once
	path      string
	writeErr  error
}

// NewRunner resolves the interpreter and prepares a runner. bin may be empty
// to use the environment override or PATH candidates.
func NewRunner(bin string, timeout time.Duration, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	resolved, err := resolveInterpreter(bin)
	if err != nil {
		return nil, err
	}
	return &Runner{
		bin:     resolved,
		timeout: timeout,
		logger:  logger,
		script:  harnessScript,
	}, nil
}

func resolveInterpreter(bin string) (string, error) {
	candidates := make([]string, 0, len(pythonCandidates)+2)
	if bin != "" {
		candidates = append(candidates, bin)
	}
	if env := os.Getenv(PythonEnvVar); env != "" {
		candidates = append(candidates, env)
	}
	candidates = append(candidates, pythonCandidates...)

	var failures []string
	for _, c := range candidates {
		if strings.ContainsRune(c, os.PathSeparator) {
			if _, err := os.Stat(c); err == nil {
				return c, nil
			}
			failures = append(failures, fmt.Sprintf("%s: not found", c))
			continue
		}
		if p, err := exec.LookPath(c); err == nil {
			return p, nil
		}
		failures = append(failures, fmt.Sprintf("%s: not in PATH", c))
	}
	return "", fmt.Errorf("%w (%s)", ErrNoInterpreter, strings.Join(failures, "; "))
}

// harnessPath writes the fixed script to a temp file on first use.
func (r *Runner) harnessPath() (string, error) {
	r.writeOnce.Do(func() {
		f, err := os.CreateTemp("", "ipsearch-harness-*.py")
		if err != nil {
			r.writeErr = fmt.Errorf("create harness file: %w", err)
			return
		}
		if _, err := f.WriteString(r.script); err != nil {
			f.Close()
			r.writeErr = fmt.Errorf("write harness file: %w", err)
			return
		}
		if err := f.Close(); err != nil {
			r.writeErr = fmt.Errorf("close harness file: %w", err)
			return
		}
		r.path = f.Name()
	})
	return r.path, r.writeErr
}

// Close removes the harness temp file.
func (r *Runner) Close() error {
	if r.path == "" {
		return nil
	}
	return os.Remove(r.path)
}

// Run spawns one harness process for the request and decodes its stdout.
// A non-zero exit, a timeout, or malformed stdout is a hard failure.
func (r *Runner) Run(ctx context.Context, req harnessRequest) (harnessResponse, error) {
	var resp harnessResponse

	script, err := r.harnessPath()
	if err != nil {
		return resp, err
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return resp, fmt.Errorf("encode harness request: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, r.bin, script)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Keeps Wait from blocking on pipe inheritance when a killed harness
	// leaves grandchildren behind.
	cmd.WaitDelay = 2 * time.Second

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if runCtx.Err() != nil {
			return resp, fmt.Errorf("harness timed out after %s: %w", r.timeout, runCtx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return resp, fmt.Errorf("harness failed: %w: %s", err, firstLine(msg))
		}
		return resp, fmt.Errorf("harness failed: %w", err)
	}

	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &resp); err != nil {
		return resp, fmt.Errorf("malformed harness output: %w", err)
	}

	r.logger.Debug("harness run",
		zap.String("url", req.URL),
		zap.String("strategy", req.Strategy),
		zap.Bool("success", resp.Success),
		zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Package fetch provides the single-page HTTP client behind detail
// enrichment and status lookups: a colly collector cloned per fetch, a
// per-host rate limit, bounded retries with jitter, and detection of
// challenge pages served in place of real content.
package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Config controls collector behavior.
type Config struct {
	UserAgent    string        `mapstructure:"user_agent"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBodyBytes int           `mapstructure:"max_body_bytes"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
}

// Waiter admits one request against a host; satisfied by ratelimit.Limiter.
type Waiter interface {
	Wait(ctx context.Context, url string) error
}

// Response is one fetched page.
type Response struct {
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Client fetches single pages. Safe for concurrent use: every fetch runs on
// a clone of the base collector.
type Client struct {
	cfg      Config
	base     *colly.Collector
	limiter  Waiter
	retry    *retryPolicy
	detector *BlockDetector
	logger   *zap.Logger
}

// New builds a Client. limiter may be nil (no host pacing).
func New(cfg Config, limiter Waiter, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 5 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.WithTransport(newHTTPTransport())

	return &Client{
		cfg:      cfg,
		base:     c,
		limiter:  limiter,
		retry:    newRetryPolicy(cfg.MaxAttempts),
		detector: NewBlockDetector(nil, nil),
		logger:   logger,
	}
}

// Get fetches one URL, retrying transient failures with jittered backoff.
// A page the detector identifies as a bot challenge is returned as
// ErrBlockedPage and never retried.
func (c *Client) Get(ctx context.Context, url string) (Response, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx, url); err != nil {
				return Response{}, err
			}
		}

		resp, err := c.fetchOnce(ctx, url)
		if err == nil {
			if blocked, reason := c.detector.Blocked(resp.Body); blocked {
				return Response{}, fmt.Errorf("%w: %s (%s)", ErrBlockedPage, reason, url)
			}
			return resp, nil
		}
		lastErr = err

		if !c.retry.shouldRetry(err, attempt+1) {
			return Response{}, lastErr
		}
		backoff := c.retry.backoff(attempt)
		c.logger.Debug("retrying fetch",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Response{}, fmt.Errorf("fetch canceled: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

type fetchResult struct {
	resp Response
	err  error
}

func (c *Client) fetchOnce(ctx context.Context, url string) (Response, error) {
	collector := c.base.Clone()
	if c.cfg.UserAgent != "" {
		collector.UserAgent = c.cfg.UserAgent
	}
	collector.SetRequestTimeout(c.cfg.Timeout)
	collector.MaxBodySize = c.cfg.MaxBodyBytes

	start := time.Now()
	resultCh := make(chan fetchResult, 1)
	var once sync.Once

	collector.OnResponse(func(r *colly.Response) {
		once.Do(func() {
			resultCh <- fetchResult{resp: Response{
				URL:        r.Request.URL.String(),
				StatusCode: r.StatusCode,
				Body:       append([]byte(nil), r.Body...),
				Duration:   time.Since(start),
			}}
		})
	})
	collector.OnError(func(r *colly.Response, err error) {
		once.Do(func() {
			if r != nil && r.StatusCode > 0 {
				err = &statusError{code: r.StatusCode, cause: err}
			}
			resultCh <- fetchResult{err: err}
		})
	})

	go func() {
		if err := collector.Visit(url); err != nil {
			once.Do(func() { resultCh <- fetchResult{err: err} })
		}
	}()

	select {
	case <-ctx.Done():
		return Response{}, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case res := <-resultCh:
		if res.err != nil {
			return Response{}, fmt.Errorf("fetch %s: %w", url, res.err)
		}
		return res.resp, nil
	}
}

type statusError struct {
	code  int
	cause error
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http status %d: %v", e.code, e.cause)
}

func (e *statusError) Unwrap() error { return e.cause }

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}

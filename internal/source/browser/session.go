package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// session owns one headless browser process. Every Search invocation gets its
// own session and tears it down on every exit path, so a crashed or hung
// browser never outlives the request that started it.
type session struct {
	ctx         context.Context
	cancelTask  context.CancelFunc
	cancelTab   context.CancelFunc
	allocCancel context.CancelFunc
	stopForward func()
}

func newSession(parent context.Context, cfg Config) *session {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(cfg.UserAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	taskCtx, cancelTask := context.WithTimeout(tabCtx, cfg.Timeout)
	stopForward := forwardCancel(parent, cancelTask)

	return &session{
		ctx:         taskCtx,
		cancelTask:  cancelTask,
		cancelTab:   cancelTab,
		allocCancel: allocCancel,
		stopForward: stopForward,
	}
}

// run executes actions in the session tab, launching the browser on first use.
func (s *session) run(actions ...chromedp.Action) error {
	if err := chromedp.Run(s.ctx, actions...); err != nil {
		return fmt.Errorf("chromedp run: %w", err)
	}
	return nil
}

// close releases the tab, browser, and allocator in order.
func (s *session) close() {
	s.stopForward()
	s.cancelTask()
	s.cancelTab()
	s.allocCancel()
}

func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// snapshotHTML captures the rendered DOM after the page settles.
func snapshotHTML(html *string) []chromedp.Action {
	return []chromedp.Action{
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.OuterHTML("html", html, chromedp.ByQuery),
	}
}

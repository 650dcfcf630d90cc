package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/harborlight/ipsearch/internal/policy/humanize"
)

// errNoResults marks a clean "nothing rendered" outcome. The adapter maps it
// to an empty result set rather than a failure.
var errNoResults = errors.New("no results container")

const resultsPollInterval = 500 * time.Millisecond

// typeHumanized focuses the field and sends the text one character at a time,
// sleeping a randomized delay between keystrokes.
func typeHumanized(hum *humanize.Humanizer, sel, text string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := chromedp.Click(sel, chromedp.ByQuery).Do(ctx); err != nil {
			return fmt.Errorf("focus %s: %w", sel, err)
		}
		for _, ch := range text {
			if err := chromedp.SendKeys(sel, string(ch), chromedp.ByQuery).Do(ctx); err != nil {
				return fmt.Errorf("type into %s: %w", sel, err)
			}
			hum.Sleep(ctx, hum.TypeDelay())
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		return nil
	})
}

// firstVisible waits for any selector in the list to appear, trying them in
// order until the budget runs out.
func firstVisible(selectors []string, budget time.Duration) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		deadline := time.Now().Add(budget)
		for {
			for _, sel := range selectors {
				var nodes []*cdp.Node
				if err := chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)).Do(ctx); err == nil && len(nodes) > 0 {
					return nil
				}
			}
			if time.Now().After(deadline) {
				return errNoResults
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(resultsPollInterval):
			}
		}
	}
}

// submitField sends a carriage return to the focused search field.
func submitField(sel string) chromedp.Action {
	return chromedp.SendKeys(sel, "\r", chromedp.ByQuery)
}

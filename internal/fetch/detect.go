package fetch

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrBlockedPage marks a fetch that returned a bot challenge instead of the
// requested content. Not retryable: the host has decided, backing off for a
// few hundred milliseconds will not change its mind.
var ErrBlockedPage = errors.New("blocked page")

var defaultChallengePhrases = []string{
	"unusual traffic",
	"verify you are a human",
	"are you a robot",
	"enable javascript and cookies",
	"access denied",
	"attention required",
	"request blocked",
}

var defaultChallengeSelectors = []string{
	"#captcha",
	"#captcha-form",
	".g-recaptcha",
	"iframe[src*='recaptcha']",
	"form[action*='captcha']",
}

// BlockDetector recognizes interstitial challenge pages by phrase and by
// structure. Only HTML documents are inspected; API payloads pass through.
type BlockDetector struct {
	phrases   []string
	selectors []string
}

// NewBlockDetector builds a detector; nil slices take the defaults.
func NewBlockDetector(phrases, selectors []string) *BlockDetector {
	if phrases == nil {
		phrases = defaultChallengePhrases
	}
	if selectors == nil {
		selectors = defaultChallengeSelectors
	}
	return &BlockDetector{phrases: phrases, selectors: selectors}
}

// Blocked reports whether the body looks like a challenge page and why.
func (d *BlockDetector) Blocked(body []byte) (bool, string) {
	if len(body) == 0 {
		return false, ""
	}
	lower := bytes.ToLower(body)
	if !bytes.Contains(lower, []byte("<html")) && !bytes.Contains(lower, []byte("<body")) {
		return false, ""
	}

	for _, phrase := range d.phrases {
		if bytes.Contains(lower, []byte(phrase)) {
			return true, fmt.Sprintf("challenge phrase %q", phrase)
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return false, ""
	}
	for _, sel := range d.selectors {
		if doc.Find(sel).Length() > 0 {
			return true, fmt.Sprintf("challenge element %q", sel)
		}
	}
	title := strings.ToLower(strings.TrimSpace(doc.Find("title").Text()))
	for _, phrase := range d.phrases {
		if title != "" && strings.Contains(title, phrase) {
			return true, fmt.Sprintf("challenge title %q", title)
		}
	}
	return false, ""
}

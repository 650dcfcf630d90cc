package gpatents

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/harborlight/ipsearch/internal/policy/humanize"
	"github.com/harborlight/ipsearch/internal/records"
)

// enrichAll fills abstract/inventor/date gaps from each result's detail
// page. Sequential on purpose, with a fixed pause between items: this is
// throttling toward the index host, not accidental serialization. Every
// per-item failure is logged and skipped.
func (a *Adapter) enrichAll(ctx context.Context, patents []records.IndexPatent) {
	for i := range patents {
		if i > 0 {
			a.hum.Sleep(ctx, humanize.EnrichDelay)
		}
		if ctx.Err() != nil {
			return
		}
		a.enrichOne(ctx, &patents[i])
	}
}

func (a *Adapter) enrichOne(ctx context.Context, p *records.IndexPatent) {
	num := strings.Join(strings.Fields(strings.ReplaceAll(p.PublicationNumber, ",", "")), "")
	if num == "" {
		return
	}
	a.enrichFromURL(ctx, p, fmt.Sprintf("https://patents.google.com/patent/%s/en", num))
}

func (a *Adapter) enrichFromURL(ctx context.Context, p *records.IndexPatent, detailURL string) {
	resp, err := a.fetcher.Get(ctx, detailURL)
	if err != nil {
		a.logger.Debug("detail enrichment skipped",
			zap.String("url", detailURL), zap.Error(err))
		return
	}
	d, err := parseDetail(resp.Body)
	if err != nil {
		a.logger.Debug("detail parse failed",
			zap.String("url", detailURL), zap.Error(err))
		return
	}

	p.Link = detailURL
	if p.Abstract == "" {
		p.Abstract = d.abstract
	}
	if p.Inventor == "" {
		p.Inventor = strings.Join(d.inventors, ", ")
	}
	if p.Assignee == "" {
		p.Assignee = d.assignee
	}
	if p.FilingDate == "" {
		p.FilingDate = d.filingDate
	}
	if p.GrantDate == "" {
		p.GrantDate = d.grantDate
	}
}

type detail struct {
	abstract   string
	inventors  []string
	assignee   string
	filingDate string
	grantDate  string
}

// parseDetail reads the metadata the detail page exposes. Every field is
// optional; selector chains run most-specific first.
func parseDetail(body []byte) (detail, error) {
	var d detail
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return d, fmt.Errorf("parse detail page: %w", err)
	}

	for _, sel := range []string{"section[itemprop='abstract'] div.abstract", "div.abstract", "meta[name='description']"} {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if content, ok := node.Attr("content"); ok {
			d.abstract = strings.TrimSpace(content)
		} else {
			d.abstract = strings.TrimSpace(node.Text())
		}
		if d.abstract != "" {
			break
		}
	}

	doc.Find("meta[name='DC.contributor']").Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		switch s.AttrOr("scheme", "") {
		case "inventor":
			d.inventors = append(d.inventors, content)
		case "assignee":
			if d.assignee == "" {
				d.assignee = content
			}
		}
	})
	if d.assignee == "" {
		d.assignee = strings.TrimSpace(doc.Find("dd[itemprop='assigneeCurrent']").First().Text())
	}

	d.filingDate = firstText(doc, "time[itemprop='filingDate']", "dd[itemprop='filingDate']")
	d.grantDate = firstText(doc, "time[itemprop='grantDate']", "dd[itemprop='grantDate']")
	return d, nil
}

func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

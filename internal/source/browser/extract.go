package browser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/harborlight/ipsearch/internal/records"
)

// Result-row selectors for the patent search interfaces. The sites ship
// markup changes without notice, so every lookup walks a fallback list and
// the first container selector that yields usable rows wins.
var (
	patentRowSelectors = []string{
		"div.search-results-display table tbody tr",
		"table.results-table tbody tr",
		"div#searchResults table tbody tr",
		"table[summary*='result'] tr",
		"div.result-item",
	}
	markRowSelectors = []string{
		"div.search-results table tbody tr",
		"table#searchResultsTable tbody tr",
		"div.result-row",
		"li.search-result",
	}
)

// parsePatentRows extracts patent rows from a rendered results page. Each
// field is read independently; a missing field never discards the row unless
// both the document number and the title are blank.
func parsePatentRows(html, baseURL string, limit int) []records.BrowserPatent {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	for _, container := range patentRowSelectors {
		var rows []records.BrowserPatent
		doc.Find(container).Each(func(_ int, s *goquery.Selection) {
			if limit > 0 && len(rows) >= limit {
				return
			}
			row := records.BrowserPatent{
				Number:     textOf(s, "td.patent-number", ".patent-number", "td:nth-child(2) a", "a.doc-number"),
				AppNumber:  textOf(s, "td.application-number", ".application-number"),
				Title:      textOf(s, "td.patent-title", ".patent-title", "td.title", "h3", "a.title"),
				Abstract:   textOf(s, "td.abstract", ".abstract", "p.abstract"),
				Assignee:   textOf(s, "td.assignee", ".assignee"),
				FilingDate: textOf(s, "td.filing-date", ".filing-date", "td.date-filed"),
				GrantDate:  textOf(s, "td.grant-date", ".grant-date", "td.date-published"),
				Status:     textOf(s, "td.status", ".status"),
				Link:       linkOf(s, baseURL, "a.doc-number", "td a", "a"),
			}
			if inventors := textOf(s, "td.inventors", ".inventors", "td.inventor-name"); inventors != "" {
				row.Inventors = splitNames(inventors)
			}
			if row.Number == "" && row.Title == "" {
				return
			}
			rows = append(rows, row)
		})
		if len(rows) > 0 {
			return rows
		}
	}
	return nil
}

// parseMarkRows extracts trademark rows from a rendered results page.
func parseMarkRows(html, baseURL string, limit int) []records.BrowserMark {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	for _, container := range markRowSelectors {
		var rows []records.BrowserMark
		doc.Find(container).Each(func(_ int, s *goquery.Selection) {
			if limit > 0 && len(rows) >= limit {
				return
			}
			row := records.BrowserMark{
				Serial:       textOf(s, "td.serial-number", ".serial-number", "td:nth-child(1) a"),
				Registration: textOf(s, "td.registration-number", ".registration-number"),
				Mark:         textOf(s, "td.mark-name", ".mark-name", "td.wordmark", "h3"),
				Owner:        textOf(s, "td.owner", ".owner-name", "td.owner-name"),
				FilingDate:   textOf(s, "td.filing-date", ".filing-date"),
				Status:       textOf(s, "td.status", ".status"),
				Goods:        textOf(s, "td.goods-services", ".goods-services"),
				Link:         linkOf(s, baseURL, "td a", "a"),
			}
			if row.Serial == "" && row.Mark == "" {
				return
			}
			rows = append(rows, row)
		})
		if len(rows) > 0 {
			return rows
		}
	}
	return nil
}

// textOf returns the trimmed text of the first selector that matches.
func textOf(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// linkOf returns the href of the first matching anchor, resolved against the
// page URL when relative.
func linkOf(s *goquery.Selection, baseURL string, selectors ...string) string {
	for _, sel := range selectors {
		href, ok := s.Find(sel).First().Attr("href")
		if !ok || href == "" {
			continue
		}
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			return href
		}
		base, err := url.Parse(baseURL)
		if err != nil {
			return href
		}
		ref, err := url.Parse(href)
		if err != nil {
			return href
		}
		return base.ResolveReference(ref).String()
	}
	return ""
}

func splitNames(raw string) []string {
	sep := ","
	if strings.Contains(raw, ";") {
		sep = ";"
	}
	parts := strings.Split(raw, sep)
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

package status

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/harborlight/ipsearch/internal/records"
)

// parsePatentPage pulls status fields out of a rendered patent record page.
// Every field is probed independently through a chain of layouts (modern
// spans, legacy label tables, definition lists); a page is usable as soon as
// a status string is found.
func parsePatentPage(body []byte) (records.StatusRecord, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return records.StatusRecord{}, false
	}

	var rec records.StatusRecord
	rec.Status = firstText(doc, "span.patent-status", "#patentStatus", "td.status-value", "dd.status")
	if rec.Status == "" {
		rec.Status = labeledValue(doc, "Status")
	}
	rec.Examiner = firstText(doc, "span.examiner-name", "#examinerName")
	if rec.Examiner == "" {
		rec.Examiner = labeledValue(doc, "Primary Examiner")
	}
	rec.LastAction = labeledValue(doc, "Last Action")
	rec.LastActionDate = labeledValue(doc, "Last Action Date")
	if rec.LastActionDate == "" {
		rec.LastActionDate = labeledValue(doc, "Issue Date")
	}

	return rec, rec.Status != ""
}

// firstText returns the first selector's non-blank text.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if txt := strings.TrimSpace(doc.Find(sel).First().Text()); txt != "" {
			return txt
		}
	}
	return ""
}

// labeledValue finds a "Label: value" pair however the page lays it out:
// the value may live in the label's next sibling cell or trail the label in
// the same parent element.
func labeledValue(doc *goquery.Document, label string) string {
	lower := strings.ToLower(label)
	var out string
	doc.Find("th, td, dt, b, strong, i").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		txt := strings.ToLower(strings.TrimSpace(s.Text()))
		if !strings.HasPrefix(txt, lower) {
			return true
		}
		if v := strings.TrimSpace(s.Next().Text()); v != "" {
			out = v
			return false
		}
		parent := strings.TrimSpace(s.Parent().Text())
		if idx := strings.Index(strings.ToLower(parent), lower); idx >= 0 {
			rest := strings.TrimLeft(parent[idx+len(label):], ": \t\r\n")
			if line := firstLine(rest); line != "" {
				out = line
				return false
			}
		}
		return true
	})
	return out
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// caseStatusElements maps the element local names a TSDR case-status
// document may use onto record fields. Namespaces and nesting vary between
// schema revisions, so matching is by local name only and the first
// occurrence of each field wins (prosecution history lists newest first).
var caseStatusElements = map[string]func(*records.StatusRecord, string){
	"MarkCurrentStatusExternalDescriptionText": setStatus,
	"CaseStatusText":                           setStatus,
	"MarkCurrentStatusDate":                    setLastActionDate,
	"MarkEventDescriptionText":                 setLastAction,
	"MarkEventDate":                            setLastActionDate,
	"RecordAttorneyName":                       setAttorney,
	"AttorneyName":                             setAttorney,
}

func setStatus(r *records.StatusRecord, v string) {
	if r.Status == "" {
		r.Status = v
	}
}

func setLastAction(r *records.StatusRecord, v string) {
	if r.LastAction == "" {
		r.LastAction = v
	}
}

func setLastActionDate(r *records.StatusRecord, v string) {
	if r.LastActionDate == "" {
		r.LastActionDate = v
	}
}

func setAttorney(r *records.StatusRecord, v string) {
	if r.Attorney == "" {
		r.Attorney = v
	}
}

// parseCaseStatusXML scans a TSDR case-status document for the fields above.
// Truncated or partially malformed documents contribute whatever parsed
// before the error; the document is usable if a status was found.
func parseCaseStatusXML(body []byte) (records.StatusRecord, bool) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false

	var rec records.StatusRecord
	var current string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			current = t.Name.Local
		case xml.CharData:
			if current == "" {
				continue
			}
			set, interesting := caseStatusElements[current]
			if !interesting {
				continue
			}
			if text := strings.TrimSpace(string(t)); text != "" {
				set(&rec, text)
			}
		case xml.EndElement:
			current = ""
		}
	}
	return rec, rec.Status != ""
}

package records

import "strings"

// NormalizePatents maps whichever batch the raw value carries onto canonical
// patent records, in batch order. Rows without an identifying number are
// dropped. Repeated calls over the same raw value produce identical output.
func NormalizePatents(raw Raw) []PatentRecord {
	var out []PatentRecord
	switch {
	case raw.Browser != nil:
		for _, p := range raw.Browser.Patents {
			out = appendPatent(out, fromBrowserPatent(p))
		}
	case raw.Index != nil:
		for _, p := range raw.Index.Patents {
			out = appendPatent(out, fromIndexPatent(p))
		}
	case raw.Delegate != nil:
		for _, d := range raw.Delegate.Docs {
			if strings.HasPrefix(d.DocType, "trademark") {
				continue
			}
			out = appendPatent(out, fromDelegatePatent(d))
		}
	}
	return out
}

// NormalizeTrademarks is the trademark counterpart of NormalizePatents.
func NormalizeTrademarks(raw Raw) []TrademarkRecord {
	var out []TrademarkRecord
	switch {
	case raw.Browser != nil:
		for _, m := range raw.Browser.Marks {
			out = appendTrademark(out, fromBrowserMark(m))
		}
	case raw.Delegate != nil:
		for _, d := range raw.Delegate.Docs {
			if !strings.HasPrefix(d.DocType, "trademark") {
				continue
			}
			out = appendTrademark(out, fromDelegateMark(d))
		}
	}
	return out
}

func appendPatent(out []PatentRecord, r PatentRecord) []PatentRecord {
	if r.Key() == "" {
		return out
	}
	return append(out, r)
}

func appendTrademark(out []TrademarkRecord, r TrademarkRecord) []TrademarkRecord {
	if r.Key() == "" {
		return out
	}
	return append(out, r)
}

func fromBrowserPatent(p BrowserPatent) PatentRecord {
	return PatentRecord{
		PatentNumber:      normalizeDocNumber(p.Number),
		ApplicationNumber: normalizeDocNumber(p.AppNumber),
		Title:             StripMarkup(p.Title),
		Abstract:          StripMarkup(p.Abstract),
		Inventors:         cleanNames(p.Inventors),
		Applicant:         collapseSpace(p.Assignee),
		FilingDate:        strings.TrimSpace(p.FilingDate),
		GrantDate:         strings.TrimSpace(p.GrantDate),
		Status:            strings.ToLower(strings.TrimSpace(p.Status)),
		URL:               strings.TrimSpace(p.Link),
	}
}

func fromIndexPatent(p IndexPatent) PatentRecord {
	// Fallback chains: structured title before snippet, publication number
	// before application number, enriched abstract before snippet.
	title := StripMarkup(p.Title)
	if title == "" {
		title = StripMarkup(p.Snippet)
	}
	abstract := StripMarkup(p.Abstract)
	if abstract == "" {
		abstract = StripMarkup(p.Snippet)
	}
	num := normalizeDocNumber(p.PublicationNumber)
	rec := PatentRecord{
		PatentNumber:      num,
		ApplicationNumber: normalizeDocNumber(p.ApplicationNumber),
		Title:             title,
		Abstract:          abstract,
		Inventors:         splitNames(p.Inventor),
		Applicant:         collapseSpace(p.Assignee),
		FilingDate:        strings.TrimSpace(p.FilingDate),
		GrantDate:         strings.TrimSpace(p.GrantDate),
		URL:               strings.TrimSpace(p.Link),
	}
	if rec.GrantDate != "" {
		rec.Status = "granted"
	} else {
		rec.Status = "pending"
	}
	if rec.URL == "" && num != "" {
		rec.URL = "https://patents.google.com/patent/" + num + "/en"
	}
	return rec
}

func fromDelegatePatent(d DelegateDoc) PatentRecord {
	title := StripMarkup(firstField(d.Fields, "title"))
	if title == "" {
		title = StripMarkup(d.Title)
	}
	return PatentRecord{
		PatentNumber:      normalizeDocNumber(firstField(d.Fields, "patent_number", "publication_number")),
		ApplicationNumber: normalizeDocNumber(firstField(d.Fields, "application_number")),
		Title:             title,
		Abstract:          StripMarkup(firstField(d.Fields, "abstract")),
		Inventors:         splitNames(firstField(d.Fields, "inventors", "inventor")),
		Applicant:         collapseSpace(firstField(d.Fields, "assignee", "applicant")),
		FilingDate:        strings.TrimSpace(firstField(d.Fields, "filing_date")),
		GrantDate:         strings.TrimSpace(firstField(d.Fields, "grant_date")),
		Status:            strings.ToLower(strings.TrimSpace(firstField(d.Fields, "status"))),
		URL:               strings.TrimSpace(d.URL),
	}
}

func fromBrowserMark(m BrowserMark) TrademarkRecord {
	return TrademarkRecord{
		SerialNumber:       normalizeDocNumber(m.Serial),
		RegistrationNumber: normalizeDocNumber(m.Registration),
		Mark:               StripMarkup(m.Mark),
		Owner:              collapseSpace(m.Owner),
		FilingDate:         strings.TrimSpace(m.FilingDate),
		Status:             strings.ToLower(strings.TrimSpace(m.Status)),
		GoodsAndServices:   StripMarkup(m.Goods),
		URL:                strings.TrimSpace(m.Link),
	}
}

func fromDelegateMark(d DelegateDoc) TrademarkRecord {
	mark := StripMarkup(firstField(d.Fields, "mark", "mark_name"))
	if mark == "" {
		mark = StripMarkup(d.Title)
	}
	return TrademarkRecord{
		SerialNumber:       normalizeDocNumber(firstField(d.Fields, "serial_number")),
		RegistrationNumber: normalizeDocNumber(firstField(d.Fields, "registration_number")),
		Mark:               mark,
		Owner:              collapseSpace(firstField(d.Fields, "owner")),
		FilingDate:         strings.TrimSpace(firstField(d.Fields, "filing_date")),
		Status:             strings.ToLower(strings.TrimSpace(firstField(d.Fields, "status"))),
		GoodsAndServices:   StripMarkup(firstField(d.Fields, "goods_services", "goods_and_services")),
		URL:                strings.TrimSpace(d.URL),
	}
}

// firstField returns the first non-blank value among the named keys.
func firstField(fields map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(fields[k]); v != "" {
			return v
		}
	}
	return ""
}

// splitNames breaks a "A. Inventor, B. Inventor" style list into names.
func splitNames(s string) []string {
	return cleanNames(strings.Split(s, ","))
}

func cleanNames(in []string) []string {
	var out []string
	for _, n := range in {
		if n = collapseSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

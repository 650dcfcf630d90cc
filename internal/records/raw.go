package records

// Adapter identifiers, reported as sourceUsed on every search response.
const (
	SourceBrowser  = "browser"
	SourceIndex    = "index"
	SourceDelegate = "delegate"
	SourceFallback = "fallback"
	SourceNone     = "none"
)

// Raw is the tagged union of adapter-native result shapes. Exactly one batch
// pointer is set per value; only the normalizer consumes it, so field-shape
// differences between adapters never leak past this package.
type Raw struct {
	Adapter  string
	Browser  *BrowserBatch
	Index    *IndexBatch
	Delegate *DelegateBatch
}

// Count returns the number of raw entries across whichever batch is set.
func (r Raw) Count() int {
	switch {
	case r.Browser != nil:
		return len(r.Browser.Patents) + len(r.Browser.Marks)
	case r.Index != nil:
		return len(r.Index.Patents)
	case r.Delegate != nil:
		return len(r.Delegate.Docs)
	default:
		return 0
	}
}

// Empty reports whether the raw result carries no entries at all.
func (r Raw) Empty() bool { return r.Count() == 0 }

// BrowserBatch holds rows scraped out of a rendered results page. Fields are
// whatever the page exposed; any of them may be blank.
type BrowserBatch struct {
	Patents []BrowserPatent
	Marks   []BrowserMark
}

// BrowserPatent is one scraped patent result row.
type BrowserPatent struct {
	Number     string
	AppNumber  string
	Title      string
	Abstract   string
	Inventors  []string
	Assignee   string
	FilingDate string
	GrantDate  string
	Status     string
	Link       string
}

// BrowserMark is one scraped trademark result row.
type BrowserMark struct {
	Serial       string
	Registration string
	Mark         string
	Owner        string
	FilingDate   string
	Status       string
	Goods        string
	Link         string
}

// IndexBatch holds entries flattened out of the index's clustered envelope,
// in envelope order.
type IndexBatch struct {
	Patents []IndexPatent
}

// IndexPatent mirrors one entry of the index envelope after flattening.
// Title and Snippet may carry highlight markup; the normalizer strips it.
type IndexPatent struct {
	PublicationNumber string
	ApplicationNumber string
	Title             string
	Snippet           string
	Abstract          string
	Inventor          string
	Assignee          string
	FilingDate        string
	GrantDate         string
	Link              string
}

// DelegateBatch holds documents returned by the delegated extractor.
type DelegateBatch struct {
	Docs []DelegateDoc
}

// DelegateDoc is one extracted document: its classified type plus the
// key/value payload the targeted extraction produced. Field names vary by
// strategy; the normalizer reads them through fallback chains.
type DelegateDoc struct {
	DocType string
	URL     string
	Title   string
	Fields  map[string]string
}

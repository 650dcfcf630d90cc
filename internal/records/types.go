// Package records defines the canonical record model shared by every
// acquisition source: search queries, patent/trademark/status records, the
// tagged raw-output variants adapters produce, and the normalization and
// deduplication pipeline that turns raw output into canonical records.
package records

// Kind selects the registry a query runs against.
type Kind string

const (
	KindPatent    Kind = "patent"
	KindTrademark Kind = "trademark"
)

// ParseKind validates a raw kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPatent:
		return KindPatent, nil
	case KindTrademark:
		return KindTrademark, nil
	default:
		return "", invalidf("unknown kind %q", s)
	}
}

// StatusAll matches records in any prosecution state.
const StatusAll = "all"

// SearchQuery is a validated, canonicalized search request. Construct via
// NormalizeQuery; a query is immutable once built and lives for one request.
type SearchQuery struct {
	Kind               Kind   `json:"kind"`
	Text               string `json:"query"`
	Inventor           string `json:"inventor,omitempty"`
	Applicant          string `json:"applicant,omitempty"`
	Owner              string `json:"owner,omitempty"`
	DateFrom           string `json:"dateFrom,omitempty"`
	DateTo             string `json:"dateTo,omitempty"`
	Status             string `json:"status,omitempty"`
	ClassificationCode string `json:"classificationCode,omitempty"`
	GoodsServices      string `json:"goodsServices,omitempty"`
	Limit              int    `json:"limit,omitempty"`
}

// IsEmpty reports whether the query carries nothing to search on: no free
// text and no best-effort filters. Such queries are answered with an empty
// result before any adapter runs.
func (q SearchQuery) IsEmpty() bool {
	return q.Text == "" && q.Inventor == "" && q.Applicant == "" &&
		q.Owner == "" && q.ClassificationCode == "" && q.GoodsServices == ""
}

// PatentRecord is the canonical shape for one patent or published application.
type PatentRecord struct {
	PatentNumber      string   `json:"patentNumber,omitempty"`
	ApplicationNumber string   `json:"applicationNumber,omitempty"`
	Title             string   `json:"title,omitempty"`
	Abstract          string   `json:"abstract,omitempty"`
	Inventors         []string `json:"inventors,omitempty"`
	Applicant         string   `json:"applicant,omitempty"`
	FilingDate        string   `json:"filingDate,omitempty"`
	GrantDate         string   `json:"grantDate,omitempty"`
	Status            string   `json:"status,omitempty"`
	URL               string   `json:"url,omitempty"`
}

// Key returns the business key used for deduplication: the patent number,
// else the application number, else empty.
func (r PatentRecord) Key() string {
	if r.PatentNumber != "" {
		return r.PatentNumber
	}
	return r.ApplicationNumber
}

// TrademarkRecord is the canonical shape for one trademark filing.
type TrademarkRecord struct {
	SerialNumber       string `json:"serialNumber,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Mark               string `json:"mark,omitempty"`
	Owner              string `json:"owner,omitempty"`
	FilingDate         string `json:"filingDate,omitempty"`
	Status             string `json:"status,omitempty"`
	GoodsAndServices   string `json:"goodsAndServices,omitempty"`
	URL                string `json:"url,omitempty"`
}

// Key returns the business key used for deduplication: the serial number,
// else the registration number, else empty.
func (r TrademarkRecord) Key() string {
	if r.SerialNumber != "" {
		return r.SerialNumber
	}
	return r.RegistrationNumber
}

// Status source values reported on a StatusRecord.
const (
	StatusSourceLive     = "live"
	StatusSourceFallback = "fallback"
)

// StatusRecord describes the current prosecution state of one filing.
type StatusRecord struct {
	Kind           Kind   `json:"kind"`
	Identifier     string `json:"identifier"`
	Status         string `json:"status"`
	Examiner       string `json:"examiner,omitempty"`
	Attorney       string `json:"attorney,omitempty"`
	LastAction     string `json:"lastAction,omitempty"`
	LastActionDate string `json:"lastActionDate,omitempty"`
	Source         string `json:"source"`
	URL            string `json:"url,omitempty"`
}

// CrawlResult is the outcome of one delegated extraction of one URL. It is
// produced and consumed within a single bulk-crawl call and never shared
// across adapters.
type CrawlResult struct {
	URL         string            `json:"url"`
	Success     bool              `json:"success"`
	ContentType string            `json:"contentType,omitempty"`
	Title       string            `json:"title,omitempty"`
	Markdown    string            `json:"markdown,omitempty"`
	Extracted   map[string]string `json:"extracted,omitempty"`
	Error       string            `json:"error,omitempty"`
}

package records

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidQuery is the base of every query validation failure; callers test
// with errors.Is and answer such requests with an empty result set.
var ErrInvalidQuery = errors.New("invalid query")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

const (
	// DefaultLimit applies when a query does not name one.
	DefaultLimit = 20
	// MaxLimit caps the limit before any adapter sees the query.
	MaxLimit = 100

	isoDate = "2006-01-02"
)

var patentStatuses = map[string]bool{
	StatusAll: true, "pending": true, "granted": true, "abandoned": true,
}

var trademarkStatuses = map[string]bool{
	StatusAll: true, "live": true, "dead": true, "pending": true, "registered": true,
}

// NormalizeQuery validates a raw query and returns its canonical form:
// whitespace collapsed, status lowercased and checked against the kind's
// enum, dates parsed and reformatted, limit defaulted and clamped.
// Normalization is idempotent. It fails only on malformed input; an empty
// query is not an error here (see SearchQuery.IsEmpty).
func NormalizeQuery(q SearchQuery) (SearchQuery, error) {
	kind, err := ParseKind(string(q.Kind))
	if err != nil {
		return SearchQuery{}, err
	}

	out := SearchQuery{
		Kind:               kind,
		Text:               collapseSpace(q.Text),
		Inventor:           collapseSpace(q.Inventor),
		Applicant:          collapseSpace(q.Applicant),
		Owner:              collapseSpace(q.Owner),
		ClassificationCode: strings.TrimSpace(q.ClassificationCode),
		GoodsServices:      collapseSpace(q.GoodsServices),
	}

	status := strings.ToLower(strings.TrimSpace(q.Status))
	if status == "" {
		status = StatusAll
	}
	allowed := patentStatuses
	if kind == KindTrademark {
		allowed = trademarkStatuses
	}
	if !allowed[status] {
		return SearchQuery{}, invalidf("status %q not valid for kind %q", q.Status, kind)
	}
	out.Status = status

	out.DateFrom, err = normalizeDate(q.DateFrom)
	if err != nil {
		return SearchQuery{}, invalidf("dateFrom: %v", err)
	}
	out.DateTo, err = normalizeDate(q.DateTo)
	if err != nil {
		return SearchQuery{}, invalidf("dateTo: %v", err)
	}
	if out.DateFrom != "" && out.DateTo != "" && out.DateFrom > out.DateTo {
		return SearchQuery{}, invalidf("dateFrom %s after dateTo %s", out.DateFrom, out.DateTo)
	}

	switch {
	case q.Limit < 0:
		return SearchQuery{}, invalidf("limit %d must be positive", q.Limit)
	case q.Limit == 0:
		out.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		out.Limit = MaxLimit
	default:
		out.Limit = q.Limit
	}

	return out, nil
}

func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(isoDate, s)
	if err != nil {
		return "", fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	return t.Format(isoDate), nil
}

// collapseSpace trims and squeezes interior whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeDocNumber canonicalizes patent/serial numbers so the same filing
// reported by different sources dedups to one key: uppercase, commas and
// interior whitespace removed ("US 11,234,567" -> "US11234567").
func normalizeDocNumber(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")
	return strings.Join(strings.Fields(s), "")
}

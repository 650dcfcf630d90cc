package status

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harborlight/ipsearch/internal/fetch"
	"github.com/harborlight/ipsearch/internal/records"
)

const patentPage = `<html><body>
<table>
  <tr><th>Status</th><td>Patented Case</td></tr>
  <tr><th>Last Action</th><td>Issue notification mailed</td></tr>
  <tr><th>Last Action Date</th><td>2024-02-13</td></tr>
</table>
<p><i>Primary Examiner:</i> Douglas R. Hayes</p>
</body></html>`

const caseStatusXML = `<?xml version="1.0" encoding="UTF-8"?>
<Transaction xmlns="http://www.wipo.int/standards/XMLSchema/trademarks">
  <TradeMarkTransactionBody>
    <TransactionContentDetails>
      <TransactionData>
        <TradeMarkDetails>
          <TradeMark>
            <MarkCurrentStatusDate>2023-05-17</MarkCurrentStatusDate>
            <MarkCurrentStatusExternalDescriptionText>Registered.</MarkCurrentStatusExternalDescriptionText>
            <MarkEvent>
              <MarkEventDate>2023-05-10</MarkEventDate>
              <MarkEventDescriptionText>NOTICE OF REGISTRATION CONFIRMATION EMAILED</MarkEventDescriptionText>
            </MarkEvent>
            <RecordAttorneyName>Jane Q. Counsel</RecordAttorneyName>
          </TradeMark>
        </TradeMarkDetails>
      </TransactionData>
    </TransactionContentDetails>
  </TradeMarkTransactionBody>
</Transaction>`

type countingFetcher struct{ gets int }

func (c *countingFetcher) Get(context.Context, string) (fetch.Response, error) {
	c.gets++
	return fetch.Response{}, fmt.Errorf("unreachable")
}

func newTestChecker(t *testing.T, handler http.Handler) (*Checker, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := fetch.New(fetch.Config{MaxAttempts: 1}, nil, zap.NewNop())
	cfg := Config{
		PatentURL: srv.URL + "/patft?patentnumber=%s",
		MarkURL:   srv.URL + "/ts/cd/casestatus/sn%s/info.xml",
	}
	return New(cfg, client, nil, zap.NewNop()), srv
}

func TestCheck_PatentLive(t *testing.T) {
	t.Parallel()

	checker, _ := newTestChecker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "11234567", r.URL.Query().Get("patentnumber"))
		fmt.Fprint(w, patentPage)
	}))

	rec := checker.Check(context.Background(), records.KindPatent, "11234567")

	require.Equal(t, records.StatusSourceLive, rec.Source)
	require.Equal(t, records.KindPatent, rec.Kind)
	require.Equal(t, "11234567", rec.Identifier)
	require.Equal(t, "Patented Case", rec.Status)
	require.Equal(t, "Douglas R. Hayes", rec.Examiner)
	require.Equal(t, "Issue notification mailed", rec.LastAction)
	require.Equal(t, "2024-02-13", rec.LastActionDate)
	require.Contains(t, rec.URL, "patentnumber=11234567")
}

func TestCheck_TrademarkLive(t *testing.T) {
	t.Parallel()

	var gotPath string
	checker, _ := newTestChecker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, caseStatusXML)
	}))

	rec := checker.Check(context.Background(), records.KindTrademark, "97123456")

	require.Equal(t, "/ts/cd/casestatus/sn97123456/info.xml", gotPath)
	require.Equal(t, records.StatusSourceLive, rec.Source)
	require.Equal(t, "Registered.", rec.Status)
	require.Equal(t, "Jane Q. Counsel", rec.Attorney)
	require.Equal(t, "NOTICE OF REGISTRATION CONFIRMATION EMAILED", rec.LastAction)
	require.Equal(t, "2023-05-17", rec.LastActionDate, "current status date beats event dates")
	require.Contains(t, rec.URL, "caseNumber=97123456")
}

func TestCheck_FetchFailureFallsBack(t *testing.T) {
	t.Parallel()

	checker, _ := newTestChecker(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	first := checker.Check(context.Background(), records.KindPatent, "11234567")
	require.Equal(t, records.StatusSourceFallback, first.Source)
	require.Equal(t, records.KindPatent, first.Kind)
	require.Equal(t, "11234567", first.Identifier)
	require.NotEmpty(t, first.Status)

	second := checker.Check(context.Background(), records.KindPatent, "11234567")
	require.Equal(t, first, second, "fallback records must be deterministic")
}

func TestCheck_BlockedPageFallsBack(t *testing.T) {
	t.Parallel()

	checker, _ := newTestChecker(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>Please verify you are a human to continue.</body></html>`)
	}))

	rec := checker.Check(context.Background(), records.KindPatent, "11234567")
	require.Equal(t, records.StatusSourceFallback, rec.Source)
}

func TestCheck_StatuslessPageFallsBack(t *testing.T) {
	t.Parallel()

	checker, _ := newTestChecker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "casestatus") {
			fmt.Fprint(w, `<Transaction><Unrelated>x</Unrelated></Transaction>`)
			return
		}
		fmt.Fprint(w, `<html><body><p>Search results</p></body></html>`)
	}))

	patent := checker.Check(context.Background(), records.KindPatent, "11234567")
	require.Equal(t, records.StatusSourceFallback, patent.Source)

	mark := checker.Check(context.Background(), records.KindTrademark, "97123456")
	require.Equal(t, records.StatusSourceFallback, mark.Source)
	require.Equal(t, records.KindTrademark, mark.Kind)
	require.NotEmpty(t, mark.Attorney)
}

func TestCheck_BlankIdentifierSkipsFetch(t *testing.T) {
	t.Parallel()

	counting := &countingFetcher{}
	checker := New(Config{}, counting, nil, zap.NewNop())

	rec := checker.Check(context.Background(), records.KindPatent, "   ")

	require.Equal(t, records.StatusSourceFallback, rec.Source)
	require.Empty(t, rec.Identifier)
	require.Zero(t, counting.gets)
}

func TestCheck_UnknownKindFallsBack(t *testing.T) {
	t.Parallel()

	counting := &countingFetcher{}
	checker := New(Config{}, counting, nil, zap.NewNop())

	rec := checker.Check(context.Background(), records.Kind("design"), "123")

	require.Equal(t, records.StatusSourceFallback, rec.Source)
	require.Zero(t, counting.gets)
}

func TestParsePatentPage_NoStatus(t *testing.T) {
	t.Parallel()

	_, ok := parsePatentPage([]byte(`<html><body><h1>No results</h1></body></html>`))
	require.False(t, ok)
}

func TestParseCaseStatusXML_Truncated(t *testing.T) {
	t.Parallel()

	// Document cut off mid-stream: everything parsed before the break still
	// counts.
	truncated := caseStatusXML[:strings.Index(caseStatusXML, "<MarkEvent>")]
	rec, ok := parseCaseStatusXML([]byte(truncated))
	require.True(t, ok)
	require.Equal(t, "Registered.", rec.Status)
	require.Equal(t, "2023-05-17", rec.LastActionDate)
}

func TestParseCaseStatusXML_Garbage(t *testing.T) {
	t.Parallel()

	_, ok := parseCaseStatusXML([]byte("{not xml at all"))
	require.False(t, ok)
}

package records

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePatentsFromIndex(t *testing.T) {
	t.Parallel()

	raw := Raw{
		Adapter: SourceIndex,
		Index: &IndexBatch{Patents: []IndexPatent{
			{
				PublicationNumber: "US11234567B2",
				Title:             "Neural <b>network</b> accelerator",
				Snippet:           "A neural &amp; symbolic accelerator.",
				Inventor:          "Ada Example, Grace Sample",
				Assignee:          "Acme Corp",
				FilingDate:        "2019-04-01",
				GrantDate:         "2021-06-15",
			},
			{
				// No structured title, no grant date: snippet and pending
				// status fallbacks apply.
				ApplicationNumber: "17/123456",
				Snippet:           "Strain of <b>quantum</b> sensing",
			},
			{
				// No identifier at all: dropped.
				Title: "Orphan row",
			},
		}},
	}

	got := NormalizePatents(raw)
	require.Len(t, got, 2)

	assert.Equal(t, "US11234567B2", got[0].PatentNumber)
	assert.Equal(t, "Neural network accelerator", got[0].Title)
	assert.Equal(t, "A neural & symbolic accelerator.", got[0].Abstract)
	assert.Equal(t, []string{"Ada Example", "Grace Sample"}, got[0].Inventors)
	assert.Equal(t, "granted", got[0].Status)
	assert.Equal(t, "https://patents.google.com/patent/US11234567B2/en", got[0].URL)

	assert.Equal(t, "17/123456", got[1].ApplicationNumber)
	assert.Equal(t, "Strain of quantum sensing", got[1].Title)
	assert.Equal(t, "pending", got[1].Status)
	assert.Empty(t, got[1].URL, "no publication number, no derived URL")
}

// Identical raw input must normalize to identical output on every pass.
func TestNormalizePatentsIdempotent(t *testing.T) {
	t.Parallel()

	raw := Raw{
		Adapter: SourceIndex,
		Index: &IndexBatch{Patents: []IndexPatent{
			{PublicationNumber: "US10111213", Title: "First <b>hit</b>"},
			{PublicationNumber: "US10111214", Snippet: "Second &lt;hit&gt;"},
		}},
	}
	first := NormalizePatents(raw)
	second := NormalizePatents(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected byte-identical parses, got %+v then %+v", first, second)
	}
}

func TestNormalizePatentsFromDelegate(t *testing.T) {
	t.Parallel()

	raw := Raw{
		Adapter: SourceDelegate,
		Delegate: &DelegateBatch{Docs: []DelegateDoc{
			{
				DocType: "patent-grant",
				URL:     "https://ppubs.uspto.gov/p/1",
				Fields: map[string]string{
					"publication_number": "US 9,876,543",
					"title":              "Widget <i>press</i>",
					"inventors":          "Lee Maker,  Kim Builder ",
					"status":             "Granted",
				},
			},
			{
				// Trademark docs are not patents; skipped here.
				DocType: "trademark-registration",
				Fields:  map[string]string{"serial_number": "97123456"},
			},
		}},
	}

	got := NormalizePatents(raw)
	require.Len(t, got, 1)
	assert.Equal(t, "US9876543", got[0].PatentNumber)
	assert.Equal(t, "Widget press", got[0].Title)
	assert.Equal(t, []string{"Lee Maker", "Kim Builder"}, got[0].Inventors)
	assert.Equal(t, "granted", got[0].Status)
	assert.Equal(t, "https://ppubs.uspto.gov/p/1", got[0].URL)
}

func TestNormalizeTrademarks(t *testing.T) {
	t.Parallel()

	raw := Raw{
		Adapter: SourceBrowser,
		Browser: &BrowserBatch{Marks: []BrowserMark{
			{Serial: "97 123,456", Mark: "ACME <b>CLOUD</b>", Owner: "Acme  Corp", Status: "LIVE"},
			{Mark: "No identifier"},
		}},
	}

	got := NormalizeTrademarks(raw)
	require.Len(t, got, 1)
	assert.Equal(t, "97123456", got[0].SerialNumber)
	assert.Equal(t, "ACME CLOUD", got[0].Mark)
	assert.Equal(t, "Acme Corp", got[0].Owner)
	assert.Equal(t, "live", got[0].Status)
}

func TestNormalizeTrademarksFromDelegate(t *testing.T) {
	t.Parallel()

	raw := Raw{
		Adapter: SourceDelegate,
		Delegate: &DelegateBatch{Docs: []DelegateDoc{
			{
				DocType: "trademark-application",
				URL:     "https://tsdr.uspto.gov/#caseNumber=97123456",
				Title:   "ACME CLOUD application",
				Fields: map[string]string{
					"serial_number":  "97123456",
					"owner":          "Acme Corp",
					"goods_services": "Cloud &amp; storage services",
				},
			},
			{DocType: "patent-grant", Fields: map[string]string{"patent_number": "US1"}},
		}},
	}

	got := NormalizeTrademarks(raw)
	require.Len(t, got, 1)
	assert.Equal(t, "97123456", got[0].SerialNumber)
	assert.Equal(t, "Cloud & storage services", got[0].GoodsAndServices)
	// No explicit mark field: doc title fills in.
	assert.Equal(t, "ACME CLOUD application", got[0].Mark)
}

func TestRawCount(t *testing.T) {
	t.Parallel()

	if !(Raw{}).Empty() {
		t.Fatal("zero value should be empty")
	}
	r := Raw{Browser: &BrowserBatch{
		Patents: []BrowserPatent{{Number: "US1"}},
		Marks:   []BrowserMark{{Serial: "1"}, {Serial: "2"}},
	}}
	if got := r.Count(); got != 3 {
		t.Fatalf("expected count 3, got %d", got)
	}
}

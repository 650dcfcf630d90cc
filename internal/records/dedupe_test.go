package records

import (
	"reflect"
	"testing"
)

// Two sources reporting the same patent number with different titles must
// collapse to the first-encountered record.
func TestDedupePatentsFirstWins(t *testing.T) {
	t.Parallel()

	in := []PatentRecord{
		{PatentNumber: "US11234567", Title: "Browser title"},
		{PatentNumber: "US99999999", Title: "Other"},
		{PatentNumber: "US11234567", Title: "Index title"},
	}

	got := DedupePatents(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Title != "Browser title" {
		t.Fatalf("expected first occurrence to survive, got %q", got[0].Title)
	}
	if got[1].PatentNumber != "US99999999" {
		t.Fatalf("expected stable order, got %+v", got)
	}
}

func TestDedupePatentsKeyFallback(t *testing.T) {
	t.Parallel()

	in := []PatentRecord{
		{ApplicationNumber: "17/000001", Title: "By application number"},
		{ApplicationNumber: "17/000001", Title: "Duplicate"},
		{Title: "Keyless, dropped"},
	}

	got := DedupePatents(in)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Title != "By application number" {
		t.Fatalf("unexpected survivor %+v", got[0])
	}
}

func TestDedupeTrademarks(t *testing.T) {
	t.Parallel()

	in := []TrademarkRecord{
		{SerialNumber: "97123456", Mark: "FIRST"},
		{RegistrationNumber: "6543210", Mark: "REG ONLY"},
		{SerialNumber: "97123456", Mark: "SECOND"},
		{Mark: "keyless"},
	}

	got := DedupeTrademarks(in)
	want := []TrademarkRecord{
		{SerialNumber: "97123456", Mark: "FIRST"},
		{RegistrationNumber: "6543210", Mark: "REG ONLY"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

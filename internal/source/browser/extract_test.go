package browser

import (
	"reflect"
	"testing"
)

const patentTableHTML = `<!doctype html>
<html><body>
<div class="search-results-display">
<table><tbody>
<tr><td>Heading</td></tr>
<tr>
  <td class="result-index">1</td>
  <td class="patent-number"><a href="/patent/11234567">11234567</a></td>
  <td class="patent-title">Machine learning inference engine</td>
  <td class="inventors">Smith, John; Lee, Ana</td>
  <td class="assignee">Acme Corp</td>
  <td class="filing-date">2021-03-15</td>
  <td class="grant-date">2023-06-01</td>
</tr>
<tr>
  <td class="result-index">2</td>
  <td class="patent-number">10987654</td>
  <td class="patent-title"></td>
  <td class="inventors"></td>
</tr>
<tr>
  <td class="result-index">3</td>
  <td class="patent-number"></td>
  <td class="patent-title"></td>
</tr>
</tbody></table>
</div>
</body></html>`

func TestParsePatentRows(t *testing.T) {
	rows := parsePatentRows(patentTableHTML, "https://ppubs.example.gov/pubwebapp/", 0)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (header and empty row dropped)", len(rows))
	}

	first := rows[0]
	if first.Number != "11234567" {
		t.Errorf("Number = %q", first.Number)
	}
	if first.Title != "Machine learning inference engine" {
		t.Errorf("Title = %q", first.Title)
	}
	if want := []string{"Smith, John", "Lee, Ana"}; !reflect.DeepEqual(first.Inventors, want) {
		t.Errorf("Inventors = %v, want %v", first.Inventors, want)
	}
	if first.Assignee != "Acme Corp" {
		t.Errorf("Assignee = %q", first.Assignee)
	}
	if first.Link != "https://ppubs.example.gov/patent/11234567" {
		t.Errorf("Link = %q, relative href not resolved", first.Link)
	}

	// Second row has a number but no title: kept, with gaps left blank.
	if rows[1].Number != "10987654" || rows[1].Title != "" {
		t.Errorf("second row = %+v", rows[1])
	}
}

func TestParsePatentRowsLimit(t *testing.T) {
	rows := parsePatentRows(patentTableHTML, "https://ppubs.example.gov/", 1)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Number != "11234567" {
		t.Errorf("kept row = %+v, want first discovered", rows[0])
	}
}

func TestParsePatentRowsFallbackLayout(t *testing.T) {
	html := `<html><body>
<div class="result-item">
  <a class="doc-number" href="https://example.gov/doc/2">US2</a>
  <h3>Quantum annealing device</h3>
  <p class="abstract">A device.</p>
</div>
<div class="result-item">
  <h3></h3>
</div>
</body></html>`

	rows := parsePatentRows(html, "https://example.gov/", 0)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Number != "US2" || rows[0].Title != "Quantum annealing device" || rows[0].Abstract != "A device." {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestParsePatentRowsNoResults(t *testing.T) {
	if rows := parsePatentRows("<html><body><p>no hits</p></body></html>", "", 0); rows != nil {
		t.Fatalf("rows = %v, want nil", rows)
	}
}

func TestParseMarkRows(t *testing.T) {
	html := `<html><body>
<div class="search-results">
<table><tbody>
<tr>
  <td class="serial-number">97123456</td>
  <td class="mark-name">NEURALEDGE</td>
  <td class="owner">Edge AI Inc</td>
  <td class="status">LIVE</td>
  <td class="goods-services">Computer software</td>
</tr>
<tr>
  <td class="serial-number"></td>
  <td class="mark-name"></td>
</tr>
</tbody></table>
</div>
</body></html>`

	rows := parseMarkRows(html, "https://tmsearch.example.gov/", 0)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.Serial != "97123456" || row.Mark != "NEURALEDGE" || row.Owner != "Edge AI Inc" {
		t.Errorf("row = %+v", row)
	}
	if row.Status != "LIVE" || row.Goods != "Computer software" {
		t.Errorf("status/goods = %q/%q", row.Status, row.Goods)
	}
}

func TestSplitNames(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Smith, John; Lee, Ana", []string{"Smith, John", "Lee, Ana"}},
		{"John Smith, Ana Lee", []string{"John Smith", "Ana Lee"}},
		{"  Solo Inventor  ", []string{"Solo Inventor"}},
		{"", nil},
	}
	for _, tc := range cases {
		got := splitNames(tc.in)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitNames(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

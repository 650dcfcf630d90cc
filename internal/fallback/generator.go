// Package fallback produces the deterministic synthetic dataset served when
// every live acquisition strategy fails. The orchestrator's contract is to
// always answer; this is the answer of last resort, and responses built here
// are always tagged sourceUsed="fallback" so callers can tell.
package fallback

import (
	"fmt"
	"strings"

	"github.com/harborlight/ipsearch/internal/records"
)

// Generator maps a query onto a fixed, query-keyed record set. Pure: no
// randomness, no clock, no I/O, so identical queries yield identical output.
type Generator struct{}

// New creates a Generator.
func New() *Generator {
	return &Generator{}
}

// Patents returns the themed or generic synthetic patent set for the query.
func (g *Generator) Patents(q records.SearchQuery) []records.PatentRecord {
	theme := classifyTheme(q.Text)
	if set, ok := patentSets[theme]; ok {
		return clonePatents(set)
	}
	return genericPatents(q.Text)
}

// Trademarks returns the themed or generic synthetic trademark set.
func (g *Generator) Trademarks(q records.SearchQuery) []records.TrademarkRecord {
	theme := classifyTheme(q.Text)
	if set, ok := trademarkSets[theme]; ok {
		return cloneTrademarks(set)
	}
	return genericTrademarks(q.Text)
}

type theme string

const (
	themeAI         theme = "ai"
	themeBlockchain theme = "blockchain"
	themeQuantum    theme = "quantum"
	themeGeneric    theme = "generic"
)

// themeSignals pairs a theme with its phrase and whole-word signals. Phrases
// match as substrings; words match whole tokens only, so "blockchain" never
// trips the "ai" signal buried inside it.
var themeSignals = []struct {
	theme   theme
	phrases []string
	words   []string
}{
	{themeAI, []string{"artificial intelligence", "machine learning", "deep learning"}, []string{"ai", "neural"}},
	{themeBlockchain, []string{"distributed ledger", "smart contract"}, []string{"blockchain", "cryptocurrency"}},
	{themeQuantum, []string{"quantum computing", "quantum key"}, []string{"quantum", "qubit"}},
}

func classifyTheme(text string) theme {
	lower := strings.ToLower(text)
	tokens := strings.Fields(lower)
	for _, sig := range themeSignals {
		for _, p := range sig.phrases {
			if strings.Contains(lower, p) {
				return sig.theme
			}
		}
		for _, w := range sig.words {
			for _, tok := range tokens {
				if strings.Trim(tok, ".,;:()") == w {
					return sig.theme
				}
			}
		}
	}
	return themeGeneric
}

func genericPatents(text string) []records.PatentRecord {
	subject := text
	if subject == "" {
		subject = "the claimed subject matter"
	}
	return []records.PatentRecord{
		{
			PatentNumber: "US10000001B2",
			Title:        fmt.Sprintf("System and method for %s", subject),
			Abstract:     fmt.Sprintf("A system and associated methods relating to %s, comprising a processor and a memory storing instructions.", subject),
			Inventors:    []string{"John A. Smith", "Mary L. Johnson"},
			Applicant:    "Innovation Technologies Inc.",
			FilingDate:   "2021-03-15",
			GrantDate:    "2023-08-22",
			Status:       "granted",
			URL:          "https://patents.google.com/patent/US10000001B2/en",
		},
		{
			ApplicationNumber: "17/500001",
			Title:             fmt.Sprintf("Apparatus for improved %s", subject),
			Abstract:          fmt.Sprintf("An apparatus directed to improvements in %s.", subject),
			Inventors:         []string{"Robert K. Williams"},
			Applicant:         "Advanced Solutions LLC",
			FilingDate:        "2022-11-01",
			Status:            "pending",
			URL:               "https://patents.google.com/patent/US20230123456A1/en",
		},
	}
}

func genericTrademarks(text string) []records.TrademarkRecord {
	subject := text
	if subject == "" {
		subject = "goods and services"
	}
	return []records.TrademarkRecord{
		{
			SerialNumber:     "97000001",
			Mark:             strings.ToUpper(firstWord(subject)) + "PRO",
			Owner:            "Brandworks Holdings LLC",
			FilingDate:       "2022-06-10",
			Status:           "pending",
			GoodsAndServices: fmt.Sprintf("Products and services in the field of %s", subject),
			URL:              "https://tsdr.uspto.gov/#caseNumber=97000001&caseType=SERIAL_NO",
		},
		{
			SerialNumber:       "90000002",
			RegistrationNumber: "6800002",
			Mark:               strings.ToUpper(firstWord(subject)) + "WORKS",
			Owner:              "Meridian Brands Inc.",
			FilingDate:         "2020-09-28",
			Status:             "registered",
			GoodsAndServices:   fmt.Sprintf("Retail and online services featuring %s", subject),
			URL:                "https://tsdr.uspto.gov/#caseNumber=90000002&caseType=SERIAL_NO",
		},
	}
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "MARK"
	}
	word := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, fields[0])
	if word == "" {
		return "MARK"
	}
	return word
}

func clonePatents(in []records.PatentRecord) []records.PatentRecord {
	out := make([]records.PatentRecord, len(in))
	copy(out, in)
	for i := range out {
		out[i].Inventors = append([]string(nil), in[i].Inventors...)
	}
	return out
}

func cloneTrademarks(in []records.TrademarkRecord) []records.TrademarkRecord {
	out := make([]records.TrademarkRecord, len(in))
	copy(out, in)
	return out
}

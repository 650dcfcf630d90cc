package delegate

// Second-pass extraction strategies per classified document type. Patent and
// PTAB pages vary too much for fixed selectors, so they get a natural-language
// instruction; trademark status pages are uniform enough for a selector map.

const patentInstruction = `Extract every patent or patent application described on this page.
Return a JSON array of objects with these fields where present:
patent_number, application_number, title, abstract, inventors, assignee,
filing_date, grant_date, status. Use empty strings for missing fields.`

const ptabInstruction = `Extract the board decision described on this page.
Return a JSON array with one object with these fields where present:
case_number, patent_number, title, decision, decision_date, petitioner,
patent_owner. Use empty strings for missing fields.`

var trademarkSelectors = map[string]string{
	"serial_number":       ".serial-number, td.serial",
	"registration_number": ".registration-number, td.registration",
	"mark":                ".mark-name, .wordmark, h1",
	"owner":               ".owner-name, .owner",
	"status":              ".status, .mark-status",
	"filing_date":         ".filing-date",
	"goods_services":      ".goods-services, .goods",
}

// planRequest builds the second-pass harness request for a classified type.
func planRequest(url, docType string) harnessRequest {
	switch {
	case docType == DocPTABDecision:
		return harnessRequest{URL: url, Strategy: strategyLLM, Instruction: ptabInstruction}
	case patentFamily(docType):
		return harnessRequest{URL: url, Strategy: strategyLLM, Instruction: patentInstruction}
	case trademarkFamily(docType):
		return harnessRequest{URL: url, Strategy: strategySelector, Selectors: trademarkSelectors}
	default:
		return harnessRequest{URL: url, Strategy: strategyAuto}
	}
}

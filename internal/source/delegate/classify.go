package delegate

import "strings"

// Document types produced by the first-pass classifier. The type picks the
// second-pass extraction strategy.
const (
	DocPatentApplication     = "patent-application"
	DocPatentGrant           = "patent-grant"
	DocPatentGeneral         = "patent-general"
	DocTrademarkRegistration = "trademark-registration"
	DocTrademarkApplication  = "trademark-application"
	DocTrademarkGeneral      = "trademark-general"
	DocPTABDecision          = "ptab-decision"
	DocGeneral               = "general"
)

// Classify inspects first-pass title and content for keyword signals and
// returns the document type. Checks run in priority order. PTAB decisions are
// tested before the patent family: board decisions mention "patent"
// throughout and would otherwise never be reached.
func Classify(title, content string) string {
	text := strings.ToLower(title + " " + content)

	hasPatent := strings.Contains(text, "patent")
	hasTrademark := strings.Contains(text, "trademark")

	if hasPatent && strings.Contains(text, "trial") && strings.Contains(text, "appeal") {
		return DocPTABDecision
	}

	if hasPatent {
		switch {
		case strings.Contains(text, "application"):
			return DocPatentApplication
		case strings.Contains(text, "grant"):
			return DocPatentGrant
		default:
			return DocPatentGeneral
		}
	}

	if hasTrademark {
		switch {
		case strings.Contains(text, "registration"):
			return DocTrademarkRegistration
		case strings.Contains(text, "application"):
			return DocTrademarkApplication
		default:
			return DocTrademarkGeneral
		}
	}

	return DocGeneral
}

// patentFamily reports whether the type uses instruction-driven extraction.
func patentFamily(docType string) bool {
	switch docType {
	case DocPatentApplication, DocPatentGrant, DocPatentGeneral, DocPTABDecision:
		return true
	default:
		return false
	}
}

// trademarkFamily reports whether the type uses selector-map extraction.
func trademarkFamily(docType string) bool {
	switch docType {
	case DocTrademarkRegistration, DocTrademarkApplication, DocTrademarkGeneral:
		return true
	default:
		return false
	}
}

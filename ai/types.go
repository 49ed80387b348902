package ai

import (
	"fmt"
	"strings"
)

// DocumentTypes defines the classification categories the analyzer
// chooses from. "ERROR" is reserved for degraded results.
var DocumentTypes = []string{
	"INVOICE",
	"RECEIPT",
	"CONTRACT",
	"BANK_STATEMENT",
	"RESUME",
	"PURCHASE_ORDER",
	"TECHNICAL_REPORT",
	"OTHER",
}

// Analysis is the structured output of document analysis. The schema
// is advisory, not enforced: the remote model's output shape is not
// contractually guaranteed, so fields are kept as a loose mapping and
// coerced through the accessors at the point of use.
type Analysis map[string]any

// str returns the named field coerced to a string, or fallback when
// absent, null, or blank.
func (a Analysis) str(key, fallback string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Type returns the classified document category, or "OTHER" when absent.
func (a Analysis) Type() string {
	return a.str("type", "OTHER")
}

// Summary returns the executive summary string.
func (a Analysis) Summary() string {
	return a.str("summary", "No summary provided.")
}

// Vendor returns the extracted vendor name.
func (a Analysis) Vendor() string {
	return a.str("vendor", "Unknown")
}

// TotalAmount returns the extracted total as a currency-formatted string.
func (a Analysis) TotalAmount() string {
	return a.str("total_amount", "0")
}

// Date returns the extracted document date.
func (a Analysis) Date() string {
	return a.str("date", "Unknown")
}

// Degraded reports whether this analysis is a degraded fallback value
// produced after a remote failure.
func (a Analysis) Degraded() bool {
	return a.Type() == "ERROR"
}

// DegradedAnalysis builds the fallback analysis value used when the
// remote capability fails. It is always a valid Analysis; consumers
// branch on Degraded instead of handling an error.
func DegradedAnalysis(reason string) Analysis {
	return Analysis{
		"type":         "ERROR",
		"summary":      "Deep analysis failed: " + reason,
		"vendor":       "Unknown",
		"total_amount": "0.00",
	}
}

// MathAudit is the result of an arithmetic audit over a document's
// financial figures. CalculatedTotal is the model's computation of
// subtotal - discount + tax + shipping.
type MathAudit struct {
	FoundSubtotal   float64 `json:"found_subtotal"`
	FoundDiscount   float64 `json:"found_discount"`
	FoundTax        float64 `json:"found_tax"`
	FoundShipping   float64 `json:"found_shipping"`
	FoundTotal      float64 `json:"found_total"`
	CalculatedTotal float64 `json:"calculated_total"`
	IsMathCorrect   bool    `json:"is_math_correct"`
	Explanation     string  `json:"explanation"`
}

// DegradedMathAudit builds the fallback audit value used when the
// remote capability fails.
func DegradedMathAudit(reason string) MathAudit {
	return MathAudit{
		IsMathCorrect: false,
		Explanation:   "Audit failed: " + reason,
	}
}

// RiskAudit is the result of comparing a document against vendor history.
type RiskAudit struct {
	RiskScore      int      `json:"risk_score"`
	RiskLevel      string   `json:"risk_level"`
	Flags          []string `json:"flags"`
	Recommendation string   `json:"recommendation"`
}

// Degraded reports whether this audit is a fallback value produced
// after a remote failure.
func (r RiskAudit) Degraded() bool {
	return r.RiskLevel == "ERROR"
}

// DegradedRiskAudit builds the fallback audit value used when the
// remote capability fails.
func DegradedRiskAudit(reason string) RiskAudit {
	return RiskAudit{
		RiskLevel:      "ERROR",
		Flags:          []string{"Audit failed: " + reason},
		Recommendation: "Manual Review",
	}
}

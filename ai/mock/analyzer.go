package mock

import (
	"context"

	"github.com/xentrohq/docvault/ai"
	"github.com/xentrohq/docvault/core"
)

// MockAnalyzer is a test double for ai.Analyzer.
// It allows custom behavior injection via function fields; defaults
// return plausible non-degraded values.
type MockAnalyzer struct {
	// AnalyzeDocumentFunc is called by AnalyzeDocument if set.
	AnalyzeDocumentFunc func(ctx context.Context, text string) ai.Analysis

	// VerifyMathFunc is called by VerifyMath if set.
	VerifyMathFunc func(ctx context.Context, text string) ai.MathAudit

	// AuditDocumentFunc is called by AuditDocument if set.
	AuditDocumentFunc func(ctx context.Context, text string, history []core.VendorHistoryEntry) ai.RiskAudit

	// RedactFunc is called by Redact if set.
	RedactFunc func(ctx context.Context, data map[string]any) map[string]any

	// ChatFunc is called by Chat if set.
	ChatFunc func(ctx context.Context, contextText, question string) string

	callCount int
}

// NewMockAnalyzer creates a mock analyzer with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{}
}

// AnalyzeDocument returns a canned invoice analysis by default.
func (m *MockAnalyzer) AnalyzeDocument(ctx context.Context, text string) ai.Analysis {
	m.callCount++

	if m.AnalyzeDocumentFunc != nil {
		return m.AnalyzeDocumentFunc(ctx, text)
	}

	return ai.Analysis{
		"type":         "INVOICE",
		"vendor":       "Mock Vendor",
		"total_amount": "$100.00",
		"date":         "2026-01-01",
		"summary":      "Mock analysis summary.",
	}
}

// VerifyMath reports correct arithmetic by default.
func (m *MockAnalyzer) VerifyMath(ctx context.Context, text string) ai.MathAudit {
	m.callCount++

	if m.VerifyMathFunc != nil {
		return m.VerifyMathFunc(ctx, text)
	}

	return ai.MathAudit{IsMathCorrect: true, Explanation: "Mock audit."}
}

// AuditDocument returns a low-risk assessment by default, flagging new
// vendors when the history is empty.
func (m *MockAnalyzer) AuditDocument(ctx context.Context, text string, history []core.VendorHistoryEntry) ai.RiskAudit {
	m.callCount++

	if m.AuditDocumentFunc != nil {
		return m.AuditDocumentFunc(ctx, text, history)
	}

	if len(history) == 0 {
		return ai.RiskAudit{
			RiskScore:      50,
			RiskLevel:      "MEDIUM",
			Flags:          []string{"New Vendor Risk"},
			Recommendation: "Audit",
		}
	}
	return ai.RiskAudit{RiskScore: 10, RiskLevel: "LOW", Recommendation: "Approve"}
}

// Redact returns the input unchanged by default.
func (m *MockAnalyzer) Redact(ctx context.Context, data map[string]any) map[string]any {
	m.callCount++

	if m.RedactFunc != nil {
		return m.RedactFunc(ctx, data)
	}

	return data
}

// Chat echoes a canned answer by default.
func (m *MockAnalyzer) Chat(ctx context.Context, contextText, question string) string {
	m.callCount++

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, contextText, question)
	}

	if contextText == "" {
		return "Information not found."
	}
	return "Mock answer."
}

// CallCount returns the number of times any method was called.
func (m *MockAnalyzer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockAnalyzer) Reset() {
	m.callCount = 0
	m.AnalyzeDocumentFunc = nil
	m.VerifyMathFunc = nil
	m.AuditDocumentFunc = nil
	m.RedactFunc = nil
	m.ChatFunc = nil
}

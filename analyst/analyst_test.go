package analyst

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xentrohq/docvault/ai"
	"github.com/xentrohq/docvault/ai/mock"
	"github.com/xentrohq/docvault/core"
	"github.com/xentrohq/docvault/knowledge"
	"github.com/xentrohq/docvault/store"
	"github.com/xentrohq/docvault/store/chromem"
	"github.com/xentrohq/docvault/store/sqlite"
)

func newTestStore(t *testing.T) *knowledge.Store {
	t.Helper()

	documents, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)

	index, err := chromem.NewIndex("", mock.NewMockEmbedder())
	require.NoError(t, err)

	s, err := knowledge.NewStore(documents, index)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func saveDoc(t *testing.T, s *knowledge.Store, filename, text, vendor, total string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	id, err := s.SaveDocument(context.Background(), filename, path, text,
		ai.Analysis{
			"document_type": "INVOICE",
			"summary":       "Invoice from " + vendor,
			"vendor":        vendor,
			"total_amount":  total,
			"date":          "2025-04-01",
		}, nil, "hash-"+filename)
	require.NoError(t, err)
	return id
}

func TestNew_RequiresDependencies(t *testing.T) {
	s := newTestStore(t)

	_, err := New(nil, mock.NewMockAnalyzer())
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = New(s, nil)
	assert.ErrorIs(t, err, ErrAnalyzerRequired)
}

func TestChat_GlobalContext(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 7; i++ {
		name := fmt.Sprintf("doc%d.pdf", i)
		saveDoc(t, s, name, "invoice text "+name, "Acme", "$10.00")
	}

	analyzer := mock.NewMockAnalyzer()
	var gotContext string
	analyzer.ChatFunc = func(ctx context.Context, contextText, question string) string {
		gotContext = contextText
		return "answer"
	}

	a, err := New(s, analyzer)
	require.NoError(t, err)

	answer, err := a.Chat(context.Background(), "what did we pay?", "")
	require.NoError(t, err)
	assert.Equal(t, "answer", answer)

	// Unfiltered chat gathers five context blocks.
	assert.Len(t, strings.Split(gotContext, "\n"), 5)
}

func TestChat_FilenamePinsContext(t *testing.T) {
	s := newTestStore(t)
	saveDoc(t, s, "target.pdf", "target invoice text", "Acme", "$10.00")
	saveDoc(t, s, "other.pdf", "other invoice text", "Globex", "$20.00")

	analyzer := mock.NewMockAnalyzer()
	var gotContext string
	analyzer.ChatFunc = func(ctx context.Context, contextText, question string) string {
		gotContext = contextText
		return "pinned"
	}

	a, err := New(s, analyzer)
	require.NoError(t, err)

	_, err = a.Chat(context.Background(), "question", "target.pdf")
	require.NoError(t, err)
	assert.Contains(t, gotContext, "target invoice text")
	assert.NotContains(t, gotContext, "other invoice text")
}

func TestChat_EmptyKnowledgeBase(t *testing.T) {
	a, err := New(newTestStore(t), mock.NewMockAnalyzer())
	require.NoError(t, err)

	answer, err := a.Chat(context.Background(), "anything?", "")
	require.NoError(t, err)
	assert.Equal(t, "Information not found.", answer)
}

func TestGlobalQuery_ReturnsSources(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("gq%d.pdf", i)
		saveDoc(t, s, name, "payment record "+name, "Acme", "$10.00")
	}

	a, err := New(s, mock.NewMockAnalyzer())
	require.NoError(t, err)

	answer, hits, err := a.GlobalQuery(context.Background(), "payment record")
	require.NoError(t, err)
	assert.Equal(t, "Mock answer.", answer)
	assert.Len(t, hits, 3)
}

func TestAudit_UsesVendorHistory(t *testing.T) {
	s := newTestStore(t)
	saveDoc(t, s, "old.pdf", "old invoice", "Super Store Inc.", "$50.00")
	saveDoc(t, s, "new.pdf", "new invoice", "Super Store", "$900.00")

	analyzer := mock.NewMockAnalyzer()
	var gotHistory []core.VendorHistoryEntry
	analyzer.AuditDocumentFunc = func(ctx context.Context, text string, history []core.VendorHistoryEntry) ai.RiskAudit {
		gotHistory = history
		return ai.RiskAudit{RiskScore: 80, RiskLevel: "HIGH", Recommendation: "Reject"}
	}

	a, err := New(s, analyzer)
	require.NoError(t, err)

	audit, err := a.Audit(context.Background(), "new.pdf")
	require.NoError(t, err)
	assert.Equal(t, "HIGH", audit.RiskLevel)

	// The audited document itself is excluded from its baseline.
	require.Len(t, gotHistory, 1)
	assert.Equal(t, "old.pdf", gotHistory[0].Filename)
}

func TestAudit_UnknownFilename(t *testing.T) {
	a, err := New(newTestStore(t), mock.NewMockAnalyzer())
	require.NoError(t, err)

	_, err = a.Audit(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestVerifyMath(t *testing.T) {
	s := newTestStore(t)
	saveDoc(t, s, "math.pdf", "Subtotal $90, Tax $10, Total $100", "Acme", "$100.00")

	analyzer := mock.NewMockAnalyzer()
	var gotText string
	analyzer.VerifyMathFunc = func(ctx context.Context, text string) ai.MathAudit {
		gotText = text
		return ai.MathAudit{IsMathCorrect: true, Explanation: "checks out"}
	}

	a, err := New(s, analyzer)
	require.NoError(t, err)

	audit, err := a.VerifyMath(context.Background(), "math.pdf")
	require.NoError(t, err)
	assert.True(t, audit.IsMathCorrect)
	assert.Contains(t, gotText, "Total $100")

	_, err = a.VerifyMath(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRedact(t *testing.T) {
	s := newTestStore(t)
	saveDoc(t, s, "pii.pdf", "invoice with PII", "Acme", "$10.00")

	analyzer := mock.NewMockAnalyzer()
	analyzer.RedactFunc = func(ctx context.Context, data map[string]any) map[string]any {
		out := make(map[string]any, len(data))
		for k := range data {
			out[k] = "[REDACTED]"
		}
		return out
	}

	a, err := New(s, analyzer)
	require.NoError(t, err)

	redacted, err := a.Redact(context.Background(), "pii.pdf")
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED]", redacted["vendor"])

	_, err = a.Redact(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

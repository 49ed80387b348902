package knowledge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xentrohq/docvault/ai"
	"github.com/xentrohq/docvault/ai/mock"
	"github.com/xentrohq/docvault/core"
	"github.com/xentrohq/docvault/store"
	"github.com/xentrohq/docvault/store/chromem"
	"github.com/xentrohq/docvault/store/sqlite"
)

// failingIndex simulates an index backend that rejects writes while
// fail is set.
type failingIndex struct {
	store.SearchIndex
	fail bool
}

func (f *failingIndex) Add(ctx context.Context, entry core.SearchEntry) error {
	if f.fail {
		return errors.New("index unavailable")
	}
	return f.SearchIndex.Add(ctx, entry)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	documents, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)

	index, err := chromem.NewIndex("", mock.NewMockEmbedder())
	require.NoError(t, err)

	s, err := NewStore(documents, index)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testAnalysis(vendor, total, date string) ai.Analysis {
	return ai.Analysis{
		"document_type": "INVOICE",
		"summary":       "Test invoice from " + vendor,
		"vendor":        vendor,
		"total_amount":  total,
		"date":          date,
	}
}

func TestNewStore_RequiresBackends(t *testing.T) {
	documents, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	defer documents.Close()

	index, err := chromem.NewIndex("", mock.NewMockEmbedder())
	require.NoError(t, err)

	_, err = NewStore(nil, index)
	assert.ErrorIs(t, err, ErrDocumentStoreRequired)

	_, err = NewStore(documents, nil)
	assert.ErrorIs(t, err, ErrSearchIndexRequired)
}

func TestSaveDocument_WritesBothStores(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	path := writeTestFile(t, "invoice.pdf", "fake pdf bytes")
	id, err := s.SaveDocument(ctx, "invoice.pdf", path, "Invoice text from Acme",
		testAnalysis("Acme Corp", "$120.00", "2025-03-01"),
		map[string]any{"method": "engine"}, "hash-1")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := s.GetByFilename(ctx, "invoice.pdf")
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "Acme Corp", doc.Vendor())
	assert.Equal(t, "$120.00", doc.TotalAmount())
	assert.Equal(t, ".pdf", doc.FileType)
	assert.Equal(t, int64(len("fake pdf bytes")), doc.FileSize)

	hits, err := s.QueryGlobal(ctx, "Invoice text from Acme", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, id, hits[0].ID)
	assert.Equal(t, "Acme Corp", hits[0].Vendor)
}

func TestSaveDocument_IndexFailureStillReturnsID(t *testing.T) {
	documents, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)

	index, err := chromem.NewIndex("", mock.NewMockEmbedder())
	require.NoError(t, err)

	flaky := &failingIndex{SearchIndex: index, fail: true}
	s, err := NewStore(documents, flaky)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	path := writeTestFile(t, "orphan.pdf", "orphan content")
	id, err := s.SaveDocument(ctx, "orphan.pdf", path, "orphan text",
		testAnalysis("Orphan Co", "$10.00", "2025-01-01"), nil, "hash-orphan")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// Relational row exists even though the index write failed.
	doc, err := s.GetByFilename(ctx, "orphan.pdf")
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)

	orphans, err := s.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, orphans)

	// Once the index recovers, Reindex repairs the orphan.
	flaky.fail = false
	repaired, err := s.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	orphans, err = s.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestCheckDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	dup, err := s.CheckDuplicate(ctx, "unseen-hash")
	require.NoError(t, err)
	assert.Nil(t, dup)

	path := writeTestFile(t, "a.pdf", "content")
	id, err := s.SaveDocument(ctx, "a.pdf", path, "text",
		testAnalysis("V", "$1", "2025-01-01"), nil, "seen-hash")
	require.NoError(t, err)

	dup, err = s.CheckDuplicate(ctx, "seen-hash")
	require.NoError(t, err)
	require.NotNil(t, dup)
	assert.Equal(t, id, dup.ID)
}

func TestQuerySimilar_FilenameFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, name := range []string{"one.pdf", "two.pdf"} {
		path := writeTestFile(t, name, name)
		_, err := s.SaveDocument(ctx, name, path, "shared invoice text "+name,
			testAnalysis("V", "$1", "2025-01-01"), nil, fmt.Sprintf("hash-%d", i))
		require.NoError(t, err)
	}

	hits, err := s.QuerySimilar(ctx, "shared invoice text", "one.pdf", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "one.pdf", hits[0].Filename)
}

func TestGetVendorHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	vendors := []struct {
		filename string
		vendor   string
		total    string
	}{
		{"inv1.pdf", "Super Store Inc.", "$50.00"},
		{"inv2.pdf", "Super Store", "$75.00"},
		{"inv3.pdf", "Other Vendor LLC", "$20.00"},
	}
	for i, v := range vendors {
		path := writeTestFile(t, v.filename, v.filename)
		_, err := s.SaveDocument(ctx, v.filename, path, "text for "+v.filename,
			testAnalysis(v.vendor, v.total, "2025-02-0"+fmt.Sprint(i+1)), nil,
			fmt.Sprintf("vh-hash-%d", i))
		require.NoError(t, err)
	}

	history, err := s.GetVendorHistory(ctx, "Super Store Inc.", "inv1.pdf")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "inv2.pdf", history[0].Filename)
	assert.Equal(t, "$75.00", history[0].Total)
	assert.Equal(t, "Super Store", history[0].VendorName)
}

func TestGetVendorHistory_ShortSlugReturnsEmpty(t *testing.T) {
	s := newTestStore(t)

	history, err := s.GetVendorHistory(context.Background(), "A1", "")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestGetVendorHistory_CapsEntries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		name := fmt.Sprintf("cap%d.pdf", i)
		path := writeTestFile(t, name, name)
		_, err := s.SaveDocument(ctx, name, path, "text "+name,
			testAnalysis("Repeat Vendor", "$5.00", "2025-01-01"), nil,
			fmt.Sprintf("cap-hash-%d", i))
		require.NoError(t, err)
	}

	history, err := s.GetVendorHistory(ctx, "Repeat Vendor", "")
	require.NoError(t, err)
	assert.Len(t, history, 10)
}

func TestGetAllVendors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, vendor := range []string{"Acme", "Acme", "Globex"} {
		name := fmt.Sprintf("av%d.pdf", i)
		path := writeTestFile(t, name, name)
		_, err := s.SaveDocument(ctx, name, path, "text",
			testAnalysis(vendor, "$1", "2025-01-01"), nil,
			fmt.Sprintf("av-hash-%d", i))
		require.NoError(t, err)
	}

	counts, err := s.GetAllVendors(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Acme": 2, "Globex": 1}, counts)
}

func TestReconcile_CleanStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	path := writeTestFile(t, "clean.pdf", "clean")
	_, err := s.SaveDocument(ctx, "clean.pdf", path, "clean text",
		testAnalysis("V", "$1", "2025-01-01"), nil, "clean-hash")
	require.NoError(t, err)

	orphans, err := s.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

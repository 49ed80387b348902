package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractCSV(t *testing.T) {
	path := writeCSV(t, "vendor,total\nSuper Store,108.00\nAcme,40.00\n")

	text, meta, err := extractCSV(path)

	require.NoError(t, err)
	assert.Equal(t, "csv", meta["method"])
	assert.Equal(t, 3, meta["rows"])

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "vendor | total", lines[0])
	assert.Equal(t, "--- | ---", lines[1])
	assert.Equal(t, "Super Store | 108.00", lines[2])
}

func TestExtractCSV_RowLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("n\n")
	for i := 0; i < maxCSVRows+500; i++ {
		fmt.Fprintf(&b, "%d\n", i)
	}
	path := writeCSV(t, b.String())

	text, meta, err := extractCSV(path)

	require.NoError(t, err)
	// Header plus at most maxCSVRows data rows.
	assert.Equal(t, maxCSVRows+1, meta["rows"])
	assert.NotContains(t, text, fmt.Sprintf("\n%d\n", maxCSVRows+400))
}

func TestExtractCSV_RaggedRows(t *testing.T) {
	path := writeCSV(t, "a,b,c\n1,2\n1,2,3,4\n")

	_, meta, err := extractCSV(path)

	require.NoError(t, err)
	assert.Equal(t, 3, meta["rows"])
}

func TestExtractCSV_MissingFile(t *testing.T) {
	_, _, err := extractCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

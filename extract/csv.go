package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxCSVRows bounds the textual rendering of tabular files. Full
// fidelity beyond the first 1000 data rows is not required.
const maxCSVRows = 1000

// extractCSV parses a tabular file locally and renders it as a
// pipe-delimited table. Ragged rows are tolerated.
func extractCSV(path string) (string, map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows allowed

	var b strings.Builder
	rows := 0
	for rows <= maxCSVRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}

		b.WriteString(strings.Join(record, " | "))
		b.WriteByte('\n')
		if rows == 0 {
			// Separator under the header row.
			sep := make([]string, len(record))
			for i := range sep {
				sep[i] = "---"
			}
			b.WriteString(strings.Join(sep, " | "))
			b.WriteByte('\n')
		}
		rows++
	}

	metadata := map[string]any{
		"method": "csv",
		"rows":   rows,
	}
	return b.String(), metadata, nil
}

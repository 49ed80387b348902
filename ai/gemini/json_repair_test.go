package gemini

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid JSON untouched",
			input: `{"type": "INVOICE", "vendor": "Acme"}`,
			want:  `{"type": "INVOICE", "vendor": "Acme"}`,
		},
		{
			name:  "missing opening quote after brace",
			input: `{type": "INVOICE"}`,
			want:  `{"type": "INVOICE"}`,
		},
		{
			name:  "missing opening quote after comma",
			input: `{"a": 1, type": "x"}`,
			want:  `{"a": 1, "type": "x"}`,
		},
		{
			name:  "bare word that is not a key",
			input: `{"a": [1, two]}`,
			want:  `{"a": [1, two]}`,
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.input))
		})
	}
}

func TestRepairJSON_ResultParses(t *testing.T) {
	repaired := repairJSON(`{type": "INVOICE", vendor": "Acme", "total_amount": "$5"}`)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(repaired), &m))
	assert.Equal(t, "INVOICE", m["type"])
	assert.Equal(t, "Acme", m["vendor"])
}

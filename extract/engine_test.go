package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFakeEngine writes an executable shell script standing in for
// the extraction binary.
func writeFakeEngine(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docproc")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestEngine_Extract(t *testing.T) {
	bin := writeFakeEngine(t, `echo '{"content": "INVOICE Total: $108.00", "pages": 2, "engine_ms": 41}'`)
	engine, err := NewEngine(bin)
	require.NoError(t, err)

	text, meta, err := engine.Extract(context.Background(), "/tmp/whatever.pdf")

	require.NoError(t, err)
	assert.Equal(t, "INVOICE Total: $108.00", text)
	assert.Equal(t, "engine", meta["method"])
	assert.EqualValues(t, 2, meta["pages"])
	assert.NotContains(t, meta, "content", "content must not leak into metadata")
}

func TestEngine_Extract_NonZeroExit(t *testing.T) {
	bin := writeFakeEngine(t, `echo "unreadable file" >&2; exit 3`)
	engine, err := NewEngine(bin)
	require.NoError(t, err)

	_, _, err = engine.Extract(context.Background(), "/tmp/broken.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEngineFailed)
	assert.Contains(t, err.Error(), "unreadable file")
}

func TestEngine_Extract_MalformedOutput(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{name: "not json", script: `echo "plain text output"`},
		{name: "missing content field", script: `echo '{"pages": 2}'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin := writeFakeEngine(t, tt.script)
			engine, err := NewEngine(bin)
			require.NoError(t, err)

			_, _, err = engine.Extract(context.Background(), "/tmp/x.pdf")

			assert.ErrorIs(t, err, ErrMalformedOutput)
		})
	}
}

func TestEngine_Extract_Timeout(t *testing.T) {
	bin := writeFakeEngine(t, `sleep 5`)
	engine, err := NewEngine(bin, WithTimeout(100*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	_, _, err = engine.Extract(context.Background(), "/tmp/slow.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEngineTimeout)
	assert.Less(t, time.Since(start), 3*time.Second, "timeout must bound the wait")
}

func TestNewEngine_RequiresBinary(t *testing.T) {
	_, err := NewEngine("")
	assert.ErrorIs(t, err, ErrBinaryRequired)
}

func TestService_RoutesCSVLocally(t *testing.T) {
	// Engine binary that would fail if invoked; CSV must never reach it.
	bin := writeFakeEngine(t, `exit 1`)
	engine, err := NewEngine(bin)
	require.NoError(t, err)
	svc := NewService(engine)

	csvPath := filepath.Join(t.TempDir(), "data.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("a,b\n1,2\n"), 0o644))

	text, meta, err := svc.Extract(context.Background(), csvPath)

	require.NoError(t, err)
	assert.Equal(t, "csv", meta["method"])
	assert.Contains(t, text, "a | b")
}

// Copyright 2025 Xentro Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// DefaultEngineTimeout is the wall-clock ceiling per file for the
// external extraction binary. The binary path is untrusted to always
// terminate, so every invocation runs under a deadline.
const DefaultEngineTimeout = 2 * time.Minute

// Engine invokes the external extraction binary as a subprocess.
//
// Contract: `<binary> <filePath>` must exit 0 and print a single JSON
// object to stdout containing at least a "content" field. Every other
// field passes through as engine metadata. A non-zero exit, a timeout,
// or non-JSON output is a hard per-file failure.
type Engine struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithTimeout sets the per-file wall-clock ceiling.
func WithTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithEngineLogger sets a custom logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine adapter for the given binary path.
func NewEngine(binary string, opts ...EngineOption) (*Engine, error) {
	if binary == "" {
		return nil, ErrBinaryRequired
	}

	e := &Engine{
		binary:  binary,
		timeout: DefaultEngineTimeout,
		logger:  slog.Default().With("component", "extract-engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract runs the engine on one file and returns the extracted text
// plus the engine's self-reported metadata. No retry is performed; the
// caller decides whether a failed file is retried.
func (e *Engine) Extract(ctx context.Context, path string) (string, map[string]any, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, e.binary, path)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if timeoutCtx.Err() == context.DeadlineExceeded {
		e.logger.Error("engine timed out", "path", path, "timeout", e.timeout)
		return "", nil, fmt.Errorf("%w after %v: %s", ErrEngineTimeout, e.timeout, path)
	}
	if err != nil {
		e.logger.Error("engine failed", "path", path, "err", err, "stderr", stderr.String())
		return "", nil, fmt.Errorf("%w: %v (stderr: %s)", ErrEngineFailed, err, stderr.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &payload); err != nil {
		e.logger.Error("engine output is not JSON", "path", path, "err", err)
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	rawText, ok := payload["content"].(string)
	if !ok {
		return "", nil, fmt.Errorf("%w: missing content field", ErrMalformedOutput)
	}

	// Everything but the text passes through verbatim as metadata.
	metadata := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		if k != "content" {
			metadata[k] = v
		}
	}
	metadata["method"] = "engine"

	e.logger.Debug("engine extraction complete",
		"path", path,
		"chars", len(rawText),
		"elapsed", elapsed)

	return rawText, metadata, nil
}

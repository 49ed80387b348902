package extract

import "errors"

var (
	// ErrEngineFailed indicates the extraction binary exited non-zero.
	ErrEngineFailed = errors.New("extraction engine failed")

	// ErrEngineTimeout indicates the extraction binary exceeded its wall-clock ceiling.
	ErrEngineTimeout = errors.New("extraction engine timed out")

	// ErrMalformedOutput indicates the engine's stdout was not the expected JSON object.
	ErrMalformedOutput = errors.New("malformed engine output")

	// ErrBinaryRequired is returned when no engine binary path is configured.
	ErrBinaryRequired = errors.New("engine binary path required")
)

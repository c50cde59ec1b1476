package mqwire

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that drops everything. Endpoints built
// without WithLogger behave as if this were passed.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

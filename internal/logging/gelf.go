package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGELFWriter dials a Graylog UDP input. Each Write becomes one GELF
// message.
func NewGELFWriter(address, facility string) (*gelf.Writer, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, fmt.Errorf("failed to create GELF writer for %s: %w", address, err)
	}
	w.Facility = facility
	return w, nil
}

// NewGELFHandler renders records as JSON lines onto a GELF writer.
func NewGELFHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if w == nil {
		return nil
	}
	return slog.NewJSONHandler(w, opts)
}

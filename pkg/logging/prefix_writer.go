package logging

import (
	"bytes"
	"io"
)

// PrefixWriter prepends a marker to every line written through it.
// Data is buffered until a newline lands, so a line assembled from
// several Writes is prefixed exactly once.
type PrefixWriter struct {
	prefix []byte
	dst    io.Writer
	buf    bytes.Buffer
}

// NewPrefixWriter wraps w with the given line prefix.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		dst:    w,
	}
}

// Write implements io.Writer. Complete lines are flushed with the
// prefix; a trailing partial line stays buffered for the next Write.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	if _, err := pw.buf.Write(p); err != nil {
		return 0, err
	}

	for {
		line, err := pw.buf.ReadBytes('\n')
		if err != nil {
			// Partial line: keep it for the next Write.
			if len(line) > 0 {
				if _, wErr := pw.buf.Write(line); wErr != nil {
					return 0, wErr
				}
			}
			break
		}

		if _, err := pw.dst.Write(pw.prefix); err != nil {
			return 0, err
		}
		if _, err := pw.dst.Write(line); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}

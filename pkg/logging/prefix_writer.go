package logging

import (
	"bytes"
	"io"
)

// PrefixWriter wraps an io.Writer and stamps a prefix onto every line.
// Partial lines are held back until their newline arrives so the prefix
// is never emitted mid-line.
type PrefixWriter struct {
	prefix  []byte
	writer  io.Writer
	partial []byte
}

// NewPrefixWriter creates a PrefixWriter emitting to w.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{prefix: []byte(prefix), writer: w}
}

// Write implements io.Writer.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	n := len(p)
	data := p
	if len(pw.partial) > 0 {
		data = append(pw.partial, p...)
		pw.partial = nil
	}

	for {
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			break
		}
		if _, err := pw.writer.Write(pw.prefix); err != nil {
			return 0, err
		}
		if _, err := pw.writer.Write(data[:nl+1]); err != nil {
			return 0, err
		}
		data = data[nl+1:]
	}

	if len(data) > 0 {
		pw.partial = append(pw.partial, data...)
	}

	return n, nil
}

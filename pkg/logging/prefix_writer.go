package logging

import (
	"bytes"
	"io"
)

// PrefixWriter prepends a fixed prefix to every line written through it.
// Partial lines are held back until their newline arrives or Flush is called.
type PrefixWriter struct {
	prefix  []byte
	writer  io.Writer
	pending bytes.Buffer
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

// Write implements io.Writer.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		idx := bytes.IndexByte(p, '\n')
		if idx < 0 {
			pw.pending.Write(p)
			break
		}
		pw.pending.Write(p[:idx+1])
		p = p[idx+1:]
		if err := pw.emit(); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// Flush writes out any buffered partial line.
func (pw *PrefixWriter) Flush() error {
	if pw.pending.Len() == 0 {
		return nil
	}
	return pw.emit()
}

func (pw *PrefixWriter) emit() error {
	defer pw.pending.Reset()
	if _, err := pw.writer.Write(pw.prefix); err != nil {
		return err
	}
	_, err := pw.writer.Write(pw.pending.Bytes())
	return err
}

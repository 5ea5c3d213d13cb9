package core

import (
	"fmt"
	"io"
)

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// WriterLogger implements Logger on top of an io.Writer
type WriterLogger struct {
	w io.Writer
}

// NewWriterLogger creates a logger that writes formatted messages to w
func NewWriterLogger(w io.Writer) *WriterLogger {
	return &WriterLogger{w: w}
}

func (l *WriterLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(l.w, format, args...)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Printf(string, ...interface{}) {}

package server

import (
	"bytes"
	"strings"
	"testing"

	"github.com/labstack/gommon/log"
)

func TestWebLogger_TagsMessages(t *testing.T) {
	var buf bytes.Buffer
	out := log.New("test")
	out.SetOutput(&buf)
	out.SetLevel(log.INFO)

	logger := NewWebLogger("abc123", out)
	logger.Printf("Rendering %dx%d\n", 4, 3)

	logged := buf.String()
	if !strings.Contains(logged, "[render abc123] Rendering 4x3") {
		t.Errorf("Expected tagged message, got %q", logged)
	}
	if strings.Contains(logged, "4x3\\n") {
		t.Errorf("Trailing newline should be trimmed, got %q", logged)
	}
}

func TestWebLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	out := log.New("test")
	out.SetOutput(&buf)
	out.SetLevel(log.ERROR)

	NewWebLogger("quiet", out).Printf("hidden\n")
	if buf.Len() != 0 {
		t.Errorf("Info messages should be dropped at error level, got %q", buf.String())
	}
}

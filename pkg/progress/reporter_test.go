package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestEstimateRemaining(t *testing.T) {
	tests := []struct {
		name     string
		done     int
		total    int
		elapsed  time.Duration
		expected time.Duration
	}{
		{"nothing done", 0, 100, 5 * time.Second, 0},
		{"quarter done", 25, 100, 10 * time.Second, 30 * time.Second},
		{"half done", 50, 100, 10 * time.Second, 10 * time.Second},
		{"finished", 100, 100, 10 * time.Second, 0},
		{"overshoot", 120, 100, 10 * time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateRemaining(tt.done, tt.total, tt.elapsed)
			if got != tt.expected {
				t.Errorf("EstimateRemaining(%d, %d, %v) = %v, expected %v", tt.done, tt.total, tt.elapsed, got, tt.expected)
			}
		})
	}
}

func TestReporter_UpdateWritesProgressLine(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Update(3, 12, 1500*time.Millisecond, 4500*time.Millisecond)
	out := buf.String()

	for _, want := range []string{"Scanline 3/12", "25%", "elapsed 1.5s", "ETA 4.5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("Progress line %q does not contain %q", out, want)
		}
	}
	if !strings.HasPrefix(out, "\r") {
		t.Errorf("Progress line should rewrite the current line, got %q", out)
	}
}

func TestReporter_SmoothsETA(t *testing.T) {
	r := NewReporter(&bytes.Buffer{})

	r.Update(1, 100, time.Second, 99*time.Second)
	if got := r.SmoothedRemaining(); got != 99*time.Second {
		t.Fatalf("First update should show the raw estimate, got %v", got)
	}

	// A sudden drop is approached gradually, not jumped to
	r.Update(2, 100, 2*time.Second, 9*time.Second)
	got := r.SmoothedRemaining()
	if got >= 99*time.Second || got <= 9*time.Second {
		t.Errorf("Smoothed ETA should move between 99s and 9s, got %v", got)
	}

	// Repeated updates converge on the target
	for i := 0; i < 200; i++ {
		r.Update(2, 100, 2*time.Second, 9*time.Second)
	}
	if diff := r.SmoothedRemaining() - 9*time.Second; diff > 100*time.Millisecond || diff < -100*time.Millisecond {
		t.Errorf("Smoothed ETA should converge to 9s, got %v", r.SmoothedRemaining())
	}
}

func TestReporter_Finish(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)
	r.Finish(2 * time.Second)

	if !strings.Contains(buf.String(), "Done in 2s") {
		t.Errorf("Finish output %q missing total time", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected string
	}{
		{0, "0s"},
		{250 * time.Millisecond, "250ms"},
		{1234 * time.Millisecond, "1.2s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.expected {
			t.Errorf("formatDuration(%v) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

// Package progress renders an advisory scanline progress line with a smoothed ETA.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/harmonica"
)

// updatesPerSecond is the nominal rate the ETA spring is stepped at
const updatesPerSecond = 10

// Reporter writes a single, continuously rewritten progress line
type Reporter struct {
	out io.Writer
	mu  sync.Mutex

	// ETA smoothing: the displayed value chases the raw estimate on a
	// critically damped spring so it does not jitter between rows
	spring      harmonica.Spring
	eta         float64 // seconds
	etaVelocity float64
	started     bool

	barWidth   int
	labelStyle lipgloss.Style
	barStyle   lipgloss.Style
	dimStyle   lipgloss.Style
	etaStyle   lipgloss.Style
}

// NewReporter creates a reporter writing to out (usually stderr)
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{
		out:        out,
		spring:     harmonica.NewSpring(harmonica.FPS(updatesPerSecond), 2.0, 1.0),
		barWidth:   24,
		labelStyle: lipgloss.NewStyle().Bold(true),
		barStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")),
		dimStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		etaStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
	}
}

// Update redraws the progress line for done of total scanlines
func (r *Reporter) Update(done, total int, elapsed, remaining time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	smoothed := r.smooth(remaining)
	lipgloss.Fprint(r.out, "\r"+r.formatLine(done, total, elapsed, smoothed))
}

// Finish terminates the progress line and prints the total render time
func (r *Reporter) Finish(elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lipgloss.Fprint(r.out, "\n"+r.labelStyle.Render(fmt.Sprintf("Done in %s", formatDuration(elapsed)))+"\n")
}

// SmoothedRemaining returns the ETA currently on display
func (r *Reporter) SmoothedRemaining() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Duration(r.eta * float64(time.Second))
}

func (r *Reporter) smooth(remaining time.Duration) time.Duration {
	target := remaining.Seconds()
	if !r.started {
		r.eta = target
		r.started = true
	} else {
		r.eta, r.etaVelocity = r.spring.Update(r.eta, r.etaVelocity, target)
	}
	if r.eta < 0 {
		r.eta = 0
	}
	return time.Duration(r.eta * float64(time.Second))
}

func (r *Reporter) formatLine(done, total int, elapsed, remaining time.Duration) string {
	fraction := 0.0
	if total > 0 {
		fraction = float64(done) / float64(total)
	}

	filled := int(fraction * float64(r.barWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", r.barWidth-filled)

	return strings.Join([]string{
		r.labelStyle.Render(fmt.Sprintf("Scanline %d/%d", done, total)),
		r.barStyle.Render(bar),
		fmt.Sprintf("%3d%%", int(fraction*100)),
		r.dimStyle.Render("elapsed " + formatDuration(elapsed)),
		r.etaStyle.Render("ETA " + formatDuration(remaining)),
	}, "  ")
}

// EstimateRemaining extrapolates the time left from the average time per completed row
func EstimateRemaining(done, total int, elapsed time.Duration) time.Duration {
	if done <= 0 || total <= done {
		return 0
	}
	perRow := elapsed / time.Duration(done)
	return perRow * time.Duration(total-done)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

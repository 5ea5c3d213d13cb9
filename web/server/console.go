package server

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
)

// WebLogger implements core.Logger by forwarding render messages to the
// server log, tagged with the render they belong to
type WebLogger struct {
	renderID string
	out      echo.Logger
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, out echo.Logger) *WebLogger {
	return &WebLogger{
		renderID: renderID,
		out:      out,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	wl.out.Infof("[render %s] %s", wl.renderID, message)
}

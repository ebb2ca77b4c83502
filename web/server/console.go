package server

import (
	"fmt"
	"time"

	"github.com/df07/go-motion-pathtracer/pkg/core"
)

// ConsoleMessage is one log line streamed to a render client
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info" or "error"
}

// WebLogger implements core.Logger by sending messages to a console channel
// and echoing them to the server log
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	server      core.Logger
}

// NewWebLogger creates a logger for one render request
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage, server core.Logger) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
		server:      core.LoggerOrNop(server),
	}
}

// Printf implements core.Logger
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	wl.send("info", fmt.Sprintf(format, args...))
}

// Errorf logs a message at error level
func (wl *WebLogger) Errorf(format string, args ...interface{}) {
	wl.send("error", fmt.Sprintf(format, args...))
}

func (wl *WebLogger) send(level, message string) {
	wl.server.Printf("[%s] %s", wl.renderID, message)

	if wl.consoleChan == nil {
		return
	}
	// A slow client loses lines rather than stalling the render
	select {
	case wl.consoleChan <- ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
	}
}

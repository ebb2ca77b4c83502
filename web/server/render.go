package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-motion-pathtracer/pkg/config"
	"github.com/df07/go-motion-pathtracer/pkg/core"
	"github.com/df07/go-motion-pathtracer/pkg/renderer"
)

// RenderResult is the payload of the final "image" event
type RenderResult struct {
	Scene     string `json:"scene"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	SamplesPerPixel  int     `json:"samplesPerPixel"`
	Workers          int     `json:"workers"`
	ElapsedMs        int64   `json:"elapsedMs"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:      stats.TotalPixels,
		TotalSamples:     stats.TotalSamples,
		SamplesPerPixel:  stats.SamplesPerPixel,
		Workers:          stats.Workers,
		ElapsedMs:        stats.Elapsed.Milliseconds(),
		SamplesPerSecond: stats.SamplesPerSecond(),
	}
}

type renderOutcome struct {
	img   *image.RGBA
	stats renderer.RenderStats
	err   error
}

// render prepares the configured scene and traces it
func (s *Server) render(ctx context.Context, cfg config.RenderConfig, logger core.Logger) renderOutcome {
	sceneObj, rt, err := cfg.Prepare(logger)
	if err != nil {
		return renderOutcome{err: err}
	}

	bvhStats := sceneObj.BVH.Stats()
	logger.Printf("Scene %s: %d primitives, BVH %d nodes, depth %d\n",
		sceneObj.Name, sceneObj.GetPrimitiveCount(), bvhStats.Nodes, bvhStats.MaxDepth)

	img, stats, err := rt.Render(ctx)
	return renderOutcome{img: img, stats: stats, err: err}
}

// handleRender streams a render over Server-Sent Events: "console" events
// while tracing, then "image" with the PNG and "complete". Failures are sent
// as an "error" event. Closing the connection cancels the render.
func (s *Server) handleRender(c echo.Context) error {
	w := c.Response()
	setSSEHeaders(w)
	ctx := c.Request().Context()

	cfg, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		return sendSSEEvent(w, "error", fmt.Sprintf("Invalid request: %v", err))
	}

	consoleChan := make(chan ConsoleMessage, 100)
	logger := NewWebLogger(s.nextRenderID(), consoleChan, s.logger)

	done := make(chan renderOutcome, 1)
	go func() {
		done <- s.render(ctx, cfg, logger)
	}()

	// Only this goroutine writes to w
	for {
		select {
		case msg := <-consoleChan:
			sendSSEJSON(w, "console", msg)

		case outcome := <-done:
			if ctx.Err() != nil {
				return nil
			}
			if outcome.err != nil {
				logger.Errorf("Render failed: %v\n", outcome.err)
			}
			drainConsole(w, consoleChan)
			if outcome.err != nil {
				return sendSSEEvent(w, "error", outcome.err.Error())
			}

			imageData, err := imageToBase64PNG(outcome.img)
			if err != nil {
				return sendSSEEvent(w, "error", err.Error())
			}
			bounds := outcome.img.Bounds()
			if err := sendSSEJSON(w, "image", RenderResult{
				Scene:     cfg.Scene,
				Width:     bounds.Dx(),
				Height:    bounds.Dy(),
				ImageData: imageData,
				Stats:     newStats(outcome.stats),
			}); err != nil {
				return err
			}
			return sendSSEEvent(w, "complete", "{}")

		case <-ctx.Done():
			// Client disconnected; the render sees the same context and stops
			return nil
		}
	}
}

// handleImage renders synchronously and responds with the encoded image.
// The format query parameter selects png (default), bmp or ppm.
func (s *Server) handleImage(c echo.Context) error {
	cfg, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}

	format := renderer.FormatPNG
	if name := c.QueryParam("format"); name != "" {
		if format, err = renderer.ParseFormat(name); err != nil {
			return errorJSON(c, http.StatusBadRequest, err)
		}
	}

	logger := NewWebLogger(s.nextRenderID(), nil, s.logger)
	outcome := s.render(c.Request().Context(), cfg, logger)
	if outcome.err != nil {
		return errorJSON(c, statusFor(outcome.err), outcome.err)
	}

	var buf bytes.Buffer
	if err := renderer.Encode(&buf, outcome.img, format); err != nil {
		return errorJSON(c, http.StatusInternalServerError, err)
	}
	return c.Blob(http.StatusOK, contentType(format), buf.Bytes())
}

func contentType(format renderer.Format) string {
	switch format {
	case renderer.FormatBMP:
		return "image/bmp"
	case renderer.FormatPPM:
		return "image/x-portable-pixmap"
	default:
		return "image/png"
	}
}

// drainConsole flushes log lines still buffered when the render finishes
func drainConsole(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			sendSSEJSON(w, "console", msg)
		default:
			return
		}
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Encode(&buf, img, renderer.FormatPNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func sendSSEJSON(w http.ResponseWriter, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return sendSSEEvent(w, event, string(data))
}

// sendSSEEvent writes one event and flushes it to the client
func sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

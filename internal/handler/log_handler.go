package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"chathub/internal/logstream"
)

// heartbeatInterval is how long a streaming connection may sit idle before a
// comment frame is sent to keep proxies from reclaiming it.
const heartbeatInterval = time.Second

// LogHandler exposes the in-process log stream over Server-Sent Events.
type LogHandler struct {
	stream *logstream.Stream
}

// NewLogHandler creates a new log handler.
func NewLogHandler(stream *logstream.Stream) *LogHandler {
	return &LogHandler{stream: stream}
}

// TestLogRequest generates a test event on the stream.
type TestLogRequest struct {
	Message string `json:"message"`
}

// Stream godoc
// @Summary Stream logs in realtime
// @Description Server-Sent Events: data frames carry JSON log records, comment
// @Description frames are idle heartbeats. Only events emitted after the
// @Description connection opened are delivered; there is no replay.
// @Tags logs
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Router /logs/stream [get]
func (h *LogHandler) Stream(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	sub := h.stream.Subscribe()
	defer h.stream.Unsubscribe(sub)

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			// Client went away; the relay and other subscribers carry on.
			return nil
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "data: %s\n\n", data); err != nil {
				return nil
			}
			res.Flush()
		case <-time.After(heartbeatInterval):
			if _, err := fmt.Fprint(res, ": heartbeat\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

// Test emits a test event into the stream.
func (h *LogHandler) Test(c echo.Context) error {
	var req TestLogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		req.Message = "Test log message"
	}

	h.stream.Publish("INFO", req.Message, "test")
	return c.JSON(http.StatusOK, map[string]string{
		"message": "log entry created",
		"log":     req.Message,
	})
}

// Recent is informational only: events are never stored, so there is no
// history to return.
func (h *LogHandler) Recent(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "logs are not persisted",
		"note":    "use /logs/stream for realtime logs",
	})
}

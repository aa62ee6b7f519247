package logstream

import (
	"bytes"
	"io"
)

// writer publishes each written line as an INFO event. Used to tee middleware
// log output into the stream so operators watching the SSE endpoint see
// request traffic.
type writer struct {
	stream *Stream
	source string
}

// Writer returns an io.Writer that republishes every line written to it.
// Writes never block and never fail.
func (s *Stream) Writer(source string) io.Writer {
	return &writer{stream: s, source: source}
}

func (w *writer) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		w.stream.Publish("INFO", string(line), w.source)
	}
	return len(p), nil
}

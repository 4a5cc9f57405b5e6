package logging

import (
	"io"
	"os"
	"sync"
)

// stderrSink is the stderr destination shared by every logger. Swapping its
// writer redirects loggers that already exist.
type stderrSink struct {
	mu sync.RWMutex
	w  io.Writer
}

func (s *stderrSink) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w.Write(p)
}

var stderr = &stderrSink{w: os.Stderr}

// SetGlobalOutput redirects the stderr sink of every logger. Tests use it to
// capture output.
func SetGlobalOutput(w io.Writer) {
	stderr.mu.Lock()
	stderr.w = w
	stderr.mu.Unlock()
}

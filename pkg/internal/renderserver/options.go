package renderserver

import (
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"github.com/prometheus/client_golang/prometheus"
)

// WithGzip compresses /raster responses for clients that accept it.
func WithGzip(enabled bool) types.Option[*Server] {
	return func(s *Server) { s.gzip = enabled }
}

// WithMetrics exposes g on /metrics.
func WithMetrics(g prometheus.Gatherer) types.Option[*Server] {
	return func(s *Server) { s.gatherer = g }
}

// WithAnnotations sets the annotations served on /annotations.
func WithAnnotations(a []types.Annotation) types.Option[*Server] {
	return func(s *Server) { s.annotations = append([]types.Annotation(nil), a...) }
}

// WithProgressTimeout bounds how long a websocket stream waits for missing tiles.
func WithProgressTimeout(d time.Duration) types.Option[*Server] {
	return func(s *Server) {
		if d > 0 {
			s.progressTimeout = d
		}
	}
}

// WithPollInterval sets how often a websocket stream re-renders when no ready event arrives.
func WithPollInterval(d time.Duration) types.Option[*Server] {
	return func(s *Server) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithTimeouts sets the HTTP server header read and write timeouts.
func WithTimeouts(read, write time.Duration) types.Option[*Server] {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

func WithLogger(logger ...types.Logger) types.Option[*Server] {
	return func(s *Server) {
		s.loggersLock.Lock()
		defer s.loggersLock.Unlock()
		for _, l := range logger {
			if l != nil {
				s.loggers = append(s.loggers, l)
			}
		}
	}
}

// Package renderserver serves spectrogram renders over HTTP: PNG and raw RGBA snapshots, a
// websocket that pushes a new frame as each missing tile arrives, and Prometheus metrics.
package renderserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joeydtaylor/iqview/pkg/internal/spectrogram"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultProgressTimeout = 30 * time.Second

// Server exposes one Spectrogram.
type Server struct {
	componentMetadata types.ComponentMetadata
	spec              *spectrogram.Spectrogram
	defaults          types.ViewportState
	annotations       []types.Annotation

	gatherer        prometheus.Gatherer
	gzip            bool
	progressTimeout time.Duration
	pollInterval    time.Duration
	readTimeout     time.Duration
	writeTimeout    time.Duration

	hub *hub

	loggers     []types.Logger
	loggersLock sync.Mutex
}

// New returns a server rendering spec. defaults fills in any viewport parameter a request omits.
func New(spec *spectrogram.Spectrogram, defaults types.ViewportState, options ...types.Option[*Server]) *Server {
	s := &Server{
		componentMetadata: types.ComponentMetadata{ID: uuid.NewString(), Type: "RENDER_SERVER"},
		spec:              spec,
		defaults:          defaults,
		progressTimeout:   defaultProgressTimeout,
		pollInterval:      250 * time.Millisecond,
		readTimeout:       10 * time.Second,
	}
	for _, option := range options {
		option(s)
	}
	s.hub = newHub(spec.Ready())
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	var raster http.Handler = http.HandlerFunc(s.handleRaster)
	if s.gzip {
		raster = gzhttp.GzipHandler(raster)
	}

	mux.HandleFunc("/render", s.handleRender)
	mux.Handle("/raster", raster)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/annotations", s.handleAnnotations)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.readTimeout,
		WriteTimeout:      s.writeTimeout,
	}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	s.NotifyLoggers(types.InfoLevel, "Serve: listening",
		"component", s.componentMetadata,
		"event", "Listen",
		"result", "START",
		"address", ln.Addr().String(),
	)
	err := server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// NotifyLoggers emits a log entry to all configured loggers.
func (s *Server) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	s.loggersLock.Lock()
	loggers := append([]types.Logger(nil), s.loggers...)
	s.loggersLock.Unlock()
	for _, logger := range loggers {
		if logger.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			logger.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			logger.Info(msg, keysAndValues...)
		case types.WarnLevel:
			logger.Warn(msg, keysAndValues...)
		default:
			logger.Error(msg, keysAndValues...)
		}
	}
}

package builder

import (
	"io"
	"net/url"
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/colormap"
	"github.com/joeydtaylor/iqview/pkg/internal/renderserver"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"github.com/prometheus/client_golang/prometheus"
)

type (
	RenderServer       = renderserver.Server
	RenderServerOption = types.Option[*RenderServer]
)

// NewRenderServer serves renders of spec, filling unset query parameters from defaults.
func NewRenderServer(spec *Spectrogram, defaults ViewportState, options ...RenderServerOption) *RenderServer {
	return renderserver.New(spec, defaults, options...)
}

// RenderServerWithGzip compresses /raster responses.
func RenderServerWithGzip(enabled bool) RenderServerOption {
	return renderserver.WithGzip(enabled)
}

// RenderServerWithMetrics exposes g on /metrics.
func RenderServerWithMetrics(g prometheus.Gatherer) RenderServerOption {
	return renderserver.WithMetrics(g)
}

// RenderServerWithAnnotations sets the annotations served on /annotations.
func RenderServerWithAnnotations(a []Annotation) RenderServerOption {
	return renderserver.WithAnnotations(a)
}

// RenderServerWithProgressTimeout bounds how long a websocket stream waits for tiles.
func RenderServerWithProgressTimeout(d time.Duration) RenderServerOption {
	return renderserver.WithProgressTimeout(d)
}

// RenderServerWithPollInterval sets the websocket re-render interval.
func RenderServerWithPollInterval(d time.Duration) RenderServerOption {
	return renderserver.WithPollInterval(d)
}

// RenderServerWithTimeouts sets the HTTP read and write timeouts.
func RenderServerWithTimeouts(read, write time.Duration) RenderServerOption {
	return renderserver.WithTimeouts(read, write)
}

// RenderServerWithLogger adds loggers to the server.
func RenderServerWithLogger(logger ...types.Logger) RenderServerOption {
	return renderserver.WithLogger(logger...)
}

// ParseViewport reads render query parameters over defaults.
func ParseViewport(q url.Values, defaults ViewportState) (ViewportState, error) {
	return renderserver.ParseViewport(q, defaults)
}

// EncodePNG writes an RGBA raster of the given width as a PNG.
func EncodePNG(w io.Writer, rgba []byte, width int) error {
	return colormap.EncodePNG(w, rgba, width)
}

// Package spectrogram renders the visible part of a recording as a colour raster. A Spectrogram
// owns the tile coordinator and the per-tile FFT cache for one recording view; each Render pass
// computes rows for newly available tiles, composes the visible range with placeholders for
// missing tiles, then quantizes it.
package spectrogram

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/joeydtaylor/iqview/pkg/internal/colormap"
	"github.com/joeydtaylor/iqview/pkg/internal/spectrum"
	"github.com/joeydtaylor/iqview/pkg/internal/tilecache"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

type fftKey struct {
	fftSize int
	window  types.WindowFunction
}

// Spectrogram is the render orchestrator for one open recording.
type Spectrogram struct {
	componentMetadata types.ComponentMetadata
	info              types.RecordingInfo

	tileSize         int
	bytesPerIQSample int
	maxInFlight      int
	maxTiles         int
	processor        *spectrum.Processor
	processorOpts    []types.Option[*spectrum.Processor]
	tables           map[types.ColorMapID]colormap.Table

	coordinator *tilecache.Coordinator

	renderLock sync.Mutex
	state      atomic.Int32
	fftCache   map[int][]float32
	cacheKey   fftKey
	last       *types.RenderResult
	closed     bool

	loggers    []types.Logger
	sensors    []types.Sensor
	configLock sync.Mutex
}

// New builds a Spectrogram reading tiles from source. All colormap tables are loaded here so a
// malformed table fails before the first render.
func New(ctx context.Context, source types.TileSource, info types.RecordingInfo, options ...types.Option[*Spectrogram]) (*Spectrogram, error) {
	if source == nil {
		return nil, fmt.Errorf("spectrogram: nil tile source")
	}
	if info.TotalIQSamples < 0 {
		return nil, fmt.Errorf("spectrogram: negative sample count %d", info.TotalIQSamples)
	}
	s := &Spectrogram{
		componentMetadata: types.ComponentMetadata{
			ID:   uuid.NewString(),
			Type: "SPECTROGRAM",
		},
		info:             info,
		tileSize:         types.DefaultTileSize,
		bytesPerIQSample: tilecache.DefaultBytesPerIQSample,
		maxInFlight:      tilecache.DefaultMaxInFlight,
		tables:           make(map[types.ColorMapID]colormap.Table),
		fftCache:         make(map[int][]float32),
	}

	for _, option := range options {
		option(s)
	}

	if s.tileSize < types.MinFFTSize || s.tileSize&(s.tileSize-1) != 0 {
		return nil, fmt.Errorf("%w: tile size %d must be a power of two >= %d", types.ErrInvalidFFTSize, s.tileSize, types.MinFFTSize)
	}
	for id, t := range s.tables {
		if !id.Valid() {
			return nil, fmt.Errorf("%w: %v", types.ErrUnknownColorMap, id)
		}
		if len(t) != colormap.TableSize {
			return nil, fmt.Errorf("%w: %v has %d entries", types.ErrMalformedColorMap, id, len(t))
		}
	}
	builtin, err := colormap.LoadAll()
	if err != nil {
		return nil, err
	}
	for id, t := range builtin {
		if _, ok := s.tables[id]; !ok {
			s.tables[id] = t
		}
	}
	if s.processor == nil {
		s.processor = spectrum.NewProcessor(s.processorOpts...)
	}

	meta := s.snapshotMetadata()
	s.coordinator = tilecache.NewCoordinator(ctx, source, info.TotalIQSamples,
		tilecache.WithTileSize(s.tileSize),
		tilecache.WithBytesPerIQSample(s.bytesPerIQSample),
		tilecache.WithMaxInFlight(s.maxInFlight),
		tilecache.WithMaxTiles(s.maxTiles),
		tilecache.WithLogger(s.snapshotLoggers()...),
		tilecache.WithSensor(s.snapshotSensors()...),
		tilecache.WithComponentMetadata(meta.Name+"-tiles", meta.ID),
	)

	s.NotifyLoggers(types.InfoLevel, "New: spectrogram created",
		"component", meta,
		"total_iq_samples", info.TotalIQSamples,
		"tile_size", s.tileSize,
		"fft_engine", s.processor.Engine().Name(),
	)
	return s, nil
}

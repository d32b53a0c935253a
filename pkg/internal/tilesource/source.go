// Package tilesource fetches byte ranges of a SigMF data file from local disk, HTTP or S3 and
// decodes them into the interleaved float32 samples the render pipeline consumes.
package tilesource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

// RangeReader returns count bytes starting at offset. It may return fewer bytes at end of data.
type RangeReader interface {
	ReadRange(ctx context.Context, offset, count int64) ([]byte, error)
}

// Preprocessor transforms decoded samples before they reach the cache, e.g. a FIR filter.
type Preprocessor func(samples []float32) []float32

// Source adapts a RangeReader to types.TileSource.
type Source struct {
	componentMetadata types.ComponentMetadata
	reader            RangeReader
	dataType          DataType
	preprocess        []Preprocessor

	loggers     []types.Logger
	loggersLock sync.Mutex
}

// New returns a Source decoding reader's bytes as dataType.
func New(reader RangeReader, dataType DataType, options ...types.Option[*Source]) *Source {
	s := &Source{
		componentMetadata: types.ComponentMetadata{Type: "TILE_SOURCE", Name: dataType.String()},
		reader:            reader,
		dataType:          dataType,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// DataType returns the sample format.
func (s *Source) DataType() DataType { return s.dataType }

// FetchTileSamples reads the tile's byte range, decodes it and runs the preprocessors.
func (s *Source) FetchTileSamples(ctx context.Context, tileIndex int, byteOffset, byteCount int64) ([]float32, error) {
	start := time.Now()
	raw, err := s.reader.ReadRange(ctx, byteOffset, byteCount)
	if err != nil {
		return nil, fmt.Errorf("tilesource: read tile %d [%d,+%d): %w", tileIndex, byteOffset, byteCount, err)
	}
	samples := s.dataType.Decode(raw)
	for _, p := range s.preprocess {
		samples = p(samples)
	}
	s.NotifyLoggers(types.DebugLevel, "FetchTileSamples: decoded",
		"component", s.componentMetadata,
		"tile", tileIndex,
		"bytes", len(raw),
		"samples", len(samples)/2,
		"elapsed", time.Since(start),
	)
	return samples, nil
}

// WithPreprocessor appends a sample transform applied after decoding.
func WithPreprocessor(p Preprocessor) types.Option[*Source] {
	return func(s *Source) {
		if p != nil {
			s.preprocess = append(s.preprocess, p)
		}
	}
}

func WithLogger(logger ...types.Logger) types.Option[*Source] {
	return func(s *Source) {
		s.loggersLock.Lock()
		defer s.loggersLock.Unlock()
		for _, l := range logger {
			if l != nil {
				s.loggers = append(s.loggers, l)
			}
		}
	}
}

// NotifyLoggers emits a log entry to all configured loggers.
func (s *Source) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
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

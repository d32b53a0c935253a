package spectrogram

import (
	"github.com/joeydtaylor/iqview/pkg/internal/colormap"
	"github.com/joeydtaylor/iqview/pkg/internal/fftengine"
	"github.com/joeydtaylor/iqview/pkg/internal/spectrum"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

// WithTileSize sets the tile size in IQ samples. It must be a power of two.
func WithTileSize(n int) types.Option[*Spectrogram] {
	return func(s *Spectrogram) { s.tileSize = n }
}

// WithBytesPerIQSample sets the on-disk size of one complex sample.
func WithBytesPerIQSample(n int) types.Option[*Spectrogram] {
	return func(s *Spectrogram) {
		if n > 0 {
			s.bytesPerIQSample = n
		}
	}
}

// WithMaxInFlight caps concurrent tile fetches.
func WithMaxInFlight(n int) types.Option[*Spectrogram] {
	return func(s *Spectrogram) {
		if n > 0 {
			s.maxInFlight = n
		}
	}
}

// WithMaxTiles bounds the sample cache with LRU eviction. FFT rows of evicted tiles are dropped
// once they leave the view.
func WithMaxTiles(n int) types.Option[*Spectrogram] {
	return func(s *Spectrogram) {
		if n >= 0 {
			s.maxTiles = n
		}
	}
}

// WithProcessor replaces the spectrum processor.
func WithProcessor(p *spectrum.Processor) types.Option[*Spectrogram] {
	return func(s *Spectrogram) { s.processor = p }
}

// WithEngine selects the FFT engine used by the default processor.
func WithEngine(e fftengine.Engine) types.Option[*Spectrogram] {
	return func(s *Spectrogram) {
		s.processorOpts = append(s.processorOpts, spectrum.WithEngine(e))
	}
}

// WithLegacyWindowing makes the default processor window only the first half of each
// interleaved row.
func WithLegacyWindowing() types.Option[*Spectrogram] {
	return func(s *Spectrogram) {
		s.processorOpts = append(s.processorOpts, spectrum.WithLegacyWindowing())
	}
}

// WithColorMapTable overrides a built-in table.
func WithColorMapTable(id types.ColorMapID, table colormap.Table) types.Option[*Spectrogram] {
	return func(s *Spectrogram) { s.tables[id] = table }
}

func WithLogger(logger ...types.Logger) types.Option[*Spectrogram] {
	return func(s *Spectrogram) { s.ConnectLogger(logger...) }
}

func WithSensor(sensor ...types.Sensor) types.Option[*Spectrogram] {
	return func(s *Spectrogram) { s.ConnectSensor(sensor...) }
}

// WithComponentMetadata sets the spectrogram name and id.
func WithComponentMetadata(name string, id string) types.Option[*Spectrogram] {
	return func(s *Spectrogram) { s.SetComponentMetadata(name, id) }
}

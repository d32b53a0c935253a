package spectrogram

import (
	"github.com/joeydtaylor/iqview/pkg/internal/tilecache"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"github.com/joeydtaylor/iqview/pkg/internal/viewport"
)

// State returns the current pipeline stage.
func (s *Spectrogram) State() State { return State(s.state.Load()) }

// LastResult returns the most recent successful render.
func (s *Spectrogram) LastResult() (types.RenderResult, bool) {
	s.renderLock.Lock()
	defer s.renderLock.Unlock()
	if s.last == nil {
		return types.RenderResult{}, false
	}
	return *s.last, true
}

// CachedFFTTiles returns the number of tiles holding FFT rows for the current size and window.
func (s *Spectrogram) CachedFFTTiles() int {
	s.renderLock.Lock()
	defer s.renderLock.Unlock()
	return len(s.fftCache)
}

// Ready delivers tile indices as fetches complete. It is closed by Close.
func (s *Spectrogram) Ready() <-chan int { return s.coordinator.Ready() }

// Coordinator returns the tile coordinator owned by s.
func (s *Spectrogram) Coordinator() *tilecache.Coordinator { return s.coordinator }

// Info returns the recording metadata.
func (s *Spectrogram) Info() types.RecordingInfo { return s.info }

// TileSize returns the tile size in IQ samples.
func (s *Spectrogram) TileSize() int { return s.tileSize }

// AnnotationRect places an annotation inside the raster rendered for view.
func (s *Spectrogram) AnnotationRect(a types.Annotation, view types.ViewportState) types.PixelRect {
	return viewport.MapSampleRangeToPixels(a, view, s.info, s.TileRange(view), s.tileSize)
}

// GetComponentMetadata returns the spectrogram metadata.
func (s *Spectrogram) GetComponentMetadata() types.ComponentMetadata { return s.snapshotMetadata() }

// Close releases both caches and stops outstanding fetches. Later renders fail with ErrClosed.
func (s *Spectrogram) Close() {
	s.renderLock.Lock()
	if s.closed {
		s.renderLock.Unlock()
		return
	}
	s.closed = true
	s.fftCache = make(map[int][]float32)
	s.renderLock.Unlock()

	s.coordinator.Close()
	s.NotifyLoggers(types.InfoLevel, "Close: spectrogram closed", "component", s.snapshotMetadata())
}

func (s *Spectrogram) snapshotMetadata() types.ComponentMetadata {
	s.configLock.Lock()
	defer s.configLock.Unlock()
	return s.componentMetadata
}

func (s *Spectrogram) snapshotLoggers() []types.Logger {
	s.configLock.Lock()
	defer s.configLock.Unlock()
	return append([]types.Logger(nil), s.loggers...)
}

func (s *Spectrogram) snapshotSensors() []types.Sensor {
	s.configLock.Lock()
	defer s.configLock.Unlock()
	return append([]types.Sensor(nil), s.sensors...)
}

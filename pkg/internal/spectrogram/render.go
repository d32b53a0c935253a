package spectrogram

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/joeydtaylor/iqview/pkg/internal/colormap"
	"github.com/joeydtaylor/iqview/pkg/internal/fftengine"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"github.com/joeydtaylor/iqview/pkg/internal/viewport"
)

// Validate checks a viewport before any work is done.
func (s *Spectrogram) Validate(view types.ViewportState) error {
	if err := fftengine.ValidateSize(view.FFTSize); err != nil {
		return err
	}
	if view.FFTSize < types.MinFFTSize || s.tileSize%view.FFTSize != 0 {
		return fmt.Errorf("%w: %d must be >= %d and divide the tile size %d", types.ErrInvalidFFTSize, view.FFTSize, types.MinFFTSize, s.tileSize)
	}
	if math.IsNaN(view.MagnitudeMin) || math.IsNaN(view.MagnitudeMax) || view.MagnitudeMax <= view.MagnitudeMin {
		return fmt.Errorf("%w: [%v, %v]", types.ErrInvalidMagnitudeRange, view.MagnitudeMin, view.MagnitudeMax)
	}
	if view.ZoomLevel < 1 {
		return fmt.Errorf("%w: %d", types.ErrInvalidZoom, view.ZoomLevel)
	}
	if math.IsNaN(view.HandleTop) || math.IsInf(view.HandleTop, 0) {
		return fmt.Errorf("%w: handle top %v", types.ErrInvalidViewport, view.HandleTop)
	}
	if view.SpectrogramHeight <= 0 {
		return fmt.Errorf("%w: height %d", types.ErrInvalidViewport, view.SpectrogramHeight)
	}
	if !view.Window.Valid() {
		return fmt.Errorf("%w: %v", types.ErrUnknownWindow, view.Window)
	}
	if _, ok := s.tables[view.ColorMap]; !ok {
		return fmt.Errorf("%w: %v", types.ErrUnknownColorMap, view.ColorMap)
	}
	return nil
}

// TileRange maps the scroll position in view to the fractional tile range on screen.
func (s *Spectrogram) TileRange(view types.ViewportState) types.TileRange {
	return viewport.CalculateTileNumbers(view.HandleTop, s.info.TotalIQSamples, view.FFTSize, view.SpectrogramHeight, view.ZoomLevel, s.tileSize)
}

// Render produces the raster for view from whatever tiles are cached now. Tiles not yet fetched
// are painted with the fill colour and listed in MissingTiles. An invalid view returns an error
// and leaves LastResult untouched.
func (s *Spectrogram) Render(ctx context.Context, view types.ViewportState) (types.RenderResult, error) {
	if err := s.Validate(view); err != nil {
		s.NotifyLoggers(types.WarnLevel, "Render: rejected viewport", "component", s.snapshotMetadata(), "error", err)
		return types.RenderResult{}, err
	}

	s.renderLock.Lock()
	defer s.renderLock.Unlock()
	defer s.setState(Idle)

	start := time.Now()
	rows, missing, tr, err := s.rowsLocked(ctx, view)
	if err != nil {
		return types.RenderResult{}, err
	}

	s.setState(Quantizing)
	raster, err := colormap.Quantize(rows, view.FFTSize, view.MagnitudeMin, view.MagnitudeMax, s.tables[view.ColorMap])
	if err != nil {
		return types.RenderResult{}, err
	}

	result := types.RenderResult{
		Image:        raster,
		Width:        view.FFTSize,
		Height:       len(rows) / view.FFTSize,
		Tiles:        tr,
		MissingTiles: missing,
	}
	s.last = &result
	s.notifyRenderComplete(result.Height, len(missing), time.Since(start))
	return result, nil
}

// RenderAndFetch renders view and requests a fetch for every missing tile. Progress arrives on
// Ready.
func (s *Spectrogram) RenderAndFetch(ctx context.Context, view types.ViewportState) (types.RenderResult, error) {
	result, err := s.Render(ctx, view)
	if err != nil {
		return result, err
	}
	if len(result.MissingTiles) > 0 {
		started := s.coordinator.RequestFetchAll(result.MissingTiles)
		s.NotifyLoggers(types.DebugLevel, "RenderAndFetch: requested missing tiles",
			"component", s.snapshotMetadata(), "missing", result.MissingTiles, "started", started)
	}
	return result, nil
}

// Rows returns the trimmed and decimated dB rows for view without quantizing them, along with the
// tiles still missing. Missing rows hold -Inf.
func (s *Spectrogram) Rows(ctx context.Context, view types.ViewportState) ([]float32, []int, error) {
	if err := s.Validate(view); err != nil {
		return nil, nil, err
	}
	s.renderLock.Lock()
	defer s.renderLock.Unlock()
	defer s.setState(Idle)

	rows, missing, _, err := s.rowsLocked(ctx, view)
	return rows, missing, err
}

func (s *Spectrogram) rowsLocked(ctx context.Context, view types.ViewportState) ([]float32, []int, types.TileRange, error) {
	if s.closed {
		return nil, nil, types.TileRange{}, types.ErrClosed
	}
	s.invalidateIfNeeded(view)

	s.setState(Computing)
	tr := s.TileRange(view)
	indices := viewport.Indices(tr)
	if err := s.computeTiles(ctx, indices, view); err != nil {
		return nil, nil, tr, err
	}

	s.setState(Composing)
	composed, missing := s.compose(indices, view.FFTSize)
	s.pruneLocked(indices)
	rows := viewport.Trim(composed, view.FFTSize, tr, s.tileSize)
	return viewport.Decimate(rows, view.FFTSize, view.ZoomLevel), missing, tr, nil
}

func (s *Spectrogram) invalidateIfNeeded(view types.ViewportState) {
	key := fftKey{fftSize: view.FFTSize, window: view.Window}
	if key == s.cacheKey {
		return
	}
	reason := "window"
	switch {
	case key.fftSize != s.cacheKey.fftSize && key.window != s.cacheKey.window:
		reason = "fft_size,window"
	case key.fftSize != s.cacheKey.fftSize:
		reason = "fft_size"
	}
	entries := len(s.fftCache)
	s.fftCache = make(map[int][]float32)
	s.cacheKey = key
	if entries > 0 {
		s.notifyCacheInvalidated(reason, entries)
	}
}

func (s *Spectrogram) computeTiles(ctx context.Context, indices []int, view types.ViewportState) error {
	var need []int
	for _, t := range indices {
		if _, ok := s.fftCache[t]; !ok {
			need = append(need, t)
		}
	}
	if len(need) == 0 {
		return nil
	}
	available, _ := s.coordinator.GetTiles(need)
	for _, t := range need {
		samples, ok := available[t]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		rows, err := s.processor.ComputeTile(samples, view.FFTSize, view.Window)
		if err != nil {
			return fmt.Errorf("spectrogram: tile %d: %w", t, err)
		}
		s.fftCache[t] = rows
		s.notifyTileComputed(t, len(rows)/view.FFTSize, time.Since(start))
	}
	return nil
}

// compose concatenates the rows of each tile in indices, padding or truncating every tile to the
// row count its position in the recording implies.
func (s *Spectrogram) compose(indices []int, fftSize int) ([]float32, []int) {
	total := 0
	for _, t := range indices {
		total += viewport.TileRows(t, s.info.TotalIQSamples, fftSize, s.tileSize)
	}
	out := make([]float32, 0, total*fftSize)
	missing := make([]int, 0)
	negInf := float32(math.Inf(-1))

	for _, t := range indices {
		want := viewport.TileRows(t, s.info.TotalIQSamples, fftSize, s.tileSize) * fftSize
		rows, ok := s.fftCache[t]
		if !ok {
			missing = append(missing, t)
			rows = nil
		}
		if len(rows) > want {
			rows = rows[:want]
		}
		out = append(out, rows...)
		for i := len(rows); i < want; i++ {
			out = append(out, negInf)
		}
	}
	sort.Ints(missing)
	return out, missing
}

// pruneLocked drops FFT rows whose samples were evicted and which are no longer on screen.
func (s *Spectrogram) pruneLocked(visible []int) {
	if s.maxTiles <= 0 {
		return
	}
	keep := make(map[int]struct{}, len(visible))
	for _, t := range visible {
		keep[t] = struct{}{}
	}
	for t := range s.fftCache {
		if _, ok := keep[t]; ok {
			continue
		}
		if !s.coordinator.Contains(t) {
			delete(s.fftCache, t)
		}
	}
}

func (s *Spectrogram) setState(st State) { s.state.Store(int32(st)) }

package viewport

import "github.com/joeydtaylor/iqview/pkg/internal/types"

// HandleTopForSample is the inverse of the scroll mapping: the handle position, in pixels, that
// puts sample at the top of the view.
func HandleTopForSample(sample, totalIQSamples int64, heightPx int) float64 {
	if totalIQSamples <= 0 || heightPx <= 0 {
		return 0
	}
	if sample < 0 {
		sample = 0
	}
	if sample > totalIQSamples {
		sample = totalIQSamples
	}
	return float64(sample) * float64(heightPx) / float64(totalIQSamples)
}

// SampleAtHandleTop returns the first sample shown for a handle at handleTop pixels.
func SampleAtHandleTop(handleTop float64, totalIQSamples int64, heightPx int) int64 {
	if heightPx <= 0 {
		return 0
	}
	s := int64(float64(totalIQSamples) * handleTop / float64(heightPx))
	if s < 0 {
		return 0
	}
	if s > totalIQSamples {
		return totalIQSamples
	}
	return s
}

// MapSampleRangeToPixels places an annotation in the current raster. Y is in displayed rows
// counted from tr.Lower, X in frequency bins across fftSize pixels. An annotation with no
// frequency edges, or a recording without a sample rate, spans the full width.
func MapSampleRangeToPixels(a types.Annotation, view types.ViewportState, info types.RecordingInfo, tr types.TileRange, tileSize int) types.PixelRect {
	zoom := view.ZoomLevel
	if zoom < 1 {
		zoom = 1
	}
	samplesPerRow := float64(view.FFTSize * zoom)
	if samplesPerRow <= 0 {
		return types.PixelRect{}
	}
	topSample := tr.Lower * float64(tileSize)

	r := types.PixelRect{
		Y0: (float64(a.SampleStart) - topSample) / samplesPerRow,
		Y1: (float64(a.SampleStart+a.SampleCount) - topSample) / samplesPerRow,
		X0: 0,
		X1: float64(view.FFTSize),
	}
	if info.SampleRate > 0 && (a.FreqLowerEdge != 0 || a.FreqUpperEdge != 0) {
		lowEdge := info.CenterFrequency - info.SampleRate/2
		r.X0 = (a.FreqLowerEdge - lowEdge) / info.SampleRate * float64(view.FFTSize)
		r.X1 = (a.FreqUpperEdge - lowEdge) / info.SampleRate * float64(view.FFTSize)
	}

	rows := (tr.Upper - tr.Lower) * float64(tileSize) / samplesPerRow
	r.Visible = r.Y1 > 0 && r.Y0 < rows && r.X1 > 0 && r.X0 < float64(view.FFTSize)
	return r
}

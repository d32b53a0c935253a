// Package viewport holds the stateless math that links the scrollbar position, the fractional
// tile range on screen and sample indices, plus the trim and zoom steps applied to composed
// FFT rows.
package viewport

import (
	"math"

	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

// CalculateTileNumbers returns the fractional tile range visible for a scrollbar handle at
// handleTop pixels. The range is clamped to [0, totalIQSamples/tileSize].
func CalculateTileNumbers(handleTop float64, totalIQSamples int64, fftSize, heightPx, zoom, tileSize int) types.TileRange {
	if heightPx <= 0 || fftSize <= 0 || tileSize <= 0 {
		return types.TileRange{}
	}
	if zoom < 1 {
		zoom = 1
	}
	fftsOnScreen := float64(heightPx * zoom)
	fftsPerTile := float64(tileSize / fftSize)
	fractionIntoFile := handleTop / float64(heightPx)

	lower := float64(totalIQSamples) * fractionIntoFile / float64(tileSize)
	upper := fftsOnScreen/fftsPerTile + lower

	totalTiles := float64(totalIQSamples) / float64(tileSize)
	lower = clamp(lower, 0, totalTiles)
	upper = clamp(upper, lower, totalTiles)
	return types.TileRange{Lower: lower, Upper: upper}
}

// Range returns every integer in [start, end).
func Range(start, end int) []int {
	if end <= start {
		return []int{}
	}
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

// Indices returns the whole tiles touched by tr.
func Indices(tr types.TileRange) []int {
	return Range(int(math.Floor(tr.Lower)), int(math.Ceil(tr.Upper)))
}

// TileRows returns how many complete FFT rows tile t holds in a recording of totalIQSamples.
// The last tile may be short; tiles past the end hold none.
func TileRows(t int, totalIQSamples int64, fftSize, tileSize int) int {
	if fftSize <= 0 || tileSize <= 0 || t < 0 {
		return 0
	}
	start := int64(t) * int64(tileSize)
	remaining := totalIQSamples - start
	if remaining <= 0 {
		return 0
	}
	if remaining > int64(tileSize) {
		remaining = int64(tileSize)
	}
	return int(remaining / int64(fftSize))
}

// Trim cuts the composed rows of tiles Indices(tr) down to the rows inside [tr.Lower, tr.Upper).
// The start rounds down to a whole row and the row count is the span rounded to the nearest row,
// so a view that is not clamped at the end of the recording keeps the same height at every scroll
// position. The result aliases rows.
func Trim(rows []float32, fftSize int, tr types.TileRange, tileSize int) []float32 {
	if fftSize <= 0 || tileSize <= 0 || len(rows) == 0 {
		return rows[:0]
	}
	rowsPerTile := float64(tileSize / fftSize)
	actualRows := len(rows) / fftSize

	start := int(math.Floor((tr.Lower - math.Floor(tr.Lower)) * rowsPerTile))
	span := int(math.Round((tr.Upper - tr.Lower) * rowsPerTile))
	if start < 0 {
		start = 0
	}
	if start > actualRows {
		start = actualRows
	}
	end := start + span
	if end > actualRows {
		end = actualRows
	}
	if end < start {
		end = start
	}
	return rows[start*fftSize : end*fftSize]
}

// Decimate reduces rows by the zoom factor. Zoom 1 returns rows unchanged. Zoom 2 to 10
// max-pools each bin over groups of zoom rows; larger factors keep every zoom-th row. The
// output always has ceil(rowCount/zoom) rows, so a trailing partial group still produces one.
func Decimate(rows []float32, fftSize, zoom int) []float32 {
	if zoom <= 1 || fftSize <= 0 {
		return rows
	}
	n := len(rows) / fftSize
	outRows := (n + zoom - 1) / zoom
	out := make([]float32, outRows*fftSize)

	if zoom > 10 {
		for o := 0; o < outRows; o++ {
			src := o * zoom
			copy(out[o*fftSize:(o+1)*fftSize], rows[src*fftSize:(src+1)*fftSize])
		}
		return out
	}

	for o := 0; o < outRows; o++ {
		dst := out[o*fftSize : (o+1)*fftSize]
		first := o * zoom
		copy(dst, rows[first*fftSize:(first+1)*fftSize])
		for r := first + 1; r < first+zoom && r < n; r++ {
			src := rows[r*fftSize : (r+1)*fftSize]
			for j, v := range src {
				// -Inf placeholders never beat real data.
				if v > dst[j] {
					dst[j] = v
				}
			}
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FirstSample returns the IQ sample index of the first row Trim keeps for tr.
func FirstSample(tr types.TileRange, fftSize, tileSize int) int64 {
	if fftSize <= 0 || tileSize <= 0 {
		return 0
	}
	first := math.Floor(tr.Lower)
	lowerTrim := int64(math.Floor((tr.Lower - first) * float64(tileSize/fftSize)))
	return int64(first)*int64(tileSize) + lowerTrim*int64(fftSize)
}

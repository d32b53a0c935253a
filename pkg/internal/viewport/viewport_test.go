package viewport_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"github.com/joeydtaylor/iqview/pkg/internal/viewport"
)

func TestCalculateTileNumbers_Scenario(t *testing.T) {
	tr := viewport.CalculateTileNumbers(0, 4096, 256, 16, 1, 1024)
	if tr.Lower != 0 || tr.Upper != 4 {
		t.Fatalf("expected [0,4), got %+v", tr)
	}
	if got := viewport.Indices(tr); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Fatalf("expected tiles 0..3, got %v", got)
	}
}

func TestCalculateTileNumbers_FractionalAndClamped(t *testing.T) {
	// 100 tiles, 100 rows on screen = 25 tiles, handle a quarter of the way down.
	tr := viewport.CalculateTileNumbers(25, 102400, 256, 100, 1, 1024)
	if tr.Lower != 25 || tr.Upper != 50 {
		t.Fatalf("expected [25,50), got %+v", tr)
	}

	tr = viewport.CalculateTileNumbers(12.5, 102400, 256, 100, 2, 1024)
	if tr.Lower != 12.5 || tr.Upper != 62.5 {
		t.Fatalf("expected [12.5,62.5), got %+v", tr)
	}
	if got := viewport.Indices(tr); len(got) != 51 || got[0] != 12 || got[50] != 62 {
		t.Fatalf("unexpected indices %v", got)
	}

	// Past the end clamps both bounds.
	tr = viewport.CalculateTileNumbers(99, 102400, 256, 100, 4, 1024)
	if tr.Upper != 100 || tr.Lower != 99 {
		t.Fatalf("expected upper clamp to 100, got %+v", tr)
	}
	tr = viewport.CalculateTileNumbers(-10, 102400, 256, 100, 1, 1024)
	if tr.Lower != 0 {
		t.Fatalf("expected lower clamp to 0, got %+v", tr)
	}
	tr = viewport.CalculateTileNumbers(500, 102400, 256, 100, 1, 1024)
	if tr.Lower != 100 || tr.Upper != 100 || len(viewport.Indices(tr)) != 0 {
		t.Fatalf("expected empty range at the end, got %+v", tr)
	}
	if tr := viewport.CalculateTileNumbers(0, 4096, 256, 0, 1, 1024); tr != (types.TileRange{}) {
		t.Fatalf("expected zero range for zero height, got %+v", tr)
	}
}

func TestRange(t *testing.T) {
	if got := viewport.Range(3, 6); !reflect.DeepEqual(got, []int{3, 4, 5}) {
		t.Fatalf("unexpected range %v", got)
	}
	if got := viewport.Range(5, 5); len(got) != 0 {
		t.Fatalf("expected empty range, got %v", got)
	}
	if got := viewport.Range(5, 2); len(got) != 0 {
		t.Fatalf("expected empty range, got %v", got)
	}
}

func TestTileRows(t *testing.T) {
	cases := []struct {
		tile  int
		total int64
		want  int
	}{
		{0, 4096, 4},
		{3, 4096, 4},
		{4, 4096, 0},
		{4, 4096 + 300, 1},
		{4, 4096 + 200, 0},
		{-1, 4096, 0},
	}
	for _, tc := range cases {
		if got := viewport.TileRows(tc.tile, tc.total, 256, 1024); got != tc.want {
			t.Fatalf("TileRows(%d, %d) = %d, want %d", tc.tile, tc.total, got, tc.want)
		}
	}
}

// rowsFor builds one fftSize-wide row per value, each row filled with its value.
func rowsFor(fftSize int, values ...float32) []float32 {
	out := make([]float32, 0, fftSize*len(values))
	for _, v := range values {
		for j := 0; j < fftSize; j++ {
			out = append(out, v)
		}
	}
	return out
}

func rowIDs(rows []float32, fftSize int) []float32 {
	out := make([]float32, 0, len(rows)/fftSize)
	for i := 0; i < len(rows); i += fftSize {
		out = append(out, rows[i])
	}
	return out
}

func TestTrim_FractionalBounds(t *testing.T) {
	const fft, tile = 2, 8 // 4 rows per tile
	// Tiles 1..3 -> rows 4..15.
	composed := rowsFor(fft, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15)
	tr := types.TileRange{Lower: 1.5, Upper: 3.25}
	got := rowIDs(viewport.Trim(composed, fft, tr, tile), fft)
	want := []float32{6, 7, 8, 9, 10, 11, 12}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected rows %v, got %v", want, got)
	}
}

func TestTrim_WholeTilesUnchanged(t *testing.T) {
	composed := rowsFor(2, 0, 1, 2, 3, 4, 5, 6, 7)
	got := viewport.Trim(composed, 2, types.TileRange{Lower: 0, Upper: 2}, 8)
	if len(got) != len(composed) {
		t.Fatalf("expected no trim, got %d values", len(got))
	}
}

func TestTrim_ShortLastTile(t *testing.T) {
	const fft, tile = 256, 1024
	total := int64(4096 + 300)
	tr := viewport.CalculateTileNumbers(0, total, fft, 100, 1, tile)
	idx := viewport.Indices(tr)
	if !reflect.DeepEqual(idx, []int{0, 1, 2, 3, 4}) {
		t.Fatalf("unexpected indices %v", idx)
	}
	var composed []float32
	id := float32(0)
	for _, ti := range idx {
		for r := 0; r < viewport.TileRows(ti, total, fft, tile); r++ {
			composed = append(composed, rowsFor(fft, id)...)
			id++
		}
	}
	got := viewport.Trim(composed, fft, tr, tile)
	if len(got)/fft != 17 {
		t.Fatalf("expected all 17 rows kept, got %d", len(got)/fft)
	}
}

func TestTrim_PartitionCoversVisibleRowsOnce(t *testing.T) {
	const fft, tile = 32, 1024
	rowsPerTile := tile / fft
	total := int64(tile * 40)
	for handle := 0.0; handle < 100; handle += 3.7 {
		tr := viewport.CalculateTileNumbers(handle, total, fft, 100, 1, tile)
		idx := viewport.Indices(tr)
		composed := make([]float32, 0, len(idx)*rowsPerTile*fft)
		for _, ti := range idx {
			for r := 0; r < rowsPerTile; r++ {
				composed = append(composed, rowsFor(fft, float32(ti*rowsPerTile+r))...)
			}
		}
		got := rowIDs(viewport.Trim(composed, fft, tr, tile), fft)
		first := int(math.Floor(tr.Lower * float64(rowsPerTile)))
		for i, v := range got {
			if int(v) != first+i {
				t.Fatalf("handle %v: row %d is %v, want %d (duplicate or gap)", handle, i, v, first+i)
			}
		}
		span := (tr.Upper - tr.Lower) * float64(rowsPerTile)
		if tr.Upper < 40 && len(got) != 100 {
			t.Fatalf("handle %v: kept %d rows, want the full 100 row screen", handle, len(got))
		}
		if math.Abs(float64(len(got))-span) > 1 {
			t.Fatalf("handle %v: kept %d rows for a span of %.2f", handle, len(got), span)
		}
	}
}

func TestTrim_HeightStableWhileScrolling(t *testing.T) {
	const fft, tile, height = 256, 1024, 100
	rowsPerTile := tile / fft
	total := int64(tile * 40)
	for _, handle := range []float64{0, 7.4, 37, 12.345, 55.5} {
		tr := viewport.CalculateTileNumbers(handle, total, fft, height, 1, tile)
		if tr.Upper >= 40 {
			continue
		}
		idx := viewport.Indices(tr)
		composed := make([]float32, len(idx)*rowsPerTile*fft)
		if got := len(viewport.Trim(composed, fft, tr, tile)) / fft; got != height {
			t.Fatalf("handle %v (tiles %.3f-%.3f): kept %d rows, want %d", handle, tr.Lower, tr.Upper, got, height)
		}
	}
}

func TestDecimate_MaxPool(t *testing.T) {
	rows := []float32{1, 5, 3, 9, 2, 4, 0, 0, 0}
	got := viewport.Decimate(rows, 3, 3)
	if !reflect.DeepEqual(got, []float32{9, 5, 4}) {
		t.Fatalf("expected [9 5 4], got %v", got)
	}
}

func TestDecimate_ZoomOnePassThrough(t *testing.T) {
	rows := rowsFor(4, 1, 2, 3, 4, 5)
	got := viewport.Decimate(rows, 4, 1)
	if len(got) != len(rows) {
		t.Fatalf("expected %d values, got %d", len(rows), len(got))
	}
}

func TestDecimate_TrailingGroupAndSentinel(t *testing.T) {
	negInf := float32(math.Inf(-1))
	rows := []float32{
		1, 2,
		negInf, negInf,
		3, 0,
		7, 1,
		negInf, negInf,
	}
	got := viewport.Decimate(rows, 2, 2)
	want := []float32{1, 2, 7, 1, negInf, negInf}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDecimate_SkipSample(t *testing.T) {
	ids := make([]float32, 25)
	for i := range ids {
		ids[i] = float32(i)
	}
	got := rowIDs(viewport.Decimate(rowsFor(2, ids...), 2, 12), 2)
	if !reflect.DeepEqual(got, []float32{0, 12, 24}) {
		t.Fatalf("expected rows 0,12,24, got %v", got)
	}
}

func TestFirstSample(t *testing.T) {
	// tile 1024, fft 256: four rows per tile; 1.5 keeps rows from row 2 of tile 1.
	if got := viewport.FirstSample(types.TileRange{Lower: 1.5, Upper: 3.25}, 256, 1024); got != 1024+2*256 {
		t.Fatalf("FirstSample = %d", got)
	}
	if got := viewport.FirstSample(types.TileRange{Lower: 0, Upper: 4}, 256, 1024); got != 0 {
		t.Fatalf("FirstSample = %d", got)
	}
}

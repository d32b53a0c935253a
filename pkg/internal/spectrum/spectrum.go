// Package spectrum turns one tile of interleaved IQ samples into consecutive rows of dB
// magnitudes, one row per FFT.
package spectrum

import (
	"fmt"
	"math"
	"sync"

	"github.com/joeydtaylor/iqview/pkg/internal/fftengine"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"gonum.org/v1/gonum/floats"
)

// Processor runs the window, FFT, magnitude, shift and dB steps for a tile.
type Processor struct {
	engine       fftengine.Engine
	legacyWindow bool
	bufPool      sync.Pool
}

// NewProcessor returns a processor using the go-dsp engine unless WithEngine is given.
func NewProcessor(options ...types.Option[*Processor]) *Processor {
	p := &Processor{engine: fftengine.NewGoDSP()}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Engine returns the FFT engine in use.
func (p *Processor) Engine() fftengine.Engine { return p.engine }

// LegacyWindowing reports whether the real-half windowing mode is enabled.
func (p *Processor) LegacyWindowing() bool { return p.legacyWindow }

// RowsPerTile returns how many complete FFT rows fit in a buffer of sampleLen interleaved values.
func RowsPerTile(sampleLen, fftSize int) int {
	if fftSize <= 0 {
		return 0
	}
	return sampleLen / (2 * fftSize)
}

// ComputeTile returns RowsPerTile(len(samples), fftSize)*fftSize dB values. A trailing partial
// row is dropped.
func (p *Processor) ComputeTile(samples []float32, fftSize int, w types.WindowFunction) ([]float32, error) {
	if err := fftengine.ValidateSize(fftSize); err != nil {
		return nil, err
	}
	coeffs, err := Coefficients(w, fftSize)
	if err != nil {
		return nil, err
	}

	rows := RowsPerTile(len(samples), fftSize)
	out := make([]float32, rows*fftSize)
	buf := p.buffer(2 * fftSize)
	defer p.bufPool.Put(buf)
	mag := make([]float64, fftSize)

	for row := 0; row < rows; row++ {
		src := samples[row*2*fftSize : (row+1)*2*fftSize]
		for i, v := range src {
			(*buf)[i] = float64(v)
		}
		p.applyWindow(*buf, coeffs)

		if err := p.engine.Transform(*buf, *buf); err != nil {
			return nil, fmt.Errorf("spectrum: row %d: %w", row, err)
		}
		floats.Scale(1/float64(fftSize), *buf)

		for k := 0; k < fftSize; k++ {
			re, im := (*buf)[2*k], (*buf)[2*k+1]
			mag[k] = math.Sqrt(re*re + im*im)
		}
		FFTShift(mag)

		dst := out[row*fftSize : (row+1)*fftSize]
		for k, m := range mag {
			dst[k] = toDB(m)
		}
	}
	return out, nil
}

func (p *Processor) applyWindow(buf []float64, coeffs []float64) {
	if p.legacyWindow {
		// Scales the first half of the interleaved slice, so mostly every other real value.
		for i, c := range coeffs {
			buf[i] *= c
		}
		return
	}
	for i, c := range coeffs {
		buf[2*i] *= c
		buf[2*i+1] *= c
	}
}

func (p *Processor) buffer(n int) *[]float64 {
	if v, ok := p.bufPool.Get().(*[]float64); ok && len(*v) == n {
		return v
	}
	b := make([]float64, n)
	return &b
}

// FFTShift swaps the halves of v in place so the zero-frequency bin lands at len(v)/2.
func FFTShift(v []float64) {
	half := len(v) / 2
	if len(v)%2 == 0 {
		for i := 0; i < half; i++ {
			v[i], v[i+half] = v[i+half], v[i]
		}
		return
	}
	rotated := append(append(make([]float64, 0, len(v)), v[half+1:]...), v[:half+1]...)
	copy(v, rotated)
}

func toDB(m float64) float32 {
	db := 10 * math.Log10(m)
	if math.IsInf(db, 0) || math.IsNaN(db) {
		return 0
	}
	return float32(db)
}

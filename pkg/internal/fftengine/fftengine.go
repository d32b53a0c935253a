// Package fftengine computes complex DFTs over interleaved real/imaginary buffers.
//
// Buffers hold N complex values as 2N float64s: [re0, im0, re1, im1, ...]. No normalization is
// applied; callers divide by N when converting to magnitude.
package fftengine

import (
	"fmt"
	"strings"

	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

const (
	BackendGoDSP = "godsp"
	BackendGonum = "gonum"
)

// Engine transforms an interleaved buffer of 2N values into its DFT.
type Engine interface {
	Transform(dst, src []float64) error
	Name() string
}

// New returns the engine registered under name. An empty name selects the go-dsp backend.
func New(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendGoDSP:
		return NewGoDSP(), nil
	case BackendGonum:
		return NewGonum(), nil
	default:
		return nil, fmt.Errorf("fftengine: unknown backend %q", name)
	}
}

// ValidateSize reports ErrInvalidFFTSize unless n is a power of two of at least 2.
func ValidateSize(n int) error {
	if n < 2 || n&(n-1) != 0 {
		return fmt.Errorf("%w: %d is not a power of two >= 2", types.ErrInvalidFFTSize, n)
	}
	return nil
}

func checkBuffers(dst, src []float64) (int, error) {
	if len(src)%2 != 0 {
		return 0, fmt.Errorf("%w: odd interleaved length %d", types.ErrInvalidFFTSize, len(src))
	}
	n := len(src) / 2
	if err := ValidateSize(n); err != nil {
		return 0, err
	}
	if len(dst) != len(src) {
		return 0, fmt.Errorf("fftengine: dst length %d does not match src length %d", len(dst), len(src))
	}
	return n, nil
}

func unpack(dst []complex128, src []float64) {
	for i := range dst {
		dst[i] = complex(src[2*i], src[2*i+1])
	}
}

func pack(dst []float64, src []complex128) {
	for i, c := range src {
		dst[2*i] = real(c)
		dst[2*i+1] = imag(c)
	}
}

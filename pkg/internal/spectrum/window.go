package spectrum

import (
	"fmt"
	"math"
	"sync"

	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"gonum.org/v1/gonum/dsp/window"
)

type windowKey struct {
	w types.WindowFunction
	n int
}

var (
	windowCacheMu sync.RWMutex
	windowCache   = make(map[windowKey][]float64)
)

// Coefficients returns the n window coefficients for w. The returned slice is shared and must
// not be modified.
func Coefficients(w types.WindowFunction, n int) ([]float64, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("%w: %v", types.ErrUnknownWindow, w)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: window length %d", types.ErrInvalidFFTSize, n)
	}
	key := windowKey{w: w, n: n}

	windowCacheMu.RLock()
	c, ok := windowCache[key]
	windowCacheMu.RUnlock()
	if ok {
		return c, nil
	}

	c = buildCoefficients(w, n)
	windowCacheMu.Lock()
	if existing, ok := windowCache[key]; ok {
		c = existing
	} else {
		windowCache[key] = c
	}
	windowCacheMu.Unlock()
	return c, nil
}

func buildCoefficients(w types.WindowFunction, n int) []float64 {
	c := make([]float64, n)
	for i := range c {
		c[i] = 1
	}
	if n == 1 {
		return c
	}
	switch w {
	case types.Hamming:
		window.Hamming(c)
	case types.Hanning:
		window.Hann(c)
	case types.Bartlett:
		window.Triangular(c)
	case types.Blackman:
		// Denominator is N, not N-1.
		fn := float64(n)
		for i := range c {
			x := float64(i)
			c[i] = 0.42 - 0.5*math.Cos(2*math.Pi*x/fn) + 0.08*math.Cos(4*math.Pi*x/fn)
		}
	}
	return c
}

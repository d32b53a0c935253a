package fftengine_test

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/joeydtaylor/iqview/pkg/internal/fftengine"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

func naiveDFT(src []float64) []float64 {
	n := len(src) / 2
	out := make([]float64, len(src))
	for k := 0; k < n; k++ {
		var acc complex128
		for t := 0; t < n; t++ {
			x := complex(src[2*t], src[2*t+1])
			acc += x * cmplx.Exp(complex(0, -2*math.Pi*float64(k*t)/float64(n)))
		}
		out[2*k] = real(acc)
		out[2*k+1] = imag(acc)
	}
	return out
}

func engines(t *testing.T) []fftengine.Engine {
	t.Helper()
	var out []fftengine.Engine
	for _, name := range []string{"", fftengine.BackendGoDSP, fftengine.BackendGonum} {
		e, err := fftengine.New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		out = append(out, e)
	}
	return out
}

func TestTransform_MatchesNaiveDFT(t *testing.T) {
	const n = 32
	src := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		src[2*i] = math.Sin(float64(i)*0.7) + 0.25
		src[2*i+1] = math.Cos(float64(i) * 1.3)
	}
	want := naiveDFT(src)

	for _, e := range engines(t) {
		dst := make([]float64, len(src))
		if err := e.Transform(dst, src); err != nil {
			t.Fatalf("%s: Transform error: %v", e.Name(), err)
		}
		for i := range want {
			if math.Abs(dst[i]-want[i]) > 1e-9 {
				t.Fatalf("%s: bin value %d: got %.12f want %.12f", e.Name(), i, dst[i], want[i])
			}
		}
	}
}

func TestTransform_InPlace(t *testing.T) {
	buf := []float64{1, 0, 0, 0, 0, 0, 0, 0}
	for _, e := range engines(t) {
		in := append([]float64(nil), buf...)
		if err := e.Transform(in, in); err != nil {
			t.Fatalf("%s: Transform error: %v", e.Name(), err)
		}
		for k := 0; k < 4; k++ {
			if math.Abs(in[2*k]-1) > 1e-12 || math.Abs(in[2*k+1]) > 1e-12 {
				t.Fatalf("%s: impulse should give flat spectrum, bin %d = (%v, %v)", e.Name(), k, in[2*k], in[2*k+1])
			}
		}
	}
}

func TestTransform_RejectsInvalidSizes(t *testing.T) {
	for _, e := range engines(t) {
		for _, n := range []int{0, 1, 3, 6, 100} {
			src := make([]float64, 2*n)
			if err := e.Transform(make([]float64, len(src)), src); !errors.Is(err, types.ErrInvalidFFTSize) {
				t.Fatalf("%s: size %d: expected ErrInvalidFFTSize, got %v", e.Name(), n, err)
			}
		}
		if err := e.Transform(make([]float64, 4), make([]float64, 8)); err == nil {
			t.Fatalf("%s: expected length mismatch error", e.Name())
		}
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	if _, err := fftengine.New("fftw"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestValidateSize(t *testing.T) {
	for _, n := range []int{2, 32, 1024, 65536} {
		if err := fftengine.ValidateSize(n); err != nil {
			t.Fatalf("ValidateSize(%d) = %v", n, err)
		}
	}
}

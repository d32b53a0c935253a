package fftengine

import "github.com/mjibson/go-dsp/fft"

// GoDSP runs transforms through github.com/mjibson/go-dsp, which caches twiddle factors per size
// and is safe for concurrent use.
type GoDSP struct{}

// NewGoDSP returns the go-dsp backed engine.
func NewGoDSP() *GoDSP { return &GoDSP{} }

// Name returns the backend identifier.
func (*GoDSP) Name() string { return BackendGoDSP }

// Transform writes the DFT of src into dst. dst and src may alias.
func (*GoDSP) Transform(dst, src []float64) error {
	n, err := checkBuffers(dst, src)
	if err != nil {
		return err
	}
	seq := make([]complex128, n)
	unpack(seq, src)
	pack(dst, fft.FFT(seq))
	return nil
}

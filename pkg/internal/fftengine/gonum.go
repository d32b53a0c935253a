package fftengine

import (
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

type gonumPlan struct {
	mu   sync.Mutex
	fft  *fourier.CmplxFFT
	work []complex128
}

// Gonum runs transforms through gonum's fourier.CmplxFFT. One plan is cached per size; a plan
// carries scratch space so calls on the same size are serialized.
type Gonum struct {
	mu    sync.Mutex
	plans map[int]*gonumPlan
}

// NewGonum returns the gonum backed engine.
func NewGonum() *Gonum {
	return &Gonum{plans: make(map[int]*gonumPlan)}
}

// Name returns the backend identifier.
func (*Gonum) Name() string { return BackendGonum }

func (g *Gonum) plan(n int) *gonumPlan {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.plans[n]
	if !ok {
		p = &gonumPlan{fft: fourier.NewCmplxFFT(n), work: make([]complex128, n)}
		g.plans[n] = p
	}
	return p
}

// Transform writes the DFT of src into dst. dst and src may alias.
func (g *Gonum) Transform(dst, src []float64) error {
	n, err := checkBuffers(dst, src)
	if err != nil {
		return err
	}
	p := g.plan(n)
	p.mu.Lock()
	defer p.mu.Unlock()

	unpack(p.work, src)
	out := p.fft.Coefficients(nil, p.work)
	pack(dst, out)
	return nil
}

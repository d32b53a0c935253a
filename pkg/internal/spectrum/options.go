package spectrum

import (
	"github.com/joeydtaylor/iqview/pkg/internal/fftengine"
	"github.com/joeydtaylor/iqview/pkg/internal/types"
)

// WithEngine selects the FFT engine. A nil engine is ignored.
func WithEngine(e fftengine.Engine) types.Option[*Processor] {
	return func(p *Processor) {
		if e != nil {
			p.engine = e
		}
	}
}

// WithLegacyWindowing multiplies the first fftSize values of the interleaved row by the window
// instead of both components of every sample. Output then matches recordings rendered by older
// viewers bit for bit.
func WithLegacyWindowing() types.Option[*Processor] {
	return func(p *Processor) {
		p.legacyWindow = true
	}
}

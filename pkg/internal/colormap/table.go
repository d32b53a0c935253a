// Package colormap maps dB magnitudes onto 256-entry colour lookup tables and produces RGBA
// rasters from them.
package colormap

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/joeydtaylor/iqview/pkg/internal/types"
	"github.com/lucasb-eyer/go-colorful"
)

// TableSize is the number of entries every colormap table must hold.
const TableSize = 256

// Table is a validated 256-entry lookup table.
type Table []color.RGBA

// NewTable copies entries into a Table, failing with ErrMalformedColorMap unless there are
// exactly TableSize of them. Alpha is forced to opaque.
func NewTable(entries []color.RGBA) (Table, error) {
	if len(entries) != TableSize {
		return nil, fmt.Errorf("%w: %d entries, want %d", types.ErrMalformedColorMap, len(entries), TableSize)
	}
	t := make(Table, TableSize)
	for i, c := range entries {
		c.A = 255
		t[i] = c
	}
	return t, nil
}

type blendMode int

const (
	blendLab blendMode = iota
	blendRGB
)

type stopSet struct {
	hex  []string
	mode blendMode
}

var builtinStops = map[types.ColorMapID]stopSet{
	types.Viridis: {mode: blendLab, hex: []string{
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
	}},
	types.Turbo: {mode: blendLab, hex: []string{
		"#30123b", "#4145ab", "#4675ed", "#39a2fc", "#1bcfd4", "#24eca6",
		"#61fc6c", "#a4fc3b", "#d1e834", "#f3c63a", "#fe9b2d", "#f36315",
		"#d93806", "#b11901", "#7a0402",
	}},
	types.Jet: {mode: blendRGB, hex: []string{
		"#00007f", "#0000ff", "#007fff", "#00ffff", "#7fff7f", "#ffff00", "#ff7f00", "#ff0000", "#7f0000",
	}},
	types.Gray: {mode: blendRGB, hex: []string{"#000000", "#ffffff"}},
	types.Hot: {mode: blendRGB, hex: []string{"#0b0000", "#ff0000", "#ffff00", "#ffffff"}},
}

var (
	builtinMu     sync.Mutex
	builtinTables = make(map[types.ColorMapID]Table)
)

// Lookup returns the built-in table for id. Tables are generated on first use.
func Lookup(id types.ColorMapID) (Table, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %v", types.ErrUnknownColorMap, id)
	}
	builtinMu.Lock()
	defer builtinMu.Unlock()
	if t, ok := builtinTables[id]; ok {
		return t, nil
	}
	entries, err := generate(builtinStops[id])
	if err != nil {
		return nil, fmt.Errorf("colormap %v: %w", id, err)
	}
	t, err := NewTable(entries)
	if err != nil {
		return nil, err
	}
	builtinTables[id] = t
	return t, nil
}

// LoadAll returns every built-in table keyed by id.
func LoadAll() (map[types.ColorMapID]Table, error) {
	out := make(map[types.ColorMapID]Table, int(types.Hot)+1)
	for id := types.Viridis; id <= types.Hot; id++ {
		t, err := Lookup(id)
		if err != nil {
			return nil, err
		}
		out[id] = t
	}
	return out, nil
}

func generate(s stopSet) ([]color.RGBA, error) {
	if len(s.hex) < 2 {
		return nil, fmt.Errorf("%w: need at least two colour stops", types.ErrMalformedColorMap)
	}
	stops := make([]colorful.Color, len(s.hex))
	for i, h := range s.hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("%w: stop %q: %v", types.ErrMalformedColorMap, h, err)
		}
		stops[i] = c
	}

	segments := float64(len(stops) - 1)
	out := make([]color.RGBA, TableSize)
	for i := range out {
		pos := float64(i) / float64(TableSize-1) * segments
		seg := int(pos)
		if seg >= len(stops)-1 {
			seg = len(stops) - 2
		}
		frac := pos - float64(seg)

		var c colorful.Color
		if s.mode == blendLab {
			c = stops[seg].BlendLab(stops[seg+1], frac)
		} else {
			c = stops[seg].BlendRgb(stops[seg+1], frac)
		}
		r, g, b := c.Clamped().RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out, nil
}

package shading

import "github.com/lucasb-eyer/go-colorful"

// Surface is a catalog entry: the material for a named body plus any extra
// geometry the body carries.
type Surface struct {
	Material Material
	Rings    bool
}

// surfaces maps known body names to their procedural surface.
var surfaces = map[string]Surface{
	"Sun": {Material: Stellar{
		Core: colorful.Color{R: 1.0, G: 1.0, B: 0.6},
		Mid:  colorful.Color{R: 1.0, G: 0.6, B: 0.1},
		Edge: colorful.Color{R: 0.8, G: 0.1, B: 0.0},
	}},

	"Mercury": {Material: Rocky{Color1: Hex(0x9e8770), Color2: Hex(0x5c4d42), NoiseScale: 0.8}},
	"Venus":   {Material: Rocky{Color1: Hex(0xd9863d), Color2: Hex(0xa65e2e), NoiseScale: 0.4}},
	"Mars":    {Material: Rocky{Color1: Hex(0xc1440e), Color2: Hex(0x8b3a1a), NoiseScale: 0.6}},

	"Earth": {Material: OceanCloud{
		Ocean: colorful.Color{R: 0.0, G: 0.2, B: 0.8},
		Land:  colorful.Color{R: 0.1, G: 0.5, B: 0.1},
	}},

	"Jupiter": {Material: GasGiant{Light: Hex(0xe3dccb), Dark: Hex(0x8c4718), Storm: Hex(0xcd853f), BandScale: 10}},
	"Saturn": {
		Material: GasGiant{Light: Hex(0xf4d03f), Dark: Hex(0xcdb87d), Storm: Hex(0xbf9b30), BandScale: 8},
		Rings:    true,
	},
	"Uranus":  {Material: GasGiant{Light: Hex(0x73fcd6), Dark: Hex(0x5ec4d6), Storm: Hex(0xa2c8c9), BandScale: 1.5}},
	"Neptune": {Material: GasGiant{Light: Hex(0x1d37b8), Dark: Hex(0x172280), Storm: Hex(0x4b70dd), BandScale: 3}},
}

// Lookup returns the surface for a body name. Unknown names get a flat
// material in the fallback colour.
func Lookup(name string, fallback colorful.Color) Surface {
	if s, ok := surfaces[name]; ok {
		return s
	}
	return Surface{Material: Flat{Color: fallback}}
}

// Package palette maps a scalar in [0,1] to a color along a named gradient
package palette

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/pepterm/terminal"
)

// DefaultName is the scheme used when none is requested
const DefaultName = "coolwarm"

// ErrUnknownScheme is returned by Lookup for names that are neither a scheme nor a color
var ErrUnknownScheme = errors.New("unknown color scheme")

// Scheme is an immutable gradient through evenly spaced stops
type Scheme struct {
	name  string
	stops []colorful.Color
}

// gradient stop definitions in cycle order
var definitions = []struct {
	name  string
	stops []string
}{
	{"rainbow", []string{"#0000ff", "#00ffff", "#00ff00", "#ffff00", "#ff0000"}},
	{"blues", []string{"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"}},
	{"greens", []string{"#f7fcf5", "#e5f5e0", "#c7e9c0", "#a1d99b", "#74c476", "#41ab5d", "#238b45", "#006d2c", "#00441b"}},
	{"reds", []string{"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#a50f15", "#67000d"}},
	{"oranges", []string{"#fff5eb", "#fee6ce", "#fdd0a2", "#fdae6b", "#fd8d3c", "#f16913", "#d94801", "#a63603", "#7f2704"}},
	{"purples", []string{"#fcfbfd", "#efedf5", "#dadaeb", "#bcbddc", "#9e9ac8", "#807dba", "#6a51a3", "#54278f", "#3f007d"}},
	{"viridis", []string{"#440154", "#482878", "#3e4a89", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6dcd59", "#b4de2c", "#fde725"}},
	{"plasma", []string{"#0d0887", "#4b03a1", "#7d03a8", "#a82296", "#cb4679", "#e56b5d", "#f89441", "#fdc328", "#f0f921"}},
	{"magma", []string{"#000004", "#1c1044", "#4f127b", "#812581", "#b5367a", "#e55064", "#fb8761", "#fec287", "#fcfdbf"}},
	{"inferno", []string{"#000004", "#280b54", "#65156e", "#9f2a63", "#d44842", "#f57d15", "#fac127", "#fcffa4"}},
	{"coolwarm", []string{"#3b4cc0", "#6282ea", "#8db0fe", "#b8d0f9", "#dddddd", "#f5c4ad", "#f49a7b", "#de604d", "#b40426"}},
	{"spectral", []string{"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b", "#ffffbf", "#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2"}},
	{"white", []string{"#ffffff"}},
}

var (
	schemes []Scheme
	byName  = make(map[string]int)
)

func init() {
	schemes = make([]Scheme, 0, len(definitions))
	for i, d := range definitions {
		stops := make([]colorful.Color, len(d.stops))
		for j, hex := range d.stops {
			c, err := colorful.Hex(hex)
			if err != nil {
				panic(fmt.Sprintf("palette: scheme %s stop %d: %v", d.name, j, err))
			}
			stops[j] = c
		}
		schemes = append(schemes, Scheme{name: d.name, stops: stops})
		byName[d.name] = i
	}
}

// Names returns the built-in scheme names in cycle order
func Names() []string {
	names := make([]string, len(schemes))
	for i, s := range schemes {
		names[i] = s.name
	}
	return names
}

// Default returns the default scheme
func Default() Scheme {
	return schemes[byName[DefaultName]]
}

// Lookup resolves a built-in scheme by name, or any color tcell knows by name or #rrggbb as a solid scheme
func Lookup(name string) (Scheme, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if i, ok := byName[key]; ok {
		return schemes[i], nil
	}
	if key == "" {
		return Scheme{}, ErrUnknownScheme
	}

	tc := tcell.GetColor(key)
	if tc == tcell.ColorDefault || !tc.Valid() {
		return Scheme{}, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
	r, g, b := tc.RGB()
	if r < 0 {
		return Scheme{}, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
	return Solid(key, terminal.RGB{R: uint8(r), G: uint8(g), B: uint8(b)}), nil
}

// Solid returns a single color scheme
func Solid(name string, c terminal.RGB) Scheme {
	return Scheme{name: name, stops: []colorful.Color{{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}}}
}

// Name returns the scheme's display name
func (s Scheme) Name() string {
	return s.name
}

// Valid reports whether the scheme has at least one stop
func (s Scheme) Valid() bool {
	return len(s.stops) > 0
}

// Next returns the following built-in scheme, wrapping at the end
// Solid colors outside the built-in list continue from the first scheme
func (s Scheme) Next() Scheme {
	i, ok := byName[s.name]
	if !ok {
		return schemes[0]
	}
	return schemes[(i+1)%len(schemes)]
}

// Color maps t to a color, t is clamped to [0,1]
func (s Scheme) Color(t float64) terminal.RGB {
	n := len(s.stops)
	switch n {
	case 0:
		return terminal.RGBWhite
	case 1:
		return toRGB(s.stops[0])
	}

	if t != t || t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	scaled := t * float64(n-1)
	i := min(int(math.Floor(scaled)), n-2)
	return toRGB(s.stops[i].BlendRgb(s.stops[i+1], scaled-float64(i)))
}

func toRGB(c colorful.Color) terminal.RGB {
	r, g, b := c.Clamped().RGB255()
	return terminal.RGB{R: r, G: g, B: b}
}

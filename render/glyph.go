package render

import (
	"fmt"
	"strings"
)

// GlyphShape selects how a block of samples maps onto one terminal cell
type GlyphShape uint8

const (
	GlyphBlock   GlyphShape = iota // 2x2 quadrant block elements
	GlyphBraille                   // 2x4 braille dots
)

// GlyphBlank is the glyph for an all-off pattern in every shape
const GlyphBlank = ' '

// Quadrant glyphs indexed by mask, bit y*2+x
var blockGlyphs = [16]rune{
	' ', '▘', '▝', '▀',
	'▖', '▌', '▞', '▛',
	'▗', '▚', '▐', '▜',
	'▄', '▙', '▟', '█',
}

// brailleDot maps bit y*2+x to the Unicode braille dot bit
// Dots 1-3 run down the left column, 4-6 down the right, 7-8 form the bottom row
var brailleDot = [8]uint8{
	0x01, 0x08, // y0
	0x02, 0x10, // y1
	0x04, 0x20, // y2
	0x40, 0x80, // y3
}

var brailleGlyphs [256]rune

func init() {
	for mask := 0; mask < 256; mask++ {
		var dots uint8
		for bit := 0; bit < 8; bit++ {
			if mask&(1<<bit) != 0 {
				dots |= brailleDot[bit]
			}
		}
		brailleGlyphs[mask] = 0x2800 + rune(dots)
	}
	brailleGlyphs[0] = GlyphBlank
}

// Width returns the sample columns per terminal cell
func (s GlyphShape) Width() int {
	return 2
}

// Height returns the sample rows per terminal cell
func (s GlyphShape) Height() int {
	if s == GlyphBraille {
		return 4
	}
	return 2
}

// Patterns returns the number of distinct on/off patterns, 2^(W*H)
func (s GlyphShape) Patterns() int {
	return 1 << (s.Width() * s.Height())
}

// Pack maps an on/off pattern (bit y*Width+x) to its glyph
// Bits beyond the shape's sample count are ignored
func (s GlyphShape) Pack(mask uint8) rune {
	if s == GlyphBraille {
		return brailleGlyphs[mask]
	}
	return blockGlyphs[mask&0x0f]
}

func (s GlyphShape) String() string {
	if s == GlyphBraille {
		return "braille"
	}
	return "block"
}

// ParseGlyphShape resolves a flag or config value
func ParseGlyphShape(name string) (GlyphShape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "block", "blocks", "quadrant":
		return GlyphBlock, nil
	case "braille", "dots", "":
		return GlyphBraille, nil
	}
	return GlyphBraille, fmt.Errorf("unknown glyph shape %q", name)
}

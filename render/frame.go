package render

import (
	"io"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/lixenwraith/pepterm/terminal"
)

// FrameEncoder packs a framebuffer into one terminal payload per frame
// The output buffer and per-row scratch are reused across frames
type FrameEncoder struct {
	shape GlyphShape
	mode  terminal.ColorMode

	buf   []byte
	masks []uint8
	sums  []colorSum
}

// NewFrameEncoder creates an encoder for the given glyph shape and color mode
func NewFrameEncoder(shape GlyphShape, mode terminal.ColorMode) *FrameEncoder {
	return &FrameEncoder{
		shape: shape,
		mode:  mode,
		buf:   make([]byte, 0, 64*1024),
	}
}

func (e *FrameEncoder) Shape() GlyphShape            { return e.shape }
func (e *FrameEncoder) ColorMode() terminal.ColorMode { return e.mode }

// Columns returns the terminal cell columns covered by a framebuffer of the given width
func (e *FrameEncoder) Columns(fbWidth int) int {
	return ceilDiv(fbWidth, e.shape.Width())
}

// Rows returns the terminal cell rows covered by a framebuffer of the given height
func (e *FrameEncoder) Rows(fbHeight int) int {
	return ceilDiv(fbHeight, e.shape.Height())
}

// Encode builds the frame payload
// The returned slice aliases the encoder's buffer and is valid until the next Encode
func (e *FrameEncoder) Encode(fb *Framebuffer, status string) []byte {
	gw, gh := e.shape.Width(), e.shape.Height()
	cols := e.Columns(fb.width)
	rows := e.Rows(fb.height)

	if cap(e.masks) < cols {
		e.masks = make([]uint8, cols)
		e.sums = make([]colorSum, cols)
	}
	masks := e.masks[:cols]
	sums := e.sums[:cols]

	buf := e.buf[:0]
	buf = append(buf, terminal.CSIHome...)
	buf = append(buf, terminal.CSISGR0...)

	var last RGB
	var last256 uint8
	hasColor := false

	for row := 0; row < rows; row++ {
		clear(masks)
		clear(sums)

		y0 := row * gh
		for sy := 0; sy < gh; sy++ {
			y := y0 + sy
			if y >= fb.height {
				break
			}
			line := fb.cells[y*fb.width : (y+1)*fb.width]
			for x := range line {
				s := &line[x]
				if !s.On {
					continue
				}
				col := x / gw
				masks[col] |= 1 << (sy*gw + x%gw)
				sums[col].add(s.Color)
			}
		}

		for col := 0; col < cols; col++ {
			if masks[col] == 0 {
				buf = append(buf, GlyphBlank)
				continue
			}
			c := sums[col].mean()
			if e.mode == terminal.ColorModeTrueColor {
				if !hasColor || c != last {
					buf = terminal.AppendFg(buf, c, e.mode)
					last = c
				}
			} else {
				idx := terminal.RGBTo256(c)
				if !hasColor || idx != last256 {
					buf = terminal.AppendFg(buf, c, e.mode)
					last256 = idx
				}
			}
			hasColor = true
			buf = utf8.AppendRune(buf, e.shape.Pack(masks[col]))
		}

		buf = append(buf, terminal.CSIClearLine...)
		buf = append(buf, terminal.CRLF...)
	}

	buf = append(buf, terminal.CSISGR0...)
	if n := uniseg.GraphemeClusterCount(status); n < cols {
		for pad := (cols - n) / 2; pad > 0; pad-- {
			buf = append(buf, ' ')
		}
	}
	buf = append(buf, status...)
	buf = append(buf, terminal.CSIClearLine...)

	e.buf = buf
	return buf
}

// Flush encodes the frame and hands it to w in a single Write
func (e *FrameEncoder) Flush(w io.Writer, fb *Framebuffer, status string) error {
	_, err := w.Write(e.Encode(fb, status))
	return err
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

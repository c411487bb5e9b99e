package terminal

// Pre-allocated ANSI sequence fragments (avoid allocations during render)
var (
	CSIHome      = []byte("\x1b[H")
	CSISGR0      = []byte("\x1b[0m")
	CSIClearLine = []byte("\x1b[K") // erase cursor to end of line
	CRLF         = []byte("\r\n")

	csiClear = []byte("\x1b[2J\x1b[H")
	csiRIS   = []byte("\x1bc") // Reset to Initial State (emergency)

	// Cursor control
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	// Screen modes
	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// DECAWM: ?7l keeps the cursor at the right edge so a full-width row never scrolls
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	// Mouse reporting: 1000 click, 1002 button-drag motion, 1006 SGR encoding
	csiMouseClickOn  = []byte("\x1b[?1000h")
	csiMouseClickOff = []byte("\x1b[?1000l")
	csiMouseDragOn   = []byte("\x1b[?1002h")
	csiMouseDragOff  = []byte("\x1b[?1002l")
	csiMouseSGROn    = []byte("\x1b[?1006h")
	csiMouseSGROff   = []byte("\x1b[?1006l")

	// Color prefixes
	csiFg256 = []byte("\x1b[38;5;") // followed by N m
	csiFgRGB = []byte("\x1b[38;2;") // followed by R;G;B m
)

// AppendInt appends a non-negative decimal without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func AppendInt(buf []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		return append(buf, byte(n)+'0')
	}
	if n < 100 {
		return append(buf, byte(n/10)+'0', byte(n%10)+'0')
	}
	if n < 1000 {
		return append(buf, byte(n/100)+'0', byte(n/10%10)+'0', byte(n%10)+'0')
	}
	var tmp [20]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = byte(n%10) + '0'
		n /= 10
	}
	return append(buf, tmp[i:]...)
}

// AppendFg appends a foreground color sequence for the given mode
func AppendFg(buf []byte, c RGB, mode ColorMode) []byte {
	if mode == ColorModeTrueColor {
		buf = append(buf, csiFgRGB...)
		buf = AppendInt(buf, int(c.R))
		buf = append(buf, ';')
		buf = AppendInt(buf, int(c.G))
		buf = append(buf, ';')
		buf = AppendInt(buf, int(c.B))
		return append(buf, 'm')
	}
	buf = append(buf, csiFg256...)
	buf = AppendInt(buf, int(RGBTo256(c)))
	return append(buf, 'm')
}

package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/lixenwraith/pepterm/parameter"
)

// StatusInfo is what the status line reports
type StatusInfo struct {
	Inputs     []string
	Scheme     string
	AutoRotate bool
	FPS        float64
}

// InputLabel names the loaded inputs: one or a few joined by "+", else a count
func InputLabel(inputs []string) string {
	switch {
	case len(inputs) == 1:
		return inputs[0]
	case len(inputs) <= parameter.StatusMaxInputs:
		return strings.Join(inputs, "+")
	default:
		return strconv.Itoa(len(inputs)) + " structures"
	}
}

// StatusLine picks the longest variant that fits strictly inside cols display columns
// Falls back to truncating the shortest variant
func StatusLine(info StatusInfo, cols int) string {
	mode := "manual"
	if info.AutoRotate {
		mode = "auto"
	}
	sep := parameter.StatusSeparator
	short := InputLabel(info.Inputs) + sep + info.Scheme
	medium := short + sep + mode + sep + fmt.Sprintf("%.0ffps", info.FPS)
	full := medium + sep + parameter.StatusKeysHint

	for _, s := range []string{full, medium, short} {
		if cols > ansi.StringWidth(s) {
			return s
		}
	}
	if cols <= 1 {
		return ""
	}
	return ansi.Truncate(short, cols-1, "…")
}

package model

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/lixenwraith/pepterm/render"
	"github.com/lixenwraith/pepterm/vmath"
)

const (
	// DedupeTolerance is the per-coordinate distance under which two segments are the same
	DedupeTolerance = 0.001
	// MinSegmentLength drops tessellation slivers
	MinSegmentLength = 0.1
	// MaxSegments caps the per-frame rasterization work
	MaxSegments = 50000
)

// ErrNoVertices is returned for an OBJ without any "v" record
var ErrNoVertices = errors.New("no vertices found in OBJ")

// ParseError locates a malformed OBJ record
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("obj line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadOBJ reads a cartoon OBJ from disk, naming the model after the file
func LoadOBJ(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m, nil
}

// ParseOBJ builds a model from OBJ vertices and face/outline records
// Every polygon contributes its closed edge loop; colors start white
func ParseOBJ(r io.Reader) (*Model, error) {
	var (
		vertices []vmath.Vec3F
		faces    [][]int
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	var pending strings.Builder
	startLine := 0

	for sc.Scan() {
		lineNo++
		text := sc.Text()
		if pending.Len() == 0 {
			startLine = lineNo
		}
		// Backslash continues the record on the next line
		if strings.HasSuffix(text, "\\") {
			pending.WriteString(text[:len(text)-1])
			pending.WriteByte(' ')
			continue
		}
		pending.WriteString(text)
		record := pending.String()
		pending.Reset()

		fields := strings.Fields(record)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			var xyz [3]float64
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, &ParseError{Line: startLine, Err: err}
				}
				xyz[i] = f
			}
			vertices = append(vertices, vmath.V3F(xyz[0], xyz[1], xyz[2]))

		case "f", "fo":
			face := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, ok := vertexIndex(ref, len(vertices))
				if ok {
					face = append(face, idx)
				}
			}
			if len(face) >= 2 {
				faces = append(faces, face)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if len(vertices) == 0 {
		return nil, ErrNoVertices
	}

	return &Model{
		Segments: buildSegments(vertices, faces),
		Points:   vertices,
	}, nil
}

// vertexIndex resolves "i", "i/t", "i//n" and negative relative references to a 0-based index
func vertexIndex(ref string, seen int) (int, bool) {
	head, _, _ := strings.Cut(ref, "/")
	n, err := strconv.Atoi(head)
	if err != nil || n == 0 {
		return 0, false
	}
	if n < 0 {
		n = seen + n
		return n, n >= 0
	}
	return n - 1, true
}

func buildSegments(vertices []vmath.Vec3F, faces [][]int) []ColoredSegment {
	minIdx, maxIdx := math.MaxInt, 0
	for _, face := range faces {
		for _, idx := range face {
			minIdx = min(minIdx, idx)
			maxIdx = max(maxIdx, idx)
		}
	}
	span := 1
	if maxIdx > minIdx {
		span = maxIdx - minIdx
	}

	segs := make([]ColoredSegment, 0, len(faces)*3)
	for _, face := range faces {
		for i := range face {
			a, b := face[i], face[(i+1)%len(face)]
			if a >= len(vertices) || b >= len(vertices) {
				continue
			}
			segs = append(segs, ColoredSegment{
				Start:      vertices[a],
				End:        vertices[b],
				StartColor: render.RGBWhite,
				EndColor:   render.RGBWhite,
				StartT:     float64(a-minIdx) / float64(span),
				EndT:       float64(b-minIdx) / float64(span),
			})
		}
	}

	segs = dedupe(segs)

	minSq := MinSegmentLength * MinSegmentLength
	segs = slices.DeleteFunc(segs, func(s ColoredSegment) bool {
		return vmath.V3FMagSq(vmath.V3FSub(s.End, s.Start)) < minSq
	})

	return decimate(segs, MaxSegments)
}

// sortKey quantizes endpoints to DedupeTolerance, truncating toward zero
func sortKey(s ColoredSegment) [6]int {
	q := func(v float64) int { return int(v * (1 / DedupeTolerance)) }
	return [6]int{q(s.Start.X), q(s.Start.Y), q(s.Start.Z), q(s.End.X), q(s.End.Y), q(s.End.Z)}
}

// dedupe sorts by quantized endpoints and drops segments within tolerance of the previous kept one
func dedupe(segs []ColoredSegment) []ColoredSegment {
	slices.SortStableFunc(segs, func(a, b ColoredSegment) int {
		ka, kb := sortKey(a), sortKey(b)
		for i := range ka {
			if c := cmp.Compare(ka[i], kb[i]); c != 0 {
				return c
			}
		}
		return 0
	})

	if len(segs) == 0 {
		return segs
	}
	out := segs[:1]
	for _, s := range segs[1:] {
		last := out[len(out)-1]
		if vmath.V3FNear(s.Start, last.Start, DedupeTolerance) && vmath.V3FNear(s.End, last.End, DedupeTolerance) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// decimate keeps every step-th segment so at most limit remain
func decimate(segs []ColoredSegment, limit int) []ColoredSegment {
	if limit <= 0 || len(segs) <= limit {
		return segs
	}
	step := (len(segs) + limit - 1) / limit
	out := segs[:0]
	for i := 0; i < len(segs); i += step {
		out = append(out, segs[i])
	}
	return out
}

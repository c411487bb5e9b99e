// Package viewer runs the fixed-cadence frame loop: drain input, update the orbit,
// render every model, and write one frame per tick
package viewer

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/pepterm/camera"
	"github.com/lixenwraith/pepterm/config"
	"github.com/lixenwraith/pepterm/input"
	"github.com/lixenwraith/pepterm/model"
	"github.com/lixenwraith/pepterm/palette"
	"github.com/lixenwraith/pepterm/parameter"
	"github.com/lixenwraith/pepterm/render"
	"github.com/lixenwraith/pepterm/status"
	"github.com/lixenwraith/pepterm/terminal"
	"github.com/lixenwraith/pepterm/view"
)

// Viewer owns the per-session render state
// Not safe for concurrent use; Run is the only entry point during a session
type Viewer struct {
	term     terminal.Terminal
	interval time.Duration

	inputs   []string
	subjects []view.Subject
	scheme   palette.Scheme

	reducer *input.Reducer
	orbit   *view.Orbit
	fb      *render.Framebuffer
	cam     *camera.Camera
	enc     *render.FrameEncoder

	lastFrame time.Duration
	metrics   frameMetrics
}

// frameMetrics caches registry pointers so the loop writes atomics directly
type frameMetrics struct {
	frames      *atomic.Int64
	drawn       *atomic.Int64
	nearClipped *atomic.Int64
	behindNear  *atomic.Int64
	culled      *atomic.Int64
	degenerate  *atomic.Int64
	fps         *status.AtomicFloat
	peakMs      *status.AtomicFloat
	scheme      *status.AtomicString
	autoRotate  *atomic.Bool
}

func newFrameMetrics(r *status.Registry) frameMetrics {
	return frameMetrics{
		frames:      r.Ints.Get("frames"),
		drawn:       r.Ints.Get("segments.drawn"),
		nearClipped: r.Ints.Get("segments.near_clipped"),
		behindNear:  r.Ints.Get("segments.behind_near"),
		culled:      r.Ints.Get("segments.culled"),
		degenerate:  r.Ints.Get("segments.degenerate"),
		fps:         r.Floats.Get("fps"),
		peakMs:      r.Floats.Get("frame.peak_ms"),
		scheme:      r.Strings.Get("scheme"),
		autoRotate:  r.Bools.Get("auto_rotate"),
	}
}

// New builds a viewer over loaded models
// inputs are the names shown in the status line, one per model
func New(term terminal.Terminal, models []*model.Model, inputs []string, s *config.Settings, reg *status.Registry) *Viewer {
	if reg == nil {
		reg = status.NewRegistry()
	}
	subjects := make([]view.Subject, len(models))
	for i, m := range models {
		m.ApplyScheme(s.Scheme.Color)
		subjects[i] = view.NewSubject(m)
	}

	fb := render.NewFramebuffer(0, 0)
	v := &Viewer{
		term:      term,
		interval:  s.FrameInterval,
		inputs:    inputs,
		subjects:  subjects,
		scheme:    s.Scheme,
		reducer:   input.NewReducer(s.Keys),
		orbit:     view.NewOrbit(view.Home(subjects), view.MaxDiagonal(subjects), s.View),
		fb:        fb,
		cam:       camera.New(camera.Pose{}, s.Lens, fb),
		enc:       render.NewFrameEncoder(s.Glyph, term.ColorMode()),
		lastFrame: s.FrameInterval,
		metrics:   newFrameMetrics(reg),
	}
	v.metrics.scheme.Store(v.scheme.Name())
	return v
}

// Orbit exposes the view state
func (v *Viewer) Orbit() *view.Orbit {
	return v.orbit
}

// Scheme returns the active color scheme
func (v *Viewer) Scheme() palette.Scheme {
	return v.scheme
}

// Run renders until quit, input close, context cancellation, or a write failure
// Only a write or input error is returned
func (v *Viewer) Run(ctx context.Context) error {
	if v.interval <= 0 {
		v.interval = parameter.FrameInterval
	}
	timer := time.NewTimer(0)
	defer timer.Stop()

	var prevStart time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
		start := time.Now()
		if !prevStart.IsZero() {
			v.lastFrame = start.Sub(prevStart)
		}
		prevStart = start

		d := v.drain()
		if d.Closed {
			if d.Err != nil {
				return fmt.Errorf("input: %w", d.Err)
			}
			return nil
		}
		if d.Has(input.IntentQuit) {
			return nil
		}
		v.Update(d)

		cols, rows := v.term.Size()
		if err := v.term.Write(v.Render(cols, rows)); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}

		elapsed := time.Since(start)
		v.metrics.peakMs.Max(float64(elapsed) / float64(time.Millisecond))
		timer.Reset(max(v.interval-elapsed, 0))
	}
}

// drain folds every pending event into one delta without blocking
func (v *Viewer) drain() input.Delta {
	events := v.term.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				v.reducer.Feed(terminal.Event{Type: terminal.EventClosed})
				return v.reducer.Flush()
			}
			v.reducer.Feed(ev)
		default:
			return v.reducer.Flush()
		}
	}
}

// Update applies one frame of input to the scheme and orbit
func (v *Viewer) Update(d input.Delta) {
	for _, it := range d.Intents {
		if it == input.IntentCycleScheme {
			v.scheme = v.scheme.Next()
			for _, s := range v.subjects {
				s.Model.ApplyScheme(v.scheme.Color)
			}
			v.metrics.scheme.Store(v.scheme.Name())
			log.Printf("scheme: %s", v.scheme.Name())
		}
	}
	if d.Resized {
		cols, rows := v.term.Size()
		log.Printf("resize: %dx%d", cols, rows)
	}
	v.orbit.Apply(d, v.fb.Width())
	v.metrics.autoRotate.Store(v.orbit.AutoRotate)
}

// Render draws the current state for a cols x rows terminal and returns the encoded frame
// The bottom row is reserved for the status line
func (v *Viewer) Render(cols, rows int) []byte {
	shape := v.enc.Shape()
	fbRows := max(rows-parameter.StatusRows, 0)
	v.fb.Resize(max(cols, 0)*shape.Width(), fbRows*shape.Height())
	v.fb.Clear()
	v.cam.ResetStats()

	for _, p := range v.orbit.Layout(v.subjects, v.fb.Width(), v.fb.Height()) {
		if p.Split {
			v.cam.PlotModelInViewport(p.Subject.Model, p.Pose, p.Viewport)
			continue
		}
		v.cam.Pose = p.Pose
		v.cam.PlotModel(p.Subject.Model)
	}
	v.record(v.cam.Stats())

	fps := 0.0
	if v.lastFrame > 0 {
		fps = float64(time.Second) / float64(v.lastFrame)
	}
	v.metrics.fps.Set(fps)

	line := view.StatusLine(view.StatusInfo{
		Inputs:     v.inputs,
		Scheme:     v.scheme.Name(),
		AutoRotate: v.orbit.AutoRotate,
		FPS:        fps,
	}, cols)
	return v.enc.Encode(v.fb, line)
}

func (v *Viewer) record(s camera.Stats) {
	v.metrics.frames.Add(1)
	v.metrics.drawn.Add(int64(s.Drawn))
	v.metrics.nearClipped.Add(int64(s.NearClipped))
	v.metrics.behindNear.Add(int64(s.BehindNear))
	v.metrics.culled.Add(int64(s.Culled))
	v.metrics.degenerate.Add(int64(s.Degenerate))
}

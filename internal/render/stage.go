package render

import (
	"io"
	"log"
	"math"

	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/physics"
)

// Stage binds a ring to its surface and painter. Every method must be
// called from the goroutine that owns the ring.
type Stage struct {
	ring      *physics.Ring
	surface   dynamo.Surface
	painter   dynamo.Painter
	observers []dynamo.Observer
	onImpulse []func(frame int, imp physics.Impulse)
	frames    int
	last      physics.Impulse
	logger    *log.Logger

	tracked bool
	pointer dynamo.Vec2
}

// NewStage attaches surface to ring. The ring must already be initialized.
func NewStage(ring *physics.Ring, surface dynamo.Surface, painter dynamo.Painter) (*Stage, error) {
	if !ring.Initialized() {
		return nil, dynamo.ErrNotInitialized
	}
	if err := ring.SetSurface(surface); err != nil {
		return nil, err
	}
	if painter == nil {
		painter = NewContour()
	}
	return &Stage{
		ring:    ring,
		surface: surface,
		painter: painter,
		last:    physics.Impulse{Index: -1},
		logger:  log.New(io.Discard, "", 0),
	}, nil
}

func (s *Stage) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Stage) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// OnImpulse registers fn to run on every hover transition, with the
// number of frames rendered so far. The returned func unregisters it.
func (s *Stage) OnImpulse(fn func(frame int, imp physics.Impulse)) (remove func()) {
	i := len(s.onImpulse)
	s.onImpulse = append(s.onImpulse, fn)
	return func() { s.onImpulse[i] = nil }
}

func (s *Stage) Ring() *physics.Ring          { return s.ring }
func (s *Stage) Surface() dynamo.Surface      { return s.surface }
func (s *Stage) Frames() int                  { return s.frames }
func (s *Stage) LastImpulse() physics.Impulse { return s.last }

// Frame runs one advance-and-render pass.
func (s *Stage) Frame() {
	s.ring.AdvanceAndRender(s.painter)
	s.frames++
	if len(s.observers) == 0 {
		return
	}
	x := s.ring.State()
	for _, o := range s.observers {
		o.OnFrame(x, s.frames)
	}
}

// Pointer forwards a pointer position in surface coordinates.
func (s *Stage) Pointer(x, y float64) physics.Impulse {
	imp := s.ring.PointerMoved(dynamo.V(x, y))
	if imp.Transition != physics.NoTransition {
		s.last = imp
		s.logger.Printf("frame=%d %s angle=%.3f point=%d impulse=%.3f",
			s.frames, imp.Transition, imp.Angle, imp.Index, imp.Value)
		for _, fn := range s.onImpulse {
			if fn != nil {
				fn(s.frames, imp)
			}
		}
	}
	return imp
}

// Track forwards a polled pointer position to Pointer only when it differs
// from the previous polled one. The first call always forwards.
func (s *Stage) Track(x, y float64) (physics.Impulse, bool) {
	p := dynamo.V(x, y)
	if s.tracked && p == s.pointer {
		return physics.Impulse{Index: -1}, false
	}
	s.tracked, s.pointer = true, p
	return s.Pointer(x, y), true
}

// Resize changes the surface size when the surface supports it. Negative
// and non-finite sizes are ignored.
func (s *Stage) Resize(w, h float64) {
	if !(w >= 0 && h >= 0) || math.IsInf(w, 1) || math.IsInf(h, 1) {
		return
	}
	if r, ok := s.surface.(dynamo.Resizer); ok {
		r.Resize(w, h)
		s.logger.Printf("frame=%d resize %.0fx%.0f", s.frames, w, h)
	}
}

package render

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/physics"
)

// recorder logs every surface call as a string.
type recorder struct {
	w, h  float64
	calls []string
}

func (r *recorder) Size() (float64, float64) { return r.w, r.h }
func (r *recorder) Resize(w, h float64)      { r.w, r.h = w, h }
func (r *recorder) ClearRect(x, y, w, h float64) {
	r.calls = append(r.calls, fmt.Sprintf("clear %g %g %g %g", x, y, w, h))
}
func (r *recorder) BeginPath()          { r.calls = append(r.calls, "begin") }
func (r *recorder) MoveTo(x, y float64) { r.calls = append(r.calls, fmt.Sprintf("move %g %g", x, y)) }
func (r *recorder) QuadraticCurveTo(cx, cy, x, y float64) {
	r.calls = append(r.calls, fmt.Sprintf("quad %g %g %g %g", cx, cy, x, y))
}
func (r *recorder) ClosePath()                    { r.calls = append(r.calls, "close") }
func (r *recorder) SetFillColor(c dynamo.Color)   { r.calls = append(r.calls, "fillStyle "+string(c)) }
func (r *recorder) SetStrokeColor(c dynamo.Color) { r.calls = append(r.calls, "strokeStyle "+string(c)) }
func (r *recorder) Fill()                         { r.calls = append(r.calls, "fill") }
func (r *recorder) Stroke()                       { r.calls = append(r.calls, "stroke") }

func TestContourSquare(t *testing.T) {
	g := NewWithT(t)

	pts := []dynamo.Vec2{{X: -2, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: -2}}
	s := &recorder{}
	c := &Contour{Stroke: "#222222"}
	c.Paint(s, pts, "#ff0000")

	g.Expect(s.calls).To(Equal([]string{
		"begin",
		"move -1 -1",
		"quad -2 0 -1 1",
		"quad 0 2 1 1",
		"quad 2 0 1 -1",
		"quad 0 -2 -1 -1",
		"close",
		"fillStyle #ff0000",
		"fill",
		"strokeStyle #222222",
		"stroke",
	}))
}

func TestContourSegmentsClose(t *testing.T) {
	pts := []dynamo.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: -5, Y: 5}}
	start, segs := NewContour().Segments(pts)
	if len(segs) != len(pts) {
		t.Fatalf("expected %d segments, got %d", len(pts), len(segs))
	}
	if segs[len(segs)-1].To != start {
		t.Errorf("contour does not close: last %v start %v", segs[len(segs)-1].To, start)
	}
	for i, seg := range segs {
		if seg.Ctrl != pts[i] {
			t.Errorf("segment %d: control %v, expected %v", i, seg.Ctrl, pts[i])
		}
	}
}

func TestContourSkipsDegenerate(t *testing.T) {
	s := &recorder{}
	NewContour().Paint(s, []dynamo.Vec2{{X: 1, Y: 1}}, dynamo.DefaultFill)
	if len(s.calls) != 0 {
		t.Errorf("expected no drawing, got %v", s.calls)
	}
}

func newStage(t *testing.T, w, h float64) (*Stage, *recorder) {
	t.Helper()
	p := physics.DefaultRingParams()
	p.Points = 8
	p.Radius = 50
	ring, err := physics.NewRing(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := ring.Initialize(); err != nil {
		t.Fatal(err)
	}
	s := &recorder{w: w, h: h}
	st, err := NewStage(ring, s, nil)
	if err != nil {
		t.Fatal(err)
	}
	return st, s
}

func TestNewStageRequiresInitializedRing(t *testing.T) {
	ring, _ := physics.NewRing(physics.DefaultRingParams())
	if _, err := NewStage(ring, &recorder{w: 1, h: 1}, nil); err != dynamo.ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

type countingObserver struct{ frames []int }

func (c *countingObserver) OnFrame(_ dynamo.State, frame int) { c.frames = append(c.frames, frame) }

func TestStageFrame(t *testing.T) {
	g := NewWithT(t)
	st, s := newStage(t, 200, 100)
	obs := &countingObserver{}
	st.AddObserver(obs)

	st.Frame()
	st.Frame()

	g.Expect(st.Frames()).To(Equal(2))
	g.Expect(obs.frames).To(Equal([]int{1, 2}))
	g.Expect(s.calls[0]).To(Equal("clear 0 0 200 100"))
	g.Expect(s.calls).To(ContainElement("fill"))
}

func TestStageResize(t *testing.T) {
	g := NewWithT(t)
	st, _ := newStage(t, 200, 100)
	st.Resize(400, 400)
	g.Expect(st.Ring().Center()).To(Equal(dynamo.V(200, 200)))
	st.Resize(-1, 5)
	g.Expect(st.Ring().Center()).To(Equal(dynamo.V(200, 200)))
	st.Resize(math.NaN(), 300)
	g.Expect(st.Ring().Center()).To(Equal(dynamo.V(200, 200)))
	st.Resize(300, math.Inf(1))
	g.Expect(st.Ring().Center()).To(Equal(dynamo.V(200, 200)))
	st.Resize(0, 0)
	g.Expect(st.Ring().Center()).To(Equal(dynamo.V(0, 0)))
}

func TestStagePointerRecordsImpulse(t *testing.T) {
	st, _ := newStage(t, 200, 200)
	imp := st.Pointer(100, 100)
	if imp.Transition != physics.Enter {
		t.Fatalf("expected enter, got %v", imp.Transition)
	}
	if st.LastImpulse() != imp {
		t.Errorf("expected last impulse %+v, got %+v", imp, st.LastImpulse())
	}
}

func TestStageTrackSkipsStillPointer(t *testing.T) {
	g := NewWithT(t)
	st, _ := newStage(t, 200, 200)

	imp, ok := st.Track(100, 100)
	g.Expect(ok).To(BeTrue())
	g.Expect(imp.Transition).To(Equal(physics.Enter))

	// A shrunk surface moves the ring away; a still pointer must not leave.
	st.Resize(20, 20)
	_, ok = st.Track(100, 100)
	g.Expect(ok).To(BeFalse())
	g.Expect(st.Ring().Hovered()).To(BeTrue())
	g.Expect(st.LastImpulse()).To(Equal(imp))

	imp, ok = st.Track(101, 100)
	g.Expect(ok).To(BeTrue())
	g.Expect(imp.Transition).To(Equal(physics.Leave))
	g.Expect(st.Ring().PrevPointer()).To(Equal(dynamo.V(101, 100)))
}

func TestLoopManualFrames(t *testing.T) {
	g := NewWithT(t)
	st, _ := newStage(t, 200, 200)
	sched := NewManual(60)
	loop := NewLoop(st, sched)
	defer loop.Close()

	g.Expect(loop.Start(context.Background())).To(Succeed())
	g.Expect(loop.Running()).To(BeTrue())
	g.Expect(loop.Start(context.Background())).To(MatchError(ErrLoopRunning))

	for i := 0; i < 5; i++ {
		g.Expect(sched.Tick()).To(BeTrue())
	}
	g.Expect(st.Frames()).To(Equal(5))

	g.Expect(loop.Send(PointerEvent{X: 100, Y: 100})).To(BeTrue())
	g.Expect(sched.Tick()).To(BeTrue())
	g.Expect(st.Ring().Hovered()).To(BeTrue())

	g.Expect(loop.Send(ResizeEvent{W: 50, H: 50})).To(BeTrue())
	g.Expect(sched.Tick()).To(BeTrue())
	g.Expect(st.Ring().Center()).To(Equal(dynamo.V(25, 25)))

	loop.Stop()
	g.Expect(loop.Running()).To(BeFalse())
	g.Expect(loop.Send(PointerEvent{})).To(BeFalse())
	g.Expect(st.Frames()).To(Equal(7))
}

func TestLoopRestartAfterStop(t *testing.T) {
	st, _ := newStage(t, 200, 200)
	sched := NewManual(60)
	loop := NewLoop(st, sched)
	defer loop.Close()

	for round := 0; round < 3; round++ {
		if err := loop.Start(context.Background()); err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		sched.Tick()
		loop.Stop()
		loop.Stop()
	}
	if st.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d", st.Frames())
	}
}

func TestLoopRunHonoursContext(t *testing.T) {
	st, _ := newStage(t, 200, 200)
	loop := NewLoop(st, NewTicker(240))
	defer loop.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := loop.Run(ctx)
	if err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if loop.Running() {
		t.Error("loop still running after Run returned")
	}
	if st.Frames() == 0 {
		t.Error("expected at least one frame")
	}
}

func TestManualStopUnblocksTick(t *testing.T) {
	m := NewManual(30)
	m.Stop()
	m.Stop()
	if m.Tick() {
		t.Error("expected Tick to fail after Stop")
	}
}

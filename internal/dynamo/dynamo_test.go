package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	. "github.com/onsi/gomega"
)

func TestStateHalves(t *testing.T) {
	g := NewWithT(t)

	s := State{1, -3, 2, 0.5, 0.25, 0}
	g.Expect(s.Points()).To(Equal(3))
	g.Expect(s.Effects()).To(Equal([]float64{1, -3, 2}))
	g.Expect(s.Speeds()).To(Equal([]float64{0.5, 0.25, 0}))
	g.Expect(s.MaxAbsEffect()).To(Equal(3.0))
	g.Expect(s.IsValid()).To(BeTrue())

	s[1] = math.NaN()
	g.Expect(s.IsValid()).To(BeFalse())
}

func TestStateClone(t *testing.T) {
	s := State{1, 2}
	c := s.Clone()
	c[0] = 9
	if s[0] != 1 {
		t.Errorf("clone aliases original: %v", s)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#000000", "#000000", true},
		{"#FF0066", "#ff0066", true},
		{"#abc", "#aabbcc", true},
		{"red", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.ok && err != nil {
			t.Errorf("%q: unexpected error %v", tt.in, err)
			continue
		}
		if !tt.ok {
			if !errors.Is(err, ErrInvalidColor) {
				t.Errorf("%q: expected ErrInvalidColor, got %v", tt.in, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestColorBlendEndpoints(t *testing.T) {
	g := NewWithT(t)
	a, b := Color("#000000"), Color("#ffffff")
	g.Expect(a.Blend(b, 0)).To(Equal(a))
	g.Expect(a.Blend(b, 1)).To(Equal(b))
	g.Expect(a.Blend(b, 0.5)).NotTo(Or(Equal(a), Equal(b)))
	g.Expect(b.RGBA().R).To(Equal(uint8(0xff)))
}

func TestParamErrorUnwrap(t *testing.T) {
	err := Reject("radius", -1.0, ErrInvalidRadius)
	if !errors.Is(err, ErrInvalidRadius) {
		t.Fatal("expected ParamError to unwrap to ErrInvalidRadius")
	}
	var pe *ParamError
	if !errors.As(err, &pe) || pe.Name != "radius" {
		t.Fatalf("expected ParamError for radius, got %v", err)
	}
}

func TestPathFlatten(t *testing.T) {
	g := NewWithT(t)

	var p Path
	g.Expect(p.Empty()).To(BeTrue())

	p.BeginPath()
	p.MoveTo(0, 0)
	p.QuadraticCurveTo(10, 0, 10, 10)
	p.QuadraticCurveTo(0, 10, 0, 0)
	p.ClosePath()
	g.Expect(p.Empty()).To(BeFalse())

	polys := p.Flatten(4)
	g.Expect(polys).To(HaveLen(1))
	g.Expect(polys[0]).To(HaveLen(9))
	g.Expect(polys[0][0]).To(Equal(V(0, 0)))
	g.Expect(polys[0][4]).To(Equal(V(10, 10)))
	g.Expect(polys[0][8]).To(Equal(V(0, 0)))

	p.BeginPath()
	g.Expect(p.Flatten(4)).To(BeEmpty())
}

func TestQuadPointEndpoints(t *testing.T) {
	p0, c, p1 := V(0, 0), V(5, 10), V(10, 0)
	if QuadPoint(p0, c, p1, 0) != p0 || QuadPoint(p0, c, p1, 1) != p1 {
		t.Error("curve must pass through its endpoints")
	}
	if mid := QuadPoint(p0, c, p1, 0.5); mid != V(5, 5) {
		t.Errorf("expected (5,5), got %v", mid)
	}
}

func TestVec2(t *testing.T) {
	g := NewWithT(t)
	a, b := V(3, 4), V(1, 0)
	g.Expect(a.Len()).To(Equal(5.0))
	g.Expect(a.Mid(b)).To(Equal(V(2, 2)))
	g.Expect(a.Sub(b).Add(b)).To(Equal(a))
	g.Expect(a.Scale(2)).To(Equal(V(6, 8)))
	g.Expect(V(math.Inf(1), 0).Finite()).To(BeFalse())
}

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		var hits int64
		seen := make([]int32, n)
		ParallelFor(n, 3, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
				atomic.AddInt64(&hits, 1)
			}
		})
		if int(hits) != n {
			t.Errorf("n=%d: expected %d calls, got %d", n, n, hits)
		}
		for i, c := range seen {
			if c != 1 {
				t.Errorf("n=%d: index %d visited %d times", n, i, c)
			}
		}
	}
}

func TestValidSurface(t *testing.T) {
	var nilSurface *stubSurface
	if ValidSurface(nil) || ValidSurface(nilSurface) {
		t.Error("nil surfaces must be rejected")
	}
	if !ValidSurface(&stubSurface{w: 10, h: 10}) {
		t.Error("expected sized surface to be valid")
	}
}

type stubSurface struct {
	Path
	w, h float64
}

func (s *stubSurface) Size() (float64, float64)       { return s.w, s.h }
func (s *stubSurface) ClearRect(_, _, _, _ float64)   {}
func (s *stubSurface) SetFillColor(Color)             {}
func (s *stubSurface) SetStrokeColor(Color)           {}
func (s *stubSurface) Fill()                          {}
func (s *stubSurface) Stroke()                        {}

func TestFanWinding(t *testing.T) {
	g := NewWithT(t)
	for _, poly := range [][]Vec2{
		{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}},
		{{0, 0}, {0, 4}, {4, 4}, {4, 0}},
	} {
		tris := Fan(poly)
		g.Expect(tris).To(HaveLen(4))
		for _, tri := range tris {
			g.Expect(tri[0]).To(Equal(V(2, 2)))
			a, b := tri[1].Sub(tri[0]), tri[2].Sub(tri[0])
			g.Expect(a.X*b.Y - a.Y*b.X).To(BeNumerically("<", 0))
		}
	}
	g.Expect(Fan([]Vec2{{0, 0}, {1, 1}, {0, 0}})).To(BeNil())
}

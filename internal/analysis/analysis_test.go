package analysis

import (
	"math"
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/blobsim/internal/dynamo"
)

func sine(n int, period float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * float64(i) / period)
	}
	return out
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		hz  float64
		fps float64
	}{
		{5, 60},
		{1.5, 60},
		{12, 120},
	}
	for _, tt := range tests {
		data := sine(240, tt.fps/tt.hz)
		got := DominantFrequency(data, tt.fps)
		resolution := tt.fps / 256
		if math.Abs(got-tt.hz) > resolution {
			t.Errorf("%.1f Hz at %.0f fps: got %.3f", tt.hz, tt.fps, got)
		}
	}
}

func TestDominantFrequencySilent(t *testing.T) {
	if f := DominantFrequency(make([]float64, 64), 60); f != 0 {
		t.Errorf("expected 0 for silence, got %f", f)
	}
	if f := DominantFrequency(nil, 60); f != 0 {
		t.Errorf("expected 0 for empty input, got %f", f)
	}
}

func TestPowerSpectrumLength(t *testing.T) {
	g := NewWithT(t)
	g.Expect(PowerSpectrum(make([]float64, 100))).To(HaveLen(64))
	g.Expect(PowerSpectrum(make([]float64, 128))).To(HaveLen(64))
}

func TestModeSpectrum(t *testing.T) {
	g := NewWithT(t)
	const n = 32
	x := make(dynamo.State, 2*n)
	for i := 0; i < n; i++ {
		x[i] = math.Cos(2 * math.Pi * 3 * float64(i) / n)
	}
	modes := ModeSpectrum(x)
	g.Expect(modes).To(HaveLen(n/2 + 1))
	g.Expect(modes[3]).To(BeNumerically("~", 0.5, 1e-9))
	g.Expect(DominantMode(x)).To(Equal(3))
	g.Expect(DominantMode(make(dynamo.State, 2*n))).To(Equal(0))
}

func TestSeries(t *testing.T) {
	states := []dynamo.State{{1, 2, 0, 0}, {3, 4, 0, 0}}
	s := Series(states, 1)
	if len(s) != 2 || s[0] != 2 || s[1] != 4 {
		t.Errorf("unexpected series %v", s)
	}
	if len(Series(states, 5)) != 0 {
		t.Error("expected empty series for out of range point")
	}
}

func TestPeriod(t *testing.T) {
	p := Period(sine(200, 12))
	if math.Abs(p-12) > 1e-6 {
		t.Errorf("expected period 12, got %f", p)
	}
	if Period([]float64{1, 1, 1}) != 0 {
		t.Error("expected zero period without crossings")
	}
}

func TestPhasePortrait(t *testing.T) {
	g := NewWithT(t)
	states := make([]dynamo.State, 50)
	for i := range states {
		a := 2 * math.Pi * float64(i) / 50
		states[i] = dynamo.State{math.Cos(a), 0, -math.Sin(a), 0}
	}
	p := NewPhasePortrait(states, 0)
	g.Expect(p).NotTo(BeNil())
	g.Expect(p.Points).To(HaveLen(50))
	g.Expect(p.Points[0]).To(Equal(PhasePoint{X: 1, Y: 0}))

	art := p.ASCII(40, 20)
	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	g.Expect(lines).To(HaveLen(20))
	g.Expect(art).To(ContainSubstring("•"))
	g.Expect(art).To(ContainSubstring("│"))

	g.Expect(NewPhasePortrait(states, 2)).To(BeNil())
	g.Expect((*PhasePortrait)(nil).ASCII(10, 10)).To(BeEmpty())
}

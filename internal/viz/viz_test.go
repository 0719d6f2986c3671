package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega"

	"github.com/san-kum/blobsim/internal/config"
	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/physics"
)

func isSet(c *Canvas, x, y int) bool {
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// square traces an axis-aligned square with straight quadratic segments.
func square(c *Canvas, x0, y0, x1, y1 float64) {
	c.BeginPath()
	c.MoveTo(x0, y0)
	px, py := x0, y0
	for _, p := range [][2]float64{{x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}} {
		c.QuadraticCurveTo((px+p[0])/2, (py+p[1])/2, p[0], p[1])
		px, py = p[0], p[1]
	}
	c.ClosePath()
}

func TestCanvasSizeAndResize(t *testing.T) {
	g := NewWithT(t)
	c := NewCanvas(10, 5)
	w, h := c.Size()
	g.Expect(w).To(Equal(20.0))
	g.Expect(h).To(Equal(20.0))

	c.Resize(21, 9)
	g.Expect(c.Width).To(Equal(11))
	g.Expect(c.Height).To(Equal(3))
	g.Expect(strings.Count(c.String(), "\n")).To(Equal(3))
}

func TestCanvasFillSquare(t *testing.T) {
	g := NewWithT(t)
	c := NewCanvas(8, 4)
	square(c, 2, 2, 10, 10)
	c.SetFillColor("#ff0000")
	c.Fill()

	g.Expect(isSet(c, 5, 5)).To(BeTrue())
	g.Expect(isSet(c, 12, 12)).To(BeFalse())
	g.Expect(isSet(c, 0, 0)).To(BeFalse())
	g.Expect(c.Colors[5/4][5/2]).To(Equal(dynamo.Color("#ff0000")))
}

func TestCanvasRemap(t *testing.T) {
	c := NewCanvas(8, 4)
	c.Remap = ThemeInk.Remap()
	square(c, 2, 2, 10, 10)
	c.SetFillColor(dynamo.DefaultFill)
	c.Fill()
	if got := c.Colors[1][2]; got != ThemeInk.Ink {
		t.Errorf("expected remapped fill %s, got %s", ThemeInk.Ink, got)
	}
}

func TestCanvasLineAndClear(t *testing.T) {
	g := NewWithT(t)
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 5, 0)
	for x := 0; x <= 5; x++ {
		g.Expect(isSet(c, x, 0)).To(BeTrue(), "pixel %d", x)
	}

	c.ClearRect(0, 0, 2, 4)
	g.Expect(isSet(c, 0, 0)).To(BeFalse())
	g.Expect(isSet(c, 1, 0)).To(BeFalse())
	g.Expect(isSet(c, 2, 0)).To(BeTrue())

	w, h := c.Size()
	c.ClearRect(0, 0, w, h)
	g.Expect(c.String()).To(Equal(strings.Repeat(strings.Repeat(string(rune(blank)), 4)+"\n", 2)))
}

func TestThemesCycle(t *testing.T) {
	th := GetTheme("nope")
	if th.Name != ThemeInk.Name {
		t.Fatalf("expected fallback to ink, got %s", th.Name)
	}
	seen := map[string]bool{}
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(Themes) || th.Name != ThemeInk.Name {
		t.Errorf("cycle visited %v and ended on %s", seen, th.Name)
	}
}

func newModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(config.DefaultConfig(), WithOutputDir(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runeKey(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func TestModelRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Points = 1
	if _, err := NewModel(cfg); err == nil {
		t.Fatal("expected error for 1 point")
	}
}

func TestModelTicks(t *testing.T) {
	g := NewWithT(t)
	m := newModel(t)

	m, cmd := update(m, TickMsg{Token: m.token})
	g.Expect(cmd).NotTo(BeNil())
	g.Expect(m.Stage().Frames()).To(Equal(1))
	g.Expect(m.energyHistory).To(HaveLen(1))

	m, cmd = update(m, TickMsg{Token: m.token + 1})
	g.Expect(cmd).To(BeNil())
	g.Expect(m.Stage().Frames()).To(Equal(1))
}

func TestModelPauseDropsStaleTicks(t *testing.T) {
	g := NewWithT(t)
	m := newModel(t)
	stale := m.token

	m, cmd := update(m, runeKey(' '))
	g.Expect(m.Running()).To(BeFalse())
	g.Expect(cmd).To(BeNil())

	m, _ = update(m, TickMsg{Token: stale})
	g.Expect(m.Stage().Frames()).To(Equal(0))

	m, cmd = update(m, runeKey(' '))
	g.Expect(m.Running()).To(BeTrue())
	g.Expect(cmd).NotTo(BeNil())
	m, _ = update(m, TickMsg{Token: stale})
	g.Expect(m.Stage().Frames()).To(Equal(0))
	m, _ = update(m, TickMsg{Token: m.token})
	g.Expect(m.Stage().Frames()).To(Equal(1))
}

func TestModelWindowResizeFitsRing(t *testing.T) {
	g := NewWithT(t)
	m := newModel(t)
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	g.Expect(m.Canvas().Width).To(Equal(120 - panelWidth - 2*canvasPadX))
	g.Expect(m.Canvas().Height).To(Equal(40 - 2*canvasPadY))
	w, h := m.Canvas().Size()
	g.Expect(m.Stage().Ring().Radius()).To(BeNumerically("~", min(w, h)*fitRatio, 1e-9))
	g.Expect(m.Stage().Ring().Center()).To(Equal(dynamo.V(w/2, h/2)))
}

func TestModelMouseHover(t *testing.T) {
	g := NewWithT(t)
	m := newModel(t)
	c := m.Stage().Ring().Center()
	x := int(c.X-1)/2 + canvasPadX
	y := int(c.Y-2)/4 + canvasPadY

	m, _ = update(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	g.Expect(m.Stage().Ring().Hovered()).To(BeTrue())
	g.Expect(m.Stage().LastImpulse().Value).To(BeNumerically("<=", 0))

	m, _ = update(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	g.Expect(m.Stage().Ring().Hovered()).To(BeFalse())
	g.Expect(m.Stage().LastImpulse().Value).To(BeNumerically(">", 0))
}

func TestModelParamTuning(t *testing.T) {
	g := NewWithT(t)
	m := newModel(t)
	g.Expect(m.paramKeys).To(Equal([]string{"elasticity", "friction"}))

	before := m.Stage().Ring().GetParams()
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyUp})
	g.Expect(m.Stage().Ring().GetParams()["elasticity"]).To(BeNumerically("~", before["elasticity"]*1.05, 1e-12))

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	g.Expect(m.Stage().Ring().GetParams()["friction"]).To(BeNumerically("~", before["friction"]*0.95, 1e-12))

	m, _ = update(m, runeKey('r'))
	g.Expect(m.Stage().Ring().GetParams()["elasticity"]).To(Equal(before["elasticity"]))
	g.Expect(m.Stage().Ring().GetParams()["friction"]).To(Equal(before["friction"]))
}

func TestRestoreParamsSequential(t *testing.T) {
	g := NewWithT(t)
	initial := map[string]float64{"elasticity": 0.001, "friction": 0.0085}
	// Map order varies, so run enough times to hit both restore orders.
	for range 20 {
		p := physics.DefaultRingParams()
		p.Policy = physics.Sequential
		p.Elasticity, p.Friction = initial["elasticity"], initial["friction"]
		ring, err := physics.NewRing(p)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(ring.SetParam("friction", 0.02)).To(Succeed())
		g.Expect(ring.SetParam("elasticity", 0.0029)).To(Succeed())

		g.Expect(restoreParams(ring, initial)).To(Succeed())
		g.Expect(ring.GetParams()["elasticity"]).To(Equal(0.001))
		g.Expect(ring.GetParams()["friction"]).To(Equal(0.0085))
	}
}

func TestModelThemeAndHelp(t *testing.T) {
	g := NewWithT(t)
	m := newModel(t)
	first := m.Theme().Name

	m, _ = update(m, runeKey('t'))
	g.Expect(m.Theme().Name).NotTo(Equal(first))
	g.Expect(m.Canvas().Remap[dynamo.DefaultFill]).To(Equal(m.Theme().Ink))

	m, _ = update(m, runeKey('?'))
	g.Expect(m.View()).To(ContainSubstring("KEYBOARD SHORTCUTS"))
	m, _ = update(m, runeKey('?'))
	g.Expect(m.View()).NotTo(ContainSubstring("KEYBOARD SHORTCUTS"))
}

func TestModelRecordsGIFAndSVG(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()
	m, err := NewModel(config.DefaultConfig(), WithOutputDir(dir))
	g.Expect(err).NotTo(HaveOccurred())

	m, _ = update(m, runeKey('g'))
	g.Expect(m.Recording()).To(BeTrue())
	for i := 0; i < 3; i++ {
		m, _ = update(m, TickMsg{Token: m.token})
	}
	m, _ = update(m, runeKey('g'))
	g.Expect(m.Recording()).To(BeFalse())
	info, err := os.Stat(filepath.Join(dir, "blob.gif"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(info.Size()).To(BeNumerically(">", 0))

	m, _ = update(m, runeKey('s'))
	svg, err := os.ReadFile(filepath.Join(dir, "blob.svg"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(svg)).To(ContainSubstring("<path"))
	g.Expect(m.notice).To(ContainSubstring("blob.svg"))
}

func TestPickerLaunchesPreset(t *testing.T) {
	g := NewWithT(t)
	var m tea.Model = NewPicker(WithOutputDir(t.TempDir()))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p := m.(Picker)
	g.Expect(p.state).To(Equal(stateConfig))
	g.Expect(p.cfg.Points).To(Equal(config.GetPreset(p.presets[1]).Points))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	g.Expect(m.(Picker).cfg.Points).To(Equal(p.cfg.Points + 4))

	m, cmd := m.Update(runeKey('s'))
	g.Expect(cmd).NotTo(BeNil())
	live, ok := m.(Picker).Live()
	g.Expect(ok).To(BeTrue())
	g.Expect(live.Stage().Ring().PointCount()).To(Equal(p.cfg.Points + 4))
	g.Expect(m.View()).To(ContainSubstring("PARAMETERS"))
}

func TestPickerRejectsInvalidEdit(t *testing.T) {
	g := NewWithT(t)
	var m tea.Model = NewPicker()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	before := m.(Picker).cfg.Points

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	g.Expect(m.(Picker).editing).To(BeTrue())
	for range m.(Picker).editBuf {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m, _ = m.Update(runeKey('2'))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	p := m.(Picker)
	g.Expect(p.err).To(MatchError(dynamo.ErrInvalidPointCount))
	g.Expect(p.cfg.Points).To(Equal(before))
}

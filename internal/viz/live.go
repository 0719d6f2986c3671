package viz

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/blobsim/internal/analysis"
	"github.com/san-kum/blobsim/internal/config"
	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/export"
	"github.com/san-kum/blobsim/internal/metrics"
	"github.com/san-kum/blobsim/internal/physics"
	"github.com/san-kum/blobsim/internal/render"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	panelWidth      = 47
	canvasPadX      = 2
	canvasPadY      = 1
	// fitRatio is the ring radius as a fraction of the smaller canvas side.
	fitRatio = 0.38
)

// TickMsg is one frame. Ticks carrying a stale token were scheduled
// before a pause and are dropped.
type TickMsg struct {
	Token int
	Time  time.Time
}

// Model is the terminal host: it owns the stage and drives it from
// bubbletea's update loop, which is the only goroutine touching the ring.
type Model struct {
	cfg     *config.Config
	stage   *render.Stage
	canvas  *Canvas
	contour *render.Contour
	theme   Theme
	fps     int

	width, height int
	running       bool
	token         int
	fitRadius     bool

	paramKeys     []string
	initialParams map[string]float64
	selected      int

	energyHistory []float64
	peak          float64

	glow         harmonica.Spring
	glowPos, vel float64

	recording bool
	recorder  *export.GIFRecorder
	raster    *export.Raster
	outDir    string

	showHelp bool
	notice   string
	logger   *log.Logger
}

type Option func(*Model)

// WithOutputDir sets where GIF and SVG snapshots are written.
func WithOutputDir(dir string) Option { return func(m *Model) { m.outDir = dir } }

func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithFixedRadius keeps the configured radius instead of fitting the ring
// to the terminal.
func WithFixedRadius() Option { return func(m *Model) { m.fitRadius = false } }

// NewModel builds and initializes the ring described by cfg on a braille
// canvas.
func NewModel(cfg *config.Config, opts ...Option) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	theme := GetTheme(cfg.Theme)
	m := Model{
		cfg:       cfg,
		canvas:    NewCanvas(width, height),
		contour:   render.NewContour(),
		theme:     theme,
		fps:       cfg.FPS,
		width:     width,
		height:    height,
		running:   true,
		fitRadius: true,
		glow:      harmonica.NewSpring(harmonica.FPS(cfg.FPS), 6.0, 0.5),
		outDir:    ".",
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.canvas.Remap = theme.Remap()
	m.contour.Stroke = m.baseStroke()

	ring, err := cfg.NewRing()
	if err != nil {
		return Model{}, err
	}
	if ring.Accent() == "" {
		if err := ring.SetAccent(string(theme.Accent)); err != nil {
			return Model{}, err
		}
	}
	m.stage, err = render.NewStage(ring, m.canvas, m.contour)
	if err != nil {
		return Model{}, err
	}
	m.stage.SetLogger(m.logger)
	m.fit()

	m.initialParams = ring.GetParams()
	delete(m.initialParams, "radius")
	for k := range m.initialParams {
		m.paramKeys = append(m.paramKeys, k)
	}
	sort.Strings(m.paramKeys)
	return m, nil
}

func (m Model) Stage() *render.Stage { return m.stage }
func (m Model) Canvas() *Canvas      { return m.canvas }
func (m Model) Running() bool        { return m.running }
func (m Model) Theme() Theme         { return m.theme }
func (m Model) Recording() bool      { return m.recording }

func (m Model) tick() tea.Cmd {
	token := m.token
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg{Token: token, Time: t}
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		x := float64((msg.X-canvasPadX)*2 + 1)
		y := float64((msg.Y-canvasPadY)*4 + 2)
		m.stage.Pointer(x, y)
	case tea.WindowSizeMsg:
		m.width = max(8, msg.Width-panelWidth-2*canvasPadX)
		m.height = max(4, msg.Height-2*canvasPadY)
		m.stage.Resize(float64(m.width*2), float64(m.height*4))
		m.fit()
	case TickMsg:
		if msg.Token != m.token || !m.running {
			return m, nil
		}
		m.frame()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.recording {
			m.stopRecording()
		}
		return m, tea.Quit
	case " ":
		m.running = !m.running
		m.token++
		if m.running {
			return m, m.tick()
		}
	case "r":
		m.reset()
	case "tab":
		m.cycleParam()
	case "up", "k":
		m.adjustParam(1.05)
	case "down", "j":
		m.adjustParam(0.95)
	case "t":
		m.theme = NextTheme(m.theme)
		m.canvas.Remap = m.theme.Remap()
		m.notice = "theme " + m.theme.Name
	case "g":
		if m.recording {
			m.stopRecording()
		} else {
			m.startRecording()
		}
	case "s":
		m.saveSVG()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// fit scales the ring radius to the canvas.
func (m *Model) fit() {
	if !m.fitRadius {
		return
	}
	w, h := m.canvas.Size()
	if r := min(w, h) * fitRatio; r > 0 {
		m.stage.Ring().SetRadius(r)
	}
}

// frame advances and renders the ring once.
func (m *Model) frame() {
	ring := m.stage.Ring()
	target := 0.0
	if ring.Hovered() {
		target = 1
	}
	m.glowPos, m.vel = m.glow.Update(m.glowPos, m.vel, target)
	m.contour.Stroke = m.baseStroke().Blend(m.theme.Accent, m.glowPos)

	m.stage.Frame()

	x := ring.State()
	m.energyHistory = append(m.energyHistory, metrics.RingEnergy(x))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
	m.peak = max(m.peak, x.MaxAbsEffect())

	if m.recording {
		m.captureFrame()
	}
}

// baseStroke is the configured stroke, or the theme's.
func (m *Model) baseStroke() dynamo.Color {
	if m.cfg.Stroke != "" {
		return m.cfg.StrokeColor()
	}
	return m.theme.Stroke
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	ring := m.stage.Ring()
	key := m.paramKeys[m.selected]
	val := ring.GetParams()[key] * factor
	if err := ring.SetParam(key, val); err != nil {
		m.notice = err.Error()
	}
}

// reset returns the ring to rest and restores the initial parameters.
func (m *Model) reset() {
	ring := m.stage.Ring()
	ring.Reset()
	m.energyHistory = m.energyHistory[:0]
	m.peak = 0
	m.glowPos, m.vel = 0, 0
	m.notice = "reset"
	if err := restoreParams(ring, m.initialParams); err != nil {
		m.notice = err.Error()
	}
	if m.cfg.Fill != "" {
		if err := ring.SetFillColor(m.cfg.Fill); err != nil {
			m.notice = err.Error()
		}
	}
}

// restoreParams writes params back into ring. A key refused on the first
// pass because of the stability bound is retried once the others are in.
func restoreParams(ring *physics.Ring, params map[string]float64) error {
	var failed []string
	for k, v := range params {
		if err := ring.SetParam(k, v); err != nil {
			failed = append(failed, k)
		}
	}
	for _, k := range failed {
		if err := ring.SetParam(k, params[k]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) startRecording() {
	w, h := m.canvas.Size()
	m.raster = export.NewRaster(int(w), int(h))
	m.recorder = export.NewGIFRecorder(m.fps)
	m.recording = true
	m.notice = "recording"
}

func (m *Model) captureFrame() {
	ring := m.stage.Ring()
	w, h := m.canvas.Size()
	if rw, rh := m.raster.Size(); rw != w || rh != h {
		m.raster.Resize(w, h)
	}
	m.raster.ClearRect(0, 0, w, h)
	m.contour.Paint(m.raster, ring.Positions(), ring.FillColor())
	if !m.recorder.Add(m.raster.Image()) {
		m.stopRecording()
	}
}

func (m *Model) stopRecording() {
	m.recording = false
	path := filepath.Join(m.outDir, "blob.gif")
	if err := writeFile(path, m.recorder.Encode); err != nil {
		m.notice = err.Error()
		m.logger.Printf("gif: %v", err)
	} else {
		m.notice = fmt.Sprintf("saved %s (%d frames)", path, m.recorder.Len())
	}
	m.recorder, m.raster = nil, nil
}

func (m *Model) saveSVG() {
	ring := m.stage.Ring()
	w, h := m.canvas.Size()
	svg := export.NewSVG(w, h)
	m.contour.Paint(svg, ring.Positions(), ring.FillColor())
	path := filepath.Join(m.outDir, "blob.svg")
	err := writeFile(path, func(f io.Writer) error {
		_, err := svg.WriteTo(f)
		return err
	})
	if err != nil {
		m.notice = err.Error()
		m.logger.Printf("svg: %v", err)
		return
	}
	m.notice = "saved " + path
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.Render())
	ring := m.stage.Ring()

	var s strings.Builder
	s.WriteString(GradientText("B L O B S I M", m.theme.Stroke, m.theme.Accent) + "\n\n")

	switch {
	case m.recording:
		s.WriteString(StatusRecording.Render(AnimatedSpinner(m.stage.Frames())+" REC") + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	x := ring.State()
	hovered := "no"
	if ring.Hovered() {
		hovered = "yes"
	}
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.stage.Frames()))
	row("Hovered", hovered)
	row("Points", fmt.Sprintf("%d", ring.PointCount()))
	row("Radius", fmt.Sprintf("%.1f px", ring.Radius()))
	row("Max |r|", fmt.Sprintf("%.2f (peak %.2f)", x.MaxAbsEffect(), m.peak))
	row("Mode", fmt.Sprintf("%d", analysis.DominantMode(x)))
	row("Update", ring.Policy().String())
	s.WriteString(SparklineChart(x.Effects(), 30) + "\n")

	s.WriteString("\nPARAMETERS\n")
	params := ring.GetParams()
	for i, k := range m.paramKeys {
		val, initial := params[k], m.initialParams[k]
		ratio := 0.5
		if initial > 0 {
			ratio = val / (2 * initial)
		}
		line := fmt.Sprintf("%-10s %s %.4f", k, ProgressBar(ratio, 10), val)
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> ") + line + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}
	if m.notice != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Warning).Render(m.notice) + "\n")
	}
	s.WriteString(Separator(30, m.theme.Muted) + "\n")
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\nT:Theme  G:Record S:SVG\nTab ↑↓:Tune ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Mouse    - Poke the blob            ║
║  Space    - Pause/Resume             ║
║  R        - Reset to rest            ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  G        - Toggle GIF recording     ║
║  S        - Save SVG snapshot        ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts the terminal host with mouse motion reporting enabled.
func Run(cfg *config.Config, opts ...Option) error {
	m, err := NewModel(cfg, opts...)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

var _ dynamo.Surface = (*Canvas)(nil)

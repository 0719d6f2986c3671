package viz

import (
	"fmt"
	"io"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/blobsim/internal/config"
)

var presetInfo = map[string]string{
	"calm":   "slow settle, default ring",
	"jelly":  "dense and loose",
	"wobbly": "sequential update, jittered",
	"tight":  "stiff and heavily damped",
}

var (
	menuTitle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuValue   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuIdleVal = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	menuKey     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// pickerParams are the fields editable before launch, with their step.
var pickerParams = []struct {
	name string
	step float64
}{
	{"points", 4},
	{"elasticity", 0.0005},
	{"friction", 0.001},
	{"jitter", 0.1},
	{"radius", 10},
}

// Picker is a preset menu that launches the live model.
type Picker struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	width, height int
	live          Model
	opts          []Option
}

func NewPicker(opts ...Option) Picker {
	return Picker{
		state:   stateMenu,
		presets: config.ListPresets(),
		width:   80,
		height:  24,
		opts:    opts,
	}
}

func (p Picker) Init() tea.Cmd { return nil }

// Live returns the running model once a preset has been launched.
func (p Picker) Live() (Model, bool) { return p.live, p.state == stateSim }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
	}
	if p.state == stateSim {
		return p.forward(msg)
	}
	return p, nil
}

func (p Picker) forward(msg tea.Msg) (Picker, tea.Cmd) {
	next, cmd := p.live.Update(msg)
	p.live = next.(Model)
	return p, cmd
}

func (p Picker) handleKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch p.state {
	case stateMenu:
		return p.menuKey(msg)
	case stateConfig:
		return p.configKey(msg)
	default:
		return p.forward(msg)
	}
}

func (p Picker) menuKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ":
		p.cfg = config.GetPreset(p.presets[p.cursor])
		p.state, p.paramCursor, p.err = stateConfig, 0, nil
	}
	return p, nil
}

func (p Picker) configKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	name := pickerParams[p.paramCursor].name
	if p.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(p.editBuf, "%g", &val); err == nil {
				p.setParam(name, val)
			}
			p.editing, p.editBuf = false, ""
		case "esc":
			p.editing, p.editBuf = false, ""
		case "backspace":
			if len(p.editBuf) > 0 {
				p.editBuf = p.editBuf[:len(p.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
					p.editBuf += string(c)
				}
			}
		}
		return p, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return p, tea.Quit
	case "q", "esc":
		p.state = stateMenu
	case "up", "k":
		if p.paramCursor > 0 {
			p.paramCursor--
		}
	case "down", "j":
		if p.paramCursor < len(pickerParams)-1 {
			p.paramCursor++
		}
	case "enter", " ":
		p.editing, p.editBuf = true, fmt.Sprintf("%g", p.param(name))
	case "left", "h":
		p.setParam(name, p.param(name)-pickerParams[p.paramCursor].step)
	case "right", "l":
		p.setParam(name, p.param(name)+pickerParams[p.paramCursor].step)
	case "s":
		return p.start()
	}
	return p, nil
}

func (p Picker) param(name string) float64 {
	switch name {
	case "points":
		return float64(p.cfg.Points)
	case "elasticity":
		return p.cfg.Elasticity
	case "friction":
		return p.cfg.Friction
	case "jitter":
		return p.cfg.Jitter
	case "radius":
		return p.cfg.Radius
	}
	return 0
}

// setParam applies v when the resulting config still validates.
func (p *Picker) setParam(name string, v float64) {
	next := p.cfg.Clone()
	switch name {
	case "points":
		next.Points = int(v)
	case "elasticity":
		next.Elasticity = v
	case "friction":
		next.Friction = v
	case "jitter":
		next.Jitter = v
	case "radius":
		next.Radius = v
	}
	if err := next.Validate(); err != nil {
		p.err = err
		return
	}
	p.cfg, p.err = next, nil
}

func (p Picker) start() (Picker, tea.Cmd) {
	opts := p.opts
	if p.cfg.Radius != config.GetPreset(p.presets[p.cursor]).Radius {
		opts = append(opts[:len(opts):len(opts)], WithFixedRadius())
	}
	live, err := NewModel(p.cfg, opts...)
	if err != nil {
		p.err = err
		return p, nil
	}
	p.live, p.state = live, stateSim
	next, _ := p.live.Update(tea.WindowSizeMsg{Width: p.width, Height: p.height})
	p.live = next.(Model)
	return p, p.live.Init()
}

func (p Picker) View() string {
	switch p.state {
	case stateMenu:
		return p.viewMenu()
	case stateConfig:
		return p.viewConfig()
	default:
		return p.live.View()
	}
}

func keyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuIdle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (p Picker) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("BLOBSIM") + "\n    " + menuSub.Render("interactive spring ring") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range p.presets {
		desc := presetInfo[name]
		if i == p.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", name)), menuValue.Render(desc))
		} else {
			fmt.Fprintf(&b, "    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", name)), menuIdleVal.Render(desc))
		}
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (p Picker) viewConfig() string {
	var b strings.Builder
	name := p.presets[p.cursor]
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(name)) + "\n    " + menuSub.Render(presetInfo[name]) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, param := range pickerParams {
		valStr := fmt.Sprintf("%10.4g", p.param(param.name))
		if p.editing && i == p.paramCursor {
			valStr = fmt.Sprintf("%10s", p.editBuf+"_")
		}
		if i == p.paramCursor {
			fmt.Fprintf(&b, "    %s %s %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", param.name)), menuValue.Bold(true).Render(valStr))
		} else {
			fmt.Fprintf(&b, "    %s %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", param.name)), menuIdleVal.Render(valStr))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + StatusRecording.UnsetBlink().Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the preset menu.
func RunInteractive(logger *log.Logger, opts ...Option) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	opts = append(opts, WithLogger(logger))
	_, err := tea.NewProgram(NewPicker(opts...), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

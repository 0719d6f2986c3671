package gui

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/blobsim/internal/config"
	"github.com/san-kum/blobsim/internal/export"
	"github.com/san-kum/blobsim/internal/metrics"
	"github.com/san-kum/blobsim/internal/render"
)

// Theme Colors (light page, dark ink)
var (
	ColBg      = rl.NewColor(245, 245, 245, 255)
	ColAccent  = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(20, 20, 20, 255)
	ColText    = rl.NewColor(90, 90, 90, 255)
	ColTextDim = rl.NewColor(170, 170, 170, 255)
)

const fontPath = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"

type App struct {
	Stage      *render.Stage
	Surface    *Surface
	Contour    *render.Contour
	Config     *config.Config
	Running    bool
	ShowHUD    bool
	Telemetry  []float64 // ring energy per frame
	MaxHistory int
	Font       rl.Font
	OutDir     string

	notice string
	quit   bool
	logger *log.Logger
}

func initWindow(w, h int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(w), int32(h), "blobsim")
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono when installed and the raylib default
// font otherwise.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the ring described by cfg on a window-sized surface. The
// window must already be open.
func NewApp(cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	ring, err := cfg.NewRing()
	if err != nil {
		return nil, err
	}
	surface := NewSurface(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	contour := &render.Contour{Stroke: cfg.StrokeColor()}
	stage, err := render.NewStage(ring, surface, contour)
	if err != nil {
		return nil, err
	}
	stage.SetLogger(logger)
	return &App{
		Stage:      stage,
		Surface:    surface,
		Contour:    contour,
		Config:     cfg,
		Running:    true,
		ShowHUD:    true,
		Telemetry:  make([]float64, 0, 200),
		MaxHistory: 200,
		Font:       loadFont(),
		OutDir:     ".",
		logger:     logger,
	}, nil
}

// Run opens a window sized from cfg and blocks until it is closed.
func Run(cfg *config.Config, logger *log.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	w, h := cfg.Width, cfg.Height
	if w == 0 || h == 0 {
		w, h = config.DefaultWidth, config.DefaultHeight
	}
	initWindow(w, h)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.FPS))

	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !a.quit && !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

// Update feeds window input to the stage.
func (a *App) Update() {
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		a.Stage.Ring().Reset()
		a.Telemetry = a.Telemetry[:0]
		a.notice = "reset"
		if a.Config.Fill != "" {
			if err := a.Stage.Ring().SetFillColor(a.Config.Fill); err != nil {
				a.notice = err.Error()
				a.logger.Printf("reset fill: %v", err)
			}
		}
	case rl.IsKeyPressed(rl.KeyH):
		a.ShowHUD = !a.ShowHUD
	case rl.IsKeyPressed(rl.KeyP):
		a.savePNG()
	}

	if rl.IsWindowResized() {
		a.Stage.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	}
	if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
		mouse := rl.GetMousePosition()
		a.Stage.Track(float64(mouse.X), float64(mouse.Y))
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.Running {
		a.Stage.Frame()
		a.Telemetry = append(a.Telemetry, metrics.RingEnergy(a.Stage.Ring().State()))
		if len(a.Telemetry) > a.MaxHistory {
			a.Telemetry = a.Telemetry[1:]
		}
	} else {
		ring := a.Stage.Ring()
		a.Contour.Paint(a.Surface, ring.Positions(), ring.FillColor())
	}
	if a.ShowHUD {
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	ring := a.Stage.Ring()
	h := int(a.Surface.H)
	a.drawText("blobsim", 20, 16, 20, ColSelect)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, 20, 42, 14, col)
	a.drawText(fmt.Sprintf("frame %d  points %d  max|r| %.2f", a.Stage.Frames(), ring.PointCount(), ring.State().MaxAbsEffect()), 20, 62, 14, ColText)
	if a.notice != "" {
		a.drawText(a.notice, 20, 82, 14, ColAccent)
	}

	a.DrawTelemetry(20, h-110, 200, 40)
	a.drawText("[SPACE] PAUSE  [R] RESET  [P] PNG  [H] HUD  [Q] QUIT", 20, h-30, 12, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), int(a.Surface.W)-70, 16, 12, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) DrawTelemetry(rectX, rectY, width, height int) {
	if len(a.Telemetry) < 2 {
		return
	}

	// Normalize Data
	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal, maxVal = min(minVal, v), max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E: %.2e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 12, ColText)
}

// savePNG rasterizes the current contour off-screen and writes blob.png.
func (a *App) savePNG() {
	ring := a.Stage.Ring()
	r := export.NewRaster(int(a.Surface.W), int(a.Surface.H))
	a.Contour.Paint(r, ring.Positions(), ring.FillColor())

	path := filepath.Join(a.OutDir, "blob.png")
	f, err := os.Create(path)
	if err == nil {
		err = r.WritePNG(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		a.logger.Printf("png: %v", err)
		a.notice = err.Error()
		return
	}
	a.notice = "saved " + path
}

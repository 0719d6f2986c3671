package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/blobsim/internal/analysis"
	"github.com/san-kum/blobsim/internal/automation"
	"github.com/san-kum/blobsim/internal/config"
	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/export"
	"github.com/san-kum/blobsim/internal/metrics"
	"github.com/san-kum/blobsim/internal/physics"
	"github.com/san-kum/blobsim/internal/render"
	"github.com/san-kum/blobsim/internal/sim"
	"github.com/san-kum/blobsim/internal/storage"
	"github.com/san-kum/blobsim/internal/viz"
)

var (
	eMin, eMax   float64
	fMin, fMax   float64
	eSteps       int
	fSteps       int
	sweepFrames  int
	sweepPoints  int
	sweepImpulse float64
)

func addSweepFlags(cmd *cobra.Command) {
	def := sim.DefaultSweepConfig()
	f := cmd.Flags()
	f.Float64Var(&eMin, "e-min", def.Elasticity[0], "lowest elasticity")
	f.Float64Var(&eMax, "e-max", def.Elasticity[len(def.Elasticity)-1], "highest elasticity")
	f.IntVar(&eSteps, "e-steps", len(def.Elasticity), "elasticity samples")
	f.Float64Var(&fMin, "f-min", def.Friction[0], "lowest friction")
	f.Float64Var(&fMax, "f-max", def.Friction[len(def.Friction)-1], "highest friction")
	f.IntVar(&fSteps, "f-steps", len(def.Friction), "friction samples")
	f.IntVar(&sweepFrames, "frames", def.Frames, "frames per cell")
	f.IntVar(&sweepPoints, "points", def.Points, "points on the ring")
	f.Float64Var(&sweepImpulse, "impulse", def.Impulse, "acceleration applied to point 0")
	f.StringVar(&update, "update", physics.Synchronous.String(), "update policy")
}

func loadScenario(cfg *config.Config) (*automation.Scenario, error) {
	if scenarioFile != "" {
		return automation.LoadScenario(scenarioFile)
	}
	return automation.Builtin(builtin, float64(cfg.Width), float64(cfg.Height))
}

// frameGrabber rasterizes every n-th frame into a GIF.
type frameGrabber struct {
	stage   *render.Stage
	contour *render.Contour
	raster  *export.Raster
	rec     *export.GIFRecorder
	every   int
}

func (g *frameGrabber) attach(s *render.Stage) { g.stage = s }

func (g *frameGrabber) OnFrame(_ dynamo.State, frame int) {
	if frame%g.every != 0 {
		return
	}
	w, h := g.stage.Surface().Size()
	if rw, rh := g.raster.Size(); rw != w || rh != h {
		g.raster.Resize(w, h)
	}
	g.raster.ClearRect(0, 0, w, h)
	ring := g.stage.Ring()
	g.contour.Paint(g.raster, ring.Positions(), ring.FillColor())
	g.rec.Add(g.raster.Image())
}

type headlessRun struct {
	cfg      *config.Config
	scenario *automation.Scenario
	stage    *render.Stage
	svg      *export.SVG
	contour  *render.Contour
	result   *sim.Result
}

// headless renders the scenario on an SVG surface through the manual
// scheduler. Observers with an attach method receive the stage first.
func headless(ctx context.Context, cfg *config.Config, sc *automation.Scenario, every int, logger *log.Logger, observers ...dynamo.Observer) (*headlessRun, error) {
	ring, err := cfg.NewRing()
	if err != nil {
		return nil, err
	}
	svg := export.NewSVG(sc.Width, sc.Height)
	contour := &render.Contour{Stroke: cfg.StrokeColor()}
	stage, err := render.NewStage(ring, svg, contour)
	if err != nil {
		return nil, err
	}
	stage.SetLogger(logger)

	runner := sim.New()
	runner.SetLogger(logger)
	for _, m := range metrics.DefaultSet() {
		runner.AddMetric(m)
	}
	for _, o := range observers {
		if a, ok := o.(interface{ attach(*render.Stage) }); ok {
			a.attach(stage)
		}
		runner.AddObserver(o)
	}

	res, err := runner.Run(ctx, stage, sc, sim.RunConfig{
		Frames:        frames,
		FPS:           cfg.FPS,
		ValidateState: true,
		RecordEvery:   every,
	})
	if err != nil {
		return nil, err
	}
	return &headlessRun{cfg: cfg, scenario: sc, stage: stage, svg: svg, contour: contour, result: res}, nil
}

func writeTo(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func runHeadless(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := loadScenario(cfg)
	if err != nil {
		return err
	}
	if recordEvery < 1 {
		recordEvery = 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var observers []dynamo.Observer
	var grabber *frameGrabber
	if gifOut != "" {
		grabber = &frameGrabber{
			contour: &render.Contour{Stroke: cfg.StrokeColor()},
			raster:  export.NewRaster(int(sc.Width), int(sc.Height)),
			rec:     export.NewGIFRecorder(max(1, cfg.FPS/2)),
			every:   2,
		}
		observers = append(observers, grabber)
	}

	fmt.Printf("running %s scenario...\n", sc.Name)
	start := time.Now()

	run, err := headless(ctx, cfg, sc, recordEvery, logger, observers...)
	if err != nil {
		return err
	}
	res := run.result
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d  impulses: %d\n", res.FramesRun, len(res.Impulses))
	for _, imp := range res.Impulses {
		fmt.Printf("  frame %4d  %-5s point %2d  %+.3f\n", imp.Frame, imp.Transition, imp.Index, imp.Value)
	}
	printMetrics(res.Metrics)

	energy := make([]float64, len(res.States))
	for i, x := range res.States {
		energy[i] = metrics.RingEnergy(x)
	}
	if len(energy) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(downsample(energy, 70), asciigraph.Height(10), asciigraph.Caption("ring energy")))
	}

	trace := res.Trace(sc.Name, cfg.FPS)
	if csvOut != "" {
		if err := writeTo(csvOut, func(w io.Writer) error { return export.WriteCSV(w, trace) }); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvOut)
	}
	if jsonOut != "" {
		if err := writeTo(jsonOut, func(w io.Writer) error { return export.WriteJSON(w, trace) }); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonOut)
	}
	if svgOut != "" {
		if err := writeTo(svgOut, func(w io.Writer) error { _, err := run.svg.WriteTo(w); return err }); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	if pngOut != "" {
		w, h := run.svg.Size()
		r := export.NewRaster(int(w), int(h))
		ring := run.stage.Ring()
		run.contour.Paint(r, ring.Positions(), ring.FillColor())
		if err := writeTo(pngOut, r.WritePNG); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngOut)
	}
	if grabber != nil {
		if err := writeTo(gifOut, grabber.rec.Encode); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d frames)\n", gifOut, grabber.rec.Len())
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, trace)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

// downsample keeps at most n evenly spaced values.
func downsample(data []float64, n int) []float64 {
	if len(data) <= n {
		return data
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = data[i*len(data)/n]
	}
	return out
}

func runSweep(cmd *cobra.Command, args []string) error {
	policy, err := physics.ParsePolicy(update)
	if err != nil {
		return err
	}
	cfg := sim.DefaultSweepConfig()
	cfg.Elasticity = sim.Linspace(eMin, eMax, eSteps)
	cfg.Friction = sim.Linspace(fMin, fMax, fSteps)
	cfg.Frames = sweepFrames
	cfg.Points = sweepPoints
	cfg.Impulse = sweepImpulse
	cfg.Policy = policy

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	points, err := sim.Sweep(ctx, cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ELASTICITY\tFRICTION\tPEAK\tFINAL\tSETTLE\tSTABLE")
	for _, p := range points {
		settle := "-"
		if p.SettleFrame >= 0 {
			settle = fmt.Sprintf("%d", p.SettleFrame)
		}
		fmt.Fprintf(w, "%.5f\t%.5f\t%.3f\t%.3e\t%s\t%v\n", p.Elasticity, p.Friction, p.Peak, p.Final, settle, p.Stable)
	}
	w.Flush()

	fmt.Printf("\n%d cells in %v\n", len(points), time.Since(start))
	if best, ok := sim.Best(points); ok {
		fmt.Printf("fastest settle: elasticity %.5f friction %.5f (frame %d)\n", best.Elasticity, best.Friction, best.SettleFrame)
	}
	return nil
}

// loadTrace reads a saved run, or runs the scenario when runID is empty.
func loadTrace(cmd *cobra.Command, runID string) (*export.Trace, error) {
	if runID != "" {
		return storage.New(dataDir).LoadTrace(runID)
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	sc, err := loadScenario(cfg)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := openLogger()
	if err != nil {
		return nil, err
	}
	defer closeLog()
	run, err := headless(context.Background(), cfg, sc, 1, logger)
	if err != nil {
		return nil, err
	}
	return run.result.Trace(sc.Name, cfg.FPS), nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := ""
	if len(args) > 0 {
		runID = args[0]
	}
	trace, err := loadTrace(cmd, runID)
	if err != nil {
		return err
	}
	if len(trace.States) == 0 {
		return fmt.Errorf("no states recorded")
	}
	if pointIndex < 0 || pointIndex >= trace.Points {
		return fmt.Errorf("point %d out of range [0, %d)", pointIndex, trace.Points)
	}

	series := analysis.Series(trace.States, pointIndex)
	fps := float64(trace.FPS)
	if fps <= 0 {
		fps = config.DefaultFPS
	}

	fmt.Printf("analysis of %s, point %d (%d frames)\n\n", trace.Name, pointIndex, len(series))
	freq := analysis.DominantFrequency(series, fps)
	fmt.Printf("dominant frequency: %.4f Hz\n", freq)
	if period := analysis.Period(series); period > 0 {
		fmt.Printf("period: %.2f frames (%.3f s)\n", period, period/fps)
	} else {
		fmt.Println("period: no full oscillation")
	}
	fmt.Printf("upward zero crossings: %d\n", len(analysis.ZeroCrossings(series)))

	final := trace.States[len(trace.States)-1]
	fmt.Printf("dominant spatial mode (final frame): %d\n", analysis.DominantMode(final))

	portrait := analysis.NewPhasePortrait(trace.States, pointIndex)
	fmt.Println("\nphase portrait (radial effect vs speed):")
	fmt.Print(portrait.ASCII(60, 20))

	if svgOut != "" {
		svg := export.PhaseToSVG(portrait, 480, 320, dynamo.DefaultStroke)
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tPOINTS\tFRAMES\tPEAK\tTIMESTAMP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.3f\t%s\n",
			run.ID, run.Scenario, run.Config.Points, run.Frames, run.Metrics["peak"],
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	trace, err := storage.New(dataDir).LoadTrace(args[0])
	if err != nil {
		return err
	}
	if pointIndex < 0 || pointIndex >= trace.Points {
		return fmt.Errorf("point %d out of range [0, %d)", pointIndex, trace.Points)
	}
	if len(trace.States) < 2 {
		return fmt.Errorf("run %s has too few frames to plot", args[0])
	}

	series := analysis.Series(trace.States, pointIndex)
	energy := make([]float64, len(trace.States))
	for i, x := range trace.States {
		energy[i] = metrics.RingEnergy(x)
	}

	fmt.Println(asciigraph.Plot(downsample(series, 70), asciigraph.Height(12),
		asciigraph.Caption(fmt.Sprintf("%s: radial effect of point %d", trace.Name, pointIndex))))
	fmt.Println()
	fmt.Println(asciigraph.Plot(downsample(energy, 70), asciigraph.Height(8), asciigraph.Caption("ring energy")))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPOINTS\tELASTICITY\tFRICTION\tJITTER\tUPDATE\tTHEME")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\t%s\t%s\n", name, p.Points, p.Elasticity, p.Friction, p.Jitter, p.Update, p.Theme)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nscenarios: %s\n", strings.Join(automation.ListBuiltins(), ", "))
	fmt.Printf("themes:    %s\n", strings.Join(viz.ThemeNames(), ", "))
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "blobsim.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

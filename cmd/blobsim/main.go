package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/blobsim/internal/config"
	"github.com/san-kum/blobsim/internal/gui"
	"github.com/san-kum/blobsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logFile    string

	// Ring overrides
	points     int
	radius     float64
	elasticity float64
	friction   float64
	jitter     float64
	seed       int64
	update     string
	fps        int
	width      int
	height     int
	theme      string
	fill       string
	accent     string

	// Headless runs
	scenarioFile string
	builtin      string
	frames       int
	recordEvery  int
	noSave       bool
	csvOut       string
	jsonOut      string
	svgOut       string
	pngOut       string
	gifOut       string

	// Analysis
	pointIndex int

	outDir string
	menu   bool
)

// main registers the blobsim commands and runs the terminal host when no
// subcommand is given. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "blobsim",
		Short:        "interactive spring-ring blob",
		RunE:         runTUI,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".blobsim", "data directory for saved runs")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a named preset")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "append diagnostic logs to this file")
	addRingFlags(rootCmd)
	rootCmd.Flags().StringVar(&outDir, "out", ".", "directory for GIF and SVG snapshots")
	rootCmd.Flags().BoolVar(&menu, "menu", false, "open the preset menu")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the blob in the terminal",
		RunE:  runTUI,
	}
	addRingFlags(tuiCmd)
	tuiCmd.Flags().StringVar(&outDir, "out", ".", "directory for GIF and SVG snapshots")
	tuiCmd.Flags().BoolVar(&menu, "menu", false, "open the preset menu")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the blob in a window",
		RunE:  runGUI,
	}
	addRingFlags(guiCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scripted scenario headlessly",
		RunE:  runHeadless,
	}
	addRingFlags(runCmd)
	addScenarioFlags(runCmd)
	runCmd.Flags().IntVar(&recordEvery, "record-every", 1, "keep every n-th frame")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&csvOut, "csv", "", "write the trace as CSV")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "write the trace as JSON")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write the final frame as SVG")
	runCmd.Flags().StringVar(&pngOut, "png", "", "write the final frame as PNG")
	runCmd.Flags().StringVar(&gifOut, "gif", "", "record the run as an animated GIF")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "settle time over an elasticity/friction grid",
		RunE:  runSweep,
	}
	addSweepFlags(sweepCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and phase analysis of one point",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	addRingFlags(analyzeCmd)
	addScenarioFlags(analyzeCmd)
	analyzeCmd.Flags().IntVar(&pointIndex, "point", 0, "point index")
	analyzeCmd.Flags().StringVar(&svgOut, "svg", "", "write the phase portrait as SVG")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&pointIndex, "point", 0, "point index")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	addRingFlags(configInitCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(tuiCmd, guiCmd, runCmd, sweepCmd, analyzeCmd, listCmd, plotCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&points, "points", 0, "number of points on the ring")
	f.Float64Var(&radius, "radius", 0, "base radius in pixels")
	f.Float64Var(&elasticity, "elasticity", 0, "neighbour coupling")
	f.Float64Var(&friction, "friction", 0, "velocity damping")
	f.Float64Var(&jitter, "jitter", 0, "initial random kick amplitude")
	f.Int64Var(&seed, "seed", 1, "jitter seed")
	f.StringVar(&update, "update", "", "update policy (synchronous|sequential)")
	f.IntVar(&fps, "fps", 0, "frames per second")
	f.IntVar(&width, "width", 0, "surface width in pixels")
	f.IntVar(&height, "height", 0, "surface height in pixels")
	f.StringVar(&theme, "theme", "", "terminal theme")
	f.StringVar(&fill, "fill", "", "fill colour")
	f.StringVar(&accent, "accent", "", "fill colour while hovered")
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&builtin, "builtin", "pass", "built-in scenario")
	cmd.Flags().IntVar(&frames, "frames", 0, "override the scenario length")
}

// resolveConfig layers preset, config file and changed flags, in that
// order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("points") {
		cfg.Points = points
	}
	if flags.Changed("radius") {
		cfg.Radius = radius
	}
	if flags.Changed("elasticity") {
		cfg.Elasticity = elasticity
	}
	if flags.Changed("friction") {
		cfg.Friction = friction
	}
	if flags.Changed("jitter") {
		cfg.Jitter = jitter
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("update") {
		cfg.Update = update
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("fill") {
		cfg.Fill = fill
	}
	if flags.Changed("accent") {
		cfg.Accent = accent
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openLogger returns a file logger for --log, or a discarding one.
func openLogger() (*log.Logger, func(), error) {
	if logFile == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return log.New(f, "blobsim ", log.LstdFlags|log.Lmicroseconds), func() { f.Close() }, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	if menu {
		return viz.RunInteractive(logger, viz.WithOutputDir(outDir))
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger.Printf("tui points=%d elasticity=%g friction=%g", cfg.Points, cfg.Elasticity, cfg.Friction)
	opts := []viz.Option{viz.WithOutputDir(outDir), viz.WithLogger(logger)}
	if cmd.Flags().Changed("radius") {
		opts = append(opts, viz.WithFixedRadius())
	}
	return viz.Run(cfg, opts...)
}

func runGUI(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cfg, logger)
}

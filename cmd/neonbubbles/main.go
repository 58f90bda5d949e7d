package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gogpu/gg"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/neonbubbles/internal/analysis"
	"github.com/san-kum/neonbubbles/internal/automation"
	"github.com/san-kum/neonbubbles/internal/bubble"
	"github.com/san-kum/neonbubbles/internal/config"
	"github.com/san-kum/neonbubbles/internal/export"
	"github.com/san-kum/neonbubbles/internal/gui"
	"github.com/san-kum/neonbubbles/internal/metrics"
	"github.com/san-kum/neonbubbles/internal/optim"
	"github.com/san-kum/neonbubbles/internal/render"
	"github.com/san-kum/neonbubbles/internal/sim"
	"github.com/san-kum/neonbubbles/internal/storage"
	"github.com/san-kum/neonbubbles/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logger   = slog.New(slog.DiscardHandler)

	configFile string
	preset     string
	frames     int
	seed       int64
	device     string
	width      float64
	height     float64
	dpr        float64
	reduced    bool
	fps        int
	track      int
	events     []string

	outPath   string
	renderDir string
	every     int
	numRuns   int
	tolerance float64

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	gridSeed   int64
	metricName string
	saveRuns   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "neonbubbles",
		Short:         "neon bubble background animations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".neonbubbles", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [variant]",
		Short: "simulate a variant headlessly and save the run",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().IntVar(&track, "track", 0, "particle index recorded per frame")
	runCmd.Flags().StringArrayVar(&events, "event", nil, "scheduled event, e.g. pointer@30:900,200 or hide@10")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "offset convergence and bob frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&tolerance, "tol", metrics.DefaultSettleTolerance, "settle tolerance in CSS pixels")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export the tracked bubble trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export frame samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.json)")

	svgCmd := &cobra.Command{
		Use:   "svg [variant]",
		Short: "simulate and write the last frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  writeSVG,
	}
	scenarioFlags(svgCmd)
	svgCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <variant>.svg)")

	renderCmd := &cobra.Command{
		Use:   "render [variant]",
		Short: "simulate and write frames as PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderFrames,
	}
	scenarioFlags(renderCmd)
	renderCmd.Flags().StringVarP(&renderDir, "out", "o", "frames", "output directory")
	renderCmd.Flags().IntVar(&every, "every", 10, "write every nth drawn frame")

	liveCmd := &cobra.Command{
		Use:   "live [variant]",
		Short: "animate a variant in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui [variant]",
		Short: "animate a variant in a desktop window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	scenarioFlags(guiCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [variant]",
		Short: "run a seed ensemble and report mean metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  benchVariant,
	}
	scenarioFlags(benchCmd)
	benchCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")

	presetsCmd := &cobra.Command{
		Use:   "presets [variant]",
		Short: "list available presets for a variant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for variant: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario (yaml)",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveRuns, "save", true, "save steps marked save: true")

	sweepCmd := &cobra.Command{
		Use:   "sweep [variant]",
		Short: "sweep one parameter and report metrics per value",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	sweepCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "display refreshes to simulate")
	sweepCmd.Flags().Int64Var(&gridSeed, "seed", 1, "random seed shared by every point")
	sweepCmd.Flags().StringArrayVar(&events, "event", nil, "scheduled event, e.g. pointer@30:900,200")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "count", "parameter to sweep ("+strings.Join(config.TunableNames(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 10, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 60, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune [variant] [param=lo:hi:n]...",
		Short: "grid search parameters for the lowest metric value",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runTune,
	}
	tuneCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	tuneCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "display refreshes to simulate")
	tuneCmd.Flags().Int64Var(&gridSeed, "seed", 1, "random seed shared by every point")
	tuneCmd.Flags().StringArrayVar(&events, "event", nil, "scheduled event, e.g. pointer@1:800,600")
	tuneCmd.Flags().StringVar(&metricName, "metric", "settle_frame", "metric to minimise")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		svgCmd, renderCmd, liveCmd, guiCmd, benchCmd, presetsCmd, scenarioCmd, sweepCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	gg.SetLogger(logger)
	return nil
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "display refreshes to simulate")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&device, "device", "desktop", "device class (desktop, mobile)")
	cmd.Flags().Float64Var(&width, "width", config.DefaultWidth, "viewport width in CSS pixels")
	cmd.Flags().Float64Var(&height, "height", config.DefaultHeight, "viewport height in CSS pixels")
	cmd.Flags().Float64Var(&dpr, "dpr", config.DefaultDPR, "device pixel ratio")
	cmd.Flags().BoolVar(&reduced, "reduced-motion", false, "request reduced motion")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate for live views")
}

// loadConfig resolves the scenario: preset first, then the config file, then
// any flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command, variant string) (*config.Config, error) {
	v, err := bubble.ParseVariant(variant)
	if err != nil {
		return nil, err
	}
	cfg := config.DefaultFor(v)

	if preset != "" {
		p := config.GetPreset(variant, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(variant))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if loaded.Variant != cfg.Variant {
			return nil, fmt.Errorf("config file is for %s, not %s", loaded.Variant, cfg.Variant)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Changed("device") {
		cfg.Device = device
	}
	if flags.Changed("width") {
		cfg.Viewport.Width = width
	}
	if flags.Changed("height") {
		cfg.Viewport.Height = height
	}
	if flags.Changed("dpr") {
		cfg.Viewport.DPR = dpr
	}
	if flags.Changed("reduced-motion") {
		cfg.ReducedMotion = reduced
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRunner(cfg *config.Config, opts ...sim.Option) (*sim.Runner, error) {
	return sim.NewFromConfig(cfg, append(opts, sim.WithLogger(logger))...)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	parsed, err := sim.ParseEvents(events)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runner, err := newRunner(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s simulation...\n", cfg.Variant)
	start := time.Now()

	result, err := runner.Run(ctx, sim.Config{
		Frames: cfg.Frames,
		Seed:   cfg.Seed,
		Track:  track,
		Events: parsed,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Variant: cfg.Variant,
		Preset:  preset,
		Device:  cfg.Device,
		Seed:    cfg.Seed,
		Width:   cfg.Viewport.Width,
		Height:  cfg.Viewport.Height,
		DPR:     cfg.Viewport.DPR,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d, drawn: %d, seeds: %d\n", result.Ticks, len(result.Samples), result.Seeds)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	for _, name := range metrics.Names() {
		if v, ok := m[name]; ok {
			fmt.Printf("  %s: %.6f\n", name, v)
		}
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVARIANT\tPRESET\tDEVICE\tTIME\tTICKS\tDRAWN\tVIEWPORT")
	for _, run := range runs {
		p := run.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%gx%g@%g\n",
			run.ID,
			run.Variant,
			p,
			run.Device,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Drawn,
			run.Width, run.Height, run.DPR,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.FrameSample, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, samples, nil
}

type plotSeries struct {
	caption string
	value   func(sim.FrameSample) float64
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("variant: %s\n", meta.Variant)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []plotSeries{
		{"tracked bubble y (device px)", func(s sim.FrameSample) float64 { return s.TrackY }},
		{"mean bubble y (device px)", func(s sim.FrameSample) float64 { return s.MeanY }},
	}
	if meta.Variant == bubble.Parallax.String() {
		series = append(series,
			plotSeries{"parallax offset x", func(s sim.FrameSample) float64 { return s.OffsetX }},
			plotSeries{"parallax offset y", func(s sim.FrameSample) float64 { return s.OffsetY }},
		)
	} else {
		series = append(series,
			plotSeries{"bubbles recycled per frame", func(s sim.FrameSample) float64 { return float64(s.Recycled) }})
	}

	for _, sr := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = sr.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to analyze")
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("variant: %s\n\n", meta.Variant)

	v, err := bubble.ParseVariant(meta.Variant)
	if err != nil {
		return err
	}
	if v != bubble.Parallax {
		fmt.Printf("recycles: %.0f\n", meta.Metrics["recycles"])
		fmt.Printf("recycle rate: %.4f per frame\n", meta.Metrics["recycle_rate"])
		fmt.Printf("mean radius: %.2f px\n", meta.Metrics["mean_radius"])
		return nil
	}

	offsets := make([]bubble.Vec2, len(samples))
	targets := make([]bubble.Vec2, len(samples))
	trackY := make([]float64, len(samples))
	for i, s := range samples {
		offsets[i] = bubble.Vec2{X: s.OffsetX, Y: s.OffsetY}
		targets[i] = bubble.Vec2{X: s.TargetX, Y: s.TargetY}
		trackY[i] = s.TrackY
	}

	conv := analysis.AnalyzeConvergence(offsets, targets, tolerance)
	fmt.Printf("target changes: %d\n", conv.TargetChanges)
	fmt.Printf("monotonic: %v\n", conv.Monotonic)
	if conv.SettleFrame >= 0 {
		fmt.Printf("settled at sample: %d\n", conv.SettleFrame)
	} else {
		fmt.Println("settled: no")
	}
	fmt.Printf("final error: %.4f\n", conv.FinalError)
	if k := analysis.EstimateSmoothing(offsets, targets, tolerance); k > 0 {
		fmt.Printf("estimated smoothing: %.4f\n", k)
	}

	p := bubble.DefaultParams(bubble.Parallax)
	if freq, err := analysis.DominantFrequency(trackY); err == nil && freq > 0 {
		fmt.Printf("bob frequency: %.4f cycles/frame\n", freq)
		fmt.Printf("estimated bob speed: %.3f rad/unit\n", analysis.BobSpeed(freq, p.TimeStep))
	}

	if conv.TargetChanges > 0 {
		fmt.Println("\noffset path:")
		fmt.Println(analysis.PortraitToASCII(offsets, 60, 20))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	points := make([]bubble.Vec2, len(samples))
	w, h := 0, 0
	for i, s := range samples {
		points[i] = bubble.Vec2{X: s.TrackX, Y: s.TrackY}
		w, h = max(w, s.Width), max(h, s.Height)
	}

	path := outPath
	if path == "" {
		path = meta.ID + ".svg"
	}
	doc := export.TrajectoryToSVG(points, w, h, render.DefaultPalette().Primary.Hex())
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", meta.ID, path)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outPath == "" {
		return st.CopyFrames(args[0], os.Stdout)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := st.CopyFrames(args[0], f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", args[0], outPath)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = meta.ID + ".json"
	}
	if err := storage.ExportJSON(path, *meta, samples); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", meta.ID, path)
	return nil
}

func writeSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	pal, err := cfg.RenderPalette()
	if err != nil {
		return err
	}
	runner, err := newRunner(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	result, err := runner.Run(ctx, sim.Config{Frames: cfg.Frames, Seed: cfg.Seed})
	if err != nil {
		return err
	}
	if len(result.Samples) == 0 {
		return fmt.Errorf("no frame was drawn")
	}

	last := result.Samples[len(result.Samples)-1]
	path := outPath
	if path == "" {
		path = cfg.Variant + ".svg"
	}
	doc := export.FrameToSVG(last.Width, last.Height, result.Final, pal)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %d bubbles to %s\n", len(result.Final), path)
	return nil
}

// pngSequence rasterizes every nth frame it is handed into dir.
type pngSequence struct {
	raster  *render.Raster
	dir     string
	every   int
	n       int
	written int
	err     error
}

func (p *pngSequence) Render(w, h int, sprites []bubble.Sprite) {
	p.n++
	if p.err != nil || (p.n-1)%p.every != 0 {
		return
	}
	p.raster.Render(w, h, sprites)
	path := filepath.Join(p.dir, fmt.Sprintf("frame_%05d.png", p.n))
	if err := p.raster.SavePNG(path); err != nil {
		p.err = err
		return
	}
	p.written++
}

func renderFrames(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if every < 1 {
		return fmt.Errorf("--every must be at least 1")
	}
	pal, err := cfg.RenderPalette()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(renderDir, 0755); err != nil {
		return err
	}

	seq := &pngSequence{raster: render.NewRaster(pal), dir: renderDir, every: every}
	defer seq.raster.Close()

	runner, err := newRunner(cfg, sim.WithRenderer(seq))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	if _, err := runner.Run(ctx, sim.Config{Frames: cfg.Frames, Seed: cfg.Seed}); err != nil {
		return err
	}
	if seq.err != nil {
		return seq.err
	}
	fmt.Printf("wrote %d frames to %s\n", seq.written, renderDir)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	m, err := viz.NewLiveFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func runGUI(cmd *cobra.Command, args []string) error {
	variant := bubble.Parallax.String()
	if len(args) > 0 {
		variant = args[0]
	}
	cfg, err := loadConfig(cmd, variant)
	if err != nil {
		return err
	}
	p, err := cfg.BubbleParams()
	if err != nil {
		return err
	}
	pal, err := cfg.RenderPalette()
	if err != nil {
		return err
	}
	class, err := cfg.DeviceClass()
	if err != nil {
		return err
	}
	return gui.Run(gui.Options{
		Title:   "neonbubbles - " + cfg.Variant,
		Params:  p,
		Palette: pal,
		Device:  class,
		Reduced: cfg.ReducedMotion,
		Seed:    cfg.Seed,
		FPS:     cfg.FPS,
		Logger:  logger,
	})
}

func benchVariant(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("--runs must be at least 1")
	}
	runner, err := newRunner(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("benchmarking %s: %d runs x %d frames\n\n", cfg.Variant, numRuns, cfg.Frames)
	start := time.Now()
	results, err := sim.NewEnsemble(runner, numRuns, cfg.Seed).Run(ctx, sim.Config{Frames: cfg.Frames})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN")
	for _, name := range metrics.Names() {
		fmt.Fprintf(w, "%s\t%.4f\n", name, sim.Mean(results, name))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	total := numRuns * cfg.Frames
	fmt.Printf("\n%d frames in %v (%.1f frames/ms)\n", total, elapsed, float64(total)/float64(elapsed.Milliseconds()+1))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	opts := automation.Options{Logger: logger}
	if saveRuns {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		opts.Store = st
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	results, err := automation.RunScenario(ctx, sc, opts)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tVARIANT\tDRAWN\tSEEDS\tRECYCLES\tSETTLE\tRUN")
	for _, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.0f\t%.0f\t%s\n",
			r.Step,
			r.Config.Variant,
			len(r.Result.Samples),
			r.Result.Seeds,
			r.Result.Metrics["recycles"],
			r.Result.Metrics["settle_frame"],
			id,
		)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Variant:  args[0],
		Preset:   preset,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Frames:   frames,
		Seed:     gridSeed,
		Events:   events,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := []string{strings.ToUpper(sweepParam), "DRAWN"}
	names := metrics.Names()
	for _, name := range names {
		header = append(header, strings.ToUpper(name))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, r := range results {
		row := []string{strconv.FormatFloat(r.Value, 'g', 6, 64), strconv.Itoa(r.Drawn)}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(r.Metrics[name], 'f', 3, 64))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// parseAxis reads a grid axis written as name=lo:hi:n.
func parseAxis(s string) (string, []float64, error) {
	name, bounds, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, fmt.Errorf("axis %q: want name=lo:hi:n", s)
	}
	if _, ok := config.LookupTunable(name); !ok {
		return "", nil, fmt.Errorf("axis %q: unknown parameter %q", s, name)
	}
	parts := strings.Split(bounds, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("axis %q: want name=lo:hi:n", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("axis %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("axis %q: %w", s, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("axis %q: bad count %q", s, parts[2])
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runTune(cmd *cobra.Command, args []string) error {
	variant := args[0]
	var names []string
	var ranges [][]float64
	for _, a := range args[1:] {
		name, values, err := parseAxis(a)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	parsed, err := sim.ParseEvents(events)
	if err != nil {
		return err
	}

	build := func(params map[string]float64) (*sim.Runner, sim.Config, error) {
		cfg, err := automation.StepConfig(automation.ScenarioStep{
			Variant: variant,
			Preset:  preset,
			Params:  params,
		})
		if err != nil {
			return nil, sim.Config{}, err
		}
		r, err := newRunner(cfg)
		return r, sim.Config{Frames: frames, Seed: gridSeed, Events: parsed}, err
	}

	ctx, cancel := signalContext()
	defer cancel()

	g := optim.NewGridSearch(names, ranges)
	fmt.Printf("searching %d points for the lowest %s...\n", g.Points(), metricName)
	best, val, err := g.Search(ctx, build, metricName)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no point produced a usable %s", metricName)
	}

	fmt.Printf("best %s: %.4f\n", metricName, val)
	for _, n := range names {
		fmt.Printf("  %s = %g\n", n, best[n])
	}
	return nil
}

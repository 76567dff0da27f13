package main

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spinarena/internal/automation"
	"github.com/san-kum/spinarena/internal/config"
	"github.com/san-kum/spinarena/internal/experiment"
	"github.com/san-kum/spinarena/internal/export"
	"github.com/san-kum/spinarena/internal/metrics"
	"github.com/san-kum/spinarena/internal/optim"
	"github.com/san-kum/spinarena/internal/server"
	"github.com/san-kum/spinarena/internal/sim"
	"github.com/san-kum/spinarena/internal/storage"
	"github.com/san-kum/spinarena/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	envFiles   []string
	dt         float64
	duration   float64
	seed       int64
	configFile string
	preset     string
	// Arena and physics overrides
	count      int
	gravity    float64
	airDensity float64
	width      float64
	height     float64
	// Recording
	sampleEvery int
	// Live view and server
	frameRate int
	addr      string
	themeName string
	// Render
	outFile    string
	renderAt   float64
	trajectory int
	// Bench
	numRuns int
	// Sweep and tune
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	gridSpecs  []string
	metricName string
	maximize   bool
	saveRuns   bool
)

// main registers the commands and runs the live view when no subcommand is
// given. It exits with status 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "spinarena",
		Short: "spinning disks in a box",
		RunE:  runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spinarena", "data directory")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", nil, "dotenv files with SPINARENA_* overrides (default .env)")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a simulation and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "record every n-th step")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and motion of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	renderCmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "render a frame (or one body's trajectory) to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderSVG,
	}
	addSceneFlags(renderCmd)
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "spinarena.svg", "output file")
	renderCmd.Flags().Float64Var(&renderAt, "at", -1, "time of the rendered frame (default end of run)")
	renderCmd.Flags().IntVar(&trajectory, "trajectory", 0, "trace this body id instead of drawing a frame")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().StringVar(&themeName, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	serveCmd := &cobra.Command{
		Use:   "serve [scene]",
		Short: "drive a scene in real time over HTTP and websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serve,
	}
	addSceneFlags(serveCmd)
	serveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frames pushed per second")
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list presets, for one scene or all",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark step throughput by body count",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	benchCmd.Flags().IntVar(&numRuns, "runs", 4, "parallel runs per body count")
	benchCmd.Flags().Float64Var(&duration, "time", 2.0, "simulated seconds per run")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario of several runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveRuns, "save", false, "save every step, not only those marked save")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "sweep one physics parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "air_density", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.005, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid search physics parameters against a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneScene,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to optimize")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, renderCmd, liveCmd, serveCmd, presetsCmd, benchCmd, scenarioCmd, sweepCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&count, "count", config.DefaultCount, "number of random bodies")
	cmd.Flags().Float64Var(&gravity, "gravity", 9.81, "gravity in m/s²")
	cmd.Flags().Float64Var(&airDensity, "air-density", 0.0014, "air density")
	cmd.Flags().Float64Var(&width, "width", 800, "arena width")
	cmd.Flags().Float64Var(&height, "height", 600, "arena height")
}

// loadConfig layers defaults, preset, config file, dotenv/environment and
// finally explicitly set flags.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	scene := ""
	if len(args) > 0 {
		scene = args[0]
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		name := scene
		if name == "" {
			name = cfg.Scene
		}
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if scene != "" {
		cfg.Scene = scene
	}

	if err := config.ApplyEnv(cfg, envFiles...); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Changed("count") {
		cfg.Spawn.Count = count
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if flags.Changed("air-density") {
		cfg.Physics.AirDensity = airDensity
	}
	if flags.Changed("width") {
		cfg.Arena.Width = width
	}
	if flags.Changed("height") {
		cfg.Arena.Height = height
	}
	if flags.Lookup("sample-every") != nil && flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Lookup("fps") != nil && flags.Changed("fps") {
		cfg.Server.FPS = frameRate
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Server.Addr = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry())
	if err := exp.Setup(metrics.Default()); err != nil {
		return err
	}

	fmt.Printf("running %s with %d bodies...\n", cfg.Scene, exp.World().Len())
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Scene:    cfg.Scene,
		Preset:   preset,
		Seed:     cfg.Seed,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Params:   cfg.Params().GetParams(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (%d frames stored)\n", result.StepsTaken, len(result.Frames))
	fmt.Printf("wall hits: %d  collisions: %d\n", result.Totals.WallHits, result.Totals.Collisions)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
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
	fmt.Fprintln(w, "ID\tSCENE\tPRESET\tTIME\tDURATION\tDT\tBODIES\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scene,
			orDash(run.Preset),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Bodies,
			run.Steps,
		)
	}

	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(frames))

	series := []struct {
		caption string
		value   func(sim.Frame) float64
	}{
		{"kinetic energy", sim.Frame.Energy},
		{"max speed (px/s)", func(f sim.Frame) float64 {
			fastest := 0.0
			for _, b := range f.Bodies {
				fastest = math.Max(fastest, math.Hypot(b.VX, b.VY))
			}
			return fastest
		}},
		{"mean |spin| (rad/s)", func(f sim.Frame) float64 {
			if len(f.Bodies) == 0 {
				return 0
			}
			total := 0.0
			for _, b := range f.Bodies {
				total += math.Abs(b.AngularVelocity)
			}
			return total / float64(len(f.Bodies))
		}},
	}

	for _, s := range series {
		graph := asciigraph.Plot(storage.Series(frames, s.value),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

// output opens outFile, or returns stdout when it is empty.
func output() (*os.File, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	f, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).CopyCSV(f, args[0]); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	f, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).ExportJSON(f, args[0]); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func renderSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	w, err := experiment.NewRegistry().Build(cfg, cfg.Seed)
	if err != nil {
		return err
	}

	var frames []sim.Frame
	if trajectory > 0 {
		frames = append(frames, w.Snapshot())
	}
	last := w.Snapshot()
	err = sim.New().RunWithCallback(cmd.Context(), w, cfg.SimConfig(), func(f sim.Frame, _ sim.StepStats) bool {
		last = f
		if trajectory > 0 {
			frames = append(frames, f)
		}
		return renderAt < 0 || f.Time < renderAt
	})
	if err != nil {
		return err
	}

	var svg string
	if trajectory > 0 {
		color := "#ffffff"
		for _, b := range last.Bodies {
			if b.ID == trajectory {
				color = b.Color
			}
		}
		svg = export.TrajectoryToSVG(frames, trajectory, color)
		if svg == "" {
			return fmt.Errorf("body %d not found in scene %s", trajectory, cfg.Scene)
		}
	} else {
		svg = export.FrameToSVG(last)
	}

	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (t=%.2fs, %d bodies)\n", outFile, last.Time, len(last.Bodies))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	build := func() (*sim.World, error) {
		return registry.Build(cfg, cfg.Seed)
	}
	title := cfg.Scene
	if preset != "" {
		title += " / " + preset
	}
	return viz.Run(build, viz.Options{Title: title, Dt: cfg.Dt, FPS: cfg.Server.FPS, Theme: themeName})
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	w, err := experiment.NewRegistry().Build(cfg, cfg.Seed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := server.NewDriver(w, cfg.Dt, cfg.Server.FPS, cfg.Seed, cfg.Palette())
	fmt.Printf("serving %s (%d bodies) on %s\n", cfg.Scene, w.Len(), cfg.Server.Addr)
	return server.New(driver).Run(ctx, cfg.Server.Addr)
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenes := config.ListScenes()
	if len(args) > 0 {
		scenes = args[:1]
	}
	for _, scene := range scenes {
		presets := config.ListPresets(scene)
		if len(presets) == 0 {
			fmt.Printf("no presets for scene: %s\n", scene)
			continue
		}
		fmt.Printf("presets for %s:\n", scene)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	scene := "rain"
	if len(args) > 0 {
		scene = args[0]
	}
	if scene == "collide" {
		return fmt.Errorf("scene collide spawns no random bodies; bench rain, spinners or pile")
	}

	registry := experiment.NewRegistry()
	if _, err := registry.GetScene(scene); err != nil {
		return err
	}

	fmt.Printf("benchmarking %s (%d runs per row)\n\n", scene, numRuns)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tSTEPS\tTIME\tSTEPS/SEC\tCOLLISIONS/RUN\tENERGY DRIFT")

	for _, n := range []int{10, 50, 100, 200} {
		cfg := config.DefaultConfig()
		cfg.Scene = scene
		cfg.Duration = duration
		cfg.SampleEvery = 0
		cfg.Spawn.Count = n
		cfg.Spawn.MaxRadius = math.Min(cfg.Spawn.MaxRadius, 8+400/float64(n))
		cfg.Spawn.MinRadius = math.Min(cfg.Spawn.MinRadius, cfg.Spawn.MaxRadius)
		if err := cfg.Validate(); err != nil {
			return err
		}

		ens := sim.NewEnsemble(func(s int64) (*sim.World, error) {
			return registry.Build(cfg, s)
		}, metrics.Default, numRuns, 42)

		start := time.Now()
		results, err := ens.Run(cmd.Context(), cfg.SimConfig())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		steps, collisions, drift := 0, 0, 0.0
		for _, r := range results {
			steps += r.StepsTaken
			collisions += r.Totals.Collisions
			drift += r.EnergyDrift
		}
		runs := float64(len(results))

		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.1f\t%+.4f\n",
			n, steps, elapsed.Round(time.Millisecond), float64(steps)/elapsed.Seconds(),
			float64(collisions)/runs, drift/runs)
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if saveRuns {
		for i := range scenario.Steps {
			scenario.Steps[i].Save = true
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if scenario.Description != "" {
		fmt.Printf("%s: %s\n", scenario.Name, scenario.Description)
	}
	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), st, os.Stdout)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tSCENE\tSTEPS\tWALL HITS\tCOLLISIONS\tDRIFT\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%+.4f\t%s\n",
			r.Step, r.Scene, r.Result.StepsTaken, r.Result.Totals.WallHits,
			r.Result.Totals.Collisions, r.Result.EnergyDrift, orDash(r.RunID))
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, experiment.NewRegistry(), os.Stderr)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL E\tMIN E\tMAX E\tMAX SPEED\tWALL HITS\tCOLLISIONS\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.1f\t%.1f\t%.1f\t%.1f\t%d\t%d\n",
			r.ParamValue, r.FinalEnergy, r.MinEnergy, r.MaxEnergy,
			r.Metrics["max_speed"], r.Totals.WallHits, r.Totals.Collisions)
	}
	return w.Flush()
}

// parseGrid reads name=v1,v2,... specs.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, entry := range specs {
		name, list, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("invalid grid %q, want name=v1,v2", entry)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func tuneScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(gridSpecs) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}
	names, ranges, err := parseGrid(gridSpecs)
	if err != nil {
		return err
	}

	goal := optim.Minimize
	if maximize {
		goal = optim.Maximize
	}
	search, err := optim.NewGridSearch(names, ranges, goal)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := cfg.Clone()
		for name, v := range params {
			if err := c.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(c, registry)
		return exp, exp.Setup(metrics.Default())
	}

	fmt.Printf("searching %d points of %s for %s...\n", search.Size(), cfg.Scene, metricName)
	best, value, trials, err := search.Search(cmd.Context(), build, metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metricName))
	for _, t := range trials {
		row := make([]string, len(names))
		for i, name := range names {
			row[i] = strconv.FormatFloat(t.Params[name], 'g', 4, 64)
		}
		fmt.Fprintf(w, "%s\t%.6f\n", strings.Join(row, "\t"), t.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.6f at %v\n", metricName, value, best)
	return nil
}

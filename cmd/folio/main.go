package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/folio/internal/anim"
	"github.com/san-kum/folio/internal/bench"
	"github.com/san-kum/folio/internal/config"
	"github.com/san-kum/folio/internal/export"
	"github.com/san-kum/folio/internal/logging"
	"github.com/san-kum/folio/internal/motion"
	"github.com/san-kum/folio/internal/raster"
	"github.com/san-kum/folio/internal/scramble"
	"github.com/san-kum/folio/internal/server"
	"github.com/san-kum/folio/internal/viz"
)

var (
	configFile    string
	preset        string
	seed          int64
	frameRate     int
	reducedMotion bool
	motionFile    string
	theme         string
	logLevel      string
	// render
	outPath string
	frames  int
	warmup  int
	width   int
	height  int
	// bench
	svgPath string
	// scramble
	plain bool
	// serve
	addr string
	// config init
	force bool
)

// main registers the folio commands. With no subcommand it opens the
// interactive scene menu.
func main() {
	rootCmd := &cobra.Command{
		Use:           "folio",
		Short:         "procedural hud animation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	pf.BoolVar(&reducedMotion, "reduced-motion", false, "freeze animations")
	pf.StringVar(&motionFile, "motion-file", "", "watch this file for a reduced-motion preference")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	globeCmd := &cobra.Command{
		Use:   "globe",
		Short: "rotating globe with beam arcs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScene(cmd, "globe", "")
		},
	}

	rainCmd := &cobra.Command{
		Use:   "rain",
		Short: "hud digital rain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScene(cmd, "rain", "")
		},
	}

	scrambleCmd := &cobra.Command{
		Use:   "scramble [text]",
		Short: "character scramble text reveal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScramble,
	}
	scrambleCmd.Flags().BoolVar(&plain, "plain", false, "print frames to stdout instead of the TUI")

	renderCmd := &cobra.Command{
		Use:   "render [globe|rain|scramble]",
		Short: "render an animation to png or gif",
		Args:  cobra.ExactArgs(1),
		RunE:  renderAnimation,
	}
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (.png or .gif)")
	renderCmd.Flags().IntVar(&frames, "frames", export.DefaultFrames, "gif frames")
	renderCmd.Flags().IntVar(&warmup, "warmup", export.DefaultWarmup, "frames stepped before capture")
	renderCmd.Flags().IntVar(&width, "width", 0, "image width (default from config)")
	renderCmd.Flags().IntVar(&height, "height", 0, "image height (default from config)")
	renderCmd.MarkFlagRequired("out")

	benchCmd := &cobra.Command{
		Use:   "bench [globe|rain|scramble]",
		Short: "benchmark a renderer headless",
		Args:  cobra.ExactArgs(1),
		RunE:  benchRenderer,
	}
	benchCmd.Flags().IntVar(&frames, "frames", 600, "frames to run")
	benchCmd.Flags().StringVar(&svgPath, "svg", "", "also write frame cost as svg")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve rendered previews over http",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(initCmd)

	rootCmd.AddCommand(globeCmd, rainCmd, scrambleCmd, renderCmd, benchCmd, serveCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, preset, config file, environment and flags,
// later sources winning.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg = p
	}

	// Load config file if specified (overrides preset)
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("reduced-motion") {
		cfg.ReducedMotion = reducedMotion
	}
	if flags.Changed("motion-file") {
		cfg.MotionFile = motionFile
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	return cfg, cfg.Validate()
}

type env struct {
	cfg *config.Config
	log *zap.SugaredLogger
	sig motion.Signal
	// releases the motion watcher and flushes the logger
	close func()
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logging.New("folio", logLevel)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: log, close: func() { log.Sync() }}

	if cfg.MotionFile == "" {
		e.sig = motion.NewSwitch(cfg.ReducedMotion)
		return e, nil
	}
	fw, err := motion.WatchFile(cfg.MotionFile, log.Named("motion"))
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", cfg.MotionFile, err)
	}
	if cfg.ReducedMotion {
		fw.Set(true)
	}
	e.sig = fw
	e.close = func() {
		fw.Close()
		log.Sync()
	}
	return e, nil
}

func runMenu(cmd *cobra.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	viz.SetTheme(e.cfg.Theme)
	return viz.RunInteractive(scenes(e.cfg, ""), e.sig, e.cfg.FPS)
}

func runScene(cmd *cobra.Command, name, text string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	viz.SetTheme(e.cfg.Theme)

	sc, ok := findScene(scenes(e.cfg, text), name)
	if !ok {
		return fmt.Errorf("unknown scene: %s", name)
	}
	cols, rows := viz.CanvasCells(80, 24)
	canvas := viz.NewCanvas(cols, rows)
	r, stats := sc.Build(canvas, e.sig)
	w, h := canvas.Size()
	r.Resize(w, h)
	return viz.Run(viz.NewModel(sc.Name, r, canvas, e.sig, e.cfg.FPS, stats))
}

func runScramble(cmd *cobra.Command, args []string) error {
	text := ""
	if len(args) > 0 {
		text = args[0]
	}
	if !plain {
		return runScene(cmd, "scramble", text)
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	if text == "" {
		text = e.cfg.Scramble.Text
	}

	s := scramble.New(e.cfg.ScrambleConfig(), text, e.sig, scramble.WithSeed(e.cfg.Seed))
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := anim.NewDriver(s,
		anim.WithFPS(e.cfg.FPS),
		anim.WithLogger(e.log.Named("driver")),
		anim.WithFrameHook(func(uint64) { fmt.Printf("\r%s", s.Text()) }))
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-d.Done()
	d.Stop()
	fmt.Printf("\r%s\n", s.Text())
	return nil
}

func renderAnimation(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	w, h := e.cfg.Width, e.cfg.Height
	if width > 0 {
		w = width
	}
	if height > 0 {
		h = height
	}
	surf := raster.New(w, h)
	r, err := newRasterRenderer(args[0], e.cfg, surf, e.sig)
	if err != nil {
		return err
	}
	r.Resize(float64(w), float64(h))

	opts := export.Options{Frames: frames, Warmup: warmup, FPS: e.cfg.FPS}
	start := time.Now()
	res, err := export.ToFile(outPath, r, surf, opts)
	if err != nil {
		return err
	}
	e.log.Infow("rendered", "kind", args[0], "out", outPath, "took", time.Since(start))
	fmt.Printf("wrote %s (%s, %dx%d)\n", outPath, res, w, h)
	return nil
}

func benchRenderer(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	rec := anim.NewRecorder(float64(e.cfg.Width), float64(e.cfg.Height))
	r, stat, caption, err := newBenchRenderer(args[0], e.cfg, rec)
	if err != nil {
		return err
	}
	r.Resize(rec.Size())

	runner := bench.NewRunner()
	runner.Step = time.Second / time.Duration(e.cfg.FPS)
	rep := runner.Run(args[0], r, rec, frames, stat)

	fmt.Print(rep.Summary())
	fmt.Println()
	fmt.Println(rep.Plot(caption))

	if svgPath != "" {
		svg := export.SeriesToSVG(rep.CostsMicros(), 800, 240, "#00ff88")
		if svg == "" {
			return errors.New("not enough frames for an svg plot")
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s (%s)\n", svgPath, humanize.Bytes(uint64(len(svg))))
	}
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(e.cfg, e.log.Named("server")).Run(ctx, addr)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tFPS\tINTENSITY\tARC PROB\tDENSITY\tREDUCED")
	for _, name := range config.ListPresets() {
		cfg, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.3f\t%.2f\t%v\n",
			name, cfg.FPS, cfg.Globe.Intensity, cfg.Globe.ArcSpawnProbability, cfg.Rain.Density, cfg.ReducedMotion)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "folio.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s exists (use --force to overwrite)", path)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

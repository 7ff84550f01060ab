package main

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/screwyforcepush/agentrain/audio"
	"github.com/screwyforcepush/agentrain/config"
	"github.com/screwyforcepush/agentrain/engine"
	"github.com/screwyforcepush/agentrain/engine/status"
	"github.com/screwyforcepush/agentrain/feed"
	"github.com/screwyforcepush/agentrain/logging"
	"github.com/screwyforcepush/agentrain/rain"
	"github.com/screwyforcepush/agentrain/render"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "agentrain",
		Short: "Matrix-rain visualizer for agent orchestration events",
		Long: "agentrain renders a live glyph-rain visualization of an agent\n" +
			"orchestration event stream on the terminal.\n\n" +
			"Keys: q quit, space enable/disable, r reset quality, c clear, a add drop",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().Float64("density", 0, "column density (0,1]")
	cmd.Flags().String("chars", "", "character set: "+strings.Join(config.CharsetNames(), ", ")+", or literal runes")
	cmd.Flags().String("palette", "", "palette: "+strings.Join(config.PaletteNames(), ", "))
	cmd.Flags().Float64("spawn-rate", 0, "ambient spawns per second")
	cmd.Flags().Int("max-drops", 0, "hard drop ceiling")
	cmd.Flags().Int("trail", 0, "trail length")
	cmd.Flags().Bool("reduced-motion", false, "start with motion paused")
	cmd.Flags().Float64("feed-rate", 0, "demo feed events per second (0 disables)")
	cmd.Flags().Bool("audio", false, "audible cue on quality downgrade")
	cmd.Flags().String("log", "", "log file path")
	cmd.Flags().String("log-level", "", "log level: debug, info, warn, error")
	return cmd
}

// applyFlagOverrides lets explicit flags win over file values
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("density") {
		cfg.ColumnDensity, _ = f.GetFloat64("density")
	}
	if f.Changed("chars") {
		cfg.CharacterSet, _ = f.GetString("chars")
	}
	if f.Changed("palette") {
		cfg.Palette, _ = f.GetString("palette")
	}
	if f.Changed("spawn-rate") {
		cfg.SpawnRate, _ = f.GetFloat64("spawn-rate")
	}
	if f.Changed("max-drops") {
		cfg.MaxDrops, _ = f.GetInt("max-drops")
	}
	if f.Changed("trail") {
		cfg.TrailLength, _ = f.GetInt("trail")
	}
	if f.Changed("reduced-motion") {
		cfg.ReducedMotion, _ = f.GetBool("reduced-motion")
	}
	if f.Changed("feed-rate") {
		cfg.FeedRate, _ = f.GetFloat64("feed-rate")
	}
	if f.Changed("audio") {
		cfg.AudioCue, _ = f.GetBool("audio")
	}
	if f.Changed("log") {
		cfg.LogPath, _ = f.GetString("log")
	}
	if f.Changed("log-level") {
		cfg.LogLevel, _ = f.GetString("log-level")
	}
}

func run(cfg config.Config) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("stdout is not a terminal")
	}

	log, closeLog, err := logging.Setup(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	surface, err := render.NewTcellSurface()
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrSurfaceUnavailable, err)
	}
	defer surface.Fini()

	renderer := render.NewRenderer(surface, cfg.Stride())
	base, accent := cfg.Colors()

	var cue *audio.Cue
	if cfg.AudioCue {
		if cue, err = audio.NewCue(); err != nil {
			log.Warn("audio initialization failed, continuing silent", "err", err)
		}
	}

	reg := status.NewRegistry()
	eng, err := engine.New(renderer, engine.Options{
		Sim: rain.Params{
			SpeedMin:    cfg.SpeedMin,
			SpeedMax:    cfg.SpeedMax,
			SpawnRate:   cfg.SpawnRate,
			Charset:     cfg.Charset(),
			TrailLength: cfg.TrailLength,
			Columns:     renderer.Columns(),
			Rows:        renderer.Rows(),
			BaseColor:   base,
			AccentColor: accent,
		},
		MaxDrops:      cfg.MaxDrops,
		ReducedMotion: cfg.ReducedMotion,
		Logger:        log,
		Registry:      reg,
		Callbacks: engine.Callbacks{
			OnStatusChange: func(s string) { log.Info("status", "state", s) },
			OnQualityWarning: func(from, to rain.Level) {
				if cue != nil {
					cue.Downgrade()
				}
			},
		},
	})
	if err != nil {
		return err
	}

	gen := feed.New(eng.PushEvent, cfg.FeedRate, nil)
	gen.Start()
	defer gen.Stop()

	if err := eng.Start(); err != nil {
		return err
	}
	defer eng.Stop()

	inputLoop(surface.Screen(), eng, renderer.Stride())

	gen.Stop()
	eng.Stop()
	surface.Fini()
	printSummary(eng, reg)
	return nil
}

// inputLoop blocks on terminal events until a quit key
func inputLoop(screen tcell.Screen, eng *engine.Engine, stride int) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		switch tev := ev.(type) {
		case *tcell.EventKey:
			switch {
			case tev.Key() == tcell.KeyCtrlC || tev.Key() == tcell.KeyEscape:
				return
			case tev.Rune() == 'q':
				return
			case tev.Rune() == ' ':
				eng.Toggle()
			case tev.Rune() == 'r':
				eng.ResetQuality()
			case tev.Rune() == 'c':
				eng.ClearAll()
			case tev.Rune() == 'a':
				eng.AddDrop()
			}
		case *tcell.EventResize:
			w, h := tev.Size()
			cols := w / stride
			if cols < 1 {
				cols = 1
			}
			eng.Resize(cols, h)
		case *tcell.EventFocus:
			eng.SetFocused(tev.Focused)
		}
	}
}

// printSummary renders session metrics once the screen is restored
func printSummary(eng *engine.Engine, reg *status.Registry) {
	stats := eng.AdapterStats()
	mem := eng.GetMemoryMetrics()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"quality level", eng.QualityLevel().String()},
		{"event drops spawned", stats.Spawned},
		{"events deduplicated", stats.Deduplicated},
		{"burst events dropped", stats.BurstDropped},
		{"spawns rejected", stats.Rejected},
		{"active drops at exit", mem.ActiveDrops},
		{"pool capacity", mem.PoolCapacity},
		{"heap MB", fmt.Sprintf("%.1f", mem.HeapAllocMB)},
	})
	reg.Ints.Range(func(key string, ptr *atomic.Int64) {
		t.AppendRow(table.Row{key, ptr.Load()})
	})
	t.Render()
}

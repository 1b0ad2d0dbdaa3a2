// cmd/rigid2d/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/opd-ai/rigid2d/pkg/config"
	"github.com/opd-ai/rigid2d/pkg/engine"
	"github.com/opd-ai/rigid2d/pkg/event"
	"github.com/opd-ai/rigid2d/pkg/health"
	"github.com/opd-ai/rigid2d/pkg/logging"
)

// options are command line settings that override the scene file
type options struct {
	renderer string
	frames   int
	fixedDT  float64
	template string
	set      map[string]bool
}

func (o *options) apply(cfg *config.SceneConfig) error {
	if o.template != "" {
		tmpl := config.GetSceneTemplate(o.template)
		if tmpl == nil {
			return fmt.Errorf("unknown template %q (available: %s)",
				o.template, strings.Join(config.SceneTemplateNames(), ", "))
		}
		cfg.Bodies = tmpl.Bodies
	}
	if o.set["renderer"] {
		cfg.Simulation.Renderer = o.renderer
	}
	if o.set["frames"] {
		cfg.Simulation.MaxFrames = o.frames
	}
	if o.set["fixed-dt"] {
		cfg.Simulation.FixedDelta = float32(o.fixedDT)
	}
	return nil
}

func loadScene(ctx context.Context, logger *logging.Logger, path string, opts *options) (*config.SceneConfig, error) {
	var cfg *config.SceneConfig
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Scene file not found, using default scene",
			"config_path", path,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, logging.WrapError(err, "failed to apply environment configuration")
	}
	if err := opts.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithRunID(context.Background(), logging.GenerateRunID())

	opts := &options{set: make(map[string]bool)}
	configPath := flag.String("config", "scene.json", "Path to scene file (.json, .yaml or .yml)")
	createDefault := flag.Bool("default", false, "Write the default scene to -config and exit")
	watch := flag.Bool("watch", false, "Reload the scene when the file changes")
	healthAddr := flag.String("health", "", "Serve /health and /ready on this address")
	flag.StringVar(&opts.renderer, "renderer", config.RendererNull, "Renderer: terminal or null")
	flag.IntVar(&opts.frames, "frames", 0, "Stop after this many frames (0 = run until interrupted)")
	flag.Float64Var(&opts.fixedDT, "fixed-dt", 0, "Fixed step in seconds (0 = wall clock)")
	flag.StringVar(&opts.template, "template", "", "Replace the scene bodies with a built-in template")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	if *createDefault {
		cfg := config.DefaultConfig()
		if err := opts.apply(cfg); err != nil {
			logger.Error(ctx, "Invalid options", err)
			os.Exit(1)
		}
		if err := config.SaveConfig(cfg, *configPath); err != nil {
			logger.Error(ctx, "Failed to create default scene", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default scene file",
			"config_path", *configPath,
		)
		return
	}

	cfg, err := loadScene(ctx, logger, *configPath, opts)
	if err != nil {
		logger.Error(ctx, "Failed to load scene", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}

	sim, err := engine.NewSimulation(cfg, engine.WithLogger(logger))
	if err != nil {
		logger.Error(ctx, "Failed to create simulation", err)
		os.Exit(1)
	}
	ctx = logging.WithRunID(context.Background(), sim.RunID())

	sim.EventBus().Subscribe(event.BoundaryBounce, func(e event.Event) {
		b := e.(*event.BounceEvent)
		logger.Debug(ctx, "Boundary bounce", "body_id", b.BodyID, "edge", b.Edge, "speed", b.Speed)
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watch {
		watcher, err := config.NewWatcher(*configPath)
		if err != nil {
			logger.Error(ctx, "Failed to watch scene file", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		defer watcher.Close()
		go reloadOnChange(ctx, logger, watcher, sim, opts)
	}

	if *healthAddr != "" {
		checker := health.NewChecker()
		checker.AddCheck(health.NewRunningCheck(sim.Running))
		checker.AddCheck(health.NewProgressCheck(func() uint64 { return sim.Stats().Frames }, 5*time.Second))
		checker.AddCheck(health.NewMemoryCheck(500))
		go func() {
			if err := health.Serve(ctx, *healthAddr, checker, logger); err != nil {
				logger.Error(ctx, "Health server failed", err)
			}
		}()
	}

	logger.Info(ctx, "Starting simulation",
		"config_path", *configPath,
		"renderer", cfg.Simulation.Renderer,
		"tick_rate", cfg.Simulation.TickRate,
		"bodies", sim.Stats().Bodies,
	)
	if err := sim.Run(ctx); err != nil {
		logger.Error(ctx, "Simulation failed", err)
		os.Exit(1)
	}

	stats := sim.Stats()
	logger.Info(ctx, "Simulation finished",
		"frames", stats.Frames,
		"steps", stats.Steps,
		"contacts", stats.Contacts,
		"bounces", stats.Bounces,
		"elapsed", stats.Elapsed.String(),
	)
}

func reloadOnChange(ctx context.Context, logger *logging.Logger, w *config.Watcher, sim *engine.Simulation, opts *options) {
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			cfg, err := loadScene(ctx, logger, path, opts)
			if err != nil {
				logger.Warn(ctx, "Ignoring scene change", "config_path", path, "error", err.Error())
				continue
			}
			// Rejected scenes are logged by Reload and the old world keeps running.
			_ = sim.Reload(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Error(ctx, "Scene watcher error", err)
		}
	}
}

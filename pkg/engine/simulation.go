// pkg/engine/simulation.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/opd-ai/rigid2d/pkg/clock"
	"github.com/opd-ai/rigid2d/pkg/config"
	"github.com/opd-ai/rigid2d/pkg/event"
	"github.com/opd-ai/rigid2d/pkg/logging"
	"github.com/opd-ai/rigid2d/pkg/physics"
	"github.com/opd-ai/rigid2d/pkg/render"
)

// ErrNotRunning is returned when stepping a simulation that has not been started
var ErrNotRunning = errors.New("simulation not running")

// DefaultMaxDelta caps a single step so a stalled frame cannot tunnel
// bodies through each other.
const DefaultMaxDelta float32 = 0.1

// Stats is a snapshot of simulation counters
type Stats struct {
	Frames   uint64
	FPS      int
	Bodies   int
	Steps    uint64
	Contacts uint64
	Bounces  uint64
	Elapsed  time.Duration
}

// Simulation drives a physics world: it owns the world, the frame clock,
// the renderer and the event bus.
type Simulation struct {
	mu       sync.Mutex
	world    *physics.World
	config   *config.SceneConfig
	clock    *clock.Clock
	renderer render.Renderer
	bus      *event.Bus
	logger   *logging.Logger
	runID    string

	running     bool
	frames      uint64
	secondCount int
	fps         int
	contacts    uint64
	bounces     uint64
}

// Option configures a Simulation
type Option func(*Simulation)

// WithRenderer replaces the renderer picked from the config
func WithRenderer(r render.Renderer) Option {
	return func(s *Simulation) { s.renderer = r }
}

// WithEventBus publishes events to bus instead of a private one
func WithEventBus(bus *event.Bus) Option {
	return func(s *Simulation) { s.bus = bus }
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithClock sets the frame clock, mainly so tests can control time
func WithClock(c *clock.Clock) Option {
	return func(s *Simulation) { s.clock = c }
}

// NewSimulation builds the world described by cfg. A nil cfg uses the
// default scene.
func NewSimulation(cfg *config.SceneConfig, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	world, err := config.BuildWorld(cfg)
	if err != nil {
		return nil, logging.WrapError(err, "failed to build world")
	}

	s := &Simulation{
		world:  world,
		config: cfg,
		runID:  logging.GenerateRunID(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewLogger()
	}
	if s.bus == nil {
		s.bus = event.NewEventBus()
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.renderer == nil {
		s.renderer = rendererFor(cfg.Simulation, s.logger)
	}

	s.publishBodies(world.Bodies())
	return s, nil
}

func rendererFor(cfg config.SimulationConfig, logger *logging.Logger) render.Renderer {
	if cfg.Renderer == config.RendererTerminal {
		return render.NewTerminalRenderer(os.Stdout, cfg.TerminalWidth, cfg.TerminalHeight)
	}
	return render.NewNullRenderer(logger)
}

func (s *Simulation) ctx() context.Context {
	return logging.WithRunID(context.Background(), s.runID)
}

// RunID identifies this simulation in log entries
func (s *Simulation) RunID() string {
	return s.runID
}

// EventBus returns the bus events are published to
func (s *Simulation) EventBus() *event.Bus {
	return s.bus
}

// Running reports whether Start has been called without a matching Stop
func (s *Simulation) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start begins the simulation. Time spent before Start is not simulated.
func (s *Simulation) Start() {
	s.mu.Lock()
	s.running = true
	s.clock.Update()
	bodies := s.world.Len()
	s.mu.Unlock()

	s.logger.Info(s.ctx(), "Simulation started", "bodies", bodies)
	s.bus.Publish(&event.BaseEvent{
		EventType: event.SimulationStarted,
		Source:    s,
	})
}

// Stop halts the simulation
func (s *Simulation) Stop() {
	s.mu.Lock()
	s.running = false
	frames := s.frames
	s.mu.Unlock()

	s.logger.Info(s.ctx(), "Simulation stopped", "frames", frames)
	s.bus.Publish(&event.BaseEvent{
		EventType: event.SimulationStopped,
		Source:    s,
	})
}

// Step advances the world by the time elapsed since the previous frame, or
// by the configured fixed delta when one is set.
func (s *Simulation) Step() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.clock.Update()
	dt := s.clock.Delta()
	if s.config.Simulation.FixedDelta > 0 {
		dt = s.config.Simulation.FixedDelta
	}

	s.secondCount++
	if s.clock.SecondElapsed() {
		s.fps = s.secondCount
		s.secondCount = 0
		s.logger.Debug(s.ctx(), "Frame rate", "fps", s.fps, "bodies", s.world.Len())
	}

	return s.stepLocked(dt)
}

// StepWith advances the world by exactly dt seconds, subject to the delta
// cap. The frame clock is not consulted.
func (s *Simulation) StepWith(dt float32) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	return s.stepLocked(dt)
}

// stepLocked runs one frame with s.mu held and releases it before
// publishing, so handlers may call back into the simulation.
func (s *Simulation) stepLocked(dt float32) error {
	dt = s.capDelta(dt)

	s.world.Update(dt)
	report := s.world.LastStep()
	tick := s.world.Steps()
	s.frames++
	s.contacts += uint64(len(report.Contacts))
	s.bounces += uint64(len(report.Bounces))

	renderErr := render.Draw(s.renderer, s.world)
	s.mu.Unlock()

	s.publishReport(report, tick)

	if renderErr != nil {
		return logging.WrapError(renderErr, "failed to render frame %d", tick)
	}
	return nil
}

func (s *Simulation) capDelta(dt float32) float32 {
	maxDelta := s.config.Simulation.MaxDelta
	if maxDelta <= 0 {
		maxDelta = DefaultMaxDelta
	}
	if dt > maxDelta {
		return maxDelta
	}
	if dt < 0 {
		return 0
	}
	return dt
}

func (s *Simulation) publishReport(report physics.StepReport, tick uint64) {
	for _, c := range report.Contacts {
		ev := event.NewCollisionEvent(s, uint64(c.A), uint64(c.B), tick)
		if c.HasNormal {
			ev.WithNormal(c.Normal.X, c.Normal.Y)
		}
		s.bus.Publish(ev)
	}
	for _, b := range report.Bounces {
		s.bus.Publish(event.NewBounceEvent(s, uint64(b.Body), b.Edge.String(), b.Speed, tick))
	}
}

func (s *Simulation) publishBodies(bodies []physics.Body) {
	for _, b := range bodies {
		s.bus.Publish(event.NewBodyEvent(s, uint64(b.ID), b.Shape.Kind.String(), b.Static))
	}
}

// Run starts the simulation if needed and steps it at the configured tick
// rate until ctx is cancelled or the configured frame limit is reached.
// Cancellation is a normal shutdown and returns nil.
func (s *Simulation) Run(ctx context.Context) error {
	if !s.Running() {
		s.Start()
	}
	defer s.Stop()

	ticker := time.NewTicker(s.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Step(); err != nil {
				s.logger.Error(s.ctx(), "Simulation step failed", err)
				return err
			}
			if s.done() {
				return nil
			}
		}
	}
}

func (s *Simulation) tickInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	rate := s.config.Simulation.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

func (s *Simulation) done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	limit := s.config.Simulation.MaxFrames
	return limit > 0 && s.frames >= uint64(limit)
}

// Reload replaces the world with one built from cfg. On error the current
// world is kept. Frame counters carry over.
func (s *Simulation) Reload(cfg *config.SceneConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
	}
	world, err := config.BuildWorld(cfg)
	if err != nil {
		s.logger.Warn(s.ctx(), "Scene reload rejected", "error", err.Error())
		return logging.WrapError(err, "failed to reload scene")
	}
	bodies := world.Bodies()

	s.mu.Lock()
	if cfg.Simulation.Renderer != s.config.Simulation.Renderer {
		s.logger.Warn(s.ctx(), "Renderer change requires a restart",
			"current", s.config.Simulation.Renderer,
			"requested", cfg.Simulation.Renderer,
		)
	}
	s.world = world
	s.config = cfg
	s.mu.Unlock()

	s.logger.Info(s.ctx(), "Scene reloaded", "bodies", len(bodies))
	s.bus.Publish(&event.BaseEvent{
		EventType: event.WorldReloaded,
		Source:    s,
	})
	s.publishBodies(bodies)
	return nil
}

// WithWorld calls fn with the world locked. fn must not retain the world or
// call back into the simulation.
func (s *Simulation) WithWorld(fn func(w *physics.World)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.world)
}

// Stats returns a snapshot of the simulation counters
func (s *Simulation) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Frames:   s.frames,
		FPS:      s.fps,
		Bodies:   s.world.Len(),
		Steps:    s.world.Steps(),
		Contacts: s.contacts,
		Bounces:  s.bounces,
		Elapsed:  s.clock.Elapsed(),
	}
}

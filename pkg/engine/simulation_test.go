// Package engine provides unit tests for simulation.go
package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/chewxy/math32"

	"github.com/opd-ai/rigid2d/pkg/clock"
	"github.com/opd-ai/rigid2d/pkg/config"
	"github.com/opd-ai/rigid2d/pkg/event"
	"github.com/opd-ai/rigid2d/pkg/logging"
	"github.com/opd-ai/rigid2d/pkg/physics"
	"github.com/opd-ai/rigid2d/pkg/render"
)

const tolerance = 1e-3

type fakeTime struct {
	now time.Time
}

func (f *fakeTime) Now() time.Time { return f.now }

func (f *fakeTime) Advance(d time.Duration) { f.now = f.now.Add(d) }

type failingRenderer struct {
	err error
}

func (r *failingRenderer) Clear() {}

func (r *failingRenderer) RenderBody(*physics.Body) {}

func (r *failingRenderer) Present() error { return r.err }

func sceneWith(bodies ...config.BodyConfig) *config.SceneConfig {
	cfg := config.DefaultConfig()
	cfg.Bodies = bodies
	return cfg
}

func ball(x, y, r float32) config.BodyConfig {
	return config.BodyConfig{
		X:     x,
		Y:     y,
		Shape: config.ShapeConfig{Type: config.ShapeTypeCircle, Radius: r},
	}
}

func staticBall(x, y, r float32) config.BodyConfig {
	b := ball(x, y, r)
	b.Static = true
	return b
}

func newTestSimulation(t *testing.T, cfg *config.SceneConfig, opts ...Option) *Simulation {
	t.Helper()
	opts = append([]Option{
		WithLogger(logging.NewDiscardLogger()),
		WithRenderer(render.NewNullRenderer(logging.NewDiscardLogger())),
	}, opts...)
	sim, err := NewSimulation(cfg, opts...)
	if err != nil {
		t.Fatalf("NewSimulation failed: %v", err)
	}
	return sim
}

func bodyAt(t *testing.T, sim *Simulation, id physics.ID) physics.Body {
	t.Helper()
	var out physics.Body
	sim.WithWorld(func(w *physics.World) {
		b, ok := w.GetBody(id)
		if !ok {
			t.Fatalf("body %d not found", id)
		}
		out = *b
	})
	return out
}

func TestNewSimulation_DefaultScene(t *testing.T) {
	bus := event.NewEventBus()
	var added []uint64
	bus.Subscribe(event.BodyAdded, func(e event.Event) {
		added = append(added, e.(*event.BodyEvent).BodyID)
	})

	sim := newTestSimulation(t, nil, WithEventBus(bus))

	stats := sim.Stats()
	if stats.Bodies != 4 {
		t.Errorf("expected 4 bodies, got %d", stats.Bodies)
	}
	if len(added) != 4 || added[0] != 1 || added[3] != 4 {
		t.Errorf("expected BodyAdded for ids 1..4, got %v", added)
	}
	if sim.Running() {
		t.Error("simulation should not run before Start")
	}
	if len(sim.RunID()) != 16 {
		t.Errorf("expected 16 character run id, got %q", sim.RunID())
	}
	if sim.EventBus() != bus {
		t.Error("expected the supplied bus")
	}
}

func TestNewSimulation_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.World.Width = -1

	sim, err := NewSimulation(cfg, WithLogger(logging.NewDiscardLogger()))
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if sim != nil {
		t.Error("expected nil simulation on error")
	}
}

func TestSimulation_StartStop_Transitions(t *testing.T) {
	bus := event.NewEventBus()
	var seen []event.Type
	record := func(e event.Event) { seen = append(seen, e.GetType()) }
	bus.Subscribe(event.SimulationStarted, record)
	bus.Subscribe(event.SimulationStopped, record)

	sim := newTestSimulation(t, nil, WithEventBus(bus))
	sim.Start()
	if !sim.Running() {
		t.Error("simulation did not start")
	}
	sim.Stop()
	if sim.Running() {
		t.Error("simulation did not stop")
	}

	if len(seen) != 2 || seen[0] != event.SimulationStarted || seen[1] != event.SimulationStopped {
		t.Errorf("unexpected lifecycle events %v", seen)
	}
}

func TestSimulation_StepRequiresStart(t *testing.T) {
	sim := newTestSimulation(t, nil)

	if err := sim.Step(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Step: expected ErrNotRunning, got %v", err)
	}
	if err := sim.StepWith(0.01); !errors.Is(err, ErrNotRunning) {
		t.Errorf("StepWith: expected ErrNotRunning, got %v", err)
	}

	sim.Start()
	sim.Stop()
	if err := sim.StepWith(0.01); !errors.Is(err, ErrNotRunning) {
		t.Errorf("after Stop: expected ErrNotRunning, got %v", err)
	}
}

func TestSimulation_StepWith_IntegratesAndCaps(t *testing.T) {
	tests := []struct {
		name  string
		dt    float32
		wantV float32
	}{
		{"small_step", 0.01, 4.9},
		{"capped_step", 5, 490 * DefaultMaxDelta},
		{"negative_step", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newTestSimulation(t, sceneWith(ball(100, 100, 5)))
			sim.Start()
			if err := sim.StepWith(tt.dt); err != nil {
				t.Fatalf("StepWith failed: %v", err)
			}

			b := bodyAt(t, sim, 1)
			if math32.Abs(b.Velocity.Y-tt.wantV) > tolerance {
				t.Errorf("expected vy %v, got %v", tt.wantV, b.Velocity.Y)
			}
			if sim.Stats().Frames != 1 {
				t.Errorf("expected 1 frame, got %d", sim.Stats().Frames)
			}
		})
	}
}

func TestSimulation_StepUsesClock(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	sim := newTestSimulation(t, sceneWith(ball(100, 100, 5)), WithClock(clock.NewWithSource(ft.Now)))

	ft.Advance(time.Hour)
	sim.Start()

	ft.Advance(20 * time.Millisecond)
	if err := sim.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	b := bodyAt(t, sim, 1)
	if math32.Abs(b.Velocity.Y-9.8) > tolerance {
		t.Errorf("expected vy 9.8 after 20ms, got %v", b.Velocity.Y)
	}
}

func TestSimulation_StepUsesFixedDelta(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	cfg := sceneWith(ball(100, 100, 5))
	cfg.Simulation.FixedDelta = 0.05
	sim := newTestSimulation(t, cfg, WithClock(clock.NewWithSource(ft.Now)))
	sim.Start()

	ft.Advance(time.Millisecond)
	if err := sim.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	b := bodyAt(t, sim, 1)
	if math32.Abs(b.Velocity.Y-24.5) > tolerance {
		t.Errorf("expected vy 24.5 with fixed delta, got %v", b.Velocity.Y)
	}
}

func TestSimulation_FPS(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	sim := newTestSimulation(t, sceneWith(), WithClock(clock.NewWithSource(ft.Now)))
	sim.Start()

	for i := 0; i < 4; i++ {
		ft.Advance(250 * time.Millisecond)
		if err := sim.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}

	stats := sim.Stats()
	if stats.FPS != 4 {
		t.Errorf("expected 4 fps, got %d", stats.FPS)
	}
	if stats.Elapsed != time.Second {
		t.Errorf("expected 1s elapsed, got %v", stats.Elapsed)
	}
}

func TestSimulation_PublishesCollisions(t *testing.T) {
	bus := event.NewEventBus()
	var collisions []*event.CollisionEvent
	bus.Subscribe(event.BodyCollision, func(e event.Event) {
		collisions = append(collisions, e.(*event.CollisionEvent))
	})

	sim := newTestSimulation(t, sceneWith(staticBall(100, 100, 10), staticBall(110, 100, 10)), WithEventBus(bus))
	sim.Start()
	for i := 0; i < 2; i++ {
		if err := sim.StepWith(0.01); err != nil {
			t.Fatalf("StepWith failed: %v", err)
		}
	}

	if len(collisions) != 2 {
		t.Fatalf("expected 2 collision events, got %d", len(collisions))
	}
	c := collisions[1]
	if c.BodyA != 1 || c.BodyB != 2 || c.Tick != 2 {
		t.Errorf("unexpected collision %+v", c)
	}
	if !c.HasNormal || math32.Abs(c.NormalX-1) > tolerance || math32.Abs(c.NormalY) > tolerance {
		t.Errorf("expected normal (1,0), got (%v,%v)", c.NormalX, c.NormalY)
	}
	if sim.Stats().Contacts != 2 {
		t.Errorf("expected 2 contacts, got %d", sim.Stats().Contacts)
	}
}

func TestSimulation_PublishesBounces(t *testing.T) {
	bus := event.NewEventBus()
	var bounces []*event.BounceEvent
	bus.Subscribe(event.BoundaryBounce, func(e event.Event) {
		bounces = append(bounces, e.(*event.BounceEvent))
	})

	falling := ball(400, 585, 10)
	falling.VY = 100
	sim := newTestSimulation(t, sceneWith(falling), WithEventBus(bus))
	sim.Start()
	if err := sim.StepWith(0.1); err != nil {
		t.Fatalf("StepWith failed: %v", err)
	}

	if len(bounces) != 1 {
		t.Fatalf("expected 1 bounce event, got %d", len(bounces))
	}
	if bounces[0].Edge != "bottom" || bounces[0].BodyID != 1 {
		t.Errorf("unexpected bounce %+v", bounces[0])
	}
	if math32.Abs(bounces[0].Speed-149) > tolerance {
		t.Errorf("expected speed 149, got %v", bounces[0].Speed)
	}
	if sim.Stats().Bounces != 1 {
		t.Errorf("expected 1 bounce counted, got %d", sim.Stats().Bounces)
	}
}

func TestSimulation_RenderError(t *testing.T) {
	wantErr := errors.New("terminal closed")
	sim := newTestSimulation(t, nil, WithRenderer(&failingRenderer{err: wantErr}))
	sim.Start()

	err := sim.StepWith(0.01)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected render error, got %v", err)
	}
	if sim.Stats().Frames != 1 {
		t.Error("expected the physics step to run before rendering failed")
	}
}

func TestSimulation_Reload(t *testing.T) {
	bus := event.NewEventBus()
	reloads := 0
	bus.Subscribe(event.WorldReloaded, func(event.Event) { reloads++ })

	sim := newTestSimulation(t, nil, WithEventBus(bus))
	sim.Start()
	if err := sim.StepWith(0.01); err != nil {
		t.Fatalf("StepWith failed: %v", err)
	}

	if err := sim.Reload(sceneWith(ball(10, 10, 2), ball(50, 10, 2))); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	stats := sim.Stats()
	if stats.Bodies != 2 {
		t.Errorf("expected 2 bodies after reload, got %d", stats.Bodies)
	}
	if stats.Steps != 0 {
		t.Errorf("expected a fresh world, got %d steps", stats.Steps)
	}
	if stats.Frames != 1 {
		t.Errorf("expected frame count to carry over, got %d", stats.Frames)
	}
	if reloads != 1 {
		t.Errorf("expected 1 reload event, got %d", reloads)
	}

	bad := config.DefaultConfig()
	bad.Simulation.TickRate = 0
	if err := sim.Reload(bad); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if err := sim.Reload(nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for nil config, got %v", err)
	}
	if sim.Stats().Bodies != 2 {
		t.Error("rejected reload must keep the current world")
	}
}

func TestSimulation_RunStopsAtFrameLimit(t *testing.T) {
	cfg := sceneWith(ball(100, 100, 5))
	cfg.Simulation.TickRate = 1000
	cfg.Simulation.MaxFrames = 3
	sim := newTestSimulation(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sim.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := sim.Stats().Frames; got != 3 {
		t.Errorf("expected 3 frames, got %d", got)
	}
	if sim.Running() {
		t.Error("expected Run to stop the simulation")
	}
}

func TestSimulation_RunStopsOnCancel(t *testing.T) {
	cfg := sceneWith(ball(100, 100, 5))
	cfg.Simulation.TickRate = 1000
	sim := newTestSimulation(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sim.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil on cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// TestSimulationReloadRace reloads the scene while Run is stepping it. Run
// with -race to detect unsynchronized world access.
func TestSimulationReloadRace(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Simulation.TickRate = 1000
	sim := newTestSimulation(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = sim.Run(ctx)
	}()

	for i := 0; i < 20; i++ {
		scene := config.GetSceneTemplate("rain")
		next := config.DefaultConfig()
		next.Simulation.TickRate = 1000
		next.Bodies = scene.Bodies
		if err := sim.Reload(next); err != nil {
			t.Errorf("Reload failed: %v", err)
		}
		_ = sim.Stats()
		time.Sleep(time.Millisecond)
	}

	cancel()
	wg.Wait()
}

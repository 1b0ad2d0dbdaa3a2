// Package health exposes liveness and readiness probes for a running
// simulation over HTTP.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/opd-ai/rigid2d/pkg/logging"
)

// Check is a single named probe
type Check interface {
	Name() string
	Check(ctx context.Context) error
}

// Status is the aggregated result of all checks
type Status struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentStatus `json:"checks"`
}

// ComponentStatus is the result of one check
type ComponentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// Checker runs registered checks
type Checker struct {
	checks map[string]Check
	mu     sync.RWMutex
}

// NewChecker creates an empty checker
func NewChecker() *Checker {
	return &Checker{checks: make(map[string]Check)}
}

// AddCheck registers c, replacing any check with the same name
func (hc *Checker) AddCheck(c Check) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[c.Name()] = c
}

// Names returns the registered check names in sorted order
func (hc *Checker) Names() []string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes every check. The result is healthy only if all checks pass.
func (hc *Checker) Run(ctx context.Context) Status {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := Status{
		Status: statusHealthy,
		Checks: make(map[string]ComponentStatus, len(hc.checks)),
	}
	for name, c := range hc.checks {
		if err := c.Check(ctx); err != nil {
			status.Status = statusUnhealthy
			status.Checks[name] = ComponentStatus{Status: statusUnhealthy, Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentStatus{Status: statusHealthy}
	}
	return status
}

// LivenessHandler answers 200 while the process can serve requests
func (hc *Checker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler runs all checks and answers 503 if any fails
func (hc *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := hc.Run(ctx)

	w.Header().Set("Content-Type", "application/json")
	if status.Status == statusHealthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}

// Handler serves /health and /ready
func (hc *Checker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", hc.LivenessHandler)
	mux.HandleFunc("/ready", hc.ReadinessHandler)
	return mux
}

// Serve listens on addr until ctx is done, then shuts the server down
func Serve(ctx context.Context, addr string, hc *Checker, logger *logging.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return logging.WrapError(err, "failed to listen on %s", addr)
	}
	return serve(ctx, ln, hc, logger)
}

func serve(ctx context.Context, ln net.Listener, hc *Checker, logger *logging.Logger) error {
	srv := &http.Server{
		Handler:      hc.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Starting health server", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return logging.WrapError(err, "failed to shut down health server")
		}
		return nil
	}
}

// RunningCheck fails while the simulation is not running
type RunningCheck struct {
	running func() bool
}

// NewRunningCheck creates a check backed by running
func NewRunningCheck(running func() bool) *RunningCheck {
	return &RunningCheck{running: running}
}

// Name implements Check
func (c *RunningCheck) Name() string { return "simulation" }

// Check implements Check
func (c *RunningCheck) Check(ctx context.Context) error {
	if !c.running() {
		return errors.New("simulation is not running")
	}
	return nil
}

// ProgressCheck fails when the frame counter has not moved for longer than
// the allowed stall.
type ProgressCheck struct {
	frames   func() uint64
	maxStall time.Duration
	now      func() time.Time

	mu        sync.Mutex
	last      uint64
	lastMoved time.Time
}

// NewProgressCheck creates a stall detector over frames
func NewProgressCheck(frames func() uint64, maxStall time.Duration) *ProgressCheck {
	return newProgressCheck(frames, maxStall, time.Now)
}

func newProgressCheck(frames func() uint64, maxStall time.Duration, now func() time.Time) *ProgressCheck {
	return &ProgressCheck{
		frames:    frames,
		maxStall:  maxStall,
		now:       now,
		last:      frames(),
		lastMoved: now(),
	}
}

// Name implements Check
func (c *ProgressCheck) Name() string { return "progress" }

// Check implements Check
func (c *ProgressCheck) Check(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if f := c.frames(); f != c.last {
		c.last = f
		c.lastMoved = now
		return nil
	}
	if stalled := now.Sub(c.lastMoved); stalled > c.maxStall {
		return fmt.Errorf("no frame stepped for %s at frame %d", stalled.Round(time.Millisecond), c.last)
	}
	return nil
}

// MemoryCheck fails when heap allocation exceeds a limit
type MemoryCheck struct {
	maxMB int64
	usage func() int64
}

// NewMemoryCheck creates a check limiting heap allocation to maxMB
func NewMemoryCheck(maxMB int64) *MemoryCheck {
	return &MemoryCheck{maxMB: maxMB, usage: heapMB}
}

func heapMB() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}

// Name implements Check
func (c *MemoryCheck) Name() string { return "memory" }

// Check implements Check
func (c *MemoryCheck) Check(ctx context.Context) error {
	if used := c.usage(); used > c.maxMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", used, c.maxMB)
	}
	return nil
}

package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is the work executed once a debounce window closes.
type Task func(context.Context) error

// DebounceConfig configures debouncer behaviour.
type DebounceConfig struct {
	Delay  time.Duration
	Logger *zap.Logger
}

// Debouncer coalesces bursts of triggers into a single trailing-edge run.
// Every Trigger restarts the quiet period; only the timer that survives it
// executes the task. Failures are logged and never retried.
type Debouncer struct {
	name   string
	task   Task
	delay  time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
	stopped bool

	runMu sync.Mutex
}

// NewDebouncer builds a debouncer around task.
func NewDebouncer(name string, task Task, cfg DebounceConfig) *Debouncer {
	if cfg.Delay <= 0 {
		cfg.Delay = 450 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Debouncer{
		name:   name,
		task:   task,
		delay:  cfg.Delay,
		logger: cfg.Logger,
	}
}

// Trigger schedules the task, superseding any run still waiting.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Flush runs a pending task immediately on the caller's goroutine. With
// nothing pending it still waits for a timer-fired run that is in progress.
func (d *Debouncer) Flush(ctx context.Context) {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		d.runMu.Lock()
		d.runMu.Unlock() //nolint:staticcheck
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.pending = false
	d.mu.Unlock()

	d.run(ctx)
}

// Stop discards any pending run and ignores later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.pending = false
	d.stopped = true
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.mu.Unlock()

	d.run(context.Background())
}

func (d *Debouncer) run(ctx context.Context) {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	if err := d.task(ctx); err != nil {
		d.logger.Sugar().Warnw("debounced task failed", "debouncer", d.name, "error", err)
	}
}

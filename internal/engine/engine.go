package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gyaneshwarpardhi/pipetree/internal/config"
	"github.com/gyaneshwarpardhi/pipetree/internal/metrics"
	"github.com/gyaneshwarpardhi/pipetree/internal/pipeline"
)

var (
	ErrQueueFull = errors.New("command queue full")
	ErrTimeout   = errors.New("command timed out")
)

// Command is one browser operation. Apply runs on the engine's only worker.
type Command struct {
	Name  string
	Apply func(b *pipeline.Browser) error
}

// Engine serializes commands against a Browser: each command runs to
// completion before the next starts, and returns the resulting state.
type Engine struct {
	browser *pipeline.Browser
	pool    *workerPool[Command, pipeline.State]
	conf    config.ServerConf
}

// New creates an Engine over browser and starts its worker.
func New(ctx context.Context, browser *pipeline.Browser, conf config.ServerConf) *Engine {
	if conf.QueueDepth <= 0 {
		conf.QueueDepth = config.DefaultQueueDepth
	}
	if conf.CommandTimeoutMs <= 0 {
		conf.CommandTimeoutMs = config.DefaultCommandTimeoutMs
	}
	e := &Engine{browser: browser, conf: conf}
	e.pool = newWorkerPool[Command, pipeline.State](ctx, 1, conf.QueueDepth, e.apply)
	return e
}

func (e *Engine) apply(_ context.Context, cmd Command) (pipeline.State, error) {
	start := time.Now()
	var err error
	if cmd.Apply != nil {
		err = cmd.Apply(e.browser)
	}
	metrics.CommandsExecuted.WithLabelValues(cmd.Name).Inc()
	metrics.CommandDuration.Observe(float64(time.Since(start).Microseconds()) / 1000)
	return e.browser.State(), err
}

// Do runs cmd and waits for the resulting state.
func (e *Engine) Do(ctx context.Context, cmd Command) (pipeline.State, error) {
	resultC := make(chan jobResult[pipeline.State], 1)
	if !e.pool.Submit(cmd, resultC) {
		metrics.CommandsDropped.Inc()
		return pipeline.State{}, fmt.Errorf("%s: %w (capacity %d)", cmd.Name, ErrQueueFull, e.pool.QueueCap())
	}

	timeout := time.Duration(e.conf.CommandTimeoutMs) * time.Millisecond
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case res := <-resultC:
		return res.value, res.err
	case <-timer.C:
		return pipeline.State{}, fmt.Errorf("%s: %w after %v", cmd.Name, ErrTimeout, timeout)
	case <-ctx.Done():
		return pipeline.State{}, ctx.Err()
	}
}

// State returns the current state without re-synchronizing.
func (e *Engine) State(ctx context.Context) (pipeline.State, error) {
	return e.Do(ctx, Command{Name: "state"})
}

// Update re-synchronizes tree and selection from the backend.
func (e *Engine) Update(ctx context.Context) (pipeline.State, error) {
	return e.Do(ctx, Command{Name: "update", Apply: func(b *pipeline.Browser) error {
		b.Update()
		return nil
	}})
}

// SetActive applies a selection change from the tree widget.
func (e *Engine) SetActive(ctx context.Context, ids []string) (pipeline.State, error) {
	return e.Do(ctx, Command{Name: "active", Apply: func(b *pipeline.Browser) error {
		b.OnActiveChanged(ids)
		return nil
	}})
}

// SetVisibility applies a visibility toggle from the tree widget.
func (e *Engine) SetVisibility(ctx context.Context, id string, visible bool) (pipeline.State, error) {
	return e.Do(ctx, Command{Name: "visibility", Apply: func(b *pipeline.Browser) error {
		b.OnVisibilityChanged(id, visible)
		return nil
	}})
}

// Act applies a record action from the tree widget.
func (e *Engine) Act(ctx context.Context, id string, action pipeline.Action) (pipeline.State, error) {
	return e.Do(ctx, Command{Name: "action", Apply: func(b *pipeline.Browser) error {
		b.OnAction(id, action)
		return nil
	}})
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

// Shutdown drains the queue and waits for the worker.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}

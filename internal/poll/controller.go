// Package poll owns the single recurring telemetry task. At most one poll is
// live process-wide; whichever panel starts the next one first tears down the
// previous one.
package poll

import (
	"context"
	"sync"
	"time"

	"railcross"
	"railcross/internal/logger"
)

// Task is one poll tick. Implementations must tolerate firing after a
// navigation made them irrelevant and turn themselves into no-ops.
type Task func(ctx context.Context)

// Controller starts and stops the recurring task. Safe to call from any
// goroutine, including from inside a running tick.
type Controller struct {
	mu      sync.Mutex
	gen     uint64
	owner   railcross.Panel
	running bool
	cancel  context.CancelFunc

	log *logger.Logger
}

func NewController(log *logger.Logger) *Controller {
	return &Controller{log: log}
}

// Start begins a recurring task owned by the given panel. Any prior poll is
// stopped first, so exactly one is live afterwards. The task fires once
// immediately and then on every interval tick until stopped.
func (c *Controller) Start(owner railcross.Panel, interval time.Duration, task Task) {
	c.mu.Lock()
	c.stopLocked()
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.owner = owner
	c.running = true
	c.mu.Unlock()

	c.log.Debugw("poll_started", "owner", owner.String(), "interval", interval)
	go c.run(ctx, gen, interval, task)
}

// StopIfRunning cancels the scheduled repetition if one exists. Idempotent,
// and a no-op when nothing is running.
func (c *Controller) StopIfRunning() {
	c.mu.Lock()
	c.stopLocked()
	c.mu.Unlock()
}

// Running reports whether a poll is currently live.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Owner returns the panel owning the live poll, if any.
func (c *Controller) Owner() (railcross.Panel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owner, c.running
}

func (c *Controller) stopLocked() {
	if !c.running {
		return
	}
	c.cancel()
	c.cancel = nil
	c.running = false
	// Bumping the generation orphans a timer fire that raced the cancel:
	// invoke sees a stale generation and discards it.
	c.gen++
	c.log.Debugw("poll_stopped", "owner", c.owner.String())
}

func (c *Controller) run(ctx context.Context, gen uint64, interval time.Duration, task Task) {
	c.invoke(ctx, gen, task)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.invoke(ctx, gen, task)
		}
	}
}

// invoke runs the task only while its generation is still the live one.
func (c *Controller) invoke(ctx context.Context, gen uint64, task Task) {
	c.mu.Lock()
	live := c.running && c.gen == gen
	c.mu.Unlock()
	if !live || ctx.Err() != nil {
		return
	}
	task(ctx)
}

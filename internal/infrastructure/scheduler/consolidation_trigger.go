package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConsolidationRunner finds and executes due consolidations
type ConsolidationRunner interface {
	DueConsolidationIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	Execute(ctx context.Context, id uuid.UUID) error
}

// NewConsolidationExecutor runs each job's consolidation through runner
func NewConsolidationExecutor(runner ConsolidationRunner) JobExecutor {
	return JobExecutorFunc(func(ctx context.Context, job *Job) error {
		return runner.Execute(ctx, job.ConsolidationID)
	})
}

// ConsolidationTrigger polls for due consolidations and submits one job per
// consolidation to the scheduler
type ConsolidationTrigger struct {
	interval  time.Duration
	runner    ConsolidationRunner
	scheduler *Scheduler
	logger    *zap.Logger
	now       func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewConsolidationTrigger creates a new trigger polling every interval
func NewConsolidationTrigger(interval time.Duration, runner ConsolidationRunner, scheduler *Scheduler, logger *zap.Logger) *ConsolidationTrigger {
	return &ConsolidationTrigger{
		interval:  interval,
		runner:    runner,
		scheduler: scheduler,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start starts the polling loop. The first poll happens immediately.
func (c *ConsolidationTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Consolidation trigger started", zap.Duration("interval", c.interval))
	return nil
}

// Stop stops the polling loop
func (c *ConsolidationTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Consolidation trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *ConsolidationTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Poll(ctx)
		}
	}
}

// Poll submits every due consolidation that is not already in flight and
// returns how many were submitted
func (c *ConsolidationTrigger) Poll(ctx context.Context) int {
	ids, err := c.runner.DueConsolidationIDs(ctx, c.now())
	if err != nil {
		c.logger.Error("Failed to find due consolidations", zap.Error(err))
		return 0
	}

	submitted := 0
	for _, id := range ids {
		err := c.scheduler.Submit(id)
		switch {
		case err == nil:
			submitted++
		case errors.Is(err, ErrJobAlreadyQueued):
		case errors.Is(err, ErrJobQueueFull):
			c.logger.Warn("Consolidation queue full, deferring to next poll",
				zap.Int("due", len(ids)),
			)
			return submitted
		default:
			c.logger.Error("Failed to submit consolidation",
				zap.String("consolidation_id", id.String()),
				zap.Error(err),
			)
		}
	}
	if submitted > 0 {
		c.logger.Info("Submitted due consolidations", zap.Int("count", submitted))
	}
	return submitted
}

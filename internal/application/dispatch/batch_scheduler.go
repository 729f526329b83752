package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/work4food-go/internal/application/common"
)

// BatchScheduler fires the batch processor at a fixed interval. The first
// tick happens one full window after Run starts, never immediately. Ticks
// do not overlap: when the processor is still busy at tick time, the tick
// is skipped and logged, not queued.
type BatchScheduler struct {
	processor *BatchProcessor
	interval  time.Duration
}

func NewBatchScheduler(processor *BatchProcessor) *BatchScheduler {
	return &BatchScheduler{
		processor: processor,
		interval:  processor.Window(),
	}
}

// Interval returns the tick period.
func (s *BatchScheduler) Interval() time.Duration {
	return s.interval
}

// Run blocks until ctx is cancelled, triggering the processor every
// interval. Each tick runs in its own goroutine so the loop keeps draining
// the ticker while a batch is in flight; the overdue tick then hits the
// processor's overlap guard and is logged as skipped. A failed tick is
// logged and the loop continues; persisted state is never left half-written
// because the processor aborts before its record on repository failure.
func (s *BatchScheduler) Run(ctx context.Context) error {
	logger := common.LoggerFromContext(ctx)
	logger.Log(common.LevelInfo, fmt.Sprintf("batch scheduler started (%s windows)", s.interval), nil)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var ticks sync.WaitGroup
	defer ticks.Wait()

	for {
		select {
		case <-ctx.Done():
			logger.Log(common.LevelInfo, "batch scheduler stopped", nil)
			return ctx.Err()
		case <-ticker.C:
			ticks.Add(1)
			go func() {
				defer ticks.Done()
				s.tick(ctx, logger)
			}()
		}
	}
}

func (s *BatchScheduler) tick(ctx context.Context, logger common.Logger) {
	result, err := s.processor.ProcessBatch(ctx)
	if err != nil {
		if errors.Is(err, ErrBatchInProgress) {
			logger.Log(common.LevelWarn, "skipping batch tick: previous tick still running", nil)
			return
		}
		logger.Log(common.LevelError, fmt.Sprintf("batch tick failed: %v", err), nil)
		return
	}
	if result.AlreadyProcessed {
		logger.Log(common.LevelWarn, fmt.Sprintf("batch %s already processed, nothing to do", result.BatchID), nil)
	}
}

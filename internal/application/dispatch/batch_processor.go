package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/work4food-go/internal/application/common"
	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/matching"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

// ErrBatchInProgress is returned when a tick is requested while the previous
// one is still running. The caller skips, never queues.
var ErrBatchInProgress = errors.New("batch processing already in progress")

// ProcessorConfig carries the window tunables the processor needs.
type ProcessorConfig struct {
	WindowMinutes       int
	CarryForwardPending bool
}

// BatchResult summarizes one processed window.
type BatchResult struct {
	BatchID           string
	WindowStart       time.Time
	WindowEnd         time.Time
	TotalOrders       int
	AssignedOrders    int
	AvailableCouriers int
	OmegaUsed         float64
	Conflicts         int

	// AlreadyProcessed is true when the window's record existed before this
	// invocation; no new writes happened.
	AlreadyProcessed bool
}

// MetricsRecorder receives batch outcomes. A nil recorder disables metrics.
type MetricsRecorder interface {
	RecordBatch(assigned, total int, omega float64, duration time.Duration)
}

// BatchProcessor orchestrates one assignment window: intake, roster,
// matching, commit, active-hours credit, predictor update, audit record.
// A mutex guarantees ticks never overlap; a tick arriving while one runs is
// rejected with ErrBatchInProgress.
type BatchProcessor struct {
	orders    order.Repository
	couriers  courier.Repository
	batches   dispatch.Repository
	engine    *matching.AssignmentEngine
	predictor *matching.GuaranteePredictor
	cfg       ProcessorConfig
	clock     shared.Clock
	metrics   MetricsRecorder

	mu sync.Mutex
}

// NewBatchProcessor wires the processor. The clock is optional and defaults
// to RealClock; metrics may be nil.
func NewBatchProcessor(
	orders order.Repository,
	couriers courier.Repository,
	batches dispatch.Repository,
	engine *matching.AssignmentEngine,
	predictor *matching.GuaranteePredictor,
	cfg ProcessorConfig,
	clock shared.Clock,
	metrics MetricsRecorder,
) *BatchProcessor {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &BatchProcessor{
		orders:    orders,
		couriers:  couriers,
		batches:   batches,
		engine:    engine,
		predictor: predictor,
		cfg:       cfg,
		clock:     clock,
		metrics:   metrics,
	}
}

// Window returns the configured batch window duration.
func (p *BatchProcessor) Window() time.Duration {
	return time.Duration(p.cfg.WindowMinutes) * time.Minute
}

// ProcessBatch runs one full window tick. Re-invocation on an already
// processed window returns the existing record's result without new writes.
// Repository failures before any write abort the tick; per-assignment
// conflicts are skipped and counted.
func (p *BatchProcessor) ProcessBatch(ctx context.Context) (*BatchResult, error) {
	if !p.mu.TryLock() {
		return nil, ErrBatchInProgress
	}
	defer p.mu.Unlock()

	logger := common.LoggerFromContext(ctx)
	started := p.clock.Now()

	windowEnd := started
	windowStart := windowEnd.Add(-p.Window())
	batchID := dispatch.BatchID(windowStart)

	// A window is processed exactly once.
	if existing, err := p.batches.FindBatchRecord(ctx, batchID); err != nil {
		return nil, fmt.Errorf("failed to check batch record: %w", err)
	} else if existing != nil {
		return &BatchResult{
			BatchID:          existing.BatchID,
			WindowStart:      existing.WindowStart,
			WindowEnd:        existing.WindowEnd,
			TotalOrders:      existing.TotalOrders,
			AssignedOrders:   existing.AssignedOrders,
			OmegaUsed:        existing.OmegaUsed,
			AlreadyProcessed: true,
		}, nil
	}

	pending, err := p.intake(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending orders: %w", err)
	}

	roster, err := p.couriers.Available(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read available couriers: %w", err)
	}

	omega := p.predictor.Predict()
	result := &BatchResult{
		BatchID:           batchID,
		WindowStart:       windowStart,
		WindowEnd:         windowEnd,
		TotalOrders:       len(pending),
		AvailableCouriers: len(roster),
		OmegaUsed:         omega,
	}

	// An empty roster still produces an audit record, but credits no active
	// hours and appends nothing to the predictor history.
	if len(roster) == 0 {
		if err := p.writeRecord(ctx, result); err != nil {
			return nil, err
		}
		logger.Log(common.LevelInfo, fmt.Sprintf("batch %s: no available couriers, %d orders stay pending", batchID, len(pending)), nil)
		p.record(result, started)
		return result, nil
	}

	pairs := p.engine.AssignBatch(roster, pending, omega)

	for _, pair := range pairs {
		err := p.batches.CommitAssignment(ctx, dispatch.Assignment{
			OrderID:        pair.Order.ID(),
			CourierID:      pair.Courier.ID(),
			BatchID:        batchID,
			At:             windowEnd,
			EstimatedHours: pair.EstimatedHours,
			Cost:           pair.Cost,
		})
		if err != nil {
			if shared.IsConflict(err) {
				// The entity moved under us; drop this pair, keep the tick.
				result.Conflicts++
				logger.Log(common.LevelWarn, fmt.Sprintf("batch %s: assignment conflict for order %s", batchID, pair.Order.ID()), map[string]interface{}{
					"order_id":   pair.Order.ID(),
					"courier_id": pair.Courier.ID(),
				})
				continue
			}
			return nil, fmt.Errorf("failed to commit assignment for order %s: %w", pair.Order.ID(), err)
		}
		result.AssignedOrders++
	}

	hours := p.Window().Minutes() / 60.0
	rosterIDs := make([]string, len(roster))
	for i, c := range roster {
		rosterIDs[i] = c.ID()
	}
	if err := p.couriers.BulkAddActiveHours(ctx, rosterIDs, hours); err != nil {
		return nil, fmt.Errorf("failed to credit active hours: %w", err)
	}

	// Predictor sees the post-credit roster aggregates.
	totalWork := 0.0
	totalActive := 0.0
	for _, c := range roster {
		c.CreditActiveHours(hours)
		totalWork += c.WorkHours()
		totalActive += c.ActiveHours()
	}
	p.predictor.Update(totalWork, totalActive)

	if err := p.writeRecord(ctx, result); err != nil {
		return nil, err
	}

	logger.Log(common.LevelInfo, fmt.Sprintf("batch %s: assigned %d/%d orders across %d couriers (omega %.4f)",
		batchID, result.AssignedOrders, result.TotalOrders, result.AvailableCouriers, omega), nil)

	p.record(result, started)
	return result, nil
}

func (p *BatchProcessor) intake(ctx context.Context, windowStart, windowEnd time.Time) ([]*order.Order, error) {
	if p.cfg.CarryForwardPending {
		return p.orders.PendingBefore(ctx, windowEnd)
	}
	return p.orders.PendingInWindow(ctx, windowStart, windowEnd)
}

func (p *BatchProcessor) writeRecord(ctx context.Context, result *BatchResult) error {
	record := dispatch.NewBatchRecord(
		result.WindowStart,
		result.WindowEnd,
		result.TotalOrders,
		result.AssignedOrders,
		result.OmegaUsed,
		p.clock,
	)
	if err := p.batches.AddBatchRecord(ctx, record); err != nil {
		return fmt.Errorf("failed to persist batch record: %w", err)
	}
	return nil
}

func (p *BatchProcessor) record(result *BatchResult, started time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordBatch(result.AssignedOrders, result.TotalOrders, result.OmegaUsed, p.clock.Now().Sub(started))
}

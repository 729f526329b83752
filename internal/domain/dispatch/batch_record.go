package dispatch

import (
	"fmt"
	"time"

	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

// batchIDLayout formats a window start into a batch identifier, e.g.
// batch_20260826_143000. One record exists per window; the ID is derived so
// re-processing the same window is detectable.
const batchIDLayout = "20060102_150405"

// BatchID derives the batch identifier from a window start time.
func BatchID(windowStart time.Time) string {
	return fmt.Sprintf("batch_%s", windowStart.UTC().Format(batchIDLayout))
}

// BatchRecord is the append-only audit row for one assignment window.
type BatchRecord struct {
	BatchID        string
	WindowStart    time.Time
	WindowEnd      time.Time
	TotalOrders    int
	AssignedOrders int
	OmegaUsed      float64
	CreatedAt      time.Time
}

// NewBatchRecord creates the record for a completed window.
func NewBatchRecord(windowStart, windowEnd time.Time, totalOrders, assignedOrders int, omegaUsed float64, clock shared.Clock) *BatchRecord {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &BatchRecord{
		BatchID:        BatchID(windowStart),
		WindowStart:    windowStart,
		WindowEnd:      windowEnd,
		TotalOrders:    totalOrders,
		AssignedOrders: assignedOrders,
		OmegaUsed:      omegaUsed,
		CreatedAt:      clock.Now(),
	}
}

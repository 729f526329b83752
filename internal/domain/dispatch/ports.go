package dispatch

import (
	"context"
	"time"
)

// Assignment is one committed (courier, order) pair from a batch window.
type Assignment struct {
	OrderID        string
	CourierID      string
	BatchID        string
	At             time.Time
	EstimatedHours float64
	Cost           float64
}

// Repository is the persistence port for batch processing. CommitAssignment
// spans the order and courier rows of one pair inside a single transaction;
// everything else is append-only batch bookkeeping.
type Repository interface {
	// CommitAssignment binds the order to the courier and flips the courier
	// to en_route. Re-execution with the same batch ID is a no-op; an order
	// already bound to a different batch is a shared.ConflictError.
	CommitAssignment(ctx context.Context, a Assignment) error

	// AddBatchRecord appends the window's audit row.
	AddBatchRecord(ctx context.Context, record *BatchRecord) error

	// FindBatchRecord returns the record for batchID, or nil when the window
	// has not been processed.
	FindBatchRecord(ctx context.Context, batchID string) (*BatchRecord, error)

	// RecentBatches returns up to limit records, newest first.
	RecentBatches(ctx context.Context, limit int) ([]*BatchRecord, error)
}

package courier

import (
	"context"
)

// Repository is the persistence port for couriers. Every write is atomic for
// a single courier row; status-changing writes use compare-and-set semantics
// and return a shared.ConflictError when the stored state no longer matches.
type Repository interface {
	// FindByID returns the courier or a shared.PreconditionError with reason
	// courier_not_found.
	FindByID(ctx context.Context, id string) (*Courier, error)

	// Available returns all couriers with status available, ordered by ID so
	// batch rosters are deterministic.
	Available(ctx context.Context) ([]*Courier, error)

	// Register persists a new courier created by the external user system.
	Register(ctx context.Context, c *Courier) error

	// UpdateStatus transitions id from one status to another. Zero rows
	// matched means the courier changed since read: conflict.
	UpdateStatus(ctx context.Context, id string, from, to Status) error

	// BulkAddActiveHours credits window presence to every listed courier.
	BulkAddActiveHours(ctx context.Context, ids []string, hours float64) error

	// ActiveInPeriod returns all couriers with active hours > 0, the payout
	// population for finalization.
	ActiveInPeriod(ctx context.Context) ([]*Courier, error)

	// SavePayout overwrites the courier's handout and total pay.
	SavePayout(ctx context.Context, id string, handout, totalPay float64) error
}

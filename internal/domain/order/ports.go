package order

import (
	"context"
	"time"
)

// Repository is the persistence port for orders. Status-changing writes use
// compare-and-set semantics: the update is conditioned on the status (and
// courier binding) observed at read time, and zero matched rows yields a
// shared.ConflictError.
type Repository interface {
	// FindByID returns the order or a shared.PreconditionError with reason
	// order_not_found.
	FindByID(ctx context.Context, id string) (*Order, error)

	// Create persists a new pending order arriving from the customer system.
	Create(ctx context.Context, o *Order) error

	// PendingInWindow returns pending orders with created_at in
	// [windowStart, windowEnd), ordered by creation time then ID.
	PendingInWindow(ctx context.Context, windowStart, windowEnd time.Time) ([]*Order, error)

	// PendingBefore returns all pending orders created before windowEnd,
	// the carry-forward intake variant.
	PendingBefore(ctx context.Context, windowEnd time.Time) ([]*Order, error)

	// MarkPickedUp transitions assigned → picked_up, conditioned on the
	// courier binding, and moves the courier en_route → delivering in the
	// same transaction. If either row fails its condition neither changes.
	MarkPickedUp(ctx context.Context, orderID, courierID string, at time.Time) error

	// MarkDelivered transitions picked_up → delivered, stores the reported
	// work hours, and settles the courier in the same transaction: back to
	// available with workHours and earnings credited. If either row fails
	// its condition neither changes.
	MarkDelivered(ctx context.Context, orderID, courierID string, at time.Time, actualWorkHours, earnings float64) error

	// Cancel transitions pending or assigned → cancelled and reports the
	// status the order held before cancellation.
	Cancel(ctx context.Context, orderID string) (Status, error)
}

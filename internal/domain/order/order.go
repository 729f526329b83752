package order

import (
	"time"

	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

// Status represents an order's position in its lifecycle. Transitions are
// strictly forward: pending → assigned → picked_up → delivered, with
// cancelled as a terminal branch from pending or assigned.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusPickedUp  Status = "picked_up"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Order is a customer order as the dispatch core sees it: two coordinates,
// a lifecycle status, and the bookkeeping the matcher and the payout need.
//
// Invariants:
// - an order leaves pending only by being selected in exactly one batch
// - assignedCourierID and batchID are set at assignment and never cleared
type Order struct {
	id                 string
	pickup             shared.Location
	dropoff            shared.Location
	status             Status
	assignedCourierID  string
	batchID            string
	estimatedWorkHours float64
	actualWorkHours    float64
	assignmentCost     float64
	createdAt          time.Time
	assignedAt         *time.Time
	pickedUpAt         *time.Time
	deliveredAt        *time.Time
}

// NewOrder creates a pending order. createdAt drives batch window intake.
func NewOrder(id string, pickup, dropoff shared.Location, createdAt time.Time) (*Order, error) {
	if id == "" {
		return nil, shared.NewValidationError("id", "order ID cannot be empty")
	}
	if createdAt.IsZero() {
		return nil, shared.NewValidationError("created_at", "order creation time cannot be zero")
	}
	return &Order{
		id:        id,
		pickup:    pickup,
		dropoff:   dropoff,
		status:    StatusPending,
		createdAt: createdAt,
	}, nil
}

// Rehydrate reconstructs an order from persisted state without validation.
// Intended for the persistence layer only.
func Rehydrate(
	id string,
	pickup, dropoff shared.Location,
	status Status,
	assignedCourierID, batchID string,
	estimatedWorkHours, actualWorkHours, assignmentCost float64,
	createdAt time.Time,
	assignedAt, pickedUpAt, deliveredAt *time.Time,
) *Order {
	return &Order{
		id:                 id,
		pickup:             pickup,
		dropoff:            dropoff,
		status:             status,
		assignedCourierID:  assignedCourierID,
		batchID:            batchID,
		estimatedWorkHours: estimatedWorkHours,
		actualWorkHours:    actualWorkHours,
		assignmentCost:     assignmentCost,
		createdAt:          createdAt,
		assignedAt:         assignedAt,
		pickedUpAt:         pickedUpAt,
		deliveredAt:        deliveredAt,
	}
}

func (o *Order) ID() string                  { return o.id }
func (o *Order) Pickup() shared.Location     { return o.pickup }
func (o *Order) Dropoff() shared.Location    { return o.dropoff }
func (o *Order) Status() Status              { return o.status }
func (o *Order) AssignedCourierID() string   { return o.assignedCourierID }
func (o *Order) BatchID() string             { return o.batchID }
func (o *Order) EstimatedWorkHours() float64 { return o.estimatedWorkHours }
func (o *Order) ActualWorkHours() float64    { return o.actualWorkHours }
func (o *Order) AssignmentCost() float64     { return o.assignmentCost }
func (o *Order) CreatedAt() time.Time        { return o.createdAt }
func (o *Order) AssignedAt() *time.Time      { return o.assignedAt }
func (o *Order) PickedUpAt() *time.Time      { return o.pickedUpAt }
func (o *Order) DeliveredAt() *time.Time     { return o.deliveredAt }

// IsPending reports whether the order is still waiting for a batch.
func (o *Order) IsPending() bool {
	return o.status == StatusPending
}

// IsTerminal reports whether the order can no longer change state.
func (o *Order) IsTerminal() bool {
	return o.status == StatusDelivered || o.status == StatusCancelled
}

// Assign binds the order to a courier within a batch window.
func (o *Order) Assign(courierID, batchID string, at time.Time, estimatedHours, cost float64) error {
	if o.status != StatusPending {
		return shared.NewPreconditionError(shared.ReasonWrongStatus,
			"cannot assign order %s from status %s", o.id, o.status)
	}
	o.status = StatusAssigned
	o.assignedCourierID = courierID
	o.batchID = batchID
	o.assignedAt = &at
	o.estimatedWorkHours = estimatedHours
	o.assignmentCost = cost
	return nil
}

// MarkPickedUp transitions assigned → picked_up for the assigned courier.
func (o *Order) MarkPickedUp(courierID string, at time.Time) error {
	if o.status != StatusAssigned {
		return shared.NewPreconditionError(shared.ReasonWrongStatus,
			"cannot pick up order %s from status %s", o.id, o.status)
	}
	if o.assignedCourierID != courierID {
		return shared.NewPreconditionError(shared.ReasonWrongCourier,
			"order %s is assigned to another courier", o.id)
	}
	o.status = StatusPickedUp
	o.pickedUpAt = &at
	return nil
}

// MarkDelivered transitions picked_up → delivered and records the courier's
// reported work hours.
func (o *Order) MarkDelivered(courierID string, at time.Time, actualWorkHours float64) error {
	if o.status != StatusPickedUp {
		return shared.NewPreconditionError(shared.ReasonWrongStatus,
			"cannot deliver order %s from status %s", o.id, o.status)
	}
	if o.assignedCourierID != courierID {
		return shared.NewPreconditionError(shared.ReasonWrongCourier,
			"order %s is assigned to another courier", o.id)
	}
	if actualWorkHours < 0 {
		return shared.NewPreconditionError(shared.ReasonNegativeHours,
			"actual work hours cannot be negative")
	}
	o.status = StatusDelivered
	o.deliveredAt = &at
	o.actualWorkHours = actualWorkHours
	return nil
}

// Cancel terminates the order from pending or assigned. The batch binding,
// if any, is preserved for audit.
func (o *Order) Cancel() error {
	if o.status != StatusPending && o.status != StatusAssigned {
		return shared.NewPreconditionError(shared.ReasonWrongStatus,
			"cannot cancel order %s from status %s", o.id, o.status)
	}
	o.status = StatusCancelled
	return nil
}

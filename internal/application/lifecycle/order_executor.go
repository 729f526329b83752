// Package lifecycle serves courier-driven order transitions. These handlers
// run concurrently with batch windows; every write goes through the
// repositories' compare-and-set updates, so a stale read surfaces as a
// conflict instead of a lost update.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/andrescamacho/work4food-go/internal/application/common"
	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

// ExecutorConfig carries the pay rate credited on delivery.
type ExecutorConfig struct {
	PayPerHour float64
}

// Result reports a lifecycle operation's outcome to the caller. Precondition
// failures are not errors: OK is false and Reason carries the code.
type Result struct {
	OK     bool
	Reason string
}

func ok() Result {
	return Result{OK: true}
}

func failed(reason string) Result {
	return Result{OK: false, Reason: reason}
}

// OrderExecutor applies accept/pickup/deliver/cancel transitions on behalf
// of an identified courier.
type OrderExecutor struct {
	orders   order.Repository
	couriers courier.Repository
	cfg      ExecutorConfig
}

func NewOrderExecutor(orders order.Repository, couriers courier.Repository, cfg ExecutorConfig) *OrderExecutor {
	return &OrderExecutor{
		orders:   orders,
		couriers: couriers,
		cfg:      cfg,
	}
}

// Accept acknowledges an assignment. The order stays assigned until pickup;
// the call only verifies the courier really holds the assignment.
func (e *OrderExecutor) Accept(ctx context.Context, orderID, courierID string) (Result, error) {
	o, err := e.orders.FindByID(ctx, orderID)
	if err != nil {
		return e.preconditionResult(err)
	}
	if o.Status() != order.StatusAssigned {
		return failed(shared.ReasonWrongStatus), nil
	}
	if o.AssignedCourierID() != courierID {
		return failed(shared.ReasonWrongCourier), nil
	}
	return ok(), nil
}

// Pickup transitions the order to picked_up and the courier to delivering.
func (e *OrderExecutor) Pickup(ctx context.Context, orderID, courierID string, clock shared.Clock) (Result, error) {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	logger := common.LoggerFromContext(ctx)

	o, err := e.orders.FindByID(ctx, orderID)
	if err != nil {
		return e.preconditionResult(err)
	}

	now := clock.Now()
	if err := o.MarkPickedUp(courierID, now); err != nil {
		return e.preconditionResult(err)
	}

	// One transactional write covers the order and the courier: a failed
	// pickup leaves both rows as they were.
	if err := e.orders.MarkPickedUp(ctx, orderID, courierID, now); err != nil {
		return e.writeResult(err)
	}

	logger.Log(common.LevelInfo, fmt.Sprintf("order %s picked up by courier %s", orderID, courierID), nil)
	return ok(), nil
}

// Deliver completes the order, credits the courier's work hours and
// earnings, and returns the courier to the available pool.
func (e *OrderExecutor) Deliver(ctx context.Context, orderID, courierID string, actualWorkHours float64, clock shared.Clock) (Result, error) {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	logger := common.LoggerFromContext(ctx)

	o, err := e.orders.FindByID(ctx, orderID)
	if err != nil {
		return e.preconditionResult(err)
	}

	now := clock.Now()
	if err := o.MarkDelivered(courierID, now, actualWorkHours); err != nil {
		return e.preconditionResult(err)
	}

	earnings := e.cfg.PayPerHour * actualWorkHours
	if err := e.orders.MarkDelivered(ctx, orderID, courierID, now, actualWorkHours, earnings); err != nil {
		return e.writeResult(err)
	}

	logger.Log(common.LevelInfo, fmt.Sprintf("order %s delivered by courier %s (%.3f work hours, %.2f earned)",
		orderID, courierID, actualWorkHours, earnings), nil)
	return ok(), nil
}

// Cancel terminates a pending or assigned order. Cancelling an assigned
// order releases its courier back to the available pool.
func (e *OrderExecutor) Cancel(ctx context.Context, orderID string) (Result, error) {
	logger := common.LoggerFromContext(ctx)

	o, err := e.orders.FindByID(ctx, orderID)
	if err != nil {
		return e.preconditionResult(err)
	}
	if o.IsTerminal() || o.Status() == order.StatusPickedUp {
		return failed(shared.ReasonWrongStatus), nil
	}

	previous, err := e.orders.Cancel(ctx, orderID)
	if err != nil {
		return e.writeResult(err)
	}

	if previous == order.StatusAssigned && o.AssignedCourierID() != "" {
		if err := e.couriers.UpdateStatus(ctx, o.AssignedCourierID(), courier.StatusEnRoute, courier.StatusAvailable); err != nil {
			// The courier may already have moved on; cancellation stands.
			if !shared.IsConflict(err) {
				return Result{}, err
			}
			logger.Log(common.LevelWarn, fmt.Sprintf("order %s cancelled but courier %s was not en_route", orderID, o.AssignedCourierID()), nil)
		}
	}

	logger.Log(common.LevelInfo, fmt.Sprintf("order %s cancelled (was %s)", orderID, previous), nil)
	return ok(), nil
}

// preconditionResult maps read/validation failures onto the boolean result
// contract: precondition violations are reported, other errors propagate.
func (e *OrderExecutor) preconditionResult(err error) (Result, error) {
	if shared.IsPrecondition(err) {
		return failed(shared.PreconditionReason(err)), nil
	}
	return Result{}, err
}

// writeResult maps repository write failures: a conflict means the state
// changed since read, surfaced as a precondition-style refusal.
func (e *OrderExecutor) writeResult(err error) (Result, error) {
	if err == nil {
		return ok(), nil
	}
	if shared.IsConflict(err) {
		return failed(shared.ReasonWrongStatus), nil
	}
	if shared.IsPrecondition(err) {
		return failed(shared.PreconditionReason(err)), nil
	}
	return Result{}, err
}

package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

// OrderRepositoryGORM implements order persistence using GORM. Lifecycle
// transitions are conditional updates on (status, assigned courier); zero
// matched rows surfaces as a conflict so callers never clobber a
// transition that raced ahead of them.
type OrderRepositoryGORM struct {
	db *gorm.DB
}

// NewOrderRepository creates a new GORM-based order repository.
func NewOrderRepository(db *gorm.DB) *OrderRepositoryGORM {
	return &OrderRepositoryGORM{db: db}
}

// FindByID retrieves an order by ID.
func (r *OrderRepositoryGORM) FindByID(ctx context.Context, id string) (*order.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewPreconditionError(shared.ReasonOrderNotFound, "order %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return orderFromModel(&model), nil
}

// Create persists a new pending order.
func (r *OrderRepositoryGORM) Create(ctx context.Context, o *order.Order) error {
	if err := r.db.WithContext(ctx).Create(orderToModel(o)).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// PendingInWindow retrieves pending orders created within [start, end),
// ordered by creation time then ID for deterministic batch intake.
func (r *OrderRepositoryGORM) PendingInWindow(ctx context.Context, windowStart, windowEnd time.Time) ([]*order.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at >= ? AND created_at < ?",
			string(order.StatusPending), windowStart, windowEnd).
		Order("created_at, id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending orders: %w", err)
	}
	return ordersFromModels(models), nil
}

// PendingBefore retrieves all pending orders created before windowEnd, the
// carry-forward intake variant.
func (r *OrderRepositoryGORM) PendingBefore(ctx context.Context, windowEnd time.Time) ([]*order.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(order.StatusPending), windowEnd).
		Order("created_at, id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending orders: %w", err)
	}
	return ordersFromModels(models), nil
}

// MarkPickedUp transitions assigned → picked_up for the bound courier and
// flips the courier en_route → delivering. Both rows move in one
// transaction; either conditional update matching zero rows rolls back the
// pair, so a failed pickup leaves nothing changed.
func (r *OrderRepositoryGORM) MarkPickedUp(ctx context.Context, orderID, courierID string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderUpdate := tx.Model(&OrderModel{}).
			Where("id = ? AND status = ? AND assigned_courier_id = ?",
				orderID, string(order.StatusAssigned), courierID).
			Updates(map[string]interface{}{
				"status":       string(order.StatusPickedUp),
				"picked_up_at": at,
			})
		if orderUpdate.Error != nil {
			return fmt.Errorf("failed to mark order picked up: %w", orderUpdate.Error)
		}
		if orderUpdate.RowsAffected == 0 {
			return shared.NewConflictError("order", orderID,
				"order %s is not assigned to courier %s", orderID, courierID)
		}

		courierUpdate := tx.Model(&CourierModel{}).
			Where("id = ? AND status = ?", courierID, string(courier.StatusEnRoute)).
			Update("status", string(courier.StatusDelivering))
		if courierUpdate.Error != nil {
			return fmt.Errorf("failed to update courier status: %w", courierUpdate.Error)
		}
		if courierUpdate.RowsAffected == 0 {
			return shared.NewConflictError("courier", courierID,
				"courier %s is not en_route", courierID)
		}
		return nil
	})
}

// MarkDelivered transitions picked_up → delivered for the bound courier,
// stores the reported work hours, and settles the courier in the same
// transaction: back to available with workHours and earnings credited.
func (r *OrderRepositoryGORM) MarkDelivered(ctx context.Context, orderID, courierID string, at time.Time, actualWorkHours, earnings float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderUpdate := tx.Model(&OrderModel{}).
			Where("id = ? AND status = ? AND assigned_courier_id = ?",
				orderID, string(order.StatusPickedUp), courierID).
			Updates(map[string]interface{}{
				"status":            string(order.StatusDelivered),
				"delivered_at":      at,
				"actual_work_hours": actualWorkHours,
			})
		if orderUpdate.Error != nil {
			return fmt.Errorf("failed to mark order delivered: %w", orderUpdate.Error)
		}
		if orderUpdate.RowsAffected == 0 {
			return shared.NewConflictError("order", orderID,
				"order %s is not picked up by courier %s", orderID, courierID)
		}

		courierUpdate := tx.Model(&CourierModel{}).
			Where("id = ? AND status = ?", courierID, string(courier.StatusDelivering)).
			Updates(map[string]interface{}{
				"status":     string(courier.StatusAvailable),
				"work_hours": gorm.Expr("work_hours + ?", actualWorkHours),
				"earnings":   gorm.Expr("earnings + ?", earnings),
			})
		if courierUpdate.Error != nil {
			return fmt.Errorf("failed to credit delivery: %w", courierUpdate.Error)
		}
		if courierUpdate.RowsAffected == 0 {
			return shared.NewConflictError("courier", courierID,
				"courier %s is not delivering", courierID)
		}
		return nil
	})
}

// Cancel transitions pending or assigned → cancelled and returns the status
// the order held before cancellation.
func (r *OrderRepositoryGORM) Cancel(ctx context.Context, orderID string) (order.Status, error) {
	var previous order.Status

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model OrderModel
		if err := tx.Where("id = ?", orderID).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NewPreconditionError(shared.ReasonOrderNotFound, "order %s not found", orderID)
			}
			return fmt.Errorf("failed to find order: %w", err)
		}

		previous = order.Status(model.Status)
		if previous != order.StatusPending && previous != order.StatusAssigned {
			return shared.NewPreconditionError(shared.ReasonWrongStatus,
				"cannot cancel order %s from status %s", orderID, previous)
		}

		result := tx.Model(&OrderModel{}).
			Where("id = ? AND status = ?", orderID, model.Status).
			Update("status", string(order.StatusCancelled))
		if result.Error != nil {
			return fmt.Errorf("failed to cancel order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NewConflictError("order", orderID,
				"order %s changed while cancelling", orderID)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return previous, nil
}

func ordersFromModels(models []OrderModel) []*order.Order {
	orders := make([]*order.Order, 0, len(models))
	for i := range models {
		orders = append(orders, orderFromModel(&models[i]))
	}
	return orders
}

package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

// BatchRepositoryGORM implements batch persistence: assignment commits that
// span one order row and one courier row in a transaction, and the
// append-only batch_records table.
type BatchRepositoryGORM struct {
	db *gorm.DB
}

// NewBatchRepository creates a new GORM-based batch repository.
func NewBatchRepository(db *gorm.DB) *BatchRepositoryGORM {
	return &BatchRepositoryGORM{db: db}
}

// CommitAssignment binds an order to a courier for one batch window.
// Re-executing a commit that already happened (same order, same batch) is a
// no-op; an order bound to a different batch is a conflict. Both the order
// and the courier update are conditional, and either failing rolls back the
// whole pair.
func (r *BatchRepositoryGORM) CommitAssignment(ctx context.Context, a dispatch.Assignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model OrderModel
		if err := tx.Where("id = ?", a.OrderID).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NewPreconditionError(shared.ReasonOrderNotFound, "order %s not found", a.OrderID)
			}
			return fmt.Errorf("failed to find order: %w", err)
		}

		switch order.Status(model.Status) {
		case order.StatusAssigned:
			if model.BatchID == a.BatchID {
				// Same window re-executed; the commit already happened.
				return nil
			}
			return shared.NewConflictError("order", a.OrderID,
				"order %s already assigned in batch %s", a.OrderID, model.BatchID)
		case order.StatusPending:
			// Proceed.
		default:
			return shared.NewConflictError("order", a.OrderID,
				"order %s left pending (now %s)", a.OrderID, model.Status)
		}

		orderUpdate := tx.Model(&OrderModel{}).
			Where("id = ? AND status = ?", a.OrderID, string(order.StatusPending)).
			Updates(map[string]interface{}{
				"status":               string(order.StatusAssigned),
				"assigned_courier_id":  a.CourierID,
				"batch_id":             a.BatchID,
				"assigned_at":          a.At,
				"estimated_work_hours": a.EstimatedHours,
				"assignment_cost":      a.Cost,
			})
		if orderUpdate.Error != nil {
			return fmt.Errorf("failed to assign order: %w", orderUpdate.Error)
		}
		if orderUpdate.RowsAffected == 0 {
			return shared.NewConflictError("order", a.OrderID,
				"order %s changed while assigning", a.OrderID)
		}

		courierUpdate := tx.Model(&CourierModel{}).
			Where("id = ? AND status = ?", a.CourierID, string(courier.StatusAvailable)).
			Update("status", string(courier.StatusEnRoute))
		if courierUpdate.Error != nil {
			return fmt.Errorf("failed to dispatch courier: %w", courierUpdate.Error)
		}
		if courierUpdate.RowsAffected == 0 {
			return shared.NewConflictError("courier", a.CourierID,
				"courier %s is no longer available", a.CourierID)
		}

		return nil
	})
}

// AddBatchRecord appends the window's audit row.
func (r *BatchRepositoryGORM) AddBatchRecord(ctx context.Context, record *dispatch.BatchRecord) error {
	if err := r.db.WithContext(ctx).Create(batchRecordToModel(record)).Error; err != nil {
		return fmt.Errorf("failed to add batch record: %w", err)
	}
	return nil
}

// FindBatchRecord returns the record for batchID, or nil when absent.
func (r *BatchRepositoryGORM) FindBatchRecord(ctx context.Context, batchID string) (*dispatch.BatchRecord, error) {
	var model BatchRecordModel
	err := r.db.WithContext(ctx).Where("batch_id = ?", batchID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find batch record: %w", err)
	}
	return batchRecordFromModel(&model), nil
}

// RecentBatches returns up to limit records, newest first.
func (r *BatchRepositoryGORM) RecentBatches(ctx context.Context, limit int) ([]*dispatch.BatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []BatchRecordModel
	err := r.db.WithContext(ctx).
		Order("window_start DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list batch records: %w", err)
	}

	records := make([]*dispatch.BatchRecord, 0, len(models))
	for i := range models {
		records = append(records, batchRecordFromModel(&models[i]))
	}
	return records, nil
}

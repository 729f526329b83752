package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

// CourierRepositoryGORM implements courier persistence using GORM. Status
// transitions are conditional updates checked by rows affected, which gives
// the compare-and-set behavior the dispatch core relies on.
type CourierRepositoryGORM struct {
	db *gorm.DB
}

// NewCourierRepository creates a new GORM-based courier repository.
func NewCourierRepository(db *gorm.DB) *CourierRepositoryGORM {
	return &CourierRepositoryGORM{db: db}
}

// FindByID retrieves a courier by ID.
func (r *CourierRepositoryGORM) FindByID(ctx context.Context, id string) (*courier.Courier, error) {
	var model CourierModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewPreconditionError(shared.ReasonCourierNotFound, "courier %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find courier: %w", err)
	}
	return courierFromModel(&model), nil
}

// Available retrieves all available couriers ordered by ID.
func (r *CourierRepositoryGORM) Available(ctx context.Context) ([]*courier.Courier, error) {
	var models []CourierModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(courier.StatusAvailable)).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find available couriers: %w", err)
	}

	couriers := make([]*courier.Courier, 0, len(models))
	for i := range models {
		couriers = append(couriers, courierFromModel(&models[i]))
	}
	return couriers, nil
}

// Register persists a new courier.
func (r *CourierRepositoryGORM) Register(ctx context.Context, c *courier.Courier) error {
	if err := r.db.WithContext(ctx).Create(courierToModel(c)).Error; err != nil {
		return fmt.Errorf("failed to register courier: %w", err)
	}
	return nil
}

// UpdateStatus transitions a courier between statuses with a conditional
// update. Zero matched rows means the stored status no longer equals from.
func (r *CourierRepositoryGORM) UpdateStatus(ctx context.Context, id string, from, to courier.Status) error {
	result := r.db.WithContext(ctx).
		Model(&CourierModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return fmt.Errorf("failed to update courier status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("courier", id,
			"courier %s is no longer %s", id, from)
	}
	return nil
}

// BulkAddActiveHours credits window presence to every listed courier.
func (r *CourierRepositoryGORM) BulkAddActiveHours(ctx context.Context, ids []string, hours float64) error {
	if len(ids) == 0 || hours <= 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&CourierModel{}).
		Where("id IN ?", ids).
		Update("active_hours", gorm.Expr("active_hours + ?", hours)).Error
	if err != nil {
		return fmt.Errorf("failed to add active hours: %w", err)
	}
	return nil
}

// ActiveInPeriod retrieves every courier with active hours, the payout
// population for finalization.
func (r *CourierRepositoryGORM) ActiveInPeriod(ctx context.Context) ([]*courier.Courier, error) {
	var models []CourierModel
	err := r.db.WithContext(ctx).
		Where("active_hours > 0").
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find active couriers: %w", err)
	}

	couriers := make([]*courier.Courier, 0, len(models))
	for i := range models {
		couriers = append(couriers, courierFromModel(&models[i]))
	}
	return couriers, nil
}

// SavePayout overwrites the courier's handout and total pay. Finalization
// recomputes both, so this write is idempotent.
func (r *CourierRepositoryGORM) SavePayout(ctx context.Context, id string, handout, totalPay float64) error {
	result := r.db.WithContext(ctx).
		Model(&CourierModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"handout":   handout,
			"total_pay": totalPay,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save payout: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewPreconditionError(shared.ReasonCourierNotFound, "courier %s not found", id)
	}
	return nil
}

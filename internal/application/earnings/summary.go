// Package earnings provides read-side pay queries: what a courier has earned
// so far and what the platform would owe if the period closed now.
package earnings

import (
	"context"
	"fmt"

	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/matching"
)

// CourierSummary is the projected settlement for one courier at the current
// guarantee ratio. Nothing is persisted; finalization owns the real payout.
type CourierSummary struct {
	CourierID        string
	Status           courier.Status
	WorkHours        float64
	ActiveHours      float64
	Earnings         float64
	Omega            float64
	GuaranteedHours  float64
	ProjectedHandout float64
	ProjectedPay     float64
	EffectiveWage    float64
}

// PlatformSummary aggregates projected cost over all active couriers.
type PlatformSummary struct {
	Couriers         int
	TotalWorkHours   float64
	TotalActiveHours float64
	TotalEarnings    float64
	ProjectedHandout float64
	ProjectedCost    float64
	Omega            float64
}

// Service answers earnings queries against the courier repository and the
// live guarantee predictor.
type Service struct {
	couriers   courier.Repository
	predictor  *matching.GuaranteePredictor
	payPerHour float64
}

func NewService(couriers courier.Repository, predictor *matching.GuaranteePredictor, payPerHour float64) *Service {
	return &Service{
		couriers:   couriers,
		predictor:  predictor,
		payPerHour: payPerHour,
	}
}

// CourierSummary projects the settlement for one courier.
func (s *Service) CourierSummary(ctx context.Context, courierID string) (*CourierSummary, error) {
	c, err := s.couriers.FindByID(ctx, courierID)
	if err != nil {
		return nil, fmt.Errorf("failed to load courier %s: %w", courierID, err)
	}

	omega := s.predictor.Predict()
	handout := s.payPerHour * c.Shortfall(omega)
	projected := c.Earnings() + handout

	summary := &CourierSummary{
		CourierID:        c.ID(),
		Status:           c.Status(),
		WorkHours:        c.WorkHours(),
		ActiveHours:      c.ActiveHours(),
		Earnings:         c.Earnings(),
		Omega:            omega,
		GuaranteedHours:  c.GuaranteedHours(omega),
		ProjectedHandout: handout,
		ProjectedPay:     projected,
	}
	if c.ActiveHours() > 0 {
		summary.EffectiveWage = projected / c.ActiveHours()
	}
	return summary, nil
}

// PlatformSummary projects total platform cost over all couriers with
// active hours in the period.
func (s *Service) PlatformSummary(ctx context.Context) (*PlatformSummary, error) {
	active, err := s.couriers.ActiveInPeriod(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active couriers: %w", err)
	}

	omega := s.predictor.Predict()
	summary := &PlatformSummary{Omega: omega}
	for _, c := range active {
		handout := s.payPerHour * c.Shortfall(omega)
		summary.Couriers++
		summary.TotalWorkHours += c.WorkHours()
		summary.TotalActiveHours += c.ActiveHours()
		summary.TotalEarnings += c.Earnings()
		summary.ProjectedHandout += handout
	}
	summary.ProjectedCost = summary.TotalEarnings + summary.ProjectedHandout
	return summary, nil
}

package dispatch

import (
	"context"
	"fmt"

	"github.com/andrescamacho/work4food-go/internal/application/common"
	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/matching"
)

// FinalizerConfig carries the pay parameters for end-of-period settlement.
type FinalizerConfig struct {
	PayPerHour float64
	MinWage    float64
}

// CourierPayout is the per-courier settlement line.
type CourierPayout struct {
	CourierID        string
	WorkHours        float64
	ActiveHours      float64
	Earnings         float64
	Shortfall        float64
	Handout          float64
	TotalPay         float64
	EffectiveWage    float64
	MinWageViolation bool
}

// PaymentSummary aggregates one finalization pass.
type PaymentSummary struct {
	Couriers          int
	TotalEarnings     float64
	TotalHandouts     float64
	PlatformCost      float64
	MinWageViolations int
	OmegaFinal        float64
	Payouts           []CourierPayout
}

// PaymentFinalizer computes end-of-period handouts from each courier's
// accumulated (work, active, earnings). Handouts are recomputed from scratch
// on every call, so finalization is idempotent.
type PaymentFinalizer struct {
	couriers  courier.Repository
	predictor *matching.GuaranteePredictor
	cfg       FinalizerConfig
}

func NewPaymentFinalizer(couriers courier.Repository, predictor *matching.GuaranteePredictor, cfg FinalizerConfig) *PaymentFinalizer {
	return &PaymentFinalizer{
		couriers:  couriers,
		predictor: predictor,
		cfg:       cfg,
	}
}

// Finalize settles every courier with active hours. omegaFinal overrides the
// predictor's current estimate when non-nil. Any repository error aborts the
// pass; nothing is computed on partial data.
func (f *PaymentFinalizer) Finalize(ctx context.Context, omegaFinal *float64) (*PaymentSummary, error) {
	logger := common.LoggerFromContext(ctx)

	omega := f.predictor.Predict()
	if omegaFinal != nil {
		omega = *omegaFinal
	}

	active, err := f.couriers.ActiveInPeriod(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read active couriers: %w", err)
	}

	summary := &PaymentSummary{
		OmegaFinal: omega,
		Payouts:    make([]CourierPayout, 0, len(active)),
	}

	for _, c := range active {
		shortfall := c.Shortfall(omega)
		handout := f.cfg.PayPerHour * shortfall
		totalPay := c.Earnings() + handout
		effectiveWage := totalPay / c.ActiveHours()

		if err := f.couriers.SavePayout(ctx, c.ID(), handout, totalPay); err != nil {
			return nil, fmt.Errorf("failed to save payout for courier %s: %w", c.ID(), err)
		}

		payout := CourierPayout{
			CourierID:        c.ID(),
			WorkHours:        c.WorkHours(),
			ActiveHours:      c.ActiveHours(),
			Earnings:         c.Earnings(),
			Shortfall:        shortfall,
			Handout:          handout,
			TotalPay:         totalPay,
			EffectiveWage:    effectiveWage,
			MinWageViolation: effectiveWage < f.cfg.MinWage,
		}
		if payout.MinWageViolation {
			summary.MinWageViolations++
		}

		summary.Couriers++
		summary.TotalEarnings += c.Earnings()
		summary.TotalHandouts += handout
		summary.Payouts = append(summary.Payouts, payout)
	}
	summary.PlatformCost = summary.TotalEarnings + summary.TotalHandouts

	logger.Log(common.LevelInfo, fmt.Sprintf("finalized payments for %d couriers: earnings %.2f, handouts %.2f, violations %d (omega %.4f)",
		summary.Couriers, summary.TotalEarnings, summary.TotalHandouts, summary.MinWageViolations, omega), nil)

	return summary, nil
}

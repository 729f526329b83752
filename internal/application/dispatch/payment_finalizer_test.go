package dispatch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/work4food-go/internal/adapters/persistence"
	appdispatch "github.com/andrescamacho/work4food-go/internal/application/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/matching"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
	"github.com/andrescamacho/work4food-go/test/helpers"
)

func newFinalizerFixture(t *testing.T) (*persistence.CourierRepositoryGORM, *appdispatch.PaymentFinalizer) {
	db := helpers.NewTestDB(t)
	couriers := persistence.NewCourierRepository(db)

	predictor, err := matching.NewGuaranteePredictor(matching.DefaultPredictorConfig())
	require.NoError(t, err)

	finalizer := appdispatch.NewPaymentFinalizer(couriers, predictor,
		appdispatch.FinalizerConfig{PayPerHour: 100, MinWage: 80})
	return couriers, finalizer
}

func registerWithHours(t *testing.T, repo *persistence.CourierRepositoryGORM, id string, work, active, earnings float64) {
	c := courier.Rehydrate(id, shared.Location{Lat: 12.97, Lon: 77.59},
		courier.StatusAvailable, work, active, earnings, 0, 0, 0)
	require.NoError(t, repo.Register(context.Background(), c))
}

func TestPaymentFinalizer_ShortfallHandout(t *testing.T) {
	couriers, finalizer := newFinalizerFixture(t)

	// G = 0.25*2 = 0.5, shortfall 0.3, handout 30
	registerWithHours(t, couriers, "under", 0.2, 2.0, 20)
	// G = 0.5 < W, no handout
	registerWithHours(t, couriers, "over", 3.0, 2.0, 300)

	omega := 0.25
	summary, err := finalizer.Finalize(context.Background(), &omega)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Couriers)
	assert.Equal(t, 0.25, summary.OmegaFinal)
	assert.InDelta(t, 320, summary.TotalEarnings, 1e-9)
	assert.InDelta(t, 30, summary.TotalHandouts, 1e-9)
	assert.InDelta(t, 350, summary.PlatformCost, 1e-9)

	byID := map[string]appdispatch.CourierPayout{}
	for _, p := range summary.Payouts {
		byID[p.CourierID] = p
	}

	under := byID["under"]
	assert.InDelta(t, 0.3, under.Shortfall, 1e-9)
	assert.InDelta(t, 30, under.Handout, 1e-9)
	assert.InDelta(t, 50, under.TotalPay, 1e-9)
	assert.InDelta(t, 25, under.EffectiveWage, 1e-9)
	assert.True(t, under.MinWageViolation)

	over := byID["over"]
	assert.Zero(t, over.Shortfall)
	assert.Zero(t, over.Handout)
	assert.InDelta(t, 150, over.EffectiveWage, 1e-9)
	assert.False(t, over.MinWageViolation)

	assert.Equal(t, 1, summary.MinWageViolations)
}

func TestPaymentFinalizer_UsesPredictorWithoutOverride(t *testing.T) {
	couriers, finalizer := newFinalizerFixture(t)
	registerWithHours(t, couriers, "c1", 0, 2.0, 0)

	summary, err := finalizer.Finalize(context.Background(), nil)
	require.NoError(t, err)

	// Fresh predictor: omega 0.25, G = 0.5, handout 50
	assert.InDelta(t, 0.25, summary.OmegaFinal, 1e-9)
	assert.InDelta(t, 50, summary.TotalHandouts, 1e-9)
}

func TestPaymentFinalizer_IgnoresInactiveCouriers(t *testing.T) {
	couriers, finalizer := newFinalizerFixture(t)
	registerWithHours(t, couriers, "idle", 0, 0, 0)

	summary, err := finalizer.Finalize(context.Background(), nil)
	require.NoError(t, err)

	assert.Zero(t, summary.Couriers)
	assert.Empty(t, summary.Payouts)
}

func TestPaymentFinalizer_Idempotent(t *testing.T) {
	couriers, finalizer := newFinalizerFixture(t)
	registerWithHours(t, couriers, "c1", 0.2, 2.0, 20)

	omega := 0.25
	first, err := finalizer.Finalize(context.Background(), &omega)
	require.NoError(t, err)
	second, err := finalizer.Finalize(context.Background(), &omega)
	require.NoError(t, err)

	// Handouts are recomputed, not accumulated
	assert.InDelta(t, first.TotalHandouts, second.TotalHandouts, 1e-9)

	c, err := couriers.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.InDelta(t, 30, c.Handout(), 1e-9)
	assert.InDelta(t, 50, c.TotalPay(), 1e-9)
}

package courier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

func newCourier(t *testing.T) *courier.Courier {
	c, err := courier.NewCourier("c1", shared.Location{Lat: 12.97, Lon: 77.59}, 0)
	require.NoError(t, err)
	return c
}

func TestNewCourier(t *testing.T) {
	c := newCourier(t)

	assert.Equal(t, "c1", c.ID())
	assert.Equal(t, courier.StatusAvailable, c.Status())
	assert.True(t, c.IsAvailable())
	assert.Zero(t, c.WorkHours())
	assert.Zero(t, c.ActiveHours())
}

func TestNewCourier_Invalid(t *testing.T) {
	_, err := courier.NewCourier("", shared.Location{}, 0)
	assert.Error(t, err)

	_, err = courier.NewCourier("c1", shared.Location{}, -5)
	assert.Error(t, err)
}

func TestCourier_EffectiveSpeed(t *testing.T) {
	slow, err := courier.NewCourier("c1", shared.Location{}, 18)
	require.NoError(t, err)
	assert.Equal(t, 18.0, slow.EffectiveSpeed(25))

	noSpeed := newCourier(t)
	assert.Equal(t, 25.0, noSpeed.EffectiveSpeed(25))
}

func TestCourier_DeliveryCycle(t *testing.T) {
	c := newCourier(t)

	require.NoError(t, c.Dispatch())
	assert.Equal(t, courier.StatusEnRoute, c.Status())
	assert.False(t, c.IsAvailable())

	require.NoError(t, c.BeginDelivery())
	assert.Equal(t, courier.StatusDelivering, c.Status())

	require.NoError(t, c.CompleteDelivery(0.5, 100))
	assert.Equal(t, courier.StatusAvailable, c.Status())
	assert.Equal(t, 0.5, c.WorkHours())
	assert.Equal(t, 50.0, c.Earnings())
}

func TestCourier_InvalidTransitions(t *testing.T) {
	c := newCourier(t)

	// Cannot begin or complete a delivery without being dispatched
	assert.Error(t, c.BeginDelivery())
	assert.Error(t, c.CompleteDelivery(0.5, 100))

	require.NoError(t, c.Dispatch())
	// Cannot be dispatched twice
	assert.Error(t, c.Dispatch())
}

func TestCourier_Release(t *testing.T) {
	c := newCourier(t)
	require.NoError(t, c.Dispatch())

	require.NoError(t, c.Release())
	assert.Equal(t, courier.StatusAvailable, c.Status())

	// Release only applies to en_route couriers
	assert.Error(t, c.Release())
}

func TestCourier_GuaranteeAccounting(t *testing.T) {
	c := newCourier(t)
	c.CreditActiveHours(2.0)

	// G = omega * A
	assert.InDelta(t, 0.5, c.GuaranteedHours(0.25), 1e-9)

	// No work yet: shortfall equals the full guarantee
	assert.InDelta(t, 0.5, c.Shortfall(0.25), 1e-9)

	// Work above the guarantee leaves no shortfall
	require.NoError(t, c.Dispatch())
	require.NoError(t, c.BeginDelivery())
	require.NoError(t, c.CompleteDelivery(0.8, 100))
	assert.InDelta(t, 0, c.Shortfall(0.25), 1e-9)
}

func TestCourier_ApplyPayout(t *testing.T) {
	c := newCourier(t)
	c.CreditActiveHours(2.0)

	require.NoError(t, c.Dispatch())
	require.NoError(t, c.BeginDelivery())
	require.NoError(t, c.CompleteDelivery(0.3, 100))

	// Shortfall 0.2 h at 100/h
	handout := c.Shortfall(0.25) * 100
	c.ApplyPayout(handout)

	assert.InDelta(t, 20.0, c.Handout(), 1e-9)
	assert.InDelta(t, 50.0, c.TotalPay(), 1e-9)
}

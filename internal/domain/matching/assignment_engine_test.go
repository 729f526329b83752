package matching_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/matching"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

func newEngine() *matching.AssignmentEngine {
	return matching.NewAssignmentEngine(dispatch.NewWorkEstimator(8, 25))
}

func courierAt(t *testing.T, id string, lat, lon float64) *courier.Courier {
	c, err := courier.NewCourier(id, shared.Location{Lat: lat, Lon: lon}, 0)
	require.NoError(t, err)
	return c
}

func orderAt(t *testing.T, id string, lat, lon float64) *order.Order {
	o, err := order.NewOrder(id,
		shared.Location{Lat: lat, Lon: lon},
		shared.Location{Lat: lat + 0.01, Lon: lon + 0.01},
		time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return o
}

func TestAssignBatch_EmptySides(t *testing.T) {
	engine := newEngine()

	assert.Nil(t, engine.AssignBatch(nil, []*order.Order{orderAt(t, "o1", 12.97, 77.59)}, 0.25))
	assert.Nil(t, engine.AssignBatch([]*courier.Courier{courierAt(t, "c1", 12.97, 77.59)}, nil, 0.25))
}

func TestAssignBatch_ClosestCourierWins(t *testing.T) {
	engine := newEngine()
	near := courierAt(t, "near", 12.970, 77.590)
	far := courierAt(t, "far", 12.800, 77.800)
	o := orderAt(t, "o1", 12.971, 77.591)

	pairs := engine.AssignBatch([]*courier.Courier{far, near}, []*order.Order{o}, 0.25)

	require.Len(t, pairs, 1)
	assert.Equal(t, "near", pairs[0].Courier.ID())
	assert.Equal(t, "o1", pairs[0].Order.ID())
	assert.Greater(t, pairs[0].EstimatedHours, 0.0)
}

func TestAssignBatch_MoreOrdersThanCouriers(t *testing.T) {
	engine := newEngine()
	couriers := []*courier.Courier{courierAt(t, "c1", 12.97, 77.59)}
	orders := []*order.Order{
		orderAt(t, "o1", 12.971, 77.591),
		orderAt(t, "o2", 12.99, 77.62),
		orderAt(t, "o3", 13.05, 77.70),
	}

	pairs := engine.AssignBatch(couriers, orders, 0.25)

	// One courier serves one order; the rest stay pending
	require.Len(t, pairs, 1)
	assert.Equal(t, "c1", pairs[0].Courier.ID())
}

func TestAssignBatch_MoreCouriersThanOrders(t *testing.T) {
	engine := newEngine()
	couriers := []*courier.Courier{
		courierAt(t, "c1", 12.97, 77.59),
		courierAt(t, "c2", 12.98, 77.60),
		courierAt(t, "c3", 12.99, 77.61),
	}
	orders := []*order.Order{orderAt(t, "o1", 12.971, 77.591)}

	pairs := engine.AssignBatch(couriers, orders, 0.25)

	require.Len(t, pairs, 1)
}

func TestAssignBatch_PrefersUnderGuaranteeCourier(t *testing.T) {
	engine := newEngine()

	// "covered" has already worked past its guarantee; "owed" is far under
	// it, so its discounted cost is zero and it wins despite equal distance.
	covered := courier.Rehydrate("covered", shared.Location{Lat: 12.97, Lon: 77.59},
		courier.StatusAvailable, 3.0, 4.0, 0, 0, 0, 0)
	owed := courier.Rehydrate("owed", shared.Location{Lat: 12.97, Lon: 77.59},
		courier.StatusAvailable, 0.0, 4.0, 0, 0, 0, 0)
	o := orderAt(t, "o1", 12.971, 77.591)

	pairs := engine.AssignBatch([]*courier.Courier{covered, owed}, []*order.Order{o}, 0.5)

	require.Len(t, pairs, 1)
	assert.Equal(t, "owed", pairs[0].Courier.ID())
	assert.InDelta(t, 0, pairs[0].Cost, 1e-9)
}

func TestAssignBatch_EachSideMatchedAtMostOnce(t *testing.T) {
	engine := newEngine()
	couriers := []*courier.Courier{
		courierAt(t, "c1", 12.97, 77.59),
		courierAt(t, "c2", 12.98, 77.60),
	}
	orders := []*order.Order{
		orderAt(t, "o1", 12.971, 77.591),
		orderAt(t, "o2", 12.981, 77.601),
	}

	pairs := engine.AssignBatch(couriers, orders, 0.25)

	require.Len(t, pairs, 2)
	seenCouriers := map[string]bool{}
	seenOrders := map[string]bool{}
	for _, p := range pairs {
		assert.False(t, seenCouriers[p.Courier.ID()])
		assert.False(t, seenOrders[p.Order.ID()])
		seenCouriers[p.Courier.ID()] = true
		seenOrders[p.Order.ID()] = true
	}
}

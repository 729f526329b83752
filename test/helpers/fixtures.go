package helpers

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

// FixedTime is the reference instant used by time-sensitive tests,
// 2025-06-15 12:00:00 UTC.
var FixedTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// NewFixedClock returns a mock clock pinned to FixedTime
func NewFixedClock() *shared.MockClock {
	return shared.NewMockClock(FixedTime)
}

// NewTestCourier builds an available courier at the given location.
// An empty id generates one.
func NewTestCourier(t *testing.T, id string, lat, lon float64) *courier.Courier {
	if id == "" {
		id = "courier-" + uuid.NewString()[:8]
	}
	c, err := courier.NewCourier(id, shared.Location{Lat: lat, Lon: lon}, 0)
	if err != nil {
		t.Fatalf("failed to build test courier: %v", err)
	}
	return c
}

// NewTestOrder builds a pending order created at FixedTime.
// An empty id generates one.
func NewTestOrder(t *testing.T, id string, pickupLat, pickupLon, dropoffLat, dropoffLon float64) *order.Order {
	if id == "" {
		id = "order-" + uuid.NewString()[:8]
	}
	o, err := order.NewOrder(id,
		shared.Location{Lat: pickupLat, Lon: pickupLon},
		shared.Location{Lat: dropoffLat, Lon: dropoffLon},
		FixedTime)
	if err != nil {
		t.Fatalf("failed to build test order: %v", err)
	}
	return o
}

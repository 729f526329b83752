package dispatch

import (
	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
)

// WorkEstimator computes the estimated work hours for a courier to complete
// an order: travel to pickup, restaurant prep time, travel to dropoff.
// Per-courier speed is authoritative, falling back to the platform speed.
type WorkEstimator struct {
	prepTimeMinutes  float64
	defaultSpeedKmph float64
}

func NewWorkEstimator(prepTimeMinutes, defaultSpeedKmph float64) *WorkEstimator {
	return &WorkEstimator{
		prepTimeMinutes:  prepTimeMinutes,
		defaultSpeedKmph: defaultSpeedKmph,
	}
}

// EstimateHours returns (to-pickup + prep + to-dropoff) / 60 in hours.
func (e *WorkEstimator) EstimateHours(c *courier.Courier, o *order.Order) float64 {
	speed := c.EffectiveSpeed(e.defaultSpeedKmph)
	toPickup := c.Location().TravelTimeMinutes(o.Pickup(), speed)
	toDropoff := o.Pickup().TravelTimeMinutes(o.Dropoff(), speed)
	return (toPickup + e.prepTimeMinutes + toDropoff) / 60.0
}

package courier

import (
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

// Status represents a courier's availability state.
type Status string

const (
	// StatusAvailable means the courier is logged in and waiting for work.
	StatusAvailable Status = "available"

	// StatusEnRoute means the courier has an assignment and is heading to pickup.
	StatusEnRoute Status = "en_route"

	// StatusDelivering means the courier has picked up and is heading to dropoff.
	StatusDelivering Status = "delivering"

	// StatusOffline means the courier is logged out and never rostered.
	StatusOffline Status = "offline"
)

// Courier is the dispatch view of a delivery worker. The account itself is
// owned by the external user system; the core reads and mutates only the
// fields below.
//
// Invariants:
// - workHours, activeHours, earnings, and handout never decrease within a pay period
// - status transitions go through Dispatch/BeginDelivery/CompleteDelivery/Release only
type Courier struct {
	id          string
	location    shared.Location
	status      Status
	workHours   float64
	activeHours float64
	earnings    float64
	handout     float64
	totalPay    float64
	speedKmph   float64
}

// NewCourier creates an available courier at the given location. speedKmph
// may be zero, in which case the platform-wide speed applies.
func NewCourier(id string, location shared.Location, speedKmph float64) (*Courier, error) {
	if id == "" {
		return nil, shared.NewValidationError("id", "courier ID cannot be empty")
	}
	if speedKmph < 0 {
		return nil, shared.NewValidationError("speed_kmph", "courier speed cannot be negative")
	}
	return &Courier{
		id:        id,
		location:  location,
		status:    StatusAvailable,
		speedKmph: speedKmph,
	}, nil
}

// Rehydrate reconstructs a courier from persisted state without validation.
// Intended for the persistence layer only.
func Rehydrate(
	id string,
	location shared.Location,
	status Status,
	workHours, activeHours, earnings, handout, totalPay, speedKmph float64,
) *Courier {
	return &Courier{
		id:          id,
		location:    location,
		status:      status,
		workHours:   workHours,
		activeHours: activeHours,
		earnings:    earnings,
		handout:     handout,
		totalPay:    totalPay,
		speedKmph:   speedKmph,
	}
}

func (c *Courier) ID() string                { return c.id }
func (c *Courier) Location() shared.Location { return c.location }
func (c *Courier) Status() Status            { return c.status }
func (c *Courier) WorkHours() float64        { return c.workHours }
func (c *Courier) ActiveHours() float64      { return c.activeHours }
func (c *Courier) Earnings() float64         { return c.earnings }
func (c *Courier) Handout() float64          { return c.handout }
func (c *Courier) TotalPay() float64         { return c.totalPay }
func (c *Courier) SpeedKmph() float64        { return c.speedKmph }

// EffectiveSpeed returns the courier's own speed, or fallbackKmph when no
// per-courier speed is set.
func (c *Courier) EffectiveSpeed(fallbackKmph float64) float64 {
	if c.speedKmph > 0 {
		return c.speedKmph
	}
	return fallbackKmph
}

// IsAvailable reports whether the courier can be rostered for a batch.
func (c *Courier) IsAvailable() bool {
	return c.status == StatusAvailable
}

// Dispatch marks the courier en route to a pickup.
func (c *Courier) Dispatch() error {
	if c.status != StatusAvailable {
		return shared.NewPreconditionError(shared.ReasonWrongStatus,
			"cannot dispatch courier %s from status %s", c.id, c.status)
	}
	c.status = StatusEnRoute
	return nil
}

// BeginDelivery marks the courier as carrying an order to its dropoff.
func (c *Courier) BeginDelivery() error {
	if c.status != StatusEnRoute {
		return shared.NewPreconditionError(shared.ReasonWrongStatus,
			"cannot begin delivery for courier %s from status %s", c.id, c.status)
	}
	c.status = StatusDelivering
	return nil
}

// CompleteDelivery credits the delivered work and returns the courier to the
// available pool. payPerHour converts work hours to earnings.
func (c *Courier) CompleteDelivery(actualWorkHours, payPerHour float64) error {
	if c.status != StatusDelivering {
		return shared.NewPreconditionError(shared.ReasonWrongStatus,
			"cannot complete delivery for courier %s from status %s", c.id, c.status)
	}
	if actualWorkHours < 0 {
		return shared.NewPreconditionError(shared.ReasonNegativeHours,
			"actual work hours cannot be negative")
	}
	c.workHours += actualWorkHours
	c.earnings += payPerHour * actualWorkHours
	c.status = StatusAvailable
	return nil
}

// Release returns an en-route courier to the available pool without credit,
// used when an assigned order is cancelled before pickup.
func (c *Courier) Release() error {
	if c.status != StatusEnRoute {
		return shared.NewPreconditionError(shared.ReasonWrongStatus,
			"cannot release courier %s from status %s", c.id, c.status)
	}
	c.status = StatusAvailable
	return nil
}

// CreditActiveHours adds window presence time to the courier.
func (c *Courier) CreditActiveHours(hours float64) {
	if hours > 0 {
		c.activeHours += hours
	}
}

// GuaranteedHours returns G = omega * A for this courier.
func (c *Courier) GuaranteedHours(omega float64) float64 {
	return omega * c.activeHours
}

// Shortfall returns max(G - W, 0) at the given guarantee ratio.
func (c *Courier) Shortfall(omega float64) float64 {
	shortfall := c.GuaranteedHours(omega) - c.workHours
	if shortfall < 0 {
		return 0
	}
	return shortfall
}

// ApplyPayout records the end-of-period handout and total pay. Handouts are
// recomputed, not accumulated, so repeated finalization is idempotent.
func (c *Courier) ApplyPayout(handout float64) {
	c.handout = handout
	c.totalPay = c.earnings + handout
}

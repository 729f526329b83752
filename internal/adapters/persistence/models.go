package persistence

import (
	"time"

	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

// CourierModel represents the couriers table.
type CourierModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Lat         float64   `gorm:"column:lat;not null"`
	Lon         float64   `gorm:"column:lon;not null"`
	Status      string    `gorm:"column:status;not null;default:'available';index"`
	WorkHours   float64   `gorm:"column:work_hours;not null;default:0"`
	ActiveHours float64   `gorm:"column:active_hours;not null;default:0"`
	Earnings    float64   `gorm:"column:earnings;not null;default:0"`
	Handout     float64   `gorm:"column:handout;not null;default:0"`
	TotalPay    float64   `gorm:"column:total_pay;not null;default:0"`
	SpeedKmph   float64   `gorm:"column:speed_kmph;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (CourierModel) TableName() string {
	return "couriers"
}

// OrderModel represents the orders table.
type OrderModel struct {
	ID                 string     `gorm:"column:id;primaryKey"`
	PickupLat          float64    `gorm:"column:pickup_lat;not null"`
	PickupLon          float64    `gorm:"column:pickup_lon;not null"`
	DropoffLat         float64    `gorm:"column:dropoff_lat;not null"`
	DropoffLon         float64    `gorm:"column:dropoff_lon;not null"`
	Status             string     `gorm:"column:status;not null;default:'pending';index"`
	AssignedCourierID  string     `gorm:"column:assigned_courier_id;index"`
	BatchID            string     `gorm:"column:batch_id;index"`
	EstimatedWorkHours float64    `gorm:"column:estimated_work_hours;not null;default:0"`
	ActualWorkHours    float64    `gorm:"column:actual_work_hours;not null;default:0"`
	AssignmentCost     float64    `gorm:"column:assignment_cost;not null;default:0"`
	CreatedAt          time.Time  `gorm:"column:created_at;not null;index"`
	AssignedAt         *time.Time `gorm:"column:assigned_at"`
	PickedUpAt         *time.Time `gorm:"column:picked_up_at"`
	DeliveredAt        *time.Time `gorm:"column:delivered_at"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// BatchRecordModel represents the append-only batch_records table.
type BatchRecordModel struct {
	BatchID        string    `gorm:"column:batch_id;primaryKey"`
	WindowStart    time.Time `gorm:"column:window_start;not null"`
	WindowEnd      time.Time `gorm:"column:window_end;not null"`
	TotalOrders    int       `gorm:"column:total_orders;not null"`
	AssignedOrders int       `gorm:"column:assigned_orders;not null"`
	OmegaUsed      float64   `gorm:"column:omega_used;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
}

func (BatchRecordModel) TableName() string {
	return "batch_records"
}

// AllModels lists every table for auto-migration.
func AllModels() []interface{} {
	return []interface{}{
		&CourierModel{},
		&OrderModel{},
		&BatchRecordModel{},
	}
}

// Domain <-> model converters.

func courierToModel(c *courier.Courier) *CourierModel {
	return &CourierModel{
		ID:          c.ID(),
		Lat:         c.Location().Lat,
		Lon:         c.Location().Lon,
		Status:      string(c.Status()),
		WorkHours:   c.WorkHours(),
		ActiveHours: c.ActiveHours(),
		Earnings:    c.Earnings(),
		Handout:     c.Handout(),
		TotalPay:    c.TotalPay(),
		SpeedKmph:   c.SpeedKmph(),
	}
}

func courierFromModel(m *CourierModel) *courier.Courier {
	return courier.Rehydrate(
		m.ID,
		shared.NewLocation(m.Lat, m.Lon),
		courier.Status(m.Status),
		m.WorkHours,
		m.ActiveHours,
		m.Earnings,
		m.Handout,
		m.TotalPay,
		m.SpeedKmph,
	)
}

func orderToModel(o *order.Order) *OrderModel {
	return &OrderModel{
		ID:                 o.ID(),
		PickupLat:          o.Pickup().Lat,
		PickupLon:          o.Pickup().Lon,
		DropoffLat:         o.Dropoff().Lat,
		DropoffLon:         o.Dropoff().Lon,
		Status:             string(o.Status()),
		AssignedCourierID:  o.AssignedCourierID(),
		BatchID:            o.BatchID(),
		EstimatedWorkHours: o.EstimatedWorkHours(),
		ActualWorkHours:    o.ActualWorkHours(),
		AssignmentCost:     o.AssignmentCost(),
		CreatedAt:          o.CreatedAt(),
		AssignedAt:         o.AssignedAt(),
		PickedUpAt:         o.PickedUpAt(),
		DeliveredAt:        o.DeliveredAt(),
	}
}

func orderFromModel(m *OrderModel) *order.Order {
	return order.Rehydrate(
		m.ID,
		shared.NewLocation(m.PickupLat, m.PickupLon),
		shared.NewLocation(m.DropoffLat, m.DropoffLon),
		order.Status(m.Status),
		m.AssignedCourierID,
		m.BatchID,
		m.EstimatedWorkHours,
		m.ActualWorkHours,
		m.AssignmentCost,
		m.CreatedAt,
		m.AssignedAt,
		m.PickedUpAt,
		m.DeliveredAt,
	)
}

func batchRecordToModel(r *dispatch.BatchRecord) *BatchRecordModel {
	return &BatchRecordModel{
		BatchID:        r.BatchID,
		WindowStart:    r.WindowStart,
		WindowEnd:      r.WindowEnd,
		TotalOrders:    r.TotalOrders,
		AssignedOrders: r.AssignedOrders,
		OmegaUsed:      r.OmegaUsed,
		CreatedAt:      r.CreatedAt,
	}
}

func batchRecordFromModel(m *BatchRecordModel) *dispatch.BatchRecord {
	return &dispatch.BatchRecord{
		BatchID:        m.BatchID,
		WindowStart:    m.WindowStart,
		WindowEnd:      m.WindowEnd,
		TotalOrders:    m.TotalOrders,
		AssignedOrders: m.AssignedOrders,
		OmegaUsed:      m.OmegaUsed,
		CreatedAt:      m.CreatedAt,
	}
}

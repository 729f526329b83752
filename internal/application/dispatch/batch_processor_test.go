package dispatch_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/work4food-go/internal/adapters/persistence"
	appdispatch "github.com/andrescamacho/work4food-go/internal/application/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/matching"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
	"github.com/andrescamacho/work4food-go/test/helpers"
)

type processorFixture struct {
	db        *gorm.DB
	orders    *persistence.OrderRepositoryGORM
	couriers  *persistence.CourierRepositoryGORM
	batches   *persistence.BatchRepositoryGORM
	predictor *matching.GuaranteePredictor
	clock     *shared.MockClock
	processor *appdispatch.BatchProcessor
}

// newProcessorFixture pins the clock one window past helpers.FixedTime so
// fixture orders created at FixedTime land inside [start, end).
func newProcessorFixture(t *testing.T, cfg appdispatch.ProcessorConfig) *processorFixture {
	db := helpers.NewTestDB(t)

	f := &processorFixture{
		db:       db,
		orders:   persistence.NewOrderRepository(db),
		couriers: persistence.NewCourierRepository(db),
		batches:  persistence.NewBatchRepository(db),
		clock:    shared.NewMockClock(helpers.FixedTime.Add(time.Duration(cfg.WindowMinutes) * time.Minute)),
	}

	predictor, err := matching.NewGuaranteePredictor(matching.DefaultPredictorConfig())
	require.NoError(t, err)
	f.predictor = predictor

	f.processor = appdispatch.NewBatchProcessor(
		f.orders, f.couriers, f.batches,
		matching.NewAssignmentEngine(dispatch.NewWorkEstimator(8, 25)),
		predictor, cfg, f.clock, nil,
	)
	return f
}

func (f *processorFixture) addCourier(t *testing.T, id string) {
	c := helpers.NewTestCourier(t, id, 12.97, 77.59)
	require.NoError(t, f.couriers.Register(context.Background(), c))
}

func (f *processorFixture) addOrder(t *testing.T, id string) {
	o := helpers.NewTestOrder(t, id, 12.971, 77.591, 12.975, 77.595)
	require.NoError(t, f.orders.Create(context.Background(), o))
}

func TestBatchProcessor_AssignsAndCredits(t *testing.T) {
	f := newProcessorFixture(t, appdispatch.ProcessorConfig{WindowMinutes: 3})
	f.addCourier(t, "c1")
	f.addCourier(t, "c2")
	f.addOrder(t, "o1")

	result, err := f.processor.ProcessBatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalOrders)
	assert.Equal(t, 1, result.AssignedOrders)
	assert.Equal(t, 2, result.AvailableCouriers)
	assert.False(t, result.AlreadyProcessed)
	assert.InDelta(t, 0.25, result.OmegaUsed, 1e-9)

	// The assigned order is bound to the batch
	o, err := f.orders.FindByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusAssigned, o.Status())
	assert.Equal(t, result.BatchID, o.BatchID())

	// Both rostered couriers got one window of active hours
	for _, id := range []string{"c1", "c2"} {
		c, err := f.couriers.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.InDelta(t, 0.05, c.ActiveHours(), 1e-9, "courier %s", id)
	}

	// Predictor history grew by one aggregate
	assert.Equal(t, 1, f.predictor.HistoryLen())
}

func TestBatchProcessor_EmptyWindowStillUpdatesPredictor(t *testing.T) {
	f := newProcessorFixture(t, appdispatch.ProcessorConfig{WindowMinutes: 3})
	f.addCourier(t, "c1")

	result, err := f.processor.ProcessBatch(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.TotalOrders)
	assert.Zero(t, result.AssignedOrders)

	// Roster was present, so active hours and predictor history accrue
	c, err := f.couriers.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.InDelta(t, 0.05, c.ActiveHours(), 1e-9)
	assert.Equal(t, 1, f.predictor.HistoryLen())
}

func TestBatchProcessor_EmptyRosterSkipsCredits(t *testing.T) {
	f := newProcessorFixture(t, appdispatch.ProcessorConfig{WindowMinutes: 3})
	f.addOrder(t, "o1")

	result, err := f.processor.ProcessBatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalOrders)
	assert.Zero(t, result.AssignedOrders)
	assert.Zero(t, result.AvailableCouriers)

	// The order stays pending and the predictor saw nothing
	o, err := f.orders.FindByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.True(t, o.IsPending())
	assert.Zero(t, f.predictor.HistoryLen())

	// The window is still recorded
	record, err := f.batches.FindBatchRecord(context.Background(), result.BatchID)
	require.NoError(t, err)
	require.NotNil(t, record)
}

func TestBatchProcessor_ReprocessingIsNoOp(t *testing.T) {
	f := newProcessorFixture(t, appdispatch.ProcessorConfig{WindowMinutes: 3})
	f.addCourier(t, "c1")
	f.addOrder(t, "o1")

	first, err := f.processor.ProcessBatch(context.Background())
	require.NoError(t, err)
	require.False(t, first.AlreadyProcessed)

	second, err := f.processor.ProcessBatch(context.Background())
	require.NoError(t, err)

	assert.True(t, second.AlreadyProcessed)
	assert.Equal(t, first.BatchID, second.BatchID)
	assert.Equal(t, first.AssignedOrders, second.AssignedOrders)

	// No double credit
	c, err := f.couriers.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.InDelta(t, 0.05, c.ActiveHours(), 1e-9)
	assert.Equal(t, 1, f.predictor.HistoryLen())
}

func TestBatchProcessor_StrictWindowIgnoresOldOrders(t *testing.T) {
	f := newProcessorFixture(t, appdispatch.ProcessorConfig{WindowMinutes: 3})
	f.addCourier(t, "c1")

	// Created two windows ago, outside [start, end)
	stale, err := order.NewOrder("stale",
		shared.Location{Lat: 12.971, Lon: 77.591},
		shared.Location{Lat: 12.975, Lon: 77.595},
		helpers.FixedTime.Add(-10*time.Minute))
	require.NoError(t, err)
	require.NoError(t, f.orders.Create(context.Background(), stale))

	result, err := f.processor.ProcessBatch(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.TotalOrders)
}

func TestBatchProcessor_CarryForwardPicksUpOldOrders(t *testing.T) {
	f := newProcessorFixture(t, appdispatch.ProcessorConfig{WindowMinutes: 3, CarryForwardPending: true})
	f.addCourier(t, "c1")

	stale, err := order.NewOrder("stale",
		shared.Location{Lat: 12.971, Lon: 77.591},
		shared.Location{Lat: 12.975, Lon: 77.595},
		helpers.FixedTime.Add(-10*time.Minute))
	require.NoError(t, err)
	require.NoError(t, f.orders.Create(context.Background(), stale))

	result, err := f.processor.ProcessBatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalOrders)
	assert.Equal(t, 1, result.AssignedOrders)
}

func TestBatchProcessor_SkipsAlreadyAssignedOrders(t *testing.T) {
	f := newProcessorFixture(t, appdispatch.ProcessorConfig{WindowMinutes: 3})
	f.addCourier(t, "c1")
	f.addOrder(t, "o1")

	// Another writer assigned the order between intake and commit. Simulate
	// by pre-assigning it to a courier outside the roster.
	other := courier.Rehydrate("other", shared.Location{Lat: 12.98, Lon: 77.60},
		courier.StatusAvailable, 0, 0, 0, 0, 0, 0)
	require.NoError(t, f.couriers.Register(context.Background(), other))
	require.NoError(t, f.batches.CommitAssignment(context.Background(), dispatch.Assignment{
		OrderID:        "o1",
		CourierID:      "other",
		BatchID:        "batch_20250615_115400",
		At:             helpers.FixedTime,
		EstimatedHours: 0.3,
		Cost:           0.3,
	}))

	result, err := f.processor.ProcessBatch(context.Background())
	require.NoError(t, err)

	// Intake no longer sees the order as pending
	assert.Zero(t, result.TotalOrders)
	assert.Zero(t, result.Conflicts)
}

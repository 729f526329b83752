package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/work4food-go/internal/adapters/persistence"
	"github.com/andrescamacho/work4food-go/internal/application/lifecycle"
	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
	"github.com/andrescamacho/work4food-go/test/helpers"
)

type executorFixture struct {
	db       *gorm.DB
	orders   *persistence.OrderRepositoryGORM
	couriers *persistence.CourierRepositoryGORM
	batches  *persistence.BatchRepositoryGORM
	executor *lifecycle.OrderExecutor
	clock    *shared.MockClock
}

func newExecutorFixture(t *testing.T) *executorFixture {
	db := helpers.NewTestDB(t)
	f := &executorFixture{
		db:       db,
		orders:   persistence.NewOrderRepository(db),
		couriers: persistence.NewCourierRepository(db),
		batches:  persistence.NewBatchRepository(db),
		clock:    helpers.NewFixedClock(),
	}
	f.executor = lifecycle.NewOrderExecutor(f.orders, f.couriers,
		lifecycle.ExecutorConfig{PayPerHour: 100})
	return f
}

// assignedOrder seeds an order committed to the given courier.
func (f *executorFixture) assignedOrder(t *testing.T, orderID, courierID string) {
	c := helpers.NewTestCourier(t, courierID, 12.97, 77.59)
	require.NoError(t, f.couriers.Register(context.Background(), c))

	o := helpers.NewTestOrder(t, orderID, 12.971, 77.591, 12.975, 77.595)
	require.NoError(t, f.orders.Create(context.Background(), o))

	require.NoError(t, f.batches.CommitAssignment(context.Background(), dispatch.Assignment{
		OrderID:        orderID,
		CourierID:      courierID,
		BatchID:        dispatch.BatchID(helpers.FixedTime),
		At:             helpers.FixedTime,
		EstimatedHours: 0.3,
		Cost:           0.3,
	}))
}

func TestOrderExecutor_Accept(t *testing.T) {
	f := newExecutorFixture(t)
	f.assignedOrder(t, "o1", "c1")

	result, err := f.executor.Accept(context.Background(), "o1", "c1")
	require.NoError(t, err)
	assert.True(t, result.OK)

	// Accept is a pure verification: the order does not advance
	o, err := f.orders.FindByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusAssigned, o.Status())
}

func TestOrderExecutor_AcceptWrongCourier(t *testing.T) {
	f := newExecutorFixture(t)
	f.assignedOrder(t, "o1", "c1")

	result, err := f.executor.Accept(context.Background(), "o1", "c2")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, shared.ReasonWrongCourier, result.Reason)
}

func TestOrderExecutor_PickupAndDeliver(t *testing.T) {
	f := newExecutorFixture(t)
	f.assignedOrder(t, "o1", "c1")

	result, err := f.executor.Pickup(context.Background(), "o1", "c1", f.clock)
	require.NoError(t, err)
	require.True(t, result.OK)

	c, err := f.couriers.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, courier.StatusDelivering, c.Status())

	f.clock.Advance(20 * time.Minute)
	result, err = f.executor.Deliver(context.Background(), "o1", "c1", 0.4, f.clock)
	require.NoError(t, err)
	require.True(t, result.OK)

	o, err := f.orders.FindByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, o.Status())
	assert.Equal(t, 0.4, o.ActualWorkHours())

	c, err = f.couriers.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, courier.StatusAvailable, c.Status())
	assert.InDelta(t, 0.4, c.WorkHours(), 1e-9)
	assert.InDelta(t, 40, c.Earnings(), 1e-9)
}

func TestOrderExecutor_FailedPickupLeavesOrderAssigned(t *testing.T) {
	f := newExecutorFixture(t)
	f.assignedOrder(t, "o1", "c1")

	// The courier drifted out of en_route between assignment and pickup.
	require.NoError(t, f.couriers.UpdateStatus(context.Background(), "c1",
		courier.StatusEnRoute, courier.StatusAvailable))

	result, err := f.executor.Pickup(context.Background(), "o1", "c1", f.clock)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, shared.ReasonWrongStatus, result.Reason)

	// A refused pickup must not advance the order.
	o, err := f.orders.FindByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusAssigned, o.Status())
	assert.Nil(t, o.PickedUpAt())
}

func TestOrderExecutor_FailedDeliverLeavesOrderPickedUp(t *testing.T) {
	f := newExecutorFixture(t)
	f.assignedOrder(t, "o1", "c1")

	_, err := f.executor.Pickup(context.Background(), "o1", "c1", f.clock)
	require.NoError(t, err)

	require.NoError(t, f.couriers.UpdateStatus(context.Background(), "c1",
		courier.StatusDelivering, courier.StatusAvailable))

	result, err := f.executor.Deliver(context.Background(), "o1", "c1", 0.4, f.clock)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, shared.ReasonWrongStatus, result.Reason)

	// Neither the order nor the courier credit may have landed.
	o, err := f.orders.FindByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPickedUp, o.Status())

	c, err := f.couriers.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Zero(t, c.WorkHours())
	assert.Zero(t, c.Earnings())
}

func TestOrderExecutor_DeliverBeforePickupRejected(t *testing.T) {
	f := newExecutorFixture(t)
	f.assignedOrder(t, "o1", "c1")

	result, err := f.executor.Deliver(context.Background(), "o1", "c1", 0.4, f.clock)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, shared.ReasonWrongStatus, result.Reason)
}

func TestOrderExecutor_UnknownOrder(t *testing.T) {
	f := newExecutorFixture(t)

	result, err := f.executor.Pickup(context.Background(), "missing", "c1", f.clock)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, shared.ReasonOrderNotFound, result.Reason)
}

func TestOrderExecutor_CancelPending(t *testing.T) {
	f := newExecutorFixture(t)
	o := helpers.NewTestOrder(t, "o1", 12.971, 77.591, 12.975, 77.595)
	require.NoError(t, f.orders.Create(context.Background(), o))

	result, err := f.executor.Cancel(context.Background(), "o1")
	require.NoError(t, err)
	assert.True(t, result.OK)

	got, err := f.orders.FindByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, got.Status())
}

func TestOrderExecutor_CancelAssignedReleasesCourier(t *testing.T) {
	f := newExecutorFixture(t)
	f.assignedOrder(t, "o1", "c1")

	result, err := f.executor.Cancel(context.Background(), "o1")
	require.NoError(t, err)
	require.True(t, result.OK)

	c, err := f.couriers.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, courier.StatusAvailable, c.Status())
}

func TestOrderExecutor_CancelDeliveredRejected(t *testing.T) {
	f := newExecutorFixture(t)
	f.assignedOrder(t, "o1", "c1")

	_, err := f.executor.Pickup(context.Background(), "o1", "c1", f.clock)
	require.NoError(t, err)
	_, err = f.executor.Deliver(context.Background(), "o1", "c1", 0.4, f.clock)
	require.NoError(t, err)

	result, err := f.executor.Cancel(context.Background(), "o1")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, shared.ReasonWrongStatus, result.Reason)
}

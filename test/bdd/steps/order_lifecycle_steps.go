package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	"github.com/andrescamacho/work4food-go/internal/adapters/persistence"
	"github.com/andrescamacho/work4food-go/internal/application/lifecycle"
	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
	"github.com/andrescamacho/work4food-go/internal/infrastructure/database"
)

type orderLifecycleContext struct {
	db       *gorm.DB
	orders   *persistence.OrderRepositoryGORM
	couriers *persistence.CourierRepositoryGORM
	batches  *persistence.BatchRepositoryGORM
	executor *lifecycle.OrderExecutor
	clock    *shared.MockClock

	lastResult lifecycle.Result
	lastErr    error
}

func (c *orderLifecycleContext) reset() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open test database: %w", err)
	}

	c.db = db
	c.orders = persistence.NewOrderRepository(db)
	c.couriers = persistence.NewCourierRepository(db)
	c.batches = persistence.NewBatchRepository(db)
	c.executor = lifecycle.NewOrderExecutor(c.orders, c.couriers,
		lifecycle.ExecutorConfig{PayPerHour: 100})
	c.clock = shared.NewMockClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	c.lastResult = lifecycle.Result{}
	c.lastErr = nil
	return nil
}

// Given steps

func (c *orderLifecycleContext) anOrderAssignedToCourier(orderID, courierID string) error {
	ctx := context.Background()

	co, err := courier.NewCourier(courierID, shared.Location{Lat: 12.97, Lon: 77.59}, 0)
	if err != nil {
		return err
	}
	if err := c.couriers.Register(ctx, co); err != nil {
		return err
	}

	o, err := order.NewOrder(orderID,
		shared.Location{Lat: 12.971, Lon: 77.591},
		shared.Location{Lat: 12.975, Lon: 77.595},
		c.clock.Now())
	if err != nil {
		return err
	}
	if err := c.orders.Create(ctx, o); err != nil {
		return err
	}

	return c.batches.CommitAssignment(ctx, dispatch.Assignment{
		OrderID:        orderID,
		CourierID:      courierID,
		BatchID:        dispatch.BatchID(c.clock.Now()),
		At:             c.clock.Now(),
		EstimatedHours: 0.3,
		Cost:           0.3,
	})
}

// When steps

func (c *orderLifecycleContext) courierPicksUpOrder(courierID, orderID string) error {
	c.lastResult, c.lastErr = c.executor.Pickup(context.Background(), orderID, courierID, c.clock)
	return c.lastErr
}

func (c *orderLifecycleContext) courierDeliversOrderAfterHours(courierID, orderID string, hours float64) error {
	c.lastResult, c.lastErr = c.executor.Deliver(context.Background(), orderID, courierID, hours, c.clock)
	return c.lastErr
}

func (c *orderLifecycleContext) orderIsCancelled(orderID string) error {
	c.lastResult, c.lastErr = c.executor.Cancel(context.Background(), orderID)
	return c.lastErr
}

// Then steps

func (c *orderLifecycleContext) orderShouldHaveStatus(orderID, status string) error {
	o, err := c.orders.FindByID(context.Background(), orderID)
	if err != nil {
		return err
	}
	if string(o.Status()) != status {
		return fmt.Errorf("expected order %s status %q, got %q", orderID, status, o.Status())
	}
	return nil
}

func (c *orderLifecycleContext) courierShouldHaveStatus(courierID, status string) error {
	co, err := c.couriers.FindByID(context.Background(), courierID)
	if err != nil {
		return err
	}
	if string(co.Status()) != status {
		return fmt.Errorf("expected courier %s status %q, got %q", courierID, status, co.Status())
	}
	return nil
}

func (c *orderLifecycleContext) courierShouldHaveWorkHours(courierID string, hours float64) error {
	co, err := c.couriers.FindByID(context.Background(), courierID)
	if err != nil {
		return err
	}
	if diff := co.WorkHours() - hours; diff > 1e-9 || diff < -1e-9 {
		return fmt.Errorf("expected courier %s to have %.3f work hours, got %.3f", courierID, hours, co.WorkHours())
	}
	return nil
}

func (c *orderLifecycleContext) courierShouldHaveEarned(courierID string, amount float64) error {
	co, err := c.couriers.FindByID(context.Background(), courierID)
	if err != nil {
		return err
	}
	if diff := co.Earnings() - amount; diff > 1e-9 || diff < -1e-9 {
		return fmt.Errorf("expected courier %s to have earned %.2f, got %.2f", courierID, amount, co.Earnings())
	}
	return nil
}

func (c *orderLifecycleContext) operationShouldBeRejectedWithReason(reason string) error {
	if c.lastErr != nil {
		return fmt.Errorf("expected a rejected result, got error: %v", c.lastErr)
	}
	if c.lastResult.OK {
		return fmt.Errorf("expected rejection with reason %q, but operation succeeded", reason)
	}
	if c.lastResult.Reason != reason {
		return fmt.Errorf("expected rejection reason %q, got %q", reason, c.lastResult.Reason)
	}
	return nil
}

// InitializeOrderLifecycleScenario registers the order lifecycle steps
func InitializeOrderLifecycleScenario(sc *godog.ScenarioContext) {
	ctx := &orderLifecycleContext{}

	sc.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		return c, ctx.reset()
	})

	sc.Step(`^an order "([^"]*)" assigned to courier "([^"]*)"$`, ctx.anOrderAssignedToCourier)
	sc.Step(`^courier "([^"]*)" picks up order "([^"]*)"$`, ctx.courierPicksUpOrder)
	sc.Step(`^courier "([^"]*)" delivers order "([^"]*)" after (\d+\.?\d*) work hours$`, ctx.courierDeliversOrderAfterHours)
	sc.Step(`^order "([^"]*)" is cancelled$`, ctx.orderIsCancelled)
	sc.Step(`^order "([^"]*)" should have status "([^"]*)"$`, ctx.orderShouldHaveStatus)
	sc.Step(`^courier "([^"]*)" should have status "([^"]*)"$`, ctx.courierShouldHaveStatus)
	sc.Step(`^courier "([^"]*)" should have (\d+\.?\d*) work hours$`, ctx.courierShouldHaveWorkHours)
	sc.Step(`^courier "([^"]*)" should have earned (\d+\.?\d*)$`, ctx.courierShouldHaveEarned)
	sc.Step(`^the operation should be rejected with reason "([^"]*)"$`, ctx.operationShouldBeRejectedWithReason)
}

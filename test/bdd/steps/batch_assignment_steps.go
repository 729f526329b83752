package steps

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"
	"gorm.io/gorm"

	"github.com/andrescamacho/work4food-go/internal/adapters/persistence"
	appdispatch "github.com/andrescamacho/work4food-go/internal/application/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/matching"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
	"github.com/andrescamacho/work4food-go/internal/infrastructure/database"
)

type batchAssignmentContext struct {
	db        *gorm.DB
	orders    *persistence.OrderRepositoryGORM
	couriers  *persistence.CourierRepositoryGORM
	batches   *persistence.BatchRepositoryGORM
	processor *appdispatch.BatchProcessor
	clock     *shared.MockClock

	rosterIDs  []string
	lastResult *appdispatch.BatchResult
}

func (c *batchAssignmentContext) reset() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open test database: %w", err)
	}

	c.db = db
	c.orders = persistence.NewOrderRepository(db)
	c.couriers = persistence.NewCourierRepository(db)
	c.batches = persistence.NewBatchRepository(db)
	c.rosterIDs = nil
	c.lastResult = nil

	// Orders are created at noon; the processor ticks one window later so
	// the creation instant falls inside [start, end).
	created := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	c.clock = shared.NewMockClock(created.Add(3 * time.Minute))

	predictor, err := matching.NewGuaranteePredictor(matching.DefaultPredictorConfig())
	if err != nil {
		return err
	}
	estimator := dispatch.NewWorkEstimator(8, 25)

	c.processor = appdispatch.NewBatchProcessor(
		c.orders, c.couriers, c.batches,
		matching.NewAssignmentEngine(estimator),
		predictor,
		appdispatch.ProcessorConfig{WindowMinutes: 3},
		c.clock,
		nil,
	)
	return nil
}

// Given steps

func (c *batchAssignmentContext) aCourierAtLocation(id string, lat, lon float64) error {
	co, err := courier.NewCourier(id, shared.Location{Lat: lat, Lon: lon}, 0)
	if err != nil {
		return err
	}
	c.rosterIDs = append(c.rosterIDs, id)
	return c.couriers.Register(context.Background(), co)
}

func (c *batchAssignmentContext) aRosterOfCouriers(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		id := cellValue(table, row, "id")
		lat, err := strconv.ParseFloat(cellValue(table, row, "lat"), 64)
		if err != nil {
			return fmt.Errorf("invalid lat for courier %s: %w", id, err)
		}
		lon, err := strconv.ParseFloat(cellValue(table, row, "lon"), 64)
		if err != nil {
			return fmt.Errorf("invalid lon for courier %s: %w", id, err)
		}
		if err := c.aCourierAtLocation(id, lat, lon); err != nil {
			return err
		}
	}
	return nil
}

func (c *batchAssignmentContext) aPendingOrderFromTo(id string, pickupLat, pickupLon, dropoffLat, dropoffLon float64) error {
	o, err := order.NewOrder(id,
		shared.Location{Lat: pickupLat, Lon: pickupLon},
		shared.Location{Lat: dropoffLat, Lon: dropoffLon},
		time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	if err != nil {
		return err
	}
	return c.orders.Create(context.Background(), o)
}

// When steps

func (c *batchAssignmentContext) theCurrentBatchWindowIsProcessed() error {
	result, err := c.processor.ProcessBatch(context.Background())
	if err != nil {
		return err
	}
	c.lastResult = result
	return nil
}

// Then steps

func (c *batchAssignmentContext) theBatchShouldAssignOrders(count int) error {
	if c.lastResult == nil {
		return fmt.Errorf("no batch was processed")
	}
	if c.lastResult.AssignedOrders != count {
		return fmt.Errorf("expected %d assigned orders, got %d", count, c.lastResult.AssignedOrders)
	}
	return nil
}

func (c *batchAssignmentContext) orderShouldBeAssignedToCourier(orderID, courierID string) error {
	o, err := c.orders.FindByID(context.Background(), orderID)
	if err != nil {
		return err
	}
	if o.Status() != order.StatusAssigned {
		return fmt.Errorf("expected order %s to be assigned, got %s", orderID, o.Status())
	}
	if o.AssignedCourierID() != courierID {
		return fmt.Errorf("expected order %s assigned to %s, got %s", orderID, courierID, o.AssignedCourierID())
	}
	return nil
}

func (c *batchAssignmentContext) batchOrderShouldHaveStatus(orderID, status string) error {
	o, err := c.orders.FindByID(context.Background(), orderID)
	if err != nil {
		return err
	}
	if string(o.Status()) != status {
		return fmt.Errorf("expected order %s status %q, got %q", orderID, status, o.Status())
	}
	return nil
}

func (c *batchAssignmentContext) batchCourierShouldHaveStatus(courierID, status string) error {
	co, err := c.couriers.FindByID(context.Background(), courierID)
	if err != nil {
		return err
	}
	if string(co.Status()) != status {
		return fmt.Errorf("expected courier %s status %q, got %q", courierID, status, co.Status())
	}
	return nil
}

func (c *batchAssignmentContext) everyRosteredCourierShouldHaveActiveHours(hours float64) error {
	for _, id := range c.rosterIDs {
		co, err := c.couriers.FindByID(context.Background(), id)
		if err != nil {
			return err
		}
		if diff := co.ActiveHours() - hours; diff > 1e-9 || diff < -1e-9 {
			return fmt.Errorf("expected courier %s to have %.3f active hours, got %.3f", id, hours, co.ActiveHours())
		}
	}
	return nil
}

func (c *batchAssignmentContext) aBatchRecordShouldExistForTheWindow() error {
	windowStart := c.clock.Now().Add(-3 * time.Minute)
	record, err := c.batches.FindBatchRecord(context.Background(), dispatch.BatchID(windowStart))
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("expected a batch record for window starting %s", windowStart)
	}
	return nil
}

func (c *batchAssignmentContext) theSecondRunShouldReportAlreadyProcessed() error {
	if c.lastResult == nil {
		return fmt.Errorf("no batch was processed")
	}
	if !c.lastResult.AlreadyProcessed {
		return fmt.Errorf("expected the second run to be reported as already processed")
	}
	return nil
}

// InitializeBatchAssignmentScenario registers the batch assignment steps
func InitializeBatchAssignmentScenario(sc *godog.ScenarioContext) {
	ctx := &batchAssignmentContext{}

	sc.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		return c, ctx.reset()
	})

	sc.Step(`^a courier "([^"]*)" at location (-?\d+\.?\d*), (-?\d+\.?\d*)$`, ctx.aCourierAtLocation)
	sc.Step(`^a roster of couriers:$`, ctx.aRosterOfCouriers)
	sc.Step(`^a pending order "([^"]*)" from (-?\d+\.?\d*), (-?\d+\.?\d*) to (-?\d+\.?\d*), (-?\d+\.?\d*)$`, ctx.aPendingOrderFromTo)
	sc.Step(`^the current batch window is processed$`, ctx.theCurrentBatchWindowIsProcessed)
	sc.Step(`^the current batch window is processed again$`, ctx.theCurrentBatchWindowIsProcessed)
	sc.Step(`^the batch should assign (\d+) orders$`, ctx.theBatchShouldAssignOrders)
	sc.Step(`^order "([^"]*)" should be assigned to courier "([^"]*)"$`, ctx.orderShouldBeAssignedToCourier)
	sc.Step(`^order "([^"]*)" should still be "([^"]*)"$`, ctx.batchOrderShouldHaveStatus)
	sc.Step(`^courier "([^"]*)" should be "([^"]*)"$`, ctx.batchCourierShouldHaveStatus)
	sc.Step(`^every rostered courier should have (\d+\.?\d*) active hours$`, ctx.everyRosteredCourierShouldHaveActiveHours)
	sc.Step(`^a batch record should exist for the window$`, ctx.aBatchRecordShouldExistForTheWindow)
	sc.Step(`^the second run should report the window as already processed$`, ctx.theSecondRunShouldReportAlreadyProcessed)
}

// cellValue resolves a cell by header name so tables stay order-independent.
func cellValue(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	for i, header := range table.Rows[0].Cells {
		if header.Value == columnName {
			return row.Cells[i].Value
		}
	}
	return ""
}

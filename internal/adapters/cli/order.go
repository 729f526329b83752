package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/work4food-go/internal/application/lifecycle"
	"github.com/andrescamacho/work4food-go/internal/domain/order"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

// NewOrderCommand creates the order command with subcommands
func NewOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Order intake and lifecycle operations",
		Long: `Create orders and drive them through their delivery lifecycle.

An order is created pending, assigned to a courier by a batch, then picked
up and delivered by that courier. Pending and assigned orders can be
cancelled.

Examples:
  dispatchctl order create --pickup-lat 12.97 --pickup-lon 77.59 --dropoff-lat 12.93 --dropoff-lon 77.61
  dispatchctl order accept --order a1b2c3 --courier courier-7
  dispatchctl order pickup --order a1b2c3 --courier courier-7
  dispatchctl order deliver --order a1b2c3 --courier courier-7 --hours 0.45
  dispatchctl order cancel --order a1b2c3
  dispatchctl order show --order a1b2c3`,
	}

	cmd.AddCommand(newOrderCreateCommand())
	cmd.AddCommand(newOrderShowCommand())
	cmd.AddCommand(newOrderAcceptCommand())
	cmd.AddCommand(newOrderPickupCommand())
	cmd.AddCommand(newOrderDeliverCommand())
	cmd.AddCommand(newOrderCancelCommand())

	return cmd
}

func newOrderCreateCommand() *cobra.Command {
	var (
		id         string
		pickupLat  float64
		pickupLon  float64
		dropoffLat float64
		dropoffLon float64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pending order",
		Long: `Create an order awaiting assignment.

The order enters the next batch window as pending. An ID is generated
when not supplied.

Example:
  dispatchctl order create --pickup-lat 12.97 --pickup-lon 77.59 \
    --dropoff-lat 12.93 --dropoff-lon 77.61`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderCreate(id, pickupLat, pickupLon, dropoffLat, dropoffLon)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Order identifier (generated when empty)")
	cmd.Flags().Float64Var(&pickupLat, "pickup-lat", 0, "Restaurant latitude [required]")
	cmd.Flags().Float64Var(&pickupLon, "pickup-lon", 0, "Restaurant longitude [required]")
	cmd.Flags().Float64Var(&dropoffLat, "dropoff-lat", 0, "Customer latitude [required]")
	cmd.Flags().Float64Var(&dropoffLon, "dropoff-lon", 0, "Customer longitude [required]")
	cmd.MarkFlagRequired("pickup-lat")
	cmd.MarkFlagRequired("pickup-lon")
	cmd.MarkFlagRequired("dropoff-lat")
	cmd.MarkFlagRequired("dropoff-lon")

	return cmd
}

func newOrderShowCommand() *cobra.Command {
	var orderID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show an order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderShow(orderID)
		},
	}

	cmd.Flags().StringVar(&orderID, "order", "", "Order identifier [required]")
	cmd.MarkFlagRequired("order")

	return cmd
}

func newOrderAcceptCommand() *cobra.Command {
	var (
		orderID   string
		courierID string
	)

	cmd := &cobra.Command{
		Use:   "accept",
		Short: "Acknowledge an assignment",
		Long: `Acknowledge that a courier has seen its assignment.

Acceptance is a verification step only; it changes no state. It fails when
the order is not assigned to the given courier.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderLifecycle("accept", orderID, courierID, 0)
		},
	}

	cmd.Flags().StringVar(&orderID, "order", "", "Order identifier [required]")
	cmd.Flags().StringVar(&courierID, "courier", "", "Courier identifier [required]")
	cmd.MarkFlagRequired("order")
	cmd.MarkFlagRequired("courier")

	return cmd
}

func newOrderPickupCommand() *cobra.Command {
	var (
		orderID   string
		courierID string
	)

	cmd := &cobra.Command{
		Use:   "pickup",
		Short: "Mark an order picked up",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderLifecycle("pickup", orderID, courierID, 0)
		},
	}

	cmd.Flags().StringVar(&orderID, "order", "", "Order identifier [required]")
	cmd.Flags().StringVar(&courierID, "courier", "", "Courier identifier [required]")
	cmd.MarkFlagRequired("order")
	cmd.MarkFlagRequired("courier")

	return cmd
}

func newOrderDeliverCommand() *cobra.Command {
	var (
		orderID   string
		courierID string
		hours     float64
	)

	cmd := &cobra.Command{
		Use:   "deliver",
		Short: "Mark an order delivered",
		Long: `Complete a delivery and credit the courier.

The actual work hours spent on the delivery are credited to the courier's
work hours; earnings accrue at the configured hourly rate. When --hours is
omitted the estimate from assignment time is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderDeliver(orderID, courierID, hours)
		},
	}

	cmd.Flags().StringVar(&orderID, "order", "", "Order identifier [required]")
	cmd.Flags().StringVar(&courierID, "courier", "", "Courier identifier [required]")
	cmd.Flags().Float64Var(&hours, "hours", -1, "Actual work hours spent (-1 = use estimate)")
	cmd.MarkFlagRequired("order")
	cmd.MarkFlagRequired("courier")

	return cmd
}

func newOrderCancelCommand() *cobra.Command {
	var orderID string

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a pending or assigned order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderCancel(orderID)
		},
	}

	cmd.Flags().StringVar(&orderID, "order", "", "Order identifier [required]")
	cmd.MarkFlagRequired("order")

	return cmd
}

func runOrderCreate(id string, pickupLat, pickupLon, dropoffLat, dropoffLon float64) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	if id == "" {
		id = uuid.NewString()
	}

	o, err := order.NewOrder(id,
		shared.Location{Lat: pickupLat, Lon: pickupLon},
		shared.Location{Lat: dropoffLat, Lon: dropoffLon},
		a.clock.Now())
	if err != nil {
		return err
	}

	if err := a.orders.Create(a.ctx(), o); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	fmt.Printf("Order %s created (pending)\n", o.ID())
	return nil
}

func runOrderShow(orderID string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	o, err := a.orders.FindByID(a.ctx(), orderID)
	if err != nil {
		return err
	}

	fmt.Printf("Order:    %s\n", o.ID())
	fmt.Printf("Status:   %s\n", o.Status())
	fmt.Printf("Pickup:   (%.4f, %.4f)\n", o.Pickup().Lat, o.Pickup().Lon)
	fmt.Printf("Dropoff:  (%.4f, %.4f)\n", o.Dropoff().Lat, o.Dropoff().Lon)
	fmt.Printf("Created:  %s\n", o.CreatedAt().Format("2006-01-02 15:04:05"))
	if o.AssignedCourierID() != "" {
		fmt.Printf("Courier:  %s\n", o.AssignedCourierID())
		fmt.Printf("Batch:    %s\n", o.BatchID())
		fmt.Printf("Est. hrs: %.3f\n", o.EstimatedWorkHours())
	}
	if o.DeliveredAt() != nil {
		fmt.Printf("Act. hrs: %.3f\n", o.ActualWorkHours())
	}
	return nil
}

func runOrderLifecycle(op, orderID, courierID string, hours float64) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	executor := lifecycle.NewOrderExecutor(a.orders, a.couriers,
		lifecycle.ExecutorConfig{PayPerHour: a.cfg.Dispatch.PayPerHour})
	ctx := a.ctx()

	var result lifecycle.Result
	switch op {
	case "accept":
		result, err = executor.Accept(ctx, orderID, courierID)
	case "pickup":
		result, err = executor.Pickup(ctx, orderID, courierID, a.clock)
	case "deliver":
		result, err = executor.Deliver(ctx, orderID, courierID, hours, a.clock)
	}
	if err != nil {
		return err
	}

	if !result.OK {
		return fmt.Errorf("%s rejected: %s", op, result.Reason)
	}
	fmt.Printf("Order %s: %s ok\n", orderID, op)
	return nil
}

func runOrderDeliver(orderID, courierID string, hours float64) error {
	if hours < 0 {
		// Fall back to the assignment-time estimate
		a, err := openApp()
		if err != nil {
			return err
		}
		o, err := a.orders.FindByID(a.ctx(), orderID)
		a.close()
		if err != nil {
			return err
		}
		hours = o.EstimatedWorkHours()
	}

	return runOrderLifecycle("deliver", orderID, courierID, hours)
}

func runOrderCancel(orderID string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	executor := lifecycle.NewOrderExecutor(a.orders, a.couriers,
		lifecycle.ExecutorConfig{PayPerHour: a.cfg.Dispatch.PayPerHour})

	result, err := executor.Cancel(a.ctx(), orderID)
	if err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("cancel rejected: %s", result.Reason)
	}

	fmt.Printf("Order %s cancelled\n", orderID)
	return nil
}

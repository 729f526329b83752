package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/work4food-go/internal/domain/courier"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

// NewCourierCommand creates the courier command with subcommands
func NewCourierCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courier",
		Short: "Courier fleet operations",
		Long: `Register couriers and inspect the fleet.

Examples:
  dispatchctl courier register --id courier-7 --lat 12.9716 --lon 77.5946
  dispatchctl courier register --id courier-8 --lat 12.93 --lon 77.61 --speed 30
  dispatchctl courier list`,
	}

	cmd.AddCommand(newCourierRegisterCommand())
	cmd.AddCommand(newCourierListCommand())

	return cmd
}

func newCourierRegisterCommand() *cobra.Command {
	var (
		id    string
		lat   float64
		lon   float64
		speed float64
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new courier",
		Long: `Register a courier at a starting location.

A courier enters the fleet as available and is considered for assignment
from the next batch window onward. Speed defaults to the platform-wide
travel speed when omitted.

Example:
  dispatchctl courier register --id courier-7 --lat 12.9716 --lon 77.5946 --speed 25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCourierRegister(id, lat, lon, speed)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Courier identifier [required]")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Starting latitude [required]")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Starting longitude [required]")
	cmd.Flags().Float64Var(&speed, "speed", 0, "Travel speed in km/h (0 = platform default)")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("lat")
	cmd.MarkFlagRequired("lon")

	return cmd
}

func newCourierListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available couriers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCourierList()
		},
	}
}

func runCourierRegister(id string, lat, lon, speed float64) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	c, err := courier.NewCourier(id, shared.Location{Lat: lat, Lon: lon}, speed)
	if err != nil {
		return err
	}

	if err := a.couriers.Register(a.ctx(), c); err != nil {
		return fmt.Errorf("failed to register courier: %w", err)
	}

	fmt.Printf("Courier %s registered at (%.4f, %.4f)\n", c.ID(), lat, lon)
	return nil
}

func runCourierList() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	couriers, err := a.couriers.Available(a.ctx())
	if err != nil {
		return fmt.Errorf("failed to list couriers: %w", err)
	}

	if len(couriers) == 0 {
		fmt.Println("No available couriers")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tLAT\tLON\tWORK H\tACTIVE H\tEARNINGS")
	for _, c := range couriers {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%.2f\t%.2f\t%.2f\n",
			c.ID(), c.Status(), c.Location().Lat, c.Location().Lon,
			c.WorkHours(), c.ActiveHours(), c.Earnings())
	}
	return w.Flush()
}

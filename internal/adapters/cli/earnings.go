package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/work4food-go/internal/application/earnings"
)

// NewEarningsCommand creates the earnings command with subcommands
func NewEarningsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "earnings",
		Short: "Earnings projections",
		Long: `Project courier and platform earnings at the current guarantee ratio.

These are mid-period projections; the authoritative settlement happens at
"payments finalize".

Examples:
  dispatchctl earnings courier --id courier-7
  dispatchctl earnings platform`,
	}

	cmd.AddCommand(newEarningsCourierCommand())
	cmd.AddCommand(newEarningsPlatformCommand())

	return cmd
}

func newEarningsCourierCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "courier",
		Short: "Project one courier's earnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEarningsCourier(id)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Courier identifier [required]")
	cmd.MarkFlagRequired("id")

	return cmd
}

func newEarningsPlatformCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "platform",
		Short: "Project platform-wide payout cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEarningsPlatform()
		},
	}
}

func runEarningsCourier(id string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := a.ctx()
	predictor, err := a.predictor(ctx)
	if err != nil {
		return err
	}

	svc := earnings.NewService(a.couriers, predictor, a.cfg.Dispatch.PayPerHour)
	s, err := svc.CourierSummary(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Courier:           %s (%s)\n", s.CourierID, s.Status)
	fmt.Printf("Work hours:        %.2f\n", s.WorkHours)
	fmt.Printf("Active hours:      %.2f\n", s.ActiveHours)
	fmt.Printf("Earnings:          %.2f\n", s.Earnings)
	fmt.Printf("Guaranteed hours:  %.2f (omega %.4f)\n", s.GuaranteedHours, s.Omega)
	fmt.Printf("Projected handout: %.2f\n", s.ProjectedHandout)
	fmt.Printf("Projected pay:     %.2f\n", s.ProjectedPay)
	fmt.Printf("Effective wage:    %.2f/h\n", s.EffectiveWage)
	return nil
}

func runEarningsPlatform() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := a.ctx()
	predictor, err := a.predictor(ctx)
	if err != nil {
		return err
	}

	svc := earnings.NewService(a.couriers, predictor, a.cfg.Dispatch.PayPerHour)
	s, err := svc.PlatformSummary(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Active couriers:    %d\n", s.Couriers)
	fmt.Printf("Total work hours:   %.2f\n", s.TotalWorkHours)
	fmt.Printf("Total active hours: %.2f\n", s.TotalActiveHours)
	fmt.Printf("Total earnings:     %.2f\n", s.TotalEarnings)
	fmt.Printf("Projected handout:  %.2f (omega %.4f)\n", s.ProjectedHandout, s.Omega)
	fmt.Printf("Projected cost:     %.2f\n", s.ProjectedCost)
	return nil
}

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	appdispatch "github.com/andrescamacho/work4food-go/internal/application/dispatch"
)

// NewPaymentsCommand creates the payments command with subcommands
func NewPaymentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "End-of-period payment operations",
		Long: `Settle guarantee handouts at the end of a pay period.

Finalization computes, for every courier with active hours, the shortfall
between guaranteed hours and accumulated work hours, pays it out at the
hourly rate and reports minimum-wage violations. Running it twice is safe:
handouts are recomputed, not accumulated.

Examples:
  dispatchctl payments finalize
  dispatchctl payments finalize --omega 0.3`,
	}

	cmd.AddCommand(newPaymentsFinalizeCommand())

	return cmd
}

func newPaymentsFinalizeCommand() *cobra.Command {
	var omega float64

	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "Finalize guarantee handouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var override *float64
			if cmd.Flags().Changed("omega") {
				override = &omega
			}
			return runPaymentsFinalize(override)
		},
	}

	cmd.Flags().Float64Var(&omega, "omega", 0, "Override the guarantee ratio (default: last batch's ratio)")

	return cmd
}

func runPaymentsFinalize(omegaOverride *float64) error {
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

	finalizer := appdispatch.NewPaymentFinalizer(a.couriers, predictor,
		appdispatch.FinalizerConfig{
			PayPerHour: a.cfg.Dispatch.PayPerHour,
			MinWage:    a.cfg.Dispatch.MinWage,
		})

	summary, err := finalizer.Finalize(ctx, omegaOverride)
	if err != nil {
		return fmt.Errorf("finalization failed: %w", err)
	}

	fmt.Printf("Payments finalized for %d couriers (omega %.4f)\n",
		summary.Couriers, summary.OmegaFinal)
	fmt.Printf("  Earnings:   %.2f\n", summary.TotalEarnings)
	fmt.Printf("  Handouts:   %.2f\n", summary.TotalHandouts)
	fmt.Printf("  Total cost: %.2f\n", summary.PlatformCost)
	if summary.MinWageViolations > 0 {
		fmt.Printf("  WARNING: %d couriers below minimum wage\n", summary.MinWageViolations)
	}

	if len(summary.Payouts) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COURIER\tWORK H\tACTIVE H\tEARNINGS\tHANDOUT\tTOTAL\tEFF. WAGE\tMIN WAGE")
	for _, p := range summary.Payouts {
		flag := ""
		if p.MinWageViolation {
			flag = "VIOLATION"
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			p.CourierID, p.WorkHours, p.ActiveHours, p.Earnings,
			p.Handout, p.TotalPay, p.EffectiveWage, flag)
	}
	return w.Flush()
}

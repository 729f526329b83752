package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	appdispatch "github.com/andrescamacho/work4food-go/internal/application/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/matching"
)

// NewBatchCommand creates the batch command with subcommands
func NewBatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Batch assignment operations",
		Long: `Trigger assignment batches and inspect batch history.

The dispatch daemon runs batches on a fixed cadence; "batch run" triggers
one manually for the current window, which is useful for testing and for
catching up after daemon downtime. Re-running an already processed window
is a no-op.

Examples:
  dispatchctl batch run
  dispatchctl batch history --limit 10`,
	}

	cmd.AddCommand(newBatchRunCommand())
	cmd.AddCommand(newBatchHistoryCommand())

	return cmd
}

func newBatchRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process the current assignment window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatchRun()
		},
	}
}

func newBatchHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent batch records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatchHistory(limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records to show")

	return cmd
}

func runBatchRun() error {
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

	processor := appdispatch.NewBatchProcessor(
		a.orders, a.couriers, a.batches,
		matching.NewAssignmentEngine(a.estimator()),
		predictor,
		appdispatch.ProcessorConfig{
			WindowMinutes:       a.cfg.Dispatch.BatchWindowMinutes,
			CarryForwardPending: a.cfg.Dispatch.CarryForwardPending,
		},
		a.clock,
		nil,
	)

	result, err := processor.ProcessBatch(ctx)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if result.AlreadyProcessed {
		fmt.Printf("Batch %s was already processed (%d/%d orders assigned)\n",
			result.BatchID, result.AssignedOrders, result.TotalOrders)
		return nil
	}

	fmt.Printf("Batch %s processed\n", result.BatchID)
	fmt.Printf("  Window:    %s - %s\n",
		result.WindowStart.Format("15:04:05"), result.WindowEnd.Format("15:04:05"))
	fmt.Printf("  Orders:    %d assigned / %d total\n", result.AssignedOrders, result.TotalOrders)
	fmt.Printf("  Couriers:  %d available\n", result.AvailableCouriers)
	fmt.Printf("  Omega:     %.4f\n", result.OmegaUsed)
	if result.Conflicts > 0 {
		fmt.Printf("  Conflicts: %d assignments skipped\n", result.Conflicts)
	}
	return nil
}

func runBatchHistory(limit int) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	records, err := a.batches.RecentBatches(a.ctx(), limit)
	if err != nil {
		return fmt.Errorf("failed to load batch history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No batches recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BATCH\tWINDOW START\tASSIGNED\tTOTAL\tOMEGA")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4f\n",
			r.BatchID, r.WindowStart.Format("2006-01-02 15:04:05"),
			r.AssignedOrders, r.TotalOrders, r.OmegaUsed)
	}
	return w.Flush()
}

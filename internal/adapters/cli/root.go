package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dispatchctl",
		Short: "dispatchctl - Operate the fair dispatch platform",
		Long: `dispatchctl provides commands to operate the delivery dispatch platform.
Commands act directly against the configured database; the batch scheduler
itself runs inside the dispatch daemon.

Examples:
  dispatchctl courier register --id courier-7 --lat 12.97 --lon 77.59
  dispatchctl order create --pickup-lat 12.97 --pickup-lon 77.59 --dropoff-lat 12.93 --dropoff-lon 77.61
  dispatchctl order pickup --order a1b2c3 --courier courier-7
  dispatchctl batch run
  dispatchctl batch history --limit 10
  dispatchctl payments finalize
  dispatchctl earnings platform`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ./config.yaml, ./configs, /etc/work4food)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewCourierCommand())
	rootCmd.AddCommand(NewOrderCommand())
	rootCmd.AddCommand(NewBatchCommand())
	rootCmd.AddCommand(NewPaymentsCommand())
	rootCmd.AddCommand(NewEarningsCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

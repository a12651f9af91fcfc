package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stockforge",
	Short: "Stockforge - inventory management backend",
	Long: `Stockforge is the backend for a role-gated inventory management
system: a product catalog organized as category > type > product, an
append-only stock movement ledger that keeps on-hand quantities and
extended totals consistent, purchase orders, and aggregate reports
for dashboard charts.

Run the HTTP API with "run", create the schema with "setup", and
verify connectivity with "check".`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

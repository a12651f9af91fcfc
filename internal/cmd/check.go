package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockforge/stockforge/internal/config"
	"github.com/stockforge/stockforge/internal/database"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check database connectivity and table state",
	Long: `Pings the configured database and prints the row count of every
inventory table. Useful after setup to verify the schema exists and
seeding worked.`,
	RunE: checkDatabase,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkDatabase(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 Checking database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Println("✅ Connection OK")

	counts, err := db.TableCounts()
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}

	for _, table := range database.Tables() {
		fmt.Printf("   %-10s %d rows\n", table, counts[table])
	}

	return nil
}

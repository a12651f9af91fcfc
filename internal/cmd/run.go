package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockforge/stockforge/internal/cache"
	"github.com/stockforge/stockforge/internal/config"
	"github.com/stockforge/stockforge/internal/database"
	"github.com/stockforge/stockforge/internal/server"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Stockforge API server",
	Long: `Start the Stockforge API server which provides:
- role-gated REST API for the catalog, ledger and purchase orders
- aggregate report endpoints backing the dashboard charts
- optional redis caching of report payloads`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 Stockforge Starting...")

	fmt.Println("📝 Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("🔌 Connecting to database...")
	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Println("✅ Database connected successfully")

	reportCache, err := cache.New(cfg.Redis.Addr, cfg.Report.CacheTTL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	if reportCache != nil {
		fmt.Println("✅ Report cache connected")
		defer reportCache.Close()
	}

	fmt.Println("⚙️  Setting up server...")
	srv := server.NewServer(db, cfg, reportCache)

	fmt.Printf("🌐 Starting server on %s...\n", cfg.Server.Addr)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

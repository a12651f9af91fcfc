package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockforge/stockforge/internal/config"
	"github.com/stockforge/stockforge/internal/database"
	"github.com/stockforge/stockforge/internal/models"
)

var (
	dropFirst     bool
	schemaOnly    bool
	adminPassword string
	withDemoData  bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the inventory schema and seed the admin account",
	Long: `Creates the inventory tables (accounts, suppliers, category, type,
products, stockin, stockout, orders) and seeds the initial admin
account. With --demo-data a small sample catalog is inserted so the
dashboard has something to chart.`,
	RunE: setupSchema,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&dropFirst, "drop-first", false, "Drop existing tables before creating")
	setupCmd.Flags().BoolVar(&schemaOnly, "schema-only", false, "Create schema only, skip the admin seed")
	setupCmd.Flags().StringVar(&adminPassword, "admin-password", "", "Password for the seeded admin account")
	setupCmd.Flags().BoolVar(&withDemoData, "demo-data", false, "Seed a small sample catalog")
}

func setupSchema(cmd *cobra.Command, args []string) error {
	fmt.Println("🔧 Setting up the inventory database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if dropFirst {
		fmt.Println("🗑️  Dropping existing tables...")
		if err := db.DropSchema(); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	fmt.Println("📋 Creating schema...")
	if err := db.SetupSchema(); err != nil {
		return fmt.Errorf("failed to setup schema: %w", err)
	}

	if !schemaOnly {
		if adminPassword == "" {
			return fmt.Errorf("--admin-password is required unless --schema-only is set")
		}
		fmt.Println("👤 Seeding admin account...")
		if err := seedAdmin(db, adminPassword); err != nil {
			return fmt.Errorf("failed to seed admin account: %w", err)
		}
	}

	if withDemoData {
		fmt.Println("📊 Seeding sample catalog...")
		if err := seedDemoCatalog(db); err != nil {
			return fmt.Errorf("failed to seed sample catalog: %w", err)
		}
	}

	fmt.Println("✅ Database setup complete!")
	return nil
}

func seedAdmin(db *database.DB, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO accounts (username, password_hash, fname, lname, role)
		VALUES ('admin', ?, 'System', 'Administrator', ?)
		ON DUPLICATE KEY UPDATE password_hash = VALUES(password_hash)
	`, string(hash), models.RoleAdmin)
	return err
}

func seedDemoCatalog(db *database.DB) error {
	categories := map[string][]string{
		"Components":  {"Processors", "Memory", "Storage"},
		"Peripherals": {"Keyboards", "Monitors"},
	}

	for category, types := range categories {
		res, err := db.Exec(`
			INSERT INTO category (name) VALUES (?)
			ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)
		`, category)
		if err != nil {
			return err
		}
		categoryID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for _, typeName := range types {
			if _, err := db.Exec(`
				INSERT INTO `+"`type`"+` (name, category_id) VALUES (?, ?)
				ON DUPLICATE KEY UPDATE name = name
			`, typeName, categoryID); err != nil {
				return err
			}
		}
	}

	return nil
}

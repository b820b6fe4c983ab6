package cli

import (
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/pengu/internal/config"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/database"
	"github.com/ahmetcoskunkizilkaya/pengu/internal/logging"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup()
		db, err := openDB(config.Load())
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		slog.Info("migration completed")
		return nil
	},
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" && cfg.DBPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD or DATABASE_URL environment variable is required")
	}
	return database.Open(cfg.DSN())
}

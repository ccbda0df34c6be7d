package cmd

import (
	"log"

	"irrigation-manager/core/config"
	"irrigation-manager/core/database"
	"irrigation-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// dbcheckCmd represents the dbcheck command
var dbcheckCmd = &cobra.Command{
	Use:   "dbcheck",
	Short: "Verify the database schema invariants",
	Long: `Inspects the connected database and verifies the structural
requirements the application depends on, most importantly the unique
index on irrigation_records.local_id that makes batch sync idempotent.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}

		failed := false
		for _, table := range []string{"farms", "sectors", "equipment", "users", "irrigation_records", "audit_entries", "outbox_events"} {
			columns, err := database.GetTableColumns(db, table)
			if err != nil || len(columns) == 0 {
				logg.Error("Table missing or unreadable", zap.String("table", table), zap.Error(err))
				failed = true
				continue
			}
			logg.Info("Table present", zap.String("table", table), zap.Int("columns", len(columns)))
		}

		unique, err := database.HasUniqueIndex(db, "irrigation_records", "local_id")
		if err != nil {
			logg.Fatal("Index inspection failed", zap.Error(err))
		}
		if !unique {
			logg.Error("Missing unique index on irrigation_records.local_id; concurrent syncs of the same key can duplicate records")
			failed = true
		} else {
			logg.Info("Unique index on irrigation_records.local_id verified")
		}

		if failed {
			logg.Fatal("Schema check failed; run the migrate command")
		}
		logg.Info("Schema check passed")
	},
}

func init() {
	RootCmd.AddCommand(dbcheckCmd)
}

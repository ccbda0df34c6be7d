package cmd

import (
	"log"

	"irrigation-manager/core/config"
	"irrigation-manager/core/database"
	"irrigation-manager/core/logger"
	"irrigation-manager/core/outbox"

	"irrigation-manager/feature/audit"
	catalogmodels "irrigation-manager/feature/catalog/models"
	"irrigation-manager/feature/irrigation"
	"irrigation-manager/feature/users"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var migrateSeed bool

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Runs the schema migrations for all application tables.
With --seed, inserts a small demo dataset (one farm with sectors,
equipment, and users) into an empty database.`,
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

		err = db.AutoMigrate(
			&catalogmodels.Farm{},
			&catalogmodels.Sector{},
			&catalogmodels.Equipment{},
			&users.User{},
			&irrigation.Record{},
			&audit.Entry{},
			&outbox.Event{},
		)
		if err != nil {
			logg.Fatal("Migration failed", zap.Error(err))
		}
		logg.Info("Migration complete")

		if migrateSeed {
			if err := seed(db); err != nil {
				logg.Fatal("Seeding failed", zap.Error(err))
			}
			logg.Info("Seed data inserted")
		}
	},
}

// seed inserts a demo dataset. It is a no-op when farms already exist.
func seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&catalogmodels.Farm{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		farm := catalogmodels.Farm{Name: "Demo Farm", Location: "Valley Road 1"}
		if err := tx.Create(&farm).Error; err != nil {
			return err
		}

		sectors := []catalogmodels.Sector{
			{FarmID: farm.ID, Name: "North Field", AreaHa: 2.5},
			{FarmID: farm.ID, Name: "South Field", AreaHa: 1.8},
		}
		if err := tx.Create(&sectors).Error; err != nil {
			return err
		}

		equipment := []catalogmodels.Equipment{
			{FarmID: farm.ID, Name: "Drip Line A", Kind: "drip", FlowRate: 5.0},
			{FarmID: farm.ID, Name: "Drip Line B", Kind: "drip", FlowRate: 3.5},
		}
		if err := tx.Create(&equipment).Error; err != nil {
			return err
		}

		demoUsers := []users.User{
			{Username: "admin", FullName: "Administrator", Role: users.RoleAdmin},
			{Username: "operator1", FullName: "Field Operator", Role: users.RoleOperator},
		}
		return tx.Create(&demoUsers).Error
	})
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "insert demo data after migrating")
	RootCmd.AddCommand(migrateCmd)
}

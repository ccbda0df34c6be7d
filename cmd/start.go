package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"irrigation-manager/core/broker"
	"irrigation-manager/core/config"
	"irrigation-manager/core/database"
	"irrigation-manager/core/loader"
	"irrigation-manager/core/logger"
	"irrigation-manager/core/middleware/auth"
	"irrigation-manager/core/middleware/rayid"
	"irrigation-manager/core/outbox"
	"irrigation-manager/core/storage"

	"irrigation-manager/feature/audit"
	"irrigation-manager/feature/catalog"
	"irrigation-manager/feature/irrigation"
	"irrigation-manager/feature/sync"
	"irrigation-manager/feature/users"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title Irrigation Manager API
// @version 1.0
// @description API for farm drip-irrigation management and mobile sync.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the irrigation manager server",
	Long:  `Starts the HTTP server, the outbox dispatcher, and all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := cfg.Server.Validate(); err != nil {
			log.Fatalf("Invalid server configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Required)
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

		// 4. Initialize Storage (Optional)
		// Without it batches still sync; reports just aren't archived.
		var store storage.Client
		if s, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed, report archival disabled", zap.Error(err))
		} else if err := storage.EnsureBucket(cmd.Context(), s, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			logg.Warn("Report bucket unavailable, report archival disabled", zap.Error(err))
		} else {
			store = s
			logg.Info("Report archive ready", zap.String("bucket", cfg.Storage.Bucket))
		}

		// 5. Connect to Broker (Optional)
		var publisher broker.Publisher
		if cfg.Broker.Enabled() {
			p, err := broker.NewPublisher(cfg.Broker)
			if err != nil {
				logg.Warn("Optional broker connection failed, event publishing disabled", zap.Error(err))
			} else {
				publisher = p
				defer publisher.Close()
				logg.Info("Connected to broker", zap.String("host", cfg.Broker.Host))
			}
		}

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 7. Initialize Features
		mgr := loader.NewManager()

		catalogFeature := catalog.NewFeature(db, logg)
		usersFeature := users.NewFeature(db, logg)
		auditFeature := audit.NewFeature(db, logg)
		irrigationFeature := irrigation.NewFeature(db, logg)
		syncFeature := sync.NewFeature(db,
			catalogFeature.Service(),
			usersFeature.Service(),
			auditFeature.Service(),
			irrigationFeature.Repository(),
			logg,
			cfg.Broker.Topic,
			cfg.Server.ActorHeader,
		)

		mgr.Register(catalogFeature)
		mgr.Register(usersFeature)
		mgr.Register(auditFeature)
		mgr.Register(irrigationFeature)
		mgr.Register(syncFeature)

		// Middleware Registration
		// RayID must be first so every log line carries the trace id.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 8. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Start Outbox Dispatcher
		dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
		dispatcher := outbox.NewDispatcher(db, publisher, store, cfg.Storage.Bucket, logg, 5*time.Second)
		go dispatcher.Run(dispatcherCtx)

		// 10. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 11. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		stopDispatcher()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

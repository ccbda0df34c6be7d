package cmd

import (
	"fmt"
	"os"

	"irrigation-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "irrigation-manager",
	Short: "Irrigation Manager Service",
	Long: `Irrigation Manager is the backend for farm drip-irrigation operations.
It reconciles batches of offline-collected irrigation records, maintains the
farm catalog, and keeps an audit trail of every change.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting.
		// Debug level selects the dev config with ISO8601 timestamps,
		// which reads better for a CLI than epoch seconds.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

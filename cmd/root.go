package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/golive-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "golive",
	Short: "Go-live quality and timeline estimation",
	Long:  "Models a six-phase ERP go-live: cascades phase delays, scores data quality and project health, and estimates realistic go-live dates via Monte Carlo simulation.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

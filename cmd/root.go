package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nexsupply/report-core/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "report-core",
	Short: "Sourcing report evidence toolkit",
	Long:  "Resolves unit weights, grades data quality, and extracts confirmed facts for sourcing reports, falling back from user input through label OCR and vision inference to category defaults.",
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

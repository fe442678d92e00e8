package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Preet37/Loomin/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "loomin",
	Short: "Notes-to-simulation backend",
	Long:  "Turns free-text study notes into 3D simulation parameters: direct pattern extraction with an LLM fallback, deterministic physics evaluation, cached by note text.",
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

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/pkg/config"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "daily-finance",
	Short:         "Fetch market snapshots and build the daily finance report",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadWithEnv(configPath)
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")
	rootCmd.AddCommand(buildCmd, fetchCmd, analyzeCmd, dailyCmd, serveCmd, reportsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if hint := diagnose(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}

// diagnose explains environment failures that stop a run.
func diagnose(err error) string {
	switch {
	case errors.Is(err, models.ErrMissingCredential):
		return "set the API key in the environment or .env (FINNHUB_API_KEY, ANTHROPIC_API_KEY)"
	case errors.Is(err, models.ErrOutputDir):
		return "check that the output directory (paths.output_dir / OUTPUT_DIR) is writable"
	}
	return ""
}

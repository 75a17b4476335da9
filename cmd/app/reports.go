package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kiwitwitter/daily-finance/internal/di"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List the rendered reports in the output directory",
	RunE:  runReports,
}

func runReports(cmd *cobra.Command, args []string) error {
	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}
	defer cleanup()

	entries, err := app.Index.List()
	if err != nil {
		return err
	}
	writeReportsTable(cmd.OutOrStdout(), entries)
	return nil
}

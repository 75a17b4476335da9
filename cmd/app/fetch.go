package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kiwitwitter/daily-finance/internal/di"
	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [source...]",
	Short: "Fetch snapshots from the market data sources",
	Long:  `Fetches the named sources (options, news, ratings, calendar, earnings, stock_info), or all of them when none is given.`,
	RunE:  runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	names := make([]models.SnapshotName, 0, len(args))
	for _, a := range args {
		n, err := models.ParseSnapshotName(a)
		if err != nil {
			return err
		}
		names = append(names, n)
	}

	app, cleanup, err := di.InitializePipelineApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}
	defer cleanup()

	results, err := app.Pipeline.Collector.Collect(cmd.Context(), names...)
	writeFetchTable(cmd.OutOrStdout(), results)
	return err
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kiwitwitter/daily-finance/internal/di"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Run the full daily pipeline once: fetch, analyze, build",
	RunE:  runDaily,
}

func runDaily(cmd *cobra.Command, args []string) error {
	app, cleanup, err := di.InitializePipelineApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}
	defer cleanup()

	res, err := app.Pipeline.Job.RunOnce(cmd.Context())
	out := cmd.OutOrStdout()
	if res != nil {
		fmt.Fprintf(out, "run %s\n", res.RunID)
		writeFetchTable(out, res.Fetches)
		for _, p := range res.Reports {
			fmt.Fprintln(out, p)
		}
	}
	return err
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kiwitwitter/daily-finance/internal/di"
	"github.com/Kiwitwitter/daily-finance/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the rendered reports over HTTP",
	Long:  `Starts the report server. With --schedule the daily pipeline also runs on the configured cron schedule.`,
	RunE:  runServe,
}

var serveSchedule bool

func init() {
	serveCmd.Flags().BoolVar(&serveSchedule, "schedule", false, "run the daily job on scheduler.cron")
}

func runServe(cmd *cobra.Command, args []string) error {
	var (
		app     *server.App
		cleanup func()
		err     error
	)
	if serveSchedule {
		app, cleanup, err = di.InitializePipelineApp(cfg)
	} else {
		app, cleanup, err = di.InitializeApp(cfg)
	}
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}
	defer cleanup()

	return app.Serve(cmd.Context())
}

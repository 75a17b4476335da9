package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kiwitwitter/daily-finance/internal/di"
	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render reports from the stored snapshots",
	Long:  `Builds the combined, premarket, options or both report views from the snapshot documents in the data directory.`,
	RunE:  runBuild,
}

var (
	buildType string
	buildDate string
)

func init() {
	buildCmd.Flags().StringVar(&buildType, "type", string(models.BuildCombined), "report type: combined, premarket, options or both")
	buildCmd.Flags().StringVar(&buildDate, "date", "", "report date YYYY-MM-DD (default today in the report time zone)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	kind, err := models.ParseBuildKind(buildType)
	if err != nil {
		return err
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}
	defer cleanup()

	date := buildDate
	if date == "" {
		date = app.Builder.Today()
	}
	paths, err := app.Builder.BuildForDate(cmd.Context(), kind, date, nil)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kiwitwitter/daily-finance/internal/di"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize the day's snapshots into the report digest",
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	analyzer, cleanup, err := di.InitializeAnalyzer(cfg)
	if err != nil {
		return fmt.Errorf("analyzer initialization failed: %w", err)
	}
	defer cleanup()

	res := analyzer.Analyze(cmd.Context())
	out := cmd.OutOrStdout()
	if res.Enriched {
		fmt.Fprintf(out, "digest from %s\n", res.Provider)
	} else {
		fmt.Fprintln(out, "fallback digest (not persisted)")
	}
	writeDigestTable(out, res.Digest)
	return nil
}

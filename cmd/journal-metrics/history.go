// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/journal-metrics/internal/history"
	"github.com/pdiddy/journal-metrics/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [issn]",
	Short: "List stored analyses for a journal",
	Long: `History lists past analysis runs recorded with 'analyze --save',
newest first.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", history.DefaultLimit, "maximum number of runs to list")
	historyCmd.Flags().String("history-dir", defaultHistoryDir, "analysis history directory")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	dir, _ := cmd.Flags().GetString("history-dir")

	store, err := history.Open(types.HistoryConfig{Dir: dir})
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.List(context.Background(), args[0], limit)
	if err != nil {
		return err
	}
	FormatHistoryTable(results, os.Stdout)
	return nil
}

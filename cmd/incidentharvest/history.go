package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [--limit <n>]",
	Short: "Lists recorded harvest runs, newest first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := current.openHistory()
		if err != nil {
			return err
		}
		if history == nil {
			return errors.New("storage_config.history_db_path is not set")
		}
		defer history.Close()

		runs, err := history.ListRuns(historyLimit)
		if err != nil {
			return err
		}
		renderHistory(os.Stdout, runs)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list.")
	rootCmd.AddCommand(historyCmd)
}

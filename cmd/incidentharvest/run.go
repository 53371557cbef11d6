package main

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Captures credentials, harvests every incident and normalizes the snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		current.applyHarvestFlags()
		current.applyNormalizeFlags()

		creds, err := current.loadOrCaptureCredentials(cmd.Context(), current.config.StorageConfig.CredentialsPath)
		if err != nil {
			return err
		}

		result, harvestErr := current.harvest(cmd.Context(), creds)
		if result == nil || result.SnapshotPath == "" {
			return harvestErr
		}

		// A partial snapshot is still normalized.
		if err := current.normalize(result.SnapshotPath); err != nil {
			return err
		}
		return harvestErr
	},
}

func init() {
	addHarvestFlags(runCmd)
	addNormalizeFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/scvsar/incidentharvest/internal/capture"
	"github.com/scvsar/incidentharvest/internal/common"
	"github.com/scvsar/incidentharvest/internal/datastore"
)

var captureSavePath string

var captureCmd = &cobra.Command{
	Use:   "capture [--save <credentials.json>]",
	Short: "Opens a browser, waits for login and records the API session credentials.",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := current.captureCredentials(cmd.Context())
		if err != nil {
			return err
		}

		renderCredentials(os.Stdout, creds)

		path := captureSavePath
		if path == "" {
			path = current.config.StorageConfig.CredentialsPath
		}
		if path == "" {
			current.logger.Warn().Msg("No credentials path configured; captured credentials are not saved")
			return nil
		}
		return datastore.NewCredentialsStore(current.logger).Save(path, creds)
	},
}

func init() {
	captureCmd.Flags().StringVar(&captureSavePath, "save", "", "Write captured credentials to this file. Defaults to storage_config.credentials_path.")
	rootCmd.AddCommand(captureCmd)
}

// captureCredentials runs one operator-assisted browser session.
func (a *app) captureCredentials(ctx context.Context) (*capture.Credentials, error) {
	defer common.LogResourceUsage(a.logger, "capture")

	launcher := capture.NewRodLauncher(a.config.BrowserConfig, a.logger)
	prompter := capture.NewTerminalPrompter(a.logger)
	capturer := capture.NewCapturer(a.config.CaptureConfig, launcher, prompter, a.logger)

	result, err := capturer.Capture(ctx)
	if err != nil {
		return nil, err
	}
	return result.Credentials, nil
}

// loadOrCaptureCredentials reuses a saved session when path names an existing
// file and falls back to a live capture otherwise.
func (a *app) loadOrCaptureCredentials(ctx context.Context, path string) (*capture.Credentials, error) {
	if path != "" && common.NewFileManager(a.logger).FileExists(path) {
		creds, err := datastore.NewCredentialsStore(a.logger).Load(path)
		if err != nil {
			return nil, err
		}
		a.logger.Info().
			Str("path", path).
			Time("captured_at", creds.CapturedAt).
			Msg("Using saved credentials")
		return creds, nil
	}

	creds, err := a.captureCredentials(ctx)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := datastore.NewCredentialsStore(a.logger).Save(path, creds); err != nil {
			a.logger.Warn().Err(err).Str("path", path).Msg("Could not save captured credentials")
		}
	}
	return creds, nil
}

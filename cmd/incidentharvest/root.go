package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/scvsar/incidentharvest/internal/capture"
	"github.com/scvsar/incidentharvest/internal/config"
	"github.com/scvsar/incidentharvest/internal/logger"
)

// app is the state shared by every subcommand once the root pre-run has
// loaded configuration and built the logger.
type app struct {
	runID  string
	config *config.GlobalConfig
	logger zerolog.Logger
}

var (
	current = &app{}

	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:           "incidentharvest",
	Short:         "Harvests D4H incident records into a local snapshot and normalizes them.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return current.setup(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML/JSON configuration file. Searches default locations when empty.")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log_config.log_level (debug, info, warn, error).")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override log_config.log_format (console, json, text).")
}

func (a *app) setup(cmd *cobra.Command) error {
	a.runID = uuid.NewString()

	bootstrap := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg, err := config.LoadGlobalConfig(configPath, bootstrap)
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogConfig.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogConfig.LogFormat = logFormat
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	zLogger, err := logger.NewWithRunID(cfg.LogConfig, a.runID)
	if err != nil {
		return fmt.Errorf("could not initialize logger: %w", err)
	}

	a.config = cfg
	a.logger = zLogger
	a.logger.Debug().Str("command", cmd.Name()).Msg("Configuration loaded")
	return nil
}

// ExecuteContext runs the CLI and returns the process exit code.
func ExecuteContext(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, capture.ErrNoMatchingRequest) {
			fmt.Fprintln(os.Stderr, "No API request was observed. Possible causes:")
			for _, cause := range capture.NoMatchCauses {
				fmt.Fprintln(os.Stderr, "  -", cause)
			}
		}
		return 1
	}
	return 0
}

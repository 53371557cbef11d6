package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/scvsar/incidentharvest/internal/common"
	"github.com/scvsar/incidentharvest/internal/datastore"
	"github.com/scvsar/incidentharvest/internal/normalizer"
)

var (
	normalizeCSVPath     string
	normalizeParquetPath string
	normalizeJSON        bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [snapshot.json]",
	Short: "Flattens a snapshot into a typed table, prints summary statistics and exports it.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := current.config.HarvestConfig.OutputPath
		if len(args) == 1 {
			path = args[0]
		}
		current.applyNormalizeFlags()
		return current.normalize(path)
	},
}

func init() {
	addNormalizeFlags(normalizeCmd)
	normalizeCmd.Flags().BoolVar(&normalizeJSON, "json", false, "Print the summary as JSON instead of a table.")
	rootCmd.AddCommand(normalizeCmd)
}

func addNormalizeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&normalizeCSVPath, "csv", "", "Write the normalized table as CSV. Defaults to storage_config.csv_path.")
	cmd.Flags().StringVar(&normalizeParquetPath, "parquet", "", "Write the normalized table as Parquet. Defaults to storage_config.parquet_path.")
}

func (a *app) applyNormalizeFlags() {
	if normalizeCSVPath != "" {
		a.config.StorageConfig.CSVPath = normalizeCSVPath
	}
	if normalizeParquetPath != "" {
		a.config.StorageConfig.ParquetPath = normalizeParquetPath
	}
}

func (a *app) normalize(snapshotPath string) error {
	defer common.LogResourceUsage(a.logger, "normalize")

	pipeline := normalizer.NewPipeline(a.config.NormalizeConfig, a.logger)
	table, err := pipeline.LoadAndProcess(snapshotPath)
	if err != nil {
		return err
	}
	summary := pipeline.Summarize(table)

	if normalizeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	} else {
		renderSummary(os.Stdout, summary)
	}

	storage := a.config.StorageConfig
	if storage.CSVPath != "" {
		data, err := normalizer.EncodeCSV(table)
		if err != nil {
			return err
		}
		if err := common.NewFileManager(a.logger).WriteFile(storage.CSVPath, data, common.DefaultFileWriteOptions()); err != nil {
			return common.WrapError(err, "failed to write CSV export")
		}
		a.logger.Info().Str("path", storage.CSVPath).Msg("CSV export written")
	}
	if storage.ParquetPath != "" {
		writer := datastore.NewTableParquetWriter(storage.CompressionCodec, a.logger)
		if err := writer.Write(table, storage.ParquetPath); err != nil {
			return err
		}
	}
	return nil
}

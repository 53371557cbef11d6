package config

// StorageConfig holds the locations of the side artifacts of a run. Empty
// paths disable the corresponding artifact.
type StorageConfig struct {
	CredentialsPath  string `json:"credentials_path,omitempty" yaml:"credentials_path,omitempty"`
	HistoryDBPath    string `json:"history_db_path,omitempty" yaml:"history_db_path,omitempty"`
	CSVPath          string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
	ParquetPath      string `json:"parquet_path,omitempty" yaml:"parquet_path,omitempty"`
	CompressionCodec string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty" validate:"omitempty,compression"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		CredentialsPath:  DefaultStorageCredentialsPath,
		HistoryDBPath:    DefaultStorageHistoryDBPath,
		CompressionCodec: DefaultStorageCompressionCodec,
	}
}

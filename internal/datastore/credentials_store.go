package datastore

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/capture"
	"github.com/scvsar/incidentharvest/internal/common"
)

// credentialsFileMode keeps captured session secrets private to the owner.
const credentialsFileMode = 0600

// CredentialsStore saves captured credentials between capture and harvest.
type CredentialsStore struct {
	files  *common.FileManager
	logger zerolog.Logger
}

// NewCredentialsStore creates a credentials store
func NewCredentialsStore(logger zerolog.Logger) *CredentialsStore {
	return &CredentialsStore{
		files:  common.NewFileManager(logger),
		logger: logger.With().Str("component", "CredentialsStore").Logger(),
	}
}

// Save writes creds to path with owner-only permissions.
func (s *CredentialsStore) Save(path string, creds *capture.Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	opts := common.DefaultFileWriteOptions()
	opts.Permissions = credentialsFileMode
	if err := s.files.WriteFile(path, data, opts); err != nil {
		return common.WrapError(err, "failed to save credentials")
	}

	s.logger.Info().Str("path", path).Int("headers", len(creds.Headers)).Msg("Credentials saved")
	return nil
}

// Load reads credentials previously written by Save.
func (s *CredentialsStore) Load(path string) (*capture.Credentials, error) {
	data, err := s.files.ReadFile(path, 1<<20)
	if err != nil {
		return nil, common.WrapError(err, "failed to load credentials")
	}

	var creds capture.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to decode credentials: %w", err)
	}
	if len(creds.Headers) == 0 && creds.Cookie == "" {
		return nil, common.NewValidationError("credentials", path, "file holds no headers or cookies")
	}
	if creds.Headers == nil {
		creds.Headers = map[string]string{}
	}

	s.logger.Debug().Str("path", path).Time("captured_at", creds.CapturedAt).Msg("Credentials loaded")
	return &creds, nil
}

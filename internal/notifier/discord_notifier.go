package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/common"
	"github.com/scvsar/incidentharvest/internal/config"
	"github.com/scvsar/incidentharvest/internal/httpclient"
	"github.com/scvsar/incidentharvest/internal/models"
)

// DiscordNotifier posts run summaries to a Discord webhook.
type DiscordNotifier struct {
	config     config.NotificationConfig
	httpClient *httpclient.HTTPClient
	logger     zerolog.Logger
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(cfg config.NotificationConfig, httpClient *httpclient.HTTPClient, logger zerolog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		config:     cfg,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "DiscordNotifier").Logger(),
	}
}

// Enabled reports whether a webhook is configured.
func (dn *DiscordNotifier) Enabled() bool {
	return dn.config.WebhookURL != ""
}

// NotifyRun sends summary unless notifications are off for its status.
func (dn *DiscordNotifier) NotifyRun(ctx context.Context, summary RunSummary) error {
	if !dn.Enabled() {
		dn.logger.Debug().Msg("Webhook URL is empty. Skipping Discord notification.")
		return nil
	}
	if summary.Status == models.RunStatusFailed && !dn.config.NotifyOnFailed {
		dn.logger.Debug().Str("run_id", summary.RunID).Msg("Notifications for failed runs are disabled")
		return nil
	}
	return dn.SendNotification(ctx, BuildRunPayload(summary, dn.config.MentionRoleIDs))
}

// SendNotification posts payload to the configured webhook.
func (dn *DiscordNotifier) SendNotification(ctx context.Context, payload DiscordMessagePayload) error {
	if _, err := url.ParseRequestURI(dn.config.WebhookURL); err != nil {
		return fmt.Errorf("invalid Discord webhook URL: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal discord payload: %w", err)
	}

	resp, err := dn.httpClient.PostJSON(ctx, dn.config.WebhookURL, body)
	if err != nil {
		dn.logger.Error().Err(err).Msg("Failed to send Discord notification")
		return common.WrapError(err, "failed to send discord notification")
	}
	if !resp.IsSuccess() {
		dn.logger.Error().Int("status_code", resp.StatusCode).Msg("Discord notification failed")
		return common.NewHTTPError(resp.StatusCode, "discord webhook", resp.Body)
	}

	dn.logger.Info().Int("status_code", resp.StatusCode).Msg("Discord notification sent successfully")
	return nil
}

package config

// NotificationConfig configures the optional Discord summary of a harvest run.
type NotificationConfig struct {
	WebhookURL     string   `json:"webhook_url,omitempty" yaml:"webhook_url,omitempty" validate:"omitempty,url"`
	NotifyOnFailed bool     `json:"notify_on_failed" yaml:"notify_on_failed"`
	MentionRoleIDs []string `json:"mention_role_ids,omitempty" yaml:"mention_role_ids,omitempty"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		NotifyOnFailed: true,
	}
}

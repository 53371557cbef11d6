package config

// CaptureConfig describes which page to open and which API call to watch for.
type CaptureConfig struct {
	PageURL          string   `json:"page_url" yaml:"page_url" validate:"required,url"`
	APIPrefix        string   `json:"api_prefix" yaml:"api_prefix" validate:"required,url"`
	HeaderAllowlist  []string `json:"header_allowlist,omitempty" yaml:"header_allowlist,omitempty" validate:"omitempty,dive,required"`
	RequesterHeader  string   `json:"requester_header,omitempty" yaml:"requester_header,omitempty"`
	EnableNudges     bool     `json:"enable_nudges" yaml:"enable_nudges"`
	SettleDelayMs    int      `json:"settle_delay_ms" yaml:"settle_delay_ms" validate:"min=0"`
	PostNudgeDelayMs int      `json:"post_nudge_delay_ms" yaml:"post_nudge_delay_ms" validate:"min=0"`
	MaxLoggedURLs    int      `json:"max_logged_urls,omitempty" yaml:"max_logged_urls,omitempty" validate:"omitempty,min=0"`
}

// NewDefaultCaptureConfig creates default capture configuration
func NewDefaultCaptureConfig() CaptureConfig {
	allowlist := make([]string, len(DefaultHeaderAllowlist))
	copy(allowlist, DefaultHeaderAllowlist)

	return CaptureConfig{
		PageURL:          DefaultCapturePageURL,
		APIPrefix:        DefaultCaptureAPIPrefix,
		HeaderAllowlist:  allowlist,
		RequesterHeader:  DefaultCaptureRequesterHeader,
		EnableNudges:     true,
		SettleDelayMs:    DefaultCaptureSettleDelayMs,
		PostNudgeDelayMs: DefaultCapturePostNudgeMs,
		MaxLoggedURLs:    DefaultCaptureMaxLoggedURLs,
	}
}

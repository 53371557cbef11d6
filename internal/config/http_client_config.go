package config

// HTTPClientConfig configures the client used to replay API calls.
type HTTPClientConfig struct {
	TimeoutSecs        int    `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=0"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	FollowRedirects    bool   `json:"follow_redirects" yaml:"follow_redirects"`
	MaxRedirects       int    `json:"max_redirects,omitempty" yaml:"max_redirects,omitempty" validate:"omitempty,min=0"`
	EnableHTTP2        bool   `json:"enable_http2" yaml:"enable_http2"`
	Proxy              string `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
}

// NewDefaultHTTPClientConfig returns client defaults. A zero timeout leaves the
// transport defaults in charge.
func NewDefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		TimeoutSecs:     DefaultHTTPClientTimeoutSecs,
		FollowRedirects: true,
		MaxRedirects:    DefaultHTTPClientMaxRedirects,
		EnableHTTP2:     true,
	}
}

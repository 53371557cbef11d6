package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"

	"github.com/scvsar/incidentharvest/internal/common"
	"github.com/scvsar/incidentharvest/internal/config"
)

// HTTPClientConfig holds the transport settings of an HTTPClient
type HTTPClientConfig struct {
	Timeout             time.Duration
	InsecureSkipVerify  bool
	FollowRedirects     bool
	MaxRedirects        int
	EnableHTTP2         bool
	Proxy               string
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	DialTimeout         time.Duration
}

// DefaultHTTPClientConfig returns the default transport settings. Timeout is
// zero: requests are bounded only by the dial and handshake timeouts.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		FollowRedirects:     true,
		MaxRedirects:        10,
		EnableHTTP2:         true,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialTimeout:         30 * time.Second,
	}
}

// ConfigFromSettings maps the file configuration onto client settings.
func ConfigFromSettings(cfg config.HTTPClientConfig) HTTPClientConfig {
	c := DefaultHTTPClientConfig()
	c.Timeout = time.Duration(cfg.TimeoutSecs) * time.Second
	c.InsecureSkipVerify = cfg.InsecureSkipVerify
	c.FollowRedirects = cfg.FollowRedirects
	c.MaxRedirects = cfg.MaxRedirects
	c.EnableHTTP2 = cfg.EnableHTTP2
	c.Proxy = cfg.Proxy
	return c
}

// HTTPRequest is a single outgoing request
type HTTPRequest struct {
	Method  string
	URL     string
	Query   url.Values
	Headers map[string]string
	Body    []byte
	Context context.Context
}

// HTTPResponse is a fully read response
type HTTPResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess reports a 2xx status
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HTTPClient wraps a resty client. It keeps no cookie jar: every request
// carries exactly the headers it is given.
type HTTPClient struct {
	client *resty.Client
	config HTTPClientConfig
	logger zerolog.Logger
}

// Config returns the settings the client was built with.
func (c *HTTPClient) Config() HTTPClientConfig {
	return c.config
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(cfg HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, common.WrapError(err, "failed to parse proxy URL")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		logger.Info().Str("proxy", cfg.Proxy).Msg("HTTP client configured with proxy")
	}

	if cfg.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		}
	}

	client := resty.New().
		SetTransport(transport).
		SetCookieJar(nil).
		SetTimeout(cfg.Timeout)

	client.SetLogger(restyLogger{logger: logger})

	switch {
	case !cfg.FollowRedirects:
		client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
	case cfg.MaxRedirects > 0:
		client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(cfg.MaxRedirects))
	}

	logger.Debug().
		Dur("timeout", cfg.Timeout).
		Bool("insecure_skip_verify", cfg.InsecureSkipVerify).
		Bool("follow_redirects", cfg.FollowRedirects).
		Bool("http2_enabled", cfg.EnableHTTP2).
		Msg("HTTP client created")

	return &HTTPClient{
		client: client,
		config: cfg,
		logger: logger,
	}, nil
}

// Do performs one request. Non-2xx responses are returned, not turned into
// errors; transport failures come back as *common.NetworkError.
func (c *HTTPClient) Do(req *HTTPRequest) (*HTTPResponse, error) {
	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	r := c.client.R().SetContext(ctx)
	for key, value := range req.Headers {
		r.SetHeader(key, value)
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(method, req.URL)
	if err != nil {
		return nil, common.NewNetworkError(req.URL, fmt.Sprintf("%s request failed", method), err)
	}

	headers := make(map[string]string, len(resp.Header()))
	for key, values := range resp.Header() {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	return &HTTPResponse{
		StatusCode: resp.StatusCode(),
		Headers:    headers,
		Body:       resp.Body(),
	}, nil
}

// Get issues a GET with the given query and headers.
func (c *HTTPClient) Get(ctx context.Context, rawURL string, query url.Values, headers map[string]string) (*HTTPResponse, error) {
	return c.Do(&HTTPRequest{
		Method:  http.MethodGet,
		URL:     rawURL,
		Query:   query,
		Headers: headers,
		Context: ctx,
	})
}

// PostJSON posts a JSON document, used for webhook notifications.
func (c *HTTPClient) PostJSON(ctx context.Context, rawURL string, body []byte) (*HTTPResponse, error) {
	return c.Do(&HTTPRequest{
		Method:  http.MethodPost,
		URL:     rawURL,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
		Context: ctx,
	})
}

// restyLogger routes resty's internal messages through zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}

package main

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/scvsar/incidentharvest/internal/config"
	"github.com/scvsar/incidentharvest/internal/httpclient"
)

// httpOverrides holds the command-line overrides of http_client_config. A nil
// field leaves the configured value alone.
type httpOverrides struct {
	timeout         *time.Duration
	insecure        *bool
	followRedirects *bool
	maxRedirects    *int
	http2           *bool
	proxy           *string
}

var (
	httpFlags httpOverrides

	flagTimeout      time.Duration
	flagInsecure     bool
	flagNoRedirects  bool
	flagMaxRedirects int
	flagNoHTTP2      bool
	flagProxy        string
)

func addHTTPFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.DurationVar(&flagTimeout, "timeout", 0, "Override http_client_config.timeout_secs for each API request (0 disables).")
	flags.BoolVar(&flagInsecure, "insecure", false, "Skip TLS certificate verification.")
	flags.BoolVar(&flagNoRedirects, "no-follow-redirects", false, "Do not follow HTTP redirects.")
	flags.IntVar(&flagMaxRedirects, "max-redirects", 0, "Override http_client_config.max_redirects.")
	flags.BoolVar(&flagNoHTTP2, "no-http2", false, "Disable HTTP/2 on the API transport.")
	flags.StringVar(&flagProxy, "proxy", "", "Route API requests through this proxy URL.")

	prev := cmd.PreRun
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		httpFlags = collectHTTPOverrides(cmd)
		if prev != nil {
			prev(cmd, args)
		}
	}
}

// collectHTTPOverrides keeps only the flags the operator actually set.
func collectHTTPOverrides(cmd *cobra.Command) httpOverrides {
	var o httpOverrides
	flags := cmd.Flags()
	if flags.Changed("timeout") {
		o.timeout = &flagTimeout
	}
	if flags.Changed("insecure") {
		o.insecure = &flagInsecure
	}
	if flags.Changed("no-follow-redirects") {
		follow := !flagNoRedirects
		o.followRedirects = &follow
	}
	if flags.Changed("max-redirects") {
		o.maxRedirects = &flagMaxRedirects
	}
	if flags.Changed("no-http2") {
		enabled := !flagNoHTTP2
		o.http2 = &enabled
	}
	if flags.Changed("proxy") {
		o.proxy = &flagProxy
	}
	return o
}

func (o httpOverrides) apply(b *httpclient.HTTPClientBuilder) *httpclient.HTTPClientBuilder {
	if o.timeout != nil {
		b.WithTimeout(*o.timeout)
	}
	if o.insecure != nil {
		b.WithInsecureSkipVerify(*o.insecure)
	}
	if o.followRedirects != nil {
		b.WithFollowRedirects(*o.followRedirects)
	}
	if o.maxRedirects != nil {
		b.WithMaxRedirects(*o.maxRedirects)
	}
	if o.http2 != nil {
		b.WithHTTP2(*o.http2)
	}
	if o.proxy != nil {
		b.WithProxy(*o.proxy)
	}
	return b
}

// buildHTTPClient starts from the configured settings and applies overrides.
func buildHTTPClient(settings config.HTTPClientConfig, overrides httpOverrides, logger zerolog.Logger) (*httpclient.HTTPClient, error) {
	builder := httpclient.NewHTTPClientBuilder(logger).
		WithConfig(httpclient.ConfigFromSettings(settings))
	return overrides.apply(builder).Build()
}

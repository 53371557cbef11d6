package capture

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/common"
	"github.com/scvsar/incidentharvest/internal/config"
)

// ErrNoMatchingRequest is returned when no request to the API prefix was
// observed before the operator finished the capture.
var ErrNoMatchingRequest = errors.New("no request matching the API prefix was observed")

// NoMatchCauses lists the usual reasons nothing was captured.
var NoMatchCauses = []string{
	"login was not completed",
	"the page did not load incident data",
	"the API endpoint has changed",
	"additional navigation or interaction was needed",
}

// Result is the outcome of one capture session.
type Result struct {
	Credentials  *Credentials
	ObservedURLs []string
}

// Capturer drives an operator-assisted browser session and records the
// credentials of the first API request the page makes.
type Capturer struct {
	config   config.CaptureConfig
	launcher Launcher
	prompter Prompter
	logger   zerolog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
	now      func() time.Time
}

// NewCapturer creates a capturer
func NewCapturer(cfg config.CaptureConfig, launcher Launcher, prompter Prompter, logger zerolog.Logger) *Capturer {
	return &Capturer{
		config:   cfg,
		launcher: launcher,
		prompter: prompter,
		logger:   logger.With().Str("component", "Capturer").Logger(),
		sleep:    sleepContext,
		now:      time.Now,
	}
}

// Capture opens the incidents page, waits for the operator to sign in and
// trigger traffic, then returns the captured credentials. The browser is
// closed on every path. When nothing matched, the returned Result still
// carries the observed URLs alongside ErrNoMatchingRequest.
func (c *Capturer) Capture(ctx context.Context) (*Result, error) {
	session, err := c.launcher.Launch(ctx)
	if err != nil {
		return nil, common.WrapError(err, "failed to launch browser")
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			c.logger.Warn().Err(closeErr).Msg("Failed to close browser cleanly")
		}
	}()

	c.logger.Info().Str("url", c.config.PageURL).Msg("Navigating to incidents page")
	if err := session.Open(ctx, c.config.PageURL); err != nil {
		return nil, common.WrapError(err, "failed to open incidents page")
	}

	if err := c.prompter.Checkpoint(ctx, loginCheckpointMessage); err != nil {
		return nil, err
	}
	c.warnIfLoginFormVisible(ctx, session)

	observer := NewRequestObserver(c.config.APIPrefix)
	stop, err := session.ObserveRequests(observer.Observe)
	if err != nil {
		return nil, common.WrapError(err, "failed to observe browser requests")
	}
	defer stop()

	c.logger.Info().Str("api_prefix", c.config.APIPrefix).Msg("Monitoring network requests")

	if c.config.EnableNudges {
		if err := c.nudge(ctx, session); err != nil {
			return nil, err
		}
	}

	if err := c.prompter.Checkpoint(ctx, triggerCheckpointMessage); err != nil {
		return nil, err
	}
	stop()

	urls := observer.URLs()
	c.logObservedURLs(urls)

	matched, ok := observer.Match()
	if !ok {
		c.logger.Error().Strs("possible_causes", NoMatchCauses).Msg("No API requests were captured")
		return &Result{ObservedURLs: urls}, ErrNoMatchingRequest
	}

	cookies, err := session.Cookies(ctx)
	if err != nil {
		return nil, err
	}

	creds := BuildCredentials(matched, cookies, c.config.HeaderAllowlist, c.now().UTC())
	c.logger.Info().
		Str("source_url", creds.SourceURL).
		Strs("headers", creds.HeaderNames()).
		Int("cookies", len(cookies)).
		Msg("Captured API credentials")

	if creds.Cookie == "" {
		c.logger.Warn().Msg("No cookies were captured; API calls may be rejected")
	}
	if c.config.RequesterHeader != "" && !creds.Has(c.config.RequesterHeader) {
		c.logger.Warn().Str("header", c.config.RequesterHeader).Msg("Requester header was not captured; API calls may be rejected")
	}

	return &Result{Credentials: creds, ObservedURLs: urls}, nil
}

// nudge tries to make the page issue API calls on its own. Script failures
// are expected after client-side navigation and only logged.
func (c *Capturer) nudge(ctx context.Context, session Session) error {
	if err := session.Evaluate(ctx, fetchIncidentsScript); err != nil {
		c.logger.Debug().Err(err).Msg("Fetch script failed; waiting for page to settle")
		if err := session.WaitIdle(ctx); err != nil {
			c.logger.Debug().Err(err).Msg("Page did not go idle")
		}
	}
	if err := c.sleep(ctx, time.Duration(c.config.SettleDelayMs)*time.Millisecond); err != nil {
		return err
	}

	if err := session.Evaluate(ctx, refreshAndScrollScript); err != nil {
		c.logger.Debug().Err(err).Msg("Refresh script failed")
		return nil
	}
	return c.sleep(ctx, time.Duration(c.config.PostNudgeDelayMs)*time.Millisecond)
}

func (c *Capturer) warnIfLoginFormVisible(ctx context.Context, session Session) {
	html, err := session.HTML(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Could not read page HTML")
		return
	}
	visible, err := DetectLoginForm(html)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Could not inspect page for a login form")
		return
	}
	if visible {
		c.logger.Warn().Msg("A login form is still visible; sign-in may not be complete")
	}
}

func (c *Capturer) logObservedURLs(urls []string) {
	c.logger.Info().Int("count", len(urls)).Msg("Observed network requests")

	limit := c.config.MaxLoggedURLs
	if limit <= 0 || limit > len(urls) {
		limit = len(urls)
	}
	for i, u := range urls[:limit] {
		c.logger.Info().Int("index", i+1).Str("url", u).Msg("Observed request")
	}
	if len(urls) > limit {
		c.logger.Info().Int("not_shown", len(urls)-limit).Msg("Further observed requests omitted")
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

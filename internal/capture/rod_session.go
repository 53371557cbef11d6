package capture

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/common"
	"github.com/scvsar/incidentharvest/internal/config"
)

// RodLauncher starts a Chromium instance through go-rod.
type RodLauncher struct {
	config config.BrowserConfig
	logger zerolog.Logger
}

// NewRodLauncher creates a launcher for the configured browser
func NewRodLauncher(cfg config.BrowserConfig, logger zerolog.Logger) *RodLauncher {
	return &RodLauncher{
		config: cfg,
		logger: logger.With().Str("component", "RodLauncher").Logger(),
	}
}

// Launch starts the browser and opens a blank page. Cancelling ctx while the
// browser process is starting aborts the launch.
func (rl *RodLauncher) Launch(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := rl.newLauncher(ctx)

	controlURL, err := l.Launch()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			l.Cleanup()
			return nil, ctxErr
		}
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	rl.logger.Info().Bool("headless", rl.config.Headless).Msg("Browser launched")

	return &rodSession{
		launcher:    l,
		browser:     browser,
		page:        page,
		loadTimeout: time.Duration(rl.config.PageLoadTimeoutSecs) * time.Second,
		logger:      rl.logger,
	}, nil
}

// newLauncher builds the process launcher, bound to ctx.
func (rl *RodLauncher) newLauncher(ctx context.Context) *launcher.Launcher {
	l := launcher.New().
		Context(ctx).
		Headless(rl.config.Headless)

	if rl.config.ChromePath != "" {
		l = l.Bin(rl.config.ChromePath)
	}

	if rl.config.UserDataDir != "" {
		l = l.UserDataDir(rl.config.UserDataDir)
	}

	l = l.
		Set("no-first-run").
		Set("disable-default-apps").
		Set("disable-sync")

	if rl.config.WindowWidth > 0 && rl.config.WindowHeight > 0 {
		l = l.Set("window-size", fmt.Sprintf("%d,%d", rl.config.WindowWidth, rl.config.WindowHeight))
	}

	for _, arg := range rl.config.BrowserArgs {
		name, values := parseBrowserArg(arg)
		if name == "" {
			continue
		}
		l = l.Set(flags.Flag(name), values...)
	}
	return l
}

// parseBrowserArg splits "--name=value" (or "name") into a flag and its values.
func parseBrowserArg(arg string) (string, []string) {
	arg = strings.TrimLeft(strings.TrimSpace(arg), "-")
	name, value, found := strings.Cut(arg, "=")
	if !found {
		return name, nil
	}
	return name, []string{value}
}

type rodSession struct {
	launcher    *launcher.Launcher
	browser     *rod.Browser
	page        *rod.Page
	loadTimeout time.Duration
	logger      zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

func (s *rodSession) timed(ctx context.Context) (*rod.Page, func()) {
	p := s.page.Context(ctx)
	if s.loadTimeout <= 0 {
		return p, func() {}
	}
	p = p.Timeout(s.loadTimeout)
	return p, func() { p.CancelTimeout() }
}

func (s *rodSession) Open(ctx context.Context, pageURL string) error {
	p, cancel := s.timed(ctx)
	defer cancel()

	if err := p.Navigate(pageURL); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", pageURL, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("failed waiting for page load: %w", err)
	}
	return nil
}

func (s *rodSession) ObserveRequests(handler func(ObservedRequest)) (func(), error) {
	if err := (proto.NetworkEnable{}).Call(s.page); err != nil {
		return nil, fmt.Errorf("failed to enable network events: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wait := s.page.Context(ctx).EachEvent(func(e *proto.NetworkRequestWillBeSent) {
		headers := make(map[string]string, len(e.Request.Headers))
		for name, value := range e.Request.Headers {
			headers[name] = value.Str()
		}
		handler(ObservedRequest{
			URL:     e.Request.URL,
			Method:  e.Request.Method,
			Headers: headers,
		})
	})
	go wait()

	return cancel, nil
}

func (s *rodSession) Evaluate(ctx context.Context, script string) error {
	_, err := s.page.Context(ctx).Eval(script)
	return err
}

func (s *rodSession) WaitIdle(ctx context.Context) error {
	p, cancel := s.timed(ctx)
	defer cancel()
	return p.WaitIdle(s.loadTimeout)
}

func (s *rodSession) HTML(ctx context.Context) (string, error) {
	return s.page.Context(ctx).HTML()
}

func (s *rodSession) Cookies(ctx context.Context) ([]Cookie, error) {
	raw, err := s.browser.Context(ctx).GetCookies()
	if err != nil {
		return nil, fmt.Errorf("failed to read browser cookies: %w", err)
	}

	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		})
	}
	return cookies, nil
}

func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		var ec common.ErrorCollector
		ec.AddWithContext(s.page.Close(), "failed to close page")
		ec.AddWithContext(s.browser.Close(), "failed to close browser")
		s.launcher.Cleanup()
		s.closeErr = ec.Error()
		s.logger.Info().Msg("Browser closed")
	})
	return s.closeErr
}

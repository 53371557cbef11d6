package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu        sync.Mutex
	handler   func(ObservedRequest)
	onEval    []ObservedRequest
	html      string
	cookies   []Cookie
	evalErr   error
	openErr   error
	opened    string
	scripts   []string
	stopped   bool
	closeHits int
}

func (f *fakeSession) Open(ctx context.Context, pageURL string) error {
	f.opened = pageURL
	return f.openErr
}

func (f *fakeSession) ObserveRequests(handler func(ObservedRequest)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = handler
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.stopped = true
	}, nil
}

// emit delivers a request unless observation was stopped.
func (f *fakeSession) emit(req ObservedRequest) {
	f.mu.Lock()
	h, stopped := f.handler, f.stopped
	f.mu.Unlock()
	if h != nil && !stopped {
		h(req)
	}
}

func (f *fakeSession) Evaluate(ctx context.Context, script string) error {
	f.scripts = append(f.scripts, script)
	for _, req := range f.onEval {
		f.emit(req)
	}
	f.onEval = nil
	return f.evalErr
}

func (f *fakeSession) WaitIdle(ctx context.Context) error { return nil }

func (f *fakeSession) HTML(ctx context.Context) (string, error) { return f.html, nil }

func (f *fakeSession) Cookies(ctx context.Context) ([]Cookie, error) { return f.cookies, nil }

func (f *fakeSession) Close() error {
	f.closeHits++
	return nil
}

type fakeLauncher struct {
	session *fakeSession
	err     error
}

func (f *fakeLauncher) Launch(ctx context.Context) (Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

// scriptedPrompter runs a hook at each checkpoint and can fail a given one.
type scriptedPrompter struct {
	calls  int
	hooks  []func()
	failAt int
	err    error
}

func (p *scriptedPrompter) Checkpoint(ctx context.Context, message string) error {
	p.calls++
	if p.failAt == p.calls {
		return p.err
	}
	if p.calls <= len(p.hooks) && p.hooks[p.calls-1] != nil {
		p.hooks[p.calls-1]()
	}
	return nil
}

func newTestCapturer(session *fakeSession, prompter Prompter) *Capturer {
	cfg := config.NewDefaultCaptureConfig()
	cfg.APIPrefix = "https://example.test/api/v3"
	cfg.PageURL = "https://example.test/team/incidents"

	c := NewCapturer(cfg, &fakeLauncher{session: session}, prompter, zerolog.Nop())
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	c.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return c
}

func TestCapture_RecordsFirstAPIRequest(t *testing.T) {
	session := &fakeSession{
		cookies: []Cookie{{Name: "sid", Value: "abc"}},
		onEval: []ObservedRequest{
			{URL: "https://example.test/static/app.css"},
			{URL: "https://example.test/api/v3/incidents?x=1", Headers: map[string]string{
				"X-D4H-Requester": "r1",
				"Accept":          "application/json",
				"Sec-Ch-Ua":       "dropped",
			}},
		},
	}
	prompter := &scriptedPrompter{}
	c := newTestCapturer(session, prompter)

	result, err := c.Capture(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/team/incidents", session.opened)
	assert.Equal(t, 2, prompter.calls)
	assert.Equal(t, 1, session.closeHits)
	assert.True(t, session.stopped)
	assert.Equal(t, map[string]string{"x-d4h-requester": "r1", "accept": "application/json"}, result.Credentials.Headers)
	assert.Equal(t, "sid=abc", result.Credentials.Cookie)
	assert.Equal(t, "https://example.test/api/v3/incidents?x=1", result.Credentials.SourceURL)
	assert.Len(t, result.ObservedURLs, 2)
	assert.Len(t, session.scripts, 2)
}

func TestCapture_ManualTriggerDuringSecondCheckpoint(t *testing.T) {
	session := &fakeSession{}
	prompter := &scriptedPrompter{}
	prompter.hooks = []func(){nil, func() {
		session.emit(ObservedRequest{URL: "https://example.test/api/v3/incidents", Headers: map[string]string{"accept": "*/*"}})
	}}
	c := newTestCapturer(session, prompter)
	c.config.EnableNudges = false

	result, err := c.Capture(context.Background())
	require.NoError(t, err)
	assert.Empty(t, session.scripts)
	assert.Equal(t, "", result.Credentials.Cookie)
	assert.Equal(t, "*/*", result.Credentials.Headers["accept"])
}

func TestCapture_NoMatchingRequest(t *testing.T) {
	session := &fakeSession{
		evalErr: errors.New("execution context was destroyed"),
		onEval:  []ObservedRequest{{URL: "https://example.test/index.html"}},
	}
	c := newTestCapturer(session, &scriptedPrompter{})

	result, err := c.Capture(context.Background())
	assert.ErrorIs(t, err, ErrNoMatchingRequest)
	require.NotNil(t, result)
	assert.Nil(t, result.Credentials)
	assert.Equal(t, []string{"https://example.test/index.html"}, result.ObservedURLs)
	assert.Equal(t, 1, session.closeHits)
}

func TestCapture_CheckpointAbortClosesBrowser(t *testing.T) {
	session := &fakeSession{}
	prompter := &scriptedPrompter{failAt: 1, err: ErrCheckpointAborted}
	c := newTestCapturer(session, prompter)

	_, err := c.Capture(context.Background())
	assert.ErrorIs(t, err, ErrCheckpointAborted)
	assert.Equal(t, 1, session.closeHits)
}

func TestCapture_LaunchFailure(t *testing.T) {
	cfg := config.NewDefaultCaptureConfig()
	c := NewCapturer(cfg, &fakeLauncher{err: errors.New("no chrome")}, &scriptedPrompter{}, zerolog.Nop())

	_, err := c.Capture(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to launch browser")
}

func TestCapture_OpenFailureClosesBrowser(t *testing.T) {
	session := &fakeSession{openErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	c := newTestCapturer(session, &scriptedPrompter{})

	_, err := c.Capture(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, session.closeHits)
}

func TestParseBrowserArg(t *testing.T) {
	name, values := parseBrowserArg("--proxy-server=http://127.0.0.1:8080")
	assert.Equal(t, "proxy-server", name)
	assert.Equal(t, []string{"http://127.0.0.1:8080"}, values)

	name, values = parseBrowserArg("--incognito")
	assert.Equal(t, "incognito", name)
	assert.Nil(t, values)
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepContext(context.Background(), 0))
}

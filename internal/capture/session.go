package capture

import "context"

// ObservedRequest is an outgoing request seen on the browser page.
type ObservedRequest struct {
	URL     string
	Method  string
	Headers map[string]string
}

// Session is a live browser session the operator can interact with.
type Session interface {
	// Open navigates to pageURL and waits for the page to settle.
	Open(ctx context.Context, pageURL string) error
	// ObserveRequests calls handler for every request the page sends until
	// the returned stop function is called.
	ObserveRequests(handler func(ObservedRequest)) (stop func(), err error)
	// Evaluate runs a JavaScript function in the page.
	Evaluate(ctx context.Context, script string) error
	// WaitIdle waits for the page to go quiet.
	WaitIdle(ctx context.Context) error
	// HTML returns the current DOM serialized as HTML.
	HTML(ctx context.Context) (string, error)
	// Cookies returns every cookie held by the browser.
	Cookies(ctx context.Context) ([]Cookie, error)
	// Close releases the browser. It is safe to call more than once.
	Close() error
}

// Launcher starts browser sessions.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

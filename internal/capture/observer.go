package capture

import (
	"strings"
	"sync"
)

// RequestObserver records every observed URL and keeps the first request
// whose URL starts with the API prefix. Browser events arrive on another
// goroutine, so state is guarded.
type RequestObserver struct {
	prefix string

	mu      sync.Mutex
	urls    []string
	matched *ObservedRequest
}

// NewRequestObserver creates an observer for the given API URL prefix
func NewRequestObserver(prefix string) *RequestObserver {
	return &RequestObserver{prefix: prefix}
}

// Observe records req. Later matches never replace the first.
func (o *RequestObserver) Observe(req ObservedRequest) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.urls = append(o.urls, req.URL)
	if o.matched == nil && strings.HasPrefix(req.URL, o.prefix) {
		headers := make(map[string]string, len(req.Headers))
		for k, v := range req.Headers {
			headers[k] = v
		}
		o.matched = &ObservedRequest{URL: req.URL, Method: req.Method, Headers: headers}
	}
}

// Match returns the first matching request, if any.
func (o *RequestObserver) Match() (ObservedRequest, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.matched == nil {
		return ObservedRequest{}, false
	}
	return *o.matched, true
}

// URLs returns a copy of every observed URL in arrival order.
func (o *RequestObserver) URLs() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]string, len(o.urls))
	copy(out, o.urls)
	return out
}

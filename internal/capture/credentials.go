package capture

import (
	"sort"
	"strings"
	"time"
)

// CookieHeader is the header name under which joined cookies are replayed.
const CookieHeader = "cookie"

// Cookie is one browser cookie.
type Cookie struct {
	Name   string
	Value  string
	Domain string
	Path   string
}

// Credentials are the replayable parts of one authenticated browser request.
// They are valid only while the originating browser session is; nothing
// refreshes them.
type Credentials struct {
	Headers    map[string]string `json:"headers"`
	Cookie     string            `json:"cookie,omitempty"`
	SourceURL  string            `json:"source_url,omitempty"`
	CapturedAt time.Time         `json:"captured_at"`
}

// BuildCredentials keeps the allow-listed headers of req (matched
// case-insensitively, stored lower-case) and joins cookies into one string.
func BuildCredentials(req ObservedRequest, cookies []Cookie, allowlist []string, capturedAt time.Time) *Credentials {
	allowed := make(map[string]struct{}, len(allowlist))
	for _, name := range allowlist {
		allowed[strings.ToLower(name)] = struct{}{}
	}

	headers := make(map[string]string)
	for name, value := range req.Headers {
		lower := strings.ToLower(name)
		if _, ok := allowed[lower]; ok {
			headers[lower] = value
		}
	}

	return &Credentials{
		Headers:    headers,
		Cookie:     JoinCookies(cookies),
		SourceURL:  req.URL,
		CapturedAt: capturedAt,
	}
}

// JoinCookies serializes cookies as "name=value" pairs joined by "; ".
// Cookies without a name are skipped.
func JoinCookies(cookies []Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// RequestHeaders returns the headers to send with a replayed API call,
// including the cookie header when cookies were captured.
func (c *Credentials) RequestHeaders() map[string]string {
	out := make(map[string]string, len(c.Headers)+1)
	for name, value := range c.Headers {
		out[name] = value
	}
	if c.Cookie != "" {
		out[CookieHeader] = c.Cookie
	}
	return out
}

// Has reports whether the named header will be sent.
func (c *Credentials) Has(name string) bool {
	_, ok := c.RequestHeaders()[strings.ToLower(name)]
	return ok
}

// HeaderNames returns the sorted names of all headers that will be sent.
func (c *Credentials) HeaderNames() []string {
	headers := c.RequestHeaders()
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

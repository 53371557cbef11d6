package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildCredentials_FiltersHeaders(t *testing.T) {
	req := ObservedRequest{
		URL: "https://example.test/api/v3/incidents",
		Headers: map[string]string{
			"X-D4H-Requester": "team-1",
			"Accept":          "application/json",
			"Sec-Fetch-Mode":  "cors",
			"authorization":   "Bearer abc",
		},
	}
	cookies := []Cookie{{Name: "session", Value: "s1"}, {Name: "", Value: "ignored"}, {Name: "csrf", Value: "c2"}}

	creds := BuildCredentials(req, cookies, []string{"x-d4h-requester", "accept", "Authorization"}, time.Unix(0, 0))

	assert.Equal(t, map[string]string{
		"x-d4h-requester": "team-1",
		"accept":          "application/json",
		"authorization":   "Bearer abc",
	}, creds.Headers)
	assert.Equal(t, "session=s1; csrf=c2", creds.Cookie)
	assert.Equal(t, req.URL, creds.SourceURL)
}

func TestJoinCookies(t *testing.T) {
	tests := []struct {
		name     string
		cookies  []Cookie
		expected string
	}{
		{name: "none", cookies: nil, expected: ""},
		{name: "single", cookies: []Cookie{{Name: "a", Value: "1"}}, expected: "a=1"},
		{name: "empty value kept", cookies: []Cookie{{Name: "a", Value: ""}, {Name: "b", Value: "2"}}, expected: "a=; b=2"},
		{name: "unnamed skipped", cookies: []Cookie{{Value: "x"}}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinCookies(tt.cookies))
		})
	}
}

func TestCredentials_RequestHeaders(t *testing.T) {
	creds := &Credentials{Headers: map[string]string{"accept": "application/json"}, Cookie: "a=1"}

	headers := creds.RequestHeaders()
	assert.Equal(t, "a=1", headers[CookieHeader])
	assert.Equal(t, []string{"accept", "cookie"}, creds.HeaderNames())
	assert.True(t, creds.Has("Accept"))
	assert.False(t, creds.Has("x-d4h-requester"))

	noCookie := &Credentials{Headers: map[string]string{}}
	assert.NotContains(t, noCookie.RequestHeaders(), CookieHeader)
}

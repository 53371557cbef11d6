package harvester

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/capture"
	"github.com/scvsar/incidentharvest/internal/config"
	"github.com/scvsar/incidentharvest/internal/httpclient"
	"github.com/stretchr/testify/require"
)

// incidentServer is a fixture API serving total incidents ordered by id.
type incidentServer struct {
	total      int
	maxSize    int  // server-side cap on page size, 0 for none
	failPage   int  // page index answered with failStatus, -1 for none
	failStatus int  // status returned for failPage
	rejectAll  bool // answer every request with 500
	neverShort bool // always return a full page
	omitTotal  bool // leave totalCount out of responses

	mu       sync.Mutex
	requests []PageQuery
}

func newIncidentServer(total int) *incidentServer {
	return &incidentServer{total: total, failPage: -1, failStatus: http.StatusInternalServerError}
}

func (s *incidentServer) pageRequests() []PageQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PageQuery, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *incidentServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-D4h-Requester") != "test-requester" || r.Header.Get("Cookie") != "sid=abc" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	resource, q, err := DecodePassthrough(r.URL.Query().Get("passthrough"))
	if err != nil || resource != "/incidents" {
		http.Error(w, "bad passthrough", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, q)
	s.mu.Unlock()

	if s.rejectAll {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if q.Page == s.failPage {
		http.Error(w, "page unavailable", s.failStatus)
		return
	}

	size := q.Size
	if s.maxSize > 0 && size > s.maxSize {
		size = s.maxSize
	}

	start := q.Page * size
	end := start + size
	if !s.neverShort && end > s.total {
		end = s.total
	}

	results := make([]map[string]any, 0, size)
	for id := start; id < end; id++ {
		results = append(results, map[string]any{
			"id":          id,
			"createdAt":   fmt.Sprintf("2024-01-01T00:00:%02d.000Z", id%60),
			"description": fmt.Sprintf("incident %d", id),
		})
	}

	body := map[string]any{"results": results}
	if !s.omitTotal {
		body["totalCount"] = s.total
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func testCredentials() *capture.Credentials {
	return &capture.Credentials{
		Headers: map[string]string{"x-d4h-requester": "test-requester", "accept": "application/json"},
		Cookie:  "sid=abc",
	}
}

func testHarvestConfig(apiURL string, outputPath string) config.HarvestConfig {
	cfg := config.NewDefaultHarvestConfig()
	cfg.APIURL = apiURL
	cfg.OutputPath = outputPath
	return cfg
}

func newTestAPIClient(t *testing.T, fixture http.Handler, cfg config.HarvestConfig) (*APIClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(fixture)
	t.Cleanup(server.Close)

	cfg.APIURL = server.URL + "/api/v3"
	client, err := httpclient.NewHTTPClient(httpclient.DefaultHTTPClientConfig(), zerolog.Nop())
	require.NoError(t, err)

	return NewAPIClient(client, cfg, testCredentials(), zerolog.Nop()), server
}

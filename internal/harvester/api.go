package harvester

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/capture"
	"github.com/scvsar/incidentharvest/internal/common"
	"github.com/scvsar/incidentharvest/internal/config"
	"github.com/scvsar/incidentharvest/internal/httpclient"
	"golang.org/x/time/rate"
)

// ErrMalformedPage is returned when a response body is not JSON with a results list.
var ErrMalformedPage = errors.New("response is not a JSON object with a results list")

// Page is one decoded API page.
type Page struct {
	Results    []json.RawMessage
	TotalCount int
	HasTotal   bool
	StatusCode int
}

type pageBody struct {
	Results    []json.RawMessage `json:"results"`
	TotalCount *int              `json:"totalCount"`
}

// APIClient issues page requests with replayed session credentials.
type APIClient struct {
	client  *httpclient.HTTPClient
	config  config.HarvestConfig
	headers map[string]string
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewAPIClient creates a page client. A non-positive RequestsPerSecond
// disables pacing.
func NewAPIClient(client *httpclient.HTTPClient, cfg config.HarvestConfig, creds *capture.Credentials, logger zerolog.Logger) *APIClient {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &APIClient{
		client:  client,
		config:  cfg,
		headers: creds.RequestHeaders(),
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With().Str("component", "APIClient").Logger(),
	}
}

// FetchPage requests one page. Non-2xx responses yield a *common.HTTPError;
// bodies without a results list yield ErrMalformedPage.
func (a *APIClient) FetchPage(ctx context.Context, page, size int) (*Page, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, common.WrapError(err, "request pacing interrupted")
	}

	query, err := passthroughValues(a.config.QueryParam, a.config.Resource, NewPageQuery(a.config, page, size))
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Get(ctx, a.config.APIURL, query, a.headers)
	if err != nil {
		return nil, err
	}

	a.logger.Debug().
		Int("page", page).
		Int("size", size).
		Int("status_code", resp.StatusCode).
		Int("body_bytes", len(resp.Body)).
		Msg("Page response received")

	if !resp.IsSuccess() {
		return nil, common.NewHTTPError(resp.StatusCode, a.config.APIURL, resp.Body)
	}

	result, err := decodePage(resp.Body)
	if err != nil {
		return nil, err
	}
	result.StatusCode = resp.StatusCode
	return result, nil
}

func decodePage(body []byte) (*Page, error) {
	var decoded pageBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPage, err)
	}
	if decoded.Results == nil {
		return nil, ErrMalformedPage
	}

	page := &Page{Results: decoded.Results}
	if decoded.TotalCount != nil {
		page.TotalCount = *decoded.TotalCount
		page.HasTotal = true
	}
	return page, nil
}

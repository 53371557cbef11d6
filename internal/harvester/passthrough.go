package harvester

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/scvsar/incidentharvest/internal/config"
)

// PageQuery is one page request against the wrapped sub-resource.
type PageQuery struct {
	Page   int    `json:"page"`
	Size   int    `json:"size"`
	Before string `json:"before"`
	After  string `json:"after"`
	Sort   string `json:"sort"`
	Order  string `json:"order"`
}

type passthroughParameters struct {
	Query PageQuery `json:"query"`
}

// passthroughPayload is the JSON document the API expects inside its single
// query parameter: the sub-resource path plus its query.
type passthroughPayload struct {
	URL        string                `json:"url"`
	Parameters passthroughParameters `json:"parameters"`
}

// NewPageQuery builds the query for page with the configured window and sort.
func NewPageQuery(cfg config.HarvestConfig, page, size int) PageQuery {
	return PageQuery{
		Page:   page,
		Size:   size,
		Before: cfg.DateRange.Before,
		After:  cfg.DateRange.After,
		Sort:   cfg.Sort,
		Order:  cfg.Order,
	}
}

// EncodePassthrough renders the wrapped request for resource and q.
func EncodePassthrough(resource string, q PageQuery) (string, error) {
	data, err := json.Marshal(passthroughPayload{
		URL:        resource,
		Parameters: passthroughParameters{Query: q},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode passthrough payload: %w", err)
	}
	return string(data), nil
}

// DecodePassthrough parses a wrapped request. Fixture servers use it to
// answer by page and size.
func DecodePassthrough(raw string) (string, PageQuery, error) {
	var payload passthroughPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", PageQuery{}, fmt.Errorf("failed to decode passthrough payload: %w", err)
	}
	return payload.URL, payload.Parameters.Query, nil
}

// passthroughValues returns the URL query carrying the wrapped request.
func passthroughValues(param, resource string, q PageQuery) (url.Values, error) {
	encoded, err := EncodePassthrough(resource, q)
	if err != nil {
		return nil, err
	}
	return url.Values{param: []string{encoded}}, nil
}

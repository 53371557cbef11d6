package harvester

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/common"
	"github.com/scvsar/incidentharvest/internal/models"
)

// ErrNoViablePageSize is returned when no candidate size produced a usable page.
var ErrNoViablePageSize = errors.New("no viable page size")

// PageFetcher fetches one page of records.
type PageFetcher interface {
	FetchPage(ctx context.Context, page, size int) (*Page, error)
}

// ProbePageSizes requests page 0 once per candidate size, in order. Failed
// probes are recorded, not returned; only cancellation stops the probe early.
func ProbePageSizes(ctx context.Context, fetcher PageFetcher, sizes []int, logger zerolog.Logger) ([]models.ProbeResult, error) {
	results := make([]models.ProbeResult, 0, len(sizes))

	for _, size := range sizes {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := models.ProbeResult{RequestedSize: size}
		page, err := fetcher.FetchPage(ctx, 0, size)
		if err != nil {
			result.StatusCode = common.StatusCodeOf(err)
			result.Error = err.Error()
			logger.Warn().Err(err).Int("size", size).Int("status_code", result.StatusCode).Msg("Page size probe failed")
			results = append(results, result)
			continue
		}

		result.Working = true
		result.StatusCode = page.StatusCode
		result.ReturnedCount = len(page.Results)
		result.TotalCount = page.TotalCount

		event := logger.Info().
			Int("size", size).
			Int("returned", result.ReturnedCount).
			Int("total_available", result.TotalCount)
		switch {
		case result.Capped():
			event.Msg("Page size probe working; server returned fewer records than requested")
		case result.ReturnedCount < size:
			event.Msg("Page size probe working; all available records fit in one page")
		default:
			event.Msg("Page size probe working")
		}
		results = append(results, result)
	}

	return results, nil
}

// SelectPageSize returns the working probe with the largest requested size.
func SelectPageSize(results []models.ProbeResult) (models.ProbeResult, error) {
	var best models.ProbeResult
	found := false
	for _, r := range results {
		if !r.Working {
			continue
		}
		if !found || r.RequestedSize > best.RequestedSize {
			best = r
			found = true
		}
	}
	if !found {
		return models.ProbeResult{}, ErrNoViablePageSize
	}
	return best, nil
}

package harvester

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/models"
)

// CollectResult is the outcome of the pagination loop.
type CollectResult struct {
	Records []json.RawMessage
	// PagesFetched counts pages received and decoded, including a final empty page.
	PagesFetched  int
	ReportedTotal int
	Termination   models.Termination
	Err           error
}

// Collect walks pages 0, 1, ... at size until the server runs out of records,
// a request fails, or maxPages pages have been requested. It never issues
// more than maxPages requests. knownTotal seeds the server-reported total
// until a page reports its own.
func Collect(ctx context.Context, fetcher PageFetcher, size, maxPages, knownTotal int, logger zerolog.Logger) *CollectResult {
	result := &CollectResult{
		Records:       []json.RawMessage{},
		ReportedTotal: knownTotal,
		Termination:   models.TerminationPageBound,
	}

	for page := 0; page < maxPages; page++ {
		resp, err := fetcher.FetchPage(ctx, page, size)
		if err != nil {
			logger.Error().Err(err).Int("page", page).Int("collected", len(result.Records)).Msg("Page request failed; keeping records collected so far")
			result.Termination = models.TerminationFatalError
			result.Err = err
			return result
		}
		result.PagesFetched++

		if resp.HasTotal {
			result.ReportedTotal = resp.TotalCount
		}

		if len(resp.Results) == 0 {
			logger.Info().Int("page", page).Msg("No more incidents found")
			result.Termination = models.TerminationExhausted
			return result
		}

		result.Records = append(result.Records, resp.Results...)
		logger.Info().
			Int("page", page).
			Int("received", len(resp.Results)).
			Int("collected", len(result.Records)).
			Msg("Page collected")
		logPageBounds(logger, page, resp.Results)

		if len(resp.Results) < size {
			logger.Info().Int("page", page).Msg("Reached end of results (partial page)")
			result.Termination = models.TerminationShortPage
			return result
		}

		if result.ReportedTotal > 0 && len(result.Records) >= result.ReportedTotal {
			logger.Info().Int("page", page).Int("reported_total", result.ReportedTotal).Msg("Collected every reported incident")
			result.Termination = models.TerminationReachedTotal
			return result
		}
	}

	logger.Warn().Int("max_pages", maxPages).Int("collected", len(result.Records)).Msg("Reached maximum page limit; results may be incomplete")
	return result
}

func logPageBounds(logger zerolog.Logger, page int, records []json.RawMessage) {
	if e := logger.Debug(); e.Enabled() {
		first, last := records[0], records[len(records)-1]
		e.Int("page", page).
			Str("first_created_at", stringField(first, "createdAt")).
			Str("first_description", truncate(stringField(first, "description"), 50)).
			Str("last_created_at", stringField(last, "createdAt")).
			Str("last_description", truncate(stringField(last, "description"), 50)).
			Msg("Page bounds")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

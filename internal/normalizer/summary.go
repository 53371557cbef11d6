package normalizer

import (
	"sort"
	"time"

	"github.com/scvsar/incidentharvest/internal/config"
	"github.com/scvsar/incidentharvest/internal/models"
)

// DateRangeStats spans the start-time column.
type DateRangeStats struct {
	Earliest *time.Time `json:"earliest"`
	Latest   *time.Time `json:"latest"`
}

// AttendanceStats describes the attendance-count column.
type AttendanceStats struct {
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Max    *float64 `json:"max"`
}

// LocationCoverage counts distinct places.
type LocationCoverage struct {
	UniqueTowns   *int `json:"unique_towns"`
	UniqueRegions *int `json:"unique_regions"`
}

// Summary holds the table statistics. A statistic is nil when its source
// column is absent or holds no usable values.
type Summary struct {
	TotalIncidents   int              `json:"total_incidents"`
	DateRange        DateRangeStats   `json:"date_range"`
	AttendanceStats  AttendanceStats  `json:"attendance_stats"`
	LocationCoverage LocationCoverage `json:"location_coverage"`
}

// Summarize computes statistics over a cleaned table.
func Summarize(table *models.Table, cfg config.NormalizeConfig) Summary {
	summary := Summary{TotalIncidents: table.Rows}

	if col, ok := table.Column(cfg.StartColumn); ok {
		summary.DateRange = timeRange(col)
	}
	if col, ok := table.Column(cfg.AttendanceColumn); ok {
		summary.AttendanceStats = attendance(col)
	}
	if col, ok := table.Column(cfg.TownColumn); ok {
		n := distinct(col)
		summary.LocationCoverage.UniqueTowns = &n
	}
	if col, ok := table.Column(cfg.RegionColumn); ok {
		n := distinct(col)
		summary.LocationCoverage.UniqueRegions = &n
	}
	return summary
}

func timeRange(col *models.Column) DateRangeStats {
	var stats DateRangeStats
	for _, v := range col.Values {
		if v.Kind != models.KindTime {
			continue
		}
		t := v.Time
		if stats.Earliest == nil || t.Before(*stats.Earliest) {
			earliest := t
			stats.Earliest = &earliest
		}
		if stats.Latest == nil || t.After(*stats.Latest) {
			latest := t
			stats.Latest = &latest
		}
	}
	return stats
}

func attendance(col *models.Column) AttendanceStats {
	var values []float64
	for _, v := range col.Values {
		if v.Kind == models.KindNumber {
			values = append(values, v.Num)
		}
	}
	if len(values) == 0 {
		return AttendanceStats{}
	}

	sort.Float64s(values)
	var sum float64
	for _, f := range values {
		sum += f
	}
	mean := sum / float64(len(values))
	max := values[len(values)-1]

	mid := len(values) / 2
	median := values[mid]
	if len(values)%2 == 0 {
		median = (values[mid-1] + values[mid]) / 2
	}

	return AttendanceStats{Mean: &mean, Median: &median, Max: &max}
}

// distinct counts distinct non-null values by their text form.
func distinct(col *models.Column) int {
	seen := make(map[string]struct{})
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		seen[v.Kind.String()+":"+v.Text()] = struct{}{}
	}
	return len(seen)
}

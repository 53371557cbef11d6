package models

// ProbeResult is the outcome of one page-size trial request.
type ProbeResult struct {
	RequestedSize int    `json:"requested_size"`
	ReturnedCount int    `json:"returned_count"`
	TotalCount    int    `json:"total_count"`
	StatusCode    int    `json:"status_code,omitempty"`
	Working       bool   `json:"working"`
	Error         string `json:"error,omitempty"`
}

// Capped reports whether the server returned fewer records than requested
// while claiming more exist, i.e. it silently limits the page size.
func (pr *ProbeResult) Capped() bool {
	if pr == nil || !pr.Working {
		return false
	}
	return pr.ReturnedCount < pr.RequestedSize && pr.TotalCount > pr.ReturnedCount
}

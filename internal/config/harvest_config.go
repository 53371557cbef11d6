package config

// DateRangeConfig is the fixed [after, before] window sent with every page request.
type DateRangeConfig struct {
	After  string `json:"after" yaml:"after" validate:"required"`
	Before string `json:"before" yaml:"before" validate:"required"`
}

// HarvestConfig drives the probe and collection phases.
type HarvestConfig struct {
	APIURL            string          `json:"api_url" yaml:"api_url" validate:"required,url"`
	Resource          string          `json:"resource" yaml:"resource" validate:"required,startswith=/"`
	QueryParam        string          `json:"query_param" yaml:"query_param" validate:"required"`
	DateRange         DateRangeConfig `json:"date_range" yaml:"date_range"`
	Sort              string          `json:"sort" yaml:"sort" validate:"required"`
	Order             string          `json:"order" yaml:"order" validate:"required,sortorder"`
	CandidateSizes    []int           `json:"candidate_sizes" yaml:"candidate_sizes" validate:"required,min=1,ascending,dive,min=1"`
	MaxPages          int             `json:"max_pages" yaml:"max_pages" validate:"required,min=1"`
	OutputPath        string          `json:"output_path" yaml:"output_path" validate:"required"`
	RequestsPerSecond float64         `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty" validate:"omitempty,min=0"`
}

// NewDefaultHarvestConfig creates default harvest configuration
func NewDefaultHarvestConfig() HarvestConfig {
	sizes := make([]int, len(DefaultCandidatePageSizes))
	copy(sizes, DefaultCandidatePageSizes)

	return HarvestConfig{
		APIURL:     DefaultCaptureAPIPrefix,
		Resource:   DefaultHarvestResource,
		QueryParam: DefaultHarvestQueryParam,
		DateRange: DateRangeConfig{
			After:  DefaultHarvestAfter,
			Before: DefaultHarvestBefore,
		},
		Sort:           DefaultHarvestSort,
		Order:          DefaultHarvestOrder,
		CandidateSizes: sizes,
		MaxPages:       DefaultHarvestMaxPages,
		OutputPath:     DefaultHarvestOutputPath,
	}
}

package config

// NormalizeConfig names the columns that receive type coercion and feed the
// summary statistics.
type NormalizeConfig struct {
	DateColumns      []string `json:"date_columns,omitempty" yaml:"date_columns,omitempty"`
	NumericColumns   []string `json:"numeric_columns,omitempty" yaml:"numeric_columns,omitempty"`
	TextColumns      []string `json:"text_columns,omitempty" yaml:"text_columns,omitempty"`
	CoordinateColumn string   `json:"coordinate_column,omitempty" yaml:"coordinate_column,omitempty"`
	StartColumn      string   `json:"start_column,omitempty" yaml:"start_column,omitempty"`
	AttendanceColumn string   `json:"attendance_column,omitempty" yaml:"attendance_column,omitempty"`
	TownColumn       string   `json:"town_column,omitempty" yaml:"town_column,omitempty"`
	RegionColumn     string   `json:"region_column,omitempty" yaml:"region_column,omitempty"`
}

// NewDefaultNormalizeConfig creates default normalization configuration
func NewDefaultNormalizeConfig() NormalizeConfig {
	return NormalizeConfig{
		DateColumns:      []string{"createdAt", "createdOrPublishedAt", "updatedAt", "startsAt", "endsAt"},
		NumericColumns:   []string{"bearing", "countAttendance", "countGuests", "distance", "percAttendance"},
		TextColumns:      []string{"description", "referenceDescription"},
		CoordinateColumn: "location.coordinates",
		StartColumn:      "startsAt",
		AttendanceColumn: "countAttendance",
		TownColumn:       "address.town",
		RegionColumn:     "address.region",
	}
}

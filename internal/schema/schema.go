// Package schema decides, per file, which input generation the pipeline is
// looking at and pins down the uniform column contract every downstream stage
// relies on. Raw files are the provider's original monthly exports; Processed
// files already carry the derived feature columns.
package schema

// Mode tags the input generation of a single file. Every stage expresses its
// behavior as a total function over this tag instead of sprinkling
// column-presence checks through the pipeline.
type Mode int

const (
	ModeRaw Mode = iota
	ModeProcessed
)

// String returns the mode label used in logs and output paths.
func (m Mode) String() string {
	if m == ModeProcessed {
		return "processed"
	}
	return "raw"
}

// markerColumn exists only in processed files; its presence decides the mode.
const markerColumn = "trip_archetype"

// Classify returns ModeProcessed iff the derived-only marker column is
// present in the file's column set.
func Classify(columns []string) Mode {
	for _, c := range columns {
		if c == markerColumn {
			return ModeProcessed
		}
	}
	return ModeRaw
}

// Canonical column names of the uniform contract. Monetary columns are
// normalized to float64, categorical columns to string, zone IDs to int32,
// and calendar columns are synthesized from the pickup timestamp when a Raw
// file lacks them.
var (
	// MonetaryColumns are the eight rider-cost constituents plus driver pay.
	// Optional ones default to zero when a file predates them.
	MonetaryColumns = []string{
		"base_passenger_fare",
		"tips",
		"tolls",
		"congestion_surcharge",
		"airport_fee",
		"sales_tax",
		"bcf",
		"cbd_congestion_fee",
		"driver_pay",
	}

	// CategoricalColumns are cast to plain strings regardless of how the
	// writer encoded them.
	CategoricalColumns = []string{
		"pickup_borough",
		"dropoff_borough",
		"weather_state",
		"trip_archetype",
		"borough_flow_type",
		"time_of_day_bin",
		"rain_intensity",
		"snow_intensity",
		"wind_intensity",
		"visibility_status",
	}

	// ZoneIDColumns are normalized to a consistent integer width.
	ZoneIDColumns = []string{"PULocationID", "DOLocationID"}

	// CalendarColumns are derived from pickup_datetime for Raw input.
	CalendarColumns = []string{"pickup_year", "pickup_month", "pickup_day", "pickup_hour", "pickup_date"}
)

// requiredByMode lists columns whose absence makes a file unusable in the
// given mode.
var requiredByMode = map[Mode][]string{
	ModeRaw: {
		"hvfhs_license_num",
		"pickup_datetime",
		"dropoff_datetime",
		"PULocationID",
		"DOLocationID",
		"trip_miles",
		"base_passenger_fare",
		"driver_pay",
	},
	ModeProcessed: {
		"pickup_datetime",
		"PULocationID",
		"DOLocationID",
		"trip_km",
		"base_passenger_fare",
		"driver_pay",
		markerColumn,
	},
}

// MissingRequired returns the first required column absent from columns for
// the given mode, or "" when the contract is satisfied.
func MissingRequired(columns []string, mode Mode) string {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c] = struct{}{}
	}
	for _, c := range requiredByMode[mode] {
		if _, ok := present[c]; !ok {
			return c
		}
	}
	return ""
}

// Has reports whether name is present in columns.
func Has(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}

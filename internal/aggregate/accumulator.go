package aggregate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/exporter"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/parquetio"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/schema"
)

// Output file names, one per grain.
const (
	TimelineFile  = "agg_timeline_hourly.parquet"
	NetworkFile   = "agg_network_monthly.parquet"
	EconomicFile  = "agg_pricing_distribution.parquet"
	ExecutiveFile = "agg_executive_daily.csv"
	ExecutiveXLSX = "agg_executive_daily.xlsx"
	ManifestFile  = "grain_manifest.txt"
)

// Accumulator collects per-file partial tables and persists the merged marts
// once, at Flush. Add is safe for concurrent use; Flush is idempotent so a
// shutdown path may call it again without rewriting output.
type Accumulator struct {
	mu      sync.Mutex
	mode    schema.Mode
	outDir  string
	logger  *slog.Logger
	flushed bool

	timeline  []TimelineRow
	network   []NetworkRow
	economic  []EconomicRow
	executive []ExecutiveRow
}

// NewAccumulator creates an accumulator writing its marts under outDir.
func NewAccumulator(outDir string, mode schema.Mode, logger *slog.Logger) *Accumulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accumulator{mode: mode, outDir: outDir, logger: logger}
}

// Add appends one file's partial tables.
func (a *Accumulator) Add(t Tables) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.timeline = append(a.timeline, t.Timeline...)
	a.network = append(a.network, t.Network...)
	a.economic = append(a.economic, t.Economic...)
	a.executive = append(a.executive, t.Executive...)
}

// Flush concatenates the partials, sorts the executive grain by date and
// writes all outputs plus the grain manifest. Later calls are no-ops.
func (a *Accumulator) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.flushed {
		return nil
	}

	if err := os.MkdirAll(a.outDir, 0755); err != nil {
		return fmt.Errorf("creating aggregate output dir: %w", err)
	}

	if err := parquetio.WriteAll(filepath.Join(a.outDir, TimelineFile), a.timeline); err != nil {
		return err
	}
	if err := parquetio.WriteAll(filepath.Join(a.outDir, NetworkFile), a.network); err != nil {
		return err
	}
	if len(a.economic) > 0 {
		if err := parquetio.WriteAll(filepath.Join(a.outDir, EconomicFile), a.economic); err != nil {
			return err
		}
	}

	// Global daily order matters for time-series consumption.
	sort.Slice(a.executive, func(i, j int) bool {
		return a.executive[i].PickupDate < a.executive[j].PickupDate
	})
	if err := a.writeExecutive(); err != nil {
		return err
	}
	if err := a.writeManifest(); err != nil {
		return err
	}

	a.logger.Info("aggregate marts written",
		slog.String("dir", a.outDir),
		slog.Int("timeline_rows", len(a.timeline)),
		slog.Int("network_rows", len(a.network)),
		slog.Int("economic_rows", len(a.economic)),
		slog.Int("executive_rows", len(a.executive)),
	)

	a.flushed = true
	return nil
}

func (a *Accumulator) writeExecutive() error {
	processed := a.mode == schema.ModeProcessed

	headers := []string{"pickup_date", "total_trips", "total_fare_revenue"}
	if processed {
		headers = append(headers,
			"total_gross_booking_value", "total_tips", "total_km_traveled",
			"bad_weather_trip_count", "extreme_weather_trip_count", "avg_wait_time")
	} else {
		headers = append(headers, "avg_distance_miles")
	}

	records := make([][]string, 0, len(a.executive))
	for _, r := range a.executive {
		rec := []string{r.PickupDate, exporter.FormatInt(r.TotalTrips), exporter.FormatFloat(r.TotalFareRevenue)}
		if processed {
			rec = append(rec,
				exporter.FormatOptionalFloat(r.TotalGrossBookingValue),
				exporter.FormatOptionalFloat(r.TotalTips),
				exporter.FormatOptionalFloat(r.TotalKmTraveled),
				formatOptionalInt(r.BadWeatherTripCount),
				formatOptionalInt(r.ExtremeWeatherTripCount),
				exporter.FormatOptionalFloat(r.AvgWaitTime))
		} else {
			rec = append(rec, exporter.FormatOptionalFloat(r.AvgDistanceMiles))
		}
		records = append(records, rec)
	}

	csvw := exporter.NewCSVWriter(a.logger)
	if err := csvw.WriteSimpleCSV(filepath.Join(a.outDir, ExecutiveFile), headers, records); err != nil {
		return err
	}

	xlsw := exporter.NewExcelWriter(a.logger)
	return xlsw.WriteSheet(filepath.Join(a.outDir, ExecutiveXLSX), "Executive Daily", headers, records)
}

// writeManifest records which grains this run produced so a missing economic
// mart reads as an explicit decision, not a failed write.
func (a *Accumulator) writeManifest() error {
	var b strings.Builder
	fmt.Fprintf(&b, "mode: %s\n", a.mode)
	fmt.Fprintf(&b, "timeline: produced (%s)\n", TimelineFile)
	fmt.Fprintf(&b, "network: produced (%s)\n", NetworkFile)
	if len(a.economic) > 0 {
		fmt.Fprintf(&b, "economic: produced (%s)\n", EconomicFile)
	} else {
		fmt.Fprintf(&b, "economic: omitted (requires processed input)\n")
	}
	fmt.Fprintf(&b, "executive: produced (%s)\n", ExecutiveFile)

	path := filepath.Join(a.outDir, ManifestFile)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing grain manifest: %w", err)
	}
	return nil
}

func formatOptionalInt(v *int64) string {
	if v == nil {
		return ""
	}
	return exporter.FormatInt(*v)
}

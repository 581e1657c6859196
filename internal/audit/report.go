package audit

import (
	"log/slog"
	"sort"

	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/exporter"
)

// statSuffixes is the fixed per-column stat order in the report.
var statSuffixes = []string{
	"nulls", "zeros", "negatives",
	"mean", "std", "min", "p01", "p50", "p99", "p99.9", "max",
}

var paradoxColumns = []string{
	"paradox_teleport_count",
	"paradox_uncompensated_labor_count",
	"paradox_time_travel_count",
}

// WriteReport merges audit rows from one or more files into a single CSV,
// sorted by month, with the month, row count and paradox counters surfaced
// first. Rows from files of different generations carry different column
// sets; absent cells stay blank.
func WriteReport(path string, rows []Row, logger *slog.Logger) error {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Month != rows[j].Month {
			return rows[i].Month < rows[j].Month
		}
		return rows[i].SourceFile < rows[j].SourceFile
	})

	numericPresent := make(map[string]bool)
	catPresent := make(map[string]bool)
	flagPresent := make(map[string]bool)
	for i := range rows {
		for col := range rows[i].Numeric {
			numericPresent[col] = true
		}
		for col := range rows[i].CategoricalNulls {
			catPresent[col] = true
		}
		for col := range rows[i].FlagTrueCounts {
			flagPresent[col] = true
		}
	}

	headers := []string{"audit_month", "total_rows"}
	headers = append(headers, paradoxColumns...)
	headers = append(headers, "source_file")
	for _, col := range numericTargets {
		if !numericPresent[col] {
			continue
		}
		for _, suffix := range statSuffixes {
			headers = append(headers, col+"_"+suffix)
		}
	}
	for _, col := range append(append([]string{}, categoricalTargets...), flagTargets...) {
		if catPresent[col] {
			headers = append(headers, col+"_nulls")
		}
	}
	for _, col := range flagTargets {
		if flagPresent[col] {
			headers = append(headers, col+"_count_true")
		}
	}

	records := make([][]string, 0, len(rows))
	for i := range rows {
		records = append(records, reportRecord(&rows[i], numericPresent, catPresent, flagPresent))
	}

	return exporter.NewCSVWriter(logger).WriteSimpleCSV(path, headers, records)
}

func reportRecord(r *Row, numericPresent, catPresent, flagPresent map[string]bool) []string {
	rec := []string{
		r.Month,
		exporter.FormatInt(r.TotalRows),
		formatCount(r.ParadoxTeleport),
		formatCount(r.ParadoxUnpaidLabor),
		formatCount(r.ParadoxTimeTravel),
		r.SourceFile,
	}

	for _, col := range numericTargets {
		if !numericPresent[col] {
			continue
		}
		s := r.Numeric[col]
		if s == nil {
			for range statSuffixes {
				rec = append(rec, "")
			}
			continue
		}
		rec = append(rec,
			exporter.FormatInt(s.Nulls),
			exporter.FormatInt(s.Zeros),
			exporter.FormatInt(s.Negatives),
			exporter.FormatFloatFull(s.Mean),
			exporter.FormatFloatFull(s.Std),
			exporter.FormatFloatFull(s.Min),
			exporter.FormatFloatFull(s.P01),
			exporter.FormatFloatFull(s.P50),
			exporter.FormatFloatFull(s.P99),
			exporter.FormatFloatFull(s.P999),
			exporter.FormatFloatFull(s.Max),
		)
	}

	for _, col := range append(append([]string{}, categoricalTargets...), flagTargets...) {
		if !catPresent[col] {
			continue
		}
		if n, ok := r.CategoricalNulls[col]; ok {
			rec = append(rec, exporter.FormatInt(n))
		} else {
			rec = append(rec, "")
		}
	}
	for _, col := range flagTargets {
		if !flagPresent[col] {
			continue
		}
		if n, ok := r.FlagTrueCounts[col]; ok {
			rec = append(rec, exporter.FormatInt(n))
		} else {
			rec = append(rec, "")
		}
	}
	return rec
}

func formatCount(v *int64) string {
	if v == nil {
		return ""
	}
	return exporter.FormatInt(*v)
}

package exporter

import (
	"fmt"
	"strconv"
)

// FormatFloat formats a float64 value for CSV output with exactly 2 decimal
// places so values like 13.4 appear as 13.40.
func FormatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// FormatFloatFull formats a float64 at full precision, for ratio columns where
// two decimals would destroy the signal.
func FormatFloatFull(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatInt formats an int64 value for CSV output
func FormatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// FormatOptionalFloat formats a nullable float; nil becomes the empty string.
func FormatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return FormatFloat(*f)
}

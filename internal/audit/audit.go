// Package audit builds longitudinal data-quality reports: per-column summary
// statistics and paradox counters for every (file, calendar-month) bucket,
// adapting to whichever columns each input generation carries.
package audit

import (
	"math"
	"sort"
	"time"

	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/parquetio"
)

const milesToKm = 1.60934

// Record is the superset of columns the auditor inspects. Pointer fields
// keep nulls distinguishable from zeros, which the null counters depend on.
type Record struct {
	PickupDatetime  time.Time `parquet:"pickup_datetime,optional,timestamp(microsecond)"`
	DropoffDatetime time.Time `parquet:"dropoff_datetime,optional,timestamp(microsecond)"`
	PickupDate      *string   `parquet:"pickup_date,optional"`

	TripMiles *float64 `parquet:"trip_miles,optional"`
	TripTime  *int64   `parquet:"trip_time,optional"`

	TripKm                *float64 `parquet:"trip_km,optional"`
	DurationSeconds       *float64 `parquet:"duration_seconds,optional"`
	DurationMin           *float64 `parquet:"duration_min,optional"`
	BasePassengerFare     *float64 `parquet:"base_passenger_fare,optional"`
	DriverPay             *float64 `parquet:"driver_pay,optional"`
	Tips                  *float64 `parquet:"tips,optional"`
	Tolls                 *float64 `parquet:"tolls,optional"`
	CongestionSurcharge   *float64 `parquet:"congestion_surcharge,optional"`
	AirportFee            *float64 `parquet:"airport_fee,optional"`
	BCF                   *float64 `parquet:"bcf,optional"`
	CBDCongestionFee      *float64 `parquet:"cbd_congestion_fee,optional"`
	SalesTax              *float64 `parquet:"sales_tax,optional"`
	SpeedKmh              *float64 `parquet:"speed_kmh,optional"`
	DisplacementSpeedKmh  *float64 `parquet:"displacement_speed_kmh,optional"`
	TortuosityIndex       *float64 `parquet:"tortuosity_index,optional"`
	TotalRiderCost        *float64 `parquet:"total_rider_cost,optional"`
	CostPerKm             *float64 `parquet:"cost_per_km,optional"`
	DriverRevenueShare    *float64 `parquet:"driver_revenue_share,optional"`
	PayPerHour            *float64 `parquet:"pay_per_hour,optional"`
	TotalWaitTimeMin      *float64 `parquet:"total_wait_time_min,optional"`
	DriverResponseTimeMin *float64 `parquet:"driver_response_time_min,optional"`

	WeatherState     *string `parquet:"weather_state,optional"`
	TripArchetype    *string `parquet:"trip_archetype,optional"`
	BoroughFlowType  *string `parquet:"borough_flow_type,optional"`
	IsBadWeather     *int32  `parquet:"is_bad_weather,optional"`
	IsExtremeWeather *int32  `parquet:"is_extreme_weather,optional"`
	IsGenerousTip    *int32  `parquet:"is_generous_tip,optional"`
}

// numericTargets lists every candidate numeric column, in report order.
// trip_km and speed_kmh may be synthesized for raw files.
var numericTargets = []string{
	"trip_miles",
	"trip_km",
	"trip_time",
	"duration_seconds",
	"duration_min",
	"base_passenger_fare",
	"driver_pay",
	"tips",
	"tolls",
	"congestion_surcharge",
	"airport_fee",
	"bcf",
	"cbd_congestion_fee",
	"sales_tax",
	"speed_kmh",
	"displacement_speed_kmh",
	"tortuosity_index",
	"total_rider_cost",
	"cost_per_km",
	"driver_revenue_share",
	"pay_per_hour",
	"total_wait_time_min",
	"driver_response_time_min",
}

// categoricalTargets are checked for nulls only; flagTargets additionally
// count how many records carry a 1.
var (
	categoricalTargets = []string{"weather_state", "trip_archetype", "borough_flow_type"}
	flagTargets        = []string{"is_bad_weather", "is_extreme_weather", "is_generous_tip"}
)

// ColumnStats summarizes one numeric column within one month bucket.
type ColumnStats struct {
	Nulls     int64
	Zeros     int64
	Negatives int64
	Mean      float64
	Std       float64
	Min       float64
	P01       float64
	P50       float64
	P99       float64
	P999      float64
	Max       float64
}

// Row is one (file, calendar-month) audit bucket.
type Row struct {
	Month      string
	SourceFile string
	TotalRows  int64

	ParadoxTeleport     *int64
	ParadoxUnpaidLabor  *int64
	ParadoxTimeTravel   *int64

	Numeric          map[string]*ColumnStats
	CategoricalNulls map[string]int64
	FlagTrueCounts   map[string]int64
}

type columnAcc struct {
	nulls  int64
	values []float64
}

type bucket struct {
	totalRows int64
	numeric   map[string]*columnAcc
	catNulls  map[string]int64
	flagTrue  map[string]int64
	teleport  int64
	unpaid    int64
	timeTrav  int64
}

type auditor struct {
	has map[string]bool

	// virtual metric columns synthesized for raw input
	virtualKm    bool
	virtualSpeed bool

	hasTimestamps bool
	teleportRule  int // 0 none, 1 processed (km/min), 2 raw (miles/sec)
	unpaidRule    int // 0 none, 1 km, 2 miles
}

func newAuditor(columns []string) *auditor {
	a := &auditor{has: make(map[string]bool, len(columns))}
	for _, c := range columns {
		a.has[c] = true
	}

	a.virtualKm = a.has["trip_miles"] && !a.has["trip_km"]
	a.virtualSpeed = a.has["trip_miles"] && a.has["trip_time"] && !a.has["speed_kmh"]
	a.hasTimestamps = a.has["pickup_datetime"] && a.has["dropoff_datetime"]

	kmPresent := a.has["trip_km"] || a.virtualKm
	switch {
	case a.has["trip_km"] && a.has["duration_min"]:
		a.teleportRule = 1
	case a.has["trip_miles"] && a.has["trip_time"]:
		a.teleportRule = 2
	}
	if a.has["driver_pay"] {
		switch {
		case kmPresent:
			a.unpaidRule = 1
		case a.has["trip_miles"]:
			a.unpaidRule = 2
		}
	}
	return a
}

// audited reports whether col carries data for this file, counting the
// synthesized metric columns.
func (a *auditor) audited(col string) bool {
	switch col {
	case "trip_km":
		return a.has["trip_km"] || a.virtualKm
	case "speed_kmh":
		return a.has["speed_kmh"] || a.virtualSpeed
	default:
		return a.has[col]
	}
}

// value resolves a numeric column for one record, synthesizing the metric
// columns where the file lacks them. A nil return is a null observation.
func (a *auditor) value(col string, r *Record) *float64 {
	switch col {
	case "trip_miles":
		return r.TripMiles
	case "trip_km":
		if !a.virtualKm {
			return r.TripKm
		}
		if r.TripMiles == nil {
			return nil
		}
		v := *r.TripMiles * milesToKm
		return &v
	case "trip_time":
		if r.TripTime == nil {
			return nil
		}
		v := float64(*r.TripTime)
		return &v
	case "duration_seconds":
		return r.DurationSeconds
	case "duration_min":
		return r.DurationMin
	case "base_passenger_fare":
		return r.BasePassengerFare
	case "driver_pay":
		return r.DriverPay
	case "tips":
		return r.Tips
	case "tolls":
		return r.Tolls
	case "congestion_surcharge":
		return r.CongestionSurcharge
	case "airport_fee":
		return r.AirportFee
	case "bcf":
		return r.BCF
	case "cbd_congestion_fee":
		return r.CBDCongestionFee
	case "sales_tax":
		return r.SalesTax
	case "speed_kmh":
		if !a.virtualSpeed {
			return r.SpeedKmh
		}
		// Synthesized distributions default unknowns to zero rather than
		// propagating nulls.
		v := 0.0
		if r.TripMiles != nil && r.TripTime != nil && *r.TripTime != 0 {
			v = (*r.TripMiles * milesToKm) / (float64(*r.TripTime) / 3600)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
		}
		return &v
	case "displacement_speed_kmh":
		return r.DisplacementSpeedKmh
	case "tortuosity_index":
		return r.TortuosityIndex
	case "total_rider_cost":
		return r.TotalRiderCost
	case "cost_per_km":
		return r.CostPerKm
	case "driver_revenue_share":
		return r.DriverRevenueShare
	case "pay_per_hour":
		return r.PayPerHour
	case "total_wait_time_min":
		return r.TotalWaitTimeMin
	case "driver_response_time_min":
		return r.DriverResponseTimeMin
	}
	return nil
}

func monthKey(r *Record) string {
	if !r.PickupDatetime.IsZero() {
		return r.PickupDatetime.Format("2006-01")
	}
	if r.PickupDate != nil && len(*r.PickupDate) >= 7 {
		return (*r.PickupDate)[:7]
	}
	return "unknown"
}

// AuditFile reads one file and returns its per-month audit rows, sorted by
// month.
func AuditFile(path string) ([]Row, error) {
	columns, err := parquetio.Columns(path)
	if err != nil {
		return nil, err
	}
	records, err := parquetio.ReadAll[Record](path)
	if err != nil {
		return nil, err
	}
	return auditRecords(path, records, columns), nil
}

func auditRecords(path string, records []Record, columns []string) []Row {
	a := newAuditor(columns)

	active := make([]string, 0, len(numericTargets))
	for _, col := range numericTargets {
		if a.audited(col) {
			active = append(active, col)
		}
	}

	buckets := make(map[string]*bucket)
	for i := range records {
		r := &records[i]
		b := buckets[monthKey(r)]
		if b == nil {
			b = &bucket{
				numeric:  make(map[string]*columnAcc, len(active)),
				catNulls: make(map[string]int64),
				flagTrue: make(map[string]int64),
			}
			buckets[monthKey(r)] = b
		}
		b.totalRows++

		for _, col := range active {
			acc := b.numeric[col]
			if acc == nil {
				acc = &columnAcc{}
				b.numeric[col] = acc
			}
			if v := a.value(col, r); v == nil {
				acc.nulls++
			} else {
				acc.values = append(acc.values, *v)
			}
		}

		for _, col := range categoricalTargets {
			if !a.has[col] {
				continue
			}
			if catValue(col, r) == nil {
				b.catNulls[col]++
			} else if _, seen := b.catNulls[col]; !seen {
				b.catNulls[col] = 0
			}
		}
		for _, col := range flagTargets {
			if !a.has[col] {
				continue
			}
			f := flagValue(col, r)
			if f == nil {
				b.catNulls[col]++
			} else {
				if _, seen := b.catNulls[col]; !seen {
					b.catNulls[col] = 0
				}
				if *f != 0 {
					b.flagTrue[col]++
				} else if _, seen := b.flagTrue[col]; !seen {
					b.flagTrue[col] = 0
				}
			}
		}

		a.countParadoxes(r, b)
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	rows := make([]Row, 0, len(months))
	for _, m := range months {
		rows = append(rows, a.finishBucket(m, path, buckets[m]))
	}
	return rows
}

func (a *auditor) countParadoxes(r *Record, b *bucket) {
	switch a.teleportRule {
	case 1:
		if r.TripKm != nil && r.DurationMin != nil && *r.TripKm > 5 && *r.DurationMin < 1 {
			b.teleport++
		}
	case 2:
		if r.TripMiles != nil && r.TripTime != nil && *r.TripMiles > 2 && *r.TripTime < 60 {
			b.teleport++
		}
	}

	switch a.unpaidRule {
	case 1:
		if km := a.value("trip_km", r); km != nil && r.DriverPay != nil && *km > 2 && *r.DriverPay <= 0 {
			b.unpaid++
		}
	case 2:
		if r.TripMiles != nil && r.DriverPay != nil && *r.TripMiles > 1 && *r.DriverPay <= 0 {
			b.unpaid++
		}
	}

	if a.hasTimestamps && !r.PickupDatetime.IsZero() && !r.DropoffDatetime.IsZero() &&
		r.DropoffDatetime.Before(r.PickupDatetime) {
		b.timeTrav++
	}
}

func (a *auditor) finishBucket(month, path string, b *bucket) Row {
	row := Row{
		Month:            month,
		SourceFile:       path,
		TotalRows:        b.totalRows,
		Numeric:          make(map[string]*ColumnStats, len(b.numeric)),
		CategoricalNulls: b.catNulls,
		FlagTrueCounts:   b.flagTrue,
	}
	if a.teleportRule != 0 {
		row.ParadoxTeleport = &b.teleport
	}
	if a.unpaidRule != 0 {
		row.ParadoxUnpaidLabor = &b.unpaid
	}
	if a.hasTimestamps {
		row.ParadoxTimeTravel = &b.timeTrav
	}

	for col, acc := range b.numeric {
		row.Numeric[col] = summarize(acc)
	}
	return row
}

func summarize(acc *columnAcc) *ColumnStats {
	s := &ColumnStats{Nulls: acc.nulls}
	if len(acc.values) == 0 {
		return s
	}

	sorted := make([]float64, len(acc.values))
	copy(sorted, acc.values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
		if v == 0 {
			s.Zeros++
		}
		if v < 0 {
			s.Negatives++
		}
	}
	n := float64(len(sorted))
	s.Mean = sum / n
	if len(sorted) > 1 {
		var sq float64
		for _, v := range sorted {
			d := v - s.Mean
			sq += d * d
		}
		s.Std = math.Sqrt(sq / (n - 1))
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.P01 = quantileSorted(sorted, 0.01)
	s.P50 = quantileSorted(sorted, 0.50)
	s.P99 = quantileSorted(sorted, 0.99)
	s.P999 = quantileSorted(sorted, 0.999)
	return s
}

func quantileSorted(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if upper >= len(sorted) {
		upper = len(sorted) - 1
	}
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

func catValue(col string, r *Record) *string {
	switch col {
	case "weather_state":
		return r.WeatherState
	case "trip_archetype":
		return r.TripArchetype
	case "borough_flow_type":
		return r.BoroughFlowType
	}
	return nil
}

func flagValue(col string, r *Record) *int32 {
	switch col {
	case "is_bad_weather":
		return r.IsBadWeather
	case "is_extreme_weather":
		return r.IsExtremeWeather
	case "is_generous_tip":
		return r.IsGenerousTip
	}
	return nil
}

// Package aggregate computes the four per-file summary tables and merges the
// partials into the final persisted marts. Per-file tables are bounded by
// distinct-key cardinality, so the run holds only tiny partials, never the raw
// rows of more than one file.
package aggregate

import "time"

// Record is the superset of columns the aggregation engine reads. Every
// field is optional at the codec level; which ones carry data is decided by
// the file's mode and column set, not by zero-value sniffing.
type Record struct {
	PickupDatetime  time.Time `parquet:"pickup_datetime,optional,timestamp(microsecond)"`
	DropoffDatetime time.Time `parquet:"dropoff_datetime,optional,timestamp(microsecond)"`
	PULocationID    int32     `parquet:"PULocationID,optional"`
	DOLocationID    int32     `parquet:"DOLocationID,optional"`

	TripMiles         float64 `parquet:"trip_miles,optional"`
	TripTime          int64   `parquet:"trip_time,optional"`
	BasePassengerFare float64 `parquet:"base_passenger_fare,optional"`
	DriverPay         float64 `parquet:"driver_pay,optional"`
	Tips              float64 `parquet:"tips,optional"`
	CBDCongestionFee  float64 `parquet:"cbd_congestion_fee,optional"`

	PickupYear  int32  `parquet:"pickup_year,optional"`
	PickupMonth int32  `parquet:"pickup_month,optional"`
	PickupDay   int32  `parquet:"pickup_day,optional"`
	PickupHour  int32  `parquet:"pickup_hour,optional"`
	PickupDate  string `parquet:"pickup_date,optional"`

	TripKm               float64 `parquet:"trip_km,optional"`
	SpeedKmh             float64 `parquet:"speed_kmh,optional"`
	DurationMin          float64 `parquet:"duration_min,optional"`
	DisplacementSpeedKmh float64 `parquet:"displacement_speed_kmh,optional"`

	TotalRiderCost     float64 `parquet:"total_rider_cost,optional"`
	DriverRevenueShare float64 `parquet:"driver_revenue_share,optional"`
	UberTakeRateProxy  float64 `parquet:"uber_take_rate_proxy,optional"`
	TippingPct         float64 `parquet:"tipping_pct,optional"`
	PayPerHour         float64 `parquet:"pay_per_hour,optional"`

	TotalWaitTimeMin      *float64 `parquet:"total_wait_time_min,optional"`
	DriverResponseTimeMin *float64 `parquet:"driver_response_time_min,optional"`

	IsBadWeather     int32 `parquet:"is_bad_weather,optional"`
	IsExtremeWeather int32 `parquet:"is_extreme_weather,optional"`

	PickupBorough   string `parquet:"pickup_borough,optional"`
	DropoffBorough  string `parquet:"dropoff_borough,optional"`
	BoroughFlowType string `parquet:"borough_flow_type,optional"`
	TripArchetype   string `parquet:"trip_archetype,optional"`
	CulturalDayType string `parquet:"cultural_day_type,optional"`
	TimeOfDayBin    string `parquet:"time_of_day_bin,optional"`
	WeatherState    string `parquet:"weather_state,optional"`
	RainIntensity   string `parquet:"rain_intensity,optional"`
}

// TimelineRow is one hourly group. Mode-conditional measures are pointers so
// files of the other generation write nulls, not zeros.
type TimelineRow struct {
	PickupYear  int32 `parquet:"pickup_year"`
	PickupMonth int32 `parquet:"pickup_month"`
	PickupDay   int32 `parquet:"pickup_day"`
	PickupHour  int32 `parquet:"pickup_hour"`

	BoroughFlowType string `parquet:"borough_flow_type,optional"`
	TripArchetype   string `parquet:"trip_archetype,optional"`
	CulturalDayType string `parquet:"cultural_day_type,optional"`

	TripCount      int64   `parquet:"trip_count"`
	TotalFareAmt   float64 `parquet:"total_fare_amt"`
	TotalDriverPay float64 `parquet:"total_driver_pay"`
	TotalCBDFee    float64 `parquet:"total_cbd_fee"`

	TotalRevenueGross   *float64 `parquet:"total_revenue_gross,optional"`
	TotalTips           *float64 `parquet:"total_tips,optional"`
	AvgTripKm           *float64 `parquet:"avg_trip_km,optional"`
	AvgSpeedKmh         *float64 `parquet:"avg_speed_kmh,optional"`
	BadWeatherCount     *int64   `parquet:"bad_weather_count,optional"`
	ExtremeWeatherCount *int64   `parquet:"extreme_weather_count,optional"`

	AvgTripMiles *float64 `parquet:"avg_trip_miles,optional"`
}

// NetworkRow is one monthly route group.
type NetworkRow struct {
	PickupYear   int32 `parquet:"pickup_year"`
	PickupMonth  int32 `parquet:"pickup_month"`
	PULocationID int32 `parquet:"PULocationID"`
	DOLocationID int32 `parquet:"DOLocationID"`

	PickupBorough  string `parquet:"pickup_borough,optional"`
	DropoffBorough string `parquet:"dropoff_borough,optional"`

	TripCount int64 `parquet:"trip_count"`

	AvgDurationMin       *float64 `parquet:"avg_duration_min,optional"`
	AvgCost              *float64 `parquet:"avg_cost,optional"`
	AvgDisplacementSpeed *float64 `parquet:"avg_displacement_speed,optional"`
	AvgWaitTime          *float64 `parquet:"avg_wait_time,optional"`
	AvgDriverResponse    *float64 `parquet:"avg_driver_response,optional"`

	AvgDurationSec *float64 `parquet:"avg_duration_sec,optional"`
}

// EconomicRow is one daily pricing-context group; produced only for processed
// input.
type EconomicRow struct {
	PickupDate      string `parquet:"pickup_date"`
	TimeOfDayBin    string `parquet:"time_of_day_bin"`
	WeatherState    string `parquet:"weather_state"`
	BoroughFlowType string `parquet:"borough_flow_type"`

	TripCount         int64   `parquet:"trip_count"`
	AvgDriverShare    float64 `parquet:"avg_driver_share"`
	StdDriverShare    float64 `parquet:"std_driver_share"`
	AvgTakeRate       float64 `parquet:"avg_take_rate"`
	AvgTipPct         float64 `parquet:"avg_tip_pct"`
	AvgHourlyWage     float64 `parquet:"avg_hourly_wage"`
	MedianFare        float64 `parquet:"median_fare"`
	P90FareSurgeProxy float64 `parquet:"p90_fare_surge_proxy"`
	DominantRain      string  `parquet:"dominant_rain"`
}

// ExecutiveRow is one daily global group, the only grain with a guaranteed
// output order (date ascending).
type ExecutiveRow struct {
	PickupDate       string  `parquet:"pickup_date"`
	TotalTrips       int64   `parquet:"total_trips"`
	TotalFareRevenue float64 `parquet:"total_fare_revenue"`

	TotalGrossBookingValue  *float64 `parquet:"total_gross_booking_value,optional"`
	TotalTips               *float64 `parquet:"total_tips,optional"`
	TotalKmTraveled         *float64 `parquet:"total_km_traveled,optional"`
	BadWeatherTripCount     *int64   `parquet:"bad_weather_trip_count,optional"`
	ExtremeWeatherTripCount *int64   `parquet:"extreme_weather_trip_count,optional"`
	AvgWaitTime             *float64 `parquet:"avg_wait_time,optional"`

	AvgDistanceMiles *float64 `parquet:"avg_distance_miles,optional"`
}

// Tables holds one file's four partial grain tables. Economic stays empty for
// raw input.
type Tables struct {
	Timeline  []TimelineRow
	Network   []NetworkRow
	Economic  []EconomicRow
	Executive []ExecutiveRow
}

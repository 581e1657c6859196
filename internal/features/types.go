// Package features turns raw monthly trip exports into analysis-ready
// records: reference joins, geospatial and economic derivations, weather and
// calendar categorization, and the plausibility filter that drops physically
// or economically impossible trips.
package features

import "time"

// TripRecord is one ride as the provider exports it. Optional columns vary
// by file generation; absent ones read back as zero values and are defaulted
// during enrichment.
type TripRecord struct {
	HvfhsLicenseNum     string    `parquet:"hvfhs_license_num,optional"`
	DispatchingBaseNum  string    `parquet:"dispatching_base_num,optional"`
	OriginatingBaseNum  string    `parquet:"originating_base_num,optional"`
	RequestDatetime     time.Time `parquet:"request_datetime,optional,timestamp(microsecond)"`
	OnSceneDatetime     time.Time `parquet:"on_scene_datetime,optional,timestamp(microsecond)"`
	PickupDatetime      time.Time `parquet:"pickup_datetime,timestamp(microsecond)"`
	DropoffDatetime     time.Time `parquet:"dropoff_datetime,timestamp(microsecond)"`
	PULocationID        int32     `parquet:"PULocationID"`
	DOLocationID        int32     `parquet:"DOLocationID"`
	TripMiles           float64   `parquet:"trip_miles"`
	TripTime            int64     `parquet:"trip_time,optional"`
	BasePassengerFare   float64   `parquet:"base_passenger_fare"`
	Tolls               float64   `parquet:"tolls,optional"`
	BCF                 float64   `parquet:"bcf,optional"`
	SalesTax            float64   `parquet:"sales_tax,optional"`
	CongestionSurcharge float64   `parquet:"congestion_surcharge,optional"`
	AirportFee          float64   `parquet:"airport_fee,optional"`
	CBDCongestionFee    float64   `parquet:"cbd_congestion_fee,optional"`
	Tips                float64   `parquet:"tips,optional"`
	DriverPay           float64   `parquet:"driver_pay"`
	SharedRequestFlag   string    `parquet:"shared_request_flag,optional"`
	SharedMatchFlag     string    `parquet:"shared_match_flag,optional"`
	AccessARideFlag     string    `parquet:"access_a_ride_flag,optional"`
	WAVRequestFlag      string    `parquet:"wav_request_flag,optional"`
	WAVMatchFlag        string    `parquet:"wav_match_flag,optional"`
}

// EnrichedTrip is the analysis-ready record: the carried trip columns plus
// every derived feature. Wait metrics are pointers because a negative span is
// a detected data defect and must stay null, not zero, to keep means honest.
type EnrichedTrip struct {
	PULocationID    int32     `parquet:"PULocationID"`
	DOLocationID    int32     `parquet:"DOLocationID"`
	PickupDatetime  time.Time `parquet:"pickup_datetime,timestamp(microsecond)"`
	DropoffDatetime time.Time `parquet:"dropoff_datetime,timestamp(microsecond)"`

	WAVRequestFlag    int32 `parquet:"wav_request_flag"`
	WAVMatchFlag      int32 `parquet:"wav_match_flag"`
	SharedRequestFlag int32 `parquet:"shared_request_flag"`
	SharedMatchFlag   int32 `parquet:"shared_match_flag"`
	AccessARideFlag   int32 `parquet:"access_a_ride_flag"`

	BasePassengerFare   float64 `parquet:"base_passenger_fare"`
	Tips                float64 `parquet:"tips"`
	Tolls               float64 `parquet:"tolls"`
	CongestionSurcharge float64 `parquet:"congestion_surcharge"`
	AirportFee          float64 `parquet:"airport_fee"`
	SalesTax            float64 `parquet:"sales_tax"`
	BCF                 float64 `parquet:"bcf"`
	CBDCongestionFee    float64 `parquet:"cbd_congestion_fee"`
	DriverPay           float64 `parquet:"driver_pay"`

	TripKm          float64 `parquet:"trip_km"`
	DurationSeconds float64 `parquet:"duration_seconds"`
	DurationMin     float64 `parquet:"duration_min"`

	PickupHour  int32  `parquet:"pickup_hour"`
	PickupDay   int32  `parquet:"pickup_day"`
	PickupMonth int32  `parquet:"pickup_month"`
	PickupYear  int32  `parquet:"pickup_year"`
	PickupDOW   int32  `parquet:"pickup_dow"`
	PickupDate  string `parquet:"pickup_date"`

	PickupBorough  string `parquet:"pickup_borough"`
	PickupZone     string `parquet:"pickup_zone"`
	DropoffBorough string `parquet:"dropoff_borough"`
	DropoffZone    string `parquet:"dropoff_zone"`

	TotalWaitTimeMin      *float64 `parquet:"total_wait_time_min,optional"`
	DriverResponseTimeMin *float64 `parquet:"driver_response_time_min,optional"`
	BoardingTimeMin       *float64 `parquet:"boarding_time_min,optional"`

	StraightLineDistKm   float64 `parquet:"straight_line_dist_km"`
	BearingDegrees       float64 `parquet:"bearing_degrees"`
	SpeedKmh             float64 `parquet:"speed_kmh"`
	DisplacementSpeedKmh float64 `parquet:"displacement_speed_kmh"`
	TortuosityIndex      float64 `parquet:"tortuosity_index"`

	TotalRiderCost     float64 `parquet:"total_rider_cost"`
	CostPerKm          float64 `parquet:"cost_per_km"`
	DriverRevenueShare float64 `parquet:"driver_revenue_share"`
	UberTakeRateProxy  float64 `parquet:"uber_take_rate_proxy"`
	PayPerHour         float64 `parquet:"pay_per_hour"`
	TippingPct         float64 `parquet:"tipping_pct"`
	IsGenerousTip      int32   `parquet:"is_generous_tip"`
	IsSubsidized       int32   `parquet:"is_subsidized"`

	Temp       float64 `parquet:"temp"`
	Conditions string  `parquet:"conditions"`

	CyclicalHourSin  float64 `parquet:"cyclical_hour_sin"`
	CyclicalHourCos  float64 `parquet:"cyclical_hour_cos"`
	CyclicalMonthSin float64 `parquet:"cyclical_month_sin"`
	CyclicalMonthCos float64 `parquet:"cyclical_month_cos"`
	CyclicalDaySin   float64 `parquet:"cyclical_day_sin"`
	CyclicalDayCos   float64 `parquet:"cyclical_day_cos"`

	RainIntensity    string `parquet:"rain_intensity"`
	SnowIntensity    string `parquet:"snow_intensity"`
	WindIntensity    string `parquet:"wind_intensity"`
	VisibilityStatus string `parquet:"visibility_status"`
	WeatherState     string `parquet:"weather_state"`
	IsBadWeather     int32  `parquet:"is_bad_weather"`
	IsExtremeWeather int32  `parquet:"is_extreme_weather"`
	TempBin          string `parquet:"temp_bin"`

	CulturalDayType string `parquet:"cultural_day_type"`
	TimeOfDayBin    string `parquet:"time_of_day_bin"`
	PandemicPhase   string `parquet:"pandemic_phase"`

	BoroughFlow     string `parquet:"borough_flow"`
	BoroughFlowType string `parquet:"borough_flow_type"`
	TripTypeZone    string `parquet:"trip_type_zone"`
	TripArchetype   string `parquet:"trip_archetype"`
}

// Stats summarizes one file's pass through the pipeline.
type Stats struct {
	RowsIn       int
	RowsProvider int
	RowsOut      int
	Elapsed      time.Duration
}

// Dropped returns how many provider rows the validation filter removed.
func (s Stats) Dropped() int {
	return s.RowsProvider - s.RowsOut
}

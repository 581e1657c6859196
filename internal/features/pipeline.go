package features

import (
	"log/slog"
	"time"

	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/refdata"
)

// UberLicense is the HVFHV license of the single service provider this
// pipeline analyzes.
const UberLicense = "HV0003"

const (
	milesToKm = 1.60934
	// epsilon guards every ratio denominator so implausible-but-present
	// records reach the filter instead of dividing by zero.
	epsilon = 0.01
)

// Pipeline enriches raw trip records against the shared reference tables.
type Pipeline struct {
	zones   *refdata.ZoneIndex
	weather *refdata.WeatherIndex
	bounds  FilterBounds
	logger  *slog.Logger
}

// NewPipeline creates a feature pipeline. A nil logger falls back to
// slog.Default.
func NewPipeline(zones *refdata.ZoneIndex, weather *refdata.WeatherIndex, bounds FilterBounds, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{zones: zones, weather: weather, bounds: bounds, logger: logger}
}

// Transform enriches one file's records and applies the validation filter.
// The input is never mutated; every output record is freshly derived.
func (p *Pipeline) Transform(trips []TripRecord) ([]EnrichedTrip, Stats) {
	start := time.Now()
	stats := Stats{RowsIn: len(trips)}

	provider := make([]TripRecord, 0, len(trips))
	for i := range trips {
		if trips[i].HvfhsLicenseNum == UberLicense {
			provider = append(provider, trips[i])
		}
	}
	stats.RowsProvider = len(provider)

	// File-local fallback: records without a weather match get the mean
	// temperature of the matched records in the same file, not a global
	// constant.
	meanTemp := p.fileMeanTemp(provider)

	out := make([]EnrichedTrip, 0, len(provider))
	for i := range provider {
		e := p.enrich(&provider[i], meanTemp)
		if p.bounds.Keep(&e) {
			out = append(out, e)
		}
	}

	stats.RowsOut = len(out)
	stats.Elapsed = time.Since(start)

	p.logger.Debug("file transformed",
		slog.Int("rows_in", stats.RowsIn),
		slog.Int("rows_provider", stats.RowsProvider),
		slog.Int("rows_out", stats.RowsOut),
		slog.Duration("elapsed", stats.Elapsed),
	)

	return out, stats
}

func (p *Pipeline) fileMeanTemp(trips []TripRecord) float64 {
	var sum float64
	var n int
	for i := range trips {
		if obs, ok := p.weather.At(trips[i].PickupDatetime); ok {
			sum += obs.Temp
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (p *Pipeline) enrich(t *TripRecord, meanTemp float64) EnrichedTrip {
	e := EnrichedTrip{
		PULocationID:        t.PULocationID,
		DOLocationID:        t.DOLocationID,
		PickupDatetime:      t.PickupDatetime,
		DropoffDatetime:     t.DropoffDatetime,
		WAVRequestFlag:      flagValue(t.WAVRequestFlag),
		WAVMatchFlag:        flagValue(t.WAVMatchFlag),
		SharedRequestFlag:   flagValue(t.SharedRequestFlag),
		SharedMatchFlag:     flagValue(t.SharedMatchFlag),
		AccessARideFlag:     flagValue(t.AccessARideFlag),
		BasePassengerFare:   t.BasePassengerFare,
		Tips:                t.Tips,
		Tolls:               t.Tolls,
		CongestionSurcharge: t.CongestionSurcharge,
		AirportFee:          t.AirportFee,
		SalesTax:            t.SalesTax,
		BCF:                 t.BCF,
		CBDCongestionFee:    t.CBDCongestionFee,
		DriverPay:           t.DriverPay,
	}

	// Core physics and calendar.
	e.TripKm = t.TripMiles * milesToKm
	e.DurationSeconds = t.DropoffDatetime.Sub(t.PickupDatetime).Seconds()
	e.DurationMin = e.DurationSeconds / 60

	pu := t.PickupDatetime
	e.PickupHour = int32(pu.Hour())
	e.PickupDay = int32(pu.Day())
	e.PickupMonth = int32(pu.Month())
	e.PickupYear = int32(pu.Year())
	e.PickupDOW = int32(isoWeekday(pu))
	e.PickupDate = pu.Format("2006-01-02")

	// Service metrics. A negative span means the timestamps contradict each
	// other; null it instead of clamping so averages stay unbiased.
	e.TotalWaitTimeMin = minutesBetween(t.RequestDatetime, t.PickupDatetime)
	e.DriverResponseTimeMin = minutesBetween(t.RequestDatetime, t.OnSceneDatetime)
	e.BoardingTimeMin = minutesBetween(t.OnSceneDatetime, t.PickupDatetime)

	// Geospatial join and physics.
	puZone, puOK := p.zones.Lookup(int(t.PULocationID))
	doZone, doOK := p.zones.Lookup(int(t.DOLocationID))
	if puOK {
		e.PickupBorough = puZone.Borough
		e.PickupZone = puZone.Name
	}
	if doOK {
		e.DropoffBorough = doZone.Borough
		e.DropoffZone = doZone.Name
	}
	if puOK && doOK {
		e.StraightLineDistKm = haversineKm(puZone.CentroidLat, puZone.CentroidLon, doZone.CentroidLat, doZone.CentroidLon)
		e.BearingDegrees = bearingDegrees(puZone.CentroidLat, puZone.CentroidLon, doZone.CentroidLat, doZone.CentroidLon)
	}

	e.SpeedKmh = e.TripKm / (e.DurationSeconds / 3600)
	e.DisplacementSpeedKmh = e.StraightLineDistKm / (e.DurationMin / 60)
	e.TortuosityIndex = e.TripKm / (e.StraightLineDistKm + epsilon)

	// Economics.
	e.TotalRiderCost = e.BasePassengerFare + e.Tolls + e.Tips + e.CongestionSurcharge +
		e.AirportFee + e.SalesTax + e.BCF + e.CBDCongestionFee
	e.CostPerKm = e.TotalRiderCost / (e.TripKm + epsilon)
	e.DriverRevenueShare = e.DriverPay / (e.BasePassengerFare + epsilon)
	e.UberTakeRateProxy = 1 - e.DriverRevenueShare
	e.PayPerHour = e.DriverPay / (e.DurationMin/60 + epsilon)
	e.TippingPct = e.Tips / (e.BasePassengerFare + epsilon)
	if e.TippingPct > 0.25 {
		e.IsGenerousTip = 1
	}
	if e.DriverRevenueShare > 1.0 {
		e.IsSubsidized = 1
	}

	// Weather join and categorization.
	obs, hasObs := p.weather.At(pu)
	var precip, snow, snowDepth float64
	if hasObs {
		precip = obs.Precip
		snow = obs.Snow
		snowDepth = obs.SnowDepth
		e.Temp = obs.Temp
		e.Conditions = obs.Conditions
		e.WindIntensity = windIntensity(obs.WindSpeed)
		e.VisibilityStatus = visibilityStatus(obs.Visibility)
	} else {
		e.Temp = meanTemp
		e.WindIntensity = "calm"
		e.VisibilityStatus = "clear"
	}
	e.RainIntensity = rainIntensity(precip)
	e.SnowIntensity = snowIntensity(snow)
	e.WeatherState = weatherState(e.SnowIntensity, snow, snowDepth, e.RainIntensity)
	if isBadWeather(e.RainIntensity, e.SnowIntensity, e.WindIntensity, e.VisibilityStatus) {
		e.IsBadWeather = 1
	}
	if isExtremeWeather(e.RainIntensity, e.SnowIntensity, e.WindIntensity) {
		e.IsExtremeWeather = 1
	}
	e.TempBin = tempBin(e.Temp)

	// Cyclical encodings.
	e.CyclicalHourSin, e.CyclicalHourCos = cyclical(float64(e.PickupHour), 24)
	e.CyclicalMonthSin, e.CyclicalMonthCos = cyclical(float64(e.PickupMonth), 12)
	e.CyclicalDaySin, e.CyclicalDayCos = cyclical(float64(e.PickupDOW), 7)

	// Categorical engines.
	e.CulturalDayType = culturalDayType(int(e.PickupDOW), int(e.PickupHour))
	e.TimeOfDayBin = timeOfDayBin(int(e.PickupHour))
	e.PandemicPhase = pandemicPhase(pu)
	e.BoroughFlow = e.PickupBorough + " -> " + e.DropoffBorough
	e.BoroughFlowType = boroughFlowType(e.PickupBorough, e.DropoffBorough)
	e.TripTypeZone = tripTypeZone(e.PULocationID, e.DOLocationID, e.PickupBorough, e.DropoffBorough)
	e.TripArchetype = tripArchetype(e.PULocationID, e.DOLocationID, e.CulturalDayType, e.TimeOfDayBin)

	return e
}

func flagValue(s string) int32 {
	if s == "Y" {
		return 1
	}
	return 0
}

// minutesBetween returns the span from a to b in minutes, or nil when either
// timestamp is missing or the span is negative.
func minutesBetween(a, b time.Time) *float64 {
	if a.IsZero() || b.IsZero() {
		return nil
	}
	mins := b.Sub(a).Minutes()
	if mins < 0 {
		return nil
	}
	return &mins
}

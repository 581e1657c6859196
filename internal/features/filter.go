package features

// FilterBounds holds the plausibility limits applied after enrichment. All
// intervals are closed. The tip rule admits tips above the cap only when they
// stay within a multiple of the base fare, so large legitimate tips on
// expensive rides survive while implausible flat outliers are dropped. The
// cap and multiplier have no documented rationale upstream, so they stay
// configurable rather than hard-coded.
type FilterBounds struct {
	TripKmMin          float64
	TripKmMax          float64
	DurationSecondsMin float64
	DurationSecondsMax float64
	SpeedKmhMin        float64
	SpeedKmhMax        float64
	ZoneIDMin          int32
	ZoneIDMax          int32
	BaseFareMin        float64
	BaseFareMax        float64
	DriverPayMin       float64
	DriverPayMax       float64
	CongestionSurchMax float64
	TollsMax           float64
	SalesTaxMax        float64
	BCFMax             float64
	AirportFeeMax      float64
	TipCap             float64
	TipFareMultiple    float64
}

// DefaultFilterBounds returns the standard plausibility limits.
func DefaultFilterBounds() FilterBounds {
	return FilterBounds{
		TripKmMin:          0.15,
		TripKmMax:          120,
		DurationSecondsMin: 60,
		DurationSecondsMax: 15000,
		SpeedKmhMin:        1,
		SpeedKmhMax:        100,
		ZoneIDMin:          1,
		ZoneIDMax:          263,
		BaseFareMin:        0.10,
		BaseFareMax:        300,
		DriverPayMin:       0.01,
		DriverPayMax:       200,
		CongestionSurchMax: 2.75,
		TollsMax:           50,
		SalesTaxMax:        40,
		BCFMax:             15,
		AirportFeeMax:      6,
		TipCap:             50,
		TipFareMultiple:    4,
	}
}

// Keep reports whether the enriched trip passes every plausibility bound.
// Records failing any bound are dropped, never corrected.
func (b FilterBounds) Keep(e *EnrichedTrip) bool {
	if e.TripKm < b.TripKmMin || e.TripKm > b.TripKmMax {
		return false
	}
	if e.DurationSeconds < b.DurationSecondsMin || e.DurationSeconds > b.DurationSecondsMax {
		return false
	}
	if e.SpeedKmh < b.SpeedKmhMin || e.SpeedKmh > b.SpeedKmhMax {
		return false
	}
	if e.PULocationID < b.ZoneIDMin || e.PULocationID > b.ZoneIDMax {
		return false
	}
	if e.DOLocationID < b.ZoneIDMin || e.DOLocationID > b.ZoneIDMax {
		return false
	}
	if e.BasePassengerFare < b.BaseFareMin || e.BasePassengerFare > b.BaseFareMax {
		return false
	}
	if e.DriverPay < b.DriverPayMin || e.DriverPay > b.DriverPayMax {
		return false
	}
	if e.CongestionSurcharge < 0 || e.CongestionSurcharge > b.CongestionSurchMax {
		return false
	}
	if e.Tolls < 0 || e.Tolls > b.TollsMax {
		return false
	}
	if e.SalesTax < 0 || e.SalesTax > b.SalesTaxMax {
		return false
	}
	if e.BCF < 0 || e.BCF > b.BCFMax {
		return false
	}
	if e.AirportFee < 0 || e.AirportFee > b.AirportFeeMax {
		return false
	}
	// Smart tip rule: modest tips always pass, large ones only in proportion
	// to the fare. The CBD congestion fee is intentionally unbounded.
	if e.Tips > b.TipCap && e.Tips > e.BasePassengerFare*b.TipFareMultiple {
		return false
	}
	return true
}

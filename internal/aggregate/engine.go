package aggregate

import (
	"sort"

	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/schema"
)

type timelineKey struct {
	year, month, day, hour    int32
	flow, archetype, cultural string
}

type networkKey struct {
	year, month int32
	puID, doID  int32
	puB, doB    string
}

type economicKey struct {
	date, tod, weather, flow string
}

type timelineAcc struct {
	count                   int64
	fareSum, paySum, cbdSum float64
	grossSum, tipsSum       float64
	kmSum, speedSum         float64
	bad, extreme            int64
	milesSum                float64
}

type networkAcc struct {
	count           int64
	durSum, costSum float64
	dispSum         float64
	waitSum         float64
	waitN           int64
	respSum         float64
	respN           int64
	tripTimeSum     float64
	tripTimeN       int64
}

type economicAcc struct {
	count                    int64
	shares, fares            []float64
	takeSum, tipSum, wageSum float64
	rains                    []string
}

type executiveAcc struct {
	count             int64
	fareSum           float64
	grossSum, tipsSum float64
	kmSum             float64
	bad, extreme      int64
	waitSum           float64
	waitN             int64
	milesSum          float64
}

// AggregateFile computes the four partial grain tables for one file's
// records. mode and columns come from the harmonizer; raw files get their
// calendar fields synthesized from the pickup timestamp. Row order within
// each table is sorted by key so output is deterministic.
func AggregateFile(records []Record, mode schema.Mode, columns []string) Tables {
	processed := mode == schema.ModeProcessed

	hasYear := schema.Has(columns, "pickup_year")
	hasMonth := schema.Has(columns, "pickup_month")
	hasDay := schema.Has(columns, "pickup_day")
	hasHour := schema.Has(columns, "pickup_hour")
	hasDate := schema.Has(columns, "pickup_date")
	hasBoroughs := processed && schema.Has(columns, "pickup_borough")
	hasTripTime := schema.Has(columns, "trip_time")

	timeline := make(map[timelineKey]*timelineAcc)
	network := make(map[networkKey]*networkAcc)
	economic := make(map[economicKey]*economicAcc)
	executive := make(map[string]*executiveAcc)

	for i := range records {
		r := &records[i]

		year, month, day, hour, date := r.PickupYear, r.PickupMonth, r.PickupDay, r.PickupHour, r.PickupDate
		if !hasYear {
			year = int32(r.PickupDatetime.Year())
		}
		if !hasMonth {
			month = int32(r.PickupDatetime.Month())
		}
		if !hasDay {
			day = int32(r.PickupDatetime.Day())
		}
		if !hasHour {
			hour = int32(r.PickupDatetime.Hour())
		}
		if !hasDate {
			date = r.PickupDatetime.Format("2006-01-02")
		}

		tk := timelineKey{year: year, month: month, day: day, hour: hour}
		if processed {
			tk.flow = r.BoroughFlowType
			tk.archetype = r.TripArchetype
			tk.cultural = r.CulturalDayType
		}
		ta := timeline[tk]
		if ta == nil {
			ta = &timelineAcc{}
			timeline[tk] = ta
		}
		ta.count++
		ta.fareSum += r.BasePassengerFare
		ta.paySum += r.DriverPay
		ta.cbdSum += r.CBDCongestionFee
		if processed {
			ta.grossSum += r.TotalRiderCost
			ta.tipsSum += r.Tips
			ta.kmSum += r.TripKm
			ta.speedSum += r.SpeedKmh
			ta.bad += int64(r.IsBadWeather)
			ta.extreme += int64(r.IsExtremeWeather)
		} else {
			ta.milesSum += r.TripMiles
		}

		nk := networkKey{year: year, month: month, puID: r.PULocationID, doID: r.DOLocationID}
		if hasBoroughs {
			nk.puB = r.PickupBorough
			nk.doB = r.DropoffBorough
		}
		na := network[nk]
		if na == nil {
			na = &networkAcc{}
			network[nk] = na
		}
		na.count++
		if processed {
			na.durSum += r.DurationMin
			na.costSum += r.TotalRiderCost
			na.dispSum += r.DisplacementSpeedKmh
			if r.TotalWaitTimeMin != nil {
				na.waitSum += *r.TotalWaitTimeMin
				na.waitN++
			}
			if r.DriverResponseTimeMin != nil {
				na.respSum += *r.DriverResponseTimeMin
				na.respN++
			}
		} else if hasTripTime {
			na.tripTimeSum += float64(r.TripTime)
			na.tripTimeN++
		}

		if processed {
			ek := economicKey{date: date, tod: r.TimeOfDayBin, weather: r.WeatherState, flow: r.BoroughFlowType}
			ea := economic[ek]
			if ea == nil {
				ea = &economicAcc{}
				economic[ek] = ea
			}
			ea.count++
			ea.shares = append(ea.shares, r.DriverRevenueShare)
			ea.fares = append(ea.fares, r.BasePassengerFare)
			ea.takeSum += r.UberTakeRateProxy
			ea.tipSum += r.TippingPct
			ea.wageSum += r.PayPerHour
			ea.rains = append(ea.rains, r.RainIntensity)
		}

		xa := executive[date]
		if xa == nil {
			xa = &executiveAcc{}
			executive[date] = xa
		}
		xa.count++
		xa.fareSum += r.BasePassengerFare
		if processed {
			xa.grossSum += r.TotalRiderCost
			xa.tipsSum += r.Tips
			xa.kmSum += r.TripKm
			xa.bad += int64(r.IsBadWeather)
			xa.extreme += int64(r.IsExtremeWeather)
			if r.TotalWaitTimeMin != nil {
				xa.waitSum += *r.TotalWaitTimeMin
				xa.waitN++
			}
		} else {
			xa.milesSum += r.TripMiles
		}
	}

	return Tables{
		Timeline:  emitTimeline(timeline, processed),
		Network:   emitNetwork(network, processed, hasTripTime),
		Economic:  emitEconomic(economic),
		Executive: emitExecutive(executive, processed),
	}
}

func emitTimeline(groups map[timelineKey]*timelineAcc, processed bool) []TimelineRow {
	rows := make([]TimelineRow, 0, len(groups))
	for k, a := range groups {
		row := TimelineRow{
			PickupYear:      k.year,
			PickupMonth:     k.month,
			PickupDay:       k.day,
			PickupHour:      k.hour,
			BoroughFlowType: k.flow,
			TripArchetype:   k.archetype,
			CulturalDayType: k.cultural,
			TripCount:       a.count,
			TotalFareAmt:    a.fareSum,
			TotalDriverPay:  a.paySum,
			TotalCBDFee:     a.cbdSum,
		}
		if processed {
			row.TotalRevenueGross = ptr(a.grossSum)
			row.TotalTips = ptr(a.tipsSum)
			row.AvgTripKm = ptr(a.kmSum / float64(a.count))
			row.AvgSpeedKmh = ptr(a.speedSum / float64(a.count))
			row.BadWeatherCount = ptrInt(a.bad)
			row.ExtremeWeatherCount = ptrInt(a.extreme)
		} else {
			row.AvgTripMiles = ptr(a.milesSum / float64(a.count))
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.PickupYear != b.PickupYear {
			return a.PickupYear < b.PickupYear
		}
		if a.PickupMonth != b.PickupMonth {
			return a.PickupMonth < b.PickupMonth
		}
		if a.PickupDay != b.PickupDay {
			return a.PickupDay < b.PickupDay
		}
		if a.PickupHour != b.PickupHour {
			return a.PickupHour < b.PickupHour
		}
		if a.BoroughFlowType != b.BoroughFlowType {
			return a.BoroughFlowType < b.BoroughFlowType
		}
		if a.TripArchetype != b.TripArchetype {
			return a.TripArchetype < b.TripArchetype
		}
		return a.CulturalDayType < b.CulturalDayType
	})
	return rows
}

func emitNetwork(groups map[networkKey]*networkAcc, processed, hasTripTime bool) []NetworkRow {
	rows := make([]NetworkRow, 0, len(groups))
	for k, a := range groups {
		row := NetworkRow{
			PickupYear:     k.year,
			PickupMonth:    k.month,
			PULocationID:   k.puID,
			DOLocationID:   k.doID,
			PickupBorough:  k.puB,
			DropoffBorough: k.doB,
			TripCount:      a.count,
		}
		if processed {
			row.AvgDurationMin = ptr(a.durSum / float64(a.count))
			row.AvgCost = ptr(a.costSum / float64(a.count))
			row.AvgDisplacementSpeed = ptr(a.dispSum / float64(a.count))
			if a.waitN > 0 {
				row.AvgWaitTime = ptr(a.waitSum / float64(a.waitN))
			}
			if a.respN > 0 {
				row.AvgDriverResponse = ptr(a.respSum / float64(a.respN))
			}
		} else if hasTripTime && a.tripTimeN > 0 {
			row.AvgDurationSec = ptr(a.tripTimeSum / float64(a.tripTimeN))
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.PickupYear != b.PickupYear {
			return a.PickupYear < b.PickupYear
		}
		if a.PickupMonth != b.PickupMonth {
			return a.PickupMonth < b.PickupMonth
		}
		if a.PULocationID != b.PULocationID {
			return a.PULocationID < b.PULocationID
		}
		return a.DOLocationID < b.DOLocationID
	})
	return rows
}

func emitEconomic(groups map[economicKey]*economicAcc) []EconomicRow {
	rows := make([]EconomicRow, 0, len(groups))
	for k, a := range groups {
		rows = append(rows, EconomicRow{
			PickupDate:        k.date,
			TimeOfDayBin:      k.tod,
			WeatherState:      k.weather,
			BoroughFlowType:   k.flow,
			TripCount:         a.count,
			AvgDriverShare:    mean(a.shares),
			StdDriverShare:    stddev(a.shares),
			AvgTakeRate:       a.takeSum / float64(a.count),
			AvgTipPct:         a.tipSum / float64(a.count),
			AvgHourlyWage:     a.wageSum / float64(a.count),
			MedianFare:        percentile(a.fares, 0.50),
			P90FareSurgeProxy: percentile(a.fares, 0.90),
			DominantRain:      modal(a.rains),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.PickupDate != b.PickupDate {
			return a.PickupDate < b.PickupDate
		}
		if a.TimeOfDayBin != b.TimeOfDayBin {
			return a.TimeOfDayBin < b.TimeOfDayBin
		}
		if a.WeatherState != b.WeatherState {
			return a.WeatherState < b.WeatherState
		}
		return a.BoroughFlowType < b.BoroughFlowType
	})
	return rows
}

func emitExecutive(groups map[string]*executiveAcc, processed bool) []ExecutiveRow {
	rows := make([]ExecutiveRow, 0, len(groups))
	for date, a := range groups {
		row := ExecutiveRow{
			PickupDate:       date,
			TotalTrips:       a.count,
			TotalFareRevenue: a.fareSum,
		}
		if processed {
			row.TotalGrossBookingValue = ptr(a.grossSum)
			row.TotalTips = ptr(a.tipsSum)
			row.TotalKmTraveled = ptr(a.kmSum)
			row.BadWeatherTripCount = ptrInt(a.bad)
			row.ExtremeWeatherTripCount = ptrInt(a.extreme)
			if a.waitN > 0 {
				row.AvgWaitTime = ptr(a.waitSum / float64(a.waitN))
			}
		} else {
			row.AvgDistanceMiles = ptr(a.milesSum / float64(a.count))
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PickupDate < rows[j].PickupDate })
	return rows
}

func ptr(v float64) *float64 { return &v }

func ptrInt(v int64) *int64 { return &v }

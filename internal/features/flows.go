package features

// airportZones are the fixed airport zone IDs (EWR, JFK, LGA).
var airportZones = map[int32]struct{}{1: {}, 132: {}, 138: {}}

func boroughFlowType(pickup, dropoff string) string {
	switch {
	case pickup == "Manhattan" && dropoff == "Manhattan":
		return "manhattan_internal"
	case pickup == "Manhattan" || dropoff == "Manhattan":
		return "manhattan_outer_commute"
	case pickup != dropoff:
		return "outer_inter"
	default:
		return "outer_intra"
	}
}

func tripTypeZone(puID, doID int32, puBorough, doBorough string) string {
	switch {
	case puID == doID:
		return "intra_zone"
	case puBorough == doBorough:
		return "intra_borough"
	default:
		return "inter_borough"
	}
}

// tripArchetype assigns the dominant purpose of a trip, evaluated in priority
// order: airport trips win outright, then strict commutes (workday rush
// hours), then weekend nightlife.
func tripArchetype(puID, doID int32, dayType, todBin string) string {
	_, puAirport := airportZones[puID]
	_, doAirport := airportZones[doID]

	switch {
	case puAirport || doAirport:
		return "airport"
	case dayType == "workday" && (todBin == "morning_rush" || todBin == "evening_rush"):
		return "commute"
	case dayType == "weekend_night":
		return "nightlife"
	default:
		return "leisure"
	}
}

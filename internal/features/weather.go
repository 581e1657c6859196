package features

// Weather intensity tiers. Each derivation is an ordered guard chain with an
// explicit default; thresholds follow the fixed tables of the data
// dictionary.

func rainIntensity(precipMM float64) string {
	switch {
	case precipMM > 5:
		return "heavy"
	case precipMM >= 1:
		return "moderate"
	case precipMM > 0:
		return "light"
	default:
		return "none"
	}
}

func snowIntensity(snowCM float64) string {
	switch {
	case snowCM >= 20:
		return "severe"
	case snowCM >= 10:
		return "heavy"
	case snowCM >= 2.5:
		return "moderate"
	case snowCM > 0:
		return "trace_light"
	default:
		return "none"
	}
}

func windIntensity(windKmh float64) string {
	switch {
	case windKmh >= 62:
		return "gale"
	case windKmh >= 40:
		return "windy"
	case windKmh >= 15:
		return "breezy"
	default:
		return "calm"
	}
}

func visibilityStatus(visKm float64) string {
	switch {
	case visKm >= 10:
		return "clear"
	case visKm >= 1:
		return "reduced"
	default:
		return "poor_fog"
	}
}

func tempBin(tempC float64) string {
	switch {
	case tempC < 0:
		return "freezing"
	case tempC < 10:
		return "cold"
	case tempC < 20:
		return "mild"
	case tempC < 28:
		return "warm"
	default:
		return "hot"
	}
}

// weatherState collapses the tiers into a single prioritized label. Snow
// strictly dominates rain; lingering snow cover counts when nothing is
// currently falling.
func weatherState(snowTier string, snowCM, snowDepthCM float64, rainTier string) string {
	switch {
	case snowTier != "none":
		return "snowing"
	case snowCM == 0 && snowDepthCM > 5:
		return "snow_on_ground"
	case rainTier == "moderate" || rainTier == "heavy":
		return "raining"
	default:
		return "clear_cloudy"
	}
}

func isBadWeather(rainTier, snowTier, windTier, visTier string) bool {
	return rainTier == "moderate" || rainTier == "heavy" ||
		snowTier != "none" ||
		windTier == "windy" || windTier == "gale" ||
		visTier == "poor_fog"
}

func isExtremeWeather(rainTier, snowTier, windTier string) bool {
	return rainTier == "heavy" ||
		snowTier == "heavy" || snowTier == "severe" ||
		windTier == "gale"
}

package features

import (
	"math"
	"time"
)

// isoWeekday maps Go's Sunday-first weekday to Monday=1..Sunday=7.
func isoWeekday(t time.Time) int {
	dow := int(t.Weekday())
	if dow == 0 {
		return 7
	}
	return dow
}

// culturalDayType classifies the social character of a pickup moment. The
// weekend runs Friday evening through early Sunday; Sunday daytime and the
// small hours of Monday carry the "sunday_rest" label.
func culturalDayType(dow, hour int) string {
	switch {
	case dow == 5 && hour >= 17:
		return "weekend_night"
	case dow == 6 && hour < 5:
		return "weekend_night"
	case dow == 6:
		return "weekend_day"
	case dow == 7 && hour < 5:
		return "weekend_night"
	case dow == 7:
		return "sunday_rest"
	case dow == 1 && hour < 6:
		return "sunday_rest"
	default:
		return "workday"
	}
}

func timeOfDayBin(hour int) string {
	switch {
	case hour >= 6 && hour <= 9:
		return "morning_rush"
	case hour >= 10 && hour <= 15:
		return "midday"
	case hour >= 16 && hour <= 19:
		return "evening_rush"
	case hour >= 20 && hour <= 22:
		return "evening"
	default:
		return "late_night"
	}
}

var (
	lockdownStart  = time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	recoveryStart  = time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	newNormalStart = time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC)
)

func pandemicPhase(t time.Time) string {
	switch {
	case t.Before(lockdownStart):
		return "pre_pandemic"
	case t.Before(recoveryStart):
		return "lockdown"
	case t.Before(newNormalStart):
		return "recovery"
	default:
		return "new_normal"
	}
}

// cyclical encodes value on a circle of the given period so that the ends of
// the range sit next to each other (hour 23 and hour 0 are one step apart).
func cyclical(value, period float64) (sin, cos float64) {
	angle := 2 * math.Pi * value / period
	return math.Sin(angle), math.Cos(angle)
}

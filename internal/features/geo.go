package features

import "math"

// earthRadiusKm is the spherical Earth radius used for haversine distances.
const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between two points in km.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Pow(math.Sin(dLon/2), 2)

	return earthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}

// bearingDegrees returns the initial bearing from the first point to the
// second, normalized to [0, 360).
func bearingDegrees(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2r)
	x := math.Cos(lat1r)*math.Sin(lat2r) - math.Sin(lat1r)*math.Cos(lat2r)*math.Cos(dLon)

	deg := math.Atan2(y, x) * 180 / math.Pi
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

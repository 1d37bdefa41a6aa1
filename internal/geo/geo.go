// Package geo provides the great-circle math used throughout the pipeline.
// All functions are stateless and side-effect free.
package geo

import "math"

// EarthRadiusNM is the mean Earth radius in nautical miles.
const EarthRadiusNM = 3440.065

const degToRad = math.Pi / 180.0

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// DistanceNM calculates the great-circle distance in nautical miles between
// two coordinates using the haversine formula. The result is symmetric and
// zero (within floating tolerance) for identical coordinates.
func DistanceNM(a, b Coordinates) float64 {
	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLat := (b.Lat - a.Lat) * degToRad
	dLon := (b.Lon - a.Lon) * degToRad

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusNM * c
}

// InitialBearingDeg calculates the initial bearing in degrees from a to b,
// normalized to [0,360). The bearing is undefined for coincident points;
// in that case 0 is returned rather than NaN.
func InitialBearingDeg(a, b Coordinates) float64 {
	if a.Lat == b.Lat && a.Lon == b.Lon {
		return 0
	}

	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLon := (b.Lon - a.Lon) * degToRad

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	bearing := math.Atan2(y, x) / degToRad

	return math.Mod(bearing+360.0, 360.0)
}

// Package geo holds great-circle helpers used by the proximity query.
package geo

import (
	"math"

	"parenteye/models"
)

// EarthRadiusKm is the mean Earth radius used for all distance math.
const EarthRadiusKm = 6371.0

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// DistanceKm returns the great-circle distance between a and b in kilometres
// using the spherical law of cosines. The cosine term is clamped to [-1, 1] so
// rounding on identical or antipodal points never yields NaN.
func DistanceKm(a, b models.Coordinate) float64 {
	lat1, lat2 := radians(a.Latitude), radians(b.Latitude)
	dLng := radians(b.Longitude) - radians(a.Longitude)

	c := math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLng) + math.Sin(lat1)*math.Sin(lat2)
	c = math.Max(-1, math.Min(1, c))
	return EarthRadiusKm * math.Acos(c)
}

// Within reports whether b lies within radiusKm of a.
func Within(a, b models.Coordinate, radiusKm float64) bool {
	return DistanceKm(a, b) <= radiusKm
}

// Destination returns the point reached by travelling distanceKm from origin
// along the given bearing (degrees clockwise from north).
func Destination(origin models.Coordinate, bearingDeg, distanceKm float64) models.Coordinate {
	lat1 := radians(origin.Latitude)
	lng1 := radians(origin.Longitude)
	brng := radians(bearingDeg)
	d := distanceKm / EarthRadiusKm

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(brng))
	lng2 := lng1 + math.Atan2(math.Sin(brng)*math.Sin(d)*math.Cos(lat1), math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))

	return models.Coordinate{
		Latitude:  lat2 * 180 / math.Pi,
		Longitude: math.Mod(lng2*180/math.Pi+540, 360) - 180,
	}
}

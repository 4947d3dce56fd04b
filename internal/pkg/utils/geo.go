package utils

import "math"

const earthRadiusMeters = 6371000

// Coordinate is a WGS84 position reported by a client device.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CalculateHaversineDistance returns the great-circle distance between two points in meters.
func CalculateHaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceBetween is CalculateHaversineDistance over coordinates.
func DistanceBetween(a, b Coordinate) float64 {
	return CalculateHaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// ExceedsDistance reports whether a and b are more than limit meters apart.
func ExceedsDistance(a, b Coordinate, limit float64) bool {
	return DistanceBetween(a, b) > limit
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

package shared

import "math"

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// minSpeedKmph guards travel-time division against zero or negative speeds.
const minSpeedKmph = 0.001

// Location is a point on Earth in decimal degrees.
type Location struct {
	Lat float64
	Lon float64
}

// NewLocation creates a location from decimal-degree coordinates.
func NewLocation(lat, lon float64) Location {
	return Location{Lat: lat, Lon: lon}
}

// DistanceKm returns the great-circle (Haversine) distance to other in kilometers.
func (l Location) DistanceKm(other Location) float64 {
	lat1 := degToRad(l.Lat)
	lon1 := degToRad(l.Lon)
	lat2 := degToRad(other.Lat)
	lon2 := degToRad(other.Lon)

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusKm * c
}

// TravelTimeMinutes returns the time in minutes to reach other at the given
// speed in km/h. Speeds at or below zero are clamped to a small positive value.
func (l Location) TravelTimeMinutes(other Location, speedKmph float64) float64 {
	distance := l.DistanceKm(other)
	hours := distance / math.Max(speedKmph, minSpeedKmph)
	return hours * 60.0
}

// IsZero reports whether the location is the zero value (0, 0).
func (l Location) IsZero() bool {
	return l.Lat == 0 && l.Lon == 0
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

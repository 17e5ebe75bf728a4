package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const earthRadiusMeters = 6_371_000.0

// Coordinate is a position in degrees. Longitude comes first, matching orb.Point.
type Coordinate struct {
	Lon float64
	Lat float64
}

// Point converts c to an orb.Point.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// FromPoint converts an orb.Point to a Coordinate.
func FromPoint(p orb.Point) Coordinate {
	return Coordinate{Lon: p.Lon(), Lat: p.Lat()}
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Distance returns the great-circle distance in meters between a and b.
func Distance(a, b Coordinate) float64 {
	return Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// EquirectangularDist returns an approximate distance in meters.
// Cheaper than Haversine and accurate for short spans; use it for ranking
// candidates, not for edge lengths.
func EquirectangularDist(lat1, lon1, lat2, lon2 float64) float64 {
	x := (lon2 - lon1) * math.Cos((lat1+lat2)/2*math.Pi/180) * math.Pi / 180
	y := (lat2 - lat1) * math.Pi / 180
	return math.Sqrt(x*x+y*y) * earthRadiusMeters
}

// Interpolate returns the point at fraction t of the straight lon/lat segment
// from a to b. t = 0 yields a, t = 1 yields b. No geodesic correction is applied.
func Interpolate(a, b Coordinate, t float64) Coordinate {
	return Coordinate{
		Lon: a.Lon + t*(b.Lon-a.Lon),
		Lat: a.Lat + t*(b.Lat-a.Lat),
	}
}

// Midpoint returns the component-wise mean of a and b.
func Midpoint(a, b Coordinate) Coordinate {
	return Coordinate{
		Lon: (a.Lon + b.Lon) / 2,
		Lat: (a.Lat + b.Lat) / 2,
	}
}

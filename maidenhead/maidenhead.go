// Package maidenhead converts Maidenhead grid locators to coordinates and
// computes great-circle distances between them. Locators of 2, 4, 6 or 8
// characters are accepted; anything else decodes to the degenerate (0, 0)
// point so that distance math stays total and the caller can filter on range
// without special-casing bad rosters.
package maidenhead

import (
	"math"
	"strings"
)

const earthRadiusKm = 6371.0

// KmPerMile converts the configured mile radius into the kilometer distances
// returned by Distance.
const KmPerMile = 1.609

// ToLatLon decodes a grid locator into a latitude/longitude pair. Field and
// square characters are required; subsquare and extended-square characters
// refine the position when present. Malformed input yields (0, 0).
func ToLatLon(code string) (lat, lon float64) {
	grid := strings.ToUpper(strings.TrimSpace(code))
	n := len(grid)
	if n < 2 || n > 8 || n%2 != 0 {
		return 0, 0
	}

	lon = float64(grid[0]-'A')*20 - 180
	lat = float64(grid[1]-'A')*10 - 90

	if n >= 4 {
		lon += float64(grid[2]-'0') * 2
		lat += float64(grid[3] - '0')
	}
	if n >= 6 {
		lon += float64(grid[4]-'A')/12 + 1.0/24
		lat += float64(grid[5]-'A')/24 + 1.0/48
	}
	if n >= 8 {
		lon += float64(grid[6]-'0') * 5.0 / 600
		lat += float64(grid[7]-'0') * 2.5 / 600
	}

	return lat, lon
}

// Distance returns the great-circle distance in kilometers between the
// centers encoded by two grid locators, using the haversine formula.
func Distance(a, b string) float64 {
	lat1, lon1 := ToLatLon(a)
	lat2, lon2 := ToLatLon(b)

	dLat := radians(lat2) - radians(lat1)
	dLon := radians(lon2) - radians(lon1)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// DistanceMiles returns Distance converted to statute miles.
func DistanceMiles(a, b string) float64 {
	return Distance(a, b) / KmPerMile
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

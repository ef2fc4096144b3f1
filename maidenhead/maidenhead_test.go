package maidenhead

import (
	"math"
	"testing"
)

func TestToLatLonKnownGrids(t *testing.T) {
	tests := []struct {
		grid string
		lat  float64
		lon  float64
	}{
		{"AA", -90, -180},
		{"JJ00", 0, 0},
		{"DM13", 33, -118},
		{"FN42", 42, -72},
	}
	for _, tt := range tests {
		lat, lon := ToLatLon(tt.grid)
		if math.Abs(lat-tt.lat) > 1e-9 || math.Abs(lon-tt.lon) > 1e-9 {
			t.Errorf("ToLatLon(%q) = (%v, %v), want (%v, %v)", tt.grid, lat, lon, tt.lat, tt.lon)
		}
	}
}

func TestToLatLonAcceptsLowercaseAndWhitespace(t *testing.T) {
	lat1, lon1 := ToLatLon(" dm13at ")
	lat2, lon2 := ToLatLon("DM13AT")
	if lat1 != lat2 || lon1 != lon2 {
		t.Fatalf("normalization mismatch: (%v,%v) vs (%v,%v)", lat1, lon1, lat2, lon2)
	}
}

func TestToLatLonMalformed(t *testing.T) {
	for _, grid := range []string{"", "D", "DM1", "DM13A", "DM13AT2", "DM13AT23XX"} {
		lat, lon := ToLatLon(grid)
		if lat != 0 || lon != 0 {
			t.Errorf("ToLatLon(%q) = (%v, %v), want degenerate (0, 0)", grid, lat, lon)
		}
	}
}

func TestToLatLonStaysInCoordinateSpace(t *testing.T) {
	for f1 := byte('A'); f1 <= 'R'; f1++ {
		for f2 := byte('A'); f2 <= 'R'; f2++ {
			grid := string([]byte{f1, f2, '9', '9', 'X', 'X', '9', '9'})
			lat, lon := ToLatLon(grid)
			if lat < -90 || lat > 90 {
				t.Fatalf("ToLatLon(%q) lat = %v out of range", grid, lat)
			}
			if lon < -180 || lon > 180 {
				t.Fatalf("ToLatLon(%q) lon = %v out of range", grid, lon)
			}
		}
	}
}

func TestDistanceSymmetricAndZeroOnSelf(t *testing.T) {
	pairs := [][2]string{
		{"DM13", "FN42"},
		{"DM13AT", "DM13"},
		{"AA", "RR"},
		{"JN76", "IO91"},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1])
		ba := Distance(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Distance(%q,%q)=%v != Distance(%q,%q)=%v", p[0], p[1], ab, p[1], p[0], ba)
		}
		if ab < 0 {
			t.Errorf("Distance(%q,%q)=%v negative", p[0], p[1], ab)
		}
	}
	if d := Distance("DM13AT", "DM13AT"); d != 0 {
		t.Errorf("Distance to self = %v, want 0", d)
	}
}

func TestDistanceCrossCountry(t *testing.T) {
	// Southern California to New England is roughly 4100 km.
	d := Distance("DM13", "FN42")
	if d < 3500 || d > 4700 {
		t.Fatalf("Distance(DM13, FN42) = %v km, want ~4100", d)
	}
	mi := DistanceMiles("DM13", "FN42")
	if math.Abs(mi-d/KmPerMile) > 1e-9 {
		t.Fatalf("DistanceMiles inconsistent with Distance: %v vs %v", mi, d/KmPerMile)
	}
}

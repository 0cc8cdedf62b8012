package geo

import "testing"

func TestDistanceMilesZero(t *testing.T) {
	if d := DistanceMiles(40.7128, -74.0060, 40.7128, -74.0060); d != 0 {
		t.Fatalf("expected 0 distance for identical points, got %v", d)
	}
}

func TestDistanceMilesKnownPairs(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{"nyc to la", 40.7128, -74.0060, 34.0522, -118.2437, 2446, 15},
		{"london to paris", 51.5074, -0.1278, 48.8566, 2.3522, 213, 5},
		{"sf to oakland", 37.7749, -122.4194, 37.8044, -122.2712, 8.2, 1},
	}
	for _, tc := range cases {
		got := DistanceMiles(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
		if got < tc.want-tc.tolerance || got > tc.want+tc.tolerance {
			t.Fatalf("%s: expected ~%v miles, got %v", tc.name, tc.want, got)
		}
	}
}

func TestDistanceMilesSymmetric(t *testing.T) {
	a := DistanceMiles(40.7128, -74.0060, 34.0522, -118.2437)
	b := DistanceMiles(34.0522, -118.2437, 40.7128, -74.0060)
	if a != b {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
}

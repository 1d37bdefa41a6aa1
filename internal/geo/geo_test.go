package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceNMZeroForSamePoint(t *testing.T) {
	points := []Coordinates{
		{0, 0},
		{-33.85, 151.21},
		{89.9, -179.9},
	}
	for _, p := range points {
		assert.InDelta(t, 0, DistanceNM(p, p), 1e-9)
	}
}

func TestDistanceNMSymmetric(t *testing.T) {
	a := Coordinates{Lat: -33.85, Lon: 151.21}
	b := Coordinates{Lat: -33.80, Lon: 151.28}
	assert.InDelta(t, DistanceNM(a, b), DistanceNM(b, a), 1e-12)
}

func TestDistanceNMOneDegreeLongitudeAtEquator(t *testing.T) {
	// One degree of longitude at the equator is one degree of arc,
	// i.e. 60 nautical miles.
	a := Coordinates{Lat: 0, Lon: 0}
	b := Coordinates{Lat: 0, Lon: 1}
	assert.InDelta(t, 60.0, DistanceNM(a, b), 1.0)
}

func TestDistanceNMLongRange(t *testing.T) {
	// Sydney to Auckland is roughly 1,160 nm.
	sydney := Coordinates{Lat: -33.8688, Lon: 151.2093}
	auckland := Coordinates{Lat: -36.8485, Lon: 174.7633}
	d := DistanceNM(sydney, auckland)
	assert.Greater(t, d, 1100.0)
	assert.Less(t, d, 1220.0)
}

func TestInitialBearingDeg(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Coordinates
		expected float64
	}{
		{"due north", Coordinates{0, 0}, Coordinates{1, 0}, 0},
		{"due east", Coordinates{0, 0}, Coordinates{0, 1}, 90},
		{"due south", Coordinates{1, 0}, Coordinates{0, 0}, 180},
		{"due west", Coordinates{0, 1}, Coordinates{0, 0}, 270},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, InitialBearingDeg(tc.a, tc.b), 0.01)
		})
	}
}

func TestInitialBearingDegCoincidentPoints(t *testing.T) {
	p := Coordinates{Lat: -33.85, Lon: 151.21}
	assert.Equal(t, 0.0, InitialBearingDeg(p, p))
}

func TestInitialBearingDegRange(t *testing.T) {
	a := Coordinates{Lat: 10, Lon: 10}
	cases := []Coordinates{
		{20, 5}, {5, 20}, {-10, -10}, {10.001, 9.999},
	}
	for _, b := range cases {
		brg := InitialBearingDeg(a, b)
		assert.GreaterOrEqual(t, brg, 0.0)
		assert.Less(t, brg, 360.0)
	}
}

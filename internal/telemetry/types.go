package telemetry

import (
	"encoding/json"
	"fmt"
	"time"
)

// RawTrackPoint is a single instrument sample as produced by one of the
// parsers. Timestamps are UTC milliseconds since the Unix epoch and are
// non-decreasing within a file. Heading, altitude, roll and pitch are only
// available from the binary format; HasAttitude reports whether they were set.
type RawTrackPoint struct {
	UTC         int64   `json:"utc"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	COG         float64 `json:"cog"` // degrees, [0,360)
	SOG         float64 `json:"sog"` // knots
	Heading     float64 `json:"hdg,omitempty"`
	Altitude    float64 `json:"alt,omitempty"`
	Roll        float64 `json:"roll,omitempty"`
	Pitch       float64 `json:"pitch,omitempty"`
	HasAttitude bool    `json:"-"`
}

// Time returns the sample timestamp as a time.Time in UTC.
func (p RawTrackPoint) Time() time.Time {
	return time.UnixMilli(p.UTC).UTC()
}

// Valid reports whether the point carries sailing-plausible values.
// Points failing this check are dropped by the parsers.
func (p RawTrackPoint) Valid() bool {
	if p.Lat < -90 || p.Lat > 90 {
		return false
	}
	if p.Lon < -180 || p.Lon > 180 {
		return false
	}
	if p.SOG < 0 || p.SOG > 100 {
		return false
	}
	return true
}

// PointOfSail is the qualitative sailing-angle bucket derived from the
// absolute true wind angle.
type PointOfSail int

const (
	HeadToWind PointOfSail = iota // |twa| <= 30
	Upwind                        // |twa| <= 60
	Reach                         // |twa| <= 95
	Downwind                      // everything else
)

var pointOfSailNames = map[PointOfSail]string{
	HeadToWind: "head_to_wind",
	Upwind:     "upwind",
	Reach:      "reach",
	Downwind:   "downwind",
}

func (p PointOfSail) String() string {
	if name, ok := pointOfSailNames[p]; ok {
		return name
	}
	return fmt.Sprintf("point_of_sail(%d)", int(p))
}

// MarshalJSON encodes the point of sail as its string name.
func (p PointOfSail) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Tack identifies which side the wind crosses the vessel from.
type Tack int

const (
	Starboard Tack = iota // twa >= 0
	Port                  // twa < 0
)

func (t Tack) String() string {
	if t == Port {
		return "port"
	}
	return "starboard"
}

// MarshalJSON encodes the tack as its string name.
func (t Tack) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// ManoeuvreType classifies a detected transition between classified points.
type ManoeuvreType int

const (
	ManoeuvreNone ManoeuvreType = iota
	ManoeuvreTack
	ManoeuvreGybe
	ManoeuvreRoundUp
	ManoeuvreBearAway
)

var manoeuvreNames = map[ManoeuvreType]string{
	ManoeuvreNone:     "",
	ManoeuvreTack:     "tack",
	ManoeuvreGybe:     "gybe",
	ManoeuvreRoundUp:  "round_up",
	ManoeuvreBearAway: "bear_away",
}

func (m ManoeuvreType) String() string {
	if name, ok := manoeuvreNames[m]; ok {
		return name
	}
	return fmt.Sprintf("manoeuvre(%d)", int(m))
}

// MarshalJSON encodes the manoeuvre type as its string name.
func (m ManoeuvreType) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// ClassifiedTrackPoint extends a RawTrackPoint with per-point wind data and
// the sail-state classification derived from it. Instances are never mutated
// after creation; classification of point i may depend on point i-1 but
// never on later points.
type ClassifiedTrackPoint struct {
	RawTrackPoint

	TWD       float64       `json:"twd"` // true wind direction, degrees
	TWS       float64       `json:"tws"` // true wind speed, knots
	TWA       int           `json:"twa"` // signed true wind angle, (-180,180]
	Sail      PointOfSail   `json:"point_of_sail"`
	Tack      Tack          `json:"tack"`
	Manoeuvre ManoeuvreType `json:"manoeuvre,omitempty"`
}

// ManoeuvreEvent identifies one detected transition. Timestamp is the UTC
// millisecond stamp of the point at which the transition was observed;
// Duration is the delta to the previous point in seconds.
type ManoeuvreEvent struct {
	Type      ManoeuvreType `json:"type"`
	UTC       int64         `json:"utc"`
	Duration  float64       `json:"duration_sec"`
	StartTwa  int           `json:"start_twa"`
	EndTwa    int           `json:"end_twa"`
	StartTack Tack          `json:"start_tack"`
	EndTack   Tack          `json:"end_tack"`
}

// TrackSummary aggregates a full classified sequence. It is recomputed
// wholesale from the final sequence and has no lifecycle of its own.
type TrackSummary struct {
	DistanceNM  float64 `json:"distance_nm"`
	DurationMin float64 `json:"duration_min"`
	AvgSpeedKts float64 `json:"avg_speed_kts"`
	MaxSpeedKts float64 `json:"max_speed_kts"`
	TackCount   int     `json:"tack_count"`
	GybeCount   int     `json:"gybe_count"`
	AvgAbsTwa   float64 `json:"avg_abs_twa"`
}

// TrackMetadata describes the source file a track came from.
type TrackMetadata struct {
	Name       string `json:"name"`
	SizeBytes  int64  `json:"size_bytes"`
	PointCount int    `json:"point_count"`
	StartUTC   int64  `json:"start_utc"`
	EndUTC     int64  `json:"end_utc"`
}

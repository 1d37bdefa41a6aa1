package vkx

// Record tags as written by the instrument. Every record is a 1-byte tag
// immediately followed by a fixed-size little-endian payload; the payload
// length is determined solely by the tag.
const (
	TagInternal1      = 0x01
	TagPosition       = 0x02
	TagDeclination    = 0x03
	TagRaceTimer      = 0x04
	TagLinePosition   = 0x05
	TagShiftAngle     = 0x06
	TagInternal7      = 0x07
	TagDeviceConfig   = 0x08
	TagWind           = 0x0A
	TagInternal14     = 0x0E
	TagInternal32     = 0x20
	TagPageTerminator = 0xFE
	TagPageHeader     = 0xFF
)

// payloadSizes maps a record tag to its fixed payload length in bytes.
// Tags absent from this map are unknown and trigger resynchronization.
var payloadSizes = map[byte]int{
	TagPageHeader:     7,
	TagPageTerminator: 2,
	TagPosition:       44,
	TagDeclination:    20,
	TagRaceTimer:      13,
	TagLinePosition:   17,
	TagShiftAngle:     18,
	TagDeviceConfig:   13,
	TagWind:           16,
	TagInternal1:      32,
	TagInternal7:      12,
	TagInternal14:     16,
	TagInternal32:     13,
}

// RaceTimerEvent is a decoded race-timer record (tag 0x04).
type RaceTimerEvent struct {
	UTC   int64 `json:"utc"` // milliseconds
	Event uint8 `json:"event"`
	Value int32 `json:"value"`
}

// LinePosition is a decoded start-line position record (tag 0x05).
type LinePosition struct {
	UTC  int64   `json:"utc"` // milliseconds
	Line uint8   `json:"line"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// ShiftAngle is a decoded wind-shift angle record (tag 0x06).
type ShiftAngle struct {
	UTC    int64   `json:"utc"` // milliseconds
	Type   uint8   `json:"type"`
	Angle  uint8   `json:"angle"`
	Value1 float64 `json:"value1"`
	Value2 float64 `json:"value2"`
}

// WindSample is a decoded wind data record (tag 0x0A). Samples can be fed
// into wind.NewSeriesSource to classify the same file they came from.
type WindSample struct {
	UTC          int64   `json:"utc"` // milliseconds
	SpeedKts     float64 `json:"speed_kts"`
	DirectionDeg float64 `json:"direction_deg"`
}

// AuxRecords is the side channel of non-position records decoded from a
// file, each slice in encounter order.
type AuxRecords struct {
	RaceTimers    []RaceTimerEvent `json:"race_timers,omitempty"`
	LinePositions []LinePosition   `json:"line_positions,omitempty"`
	ShiftAngles   []ShiftAngle     `json:"shift_angles,omitempty"`
	Wind          []WindSample     `json:"wind,omitempty"`
}

// Package vkx decodes the vendor binary telemetry format: a flat sequence
// of tagged, fixed-size little-endian records.
package vkx

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/lmaren/sailtrace/internal/telemetry"
	"github.com/lmaren/sailtrace/pkg/logger"
)

// ErrEmptyBuffer is returned when the input buffer has no bytes at all.
// A truncated buffer is not an error; an empty one is.
var ErrEmptyBuffer = errors.New("vkx: empty input buffer")

const (
	latLonScale = 1e-7
	radToDeg    = 180.0 / math.Pi
)

// Decoder turns a raw byte buffer into track points and auxiliary records.
type Decoder struct {
	logger *logger.Logger
}

// NewDecoder creates a new binary telemetry decoder.
func NewDecoder(log *logger.Logger) *Decoder {
	return &Decoder{logger: log.Named("vkx-decoder")}
}

// Decode walks the buffer record by record and returns all decoded position
// records plus the auxiliary side channel.
//
// Unknown tags never abort the decode: a warning is logged and the decoder
// resynchronizes by advancing one byte at a time. A recognized tag whose
// payload extends past the end of the buffer ends the decode; everything
// decoded up to that point is returned without error.
func (d *Decoder) Decode(data []byte) ([]telemetry.RawTrackPoint, *AuxRecords, error) {
	if len(data) == 0 {
		return nil, nil, ErrEmptyBuffer
	}

	points := []telemetry.RawTrackPoint{}
	aux := &AuxRecords{}
	dropped := 0

	i := 0
	for i < len(data) {
		tag := data[i]
		size, ok := payloadSizes[tag]
		if !ok {
			// No length prefix in the format, so an unknown tag leaves us
			// without a record boundary. Slide forward one byte until a
			// known tag lines up again.
			d.logger.Warn("Unknown record tag, resynchronizing",
				logger.Int("tag", int(tag)),
				logger.Int("offset", i))
			i++
			continue
		}

		if len(data)-i-1 < size {
			// Truncated final record: return what we have.
			d.logger.Debug("Buffer ends mid-record, stopping",
				logger.Int("tag", int(tag)),
				logger.Int("offset", i),
				logger.Int("missing", size-(len(data)-i-1)))
			break
		}

		payload := data[i+1 : i+1+size]
		switch tag {
		case TagPosition:
			p := decodePosition(payload)
			if p.Valid() {
				points = append(points, p)
			} else {
				dropped++
			}
		case TagRaceTimer:
			aux.RaceTimers = append(aux.RaceTimers, RaceTimerEvent{
				UTC:   microsToMillis(binary.LittleEndian.Uint64(payload[0:8])),
				Event: payload[8],
				Value: int32(binary.LittleEndian.Uint32(payload[9:13])),
			})
		case TagLinePosition:
			aux.LinePositions = append(aux.LinePositions, LinePosition{
				UTC:  microsToMillis(binary.LittleEndian.Uint64(payload[0:8])),
				Line: payload[8],
				Lat:  float64(int32(binary.LittleEndian.Uint32(payload[9:13]))) * latLonScale,
				Lon:  float64(int32(binary.LittleEndian.Uint32(payload[13:17]))) * latLonScale,
			})
		case TagShiftAngle:
			aux.ShiftAngles = append(aux.ShiftAngles, ShiftAngle{
				UTC:    microsToMillis(binary.LittleEndian.Uint64(payload[0:8])),
				Type:   payload[8],
				Angle:  payload[9],
				Value1: float64(float32frombytes(payload[10:14])),
				Value2: float64(float32frombytes(payload[14:18])),
			})
		case TagWind:
			aux.Wind = append(aux.Wind, WindSample{
				UTC:          microsToMillis(binary.LittleEndian.Uint64(payload[0:8])),
				SpeedKts:     float64(float32frombytes(payload[8:12])),
				DirectionDeg: float64(float32frombytes(payload[12:16])),
			})
		default:
			// Page framing, declination, device config and internal
			// diagnostics carry nothing the pipeline uses.
		}

		i += 1 + size
	}

	if dropped > 0 {
		d.logger.Warn("Dropped out-of-range position records",
			logger.Int("dropped", dropped),
			logger.Int("kept", len(points)))
	}

	return points, aux, nil
}

// decodePosition unpacks a tag 0x02 payload: u64 utc(us), i32 lat, i32 lon,
// f32 sog(kts), f32 cog(radians), f32 alt(m), f32 quaternion w/x/y/z.
func decodePosition(payload []byte) telemetry.RawTrackPoint {
	utc := microsToMillis(binary.LittleEndian.Uint64(payload[0:8]))
	lat := float64(int32(binary.LittleEndian.Uint32(payload[8:12]))) * latLonScale
	lon := float64(int32(binary.LittleEndian.Uint32(payload[12:16]))) * latLonScale
	sog := float64(float32frombytes(payload[16:20]))
	// cog is the one course field the instrument stores in radians.
	// Convert here so nothing downstream ever sees radians.
	cog := math.Mod(float64(float32frombytes(payload[20:24]))*radToDeg+360.0, 360.0)
	alt := float64(float32frombytes(payload[24:28]))

	w := float64(float32frombytes(payload[28:32]))
	x := float64(float32frombytes(payload[32:36]))
	y := float64(float32frombytes(payload[36:40]))
	z := float64(float32frombytes(payload[40:44]))
	roll, pitch, heading := quaternionToEuler(w, x, y, z)

	return telemetry.RawTrackPoint{
		UTC:         utc,
		Lat:         lat,
		Lon:         lon,
		COG:         cog,
		SOG:         sog,
		Heading:     heading,
		Altitude:    alt,
		Roll:        roll,
		Pitch:       pitch,
		HasAttitude: true,
	}
}

// quaternionToEuler converts an orientation quaternion in the NED frame to
// roll, pitch and heading in degrees.
func quaternionToEuler(w, x, y, z float64) (roll, pitch, heading float64) {
	roll = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y)) * radToDeg

	sinPitch := 2 * (w*y - z*x)
	if sinPitch > 1 {
		sinPitch = 1
	} else if sinPitch < -1 {
		sinPitch = -1
	}
	pitch = math.Asin(sinPitch) * radToDeg

	heading = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z)) * radToDeg
	return roll, pitch, heading
}

func float32frombytes(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func microsToMillis(us uint64) int64 {
	return int64(us / 1000)
}

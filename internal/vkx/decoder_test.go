package vkx

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmaren/sailtrace/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return log
}

func putF32(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
}

// positionRecord builds a tag 0x02 record.
func positionRecord(utcMicros uint64, lat, lon int32, sog, cog, alt float32, quat [4]float32) []byte {
	buf := make([]byte, 45)
	buf[0] = TagPosition
	binary.LittleEndian.PutUint64(buf[1:9], utcMicros)
	binary.LittleEndian.PutUint32(buf[9:13], uint32(lat))
	binary.LittleEndian.PutUint32(buf[13:17], uint32(lon))
	putF32(buf[17:21], sog)
	putF32(buf[21:25], cog)
	putF32(buf[25:29], alt)
	for i, q := range quat {
		putF32(buf[29+4*i:33+4*i], q)
	}
	return buf
}

// windRecord builds a tag 0x0A record.
func windRecord(utcMicros uint64, speed, direction float32) []byte {
	buf := make([]byte, 17)
	buf[0] = TagWind
	binary.LittleEndian.PutUint64(buf[1:9], utcMicros)
	putF32(buf[9:13], speed)
	putF32(buf[13:17], direction)
	return buf
}

func TestDecodePositionRecord(t *testing.T) {
	d := NewDecoder(newTestLogger(t))

	// Identity quaternion: no rotation at all.
	rec := positionRecord(1697854013769000, -338022350, 1512831650,
		5.5, float32(math.Pi/2), 12.0, [4]float32{1, 0, 0, 0})

	points, aux, err := d.Decode(rec)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.NotNil(t, aux)

	p := points[0]
	assert.Equal(t, int64(1697854013769), p.UTC)
	assert.InDelta(t, -33.8022350, p.Lat, 1e-6)
	assert.InDelta(t, 151.2831650, p.Lon, 1e-6)
	assert.InDelta(t, 5.5, p.SOG, 1e-6)
	assert.InDelta(t, 90.0, p.COG, 1e-4) // radians converted at the boundary
	assert.InDelta(t, 12.0, p.Altitude, 1e-6)
	assert.True(t, p.HasAttitude)
	assert.InDelta(t, 0, p.Roll, 1e-9)
	assert.InDelta(t, 0, p.Pitch, 1e-9)
	assert.InDelta(t, 0, p.Heading, 1e-9)
}

func TestDecodeQuaternionHeading(t *testing.T) {
	d := NewDecoder(newTestLogger(t))

	// Rotation of 90 degrees about the down axis.
	s := float32(math.Sqrt(2) / 2)
	rec := positionRecord(1000000, 0, 0, 1, 0, 0, [4]float32{s, 0, 0, s})

	points, _, err := d.Decode(rec)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.InDelta(t, 90.0, points[0].Heading, 1e-3)
}

func TestDecodeWindRecords(t *testing.T) {
	d := NewDecoder(newTestLogger(t))

	buf := append(windRecord(2000000, 14.5, 225), windRecord(3000000, 16, 230)...)
	points, aux, err := d.Decode(buf)
	require.NoError(t, err)
	assert.Empty(t, points)
	require.Len(t, aux.Wind, 2)
	assert.Equal(t, int64(2000), aux.Wind[0].UTC)
	assert.InDelta(t, 14.5, aux.Wind[0].SpeedKts, 1e-6)
	assert.InDelta(t, 225.0, aux.Wind[0].DirectionDeg, 1e-6)
	assert.InDelta(t, 230.0, aux.Wind[1].DirectionDeg, 1e-6)
}

func TestDecodeRaceTimerAndShiftAngle(t *testing.T) {
	d := NewDecoder(newTestLogger(t))

	timer := make([]byte, 14)
	timer[0] = TagRaceTimer
	binary.LittleEndian.PutUint64(timer[1:9], 5000000)
	timer[9] = 2
	timerValue := int32(-30)
	binary.LittleEndian.PutUint32(timer[10:14], uint32(timerValue))

	shift := make([]byte, 19)
	shift[0] = TagShiftAngle
	binary.LittleEndian.PutUint64(shift[1:9], 6000000)
	shift[9] = 1
	shift[10] = 15
	putF32(shift[11:15], 1.5)
	putF32(shift[15:19], -2.5)

	_, aux, err := d.Decode(append(timer, shift...))
	require.NoError(t, err)
	require.Len(t, aux.RaceTimers, 1)
	assert.Equal(t, int64(5000), aux.RaceTimers[0].UTC)
	assert.Equal(t, uint8(2), aux.RaceTimers[0].Event)
	assert.Equal(t, int32(-30), aux.RaceTimers[0].Value)
	require.Len(t, aux.ShiftAngles, 1)
	assert.Equal(t, uint8(15), aux.ShiftAngles[0].Angle)
	assert.InDelta(t, -2.5, aux.ShiftAngles[0].Value2, 1e-6)
}

func TestDecodeTruncatedBuffer(t *testing.T) {
	d := NewDecoder(newTestLogger(t))

	full := positionRecord(1000000, 100000000, 200000000, 3, 0, 0, [4]float32{1, 0, 0, 0})
	// Second record cut off mid-payload.
	buf := append(full, positionRecord(2000000, 100000000, 200000000, 3, 0, 0, [4]float32{1, 0, 0, 0})[:20]...)

	points, _, err := d.Decode(buf)
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestDecodeUnknownTagResync(t *testing.T) {
	d := NewDecoder(newTestLogger(t))

	rec := positionRecord(1000000, 100000000, 200000000, 3, 0, 0, [4]float32{1, 0, 0, 0})
	buf := append([]byte{0x99}, rec...)

	points, _, err := d.Decode(buf)
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestDecodeSkipsFramingRecords(t *testing.T) {
	d := NewDecoder(newTestLogger(t))

	header := make([]byte, 8)
	header[0] = TagPageHeader
	terminator := make([]byte, 3)
	terminator[0] = TagPageTerminator

	buf := append(header, positionRecord(1000000, 0, 0, 1, 0, 0, [4]float32{1, 0, 0, 0})...)
	buf = append(buf, terminator...)

	points, _, err := d.Decode(buf)
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestDecodeDropsOutOfRangePoints(t *testing.T) {
	d := NewDecoder(newTestLogger(t))

	// Latitude 95 degrees does not exist.
	bad := positionRecord(1000000, 950000000, 0, 3, 0, 0, [4]float32{1, 0, 0, 0})
	good := positionRecord(2000000, 100000000, 0, 3, 0, 0, [4]float32{1, 0, 0, 0})

	points, _, err := d.Decode(append(bad, good...))
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, int64(2000), points[0].UTC)
}

func TestDecodeEmptyBuffer(t *testing.T) {
	d := NewDecoder(newTestLogger(t))

	_, _, err := d.Decode(nil)
	assert.ErrorIs(t, err, ErrEmptyBuffer)
}

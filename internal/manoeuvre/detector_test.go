package manoeuvre

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmaren/sailtrace/internal/telemetry"
	"github.com/lmaren/sailtrace/pkg/logger"
)

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return NewDetector(log)
}

// cp builds a classified point from a wind angle, deriving tack and point
// of sail the same way the wind package does.
func cp(utc int64, twa int) telemetry.ClassifiedTrackPoint {
	tack := telemetry.Starboard
	if twa < 0 {
		tack = telemetry.Port
	}
	return telemetry.ClassifiedTrackPoint{
		RawTrackPoint: telemetry.RawTrackPoint{UTC: utc},
		TWA:           twa,
		Tack:          tack,
	}
}

func TestDetectSingleTack(t *testing.T) {
	d := newTestDetector(t)

	points := []telemetry.ClassifiedTrackPoint{
		cp(0, 45),     // starboard upwind
		cp(5000, -45), // port upwind
	}

	events := d.Detect(points)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, telemetry.ManoeuvreTack, e.Type)
	assert.Equal(t, int64(5000), e.UTC)
	assert.InDelta(t, 5.0, e.Duration, 1e-9)
	assert.Equal(t, 45, e.StartTwa)
	assert.Equal(t, -45, e.EndTwa)
	assert.Equal(t, telemetry.Starboard, e.StartTack)
	assert.Equal(t, telemetry.Port, e.EndTack)

	// The emitting point is stamped in place.
	assert.Equal(t, telemetry.ManoeuvreTack, points[1].Manoeuvre)
	assert.Equal(t, telemetry.ManoeuvreNone, points[0].Manoeuvre)
}

func TestDetectGybe(t *testing.T) {
	d := newTestDetector(t)

	events := d.Detect([]telemetry.ClassifiedTrackPoint{
		cp(0, 150),
		cp(3000, -150),
	})
	require.Len(t, events, 1)
	assert.Equal(t, telemetry.ManoeuvreGybe, events[0].Type)
}

func TestDetectRoundUpAndBearAway(t *testing.T) {
	d := newTestDetector(t)

	events := d.Detect([]telemetry.ClassifiedTrackPoint{
		cp(0, 120),    // downwind, starboard
		cp(1000, 70),  // reach: crossed the beam toward the wind
		cp(2000, 130), // back past the beam, away from the wind
	})
	require.Len(t, events, 2)
	assert.Equal(t, telemetry.ManoeuvreRoundUp, events[0].Type)
	assert.Equal(t, telemetry.ManoeuvreBearAway, events[1].Type)
}

func TestDetectNoEventOnSteadyCourse(t *testing.T) {
	d := newTestDetector(t)

	events := d.Detect([]telemetry.ClassifiedTrackPoint{
		cp(0, 45), cp(1000, 48), cp(2000, 44), cp(3000, 50),
	})
	assert.Empty(t, events)
}

func TestDetectFirstPointNeverEmits(t *testing.T) {
	d := newTestDetector(t)

	assert.Empty(t, d.Detect([]telemetry.ClassifiedTrackPoint{cp(0, 45)}))
	assert.Empty(t, d.Detect(nil))
}

func TestDetectTackChangeDeepAnglesIsGybe(t *testing.T) {
	d := newTestDetector(t)

	// Tack flips while sailing deep: a gybe even though the boat never
	// pointed anywhere near the wind.
	events := d.Detect([]telemetry.ClassifiedTrackPoint{
		cp(0, 91),
		cp(1000, -91),
	})
	require.Len(t, events, 1)
	assert.Equal(t, telemetry.ManoeuvreGybe, events[0].Type)
}

func TestDetectTackChangeNearWindIsTack(t *testing.T) {
	d := newTestDetector(t)

	events := d.Detect([]telemetry.ClassifiedTrackPoint{
		cp(0, 90),
		cp(1000, -90),
	})
	require.Len(t, events, 1)
	assert.Equal(t, telemetry.ManoeuvreTack, events[0].Type)
}

func TestDetectOrderMatchesTime(t *testing.T) {
	d := newTestDetector(t)

	events := d.Detect([]telemetry.ClassifiedTrackPoint{
		cp(0, 45),
		cp(1000, -45),  // tack
		cp(2000, -150), // bear away
		cp(3000, 150),  // gybe
	})
	require.Len(t, events, 3)
	assert.Equal(t, telemetry.ManoeuvreTack, events[0].Type)
	assert.Equal(t, telemetry.ManoeuvreBearAway, events[1].Type)
	assert.Equal(t, telemetry.ManoeuvreGybe, events[2].Type)
	assert.True(t, events[0].UTC < events[1].UTC && events[1].UTC < events[2].UTC)
}

func TestDetectNegativeTimeDeltaClampsDuration(t *testing.T) {
	d := newTestDetector(t)

	events := d.Detect([]telemetry.ClassifiedTrackPoint{
		cp(5000, 45),
		cp(4000, -45),
	})
	require.Len(t, events, 1)
	assert.Equal(t, 0.0, events[0].Duration)
}

// Package manoeuvre detects tacks, gybes, round-ups and bear-aways in a
// classified point sequence.
package manoeuvre

import (
	"github.com/lmaren/sailtrace/internal/telemetry"
	"github.com/lmaren/sailtrace/pkg/logger"
)

// Detector is a sequential classifier over consecutive classified points.
// The only state carried between steps is the previous point's tack and
// absolute wind angle, so detection never looks ahead.
type Detector struct {
	logger *logger.Logger
}

// NewDetector creates a new manoeuvre detector.
func NewDetector(log *logger.Logger) *Detector {
	return &Detector{logger: log.Named("manoeuvre")}
}

// Detect walks the sequence left to right and returns the manoeuvre events
// in temporal order. Each point past the first produces at most one event;
// detected events are also stamped onto the emitting point in place.
func (d *Detector) Detect(points []telemetry.ClassifiedTrackPoint) []telemetry.ManoeuvreEvent {
	events := []telemetry.ManoeuvreEvent{}
	if len(points) < 2 {
		return events
	}

	for i := 1; i < len(points); i++ {
		prev := &points[i-1]
		curr := &points[i]

		kind := classifyTransition(prev, curr)
		if kind == telemetry.ManoeuvreNone {
			continue
		}

		durationSec := float64(curr.UTC-prev.UTC) / 1000.0
		if durationSec < 0 {
			// Out-of-order stamps give no usable delta.
			durationSec = 0
		}

		curr.Manoeuvre = kind
		events = append(events, telemetry.ManoeuvreEvent{
			Type:      kind,
			UTC:       curr.UTC,
			Duration:  durationSec,
			StartTwa:  prev.TWA,
			EndTwa:    curr.TWA,
			StartTack: prev.Tack,
			EndTack:   curr.Tack,
		})
	}

	d.logger.Debug("Manoeuvre detection complete",
		logger.Int("points", len(points)),
		logger.Int("events", len(events)))

	return events
}

// classifyTransition applies the transition rules between two consecutive
// points. A tack change through the wind is a tack, through the stern a
// gybe; on an unchanged tack, crossing the beam (90 degrees) toward the
// wind is a round-up and away from it a bear-away.
func classifyTransition(prev, curr *telemetry.ClassifiedTrackPoint) telemetry.ManoeuvreType {
	absPrev := abs(prev.TWA)
	absCurr := abs(curr.TWA)

	if prev.Tack != curr.Tack {
		if absCurr <= 90 {
			return telemetry.ManoeuvreTack
		}
		return telemetry.ManoeuvreGybe
	}

	switch {
	case absPrev > 90 && absCurr <= 90:
		return telemetry.ManoeuvreRoundUp
	case absPrev <= 90 && absCurr > 90:
		return telemetry.ManoeuvreBearAway
	default:
		return telemetry.ManoeuvreNone
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

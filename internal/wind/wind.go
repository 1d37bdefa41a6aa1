// Package wind derives the true wind angle and sail state from a heading
// and a wind direction, and annotates whole point sequences.
package wind

import (
	"math"

	"github.com/lmaren/sailtrace/internal/telemetry"
)

// Classify computes the signed true wind angle, point of sail and tack for
// one heading/wind-direction pair. The angle is rounded to the nearest
// degree and always lies in (-180,180].
//
// Callers must pre-clamp heading to (-360,360); the negative-heading fixup
// below is not a true modulo and misbehaves for heading <= -360.
func Classify(headingDeg, twdDeg float64) (twa int, sail telemetry.PointOfSail, tack telemetry.Tack) {
	if headingDeg < 0 {
		headingDeg = 360 - math.Abs(headingDeg)
	}

	twaRaw := headingDeg - twdDeg

	// Fold into (-180,180] so port angles come out negative.
	var folded float64
	switch {
	case twaRaw > 180:
		folded = -180 + math.Abs(180-twaRaw)
	case twaRaw <= -180:
		folded = 180 - math.Abs(180+twaRaw)
	default:
		folded = twaRaw
	}

	twa = int(math.Round(folded))
	// Rounding can land a folded value in (-180,-179.5] on -180, which is
	// the same dead-downwind angle as +180. Keep the half-open interval.
	if twa == -180 {
		twa = 180
	}
	return twa, pointOfSail(twa), tackOf(twa)
}

// pointOfSail buckets an angle by its magnitude.
func pointOfSail(twa int) telemetry.PointOfSail {
	abs := twa
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs <= 30:
		return telemetry.HeadToWind
	case abs <= 60:
		return telemetry.Upwind
	case abs <= 95:
		return telemetry.Reach
	default:
		return telemetry.Downwind
	}
}

// tackOf maps the sign of the wind angle to a tack. Zero counts as
// starboard by convention.
func tackOf(twa int) telemetry.Tack {
	if twa < 0 {
		return telemetry.Port
	}
	return telemetry.Starboard
}

// Annotate classifies every point against the wind source. The heading used
// is the instrument heading when the point carries one, otherwise the
// course over ground. The input slice is not modified.
func Annotate(points []telemetry.RawTrackPoint, src Source) []telemetry.ClassifiedTrackPoint {
	classified := make([]telemetry.ClassifiedTrackPoint, 0, len(points))
	for _, p := range points {
		heading := p.COG
		if p.HasAttitude {
			heading = p.Heading
		}

		twd, tws := src.At(p.UTC)
		twa, sail, tack := Classify(heading, twd)

		classified = append(classified, telemetry.ClassifiedTrackPoint{
			RawTrackPoint: p,
			TWD:           twd,
			TWS:           tws,
			TWA:           twa,
			Sail:          sail,
			Tack:          tack,
		})
	}
	return classified
}

package analysis

import (
	"github.com/lmaren/sailtrace/internal/geo"
	"github.com/lmaren/sailtrace/internal/telemetry"
)

// Summarize folds a classified sequence and its events into a TrackSummary.
// Empty input yields the zero summary; one point yields a summary with zero
// distance and duration.
func Summarize(points []telemetry.ClassifiedTrackPoint, events []telemetry.ManoeuvreEvent) telemetry.TrackSummary {
	summary := telemetry.TrackSummary{}
	if len(points) == 0 {
		return summary
	}

	var speedSum, twaSum float64
	for i, p := range points {
		if i > 0 {
			prev := points[i-1]
			summary.DistanceNM += geo.DistanceNM(
				geo.Coordinates{Lat: prev.Lat, Lon: prev.Lon},
				geo.Coordinates{Lat: p.Lat, Lon: p.Lon},
			)
		}

		speedSum += p.SOG
		if p.SOG > summary.MaxSpeedKts {
			summary.MaxSpeedKts = p.SOG
		}

		twa := p.TWA
		if twa < 0 {
			twa = -twa
		}
		twaSum += float64(twa)
	}

	n := float64(len(points))
	summary.AvgSpeedKts = speedSum / n
	summary.AvgAbsTwa = twaSum / n
	summary.DurationMin = float64(points[len(points)-1].UTC-points[0].UTC) / 60000.0

	for _, e := range events {
		switch e.Type {
		case telemetry.ManoeuvreTack:
			summary.TackCount++
		case telemetry.ManoeuvreGybe:
			summary.GybeCount++
		}
	}

	return summary
}

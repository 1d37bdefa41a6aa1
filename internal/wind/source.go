package wind

import (
	"errors"
	"math"
	"sort"
)

// Source supplies the true wind for a given moment. The pipeline never
// fetches wind itself; a source is always handed in by the caller.
type Source interface {
	// At returns the true wind direction (degrees) and speed (knots) at
	// the given UTC millisecond timestamp.
	At(utcMillis int64) (twdDeg, twsKts float64)
}

// ErrNoSamples is returned when a series source is built from no data.
var ErrNoSamples = errors.New("wind: series needs at least one sample")

// FixedSource is a constant direction/speed pair for the whole track.
type FixedSource struct {
	DirectionDeg float64
	SpeedKts     float64
}

// At returns the fixed pair regardless of time.
func (s FixedSource) At(int64) (float64, float64) {
	return s.DirectionDeg, s.SpeedKts
}

// Sample is one observation in a time-indexed wind series.
type Sample struct {
	UTC          int64   `json:"utc"`
	DirectionDeg float64 `json:"direction_deg"`
	SpeedKts     float64 `json:"speed_kts"`
}

// SeriesSource interpolates between timestamped observations: direction
// along the shortest angular path, speed linearly. Queries outside the
// sampled range clamp to the nearest endpoint.
type SeriesSource struct {
	samples []Sample
}

// NewSeriesSource builds a series source from samples, sorting them by
// timestamp.
func NewSeriesSource(samples []Sample) (*SeriesSource, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UTC < sorted[j].UTC })

	return &SeriesSource{samples: sorted}, nil
}

// At interpolates the wind at the given timestamp.
func (s *SeriesSource) At(utcMillis int64) (float64, float64) {
	first, last := s.samples[0], s.samples[len(s.samples)-1]
	if utcMillis <= first.UTC {
		return first.DirectionDeg, first.SpeedKts
	}
	if utcMillis >= last.UTC {
		return last.DirectionDeg, last.SpeedKts
	}

	// Index of the first sample at or after the query time.
	idx := sort.Search(len(s.samples), func(i int) bool {
		return s.samples[i].UTC >= utcMillis
	})
	hi := s.samples[idx]
	lo := s.samples[idx-1]
	if hi.UTC == lo.UTC {
		return hi.DirectionDeg, hi.SpeedKts
	}

	frac := float64(utcMillis-lo.UTC) / float64(hi.UTC-lo.UTC)
	dir := interpolateAngle(lo.DirectionDeg, hi.DirectionDeg, frac)
	speed := lo.SpeedKts + frac*(hi.SpeedKts-lo.SpeedKts)
	return dir, speed
}

// interpolateAngle blends two compass directions along the shortest arc,
// so 350 to 10 degrees passes through north rather than south.
func interpolateAngle(fromDeg, toDeg, frac float64) float64 {
	delta := math.Mod(toDeg-fromDeg+540, 360) - 180
	return math.Mod(fromDeg+frac*delta+360, 360)
}

// Package gpx extracts track points from GPX documents and repairs tracks
// recorded by devices that omit speed/course extensions.
package gpx

import (
	"encoding/xml"
	"errors"
	"strconv"
	"time"

	"github.com/lmaren/sailtrace/internal/geo"
	"github.com/lmaren/sailtrace/internal/telemetry"
	"github.com/lmaren/sailtrace/pkg/logger"
)

// ErrInvalidFormat is returned when the input has no recognizable GPX track
// root. Callers can match it to distinguish unparseable files from files
// that merely contain no usable points.
var ErrInvalidFormat = errors.New("INVALID_FORMAT: no recognizable gpx track root")

// metersPerSecToKts converts extension speeds, which GPX stores in m/s.
const metersPerSecToKts = 1.943844

// Parser turns GPX documents into ordered RawTrackPoint sequences.
type Parser struct {
	logger *logger.Logger
}

// NewParser creates a new GPX track parser.
func NewParser(log *logger.Logger) *Parser {
	return &Parser{logger: log.Named("gpx-parser")}
}

// Parse decodes the document, extracts every usable track point in order
// and back-fills missing speed/course from consecutive positions.
//
// A point is dropped when latitude or longitude is absent or non-numeric,
// or when it has no timestamp: a point without a temporal anchor cannot be
// ordered or speed-derived. Dropping points is recoverable and only logged.
func (p *Parser) Parse(data []byte) ([]telemetry.RawTrackPoint, Metadata, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, Metadata{}, ErrInvalidFormat
	}
	if doc.XMLName.Local != "gpx" || len(doc.Tracks) == 0 {
		return nil, Metadata{}, ErrInvalidFormat
	}

	points := []telemetry.RawTrackPoint{}
	dropped := 0
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, tp := range seg.Points {
				point, ok := p.convertPoint(tp)
				if !ok {
					dropped++
					continue
				}
				points = append(points, point)
			}
		}
	}

	if dropped > 0 {
		p.logger.Warn("Dropped unusable track points",
			logger.Int("dropped", dropped),
			logger.Int("kept", len(points)))
	}

	backfillSpeedCourse(points)

	meta := Metadata{
		Name:       doc.Tracks[0].Name,
		PointCount: len(points),
	}
	if len(points) > 0 {
		meta.FirstUTC = points[0].UTC
		meta.LastUTC = points[len(points)-1].UTC
	}

	return points, meta, nil
}

// convertPoint validates one trkpt and maps it onto the pipeline model.
func (p *Parser) convertPoint(tp trackPoint) (telemetry.RawTrackPoint, bool) {
	lat, latErr := strconv.ParseFloat(tp.Lat, 64)
	lon, lonErr := strconv.ParseFloat(tp.Lon, 64)
	if latErr != nil || lonErr != nil {
		p.logger.Debug("Point has missing or non-numeric coordinates",
			logger.String("lat", tp.Lat),
			logger.String("lon", tp.Lon))
		return telemetry.RawTrackPoint{}, false
	}

	if tp.Time == "" {
		p.logger.Debug("Point has no timestamp",
			logger.Float64("lat", lat),
			logger.Float64("lon", lon))
		return telemetry.RawTrackPoint{}, false
	}
	ts, err := time.Parse(time.RFC3339, tp.Time)
	if err != nil {
		p.logger.Debug("Point has unparseable timestamp",
			logger.String("time", tp.Time))
		return telemetry.RawTrackPoint{}, false
	}

	point := telemetry.RawTrackPoint{
		UTC: ts.UTC().UnixMilli(),
		Lat: lat,
		Lon: lon,
	}
	if tp.Elevation != "" {
		if alt, err := strconv.ParseFloat(tp.Elevation, 64); err == nil {
			point.Altitude = alt
		}
	}
	point.SOG, point.COG = extractSpeedCourse(tp.Extensions)

	if !point.Valid() {
		p.logger.Debug("Point out of range",
			logger.Float64("lat", point.Lat),
			logger.Float64("lon", point.Lon),
			logger.Float64("sog", point.SOG))
		return telemetry.RawTrackPoint{}, false
	}

	return point, true
}

// extractSpeedCourse reads the first extension shape that yields a value.
// Speeds arrive in m/s and leave in knots. Without any extension both
// default to zero; the back-fill pass repairs them afterwards.
func extractSpeedCourse(ext *extensions) (sogKts, cogDeg float64) {
	if ext == nil {
		return 0, 0
	}

	speedStr, courseStr := ext.Speed, ext.Course
	if speedStr == "" && courseStr == "" && ext.Garmin != nil {
		speedStr, courseStr = ext.Garmin.Speed, ext.Garmin.Course
	}

	if v, err := strconv.ParseFloat(speedStr, 64); err == nil {
		sogKts = v * metersPerSecToKts
	}
	if v, err := strconv.ParseFloat(courseStr, 64); err == nil {
		cogDeg = v
	}
	return sogKts, cogDeg
}

// backfillSpeedCourse recomputes speed and course for every point after the
// first whose speed is exactly zero, using the great-circle leg from the
// previous point. Zero or negative time deltas leave the point untouched.
func backfillSpeedCourse(points []telemetry.RawTrackPoint) {
	for i := 1; i < len(points); i++ {
		if points[i].SOG != 0 {
			continue
		}

		elapsedMs := points[i].UTC - points[i-1].UTC
		if elapsedMs <= 0 {
			continue
		}

		prev := geo.Coordinates{Lat: points[i-1].Lat, Lon: points[i-1].Lon}
		curr := geo.Coordinates{Lat: points[i].Lat, Lon: points[i].Lon}

		elapsedHours := float64(elapsedMs) / 1000.0 / 3600.0
		points[i].SOG = geo.DistanceNM(prev, curr) / elapsedHours
		points[i].COG = geo.InitialBearingDeg(prev, curr)
	}
}

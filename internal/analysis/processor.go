// Package analysis runs the full pipeline for one file: decode, classify,
// detect manoeuvres and aggregate. Each stage hands the next an independent
// value, so files can be processed concurrently without coordination.
package analysis

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/lmaren/sailtrace/internal/gpx"
	"github.com/lmaren/sailtrace/internal/manoeuvre"
	"github.com/lmaren/sailtrace/internal/telemetry"
	"github.com/lmaren/sailtrace/internal/vkx"
	"github.com/lmaren/sailtrace/internal/wind"
	"github.com/lmaren/sailtrace/pkg/logger"
)

var (
	// ErrEmptyInput is returned for a zero-length buffer.
	ErrEmptyInput = errors.New("analysis: empty input buffer")
	// ErrNoWindData is returned when the caller supplies no wind source
	// and the file carries no wind records of its own.
	ErrNoWindData = errors.New("analysis: no wind source supplied and none found in file")
)

// ProcessedTrack is the complete output for one source file.
type ProcessedTrack struct {
	Metadata telemetry.TrackMetadata          `json:"metadata"`
	Points   []telemetry.ClassifiedTrackPoint `json:"points"`
	Events   []telemetry.ManoeuvreEvent       `json:"events"`
	Summary  telemetry.TrackSummary           `json:"summary"`
	Aux      *vkx.AuxRecords                  `json:"aux,omitempty"` // binary input only
}

// Processor runs the decode-classify-detect-aggregate pipeline.
type Processor struct {
	vkxDecoder *vkx.Decoder
	gpxParser  *gpx.Parser
	detector   *manoeuvre.Detector
	logger     *logger.Logger
}

// NewProcessor creates a new pipeline processor.
func NewProcessor(log *logger.Logger) *Processor {
	return &Processor{
		vkxDecoder: vkx.NewDecoder(log),
		gpxParser:  gpx.NewParser(log),
		detector:   manoeuvre.NewDetector(log),
		logger:     log.Named("processor"),
	}
}

// Process decodes one complete file and returns its classified points,
// manoeuvre events and summary. The wind source may be nil for binary
// files that carry their own wind records; for everything else it is
// required.
func (pr *Processor) Process(name string, data []byte, src wind.Source) (*ProcessedTrack, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	var (
		points []telemetry.RawTrackPoint
		aux    *vkx.AuxRecords
		err    error
	)

	if looksLikeXML(data) {
		points, _, err = pr.gpxParser.Parse(data)
	} else {
		points, aux, err = pr.vkxDecoder.Decode(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	if src == nil {
		if aux == nil || len(aux.Wind) == 0 {
			return nil, ErrNoWindData
		}
		src, err = wind.NewSeriesSource(windSamples(aux.Wind))
		if err != nil {
			return nil, fmt.Errorf("building wind series for %s: %w", name, err)
		}
		pr.logger.Debug("Using wind records from file",
			logger.String("file", name),
			logger.Int("samples", len(aux.Wind)))
	}

	classified := wind.Annotate(points, src)
	events := pr.detector.Detect(classified)
	summary := Summarize(classified, events)

	meta := telemetry.TrackMetadata{
		Name:       name,
		SizeBytes:  int64(len(data)),
		PointCount: len(classified),
	}
	if len(classified) > 0 {
		meta.StartUTC = classified[0].UTC
		meta.EndUTC = classified[len(classified)-1].UTC
	}

	pr.logger.Info("Processed track",
		logger.String("file", name),
		logger.Int("points", len(classified)),
		logger.Int("events", len(events)),
		logger.Float64("distance_nm", summary.DistanceNM))

	return &ProcessedTrack{
		Metadata: meta,
		Points:   classified,
		Events:   events,
		Summary:  summary,
		Aux:      aux,
	}, nil
}

// looksLikeXML sniffs the buffer the way a track type is usually
// determined: XML documents start with markup, the binary format never
// does.
func looksLikeXML(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	// Tolerate a UTF-8 byte order mark.
	trimmed = bytes.TrimPrefix(trimmed, []byte{0xEF, 0xBB, 0xBF})
	return len(trimmed) > 0 && trimmed[0] == '<'
}

func windSamples(records []vkx.WindSample) []wind.Sample {
	samples := make([]wind.Sample, 0, len(records))
	for _, r := range records {
		samples = append(samples, wind.Sample{
			UTC:          r.UTC,
			DirectionDeg: r.DirectionDeg,
			SpeedKts:     r.SpeedKts,
		})
	}
	return samples
}

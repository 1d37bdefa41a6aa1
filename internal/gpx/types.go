package gpx

import "encoding/xml"

// document is the subset of the GPX tree the pipeline reads. Latitude and
// longitude are kept as strings so a single bad attribute drops one point
// instead of failing the whole decode.
type document struct {
	XMLName xml.Name `xml:"gpx"`
	Creator string   `xml:"creator,attr"`
	Tracks  []track  `xml:"trk"`
}

type track struct {
	Name     string    `xml:"name"`
	Segments []segment `xml:"trkseg"`
}

type segment struct {
	Points []trackPoint `xml:"trkpt"`
}

type trackPoint struct {
	Lat        string      `xml:"lat,attr"`
	Lon        string      `xml:"lon,attr"`
	Time       string      `xml:"time"`
	Elevation  string      `xml:"ele"`
	Extensions *extensions `xml:"extensions"`
}

// extensions covers the vendor-specific speed/course shapes seen in the
// wild. The flat fields match `speed`/`course` children in any namespace,
// which covers both the plain shape and the Cluetrust gpxdata one; the
// Garmin TrackPointExtension subtree is a separate nested shape. Shapes are
// tried in a fixed priority order, flat before nested.
type extensions struct {
	Speed  string `xml:"speed"`
	Course string `xml:"course"`

	Garmin *garminExtension `xml:"TrackPointExtension"`
}

type garminExtension struct {
	Speed  string `xml:"speed"`
	Course string `xml:"course"`
}

// Metadata summarizes what was extracted from one GPX file.
type Metadata struct {
	Name       string `json:"name,omitempty"`
	PointCount int    `json:"point_count"`
	FirstUTC   int64  `json:"first_utc"`
	LastUTC    int64  `json:"last_utc"`
}

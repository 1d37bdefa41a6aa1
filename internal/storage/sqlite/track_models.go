package sqlite

import "time"

// TrackRecord is one stored track: source metadata plus its summary.
type TrackRecord struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	SizeBytes   int64     `json:"size_bytes"`
	PointCount  int       `json:"point_count"`
	StartUTC    int64     `json:"start_utc"`
	EndUTC      int64     `json:"end_utc"`
	DistanceNM  float64   `json:"distance_nm"`
	DurationMin float64   `json:"duration_min"`
	AvgSpeedKts float64   `json:"avg_speed_kts"`
	MaxSpeedKts float64   `json:"max_speed_kts"`
	TackCount   int       `json:"tack_count"`
	GybeCount   int       `json:"gybe_count"`
	AvgAbsTwa   float64   `json:"avg_abs_twa"`
	CreatedAt   time.Time `json:"created_at"`
}

// PointRecord is one stored classified track point.
type PointRecord struct {
	ID          int64   `json:"id"`
	TrackID     int64   `json:"track_id"`
	UTC         int64   `json:"utc"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	COG         float64 `json:"cog"`
	SOG         float64 `json:"sog"`
	Heading     float64 `json:"hdg"`
	TWD         float64 `json:"twd"`
	TWS         float64 `json:"tws"`
	TWA         int     `json:"twa"`
	PointOfSail string  `json:"point_of_sail"`
	Tack        string  `json:"tack"`
	Manoeuvre   string  `json:"manoeuvre,omitempty"`
}

// ManoeuvreRecord is one stored manoeuvre event belonging to a track.
type ManoeuvreRecord struct {
	ID          int64   `json:"id"`
	TrackID     int64   `json:"track_id"`
	Type        string  `json:"type"`
	UTC         int64   `json:"utc"`
	DurationSec float64 `json:"duration_sec"`
	StartTwa    int     `json:"start_twa"`
	EndTwa      int     `json:"end_twa"`
}

// Package sqlite persists processed tracks and their manoeuvre events.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lmaren/sailtrace/internal/telemetry"
	"github.com/lmaren/sailtrace/pkg/logger"
)

// TrackStorage handles storage of processed track results
type TrackStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewTrackStorage creates a new SQLite track storage
func NewTrackStorage(db *sql.DB, log *logger.Logger) (*TrackStorage, error) {
	storage := &TrackStorage{
		db:     db,
		logger: log.Named("sqlite-tracks"),
	}

	if err := storage.initDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize track storage: %w", err)
	}

	return storage, nil
}

// initDB initializes the database tables
func (s *TrackStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			size_bytes INTEGER NOT NULL,
			point_count INTEGER NOT NULL,
			start_utc INTEGER NOT NULL,
			end_utc INTEGER NOT NULL,
			distance_nm REAL NOT NULL,
			duration_min REAL NOT NULL,
			avg_speed_kts REAL NOT NULL,
			max_speed_kts REAL NOT NULL,
			tack_count INTEGER NOT NULL,
			gybe_count INTEGER NOT NULL,
			avg_abs_twa REAL NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create tracks table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS points (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			track_id INTEGER NOT NULL,
			utc INTEGER NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			cog REAL NOT NULL,
			sog REAL NOT NULL,
			hdg REAL NOT NULL,
			twd REAL NOT NULL,
			tws REAL NOT NULL,
			twa INTEGER NOT NULL,
			point_of_sail TEXT NOT NULL,
			tack TEXT NOT NULL,
			manoeuvre TEXT NOT NULL,
			FOREIGN KEY (track_id) REFERENCES tracks(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create points table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS manoeuvres (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			track_id INTEGER NOT NULL,
			type TEXT NOT NULL,
			utc INTEGER NOT NULL,
			duration_sec REAL NOT NULL,
			start_twa INTEGER NOT NULL,
			end_twa INTEGER NOT NULL,
			FOREIGN KEY (track_id) REFERENCES tracks(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create manoeuvres table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_tracks_start_utc ON tracks(start_utc)`,
		`CREATE INDEX IF NOT EXISTS idx_points_track_id ON points(track_id)`,
		`CREATE INDEX IF NOT EXISTS idx_manoeuvres_track_id ON manoeuvres(track_id)`,
		`CREATE INDEX IF NOT EXISTS idx_manoeuvres_utc ON manoeuvres(utc)`,
		`CREATE INDEX IF NOT EXISTS idx_manoeuvres_type ON manoeuvres(type)`,
	}
	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// StoreTrack stores a track's metadata, summary, classified points and
// manoeuvre events. Everything is written in one transaction so a track is
// never stored half-done.
func (s *TrackStorage) StoreTrack(meta telemetry.TrackMetadata, summary telemetry.TrackSummary, points []telemetry.ClassifiedTrackPoint, events []telemetry.ManoeuvreEvent) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO tracks
		(name, size_bytes, point_count, start_utc, end_utc, distance_nm, duration_min,
		 avg_speed_kts, max_speed_kts, tack_count, gybe_count, avg_abs_twa, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.Name,
		meta.SizeBytes,
		meta.PointCount,
		meta.StartUTC,
		meta.EndUTC,
		summary.DistanceNM,
		summary.DurationMin,
		summary.AvgSpeedKts,
		summary.MaxSpeedKts,
		summary.TackCount,
		summary.GybeCount,
		summary.AvgAbsTwa,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert track: %w", err)
	}

	trackID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	pointStmt, err := tx.Prepare(
		`INSERT INTO points
		(track_id, utc, lat, lon, cog, sog, hdg, twd, tws, twa, point_of_sail, tack, manoeuvre)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer pointStmt.Close()

	for _, p := range points {
		_, err := pointStmt.Exec(
			trackID, p.UTC, p.Lat, p.Lon, p.COG, p.SOG, p.Heading,
			p.TWD, p.TWS, p.TWA, p.Sail.String(), p.Tack.String(), p.Manoeuvre.String(),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert point: %w", err)
		}
	}

	for _, e := range events {
		_, err := tx.Exec(
			`INSERT INTO manoeuvres
			(track_id, type, utc, duration_sec, start_twa, end_twa)
			VALUES (?, ?, ?, ?, ?, ?)`,
			trackID, e.Type.String(), e.UTC, e.Duration, e.StartTwa, e.EndTwa,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert manoeuvre: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit track: %w", err)
	}

	s.logger.Debug("Stored track",
		logger.Int64("track_id", trackID),
		logger.String("name", meta.Name),
		logger.Int("points", len(points)),
		logger.Int("events", len(events)))

	return trackID, nil
}

// GetTrackByID returns one stored track or nil when it does not exist.
func (s *TrackStorage) GetTrackByID(id int64) (*TrackRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, name, size_bytes, point_count, start_utc, end_utc, distance_nm,
		        duration_min, avg_speed_kts, max_speed_kts, tack_count, gybe_count,
		        avg_abs_twa, created_at
		FROM tracks
		WHERE id = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query track by ID: %w", err)
	}
	defer rows.Close()

	records, err := s.scanTrackRows(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// GetRecentTracks returns the most recently stored tracks.
func (s *TrackStorage) GetRecentTracks(limit int) ([]*TrackRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, name, size_bytes, point_count, start_utc, end_utc, distance_nm,
		        duration_min, avg_speed_kts, max_speed_kts, tack_count, gybe_count,
		        avg_abs_twa, created_at
		FROM tracks
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent tracks: %w", err)
	}
	defer rows.Close()

	return s.scanTrackRows(rows)
}

// GetPointsByTrack returns a track's classified points in temporal order.
func (s *TrackStorage) GetPointsByTrack(trackID int64) ([]*PointRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, track_id, utc, lat, lon, cog, sog, hdg, twd, tws, twa,
		        point_of_sail, tack, manoeuvre
		FROM points
		WHERE track_id = ?
		ORDER BY utc ASC`,
		trackID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query points by track: %w", err)
	}
	defer rows.Close()

	var records []*PointRecord
	for rows.Next() {
		var record PointRecord
		if err := rows.Scan(
			&record.ID,
			&record.TrackID,
			&record.UTC,
			&record.Lat,
			&record.Lon,
			&record.COG,
			&record.SOG,
			&record.Heading,
			&record.TWD,
			&record.TWS,
			&record.TWA,
			&record.PointOfSail,
			&record.Tack,
			&record.Manoeuvre,
		); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

// GetManoeuvresByTrack returns a track's manoeuvre events in temporal order.
func (s *TrackStorage) GetManoeuvresByTrack(trackID int64) ([]*ManoeuvreRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, track_id, type, utc, duration_sec, start_twa, end_twa
		FROM manoeuvres
		WHERE track_id = ?
		ORDER BY utc ASC`,
		trackID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query manoeuvres by track: %w", err)
	}
	defer rows.Close()

	return s.scanManoeuvreRows(rows)
}

// GetManoeuvresByTimeRange returns manoeuvres across all tracks within a
// UTC millisecond range.
func (s *TrackStorage) GetManoeuvresByTimeRange(startUTC, endUTC int64) ([]*ManoeuvreRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, track_id, type, utc, duration_sec, start_twa, end_twa
		FROM manoeuvres
		WHERE utc BETWEEN ? AND ?
		ORDER BY utc ASC`,
		startUTC, endUTC,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query manoeuvres by time range: %w", err)
	}
	defer rows.Close()

	return s.scanManoeuvreRows(rows)
}

// scanTrackRows scans database rows into TrackRecord structs
func (s *TrackStorage) scanTrackRows(rows *sql.Rows) ([]*TrackRecord, error) {
	var records []*TrackRecord
	for rows.Next() {
		var record TrackRecord
		var createdAt string

		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.SizeBytes,
			&record.PointCount,
			&record.StartUTC,
			&record.EndUTC,
			&record.DistanceNM,
			&record.DurationMin,
			&record.AvgSpeedKts,
			&record.MaxSpeedKts,
			&record.TackCount,
			&record.GybeCount,
			&record.AvgAbsTwa,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}

		var err error
		record.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		records = append(records, &record)
	}

	return records, rows.Err()
}

// scanManoeuvreRows scans database rows into ManoeuvreRecord structs
func (s *TrackStorage) scanManoeuvreRows(rows *sql.Rows) ([]*ManoeuvreRecord, error) {
	var records []*ManoeuvreRecord
	for rows.Next() {
		var record ManoeuvreRecord
		if err := rows.Scan(
			&record.ID,
			&record.TrackID,
			&record.Type,
			&record.UTC,
			&record.DurationSec,
			&record.StartTwa,
			&record.EndTwa,
		); err != nil {
			return nil, fmt.Errorf("failed to scan manoeuvre: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmaren/sailtrace/internal/config"
	"github.com/lmaren/sailtrace/internal/storage/sqlite"
	"github.com/lmaren/sailtrace/pkg/logger"
)

const (
	defaultTrackLimit = 50
	maxTrackLimit     = 1000
)

// Handler serves the read-only results API
type Handler struct {
	storage   *sqlite.TrackStorage
	config    *config.Config
	logger    *logger.Logger
	startTime time.Time
}

// NewHandler creates a new API handler
func NewHandler(storage *sqlite.TrackStorage, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{
		storage:   storage,
		config:    cfg,
		logger:    log.Named("api-handler"),
		startTime: time.Now(),
	}
}

// GetRecentTracks returns the most recently stored tracks
func (h *Handler) GetRecentTracks(w http.ResponseWriter, r *http.Request) {
	limit := defaultTrackLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if parsed > maxTrackLimit {
			parsed = maxTrackLimit
		}
		limit = parsed
	}

	tracks, err := h.storage.GetRecentTracks(limit)
	if err != nil {
		h.logger.Error("Failed to get recent tracks", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get tracks")
		return
	}

	h.respondJSON(w, map[string]interface{}{
		"tracks": tracks,
		"count":  len(tracks),
	})
}

// GetTrackByID returns a single track by its ID
func (h *Handler) GetTrackByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.trackID(w, r)
	if !ok {
		return
	}

	track, err := h.storage.GetTrackByID(id)
	if err != nil {
		h.logger.Error("Failed to get track", logger.Int64("track_id", id), logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get track")
		return
	}
	if track == nil {
		h.respondError(w, http.StatusNotFound, "track not found")
		return
	}

	h.respondJSON(w, track)
}

// GetTrackPoints returns a track's classified points in temporal order
func (h *Handler) GetTrackPoints(w http.ResponseWriter, r *http.Request) {
	id, ok := h.trackID(w, r)
	if !ok {
		return
	}

	track, err := h.storage.GetTrackByID(id)
	if err != nil {
		h.logger.Error("Failed to get track", logger.Int64("track_id", id), logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get track")
		return
	}
	if track == nil {
		h.respondError(w, http.StatusNotFound, "track not found")
		return
	}

	points, err := h.storage.GetPointsByTrack(id)
	if err != nil {
		h.logger.Error("Failed to get points", logger.Int64("track_id", id), logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get points")
		return
	}

	h.respondJSON(w, map[string]interface{}{
		"track_id": id,
		"points":   points,
		"count":    len(points),
	})
}

// GetTrackManoeuvres returns a track's manoeuvre events in temporal order
func (h *Handler) GetTrackManoeuvres(w http.ResponseWriter, r *http.Request) {
	id, ok := h.trackID(w, r)
	if !ok {
		return
	}

	track, err := h.storage.GetTrackByID(id)
	if err != nil {
		h.logger.Error("Failed to get track", logger.Int64("track_id", id), logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get track")
		return
	}
	if track == nil {
		h.respondError(w, http.StatusNotFound, "track not found")
		return
	}

	events, err := h.storage.GetManoeuvresByTrack(id)
	if err != nil {
		h.logger.Error("Failed to get manoeuvres", logger.Int64("track_id", id), logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get manoeuvres")
		return
	}

	h.respondJSON(w, map[string]interface{}{
		"track_id":   id,
		"manoeuvres": events,
		"count":      len(events),
	})
}

// GetManoeuvresByTimeRange returns manoeuvres across all tracks within a UTC
// millisecond range given by the start and end query parameters
func (h *Handler) GetManoeuvresByTimeRange(w http.ResponseWriter, r *http.Request) {
	start, err := strconv.ParseInt(r.URL.Query().Get("start"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid start timestamp")
		return
	}
	end, err := strconv.ParseInt(r.URL.Query().Get("end"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid end timestamp")
		return
	}
	if end < start {
		h.respondError(w, http.StatusBadRequest, "end before start")
		return
	}

	events, err := h.storage.GetManoeuvresByTimeRange(start, end)
	if err != nil {
		h.logger.Error("Failed to get manoeuvres by time range", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get manoeuvres")
		return
	}

	h.respondJSON(w, map[string]interface{}{
		"start":      start,
		"end":        end,
		"manoeuvres": events,
		"count":      len(events),
	})
}

// GetHealth returns the health status of the server
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"time":           time.Now().UTC().Format(time.RFC3339),
	})
}

// GetConfig returns the non-sensitive parts of the active configuration
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, map[string]interface{}{
		"wind": map[string]interface{}{
			"direction_deg": h.config.Wind.DirectionDeg,
			"speed_kts":     h.config.Wind.SpeedKts,
		},
		"logging": map[string]interface{}{
			"level":  h.config.Logging.Level,
			"format": h.config.Logging.Format,
		},
	})
}

// trackID parses the {id} URL parameter, writing a 400 response on failure.
func (h *Handler) trackID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		h.respondError(w, http.StatusBadRequest, "invalid track ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

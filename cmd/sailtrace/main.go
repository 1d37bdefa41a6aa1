// Command sailtrace processes sailing track files (binary instrument logs or
// GPX documents), stores the classified results in SQLite and optionally
// serves them over a read-only HTTP API.
//
// Usage:
//
//	sailtrace [flags] file.vkx [file.gpx ...]
//	sailtrace -serve
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lmaren/sailtrace/internal/analysis"
	"github.com/lmaren/sailtrace/internal/api"
	"github.com/lmaren/sailtrace/internal/config"
	"github.com/lmaren/sailtrace/internal/storage/sqlite"
	"github.com/lmaren/sailtrace/internal/wind"
	"github.com/lmaren/sailtrace/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to TOML configuration file")
	windDir := flag.Float64("wind-dir", -1, "fixed true wind direction in degrees (overrides config)")
	windSpeed := flag.Float64("wind-speed", -1, "fixed true wind speed in knots (overrides config)")
	serve := flag.Bool("serve", false, "serve stored results over HTTP after processing")
	flag.Parse()

	if err := run(*configPath, *windDir, *windSpeed, *serve, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "sailtrace: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, windDir, windSpeed float64, serve bool, files []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	if len(files) == 0 && !serve && !cfg.Server.Enabled {
		return fmt.Errorf("no input files given (and serving is disabled); see -h")
	}

	db, err := sql.Open("sqlite", cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", cfg.Storage.Path, err)
	}
	defer db.Close()

	storage, err := sqlite.NewTrackStorage(db, log)
	if err != nil {
		return err
	}

	src, err := windSource(cfg, windDir, windSpeed)
	if err != nil {
		return err
	}
	processor := analysis.NewProcessor(log)

	for _, path := range files {
		if err := processFile(processor, storage, log, path, src); err != nil {
			return err
		}
	}

	if serve || cfg.Server.Enabled {
		return serveAPI(cfg, storage, log)
	}
	return nil
}

// windSource picks the fixed wind source for the run: command-line flags
// win over the config file, and a config with zero wind speed means no
// fixed source at all (binary files then use their embedded wind records).
// The two wind flags only make sense together, so giving just one of the
// pair is an error rather than a silent fall-through to the config.
func windSource(cfg *config.Config, windDir, windSpeed float64) (wind.Source, error) {
	dirSet, speedSet := windDir >= 0, windSpeed >= 0
	if dirSet != speedSet {
		return nil, fmt.Errorf("-wind-dir and -wind-speed must be given together")
	}
	if dirSet && speedSet {
		return wind.FixedSource{DirectionDeg: windDir, SpeedKts: windSpeed}, nil
	}
	if cfg.Wind.SpeedKts > 0 {
		return wind.FixedSource{DirectionDeg: cfg.Wind.DirectionDeg, SpeedKts: cfg.Wind.SpeedKts}, nil
	}
	return nil, nil
}

func processFile(processor *analysis.Processor, storage *sqlite.TrackStorage, log *logger.Logger, path string, src wind.Source) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	track, err := processor.Process(filepath.Base(path), data, src)
	if err != nil {
		return fmt.Errorf("processing %s: %w", path, err)
	}

	id, err := storage.StoreTrack(track.Metadata, track.Summary, track.Points, track.Events)
	if err != nil {
		return fmt.Errorf("storing %s: %w", path, err)
	}

	log.Info("Track stored",
		logger.Int64("track_id", id),
		logger.String("file", path),
		logger.Int("points", track.Metadata.PointCount),
		logger.Float64("distance_nm", track.Summary.DistanceNM),
		logger.Float64("duration_min", track.Summary.DurationMin),
		logger.Int("tacks", track.Summary.TackCount),
		logger.Int("gybes", track.Summary.GybeCount))

	return nil
}

func serveAPI(cfg *config.Config, storage *sqlite.TrackStorage, log *logger.Logger) error {
	router := api.NewRouter(storage, cfg, log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/looksmaxxer/internal/catalog"
	"github.com/kozaktomas/looksmaxxer/internal/config"
	"github.com/kozaktomas/looksmaxxer/internal/database/postgres"
	"github.com/kozaktomas/looksmaxxer/internal/detect"
	"github.com/kozaktomas/looksmaxxer/internal/faceshape"
	"github.com/kozaktomas/looksmaxxer/internal/logging"
	"github.com/kozaktomas/looksmaxxer/internal/session"
)

// loadThresholds returns the face-shape thresholds, from FACESHAPE_THRESHOLDS
// when set.
func loadThresholds(cfg *config.Config) (faceshape.Thresholds, error) {
	if cfg.FaceShape.ThresholdsPath == "" {
		return faceshape.DefaultThresholds(), nil
	}
	t, err := faceshape.LoadThresholds(cfg.FaceShape.ThresholdsPath)
	if err != nil {
		return faceshape.Thresholds{}, err
	}
	logging.Info(logging.Fields{"path": cfg.FaceShape.ThresholdsPath}, "loaded face shape thresholds")
	return t, nil
}

// loadCatalog returns the builtin frames overlaid with FRAMES_DIR.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	frames := catalog.Builtin()
	if cfg.Frames.Dir == "" {
		return frames, nil
	}
	loaded, err := frames.LoadDir(cfg.Frames.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading frames: %w", err)
	}
	logging.Info(logging.Fields{"dir": cfg.Frames.Dir, "frames": loaded}, "loaded custom frames")
	return frames, nil
}

// newDetector returns the configured landmark detector.
func newDetector(cfg *config.Config) (detect.Detector, error) {
	d, err := detect.New(detect.Options{
		LandmarkURL: cfg.Detector.LandmarkURL,
		ModelsDir:   cfg.Detector.ModelsDir,
	})
	if err != nil {
		return nil, fmt.Errorf("creating landmark detector: %w", err)
	}
	return d, nil
}

// openSessionStore opens the store named by SESSION_STORE. The returned
// closer releases its connections.
func openSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Session.Store {
	case "", "memory":
		return session.NewMemoryStore(), noop, nil
	case "redis":
		client, err := session.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		logging.Info(logging.Fields{"addr": cfg.Redis.Addr}, "session persistence enabled (Redis)")
		return session.NewRedisStore(client), client.Close, nil
	case "postgres":
		if cfg.Database.URL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL environment variable is required for SESSION_STORE=postgres")
		}
		pool, err := postgres.Open(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		logging.Info(nil, "session persistence enabled (PostgreSQL)")
		return postgres.NewSessionRepository(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown SESSION_STORE %q (supported: memory, redis, postgres)", cfg.Session.Store)
	}
}

package config

import (
	"fmt"
	"mkworld-overlay/internal/constants"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	ServerPort      string
	LogLevel        string
	UpstreamBaseURL string
	UpstreamTimeout time.Duration
	DBPath          string
	StaticDir       string
	AssetsDir       string
	IndexFile       string
	CacheFreshness  time.Duration
	CacheEviction   time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", getEnv("PORT", "3000")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		UpstreamBaseURL: getEnv("UPSTREAM_BASE_URL", constants.LoungeBaseURL),
		UpstreamTimeout: constants.ExternalAPITimeout,
		DBPath:          lookupEnv("DB_PATH", "mkworld.db"),
		StaticDir:       getEnv("STATIC_DIR", "static"),
		AssetsDir:       getEnv("ASSETS_DIR", "dist/assets"),
		IndexFile:       getEnv("INDEX_FILE", "dist/index.html"),
		CacheFreshness:  constants.PlayerFreshness,
		CacheEviction:   constants.PlayerEviction,
	}

	if _, err := url.ParseRequestURI(cfg.UpstreamBaseURL); err != nil {
		return nil, fmt.Errorf("UPSTREAM_BASE_URL is invalid: %w", err)
	}

	logger.Info().
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("upstream", cfg.UpstreamBaseURL).
		Str("db_path", cfg.DBPath).
		Dur("cache_freshness", cfg.CacheFreshness).
		Dur("cache_eviction", cfg.CacheEviction).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// lookupEnv keeps an explicitly empty value, so DB_PATH= turns history off.
func lookupEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)

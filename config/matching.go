package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/providers/embedding"
)

type MatchingConfig struct {
	DefaultLimit  int
	MaxLimit      int
	MaxCandidates int

	Embedding   embedding.Config
	Concurrency int
	CacheTTL    time.Duration
	CachePrefix string

	RefreshWorkers int
	RefreshLogTTL  time.Duration
}

// LoadMatching reads the matching and embedding settings from the environment.
func LoadMatching() (MatchingConfig, error) {
	cfg := MatchingConfig{
		Embedding: embedding.Config{
			Provider: envOr("EMBED_PROVIDER", "gemini"),
			Model:    os.Getenv("EMBED_MODEL"),
			APIKey:   os.Getenv("EMBED_API_KEY"),
			BaseURL:  os.Getenv("EMBED_BASE_URL"),
		},
		CachePrefix: envOr("REDIS_KEY_PREFIX", "matcher:"),
	}

	var err error
	if cfg.DefaultLimit, err = envInt("MATCH_DEFAULT_LIMIT", 20); err != nil {
		return cfg, err
	}
	if cfg.MaxLimit, err = envInt("MATCH_MAX_LIMIT", 100); err != nil {
		return cfg, err
	}
	if cfg.MaxCandidates, err = envInt("MATCH_MAX_CANDIDATES", 2000); err != nil {
		return cfg, err
	}
	if cfg.Embedding.Dimensions, err = envInt("EMBED_DIMENSIONS", 0); err != nil {
		return cfg, err
	}
	if cfg.Embedding.RPS, err = envFloat("EMBED_RPS", 5); err != nil {
		return cfg, err
	}
	if cfg.Embedding.Burst, err = envInt("EMBED_BURST", 5); err != nil {
		return cfg, err
	}
	if cfg.Embedding.Timeout, err = envDuration("EMBED_TIMEOUT", 10*time.Second); err != nil {
		return cfg, err
	}
	if cfg.Concurrency, err = envInt("EMBED_CONCURRENCY", 8); err != nil {
		return cfg, err
	}
	if cfg.CacheTTL, err = envDuration("EMBED_CACHE_TTL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.RefreshWorkers, err = envInt("REFRESH_WORKERS", 4); err != nil {
		return cfg, err
	}
	if cfg.RefreshLogTTL, err = envDuration("REFRESH_LOG_TTL", 7*24*time.Hour); err != nil {
		return cfg, err
	}

	if cfg.MaxLimit <= 0 || cfg.DefaultLimit <= 0 || cfg.MaxCandidates <= 0 {
		return cfg, fmt.Errorf("MATCH_DEFAULT_LIMIT, MATCH_MAX_LIMIT and MATCH_MAX_CANDIDATES must be > 0")
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

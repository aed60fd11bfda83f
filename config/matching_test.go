package config

import (
	"testing"
	"time"
)

func TestLoadMatchingDefaults(t *testing.T) {
	for _, k := range []string{"MATCH_DEFAULT_LIMIT", "MATCH_MAX_LIMIT", "MATCH_MAX_CANDIDATES", "EMBED_PROVIDER", "EMBED_CACHE_TTL", "EMBED_RPS"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadMatching()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultLimit != 20 || cfg.MaxLimit != 100 || cfg.MaxCandidates != 2000 {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
	if cfg.Embedding.Provider != "gemini" || cfg.CacheTTL != 24*time.Hour || cfg.Embedding.RPS != 5 {
		t.Fatalf("unexpected embedding defaults: %+v", cfg)
	}
}

func TestLoadMatchingOverrides(t *testing.T) {
	t.Setenv("MATCH_DEFAULT_LIMIT", "500")
	t.Setenv("MATCH_MAX_LIMIT", "50")
	t.Setenv("EMBED_PROVIDER", "ollama")
	t.Setenv("EMBED_TIMEOUT", "3s")
	t.Setenv("REFRESH_WORKERS", "2")

	cfg, err := LoadMatching()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultLimit != 50 {
		t.Fatalf("default limit must be capped by max limit, got %d", cfg.DefaultLimit)
	}
	if cfg.Embedding.Provider != "ollama" || cfg.Embedding.Timeout != 3*time.Second || cfg.RefreshWorkers != 2 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadMatchingRejectsGarbage(t *testing.T) {
	tests := []struct {
		key, val string
	}{
		{"MATCH_MAX_LIMIT", "lots"},
		{"MATCH_MAX_LIMIT", "0"},
		{"EMBED_RPS", "fast"},
		{"EMBED_CACHE_TTL", "forever"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.val, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := LoadMatching(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestRefreshLogIndexes(t *testing.T) {
	idx := RefreshLogIndexes()
	if len(idx) != 3 {
		t.Fatalf("expected 3 indexes, got %d", len(idx))
	}
	names := map[string]bool{}
	for _, m := range idx {
		if m.Options == nil || m.Options.Name == nil {
			t.Fatalf("index without name: %+v", m)
		}
		names[*m.Options.Name] = true
	}
	for _, want := range []string{"ttl_expires_at", "uniq_attempt_id", "by_owner_started"} {
		if !names[want] {
			t.Fatalf("missing index %q", want)
		}
	}
	if ttl := idx[0].Options.ExpireAfterSeconds; ttl == nil || *ttl != 0 {
		t.Fatalf("expected TTL index with expireAfterSeconds=0")
	}
}

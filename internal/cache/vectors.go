package cache

import (
	"context"
	"time"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
)

// VectorEntry is the hot copy of an embedding vector kept in front of Postgres.
type VectorEntry struct {
	Vector      []float32 `json:"vector"`
	ContentHash string    `json:"content_hash"`
	Model       string    `json:"model"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func VectorKey(kind models.EntityKind, id string) string {
	return "emb:" + string(kind) + ":" + id
}

type VectorCache struct {
	c   Cache
	ttl time.Duration
}

func NewVectorCache(c Cache, ttl time.Duration) *VectorCache {
	return &VectorCache{c: c, ttl: ttl}
}

func (v *VectorCache) Get(ctx context.Context, kind models.EntityKind, id string) (*VectorEntry, bool, error) {
	if v == nil || v.c == nil {
		return nil, false, nil
	}
	var e VectorEntry
	hit, err := v.c.GetJSON(ctx, VectorKey(kind, id), &e)
	if err != nil || !hit {
		return nil, false, err
	}
	return &e, true, nil
}

func (v *VectorCache) Set(ctx context.Context, kind models.EntityKind, id string, e *VectorEntry) error {
	if v == nil || v.c == nil || e == nil {
		return nil
	}
	return v.c.SetJSON(ctx, VectorKey(kind, id), e, v.ttl)
}

func (v *VectorCache) Invalidate(ctx context.Context, kind models.EntityKind, id string) error {
	if v == nil || v.c == nil {
		return nil
	}
	return v.c.Del(ctx, VectorKey(kind, id))
}

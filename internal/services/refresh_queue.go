package services

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
)

const (
	RefreshStream = "embedding:refresh"
	RefreshGroup  = "embedding-workers"
)

// RefreshStatusChannel is the pub/sub channel that carries refresh progress for one entity.
func RefreshStatusChannel(kind models.EntityKind, id string) string {
	return "embedding:" + string(kind) + ":" + id + ":status"
}

// RefreshQueue hands recompute triggers to the worker pool.
type RefreshQueue interface {
	Enqueue(ctx context.Context, kind models.EntityKind, id string) error
}

type redisRefreshQueue struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

func NewRefreshQueue(rdb *redis.Client) RefreshQueue {
	return &redisRefreshQueue{rdb: rdb, stream: RefreshStream, maxLen: 100000}
}

func (q *redisRefreshQueue) Enqueue(ctx context.Context, kind models.EntityKind, id string) error {
	const op = "RefreshQueue.Enqueue"

	if !kind.Valid() || id == "" {
		return utils.E(utils.CodeInvalidArgument, op, "owner_kind and owner_id are required", nil)
	}

	err := q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		MaxLen: q.maxLen,
		Approx: true,
		Values: map[string]any{
			"owner_kind": string(kind),
			"owner_id":   id,
			"ts_unix":    strconv.FormatInt(time.Now().UTC().Unix(), 10),
		},
	}).Err()
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to enqueue refresh", err)
	}

	_ = q.rdb.Publish(ctx, RefreshStatusChannel(kind, id), `{"type":"status","status":"queued"}`).Err()
	return nil
}

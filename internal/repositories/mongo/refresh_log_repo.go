package mongo

import (
	"context"
	"time"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const RefreshLogCollection = "embedding_refreshes"

type RefreshLogRepository interface {
	Start(ctx context.Context, l *models.RefreshLog) error
	Finish(ctx context.Context, attemptID, status, model, errMsg string, latencyMS int64) error
	ListByOwner(ctx context.Context, kind, ownerID string, limit int64) ([]models.RefreshLog, error)
}

type refreshLogRepo struct {
	col *mongo.Collection
	ttl time.Duration
}

func NewRefreshLogRepo(db *mongo.Database, ttl time.Duration) RefreshLogRepository {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &refreshLogRepo{col: db.Collection(RefreshLogCollection), ttl: ttl}
}

func (r *refreshLogRepo) Start(ctx context.Context, l *models.RefreshLog) error {
	if l.StartedAt.IsZero() {
		l.StartedAt = time.Now().UTC()
	}
	if l.ExpiresAt.IsZero() {
		l.ExpiresAt = l.StartedAt.Add(r.ttl)
	}
	if l.Status == "" {
		l.Status = models.RefreshProcessing
	}
	_, err := r.col.InsertOne(ctx, l)
	return err
}

func (r *refreshLogRepo) Finish(ctx context.Context, attemptID, status, model, errMsg string, latencyMS int64) error {
	set := bson.M{
		"status":     status,
		"latency_ms": latencyMS,
	}
	if model != "" {
		set["model"] = model
	}
	if errMsg != "" {
		set["error"] = errMsg
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"attempt_id": attemptID}, bson.M{"$set": set})
	return err
}

func (r *refreshLogRepo) ListByOwner(ctx context.Context, kind, ownerID string, limit int64) ([]models.RefreshLog, error) {
	if limit <= 0 {
		limit = 50
	}

	cur, err := r.col.Find(ctx,
		bson.M{"owner_kind": kind, "owner_id": ownerID},
		options.Find().
			SetSort(bson.D{{Key: "started_at", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RefreshLog
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

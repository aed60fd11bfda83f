package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RefreshProcessing = "processing"
	RefreshDone       = "done"
	RefreshFailed     = "failed"
	RefreshSkipped    = "skipped"
)

// RefreshLog records one attempt to recompute an entity's embedding.
type RefreshLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AttemptID   string             `bson:"attempt_id" json:"attempt_id"`
	OwnerKind   string             `bson:"owner_kind" json:"owner_kind"`
	OwnerID     string             `bson:"owner_id" json:"owner_id"`
	ContentHash string             `bson:"content_hash" json:"content_hash"`
	Model       string             `bson:"model,omitempty" json:"model,omitempty"`

	Status    string `bson:"status" json:"status"` // processing|done|failed|skipped
	Error     string `bson:"error,omitempty" json:"error,omitempty"`
	LatencyMS int64  `bson:"latency_ms,omitempty" json:"latency_ms,omitempty"`

	StartedAt time.Time `bson:"started_at" json:"started_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // for TTL index
}

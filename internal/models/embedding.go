package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type EntityKind string

const (
	KindProfile EntityKind = "profile"
	KindPosting EntityKind = "posting"
)

func (k EntityKind) Valid() bool { return k == KindProfile || k == KindPosting }

// EmbeddingVector is the one cached vector per profile or posting.
// It is fresh iff ContentHash equals the owner's current content hash.
type EmbeddingVector struct {
	OwnerKind   EntityKind      `gorm:"column:owner_kind;type:text;primaryKey" json:"owner_kind"`
	OwnerID     string          `gorm:"column:owner_id;type:uuid;primaryKey" json:"owner_id"`
	Vector      pgvector.Vector `gorm:"column:vector;type:vector" json:"vector"`
	ContentHash string          `gorm:"column:content_hash;type:text" json:"content_hash"`
	Model       string          `gorm:"column:model;type:text" json:"model"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (EmbeddingVector) TableName() string { return "embedding_vectors" }

package postgres

import (
	"context"
	"errors"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmbeddingRepository interface {
	Get(ctx context.Context, kind models.EntityKind, ownerID string) (*models.EmbeddingVector, error)
	Upsert(ctx context.Context, v *models.EmbeddingVector) error
}

type embeddingRepo struct {
	db *gorm.DB
}

func NewEmbeddingRepo(db *gorm.DB) EmbeddingRepository {
	return &embeddingRepo{db: db}
}

func (r *embeddingRepo) Get(ctx context.Context, kind models.EntityKind, ownerID string) (*models.EmbeddingVector, error) {
	if !validID(ownerID) {
		return nil, utils.ErrNotFound
	}
	var v models.EmbeddingVector
	err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_id = ?", kind, ownerID).
		Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Upsert replaces the single vector of an owner; there is never more than one row per owner.
func (r *embeddingRepo) Upsert(ctx context.Context, v *models.EmbeddingVector) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_kind"}, {Name: "owner_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"vector", "content_hash", "model", "updated_at"}),
		}).
		Create(v).Error
}

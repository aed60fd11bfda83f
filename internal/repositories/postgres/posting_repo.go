package postgres

import (
	"context"
	"errors"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Posting, error)
	Upsert(ctx context.Context, p *models.Posting) error
	SetStatus(ctx context.Context, id string, s models.PostingStatus) error
	// ListPublished pages published postings ordered by updated_at desc, id asc.
	ListPublished(ctx context.Context, limit, offset int) ([]models.Posting, error)
}

type postingRepo struct {
	db *gorm.DB
}

func NewPostingRepo(db *gorm.DB) PostingRepository {
	return &postingRepo{db: db}
}

func (r *postingRepo) GetByID(ctx context.Context, id string) (*models.Posting, error) {
	if !validID(id) {
		return nil, utils.ErrNotFound
	}
	var p models.Posting
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postingRepo) Upsert(ctx context.Context, p *models.Posting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "company", "description", "requirements", "preferred", "location", "salary",
				"min_experience", "max_experience", "status", "content_hash", "updated_at",
			}),
		}).
		Create(p).Error
}

func (r *postingRepo) SetStatus(ctx context.Context, id string, s models.PostingStatus) error {
	if !validID(id) {
		return utils.ErrNotFound
	}
	res := r.db.WithContext(ctx).
		Model(&models.Posting{}).
		Where("id = ?", id).
		Update("status", s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *postingRepo) ListPublished(ctx context.Context, limit, offset int) ([]models.Posting, error) {
	var out []models.Posting
	err := r.db.WithContext(ctx).
		Where("status = ?", models.PostingPublished).
		Order("updated_at DESC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	return out, err
}

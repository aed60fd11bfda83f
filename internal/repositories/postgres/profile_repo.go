package postgres

import (
	"context"
	"errors"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
	SetVisibility(ctx context.Context, id string, v models.Visibility) error
	// ListPublic pages public profiles ordered by updated_at desc, id asc.
	ListPublic(ctx context.Context, limit, offset int) ([]models.Profile, error)
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if !validID(id) {
		return nil, utils.ErrNotFound
	}
	var p models.Profile
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

func (r *profileRepo) Upsert(ctx context.Context, p *models.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "summary", "skills", "experiences", "projects", "keywords",
				"experience_level", "preferred_locations", "visibility", "content_hash", "updated_at",
			}),
		}).
		Create(p).Error
}

func (r *profileRepo) SetVisibility(ctx context.Context, id string, v models.Visibility) error {
	if !validID(id) {
		return utils.ErrNotFound
	}
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Update("visibility", v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *profileRepo) ListPublic(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	var out []models.Profile
	err := r.db.WithContext(ctx).
		Where("visibility = ?", models.VisibilityPublic).
		Order("updated_at DESC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	return out, err
}

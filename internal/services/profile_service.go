package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/canonical"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/logger"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/matching"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	pgrepo "github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/repositories/postgres"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
)

type ProfileIndexer interface {
	PutProfile(p *models.Profile) error
}

// VectorInvalidator drops the hot copy of an entity's vector once it leaves the candidate pool.
type VectorInvalidator interface {
	Invalidate(ctx context.Context, kind models.EntityKind, id string) error
}

type ProfileService interface {
	// Get returns a profile to its owner, or to anyone when it is public.
	Get(ctx context.Context, viewerID, id string) (*models.Profile, error)
	Upsert(ctx context.Context, ownerID string, p *models.Profile) (*models.Profile, error)
	SetVisibility(ctx context.Context, ownerID, id string, v models.Visibility) (*models.Profile, error)
	RequestRefresh(ctx context.Context, ownerID, id string) error
}

type profileService struct {
	profiles pgrepo.ProfileRepository
	queue    RefreshQueue
	index    ProfileIndexer
	vectors  VectorInvalidator
	log      *logrus.Logger
	now      func() time.Time
}

func NewProfileService(profiles pgrepo.ProfileRepository, queue RefreshQueue, index ProfileIndexer, vectors VectorInvalidator, log *logrus.Logger) ProfileService {
	return &profileService{
		profiles: profiles,
		queue:    queue,
		index:    index,
		vectors:  vectors,
		log:      logger.OrDiscard(log),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *profileService) Get(ctx context.Context, viewerID, id string) (*models.Profile, error) {
	const op = "ProfileService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "profile_id is required", nil)
	}

	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	if p.OwnerID != viewerID && p.Visibility != models.VisibilityPublic {
		return nil, utils.E(utils.CodeNotFound, op, "profile not found", utils.ErrNotFound)
	}
	return p, nil
}

func (s *profileService) Upsert(ctx context.Context, ownerID string, p *models.Profile) (*models.Profile, error) {
	const op = "ProfileService.Upsert"

	if p == nil || ownerID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "profile and owner are required", nil)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	} else if _, err := uuid.Parse(p.ID); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "profile id must be a uuid", err)
	}

	existing, err := s.profiles.GetByID(ctx, p.ID)
	switch {
	case errors.Is(err, utils.ErrNotFound):
		existing = nil
	case err != nil:
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	case existing.OwnerID != ownerID:
		return nil, utils.E(utils.CodeForbidden, op, "profile belongs to another user", nil)
	}

	if p.ExperienceLevel != "" {
		l, err := matching.ParseLevel(p.ExperienceLevel)
		if err != nil {
			return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), err)
		}
		p.ExperienceLevel = l.String()
	}
	switch {
	case p.Visibility == "" && existing != nil:
		p.Visibility = existing.Visibility
	case p.Visibility == "":
		p.Visibility = models.VisibilityPrivate
	case p.Visibility != models.VisibilityPublic && p.Visibility != models.VisibilityPrivate:
		return nil, utils.E(utils.CodeInvalidArgument, op, "visibility must be public or private", nil)
	}

	p.OwnerID = ownerID
	p.ContentHash = canonical.Profile(p).Hash
	p.UpdatedAt = s.now()

	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to upsert profile", err)
	}

	if existing == nil || existing.ContentHash != p.ContentHash {
		s.enqueue(ctx, p.ID)
	}
	s.reindex(p)
	return p, nil
}

func (s *profileService) SetVisibility(ctx context.Context, ownerID, id string, v models.Visibility) (*models.Profile, error) {
	const op = "ProfileService.SetVisibility"

	if v != models.VisibilityPublic && v != models.VisibilityPrivate {
		return nil, utils.E(utils.CodeInvalidArgument, op, "visibility must be public or private", nil)
	}
	p, err := s.owned(ctx, op, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.SetVisibility(ctx, id, v); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update visibility", err)
	}
	p.Visibility = v
	s.reindex(p)
	if v != models.VisibilityPublic {
		s.invalidate(ctx, id)
	}
	return p, nil
}

func (s *profileService) RequestRefresh(ctx context.Context, ownerID, id string) error {
	const op = "ProfileService.RequestRefresh"

	if _, err := s.owned(ctx, op, ownerID, id); err != nil {
		return err
	}
	if s.queue == nil {
		return utils.E(utils.CodeUnavailable, op, "refresh queue not configured", nil)
	}
	return s.queue.Enqueue(ctx, models.KindProfile, id)
}

func (s *profileService) owned(ctx context.Context, op, ownerID, id string) (*models.Profile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	if p.OwnerID != ownerID {
		return nil, utils.E(utils.CodeForbidden, op, "profile belongs to another user", nil)
	}
	return p, nil
}

// enqueue failures only delay the refresh; the next match query recomputes lazily.
func (s *profileService) enqueue(ctx context.Context, id string) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(ctx, models.KindProfile, id); err != nil {
		s.log.WithError(err).WithField("profile_id", id).Warn("enqueue embedding refresh failed")
	}
}

func (s *profileService) reindex(p *models.Profile) {
	if s.index == nil {
		return
	}
	if err := s.index.PutProfile(p); err != nil {
		s.log.WithError(err).WithField("profile_id", p.ID).Warn("profile search index update failed")
	}
}

// the stored row stays so the vector is reused if the profile goes public again
func (s *profileService) invalidate(ctx context.Context, id string) {
	if s.vectors == nil {
		return
	}
	if err := s.vectors.Invalidate(ctx, models.KindProfile, id); err != nil {
		s.log.WithError(err).WithField("profile_id", id).Warn("vector cache invalidation failed")
	}
}

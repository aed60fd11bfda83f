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

type PostingIndexer interface {
	PutPosting(j *models.Posting) error
}

type PostingService interface {
	// Get returns a posting to its organization, or to anyone when it is published.
	Get(ctx context.Context, viewerID, id string) (*models.Posting, error)
	Upsert(ctx context.Context, orgID string, j *models.Posting) (*models.Posting, error)
	SetStatus(ctx context.Context, orgID, id string, st models.PostingStatus) (*models.Posting, error)
	RequestRefresh(ctx context.Context, orgID, id string) error
}

type postingService struct {
	postings pgrepo.PostingRepository
	queue    RefreshQueue
	index    PostingIndexer
	vectors  VectorInvalidator
	log      *logrus.Logger
	now      func() time.Time
}

func NewPostingService(postings pgrepo.PostingRepository, queue RefreshQueue, index PostingIndexer, vectors VectorInvalidator, log *logrus.Logger) PostingService {
	return &postingService{
		postings: postings,
		queue:    queue,
		index:    index,
		vectors:  vectors,
		log:      logger.OrDiscard(log),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *postingService) Get(ctx context.Context, viewerID, id string) (*models.Posting, error) {
	const op = "PostingService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "posting_id is required", nil)
	}

	j, err := s.postings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "posting not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get posting", err)
	}
	if j.OrganizationID != viewerID && j.Status != models.PostingPublished {
		return nil, utils.E(utils.CodeNotFound, op, "posting not found", utils.ErrNotFound)
	}
	return j, nil
}

func (s *postingService) Upsert(ctx context.Context, orgID string, j *models.Posting) (*models.Posting, error) {
	const op = "PostingService.Upsert"

	if j == nil || orgID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "posting and organization are required", nil)
	}
	if j.ID == "" {
		j.ID = uuid.NewString()
	} else if _, err := uuid.Parse(j.ID); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "posting id must be a uuid", err)
	}

	existing, err := s.postings.GetByID(ctx, j.ID)
	switch {
	case errors.Is(err, utils.ErrNotFound):
		existing = nil
	case err != nil:
		return nil, utils.E(utils.CodeInternal, op, "failed to get posting", err)
	case existing.OrganizationID != orgID:
		return nil, utils.E(utils.CodeForbidden, op, "posting belongs to another organization", nil)
	}

	if err := normalizeExperienceRange(j); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), err)
	}
	switch {
	case j.Status == "" && existing != nil:
		j.Status = existing.Status
	case j.Status == "":
		j.Status = models.PostingDraft
	case !j.Status.Valid():
		return nil, utils.E(utils.CodeInvalidArgument, op, "status must be draft, published or closed", nil)
	}

	j.OrganizationID = orgID
	j.ContentHash = canonical.Posting(j).Hash
	j.UpdatedAt = s.now()

	if err := s.postings.Upsert(ctx, j); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to upsert posting", err)
	}

	if existing == nil || existing.ContentHash != j.ContentHash {
		s.enqueue(ctx, j.ID)
	}
	s.reindex(j)
	return j, nil
}

func (s *postingService) SetStatus(ctx context.Context, orgID, id string, st models.PostingStatus) (*models.Posting, error) {
	const op = "PostingService.SetStatus"

	if !st.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "status must be draft, published or closed", nil)
	}
	j, err := s.owned(ctx, op, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := s.postings.SetStatus(ctx, id, st); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update status", err)
	}
	j.Status = st
	s.reindex(j)
	if st != models.PostingPublished {
		s.invalidate(ctx, id)
	}
	return j, nil
}

func (s *postingService) RequestRefresh(ctx context.Context, orgID, id string) error {
	const op = "PostingService.RequestRefresh"

	if _, err := s.owned(ctx, op, orgID, id); err != nil {
		return err
	}
	if s.queue == nil {
		return utils.E(utils.CodeUnavailable, op, "refresh queue not configured", nil)
	}
	return s.queue.Enqueue(ctx, models.KindPosting, id)
}

func (s *postingService) owned(ctx context.Context, op, orgID, id string) (*models.Posting, error) {
	j, err := s.postings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "posting not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get posting", err)
	}
	if j.OrganizationID != orgID {
		return nil, utils.E(utils.CodeForbidden, op, "posting belongs to another organization", nil)
	}
	return j, nil
}

func (s *postingService) enqueue(ctx context.Context, id string) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(ctx, models.KindPosting, id); err != nil {
		s.log.WithError(err).WithField("posting_id", id).Warn("enqueue embedding refresh failed")
	}
}

func (s *postingService) reindex(j *models.Posting) {
	if s.index == nil {
		return
	}
	if err := s.index.PutPosting(j); err != nil {
		s.log.WithError(err).WithField("posting_id", j.ID).Warn("posting search index update failed")
	}
}

var errExperienceRange = errors.New("min_experience must not exceed max_experience")

// normalizeExperienceRange validates both bounds and stores their canonical names.
func normalizeExperienceRange(j *models.Posting) error {
	lo, err := matching.ParseLevel(j.MinExperience)
	if err != nil {
		return err
	}
	hi, err := matching.ParseLevel(j.MaxExperience)
	if err != nil {
		return err
	}
	if lo != 0 && hi != 0 && lo > hi {
		return errExperienceRange
	}
	j.MinExperience, j.MaxExperience = "", ""
	if lo != 0 {
		j.MinExperience = lo.String()
	}
	if hi != 0 {
		j.MaxExperience = hi.String()
	}
	return nil
}

func (s *postingService) invalidate(ctx context.Context, id string) {
	if s.vectors == nil {
		return
	}
	if err := s.vectors.Invalidate(ctx, models.KindPosting, id); err != nil {
		s.log.WithError(err).WithField("posting_id", id).Warn("vector cache invalidation failed")
	}
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/canonical"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/logger"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/matching"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	pgrepo "github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/repositories/postgres"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/vectorstore"
)

// candidatePageSize is how many rows are pulled per repository call while building the pool.
const candidatePageSize = 500

// VectorStore is the part of vectorstore.Store the matching pipeline depends on.
type VectorStore interface {
	EnsureFresh(ctx context.Context, doc canonical.Document) (*vectorstore.Result, error)
	EnsureFreshBatch(ctx context.Context, docs []canonical.Document) []vectorstore.BatchResult
}

type MatchingConfig struct {
	MaxLimit      int
	MaxCandidates int
}

type MatchingService interface {
	MatchPostingsForProfile(ctx context.Context, profileID string, filters models.MatchFilters, page models.PageRequest) (*models.MatchPage, error)
	MatchProfilesForPosting(ctx context.Context, postingID string, page models.PageRequest) (*models.MatchPage, error)
}

type matchingService struct {
	profiles pgrepo.ProfileRepository
	postings pgrepo.PostingRepository
	vectors  VectorStore
	cfg      MatchingConfig
	log      *logrus.Logger
}

func NewMatchingService(profiles pgrepo.ProfileRepository, postings pgrepo.PostingRepository, vectors VectorStore, cfg MatchingConfig, log *logrus.Logger) MatchingService {
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 2000
	}
	return &matchingService{
		profiles: profiles,
		postings: postings,
		vectors:  vectors,
		cfg:      cfg,
		log:      logger.OrDiscard(log),
	}
}

type candidate struct {
	doc       canonical.Document
	updatedAt time.Time
}

func (s *matchingService) MatchPostingsForProfile(ctx context.Context, profileID string, filters models.MatchFilters, page models.PageRequest) (*models.MatchPage, error) {
	const op = "MatchingService.MatchPostingsForProfile"

	if profileID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "profile_id is required", nil)
	}
	pg, err := matching.ValidatePage(page.Limit, page.Offset, s.cfg.MaxLimit)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidFilter, op, err.Error(), err)
	}
	crit, err := matching.NewCriteria(filters.ExperienceLevel, filters.Locations)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidFilter, op, err.Error(), err)
	}

	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	if filters.UseProfileDefaults {
		crit = withProfileDefaults(crit, profile)
	}

	anchor, err := s.vectors.EnsureFresh(ctx, canonical.Profile(profile))
	if err != nil {
		return nil, utils.E(utils.CodeOf(err), op, "profile embedding unavailable", err)
	}

	pool, err := s.publishedPostings(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list postings", err)
	}
	eligible := matching.FilterPostings(pool, crit)

	cands := make([]candidate, 0, len(eligible))
	for i := range eligible {
		cands = append(cands, candidate{doc: canonical.Posting(&eligible[i]), updatedAt: eligible[i].UpdatedAt})
	}

	scored := s.score(ctx, anchor, cands)
	return &models.MatchPage{
		Kind:          models.KindPosting,
		Items:         matching.Rank(scored, pg),
		TotalEligible: len(eligible),
		Limit:         pg.Limit,
		Offset:        pg.Offset,
		AnchorStale:   anchor.Stale,
	}, nil
}

func (s *matchingService) MatchProfilesForPosting(ctx context.Context, postingID string, page models.PageRequest) (*models.MatchPage, error) {
	const op = "MatchingService.MatchProfilesForPosting"

	if postingID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "posting_id is required", nil)
	}
	pg, err := matching.ValidatePage(page.Limit, page.Offset, s.cfg.MaxLimit)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidFilter, op, err.Error(), err)
	}

	posting, err := s.postings.GetByID(ctx, postingID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "posting not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get posting", err)
	}

	anchor, err := s.vectors.EnsureFresh(ctx, canonical.Posting(posting))
	if err != nil {
		return nil, utils.E(utils.CodeOf(err), op, "posting embedding unavailable", err)
	}

	pool, err := s.publicProfiles(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list profiles", err)
	}
	eligible := matching.FilterProfiles(pool)

	cands := make([]candidate, 0, len(eligible))
	for i := range eligible {
		cands = append(cands, candidate{doc: canonical.Profile(&eligible[i]), updatedAt: eligible[i].UpdatedAt})
	}

	scored := s.score(ctx, anchor, cands)
	return &models.MatchPage{
		Kind:          models.KindProfile,
		Items:         matching.Rank(scored, pg),
		TotalEligible: len(eligible),
		Limit:         pg.Limit,
		Offset:        pg.Offset,
		AnchorStale:   anchor.Stale,
	}, nil
}

// score resolves every candidate vector in parallel, then scores against the anchor.
// Candidates without any usable vector get the minimum score and are flagged stale.
func (s *matchingService) score(ctx context.Context, anchor *vectorstore.Result, cands []candidate) []matching.Scored {
	if len(cands) == 0 {
		return nil
	}

	docs := make([]canonical.Document, len(cands))
	for i := range cands {
		docs[i] = cands[i].doc
	}
	resolved := s.vectors.EnsureFreshBatch(ctx, docs)

	out := make([]matching.Scored, len(cands))
	for i, c := range cands {
		sc := matching.Scored{ID: c.doc.ID, Score: matching.MinScore, UpdatedAt: c.updatedAt}
		r := resolved[i]
		if r.Err != nil {
			s.log.WithError(r.Err).WithFields(logrus.Fields{"owner_kind": c.doc.Kind, "owner_id": c.doc.ID}).Warn("candidate has no usable vector")
			sc.Stale = true
			out[i] = sc
			continue
		}

		sc.Stale = r.Result.Stale
		if v, ok := matching.Cosine(anchor.Vector, r.Result.Vector); ok {
			sc.Score = v
		} else {
			s.log.WithFields(logrus.Fields{
				"anchor_id":  anchor.ID,
				"owner_kind": c.doc.Kind,
				"owner_id":   c.doc.ID,
				"anchor_dim": len(anchor.Vector),
				"owner_dim":  len(r.Result.Vector),
			}).Warn("degenerate vector, assigning minimum score")
		}
		out[i] = sc
	}
	return out
}

func (s *matchingService) publishedPostings(ctx context.Context) ([]models.Posting, error) {
	var pool []models.Posting
	for len(pool) < s.cfg.MaxCandidates {
		n := min(candidatePageSize, s.cfg.MaxCandidates-len(pool))
		batch, err := s.postings.ListPublished(ctx, n, len(pool))
		if err != nil {
			return nil, err
		}
		pool = append(pool, batch...)
		if len(batch) < n {
			break
		}
	}
	return pool, nil
}

func (s *matchingService) publicProfiles(ctx context.Context) ([]models.Profile, error) {
	var pool []models.Profile
	for len(pool) < s.cfg.MaxCandidates {
		n := min(candidatePageSize, s.cfg.MaxCandidates-len(pool))
		batch, err := s.profiles.ListPublic(ctx, n, len(pool))
		if err != nil {
			return nil, err
		}
		pool = append(pool, batch...)
		if len(batch) < n {
			break
		}
	}
	return pool, nil
}

// withProfileDefaults fills absent dimensions from what the profile declares about itself.
// A stored level that no longer parses is ignored.
func withProfileDefaults(c matching.Criteria, p *models.Profile) matching.Criteria {
	if c.Level == 0 && p.ExperienceLevel != "" {
		if l, err := matching.ParseLevel(p.ExperienceLevel); err == nil {
			c.Level = l
		}
	}
	if len(c.Locations) == 0 && len(p.PreferredLocations) > 0 {
		d, _ := matching.NewCriteria(nil, p.PreferredLocations)
		c.Locations = d.Locations
	}
	return c
}

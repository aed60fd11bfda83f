package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/logger"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/matching"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	pgrepo "github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/repositories/postgres"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/search"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
)

type SearchResult struct {
	Kind  models.EntityKind `json:"kind"`
	Items []search.Hit      `json:"items"`
	Total uint64            `json:"total"`
	Limit int               `json:"limit"`
}

type SearchService interface {
	SearchPostings(ctx context.Context, q string, limit int) (*SearchResult, error)
	SearchProfiles(ctx context.Context, q string, limit int) (*SearchResult, error)
	// Rebuild loads every published posting and public profile into the indexes.
	Rebuild(ctx context.Context) error
}

type searchService struct {
	profiles     pgrepo.ProfileRepository
	postings     pgrepo.PostingRepository
	profileIndex *search.Index
	postingIndex *search.Index
	maxLimit     int
	log          *logrus.Logger
}

func NewSearchService(profiles pgrepo.ProfileRepository, postings pgrepo.PostingRepository, profileIndex, postingIndex *search.Index, maxLimit int, log *logrus.Logger) SearchService {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &searchService{
		profiles:     profiles,
		postings:     postings,
		profileIndex: profileIndex,
		postingIndex: postingIndex,
		maxLimit:     maxLimit,
		log:          logger.OrDiscard(log),
	}
}

func (s *searchService) SearchPostings(ctx context.Context, q string, limit int) (*SearchResult, error) {
	return s.run(ctx, "SearchService.SearchPostings", s.postingIndex, q, limit)
}

func (s *searchService) SearchProfiles(ctx context.Context, q string, limit int) (*SearchResult, error) {
	return s.run(ctx, "SearchService.SearchProfiles", s.profileIndex, q, limit)
}

func (s *searchService) run(ctx context.Context, op string, idx *search.Index, q string, limit int) (*SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "q is required", nil)
	}
	pg, err := matching.ValidatePage(limit, 0, s.maxLimit)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidFilter, op, err.Error(), err)
	}

	hits, total, err := idx.Search(ctx, q, pg.Limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "search failed", err)
	}
	return &SearchResult{Kind: idx.Kind(), Items: hits, Total: total, Limit: pg.Limit}, nil
}

func (s *searchService) Rebuild(ctx context.Context) error {
	const op = "SearchService.Rebuild"

	var profiles, postings int
	for offset := 0; ; offset += candidatePageSize {
		batch, err := s.profiles.ListPublic(ctx, candidatePageSize, offset)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to list profiles", err)
		}
		for i := range batch {
			if err := s.profileIndex.PutProfile(&batch[i]); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to index profile", err)
			}
		}
		profiles += len(batch)
		if len(batch) < candidatePageSize {
			break
		}
	}

	for offset := 0; ; offset += candidatePageSize {
		batch, err := s.postings.ListPublished(ctx, candidatePageSize, offset)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to list postings", err)
		}
		for i := range batch {
			if err := s.postingIndex.PutPosting(&batch[i]); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to index posting", err)
			}
		}
		postings += len(batch)
		if len(batch) < candidatePageSize {
			break
		}
	}

	s.log.WithFields(logrus.Fields{"profiles": profiles, "postings": postings}).Info("search index rebuilt")
	return nil
}

package services

import (
	"context"
	"errors"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/canonical"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	pgrepo "github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/repositories/postgres"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/vectorstore"
)

// RefreshService brings the stored vector of one entity in line with its current content.
type RefreshService interface {
	Refresh(ctx context.Context, kind models.EntityKind, id string) (*vectorstore.Result, error)
}

type refreshService struct {
	profiles pgrepo.ProfileRepository
	postings pgrepo.PostingRepository
	vectors  VectorStore
}

func NewRefreshService(profiles pgrepo.ProfileRepository, postings pgrepo.PostingRepository, vectors VectorStore) RefreshService {
	return &refreshService{profiles: profiles, postings: postings, vectors: vectors}
}

func (s *refreshService) Refresh(ctx context.Context, kind models.EntityKind, id string) (*vectorstore.Result, error) {
	const op = "RefreshService.Refresh"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner_id is required", nil)
	}

	var doc canonical.Document
	switch kind {
	case models.KindProfile:
		p, err := s.profiles.GetByID(ctx, id)
		if err != nil {
			return nil, lookupErr(op, "profile", err)
		}
		doc = canonical.Profile(p)
	case models.KindPosting:
		j, err := s.postings.GetByID(ctx, id)
		if err != nil {
			return nil, lookupErr(op, "posting", err)
		}
		doc = canonical.Posting(j)
	default:
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner_kind must be profile or posting", nil)
	}

	res, err := s.vectors.EnsureFresh(ctx, doc)
	if err != nil {
		return nil, utils.E(utils.CodeOf(err), op, "refresh failed", err)
	}
	return res, nil
}

func lookupErr(op, what string, err error) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, what+" not found", err)
	}
	return utils.E(utils.CodeInternal, op, "failed to get "+what, err)
}

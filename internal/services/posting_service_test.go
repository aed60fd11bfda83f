package services

import (
	"context"
	"testing"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
)

func TestPostingUpsert(t *testing.T) {
	repo := newMemPostingRepo()
	queue := &fakeQueue{}
	index := newFakeIndexer()
	svc := NewPostingService(repo, queue, index, nil, nil)

	j, err := svc.Upsert(context.Background(), ownerA, &models.Posting{Title: "Go Engineer", MinExperience: "Junior", MaxExperience: "SENIOR"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.Status != models.PostingDraft || j.OrganizationID != ownerA {
		t.Fatalf("expected draft posting owned by org, got %+v", j)
	}
	if j.MinExperience != "junior" || j.MaxExperience != "senior" {
		t.Fatalf("expected normalized bounds, got %q..%q", j.MinExperience, j.MaxExperience)
	}
	if j.ContentHash == "" || len(queue.items) != 1 {
		t.Fatalf("expected hash and refresh trigger, got %q %v", j.ContentHash, queue.items)
	}

	if _, err := svc.Get(context.Background(), ownerB, j.ID); !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("draft must be hidden from other orgs, got %v", err)
	}

	if _, err := svc.SetStatus(context.Background(), ownerA, j.ID, models.PostingPublished); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index.postings[j.ID] != models.PostingPublished {
		t.Fatalf("index not updated on status change")
	}
	if _, err := svc.Get(context.Background(), ownerB, j.ID); err != nil {
		t.Fatalf("published posting must be visible: %v", err)
	}

	// status is kept when an update omits it
	update := *j
	update.Status = ""
	update.Description = "Distributed systems"
	got, err := svc.Upsert(context.Background(), ownerA, &update)
	if err != nil || got.Status != models.PostingPublished {
		t.Fatalf("expected status to be preserved, got %+v / %v", got, err)
	}
}

func TestPostingValidation(t *testing.T) {
	repo := newMemPostingRepo()
	svc := NewPostingService(repo, nil, nil, nil, nil)

	existing := &models.Posting{ID: "33333333-3333-3333-3333-333333333333", OrganizationID: ownerA, Title: "Go"}
	_ = repo.Upsert(context.Background(), existing)

	tests := []struct {
		name string
		org  string
		j    *models.Posting
		code utils.Code
	}{
		{name: "missing org", org: "", j: &models.Posting{}, code: utils.CodeInvalidArgument},
		{name: "bad bound", org: ownerA, j: &models.Posting{MinExperience: "guru"}, code: utils.CodeInvalidArgument},
		{name: "inverted range", org: ownerA, j: &models.Posting{MinExperience: "lead", MaxExperience: "junior"}, code: utils.CodeInvalidArgument},
		{name: "bad status", org: ownerA, j: &models.Posting{Status: "archived"}, code: utils.CodeInvalidArgument},
		{name: "other org", org: ownerB, j: &models.Posting{ID: existing.ID}, code: utils.CodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(context.Background(), tt.org, tt.j)
			if !utils.IsCode(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}

	if _, err := svc.SetStatus(context.Background(), ownerA, existing.ID, "archived"); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
	if err := svc.RequestRefresh(context.Background(), ownerA, existing.ID); !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("expected UNAVAILABLE without a queue, got %v", err)
	}
}

func TestPostingClosingInvalidatesVector(t *testing.T) {
	vectors := &fakeInvalidator{}
	svc := NewPostingService(newMemPostingRepo(), &fakeQueue{}, nil, vectors, nil)

	j, err := svc.Upsert(context.Background(), ownerA, &models.Posting{Title: "Go Engineer", Status: models.PostingPublished})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.SetStatus(context.Background(), ownerA, j.ID, models.PostingPublished); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors.keys) != 0 {
		t.Fatalf("published posting must keep its cached vector, got %v", vectors.keys)
	}

	if _, err := svc.SetStatus(context.Background(), ownerA, j.ID, models.PostingClosed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors.keys) != 1 || vectors.keys[0] != "posting:"+j.ID {
		t.Fatalf("expected cached vector to be dropped, got %v", vectors.keys)
	}
}

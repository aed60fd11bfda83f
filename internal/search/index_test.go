package search

import (
	"context"
	"testing"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
)

func TestPostingIndex(t *testing.T) {
	idx, err := NewIndex(models.KindPosting)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	defer idx.Close()

	postings := []models.Posting{
		{ID: "go", Title: "Backend Engineer", Description: "Build services in Go and PostgreSQL", Status: models.PostingPublished},
		{ID: "fe", Title: "Frontend Engineer", Description: "React and TypeScript", Status: models.PostingPublished},
		{ID: "draft", Title: "Go Platform Engineer", Description: "Go everywhere", Status: models.PostingDraft},
	}
	for i := range postings {
		if err := idx.PutPosting(&postings[i]); err != nil {
			t.Fatalf("index %s: %v", postings[i].ID, err)
		}
	}

	n, err := idx.Count()
	if err != nil || n != 2 {
		t.Fatalf("expected 2 indexed postings, got %d (%v)", n, err)
	}

	hits, total, err := idx.Search(context.Background(), "postgresql", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(hits) != 1 || hits[0].ID != "go" {
		t.Fatalf("unexpected hits: %+v (total %d)", hits, total)
	}

	postings[0].Status = models.PostingClosed
	if err := idx.PutPosting(&postings[0]); err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if _, total, _ := idx.Search(context.Background(), "postgresql", 10); total != 0 {
		t.Fatalf("closed posting should leave the index")
	}
}

func TestProfileIndexRespectsVisibility(t *testing.T) {
	idx, err := NewIndex(models.KindProfile)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	defer idx.Close()

	public := models.Profile{ID: "pub", Name: "Ada", Skills: []string{"kubernetes"}, Visibility: models.VisibilityPublic}
	private := models.Profile{ID: "priv", Name: "Bob", Skills: []string{"kubernetes"}, Visibility: models.VisibilityPrivate}
	for _, p := range []*models.Profile{&public, &private} {
		if err := idx.PutProfile(p); err != nil {
			t.Fatalf("index: %v", err)
		}
	}

	hits, _, err := idx.Search(context.Background(), "kubernetes", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "pub" {
		t.Fatalf("expected only the public profile, got %+v", hits)
	}
}

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
)

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{id: uuid.NewString(), want: true},
		{id: "abc", want: false},
		{id: "", want: false},
		{id: "1; DROP TABLE profiles", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := validID(tt.id); got != tt.want {
				t.Fatalf("validID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

// Malformed ids are answered without touching the database, so a nil *gorm.DB is enough here.
func TestMalformedIDIsNotFound(t *testing.T) {
	ctx := context.Background()

	if _, err := NewProfileRepo(nil).GetByID(ctx, "abc"); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("profile GetByID: expected ErrNotFound, got %v", err)
	}
	if err := NewProfileRepo(nil).SetVisibility(ctx, "abc", models.VisibilityPublic); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("profile SetVisibility: expected ErrNotFound, got %v", err)
	}
	if _, err := NewPostingRepo(nil).GetByID(ctx, "abc"); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("posting GetByID: expected ErrNotFound, got %v", err)
	}
	if err := NewPostingRepo(nil).SetStatus(ctx, "abc", models.PostingClosed); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("posting SetStatus: expected ErrNotFound, got %v", err)
	}
	if _, err := NewEmbeddingRepo(nil).Get(ctx, models.KindProfile, "abc"); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("embedding Get: expected ErrNotFound, got %v", err)
	}
}

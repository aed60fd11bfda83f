package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
)

func init() { gin.SetMode(gin.TestMode) }

type stubMatching struct {
	gotFilters models.MatchFilters
	gotPage    models.PageRequest
	page       *models.MatchPage
	err        error
}

func (s *stubMatching) MatchPostingsForProfile(_ context.Context, _ string, f models.MatchFilters, p models.PageRequest) (*models.MatchPage, error) {
	s.gotFilters, s.gotPage = f, p
	return s.page, s.err
}

func (s *stubMatching) MatchProfilesForPosting(_ context.Context, _ string, p models.PageRequest) (*models.MatchPage, error) {
	s.gotPage = p
	return s.page, s.err
}

type stubProfiles struct{ getErr error }

func (s *stubProfiles) Get(_ context.Context, _, id string) (*models.Profile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.Profile{ID: id}, nil
}

func (s *stubProfiles) Upsert(_ context.Context, owner string, p *models.Profile) (*models.Profile, error) {
	p.OwnerID = owner
	return p, nil
}

func (s *stubProfiles) SetVisibility(_ context.Context, _, id string, v models.Visibility) (*models.Profile, error) {
	return &models.Profile{ID: id, Visibility: v}, nil
}

func (s *stubProfiles) RequestRefresh(context.Context, string, string) error { return nil }

type stubPostings struct{ getErr error }

func (s *stubPostings) Get(_ context.Context, _, id string) (*models.Posting, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.Posting{ID: id}, nil
}

func (s *stubPostings) Upsert(_ context.Context, org string, j *models.Posting) (*models.Posting, error) {
	j.OrganizationID = org
	return j, nil
}

func (s *stubPostings) SetStatus(_ context.Context, _, id string, st models.PostingStatus) (*models.Posting, error) {
	return &models.Posting{ID: id, Status: st}, nil
}

func (s *stubPostings) RequestRefresh(context.Context, string, string) error { return nil }

func newRouter(h *MatchHandler, userID string) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	r.GET("/match/profiles/:profile_id/postings", h.PostingsForProfile)
	r.GET("/match/postings/:posting_id/profiles", h.ProfilesForPosting)
	return r
}

func do(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestPostingsForProfileParsesQuery(t *testing.T) {
	m := &stubMatching{page: &models.MatchPage{
		Kind:          models.KindPosting,
		Items:         []models.MatchResult{{EntityID: "Y", Rank: 1, Score: 1}, {EntityID: "Z", Rank: 2, Score: 0, Stale: true}},
		TotalEligible: 2,
		Limit:         5,
		Offset:        0,
	}}
	r := newRouter(NewMatchHandler(m, &stubProfiles{}, &stubPostings{}, 20), "u1")

	w := do(r, "/match/profiles/X/postings?experience_level=junior&locations=Seoul,%20Busan&locations=remote&use_profile_defaults=true&limit=5")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if m.gotFilters.ExperienceLevel == nil || *m.gotFilters.ExperienceLevel != "junior" {
		t.Fatalf("experience_level not forwarded: %+v", m.gotFilters)
	}
	if got := m.gotFilters.Locations; len(got) != 3 || got[0] != "Seoul" || got[1] != "Busan" || got[2] != "remote" {
		t.Fatalf("unexpected locations: %v", got)
	}
	if !m.gotFilters.UseProfileDefaults || m.gotPage.Limit != 5 || m.gotPage.Offset != 0 {
		t.Fatalf("unexpected filters/page: %+v %+v", m.gotFilters, m.gotPage)
	}

	var resp MatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0].PostingID != "Y" || resp.Items[1].ProfileID != "" || !resp.Items[1].Stale {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.TotalEligible != 2 {
		t.Fatalf("unexpected total: %d", resp.TotalEligible)
	}
}

func TestPostingsForProfileDefaults(t *testing.T) {
	m := &stubMatching{page: &models.MatchPage{Kind: models.KindPosting, Items: []models.MatchResult{}}}
	r := newRouter(NewMatchHandler(m, &stubProfiles{}, &stubPostings{}, 20), "u1")

	w := do(r, "/match/profiles/X/postings")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if m.gotFilters.ExperienceLevel != nil || len(m.gotFilters.Locations) != 0 {
		t.Fatalf("absent filters must stay absent: %+v", m.gotFilters)
	}
	if m.gotPage.Limit != 20 {
		t.Fatalf("expected default limit 20, got %d", m.gotPage.Limit)
	}
	var resp MatchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Items == nil {
		t.Fatalf("items must serialize as an empty list")
	}
}

func TestMatchHandlerErrors(t *testing.T) {
	tests := []struct {
		name     string
		matching *stubMatching
		profiles *stubProfiles
		postings *stubPostings
		user     string
		target   string
		want     int
		code     utils.Code
	}{
		{
			name:     "unauthenticated",
			matching: &stubMatching{},
			target:   "/match/profiles/X/postings",
			want:     http.StatusUnauthorized,
			code:     utils.CodeUnauthorized,
		},
		{
			name:     "non numeric limit",
			matching: &stubMatching{},
			user:     "u1",
			target:   "/match/profiles/X/postings?limit=ten",
			want:     http.StatusBadRequest,
			code:     utils.CodeInvalidFilter,
		},
		{
			name:     "bad boolean",
			matching: &stubMatching{},
			user:     "u1",
			target:   "/match/profiles/X/postings?use_profile_defaults=maybe",
			want:     http.StatusBadRequest,
			code:     utils.CodeInvalidFilter,
		},
		{
			name:     "invalid filter from service",
			matching: &stubMatching{err: utils.E(utils.CodeInvalidFilter, "op", "limit must be > 0", nil)},
			user:     "u1",
			target:   "/match/profiles/X/postings?limit=0",
			want:     http.StatusBadRequest,
			code:     utils.CodeInvalidFilter,
		},
		{
			name:     "hidden profile",
			matching: &stubMatching{},
			profiles: &stubProfiles{getErr: utils.E(utils.CodeNotFound, "op", "profile not found", utils.ErrNotFound)},
			user:     "u1",
			target:   "/match/profiles/X/postings",
			want:     http.StatusNotFound,
			code:     utils.CodeNotFound,
		},
		{
			name:     "embedding unavailable",
			matching: &stubMatching{err: utils.E(utils.CodeEmbeddingUnavailable, "op", "posting embedding unavailable", nil)},
			user:     "c1",
			target:   "/match/postings/J/profiles",
			want:     http.StatusServiceUnavailable,
			code:     utils.CodeEmbeddingUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles, postings := tt.profiles, tt.postings
			if profiles == nil {
				profiles = &stubProfiles{}
			}
			if postings == nil {
				postings = &stubPostings{}
			}
			r := newRouter(NewMatchHandler(tt.matching, profiles, postings, 20), tt.user)

			w := do(r, tt.target)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			var apiErr APIError
			if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if apiErr.Code != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, apiErr.Code)
			}
		})
	}
}

func TestProfilesForPostingUsesProfileIDs(t *testing.T) {
	m := &stubMatching{page: &models.MatchPage{
		Kind:          models.KindProfile,
		Items:         []models.MatchResult{{EntityID: "P", Rank: 1, Score: 0.5}},
		TotalEligible: 1,
		Limit:         20,
		Offset:        3,
	}}
	r := newRouter(NewMatchHandler(m, &stubProfiles{}, &stubPostings{}, 20), "c1")

	w := do(r, "/match/postings/J/profiles?offset=3")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if m.gotPage.Offset != 3 {
		t.Fatalf("offset not forwarded: %+v", m.gotPage)
	}
	var resp MatchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Items) != 1 || resp.Items[0].ProfileID != "P" || resp.Items[0].PostingID != "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

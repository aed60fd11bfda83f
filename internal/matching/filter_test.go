package matching

import (
	"errors"
	"testing"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
)

func strPtr(s string) *string { return &s }

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]Level{"entry": LevelEntry, " Senior ": LevelSenior, "LEAD": LevelLead, "": 0} {
		got, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q): unexpected error %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q): expected %v, got %v", name, want, got)
		}
	}

	if _, err := ParseLevel("3 years"); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
	if LevelMid.String() != "mid" || Level(0).String() != "" {
		t.Fatalf("unexpected level names")
	}
	if !(LevelEntry < LevelJunior && LevelJunior < LevelMid && LevelMid < LevelSenior && LevelSenior < LevelLead) {
		t.Fatalf("levels are not totally ordered")
	}
}

func TestNewCriteriaRejectsMalformedLevel(t *testing.T) {
	if _, err := NewCriteria(strPtr("guru"), nil); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}

	c, err := NewCriteria(nil, []string{" Seoul ", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Level != 0 || len(c.Locations) != 1 || c.Locations[0] != "seoul" {
		t.Fatalf("unexpected criteria: %+v", c)
	}
}

func TestExperienceLevelScenario(t *testing.T) {
	a := models.Posting{ID: "A", Status: models.PostingPublished}
	b := models.Posting{ID: "B", Status: models.PostingPublished, MinExperience: "senior", MaxExperience: "senior"}

	c, err := NewCriteria(strPtr("junior"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := FilterPostings([]models.Posting{a, b}, c)
	if len(got) != 1 || got[0].ID != "A" {
		t.Fatalf("expected only A, got %+v", got)
	}
}

func TestPostingEligible(t *testing.T) {
	t.Parallel()

	published := func(mut func(*models.Posting)) *models.Posting {
		j := &models.Posting{ID: "j", Status: models.PostingPublished}
		if mut != nil {
			mut(j)
		}
		return j
	}

	tests := []struct {
		name string
		j    *models.Posting
		c    Criteria
		want bool
	}{
		{name: "no filters", j: published(nil), want: true},
		{name: "draft excluded", j: published(func(j *models.Posting) { j.Status = models.PostingDraft }), want: false},
		{name: "closed excluded", j: published(func(j *models.Posting) { j.Status = models.PostingClosed }), want: false},
		{name: "level inside range", j: published(func(j *models.Posting) { j.MinExperience, j.MaxExperience = "junior", "senior" }), c: Criteria{Level: LevelMid}, want: true},
		{name: "level below min", j: published(func(j *models.Posting) { j.MinExperience = "mid" }), c: Criteria{Level: LevelJunior}, want: false},
		{name: "open upper bound", j: published(func(j *models.Posting) { j.MinExperience = "mid" }), c: Criteria{Level: LevelLead}, want: true},
		{name: "level above max", j: published(func(j *models.Posting) { j.MaxExperience = "junior" }), c: Criteria{Level: LevelSenior}, want: false},
		{name: "requirement without query level", j: published(func(j *models.Posting) { j.MinExperience = "lead" }), want: true},
		{name: "locations intersect", j: published(func(j *models.Posting) { j.Location = "Seoul" }), c: Criteria{Locations: []string{"busan", "seoul"}}, want: true},
		{name: "locations disjoint", j: published(func(j *models.Posting) { j.Location = "Seoul" }), c: Criteria{Locations: []string{"busan"}}, want: false},
		{name: "posting without location", j: published(nil), c: Criteria{Locations: []string{"busan"}}, want: true},
		{name: "both filters must pass", j: published(func(j *models.Posting) { j.Location, j.MinExperience = "Seoul", "senior" }), c: Criteria{Level: LevelJunior, Locations: []string{"seoul"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PostingEligible(tt.j, tt.c); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilterProfilesKeepsOnlyPublic(t *testing.T) {
	public := models.Profile{ID: "pub", Skills: []string{"Go"}, Visibility: models.VisibilityPublic}
	private := public
	private.ID = "priv"
	private.Visibility = models.VisibilityPrivate

	got := FilterProfiles([]models.Profile{public, private})
	if len(got) != 1 || got[0].ID != "pub" {
		t.Fatalf("expected only the public profile, got %+v", got)
	}
}

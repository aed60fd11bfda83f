package matching

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
)

// Level is an experience bucket. The zero value means "not declared".
type Level int

const (
	LevelEntry Level = iota + 1
	LevelJunior
	LevelMid
	LevelSenior
	LevelLead
)

var levelNames = map[string]Level{
	"entry":  LevelEntry,
	"junior": LevelJunior,
	"mid":    LevelMid,
	"senior": LevelSenior,
	"lead":   LevelLead,
}

var ErrInvalidLevel = errors.New("invalid experience level")

var levelOrder = [...]string{"", "entry", "junior", "mid", "senior", "lead"}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelOrder) {
		return ""
	}
	return levelOrder[l]
}

// ParseLevel accepts a bucket name case-insensitively. An empty string parses to the
// zero Level with no error.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	l, ok := levelNames[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q (expected entry|junior|mid|senior|lead)", ErrInvalidLevel, s)
	}
	return l, nil
}

// Criteria are the optional hard constraints of a profile->postings query.
// A zero Level or empty Locations accepts everything for that dimension.
type Criteria struct {
	Level     Level
	Locations []string
}

// NewCriteria validates the raw filter values.
func NewCriteria(level *string, locations []string) (Criteria, error) {
	var c Criteria
	if level != nil {
		l, err := ParseLevel(*level)
		if err != nil {
			return Criteria{}, err
		}
		c.Level = l
	}
	c.Locations = normalizeLocations(locations)
	return c, nil
}

// ProfileEligible reports whether p may appear as a match target.
func ProfileEligible(p *models.Profile) bool {
	return p != nil && p.Visibility == models.VisibilityPublic
}

// PostingEligible applies status, experience and location constraints, all conjunctive.
func PostingEligible(j *models.Posting, c Criteria) bool {
	if j == nil || j.Status != models.PostingPublished {
		return false
	}
	return levelAccepted(j, c.Level) && locationsOverlap(c.Locations, postingLocations(j))
}

func FilterPostings(in []models.Posting, c Criteria) []models.Posting {
	out := make([]models.Posting, 0, len(in))
	for i := range in {
		if PostingEligible(&in[i], c) {
			out = append(out, in[i])
		}
	}
	return out
}

func FilterProfiles(in []models.Profile) []models.Profile {
	out := make([]models.Profile, 0, len(in))
	for i := range in {
		if ProfileEligible(&in[i]) {
			out = append(out, in[i])
		}
	}
	return out
}

// levelAccepted: no query level or no posting requirement accepts; otherwise the query
// bucket must fall in [min, max], a missing bound being open. Unparseable stored bounds
// are treated as missing.
func levelAccepted(j *models.Posting, q Level) bool {
	if q == 0 {
		return true
	}
	lo, _ := ParseLevel(j.MinExperience)
	hi, _ := ParseLevel(j.MaxExperience)
	if lo == 0 && hi == 0 {
		return true
	}
	if lo != 0 && q < lo {
		return false
	}
	if hi != 0 && q > hi {
		return false
	}
	return true
}

func postingLocations(j *models.Posting) []string {
	return normalizeLocations([]string{j.Location})
}

// locationsOverlap: either side empty means unconstrained.
func locationsOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

func normalizeLocations(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

package matching

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
)

var ErrInvalidPage = errors.New("invalid pagination")

// Scored is a candidate after similarity scoring.
type Scored struct {
	ID        string
	Score     float64
	UpdatedAt time.Time
	Stale     bool
}

type Page struct {
	Limit  int
	Offset int
}

// ValidatePage rejects non-positive limits and negative offsets, and caps the limit at max.
func ValidatePage(limit, offset, max int) (Page, error) {
	if limit <= 0 {
		return Page{}, fmt.Errorf("%w: limit must be > 0, got %d", ErrInvalidPage, limit)
	}
	if offset < 0 {
		return Page{}, fmt.Errorf("%w: offset must be >= 0, got %d", ErrInvalidPage, offset)
	}
	if max > 0 && limit > max {
		limit = max
	}
	return Page{Limit: limit, Offset: offset}, nil
}

// Less is the total order: score desc, updated_at desc, id asc.
func Less(a, b Scored) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID < b.ID
}

// Rank orders all candidates and returns the requested page. Ranks are 1-based
// positions in the full ordering. The input slice is sorted in place.
func Rank(cands []Scored, p Page) []models.MatchResult {
	sort.SliceStable(cands, func(i, j int) bool { return Less(cands[i], cands[j]) })

	if p.Offset >= len(cands) {
		return []models.MatchResult{}
	}
	end := len(cands)
	if p.Limit > 0 && p.Offset+p.Limit < end {
		end = p.Offset + p.Limit
	}

	out := make([]models.MatchResult, 0, end-p.Offset)
	for i := p.Offset; i < end; i++ {
		c := cands[i]
		out = append(out, models.MatchResult{
			EntityID:  c.ID,
			Rank:      i + 1,
			Score:     c.Score,
			Stale:     c.Stale,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return out
}

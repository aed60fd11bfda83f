package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/services"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
)

type MatchHandler struct {
	matches      services.MatchingService
	profiles     services.ProfileService
	postings     services.PostingService
	defaultLimit int
}

func NewMatchHandler(matches services.MatchingService, profiles services.ProfileService, postings services.PostingService, defaultLimit int) *MatchHandler {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &MatchHandler{matches: matches, profiles: profiles, postings: postings, defaultLimit: defaultLimit}
}

type MatchItem struct {
	PostingID string  `json:"posting_id,omitempty"`
	ProfileID string  `json:"profile_id,omitempty"`
	Rank      int     `json:"rank"`
	Score     float64 `json:"score"`
	Stale     bool    `json:"stale"`
}

type MatchResponse struct {
	Items         []MatchItem `json:"items"`
	TotalEligible int         `json:"total_eligible"`
	Limit         int         `json:"limit"`
	Offset        int         `json:"offset"`
	AnchorStale   bool        `json:"anchor_stale"`
}

// PostingsForProfile ranks published postings for a profile the caller can see.
func (h *MatchHandler) PostingsForProfile(c *gin.Context) {
	const op = "MatchHandler.PostingsForProfile"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	page, ok := h.page(c, op)
	if !ok {
		return
	}

	var filters models.MatchFilters
	if lvl, present := c.GetQuery("experience_level"); present {
		filters.ExperienceLevel = &lvl
	}
	filters.Locations = queryList(c, "locations")
	if raw := strings.TrimSpace(c.Query("use_profile_defaults")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidFilter, op, "use_profile_defaults must be a boolean", err))
			return
		}
		filters.UseProfileDefaults = b
	}

	profileID := c.Param("profile_id")
	if _, err := h.profiles.Get(c.Request.Context(), userID, profileID); err != nil {
		writeError(c, err)
		return
	}

	res, err := h.matches.MatchPostingsForProfile(c.Request.Context(), profileID, filters, page)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Set("match_total", res.TotalEligible)
	c.JSON(http.StatusOK, toMatchResponse(res))
}

// ProfilesForPosting ranks public profiles for a posting the caller can see.
func (h *MatchHandler) ProfilesForPosting(c *gin.Context) {
	const op = "MatchHandler.ProfilesForPosting"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	page, ok := h.page(c, op)
	if !ok {
		return
	}

	postingID := c.Param("posting_id")
	if _, err := h.postings.Get(c.Request.Context(), userID, postingID); err != nil {
		writeError(c, err)
		return
	}

	res, err := h.matches.MatchProfilesForPosting(c.Request.Context(), postingID, page)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Set("match_total", res.TotalEligible)
	c.JSON(http.StatusOK, toMatchResponse(res))
}

func (h *MatchHandler) page(c *gin.Context, op string) (models.PageRequest, bool) {
	limit, ok := queryInt(c, op, "limit", h.defaultLimit)
	if !ok {
		return models.PageRequest{}, false
	}
	offset, ok := queryInt(c, op, "offset", 0)
	if !ok {
		return models.PageRequest{}, false
	}
	return models.PageRequest{Limit: limit, Offset: offset}, true
}

func toMatchResponse(p *models.MatchPage) MatchResponse {
	items := make([]MatchItem, 0, len(p.Items))
	for _, it := range p.Items {
		item := MatchItem{Rank: it.Rank, Score: it.Score, Stale: it.Stale}
		if p.Kind == models.KindPosting {
			item.PostingID = it.EntityID
		} else {
			item.ProfileID = it.EntityID
		}
		items = append(items, item)
	}
	return MatchResponse{
		Items:         items,
		TotalEligible: p.TotalEligible,
		Limit:         p.Limit,
		Offset:        p.Offset,
		AnchorStale:   p.AnchorStale,
	}
}

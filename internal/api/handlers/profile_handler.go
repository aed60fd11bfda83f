package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/services"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), userID, c.Param("profile_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty"`
	Summary *string `json:"summary,omitempty"`

	Skills      *[]string            `json:"skills,omitempty"`
	Experiences *[]models.Experience `json:"experiences,omitempty"`
	Projects    *[]models.Project    `json:"projects,omitempty"`
	Keywords    *[]string            `json:"keywords,omitempty"`

	ExperienceLevel    *string            `json:"experience_level,omitempty"`
	PreferredLocations *[]string          `json:"preferred_locations,omitempty"`
	Visibility         *models.Visibility `json:"visibility,omitempty"`
}

func (h *ProfileHandler) Put(c *gin.Context) {
	const op = "ProfileHandler.Put"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	id := c.Param("profile_id")

	// Load existing (if not found => create new)
	existing, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		if !utils.IsCode(err, utils.CodeNotFound) {
			writeError(c, err)
			return
		}
		existing = &models.Profile{ID: id}
	}

	// Apply partial updates
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Summary != nil {
		existing.Summary = *req.Summary
	}
	if req.Skills != nil {
		existing.Skills = *req.Skills
	}
	if req.Experiences != nil {
		existing.Experiences = datatypes.JSONSlice[models.Experience](*req.Experiences)
	}
	if req.Projects != nil {
		existing.Projects = datatypes.JSONSlice[models.Project](*req.Projects)
	}
	if req.Keywords != nil {
		existing.Keywords = *req.Keywords
	}
	if req.ExperienceLevel != nil {
		existing.ExperienceLevel = *req.ExperienceLevel
	}
	if req.PreferredLocations != nil {
		existing.PreferredLocations = *req.PreferredLocations
	}
	if req.Visibility != nil {
		existing.Visibility = *req.Visibility
	}

	saved, err := h.svc.Upsert(c.Request.Context(), userID, existing)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, saved)
}

type VisibilityRequest struct {
	Visibility models.Visibility `json:"visibility" binding:"required"`
}

func (h *ProfileHandler) SetVisibility(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.SetVisibility", "invalid request body", err))
		return
	}

	p, err := h.svc.SetVisibility(c.Request.Context(), userID, c.Param("profile_id"), req.Visibility)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) RefreshEmbedding(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id := c.Param("profile_id")
	if err := h.svc.RequestRefresh(c.Request.Context(), userID, id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, RefreshResponse{
		Status:        "queued",
		StatusChannel: services.RefreshStatusChannel(models.KindProfile, id),
	})
}

type RefreshResponse struct {
	Status        string `json:"status"`
	StatusChannel string `json:"status_channel"`
}

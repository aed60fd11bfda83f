package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/services"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
)

type PostingHandler struct {
	svc services.PostingService
}

func NewPostingHandler(svc services.PostingService) *PostingHandler {
	return &PostingHandler{svc: svc}
}

func (h *PostingHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	j, err := h.svc.Get(c.Request.Context(), userID, c.Param("posting_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, j)
}

type UpdatePostingRequest struct {
	Title       *string `json:"title,omitempty"`
	Company     *string `json:"company,omitempty"`
	Description *string `json:"description,omitempty"`

	Requirements *[]string `json:"requirements,omitempty"`
	Preferred    *[]string `json:"preferred,omitempty"`
	Location     *string   `json:"location,omitempty"`
	Salary       *string   `json:"salary,omitempty"`

	MinExperience *string               `json:"min_experience,omitempty"`
	MaxExperience *string               `json:"max_experience,omitempty"`
	Status        *models.PostingStatus `json:"status,omitempty"`
}

func (h *PostingHandler) Put(c *gin.Context) {
	const op = "PostingHandler.Put"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdatePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	id := c.Param("posting_id")

	existing, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		if !utils.IsCode(err, utils.CodeNotFound) {
			writeError(c, err)
			return
		}
		existing = &models.Posting{ID: id}
	}

	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Company != nil {
		existing.Company = *req.Company
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Requirements != nil {
		existing.Requirements = *req.Requirements
	}
	if req.Preferred != nil {
		existing.Preferred = *req.Preferred
	}
	if req.Location != nil {
		existing.Location = *req.Location
	}
	if req.Salary != nil {
		existing.Salary = *req.Salary
	}
	if req.MinExperience != nil {
		existing.MinExperience = *req.MinExperience
	}
	if req.MaxExperience != nil {
		existing.MaxExperience = *req.MaxExperience
	}
	if req.Status != nil {
		existing.Status = *req.Status
	}

	saved, err := h.svc.Upsert(c.Request.Context(), userID, existing)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, saved)
}

type StatusRequest struct {
	Status models.PostingStatus `json:"status" binding:"required"`
}

func (h *PostingHandler) SetStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PostingHandler.SetStatus", "invalid request body", err))
		return
	}

	j, err := h.svc.SetStatus(c.Request.Context(), userID, c.Param("posting_id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, j)
}

func (h *PostingHandler) RefreshEmbedding(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id := c.Param("posting_id")
	if err := h.svc.RequestRefresh(c.Request.Context(), userID, id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, RefreshResponse{
		Status:        "queued",
		StatusChannel: services.RefreshStatusChannel(models.KindPosting, id),
	})
}

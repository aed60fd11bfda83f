package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/services"
)

type SearchHandler struct {
	svc          services.SearchService
	defaultLimit int
}

func NewSearchHandler(svc services.SearchService, defaultLimit int) *SearchHandler {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &SearchHandler{svc: svc, defaultLimit: defaultLimit}
}

func (h *SearchHandler) Postings(c *gin.Context) {
	limit, ok := queryInt(c, "SearchHandler.Postings", "limit", h.defaultLimit)
	if !ok {
		return
	}

	res, err := h.svc.SearchPostings(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *SearchHandler) Profiles(c *gin.Context) {
	limit, ok := queryInt(c, "SearchHandler.Profiles", "limit", h.defaultLimit)
	if !ok {
		return
	}

	res, err := h.svc.SearchProfiles(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/api/handlers"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/api/middleware"
)

type Deps struct {
	Profile *handlers.ProfileHandler
	Posting *handlers.PostingHandler
	Match   *handlers.MatchHandler
	Search  *handlers.SearchHandler

	// Auth defaults to middleware.JWTAuth().
	Auth gin.HandlerFunc
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	auth := d.Auth
	if auth == nil {
		auth = middleware.JWTAuth()
	}

	// Protected routes (JWT)
	api := r.Group("/")
	api.Use(auth)

	api.GET("/profiles/:profile_id", d.Profile.Get)
	api.PUT("/profiles/:profile_id", d.Profile.Put)
	api.PUT("/profiles/:profile_id/visibility", d.Profile.SetVisibility)
	api.POST("/profiles/:profile_id/embedding/refresh", d.Profile.RefreshEmbedding)

	api.GET("/postings/:posting_id", d.Posting.Get)
	api.GET("/match/profiles/:profile_id/postings", d.Match.PostingsForProfile)
	api.GET("/search/postings", d.Search.Postings)

	// Organization-only routes
	company := api.Group("/")
	company.Use(middleware.RequireCompany())

	company.PUT("/postings/:posting_id", d.Posting.Put)
	company.PUT("/postings/:posting_id/status", d.Posting.SetStatus)
	company.POST("/postings/:posting_id/embedding/refresh", d.Posting.RefreshEmbedding)
	company.GET("/match/postings/:posting_id/profiles", d.Match.ProfilesForPosting)
	company.GET("/search/profiles", d.Search.Profiles)
}

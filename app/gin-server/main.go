package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/api/handlers"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/api/middleware"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/api/routes"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/bootstrap"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/logger"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := bootstrap.Build(ctx, log)
	if err != nil {
		log.WithError(err).Fatal("bootstrap failed")
	}
	defer c.Close(context.Background())

	if err := c.SearchSvc.Rebuild(ctx); err != nil {
		log.WithError(err).Warn("search index rebuild failed")
	}

	pool := &workers.RefreshWorkerPool{
		Redis:      c.Redis,
		Refresher:  c.Refresh,
		NumWorkers: c.Config.RefreshWorkers,
		Logger:     log,
	}
	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Fatal("refresh workers failed to start")
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Profile: handlers.NewProfileHandler(c.ProfileSvc),
		Posting: handlers.NewPostingHandler(c.PostingSvc),
		Match:   handlers.NewMatchHandler(c.Matching, c.ProfileSvc, c.PostingSvc, c.Config.DefaultLimit),
		Search:  handlers.NewSearchHandler(c.SearchSvc, c.Config.DefaultLimit),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", port).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown failed")
	}
}

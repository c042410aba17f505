package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kjanuda/Blogme/blog/application"
	"github.com/kjanuda/Blogme/blog/persistence"
	"github.com/kjanuda/Blogme/internal/config"
	"github.com/kjanuda/Blogme/internal/middleware"
	"github.com/kjanuda/Blogme/internal/rest"
	"github.com/kjanuda/Blogme/shared/db"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()

	// Initialize dependencies
	database := db.NewMongoDB(&db.MongoConfig{URI: cfg.MongoURI})
	if err := database.Connect(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to close database connection")
		}
	}()

	postRepo := persistence.NewPostRepository(database.Collection(config.DatabaseName, config.PostsCollection))
	if err := postRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to create indexes")
	}

	postService := application.NewPostService(postRepo)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	router.Use(cors.Default())

	rest.NewApi(router, postService, database)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rahulpandeyofficial/media-service/internal/cache"
	"github.com/rahulpandeyofficial/media-service/internal/config"
	"github.com/rahulpandeyofficial/media-service/internal/http/handlers/media"
	"github.com/rahulpandeyofficial/media-service/internal/http/middleware"
	"github.com/rahulpandeyofficial/media-service/internal/services/cloudinary"
	"github.com/rahulpandeyofficial/media-service/internal/storage/postgres"
)

func main() {
	// load config
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// database setup
	storage, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	slog.Info("Connected to Postgres database")

	// redis-backed cache in front of the video listing
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	cachedStorage := cache.NewCacheService(storage, redisClient)

	uploader := cloudinary.NewService(cfg.Cloudinary)

	// setup server
	router := http.NewServeMux()
	auth := middleware.AuthMiddleware(cfg.JWTSecret)

	router.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Media upload service"))
	})
	router.Handle("POST /upload/image", auth(media.UploadImage(uploader)))
	router.Handle("POST /upload/video", auth(media.UploadVideo(uploader, cachedStorage, cfg.Cloudinary)))
	router.Handle("GET /videos", auth(media.ListVideos(cachedStorage)))

	server := http.Server{
		Addr:    cfg.HTTPServer.Address,
		Handler: router,
	}

	log.Println("server started on", cfg.HTTPServer.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-done

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = server.Shutdown(ctx)
	if err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}

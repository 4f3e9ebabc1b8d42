package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/vasitha1/lebailleur-app/internal/cache"
	"github.com/vasitha1/lebailleur-app/internal/config"
	"github.com/vasitha1/lebailleur-app/internal/database"
	"github.com/vasitha1/lebailleur-app/internal/repository"
	"github.com/vasitha1/lebailleur-app/internal/services"
	"github.com/vasitha1/lebailleur-app/internal/storage"
)

// Photo worker: resizes uploaded property photos into web and thumbnail
// variants out of the request path.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx := context.Background()

	redisClient, err := cache.NewClient(&cfg.Redis)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	dbManager := database.GetManager(cfg)
	if err := dbManager.InitPool(ctx); err != nil {
		slog.Error("failed to initialize database pool", "error", err)
		os.Exit(1)
	}
	defer dbManager.Close()

	storageDriver, err := storage.New(&cfg.Storage)
	if err != nil {
		slog.Error("failed to initialize storage driver", "error", err)
		os.Exit(1)
	}

	propertyRepo := repository.NewPropertyRepository(dbManager.GetPool())
	photoService := services.NewPhotoService(propertyRepo, storageDriver, redisClient)

	slog.Info("photo worker started", "queue", cache.PhotoQueue)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	stopChan := make(chan struct{})
	go processJobs(redisClient, photoService, stopChan)

	<-sigChan
	slog.Info("shutting down photo worker")
	close(stopChan)

	time.Sleep(2 * time.Second)
	slog.Info("photo worker stopped")
}

func processJobs(redisClient *cache.Client, photos *services.PhotoService, stopChan chan struct{}) {
	ctx := context.Background()

	for {
		select {
		case <-stopChan:
			return
		default:
			payload, err := redisClient.Dequeue(ctx, cache.PhotoQueue, 5*time.Second)
			if err != nil {
				if err == redis.Nil {
					continue
				}
				slog.Error("failed to read from queue", "error", err)
				time.Sleep(time.Second)
				continue
			}

			var job services.PhotoJob
			if err := json.Unmarshal(payload, &job); err != nil {
				slog.Error("failed to decode job", "error", err)
				continue
			}

			if err := photos.Process(ctx, job); err != nil {
				slog.Error("photo processing failed",
					"property_id", job.PropertyID,
					"path", job.Path,
					"error", err,
				)
			}
		}
	}
}

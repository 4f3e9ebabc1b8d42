package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/vasitha1/lebailleur-app/internal/cache"
	"github.com/vasitha1/lebailleur-app/internal/config"
	"github.com/vasitha1/lebailleur-app/internal/database"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/repository"
	"github.com/vasitha1/lebailleur-app/internal/services"
)

// Delivery worker: drains the notification queue and hands each message to
// the configured channels. Until the WhatsApp and email providers are wired
// up, delivery is recorded and logged.
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

	pool := dbManager.GetPool()
	notificationRepo := repository.NewNotificationRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, redisClient)

	slog.Info("reminder worker started", "queue", cache.ReminderQueue)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	stopChan := make(chan struct{})
	go processJobs(redisClient, notificationService, userRepo, stopChan)

	<-sigChan
	slog.Info("shutting down reminder worker")
	close(stopChan)

	// let an in-flight job finish
	time.Sleep(2 * time.Second)
	slog.Info("reminder worker stopped")
}

func processJobs(
	redisClient *cache.Client,
	notifications *services.NotificationService,
	users *repository.UserRepository,
	stopChan chan struct{},
) {
	ctx := context.Background()

	for {
		select {
		case <-stopChan:
			return
		default:
			payload, err := redisClient.Dequeue(ctx, cache.ReminderQueue, 5*time.Second)
			if err != nil {
				if err == redis.Nil {
					continue
				}
				slog.Error("failed to read from queue", "error", err)
				time.Sleep(time.Second)
				continue
			}

			var job services.ReminderJob
			if err := json.Unmarshal(payload, &job); err != nil {
				slog.Error("failed to decode job", "error", err)
				continue
			}

			if err := deliver(ctx, notifications, users, job); err != nil {
				slog.Error("delivery failed", "notification_id", job.NotificationID, "error", err)
				if markErr := notifications.MarkStatus(ctx, job.NotificationID, models.NotificationStatusFailed); markErr != nil {
					slog.Error("failed to record delivery failure", "notification_id", job.NotificationID, "error", markErr)
				}
				continue
			}

			if err := notifications.MarkStatus(ctx, job.NotificationID, models.NotificationStatusSent); err != nil {
				slog.Error("failed to record delivery", "notification_id", job.NotificationID, "error", err)
			}
		}
	}
}

// deliver sends the notification to each recipient's preferred channel.
// TODO: plug in the WhatsApp Business API client once credentials exist.
func deliver(
	ctx context.Context,
	notifications *services.NotificationService,
	users *repository.UserRepository,
	job services.ReminderJob,
) error {
	notification, err := notifications.Get(ctx, job.NotificationID)
	if err != nil {
		return err
	}

	var channels []string
	for _, recipientID := range notification.Recipients {
		recipient, err := users.GetByID(ctx, recipientID)
		if err != nil {
			slog.Warn("skipping unknown recipient", "recipient_id", recipientID)
			continue
		}
		channel := "email:" + recipient.Email
		if recipient.WhatsappNumber != nil {
			channel = "whatsapp:" + *recipient.WhatsappNumber
		}
		channels = append(channels, channel)
	}

	slog.Info("notification delivered",
		"notification_id", notification.ID,
		"kind", notification.Kind,
		"channels", strings.Join(channels, ","),
	)
	return nil
}

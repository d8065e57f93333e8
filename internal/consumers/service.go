package consumers

import (
	"context"
	"log/slog"

	"bilet/internal/cache"
	"bilet/internal/config"
	"bilet/internal/database"
	"bilet/internal/messaging"
	"bilet/internal/models"
	"bilet/internal/repository"
)

const queueGroup = "consumers"

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	// Connect to NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	// Create repositories
	repos := repository.NewRepositories(db)

	// The cache is optional here, same as in the API
	var valkeyClient *cache.ValkeyClient
	if cfg.Valkey.Enabled {
		valkeyClient, err = cache.NewValkeyClient(cfg.Valkey)
		if err != nil {
			slog.Error("Failed to connect to Valkey, running without cache", "error", err)
			valkeyClient = nil
		}
	}

	handlers := NewHandlers(repos, valkeyClient)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	_, err := cs.nats.SubscribeQueue(models.EventUserRegistered, queueGroup, cs.handlers.HandleUserRegistered)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventEventCreated, queueGroup, cs.handlers.HandleEventCreated)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventEventUpdated, queueGroup, cs.handlers.HandleEventUpdated)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventEventCancelled, queueGroup, cs.handlers.HandleEventCancelled)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventTicketPurchase, queueGroup, cs.handlers.HandleTicketPurchased)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventTicketCancel, queueGroup, cs.handlers.HandleTicketCancelled)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventCommentCreated, queueGroup, cs.handlers.HandleCommentCreated)
	if err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}

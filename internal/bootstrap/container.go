package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"note-service-be/internal/config"
	"note-service-be/internal/controller"
	"note-service-be/internal/pkg/logger"
	"note-service-be/internal/repository/bolt"
	"note-service-be/internal/repository/contract"
	"note-service-be/internal/repository/implementation"
	"note-service-be/internal/repository/memory"
	"note-service-be/internal/repository/mongo"
	"note-service-be/internal/service"
	"note-service-be/pkg/database"
	"note-service-be/pkg/health"

	pktNats "note-service-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	Logger    logger.ILogger
	NoteStore contract.NoteRepository

	// Controllers
	NoteController   controller.INoteController
	HealthController controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
}

// NewContainer connects the configured note store and wires everything on top of
// it. A store that cannot be reached within DB_CONNECT_TIMEOUT is an error.
func NewContainer(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	// 1. Store
	store, err := OpenNoteStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	sysLogger.Info("Bootstrap", "Note store connected", map[string]interface{}{
		"driver": store.Driver(),
	})

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NopLogger{},
	)

	var natsPub *pktNats.Publisher
	var forwarder service.EventForwarder
	if cfg.Events.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS Publisher, forwarding disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			forwarder = natsPub
		}
	}

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Events.Topic, forwarder, sysLogger)
	noteService := service.NewNoteService(store, publisherService, sysLogger)
	healthService := service.NewHealthService(store, health.NewProcessSampler())

	// 4. Controllers
	return &Container{
		Logger:           sysLogger,
		NoteStore:        store,
		NoteController:   controller.NewNoteController(noteService, sysLogger),
		HealthController: controller.NewHealthController(healthService),
		ConsumerService:  consumerService,
		pubSub:           pubSub,
		natsPub:          natsPub,
	}, nil
}

// OpenNoteStore selects the adapter named by DB_DRIVER.
func OpenNoteStore(ctx context.Context, cfg config.DatabaseConfig) (contract.NoteRepository, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	switch cfg.Driver {
	case config.DriverMongo:
		uri := database.MongoConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			User:     cfg.User,
			Password: cfg.Password,
		}.URI()
		return mongo.Connect(ctx, uri, cfg.Name)

	case config.DriverPostgres:
		db, err := database.NewGormDB(ctx, database.GormConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			User:     cfg.User,
			Password: cfg.Password,
			DBName:   cfg.Name,
			SSLMode:  cfg.SSLMode,
		})
		if err != nil {
			return nil, err
		}
		repo := implementation.NewNoteRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = repo.Close(context.Background())
			return nil, fmt.Errorf("ensure notes table: %w", err)
		}
		return repo, nil

	case config.DriverBolt:
		return bolt.Open(cfg.Path, cfg.ConnectTimeout)

	case config.DriverMemory:
		return memory.NewNoteRepository(), nil
	}

	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Driver)
}

// Close releases the event bus, the NATS connection and the store, in that order.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.pubSub != nil {
		errs = append(errs, c.pubSub.Close())
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.NoteStore != nil {
		errs = append(errs, c.NoteStore.Close(ctx))
	}
	return errors.Join(errs...)
}

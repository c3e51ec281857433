package backend

import (
	"fmt"

	"finease/internal/amqp"
	"finease/internal/log"
	"finease/internal/services"
	"finease/internal/storage"
)

// Factory assembles a Store from a backend configuration.
type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	return &Factory{logger: logger}
}

// Create builds the backend named by cfg.Type.
func (f *Factory) Create(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backend config: %w", err)
	}

	switch cfg.Type {
	case TypeSQLite:
		return f.createSQLite(cfg)
	case TypeMemory:
		return f.createMemory()
	default:
		return nil, fmt.Errorf("unsupported backend type %q", cfg.Type)
	}
}

func (f *Factory) createSQLite(cfg Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	if err := repo.RunMigrations(); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(amqp.Config{
			URL:      cfg.AMQPURL,
			Exchange: cfg.AMQPExchange,
			Queue:    cfg.AMQPQueue,
		}, f.logger)
		if err != nil {
			// The API stays usable without the broker; aggregates just go stale.
			f.logger.Warn("amqp unavailable, change events disabled", log.FieldError, err)
		} else {
			publisher = client
		}
	}

	svc := services.NewTransactionService(repo, publisher, f.logger)
	return &Result{
		Store:   svc,
		Cleanup: svc.Close,
	}, nil
}

func (f *Factory) createMemory() (*Result, error) {
	store := storage.NewMemoryStore()
	svc := services.NewTransactionService(store, nil, f.logger)
	return &Result{
		Store:   svc,
		Cleanup: svc.Close,
	}, nil
}

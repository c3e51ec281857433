package services

import (
	"context"
	"fmt"

	"finease/internal/amqp"
	"finease/internal/core"
	"finease/internal/log"
)

// Storage is the persistence surface the service needs. Both the sqlite
// repository and the in-memory store satisfy it.
type Storage interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (string, error)
	UpdateTransaction(ctx context.Context, id string, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) (string, error)
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context, email string) ([]core.Transaction, error)
	UpsertUser(ctx context.Context, u core.User) error
	GetUser(ctx context.Context, email string) (core.User, error)
	SetUserPassword(ctx context.Context, email, hash string) error
	GetUserPasswordHash(ctx context.Context, email string) (string, error)
	ListCategoryTotals(ctx context.Context, email string) ([]core.CategoryTotal, error)
	Close() error
}

// Publisher emits transaction change events for the aggregate worker.
type Publisher interface {
	PublishTransactionEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error
	Close() error
}

// TransactionService orchestrates writes across storage and the event broker.
// Local writes always win: a broker outage never fails the request, the
// stored aggregates just go stale until the worker catches up.
type TransactionService struct {
	storage   Storage
	publisher Publisher
	logger    *log.Logger
}

func NewTransactionService(storage Storage, publisher Publisher, logger *log.Logger) *TransactionService {
	return &TransactionService{
		storage:   storage,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentTransaction),
	}
}

func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	t.Category = core.NormalizeCategory(t.Category)

	id, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	s.publishEvent(ctx, t.Email, id, amqp.ActionCreate)
	return id, nil
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.Category = core.NormalizeCategory(t.Category)

	if err := s.storage.UpdateTransaction(ctx, id, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.publishEvent(ctx, t.Email, id, amqp.ActionUpdate)
	return nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) (string, error) {
	email, err := s.storage.DeleteTransaction(ctx, id)
	if err != nil {
		return "", fmt.Errorf("delete transaction: %w", err)
	}

	s.publishEvent(ctx, email, id, amqp.ActionDelete)
	return email, nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, id)
}

func (s *TransactionService) ListTransactions(ctx context.Context, email string) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx, email)
}

func (s *TransactionService) UpsertUser(ctx context.Context, u core.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	return s.storage.UpsertUser(ctx, u)
}

func (s *TransactionService) GetUser(ctx context.Context, email string) (core.User, error) {
	return s.storage.GetUser(ctx, email)
}

func (s *TransactionService) SetUserPassword(ctx context.Context, email, hash string) error {
	return s.storage.SetUserPassword(ctx, email, hash)
}

func (s *TransactionService) GetUserPasswordHash(ctx context.Context, email string) (string, error) {
	return s.storage.GetUserPasswordHash(ctx, email)
}

func (s *TransactionService) ListCategoryTotals(ctx context.Context, email string) ([]core.CategoryTotal, error) {
	return s.storage.ListCategoryTotals(ctx, email)
}

func (s *TransactionService) publishEvent(ctx context.Context, email, id, action string) {
	if s.publisher == nil {
		return
	}

	msg := amqp.NewTransactionEventMessage(email, id, action)
	if err := s.publisher.PublishTransactionEvent(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish transaction event",
			log.FieldError, err,
			log.FieldEmail, email,
			log.FieldTransactionID, id,
			log.FieldAction, action)
	}
}

// Close closes both storage and the publisher.
func (s *TransactionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}

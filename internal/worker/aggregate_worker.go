package worker

import (
	"context"
	"fmt"

	"finease/internal/amqp"
	"finease/internal/core"
	"finease/internal/log"
)

// Store is the storage surface the worker needs to recompute aggregates.
type Store interface {
	ListEmails(ctx context.Context) ([]string, error)
	ListTransactions(ctx context.Context, email string) ([]core.Transaction, error)
	ReplaceCategoryTotals(ctx context.Context, email string, totals []core.CategoryTotal) error
}

// AggregateWorker keeps the category_totals table in sync with the
// transactions table. It recomputes a user's expense totals whenever a
// change event arrives.
type AggregateWorker struct {
	store  Store
	logger *log.Logger
}

func NewAggregateWorker(store Store, logger *log.Logger) *AggregateWorker {
	return &AggregateWorker{
		store:  store,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent processes a single transaction change event.
func (w *AggregateWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	if msg.Email == "" {
		w.logger.WarnContext(ctx, "dropping event without owner",
			log.FieldTransactionID, msg.TransactionID,
			log.FieldAction, msg.Action)
		return nil
	}

	if err := w.RefreshUser(ctx, msg.Email); err != nil {
		return fmt.Errorf("refresh aggregates for %s: %w", msg.Email, err)
	}

	w.logger.InfoContext(ctx, "aggregates refreshed",
		log.FieldEmail, msg.Email,
		log.FieldAction, msg.Action)

	return nil
}

// RefreshAll recomputes totals for every user with transactions. Individual
// failures are logged and the rest of the sweep continues.
func (w *AggregateWorker) RefreshAll(ctx context.Context) error {
	emails, err := w.store.ListEmails(ctx)
	if err != nil {
		return fmt.Errorf("list owner emails: %w", err)
	}

	failed := 0
	for _, email := range emails {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.RefreshUser(ctx, email); err != nil {
			w.logger.ErrorContext(ctx, "failed to refresh user aggregates",
				log.FieldError, err, log.FieldEmail, email)
			failed++
		}
	}

	w.logger.InfoContext(ctx, "full refresh completed",
		log.FieldCount, len(emails), "failed", failed)

	if failed > 0 {
		return fmt.Errorf("refresh failed for %d of %d users", failed, len(emails))
	}
	return nil
}

// RefreshUser recomputes and stores one user's expense category totals.
func (w *AggregateWorker) RefreshUser(ctx context.Context, email string) error {
	transactions, err := w.store.ListTransactions(ctx, email)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	totals := core.CategoryTotalsOf(transactions, core.TypeExpense)
	if err := w.store.ReplaceCategoryTotals(ctx, email, totals); err != nil {
		return fmt.Errorf("replace category totals: %w", err)
	}

	return nil
}

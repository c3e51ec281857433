package backend

import (
	"context"

	"finease/internal/core"
)

// Ports for the data store behind the HTTP API.
type (
	TransactionReader interface {
		// ListTransactions returns all transactions owned by the given email.
		ListTransactions(ctx context.Context, email string) ([]core.Transaction, error)

		// GetTransaction returns a single transaction by id.
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	}

	TransactionWriter interface {
		// CreateTransaction persists a new transaction and returns its id.
		CreateTransaction(ctx context.Context, t core.Transaction) (string, error)

		// UpdateTransaction replaces the stored transaction with the given id.
		UpdateTransaction(ctx context.Context, id string, t core.Transaction) error

		// DeleteTransaction removes a transaction and returns the owner email
		// of the deleted record so callers can invalidate per-user state.
		DeleteTransaction(ctx context.Context, id string) (string, error)
	}

	UserStore interface {
		UpsertUser(ctx context.Context, u core.User) error
		GetUser(ctx context.Context, email string) (core.User, error)

		// SetUserPassword stores a password hash for an existing user.
		SetUserPassword(ctx context.Context, email, hash string) error

		// GetUserPasswordHash returns the stored hash, empty when the
		// user has never set a password.
		GetUserPasswordHash(ctx context.Context, email string) (string, error)
	}

	// AggregateReader serves the pre-aggregated category totals fast path.
	AggregateReader interface {
		ListCategoryTotals(ctx context.Context, email string) ([]core.CategoryTotal, error)
	}

	// AggregateWriter is used by the refresh worker to replace a user's
	// stored category totals wholesale.
	AggregateWriter interface {
		ReplaceCategoryTotals(ctx context.Context, email string, totals []core.CategoryTotal) error
	}
)

// Store is the unified backend interface consumed by the HTTP server.
type Store interface {
	TransactionReader
	TransactionWriter
	UserStore
	AggregateReader
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result contains the assembled store and an optional cleanup function.
type Result struct {
	Store   Store
	Cleanup CleanupFunc
}

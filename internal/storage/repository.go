package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"finease/internal/core"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db     *sql.DB
	dbPath string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db, dbPath: dbPath}, nil
}

// RunMigrations brings the schema up to date.
func (r *SQLiteRepository) RunMigrations() error {
	return RunMigrations(r.dbPath)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	id := t.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, type, category, description, amount, date, email, name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, string(t.Type), t.Category, t.Description, float64(t.Amount), t.Date, t.Email, t.Name)
	if err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	return id, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id string, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET type = ?, category = ?, description = ?, amount = ?, date = ?
		WHERE id = ?`,
		string(t.Type), t.Category, t.Description, float64(t.Amount), t.Date, id)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) (string, error) {
	var email string
	err := r.db.QueryRowContext(ctx,
		`SELECT email FROM transactions WHERE id = ?`, id).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup transaction owner: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return "", fmt.Errorf("delete transaction: %w", err)
	}

	return email, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	var t core.Transaction
	var amount float64
	var typ string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, type, category, description, amount, date, email, name
		FROM transactions WHERE id = ?`, id).Scan(
		&t.ID, &typ, &t.Category, &t.Description, &amount, &t.Date, &t.Email, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}

	t.Type = core.TransactionType(typ)
	t.Amount = core.Amount(amount)
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, email string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, category, description, amount, date, email, name
		FROM transactions WHERE email = ?
		ORDER BY date DESC, created_at DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var amount float64
		var typ string
		if err := rows.Scan(&t.ID, &typ, &t.Category, &t.Description, &amount, &t.Date, &t.Email, &t.Name); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TransactionType(typ)
		t.Amount = core.Amount(amount)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return out, nil
}

// ListEmails returns the distinct owners in the transactions table.
func (r *SQLiteRepository) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT email FROM transactions ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		out = append(out, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emails: %w", err)
	}

	return out, nil
}

func (r *SQLiteRepository) UpsertUser(ctx context.Context, u core.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, name, img_url)
		VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET name = excluded.name, img_url = excluded.img_url`,
		u.Email, u.Name, u.PhotoURL)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, email string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT email, name, img_url FROM users WHERE email = ?`, email).Scan(
		&u.Email, &u.Name, &u.PhotoURL)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// SetUserPassword stores a password hash for an existing user. The hash is
// computed by the caller, the repository never sees the plaintext.
func (r *SQLiteRepository) SetUserPassword(ctx context.Context, email, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE email = ?`, hash, email)
	if err != nil {
		return fmt.Errorf("set user password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set user password: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUserPasswordHash returns the stored hash, empty for users who have
// never set a password.
func (r *SQLiteRepository) GetUserPasswordHash(ctx context.Context, email string) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx,
		`SELECT password_hash FROM users WHERE email = ?`, email).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get user password hash: %w", err)
	}
	return hash, nil
}

// ReplaceCategoryTotals swaps out a user's stored aggregates in one transaction.
func (r *SQLiteRepository) ReplaceCategoryTotals(ctx context.Context, email string, totals []core.CategoryTotal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin category totals tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM category_totals WHERE email = ?`, email); err != nil {
		return fmt.Errorf("clear category totals: %w", err)
	}

	for _, ct := range totals {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO category_totals (email, category, total)
			VALUES (?, ?, ?)`, email, ct.Category, ct.Total); err != nil {
			return fmt.Errorf("insert category total: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit category totals: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) ListCategoryTotals(ctx context.Context, email string) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, total FROM category_totals
		WHERE email = ?
		ORDER BY total DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("list category totals: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}

	return out, nil
}

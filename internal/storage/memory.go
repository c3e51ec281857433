package storage

import (
	"context"
	"sort"
	"sync"

	"finease/internal/core"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory backend for development and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	seq       int
	order     map[string]int
	txs       map[string]core.Transaction
	users     map[string]core.User
	passwords map[string]string
	totals    map[string][]core.CategoryTotal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		order:     make(map[string]int),
		txs:       make(map[string]core.Transaction),
		users:     make(map[string]core.User),
		passwords: make(map[string]string),
		totals:    make(map[string][]core.CategoryTotal),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.seq++
	s.order[t.ID] = s.seq
	s.txs[t.ID] = t
	return t.ID, nil
}

func (s *MemoryStore) UpdateTransaction(ctx context.Context, id string, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.txs[id]
	if !ok {
		return ErrNotFound
	}
	existing.Type = t.Type
	existing.Category = t.Category
	existing.Description = t.Description
	existing.Amount = t.Amount
	existing.Date = t.Date
	s.txs[id] = existing
	return nil
}

func (s *MemoryStore) DeleteTransaction(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.txs[id]
	if !ok {
		return "", ErrNotFound
	}
	delete(s.txs, id)
	delete(s.order, id)
	return t.Email, nil
}

func (s *MemoryStore) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) ListTransactions(ctx context.Context, email string) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Transaction
	for _, t := range s.txs {
		if t.Email == email {
			out = append(out, t)
		}
	}
	// Newest first, same ordering contract as the sqlite store
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return s.order[out[i].ID] > s.order[out[j].ID]
	})
	return out, nil
}

func (s *MemoryStore) ListEmails(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, t := range s.txs {
		if !seen[t.Email] {
			seen[t.Email] = true
			out = append(out, t.Email)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) UpsertUser(ctx context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.Email] = u
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, email string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return core.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) SetUserPassword(ctx context.Context, email, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[email]; !ok {
		return ErrNotFound
	}
	s.passwords[email] = hash
	return nil
}

func (s *MemoryStore) GetUserPasswordHash(ctx context.Context, email string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.users[email]; !ok {
		return "", ErrNotFound
	}
	return s.passwords[email], nil
}

func (s *MemoryStore) ReplaceCategoryTotals(ctx context.Context, email string, totals []core.CategoryTotal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]core.CategoryTotal, len(totals))
	copy(cp, totals)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Total > cp[j].Total })
	s.totals[email] = cp
	return nil
}

func (s *MemoryStore) ListCategoryTotals(ctx context.Context, email string) ([]core.CategoryTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.totals[email]
	out := make([]core.CategoryTotal, len(stored))
	copy(out, stored)
	return out, nil
}

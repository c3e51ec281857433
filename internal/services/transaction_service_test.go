package services

import (
	"context"
	"errors"
	"testing"

	"finease/internal/amqp"
	"finease/internal/core"
	"finease/internal/log"
)

type fakeStorage struct {
	created []core.Transaction
	updated map[string]core.Transaction
	deleted []string

	deleteEmail string
	createErr   error
	closed      bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{updated: make(map[string]core.Transaction), deleteEmail: "a@example.com"}
}

func (f *fakeStorage) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, t)
	return "tx-1", nil
}

func (f *fakeStorage) UpdateTransaction(ctx context.Context, id string, t core.Transaction) error {
	f.updated[id] = t
	return nil
}

func (f *fakeStorage) DeleteTransaction(ctx context.Context, id string) (string, error) {
	f.deleted = append(f.deleted, id)
	return f.deleteEmail, nil
}

func (f *fakeStorage) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return core.Transaction{ID: id}, nil
}

func (f *fakeStorage) ListTransactions(ctx context.Context, email string) ([]core.Transaction, error) {
	return nil, nil
}

func (f *fakeStorage) UpsertUser(ctx context.Context, u core.User) error { return nil }

func (f *fakeStorage) SetUserPassword(ctx context.Context, email, hash string) error { return nil }

func (f *fakeStorage) GetUserPasswordHash(ctx context.Context, email string) (string, error) {
	return "", nil
}

func (f *fakeStorage) GetUser(ctx context.Context, email string) (core.User, error) {
	return core.User{Email: email}, nil
}

func (f *fakeStorage) ListCategoryTotals(ctx context.Context, email string) ([]core.CategoryTotal, error) {
	return nil, nil
}

func (f *fakeStorage) Close() error {
	f.closed = true
	return nil
}

type fakePublisher struct {
	events []*amqp.TransactionEventMessage
	err    error
	closed bool
}

func (f *fakePublisher) PublishTransactionEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, msg)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func validTransaction() core.Transaction {
	return core.Transaction{
		Type:        core.TypeExpense,
		Category:    "Food",
		Description: "groceries",
		Amount:      12.5,
		Date:        "2024-03-01",
		Email:       "a@example.com",
	}
}

func TestCreateTransactionPublishesEvent(t *testing.T) {
	storage := newFakeStorage()
	pub := &fakePublisher{}
	svc := NewTransactionService(storage, pub, testLogger())

	id, err := svc.CreateTransaction(context.Background(), validTransaction())
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if id != "tx-1" {
		t.Errorf("id = %q, want tx-1", id)
	}

	if len(storage.created) != 1 {
		t.Fatalf("created %d transactions, want 1", len(storage.created))
	}
	if storage.created[0].Category != "food" {
		t.Errorf("category not normalized: %q", storage.created[0].Category)
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Email != "a@example.com" || ev.TransactionID != "tx-1" || ev.Action != amqp.ActionCreate {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestCreateTransactionRejectsInvalid(t *testing.T) {
	storage := newFakeStorage()
	svc := NewTransactionService(storage, nil, testLogger())

	tx := validTransaction()
	tx.Email = ""
	if _, err := svc.CreateTransaction(context.Background(), tx); !errors.Is(err, core.ErrEmptyEmail) {
		t.Errorf("expected ErrEmptyEmail, got %v", err)
	}
	if len(storage.created) != 0 {
		t.Error("invalid transaction reached storage")
	}
}

func TestCreateTransactionSurvivesPublisherFailure(t *testing.T) {
	storage := newFakeStorage()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewTransactionService(storage, pub, testLogger())

	id, err := svc.CreateTransaction(context.Background(), validTransaction())
	if err != nil {
		t.Fatalf("CreateTransaction should succeed despite publish failure: %v", err)
	}
	if id != "tx-1" {
		t.Errorf("id = %q, want tx-1", id)
	}
}

func TestCreateTransactionWithoutPublisher(t *testing.T) {
	storage := newFakeStorage()
	svc := NewTransactionService(storage, nil, testLogger())

	if _, err := svc.CreateTransaction(context.Background(), validTransaction()); err != nil {
		t.Fatalf("CreateTransaction without publisher: %v", err)
	}
}

func TestUpdateTransactionPublishesEvent(t *testing.T) {
	storage := newFakeStorage()
	pub := &fakePublisher{}
	svc := NewTransactionService(storage, pub, testLogger())

	if err := svc.UpdateTransaction(context.Background(), "tx-9", validTransaction()); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if _, ok := storage.updated["tx-9"]; !ok {
		t.Error("update did not reach storage")
	}
	if len(pub.events) != 1 || pub.events[0].Action != amqp.ActionUpdate {
		t.Errorf("expected one update event, got %+v", pub.events)
	}
}

func TestDeleteTransactionPublishesOwnerEvent(t *testing.T) {
	storage := newFakeStorage()
	pub := &fakePublisher{}
	svc := NewTransactionService(storage, pub, testLogger())

	email, err := svc.DeleteTransaction(context.Background(), "tx-3")
	if err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if email != "a@example.com" {
		t.Errorf("owner = %q, want a@example.com", email)
	}
	if len(pub.events) != 1 || pub.events[0].Action != amqp.ActionDelete || pub.events[0].Email != "a@example.com" {
		t.Errorf("expected delete event for owner, got %+v", pub.events)
	}
}

func TestCloseClosesBoth(t *testing.T) {
	storage := newFakeStorage()
	pub := &fakePublisher{}
	svc := NewTransactionService(storage, pub, testLogger())

	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !storage.closed || !pub.closed {
		t.Error("Close did not reach both resources")
	}
}

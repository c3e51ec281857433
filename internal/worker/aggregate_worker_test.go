package worker

import (
	"context"
	"errors"
	"testing"

	"finease/internal/amqp"
	"finease/internal/core"
	"finease/internal/log"
)

type fakeStore struct {
	transactions map[string][]core.Transaction
	replaced     map[string][]core.CategoryTotal
	listErr      error
	replaceErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		transactions: make(map[string][]core.Transaction),
		replaced:     make(map[string][]core.CategoryTotal),
	}
}

func (f *fakeStore) ListEmails(ctx context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []string
	for email := range f.transactions {
		out = append(out, email)
	}
	return out, nil
}

func (f *fakeStore) ListTransactions(ctx context.Context, email string) ([]core.Transaction, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.transactions[email], nil
}

func (f *fakeStore) ReplaceCategoryTotals(ctx context.Context, email string, totals []core.CategoryTotal) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced[email] = totals
	return nil
}

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func TestHandleEventRecomputesExpenseTotals(t *testing.T) {
	store := newFakeStore()
	store.transactions["a@example.com"] = []core.Transaction{
		{Type: core.TypeExpense, Category: "food", Amount: 80},
		{Type: core.TypeExpense, Category: "home", Amount: 20},
		{Type: core.TypeIncome, Category: "salary", Amount: 1000},
	}

	w := NewAggregateWorker(store, testLogger())
	msg := amqp.NewTransactionEventMessage("a@example.com", "tx-1", amqp.ActionCreate)

	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	totals := store.replaced["a@example.com"]
	if len(totals) != 2 {
		t.Fatalf("stored %d totals, want 2 (income excluded)", len(totals))
	}
	if totals[0].Category != "food" || totals[0].Total != 80 {
		t.Errorf("totals[0] = %+v, want food/80", totals[0])
	}
	if totals[1].Category != "home" || totals[1].Total != 20 {
		t.Errorf("totals[1] = %+v, want home/20", totals[1])
	}
}

func TestHandleEventEmptyUserClearsTotals(t *testing.T) {
	store := newFakeStore()
	w := NewAggregateWorker(store, testLogger())

	msg := amqp.NewTransactionEventMessage("empty@example.com", "tx-1", amqp.ActionDelete)
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	totals, ok := store.replaced["empty@example.com"]
	if !ok {
		t.Fatal("expected ReplaceCategoryTotals to run for user with no transactions")
	}
	if len(totals) != 0 {
		t.Errorf("expected empty totals, got %+v", totals)
	}
}

func TestHandleEventMissingEmailIsDropped(t *testing.T) {
	store := newFakeStore()
	w := NewAggregateWorker(store, testLogger())

	msg := amqp.NewTransactionEventMessage("", "tx-1", amqp.ActionCreate)
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent should drop ownerless events, got %v", err)
	}
	if len(store.replaced) != 0 {
		t.Error("ownerless event should not touch aggregates")
	}
}

func TestRefreshAllSweepsEveryUser(t *testing.T) {
	store := newFakeStore()
	store.transactions["a@example.com"] = []core.Transaction{
		{Type: core.TypeExpense, Category: "food", Amount: 10},
	}
	store.transactions["b@example.com"] = []core.Transaction{
		{Type: core.TypeExpense, Category: "home", Amount: 20},
	}

	w := NewAggregateWorker(store, testLogger())
	if err := w.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}

	if len(store.replaced) != 2 {
		t.Fatalf("refreshed %d users, want 2", len(store.replaced))
	}
	if store.replaced["b@example.com"][0].Total != 20 {
		t.Errorf("b totals = %+v", store.replaced["b@example.com"])
	}
}

func TestHandleEventPropagatesStorageErrors(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("db locked")
	w := NewAggregateWorker(store, testLogger())

	msg := amqp.NewTransactionEventMessage("a@example.com", "tx-1", amqp.ActionUpdate)
	if err := w.HandleEvent(context.Background(), msg); err == nil {
		t.Error("expected error when listing fails so the message is requeued")
	}

	store.listErr = nil
	store.replaceErr = errors.New("db locked")
	if err := w.HandleEvent(context.Background(), msg); err == nil {
		t.Error("expected error when replace fails so the message is requeued")
	}
}

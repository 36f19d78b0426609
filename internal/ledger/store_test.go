package ledger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
	"ledger/internal/ids"
	"ledger/internal/kv/memory"
	"ledger/internal/log"
)

// flakyKV fails reads or writes on demand.
type flakyKV struct {
	mu       sync.Mutex
	inner    *memory.Store
	failGet  error
	failSet  error
	setCalls int
}

func (f *flakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet != nil {
		return "", false, f.failGet
	}
	return f.inner.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	f.setCalls++
	f.mu.Unlock()
	if f.failSet != nil {
		return f.failSet
	}
	return f.inner.Set(ctx, key, value)
}

func newTestStore(t *testing.T, kvs *memory.Store) *Store {
	t.Helper()
	return Open(context.Background(), kvs, WithIDGenerator(ids.Sequence("e")), WithLogger(log.Discard()))
}

func lunch() core.FormInput {
	return core.FormInput{Amount: "100", Description: "lunch", Category: "food", Date: "2025-01-10", Kind: core.Expense}
}

func bonus() core.FormInput {
	return core.FormInput{Amount: "500", Description: "bonus", Category: "bonus", Date: "2025-01-12", Kind: core.Income}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestStoreScenarioOrderingAndSummary(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())

	_, err := s.Add(ctx, lunch())
	require.NoError(t, err)
	_, err = s.Add(ctx, bonus())
	require.NoError(t, err)

	v := s.View()
	require.Len(t, v.Entries, 2)
	assert.Equal(t, "bonus", v.Entries[0].Description)
	assert.Equal(t, "lunch", v.Entries[1].Description)

	assert.True(t, v.Summary.TotalIncome.Equal(dec("500")))
	assert.True(t, v.Summary.TotalExpense.Equal(dec("100")))
	assert.True(t, v.Summary.Balance.Equal(dec("400")))
	assert.Equal(t, 2, v.Summary.Count)
	assert.False(t, v.Loading)
}

func TestStoreSortsByDateNotInsertion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())

	for _, d := range []string{"2024-05-01", "2025-02-01", "not-a-date", "2024-12-31"} {
		in := lunch()
		in.Date = d
		_, err := s.Add(ctx, in)
		require.NoError(t, err)
	}

	var dates []string
	for _, e := range s.View().Entries {
		dates = append(dates, e.Date)
	}
	assert.Equal(t, []string{"2025-02-01", "2024-12-31", "2024-05-01", "not-a-date"}, dates)
}

func TestStoreAddThenDeleteRestores(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())
	_, err := s.Add(ctx, lunch())
	require.NoError(t, err)
	before := s.View()

	e, err := s.Add(ctx, bonus())
	require.NoError(t, err)
	removed, err := s.Delete(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	assert.Equal(t, before, s.View())
}

func TestStoreDeleteUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())
	_, err := s.Add(ctx, lunch())
	require.NoError(t, err)
	before := s.View()

	removed, err := s.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, before, s.View())
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()
	kvs := memory.New()
	s := newTestStore(t, kvs)
	_, _ = s.Add(ctx, lunch())
	_, _ = s.Add(ctx, bonus())

	require.NoError(t, s.Clear(ctx))
	v := s.View()
	assert.Empty(t, v.Entries)
	assert.True(t, v.Summary.TotalIncome.IsZero())
	assert.True(t, v.Summary.TotalExpense.IsZero())
	assert.True(t, v.Summary.Balance.IsZero())
	assert.Equal(t, 0, v.Summary.Count)

	payload, ok, err := kvs.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", payload)

	// Clearing an empty ledger is fine too.
	require.NoError(t, s.Clear(ctx))
}

func TestStorePersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	kvs := memory.New()
	s := newTestStore(t, kvs)

	e, _ := s.Add(ctx, lunch())
	_, _ = s.Add(ctx, bonus())
	_, _ = s.Delete(ctx, e.ID)
	_, _ = s.Delete(ctx, "missing")
	_ = s.Clear(ctx)
	assert.Equal(t, 5, kvs.Writes())

	// A second store over the same medium sees the last write.
	reopened := newTestStore(t, kvs)
	assert.Empty(t, reopened.View().Entries)
}

func TestStoreReloadsPersistedEntries(t *testing.T) {
	ctx := context.Background()
	kvs := memory.New()
	s := newTestStore(t, kvs)
	_, _ = s.Add(ctx, lunch())
	_, _ = s.Add(ctx, bonus())

	reopened := newTestStore(t, kvs)
	assert.Equal(t, s.View(), reopened.View())
}

func TestStoreCorruptedPayloadStartsEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelInfo, Output: &buf})
	kvs := memory.NewSeeded(map[string]string{StorageKey: "{not json"})

	s := New(kvs, WithLogger(logger))
	assert.True(t, s.Loading())
	assert.True(t, s.View().Loading)

	s.Initialize(context.Background())
	assert.False(t, s.Loading())
	assert.Empty(t, s.View().Entries)
	assert.Contains(t, buf.String(), "Saved ledger is corrupted")

	// The store is still usable.
	_, err := s.Add(context.Background(), lunch())
	require.NoError(t, err)
	assert.Len(t, s.View().Entries, 1)
}

func TestStoreReadFailureStartsEmpty(t *testing.T) {
	kvs := &flakyKV{inner: memory.New(), failGet: errors.New("io error")}
	s := Open(context.Background(), kvs, WithLogger(log.Discard()))
	assert.False(t, s.Loading())
	assert.Empty(t, s.View().Entries)
}

func TestStoreWriteFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	kvs := &flakyKV{inner: memory.New(), failSet: errors.New("quota exceeded")}
	s := Open(ctx, kvs, WithLogger(log.Discard()))

	e, err := s.Add(ctx, lunch())
	require.NoError(t, err)
	assert.Len(t, s.View().Entries, 1)
	assert.Equal(t, 1, kvs.setCalls)

	removed, err := s.Delete(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 2, kvs.setCalls)

	// Nothing reached durable storage.
	_, ok, _ := kvs.inner.Get(ctx, StorageKey)
	assert.False(t, ok)
}

func TestStoreMutationsBeforeInitialize(t *testing.T) {
	ctx := context.Background()
	kvs := memory.New()
	s := New(kvs, WithLogger(log.Discard()))

	_, err := s.Add(ctx, lunch())
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = s.Delete(ctx, "x")
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, s.Clear(ctx), ErrNotLoaded)
	assert.Equal(t, 0, kvs.Writes())
}

func TestStoreAddConvertsAmount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())

	in := lunch()
	in.Amount = " 12.50 "
	e, err := s.Add(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "e-1", e.ID)
	assert.True(t, e.Amount.Equal(dec("12.5")))

	in.Amount = "twelve"
	_, err = s.Add(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Len(t, s.View().Entries, 1)
}

func TestStoreRejectsOversizedAmount(t *testing.T) {
	ctx := context.Background()
	kvs := memory.New()
	s := newTestStore(t, kvs)
	in := lunch()
	in.Amount = "1e100000000"

	done := make(chan error, 1)
	go func() {
		_, err := s.Add(ctx, in)
		done <- err
	}()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrInvalidAmount)
	case <-time.After(5 * time.Second):
		t.Fatal("Add did not return")
	}
	assert.Empty(t, s.View().Entries)
	assert.Equal(t, 0, kvs.Writes())
}

func TestStoreOversizedStoredAmountStartsEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelInfo, Output: &buf})
	kvs := memory.NewSeeded(map[string]string{
		StorageKey: `[{"id":"1","amount":1e100000000,"description":"x","category":"salary","date":"2025-01-10","type":"income"}]`,
	})

	s := Open(context.Background(), kvs, WithLogger(logger))
	assert.Empty(t, s.View().Entries)
	assert.Contains(t, buf.String(), "Saved ledger is corrupted")
}

func TestStoreAcceptsAnyCategory(t *testing.T) {
	s := newTestStore(t, memory.New())
	in := lunch()
	in.Category = "something-custom"
	e, err := s.Add(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "something-custom", e.Category)
}

func TestStoreSubscribe(t *testing.T) {
	ctx := context.Background()
	s := New(memory.New(), WithIDGenerator(ids.Sequence("e")), WithLogger(log.Discard()))

	var views []View
	unsubscribe := s.Subscribe(func(v View) { views = append(views, v) })

	s.Initialize(ctx)
	_, _ = s.Add(ctx, lunch())
	_ = s.Clear(ctx)
	require.Len(t, views, 3)
	assert.False(t, views[0].Loading)
	assert.Len(t, views[1].Entries, 1)
	assert.Empty(t, views[2].Entries)

	unsubscribe()
	_, _ = s.Add(ctx, bonus())
	assert.Len(t, views, 3)
}

func TestStoreViewIsACopy(t *testing.T) {
	s := newTestStore(t, memory.New())
	_, _ = s.Add(context.Background(), lunch())

	v := s.View()
	v.Entries[0].Description = "mutated"
	assert.Equal(t, "lunch", s.View().Entries[0].Description)
}

func TestStoreInitializeTwiceIsNoop(t *testing.T) {
	ctx := context.Background()
	kvs := memory.New()
	s := newTestStore(t, kvs)
	_, _ = s.Add(ctx, lunch())

	require.NoError(t, kvs.Set(ctx, StorageKey, "[]"))
	s.Initialize(ctx)
	assert.Len(t, s.View().Entries, 1)
}

func TestStoreWithKeyIsolatesLedgers(t *testing.T) {
	ctx := context.Background()
	kvs := memory.New()
	a := Open(ctx, kvs, WithKey("ledger-a"), WithLogger(log.Discard()))
	b := Open(ctx, kvs, WithKey("ledger-b"), WithLogger(log.Discard()))

	_, err := a.Add(ctx, lunch())
	require.NoError(t, err)
	assert.Len(t, a.View().Entries, 1)
	assert.Empty(t, b.View().Entries)

	_, ok, _ := kvs.Get(ctx, StorageKey)
	assert.False(t, ok, "default key must stay untouched")
}

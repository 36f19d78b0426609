// Package ledger owns the authoritative collection of entries and keeps it
// in sync with a kv.Store.
package ledger

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"ledger/internal/core"
	"ledger/internal/ids"
	"ledger/internal/kv"
	"ledger/internal/log"
)

// StorageKey is the key the collection is persisted under. Changing it would
// orphan every existing ledger.
const StorageKey = "expense-tracker-data"

var (
	ErrNotLoaded     = errors.New("ledger not loaded")
	ErrInvalidAmount = core.ErrInvalidAmount
)

// View is the read-only state handed to the presentation layer.
type View struct {
	Entries []core.Entry // sorted by date, most recent first
	Summary core.Summary
	Loading bool
}

// Listener is notified with a fresh View after every state change.
type Listener func(View)

// Store is the sole owner of the entry collection.
type Store struct {
	mu      sync.Mutex
	kv      kv.Store
	key     string
	ids     ids.Generator
	logger  *log.Logger
	entries []core.Entry
	loading bool

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the default UUIDv7 generator.
func WithIDGenerator(g ids.Generator) Option {
	return func(s *Store) { s.ids = g }
}

// WithLogger sets the logger used for load and persist failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentStore) }
}

// WithKey overrides StorageKey. Meant for tests sharing one kv.Store.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// New returns a store in the loading state. Call Initialize before mutating it.
func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:        store,
		key:       StorageKey,
		ids:       ids.Default(),
		logger:    log.New(log.DefaultConfig()).WithComponent(log.ComponentStore),
		loading:   true,
		listeners: map[int]Listener{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and initializes it.
func Open(ctx context.Context, store kv.Store, opts ...Option) *Store {
	s := New(store, opts...)
	s.Initialize(ctx)
	return s
}

// Initialize loads the persisted collection. A missing key yields an empty
// ledger. Read or decode failures are logged and also yield an empty ledger;
// they are never returned. Calling Initialize again does nothing.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	if !s.loading {
		s.mu.Unlock()
		return
	}
	s.entries = s.load(ctx)
	s.loading = false
	view := s.viewLocked()
	s.mu.Unlock()

	s.notify(view)
}

func (s *Store) load(ctx context.Context) []core.Entry {
	payload, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read ledger, starting empty",
			log.NewFields().WithOperation(log.OpLoad).WithKey(s.key).WithError(err, log.ErrorTypeStorage).ToSlice()...)
		return nil
	}
	if !ok {
		s.logger.InfoContext(ctx, "No saved ledger found, starting empty",
			log.NewFields().WithOperation(log.OpLoad).WithKey(s.key).ToSlice()...)
		return nil
	}
	entries, err := Decode(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "Saved ledger is corrupted, starting empty",
			log.NewFields().WithOperation(log.OpLoad).WithKey(s.key).WithError(err, log.ErrorTypeDecode).ToSlice()...)
		return nil
	}
	s.logger.InfoContext(ctx, "Ledger loaded",
		log.NewFields().WithOperation(log.OpLoad).WithKey(s.key).WithCount(len(entries)).ToSlice()...)
	return entries
}

// Loading reports whether Initialize has not completed yet. Data is
// indeterminate while it returns true.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Add creates an entry from in and persists the collection. The input is not
// validated here; core.ValidateForm is the caller's job. A persistence failure
// is logged and the entry is kept in memory.
func (s *Store) Add(ctx context.Context, in core.FormInput) (core.Entry, error) {
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Entry{}, err
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return core.Entry{}, ErrNotLoaded
	}
	e := core.Entry{
		ID:          s.ids.NewID(),
		Amount:      amount,
		Description: in.Description,
		Category:    in.Category,
		Date:        strings.TrimSpace(in.Date),
		Kind:        in.Kind,
	}
	s.entries = append([]core.Entry{e}, s.entries...)
	s.persistLocked(ctx, log.OpAdd)
	view := s.viewLocked()
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "Entry added",
		log.NewFields().WithOperation(log.OpAdd).
			WithEntry(e.ID, e.Kind.String(), e.Category, e.Date, e.Amount.String()).ToSlice()...)
	s.notify(view)
	return e, nil
}

// Delete removes the entry with the given id. An unknown id is not an error;
// removed reports whether anything changed.
func (s *Store) Delete(ctx context.Context, id string) (removed bool, err error) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return false, ErrNotLoaded
	}
	kept := make([]core.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	s.persistLocked(ctx, log.OpDelete)
	view := s.viewLocked()
	s.mu.Unlock()

	s.notify(view)
	return removed, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	s.entries = nil
	s.persistLocked(ctx, log.OpClear)
	view := s.viewLocked()
	s.mu.Unlock()

	s.notify(view)
	return nil
}

// View returns the entries sorted by date (most recent first) and the summary
// of the whole collection.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Subscribe registers fn for state changes. The returned func unregisters it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(v View) {
	s.listenersMu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// persistLocked writes the full collection. Failures are logged only: the
// in-memory collection stays authoritative for the session.
func (s *Store) persistLocked(ctx context.Context, op string) {
	payload, err := Encode(s.entries)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode ledger",
			log.NewFields().WithOperation(op).WithError(err, log.ErrorTypeEncode).ToSlice()...)
		return
	}
	if err := s.kv.Set(ctx, s.key, payload); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist ledger",
			log.NewFields().WithOperation(op).WithKey(s.key).WithCount(len(s.entries)).
				WithError(err, log.ErrorTypeStorage).ToSlice()...)
	}
}

func (s *Store) viewLocked() View {
	return View{
		Entries: sortByDateDesc(s.entries),
		Summary: core.Summarize(s.entries),
		Loading: s.loading,
	}
}

// sortByDateDesc returns a sorted copy. Unparseable dates go last.
func sortByDateDesc(entries []core.Entry) []core.Entry {
	type keyed struct {
		entry core.Entry
		unix  int64
		valid bool
	}
	ks := make([]keyed, len(entries))
	for i, e := range entries {
		t, err := core.ParseDate(e.Date)
		ks[i] = keyed{entry: e, unix: t.Unix(), valid: err == nil}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].valid != ks[j].valid {
			return ks[i].valid
		}
		return ks[i].unix > ks[j].unix
	})
	out := make([]core.Entry, len(ks))
	for i, k := range ks {
		out[i] = k.entry
	}
	return out
}

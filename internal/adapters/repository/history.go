package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/okian/tasting/internal/adapters/kv"
	"github.com/okian/tasting/internal/domain/model"
	"github.com/okian/tasting/pkg/logger"
	"github.com/okian/tasting/pkg/metrics"
)

// HistoryStore is the insertion-ordered list of completed tastings. The
// whole list is written on every mutation. When a write fails the
// in-memory change stands and the error is returned.
type HistoryStore struct {
	mu      sync.RWMutex
	store   kv.Store
	key     string
	log     logger.Logger
	records []model.TastingRecord
	lastID  int64
}

// NewHistoryStore creates an empty history persisted in store.
func NewHistoryStore(store kv.Store, opts ...Option) *HistoryStore {
	o := newOptions(DefaultHistoryKey, opts)
	return &HistoryStore{store: store, key: o.key, log: o.log}
}

// Key returns the key the history is persisted under.
func (h *HistoryStore) Key() string { return h.key }

// LoadAll replaces the in-memory history with the persisted one. An absent
// key yields an empty history. Unreadable or corrupt data also yields an
// empty history, together with a *model.PersistenceError.
func (h *HistoryStore) LoadAll(ctx context.Context) ([]model.TastingRecord, error) {
	var records []model.TastingRecord
	_, err := read(ctx, h.store, "history", h.key, &records)
	if err != nil {
		records = nil
		logFailure(ctx, h.log, "history could not be loaded, starting empty", err)
	}

	h.mu.Lock()
	h.records = records
	for _, r := range records {
		h.lastID = max(h.lastID, r.ID)
	}
	n := len(h.records)
	out := slices.Clone(h.records)
	h.mu.Unlock()

	metrics.UpdateHistorySize(n)
	return out, err
}

// NextID returns a record id derived from now in unix milliseconds,
// bumped so ids stay strictly increasing.
func (h *HistoryStore) NextID(now time.Time) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := max(now.UnixMilli(), h.lastID+1)
	h.lastID = id
	return id
}

// Append validates rec, adds it to the end of the history and persists the
// whole list.
func (h *HistoryStore) Append(ctx context.Context, rec model.TastingRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	h.lastID = max(h.lastID, rec.ID)
	metrics.UpdateHistorySize(len(h.records))

	if err := write(ctx, h.store, "history", h.key, h.records); err != nil {
		logFailure(ctx, h.log, "history not persisted, kept in memory", err)
		return err
	}
	return nil
}

// Clear empties the history and persists the empty list.
func (h *HistoryStore) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
	metrics.UpdateHistorySize(0)

	if err := write(ctx, h.store, "history", h.key, []model.TastingRecord{}); err != nil {
		logFailure(ctx, h.log, "cleared history not persisted", err)
		return err
	}
	return nil
}

// Records returns a copy of the history in insertion order.
func (h *HistoryStore) Records() []model.TastingRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.records)
}

// Len returns the number of records.
func (h *HistoryStore) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

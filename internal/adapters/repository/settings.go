package repository

import (
	"context"
	"sync"

	"github.com/okian/tasting/internal/adapters/kv"
	"github.com/okian/tasting/internal/domain/model"
	"github.com/okian/tasting/pkg/logger"
)

// SettingsStore holds the current settings and persists the full record on
// every change.
type SettingsStore struct {
	mu      sync.RWMutex
	store   kv.Store
	key     string
	log     logger.Logger
	current model.Settings
}

// NewSettingsStore creates a store holding the default settings.
func NewSettingsStore(store kv.Store, opts ...Option) *SettingsStore {
	o := newOptions(DefaultSettingsKey, opts)
	return &SettingsStore{store: store, key: o.key, log: o.log, current: model.DefaultSettings()}
}

// Key returns the key the settings are persisted under.
func (s *SettingsStore) Key() string { return s.key }

// Load reads the persisted settings. Fields missing from the stored record
// keep their defaults. Absent data yields the defaults; corrupt data yields
// the defaults and a *model.PersistenceError.
func (s *SettingsStore) Load(ctx context.Context) (model.Settings, error) {
	loaded := model.DefaultSettings()
	if _, err := read(ctx, s.store, "settings", s.key, &loaded); err != nil {
		logFailure(ctx, s.log, "settings could not be loaded, using defaults", err)
		loaded = model.DefaultSettings()
		s.set(loaded)
		return loaded, err
	}
	s.set(loaded)
	return loaded, nil
}

// Save replaces and persists the settings. The in-memory value changes even
// when the write fails.
func (s *SettingsStore) Save(ctx context.Context, settings model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = settings
	return s.persist(ctx)
}

// Update applies patch and persists the whole record.
func (s *SettingsStore) Update(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = patch.Apply(s.current)
	return s.current, s.persist(ctx)
}

// Reset restores and persists the defaults.
func (s *SettingsStore) Reset(ctx context.Context) error {
	return s.Save(ctx, model.DefaultSettings())
}

// Current returns the settings held in memory.
func (s *SettingsStore) Current() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *SettingsStore) set(v model.Settings) {
	s.mu.Lock()
	s.current = v
	s.mu.Unlock()
}

func (s *SettingsStore) persist(ctx context.Context) error {
	if err := write(ctx, s.store, "settings", s.key, s.current); err != nil {
		logFailure(ctx, s.log, "settings not persisted, kept in memory", err)
		return err
	}
	return nil
}

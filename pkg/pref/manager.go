package pref

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrDuplicateKey is returned by New when two definitions share a key.
	ErrDuplicateKey = errors.New("duplicate preference key")

	// ErrUnknownKey is returned for reads and writes of undeclared keys.
	ErrUnknownKey = errors.New("unknown preference key")
)

// ChangeOrigin tags where a cache write came from.
type ChangeOrigin string

const (
	// OriginSet marks a change written by the application through Set.
	OriginSet ChangeOrigin = "set"

	// OriginRemoteMerge marks a change merged from the remote backend.
	OriginRemoteMerge ChangeOrigin = "remote_merge"
)

// ChangeEvent describes one cache write.
type ChangeEvent struct {
	Key     string
	Storage StorageType
	Value   TypedValue
	Origin  ChangeOrigin
}

// ChangeFunc receives every cache write. Hooks must be non-blocking; any
// failure handling is the hook's own concern.
type ChangeFunc func(ctx context.Context, event ChangeEvent)

// Manager is the application-facing facade: it owns the declared-key table,
// the cache, and the collaborators that back each storage type, and drives
// the one-time startup load.
type Manager struct {
	defs  map[string]Definition
	order []string

	cache    *Cache
	local    Driver
	backend  RemoteBackend
	checker  ConnectivityChecker
	onChange ChangeFunc

	onComplete  CompletionFunc
	identity    string
	interval    time.Duration
	maxAttempts int
	logger      *slog.Logger
}

// New builds a Manager over the declared preferences. Keys must be unique;
// a duplicate declaration is rejected rather than silently overwriting the
// earlier one.
func New(defs []Definition, opts ...Option) (*Manager, error) {
	m := &Manager{
		defs:     make(map[string]Definition, len(defs)),
		order:    make([]string, 0, len(defs)),
		cache:    NewCache(),
		identity: "default",
		interval: DefaultRetryInterval,
		logger:   slog.Default(),
	}

	for _, def := range defs {
		if def.Key == "" {
			return nil, fmt.Errorf("preference key must not be empty")
		}
		if _, ok := m.defs[def.Key]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, def.Key)
		}
		m.defs[def.Key] = def
		m.order = append(m.order, def.Key)
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Cache exposes the underlying cache for embedders that need direct access.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Identity returns the identity the manager's stores are scoped to.
func (m *Manager) Identity() string {
	return m.identity
}

// Definition returns the declaration for key.
func (m *Manager) Definition(key string) (Definition, bool) {
	def, ok := m.defs[key]
	return def, ok
}

// Definitions returns all declarations in registration order.
func (m *Manager) Definitions() []Definition {
	out := make([]Definition, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.defs[key])
	}
	return out
}

// Load performs the one-time startup sequence: local-typed values are read
// from the local store straight into the cache, then a remote load session
// is started against the backend. The completion callback resolves exactly
// once; when no backend is configured it resolves immediately with
// (true, 0) so startup code awaiting it never hangs.
func (m *Manager) Load(ctx context.Context) {
	m.LoadLocal(ctx)

	if m.backend == nil {
		m.logger.Debug("no remote backend configured, skipping remote load")
		if m.onComplete != nil {
			m.onComplete(true, 0)
		}
		return
	}

	loader := m.newLoader()
	loader.Start(ctx)
}

// Reload performs a manual reload: an immediate one-shot fetch that merges
// every returned key and reports (success, 1) through the completion
// callback. It is independent of any periodic session, including one that
// has already exhausted its attempts.
func (m *Manager) Reload(ctx context.Context) bool {
	if m.backend == nil {
		m.logger.Debug("no remote backend configured, skipping manual reload")
		return false
	}

	return m.newLoader().RunOnce(ctx)
}

// Get returns the current value for a declared key: the cached value when
// one has been written or merged, otherwise the declared default.
func (m *Manager) Get(key string) (Value, error) {
	def, ok := m.defs[key]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return m.cache.Get(key, def.Default), nil
}

// GetString reads a string preference, coercing kind mismatches to the
// declared default's string form.
func (m *Manager) GetString(key string) (string, error) {
	def, ok := m.defs[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return m.cache.Get(key, def.Default).StringOr(def.Default.StringOr("")), nil
}

// GetBool reads a boolean preference.
func (m *Manager) GetBool(key string) (bool, error) {
	def, ok := m.defs[key]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return m.cache.Get(key, def.Default).BoolOr(def.Default.BoolOr(false)), nil
}

// GetInt reads an integer preference.
func (m *Manager) GetInt(key string) (int64, error) {
	def, ok := m.defs[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return m.cache.Get(key, def.Default).IntOr(def.Default.IntOr(0)), nil
}

// GetDouble reads a floating-point preference.
func (m *Manager) GetDouble(key string) (float64, error) {
	def, ok := m.defs[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return m.cache.Get(key, def.Default).DoubleOr(def.Default.DoubleOr(0)), nil
}

// GetStrings reads a string-sequence preference.
func (m *Manager) GetStrings(key string) ([]string, error) {
	def, ok := m.defs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return m.cache.Get(key, def.Default).StringsOr(def.Default.StringsOr(nil)), nil
}

// Set writes a declared preference. The cache is updated first and
// unconditionally, so a read immediately after Set observes the new value
// even if the backing write has not completed or later fails. Local-typed
// values are then handed to the local store and remote-typed values to the
// backend's upsert; failures there are logged and swallowed because the
// cache is a best-effort mirror, not a transactional ledger.
func (m *Manager) Set(ctx context.Context, key string, v Value) error {
	def, ok := m.defs[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	m.cache.Set(key, v)

	tv := Encode(v)
	switch def.Storage {
	case StorageLocal:
		if m.local == nil {
			m.logger.Debug("no local store configured, value is cache-only", "key", key)
			break
		}
		if err := m.local.Set(ctx, m.identity, key, tv); err != nil {
			m.logger.Error("local persist failed",
				"key", key,
				"identity", m.identity,
				"error", err,
			)
		}
	case StorageRemote:
		if m.backend == nil {
			m.logger.Debug("no remote backend configured, value is cache-only", "key", key)
			break
		}
		if err := m.backend.Upsert(ctx, key, tv); err != nil {
			m.logger.Error("remote upsert failed",
				"key", key,
				"error", err,
			)
		}
	case StorageVolatile:
		// Cache-only for the session.
	}

	m.notify(ctx, ChangeEvent{Key: key, Storage: def.Storage, Value: tv, Origin: OriginSet})
	return nil
}

// Clear resets a declared preference to its default by writing the default
// value through Set.
func (m *Manager) Clear(ctx context.Context, key string) error {
	def, ok := m.defs[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return m.Set(ctx, key, def.Default)
}

// LoadLocal reads every local-typed declaration from the local store into
// the cache. Missing keys simply stay at their declared default. Load calls
// this as its first step; one-shot callers can pair it with Reload to skip
// the periodic session.
func (m *Manager) LoadLocal(ctx context.Context) {
	if m.local == nil {
		return
	}

	for _, key := range m.order {
		def := m.defs[key]
		if def.Storage != StorageLocal {
			continue
		}

		tv, err := m.local.Get(ctx, m.identity, key)
		if err != nil {
			var notFound NotFoundError
			if !errors.As(err, &notFound) {
				m.logger.Warn("local read failed",
					"key", key,
					"identity", m.identity,
					"error", err,
				)
			}
			continue
		}

		m.cache.Set(key, Decode(tv.Value, tv.DataType))
	}
}

// newLoader builds a fresh load session bound to this manager's cache and
// collaborators.
func (m *Manager) newLoader() *Loader {
	return NewLoader(LoaderConfig{
		Backend:     m.backend,
		Cache:       m.cache,
		RemoteKeys:  m.remoteKeySet(),
		Checker:     m.checker,
		Interval:    m.interval,
		MaxAttempts: m.maxAttempts,
		OnComplete:  m.onComplete,
		OnMerge:     m.notifyMerge,
		Logger:      m.logger,
	})
}

func (m *Manager) remoteKeySet() map[string]bool {
	keys := make(map[string]bool)
	for key, def := range m.defs {
		if def.Storage == StorageRemote {
			keys[key] = true
		}
	}
	return keys
}

// notifyMerge reports a value merged from the remote backend.
func (m *Manager) notifyMerge(key string, v Value) {
	storageType := StorageRemote
	if def, ok := m.defs[key]; ok {
		storageType = def.Storage
	}
	m.notify(context.Background(), ChangeEvent{
		Key:     key,
		Storage: storageType,
		Value:   Encode(v),
		Origin:  OriginRemoteMerge,
	})
}

func (m *Manager) notify(ctx context.Context, event ChangeEvent) {
	if m.onChange == nil {
		return
	}
	m.onChange(ctx, event)
}

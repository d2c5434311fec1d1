package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/papercomputeco/prefs/pkg/pref"
)

// FetchResult is one scripted response from MockBackend.FetchAll.
type FetchResult struct {
	Prefs map[string]pref.TypedValue
	Err   error
}

// UpsertCall records one call to MockBackend.Upsert.
type UpsertCall struct {
	Key   string
	Value pref.TypedValue
}

// MockBackend is a test remote backend that replays scripted fetch results
// and records upserts. Safe for concurrent use since loaders fetch from a
// background goroutine.
type MockBackend struct {
	mu sync.Mutex

	// Results are consumed one per FetchAll call. Once drained, the last
	// result repeats.
	Results []FetchResult

	// Upserts accumulates all calls to Upsert.
	Upserts []UpsertCall

	// FailUpsert causes Upsert to return an error.
	FailUpsert bool

	fetchCalls int
}

// NewMockBackend creates a mock backend that replays the given results.
func NewMockBackend(results ...FetchResult) *MockBackend {
	return &MockBackend{Results: results}
}

func (m *MockBackend) FetchAll(_ context.Context) (map[string]pref.TypedValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.fetchCalls
	m.fetchCalls++

	if len(m.Results) == 0 {
		return nil, nil
	}
	if idx >= len(m.Results) {
		idx = len(m.Results) - 1
	}

	return m.Results[idx].Prefs, m.Results[idx].Err
}

func (m *MockBackend) Upsert(_ context.Context, key string, value pref.TypedValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailUpsert {
		return errors.New("mock upsert failure")
	}

	m.Upserts = append(m.Upserts, UpsertCall{Key: key, Value: value})
	return nil
}

// FetchCalls reports how many times FetchAll has been invoked.
func (m *MockBackend) FetchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls
}

// UpsertCalls returns a copy of the recorded upserts.
func (m *MockBackend) UpsertCalls() []UpsertCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]UpsertCall, len(m.Upserts))
	copy(out, m.Upserts)
	return out
}

// MockChecker is a connectivity checker with a switchable online state.
type MockChecker struct {
	mu     sync.Mutex
	online bool
}

// NewMockChecker creates a checker that starts in the given state.
func NewMockChecker(online bool) *MockChecker {
	return &MockChecker{online: online}
}

func (m *MockChecker) Online(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline flips the reported connectivity state.
func (m *MockChecker) SetOnline(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.online = online
}

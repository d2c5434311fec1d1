// Package inmemory provides a map-backed storage driver for tests and for
// hub deployments that do not need durability.
package inmemory

import (
	"context"
	"sync"

	"github.com/papercomputeco/prefs/pkg/pref"
	"github.com/papercomputeco/prefs/pkg/storage"
)

// Driver implements storage.Driver using nested in-memory maps.
type Driver struct {
	mu sync.RWMutex

	// prefs maps identity -> key -> encoded value.
	prefs map[string]map[string]pref.TypedValue
}

// NewDriver creates an empty in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		prefs: make(map[string]map[string]pref.TypedValue),
	}
}

// Get retrieves the stored value for one key.
func (d *Driver) Get(_ context.Context, identity, key string) (pref.TypedValue, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	v, ok := d.prefs[identity][key]
	if !ok {
		return pref.TypedValue{}, storage.NotFoundError{Identity: identity, Key: key}
	}
	return v, nil
}

// Set stores or overwrites the value for one key.
func (d *Driver) Set(_ context.Context, identity, key string, value pref.TypedValue) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, ok := d.prefs[identity]
	if !ok {
		m = make(map[string]pref.TypedValue)
		d.prefs[identity] = m
	}
	m[key] = value
	return nil
}

// All returns a copy of every stored key/value pair for the identity.
func (d *Driver) All(_ context.Context, identity string) (map[string]pref.TypedValue, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]pref.TypedValue, len(d.prefs[identity]))
	for k, v := range d.prefs[identity] {
		out[k] = v
	}
	return out, nil
}

// Delete removes one key. Absent keys are a no-op.
func (d *Driver) Delete(_ context.Context, identity, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.prefs[identity], key)
	return nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}

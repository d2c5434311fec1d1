package pref

import "context"

// Driver persists encoded preference values per identity. Implementations
// must be safe for concurrent use.
type Driver interface {
	// Get retrieves the stored value for one key. Returns NotFoundError
	// when the key has never been stored for the identity.
	Get(ctx context.Context, identity, key string) (TypedValue, error)

	// Set stores or overwrites the value for one key.
	Set(ctx context.Context, identity, key string, value TypedValue) error

	// All returns every stored key/value pair for the identity. A missing
	// identity yields an empty map, not an error.
	All(ctx context.Context, identity string) (map[string]TypedValue, error)

	// Delete removes one key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, identity, key string) error

	// Close releases driver resources.
	Close() error
}

// NotFoundError is returned when a preference has never been stored for the
// requested identity.
type NotFoundError struct {
	Identity string
	Key      string
}

func (e NotFoundError) Error() string {
	if e.Key == "" {
		return "preference not found"
	}

	return "preference not found: " + e.Identity + "/" + e.Key
}

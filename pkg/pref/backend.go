package pref

import "context"

// RemoteBackend is the port through which the loader and manager talk to a
// remote preference service. Callers implement it; the core only calls
// through it and never lets a backend failure escape to the application.
type RemoteBackend interface {
	// FetchAll returns every preference stored for the current identity.
	// A nil map with a nil error means "not ready" (for example, not yet
	// authenticated) and drives the retry loop; an empty non-nil map means
	// "ready, nothing stored".
	FetchAll(ctx context.Context) (map[string]TypedValue, error)

	// Upsert stores a single preference. Fire-and-forget from the core's
	// perspective: failures are logged by the caller of the port, never
	// retried.
	Upsert(ctx context.Context, key string, value TypedValue) error
}

// ConnectivityChecker is an optional collaborator consulted once per
// periodic tick before a fetch is attempted. Offline ticks are free
// retries: they do not advance the attempt counter.
type ConnectivityChecker interface {
	Online(ctx context.Context) bool
}

// CompletionFunc receives the outcome of a load session. It is invoked
// exactly once per session: success with the attempt number that succeeded,
// or failure with the number of attempts consumed.
type CompletionFunc func(success bool, attempts int)

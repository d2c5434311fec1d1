package pref

import (
	"log/slog"
	"time"
)

// Option configures a Manager created with New.
type Option func(*Manager)

// WithLocalStore sets the driver that persists local-typed preferences.
// Without one, local preferences behave like volatile preferences.
func WithLocalStore(d Driver) Option {
	return func(m *Manager) {
		m.local = d
	}
}

// WithRemoteBackend sets the port used to fetch and upsert remote-typed
// preferences. Without one, no remote load session is started.
func WithRemoteBackend(b RemoteBackend) Option {
	return func(m *Manager) {
		m.backend = b
	}
}

// WithConnectivity sets the checker consulted before each periodic fetch.
func WithConnectivity(c ConnectivityChecker) Option {
	return func(m *Manager) {
		m.checker = c
	}
}

// WithIdentity sets the identity the local store is scoped to. Defaults to
// "default".
func WithIdentity(identity string) Option {
	return func(m *Manager) {
		if identity != "" {
			m.identity = identity
		}
	}
}

// WithRetryInterval sets the fixed delay between periodic remote fetch
// attempts. Defaults to DefaultRetryInterval.
func WithRetryInterval(d time.Duration) Option {
	return func(m *Manager) {
		m.interval = d
	}
}

// WithMaxAttempts bounds counted remote fetch attempts; 0 means unbounded.
func WithMaxAttempts(n int) Option {
	return func(m *Manager) {
		m.maxAttempts = n
	}
}

// WithCompletion sets the callback that receives each load session's
// outcome exactly once.
func WithCompletion(fn CompletionFunc) Option {
	return func(m *Manager) {
		m.onComplete = fn
	}
}

// WithOnChange sets a hook invoked after every cache write, whether from
// Set or from a remote merge. The hook must not block; failures are its own
// concern. eventstream.ChangeNotifier adapts a Publisher into this hook.
func WithOnChange(fn ChangeFunc) Option {
	return func(m *Manager) {
		m.onChange = fn
	}
}

// WithLogger overrides the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

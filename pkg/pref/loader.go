package pref

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultRetryInterval is the fixed delay between periodic fetch attempts
// when no interval is configured.
const DefaultRetryInterval = 10 * time.Second

// LoaderConfig configures a single load session.
type LoaderConfig struct {
	// Backend is the remote preference port. Required.
	Backend RemoteBackend

	// Cache receives merged values. Required.
	Cache *Cache

	// RemoteKeys is the set of declared remote-typed keys. Periodic merges
	// are filtered down to this set; manual reloads are not.
	RemoteKeys map[string]bool

	// Checker gates each periodic tick when non-nil. Offline ticks skip the
	// fetch without consuming an attempt.
	Checker ConnectivityChecker

	// Interval is the fixed delay between periodic attempts. Defaults to
	// DefaultRetryInterval. The first attempt fires after one interval.
	Interval time.Duration

	// MaxAttempts bounds counted attempts; 0 means unbounded.
	MaxAttempts int

	// OnComplete, when non-nil, receives the session outcome exactly once.
	OnComplete CompletionFunc

	// OnMerge, when non-nil, is invoked for every key merged into the cache.
	OnMerge func(key string, v Value)

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Loader is one load session: it drives the remote backend on a retry
// schedule, merges fetched preferences into the cache, and settles exactly
// once. A Loader is created per load attempt (startup or manual reload) and
// is done once settled; it is not restartable.
//
// State machine: Idle -> Attempting -> {Succeeded, Exhausted}. Both terminal
// states stop the timer and fire the completion callback once.
type Loader struct {
	backend     RemoteBackend
	cache       *Cache
	remoteKeys  map[string]bool
	checker     ConnectivityChecker
	interval    time.Duration
	maxAttempts int
	onComplete  CompletionFunc
	onMerge     func(key string, v Value)
	logger      *slog.Logger

	id       string
	attempts int
	once     sync.Once
	settled  atomic.Bool
	done     chan struct{}
}

// NewLoader creates a load session from cfg.
func NewLoader(cfg LoaderConfig) *Loader {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{
		backend:     cfg.Backend,
		cache:       cfg.Cache,
		remoteKeys:  cfg.RemoteKeys,
		checker:     cfg.Checker,
		interval:    interval,
		maxAttempts: cfg.MaxAttempts,
		onComplete:  cfg.OnComplete,
		onMerge:     cfg.OnMerge,
		logger:      logger,
		id:          uuid.NewString(),
		done:        make(chan struct{}),
	}
}

// Start begins the periodic session in a background goroutine. The first
// attempt fires after one interval tick.
func (l *Loader) Start(ctx context.Context) {
	go l.run(ctx)
}

// Settled reports whether the session has reached a terminal state.
func (l *Loader) Settled() bool {
	return l.settled.Load()
}

// Done is closed when the session settles.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

func (l *Loader) run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Debug("remote load session started",
		"session", l.id,
		"interval", l.interval,
		"max_attempts", l.maxAttempts,
	)

	for {
		select {
		case <-ctx.Done():
			l.logger.Warn("remote load session cancelled",
				"session", l.id,
				"attempts", l.attempts,
			)
			l.settle(false, l.attempts)
			return
		case <-ticker.C:
			if l.tick(ctx) {
				return
			}
		}
	}
}

// tick performs one periodic attempt. It returns true once the session has
// settled so the caller stops the timer.
func (l *Loader) tick(ctx context.Context) bool {
	if l.checker != nil && !l.checker.Online(ctx) {
		// Free retry: no connectivity means no fetch and no counted attempt.
		l.logger.Debug("offline, skipping fetch", "session", l.id)
		return false
	}

	prefs, err := l.backend.FetchAll(ctx)
	if err == nil && prefs != nil {
		merged := l.merge(prefs, true)
		l.logger.Info("remote preferences merged",
			"session", l.id,
			"fetched", len(prefs),
			"merged", merged,
			"attempt", l.attempts+1,
		)
		l.settle(true, l.attempts+1)
		return true
	}

	l.attempts++
	if err != nil {
		l.logger.Warn("remote fetch failed",
			"session", l.id,
			"attempt", l.attempts,
			"error", err,
		)
	} else {
		l.logger.Warn("remote backend not ready",
			"session", l.id,
			"attempt", l.attempts,
		)
	}

	if l.maxAttempts > 0 && l.attempts >= l.maxAttempts {
		l.logger.Error("remote load attempts exhausted",
			"session", l.id,
			"attempts", l.attempts,
		)
		l.settle(false, l.attempts)
		return true
	}

	return false
}

// RunOnce performs a manual reload: a single immediate fetch that bypasses
// both the timer and the connectivity gate and merges every returned key,
// not just remote-declared ones. The outcome is reported as (success, 1)
// through the session's completion callback and returned.
func (l *Loader) RunOnce(ctx context.Context) bool {
	prefs, err := l.backend.FetchAll(ctx)
	if err != nil || prefs == nil {
		if err != nil {
			l.logger.Warn("manual reload failed", "session", l.id, "error", err)
		} else {
			l.logger.Warn("manual reload: backend not ready", "session", l.id)
		}
		l.settle(false, 1)
		return false
	}

	merged := l.merge(prefs, false)
	l.logger.Info("manual reload merged",
		"session", l.id,
		"fetched", len(prefs),
		"merged", merged,
	)
	l.settle(true, 1)
	return true
}

// merge decodes fetched values into the cache. When filterRemote is set,
// keys outside the declared remote set are dropped.
func (l *Loader) merge(prefs map[string]TypedValue, filterRemote bool) int {
	merged := 0
	for key, tv := range prefs {
		if filterRemote && !l.remoteKeys[key] {
			continue
		}
		v := Decode(tv.Value, tv.DataType)
		l.cache.Set(key, v)
		if l.onMerge != nil {
			l.onMerge(key, v)
		}
		merged++
	}
	return merged
}

// settle transitions to a terminal state exactly once: it marks the session
// settled, closes Done, and fires the completion callback.
func (l *Loader) settle(success bool, attempts int) {
	l.once.Do(func() {
		l.settled.Store(true)
		close(l.done)
		if l.onComplete != nil {
			l.onComplete(success, attempts)
		}
	})
}

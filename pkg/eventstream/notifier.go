package eventstream

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/prefs/pkg/pref"
)

// ChangeNotifier adapts a Publisher into a pref.ChangeFunc suitable for
// pref.WithOnChange. Publish failures are logged and swallowed so a broker
// outage never surfaces to preference reads or writes.
func ChangeNotifier(p Publisher, identity string, logger *slog.Logger) pref.ChangeFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, change pref.ChangeEvent) {
		event := &PreferenceChangedEvent{
			SchemaVersion: SchemaVersionV1,
			EventType:     EventTypePreferenceChanged,
			EventID:       uuid.NewString(),
			EmittedAt:     time.Now().UTC(),
			Identity:      identity,
			Key:           change.Key,
			Storage:       change.Storage.String(),
			Value:         change.Value,
			Origin:        string(change.Origin),
		}

		if err := p.PublishChange(ctx, event); err != nil {
			logger.Warn("change event publish failed",
				"key", change.Key,
				"origin", change.Origin,
				"error", err,
			)
		}
	}
}

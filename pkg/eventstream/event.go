// Package eventstream publishes preference-change events to an event stream
// backend. Publishing is best-effort: the manager logs and swallows publish
// failures so a broker outage never affects preference reads or writes.
package eventstream

import (
	"time"

	"github.com/papercomputeco/prefs/pkg/pref"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypePreferenceChanged is emitted after a preference value lands
	// in the cache.
	EventTypePreferenceChanged = "prefs.preference.changed"
)

// PreferenceChangedEvent is a transport-neutral event payload for a changed
// preference value.
type PreferenceChangedEvent struct {
	SchemaVersion int             `json:"schema_version"`
	EventType     string          `json:"event_type"`
	EventID       string          `json:"event_id"`
	EmittedAt     time.Time       `json:"emitted_at"`
	Identity      string          `json:"identity"`
	Key           string          `json:"key"`
	Storage       string          `json:"storage"`
	Value         pref.TypedValue `json:"value"`
	Origin        string          `json:"origin"`
}

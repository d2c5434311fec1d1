package eventstream

import "context"

// Publisher publishes preference-change events to an event stream backend.
type Publisher interface {
	PublishChange(ctx context.Context, event *PreferenceChangedEvent) error
	Close() error
}

package nop

import (
	"context"

	"github.com/papercomputeco/prefs/pkg/eventstream"
)

// Publisher is a no-op eventstream publisher used for tests and disabled mode.
type Publisher struct{}

// NewPublisher creates a new no-op eventstream publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishChange validates input and otherwise does nothing.
func (p *Publisher) PublishChange(_ context.Context, event *eventstream.PreferenceChangedEvent) error {
	if event == nil {
		return eventstream.ErrNilChangeEvent
	}

	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}

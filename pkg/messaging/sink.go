package messaging

import (
	"context"
)

// Topics published by the reminder generator.
const (
	TopicReminders = "reminders"
)

// Sink is where generated notification events are published. The scheduler
// itself never publishes; only the reminder generator does.
type Sink interface {
	Publish(ctx context.Context, topic string, event interface{}) error
	Close() error
}

// NoopSink discards all events. Used when messaging is disabled and in tests.
type NoopSink struct{}

func (NoopSink) Publish(ctx context.Context, topic string, event interface{}) error {
	return nil
}

func (NoopSink) Close() error {
	return nil
}

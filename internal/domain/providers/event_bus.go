package providers

import (
	"context"

	"github.com/divetribe/divedirectory/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// operator change events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.OperatorEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.OperatorEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelOperatorUpdates is the channel for all operator updates
	EventChannelOperatorUpdates = "operator:updates"

	// EventChannelOperatorPrefix is the prefix for operator-specific channels
	EventChannelOperatorPrefix = "operator:"
)

// GetOperatorChannel returns the channel name for a specific operator
func GetOperatorChannel(operatorID string) string {
	return EventChannelOperatorPrefix + operatorID
}

package broadcast

//go:generate mockgen -package=mocks -destination=mocks/mock_broadcaster.go github.com/draftverse/draftroom/internal/broadcast Broadcaster

import (
	"context"
)

// Broadcaster is the per-room best-effort event channel. Delivery is
// at-least-once at best and unordered with respect to storage; durable
// state lives in the repositories, not here.
type Broadcaster interface {
	// Publish sends an event to everyone subscribed to the room
	Publish(ctx context.Context, input *PublishInput) error

	// Subscribe opens a stream of events for one room. The returned
	// cancel function closes the stream and its channel.
	Subscribe(ctx context.Context, input *SubscribeInput) (*Subscription, error)
}

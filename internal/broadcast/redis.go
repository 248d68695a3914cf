package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "room_events:"

// ErrPayloadTooLarge is returned when a payload exceeds MaxPayloadBytes
var ErrPayloadTooLarge = errors.New("broadcast payload exceeds size ceiling")

// Config holds configuration for the Redis broadcaster
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisBroadcaster implements the Broadcaster interface using Redis PUB/SUB
type redisBroadcaster struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed broadcaster
func NewRedis(cfg *Config) (*redisBroadcaster, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisBroadcaster{
		client: cfg.RedisClient,
	}, nil
}

// Publish sends an event to the room's channel
func (b *redisBroadcaster) Publish(ctx context.Context, input *PublishInput) error {
	if input == nil || input.RoomID == "" || input.Event == "" {
		return errors.New("input, room ID and event cannot be empty")
	}

	var payload json.RawMessage
	if input.Payload != nil {
		data, err := json.Marshal(input.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		payload = data
	}

	msg := Message{
		RoomID:   input.RoomID,
		Event:    input.Event,
		SenderID: input.SenderID,
		Payload:  payload,
	}

	msgJSON, err := json.Marshal(&msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if len(msgJSON) > MaxPayloadBytes {
		return ErrPayloadTooLarge
	}

	channel := fmt.Sprintf("%s%s", channelPrefix, input.RoomID)
	if err := b.client.Publish(ctx, channel, msgJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Subscribe opens a stream of events for one room
func (b *redisBroadcaster) Subscribe(ctx context.Context, input *SubscribeInput) (*Subscription, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.New("input and room ID cannot be empty")
	}

	channel := fmt.Sprintf("%s%s", channelPrefix, input.RoomID)
	pubsub := b.client.Subscribe(ctx, channel)

	// Force the subscription onto the wire before returning, so callers
	// never miss events published right after Subscribe
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to room events: %w", err)
	}

	out := make(chan Message)
	done := make(chan struct{})

	go func() {
		defer close(out)
		src := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case raw, ok := <-src:
				if !ok {
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
					// Malformed events are dropped; state recovery goes
					// through the repository, not the channel
					continue
				}
				select {
				case out <- msg:
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}

	return &Subscription{
		Messages: out,
		Cancel:   cancel,
	}, nil
}

package broadcast

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisBroadcasterTestSuite struct {
	suite.Suite
	mr          *miniredis.Miniredis
	client      *redis.Client
	broadcaster Broadcaster
	ctx         context.Context
}

func (s *RedisBroadcasterTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	// Create a Redis client connected to the miniredis server
	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	// Create the broadcaster
	broadcaster, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.broadcaster = broadcaster

	s.ctx = context.Background()
}

func (s *RedisBroadcasterTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisBroadcasterTestSuite(t *testing.T) {
	suite.Run(t, new(RedisBroadcasterTestSuite))
}

// receive waits for one message with a timeout
func (s *RedisBroadcasterTestSuite) receive(sub *Subscription) Message {
	select {
	case msg, ok := <-sub.Messages:
		s.Require().True(ok, "subscription closed before a message arrived")
		return msg
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for broadcast")
		return Message{}
	}
}

func (s *RedisBroadcasterTestSuite) TestPublishAndSubscribe() {
	sub, err := s.broadcaster.Subscribe(s.ctx, &SubscribeInput{RoomID: "room-1"})
	s.Require().NoError(err)
	defer sub.Cancel()

	err = s.broadcaster.Publish(s.ctx, &PublishInput{
		RoomID:  "room-1",
		Event:   EventStateUpdated,
		Payload: map[string]int{"round": 3},
	})
	s.Require().NoError(err)

	msg := s.receive(sub)
	s.Equal("room-1", msg.RoomID)
	s.Equal(EventStateUpdated, msg.Event)

	var payload map[string]int
	s.Require().NoError(json.Unmarshal(msg.Payload, &payload))
	s.Equal(3, payload["round"])
}

func (s *RedisBroadcasterTestSuite) TestRoomsAreIsolated() {
	sub, err := s.broadcaster.Subscribe(s.ctx, &SubscribeInput{RoomID: "room-1"})
	s.Require().NoError(err)
	defer sub.Cancel()

	err = s.broadcaster.Publish(s.ctx, &PublishInput{
		RoomID: "room-2",
		Event:  EventPlayerJoined,
	})
	s.Require().NoError(err)

	err = s.broadcaster.Publish(s.ctx, &PublishInput{
		RoomID: "room-1",
		Event:  EventPlayerLeft,
	})
	s.Require().NoError(err)

	// Only the room-1 event arrives
	msg := s.receive(sub)
	s.Equal(EventPlayerLeft, msg.Event)
}

func (s *RedisBroadcasterTestSuite) TestPublishRejectsOversizedPayload() {
	err := s.broadcaster.Publish(s.ctx, &PublishInput{
		RoomID:  "room-1",
		Event:   EventStateUpdated,
		Payload: strings.Repeat("x", MaxPayloadBytes+1),
	})
	s.ErrorIs(err, ErrPayloadTooLarge)
}

func (s *RedisBroadcasterTestSuite) TestPublishWithoutPayload() {
	sub, err := s.broadcaster.Subscribe(s.ctx, &SubscribeInput{RoomID: "room-1"})
	s.Require().NoError(err)
	defer sub.Cancel()

	err = s.broadcaster.Publish(s.ctx, &PublishInput{
		RoomID: "room-1",
		Event:  EventGameStarted,
	})
	s.Require().NoError(err)

	msg := s.receive(sub)
	s.Equal(EventGameStarted, msg.Event)
	s.Empty(msg.Payload)
}

func (s *RedisBroadcasterTestSuite) TestCancelClosesStream() {
	sub, err := s.broadcaster.Subscribe(s.ctx, &SubscribeInput{RoomID: "room-1"})
	s.Require().NoError(err)

	sub.Cancel()

	// Cancel is idempotent
	sub.Cancel()

	select {
	case _, ok := <-sub.Messages:
		s.False(ok)
	case <-time.After(2 * time.Second):
		s.FailNow("stream did not close after cancel")
	}
}

func (s *RedisBroadcasterTestSuite) TestMultipleSubscribersReceiveEachEvent() {
	subA, err := s.broadcaster.Subscribe(s.ctx, &SubscribeInput{RoomID: "room-1"})
	s.Require().NoError(err)
	defer subA.Cancel()

	subB, err := s.broadcaster.Subscribe(s.ctx, &SubscribeInput{RoomID: "room-1"})
	s.Require().NoError(err)
	defer subB.Cancel()

	err = s.broadcaster.Publish(s.ctx, &PublishInput{
		RoomID: "room-1",
		Event:  EventChatMessage,
	})
	s.Require().NoError(err)

	s.Equal(EventChatMessage, s.receive(subA).Event)
	s.Equal(EventChatMessage, s.receive(subB).Event)
}

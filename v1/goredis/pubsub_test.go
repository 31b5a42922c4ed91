package goredis

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

func newPumpedSubscription(buffer int) (*subscription, chan *redis.Message) {
	src := make(chan *redis.Message)
	s := &subscription{
		stop:     func() error { return nil },
		messages: make(chan driver.Message, buffer),
		done:     make(chan struct{}),
	}
	go s.pump(src)
	return s, src
}

func TestSubscriptionDelivers(t *testing.T) {
	s, src := newPumpedSubscription(8)
	defer s.Close()

	src <- &redis.Message{Channel: "orders", Pattern: "orders", Payload: "o-1"}

	select {
	case msg := <-s.Messages():
		assert.Equal(t, "orders", msg.Channel)
		assert.Equal(t, []byte("o-1"), msg.Payload)
	case <-time.After(time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestSubscriptionCloseUnblocksPump(t *testing.T) {
	s, src := newPumpedSubscription(1)

	// Fill the delivery buffer and leave the pump blocked mid-send with no
	// reader on the other end.
	src <- &redis.Message{Channel: "a", Payload: "1"}
	src <- &redis.Message{Channel: "a", Payload: "2"}

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "closing twice is a no-op")

	// The pump must exit and close the delivery channel despite the
	// undelivered backlog.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-s.Messages():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("pump did not exit after Close")
		}
	}
}

func TestSubscriptionSourceCloseEndsDelivery(t *testing.T) {
	s, src := newPumpedSubscription(8)
	defer s.Close()

	close(src)

	select {
	case _, ok := <-s.Messages():
		assert.False(t, ok, "delivery channel must close with the source")
	case <-time.After(time.Second):
		t.Fatal("delivery channel did not close")
	}
}

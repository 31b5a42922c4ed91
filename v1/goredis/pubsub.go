package goredis

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

// subscription adapts *redis.PubSub to driver.Subscription. A pump
// goroutine converts go-redis messages into the vendor-neutral shape; it
// exits, closing Messages, when the underlying PubSub closes or the
// subscription is closed with deliveries still pending.
type subscription struct {
	stop     func() error
	messages chan driver.Message
	done     chan struct{}
	once     sync.Once
}

var _ driver.Subscription = (*subscription)(nil)

func newSubscription(ps *redis.PubSub) *subscription {
	s := &subscription{
		stop:     ps.Close,
		messages: make(chan driver.Message, 64),
		done:     make(chan struct{}),
	}
	go s.pump(ps.Channel())
	return s
}

func (s *subscription) pump(src <-chan *redis.Message) {
	defer close(s.messages)
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-src:
			if !ok {
				return
			}
			select {
			case s.messages <- driver.Message{
				Channel: msg.Channel,
				Pattern: msg.Pattern,
				Payload: []byte(msg.Payload),
			}:
			case <-s.done:
				return
			}
		}
	}
}

// Messages returns the delivery channel. It is closed after Close.
func (s *subscription) Messages() <-chan driver.Message {
	return s.messages
}

// Close unsubscribes and stops the pump, even when undelivered messages
// remain. Closing twice is a no-op.
func (s *subscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = translate(s.stop())
	})
	return err
}

// Subscribe implements driver.Subscriber for plain channels.
func (f *Factory) Subscribe(ctx context.Context, channels ...string) (driver.Subscription, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil, driver.ErrClosed
	}
	return newSubscription(f.client.Subscribe(ctx, channels...)), nil
}

// PSubscribe implements driver.Subscriber for patterns.
func (f *Factory) PSubscribe(ctx context.Context, patterns ...string) (driver.Subscription, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil, driver.ErrClosed
	}
	return newSubscription(f.client.PSubscribe(ctx, patterns...)), nil
}

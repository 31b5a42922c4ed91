package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

type fakeSubscription struct {
	messages chan driver.Message
	once     sync.Once
}

func (s *fakeSubscription) Messages() <-chan driver.Message { return s.messages }

func (s *fakeSubscription) Close() error {
	s.once.Do(func() { close(s.messages) })
	return nil
}

// fakeSubscriber is a factory with subscription support; it hands out one
// fakeSubscription per Subscribe/PSubscribe call.
type fakeSubscriber struct {
	mu   sync.Mutex
	subs []*fakeSubscription
}

func (f *fakeSubscriber) Conn(ctx context.Context) (driver.Conn, error) { return nil, nil }
func (f *fakeSubscriber) Close() error                                  { return nil }

func (f *fakeSubscriber) newSub() *fakeSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub := &fakeSubscription{messages: make(chan driver.Message, 8)}
	f.subs = append(f.subs, sub)
	return sub
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, channels ...string) (driver.Subscription, error) {
	return f.newSub(), nil
}

func (f *fakeSubscriber) PSubscribe(ctx context.Context, patterns ...string) (driver.Subscription, error) {
	return f.newSub(), nil
}

// plainFactory has no subscription capability.
type plainFactory struct{}

func (plainFactory) Conn(ctx context.Context) (driver.Conn, error) { return nil, nil }
func (plainFactory) Close() error                                  { return nil }

func TestContainerDispatchesMessages(t *testing.T) {
	factory := &fakeSubscriber{}
	container := NewContainer(factory)

	received := make(chan driver.Message, 8)
	container.Handle(func(ctx context.Context, msg driver.Message) {
		received <- msg
	}, "orders")

	require.NoError(t, container.Start(context.Background()))
	defer container.Stop()

	factory.subs[0].messages <- driver.Message{Channel: "orders", Payload: []byte("o-1")}

	select {
	case msg := <-received:
		assert.Equal(t, "orders", msg.Channel)
		assert.Equal(t, []byte("o-1"), msg.Payload)
	case <-time.After(time.Second):
		t.Fatal("message was not dispatched")
	}
}

func TestContainerPatternHandlers(t *testing.T) {
	factory := &fakeSubscriber{}
	container := NewContainer(factory)

	var mu sync.Mutex
	var seen []string
	container.HandlePattern(func(ctx context.Context, msg driver.Message) {
		mu.Lock()
		seen = append(seen, msg.Pattern)
		mu.Unlock()
	}, "events.*")

	require.NoError(t, container.Start(context.Background()))
	defer container.Stop()

	factory.subs[0].messages <- driver.Message{Channel: "events.user", Pattern: "events.*"}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1 && seen[0] == "events.*"
	}, time.Second, 10*time.Millisecond)
}

func TestContainerStartStop(t *testing.T) {
	factory := &fakeSubscriber{}
	container := NewContainer(factory)
	container.Handle(func(context.Context, driver.Message) {}, "a")

	require.NoError(t, container.Start(context.Background()))
	assert.Error(t, container.Start(context.Background()), "double start must fail")

	require.NoError(t, container.Stop())
	require.NoError(t, container.Stop(), "stopping a stopped container is a no-op")

	// The container can be started again after a stop.
	require.NoError(t, container.Start(context.Background()))
	require.NoError(t, container.Stop())
}

func TestContainerRequiresSubscriber(t *testing.T) {
	container := NewContainer(plainFactory{})
	container.Handle(func(context.Context, driver.Message) {}, "a")

	err := container.Start(context.Background())
	assert.ErrorIs(t, err, driver.ErrNotSupported)
}

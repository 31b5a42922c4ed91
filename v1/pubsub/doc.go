// Package pubsub runs message listeners over a backend's subscription
// capability.
//
// A Container owns a set of handler registrations (channels or patterns)
// and, once started, a goroutine per subscription dispatching incoming
// messages to the registered handler. It requires a factory implementing
// driver.Subscriber; backends without subscription support report
// driver.ErrNotSupported at Start.
//
// # Usage
//
//	container := pubsub.NewContainer(factory)
//	container.Handle(func(ctx context.Context, msg driver.Message) {
//		process(msg.Payload)
//	}, "orders", "payments")
//
//	if err := container.Start(ctx); err != nil {
//		return err
//	}
//	defer container.Stop()
//
// Handlers run sequentially per subscription; a slow handler delays
// later messages of its own subscription but not those of others.
package pubsub

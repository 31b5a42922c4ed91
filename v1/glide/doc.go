// Package glide implements the redisbridge driver contract on top of
// github.com/valkey-io/valkey-glide/go/v2.
//
// The package deliberately depends on a minimal slice of the GLIDE API
// (the Commands interface: Get, SetWithOptions, InvokeScriptWithOptions),
// which both *glide.Client and *glide.ClusterClient satisfy. Everything
// outside that surface is routed through generated redis.call Lua scripts,
// with keys passed as KEYS so cluster deployments route correctly.
//
// # Batching
//
// Pipelined and queued modes buffer commands client-side and flush them as
// a single Lua batch script. Each buffered command runs under pcall and
// reports a tagged triple (nil / value / error), which the shared
// deferred-result queue converts and defaults positionally. Script
// execution is atomic on the server, so the queued (Multi/Exec) mode gets
// MULTI/EXEC semantics from the batch itself.
//
// Limitations inherited from the script transport:
//   - WATCH is not available; the factory does not implement
//     driver.WatchSupport and optimistic transactions report
//     driver.ErrNotSupported
//   - pub/sub subscriptions are not available through this backend
//   - Eval cannot be buffered (scripts do not nest); calling it while
//     batching reports driver.ErrNotSupported
//   - on cluster deployments all keys of one batch must hash to the same
//     slot (use hash tags)
//
// # Usage
//
//	client, err := glidelib.NewClient(cfg) // *glide.Client
//	if err != nil {
//		return err
//	}
//	factory := glide.NewFactory(client)
//	defer factory.Close()
//
//	conn, err := factory.Conn(ctx)
//	if err != nil {
//		return err
//	}
//	value, err := conn.Get(ctx, "greeting")
package glide

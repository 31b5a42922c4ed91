// Package goredis implements the redisbridge driver contract on top of
// github.com/redis/go-redis/v9.
//
// The package maps the vendor-neutral command API onto go-redis, delegating
// connection pooling, retries, and cluster routing to the underlying client.
// Its own responsibilities are connection acquisition, the
// pipelined/queued/direct execution-mode machine, reply-shape conversion,
// and translation of go-redis errors into the driver hierarchy.
//
// # Architecture
//
//   - Factory: wraps a redis.UniversalClient and hands out driver.Conn
//     values; also implements the WatchSupport and Subscriber capabilities
//   - conn: the driver.Conn implementation; while batching it targets a
//     redis.Pipeliner and registers deferred results that harvest the
//     Cmder values after the flush
//   - NewFactory / NewClusterFactory / NewFailoverFactory: constructors for
//     standalone, cluster, and sentinel deployments with defaulted configs
//     and optional TLS
//
// # Direct usage
//
//	factory, err := goredis.NewFactory(goredis.Config{
//		Host: "localhost",
//		Port: 6379,
//	})
//	if err != nil {
//		return err
//	}
//	defer factory.Close()
//
//	conn, err := factory.Conn(ctx)
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	_, err = conn.Set(ctx, "greeting", []byte("hello"), driver.SetOptions{})
//
// # Pipelining
//
//	conn.OpenPipeline()
//	conn.Incr(ctx, "hits")            // returns 0, nil: deferred
//	conn.Get(ctx, "greeting")         // returns nil, nil: deferred
//	results, err := conn.ClosePipeline(ctx)
//	// results[0] = int64 hit count, results[1] = []byte greeting
//
// # FX module integration
//
// FXModule provides the factory to an fx application, pings the server on
// start, and closes the client on stop. See fx_module.go.
package goredis

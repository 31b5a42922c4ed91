// Package driver defines the vendor-neutral Redis command API that the
// redisbridge backends implement.
//
// The driver package offers a byte-oriented command surface (string keys,
// []byte values), an execution-mode state machine for pipelining and
// MULTI/EXEC batching, reply converters, and a common error hierarchy that
// backends translate their client-native failures into.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - Conn interface: the vendor-neutral command contract, composed of
//     per-data-type command groups
//   - Factory interface: connection acquisition and teardown
//   - Capability interfaces (WatchSupport, Subscriber): driver-specific
//     features discovered by type assertion rather than widening Conn
//
// Concrete implementations live in the sibling packages:
//   - v1/goredis: backend over github.com/redis/go-redis/v9
//   - v1/glide:   backend over github.com/valkey-io/valkey-glide/go/v2
//
// # Execution modes
//
// A Conn is in exactly one of three modes:
//
//   - direct: every command is sent immediately and its reply is returned
//     from the calling method.
//   - pipelined (after OpenPipeline): commands are buffered and their
//     methods return zero values with a nil error. The real replies arrive
//     from ClosePipeline, converted and defaulted in issue order.
//   - queued (after Multi): like pipelined, but the batch executes as a
//     MULTI/EXEC transaction when Exec is called, or is dropped by Discard.
//
// The deferred-result machinery shared by backends lives in ResultQueue:
// each buffered command registers a FutureResult carrying the resolver that
// will produce the raw reply after the flush, the converter that maps it to
// the caller-facing type, and the default substituted for nil replies.
//
// # Errors
//
// Callers never see backend error types. Backends translate into the
// sentinel hierarchy in errors.go (ErrNil, ErrTimeout, ErrConnFailure,
// ErrTxAborted, ...) and wrap command failures in *CommandError so the
// failing command name survives the translation.
package driver

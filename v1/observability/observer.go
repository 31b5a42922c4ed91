// Package observability defines the observer contract shared by all
// redisbridge backends. Backends report every executed command (and every
// pipeline or transaction flush) to an optional Observer; implementations
// turn those events into metrics, traces, or logs.
package observability

import "time"

// OperationContext carries the details of a single observed operation.
type OperationContext struct {
	// Component identifies the reporting package, e.g. "goredis" or "glide".
	Component string

	// Operation is the lowercase command or action name, e.g. "get",
	// "pipeline_flush", "exec".
	Operation string

	// Resource is the primary key (or channel) the operation acted on.
	Resource string

	// SubResource is additional context such as a hash field.
	SubResource string

	// Duration is the wall-clock time the operation took.
	Duration time.Duration

	// Error is the translated error, nil on success. A key miss is not
	// reported as an error.
	Error error

	// Size is an operation-specific magnitude: reply bytes for reads,
	// batched command count for flushes.
	Size int64

	// Metadata holds optional operation-specific attributes.
	Metadata map[string]interface{}
}

// Observer receives operation events from backends.
//
// Implementations must be safe for concurrent use; backends call
// ObserveOperation from whatever goroutine issued the command.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

package driver

import "errors"

// futureResult is one buffered command awaiting its real reply. The
// resolver is installed by the backend when the command is queued and only
// becomes meaningful after the batch has been flushed.
type futureResult struct {
	cmd     string
	resolve func() (any, error)
	convert ConvertFunc
	def     any
}

// ResultQueue is the deferred-result state carried by a connection while it
// is pipelined or queueing. Commands register a future per call; after the
// backend flushes the batch, Resolve walks the futures in issue order,
// translating nil replies into per-command defaults and applying each
// command's converter.
//
// A ResultQueue is single-goroutine state, it is not safe for concurrent
// use. This matches the Conn contract: a batching connection must not be
// shared.
type ResultQueue struct {
	mode    Mode
	entries []futureResult
}

// NewResultQueue creates an empty queue for the given batching mode.
func NewResultQueue(mode Mode) *ResultQueue {
	return &ResultQueue{mode: mode}
}

// Mode reports which batching mode the queue belongs to.
func (q *ResultQueue) Mode() Mode {
	return q.mode
}

// Len returns the number of buffered commands.
func (q *ResultQueue) Len() int {
	return len(q.entries)
}

// Defer registers a buffered command.
//
//   - cmd: lowercase command name, used in error wrapping
//   - resolve: produces the raw reply once the batch has been flushed
//   - convert: optional mapping onto the caller-facing type
//   - def: substituted when the reply is nil (a key miss inside a batch is
//     a value, not an error)
func (q *ResultQueue) Defer(cmd string, resolve func() (any, error), convert ConvertFunc, def any) {
	q.entries = append(q.entries, futureResult{
		cmd:     cmd,
		resolve: resolve,
		convert: convert,
		def:     def,
	})
}

// Resolve materializes all buffered results in issue order.
//
// Every future is resolved even after a failure so the result slice always
// has one slot per issued command; failed slots hold nil. The first command
// failure is returned as the error, wrapped with its command name.
func (q *ResultQueue) Resolve() ([]any, error) {
	results := make([]any, len(q.entries))
	var firstErr error

	for i, entry := range q.entries {
		raw, err := entry.resolve()
		if err != nil {
			if errors.Is(err, ErrNil) {
				results[i] = entry.def
				continue
			}
			if firstErr == nil {
				firstErr = WrapCommand(entry.cmd, err)
			}
			continue
		}
		if raw == nil {
			results[i] = entry.def
			continue
		}
		if entry.convert == nil {
			results[i] = raw
			continue
		}
		converted, err := entry.convert(raw)
		if err != nil {
			if errors.Is(err, ErrNil) {
				results[i] = entry.def
				continue
			}
			if firstErr == nil {
				firstErr = WrapCommand(entry.cmd, err)
			}
			continue
		}
		results[i] = converted
	}

	return results, firstErr
}

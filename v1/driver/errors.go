package driver

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors shared by all backends. Backends translate their
// client-native failures into these sentinels so callers can branch with
// errors.Is without importing backend packages.
var (
	// ErrNil is returned when a key, field, or member does not exist.
	ErrNil = errors.New("redisbridge: nil reply")

	// ErrClosed is returned when the connection or factory is closed.
	ErrClosed = errors.New("redisbridge: closed")

	// ErrTimeout is returned when a command exceeded its deadline.
	ErrTimeout = errors.New("redisbridge: timeout")

	// ErrConnFailure is returned when the server could not be reached.
	ErrConnFailure = errors.New("redisbridge: connection failure")

	// ErrTxAborted is returned when a MULTI/EXEC transaction was aborted,
	// for example because a watched key changed.
	ErrTxAborted = errors.New("redisbridge: transaction aborted")

	// ErrNotSupported is returned when the backing client library cannot
	// express the requested operation.
	ErrNotSupported = errors.New("redisbridge: operation not supported by driver")

	// ErrAlreadyBatching is returned when OpenPipeline or Multi is called
	// while the other batching mode is active.
	ErrAlreadyBatching = errors.New("redisbridge: connection is already batching")

	// ErrNotBatching is returned by ClosePipeline, Exec, or Discard when no
	// matching batch is open.
	ErrNotBatching = errors.New("redisbridge: no open batch")

	// ErrWrongType is returned when a command was issued against a key
	// holding a different data type.
	ErrWrongType = errors.New("redisbridge: wrong value type")

	// ErrLoading is returned while the server is loading its dataset.
	ErrLoading = errors.New("redisbridge: server is loading")

	// ErrReadOnly is returned when a write was issued against a read-only
	// replica.
	ErrReadOnly = errors.New("redisbridge: replica is read-only")

	// ErrClusterDown is returned when the cluster cannot serve the request.
	ErrClusterDown = errors.New("redisbridge: cluster is down")
)

// CommandError wraps a translated failure with the command that caused it.
type CommandError struct {
	// Cmd is the lowercase command name, e.g. "hget".
	Cmd string

	// Err is the translated error.
	Err error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("redisbridge: command %s: %v", e.Cmd, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// WrapCommand attaches the command name to err. Nil and ErrNil pass through
// untouched; a key miss is a reply, not a command failure.
func WrapCommand(cmd string, err error) error {
	if err == nil || errors.Is(err, ErrNil) {
		return err
	}
	return &CommandError{Cmd: cmd, Err: err}
}

// replyErrorPrefixes maps Redis error-reply prefixes to sentinels. The
// prefix convention is shared by every server implementation, so this
// translation lives here rather than in the backends.
var replyErrorPrefixes = []struct {
	prefix   string
	sentinel error
}{
	{"WRONGTYPE", ErrWrongType},
	{"LOADING", ErrLoading},
	{"READONLY", ErrReadOnly},
	{"CLUSTERDOWN", ErrClusterDown},
	{"EXECABORT", ErrTxAborted},
	{"MASTERDOWN", ErrConnFailure},
}

// TranslateReply maps a raw server error reply onto the common hierarchy.
// Unrecognized replies are returned wrapped so the server message survives.
func TranslateReply(msg string) error {
	for _, p := range replyErrorPrefixes {
		if strings.HasPrefix(msg, p.prefix) {
			return fmt.Errorf("%w: %s", p.sentinel, msg)
		}
	}
	return fmt.Errorf("redisbridge: server error: %s", msg)
}

// IsNil reports whether err is a key-miss reply.
func IsNil(err error) bool {
	return errors.Is(err, ErrNil)
}

// IsTimeout reports whether err is a deadline failure.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsTxAborted reports whether err is an aborted transaction.
func IsTxAborted(err error) bool {
	return errors.Is(err, ErrTxAborted)
}

// IsNotSupported reports whether err marks an operation the backing client
// cannot express.
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrNotSupported)
}

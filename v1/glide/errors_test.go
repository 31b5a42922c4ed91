package glide

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	glidelib "github.com/valkey-io/valkey-glide/go/v2"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))

	assert.ErrorIs(t, translate(context.DeadlineExceeded), driver.ErrTimeout)

	// Cancellation is the caller's doing, not a server failure.
	assert.ErrorIs(t, translate(context.Canceled), context.Canceled)

	// Typed client errors map onto the common hierarchy.
	assert.ErrorIs(t, translate(glidelib.NewTimeoutError("request timed out")), driver.ErrTimeout)
	assert.ErrorIs(t, translate(glidelib.NewClosingError("client closed")), driver.ErrClosed)
	assert.ErrorIs(t, translate(glidelib.NewConnectionError("connection refused")), driver.ErrConnFailure)
	assert.ErrorIs(t, translate(glidelib.NewDisconnectError("connection lost")), driver.ErrConnFailure)
	assert.ErrorIs(t, translate(glidelib.NewExecAbortError("transaction aborted")), driver.ErrTxAborted)

	// Server error codes inside a client error message translate by prefix.
	wrongType := errors.New("An error was signalled by the server: WRONGTYPE Operation against a key holding the wrong kind of value")
	assert.ErrorIs(t, translate(wrongType), driver.ErrWrongType)

	loading := errors.New("LOADING Redis is loading the dataset in memory")
	assert.ErrorIs(t, translate(loading), driver.ErrLoading)

	// Unknown errors pass through untouched.
	plain := errors.New("something else")
	assert.Equal(t, plain, translate(plain))
}

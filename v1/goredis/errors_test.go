package goredis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

// replyError mimics a server error reply the way go-redis surfaces it.
type replyError string

func (e replyError) Error() string { return string(e) }
func (e replyError) RedisError()   {}

var _ redis.Error = replyError("")

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))

	assert.ErrorIs(t, translate(redis.Nil), driver.ErrNil)
	assert.ErrorIs(t, translate(redis.ErrClosed), driver.ErrClosed)
	assert.ErrorIs(t, translate(redis.TxFailedErr), driver.ErrTxAborted)
	assert.ErrorIs(t, translate(context.DeadlineExceeded), driver.ErrTimeout)

	// Cancellation is the caller's doing, not a server failure.
	assert.ErrorIs(t, translate(context.Canceled), context.Canceled)

	// Server error replies translate by prefix.
	wrongType := replyError("WRONGTYPE Operation against a key holding the wrong kind of value")
	assert.ErrorIs(t, translate(wrongType), driver.ErrWrongType)

	loading := replyError("LOADING Redis is loading the dataset in memory")
	assert.ErrorIs(t, translate(loading), driver.ErrLoading)

	// Unknown errors pass through untouched.
	plain := errors.New("something else")
	assert.Equal(t, plain, translate(plain))
}

package goredis

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/redis/go-redis/v9"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

// translate maps a go-redis error onto the driver hierarchy. Callers of
// this package never see go-redis error values.
func translate(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, redis.Nil):
		return driver.ErrNil
	case errors.Is(err, redis.ErrClosed):
		return driver.ErrClosed
	case errors.Is(err, redis.TxFailedErr):
		return driver.ErrTxAborted
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", driver.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %v", driver.ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", driver.ErrConnFailure, err)
	}

	// Server error replies keep the RESP prefix convention, translate by
	// prefix.
	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		return driver.TranslateReply(replyErr.Error())
	}

	return err
}

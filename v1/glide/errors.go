package glide

import (
	"context"
	"errors"
	"net"
	"strings"

	glide "github.com/valkey-io/valkey-glide/go/v2"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

// replyPrefixes are server error codes that can ride inside a GLIDE client
// error message (the library wraps raw server replies rather than exposing
// typed reply errors).
var replyPrefixes = []string{
	"WRONGTYPE", "LOADING", "READONLY", "CLUSTERDOWN", "EXECABORT", "NOSCRIPT", "ERR",
}

// translate maps GLIDE client failures onto the driver error hierarchy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return driver.ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var timeoutErr *glide.TimeoutError
	if errors.As(err, &timeoutErr) {
		return driver.ErrTimeout
	}
	var closingErr *glide.ClosingError
	if errors.As(err, &closingErr) {
		return driver.ErrClosed
	}
	var connErr *glide.ConnectionError
	if errors.As(err, &connErr) {
		return driver.ErrConnFailure
	}
	var disconnectErr *glide.DisconnectError
	if errors.As(err, &disconnectErr) {
		return driver.ErrConnFailure
	}
	var abortErr *glide.ExecAbortError
	if errors.As(err, &abortErr) {
		return driver.ErrTxAborted
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return driver.ErrTimeout
		}
		return driver.ErrConnFailure
	}

	msg := err.Error()
	for _, prefix := range replyPrefixes {
		if idx := strings.Index(msg, prefix+" "); idx >= 0 {
			return driver.TranslateReply(msg[idx:])
		}
	}
	return err
}

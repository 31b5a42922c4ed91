package glide

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

func TestCallScript(t *testing.T) {
	assert.Equal(t, "return redis.call('PING')", callScript("ping", 0, 0))
	assert.Equal(t, "return redis.call('GET', KEYS[1])", callScript("get", 1, 0))
	assert.Equal(t,
		"return redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])",
		callScript("hset", 1, 2))
	assert.Equal(t,
		"return redis.call('RENAME', KEYS[1], KEYS[2])",
		callScript("rename", 2, 0))
}

func TestEncodeBatch(t *testing.T) {
	keys, args := encodeBatch([]command{
		{name: "incr", keys: []string{"counter"}},
		{name: "set", keys: []string{"greeting"}, args: []string{"hello", "PX", "1000"}},
	})

	assert.Equal(t, []string{"counter", "greeting"}, keys)
	assert.Equal(t, []string{
		"2",
		"2", "INCR", "counter",
		"4", "SET", "greeting", "hello", "PX", "1000",
	}, args)
}

func TestEncodeBatchRoutingKeys(t *testing.T) {
	// MSET carries its keys interleaved in args; routing keys join KEYS
	// without being replayed in the argv.
	keys, args := encodeBatch([]command{
		{name: "mset", args: []string{"a", "1", "b", "2"}, routing: []string{"a", "b"}},
	})

	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Equal(t, []string{"1", "5", "MSET", "a", "1", "b", "2"}, args)
}

func TestDecodeBatch(t *testing.T) {
	raw := []any{
		[]any{int64(batchValue), int64(3)},
		[]any{int64(batchNil)},
		[]any{int64(batchError), "WRONGTYPE Operation against a key holding the wrong kind of value"},
	}

	values, errs, err := decodeBatch(raw, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(3), values[0])
	assert.NoError(t, errs[0])

	assert.Nil(t, values[1])
	assert.NoError(t, errs[1])

	assert.Nil(t, values[2])
	assert.ErrorIs(t, errs[2], driver.ErrWrongType)
}

func TestDecodeBatchMalformed(t *testing.T) {
	_, _, err := decodeBatch("bogus", 1)
	assert.Error(t, err)

	_, _, err = decodeBatch([]any{}, 1)
	assert.Error(t, err)

	values, errs, err := decodeBatch([]any{"not-tagged"}, 1)
	require.NoError(t, err)
	assert.Nil(t, values[0])
	assert.Error(t, errs[0])
}

func TestSetArgs(t *testing.T) {
	assert.Equal(t, []string{"v"}, setArgs([]byte("v"), driver.SetOptions{}))
	assert.Equal(t, []string{"v", "NX", "PX", "1500"},
		setArgs([]byte("v"), driver.SetOptions{Condition: driver.SetIfAbsent, TTL: 1500 * time.Millisecond}))
	assert.Equal(t, []string{"v", "XX", "KEEPTTL"},
		setArgs([]byte("v"), driver.SetOptions{Condition: driver.SetIfPresent, KeepTTL: true}))
}

func TestFormatArg(t *testing.T) {
	assert.Equal(t, "hello", formatArg("hello"))
	assert.Equal(t, "raw", formatArg([]byte("raw")))
	assert.Equal(t, "42", formatArg(42))
	assert.Equal(t, "-7", formatArg(int64(-7)))
	assert.Equal(t, "1.5", formatArg(1.5))
	assert.Equal(t, "1", formatArg(true))
	assert.Equal(t, "0", formatArg(false))
}

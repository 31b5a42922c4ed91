package glide

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-glide/go/v2/models"
	"github.com/valkey-io/valkey-glide/go/v2/options"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

// fakeClient serves canned script replies in FIFO order and records the
// keys/args of every invocation. The typed Get/SetWithOptions surface is
// covered by the integration suite against a real server.
type fakeClient struct {
	replies []any
	errs    []error

	keys [][]string
	args [][]string
}

func (f *fakeClient) Get(ctx context.Context, key string) (models.Result[string], error) {
	panic("unexpected Get call")
}

func (f *fakeClient) SetWithOptions(ctx context.Context, key, value string, opts options.SetOptions) (models.Result[string], error) {
	panic("unexpected SetWithOptions call")
}

func (f *fakeClient) InvokeScriptWithOptions(ctx context.Context, _ options.Script, opts options.ScriptOptions) (any, error) {
	f.keys = append(f.keys, opts.Keys)
	f.args = append(f.args, opts.Args)

	var reply any
	if len(f.replies) > 0 {
		reply, f.replies = f.replies[0], f.replies[1:]
	}
	var err error
	if len(f.errs) > 0 {
		err, f.errs = f.errs[0], f.errs[1:]
	}
	return reply, err
}

func newTestConn(fake *fakeClient) *conn {
	return &conn{factory: NewFactory(fake), client: fake}
}

func TestDirectCommand(t *testing.T) {
	fake := &fakeClient{replies: []any{int64(2)}}
	c := newTestConn(fake)

	n, err := c.Del(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, []string{"a", "b"}, fake.keys[0])
}

func TestDirectNilReply(t *testing.T) {
	fake := &fakeClient{replies: []any{nil}}
	c := newTestConn(fake)

	_, err := c.HGet(context.Background(), "profile", "missing")
	assert.ErrorIs(t, err, driver.ErrNil)
}

func TestDirectServerError(t *testing.T) {
	fake := &fakeClient{errs: []error{assert.AnError}}
	c := newTestConn(fake)

	_, err := c.Incr(context.Background(), "counter")
	require.Error(t, err)

	var cmdErr *driver.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "incr", cmdErr.Cmd)
}

func TestPipelineDefersAndResolves(t *testing.T) {
	fake := &fakeClient{replies: []any{[]any{
		[]any{int64(batchValue), int64(5)},
		[]any{int64(batchNil)},
	}}}
	c := newTestConn(fake)
	ctx := context.Background()

	require.NoError(t, c.OpenPipeline())
	assert.True(t, c.IsPipelined())
	assert.Equal(t, driver.ModePipeline, c.Mode())

	n, err := c.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Zero(t, n, "buffered command must return its zero value")

	_, err = c.Get(ctx, "missing")
	require.NoError(t, err, "a key miss inside a batch is a value, not an error")

	results, err := c.ClosePipeline(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(5), results[0])
	assert.Nil(t, results[1])

	assert.Equal(t, driver.ModeDirect, c.Mode())

	// One round trip: the whole pipeline travels as a single batch script.
	require.Len(t, fake.args, 1)
	assert.Equal(t, []string{"2", "2", "INCR", "counter", "2", "GET", "missing"}, fake.args[0])
	assert.Equal(t, []string{"counter", "missing"}, fake.keys[0])
}

func TestExecReportsFirstCommandError(t *testing.T) {
	fake := &fakeClient{replies: []any{[]any{
		[]any{int64(batchError), "WRONGTYPE Operation against a key holding the wrong kind of value"},
		[]any{int64(batchValue), int64(1)},
	}}}
	c := newTestConn(fake)
	ctx := context.Background()

	require.NoError(t, c.Multi())
	assert.True(t, c.IsQueueing())

	_, err := c.Incr(ctx, "not-a-number")
	require.NoError(t, err)
	_, err = c.Del(ctx, "other")
	require.NoError(t, err)

	results, err := c.Exec(ctx)
	assert.ErrorIs(t, err, driver.ErrWrongType)

	// The result slice keeps one slot per command; the failed slot is nil.
	require.Len(t, results, 2)
	assert.Nil(t, results[0])
	assert.Equal(t, int64(1), results[1])
}

func TestBatchingModeMachine(t *testing.T) {
	c := newTestConn(&fakeClient{})
	ctx := context.Background()

	_, err := c.ClosePipeline(ctx)
	assert.ErrorIs(t, err, driver.ErrNotBatching)
	_, err = c.Exec(ctx)
	assert.ErrorIs(t, err, driver.ErrNotBatching)
	assert.ErrorIs(t, c.Discard(), driver.ErrNotBatching)

	require.NoError(t, c.OpenPipeline())
	require.NoError(t, c.OpenPipeline(), "reopening a pipeline is a no-op")
	assert.ErrorIs(t, c.Multi(), driver.ErrAlreadyBatching)

	results, err := c.ClosePipeline(ctx)
	require.NoError(t, err)
	assert.Empty(t, results, "empty pipeline flushes to an empty result set")

	require.NoError(t, c.Multi())
	assert.ErrorIs(t, c.Multi(), driver.ErrAlreadyBatching)
	assert.ErrorIs(t, c.OpenPipeline(), driver.ErrAlreadyBatching)

	_, err = c.Incr(ctx, "counter")
	require.NoError(t, err)
	require.NoError(t, c.Discard())
	assert.Equal(t, driver.ModeDirect, c.Mode())
}

func TestEvalUnavailableWhileBatching(t *testing.T) {
	c := newTestConn(&fakeClient{})

	require.NoError(t, c.OpenPipeline())
	_, err := c.Eval(context.Background(), "return 1", nil)
	assert.ErrorIs(t, err, driver.ErrNotSupported)
}

func TestClosedConnRejectsCommands(t *testing.T) {
	c := newTestConn(&fakeClient{})
	require.NoError(t, c.Close())

	_, err := c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, driver.ErrClosed)
	assert.ErrorIs(t, c.OpenPipeline(), driver.ErrClosed)
}

func TestFactoryClose(t *testing.T) {
	f := NewFactory(&fakeClient{})
	require.NoError(t, f.Close())
	require.NoError(t, f.Close(), "closing twice is a no-op")

	_, err := f.Conn(context.Background())
	assert.ErrorIs(t, err, driver.ErrClosed)
}

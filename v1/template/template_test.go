package template

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bridgekit-io/redisbridge/v1/driver"
	"github.com/bridgekit-io/redisbridge/v1/serializer"
)

// fakeConn implements the slice of driver.Conn the template touches over
// small in-memory maps. Unused commands fall through to the embedded nil
// interface and would panic, keeping the fake honest.
type fakeConn struct {
	driver.Conn

	store  map[string][]byte
	hashes map[string]map[string][]byte
	lists  map[string][][]byte
	sets   map[string]map[string]struct{}
	scores map[string]map[string]float64

	mode            driver.Mode
	pipelineResults []any
	discarded       bool
	closed          bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		store:  map[string][]byte{},
		hashes: map[string]map[string][]byte{},
		lists:  map[string][][]byte{},
		sets:   map[string]map[string]struct{}{},
		scores: map[string]map[string]float64{},
	}
}

func (c *fakeConn) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := c.store[key]
	if !ok {
		return nil, driver.ErrNil
	}
	return v, nil
}

func (c *fakeConn) Set(ctx context.Context, key string, value []byte, opts driver.SetOptions) (bool, error) {
	if opts.Condition == driver.SetIfAbsent {
		if _, exists := c.store[key]; exists {
			return false, nil
		}
	}
	c.store[key] = value
	return true, nil
}

func (c *fakeConn) Del(ctx context.Context, keys ...string) (int64, error) {
	var n int64
	for _, k := range keys {
		if _, ok := c.store[k]; ok {
			delete(c.store, k)
			n++
		}
	}
	return n, nil
}

func (c *fakeConn) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	return delta, nil
}

func (c *fakeConn) HSet(ctx context.Context, key string, fields map[string][]byte) (int64, error) {
	h := c.hashes[key]
	if h == nil {
		h = map[string][]byte{}
		c.hashes[key] = h
	}
	var added int64
	for f, v := range fields {
		if _, ok := h[f]; !ok {
			added++
		}
		h[f] = v
	}
	return added, nil
}

func (c *fakeConn) HGet(ctx context.Context, key, field string) ([]byte, error) {
	v, ok := c.hashes[key][field]
	if !ok {
		return nil, driver.ErrNil
	}
	return v, nil
}

func (c *fakeConn) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	out := map[string][]byte{}
	for f, v := range c.hashes[key] {
		out[f] = v
	}
	return out, nil
}

func (c *fakeConn) LPush(ctx context.Context, key string, values ...[]byte) (int64, error) {
	for _, v := range values {
		c.lists[key] = append([][]byte{v}, c.lists[key]...)
	}
	return int64(len(c.lists[key])), nil
}

func (c *fakeConn) LPop(ctx context.Context, key string) ([]byte, error) {
	l := c.lists[key]
	if len(l) == 0 {
		return nil, driver.ErrNil
	}
	head := l[0]
	c.lists[key] = l[1:]
	return head, nil
}

func (c *fakeConn) SAdd(ctx context.Context, key string, members ...[]byte) (int64, error) {
	s := c.sets[key]
	if s == nil {
		s = map[string]struct{}{}
		c.sets[key] = s
	}
	var added int64
	for _, m := range members {
		if _, ok := s[string(m)]; !ok {
			added++
		}
		s[string(m)] = struct{}{}
	}
	return added, nil
}

func (c *fakeConn) SIsMember(ctx context.Context, key string, member []byte) (bool, error) {
	_, ok := c.sets[key][string(member)]
	return ok, nil
}

func (c *fakeConn) ZAdd(ctx context.Context, key string, members ...driver.ZMember) (int64, error) {
	z := c.scores[key]
	if z == nil {
		z = map[string]float64{}
		c.scores[key] = z
	}
	var added int64
	for _, m := range members {
		if _, ok := z[string(m.Member)]; !ok {
			added++
		}
		z[string(m.Member)] = m.Score
	}
	return added, nil
}

func (c *fakeConn) ZScore(ctx context.Context, key string, member []byte) (float64, error) {
	score, ok := c.scores[key][string(member)]
	if !ok {
		return 0, driver.ErrNil
	}
	return score, nil
}

func (c *fakeConn) Mode() driver.Mode { return c.mode }

func (c *fakeConn) OpenPipeline() error {
	c.mode = driver.ModePipeline
	return nil
}

func (c *fakeConn) ClosePipeline(ctx context.Context) ([]any, error) {
	c.mode = driver.ModeDirect
	return c.pipelineResults, nil
}

func (c *fakeConn) Multi() error {
	c.mode = driver.ModeQueue
	return nil
}

func (c *fakeConn) Exec(ctx context.Context) ([]any, error) {
	c.mode = driver.ModeDirect
	return c.pipelineResults, nil
}

func (c *fakeConn) Discard() error {
	c.mode = driver.ModeDirect
	c.discarded = true
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeFactory struct {
	conn *fakeConn
}

func (f *fakeFactory) Conn(ctx context.Context) (driver.Conn, error) { return f.conn, nil }
func (f *fakeFactory) Close() error                                  { return nil }

// watchFactory adds WatchSupport, aborting a configurable number of times.
type watchFactory struct {
	fakeFactory
	aborts   int
	attempts int
}

func (f *watchFactory) Watch(ctx context.Context, fn func(driver.Conn) error, keys ...string) error {
	f.attempts++
	if f.aborts > 0 {
		f.aborts--
		return driver.ErrTxAborted
	}
	return fn(f.conn)
}

type session struct {
	User  string `json:"user"`
	Count int    `json:"count"`
}

func newTestTemplate() (*Template, *fakeConn) {
	conn := newFakeConn()
	return New(&fakeFactory{conn: conn}), conn
}

func TestStringsRoundTrip(t *testing.T) {
	tpl, conn := newTestTemplate()
	ctx := context.Background()

	require.NoError(t, tpl.Strings().Set(ctx, "session:42", session{User: "ada", Count: 3}, time.Minute))

	var out session
	require.NoError(t, tpl.Strings().Get(ctx, "session:42", &out))
	assert.Equal(t, session{User: "ada", Count: 3}, out)

	assert.True(t, conn.closed, "template must release the connection")
}

func TestStringsGetMissing(t *testing.T) {
	tpl, _ := newTestTemplate()

	var out session
	err := tpl.Strings().Get(context.Background(), "absent", &out)
	assert.ErrorIs(t, err, driver.ErrNil)
}

func TestStringsSetIfAbsent(t *testing.T) {
	tpl, _ := newTestTemplate()
	ctx := context.Background()

	ok, err := tpl.Strings().SetIfAbsent(ctx, "once", "first", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tpl.Strings().SetIfAbsent(ctx, "once", "second", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	var out string
	require.NoError(t, tpl.Strings().Get(ctx, "once", &out))
	assert.Equal(t, "first", out)
}

func TestStringSerializerOption(t *testing.T) {
	conn := newFakeConn()
	tpl := New(&fakeFactory{conn: conn}, WithSerializer(serializer.NewString()))
	ctx := context.Background()

	require.NoError(t, tpl.Strings().Set(ctx, "raw", []byte{0x01, 0x02}, 0))
	assert.Equal(t, []byte{0x01, 0x02}, conn.store["raw"], "string serializer stores the payload verbatim")
}

func TestHashes(t *testing.T) {
	tpl, _ := newTestTemplate()
	ctx := context.Background()

	require.NoError(t, tpl.Hashes().Put(ctx, "user:1", "profile", session{User: "ada"}))
	require.NoError(t, tpl.Hashes().PutAll(ctx, "user:1", map[string]any{"visits": 7}))

	var out session
	require.NoError(t, tpl.Hashes().Get(ctx, "user:1", "profile", &out))
	assert.Equal(t, "ada", out.User)

	entries, err := tpl.Hashes().Entries(ctx, "user:1")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	err = tpl.Hashes().Get(ctx, "user:1", "absent", &out)
	assert.ErrorIs(t, err, driver.ErrNil)
}

func TestLists(t *testing.T) {
	tpl, _ := newTestTemplate()
	ctx := context.Background()

	n, err := tpl.Lists().LeftPush(ctx, "queue", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var head string
	require.NoError(t, tpl.Lists().LeftPop(ctx, "queue", &head))
	assert.Equal(t, "b", head, "last pushed value is the head")

	require.NoError(t, tpl.Lists().LeftPop(ctx, "queue", &head))
	assert.ErrorIs(t, tpl.Lists().LeftPop(ctx, "queue", &head), driver.ErrNil)
}

func TestSetsAndSortedSets(t *testing.T) {
	tpl, _ := newTestTemplate()
	ctx := context.Background()

	n, err := tpl.Sets().Add(ctx, "tags", "go", "redis", "go")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ok, err := tpl.Sets().IsMember(ctx, "tags", "go")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = tpl.SortedSets().Add(ctx, "board", 12.5, "ada")
	require.NoError(t, err)

	score, err := tpl.SortedSets().Score(ctx, "board", "ada")
	require.NoError(t, err)
	assert.Equal(t, 12.5, score)

	_, err = tpl.SortedSets().Score(ctx, "board", "ghost")
	assert.ErrorIs(t, err, driver.ErrNil)
}

func TestPipelinedReturnsResults(t *testing.T) {
	tpl, conn := newTestTemplate()
	conn.pipelineResults = []any{int64(1), []byte("hello")}

	var sawPipelined bool
	results, err := tpl.Pipelined(context.Background(), func(c driver.Conn) error {
		sawPipelined = c.Mode() == driver.ModePipeline
		return nil
	})
	require.NoError(t, err)
	assert.True(t, sawPipelined, "callback must run on a pipelined connection")
	assert.Equal(t, []any{int64(1), []byte("hello")}, results)
	assert.True(t, conn.closed)
}

func TestTransactionalDiscardsOnCallbackError(t *testing.T) {
	tpl, conn := newTestTemplate()

	boom := errors.New("boom")
	_, err := tpl.Transactional(context.Background(), func(c driver.Conn) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.True(t, conn.discarded, "failed callback must discard the queue")
	assert.True(t, conn.closed)
}

func TestWatchUnsupportedBackend(t *testing.T) {
	tpl, _ := newTestTemplate()

	err := tpl.Watch(context.Background(), func(driver.Conn) error { return nil }, "key")
	assert.ErrorIs(t, err, driver.ErrNotSupported)
}

func TestWatchRetriesAbortedTransactions(t *testing.T) {
	conn := newFakeConn()
	factory := &watchFactory{fakeFactory: fakeFactory{conn: conn}, aborts: 2}
	tpl := New(factory, WithWatchRetries(3))

	err := tpl.Watch(context.Background(), func(driver.Conn) error { return nil }, "balance")
	require.NoError(t, err)
	assert.Equal(t, 3, factory.attempts, "two aborts then one success")
}

func TestWatchGivesUpAfterRetries(t *testing.T) {
	conn := newFakeConn()
	factory := &watchFactory{fakeFactory: fakeFactory{conn: conn}, aborts: 10}
	tpl := New(factory, WithWatchRetries(2))

	err := tpl.Watch(context.Background(), func(driver.Conn) error { return nil }, "balance")
	assert.ErrorIs(t, err, driver.ErrTxAborted)
	assert.Equal(t, 3, factory.attempts, "initial attempt plus two retries")
}

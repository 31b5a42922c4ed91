package goredis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

// --- Hash Commands ---

// HSet writes the given fields and returns how many were newly created.
func (c *conn) HSet(ctx context.Context, key string, fields map[string][]byte) (int64, error) {
	flat := make([]interface{}, 0, len(fields)*2)
	for f, v := range fields {
		flat = append(flat, f, v)
	}
	if c.batching() {
		cmd := c.pipe.HSet(ctx, key, flat...)
		c.queue.Defer("hset", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	start := time.Now()
	n, err := c.client.HSet(ctx, key, flat...).Result()
	err = translate(err)
	c.observe("hset", key, "", time.Since(start), err, n, map[string]interface{}{
		"field_count": len(fields),
	})
	return n, driver.WrapCommand("hset", err)
}

// HGet returns the value of field, or ErrNil if key or field is missing.
func (c *conn) HGet(ctx context.Context, key, field string) ([]byte, error) {
	if c.batching() {
		cmd := c.pipe.HGet(ctx, key, field)
		c.queue.Defer("hget", rawResult(cmd.Bytes), nil, []byte(nil))
		return nil, nil
	}
	start := time.Now()
	b, err := c.client.HGet(ctx, key, field).Bytes()
	err = translate(err)
	c.observe("hget", key, field, time.Since(start), err, int64(len(b)), nil)
	return b, driver.WrapCommand("hget", err)
}

// HGetAll returns all fields and values of the hash at key.
func (c *conn) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	if c.batching() {
		cmd := c.pipe.HGetAll(ctx, key)
		c.queue.Defer("hgetall", rawResult(cmd.Result), func(raw any) (any, error) {
			return driver.ToBytesMap(raw)
		}, map[string][]byte{})
		return nil, nil
	}
	raw, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, driver.WrapCommand("hgetall", translate(err))
	}
	out, err := driver.ToBytesMap(raw)
	return out, driver.WrapCommand("hgetall", err)
}

// HDel deletes the given fields and returns how many existed.
func (c *conn) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	if c.batching() {
		cmd := c.pipe.HDel(ctx, key, fields...)
		c.queue.Defer("hdel", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.HDel(ctx, key, fields...).Result()
	return n, driver.WrapCommand("hdel", translate(err))
}

// HExists reports whether field exists in the hash at key.
func (c *conn) HExists(ctx context.Context, key, field string) (bool, error) {
	if c.batching() {
		cmd := c.pipe.HExists(ctx, key, field)
		c.queue.Defer("hexists", rawResult(cmd.Result), nil, false)
		return false, nil
	}
	ok, err := c.client.HExists(ctx, key, field).Result()
	return ok, driver.WrapCommand("hexists", translate(err))
}

// HLen returns the number of fields in the hash at key.
func (c *conn) HLen(ctx context.Context, key string) (int64, error) {
	if c.batching() {
		cmd := c.pipe.HLen(ctx, key)
		c.queue.Defer("hlen", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.HLen(ctx, key).Result()
	return n, driver.WrapCommand("hlen", translate(err))
}

// HKeys returns all field names of the hash at key.
func (c *conn) HKeys(ctx context.Context, key string) ([]string, error) {
	if c.batching() {
		cmd := c.pipe.HKeys(ctx, key)
		c.queue.Defer("hkeys", rawResult(cmd.Result), nil, []string(nil))
		return nil, nil
	}
	fields, err := c.client.HKeys(ctx, key).Result()
	return fields, driver.WrapCommand("hkeys", translate(err))
}

// HIncrBy increments the integer value of field by delta.
func (c *conn) HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error) {
	if c.batching() {
		cmd := c.pipe.HIncrBy(ctx, key, field, delta)
		c.queue.Defer("hincrby", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.HIncrBy(ctx, key, field, delta).Result()
	return n, driver.WrapCommand("hincrby", translate(err))
}

// --- List Commands ---

func bytesToAny(values [][]byte) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// LPush inserts the values at the head of the list at key.
func (c *conn) LPush(ctx context.Context, key string, values ...[]byte) (int64, error) {
	if c.batching() {
		cmd := c.pipe.LPush(ctx, key, bytesToAny(values)...)
		c.queue.Defer("lpush", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	start := time.Now()
	n, err := c.client.LPush(ctx, key, bytesToAny(values)...).Result()
	err = translate(err)
	c.observe("lpush", key, "", time.Since(start), err, n, map[string]interface{}{
		"value_count": len(values),
	})
	return n, driver.WrapCommand("lpush", err)
}

// RPush inserts the values at the tail of the list at key.
func (c *conn) RPush(ctx context.Context, key string, values ...[]byte) (int64, error) {
	if c.batching() {
		cmd := c.pipe.RPush(ctx, key, bytesToAny(values)...)
		c.queue.Defer("rpush", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.RPush(ctx, key, bytesToAny(values)...).Result()
	return n, driver.WrapCommand("rpush", translate(err))
}

// LPop removes and returns the head of the list at key.
func (c *conn) LPop(ctx context.Context, key string) ([]byte, error) {
	if c.batching() {
		cmd := c.pipe.LPop(ctx, key)
		c.queue.Defer("lpop", rawResult(cmd.Bytes), nil, []byte(nil))
		return nil, nil
	}
	b, err := c.client.LPop(ctx, key).Bytes()
	return b, driver.WrapCommand("lpop", translate(err))
}

// RPop removes and returns the tail of the list at key.
func (c *conn) RPop(ctx context.Context, key string) ([]byte, error) {
	if c.batching() {
		cmd := c.pipe.RPop(ctx, key)
		c.queue.Defer("rpop", rawResult(cmd.Bytes), nil, []byte(nil))
		return nil, nil
	}
	b, err := c.client.RPop(ctx, key).Bytes()
	return b, driver.WrapCommand("rpop", translate(err))
}

// LRange returns the elements between start and stop.
func (c *conn) LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	if c.batching() {
		cmd := c.pipe.LRange(ctx, key, start, stop)
		c.queue.Defer("lrange", rawResult(cmd.Result), func(raw any) (any, error) {
			return driver.ToBytesSlice(raw)
		}, [][]byte(nil))
		return nil, nil
	}
	startTime := time.Now()
	raw, err := c.client.LRange(ctx, key, start, stop).Result()
	err = translate(err)
	c.observe("lrange", key, "", time.Since(startTime), err, int64(len(raw)), nil)
	if err != nil {
		return nil, driver.WrapCommand("lrange", err)
	}
	out, err := driver.ToBytesSlice(raw)
	return out, driver.WrapCommand("lrange", err)
}

// LLen returns the length of the list at key.
func (c *conn) LLen(ctx context.Context, key string) (int64, error) {
	if c.batching() {
		cmd := c.pipe.LLen(ctx, key)
		c.queue.Defer("llen", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.LLen(ctx, key).Result()
	return n, driver.WrapCommand("llen", translate(err))
}

// LRem removes count occurrences of value from the list at key.
func (c *conn) LRem(ctx context.Context, key string, count int64, value []byte) (int64, error) {
	if c.batching() {
		cmd := c.pipe.LRem(ctx, key, count, value)
		c.queue.Defer("lrem", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.LRem(ctx, key, count, value).Result()
	return n, driver.WrapCommand("lrem", translate(err))
}

// LTrim trims the list at key to the given range.
func (c *conn) LTrim(ctx context.Context, key string, start, stop int64) error {
	if c.batching() {
		cmd := c.pipe.LTrim(ctx, key, start, stop)
		c.queue.Defer("ltrim", rawResult(cmd.Result), nil, "")
		return nil
	}
	err := c.client.LTrim(ctx, key, start, stop).Err()
	return driver.WrapCommand("ltrim", translate(err))
}

// --- Set Commands ---

// SAdd adds the members to the set at key.
func (c *conn) SAdd(ctx context.Context, key string, members ...[]byte) (int64, error) {
	if c.batching() {
		cmd := c.pipe.SAdd(ctx, key, bytesToAny(members)...)
		c.queue.Defer("sadd", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.SAdd(ctx, key, bytesToAny(members)...).Result()
	return n, driver.WrapCommand("sadd", translate(err))
}

// SRem removes the members from the set at key.
func (c *conn) SRem(ctx context.Context, key string, members ...[]byte) (int64, error) {
	if c.batching() {
		cmd := c.pipe.SRem(ctx, key, bytesToAny(members)...)
		c.queue.Defer("srem", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.SRem(ctx, key, bytesToAny(members)...).Result()
	return n, driver.WrapCommand("srem", translate(err))
}

// SMembers returns all members of the set at key.
func (c *conn) SMembers(ctx context.Context, key string) ([][]byte, error) {
	if c.batching() {
		cmd := c.pipe.SMembers(ctx, key)
		c.queue.Defer("smembers", rawResult(cmd.Result), func(raw any) (any, error) {
			return driver.ToBytesSlice(raw)
		}, [][]byte(nil))
		return nil, nil
	}
	raw, err := c.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, driver.WrapCommand("smembers", translate(err))
	}
	out, err := driver.ToBytesSlice(raw)
	return out, driver.WrapCommand("smembers", err)
}

// SIsMember reports whether member is in the set at key.
func (c *conn) SIsMember(ctx context.Context, key string, member []byte) (bool, error) {
	if c.batching() {
		cmd := c.pipe.SIsMember(ctx, key, member)
		c.queue.Defer("sismember", rawResult(cmd.Result), nil, false)
		return false, nil
	}
	ok, err := c.client.SIsMember(ctx, key, member).Result()
	return ok, driver.WrapCommand("sismember", translate(err))
}

// SCard returns the cardinality of the set at key.
func (c *conn) SCard(ctx context.Context, key string) (int64, error) {
	if c.batching() {
		cmd := c.pipe.SCard(ctx, key)
		c.queue.Defer("scard", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.SCard(ctx, key).Result()
	return n, driver.WrapCommand("scard", translate(err))
}

// --- Sorted Set Commands ---

func toRedisZ(members []driver.ZMember) []redis.Z {
	out := make([]redis.Z, len(members))
	for i, m := range members {
		out[i] = redis.Z{Score: m.Score, Member: m.Member}
	}
	return out
}

func fromRedisZ(zs []redis.Z) ([]driver.ZMember, error) {
	out := make([]driver.ZMember, len(zs))
	for i, z := range zs {
		member, err := driver.ToBytes(z.Member)
		if err != nil {
			return nil, err
		}
		out[i] = driver.ZMember{Member: member, Score: z.Score}
	}
	return out, nil
}

// ZAdd adds the members to the sorted set at key.
func (c *conn) ZAdd(ctx context.Context, key string, members ...driver.ZMember) (int64, error) {
	if c.batching() {
		cmd := c.pipe.ZAdd(ctx, key, toRedisZ(members)...)
		c.queue.Defer("zadd", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.ZAdd(ctx, key, toRedisZ(members)...).Result()
	return n, driver.WrapCommand("zadd", translate(err))
}

// ZRem removes the members from the sorted set at key.
func (c *conn) ZRem(ctx context.Context, key string, members ...[]byte) (int64, error) {
	if c.batching() {
		cmd := c.pipe.ZRem(ctx, key, bytesToAny(members)...)
		c.queue.Defer("zrem", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.ZRem(ctx, key, bytesToAny(members)...).Result()
	return n, driver.WrapCommand("zrem", translate(err))
}

// ZRange returns the members between start and stop, ascending by score.
func (c *conn) ZRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	if c.batching() {
		cmd := c.pipe.ZRange(ctx, key, start, stop)
		c.queue.Defer("zrange", rawResult(cmd.Result), func(raw any) (any, error) {
			return driver.ToBytesSlice(raw)
		}, [][]byte(nil))
		return nil, nil
	}
	raw, err := c.client.ZRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, driver.WrapCommand("zrange", translate(err))
	}
	out, err := driver.ToBytesSlice(raw)
	return out, driver.WrapCommand("zrange", err)
}

// ZRangeWithScores returns the members between start and stop with scores.
func (c *conn) ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]driver.ZMember, error) {
	if c.batching() {
		cmd := c.pipe.ZRangeWithScores(ctx, key, start, stop)
		c.queue.Defer("zrange", func() (any, error) {
			zs, err := cmd.Result()
			if err != nil {
				return nil, translate(err)
			}
			return fromRedisZ(zs)
		}, nil, []driver.ZMember(nil))
		return nil, nil
	}
	zs, err := c.client.ZRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, driver.WrapCommand("zrange", translate(err))
	}
	out, err := fromRedisZ(zs)
	return out, driver.WrapCommand("zrange", err)
}

// ZRangeByScore returns the members with scores inside the given bounds.
func (c *conn) ZRangeByScore(ctx context.Context, key string, by driver.ZRangeBy) ([][]byte, error) {
	opt := &redis.ZRangeBy{Min: by.Min, Max: by.Max, Offset: by.Offset, Count: by.Count}
	if c.batching() {
		cmd := c.pipe.ZRangeByScore(ctx, key, opt)
		c.queue.Defer("zrangebyscore", rawResult(cmd.Result), func(raw any) (any, error) {
			return driver.ToBytesSlice(raw)
		}, [][]byte(nil))
		return nil, nil
	}
	raw, err := c.client.ZRangeByScore(ctx, key, opt).Result()
	if err != nil {
		return nil, driver.WrapCommand("zrangebyscore", translate(err))
	}
	out, err := driver.ToBytesSlice(raw)
	return out, driver.WrapCommand("zrangebyscore", err)
}

// ZScore returns the score of member, or ErrNil if absent.
func (c *conn) ZScore(ctx context.Context, key string, member []byte) (float64, error) {
	if c.batching() {
		cmd := c.pipe.ZScore(ctx, key, string(member))
		c.queue.Defer("zscore", rawResult(cmd.Result), nil, float64(0))
		return 0, nil
	}
	score, err := c.client.ZScore(ctx, key, string(member)).Result()
	return score, driver.WrapCommand("zscore", translate(err))
}

// ZRank returns the ascending rank of member, or ErrNil if absent.
func (c *conn) ZRank(ctx context.Context, key string, member []byte) (int64, error) {
	if c.batching() {
		cmd := c.pipe.ZRank(ctx, key, string(member))
		c.queue.Defer("zrank", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	rank, err := c.client.ZRank(ctx, key, string(member)).Result()
	return rank, driver.WrapCommand("zrank", translate(err))
}

// ZCard returns the cardinality of the sorted set at key.
func (c *conn) ZCard(ctx context.Context, key string) (int64, error) {
	if c.batching() {
		cmd := c.pipe.ZCard(ctx, key)
		c.queue.Defer("zcard", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.ZCard(ctx, key).Result()
	return n, driver.WrapCommand("zcard", translate(err))
}

// ZIncrBy increments the score of member by increment.
func (c *conn) ZIncrBy(ctx context.Context, key string, increment float64, member []byte) (float64, error) {
	if c.batching() {
		cmd := c.pipe.ZIncrBy(ctx, key, increment, string(member))
		c.queue.Defer("zincrby", rawResult(cmd.Result), nil, float64(0))
		return 0, nil
	}
	score, err := c.client.ZIncrBy(ctx, key, increment, string(member)).Result()
	return score, driver.WrapCommand("zincrby", translate(err))
}

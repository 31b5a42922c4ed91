package glide

import (
	"context"
	"strconv"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

func bytesArgs(values [][]byte) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// --- HashCommands ---

func (c *conn) HSet(ctx context.Context, key string, fields map[string][]byte) (int64, error) {
	args := make([]string, 0, len(fields)*2)
	for f, v := range fields {
		args = append(args, f, string(v))
	}
	raw, deferred, err := c.do(ctx, "hset", []string{key}, args, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) HGet(ctx context.Context, key, field string) ([]byte, error) {
	raw, deferred, err := c.do(ctx, "hget", []string{key}, []string{field}, asBytes, []byte(nil))
	if deferred || err != nil {
		return nil, err
	}
	return raw.([]byte), nil
}

func (c *conn) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	raw, deferred, err := c.do(ctx, "hgetall", []string{key}, nil, asBytesMap, map[string][]byte(nil))
	if deferred || err != nil {
		return nil, err
	}
	return raw.(map[string][]byte), nil
}

func (c *conn) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	raw, deferred, err := c.do(ctx, "hdel", []string{key}, fields, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) HExists(ctx context.Context, key, field string) (bool, error) {
	raw, deferred, err := c.do(ctx, "hexists", []string{key}, []string{field}, asBool, false)
	if deferred || err != nil {
		return false, err
	}
	return raw.(bool), nil
}

func (c *conn) HLen(ctx context.Context, key string) (int64, error) {
	raw, deferred, err := c.do(ctx, "hlen", []string{key}, nil, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) HKeys(ctx context.Context, key string) ([]string, error) {
	raw, deferred, err := c.do(ctx, "hkeys", []string{key}, nil, asStringSlice, []string(nil))
	if deferred || err != nil {
		return nil, err
	}
	return raw.([]string), nil
}

func (c *conn) HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error) {
	raw, deferred, err := c.do(ctx, "hincrby", []string{key}, []string{field, itoa(delta)}, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

// --- ListCommands ---

func (c *conn) LPush(ctx context.Context, key string, values ...[]byte) (int64, error) {
	raw, deferred, err := c.do(ctx, "lpush", []string{key}, bytesArgs(values), asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) RPush(ctx context.Context, key string, values ...[]byte) (int64, error) {
	raw, deferred, err := c.do(ctx, "rpush", []string{key}, bytesArgs(values), asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) LPop(ctx context.Context, key string) ([]byte, error) {
	raw, deferred, err := c.do(ctx, "lpop", []string{key}, nil, asBytes, []byte(nil))
	if deferred || err != nil {
		return nil, err
	}
	return raw.([]byte), nil
}

func (c *conn) RPop(ctx context.Context, key string) ([]byte, error) {
	raw, deferred, err := c.do(ctx, "rpop", []string{key}, nil, asBytes, []byte(nil))
	if deferred || err != nil {
		return nil, err
	}
	return raw.([]byte), nil
}

func (c *conn) LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	raw, deferred, err := c.do(ctx, "lrange", []string{key}, []string{itoa(start), itoa(stop)}, asBytesSlice, [][]byte(nil))
	if deferred || err != nil {
		return nil, err
	}
	return raw.([][]byte), nil
}

func (c *conn) LLen(ctx context.Context, key string) (int64, error) {
	raw, deferred, err := c.do(ctx, "llen", []string{key}, nil, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) LRem(ctx context.Context, key string, count int64, value []byte) (int64, error) {
	raw, deferred, err := c.do(ctx, "lrem", []string{key}, []string{itoa(count), string(value)}, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) LTrim(ctx context.Context, key string, start, stop int64) error {
	_, _, err := c.do(ctx, "ltrim", []string{key}, []string{itoa(start), itoa(stop)}, asString, "")
	return err
}

// --- SetCommands ---

func (c *conn) SAdd(ctx context.Context, key string, members ...[]byte) (int64, error) {
	raw, deferred, err := c.do(ctx, "sadd", []string{key}, bytesArgs(members), asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) SRem(ctx context.Context, key string, members ...[]byte) (int64, error) {
	raw, deferred, err := c.do(ctx, "srem", []string{key}, bytesArgs(members), asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) SMembers(ctx context.Context, key string) ([][]byte, error) {
	raw, deferred, err := c.do(ctx, "smembers", []string{key}, nil, asBytesSlice, [][]byte(nil))
	if deferred || err != nil {
		return nil, err
	}
	return raw.([][]byte), nil
}

func (c *conn) SIsMember(ctx context.Context, key string, member []byte) (bool, error) {
	raw, deferred, err := c.do(ctx, "sismember", []string{key}, []string{string(member)}, asBool, false)
	if deferred || err != nil {
		return false, err
	}
	return raw.(bool), nil
}

func (c *conn) SCard(ctx context.Context, key string) (int64, error) {
	raw, deferred, err := c.do(ctx, "scard", []string{key}, nil, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

// --- ZSetCommands ---

func (c *conn) ZAdd(ctx context.Context, key string, members ...driver.ZMember) (int64, error) {
	args := make([]string, 0, len(members)*2)
	for _, m := range members {
		args = append(args, ftoa(m.Score), string(m.Member))
	}
	raw, deferred, err := c.do(ctx, "zadd", []string{key}, args, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) ZRem(ctx context.Context, key string, members ...[]byte) (int64, error) {
	raw, deferred, err := c.do(ctx, "zrem", []string{key}, bytesArgs(members), asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) ZRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	raw, deferred, err := c.do(ctx, "zrange", []string{key}, []string{itoa(start), itoa(stop)}, asBytesSlice, [][]byte(nil))
	if deferred || err != nil {
		return nil, err
	}
	return raw.([][]byte), nil
}

func (c *conn) ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]driver.ZMember, error) {
	args := []string{itoa(start), itoa(stop), "WITHSCORES"}
	raw, deferred, err := c.do(ctx, "zrange", []string{key}, args, asZMembers, []driver.ZMember(nil))
	if deferred || err != nil {
		return nil, err
	}
	return raw.([]driver.ZMember), nil
}

func (c *conn) ZRangeByScore(ctx context.Context, key string, by driver.ZRangeBy) ([][]byte, error) {
	args := []string{by.Min, by.Max}
	if by.Count > 0 {
		args = append(args, "LIMIT", itoa(by.Offset), itoa(by.Count))
	}
	raw, deferred, err := c.do(ctx, "zrangebyscore", []string{key}, args, asBytesSlice, [][]byte(nil))
	if deferred || err != nil {
		return nil, err
	}
	return raw.([][]byte), nil
}

func (c *conn) ZScore(ctx context.Context, key string, member []byte) (float64, error) {
	raw, deferred, err := c.do(ctx, "zscore", []string{key}, []string{string(member)}, asFloat64, float64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(float64), nil
}

func (c *conn) ZRank(ctx context.Context, key string, member []byte) (int64, error) {
	raw, deferred, err := c.do(ctx, "zrank", []string{key}, []string{string(member)}, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) ZCard(ctx context.Context, key string) (int64, error) {
	raw, deferred, err := c.do(ctx, "zcard", []string{key}, nil, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) ZIncrBy(ctx context.Context, key string, increment float64, member []byte) (float64, error) {
	raw, deferred, err := c.do(ctx, "zincrby", []string{key}, []string{ftoa(increment), string(member)}, asFloat64, float64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(float64), nil
}

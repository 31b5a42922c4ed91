package template

import (
	"context"
	"time"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

// serializeAll renders a batch of values through the template serializer.
func (t *Template) serializeAll(values []any) ([][]byte, error) {
	out := make([][]byte, len(values))
	for i, v := range values {
		data, err := t.serializer.Serialize(v)
		if err != nil {
			return nil, err
		}
		out[i] = data
	}
	return out, nil
}

// Keys is the view over generic key-space operations.
type Keys struct{ t *Template }

// Keys returns the key-space view.
func (t *Template) Keys() Keys { return Keys{t} }

// Delete removes the given keys and returns how many existed.
func (k Keys) Delete(ctx context.Context, keys ...string) (int64, error) {
	var n int64
	err := k.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		n, err = conn.Del(ctx, keys...)
		return err
	})
	return n, err
}

// Exists reports whether key exists.
func (k Keys) Exists(ctx context.Context, key string) (bool, error) {
	var n int64
	err := k.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		n, err = conn.Exists(ctx, key)
		return err
	})
	return n > 0, err
}

// Expire sets a timeout on key.
func (k Keys) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	var ok bool
	err := k.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		ok, err = conn.Expire(ctx, key, ttl)
		return err
	})
	return ok, err
}

// TTL returns the remaining time to live of key.
func (k Keys) TTL(ctx context.Context, key string) (time.Duration, error) {
	var ttl time.Duration
	err := k.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		ttl, err = conn.TTL(ctx, key)
		return err
	})
	return ttl, err
}

// Rename renames key to newKey.
func (k Keys) Rename(ctx context.Context, key, newKey string) error {
	return k.t.Execute(ctx, func(conn driver.Conn) error {
		return conn.Rename(ctx, key, newKey)
	})
}

// Strings is the view over plain values.
type Strings struct{ t *Template }

// Strings returns the plain-value view.
func (t *Template) Strings() Strings { return Strings{t} }

// Set serializes value and writes it under key. A zero ttl means no
// expiration.
func (s Strings) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := s.t.serializer.Serialize(value)
	if err != nil {
		return err
	}
	return s.t.Execute(ctx, func(conn driver.Conn) error {
		_, err := conn.Set(ctx, key, data, driver.SetOptions{TTL: ttl})
		return err
	})
}

// SetIfAbsent writes value only when key does not exist. Returns whether
// the write happened.
func (s Strings) SetIfAbsent(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	data, err := s.t.serializer.Serialize(value)
	if err != nil {
		return false, err
	}
	var ok bool
	err = s.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		ok, err = conn.Set(ctx, key, data, driver.SetOptions{Condition: driver.SetIfAbsent, TTL: ttl})
		return err
	})
	return ok, err
}

// Get reads key and deserializes it into out. Reports driver.ErrNil when
// the key does not exist.
func (s Strings) Get(ctx context.Context, key string, out any) error {
	return s.t.Execute(ctx, func(conn driver.Conn) error {
		data, err := conn.Get(ctx, key)
		if err != nil {
			return err
		}
		return s.t.serializer.Deserialize(data, out)
	})
}

// MultiGet returns the raw payloads of keys in order; missing keys yield
// nil entries.
func (s Strings) MultiGet(ctx context.Context, keys ...string) ([][]byte, error) {
	var values [][]byte
	err := s.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		values, err = conn.MGet(ctx, keys...)
		return err
	})
	return values, err
}

// Increment adds delta to the integer value of key.
func (s Strings) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	var n int64
	err := s.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		n, err = conn.IncrBy(ctx, key, delta)
		return err
	})
	return n, err
}

// Hashes is the view over hash values.
type Hashes struct{ t *Template }

// Hashes returns the hash view.
func (t *Template) Hashes() Hashes { return Hashes{t} }

// Put serializes value and writes it under field of the hash at key.
func (h Hashes) Put(ctx context.Context, key, field string, value any) error {
	data, err := h.t.serializer.Serialize(value)
	if err != nil {
		return err
	}
	return h.t.Execute(ctx, func(conn driver.Conn) error {
		_, err := conn.HSet(ctx, key, map[string][]byte{field: data})
		return err
	})
}

// PutAll writes all fields in one round trip.
func (h Hashes) PutAll(ctx context.Context, key string, fields map[string]any) error {
	encoded := make(map[string][]byte, len(fields))
	for field, value := range fields {
		data, err := h.t.serializer.Serialize(value)
		if err != nil {
			return err
		}
		encoded[field] = data
	}
	return h.t.Execute(ctx, func(conn driver.Conn) error {
		_, err := conn.HSet(ctx, key, encoded)
		return err
	})
}

// Get reads field of the hash at key and deserializes it into out.
// Reports driver.ErrNil when the field does not exist.
func (h Hashes) Get(ctx context.Context, key, field string, out any) error {
	return h.t.Execute(ctx, func(conn driver.Conn) error {
		data, err := conn.HGet(ctx, key, field)
		if err != nil {
			return err
		}
		return h.t.serializer.Deserialize(data, out)
	})
}

// Entries returns the raw field payloads of the hash at key.
func (h Hashes) Entries(ctx context.Context, key string) (map[string][]byte, error) {
	var entries map[string][]byte
	err := h.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		entries, err = conn.HGetAll(ctx, key)
		return err
	})
	return entries, err
}

// Delete removes fields from the hash at key.
func (h Hashes) Delete(ctx context.Context, key string, fields ...string) (int64, error) {
	var n int64
	err := h.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		n, err = conn.HDel(ctx, key, fields...)
		return err
	})
	return n, err
}

// Has reports whether field exists in the hash at key.
func (h Hashes) Has(ctx context.Context, key, field string) (bool, error) {
	var ok bool
	err := h.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		ok, err = conn.HExists(ctx, key, field)
		return err
	})
	return ok, err
}

// Size returns the number of fields in the hash at key.
func (h Hashes) Size(ctx context.Context, key string) (int64, error) {
	var n int64
	err := h.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		n, err = conn.HLen(ctx, key)
		return err
	})
	return n, err
}

// Lists is the view over list values.
type Lists struct{ t *Template }

// Lists returns the list view.
func (t *Template) Lists() Lists { return Lists{t} }

// LeftPush prepends the serialized values and returns the new length.
func (l Lists) LeftPush(ctx context.Context, key string, values ...any) (int64, error) {
	encoded, err := l.t.serializeAll(values)
	if err != nil {
		return 0, err
	}
	var n int64
	err = l.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		n, err = conn.LPush(ctx, key, encoded...)
		return err
	})
	return n, err
}

// RightPush appends the serialized values and returns the new length.
func (l Lists) RightPush(ctx context.Context, key string, values ...any) (int64, error) {
	encoded, err := l.t.serializeAll(values)
	if err != nil {
		return 0, err
	}
	var n int64
	err = l.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		n, err = conn.RPush(ctx, key, encoded...)
		return err
	})
	return n, err
}

// LeftPop removes the head of the list and deserializes it into out.
// Reports driver.ErrNil when the list is empty.
func (l Lists) LeftPop(ctx context.Context, key string, out any) error {
	return l.t.Execute(ctx, func(conn driver.Conn) error {
		data, err := conn.LPop(ctx, key)
		if err != nil {
			return err
		}
		return l.t.serializer.Deserialize(data, out)
	})
}

// RightPop removes the tail of the list and deserializes it into out.
// Reports driver.ErrNil when the list is empty.
func (l Lists) RightPop(ctx context.Context, key string, out any) error {
	return l.t.Execute(ctx, func(conn driver.Conn) error {
		data, err := conn.RPop(ctx, key)
		if err != nil {
			return err
		}
		return l.t.serializer.Deserialize(data, out)
	})
}

// Range returns the raw payloads between start and stop.
func (l Lists) Range(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	var values [][]byte
	err := l.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		values, err = conn.LRange(ctx, key, start, stop)
		return err
	})
	return values, err
}

// Size returns the length of the list at key.
func (l Lists) Size(ctx context.Context, key string) (int64, error) {
	var n int64
	err := l.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		n, err = conn.LLen(ctx, key)
		return err
	})
	return n, err
}

// Sets is the view over unordered-set values.
type Sets struct{ t *Template }

// Sets returns the set view.
func (t *Template) Sets() Sets { return Sets{t} }

// Add inserts the serialized values and returns how many were new.
func (s Sets) Add(ctx context.Context, key string, values ...any) (int64, error) {
	encoded, err := s.t.serializeAll(values)
	if err != nil {
		return 0, err
	}
	var n int64
	err = s.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		n, err = conn.SAdd(ctx, key, encoded...)
		return err
	})
	return n, err
}

// Remove deletes the serialized values and returns how many were removed.
func (s Sets) Remove(ctx context.Context, key string, values ...any) (int64, error) {
	encoded, err := s.t.serializeAll(values)
	if err != nil {
		return 0, err
	}
	var n int64
	err = s.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		n, err = conn.SRem(ctx, key, encoded...)
		return err
	})
	return n, err
}

// IsMember reports whether the serialized value is in the set.
func (s Sets) IsMember(ctx context.Context, key string, value any) (bool, error) {
	data, err := s.t.serializer.Serialize(value)
	if err != nil {
		return false, err
	}
	var ok bool
	err = s.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		ok, err = conn.SIsMember(ctx, key, data)
		return err
	})
	return ok, err
}

// Members returns the raw payloads of the set at key.
func (s Sets) Members(ctx context.Context, key string) ([][]byte, error) {
	var members [][]byte
	err := s.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		members, err = conn.SMembers(ctx, key)
		return err
	})
	return members, err
}

// Size returns the cardinality of the set at key.
func (s Sets) Size(ctx context.Context, key string) (int64, error) {
	var n int64
	err := s.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		n, err = conn.SCard(ctx, key)
		return err
	})
	return n, err
}

// SortedSets is the view over sorted-set values.
type SortedSets struct{ t *Template }

// SortedSets returns the sorted-set view.
func (t *Template) SortedSets() SortedSets { return SortedSets{t} }

// Add inserts the serialized value with score and returns how many members
// were new.
func (z SortedSets) Add(ctx context.Context, key string, score float64, value any) (int64, error) {
	data, err := z.t.serializer.Serialize(value)
	if err != nil {
		return 0, err
	}
	var n int64
	err = z.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		n, err = conn.ZAdd(ctx, key, driver.ZMember{Member: data, Score: score})
		return err
	})
	return n, err
}

// Remove deletes the serialized values and returns how many were removed.
func (z SortedSets) Remove(ctx context.Context, key string, values ...any) (int64, error) {
	encoded, err := z.t.serializeAll(values)
	if err != nil {
		return 0, err
	}
	var n int64
	err = z.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		n, err = conn.ZRem(ctx, key, encoded...)
		return err
	})
	return n, err
}

// Score returns the score of the serialized value. Reports driver.ErrNil
// when the member is not in the set.
func (z SortedSets) Score(ctx context.Context, key string, value any) (float64, error) {
	data, err := z.t.serializer.Serialize(value)
	if err != nil {
		return 0, err
	}
	var score float64
	err = z.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		score, err = conn.ZScore(ctx, key, data)
		return err
	})
	return score, err
}

// RangeWithScores returns members between start and stop with their
// scores, ordered by ascending score.
func (z SortedSets) RangeWithScores(ctx context.Context, key string, start, stop int64) ([]driver.ZMember, error) {
	var members []driver.ZMember
	err := z.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		members, err = conn.ZRangeWithScores(ctx, key, start, stop)
		return err
	})
	return members, err
}

// IncrementScore adds increment to the score of the serialized value.
func (z SortedSets) IncrementScore(ctx context.Context, key string, increment float64, value any) (float64, error) {
	data, err := z.t.serializer.Serialize(value)
	if err != nil {
		return 0, err
	}
	var score float64
	err = z.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		score, err = conn.ZIncrBy(ctx, key, increment, data)
		return err
	})
	return score, err
}

// Size returns the cardinality of the sorted set at key.
func (z SortedSets) Size(ctx context.Context, key string) (int64, error) {
	var n int64
	err := z.t.Execute(ctx, func(conn driver.Conn) error {
		var err error
		n, err = conn.ZCard(ctx, key)
		return err
	})
	return n, err
}

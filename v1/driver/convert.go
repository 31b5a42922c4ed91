package driver

import (
	"fmt"
	"strconv"
	"time"
)

// ConvertFunc maps a raw reply onto a caller-facing value. Raw replies are
// the small set of shapes the client libraries produce: nil, int64, string,
// []byte, bool, float64, []any, and map[string]string.
type ConvertFunc func(raw any) (any, error)

// ToBytes converts a bulk reply to []byte.
func ToBytes(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case nil:
		return nil, ErrNil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("redisbridge: cannot convert %T to bytes", raw)
	}
}

// ToString converts a bulk or status reply to string.
func ToString(raw any) (string, error) {
	b, err := ToBytes(raw)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToInt64 converts an integer reply (or its string form) to int64.
func ToInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, ErrNil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("redisbridge: cannot parse %q as int64: %w", v, err)
		}
		return n, nil
	case []byte:
		return ToInt64(string(v))
	default:
		return 0, fmt.Errorf("redisbridge: cannot convert %T to int64", raw)
	}
}

// ToFloat64 converts a bulk reply holding a number to float64.
func ToFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, ErrNil
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("redisbridge: cannot parse %q as float64: %w", v, err)
		}
		return f, nil
	case []byte:
		return ToFloat64(string(v))
	default:
		return 0, fmt.Errorf("redisbridge: cannot convert %T to float64", raw)
	}
}

// ToBool converts a reply to bool. Integer replies map 1/0, status replies
// map "OK", and nil maps to false (the condition-not-met shape of SET NX).
func ToBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case int64:
		return v == 1, nil
	case string:
		return v == "OK" || v == "1", nil
	case []byte:
		return ToBool(string(v))
	default:
		return false, fmt.Errorf("redisbridge: cannot convert %T to bool", raw)
	}
}

// ToStringSlice converts an array reply to []string. Nil elements become
// empty strings.
func ToStringSlice(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, len(v))
		for i, el := range v {
			if el == nil {
				continue
			}
			s, err := ToString(el)
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("redisbridge: cannot convert %T to []string", raw)
	}
}

// ToBytesSlice converts an array reply to [][]byte. Nil elements stay nil,
// preserving the missing-key positions of MGET.
func ToBytesSlice(raw any) ([][]byte, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case [][]byte:
		return v, nil
	case []string:
		out := make([][]byte, len(v))
		for i, s := range v {
			out[i] = []byte(s)
		}
		return out, nil
	case []any:
		out := make([][]byte, len(v))
		for i, el := range v {
			if el == nil {
				continue
			}
			b, err := ToBytes(el)
			if err != nil {
				return nil, err
			}
			out[i] = b
		}
		return out, nil
	default:
		return nil, fmt.Errorf("redisbridge: cannot convert %T to [][]byte", raw)
	}
}

// ToBytesMap converts a field/value reply to map[string][]byte. Accepts the
// map shape produced by go-redis and the flat pair array produced by HGETALL
// over scripting.
func ToBytesMap(raw any) (map[string][]byte, error) {
	switch v := raw.(type) {
	case nil:
		return map[string][]byte{}, nil
	case map[string]string:
		out := make(map[string][]byte, len(v))
		for k, s := range v {
			out[k] = []byte(s)
		}
		return out, nil
	case []any:
		if len(v)%2 != 0 {
			return nil, fmt.Errorf("redisbridge: odd pair array of length %d", len(v))
		}
		out := make(map[string][]byte, len(v)/2)
		for i := 0; i < len(v); i += 2 {
			k, err := ToString(v[i])
			if err != nil {
				return nil, err
			}
			val, err := ToBytes(v[i+1])
			if err != nil {
				return nil, err
			}
			out[k] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("redisbridge: cannot convert %T to map[string][]byte", raw)
	}
}

// ToZMembers converts a flat member/score pair array (the WITHSCORES reply
// shape) to []ZMember.
func ToZMembers(raw any) ([]ZMember, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []ZMember:
		return v, nil
	case []any:
		if len(v)%2 != 0 {
			return nil, fmt.Errorf("redisbridge: odd member/score array of length %d", len(v))
		}
		out := make([]ZMember, 0, len(v)/2)
		for i := 0; i < len(v); i += 2 {
			member, err := ToBytes(v[i])
			if err != nil {
				return nil, err
			}
			score, err := ToFloat64(v[i+1])
			if err != nil {
				return nil, err
			}
			out = append(out, ZMember{Member: member, Score: score})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("redisbridge: cannot convert %T to []ZMember", raw)
	}
}

// SecondsToTTL converts a TTL integer reply to a duration, preserving the
// -1/-2 sentinels as TTLPersistent and TTLMissing.
func SecondsToTTL(raw any) (time.Duration, error) {
	n, err := ToInt64(raw)
	if err != nil {
		return 0, err
	}
	switch n {
	case -1:
		return TTLPersistent, nil
	case -2:
		return TTLMissing, nil
	default:
		return time.Duration(n) * time.Second, nil
	}
}

// ToScanCursor converts a SCAN reply ([cursor, keys]) to a ScanCursor.
func ToScanCursor(raw any) (ScanCursor, error) {
	arr, ok := raw.([]any)
	if !ok || len(arr) != 2 {
		return ScanCursor{}, fmt.Errorf("redisbridge: malformed scan reply %T", raw)
	}
	cursorStr, err := ToString(arr[0])
	if err != nil {
		return ScanCursor{}, err
	}
	cursor, err := strconv.ParseUint(cursorStr, 10, 64)
	if err != nil {
		return ScanCursor{}, fmt.Errorf("redisbridge: malformed scan cursor %q: %w", cursorStr, err)
	}
	keys, err := ToStringSlice(arr[1])
	if err != nil {
		return ScanCursor{}, err
	}
	return ScanCursor{Cursor: cursor, Keys: keys}, nil
}

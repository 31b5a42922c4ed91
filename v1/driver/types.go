package driver

import "time"

// ZMember is a sorted-set member together with its score.
type ZMember struct {
	Member []byte
	Score  float64
}

// ZRangeBy bounds a score-range query. Min and Max use Redis syntax:
// "-inf", "+inf", "1.5", or exclusive bounds like "(1.5".
type ZRangeBy struct {
	Min, Max string
	Offset   int64
	Count    int64
}

// SetCondition controls when a SET takes effect.
type SetCondition int

const (
	// SetAlways writes unconditionally.
	SetAlways SetCondition = iota
	// SetIfAbsent writes only when the key does not exist (NX).
	SetIfAbsent
	// SetIfPresent writes only when the key already exists (XX).
	SetIfPresent
)

// SetOptions carries the optional arguments of the SET command.
type SetOptions struct {
	// Condition selects NX/XX behavior. Zero value writes unconditionally.
	Condition SetCondition

	// TTL sets an expiration on the key. Zero means no expiration.
	TTL time.Duration

	// KeepTTL retains the key's existing TTL instead of clearing it.
	// Mutually exclusive with TTL.
	KeepTTL bool
}

// ScanCursor is the result of one SCAN iteration.
type ScanCursor struct {
	// Cursor is the cursor to pass to the next Scan call. Zero means the
	// iteration is complete.
	Cursor uint64

	// Keys are the keys returned by this iteration.
	Keys []string
}

// Message is a single pub/sub message.
type Message struct {
	// Channel is the channel the message was published to.
	Channel string

	// Pattern is the subscription pattern that matched, empty for plain
	// channel subscriptions.
	Pattern string

	// Payload is the message body.
	Payload []byte
}

// TTL sentinels, mirroring the -1/-2 integer replies of the TTL command.
const (
	// TTLPersistent reports a key that exists but has no expiration.
	TTLPersistent = time.Duration(-1) * time.Second

	// TTLMissing reports a key that does not exist.
	TTLMissing = time.Duration(-2) * time.Second
)

// Mode is the execution mode of a Conn.
type Mode int

const (
	// ModeDirect executes commands immediately.
	ModeDirect Mode = iota
	// ModePipeline buffers commands until ClosePipeline.
	ModePipeline
	// ModeQueue buffers commands into a MULTI/EXEC transaction.
	ModeQueue
)

// String returns the mode name used in logs and metrics labels.
func (m Mode) String() string {
	switch m {
	case ModePipeline:
		return "pipeline"
	case ModeQueue:
		return "queue"
	default:
		return "direct"
	}
}

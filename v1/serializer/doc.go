// Package serializer defines how Go values are turned into the byte
// payloads stored under Redis keys, and back.
//
// The template package runs every value through a Serializer, so swapping
// the wire format is a construction-time decision rather than a per-call
// one. Three implementations ship with the module:
//
//   - String: raw pass-through for string and []byte values
//   - JSON: encoding/json, the default for structured values
//   - Gob: encoding/gob, for Go-to-Go payloads where compactness beats
//     interoperability
//
// Implementations must be safe for concurrent use.
package serializer

package serializer

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
)

// Serializer converts values to and from their stored byte form.
type Serializer interface {
	// Serialize renders value as the payload written to the server.
	Serialize(value any) ([]byte, error)

	// Deserialize parses data into out, which must be a non-nil pointer.
	Deserialize(data []byte, out any) error
}

// String passes string and []byte values through unchanged. It rejects
// other types instead of guessing at a representation.
type String struct{}

// NewString returns the pass-through serializer.
func NewString() String {
	return String{}
}

func (String) Serialize(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("serializer: string serializer cannot encode %T", value)
	}
}

func (String) Deserialize(data []byte, out any) error {
	switch p := out.(type) {
	case *string:
		*p = string(data)
		return nil
	case *[]byte:
		*p = data
		return nil
	default:
		return fmt.Errorf("serializer: string serializer cannot decode into %T", out)
	}
}

// JSON stores values as JSON documents.
type JSON struct{}

// NewJSON returns the JSON serializer.
func NewJSON() JSON {
	return JSON{}
}

func (JSON) Serialize(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("serializer: json encode: %w", err)
	}
	return data, nil
}

func (JSON) Deserialize(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("serializer: json decode: %w", err)
	}
	return nil
}

// Gob stores values in Go's gob encoding. Payloads are only readable by
// Go programs sharing the type definitions.
type Gob struct{}

// NewGob returns the gob serializer.
func NewGob() Gob {
	return Gob{}
}

func (Gob) Serialize(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return nil, fmt.Errorf("serializer: gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (Gob) Deserialize(data []byte, out any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(out); err != nil {
		return fmt.Errorf("serializer: gob decode: %w", err)
	}
	return nil
}

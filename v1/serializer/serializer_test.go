package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSerializer(t *testing.T) {
	s := NewString()

	data, err := s.Serialize("hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	data, err = s.Serialize([]byte{0x00, 0xff})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, data, "binary payloads pass through untouched")

	var out string
	require.NoError(t, s.Deserialize([]byte("world"), &out))
	assert.Equal(t, "world", out)

	_, err = s.Serialize(42)
	assert.Error(t, err)

	var n int
	assert.Error(t, s.Deserialize([]byte("1"), &n))
}

func TestJSONSerializer(t *testing.T) {
	type session struct {
		User  string `json:"user"`
		Count int    `json:"count"`
	}

	s := NewJSON()

	data, err := s.Serialize(session{User: "ada", Count: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":"ada","count":3}`, string(data))

	var out session
	require.NoError(t, s.Deserialize(data, &out))
	assert.Equal(t, session{User: "ada", Count: 3}, out)

	assert.Error(t, s.Deserialize([]byte("{broken"), &out))
}

func TestGobSerializer(t *testing.T) {
	type point struct {
		X, Y int
	}

	s := NewGob()

	data, err := s.Serialize(point{X: 1, Y: -2})
	require.NoError(t, err)

	var out point
	require.NoError(t, s.Deserialize(data, &out))
	assert.Equal(t, point{X: 1, Y: -2}, out)

	assert.Error(t, s.Deserialize([]byte("not gob"), &out))
}

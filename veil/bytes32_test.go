package veil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBytes32(t *testing.T) {
	s := "0x0101010101010101010101010101010101010101010101010101010101010101"

	b, err := ParseBytes32(s)
	require.NoError(t, err)
	assert.Equal(t, s, b.String())

	b2, err := ParseBytes32(s[2:])
	require.NoError(t, err)
	assert.Equal(t, b, b2)

	_, err = ParseBytes32("0x01")
	assert.Error(t, err)
}

func TestBytes32JSON(t *testing.T) {
	b := RandBytes32()

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded Bytes32
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)
}

func TestRandBytes32(t *testing.T) {
	assert.NotEqual(t, RandBytes32(), RandBytes32())
	assert.True(t, Bytes32{}.IsZero())
	assert.False(t, RandBytes32().IsZero())
}

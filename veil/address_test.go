package veil

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	s := "0xabcdef0123456789abcdef0123456789abcdef01"

	addr, err := ParseAddress(s)
	require.NoError(t, err)
	assert.Equal(t, s, addr.String())

	// without 0x prefix
	addr2, err := ParseAddress(s[2:])
	require.NoError(t, err)
	assert.Equal(t, addr, addr2)

	_, err = ParseAddress("0xabc")
	assert.Error(t, err)
	_, err = ParseAddress("zzcdef0123456789abcdef0123456789abcdef01")
	assert.Error(t, err)
}

func TestAddressJSON(t *testing.T) {
	addr := MustParseAddress("0xabcdef0123456789abcdef0123456789abcdef01")

	data, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
}

func TestPubkeyToAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	addr := PubkeyToAddress(&key.PublicKey)
	assert.Equal(t, Address(crypto.PubkeyToAddress(key.PublicKey)), addr)
	assert.False(t, addr.IsZero())
}

func TestBytesToAddress(t *testing.T) {
	addr := BytesToAddress([]byte("ab"))
	// extended from the left
	assert.Equal(t, "0x0000000000000000000000000000000000006162", addr.String())
}

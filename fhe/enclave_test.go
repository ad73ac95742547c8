// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fhe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilchain/veil/lvldb"
	"github.com/veilchain/veil/test/datagen"
	"github.com/veilchain/veil/veil"
)

// allowAll authorizes every principal, for tests that only exercise arithmetic.
type allowAll struct{}

func (allowAll) IsAllowed(Handle, veil.Address) (bool, error) { return true, nil }

// grantSet authorizes explicitly added (handle, principal) pairs.
type grantSet map[[52]byte]bool

func (g grantSet) add(h Handle, p veil.Address) {
	var key [52]byte
	copy(key[:32], h[:])
	copy(key[32:], p[:])
	g[key] = true
}

func (g grantSet) IsAllowed(h Handle, p veil.Address) (bool, error) {
	var key [52]byte
	copy(key[:32], h[:])
	copy(key[32:], p[:])
	return g[key], nil
}

func newTestEnclave(t *testing.T, auth Authorizer) *Enclave {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	secret := datagen.RandBytes32()
	eng, err := NewEnclave(db, secret[:], auth)
	require.NoError(t, err)
	return eng
}

func (e *Enclave) mustReveal(t *testing.T, h Handle, p veil.Address) uint64 {
	v, err := e.Reveal(h, p)
	require.NoError(t, err)
	return v
}

func TestEnclaveArithmetic(t *testing.T) {
	eng := newTestEnclave(t, allowAll{})
	anyone := datagen.RandAddress()

	a, err := eng.EncryptConstant(1000)
	require.NoError(t, err)
	b, err := eng.EncryptConstant(42)
	require.NoError(t, err)

	sum, err := eng.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, uint64(1042), eng.mustReveal(t, sum, anyone))

	diff, err := eng.Sub(a, b)
	require.NoError(t, err)
	assert.Equal(t, uint64(958), eng.mustReveal(t, diff, anyone))

	product, err := eng.Mul(a, b)
	require.NoError(t, err)
	assert.Equal(t, uint64(42000), eng.mustReveal(t, product, anyone))

	quot, err := eng.DivConstant(a, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(333), eng.mustReveal(t, quot, anyone))

	_, err = eng.DivConstant(a, 0)
	assert.Equal(t, ErrZeroDivisor, err)

	// every op mints a fresh handle
	assert.NotEqual(t, a, sum)
	assert.NotEqual(t, a, diff)
}

func TestEnclaveWraparound(t *testing.T) {
	eng := newTestEnclave(t, allowAll{})
	anyone := datagen.RandAddress()

	small, err := eng.EncryptConstant(1)
	require.NoError(t, err)
	big, err := eng.EncryptConstant(2)
	require.NoError(t, err)

	wrapped, err := eng.Sub(small, big)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), eng.mustReveal(t, wrapped, anyone))

	maxed, err := eng.EncryptConstant(math.MaxUint64)
	require.NoError(t, err)
	over, err := eng.Add(maxed, big)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), eng.mustReveal(t, over, anyone))
}

func TestEnclaveUnknownHandle(t *testing.T) {
	eng := newTestEnclave(t, allowAll{})

	bogus := Handle(datagen.RandBytes32())
	known, err := eng.EncryptConstant(7)
	require.NoError(t, err)

	_, err = eng.Add(known, bogus)
	assert.Equal(t, ErrUnknownHandle, err)
	_, err = eng.Reveal(bogus, datagen.RandAddress())
	assert.Equal(t, ErrUnknownHandle, err)
}

func TestEnclaveRevealGrants(t *testing.T) {
	grants := grantSet{}
	eng := newTestEnclave(t, grants)

	owner := datagen.RandAddress()
	outsider := datagen.RandAddress()

	h, err := eng.EncryptConstant(99)
	require.NoError(t, err)
	grants.add(h, owner)

	v, err := eng.Reveal(h, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), v)

	// ungranted principal gets the same answer as an unknown handle
	_, err = eng.Reveal(h, outsider)
	assert.Equal(t, ErrUnknownHandle, err)
	_, err = eng.Reveal(Handle(datagen.RandBytes32()), outsider)
	assert.Equal(t, ErrUnknownHandle, err)
}

func TestExternalInputProof(t *testing.T) {
	eng := newTestEnclave(t, allowAll{})
	submitter := datagen.RandAddress()
	anyone := datagen.RandAddress()

	input, err := eng.PrepareInput(250, submitter)
	require.NoError(t, err)

	imported, err := eng.FromExternalInput(input.Handle, input.Proof, submitter)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), eng.mustReveal(t, imported, anyone))
	// re-sealed under a fresh handle
	assert.NotEqual(t, input.Handle, imported)

	// bound to the submitter
	_, err = eng.FromExternalInput(input.Handle, input.Proof, datagen.RandAddress())
	assert.Equal(t, ErrInvalidProof, err)

	// bound to the engine context
	foreign := newTestEnclave(t, allowAll{})
	foreignInput, err := foreign.PrepareInput(250, submitter)
	require.NoError(t, err)
	_, err = eng.FromExternalInput(foreignInput.Handle, foreignInput.Proof, submitter)
	assert.Equal(t, ErrInvalidProof, err)

	// tampered proof
	badProof := append([]byte(nil), input.Proof...)
	badProof[0] ^= 1
	_, err = eng.FromExternalInput(input.Handle, badProof, submitter)
	assert.Equal(t, ErrInvalidProof, err)
}

func TestEnclaveContextDiffersPerSecret(t *testing.T) {
	a := newTestEnclave(t, allowAll{})
	b := newTestEnclave(t, allowAll{})
	assert.NotEqual(t, a.ContextID(), b.ContextID())
}

// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package acl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilchain/veil/fhe"
	"github.com/veilchain/veil/lvldb"
	"github.com/veilchain/veil/test/datagen"
)

func TestACL(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	a := New(db)

	h := fhe.Handle(datagen.RandBytes32())
	owner := datagen.RandAddress()
	outsider := datagen.RandAddress()

	ok, err := a.IsAllowed(h, owner)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.Allow(h, owner))
	// idempotent
	require.NoError(t, a.Allow(h, owner))

	ok, err = a.IsAllowed(h, owner)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.IsAllowed(h, outsider)
	require.NoError(t, err)
	assert.False(t, ok)

	// a grant names one handle, not the principal globally
	ok, err = a.IsAllowed(fhe.Handle(datagen.RandBytes32()), owner)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestACLSurvivesCache(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	h := fhe.Handle(datagen.RandBytes32())
	owner := datagen.RandAddress()
	require.NoError(t, New(db).Allow(h, owner))

	// a fresh ACL over the same store sees the persisted grant
	ok, err := New(db).IsAllowed(h, owner)
	require.NoError(t, err)
	assert.True(t, ok)
}

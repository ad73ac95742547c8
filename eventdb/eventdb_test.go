// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilchain/veil/test/datagen"
	"github.com/veilchain/veil/veil"
)

func TestAppendAndFilter(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	alice := datagen.RandAddress()
	bob := datagen.RandAddress()

	events := []*Event{
		{Timestamp: 100, Kind: KindClaimed, Principal: alice, Amount: veil.InitialGrant},
		{Timestamp: 200, Kind: KindStaked, Principal: alice},
		{Timestamp: 300, Kind: KindClaimed, Principal: bob, Amount: veil.InitialGrant},
		{Timestamp: 400, Kind: KindUnstaked, Principal: alice},
		{Timestamp: 500, Kind: KindInterestClaimed, Principal: alice, Days: 2},
	}
	var lastSeq uint64
	for _, ev := range events {
		seq, err := db.Append(ctx, ev)
		require.NoError(t, err)
		assert.Greater(t, seq, lastSeq)
		lastSeq = seq
	}

	// no filter returns everything in sequence order
	all, err := db.Filter(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, KindClaimed, all[0].Kind)
	assert.Equal(t, alice, all[0].Principal)
	assert.Equal(t, veil.InitialGrant, all[0].Amount)

	// by principal
	got, err := db.Filter(ctx, &Filter{Principal: &alice})
	require.NoError(t, err)
	assert.Len(t, got, 4)

	// by kind
	got, err = db.Filter(ctx, &Filter{Kind: KindClaimed})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// by principal and kind
	got, err = db.Filter(ctx, &Filter{Principal: &bob, Kind: KindClaimed})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, bob, got[0].Principal)

	// timestamp range, inclusive bounds
	got, err = db.Filter(ctx, &Filter{From: 200, To: 400})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// limit
	got, err = db.Filter(ctx, &Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// days round-trips
	got, err = db.Filter(ctx, &Filter{Kind: KindInterestClaimed})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(2), got[0].Days)
}

func TestFilterEmpty(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Filter(context.Background(), &Filter{Kind: KindStaked})
	require.NoError(t, err)
	assert.Empty(t, got)
}

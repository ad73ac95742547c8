// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilchain/veil/fhe"
	"github.com/veilchain/veil/lvldb"
	"github.com/veilchain/veil/test/datagen"
	"github.com/veilchain/veil/veil"
)

type allowAll struct{}

func (allowAll) IsAllowed(fhe.Handle, veil.Address) (bool, error) { return true, nil }

func newTestEngine(t *testing.T) *fhe.Enclave {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	secret := datagen.RandBytes32()
	eng, err := fhe.NewEnclave(db, secret[:], allowAll{})
	require.NoError(t, err)
	return eng
}

func reveal(t *testing.T, eng *fhe.Enclave, h fhe.Handle) uint64 {
	v, err := eng.Reveal(h, veil.Address{})
	require.NoError(t, err)
	return v
}

func encrypt(t *testing.T, eng *fhe.Enclave, v uint64) fhe.Handle {
	h, err := eng.EncryptConstant(v)
	require.NoError(t, err)
	return h
}

func TestSettleBootstrap(t *testing.T) {
	eng := newTestEngine(t)
	staked := encrypt(t, eng, 500)
	pending := encrypt(t, eng, 0)

	now := uint64(1700000000)
	res, err := Settle(eng, staked, pending, 0, now)
	require.NoError(t, err)

	assert.Equal(t, now, res.Last)
	assert.Equal(t, uint64(0), res.Days)
	assert.Equal(t, pending, res.Pending)
}

func TestSettleSubDayNoop(t *testing.T) {
	eng := newTestEngine(t)
	staked := encrypt(t, eng, 500)
	pending := encrypt(t, eng, 7)

	last := uint64(1700000000)
	res, err := Settle(eng, staked, pending, last, last+veil.SecondsPerDay-1)
	require.NoError(t, err)

	assert.Equal(t, last, res.Last)
	assert.Equal(t, uint64(0), res.Days)
	assert.Equal(t, pending, res.Pending)
}

func TestSettleWholeDays(t *testing.T) {
	eng := newTestEngine(t)

	tests := []struct {
		staked  uint64
		pending uint64
		days    uint64
		extra   uint64 // sub-day seconds on top
		want    uint64
	}{
		{500, 0, 3, 0, 15},
		{500, 7, 3, 0, 22},
		{1000, 0, 1, 3600, 10},
		{99, 0, 1, 0, 0},    // floor: 99/100 drops below 1
		{199, 0, 1, 0, 1},   // floor
		{33, 0, 10, 0, 3},   // 330/100
		{0, 5, 4, 0, 5},     // nothing staked, pending untouched
	}
	for _, tt := range tests {
		last := uint64(1700000000)
		now := last + tt.days*veil.SecondsPerDay + tt.extra
		res, err := Settle(eng, encrypt(t, eng, tt.staked), encrypt(t, eng, tt.pending), last, now)
		require.NoError(t, err)

		assert.Equal(t, tt.want, reveal(t, eng, res.Pending))
		assert.Equal(t, tt.days, res.Days)
		// the checkpoint advances by whole days only, keeping the remainder
		assert.Equal(t, last+tt.days*veil.SecondsPerDay, res.Last)
	}
}

func TestSettleMonotonic(t *testing.T) {
	eng := newTestEngine(t)
	staked := encrypt(t, eng, 500)
	pending := encrypt(t, eng, 0)

	last := uint64(1700000000)
	res, err := Settle(eng, staked, pending, last, last-veil.SecondsPerDay)
	require.NoError(t, err)

	// the checkpoint never moves backwards
	assert.Equal(t, last, res.Last)
	assert.Equal(t, uint64(0), res.Days)
	assert.Equal(t, pending, res.Pending)
}

func TestSettleRemainderCarriesForward(t *testing.T) {
	eng := newTestEngine(t)
	staked := encrypt(t, eng, 100)
	pending := encrypt(t, eng, 0)

	last := uint64(1700000000)
	halfDay := veil.SecondsPerDay / 2

	// a day and a half: one day settles, half a day remains
	res, err := Settle(eng, staked, pending, last, last+veil.SecondsPerDay+halfDay)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Days)
	assert.Equal(t, last+veil.SecondsPerDay, res.Last)

	// another half day completes the second day
	res2, err := Settle(eng, staked, res.Pending, res.Last, last+2*veil.SecondsPerDay)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res2.Days)
	assert.Equal(t, uint64(2), reveal(t, eng, res2.Pending))
}

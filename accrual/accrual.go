// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual computes interest owed since the last checkpoint, purely as
// encrypted arithmetic over the staked balance. The elapsed-day count is
// public (timestamps are not secret), so it is safe as a plaintext multiplier.
package accrual

import (
	"github.com/veilchain/veil/fhe"
	"github.com/veilchain/veil/veil"
)

// Result of a settlement.
type Result struct {
	// Pending is the pending-interest handle after settlement.
	Pending fhe.Handle
	// Last is the advanced checkpoint. It moves by consumed whole days only,
	// preserving the sub-day remainder for the next checkpoint.
	Last uint64
	// Days is the number of whole days consumed by this settlement.
	Days uint64
}

// Settle accrues 1% of the staked balance per elapsed whole day onto pending.
//
// A zero checkpoint bootstraps: the checkpoint jumps to now and nothing
// accrues, so an account never accrues from epoch zero. Sub-day intervals
// accrue nothing and leave the checkpoint untouched; this is a policy choice,
// not a rounding artifact. Fractional interest below 1 unit per settlement is
// dropped by the floor division, not carried.
func Settle(eng fhe.Engine, staked, pending fhe.Handle, last, now uint64) (*Result, error) {
	if last == 0 {
		return &Result{Pending: pending, Last: now, Days: 0}, nil
	}
	if now <= last {
		// the checkpoint never moves backwards
		return &Result{Pending: pending, Last: last, Days: 0}, nil
	}

	days := (now - last) / veil.SecondsPerDay
	if days == 0 {
		return &Result{Pending: pending, Last: last, Days: 0}, nil
	}

	dayCount, err := eng.EncryptConstant(days)
	if err != nil {
		return nil, err
	}
	product, err := eng.Mul(staked, dayCount)
	if err != nil {
		return nil, err
	}
	accrued, err := eng.DivConstant(product, veil.InterestRateDivisor)
	if err != nil {
		return nil, err
	}
	newPending, err := eng.Add(pending, accrued)
	if err != nil {
		return nil, err
	}

	return &Result{
		Pending: newPending,
		Last:    last + days*veil.SecondsPerDay,
		Days:    days,
	}, nil
}

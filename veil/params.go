// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package veil

// Constants of the confidential ledger.
const (
	// InitialGrant the fixed amount credited to an account by its one-time claim.
	// It is a public constant; only its placement across buckets is confidential.
	InitialGrant uint64 = 1000

	// SecondsPerDay length of a whole accrual day.
	SecondsPerDay uint64 = 86400

	// InterestRateDivisor divisor applied to staked*days, i.e. 1% of the
	// staked balance per elapsed whole day, floor division.
	InterestRateDivisor uint64 = 100
)

// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledgerapi

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/veilchain/veil/fhe"
	"github.com/veilchain/veil/ledger"
)

// Account is the public view of an account. Handles are opaque without a
// decrypt grant; the timestamp is surfaced as a decimal 256-bit quantity.
type Account struct {
	Liquid               fhe.Handle `json:"liquid"`
	Staked               fhe.Handle `json:"staked"`
	PendingInterest      fhe.Handle `json:"pendingInterest"`
	LastAccrualTimestamp string     `json:"lastAccrualTimestamp"`
	Claimed              bool       `json:"claimed"`
}

func convertAccount(state *ledger.AccountState) *Account {
	return &Account{
		Liquid:               state.Liquid,
		Staked:               state.Staked,
		PendingInterest:      state.Pending,
		LastAccrualTimestamp: uint256.NewInt(state.LastAccrual).Dec(),
		Claimed:              state.Claimed,
	}
}

// ClaimRequest the body of claim and interest calls. The signature is a
// 65-byte recoverable secp256k1 signature over the operation digest.
type ClaimRequest struct {
	Signature hexutil.Bytes `json:"signature"`
}

// StakeRequest the body of stake and unstake calls.
type StakeRequest struct {
	Handle    fhe.Handle    `json:"handle"`
	Proof     hexutil.Bytes `json:"proof"`
	Signature hexutil.Bytes `json:"signature"`
}

// InterestResult reports how many whole days the settlement covered.
type InterestResult struct {
	DaysAccrued uint64 `json:"daysAccrued"`
}

// RevealRequest asks for the plaintext behind a handle. The signer must
// hold a decrypt grant on the handle.
type RevealRequest struct {
	Handle    fhe.Handle    `json:"handle"`
	Signature hexutil.Bytes `json:"signature"`
}

// RevealResult the plaintext value of a revealed handle.
type RevealResult struct {
	Value uint64 `json:"value"`
}

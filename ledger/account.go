// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/veilchain/veil/fhe"
	"github.com/veilchain/veil/kv"
	"github.com/veilchain/veil/veil"
)

// Account per-principal ledger record. The three balances are ciphertext
// handles; only the checkpoint and the one-time-claim guard are plaintext.
// Before the claim the handles are the null handle and must not be read.
type Account struct {
	Liquid      fhe.Handle
	Staked      fhe.Handle
	Pending     fhe.Handle
	LastAccrual uint64
	Claimed     bool
}

func loadAccount(store kv.Getter, addr veil.Address) (*Account, error) {
	data, err := store.Get(addr.Bytes())
	if err != nil {
		if store.IsNotFound(err) {
			return &Account{}, nil
		}
		return nil, errors.Wrap(err, "load account")
	}
	var acc Account
	if err := rlp.DecodeBytes(data, &acc); err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	return &acc, nil
}

func saveAccount(store kv.Putter, addr veil.Address, acc *Account) error {
	data, err := rlp.EncodeToBytes(acc)
	if err != nil {
		return errors.Wrap(err, "encode account")
	}
	return errors.Wrap(store.Put(addr.Bytes(), data), "save account")
}

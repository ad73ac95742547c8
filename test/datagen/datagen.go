// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random fixtures for tests.
package datagen

import (
	"crypto/ecdsa"
	"crypto/rand"
	mathrand "math/rand/v2"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/veilchain/veil/veil"
)

func RandBytes32() (b veil.Bytes32) {
	rand.Read(b[:])
	return
}

func RandAddress() (addr veil.Address) {
	rand.Read(addr[:])
	return
}

// RandKey returns a fresh secp256k1 key and its derived address.
func RandKey() (*ecdsa.PrivateKey, veil.Address) {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return key, veil.Address(crypto.PubkeyToAddress(key.PublicKey))
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

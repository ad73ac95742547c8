// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cry provides the signing and digest helpers used to
// authenticate API callers.
package cry

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/veilchain/veil/cache"
	"github.com/veilchain/veil/veil"
)

var signerCache, _ = cache.NewLRU(1024)

// HashSum computes the keccak-256 digest of the concatenated inputs.
func HashSum(data ...[]byte) (hash veil.Bytes32) {
	h := crypto.NewKeccakState()
	for _, b := range data {
		h.Write(b)
	}
	h.Read(hash[:])
	return
}

// OpDigest builds the signing digest for a ledger operation.
// The domain tag prevents a signature made for one operation kind
// from being replayed as another.
func OpDigest(op string, principal veil.Address, payload ...[]byte) veil.Bytes32 {
	data := make([][]byte, 0, len(payload)+3)
	data = append(data, []byte("veil-op-v1"), []byte(op), principal[:])
	data = append(data, payload...)
	return HashSum(data...)
}

// RevealDigest builds the signing digest for a reveal request.
func RevealDigest(handle veil.Bytes32) veil.Bytes32 {
	return HashSum([]byte("veil-reveal-v1"), handle[:])
}

// Sign calculates a recoverable ECDSA signature over the given digest.
func Sign(digest veil.Bytes32, priv *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(digest[:], priv)
	if err != nil {
		return nil, errors.Wrap(err, "sign digest")
	}
	return sig, nil
}

// RecoverSigner extracts the signer address from a 65-byte recoverable
// signature. Recovered addresses are cached by (digest, sig) since API
// callers tend to retry with identical requests.
func RecoverSigner(digest veil.Bytes32, sig []byte) (veil.Address, error) {
	if len(sig) != 65 {
		return veil.Address{}, errors.New("invalid signature length")
	}
	cacheKey := HashSum(digest[:], sig)
	if v, ok := signerCache.Get(cacheKey); ok {
		return v.(veil.Address), nil
	}
	pub, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return veil.Address{}, errors.Wrap(err, "recover signer")
	}
	signer := veil.Address(crypto.PubkeyToAddress(*pub))
	signerCache.Add(cacheKey, signer)
	return signer, nil
}

// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"

	"github.com/veilchain/veil/veil"
)

func TestSignAndRecover(t *testing.T) {
	priv, err := crypto.GenerateKey()
	assert.Nil(t, err)
	owner := veil.Address(crypto.PubkeyToAddress(priv.PublicKey))

	digest := OpDigest("stake", owner, []byte("payload"))
	sig, err := Sign(digest, priv)
	assert.Nil(t, err)
	assert.Len(t, sig, 65)

	signer, err := RecoverSigner(digest, sig)
	assert.Nil(t, err)
	assert.Equal(t, owner, signer)

	// cached path returns the same result
	signer, err = RecoverSigner(digest, sig)
	assert.Nil(t, err)
	assert.Equal(t, owner, signer)
}

func TestRecoverSignerInvalid(t *testing.T) {
	_, err := RecoverSigner(veil.Bytes32{}, []byte("short"))
	assert.Error(t, err)
}

func TestDigestsDiffer(t *testing.T) {
	priv, _ := crypto.GenerateKey()
	owner := veil.Address(crypto.PubkeyToAddress(priv.PublicKey))

	stake := OpDigest("stake", owner, []byte{1})
	unstake := OpDigest("unstake", owner, []byte{1})
	assert.NotEqual(t, stake, unstake)

	h := veil.RandBytes32()
	assert.NotEqual(t, OpDigest("reveal", owner, h[:]), RevealDigest(h))
}

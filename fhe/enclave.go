// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fhe

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"io"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"

	"github.com/veilchain/veil/kv"
	"github.com/veilchain/veil/veil"
)

// nonce is taken from the random handle ID, so it is unique per sealed value.
const nonceSize = 12

var _ Engine = (*Enclave)(nil)

// Enclave is the in-process reference implementation of Engine. Each handle
// is a random 32-byte ID; the 8-byte value is sealed with AES-GCM under a key
// derived from the node secret and kept in a kv bucket. Plaintext exists only
// transiently inside enclave arithmetic.
type Enclave struct {
	store   kv.GetPutter
	aead    cipher.AEAD
	macKey  []byte
	context veil.Bytes32
	auth    Authorizer
}

// NewEnclave creates an enclave sealing ciphertexts into the given store.
// The sealing and proof-MAC keys are derived from secret via HKDF; the
// engine context ID commits to the MAC key without disclosing it.
func NewEnclave(store kv.GetPutter, secret []byte, auth Authorizer) (*Enclave, error) {
	kdf := hkdf.New(sha256.New, secret, nil, []byte("veil-enclave-v1"))
	keys := make([]byte, 64)
	if _, err := io.ReadFull(kdf, keys); err != nil {
		return nil, errors.Wrap(err, "derive enclave keys")
	}

	block, err := aes.NewCipher(keys[:32])
	if err != nil {
		return nil, errors.Wrap(err, "new enclave cipher")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "new enclave aead")
	}

	macKey := keys[32:]
	return &Enclave{
		store:   store,
		aead:    aead,
		macKey:  macKey,
		context: veil.BytesToBytes32(crypto.Keccak256([]byte("veil-input-context"), crypto.Keccak256(macKey))),
		auth:    auth,
	}, nil
}

// ContextID identifies this engine instance for input binding. Proofs are
// only valid for the context they were produced for.
func (e *Enclave) ContextID() veil.Bytes32 {
	return e.context
}

func (e *Enclave) seal(v uint64) (Handle, error) {
	id := veil.RandBytes32()

	var plain [8]byte
	binary.BigEndian.PutUint64(plain[:], v)

	sealed := e.aead.Seal(nil, id[:nonceSize], plain[:], id[:])
	if err := e.store.Put(id[:], sealed); err != nil {
		return Handle{}, errors.Wrap(err, "store ciphertext")
	}
	return Handle(id), nil
}

func (e *Enclave) open(h Handle) (uint64, error) {
	sealed, err := e.store.Get(h[:])
	if err != nil {
		if e.store.IsNotFound(err) {
			return 0, ErrUnknownHandle
		}
		return 0, errors.Wrap(err, "load ciphertext")
	}
	plain, err := e.aead.Open(nil, h[:nonceSize], sealed, h[:])
	if err != nil {
		return 0, ErrUnknownHandle
	}
	return binary.BigEndian.Uint64(plain), nil
}

// EncryptConstant implements Engine.
func (e *Enclave) EncryptConstant(v uint64) (Handle, error) {
	return e.seal(v)
}

func (e *Enclave) inputProof(h Handle, submitter veil.Address) []byte {
	return crypto.Keccak256(e.macKey, h[:], submitter[:], e.context[:])
}

// PrepareInput seals a plaintext value on behalf of a submitter and produces
// the proof later accepted by FromExternalInput. This is the gateway role;
// in a deployment with an external coprocessor it lives outside the node.
func (e *Enclave) PrepareInput(v uint64, submitter veil.Address) (*ExternalInput, error) {
	h, err := e.seal(v)
	if err != nil {
		return nil, err
	}
	return &ExternalInput{Handle: h, Proof: e.inputProof(h, submitter)}, nil
}

// FromExternalInput implements Engine.
func (e *Enclave) FromExternalInput(h Handle, proof []byte, submitter veil.Address) (Handle, error) {
	want := e.inputProof(h, submitter)
	if subtle.ConstantTimeCompare(want, proof) != 1 {
		return Handle{}, ErrInvalidProof
	}
	v, err := e.open(h)
	if err != nil {
		return Handle{}, ErrInvalidProof
	}
	// import under a fresh handle; the submitted one stays external
	return e.seal(v)
}

func (e *Enclave) binop(a, b Handle, f func(x, y uint64) uint64) (Handle, error) {
	x, err := e.open(a)
	if err != nil {
		return Handle{}, err
	}
	y, err := e.open(b)
	if err != nil {
		return Handle{}, err
	}
	return e.seal(f(x, y))
}

// Add implements Engine. Wraps modulo 2^64.
func (e *Enclave) Add(a, b Handle) (Handle, error) {
	return e.binop(a, b, func(x, y uint64) uint64 { return x + y })
}

// Sub implements Engine. Wraps modulo 2^64 on underflow.
func (e *Enclave) Sub(a, b Handle) (Handle, error) {
	return e.binop(a, b, func(x, y uint64) uint64 { return x - y })
}

// Mul implements Engine. Wraps modulo 2^64.
func (e *Enclave) Mul(a, b Handle) (Handle, error) {
	return e.binop(a, b, func(x, y uint64) uint64 { return x * y })
}

// DivConstant implements Engine.
func (e *Enclave) DivConstant(a Handle, c uint64) (Handle, error) {
	if c == 0 {
		return Handle{}, ErrZeroDivisor
	}
	x, err := e.open(a)
	if err != nil {
		return Handle{}, err
	}
	return e.seal(x / c)
}

// Reveal implements Engine.
func (e *Enclave) Reveal(h Handle, principal veil.Address) (uint64, error) {
	if e.auth == nil {
		return 0, ErrUnknownHandle
	}
	ok, err := e.auth.IsAllowed(h, principal)
	if err != nil {
		return 0, errors.Wrap(err, "check grant")
	}
	if !ok {
		return 0, ErrUnknownHandle
	}
	return e.open(h)
}

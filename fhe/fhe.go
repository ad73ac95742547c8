// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fhe defines the ciphertext handle abstraction the ledger is built
// on: opaque references to encrypted 64-bit unsigned integers, arithmetic
// over those references, and a grant-gated decryption boundary.
//
// Arithmetic is fixed-width u64 with modular wraparound on under- and
// overflow. The ledger never branches on operand values, so an oversized
// subtraction wraps rather than failing; callers own that policy.
package fhe

import (
	"errors"

	"github.com/veilchain/veil/veil"
)

var (
	// ErrInvalidProof returned when an external input proof does not attest
	// that the handle was produced for this engine context by the claimed submitter.
	ErrInvalidProof = errors.New("invalid input proof")

	// ErrUnknownHandle returned when a handle does not resolve to a ciphertext.
	// The reveal path returns it for ungranted principals too; the two cases
	// are indistinguishable from outside.
	ErrUnknownHandle = errors.New("unknown handle")

	// ErrZeroDivisor returned by DivConstant for divisor 0.
	ErrZeroDivisor = errors.New("zero divisor")
)

// Handle is an opaque reference to an encrypted u64. It carries no plaintext
// information outside the decryption boundary.
type Handle veil.Bytes32

// String implements stringer.
func (h Handle) String() string { return veil.Bytes32(h).String() }

// Bytes returns byte slice form of the handle.
func (h Handle) Bytes() []byte { return h[:] }

// IsZero returns if the handle has all zero bytes (the null handle).
func (h Handle) IsZero() bool { return h == Handle{} }

// MarshalJSON implements json.Marshaler.
func (h Handle) MarshalJSON() ([]byte, error) { return veil.Bytes32(h).MarshalJSON() }

// UnmarshalJSON implements json.Unmarshaler.
func (h *Handle) UnmarshalJSON(data []byte) error {
	return (*veil.Bytes32)(h).UnmarshalJSON(data)
}

// ExternalInput is a handle submitted from outside the ledger, with the proof
// binding it to the engine context and its submitter.
type ExternalInput struct {
	Handle Handle
	Proof  []byte
}

// Authorizer answers whether a principal holds a decrypt grant for a handle.
type Authorizer interface {
	IsAllowed(h Handle, p veil.Address) (bool, error)
}

// Engine is the encrypted-arithmetic capability the ledger depends on.
// All operations produce fresh handles; inputs are never mutated.
type Engine interface {
	// EncryptConstant produces a handle sealing the given plaintext constant.
	EncryptConstant(v uint64) (Handle, error)

	// FromExternalInput verifies the proof binding the submitted handle to
	// this engine context and the submitter, and imports it under a fresh
	// handle. Fails with ErrInvalidProof otherwise.
	FromExternalInput(h Handle, proof []byte, submitter veil.Address) (Handle, error)

	Add(a, b Handle) (Handle, error)
	Sub(a, b Handle) (Handle, error)
	Mul(a, b Handle) (Handle, error)

	// DivConstant divides by a plaintext constant, truncating.
	DivConstant(a Handle, c uint64) (Handle, error)

	// Reveal reconstructs the plaintext for a granted principal. Ungranted
	// principals and unknown handles both get ErrUnknownHandle.
	Reveal(h Handle, principal veil.Address) (uint64, error)
}

// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledgerapi exposes the confidential ledger over HTTP. Mutating
// calls are authenticated by recovering the secp256k1 signer of a canonical
// operation digest; only the account owner may move its balances.
package ledgerapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/veilchain/veil/api/utils"
	"github.com/veilchain/veil/cry"
	"github.com/veilchain/veil/fhe"
	"github.com/veilchain/veil/ledger"
	"github.com/veilchain/veil/veil"
)

type LedgerAPI struct {
	ldgr *ledger.Ledger
	eng  fhe.Engine
	now  func() uint64
}

// New creates the handler set. now supplies the wall-clock timestamp stamped
// on mutating operations; callers never choose their own.
func New(ldgr *ledger.Ledger, eng fhe.Engine, now func() uint64) *LedgerAPI {
	return &LedgerAPI{
		ldgr: ldgr,
		eng:  eng,
		now:  now,
	}
}

// convertError maps ledger and engine sentinels onto HTTP statuses.
func convertError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrAlreadyClaimed), errors.Is(err, ledger.ErrClaimRequired):
		return utils.Forbidden(err)
	case errors.Is(err, fhe.ErrInvalidProof):
		return utils.BadRequest(err)
	default:
		return err
	}
}

func parseAddress(req *http.Request) (veil.Address, error) {
	addr, err := veil.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return veil.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return addr, nil
}

// authenticate checks that sig over digest recovers to owner.
func authenticate(owner veil.Address, digest veil.Bytes32, sig []byte) error {
	signer, err := cry.RecoverSigner(digest, sig)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "signature"))
	}
	if signer != owner {
		return utils.Forbidden(errors.New("signer is not the account owner"))
	}
	return nil
}

func (l *LedgerAPI) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	state, err := l.ldgr.GetAccountState(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertAccount(state))
}

func (l *LedgerAPI) handleGetClaimed(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	claimed, err := l.ldgr.HasClaimed(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"claimed": claimed})
}

func (l *LedgerAPI) handleGetCheckpoint(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	ts, err := l.ldgr.LastAccrualTimestamp(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"lastAccrualTimestamp": uint256.NewInt(ts).Dec()})
}

func (l *LedgerAPI) handleInitialGrant(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, utils.M{"initialGrant": l.ldgr.InitialGrant()})
}

func (l *LedgerAPI) handleIdentity(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, utils.M{"identity": l.ldgr.Identity()})
}

func (l *LedgerAPI) handleClaim(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	var body ClaimRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := authenticate(addr, cry.OpDigest("claim", addr), body.Signature); err != nil {
		return err
	}
	if err := l.ldgr.ClaimInitial(req.Context(), addr, l.now()); err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"claimed": true, "amount": l.ldgr.InitialGrant()})
}

func (l *LedgerAPI) handleStake(w http.ResponseWriter, req *http.Request) error {
	return l.handleMove(w, req, "stake", l.ldgr.Stake)
}

func (l *LedgerAPI) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	return l.handleMove(w, req, "unstake", l.ldgr.Unstake)
}

type moveFunc func(ctx context.Context, owner veil.Address, input fhe.Handle, proof []byte, now uint64) error

func (l *LedgerAPI) handleMove(w http.ResponseWriter, req *http.Request, op string, move moveFunc) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	digest := cry.OpDigest(op, addr, body.Handle.Bytes(), body.Proof)
	if err := authenticate(addr, digest, body.Signature); err != nil {
		return err
	}
	if err := move(req.Context(), addr, body.Handle, body.Proof, l.now()); err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"ok": true})
}

func (l *LedgerAPI) handleInterest(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	var body ClaimRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := authenticate(addr, cry.OpDigest("interest", addr), body.Signature); err != nil {
		return err
	}
	days, err := l.ldgr.ClaimInterest(req.Context(), addr, l.now())
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &InterestResult{DaysAccrued: days})
}

func (l *LedgerAPI) handleReveal(w http.ResponseWriter, req *http.Request) error {
	var body RevealRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	signer, err := cry.RecoverSigner(cry.RevealDigest(veil.Bytes32(body.Handle)), body.Signature)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "signature"))
	}
	value, err := l.eng.Reveal(body.Handle, signer)
	if err != nil {
		// unknown handle and missing grant are deliberately the same answer
		if errors.Is(err, fhe.ErrUnknownHandle) {
			return utils.NotFound(errors.New("handle not found"))
		}
		return err
	}
	return utils.WriteJSON(w, &RevealResult{Value: value})
}

func (l *LedgerAPI) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(l.handleGetAccount))
	sub.Path("/{address}/claimed").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(l.handleGetClaimed))
	sub.Path("/{address}/checkpoint").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(l.handleGetCheckpoint))
	sub.Path("/{address}/claim").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(l.handleClaim))
	sub.Path("/{address}/stake").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(l.handleStake))
	sub.Path("/{address}/unstake").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(l.handleUnstake))
	sub.Path("/{address}/interest").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(l.handleInterest))
}

// MountLedger exposes the node-level plaintext accessors.
func (l *LedgerAPI) MountLedger(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/initial-grant").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(l.handleInitialGrant))
	sub.Path("/identity").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(l.handleIdentity))
}

// MountReveal exposes the decryption boundary.
func (l *LedgerAPI) MountReveal(root *mux.Router, path string) {
	root.Path(path).Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(l.handleReveal))
}

// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger implements the confidential balance state machine. Each
// account holds three encrypted counters (liquid, staked, pending interest)
// the ledger moves value between without ever seeing plaintext. Every
// mutating operation follows the same shape: precondition check, settle
// accrual, apply the delta, re-grant every touched handle, advance the
// checkpoint, emit a plaintext event.
package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/veilchain/veil/accrual"
	"github.com/veilchain/veil/acl"
	"github.com/veilchain/veil/eventdb"
	"github.com/veilchain/veil/fhe"
	"github.com/veilchain/veil/kv"
	"github.com/veilchain/veil/log"
	"github.com/veilchain/veil/metrics"
	"github.com/veilchain/veil/veil"
)

var (
	// ErrAlreadyClaimed claim attempted twice.
	ErrAlreadyClaimed = errors.New("already claimed")
	// ErrClaimRequired stake/unstake/claim-interest attempted before claim.
	ErrClaimRequired = errors.New("claim required")
)

var (
	logger = log.WithContext("pkg", "ledger")

	metricOps         = metrics.LazyLoadCounterVec("ledger_ops_total", []string{"kind"})
	metricClaimed     = metrics.LazyLoadGauge("ledger_accounts_claimed")
	metricSettledDays = metrics.LazyLoadHistogram("ledger_settled_days", metrics.BucketDays)
)

// AccountState is the read-only public view of an account. The handles are
// opaque without a decrypt grant, so exposing them leaks nothing.
type AccountState struct {
	Liquid      fhe.Handle
	Staked      fhe.Handle
	Pending     fhe.Handle
	LastAccrual uint64
	Claimed     bool
}

// Ledger is the per-node confidential balance ledger. Operations are
// serialized by a single mutex; each either fully commits with one account
// write or leaves state untouched.
type Ledger struct {
	mu       sync.Mutex
	eng      fhe.Engine
	grants   *acl.ACL
	accounts kv.GetPutter
	events   *eventdb.EventDB
	identity veil.Address
}

// New creates a ledger. identity is the ledger's own operating principal,
// granted decrypt authority on every stored handle alongside the owner.
func New(eng fhe.Engine, grants *acl.ACL, accounts kv.GetPutter, events *eventdb.EventDB, identity veil.Address) *Ledger {
	return &Ledger{
		eng:      eng,
		grants:   grants,
		accounts: accounts,
		events:   events,
		identity: identity,
	}
}

// Identity returns the ledger's own operating principal.
func (l *Ledger) Identity() veil.Address {
	return l.identity
}

// InitialGrant returns the public one-time grant constant.
func (l *Ledger) InitialGrant() uint64 {
	return veil.InitialGrant
}

// grantAll issues decrypt grants for the given handles to the ledger
// identity and the owner, and nobody else. Skipping this for any stored
// handle would silently make it unreadable forever.
func (l *Ledger) grantAll(owner veil.Address, handles ...fhe.Handle) error {
	for _, h := range handles {
		if err := l.grants.Allow(h, l.identity); err != nil {
			return err
		}
		if err := l.grants.Allow(h, owner); err != nil {
			return err
		}
	}
	return nil
}

// checkpointAfter picks the new checkpoint for a mutating operation: a
// whole-day advance when interest was computed, a jump to now otherwise.
// It never moves backwards; a wall-clock step-back must not reopen an
// already settled window for re-accrual.
func checkpointAfter(res *accrual.Result, now uint64) uint64 {
	if res.Days > 0 || now < res.Last {
		return res.Last
	}
	return now
}

// ClaimInitial performs the one-time grant for owner. The credited amount is
// the public constant InitialGrant; only its later placement is confidential.
func (l *Ledger) ClaimInitial(ctx context.Context, owner veil.Address, now uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, err := loadAccount(l.accounts, owner)
	if err != nil {
		return err
	}
	if acc.Claimed {
		return ErrAlreadyClaimed
	}

	liquid, err := l.eng.EncryptConstant(veil.InitialGrant)
	if err != nil {
		return err
	}
	staked, err := l.eng.EncryptConstant(0)
	if err != nil {
		return err
	}
	pending, err := l.eng.EncryptConstant(0)
	if err != nil {
		return err
	}
	if err := l.grantAll(owner, liquid, staked, pending); err != nil {
		return err
	}

	if err := saveAccount(l.accounts, owner, &Account{
		Liquid:      liquid,
		Staked:      staked,
		Pending:     pending,
		LastAccrual: now,
		Claimed:     true,
	}); err != nil {
		return err
	}

	l.emit(ctx, &eventdb.Event{
		Timestamp: now,
		Kind:      eventdb.KindClaimed,
		Principal: owner,
		Amount:    veil.InitialGrant,
	})
	metricOps().AddWithLabel(1, map[string]string{"kind": "claim"})
	metricClaimed().Add(1)
	logger.Info("initial grant claimed", "owner", owner, "amount", veil.InitialGrant)
	return nil
}

// Stake moves an encrypted amount from the liquid to the staked bucket.
// Interest already owed is settled first so the new stake cannot dilute or
// inflate it. No plaintext comparison confirms amount <= liquid; an
// oversized amount wraps per the engine's modular arithmetic.
func (l *Ledger) Stake(ctx context.Context, owner veil.Address, input fhe.Handle, proof []byte, now uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, err := loadAccount(l.accounts, owner)
	if err != nil {
		return err
	}
	if !acc.Claimed {
		return ErrClaimRequired
	}

	res, err := accrual.Settle(l.eng, acc.Staked, acc.Pending, acc.LastAccrual, now)
	if err != nil {
		return err
	}
	amount, err := l.eng.FromExternalInput(input, proof, owner)
	if err != nil {
		return err
	}
	liquid, err := l.eng.Sub(acc.Liquid, amount)
	if err != nil {
		return err
	}
	staked, err := l.eng.Add(acc.Staked, amount)
	if err != nil {
		return err
	}
	if err := l.grantAll(owner, liquid, staked, res.Pending); err != nil {
		return err
	}

	if err := saveAccount(l.accounts, owner, &Account{
		Liquid:      liquid,
		Staked:      staked,
		Pending:     res.Pending,
		LastAccrual: checkpointAfter(res, now),
		Claimed:     true,
	}); err != nil {
		return err
	}

	l.emit(ctx, &eventdb.Event{
		Timestamp: now,
		Kind:      eventdb.KindStaked,
		Principal: owner,
	})
	metricOps().AddWithLabel(1, map[string]string{"kind": "stake"})
	metricSettledDays().Observe(int64(res.Days))
	logger.Debug("staked", "owner", owner, "settledDays", res.Days)
	return nil
}

// Unstake moves an encrypted amount from the staked back to the liquid
// bucket. Symmetric to Stake, including the underflow caveat on the staked
// bucket.
func (l *Ledger) Unstake(ctx context.Context, owner veil.Address, input fhe.Handle, proof []byte, now uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, err := loadAccount(l.accounts, owner)
	if err != nil {
		return err
	}
	if !acc.Claimed {
		return ErrClaimRequired
	}

	res, err := accrual.Settle(l.eng, acc.Staked, acc.Pending, acc.LastAccrual, now)
	if err != nil {
		return err
	}
	amount, err := l.eng.FromExternalInput(input, proof, owner)
	if err != nil {
		return err
	}
	staked, err := l.eng.Sub(acc.Staked, amount)
	if err != nil {
		return err
	}
	liquid, err := l.eng.Add(acc.Liquid, amount)
	if err != nil {
		return err
	}
	if err := l.grantAll(owner, liquid, staked, res.Pending); err != nil {
		return err
	}

	if err := saveAccount(l.accounts, owner, &Account{
		Liquid:      liquid,
		Staked:      staked,
		Pending:     res.Pending,
		LastAccrual: checkpointAfter(res, now),
		Claimed:     true,
	}); err != nil {
		return err
	}

	l.emit(ctx, &eventdb.Event{
		Timestamp: now,
		Kind:      eventdb.KindUnstaked,
		Principal: owner,
	})
	metricOps().AddWithLabel(1, map[string]string{"kind": "unstake"})
	metricSettledDays().Observe(int64(res.Days))
	logger.Debug("unstaked", "owner", owner, "settledDays", res.Days)
	return nil
}

// ClaimInterest settles accrual and realizes the pending interest into the
// liquid bucket. It returns the number of whole days consumed by the
// settlement, which is public metadata; the interest amount stays sealed.
func (l *Ledger) ClaimInterest(ctx context.Context, owner veil.Address, now uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, err := loadAccount(l.accounts, owner)
	if err != nil {
		return 0, err
	}
	if !acc.Claimed {
		return 0, ErrClaimRequired
	}

	res, err := accrual.Settle(l.eng, acc.Staked, acc.Pending, acc.LastAccrual, now)
	if err != nil {
		return 0, err
	}
	liquid, err := l.eng.Add(acc.Liquid, res.Pending)
	if err != nil {
		return 0, err
	}
	pending, err := l.eng.EncryptConstant(0)
	if err != nil {
		return 0, err
	}
	if err := l.grantAll(owner, liquid, acc.Staked, pending); err != nil {
		return 0, err
	}

	if err := saveAccount(l.accounts, owner, &Account{
		Liquid:      liquid,
		Staked:      acc.Staked,
		Pending:     pending,
		LastAccrual: checkpointAfter(res, now),
		Claimed:     true,
	}); err != nil {
		return 0, err
	}

	l.emit(ctx, &eventdb.Event{
		Timestamp: now,
		Kind:      eventdb.KindInterestClaimed,
		Principal: owner,
		Days:      res.Days,
	})
	metricOps().AddWithLabel(1, map[string]string{"kind": "interest"})
	metricSettledDays().Observe(int64(res.Days))
	logger.Debug("interest claimed", "owner", owner, "settledDays", res.Days)
	return res.Days, nil
}

// GetAccountState returns the public view of an account. Callable by anyone;
// for an unclaimed account the handles are the null handle.
func (l *Ledger) GetAccountState(addr veil.Address) (*AccountState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, err := loadAccount(l.accounts, addr)
	if err != nil {
		return nil, err
	}
	return &AccountState{
		Liquid:      acc.Liquid,
		Staked:      acc.Staked,
		Pending:     acc.Pending,
		LastAccrual: acc.LastAccrual,
		Claimed:     acc.Claimed,
	}, nil
}

// HasClaimed reports whether the one-time grant was performed for addr.
func (l *Ledger) HasClaimed(addr veil.Address) (bool, error) {
	state, err := l.GetAccountState(addr)
	if err != nil {
		return false, err
	}
	return state.Claimed, nil
}

// LastAccrualTimestamp returns the account's checkpoint; 0 means never claimed.
func (l *Ledger) LastAccrualTimestamp(addr veil.Address) (uint64, error) {
	state, err := l.GetAccountState(addr)
	if err != nil {
		return 0, err
	}
	return state.LastAccrual, nil
}

func (l *Ledger) emit(ctx context.Context, ev *eventdb.Event) {
	if l.events == nil {
		return
	}
	if _, err := l.events.Append(ctx, ev); err != nil {
		logger.Warn("event append failed", "kind", ev.Kind, "err", err)
	}
}

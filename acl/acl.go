// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package acl records which principals may later decrypt a handle. Every
// handle the ledger stores or returns must be granted before it is written;
// an ungranted handle is unreadable forever, silently.
package acl

import (
	"github.com/pkg/errors"

	"github.com/veilchain/veil/cache"
	"github.com/veilchain/veil/fhe"
	"github.com/veilchain/veil/kv"
	"github.com/veilchain/veil/veil"
)

const grantCacheSize = 4096

var _ fhe.Authorizer = (*ACL)(nil)

// ACL is the persistent grant set, with an LRU in front of the store.
type ACL struct {
	store kv.GetPutter
	cache *cache.LRU
}

// New creates an ACL over the given store.
func New(store kv.GetPutter) *ACL {
	c, err := cache.NewLRU(grantCacheSize)
	if err != nil {
		panic(err) // only for non-positive size
	}
	return &ACL{store: store, cache: c}
}

func grantKey(h fhe.Handle, p veil.Address) [32 + 20]byte {
	var key [32 + 20]byte
	copy(key[:32], h[:])
	copy(key[32:], p[:])
	return key
}

// Allow grants the principal permission to later decrypt the handle.
// Idempotent; granting twice is harmless.
func (a *ACL) Allow(h fhe.Handle, p veil.Address) error {
	key := grantKey(h, p)
	if err := a.store.Put(key[:], []byte{1}); err != nil {
		return errors.Wrap(err, "store grant")
	}
	a.cache.Add(key, true)
	return nil
}

// IsAllowed implements fhe.Authorizer.
func (a *ACL) IsAllowed(h fhe.Handle, p veil.Address) (bool, error) {
	key := grantKey(h, p)
	v, err := a.cache.GetOrLoad(key, func(interface{}) (interface{}, error) {
		has, err := a.store.Has(key[:])
		if err != nil {
			return nil, errors.Wrap(err, "load grant")
		}
		return has, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "github.com/syndtr/goleveldb/leveldb/util"

// Bucket provides logical bucket for kv store.
type Bucket string

// NewGetPutter creates a bucket get-putter from the source get-putter.
func (b Bucket) NewGetPutter(src GetPutter) GetPutter {
	return &bucketGetPutter{string(b), src}
}

type bucketGetPutter struct {
	prefix string
	src    GetPutter
}

func (b *bucketGetPutter) makeKey(key []byte) []byte {
	return append(append(make([]byte, 0, len(b.prefix)+len(key)), b.prefix...), key...)
}

func (b *bucketGetPutter) Get(key []byte) ([]byte, error) {
	return b.src.Get(b.makeKey(key))
}

func (b *bucketGetPutter) Has(key []byte) (bool, error) {
	return b.src.Has(b.makeKey(key))
}

func (b *bucketGetPutter) IsNotFound(err error) bool {
	return b.src.IsNotFound(err)
}

func (b *bucketGetPutter) Put(key, value []byte) error {
	return b.src.Put(b.makeKey(key), value)
}

func (b *bucketGetPutter) Delete(key []byte) error {
	return b.src.Delete(b.makeKey(key))
}

// NewIterator iterates the bucketed range. An empty range covers the
// whole bucket.
func (b *bucketGetPutter) NewIterator(r Range) Iterator {
	from := b.makeKey(r.From)
	var to []byte
	if len(r.To) == 0 {
		to = util.BytesPrefix([]byte(b.prefix)).Limit
	} else {
		to = b.makeKey(r.To)
	}
	return &bucketIterator{b.src.NewIterator(Range{From: from, To: to}), len(b.prefix)}
}

// NewBatch creates a batch which prefixes all keys written through it.
func (b *bucketGetPutter) NewBatch() Batch {
	return &bucketBatch{b, b.src.NewBatch()}
}

type bucketBatch struct {
	b   *bucketGetPutter
	src Batch
}

func (bb *bucketBatch) Put(key, value []byte) error { return bb.src.Put(bb.b.makeKey(key), value) }
func (bb *bucketBatch) Delete(key []byte) error     { return bb.src.Delete(bb.b.makeKey(key)) }
func (bb *bucketBatch) NewBatch() Batch             { return bb.b.NewBatch() }
func (bb *bucketBatch) Len() int                    { return bb.src.Len() }
func (bb *bucketBatch) Write() error                { return bb.src.Write() }

type bucketIterator struct {
	src       Iterator
	prefixLen int
}

func (i *bucketIterator) Next() bool    { return i.src.Next() }
func (i *bucketIterator) Release()      { i.src.Release() }
func (i *bucketIterator) Error() error  { return i.src.Error() }
func (i *bucketIterator) Value() []byte { return i.src.Value() }

// Key returns the key with the bucket prefix stripped.
func (i *bucketIterator) Key() []byte {
	key := i.src.Key()
	if len(key) < i.prefixLen {
		return key
	}
	return key[i.prefixLen:]
}

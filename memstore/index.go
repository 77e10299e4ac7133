// Copyright 2021 The Quadstore Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memstore

import "github.com/tidwall/btree"

// IndexSet selects which triple orderings a model maintains. When the
// model is created with graphs enabled, every selected order also gets
// its G-prefixed counterpart.
type IndexSet uint

const (
	IndexSPO IndexSet = 1 << iota
	IndexSOP
	IndexOPS
	IndexOSP
	IndexPSO
	IndexPOS
)

// DefaultIndexes covers all single-position lookups without filtering.
var DefaultIndexes = IndexSPO | IndexOPS | IndexPSO

// Has reports whether the set selects the given triple order.
func (s IndexSet) Has(o Order) bool {
	return o >= SPO && o <= POS && s&(1<<uint(o)) != 0
}

// index is one sorted container of permuted quad keys.
type index struct {
	order Order
	tree  *btree.BTreeG[key]
}

func newIndex(o Order) *index {
	return &index{
		order: o,
		tree:  btree.NewBTreeGOptions(keyLess, btree.Options{NoLocks: true}),
	}
}

// insert adds a key copy unless it is already present.
func (ix *index) insert(k key) bool {
	if _, ok := ix.tree.Get(k); ok {
		return false
	}
	ix.tree.Set(k)
	return true
}

// delete removes a key, reporting whether it was present.
func (ix *index) delete(k key) bool {
	_, ok := ix.tree.Delete(k)
	return ok
}

// contains reports whether the exact key is stored.
func (ix *index) contains(k key) bool {
	_, ok := ix.tree.Get(k)
	return ok
}

func (ix *index) len() int { return ix.tree.Len() }

// lowerBound positions a fresh cursor at the first key not less than k.
// The second result is false when no such key exists.
func (ix *index) lowerBound(k key) (btree.IterG[key], bool) {
	it := ix.tree.Iter()
	if !it.Seek(k) {
		return it, false
	}
	return it, true
}

// first positions a fresh cursor at the smallest key.
func (ix *index) first() (btree.IterG[key], bool) {
	it := ix.tree.Iter()
	if !it.First() {
		return it, false
	}
	return it, true
}

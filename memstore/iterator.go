// Copyright 2022 The Quadstore Authors. All rights reserved.
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

import (
	"github.com/tidwall/btree"

	"github.com/rdfkit/quadstore/rdf"
)

// Iter walks a contiguous part of one index. A fresh iterator is
// positioned on its first match (or already ended); Quad reads the
// current quad and Next advances:
//
//	for it := m.Find(pat); !it.End(); it.Next() {
//		q := it.Quad()
//		...
//	}
//
// Any Add or Remove on the model invalidates the iterator; the only
// mutation permitted mid-iteration is Model.Erase, which consumes the
// current position and leaves the iterator on the next match.
type Iter struct {
	m   *Model
	idx *index
	cur btree.IterG[key]

	order   Order
	pat     key // pattern permuted into the index order
	mode    searchMode
	nPrefix int

	end        bool
	skipGraphs bool
	released   bool
	version    int64
	err        error
}

// Model returns the model the iterator ranges over.
func (it *Iter) Model() *Model { return it.m }

// End reports whether the iterator has no further match.
func (it *Iter) End() bool { return it.end }

// Err returns the error that ended iteration early, if any.
func (it *Iter) Err() error { return it.err }

// Close releases the iterator. It is safe to call at any time,
// including on an ended iterator.
func (it *Iter) Close() error {
	it.release()
	it.end = true
	return nil
}

func (it *Iter) release() {
	if !it.released {
		it.cur.Release()
		it.released = true
	}
}

func (it *Iter) stale() bool {
	if it.version != it.m.version {
		it.err = ErrStaleIterator
		it.end = true
		it.release()
		return true
	}
	return false
}

// Quad returns the quad at the current position. The result is the
// zero Quad if the iterator has ended or is stale.
func (it *Iter) Quad() rdf.Quad {
	if it.end || it.stale() {
		return rdf.Quad{}
	}
	return unpermute(it.cur.Item(), it.order)
}

// Node returns the term at one position of the current quad.
func (it *Iter) Node(pos rdf.Pos) *rdf.Term {
	return it.Quad().Get(pos)
}

// Next advances to the next match, returning false once the iterator
// has ended. Calling Next on an ended iterator is a no-op.
func (it *Iter) Next() bool {
	if it.end || it.stale() {
		return false
	}
	switch it.mode {
	case modeAll:
		if !it.rawNext() {
			it.end = true
		}
	case modeSingle:
		// No duplicate quads: one exact hit.
		it.end = true
	case modeRange:
		if !it.rawNext() || !it.prefixMatch(it.cur.Item()) {
			it.end = true
		}
	case modeFilterRange:
		if !it.rawNext() {
			it.end = true
		} else {
			it.seekMatchRange()
		}
	case modeFilterAll:
		if !it.rawNext() {
			it.end = true
		} else {
			it.seekMatch()
		}
	}
	if it.end {
		it.release()
		return false
	}
	return true
}

// rawNext advances the cursor one slot, or past an entire run of keys
// sharing the current (S, P, O) when graph duplicates are suppressed.
// It returns false when the index is exhausted.
func (it *Iter) rawNext() bool {
	if !it.skipGraphs {
		return it.cur.Next()
	}
	initial := it.cur.Item()
	for {
		if !it.cur.Next() {
			return false
		}
		k := it.cur.Item()
		if k[0] != initial[0] || k[1] != initial[1] || k[2] != initial[2] {
			return true
		}
	}
}

func (it *Iter) prefixMatch(k key) bool {
	for i := 0; i < it.nPrefix; i++ {
		if !rdf.TermMatch(it.pat[i], k[i]) {
			return false
		}
	}
	return true
}

// seekMatch advances until the current key fully matches the pattern,
// ending at index exhaustion.
func (it *Iter) seekMatch() {
	for {
		if keyMatch(it.pat, it.cur.Item()) {
			return
		}
		if !it.rawNext() {
			it.end = true
			return
		}
	}
}

// seekMatchRange advances until the current key fully matches the
// pattern, ending as soon as the bound prefix no longer matches.
func (it *Iter) seekMatchRange() {
	for {
		k := it.cur.Item()
		if keyMatch(it.pat, k) {
			return
		}
		if !it.prefixMatch(k) {
			it.end = true
			return
		}
		if !it.rawNext() {
			it.end = true
			return
		}
	}
}

// settle fixes up a freshly positioned iterator per its mode: verify
// the hit for exact and range modes, or seek to the first match for
// the filtering modes. ok is whether the cursor is on an element.
func (it *Iter) settle(ok bool) {
	if !ok {
		it.end = true
		it.release()
		return
	}
	switch it.mode {
	case modeAll:
	case modeSingle, modeRange:
		if !keyMatch(it.pat, it.cur.Item()) {
			it.end = true
		}
	case modeFilterRange:
		it.seekMatchRange()
	case modeFilterAll:
		it.seekMatch()
	}
	if it.end {
		it.release()
	}
}

// reseek repositions the iterator after its current key was erased: the
// lower bound of the erased key is its former successor. When graph
// duplicates are suppressed, the successor may be another graph copy of
// the just-yielded triple, which must be skipped as a raw advance would
// have skipped it.
func (it *Iter) reseek(erased key) {
	it.release()
	it.cur = it.idx.tree.Iter()
	it.released = false
	ok := it.cur.Seek(erased)
	if it.skipGraphs {
		for ok {
			k := it.cur.Item()
			if k[0] != erased[0] || k[1] != erased[1] || k[2] != erased[2] {
				break
			}
			ok = it.cur.Next()
		}
	}
	it.settle(ok)
}

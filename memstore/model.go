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

// Package memstore implements an in-memory RDF quad store over a family
// of lexicographic indices.
//
// A Model stores a set of (subject, predicate, object, graph) quads and
// answers pattern queries through the best enabled index. Every enabled
// index holds one permuted key copy of every quad, and all indices
// agree on the set of quads at all times.
package memstore

import (
	"errors"
	"fmt"

	"github.com/rdfkit/quadstore/clog"
	"github.com/rdfkit/quadstore/rdf"
)

// ErrStaleIterator is returned when an iterator is used after a
// mutation other than Erase on its own model.
var ErrStaleIterator = errors.New("memstore: iterator invalidated by model mutation")

// Model is an in-memory quad store. All enabled indices contain exactly
// the same set of quads; the model's quad count equals the length of
// every enabled index.
//
// A Model is not safe for concurrent use. Any Add or Remove invalidates
// every open iterator except the argument of Erase.
type Model struct {
	world  *rdf.World
	graphs bool

	indices [numOrders]*index

	// defaultOrder is the lowest enabled triple order; it backs whole
	// scans, duplicate checks and unindexed fallbacks.
	defaultOrder      Order
	defaultGraphOrder Order

	nQuads  int
	version int64
}

// New creates a model over w maintaining the selected indices. A zero
// IndexSet selects DefaultIndexes. With graphs enabled, each selected
// order also maintains its G-prefixed counterpart and stored quads may
// carry a named graph.
//
// The world must outlive the model.
func New(w *rdf.World, indexes IndexSet, graphs bool) *Model {
	if indexes == 0 {
		indexes = DefaultIndexes
	}
	m := &Model{
		world:             w,
		graphs:            graphs,
		defaultOrder:      -1,
		defaultGraphOrder: -1,
	}
	for o := SPO; o <= POS; o++ {
		if !indexes.Has(o) {
			continue
		}
		m.indices[o] = newIndex(o)
		if m.defaultOrder < 0 {
			m.defaultOrder = o
		}
		if graphs {
			g := o.withGraph()
			m.indices[g] = newIndex(g)
			if m.defaultGraphOrder < 0 {
				m.defaultGraphOrder = g
			}
		}
	}
	clog.Debugf(1, "new model: indices=%v graphs=%v", m.enabledOrders(), graphs)
	return m
}

func (m *Model) enabledOrders() []Order {
	var out []Order
	for o := Order(0); o < numOrders; o++ {
		if m.indices[o] != nil {
			out = append(out, o)
		}
	}
	return out
}

// World returns the world the model was created over.
func (m *Model) World() *rdf.World { return m.world }

// NumQuads returns the number of quads stored.
func (m *Model) NumQuads() int { return m.nQuads }

// Close releases the model's indices. The model must not be used after
// Close; terms retained by its quads are not released.
func (m *Model) Close() error {
	for o := range m.indices {
		m.indices[o] = nil
	}
	m.version++
	return nil
}

func (m *Model) checkStored(q rdf.Quad) error {
	if q.Subject() == nil || q.Predicate() == nil || q.Object() == nil {
		err := fmt.Errorf("%w: quad with nil subject, predicate or object", rdf.ErrBadArgument)
		m.world.Errorf(rdf.SeverityError, "%v", err)
		return err
	}
	return nil
}

// Add inserts a quad into every enabled index and retains its terms.
// Adding a quad that is already present is a no-op: the store is a set.
func (m *Model) Add(q rdf.Quad) error {
	if err := m.checkStored(q); err != nil {
		return err
	}
	// The default index decides duplication before anything mutates, so
	// a duplicate add leaves the model untouched.
	if m.indices[m.defaultOrder].contains(permute(q, m.defaultOrder)) {
		clog.Debugf(2, "add %v: already stored", q)
		return nil
	}
	for _, ix := range m.indices {
		if ix != nil {
			ix.insert(permute(q, ix.order))
		}
	}
	m.world.AddQuadRefs(q)
	m.nQuads++
	m.version++
	return nil
}

// Remove deletes a quad from every enabled index and releases its
// terms. Removing an absent quad is a silent no-op.
func (m *Model) Remove(q rdf.Quad) error {
	if err := m.checkStored(q); err != nil {
		return err
	}
	if !m.indices[m.defaultOrder].contains(permute(q, m.defaultOrder)) {
		return nil
	}
	m.deleteKeys(q)
	m.world.DropQuadRefs(q)
	m.nQuads--
	m.version++
	return nil
}

func (m *Model) deleteKeys(q rdf.Quad) {
	for _, ix := range m.indices {
		if ix == nil {
			continue
		}
		if !ix.delete(permute(q, ix.order)) {
			// Index coherency: present in one index means present in all.
			panic(fmt.Sprintf("memstore: index %v lost quad %v", ix.order, q))
		}
	}
}

// Erase removes the quad at the iterator's current position. Unlike
// other mutations it does not invalidate it: the iterator advances to
// the next match and remains usable.
func (m *Model) Erase(it *Iter) error {
	if it == nil || it.m != m {
		return fmt.Errorf("%w: iterator of a different model", rdf.ErrBadArgument)
	}
	if it.version != m.version {
		return ErrStaleIterator
	}
	if it.end {
		return fmt.Errorf("%w: erase at ended iterator", rdf.ErrBadArgument)
	}
	q := it.Quad()
	m.deleteKeys(q)
	m.world.DropQuadRefs(q)
	m.nQuads--
	m.version++
	it.version = m.version
	it.reseek(permute(q, it.order))
	return nil
}

// Begin iterates every quad in the model, in default index order.
func (m *Model) Begin() *Iter {
	return m.newScan(false)
}

// BeginTriples iterates the model with triple semantics: quads that
// agree on (S, P, O) and differ only in graph are yielded once.
func (m *Model) BeginTriples() *Iter {
	return m.newScan(m.graphs)
}

func (m *Model) newScan(skipGraphs bool) *Iter {
	ix := m.indices[m.defaultOrder]
	it := &Iter{
		m:          m,
		idx:        ix,
		order:      m.defaultOrder,
		mode:       modeAll,
		skipGraphs: skipGraphs,
		version:    m.version,
	}
	cur, ok := ix.first()
	it.cur = cur
	it.settle(ok)
	return it
}

// Find returns an iterator over every quad matching the pattern. Nil
// positions are wildcards; a nil graph in the pattern matches every
// graph, including the default one.
func (m *Model) Find(pat rdf.Quad) *Iter {
	if pat.Zero() {
		return m.Begin()
	}
	pl := m.bestIndex(pat)
	ix := m.indices[pl.order]
	it := &Iter{
		m:       m,
		idx:     ix,
		order:   pl.order,
		pat:     permute(pat, pl.order),
		mode:    pl.mode,
		nPrefix: pl.nPrefix,
		version: m.version,
	}
	clog.Debugf(2, "find %v: index=%v mode=%v prefix=%d", pat, pl.order, pl.mode, pl.nPrefix)
	cur, ok := ix.lowerBound(it.pat)
	it.cur = cur
	it.settle(ok)
	return it
}

// Search is Find over individual positions.
func (m *Model) Search(s, p, o, g *rdf.Term) *Iter {
	return m.Find(rdf.MakeQuad(s, p, o, g))
}

// Get returns the term filling the single nil position among s, p, o in
// the first matching quad, or nil if nothing matches. Exactly one of
// s, p, o must be nil.
func (m *Model) Get(s, p, o, g *rdf.Term) (*rdf.Term, error) {
	var want rdf.Pos
	nils := 0
	if s == nil {
		want, nils = rdf.PosS, nils+1
	}
	if p == nil {
		want, nils = rdf.PosP, nils+1
	}
	if o == nil {
		want, nils = rdf.PosO, nils+1
	}
	if nils != 1 {
		return nil, fmt.Errorf("%w: exactly one of s, p, o must be nil", rdf.ErrBadArgument)
	}
	it := m.Search(s, p, o, g)
	defer it.Close()
	if it.End() {
		return nil, nil
	}
	return it.Node(want), nil
}

// Ask reports whether any quad matches the pattern.
func (m *Model) Ask(s, p, o, g *rdf.Term) bool {
	it := m.Search(s, p, o, g)
	defer it.Close()
	return !it.End()
}

// Count returns the number of quads matching the pattern.
func (m *Model) Count(s, p, o, g *rdf.Term) int {
	it := m.Search(s, p, o, g)
	defer it.Close()
	n := 0
	for ; !it.End(); it.Next() {
		n++
	}
	return n
}

// Contains reports whether any quad matches the pattern.
func (m *Model) Contains(pat rdf.Quad) bool {
	it := m.Find(pat)
	defer it.Close()
	return !it.End()
}

// IsInlineObject reports whether the term appears in exactly one quad,
// at the object position. Such terms are eligible for anonymous or
// nested serialization.
func (m *Model) IsInlineObject(t *rdf.Term) bool {
	if t == nil || t.Refs() != 1 {
		return false
	}
	return m.Count(nil, nil, t, nil) == 1
}

// RemoveGraph erases every quad stored in the named graph.
func (m *Model) RemoveGraph(g *rdf.Term) error {
	if g == nil {
		return fmt.Errorf("%w: nil graph", rdf.ErrBadArgument)
	}
	it := m.Search(nil, nil, nil, g)
	defer it.Close()
	for !it.End() {
		if err := m.Erase(it); err != nil {
			return err
		}
	}
	return nil
}

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

package rdf

import "fmt"

// Pos is a position within a quad.
type Pos int

const (
	PosS Pos = iota
	PosP
	PosO
	PosG
)

func (p Pos) String() string {
	switch p {
	case PosS:
		return "subject"
	case PosP:
		return "predicate"
	case PosO:
		return "object"
	case PosG:
		return "graph"
	}
	return "invalid"
}

// Quad is an ordered 4-tuple of term handles. A stored quad must have
// non-nil subject, predicate and object; a nil graph denotes the
// default graph. In a pattern, a nil position is a wildcard.
type Quad [4]*Term

// MakeQuad assembles a quad from its four positions.
func MakeQuad(s, p, o, g *Term) Quad {
	return Quad{s, p, o, g}
}

// Get returns the term at the given position.
func (q Quad) Get(pos Pos) *Term { return q[pos] }

// Set replaces the term at the given position.
func (q *Quad) Set(pos Pos, t *Term) { q[pos] = t }

// Subject returns the subject term.
func (q Quad) Subject() *Term { return q[PosS] }

// Predicate returns the predicate term.
func (q Quad) Predicate() *Term { return q[PosP] }

// Object returns the object term.
func (q Quad) Object() *Term { return q[PosO] }

// Graph returns the graph term, nil for the default graph.
func (q Quad) Graph() *Term { return q[PosG] }

// Zero reports whether all positions are nil.
func (q Quad) Zero() bool { return q == Quad{} }

func (q Quad) String() string {
	return fmt.Sprintf("(%v %v %v %v)", q[PosS], q[PosP], q[PosO], q[PosG])
}

// TermMatch reports whether a pattern position accepts a term: nil in
// the pattern is a wildcard, anything else must be the same handle. A
// stored nil (the default graph) therefore matches only a nil pattern.
func TermMatch(pat, t *Term) bool {
	return pat == nil || pat == t
}

// QuadMatch reports whether q matches the pattern, position by
// position, with nil in the pattern acting as a wildcard. Comparison
// is by handle only.
func QuadMatch(pat, q Quad) bool {
	return TermMatch(pat[PosS], q[PosS]) &&
		TermMatch(pat[PosP], q[PosP]) &&
		TermMatch(pat[PosO], q[PosO]) &&
		TermMatch(pat[PosG], q[PosG])
}

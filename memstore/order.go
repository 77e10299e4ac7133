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

import "github.com/rdfkit/quadstore/rdf"

// Order identifies one of the twelve key orderings an index can sort
// by: every permutation of (S, P, O), optionally prefixed by G.
type Order int

const (
	SPO Order = iota
	SOP
	OPS
	OSP
	PSO
	POS
	GSPO
	GSOP
	GOPS
	GOSP
	GPSO
	GPOS

	numOrders = 12
)

var orderNames = [numOrders]string{
	"spo", "sop", "ops", "osp", "pso", "pos",
	"gspo", "gsop", "gops", "gosp", "gpso", "gpos",
}

// orderings maps each order to its position permutation, from most to
// least significant. Non-graph orders keep the graph as the least
// significant position, so quads identical up to the graph sort
// adjacently.
var orderings = [numOrders][4]rdf.Pos{
	{rdf.PosS, rdf.PosP, rdf.PosO, rdf.PosG}, // SPO
	{rdf.PosS, rdf.PosO, rdf.PosP, rdf.PosG}, // SOP
	{rdf.PosO, rdf.PosP, rdf.PosS, rdf.PosG}, // OPS
	{rdf.PosO, rdf.PosS, rdf.PosP, rdf.PosG}, // OSP
	{rdf.PosP, rdf.PosS, rdf.PosO, rdf.PosG}, // PSO
	{rdf.PosP, rdf.PosO, rdf.PosS, rdf.PosG}, // POS
	{rdf.PosG, rdf.PosS, rdf.PosP, rdf.PosO}, // GSPO
	{rdf.PosG, rdf.PosS, rdf.PosO, rdf.PosP}, // GSOP
	{rdf.PosG, rdf.PosO, rdf.PosP, rdf.PosS}, // GOPS
	{rdf.PosG, rdf.PosO, rdf.PosS, rdf.PosP}, // GOSP
	{rdf.PosG, rdf.PosP, rdf.PosS, rdf.PosO}, // GPSO
	{rdf.PosG, rdf.PosP, rdf.PosO, rdf.PosS}, // GPOS
}

func (o Order) String() string {
	if o < 0 || o >= numOrders {
		return "invalid"
	}
	return orderNames[o]
}

// HasGraph reports whether the order is graph-qualified.
func (o Order) HasGraph() bool { return o >= GSPO }

// withGraph returns the G-prefixed counterpart of a triple order.
func (o Order) withGraph() Order { return o + GSPO }

// key is a quad permuted into an index's order.
type key [4]*rdf.Term

// permute reorders a quad into the order's key form.
func permute(q rdf.Quad, o Order) key {
	ord := &orderings[o]
	return key{q[ord[0]], q[ord[1]], q[ord[2]], q[ord[3]]}
}

// unpermute reconstructs the quad from a key of the given order.
func unpermute(k key, o Order) rdf.Quad {
	ord := &orderings[o]
	var q rdf.Quad
	q[ord[0]] = k[0]
	q[ord[1]] = k[1]
	q[ord[2]] = k[2]
	q[ord[3]] = k[3]
	return q
}

// keyLess orders keys lexicographically over handle identities, with
// nil before every real handle.
func keyLess(a, b key) bool {
	for i := 0; i < 4; i++ {
		if c := rdf.Compare(a[i], b[i]); c != 0 {
			return c < 0
		}
	}
	return false
}

// keyMatch reports whether k matches the pattern, position by position,
// with nil in the pattern acting as a wildcard.
func keyMatch(pat, k key) bool {
	return rdf.TermMatch(pat[0], k[0]) &&
		rdf.TermMatch(pat[1], k[1]) &&
		rdf.TermMatch(pat[2], k[2]) &&
		rdf.TermMatch(pat[3], k[3])
}

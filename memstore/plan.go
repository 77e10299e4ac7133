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

import "github.com/rdfkit/quadstore/rdf"

// searchMode is how an iterator walks its chosen index.
type searchMode int

const (
	// modeAll iterates the whole index without filtering.
	modeAll searchMode = iota
	// modeSingle yields at most one exact hit.
	modeSingle
	// modeRange iterates the contiguous run sharing the bound prefix.
	modeRange
	// modeFilterRange iterates a bounded prefix run, match-testing each key.
	modeFilterRange
	// modeFilterAll scans the whole index, match-testing each key.
	modeFilterAll
)

func (m searchMode) String() string {
	switch m {
	case modeAll:
		return "all"
	case modeSingle:
		return "single"
	case modeRange:
		return "range"
	case modeFilterRange:
		return "filter-range"
	case modeFilterAll:
		return "filter-all"
	}
	return "invalid"
}

// plan is the planner's choice for a pattern.
type plan struct {
	order   Order
	mode    searchMode
	nPrefix int
}

// rangeOrders and filterOrders map the 3-bit (S,P,O) presence signature
// to candidate orderings. rangeOrders places every bound position in
// the prefix; filterOrders only guarantees the most significant bound
// position leads, so the scan stays bounded but needs a match test.
var rangeOrders = map[uint8]struct {
	primary, secondary Order
	nPrefix            int
}{
	0b001: {OPS, OSP, 1},
	0b010: {POS, PSO, 1},
	0b011: {OPS, POS, 2},
	0b100: {SPO, SOP, 1},
	0b101: {SOP, OSP, 2},
	0b110: {SPO, PSO, 2},
}

var filterOrders = map[uint8]struct {
	primary, secondary Order
}{
	0b011: {OSP, PSO},
	0b101: {SPO, OPS},
	0b110: {SOP, POS},
}

// bestIndex picks the best enabled index and iteration mode for a
// pattern. Every non-filter plan costs O(log n + k) in the result size
// k; filtered plans add a per-key match test, and modeFilterAll is the
// unbounded last resort.
func (m *Model) bestIndex(pat rdf.Quad) plan {
	graphBound := pat[rdf.PosG] != nil
	// Promote to G-prefixed orders only when graph indices exist. With
	// graphs off, a bound graph sits in the trailing key position
	// outside any prefix, so those plans are demoted to filtering.
	promote := graphBound && m.graphs

	var sig uint8
	if pat[rdf.PosS] != nil {
		sig |= 0b100
	}
	if pat[rdf.PosP] != nil {
		sig |= 0b010
	}
	if pat[rdf.PosO] != nil {
		sig |= 0b001
	}

	switch {
	case sig == 0 && !graphBound:
		return plan{order: m.defaultOrder, mode: modeAll}
	case sig == 0b111 && graphBound:
		// Fully bound: an exact hit on any index.
		if promote {
			return plan{order: m.defaultGraphOrder, mode: modeSingle, nPrefix: 4}
		}
		return plan{order: m.defaultOrder, mode: modeSingle, nPrefix: 4}
	case sig == 0b111:
		// All of S, P, O bound with the graph position open: the triple
		// prefix pins a contiguous run, one key per containing graph.
		return plan{order: m.defaultOrder, mode: modeRange, nPrefix: 3}
	}

	// Orderings that put every bound triple position in the prefix. A
	// graph bound without a graph index is not covered by the prefix
	// and turns these into filtered ranges.
	rangeMode := modeRange
	if graphBound && !promote {
		rangeMode = modeFilterRange
	}
	if good, ok := rangeOrders[sig]; ok {
		if p, ok := m.enabled(good.primary, good.nPrefix, promote); ok {
			p.mode = rangeMode
			return p
		}
		if p, ok := m.enabled(good.secondary, good.nPrefix, promote); ok {
			p.mode = rangeMode
			return p
		}
	}

	// Not so good orderings that require filtering, but still bound the
	// scan to a prefix range.
	if good, ok := filterOrders[sig]; ok {
		if p, ok := m.enabled(good.primary, 1, promote); ok {
			p.mode = modeFilterRange
			return p
		}
		if p, ok := m.enabled(good.secondary, 1, promote); ok {
			p.mode = modeFilterRange
			return p
		}
	}

	if promote {
		return plan{order: m.defaultGraphOrder, mode: modeFilterRange, nPrefix: 1}
	}
	return plan{order: m.defaultOrder, mode: modeFilterAll}
}

// enabled checks whether the (possibly G-promoted) order has an index,
// returning the adjusted plan skeleton.
func (m *Model) enabled(o Order, nPrefix int, promote bool) (plan, bool) {
	if promote {
		o = o.withGraph()
		nPrefix++
	}
	if m.indices[o] == nil {
		return plan{}, false
	}
	return plan{order: o, nPrefix: nPrefix}, true
}

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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfkit/quadstore/rdf"
)

func TestBestIndex(t *testing.T) {
	w := rdf.NewWorld()
	s := w.NewURI("eg:s")
	p := w.NewURI("eg:p")
	o := w.NewURI("eg:o")
	g := w.NewURI("eg:g")

	cases := []struct {
		name    string
		indexes IndexSet
		graphs  bool
		pat     rdf.Quad
		order   Order
		mode    searchMode
		nPrefix int
	}{
		{"whole scan", 0, false, rdf.Quad{}, SPO, modeAll, 0},
		{"subject bound", 0, false, rdf.MakeQuad(s, nil, nil, nil), SPO, modeRange, 1},
		{"object bound", 0, false, rdf.MakeQuad(nil, nil, o, nil), OPS, modeRange, 1},
		{"predicate bound", 0, false, rdf.MakeQuad(nil, p, nil, nil), PSO, modeRange, 1},
		{"object predicate", 0, false, rdf.MakeQuad(nil, p, o, nil), OPS, modeRange, 2},
		{"subject predicate", 0, false, rdf.MakeQuad(s, p, nil, nil), SPO, modeRange, 2},
		{"triple bound", 0, false, rdf.MakeQuad(s, p, o, nil), SPO, modeRange, 3},
		{"exact quad", 0, true, rdf.MakeQuad(s, p, o, g), GSPO, modeSingle, 4},
		{"exact quad, no graph indices", 0, false, rdf.MakeQuad(s, p, o, g), SPO, modeSingle, 4},

		// Graph-bound patterns promote to the G-prefixed variant.
		{"graph only", 0, true, rdf.MakeQuad(nil, nil, nil, g), GSPO, modeFilterRange, 1},
		{"graph and subject", 0, true, rdf.MakeQuad(s, nil, nil, g), GSPO, modeRange, 2},
		{"graph and object", 0, true, rdf.MakeQuad(nil, nil, o, g), GOPS, modeRange, 2},

		// With the ideal orders disabled, a leading bound position still
		// bounds the scan.
		{"s and o, filter", IndexSPO, false, rdf.MakeQuad(s, nil, o, nil), SPO, modeFilterRange, 1},
		{"p bound over pos", IndexSPO | IndexPOS, false, rdf.MakeQuad(nil, p, nil, nil), POS, modeRange, 1},
		{"s and p, filter secondary", IndexPOS, false, rdf.MakeQuad(s, p, nil, nil), POS, modeFilterRange, 1},

		// Nothing useful enabled: full scan with filtering.
		{"subject over ops only", IndexOPS, false, rdf.MakeQuad(s, nil, nil, nil), OPS, modeFilterAll, 0},

		// A bound graph without graph indices sits outside every
		// prefix and demotes range plans to filtering.
		{"graph bound, graphs off", IndexOPS, false, rdf.MakeQuad(nil, p, o, g), OPS, modeFilterRange, 2},
		{"graph and subject, graphs off", 0, false, rdf.MakeQuad(s, nil, nil, g), SPO, modeFilterRange, 1},
		{"graph only, graphs off", 0, false, rdf.MakeQuad(nil, nil, nil, g), SPO, modeFilterAll, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := New(w, c.indexes, c.graphs)
			pl := m.bestIndex(c.pat)
			require.Equal(t, c.order, pl.order, "order")
			require.Equal(t, c.mode, pl.mode, "mode")
			require.Equal(t, c.nPrefix, pl.nPrefix, "prefix length")
		})
	}
}

// The planner choices of the scenario: a model indexed only by OPS
// answers object-anchored patterns with ranges and everything else by
// filtering.
func TestOnlyOPSEnabled(t *testing.T) {
	w := rdf.NewWorld()
	m := New(w, IndexOPS, false)

	p := w.NewURI("eg:p")
	o := w.NewURI("eg:o")
	o2 := w.NewURI("eg:o2")
	s1 := w.NewURI("eg:s1")
	s2 := w.NewURI("eg:s2")
	s3 := w.NewURI("eg:s3")

	require.NoError(t, m.Add(rdf.MakeQuad(s1, p, o, nil)))
	require.NoError(t, m.Add(rdf.MakeQuad(s2, p, o, nil)))
	require.NoError(t, m.Add(rdf.MakeQuad(s3, p, o2, nil)))

	require.Equal(t, 2, m.Count(nil, p, o, nil))
	require.Equal(t, 2, m.Count(nil, nil, o, nil))

	pl := m.bestIndex(rdf.MakeQuad(s1, nil, nil, nil))
	require.Equal(t, modeFilterAll, pl.mode)
	require.Equal(t, 1, m.Count(s1, nil, nil, nil))
}

func TestFilterRangeBoundsScan(t *testing.T) {
	w := rdf.NewWorld()
	m := New(w, IndexSPO, false)

	s := w.NewURI("eg:s")
	p1 := w.NewURI("eg:p1")
	p2 := w.NewURI("eg:p2")
	o := w.NewURI("eg:o")
	other := w.NewURI("eg:other")

	require.NoError(t, m.Add(rdf.MakeQuad(s, p1, o, nil)))
	require.NoError(t, m.Add(rdf.MakeQuad(s, p2, o, nil)))
	require.NoError(t, m.Add(rdf.MakeQuad(s, p2, other, nil)))
	require.NoError(t, m.Add(rdf.MakeQuad(other, p1, o, nil)))

	// (s, nil, o) runs as a filtered range over SPO.
	pl := m.bestIndex(rdf.MakeQuad(s, nil, o, nil))
	require.Equal(t, modeFilterRange, pl.mode)
	require.Equal(t, SPO, pl.order)

	it := m.Search(s, nil, o, nil)
	got := collect(it)
	require.Len(t, got, 2)
	for _, q := range got {
		require.Equal(t, s, q.Subject())
		require.Equal(t, o, q.Object())
	}
}

// A bound graph must constrain results even when the model keeps no
// graph-qualified indices.
func TestGraphBoundWithoutGraphIndices(t *testing.T) {
	w := rdf.NewWorld()
	m := New(w, IndexOPS, false)

	p := w.NewURI("eg:p")
	o := w.NewURI("eg:o")
	s1 := w.NewURI("eg:s1")
	s2 := w.NewURI("eg:s2")
	g1 := w.NewURI("eg:g1")
	g2 := w.NewURI("eg:g2")

	require.NoError(t, m.Add(rdf.MakeQuad(s1, p, o, g1)))
	require.NoError(t, m.Add(rdf.MakeQuad(s2, p, o, g2)))
	require.NoError(t, m.Add(rdf.MakeQuad(s1, p, o, nil)))

	require.Equal(t, 1, m.Count(nil, p, o, g1))
	require.Equal(t, 1, m.Count(nil, p, o, g2))
	require.Equal(t, 3, m.Count(nil, p, o, nil))

	got := collect(m.Search(nil, p, o, g1))
	require.Len(t, got, 1)
	require.Equal(t, s1, got[0].Subject())
	require.Equal(t, g1, got[0].Graph())

	// The unindexed fallback re-checks the graph too.
	require.Equal(t, 1, m.Count(s1, nil, nil, g1))
	require.Equal(t, 0, m.Count(s1, nil, nil, g2))
}

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

package stream

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
	"github.com/stretchr/testify/require"

	"github.com/rdfkit/quadstore/memstore"
	"github.com/rdfkit/quadstore/rdf"
)

const testData = `<http://example.org/alice> <http://example.org/knows> <http://example.org/bob> .
<http://example.org/alice> <http://example.org/name> "Alice"@en .
<http://example.org/alice> <http://example.org/age> "32"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://example.org/bob> <http://example.org/knows> <http://example.org/alice> <http://example.org/g1> .
`

func TestLoad(t *testing.T) {
	w := rdf.NewWorld()
	m := memstore.New(w, 0, true)

	n, err := Load(m, nquads.NewReader(strings.NewReader(testData), false))
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, 4, m.NumQuads())

	alice := w.NewURI("http://example.org/alice")
	knows := w.NewURI("http://example.org/knows")
	require.Equal(t, 3, m.Count(alice, nil, nil, nil))
	require.Equal(t, 2, m.Count(nil, knows, nil, nil))
	require.Equal(t, 1, m.Count(nil, nil, nil, w.NewURI("http://example.org/g1")))

	name, err := m.Get(alice, w.NewURI("http://example.org/name"), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, name)
	require.Equal(t, rdf.Literal, name.Type())
	require.Equal(t, "Alice", name.Value())
	require.Equal(t, "en", name.Language())

	age, err := m.Get(alice, w.NewURI("http://example.org/age"), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, age)
	require.NotNil(t, age.Datatype())
	require.Equal(t, "http://www.w3.org/2001/XMLSchema#integer", age.Datatype().Value())
}

func TestLoadGraphOverride(t *testing.T) {
	w := rdf.NewWorld()
	m := memstore.New(w, 0, true)

	g := w.NewURI("http://example.org/override")
	n, err := LoadGraph(m, nquads.NewReader(strings.NewReader(testData), false), g)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, 4, m.Count(nil, nil, nil, g), "every statement lands in the override graph")
	require.Equal(t, 0, m.Count(nil, nil, nil, w.NewURI("http://example.org/g1")))
}

func TestExportRoundTrip(t *testing.T) {
	w := rdf.NewWorld()
	m := memstore.New(w, 0, true)
	_, err := Load(m, nquads.NewReader(strings.NewReader(testData), false))
	require.NoError(t, err)

	var buf bytes.Buffer
	wr := nquads.NewWriter(&buf)
	n, err := Export(m, wr)
	require.NoError(t, err)
	require.NoError(t, wr.Close())
	require.Equal(t, 4, n)

	w2 := rdf.NewWorld()
	m2 := memstore.New(w2, 0, true)
	_, err = Load(m2, nquads.NewReader(&buf, false))
	require.NoError(t, err)
	require.Equal(t, m.NumQuads(), m2.NumQuads())
	require.Equal(t, w.NumTerms(), w2.NumTerms())
}

func TestExportTriples(t *testing.T) {
	w := rdf.NewWorld()
	m := memstore.New(w, 0, true)

	s := w.NewURI("http://example.org/s")
	p := w.NewURI("http://example.org/p")
	o := w.NewURI("http://example.org/o")
	require.NoError(t, m.Add(rdf.MakeQuad(s, p, o, w.NewURI("http://example.org/g1"))))
	require.NoError(t, m.Add(rdf.MakeQuad(s, p, o, w.NewURI("http://example.org/g2"))))

	var buf bytes.Buffer
	wr := nquads.NewWriter(&buf)
	n, err := ExportTriples(m, wr)
	require.NoError(t, err)
	require.NoError(t, wr.Close())
	require.Equal(t, 1, n, "one triple for both graph copies")
	require.NotContains(t, buf.String(), "g1", "graph positions are dropped")
}

func TestTermConversion(t *testing.T) {
	w := rdf.NewWorld()

	cases := []struct {
		name string
		val  quad.Value
	}{
		{"iri", quad.IRI("http://example.org/x")},
		{"bnode", quad.BNode("b0")},
		{"plain", quad.String("v")},
		{"lang", quad.LangString{Value: "v", Lang: "en"}},
		{"typed", quad.TypedString{Value: "1", Type: "http://example.org/dt"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			term, err := AsTerm(w, c.val)
			require.NoError(t, err)
			require.Equal(t, c.val, AsValue(term))
			// Interning applies across conversions too.
			again, err := AsTerm(w, c.val)
			require.NoError(t, err)
			require.True(t, term == again)
		})
	}

	term, err := AsTerm(w, nil)
	require.NoError(t, err)
	require.Nil(t, term)
	require.Nil(t, AsValue(nil))
}

func TestTypedStringerConversion(t *testing.T) {
	w := rdf.NewWorld()
	term, err := AsTerm(w, quad.Int(42))
	require.NoError(t, err)
	require.Equal(t, rdf.Literal, term.Type())
	require.Equal(t, "42", term.Value())
	require.NotNil(t, term.Datatype())
	require.Equal(t, "http://www.w3.org/2001/XMLSchema#integer", term.Datatype().Value())
}

func TestInserterNoPartialAdd(t *testing.T) {
	w := rdf.NewWorld()
	m := memstore.New(w, 0, true)
	ins := NewInserter(m, nil)

	err := ins.WriteQuad(quad.Quad{
		Subject:   quad.IRI("http://example.org/s"),
		Predicate: quad.IRI("http://example.org/p"),
		Object:    nil,
	})
	require.Error(t, err)
	require.Equal(t, 0, m.NumQuads())
	require.Equal(t, 0, ins.Count())
}

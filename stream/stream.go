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

// Package stream adapts the external quad event stream to the store:
// ingestion drains a quad.Reader into a model, egress emits a model to
// a quad.Writer. Surface syntaxes are whatever formats the quad
// package has registered; the store itself never sees syntax.
package stream

import (
	"fmt"

	"github.com/cayleygraph/quad"

	"github.com/rdfkit/quadstore/memstore"
	"github.com/rdfkit/quadstore/rdf"
)

// AsTerm interns the term for an event node. A nil value maps to a nil
// term (the default graph / a wildcard). Typed values without a direct
// term form round-trip through their typed-string representation, with
// the datatype IRI expanded to its full form.
func AsTerm(w *rdf.World, v quad.Value) (*rdf.Term, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case quad.IRI:
		return w.NewURI(string(v)), nil
	case quad.BNode:
		return w.NewBlank(string(v)), nil
	case quad.String:
		return w.NewLiteral(string(v), nil, "")
	case quad.LangString:
		return w.NewLiteral(string(v.Value), nil, v.Lang)
	case quad.TypedString:
		return w.NewLiteral(string(v.Value), w.NewURI(string(v.Type)), "")
	}
	if ts, ok := v.(quad.TypedStringer); ok {
		tv := ts.TypedString()
		tv.Type = tv.Type.Full()
		return AsTerm(w, tv)
	}
	return nil, fmt.Errorf("stream: unsupported value type %T", v)
}

// AsValue converts an interned term back to an event node.
func AsValue(t *rdf.Term) quad.Value {
	if t == nil {
		return nil
	}
	switch t.Type() {
	case rdf.URI:
		return quad.IRI(t.Value())
	case rdf.Blank:
		return quad.BNode(t.Value())
	case rdf.Literal:
		if lang := t.Language(); lang != "" {
			return quad.LangString{Value: quad.String(t.Value()), Lang: lang}
		}
		if dt := t.Datatype(); dt != nil {
			return quad.TypedString{Value: quad.String(t.Value()), Type: quad.IRI(dt.Value())}
		}
		return quad.String(t.Value())
	}
	return nil
}

// Inserter feeds statement events into a model. It implements
// quad.Writer and quad.WriteCloser.
type Inserter struct {
	m     *memstore.Model
	graph *rdf.Term // overrides the statement graph when set
	n     int
}

var _ quad.WriteCloser = (*Inserter)(nil)

// NewInserter creates a sink adding statements to m. A non-nil graph
// overrides the graph position of every incoming statement.
func NewInserter(m *memstore.Model, graph *rdf.Term) *Inserter {
	return &Inserter{m: m, graph: graph}
}

// WriteQuad interns every position of the statement and adds the quad.
// Nothing is added when any position fails to intern.
func (ins *Inserter) WriteQuad(q quad.Quad) error {
	w := ins.m.World()
	s, err := AsTerm(w, q.Subject)
	if err != nil {
		return err
	}
	p, err := AsTerm(w, q.Predicate)
	if err != nil {
		return err
	}
	o, err := AsTerm(w, q.Object)
	if err != nil {
		return err
	}
	g := ins.graph
	if g == nil {
		if g, err = AsTerm(w, q.Label); err != nil {
			return err
		}
	}
	if err := ins.m.Add(rdf.MakeQuad(s, p, o, g)); err != nil {
		return err
	}
	ins.n++
	return nil
}

// WriteQuads implements quad.BatchWriter.
func (ins *Inserter) WriteQuads(buf []quad.Quad) (int, error) {
	for i, q := range buf {
		if err := ins.WriteQuad(q); err != nil {
			return i, err
		}
	}
	return len(buf), nil
}

// Count returns the number of statements written so far.
func (ins *Inserter) Count() int { return ins.n }

func (ins *Inserter) Close() error { return nil }

// Load drains a reader into the model, returning the number of
// statements consumed.
func Load(m *memstore.Model, r quad.Reader) (int, error) {
	return quad.Copy(NewInserter(m, nil), r)
}

// LoadGraph is Load with every statement forced into the given graph.
func LoadGraph(m *memstore.Model, r quad.Reader, graph *rdf.Term) (int, error) {
	return quad.Copy(NewInserter(m, graph), r)
}

// Export emits every quad of the model to w, returning the number
// written.
func Export(m *memstore.Model, w quad.Writer) (int, error) {
	return export(m.Begin(), w, false)
}

// ExportTriples emits the model with triple semantics: graph positions
// are dropped and quads identical up to the graph are emitted once.
func ExportTriples(m *memstore.Model, w quad.Writer) (int, error) {
	return export(m.BeginTriples(), w, true)
}

func export(it *memstore.Iter, w quad.Writer, triples bool) (int, error) {
	defer it.Close()
	n := 0
	for ; !it.End(); it.Next() {
		q := it.Quad()
		out := quad.Quad{
			Subject:   AsValue(q.Subject()),
			Predicate: AsValue(q.Predicate()),
			Object:    AsValue(q.Object()),
		}
		if !triples {
			out.Label = AsValue(q.Graph())
		}
		if err := w.WriteQuad(out); err != nil {
			return n, err
		}
		n++
	}
	return n, it.Err()
}

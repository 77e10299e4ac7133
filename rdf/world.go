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

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/rdfkit/quadstore/clog"
)

// ErrBadArgument is returned when an operation receives a nil term where
// one is required, or an otherwise malformed argument.
var ErrBadArgument = errors.New("rdf: bad argument")

// Severity classifies messages delivered to a World's error sink.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// ErrorFunc receives formatted diagnostics from a World.
type ErrorFunc func(sev Severity, msg string)

type nameKey struct {
	typ TermType
	val string
}

type literalKey struct {
	val      string
	datatype int64 // id of the datatype term, 0 for none
	lang     string
}

// World is the term dictionary. It deduplicates terms so that equal
// terms share a single handle, and tracks how many quads contain each
// term. A World must outlive every model built over it.
//
// A World is not safe for concurrent use; callers that require
// concurrency must serialize externally.
type World struct {
	last     int64
	names    map[nameKey]*Term
	literals map[literalKey]*Term
	errSink  ErrorFunc
}

// NewWorld creates an empty term dictionary.
func NewWorld() *World {
	return &World{
		names:    make(map[nameKey]*Term),
		literals: make(map[literalKey]*Term),
	}
}

// Close releases the dictionary. Every model built over the world must
// already be closed; terms handed out before Close become dead.
func (w *World) Close() error {
	w.names = nil
	w.literals = nil
	return nil
}

// NumTerms returns the number of terms currently interned.
func (w *World) NumTerms() int {
	return len(w.names) + len(w.literals)
}

// SetErrorSink routes diagnostics to fn instead of the default log.
func (w *World) SetErrorSink(fn ErrorFunc) { w.errSink = fn }

// Errorf reports a diagnostic through the error sink, or the default
// log stream if no sink is set.
func (w *World) Errorf(sev Severity, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.errSink != nil {
		w.errSink(sev, msg)
		return
	}
	if sev == SeverityWarning {
		clog.Warningf("%s", msg)
	} else {
		clog.Errorf("%s", msg)
	}
}

func (w *World) newTerm(typ TermType, val string) *Term {
	w.last++
	return &Term{
		id:    w.last,
		typ:   typ,
		val:   val,
		flags: termFlags(val),
	}
}

func (w *World) internName(typ TermType, val string) *Term {
	k := nameKey{typ: typ, val: val}
	if t, ok := w.names[k]; ok {
		return t
	}
	t := w.newTerm(typ, val)
	w.names[k] = t
	return t
}

// NewURI interns a URI term.
func (w *World) NewURI(uri string) *Term {
	return w.internName(URI, uri)
}

// NewRelativeURI interns the URI term obtained by resolving uri against
// base. A nil base interns uri as given.
func (w *World) NewRelativeURI(uri string, base *Term) (*Term, error) {
	if base == nil {
		return w.NewURI(uri), nil
	}
	if base.typ != URI {
		return nil, fmt.Errorf("%w: base is not a URI", ErrBadArgument)
	}
	bu, err := url.Parse(base.val)
	if err != nil {
		return nil, fmt.Errorf("rdf: parsing base URI %q: %w", base.val, err)
	}
	ru, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("rdf: parsing URI %q: %w", uri, err)
	}
	return w.NewURI(bu.ResolveReference(ru).String()), nil
}

// NewBlank interns a blank node term with the given label.
func (w *World) NewBlank(label string) *Term {
	return w.internName(Blank, label)
}

// NewLiteral interns a literal term. At most one of datatype and lang
// may be set; datatype must be a URI term of the same world.
//
// Two literals are equal only when their values are byte-equal and
// their datatypes and language tags agree.
func (w *World) NewLiteral(value string, datatype *Term, lang string) (*Term, error) {
	if datatype != nil && lang != "" {
		return nil, fmt.Errorf("%w: literal with both datatype and language", ErrBadArgument)
	}
	var dtID int64
	if datatype != nil {
		if datatype.typ != URI {
			return nil, fmt.Errorf("%w: literal datatype is not a URI", ErrBadArgument)
		}
		dtID = datatype.id
	}
	k := literalKey{val: value, datatype: dtID, lang: lang}
	if t, ok := w.literals[k]; ok {
		return t, nil
	}
	t := w.newTerm(Literal, value)
	t.datatype = datatype
	t.lang = lang
	w.literals[k] = t
	return t, nil
}

// Copy takes another caller reference to a term. Dictionary residency
// is dictated by quad containment, so this returns the same handle and
// does not touch the reference count.
func (w *World) Copy(t *Term) *Term { return t }

// Free drops a caller reference taken with Copy. It is a no-op.
func (w *World) Free(t *Term) {}

// AddQuadRefs records the containment of each non-nil position of q in
// one additional quad. For use by quad stores after a successful add.
func (w *World) AddQuadRefs(q Quad) {
	for _, t := range q {
		if t != nil {
			t.refs++
		}
	}
}

// DropQuadRefs releases the containment references of q. A term whose
// count reaches zero is evicted from the dictionary and its handle
// becomes dead. For use by quad stores after a successful remove.
func (w *World) DropQuadRefs(q Quad) {
	for _, t := range q {
		if t == nil {
			continue
		}
		t.refs--
		if t.refs < 0 {
			panic("rdf: dropped reference on a free term")
		}
		if t.refs == 0 {
			w.evict(t)
		}
	}
}

func (w *World) evict(t *Term) {
	switch t.typ {
	case URI, Blank:
		delete(w.names, nameKey{typ: t.typ, val: t.val})
	case Literal:
		var dtID int64
		if t.datatype != nil {
			dtID = t.datatype.id
		}
		delete(w.literals, literalKey{val: t.val, datatype: dtID, lang: t.lang})
	}
	clog.Debugf(2, "evicted %v", t)
}

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

// Package rdf implements interned RDF terms and the dictionary (World)
// that owns them. Terms are deduplicated on construction, so two terms
// are equal if and only if they are the same handle.
package rdf

import (
	"strings"
)

// TermType is the kind of an RDF term.
type TermType byte

const (
	// URI is a named node identified by its IRI string.
	URI TermType = iota + 1
	// Blank is a blank node identified by its label.
	Blank
	// Literal is a literal value with an optional datatype or language tag.
	Literal
)

func (t TermType) String() string {
	switch t {
	case URI:
		return "uri"
	case Blank:
		return "blank"
	case Literal:
		return "literal"
	}
	return "unknown"
}

// TermFlags are serialization hints computed when a term is interned.
type TermFlags uint8

const (
	// FlagHasNewline is set when the term value contains a newline or
	// carriage return and cannot be written on a single unescaped line.
	FlagHasNewline TermFlags = 1 << iota
	// FlagHasQuote is set when the term value contains a double quote.
	FlagHasQuote
)

func termFlags(s string) TermFlags {
	var f TermFlags
	if strings.ContainsAny(s, "\n\r") {
		f |= FlagHasNewline
	}
	if strings.ContainsRune(s, '"') {
		f |= FlagHasQuote
	}
	return f
}

// Term is an interned RDF term. Terms are created through a World and
// must never be constructed directly; the zero Term is invalid.
//
// A Term's reference count tracks containment in quads, not caller
// copies: it is the number of quads in which the term appears in any
// model over the owning World. Callers that extract a term from an
// iterator and then remove its last containing quad must re-intern the
// term if they still need it.
type Term struct {
	id       int64
	typ      TermType
	val      string
	datatype *Term
	lang     string
	flags    TermFlags
	refs     int
}

// Type returns the kind of the term.
func (t *Term) Type() TermType { return t.typ }

// Value returns the lexical value of the term: the IRI of a URI, the
// label of a blank node, or the string value of a literal.
func (t *Term) Value() string { return t.val }

// ByteLen returns the length of the term value in bytes.
func (t *Term) ByteLen() int { return len(t.val) }

// Language returns the language tag of a literal, or "" if the term is
// not a literal or carries no tag.
func (t *Term) Language() string { return t.lang }

// Datatype returns the datatype of a literal, or nil.
func (t *Term) Datatype() *Term { return t.datatype }

// Flags returns serialization hints for the term value.
func (t *Term) Flags() TermFlags { return t.flags }

// Refs returns the number of quads currently containing the term.
func (t *Term) Refs() int { return t.refs }

// Equal reports whether two terms are the same. Interning guarantees
// that handle identity coincides with semantic equality.
func (t *Term) Equal(o *Term) bool { return t == o }

// String returns a diagnostic N-Triples-like rendering of the term.
func (t *Term) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.typ {
	case URI:
		return "<" + t.val + ">"
	case Blank:
		return "_:" + t.val
	case Literal:
		s := `"` + t.val + `"`
		if t.lang != "" {
			return s + "@" + t.lang
		} else if t.datatype != nil {
			return s + "^^" + t.datatype.String()
		}
		return s
	}
	return "?"
}

// Compare orders two terms. A nil term sorts before every real term, so
// a wildcard in a search key lands at the lower bound of its matching
// range. Non-nil terms are ordered by allocation, which is an arbitrary
// but fixed total order sufficient for index semantics.
func Compare(a, b *Term) int {
	switch {
	case a == b:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.id < b.id:
		return -1
	case a.id > b.id:
		return 1
	}
	return 0
}

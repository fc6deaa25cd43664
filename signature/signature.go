/*
Copyright (C) 2026  Jinx contributors

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package signature implements Jinx's multi-part function signatures
// (spec §3 "FunctionSignature", §4.3): parsing the host-facing registration
// string grammar, deriving a stable RuntimeID, and exposing the per-part
// shape the parser's call-matching algorithm walks.
//
// Grounded on the teacher's scm/declare.go, which registers a builtin as a
// name plus a flat parameter list (Declaration{Name, Params []...}); Jinx
// generalizes that into ordered alternating name/parameter parts because a
// Jinx call site is prose ("add {} to {}"), not a single leading keyword.
package signature

import (
	"hash/fnv"
	"math/rand"
	"strings"

	"github.com/launix-de/jinx/casefold"
	"github.com/launix-de/jinx/value"
)

// Visibility controls where a signature is looked up from (spec §3).
type Visibility uint8

const (
	Local Visibility = iota
	Private
	Public
)

// PartKind discriminates a signature Part.
type PartKind uint8

const (
	NamePart PartKind = iota
	ParamPart
)

// Part is one element of a FunctionSignature (spec §3).
type Part struct {
	Kind PartKind

	// NamePart fields
	Names    []string // alternative keywords, already case-folded
	Optional bool

	// ParamPart fields
	Typed     bool
	Type      value.Kind
	ParamName string // bound local-variable name, script-declared functions only ("{integer y}"); empty for host-registered native parameters
}

// RuntimeID is the stable 64-bit identifier of a function or property
// (spec §3 "RuntimeID").
type RuntimeID uint64

// Signature is a compiled FunctionSignature (spec §3).
type Signature struct {
	ID         RuntimeID
	Visibility Visibility
	Library    string // "" for Local
	Parts      []Part
	Returns    bool // whether the function must produce a value (leading `return` keyword)
	ParamCount int
}

// HasNonKeywordName reports whether the signature contains at least one
// Name part whose alternatives are not all language keywords — required
// because "a part may not coincide with a language keyword unless the
// signature contains at least one non-keyword name part" (spec §3).
func (s *Signature) HasNonKeywordName(isKeyword func(string) bool) bool {
	for _, p := range s.Parts {
		if p.Kind != NamePart {
			continue
		}
		for _, n := range p.Names {
			if !isKeyword(n) {
				return true
			}
		}
	}
	return false
}

// Canonical renders the signature the way RuntimeID hashing and
// documentation require: library name (if any) plus each part, parameters
// as `{}` or `{TypeName}` (spec §4.3).
func (s *Signature) Canonical() string {
	var b strings.Builder
	if s.Library != "" {
		b.WriteString(s.Library)
		b.WriteByte(' ')
	}
	for i, p := range s.Parts {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch p.Kind {
		case NamePart:
			b.WriteString(strings.Join(p.Names, "/"))
		case ParamPart:
			if p.Typed {
				b.WriteByte('{')
				b.WriteString(p.Type.String())
				b.WriteByte('}')
			} else {
				b.WriteString("{}")
			}
		}
	}
	return b.String()
}

// NewLocalID returns a random RuntimeID for a script-local function: spec
// §3 "generated ... randomly (local functions) to guarantee uniqueness
// across scripts."
func NewLocalID() RuntimeID {
	return RuntimeID(rand.Uint64())
}

// HashLibraryID derives a stable RuntimeID for a library-scoped function or
// property by hashing its canonical string, so recompiling the same script
// yields the same id (spec §3, §8 "Bytecode determinism"). FNV-1a is used
// rather than the original C++ implementation's bespoke hash
// (original_source/Source/JxHash.h) — a well-known, dependency-free 64-bit
// hash meets the "stable across compilations" requirement just as well
// (see DESIGN.md).
func HashLibraryID(canonical string) RuntimeID {
	h := fnv.New64a()
	_, _ = h.Write([]byte(canonical))
	return RuntimeID(h.Sum64())
}

// FoldName folds a name for identifier/alternative comparisons.
func FoldName(s string) string { return casefold.Fold(s) }

// MatchesName reports whether any alternative of a Name part equals name
// after folding (spec §4.3 "A Name part matches if any of its alternative
// names equals the source name").
func (p *Part) MatchesName(folded string) bool {
	for _, n := range p.Names {
		if n == folded {
			return true
		}
	}
	return false
}

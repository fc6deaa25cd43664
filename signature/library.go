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

package signature

import (
	"sync"

	"github.com/launix-de/jinx/value"
)

// PropertyDef is a registered Library property (spec §3 "Library", §6
// "register_property").
type PropertyDef struct {
	ID         RuntimeID
	Name       string // folded
	Visibility Visibility
	ReadOnly   bool
	Default    value.Variant
}

// Library is a named registry of function signatures and properties, owned
// by a Runtime for its whole lifetime (spec §3 "Library").
//
// Grounded on the teacher's Globalenv (scm/declare.go): a single shared,
// mutex-guarded table builtins register into; Jinx generalizes it to one
// table per named library plus a parallel property table.
type Library struct {
	mu          sync.RWMutex
	Name        string
	functions   []*Signature
	properties  map[string]*PropertyDef
	maxPropertyParts int
}

func NewLibrary(name string) *Library {
	return &Library{Name: name, properties: make(map[string]*PropertyDef)}
}

// AddFunction registers sig (Private or Public visibility) into the
// library's function table.
func (l *Library) AddFunction(sig *Signature) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sig.Library = l.Name
	l.functions = append(l.functions, sig)
}

// Functions returns a snapshot of the library's registered signatures.
func (l *Library) Functions() []*Signature {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Signature, len(l.functions))
	copy(out, l.functions)
	return out
}

// DefineProperty registers or overwrites a property definition.
func (l *Library) DefineProperty(def *PropertyDef) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.properties[def.Name] = def
	if n := len(def.Name); n > l.maxPropertyParts {
		l.maxPropertyParts = n
	}
}

// Property looks up a property by its folded name.
func (l *Library) Property(folded string) (*PropertyDef, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.properties[folded]
	return p, ok
}

// SetPropertyDefault updates a property definition's Default in place (properties
// are stored by the Runtime's property-value table keyed by ID; this just
// exposes the definition's Default slot for scripts compiled before the
// Runtime's own value table existed, e.g. tests that inspect Library
// directly).
func (l *Library) SetPropertyDefault(folded string, v value.Variant) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.properties[folded]; ok {
		p.Default = v
	}
}

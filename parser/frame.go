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

package parser

import "github.com/launix-de/jinx/signature"

// varScope is one lexical scope: `begin…end`, an if/loop body, or a function
// body's top scope (spec §4.4 "Variable frames"). Variables are identified
// at runtime by RuntimeID, resolved through the ScopeStack's idMap (spec §3
// "ExecutionFrame"); names map here is the parser's own compile-time
// bookkeeping so it can emit PushVar/SetVar with the right id and detect
// shadowing/redeclaration.
type varScope struct {
	names      map[string]signature.RuntimeID
	entryDepth int // frame.stackSize when this scope was entered
}

func newVarScope(entryDepth int) *varScope {
	return &varScope{names: make(map[string]signature.RuntimeID), entryDepth: entryDepth}
}

// varFrame tracks one function body's nested scopes plus whether the
// function must produce a return value (spec §4.4 "Return-value
// discipline").
type varFrame struct {
	scopes     []*varScope
	stackSize  int // number of operand-stack slots occupied by variables so far
	mustReturn bool
	sawReturn  bool
	// breakTargets holds one reserved-address slot per enclosing loop, used
	// to backfill `break` to the innermost loop's end (spec §9 "break
	// backfills to the innermost enclosing loop end").
	breakTargets [][]int
}

func newVarFrame(mustReturn bool) *varFrame {
	f := &varFrame{mustReturn: mustReturn}
	f.scopes = []*varScope{newVarScope(0)}
	return f
}

func (f *varFrame) pushScope() { f.scopes = append(f.scopes, newVarScope(f.stackSize)) }

func (f *varFrame) popScope() {
	n := len(f.scopes)
	f.stackSize = f.scopes[n-1].entryDepth
	f.scopes = f.scopes[:n-1]
}

// lookup walks scopes innermost-to-outermost (spec: "VariableExists(name)
// walks from innermost scope outward").
func (f *varFrame) lookup(folded string) (signature.RuntimeID, bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if id, ok := f.scopes[i].names[folded]; ok {
			return id, true
		}
	}
	return 0, false
}

// declareInnermost assigns a fresh RuntimeID to folded in the innermost
// scope, occupying the next operand-stack slot; callers must emit the
// value-producing code for that slot themselves before calling this (spec
// §4.4.3 "SetIndex ... bind name to stack slot").
func (f *varFrame) declareInnermost(folded string) (signature.RuntimeID, int) {
	idx := f.stackSize
	f.stackSize++
	id := signature.NewLocalID()
	f.scopes[len(f.scopes)-1].names[folded] = id
	return id, idx
}

func (f *varFrame) pushLoop() {
	f.breakTargets = append(f.breakTargets, nil)
}

func (f *varFrame) popLoop() []int {
	n := len(f.breakTargets)
	targets := f.breakTargets[n-1]
	f.breakTargets = f.breakTargets[:n-1]
	return targets
}

func (f *varFrame) addBreakTarget(patchAt int) {
	n := len(f.breakTargets)
	f.breakTargets[n-1] = append(f.breakTargets[n-1], patchAt)
}

func (f *varFrame) inLoop() bool { return len(f.breakTargets) > 0 }

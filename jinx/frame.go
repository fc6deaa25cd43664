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

package jinx

// ExecutionFrame is one active function call (plus the outermost one for
// the script's root body), spec §3 "ExecutionFrame". Unlike the bytecode
// itself, which the parser's compile-time varFrame/varScope bookkeeping
// (parser/frame.go) only ever reasons about in the abstract, this is the
// VM-side runtime object: it tracks the live RuntimeID→stack-slot bindings
// for this one call.
//
// A flat idMap (rather than the parser's per-scope nested tables) suffices
// here because every declared variable already has a statically-unique
// RuntimeID assigned once at its declaration site — two unrelated
// declarations never collide on id even if they reuse the same surface
// name, so a single map per frame resolves them unambiguously, and
// ScopeBegin/ScopeEnd's only remaining job at runtime is remembering where
// to truncate the operand stack back to (see DESIGN.md).
type ExecutionFrame struct {
	returnIP     int
	baseStack    int   // stack length immediately before this call's params were pushed
	idMap        map[uint64]int
	scopeMarkers []int // stack of stack-length snapshots, pushed by ScopeBegin
	waitOnReturn bool
	funcName     string // for the call-stack builtin, spec §6 "call stack"
}

func newExecutionFrame(returnIP, baseStack int, funcName string) *ExecutionFrame {
	return &ExecutionFrame{
		returnIP:  returnIP,
		baseStack: baseStack,
		idMap:     make(map[uint64]int),
		funcName:  funcName,
	}
}

func (f *ExecutionFrame) pushScope(stackLen int) {
	f.scopeMarkers = append(f.scopeMarkers, stackLen)
}

// popScope returns the stack length to truncate back to, or -1 if there was
// no matching ScopeBegin (a bytecode-shape bug, guarded defensively rather
// than panicking).
func (f *ExecutionFrame) popScope() int {
	n := len(f.scopeMarkers)
	if n == 0 {
		return -1
	}
	top := f.scopeMarkers[n-1]
	f.scopeMarkers = f.scopeMarkers[:n-1]
	return top
}

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

import "testing"

// TestShortCircuitAndSkipsRightOperand exercises spec §8's short-circuit
// property: in `A and B`, B's side effects must not be observed once A
// (false) already determines the result.
func TestShortCircuitAndSkipsRightOperand(t *testing.T) {
	rt := NewRuntime(GlobalParams{})
	const src = `library app
external result
set private calls to 0
function sideeffect
  increment calls
  return true
end
set result to false and sideeffect
`
	s, errs := rt.ExecuteScript([]byte(src), nil, "shortcircuit-and", nil)
	if errs != nil {
		t.Fatalf("compile errors: %v", errs)
	}
	runToCompletion(t, s, 10)

	calls, ok := s.GetVariable("calls")
	if !ok || calls.IntegerValue() != 0 {
		t.Fatalf("calls = %v, ok=%v, want 0 (right operand of `false and ...` must not run)", calls, ok)
	}
	result, ok := s.GetVariable("result")
	if !ok || result.Truthy() {
		t.Fatalf("result = %v, ok=%v, want false", result, ok)
	}
}

// TestShortCircuitOrSkipsRightOperand mirrors the above for `or`: once A
// (true) already determines the result, B must not run.
func TestShortCircuitOrSkipsRightOperand(t *testing.T) {
	rt := NewRuntime(GlobalParams{})
	const src = `library app
external result
set private calls to 0
function sideeffect
  increment calls
  return false
end
set result to true or sideeffect
`
	s, errs := rt.ExecuteScript([]byte(src), nil, "shortcircuit-or", nil)
	if errs != nil {
		t.Fatalf("compile errors: %v", errs)
	}
	runToCompletion(t, s, 10)

	calls, ok := s.GetVariable("calls")
	if !ok || calls.IntegerValue() != 0 {
		t.Fatalf("calls = %v, ok=%v, want 0 (right operand of `true or ...` must not run)", calls, ok)
	}
	result, ok := s.GetVariable("result")
	if !ok || !result.Truthy() {
		t.Fatalf("result = %v, ok=%v, want true", result, ok)
	}
}

// TestShortCircuitAndEvaluatesRightOperandWhenNeeded is the control case:
// when A is true, `and` must still run B and observe its side effects.
func TestShortCircuitAndEvaluatesRightOperandWhenNeeded(t *testing.T) {
	rt := NewRuntime(GlobalParams{})
	const src = `library app
external result
set private calls to 0
function sideeffect
  increment calls
  return true
end
set result to true and sideeffect
`
	s, errs := rt.ExecuteScript([]byte(src), nil, "shortcircuit-and-control", nil)
	if errs != nil {
		t.Fatalf("compile errors: %v", errs)
	}
	runToCompletion(t, s, 10)

	calls, ok := s.GetVariable("calls")
	if !ok || calls.IntegerValue() != 1 {
		t.Fatalf("calls = %v, ok=%v, want 1 (right operand of `true and ...` must run)", calls, ok)
	}
	result, ok := s.GetVariable("result")
	if !ok || !result.Truthy() {
		t.Fatalf("result = %v, ok=%v, want true", result, ok)
	}
}

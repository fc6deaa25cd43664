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

import "github.com/launix-de/jinx/value"

// Coroutine wraps a child Script spawned to run a single bytecode function
// body to completion independently of its host's own tick budget (spec
// §4.6). The child shares its host's Runtime and compiled Program — only the
// operand stack and frame chain are its own — so the two Scripts' localFuncs
// tables (pure entryIP/arity/signature data, stable for the life of the
// Program) are safe to alias rather than rediscover.
type Coroutine struct {
	child     *Script
	baseDepth int // len(child.frames) before the call frame was pushed

	done bool
	ret  value.Variant
}

// newCoroutine implements spec §6 "Script.call_async_function": it clones
// the host's bytecode reference into a fresh Script, pre-pushes params, and
// sets up a call frame with waitOnReturn so the child yields back to
// IsFinished the moment that frame's Return executes.
func newCoroutine(host *Script, fn *localFuncEntry, params []value.Variant) (*Coroutine, error) {
	if len(params) != fn.arity {
		return nil, host.errf(ErrBytecode, "call_async_function: expected %d params, got %d", fn.arity, len(params))
	}
	child := newScript(host.rt, host.prog, host.userCtx)
	child.library = host.library
	// Local functions are registered by running their owning Script's own
	// OpFunction opcodes; the child never does that (it starts cold at
	// fn.entryIP), so it borrows the host's already-discovered table.
	child.localFuncs = host.localFuncs

	base := len(child.stack)
	child.stack = append(child.stack, params...)

	baseDepth := len(child.frames)
	frame := newExecutionFrame(-1, base, fn.sig.Canonical())
	frame.waitOnReturn = true
	child.frames = append(child.frames, frame)
	child.reader.Jump(uint32(fn.entryIP))

	return &Coroutine{child: child, baseDepth: baseDepth}, nil
}

// IsFinished implements spec §6 "Coroutine.is_finished() → bool": drives one
// Execute cycle (at most MaxInstructions opcodes) on the child script if it
// has not already completed, and captures the Return value the moment the
// call frame set up by newCoroutine pops.
func (c *Coroutine) IsFinished() bool {
	if c.done {
		return true
	}
	child := c.child
	if child.err != nil {
		c.done = true
		return true
	}
	var count uint32
	for count < child.rt.params.MaxInstructions {
		yield, err := child.step()
		count++
		if err != nil {
			child.fail(toScriptError(err, child))
			c.done = true
			return true
		}
		if len(child.frames) <= c.baseDepth {
			// The call frame returned: doReturn already pushed the return
			// value onto child.stack before reporting waitOnReturn as yield.
			if n := len(child.stack); n > 0 {
				c.ret = child.stack[n-1]
				child.stack = child.stack[:n-1]
			}
			c.done = true
			return true
		}
		if yield {
			break // ordinary Wait inside the body; resume on the next call
		}
	}
	return c.done
}

// GetReturnValue implements spec §6 "Coroutine.get_return_value() → Variant".
// Returns Null until IsFinished reports true.
func (c *Coroutine) GetReturnValue() value.Variant {
	return c.ret
}

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

import (
	"sync/atomic"
	"time"

	"github.com/launix-de/jinx/bytecode"
	"github.com/launix-de/jinx/signature"
	"github.com/launix-de/jinx/value"
)

// localFuncEntry is a script-declared (always Local, spec §4.4.1) function's
// runtime registration, recorded when its owning Script executes the
// Function opcode (spec §4.4.3 "register a function whose body starts at
// (current IP + size of following Jump)").
type localFuncEntry struct {
	entryIP int
	arity   int
	returns bool
	sig     *signature.Signature
}

// Script is one running (or finished/poisoned) instance of compiled
// bytecode (spec §3 "Script"). Several Scripts may share one Runtime.
type Script struct {
	rt   *Runtime
	prog *bytecode.Program

	reader *bytecode.Reader
	stack  []value.Variant
	frames []*ExecutionFrame

	localFuncs map[uint64]*localFuncEntry
	library    string // current library name, "" is the default; spec §3 "updated by library opcode"

	userCtx  any
	name     string
	finished bool
	err      *ScriptError
}

func newScript(rt *Runtime, prog *bytecode.Program, userCtx any) *Script {
	s := &Script{
		rt:         rt,
		prog:       prog,
		reader:     bytecode.NewReader(prog.Code),
		localFuncs: make(map[uint64]*localFuncEntry),
		userCtx:    userCtx,
		name:       prog.Name,
	}
	root := newExecutionFrame(-1, 0, "root")
	s.frames = []*ExecutionFrame{root}

	// Pre-seed every `external` declaration's stack slot before the first
	// opcode runs, so a host may call SetVariable(name, ...) "before
	// Execute" (spec §4.4.1) even though no bytecode is ever emitted for
	// the external statement itself (see DESIGN.md).
	for _, ext := range prog.Externals {
		idx := int(ext.Index)
		for len(s.stack) <= idx {
			s.stack = append(s.stack, value.NewNull())
		}
		root.idMap[ext.ID] = idx
	}
	return s
}

// IsFinished implements spec §6 "Script.is_finished()".
func (s *Script) IsFinished() bool { return s.finished }

// GetName implements spec §6 "Script.get_name()".
func (s *Script) GetName() string { return s.name }

// GetUserContext implements spec §6 "Script.get_user_context()".
func (s *Script) GetUserContext() any { return s.userCtx }

// CallStackNames implements the core library's "call stack" builtin (spec
// §6): the calling function's name at each live frame, outermost ("root")
// first.
func (s *Script) CallStackNames() []string {
	names := make([]string, len(s.frames))
	for i, f := range s.frames {
		names[i] = f.funcName
	}
	return names
}

// GetLibrary implements spec §6 "Script.get_library()": the name of the
// library selected by the most recently executed `library` statement.
func (s *Script) GetLibrary() string { return s.library }

// Err returns the error that poisoned the script, or nil.
func (s *Script) Err() error {
	if s.err == nil {
		return nil
	}
	return s.err
}

func (s *Script) fail(err *ScriptError) {
	s.err = err
	s.finished = true
	s.rt.logf(LogError, "%s", err.Error())
}

func (s *Script) currentLine() uint32 {
	line, _ := s.prog.LineForOffset(s.reader.IP)
	return line
}

func (s *Script) errf(code ErrorCode, format string, args ...any) *ScriptError {
	return scriptErr(code, s.name, s.currentLine(), format, args...)
}

// Execute implements spec §4.5/§6 "Script.execute() → bool": runs at most
// GlobalParams.MaxInstructions opcodes, returns false when a runtime error
// occurs this tick and on every later call once an error has poisoned the
// script.
func (s *Script) Execute() bool {
	if s.err != nil {
		return false
	}
	if s.finished {
		return true
	}
	start := time.Now()
	var count uint32
	for count < s.rt.params.MaxInstructions {
		if s.finished {
			break
		}
		yield, err := s.step()
		count++
		if err != nil {
			s.fail(toScriptError(err, s))
			atomic.AddUint64(&s.rt.stats.instructionCount, uint64(count))
			atomic.AddInt64(&s.rt.stats.executeTime, int64(time.Since(start)))
			return false
		}
		if yield {
			break
		}
	}
	atomic.AddUint64(&s.rt.stats.instructionCount, uint64(count))
	atomic.AddInt64(&s.rt.stats.executeTime, int64(time.Since(start)))
	if !s.finished && count >= s.rt.params.MaxInstructions && s.rt.params.ErrorOnMaxInstructions {
		s.fail(s.errf(ErrMaxInstructions, "exceeded max instructions (%d)", s.rt.params.MaxInstructions))
		return false
	}
	if s.finished {
		atomic.AddUint64(&s.rt.stats.scriptsCompleted, 1)
	}
	return true
}

func toScriptError(err error, s *Script) *ScriptError {
	if se, ok := err.(*ScriptError); ok {
		return se
	}
	return s.errf(ErrBytecode, "%v", err)
}

// GetVariable implements spec §6 "Script.get_variable(name) → Variant":
// resolves name against the script's externals and, failing that, the
// current library's properties (imported libraries are not searched) — the only two name→id
// mappings that survive compilation into the bytecode buffer.
func (s *Script) GetVariable(name string) (value.Variant, bool) {
	if id, ok := s.resolveExternalByName(name); ok {
		if idx, ok := s.frames[0].idMap[id]; ok && idx < len(s.stack) {
			return s.stack[idx], true
		}
	}
	if id, ok := s.resolvePropertyByName(name); ok {
		return s.rt.properties.get(id)
	}
	return value.Variant{}, false
}

// SetVariable implements spec §6 "Script.set_variable(name, Variant)".
func (s *Script) SetVariable(name string, v value.Variant) bool {
	if id, ok := s.resolveExternalByName(name); ok {
		if idx, ok := s.frames[0].idMap[id]; ok {
			for len(s.stack) <= idx {
				s.stack = append(s.stack, value.NewNull())
			}
			s.stack[idx] = v
			return true
		}
	}
	if id, ok := s.resolvePropertyByName(name); ok {
		s.rt.properties.set(id, v)
		return true
	}
	return false
}

func (s *Script) resolveExternalByName(name string) (uint64, bool) {
	for _, ext := range s.prog.Externals {
		if ext.Name == name {
			return ext.ID, true
		}
	}
	return 0, false
}

func (s *Script) resolvePropertyByName(name string) (uint64, bool) {
	if lib, ok := s.rt.lookupLibrary(s.library); ok {
		if def, ok := lib.Property(signature.FoldName(name)); ok {
			return uint64(def.ID), true
		}
	}
	return 0, false
}

// FindFunction implements spec §6 "Script.find_function(library?,
// canonical_signature) → RuntimeID". An empty library searches this
// script's own Local function table (script-declared functions are always
// Local, spec §4.4.1); a non-empty library name resolves the stable
// hash-derived id directly and checks it is actually registered.
func (s *Script) FindFunction(library, canonicalSignature string) (uint64, bool) {
	if library == "" {
		for id, fn := range s.localFuncs {
			if fn.sig.Canonical() == canonicalSignature {
				return id, true
			}
		}
		return 0, false
	}
	id := uint64(signature.HashLibraryID(canonicalSignature))
	if s.rt.functions.Get(id) != nil {
		return id, true
	}
	return 0, false
}

// CallFunction implements spec §6 "Script.call_function(RuntimeID, params)
// → Variant (synchronous)": invokes a native callback directly, or drives a
// bytecode function to completion on this Script's own stack/frame chain.
func (s *Script) CallFunction(id uint64, params []value.Variant) (value.Variant, error) {
	if fn, ok := s.localFuncs[id]; ok {
		return s.callLocalSync(fn, params)
	}
	if entry := s.rt.functions.Get(id); entry != nil {
		return entry.callback(s, params)
	}
	return value.Variant{}, s.errf(ErrUnknownFunction, "no function registered for id %d", id)
}

// callLocalSync pushes params, jumps to fn's entry point with a sentinel
// frame, and runs the dispatch loop directly (bypassing the per-tick
// MaxInstructions budget) until that frame returns. A target that executes
// `wait` has no outer Execute tick to resume it from this synchronous call;
// such a call simply treats Wait as a no-op continuation here — fine for the common synchronous-recursion case (scenario 3)
// but not a substitute for call_async_function when the target can suspend.
func (s *Script) callLocalSync(fn *localFuncEntry, params []value.Variant) (value.Variant, error) {
	if len(params) != fn.arity {
		return value.Variant{}, s.errf(ErrBytecode, "call_function: expected %d params, got %d", fn.arity, len(params))
	}
	savedIP := s.reader.IP
	depth := len(s.frames)
	base := len(s.stack)
	for _, p := range params {
		s.stack = append(s.stack, p)
	}
	frame := newExecutionFrame(savedIP, base, fn.sig.Canonical())
	s.frames = append(s.frames, frame)
	s.reader.Jump(uint32(fn.entryIP))

	const runawayGuard = 10_000_000
	for i := 0; i < runawayGuard; i++ {
		if len(s.frames) < depth+1 {
			break
		}
		yield, err := s.step()
		if err != nil {
			s.reader.Jump(uint32(savedIP))
			return value.Variant{}, toScriptError(err, s)
		}
		if yield {
			continue
		}
	}
	if len(s.frames) >= depth+1 {
		s.reader.Jump(uint32(savedIP))
		return value.Variant{}, s.errf(ErrBytecode, "call_function: target did not return")
	}
	if len(s.stack) == 0 {
		return value.Variant{}, s.errf(ErrStackUnderflow, "call_function: missing return value")
	}
	ret := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return ret, nil
}

// CallAsyncFunction implements spec §6 "Script.call_async_function(RuntimeID,
// params) → Coroutine (if target is bytecode)".
func (s *Script) CallAsyncFunction(id uint64, params []value.Variant) (*Coroutine, error) {
	fn, ok := s.localFuncs[id]
	if !ok {
		return nil, s.errf(ErrUnknownFunction, "call_async_function: id %d is not a bytecode function", id)
	}
	return newCoroutine(s, fn, params)
}

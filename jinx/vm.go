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
	"errors"

	"github.com/launix-de/jinx/bytecode"
	"github.com/launix-de/jinx/signature"
	"github.com/launix-de/jinx/value"
)

func (s *Script) push(v value.Variant) { s.stack = append(s.stack, v) }

func (s *Script) pop() (value.Variant, error) {
	n := len(s.stack)
	if n == 0 {
		return value.Variant{}, s.errf(ErrStackUnderflow, "operand stack underflow")
	}
	v := s.stack[n-1]
	s.stack = s.stack[:n-1]
	return v, nil
}

func (s *Script) peek() (value.Variant, error) {
	n := len(s.stack)
	if n == 0 {
		return value.Variant{}, s.errf(ErrStackUnderflow, "operand stack underflow")
	}
	return s.stack[n-1], nil
}

func (s *Script) frame() *ExecutionFrame { return s.frames[len(s.frames)-1] }

// bindVar resolves a RuntimeID against the current frame's idMap, reporting
// false when the id is not bound there; it never grows the stack (the first
// SetIndex for a given id establishes its slot).
func (s *Script) bindVar(id uint64) (int, bool) {
	idx, ok := s.frame().idMap[id]
	return idx, ok
}

func (s *Script) collectionOf(v value.Variant) (*value.Collection, error) {
	switch v.Kind() {
	case value.Collect:
		return v.CollectionValue(), nil
	default:
		return nil, s.errf(ErrCast, "value of kind %v is not a collection", v.Kind())
	}
}

// step executes exactly one bytecode instruction starting at s.reader.IP.
// It returns yield=true when the script must suspend until the next
// Execute call (Wait), and a non-nil error for any spec §7 runtime error,
// which poisons the Script (spec §7).
func (s *Script) step() (bool, error) {
	op, err := s.reader.Op()
	if err != nil {
		return false, s.errf(ErrBytecode, "%v", err)
	}

	switch op {
	case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod:
		b, err := s.pop()
		if err != nil {
			return false, err
		}
		a, err := s.pop()
		if err != nil {
			return false, err
		}
		var res value.Variant
		var opErr error
		switch op {
		case bytecode.OpAdd:
			res, opErr = value.Add(a, b)
		case bytecode.OpSub:
			res, opErr = value.Sub(a, b)
		case bytecode.OpMul:
			res, opErr = value.Mul(a, b)
		case bytecode.OpDiv:
			res, opErr = value.Div(a, b)
		case bytecode.OpMod:
			res, opErr = value.Mod(a, b)
		}
		if opErr != nil {
			if errors.Is(opErr, value.ErrDivideByZero) {
				return false, s.errf(ErrDivideByZero, "%v", opErr)
			}
			return false, s.errf(ErrArithmetic, "%v", opErr)
		}
		s.push(res)

	case bytecode.OpNegate:
		a, err := s.pop()
		if err != nil {
			return false, err
		}
		res, opErr := value.Negate(a)
		if opErr != nil {
			return false, s.errf(ErrArithmetic, "%v", opErr)
		}
		s.push(res)

	case bytecode.OpIncrement, bytecode.OpDecrement:
		delta, err := s.pop()
		if err != nil {
			return false, err
		}
		cur, err := s.pop()
		if err != nil {
			return false, err
		}
		var res value.Variant
		var opErr error
		if op == bytecode.OpIncrement {
			res, opErr = value.Increment(cur, delta)
		} else {
			res, opErr = value.Decrement(cur, delta)
		}
		if opErr != nil {
			return false, s.errf(ErrArithmetic, "%v", opErr)
		}
		s.push(res)

	case bytecode.OpAnd:
		b, err := s.pop()
		if err != nil {
			return false, err
		}
		a, err := s.pop()
		if err != nil {
			return false, err
		}
		s.push(value.NewBoolean(a.Truthy() && b.Truthy()))

	case bytecode.OpOr:
		b, err := s.pop()
		if err != nil {
			return false, err
		}
		a, err := s.pop()
		if err != nil {
			return false, err
		}
		s.push(value.NewBoolean(a.Truthy() || b.Truthy()))

	case bytecode.OpNot:
		a, err := s.pop()
		if err != nil {
			return false, err
		}
		s.push(value.NewBoolean(!a.Truthy()))

	case bytecode.OpEquals, bytecode.OpNotEquals:
		b, err := s.pop()
		if err != nil {
			return false, err
		}
		a, err := s.pop()
		if err != nil {
			return false, err
		}
		eq := value.Equal(a, b)
		if op == bytecode.OpNotEquals {
			eq = !eq
		}
		s.push(value.NewBoolean(eq))

	case bytecode.OpLess, bytecode.OpLessEq, bytecode.OpGreater, bytecode.OpGreaterEq:
		b, err := s.pop()
		if err != nil {
			return false, err
		}
		a, err := s.pop()
		if err != nil {
			return false, err
		}
		cmp, cmpErr := value.Compare(a, b)
		if cmpErr != nil {
			return false, s.errf(ErrComparison, "%v", cmpErr)
		}
		var res bool
		switch op {
		case bytecode.OpLess:
			res = cmp < 0
		case bytecode.OpLessEq:
			res = cmp <= 0
		case bytecode.OpGreater:
			res = cmp > 0
		case bytecode.OpGreaterEq:
			res = cmp >= 0
		}
		s.push(value.NewBoolean(res))

	case bytecode.OpCast:
		k, err := s.reader.U8()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		a, err := s.pop()
		if err != nil {
			return false, err
		}
		res, castErr := a.Cast(value.Kind(k))
		if castErr != nil {
			return false, s.errf(ErrCast, "%v", castErr)
		}
		s.push(res)

	case bytecode.OpType:
		a, err := s.pop()
		if err != nil {
			return false, err
		}
		s.push(value.NewValType(a.Kind()))

	case bytecode.OpJump:
		addr, err := s.reader.U32()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		s.reader.Jump(addr)

	case bytecode.OpJumpTrue, bytecode.OpJumpFalse:
		addr, err := s.reader.U32()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		a, err := s.pop()
		if err != nil {
			return false, err
		}
		if a.Truthy() == (op == bytecode.OpJumpTrue) {
			s.reader.Jump(addr)
		}

	case bytecode.OpJumpTrueCheck, bytecode.OpJumpFalseCheck:
		addr, err := s.reader.U32()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		a, err := s.peek()
		if err != nil {
			return false, err
		}
		if a.Truthy() == (op == bytecode.OpJumpTrueCheck) {
			s.reader.Jump(addr)
		}

	case bytecode.OpPushVal:
		v, err := s.reader.Value()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		s.push(v)

	case bytecode.OpPushVar:
		id, err := s.reader.RuntimeID()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		idx, ok := s.bindVar(id)
		if !ok {
			return false, s.errf(ErrUnboundVariable, "variable %d is not bound", id)
		}
		if idx >= len(s.stack) {
			return false, s.errf(ErrUnboundVariable, "variable %d slot %d out of range", id, idx)
		}
		s.push(s.stack[idx])

	case bytecode.OpPushProp:
		id, err := s.reader.RuntimeID()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		v, ok := s.rt.properties.get(id)
		if !ok {
			v = value.NewNull()
		}
		s.push(v)

	case bytecode.OpPushTop:
		v, err := s.peek()
		if err != nil {
			return false, err
		}
		s.push(v)

	case bytecode.OpPushVarKey:
		id, err := s.reader.RuntimeID()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		key, err := s.pop()
		if err != nil {
			return false, err
		}
		idx, ok := s.bindVar(id)
		if !ok || idx >= len(s.stack) {
			return false, s.errf(ErrUnboundVariable, "variable %d is not bound", id)
		}
		v, err := s.readKeyed(s.stack[idx], key)
		if err != nil {
			return false, err
		}
		s.push(v)

	case bytecode.OpPushPropKeyVal:
		id, err := s.reader.RuntimeID()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		key, err := s.pop()
		if err != nil {
			return false, err
		}
		cur, ok := s.rt.properties.get(id)
		if !ok {
			cur = value.NewNull()
		}
		v, err := s.readKeyed(cur, key)
		if err != nil {
			return false, err
		}
		s.push(v)

	case bytecode.OpPushColl:
		count, err := s.reader.U32()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		items := make([]value.Variant, count)
		for i := int(count) - 1; i >= 0; i-- {
			v, err := s.pop()
			if err != nil {
				return false, err
			}
			items[i] = v
		}
		result := value.NewCollection()
		for _, item := range items {
			if item.Kind() != value.Collect {
				return false, s.errf(ErrCast, "collection literal entry is not a key/value pair")
			}
			item.CollectionValue().Range(func(k, v value.Variant) bool {
				result.Set(k, v)
				return true
			})
		}
		s.push(value.NewCollectionValue(result))

	case bytecode.OpPushList:
		count, err := s.reader.U32()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		items := make([]value.Variant, count)
		for i := int(count) - 1; i >= 0; i-- {
			v, err := s.pop()
			if err != nil {
				return false, err
			}
			items[i] = v
		}
		result := value.NewCollection()
		for _, item := range items {
			result.Append(item)
		}
		s.push(value.NewCollectionValue(result))

	case bytecode.OpPushKeyVal:
		val, err := s.pop()
		if err != nil {
			return false, err
		}
		key, err := s.pop()
		if err != nil {
			return false, err
		}
		if !key.IsKeyType() {
			return false, s.errf(ErrKeyType, "value of kind %v cannot be used as a key", key.Kind())
		}
		pair := value.NewCollection()
		if err := pair.Set(key, val); err != nil {
			return false, s.errf(ErrKeyType, "%v", err)
		}
		s.push(value.NewCollectionValue(pair))

	case bytecode.OpPushItr:
		// Peeks the collection (does not pop it): the parser immediately
		// spills the pushed Iterator into its own reserved variable slot
		// and pops the collection copy itself (the Iterator already holds
		// its own reference, so nothing further needs it).
		v, err := s.peek()
		if err != nil {
			return false, err
		}
		coll, err := s.collectionOf(v)
		if err != nil {
			return false, err
		}
		s.push(value.NewIterator(value.NewIteratorAtBegin(coll)))

	case bytecode.OpPop:
		if _, err := s.pop(); err != nil {
			return false, err
		}

	case bytecode.OpPopCount:
		n, err := s.reader.U32()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		for i := uint32(0); i < n; i++ {
			if _, err := s.pop(); err != nil {
				return false, err
			}
		}

	case bytecode.OpSetVar:
		id, err := s.reader.RuntimeID()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		v, err := s.pop()
		if err != nil {
			return false, err
		}
		idx, ok := s.bindVar(id)
		if !ok {
			return false, s.errf(ErrUnboundVariable, "variable %d is not bound", id)
		}
		s.stack[idx] = v

	case bytecode.OpSetProp:
		id, err := s.reader.RuntimeID()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		v, err := s.pop()
		if err != nil {
			return false, err
		}
		if s.rt.properties.isReadOnly(id) {
			return false, s.errf(ErrReadonlyProperty, "property %d is read-only", id)
		}
		s.rt.properties.set(id, v)

	case bytecode.OpSetVarKey:
		id, err := s.reader.RuntimeID()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		val, err := s.pop()
		if err != nil {
			return false, err
		}
		key, err := s.pop()
		if err != nil {
			return false, err
		}
		idx, ok := s.bindVar(id)
		if !ok {
			return false, s.errf(ErrUnboundVariable, "variable %d is not bound", id)
		}
		nv, err := s.writeKeyed(s.stack[idx], key, val)
		if err != nil {
			return false, err
		}
		s.stack[idx] = nv

	case bytecode.OpSetPropKeyVal:
		id, err := s.reader.RuntimeID()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		val, err := s.pop()
		if err != nil {
			return false, err
		}
		key, err := s.pop()
		if err != nil {
			return false, err
		}
		if s.rt.properties.isReadOnly(id) {
			return false, s.errf(ErrReadonlyProperty, "property %d is read-only", id)
		}
		cur, _ := s.rt.properties.get(id)
		nv, err := s.writeKeyed(cur, key, val)
		if err != nil {
			return false, err
		}
		s.rt.properties.set(id, nv)

	case bytecode.OpSetIndex:
		id, err := s.reader.RuntimeID()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		index, err := s.reader.I32()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		k, err := s.reader.U8()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		v, err := s.pop()
		if err != nil {
			return false, err
		}
		if value.Kind(k) != value.Any {
			cv, castErr := v.Cast(value.Kind(k))
			if castErr != nil {
				return false, s.errf(ErrCast, "%v", castErr)
			}
			v = cv
		}
		idx := int(index)
		// Grow-or-overwrite rather than assume append-only placement: an
		// `external` declaration may have pre-seeded a lower slot before
		// this Script ever ran a single opcode, so the physical stack
		// position for a given compile-time index is not always
		// len(stack) at the moment its first SetIndex runs.
		for len(s.stack) <= idx {
			s.stack = append(s.stack, value.NewNull())
		}
		s.stack[idx] = v
		s.frame().idMap[id] = idx

	case bytecode.OpEraseVar:
		id, err := s.reader.RuntimeID()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		idx, ok := s.bindVar(id)
		if ok && idx < len(s.stack) {
			s.eraseTarget(s.stack[idx])
			s.stack[idx] = value.NewNull()
		}

	case bytecode.OpEraseProp:
		id, err := s.reader.RuntimeID()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		if v, ok := s.rt.properties.get(id); ok {
			s.eraseTarget(v)
		}
		s.rt.properties.erase(id)

	case bytecode.OpEraseVarElem:
		id, err := s.reader.RuntimeID()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		key, err := s.pop()
		if err != nil {
			return false, err
		}
		idx, ok := s.bindVar(id)
		if !ok || idx >= len(s.stack) {
			return false, s.errf(ErrUnboundVariable, "variable %d is not bound", id)
		}
		if s.stack[idx].Kind() == value.Collect {
			s.stack[idx].CollectionValue().Delete(key)
		}

	case bytecode.OpErasePropElem:
		id, err := s.reader.RuntimeID()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		key, err := s.pop()
		if err != nil {
			return false, err
		}
		if cur, ok := s.rt.properties.get(id); ok && cur.Kind() == value.Collect {
			cur.CollectionValue().Delete(key)
		}

	case bytecode.OpScopeBegin:
		s.frame().pushScope(len(s.stack))

	case bytecode.OpScopeEnd:
		if top := s.frame().popScope(); top >= 0 && top <= len(s.stack) {
			s.stack = s.stack[:top]
		}

	case bytecode.OpFunction:
		sig, err := signature.DecodeSignature(s.reader)
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		// The compiler always emits an unconditional Jump right after the
		// signature, sized exactly to skip the function body (spec
		// §4.4.3); the entry point is therefore the address right past
		// that one instruction. We do not consume the Jump ourselves —
		// falling through lets the normal dispatch execute it next,
		// which skips the body during straight-line (defining) flow.
		entry := s.reader.IP + 1 + 4
		s.localFuncs[uint64(sig.ID)] = &localFuncEntry{
			entryIP: entry,
			arity:   sig.ParamCount,
			returns: sig.Returns,
			sig:     sig,
		}

	case bytecode.OpLibrary:
		name, err := s.reader.String()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		s.library = name

	case bytecode.OpProperty:
		_, err := s.reader.String()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		_, err = s.reader.U8() // visibility
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		ro, err := s.reader.U8()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		id, err := s.reader.U64()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		def, err := s.pop()
		if err != nil {
			return false, err
		}
		s.rt.properties.define(id, def, ro != 0)

	case bytecode.OpCallFunc:
		id, err := s.reader.RuntimeID()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		return false, s.dispatchCall(id)

	case bytecode.OpReturn:
		return s.doReturn()

	case bytecode.OpLoopCount:
		step, err := s.pop()
		if err != nil {
			return false, err
		}
		limit, err := s.pop()
		if err != nil {
			return false, err
		}
		counter, err := s.pop()
		if err != nil {
			return false, err
		}
		stepNum, castErr := step.ToNumber()
		if castErr != nil {
			return false, s.errf(ErrArithmetic, "loop step is not numeric: %v", castErr)
		}
		if stepNum.NumberValue() == 0 {
			return false, s.errf(ErrArithmetic, "loop step must not be zero")
		}
		cmp, cmpErr := value.Compare(counter, limit)
		if cmpErr != nil {
			return false, s.errf(ErrComparison, "%v", cmpErr)
		}
		forward := stepNum.NumberValue() > 0
		cont := (forward && cmp <= 0) || (!forward && cmp >= 0)
		if cont {
			next, addErr := value.Add(counter, step)
			if addErr != nil {
				return false, s.errf(ErrArithmetic, "%v", addErr)
			}
			s.push(next)
			s.push(limit)
			s.push(step)
		}
		s.push(value.NewBoolean(cont))

	case bytecode.OpLoopOver:
		// Pops the iterator (the parser re-pushes it from its own reserved
		// variable slot each iteration via PushVar, so it is never left
		// sitting on the raw operand stack between iterations - see
		// DESIGN.md). On the exit path nothing more is pushed; on the
		// continue path the current element's value is pushed so the
		// parser can bind it to the loop's NAME, or drop it.
		addr, err := s.reader.U32()
		if err != nil {
			return false, s.errf(ErrBytecode, "%v", err)
		}
		top, err := s.pop()
		if err != nil {
			return false, err
		}
		if top.Kind() != value.CollectItr {
			return false, s.errf(ErrInvalidIterator, "loop over: top of stack is not an iterator")
		}
		it := top.IteratorValue()
		if it.AtEnd() {
			s.reader.Jump(addr)
		} else if _, val, ok := it.Current(); ok {
			it.Next()
			s.push(val)
		} else {
			// the element vanished out from under the iterator and it has
			// nothing left to self-heal onto; treat like AtEnd.
			s.reader.Jump(addr)
		}

	case bytecode.OpWait:
		return true, nil

	case bytecode.OpExit:
		s.finished = true
		return false, nil

	default:
		return false, s.errf(ErrBytecode, "unimplemented opcode %v", op)
	}

	return false, nil
}

// readKeyed implements the shared semantics of PushVarKey/PushPropKeyVal:
// indexing into a collection by key is a genuine runtime error (spec §7
// "missing key on indexed collection"), never a silent Null fallback.
func (s *Script) readKeyed(container, key value.Variant) (value.Variant, error) {
	if !key.IsKeyType() {
		return value.Variant{}, s.errf(ErrKeyType, "value of kind %v cannot be used as a key", key.Kind())
	}
	coll, err := s.collectionOf(container)
	if err != nil {
		return value.Variant{}, err
	}
	v, ok := coll.Get(key)
	if !ok {
		return value.Variant{}, s.errf(ErrMissingKey, "no entry for key %v", key.GoString())
	}
	return v, nil
}

// writeKeyed implements the shared semantics of SetVarKey/SetPropKeyVal,
// auto-vivifying a fresh Collection the first time a Null-valued variable
// or property is subscript-assigned.
func (s *Script) writeKeyed(container, key, val value.Variant) (value.Variant, error) {
	if !key.IsKeyType() {
		return value.Variant{}, s.errf(ErrKeyType, "value of kind %v cannot be used as a key", key.Kind())
	}
	var coll *value.Collection
	switch container.Kind() {
	case value.Collect:
		coll = container.CollectionValue()
	case value.Null:
		coll = value.NewCollection()
	default:
		return value.Variant{}, s.errf(ErrCast, "value of kind %v is not a collection", container.Kind())
	}
	if err := coll.Set(key, val); err != nil {
		return value.Variant{}, s.errf(ErrKeyType, "%v", err)
	}
	return value.NewCollectionValue(coll), nil
}

// eraseTarget implements the "erase via iterator target" wording for a
// bare (non-subscripted) `erase x`: if x currently holds an iterator, the
// entry it points at is removed; otherwise the erase degenerates to
// unbinding the variable/property, which the caller does separately.
func (s *Script) eraseTarget(v value.Variant) {
	if v.Kind() == value.CollectItr {
		v.IteratorValue().Erase()
	}
}

// dispatchCall implements spec §4.5's function-call dispatch: a Local
// (script-declared) function runs on this Script's own frame/stack chain;
// anything else is looked up in the Runtime's native function registry.
// Arity is never carried on the CallFunc instruction itself — the callee's
// own signature (already known to both compiler and VM via its RuntimeID)
// is authoritative, so the parameter expressions already pushed their
// values left-to-right before this opcode runs.
func (s *Script) dispatchCall(id uint64) error {
	if fn, ok := s.localFuncs[id]; ok {
		base := len(s.stack) - fn.arity
		if base < 0 {
			return s.errf(ErrStackUnderflow, "call: missing arguments")
		}
		frame := newExecutionFrame(s.reader.IP, base, fn.sig.Canonical())
		s.frames = append(s.frames, frame)
		s.reader.Jump(uint32(fn.entryIP))
		return nil
	}
	if entry := s.rt.functions.Get(id); entry != nil {
		if len(s.stack) < entry.arity {
			return s.errf(ErrStackUnderflow, "call: missing arguments")
		}
		params := make([]value.Variant, entry.arity)
		for i := entry.arity - 1; i >= 0; i-- {
			v, err := s.pop()
			if err != nil {
				return err
			}
			params[i] = v
		}
		ret, err := entry.callback(s, params)
		if err != nil {
			return toScriptError(err, s)
		}
		s.push(ret)
		return nil
	}
	return s.errf(ErrUnknownFunction, "no function registered for id %d", id)
}

// doReturn implements spec §4.5 "Return truncates the operand stack to
// frame.baseStack, pops the frame, then pushes the return value." The
// outermost (root) frame is never popped: the script simply finishes.
func (s *Script) doReturn() (bool, error) {
	ret, err := s.pop()
	if err != nil {
		return false, err
	}
	frame := s.frame()
	if len(s.frames) == 1 {
		if frame.baseStack <= len(s.stack) {
			s.stack = s.stack[:frame.baseStack]
		}
		s.push(ret)
		s.finished = true
		return false, nil
	}
	if frame.baseStack <= len(s.stack) {
		s.stack = s.stack[:frame.baseStack]
	}
	s.reader.Jump(uint32(frame.returnIP))
	s.frames = s.frames[:len(s.frames)-1]
	s.push(ret)
	return frame.waitOnReturn, nil
}

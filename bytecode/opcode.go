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

// Package bytecode defines Jinx's bytecode wire format and opcode set (spec
// §4.4.3, §6 "Bytecode wire format"): a linear stream of 1-byte opcodes plus
// typed little-endian operands, preceded by a JINX header and optionally
// followed by debug line information.
package bytecode

// Op is a single bytecode instruction's opcode.
type Op byte

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpNot
	OpEquals
	OpNotEquals
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpNegate
	OpCast         // operand: ValueType(u8)
	OpIncrement
	OpDecrement
	OpJump         // operand: address(u32)
	OpJumpTrue     // operand: address(u32), pops test
	OpJumpFalse    // operand: address(u32), pops test
	OpJumpTrueCheck  // operand: address(u32), peeks test
	OpJumpFalseCheck // operand: address(u32), peeks test
	OpPushVal      // operand: Variant
	OpPushVar      // operand: RuntimeID
	OpPushProp     // operand: RuntimeID
	OpPushVarKey   // operand: RuntimeID
	OpPushPropKeyVal // operand: RuntimeID
	OpPushTop
	OpPushColl     // operand: count(u32)
	OpPushList     // operand: count(u32)
	OpPushItr
	OpPushKeyVal
	OpPop
	OpPopCount     // operand: count(u32)
	OpCallFunc     // operand: RuntimeID
	OpReturn
	OpSetVar       // operand: RuntimeID
	OpSetProp      // operand: RuntimeID
	OpSetVarKey    // operand: RuntimeID
	OpSetPropKeyVal // operand: RuntimeID
	OpSetIndex     // operands: RuntimeID, stackIndex(i32), ValueType(u8)
	OpEraseVar     // operand: RuntimeID
	OpEraseProp    // operand: RuntimeID
	OpEraseVarElem // operand: RuntimeID
	OpErasePropElem // operand: RuntimeID
	OpScopeBegin
	OpScopeEnd
	OpFunction     // operand: FunctionSignature
	OpLibrary      // operand: name (len-prefixed string)
	OpProperty     // operand: PropertyName + default Variant
	OpLoopCount // pops step,limit,counter; if continuing, pushes next,limit,step then bool "continue?"; if not, pushes only bool "continue?"
	OpLoopOver  // operand: address(u32); pops iterator; on exit jumps to address, on continue pushes the current element's value
	OpType
	OpWait
	OpExit
)

var opNames = map[Op]string{
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod",
	OpAnd: "and", OpOr: "or", OpNot: "not", OpEquals: "eq", OpNotEquals: "neq",
	OpLess: "lt", OpLessEq: "le", OpGreater: "gt", OpGreaterEq: "ge",
	OpNegate: "neg", OpCast: "cast", OpIncrement: "inc", OpDecrement: "dec",
	OpJump: "jmp", OpJumpTrue: "jmp_true", OpJumpFalse: "jmp_false",
	OpJumpTrueCheck: "jmp_true_chk", OpJumpFalseCheck: "jmp_false_chk",
	OpPushVal: "push_val", OpPushVar: "push_var", OpPushProp: "push_prop",
	OpPushVarKey: "push_var_key", OpPushPropKeyVal: "push_prop_key",
	OpPushTop: "push_top", OpPushColl: "push_coll", OpPushList: "push_list",
	OpPushItr: "push_itr", OpPushKeyVal: "push_kv", OpPop: "pop", OpPopCount: "pop_n",
	OpCallFunc: "call", OpReturn: "ret", OpSetVar: "set_var", OpSetProp: "set_prop",
	OpSetVarKey: "set_var_key", OpSetPropKeyVal: "set_prop_key", OpSetIndex: "set_index",
	OpEraseVar: "erase_var", OpEraseProp: "erase_prop", OpEraseVarElem: "erase_var_elem",
	OpErasePropElem: "erase_prop_elem", OpScopeBegin: "scope_begin", OpScopeEnd: "scope_end",
	OpFunction: "function", OpLibrary: "library", OpProperty: "property",
	OpLoopCount: "loop_count", OpLoopOver: "loop_over", OpType: "type",
	OpWait: "wait", OpExit: "exit",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "?"
}

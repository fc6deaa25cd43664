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

// Package value implements Jinx's tagged-variant runtime value model: the
// Variant sum type, the ordered Collection map, Buffer byte arrays, Guid
// identifiers, and the conversion/arithmetic/comparison rules they share.
package value

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind is the discriminant of the Variant sum type (spec: ValueType).
type Kind uint8

const (
	Null Kind = iota
	Number
	Integer
	Boolean
	String
	Collect
	CollectItr
	UserObject
	BufferKind
	GuidKind
	ValType
	Any // parser-only sentinel, never held by a runtime Variant
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Number:
		return "number"
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	case Collect:
		return "collection"
	case CollectItr:
		return "iterator"
	case UserObject:
		return "object"
	case BufferKind:
		return "buffer"
	case GuidKind:
		return "guid"
	case ValType:
		return "type"
	case Any:
		return "any"
	default:
		return "?"
	}
}

// Variant is Jinx's tagged union over the runtime value types (spec §3).
// Exactly one of the payload fields is meaningful at a time, selected by
// kind; unlike the teacher's scm.Scmer (a 16-byte ptr+aux pair relying on
// unsafe pointer packing for a storage engine's per-row hot path) Variant
// is an ordinary tagged struct — scripts are not on that hot path, so the
// clarity of named fields wins over the packing trick (see DESIGN.md).
type Variant struct {
	kind Kind
	num  float64
	i    int64
	b    bool
	str  string
	coll *Collection
	itr  *Iterator
	user *UserHandle
	buf  *Buffer
	guid uuid.UUID
	vt   Kind // meaningful when kind == ValType
}

// UserHandle is an opaque, shared, host-provided object. Identity is the
// pointer; Jinx never inspects its contents.
type UserHandle struct {
	Value any
}

func NewNull() Variant                { return Variant{kind: Null} }
func NewNumber(f float64) Variant     { return Variant{kind: Number, num: f} }
func NewInteger(i int64) Variant      { return Variant{kind: Integer, i: i} }
func NewBoolean(b bool) Variant       { return Variant{kind: Boolean, b: b} }
func NewString(s string) Variant      { return Variant{kind: String, str: s} }
func NewCollectionValue(c *Collection) Variant {
	return Variant{kind: Collect, coll: c}
}
func NewIterator(it *Iterator) Variant  { return Variant{kind: CollectItr, itr: it} }
func NewUserObject(v any) Variant       { return Variant{kind: UserObject, user: &UserHandle{Value: v}} }
func NewBufferValue(b *Buffer) Variant  { return Variant{kind: BufferKind, buf: b} }
func NewGuid(g uuid.UUID) Variant       { return Variant{kind: GuidKind, guid: g} }
func NewValType(k Kind) Variant         { return Variant{kind: ValType, vt: k} }

func (v Variant) Kind() Kind { return v.kind }
func (v Variant) IsNull() bool { return v.kind == Null }

// IsKeyType reports whether v may be used as a Collection key (spec §3:
// "Keys must be of a 'key type': Number, Integer, Boolean, String, Guid").
func (v Variant) IsKeyType() bool {
	switch v.kind {
	case Number, Integer, Boolean, String, GuidKind:
		return true
	default:
		return false
	}
}

// Raw accessors. Callers must check Kind() first; these panic on mismatch
// only in the sense of returning the zero value, mirroring spec's "type tag
// is authoritative" invariant rather than Go-idiomatic ok-returns, since
// VM opcodes already know the expected kind from static bytecode shape.
func (v Variant) NumberValue() float64     { return v.num }
func (v Variant) IntegerValue() int64      { return v.i }
func (v Variant) BooleanValue() bool       { return v.b }
func (v Variant) StringValue() string      { return v.str }
func (v Variant) CollectionValue() *Collection { return v.coll }
func (v Variant) IteratorValue() *Iterator { return v.itr }
func (v Variant) UserValue() any {
	if v.user == nil {
		return nil
	}
	return v.user.Value
}
func (v Variant) BufferValue() *Buffer { return v.buf }
func (v Variant) GuidValue() uuid.UUID { return v.guid }
func (v Variant) ValTypeValue() Kind   { return v.vt }

// Truthy implements implicit boolean use (loop conditions, and/or, if).
func (v Variant) Truthy() bool {
	switch v.kind {
	case Null:
		return false
	case Number:
		return v.num != 0
	case Integer:
		return v.i != 0
	case Boolean:
		return v.b
	case String:
		return v.str != ""
	case Collect:
		return v.coll != nil && v.coll.Len() > 0
	default:
		return true
	}
}

func (v Variant) GoString() string {
	return fmt.Sprintf("Variant{%s}", v.kind)
}

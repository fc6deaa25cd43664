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

package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// CastError is returned when an explicit or implicit conversion is not
// defined by the spec's coercion matrix (spec §4.1).
type CastError struct {
	From, To Kind
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot convert %s to %s", e.From, e.To)
}

// String implements the "to String" column of the conversion matrix.
func (v Variant) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Number:
		return strconv.FormatFloat(v.num, 'f', 6, 64)
	case Integer:
		return strconv.FormatInt(v.i, 10)
	case Boolean:
		if v.b {
			return "true"
		}
		return "false"
	case String:
		return v.str
	case GuidKind:
		return v.guid.String()
	case ValType:
		return v.vt.String()
	case Collect:
		if v.coll == nil {
			return "null"
		}
		var b strings.Builder
		b.WriteByte('[')
		first := true
		v.coll.Range(func(k, val Variant) bool {
			if !first {
				b.WriteByte(',')
			}
			first = false
			b.WriteString(k.String())
			b.WriteByte(':')
			b.WriteString(val.String())
			return true
		})
		b.WriteByte(']')
		return b.String()
	default:
		return ""
	}
}

// ToNumber implements the "to Number" column.
func (v Variant) ToNumber() (Variant, error) {
	switch v.kind {
	case Null:
		return NewNull(), nil
	case Number:
		return v, nil
	case Integer:
		return NewNumber(float64(v.i)), nil
	case Boolean:
		if v.b {
			return NewNumber(1), nil
		}
		return NewNumber(0), nil
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return Variant{}, &CastError{v.kind, Number}
		}
		return NewNumber(f), nil
	default:
		return Variant{}, &CastError{v.kind, Number}
	}
}

// ToInteger implements the "to Integer" column.
func (v Variant) ToInteger() (Variant, error) {
	switch v.kind {
	case Null:
		return NewInteger(0), nil
	case Number:
		return NewInteger(int64(v.num)), nil
	case Integer:
		return v, nil
	case Boolean:
		if v.b {
			return NewInteger(1), nil
		}
		return NewInteger(0), nil
	case String:
		i, err := strconv.ParseInt(strings.TrimSpace(v.str), 10, 64)
		if err != nil {
			return Variant{}, &CastError{v.kind, Integer}
		}
		return NewInteger(i), nil
	default:
		return Variant{}, &CastError{v.kind, Integer}
	}
}

// ToBoolean implements the "to Boolean" column.
func (v Variant) ToBoolean() (Variant, error) {
	switch v.kind {
	case Null:
		return NewBoolean(false), nil
	case Number:
		return NewBoolean(v.num != 0), nil
	case Integer:
		return NewBoolean(v.i != 0), nil
	case Boolean:
		return v, nil
	case String:
		s := strings.TrimSpace(strings.ToLower(v.str))
		switch s {
		case "true":
			return NewBoolean(true), nil
		case "false", "":
			return NewBoolean(false), nil
		default:
			return Variant{}, &CastError{v.kind, Boolean}
		}
	case Collect:
		return NewBoolean(v.Truthy()), nil
	default:
		return Variant{}, &CastError{v.kind, Boolean}
	}
}

// ToGuid implements the "to Guid" column; only String->Guid is defined.
func (v Variant) ToGuid() (Variant, error) {
	switch v.kind {
	case Null:
		return NewNull(), nil
	case GuidKind:
		return v, nil
	case String:
		g, err := uuid.Parse(v.str)
		if err != nil {
			return Variant{}, &CastError{v.kind, GuidKind}
		}
		return NewGuid(g), nil
	default:
		return Variant{}, &CastError{v.kind, GuidKind}
	}
}

// ToValType implements the "to ValType" column; only String->ValType is
// defined, by matching the Kind's canonical name.
func (v Variant) ToValType() (Variant, error) {
	switch v.kind {
	case Null:
		return NewNull(), nil
	case ValType:
		return v, nil
	case String:
		for k := Null; k <= ValType; k++ {
			if k.String() == v.str {
				return NewValType(k), nil
			}
		}
		return Variant{}, &CastError{v.kind, ValType}
	default:
		return Variant{}, &CastError{v.kind, ValType}
	}
}

// ToCollection implements the "to Collection" column. Only String->Collection
// (table parsing, spec §4.1a) is defined beyond the identity case; it is
// implemented in table.go to keep the delimiter-sniffing/quoting logic out
// of this file.
func (v Variant) ToCollection(parse func(string) (*Collection, error)) (Variant, error) {
	switch v.kind {
	case Null:
		return NewNull(), nil
	case Collect:
		return v, nil
	case String:
		c, err := parse(v.str)
		if err != nil {
			return Variant{}, err
		}
		return NewCollectionValue(c), nil
	default:
		return Variant{}, &CastError{v.kind, Collect}
	}
}

// Cast performs the conversion named by the Cast opcode / "as" expression.
func (v Variant) Cast(to Kind) (Variant, error) {
	if to == Any {
		return v, nil
	}
	switch to {
	case Null:
		return NewNull(), nil
	case Number:
		return v.ToNumber()
	case Integer:
		return v.ToInteger()
	case Boolean:
		return v.ToBoolean()
	case String:
		return NewString(v.String()), nil
	case GuidKind:
		return v.ToGuid()
	case ValType:
		return v.ToValType()
	case Collect:
		return v.ToCollection(parseTableDefault)
	default:
		return Variant{}, &CastError{v.kind, to}
	}
}

var parseTableDefault = ParseTable

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
	"unsafe"
)

// ComparisonError is returned by Less/Compare when the operands are not of
// a comparable type or not of the same family (spec §4.1 "Comparison").
type ComparisonError struct {
	A, B Kind
}

func (e *ComparisonError) Error() string {
	return fmt.Sprintf("cannot compare %s with %s", e.A, e.B)
}

func isNumeric(k Kind) bool { return k == Number || k == Integer }

// Equal implements "=" / "!=": never errors; mismatched types compare
// unequal except Integer<->Number, which compare numerically (spec §4.1).
func Equal(a, b Variant) bool {
	if a.kind == b.kind {
		switch a.kind {
		case Null:
			return true
		case Number:
			return a.num == b.num
		case Integer:
			return a.i == b.i
		case Boolean:
			return a.b == b.b
		case String:
			return a.str == b.str
		case GuidKind:
			return a.guid == b.guid
		case ValType:
			return a.vt == b.vt
		case Collect:
			return a.coll == b.coll
		case CollectItr:
			return a.itr == b.itr
		case UserObject:
			return a.user == b.user
		case BufferKind:
			return a.buf == b.buf
		}
		return false
	}
	if isNumeric(a.kind) && isNumeric(b.kind) {
		return numericValue(a) == numericValue(b)
	}
	return false
}

func numericValue(v Variant) float64 {
	if v.kind == Integer {
		return float64(v.i)
	}
	return v.num
}

// comparableFamily reports whether a and b may be ordered per spec §4.1: "both
// operands of a comparable type (Number, Integer, Boolean, String, Guid,
// UserObject) and same family (Numeric, Numeric) or equal types".
func comparableFamily(a, b Kind) bool {
	switch a {
	case Number, Integer:
		return b == Number || b == Integer
	case Boolean, String, GuidKind, UserObject:
		return a == b
	default:
		return false
	}
}

// Compare returns -1/0/1 for a<b, a==b, a>b. It errors under the same rule
// as comparableFamily. Used both by the `<,<=,>,>=` operators and by Collection's
// key ordering, where every key type must remain totally ordered.
func Compare(a, b Variant) (int, error) {
	if !comparableFamily(a.kind, b.kind) {
		return 0, &ComparisonError{a.kind, b.kind}
	}
	switch a.kind {
	case Number, Integer:
		av, bv := numericValue(a), numericValue(b)
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	case Boolean:
		if a.b == b.b {
			return 0, nil
		}
		if !a.b {
			return -1, nil
		}
		return 1, nil
	case String:
		switch {
		case a.str < b.str:
			return -1, nil
		case a.str > b.str:
			return 1, nil
		default:
			return 0, nil
		}
	case GuidKind:
		return compareBytes(a.guid[:], b.guid[:]), nil
	case UserObject:
		return comparePointers(a.user, b.user), nil
	default:
		return 0, &ComparisonError{a.kind, b.kind}
	}
}

func compareBytes(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// comparePointers orders UserObjects by pointer identity. The order is
// arbitrary but stable for the lifetime of the process, which is all
// Collection keying and `<` on UserObject require.
func comparePointers(a, b *UserHandle) int {
	pa, pb := uintptr(unsafe.Pointer(a)), uintptr(unsafe.Pointer(b))
	switch {
	case pa == pb:
		return 0
	case pa < pb:
		return -1
	default:
		return 1
	}
}

// LessForKeys is the total order used for Collection key ordering (spec §3:
// "iteration order = key order (sorted by Variant <)"). Collection keys are
// restricted to key types (IsKeyType), which are all either numeric,
// comparable-by-value, or by identity, so Compare never errors here; Kind
// is used as a tiebreak across different key kinds so the order is total,
// satisfying google/btree's BTreeG Less-function contract.
func LessForKeys(a, b Variant) bool {
	if isNumeric(a.kind) && isNumeric(b.kind) {
		return numericValue(a) < numericValue(b)
	}
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	c, err := Compare(a, b)
	if err != nil {
		return false
	}
	return c < 0
}

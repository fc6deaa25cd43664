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
	"errors"
	"fmt"
	"math"
)

// ArithmeticError wraps a non-numeric-operand failure (spec §4.1 "both
// operands must be numeric, else error").
type ArithmeticError struct {
	Op   string
	Kind Kind
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("%s requires a numeric operand, got %s", e.Op, e.Kind)
}

// ErrDivideByZero is returned by Div/Mod when the divisor is zero.
var ErrDivideByZero = errors.New("divide by zero")

// Add implements the `+` operator, including the String-concatenation
// precedence rule: "+ on String stringifies RHS and concatenates."
func Add(a, b Variant) (Variant, error) {
	if a.kind == String {
		return NewString(a.str + b.String()), nil
	}
	if a.kind == Integer && b.kind == Integer {
		return NewInteger(a.i + b.i), nil
	}
	af, bf, err := bothNumeric("+", a, b)
	if err != nil {
		return Variant{}, err
	}
	return NewNumber(af + bf), nil
}

func Sub(a, b Variant) (Variant, error) {
	if a.kind == Integer && b.kind == Integer {
		return NewInteger(a.i - b.i), nil
	}
	af, bf, err := bothNumeric("-", a, b)
	if err != nil {
		return Variant{}, err
	}
	return NewNumber(af - bf), nil
}

func Mul(a, b Variant) (Variant, error) {
	if a.kind == Integer && b.kind == Integer {
		return NewInteger(a.i * b.i), nil
	}
	af, bf, err := bothNumeric("*", a, b)
	if err != nil {
		return Variant{}, err
	}
	return NewNumber(af * bf), nil
}

// Div implements "/": Integer/Integer is Integer iff it divides exactly,
// else Number. Errors on divide-by-zero (spec §4.1, §8 "Integer/Number
// exactness").
func Div(a, b Variant) (Variant, error) {
	if a.kind == Integer && b.kind == Integer {
		if b.i == 0 {
			return Variant{}, ErrDivideByZero
		}
		if a.i%b.i == 0 {
			return NewInteger(a.i / b.i), nil
		}
		return NewNumber(float64(a.i) / float64(b.i)), nil
	}
	af, bf, err := bothNumeric("/", a, b)
	if err != nil {
		return Variant{}, err
	}
	if bf == 0 {
		return Variant{}, ErrDivideByZero
	}
	return NewNumber(af / bf), nil
}

// Mod implements "%" with Euclidean semantics: the result has the sign of
// the divisor (spec §4.1, §8 "Mod sign").
func Mod(a, b Variant) (Variant, error) {
	if a.kind == Integer && b.kind == Integer {
		if b.i == 0 {
			return Variant{}, ErrDivideByZero
		}
		m := a.i % b.i
		if (m < 0 && b.i > 0) || (m > 0 && b.i < 0) {
			m += b.i
		}
		return NewInteger(m), nil
	}
	af, bf, err := bothNumeric("%", a, b)
	if err != nil {
		return Variant{}, err
	}
	if bf == 0 {
		return Variant{}, ErrDivideByZero
	}
	return NewNumber(math.Mod(math.Mod(af, bf)+bf, bf)), nil
}

func Negate(a Variant) (Variant, error) {
	switch a.kind {
	case Integer:
		return NewInteger(-a.i), nil
	case Number:
		return NewNumber(-a.num), nil
	default:
		return Variant{}, &ArithmeticError{"negate", a.kind}
	}
}

func bothNumeric(op string, a, b Variant) (float64, float64, error) {
	if !isNumeric(a.kind) {
		return 0, 0, &ArithmeticError{op, a.kind}
	}
	if !isNumeric(b.kind) {
		return 0, 0, &ArithmeticError{op, b.kind}
	}
	return numericValue(a), numericValue(b), nil
}

// Increment/Decrement implement the `{delta,value}->value±delta` opcode
// pair that backs the `increment`/`decrement` statement (spec §4.4.3).
func Increment(value, delta Variant) (Variant, error) { return Add(value, delta) }
func Decrement(value, delta Variant) (Variant, error) { return Sub(value, delta) }

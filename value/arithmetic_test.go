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

import "testing"

func TestDivIntegerExactness(t *testing.T) {
	cases := []struct {
		a, b     int64
		wantKind Kind
	}{
		{10, 2, Integer},
		{9, 3, Integer},
		{7, 2, Number},
		{-9, 3, Integer},
		{-7, 2, Number},
	}
	for _, c := range cases {
		got, err := Div(NewInteger(c.a), NewInteger(c.b))
		if err != nil {
			t.Fatalf("Div(%d,%d): %v", c.a, c.b, err)
		}
		if got.Kind() != c.wantKind {
			t.Fatalf("Div(%d,%d) kind = %s, want %s", c.a, c.b, got.Kind(), c.wantKind)
		}
	}
}

func TestDivNumberForcesNumberEvenWhenExact(t *testing.T) {
	got, err := Div(NewNumber(10), NewInteger(2))
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind() != Number {
		t.Fatalf("Number/Integer = %s, want Number", got.Kind())
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := Div(NewInteger(1), NewInteger(0)); err != ErrDivideByZero {
		t.Fatalf("Div by zero integer: %v", err)
	}
	if _, err := Div(NewNumber(1), NewNumber(0)); err != ErrDivideByZero {
		t.Fatalf("Div by zero number: %v", err)
	}
}

func TestModSignFollowsDivisor(t *testing.T) {
	cases := []struct {
		a, b, want int64
	}{
		{7, 3, 1},
		{-7, 3, 2},
		{7, -3, -2},
		{-7, -3, -1},
	}
	for _, c := range cases {
		got, err := Mod(NewInteger(c.a), NewInteger(c.b))
		if err != nil {
			t.Fatalf("Mod(%d,%d): %v", c.a, c.b, err)
		}
		if got.IntegerValue() != c.want {
			t.Fatalf("Mod(%d,%d) = %d, want %d", c.a, c.b, got.IntegerValue(), c.want)
		}
	}
}

func TestModSignFollowsDivisorFloat(t *testing.T) {
	got, err := Mod(NewNumber(7), NewNumber(-3))
	if err != nil {
		t.Fatal(err)
	}
	if got.NumberValue() > 0 {
		t.Fatalf("Mod(7,-3) = %v, want <= 0", got.NumberValue())
	}
}

func TestAddStringConcatenatesCoercedRHS(t *testing.T) {
	got, err := Add(NewString("x="), NewInteger(5))
	if err != nil {
		t.Fatal(err)
	}
	if got.StringValue() != "x=5" {
		t.Fatalf("Add string+integer = %q, want %q", got.StringValue(), "x=5")
	}
}

func TestArithmeticOnNonNumericErrors(t *testing.T) {
	if _, err := Add(NewBoolean(true), NewInteger(1)); err == nil {
		t.Fatal("expected error adding non-string, non-numeric operand")
	}
}

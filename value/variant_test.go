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

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Variant
		want bool
	}{
		{NewNull(), false},
		{NewNumber(0), false},
		{NewNumber(1), true},
		{NewInteger(0), false},
		{NewInteger(-1), true},
		{NewBoolean(false), false},
		{NewBoolean(true), true},
		{NewString(""), false},
		{NewString("x"), true},
		{NewCollectionValue(NewCollection()), false},
	}
	c := NewCollection()
	c.Append(NewInteger(1))
	cases = append(cases, struct {
		v    Variant
		want bool
	}{NewCollectionValue(c), true})

	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Fatalf("%#v.Truthy() = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestIsKeyType(t *testing.T) {
	keyTypes := []Variant{NewNumber(1), NewInteger(1), NewBoolean(true), NewString("a")}
	for _, v := range keyTypes {
		if !v.IsKeyType() {
			t.Fatalf("%s should be a key type", v.Kind())
		}
	}
	nonKeyTypes := []Variant{NewNull(), NewCollectionValue(NewCollection())}
	for _, v := range nonKeyTypes {
		if v.IsKeyType() {
			t.Fatalf("%s should not be a key type", v.Kind())
		}
	}
}

func TestCastToAnyIsIdentity(t *testing.T) {
	in := NewInteger(7)
	out, err := in.Cast(Any)
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind() != Integer || out.IntegerValue() != 7 {
		t.Fatalf("Cast(Any) changed the value: %#v", out)
	}
}

func TestCastStringToIntegerAndBack(t *testing.T) {
	v, err := NewString("42").Cast(Integer)
	if err != nil {
		t.Fatal(err)
	}
	if v.IntegerValue() != 42 {
		t.Fatalf("Cast(\"42\", Integer) = %d, want 42", v.IntegerValue())
	}
	s, err := v.Cast(String)
	if err != nil {
		t.Fatal(err)
	}
	if s.StringValue() != "42" {
		t.Fatalf("Cast back to String = %q, want %q", s.StringValue(), "42")
	}
}

func TestCastInvalidStringToIntegerErrors(t *testing.T) {
	if _, err := NewString("not a number").Cast(Integer); err == nil {
		t.Fatal("expected CastError for non-numeric string to Integer")
	}
}

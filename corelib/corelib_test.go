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

package corelib

import (
	"bytes"
	"testing"

	"github.com/launix-de/jinx/jinx"
	"github.com/launix-de/jinx/value"
)

func TestFnSizeOnCollectionStringBuffer(t *testing.T) {
	coll := value.NewCollection()
	coll.Append(value.NewInteger(1))
	coll.Append(value.NewInteger(2))

	cases := []struct {
		name string
		v    value.Variant
		want int64
	}{
		{"collection", value.NewCollectionValue(coll), 2},
		{"string", value.NewString("hello"), 5},
		{"buffer", value.NewBufferValue(value.NewBuffer([]byte{1, 2, 3})), 3},
	}
	for _, c := range cases {
		got, err := fnSize(nil, []value.Variant{c.v})
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if got.IntegerValue() != c.want {
			t.Fatalf("%s: size = %d, want %d", c.name, got.IntegerValue(), c.want)
		}
	}
}

func TestFnSizeRejectsScalar(t *testing.T) {
	if _, err := fnSize(nil, []value.Variant{value.NewInteger(1)}); err == nil {
		t.Fatal("expected error sizing an Integer")
	}
}

func TestFnEmpty(t *testing.T) {
	empty, err := fnEmpty(nil, []value.Variant{value.NewString("")})
	if err != nil {
		t.Fatal(err)
	}
	if !empty.Truthy() {
		t.Fatal("empty string should be empty")
	}
	nonEmpty, err := fnEmpty(nil, []value.Variant{value.NewString("x")})
	if err != nil {
		t.Fatal(err)
	}
	if nonEmpty.Truthy() {
		t.Fatal("non-empty string should not be empty")
	}
}

func TestFnAddToAppendsScalar(t *testing.T) {
	coll := value.NewCollection()
	target := value.NewCollectionValue(coll)
	if _, err := fnAddTo(nil, []value.Variant{value.NewString("x"), target}); err != nil {
		t.Fatal(err)
	}
	if coll.Len() != 1 {
		t.Fatalf("coll.Len() = %d, want 1", coll.Len())
	}
}

func TestFnAddToMergesCollectionWithKeyCollisionAutoIncrements(t *testing.T) {
	target := value.NewCollection()
	must(t, target.Set(value.NewInteger(1), value.NewString("orig")))

	incoming := value.NewCollection()
	must(t, incoming.Set(value.NewInteger(1), value.NewString("collides")))

	if _, err := fnAddTo(nil, []value.Variant{value.NewCollectionValue(incoming), value.NewCollectionValue(target)}); err != nil {
		t.Fatal(err)
	}
	if target.Len() != 2 {
		t.Fatalf("target.Len() = %d, want 2 (original key kept, collision auto-incremented)", target.Len())
	}
	orig, ok := target.Get(value.NewInteger(1))
	if !ok || orig.StringValue() != "orig" {
		t.Fatalf("key 1 should still be %q, got %v ok=%v", "orig", orig, ok)
	}
}

func TestFnRemoveFromByKey(t *testing.T) {
	target := value.NewCollection()
	must(t, target.Set(value.NewInteger(1), value.NewString("a")))
	must(t, target.Set(value.NewInteger(2), value.NewString("b")))

	if _, err := fnRemoveFrom(nil, []value.Variant{value.NewInteger(1), value.NewCollectionValue(target)}); err != nil {
		t.Fatal(err)
	}
	if _, ok := target.Get(value.NewInteger(1)); ok {
		t.Fatal("key 1 should have been removed")
	}
	if _, ok := target.Get(value.NewInteger(2)); !ok {
		t.Fatal("key 2 should still be present")
	}
}

func TestFnRemoveValueFromByValueMatch(t *testing.T) {
	target := value.NewCollection()
	must(t, target.Set(value.NewInteger(1), value.NewString("drop")))
	must(t, target.Set(value.NewInteger(2), value.NewString("keep")))

	if _, err := fnRemoveValueFrom(nil, []value.Variant{value.NewString("drop"), value.NewCollectionValue(target)}); err != nil {
		t.Fatal(err)
	}
	if _, ok := target.Get(value.NewInteger(1)); ok {
		t.Fatal("entry matching the removed value should be gone")
	}
	if _, ok := target.Get(value.NewInteger(2)); !ok {
		t.Fatal("non-matching entry should remain")
	}
}

func TestFnWriteCoercesAndAppendsNewline(t *testing.T) {
	var buf bytes.Buffer
	origOutput := Output
	Output = &buf
	defer func() { Output = origOutput }()

	if _, err := fnWrite(false)(nil, []value.Variant{value.NewInteger(42)}); err != nil {
		t.Fatal(err)
	}
	if _, err := fnWrite(true)(nil, []value.Variant{value.NewString("!")}); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "42!\n"; got != want {
		t.Fatalf("write output = %q, want %q", got, want)
	}
}

func TestFnWriteFlattensCollection(t *testing.T) {
	var buf bytes.Buffer
	origOutput := Output
	Output = &buf
	defer func() { Output = origOutput }()

	coll := value.NewCollection()
	coll.Append(value.NewString("a"))
	coll.Append(value.NewString("b"))
	if _, err := fnWrite(false)(nil, []value.Variant{value.NewCollectionValue(coll)}); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "ab"; got != want {
		t.Fatalf("write of collection = %q, want %q", got, want)
	}
}

func TestFnGetSetVariableRoundTripsThroughExternal(t *testing.T) {
	rt := jinx.NewRuntime(jinx.GlobalParams{})
	Register(rt)

	script, errs := rt.ExecuteScript([]byte("external counter\n"), nil, "test", []string{"core"})
	if errs != nil {
		t.Fatalf("compile errors: %v", errs)
	}

	got, err := fnGetVariable(script, []value.Variant{value.NewString("counter")})
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind() != value.Null {
		t.Fatalf("uninitialized external should read as Null, got %v", got)
	}

	if _, err := fnSetVariable(script, []value.Variant{value.NewString("counter"), value.NewInteger(5)}); err != nil {
		t.Fatal(err)
	}
	got, err = fnGetVariable(script, []value.Variant{value.NewString("counter")})
	if err != nil {
		t.Fatal(err)
	}
	if got.IntegerValue() != 5 {
		t.Fatalf("counter after set_variable = %v, want 5", got)
	}
}

func TestFnGetVariableUnknownNameErrors(t *testing.T) {
	rt := jinx.NewRuntime(jinx.GlobalParams{})
	Register(rt)
	script, errs := rt.ExecuteScript([]byte("external counter\n"), nil, "test", []string{"core"})
	if errs != nil {
		t.Fatalf("compile errors: %v", errs)
	}
	if _, err := fnGetVariable(script, []value.Variant{value.NewString("nope")}); err == nil {
		t.Fatal("expected error for unknown variable name")
	}
}

func TestFnCallStackReportsRootBeforeExecution(t *testing.T) {
	rt := jinx.NewRuntime(jinx.GlobalParams{})
	Register(rt)
	script, errs := rt.ExecuteScript([]byte("set a to 1\n"), nil, "test", nil)
	if errs != nil {
		t.Fatalf("compile errors: %v", errs)
	}
	got, err := fnCallStack(script, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.CollectionValue().Len() != 1 {
		t.Fatalf("call stack depth before execution = %d, want 1 (root)", got.CollectionValue().Len())
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

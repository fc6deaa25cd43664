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
	"bytes"
	"testing"

	"github.com/google/uuid"
)

func TestVariantRoundTripScalarKinds(t *testing.T) {
	cases := []Variant{
		NewNull(),
		NewNumber(3.5),
		NewNumber(-0.25),
		NewInteger(-42),
		NewBoolean(true),
		NewBoolean(false),
		NewString(""),
		NewString("hello, world"),
		NewGuid(uuid.New()),
		NewValType(Integer),
	}
	for i, in := range cases {
		var buf bytes.Buffer
		if err := in.Marshal(&buf); err != nil {
			t.Fatalf("case %d marshal: %v", i, err)
		}
		out, err := Unmarshal(&buf)
		if err != nil {
			t.Fatalf("case %d unmarshal: %v", i, err)
		}
		if !Equal(in, out) {
			t.Fatalf("case %d roundtrip mismatch: in=%#v out=%#v", i, in, out)
		}
	}
}

func TestVariantRoundTripBuffer(t *testing.T) {
	in := NewBufferValue(NewBuffer([]byte("some bytes")))
	var buf bytes.Buffer
	if err := in.Marshal(&buf); err != nil {
		t.Fatal(err)
	}
	out, err := Unmarshal(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind() != BufferKind {
		t.Fatalf("roundtrip kind = %s, want buffer", out.Kind())
	}
	if !bytes.Equal(out.BufferValue().Bytes(), []byte("some bytes")) {
		t.Fatalf("roundtrip bytes = %q, want %q", out.BufferValue().Bytes(), "some bytes")
	}
}

// Collection/CollectionItr/UserObject intentionally round-trip as an empty
// value of the same kind rather than preserving contents (spec §3
// "Collection/CollectionItr/UserObject do not persist contents (tag only)").
func TestVariantRoundTripCollectionIsTagOnly(t *testing.T) {
	c := NewCollection()
	must(t, c.Set(NewInteger(1), NewString("a")))
	in := NewCollectionValue(c)

	var buf bytes.Buffer
	if err := in.Marshal(&buf); err != nil {
		t.Fatal(err)
	}
	out, err := Unmarshal(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind() != Collect {
		t.Fatalf("roundtrip kind = %s, want collection", out.Kind())
	}
	if out.CollectionValue().Len() != 0 {
		t.Fatalf("roundtrip collection should be empty (tag only), got len %d", out.CollectionValue().Len())
	}
}

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

package signature

import (
	"testing"

	"github.com/launix-de/jinx/value"
)

func TestParseStringNameAndParamParts(t *testing.T) {
	parts, err := ParseString("add {} to {}")
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 4 {
		t.Fatalf("len(parts) = %d, want 4", len(parts))
	}
	if parts[0].Kind != ParamPart || parts[0].Typed {
		t.Fatalf("parts[0] = %+v, want untyped ParamPart", parts[0])
	}
	if parts[1].Kind != NamePart || !parts[1].MatchesName("to") {
		t.Fatalf("parts[1] = %+v, want NamePart matching %q", parts[1], "to")
	}
}

func TestParseStringTypedParam(t *testing.T) {
	parts, err := ParseString("{integer} items")
	if err != nil {
		t.Fatal(err)
	}
	if !parts[0].Typed || parts[0].Type != value.Integer {
		t.Fatalf("parts[0] = %+v, want Typed Integer", parts[0])
	}
}

func TestParseStringOptionalNamePart(t *testing.T) {
	parts, err := ParseString("{} (get) size")
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 3 {
		t.Fatalf("len(parts) = %d, want 3", len(parts))
	}
	if !parts[1].Optional || !parts[1].MatchesName("get") {
		t.Fatalf("parts[1] = %+v, want optional NamePart matching %q", parts[1], "get")
	}
}

func TestParseStringAlternateNames(t *testing.T) {
	parts, err := ParseString("remove value/values {} from {}")
	if err != nil {
		t.Fatal(err)
	}
	if len(parts[0].Names) != 1 {
		t.Fatalf("parts[0].Names = %v, want len 1", parts[0].Names)
	}
	if len(parts[1].Names) != 2 {
		t.Fatalf("parts[1].Names = %v, want 2 alternates", parts[1].Names)
	}
	if !parts[1].MatchesName("value") || !parts[1].MatchesName("values") {
		t.Fatalf("parts[1] = %+v, want to match both value and values", parts[1])
	}
}

func TestParseStringUnknownTypeErrors(t *testing.T) {
	if _, err := ParseString("{bogus}"); err == nil {
		t.Fatal("expected error for unknown parameter type")
	}
}

func TestParseStringEmptyErrors(t *testing.T) {
	if _, err := ParseString(""); err == nil {
		t.Fatal("expected error for empty signature string")
	}
}

func TestParseStringFoldsNameParts(t *testing.T) {
	parts, err := ParseString("WRITE")
	if err != nil {
		t.Fatal(err)
	}
	if !parts[0].MatchesName("write") {
		t.Fatalf("parts[0] = %+v, want folded match against %q", parts[0], "write")
	}
}

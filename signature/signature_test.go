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

import "testing"

func TestHashLibraryIDIsDeterministic(t *testing.T) {
	a := HashLibraryID("core add {} to {}")
	b := HashLibraryID("core add {} to {}")
	if a != b {
		t.Fatalf("HashLibraryID not deterministic: %d != %d", a, b)
	}
}

func TestHashLibraryIDDiffersByCanonical(t *testing.T) {
	a := HashLibraryID("core add {} to {}")
	b := HashLibraryID("core remove {} from {}")
	if a == b {
		t.Fatal("distinct canonical strings hashed to the same RuntimeID")
	}
}

func TestNewLocalIDVariesAcrossCalls(t *testing.T) {
	seen := make(map[RuntimeID]bool)
	for i := 0; i < 8; i++ {
		seen[NewLocalID()] = true
	}
	if len(seen) < 2 {
		t.Fatal("NewLocalID returned the same value across 8 calls")
	}
}

func TestSignatureCanonicalRendersLibraryAndParts(t *testing.T) {
	s := &Signature{
		Library: "core",
		Parts: []Part{
			{Kind: NamePart, Names: []string{"add"}},
			{Kind: ParamPart},
			{Kind: NamePart, Names: []string{"to"}},
			{Kind: ParamPart, Typed: true},
		},
	}
	// Typed part with zero-value Kind still renders via Kind.String(); what
	// matters here is the shape, not the exact type name.
	got := s.Canonical()
	want := "core add {} to {" + s.Parts[3].Type.String() + "}"
	if got != want {
		t.Fatalf("Canonical() = %q, want %q", got, want)
	}
}

func TestSignatureCanonicalOmitsEmptyLibrary(t *testing.T) {
	s := &Signature{Parts: []Part{{Kind: NamePart, Names: []string{"finished"}}}}
	if got, want := s.Canonical(), "finished"; got != want {
		t.Fatalf("Canonical() = %q, want %q", got, want)
	}
}

func TestHasNonKeywordName(t *testing.T) {
	isKeyword := func(s string) bool { return s == "to" || s == "if" }
	withOnlyKeywords := &Signature{Parts: []Part{{Kind: NamePart, Names: []string{"to"}}}}
	if withOnlyKeywords.HasNonKeywordName(isKeyword) {
		t.Fatal("signature made only of keyword name parts should not have a non-keyword name")
	}
	withCustomName := &Signature{Parts: []Part{
		{Kind: NamePart, Names: []string{"to"}},
		{Kind: NamePart, Names: []string{"counter"}},
	}}
	if !withCustomName.HasNonKeywordName(isKeyword) {
		t.Fatal("signature with a non-keyword name part should report true")
	}
}

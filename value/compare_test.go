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

func TestEqualMixedNumericKinds(t *testing.T) {
	if !Equal(NewInteger(3), NewNumber(3)) {
		t.Fatal("Integer(3) should equal Number(3)")
	}
	if Equal(NewInteger(3), NewString("3")) {
		t.Fatal("Integer(3) should not equal String(\"3\")")
	}
	if !Equal(NewNull(), NewNull()) {
		t.Fatal("Null should equal Null")
	}
}

func TestCompareRejectsMismatchedFamilies(t *testing.T) {
	if _, err := Compare(NewString("a"), NewInteger(1)); err == nil {
		t.Fatal("expected ComparisonError for String vs Integer")
	}
	if _, err := Compare(NewBoolean(true), NewBoolean(false)); err != nil {
		t.Fatalf("Boolean vs Boolean should compare: %v", err)
	}
}

func TestCompareNumericOrdering(t *testing.T) {
	c, err := Compare(NewInteger(2), NewNumber(3.5))
	if err != nil {
		t.Fatal(err)
	}
	if c != -1 {
		t.Fatalf("Compare(2, 3.5) = %d, want -1", c)
	}
}

func TestLessForKeysTotalOrderAcrossKinds(t *testing.T) {
	// Different non-numeric kinds must still produce a deterministic total
	// order (tie-broken by Kind) so Collection's btree never panics on an
	// unordered pair of key-typed Variants.
	a := NewString("x")
	b := NewBoolean(true)
	lt := LessForKeys(a, b)
	gt := LessForKeys(b, a)
	if lt == gt {
		t.Fatalf("LessForKeys must be antisymmetric across kinds: a<b=%v b<a=%v", lt, gt)
	}
}

func TestLessForKeysNumericCrossesKind(t *testing.T) {
	if !LessForKeys(NewInteger(1), NewNumber(2)) {
		t.Fatal("Integer(1) should sort before Number(2)")
	}
}

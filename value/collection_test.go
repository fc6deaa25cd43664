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

func TestCollectionIterationOrderIsKeyOrder(t *testing.T) {
	c := NewCollection()
	must(t, c.Set(NewInteger(3), NewString("three")))
	must(t, c.Set(NewInteger(1), NewString("one")))
	must(t, c.Set(NewInteger(2), NewString("two")))

	var keys []int64
	c.Range(func(k, _ Variant) bool {
		keys = append(keys, k.IntegerValue())
		return true
	})
	want := []int64{1, 2, 3}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("Range order = %v, want %v", keys, want)
		}
	}
}

func TestCollectionAppendAutoIncrements(t *testing.T) {
	c := NewCollection()
	k1 := c.Append(NewString("a"))
	k2 := c.Append(NewString("b"))
	if k1.IntegerValue() != 1 || k2.IntegerValue() != 2 {
		t.Fatalf("Append keys = %d, %d, want 1, 2", k1.IntegerValue(), k2.IntegerValue())
	}
}

func TestCollectionSetRejectsNonKeyType(t *testing.T) {
	c := NewCollection()
	if err := c.Set(NewCollectionValue(NewCollection()), NewInteger(1)); err != ErrKeyType {
		t.Fatalf("Set with Collection key: err = %v, want ErrKeyType", err)
	}
}

func TestCollectionSetAdvancesAutoIncrementCursor(t *testing.T) {
	c := NewCollection()
	must(t, c.Set(NewInteger(5), NewString("five")))
	k := c.Append(NewString("next"))
	if k.IntegerValue() != 6 {
		t.Fatalf("Append after Set(5,...) = %d, want 6", k.IntegerValue())
	}
}

func TestCollectionDeleteAndGet(t *testing.T) {
	c := NewCollection()
	must(t, c.Set(NewInteger(1), NewString("x")))
	if !c.Delete(NewInteger(1)) {
		t.Fatal("Delete of present key returned false")
	}
	if _, ok := c.Get(NewInteger(1)); ok {
		t.Fatal("Get after Delete still found the key")
	}
	if c.Delete(NewInteger(1)) {
		t.Fatal("Delete of absent key returned true")
	}
}

func TestCollectionCloneIsIndependent(t *testing.T) {
	c := NewCollection()
	must(t, c.Set(NewInteger(1), NewString("orig")))
	clone := c.Clone()
	must(t, clone.Set(NewInteger(1), NewString("changed")))
	v, _ := c.Get(NewInteger(1))
	if v.StringValue() != "orig" {
		t.Fatalf("mutating clone affected original: %q", v.StringValue())
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestIteratorAdvancesPastErasedEntry(t *testing.T) {
	c := NewCollection()
	must(t, c.Set(NewInteger(1), NewString("a")))
	must(t, c.Set(NewInteger(2), NewString("b")))
	must(t, c.Set(NewInteger(3), NewString("c")))

	it := NewIteratorAtBegin(c)
	k, _, ok := it.Current()
	if !ok || k.IntegerValue() != 1 {
		t.Fatalf("first key = %v, ok=%v, want 1", k, ok)
	}
	// Erase key 2 through the Collection directly, bypassing the iterator.
	c.Delete(NewInteger(2))
	it.Next()
	k, _, ok = it.Current()
	if !ok || k.IntegerValue() != 3 {
		t.Fatalf("after external erase, iterator landed on %v, want 3", k)
	}
}

func TestIteratorEraseAtEndIsNoOp(t *testing.T) {
	c := NewCollection()
	it := NewIteratorAtBegin(c) // empty collection: starts at end
	if !it.AtEnd() {
		t.Fatal("iterator over empty collection should start at end")
	}
	it.Erase() // must not panic and must remain at end
	if !it.AtEnd() {
		t.Fatal("Erase on an at-end iterator should leave it at end")
	}
}

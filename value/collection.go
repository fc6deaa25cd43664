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
	"sync"

	"github.com/google/btree"
)

// ErrKeyType is returned when a non-key-type Variant is used as a
// Collection key (spec §3, §7 "key of non-key type").
var ErrKeyType = errors.New("value is not a valid collection key type")

// ErrMissingKey is returned by indexed reads/erases of an absent key (spec
// §7 "missing key on indexed collection").
var ErrMissingKey = errors.New("collection has no value at key")

type entry struct {
	key, val Variant
}

func entryLess(a, b entry) bool { return LessForKeys(a.key, b.key) }

// Collection is Jinx's ordered Variant->Variant map (spec §3). It has
// shared-ownership semantics: a Collection value is always referenced
// through a pointer, so copying a Variant that holds one never copies the
// underlying data — mutating through one handle is visible through all
// others, the same sharing model the teacher documents for its own
// reference-counted `[]Scmer` lists (scm/list.go) and that Go's garbage
// collector lets Jinx implement with a plain pointer instead of manual
// refcounting (spec §9 "shared mutable collections").
//
// The backing store is a github.com/google/btree generic B-tree ordered by
// LessForKeys, grounded on the teacher's use of the same library
// (storage/table.go's catalog indices) for ordered, concurrently-read
// structures; it gives Jinx the "iteration order = key order" invariant
// for free instead of a hand-rolled balanced tree.
type Collection struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[entry]
	next int64 // next auto-increment integer key, for list-style appends
}

const btreeDegree = 32

func NewCollection() *Collection {
	return &Collection{tree: btree.NewG(btreeDegree, entryLess), next: 1}
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree.Len()
}

// Get returns the value at key and whether it was present.
func (c *Collection) Get(key Variant) (Variant, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.tree.Get(entry{key: key})
	return e.val, ok
}

// Set stores value at key, validating the key type (spec §3). If key is an
// Integer greater than or equal to the collection's auto-increment cursor,
// the cursor advances past it, matching the "keys collide -> auto-increment"
// rule used by the `add` builtin (spec §6).
func (c *Collection) Set(key, val Variant) error {
	if !key.IsKeyType() {
		return ErrKeyType
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tree.ReplaceOrInsert(entry{key: key, val: val})
	if key.kind == Integer && key.i >= c.next {
		c.next = key.i + 1
	}
	return nil
}

// Append inserts val under the next auto-increment integer key (spec §4.4.2
// "a bare e1, e2, ... forms a 1-indexed list"; spec §6 "add ... to ...").
func (c *Collection) Append(val Variant) Variant {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := NewInteger(c.next)
	c.tree.ReplaceOrInsert(entry{key: key, val: val})
	c.next++
	return key
}

// Delete removes key, returning whether it was present.
func (c *Collection) Delete(key Variant) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.tree.Delete(entry{key: key})
	return ok
}

// Range iterates key order (ascending), stopping early if fn returns false.
func (c *Collection) Range(fn func(key, val Variant) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.tree.Ascend(func(e entry) bool { return fn(e.key, e.val) })
}

// Keys returns all keys in order (used by `loop over`, `call stack`, etc).
func (c *Collection) Keys() []Variant {
	keys := make([]Variant, 0, c.Len())
	c.Range(func(k, _ Variant) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Clone performs a shallow copy: a new Collection with the same entries,
// used when a collection literal is built from an expression list rather
// than shared (PushColl/PushList never alias an existing Collection).
func (c *Collection) Clone() *Collection {
	nc := NewCollection()
	c.Range(func(k, v Variant) bool {
		nc.Set(k, v)
		return true
	})
	return nc
}

// firstGE returns the smallest key strictly greater than after (or the
// smallest key greater than or equal to after, if afterSet is false), used
// by Iterator.
func (c *Collection) firstGE(after Variant, afterSet bool) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var found entry
	ok := false
	c.tree.AscendGreaterOrEqual(entry{key: after}, func(e entry) bool {
		if afterSet && !LessForKeys(after, e.key) {
			return true // skip the boundary key itself
		}
		found, ok = e, true
		return false
	})
	return found, ok
}

func (c *Collection) first() (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var found entry
	ok := false
	c.tree.Ascend(func(e entry) bool {
		found, ok = e, true
		return false
	})
	return found, ok
}

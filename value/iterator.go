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

// Iterator is a CollectionItr: a cursor position plus the shared Collection
// it refers into (spec §3). It never snapshots the tree — every lookup
// re-seeks the live btree, so a mutation through another handle to the same
// Collection is observed immediately, and "erasing through an iterator
// advances to the next valid position" falls out of re-seeking after a
// delete rather than tracking a stale index.
type Iterator struct {
	coll    *Collection
	cur     Variant
	hasCur  bool
	atEnd   bool
}

// NewIteratorAtBegin implements PushItr: "peek collection, push
// CollectionItr at begin".
func NewIteratorAtBegin(c *Collection) *Iterator {
	it := &Iterator{coll: c}
	if e, ok := c.first(); ok {
		it.cur, it.hasCur = e.key, true
	} else {
		it.atEnd = true
	}
	return it
}

// Collection returns the Collection this iterator refers into.
func (it *Iterator) Collection() *Collection { return it.coll }

// AtEnd reports whether the iterator has advanced past the last entry.
func (it *Iterator) AtEnd() bool { return it.atEnd }

// Current returns the key/value pair at the iterator's position.
func (it *Iterator) Current() (key, val Variant, ok bool) {
	if it.atEnd || !it.hasCur {
		return Variant{}, Variant{}, false
	}
	val, present := it.coll.Get(it.cur)
	if !present {
		// the entry vanished via another handle; treat like erase-then-advance
		it.advancePast(it.cur)
		return it.Current()
	}
	return it.cur, val, true
}

// Next advances the iterator to the following entry.
func (it *Iterator) Next() {
	if it.atEnd || !it.hasCur {
		return
	}
	it.advancePast(it.cur)
}

func (it *Iterator) advancePast(key Variant) {
	if e, ok := it.coll.firstGE(key, true); ok {
		it.cur, it.hasCur = e.key, true
	} else {
		it.atEnd, it.hasCur = true, false
	}
}

// Erase deletes the entry at the iterator's current position and advances
// to the next valid position. Erasing an already-at-end iterator is a
// documented no-op (spec §9 open question: "preserve the no-op, leave at
// end behavior").
func (it *Iterator) Erase() {
	if it.atEnd || !it.hasCur {
		return
	}
	key := it.cur
	it.coll.Delete(key)
	it.advancePast(key)
}

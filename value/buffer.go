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

import "sync"

// Buffer is a resizable, shared-ownership byte array (spec §3). Capacity
// tracks the underlying Go slice's cap, which is always >= len by
// construction, satisfying "capacity >= size" without separate bookkeeping.
type Buffer struct {
	mu   sync.RWMutex
	data []byte
}

func NewBuffer(initial []byte) *Buffer {
	b := make([]byte, len(initial))
	copy(b, initial)
	return &Buffer{data: b}
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

func (b *Buffer) Cap() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cap(b.data)
}

// Bytes returns a copy of the buffer's contents; callers never get a live
// alias to the internal slice, so Resize/Write cannot race a concurrent reader.
func (b *Buffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

func (b *Buffer) Resize(size int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if size <= cap(b.data) {
		b.data = b.data[:size]
		return
	}
	grown := make([]byte, size)
	copy(grown, b.data)
	b.data = grown
}

func (b *Buffer) WriteAt(offset int, p []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	needed := offset + len(p)
	if needed > cap(b.data) {
		grown := make([]byte, needed)
		copy(grown, b.data)
		b.data = grown
	} else if needed > len(b.data) {
		b.data = b.data[:needed]
	}
	copy(b.data[offset:], p)
}

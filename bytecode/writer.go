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

package bytecode

import (
	"bytes"
	"encoding/binary"

	"github.com/launix-de/jinx/value"
)

// Writer accumulates an instruction stream plus, optionally, a parallel
// line-number table, and supports back-patching jump targets once their
// destination address is known (spec §4.4 "bytecode writer").
type Writer struct {
	buf        bytes.Buffer
	lines      []LineEntry
	emitDebug  bool
	lastLine   uint32
	externals  []ExternalDecl
}

// AddExternal registers a compile-time `external NAME` binding to be
// carried alongside the Program (see ExternalDecl).
func (w *Writer) AddExternal(name string, id uint64, index int32) {
	w.externals = append(w.externals, ExternalDecl{Name: name, ID: id, Index: index})
}

func NewWriter(emitDebug bool) *Writer {
	return &Writer{emitDebug: emitDebug}
}

// Len returns the current instruction-stream length, i.e. the address the
// next emitted byte will occupy.
func (w *Writer) Len() int { return w.buf.Len() }

// MarkLine records that subsequent instructions originate from the given
// source line, for the optional debug section.
func (w *Writer) MarkLine(line uint32) {
	if !w.emitDebug || line == w.lastLine {
		return
	}
	w.lastLine = line
	w.lines = append(w.lines, LineEntry{Offset: uint32(w.buf.Len()), Line: line})
}

func (w *Writer) Op(op Op) int {
	addr := w.buf.Len()
	w.buf.WriteByte(byte(op))
	return addr
}

func (w *Writer) U8(b byte)   { w.buf.WriteByte(b) }
func (w *Writer) I32(v int32) { _ = binary.Write(&w.buf, binary.LittleEndian, v) }
func (w *Writer) U32(v uint32) { _ = binary.Write(&w.buf, binary.LittleEndian, v) }
func (w *Writer) U64(v uint64) { _ = binary.Write(&w.buf, binary.LittleEndian, v) }

func (w *Writer) Value(v value.Variant) { _ = v.Marshal(&w.buf) }

func (w *Writer) String(s string) {
	_ = binary.Write(&w.buf, binary.LittleEndian, uint32(len(s)))
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
}

// ReserveAddress emits a placeholder u32 address operand and returns its
// byte offset so PatchAddress can fill it in once the jump target is known
// (forward-jump backpatching, used by if/else, loop and break).
func (w *Writer) ReserveAddress() int {
	addr := w.buf.Len()
	w.U32(0)
	return addr
}

// PatchAddress overwrites the u32 at byte offset patchAt with target.
func (w *Writer) PatchAddress(patchAt int, target uint32) {
	b := w.buf.Bytes()
	binary.LittleEndian.PutUint32(b[patchAt:patchAt+4], target)
}

// Program finalizes the writer into an immutable Program.
func (w *Writer) Program() *Program {
	code := make([]byte, w.buf.Len())
	copy(code, w.buf.Bytes())
	p := &Program{Version: Version, Code: code, Externals: w.externals}
	if w.emitDebug {
		p.Lines = w.lines
	}
	return p
}

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
	"fmt"

	"github.com/launix-de/jinx/value"
)

// Reader is a stateful cursor over a Program's instruction stream, driving
// the VM's fetch-decode loop with an explicit, externally-readable/settable
// instruction pointer (needed for jumps and for resuming a waiting script
// across separate Execute calls, spec §5).
type Reader struct {
	Code []byte
	IP   int
}

func NewReader(code []byte) *Reader {
	return &Reader{Code: code}
}

func (r *Reader) AtEnd() bool { return r.IP >= len(r.Code) }

func (r *Reader) Op() (Op, error) {
	if r.IP >= len(r.Code) {
		return 0, fmt.Errorf("bytecode: read past end of code at %d", r.IP)
	}
	op := Op(r.Code[r.IP])
	r.IP++
	return op, nil
}

func (r *Reader) U8() (byte, error) {
	if r.IP >= len(r.Code) {
		return 0, fmt.Errorf("bytecode: read past end of code at %d", r.IP)
	}
	b := r.Code[r.IP]
	r.IP++
	return b, nil
}

func (r *Reader) U32() (uint32, error) {
	if r.IP+4 > len(r.Code) {
		return 0, fmt.Errorf("bytecode: truncated u32 operand at %d", r.IP)
	}
	v := binary.LittleEndian.Uint32(r.Code[r.IP : r.IP+4])
	r.IP += 4
	return v, nil
}

func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

func (r *Reader) U64() (uint64, error) {
	if r.IP+8 > len(r.Code) {
		return 0, fmt.Errorf("bytecode: truncated u64 operand at %d", r.IP)
	}
	v := binary.LittleEndian.Uint64(r.Code[r.IP : r.IP+8])
	r.IP += 8
	return v, nil
}

// RuntimeID reads a RuntimeID operand, stored on the wire as a u64.
func (r *Reader) RuntimeID() (uint64, error) { return r.U64() }

func (r *Reader) String() (string, error) {
	if r.IP+4 > len(r.Code) {
		return "", fmt.Errorf("bytecode: truncated string length at %d", r.IP)
	}
	n := int(binary.LittleEndian.Uint32(r.Code[r.IP : r.IP+4]))
	start := r.IP + 4
	if start+n+1 > len(r.Code) {
		return "", fmt.Errorf("bytecode: truncated string payload at %d", r.IP)
	}
	s := string(r.Code[start : start+n])
	r.IP = start + n + 1 // skip trailing null terminator
	return s, nil
}

func (r *Reader) Value() (value.Variant, error) {
	rd := bytes.NewReader(r.Code[r.IP:])
	v, err := value.Unmarshal(rd)
	if err != nil {
		return value.Variant{}, err
	}
	r.IP += len(r.Code[r.IP:]) - rd.Len()
	return v, nil
}

// Jump sets the instruction pointer directly, used for executing an
// OpJump/OpJumpTrue/OpJumpFalse target.
func (r *Reader) Jump(addr uint32) { r.IP = int(addr) }

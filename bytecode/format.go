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
)

// Signature is the leading 4 ASCII bytes of every Jinx bytecode buffer
// (spec §4.4.3, §6).
var Signature = [4]byte{'J', 'I', 'N', 'X'}

// Version is the bytecode format version written by this implementation.
const Version uint32 = 1

// LineEntry maps a byte offset in the instruction stream to a source line,
// for the optional debug section (spec §4.4.3 "[optional DebugHeader +
// line entries]").
type LineEntry struct {
	Offset uint32
	Line   uint32
}

// Program is a compiled bytecode buffer plus its optional debug info,
// already split out of the wire encoding for convenient VM/host access.
type Program struct {
	Version   uint32
	Code      []byte
	Name      string        // debug-only, not part of the wire payload proper
	Lines     []LineEntry   // present only if compiled with debug info
	Externals []ExternalDecl
}

// ExternalDecl records one `external NAME` declaration's compile-time
// binding (name, its RuntimeID, and its root-frame stack slot), so a host
// can call Script.set_variable(name, ...) "before Execute" (spec §4.4.1)
// even after the bytecode has round-tripped through disk — the VM seeds
// these stack slots at Script construction, before any opcode runs, rather
// than waiting for the `external` statement itself to execute.
type ExternalDecl struct {
	Name  string
	ID    uint64
	Index int32
}

// Encode serializes p to the wire format described in spec §4.4.3: a
// BytecodeHeader, the opcode stream, then an optional debug section.
func (p *Program) Encode() []byte {
	var buf bytes.Buffer
	buf.Write(Signature[:])
	_ = binary.Write(&buf, binary.LittleEndian, p.Version)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(p.Code)))
	buf.Write(p.Code)
	if len(p.Lines) > 0 {
		buf.Write([]byte{'D', 'B', 'U', 'G'})
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(p.Lines)))
		for _, e := range p.Lines {
			_ = binary.Write(&buf, binary.LittleEndian, e.Offset)
			_ = binary.Write(&buf, binary.LittleEndian, e.Line)
		}
	}
	if len(p.Externals) > 0 {
		buf.Write([]byte{'E', 'X', 'T', 'R'})
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(p.Externals)))
		for _, ext := range p.Externals {
			_ = binary.Write(&buf, binary.LittleEndian, uint32(len(ext.Name)))
			buf.WriteString(ext.Name)
			_ = binary.Write(&buf, binary.LittleEndian, ext.ID)
			_ = binary.Write(&buf, binary.LittleEndian, ext.Index)
		}
	}
	return buf.Bytes()
}

// Decode parses a wire-format buffer back into a Program.
func Decode(buf []byte) (*Program, error) {
	if len(buf) < 12 || !bytes.Equal(buf[0:4], Signature[:]) {
		return nil, fmt.Errorf("bytecode: missing JINX signature")
	}
	version := binary.LittleEndian.Uint32(buf[4:8])
	dataSize := binary.LittleEndian.Uint32(buf[8:12])
	pos := 12
	if pos+int(dataSize) > len(buf) {
		return nil, fmt.Errorf("bytecode: truncated buffer")
	}
	code := buf[pos : pos+int(dataSize)]
	pos += int(dataSize)

	p := &Program{Version: version, Code: code}
	if pos+8 <= len(buf) && bytes.Equal(buf[pos:pos+4], []byte{'D', 'B', 'U', 'G'}) {
		pos += 4
		count := binary.LittleEndian.Uint32(buf[pos : pos+4])
		pos += 4
		lines := make([]LineEntry, 0, count)
		for i := uint32(0); i < count; i++ {
			if pos+8 > len(buf) {
				return nil, fmt.Errorf("bytecode: truncated debug section")
			}
			off := binary.LittleEndian.Uint32(buf[pos : pos+4])
			line := binary.LittleEndian.Uint32(buf[pos+4 : pos+8])
			lines = append(lines, LineEntry{Offset: off, Line: line})
			pos += 8
		}
		p.Lines = lines
	}
	if pos+8 <= len(buf) && bytes.Equal(buf[pos:pos+4], []byte{'E', 'X', 'T', 'R'}) {
		pos += 4
		count := binary.LittleEndian.Uint32(buf[pos : pos+4])
		pos += 4
		exts := make([]ExternalDecl, 0, count)
		for i := uint32(0); i < count; i++ {
			if pos+4 > len(buf) {
				return nil, fmt.Errorf("bytecode: truncated externals section")
			}
			nlen := int(binary.LittleEndian.Uint32(buf[pos : pos+4]))
			pos += 4
			if pos+nlen+12 > len(buf) {
				return nil, fmt.Errorf("bytecode: truncated externals section")
			}
			name := string(buf[pos : pos+nlen])
			pos += nlen
			id := binary.LittleEndian.Uint64(buf[pos : pos+8])
			pos += 8
			idx := int32(binary.LittleEndian.Uint32(buf[pos : pos+4]))
			pos += 4
			exts = append(exts, ExternalDecl{Name: name, ID: id, Index: idx})
		}
		p.Externals = exts
	}
	return p, nil
}

// StripDebugInfo returns a copy of buf's wire encoding with the trailing
// debug section removed, reading only up to dataSize (spec §4.7
// "StripDebugInfo(bytecode): reads the bytecode up to dataSize, returns a
// new buffer without the trailing debug section.").
func StripDebugInfo(buf []byte) ([]byte, error) {
	if len(buf) < 12 || !bytes.Equal(buf[0:4], Signature[:]) {
		return nil, fmt.Errorf("bytecode: missing JINX signature")
	}
	dataSize := binary.LittleEndian.Uint32(buf[8:12])
	if 12+int(dataSize) > len(buf) {
		return nil, fmt.Errorf("bytecode: truncated buffer")
	}
	out := make([]byte, 12+int(dataSize))
	copy(out, buf[:12+int(dataSize)])
	return out, nil
}

// LineForOffset resolves the source line for a byte offset in the
// instruction stream (the last LineEntry at or before offset), for error
// reporting when debug info is present.
func (p *Program) LineForOffset(offset int) (uint32, bool) {
	if len(p.Lines) == 0 {
		return 0, false
	}
	line, found := uint32(0), false
	for _, e := range p.Lines {
		if int(e.Offset) > offset {
			break
		}
		line, found = e.Line, true
	}
	return line, found
}

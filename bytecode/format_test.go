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
	"testing"
)

func TestEncodeDecodeRoundTripNoSections(t *testing.T) {
	p := &Program{Version: Version, Code: []byte{byte(OpPop), byte(OpReturn)}}
	buf := p.Encode()
	got, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != p.Version || !bytes.Equal(got.Code, p.Code) {
		t.Fatalf("decode mismatch: %+v", got)
	}
	if len(got.Lines) != 0 || len(got.Externals) != 0 {
		t.Fatalf("expected no optional sections, got Lines=%v Externals=%v", got.Lines, got.Externals)
	}
}

func TestEncodeDecodeRoundTripWithDebugSection(t *testing.T) {
	p := &Program{
		Version: Version,
		Code:    []byte{byte(OpPop), byte(OpReturn)},
		Lines:   []LineEntry{{Offset: 0, Line: 1}, {Offset: 1, Line: 2}},
	}
	buf := p.Encode()
	got, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Lines) != 2 || got.Lines[1].Line != 2 {
		t.Fatalf("debug section mismatch: %+v", got.Lines)
	}
}

func TestEncodeDecodeRoundTripWithExternalsSection(t *testing.T) {
	p := &Program{
		Version:   Version,
		Code:      []byte{byte(OpPop), byte(OpReturn)},
		Externals: []ExternalDecl{{Name: "count", ID: 42, Index: 3}},
	}
	buf := p.Encode()
	got, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Externals) != 1 || got.Externals[0].Name != "count" || got.Externals[0].ID != 42 || got.Externals[0].Index != 3 {
		t.Fatalf("externals section mismatch: %+v", got.Externals)
	}
}

func TestEncodeDecodeRoundTripWithBothSections(t *testing.T) {
	p := &Program{
		Version:   Version,
		Code:      []byte{byte(OpPop), byte(OpReturn)},
		Lines:     []LineEntry{{Offset: 0, Line: 1}},
		Externals: []ExternalDecl{{Name: "x", ID: 7, Index: 0}},
	}
	buf := p.Encode()
	got, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Lines) != 1 || len(got.Externals) != 1 {
		t.Fatalf("expected both sections present: %+v", got)
	}
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	buf := []byte("NOPE0000000000000000")
	if _, err := Decode(buf); err == nil {
		t.Fatal("expected error for missing JINX signature")
	}
}

func TestDecodeRejectsTruncatedBuffer(t *testing.T) {
	p := &Program{Version: Version, Code: []byte{byte(OpPop), byte(OpReturn), byte(OpPop)}}
	buf := p.Encode()
	if _, err := Decode(buf[:len(buf)-1]); err == nil {
		t.Fatal("expected error for truncated buffer")
	}
}

func TestStripDebugInfoDropsOptionalSections(t *testing.T) {
	p := &Program{
		Version:   Version,
		Code:      []byte{byte(OpPop), byte(OpReturn)},
		Lines:     []LineEntry{{Offset: 0, Line: 1}},
		Externals: []ExternalDecl{{Name: "x", ID: 1, Index: 0}},
	}
	full := p.Encode()
	stripped, err := StripDebugInfo(full)
	if err != nil {
		t.Fatal(err)
	}
	if len(stripped) >= len(full) {
		t.Fatalf("stripped buffer (%d bytes) should be smaller than full (%d bytes)", len(stripped), len(full))
	}
	got, err := Decode(stripped)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Code, p.Code) {
		t.Fatalf("stripped Code mismatch: %v != %v", got.Code, p.Code)
	}
	if len(got.Lines) != 0 || len(got.Externals) != 0 {
		t.Fatal("StripDebugInfo should drop both DBUG and EXTR sections")
	}
}

func TestLineForOffsetResolvesLastEntryAtOrBefore(t *testing.T) {
	p := &Program{Lines: []LineEntry{{Offset: 0, Line: 1}, {Offset: 10, Line: 2}, {Offset: 20, Line: 3}}}
	if line, ok := p.LineForOffset(15); !ok || line != 2 {
		t.Fatalf("LineForOffset(15) = %d, %v, want 2, true", line, ok)
	}
	if line, ok := p.LineForOffset(25); !ok || line != 3 {
		t.Fatalf("LineForOffset(25) = %d, %v, want 3, true", line, ok)
	}
}

func TestLineForOffsetNoDebugInfo(t *testing.T) {
	p := &Program{}
	if _, ok := p.LineForOffset(0); ok {
		t.Fatal("LineForOffset on a Program with no Lines should report not found")
	}
}

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

package parser

import (
	"bytes"
	"testing"

	"github.com/launix-de/jinx/signature"
)

// stubLibraries is a minimal LibraryProvider backing a fresh, empty
// signature.Library per requested name, good enough for scripts that don't
// call into host-registered functions.
type stubLibraries struct {
	libs map[string]*signature.Library
}

func newStubLibraries() *stubLibraries {
	return &stubLibraries{libs: make(map[string]*signature.Library)}
}

func (s *stubLibraries) GetOrCreateLibrary(name string) *signature.Library {
	if l, ok := s.libs[name]; ok {
		return l
	}
	l := signature.NewLibrary(name)
	s.libs[name] = l
	return l
}

func mustCompile(t *testing.T, src string, debugInfo bool) []byte {
	t.Helper()
	prog, errs := Compile("test", []byte(src), nil, newStubLibraries(), debugInfo)
	if len(errs) > 0 {
		t.Fatalf("compile errors: %v", errs)
	}
	return prog.Encode()
}

// TestCompileStripDebugInfoRoundTrip exercises the round-trip property
// (spec §8 "Round-trip: compile(strip_debug_info(compile(s))) produces
// the same executable bytecode payload as compile(s) without debug info."):
// stripping a debug-info build's wire encoding down to its data section
// must leave the same Code bytes a debug-info-disabled compile produces.
func TestCompileStripDebugInfoRoundTrip(t *testing.T) {
	const src = `set a to 1 + 2 * 3
set b to (1 + 2) * 3`

	withDebug, errs := Compile("test", []byte(src), nil, newStubLibraries(), true)
	if len(errs) > 0 {
		t.Fatalf("compile with debug info: %v", errs)
	}
	if len(withDebug.Lines) == 0 {
		t.Fatal("expected debug info to produce line entries")
	}

	withoutDebug, errs := Compile("test", []byte(src), nil, newStubLibraries(), false)
	if len(errs) > 0 {
		t.Fatalf("compile without debug info: %v", errs)
	}

	if !bytes.Equal(withDebug.Code, withoutDebug.Code) {
		t.Fatalf("Code differs between debug and non-debug compiles:\n%v\n%v", withDebug.Code, withoutDebug.Code)
	}
}

func TestCompileReportsSyntaxErrors(t *testing.T) {
	_, errs := Compile("test", []byte("set to to"), nil, newStubLibraries(), false)
	if len(errs) == 0 {
		t.Fatal("expected compile errors for malformed source")
	}
}

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

// Package parser implements Jinx's predictive recursive-descent
// expression/statement parser (spec §4.4): it resolves multi-word function
// calls against local and library signature tables, tracks variable frames
// and scopes, and emits a bytecode.Program via bytecode.Writer.
//
// Grounded on the shape of the teacher's scm parser/evaluator split (the
// deleted scm/parser.go + scm/packrat.go, a PEG combinator parser): Jinx
// instead needs exact longest-match-wins signature resolution interleaved
// with expression parsing, which a PEG combinator does not model well, so
// the matching algorithm here is hand-written recursive descent (see
// DESIGN.md).
package parser

import (
	"fmt"

	"github.com/launix-de/jinx/bytecode"
	"github.com/launix-de/jinx/lexer"
	"github.com/launix-de/jinx/signature"
)

// CompileError is a lex or parse failure surfaced with source position
// (spec §7 "Error taxonomy").
type CompileError struct {
	Name    string
	Line    int
	Column  int
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Name, e.Line, e.Column, e.Message)
}

// LibraryProvider gives the parser access to the Runtime's library
// registry without importing the jinx package (which in turn imports
// parser), keeping compile wiring a one-way dependency.
type LibraryProvider interface {
	GetOrCreateLibrary(name string) *signature.Library
}

type Parser struct {
	name string
	toks []lexer.Token
	pos  int
	errs []*CompileError

	libs       LibraryProvider
	currentLib *signature.Library
	libSelected bool
	imports    []string
	importSet  map[string]bool

	local []*signature.Signature

	frames []*varFrame

	w *bytecode.Writer

	atRootFrame bool // true while directly inside the outermost frame
	atRootScope bool // true while directly inside that frame's outermost scope

	stopStack []map[string]bool
}

// Compile lexes and parses src, emitting a bytecode.Program. name is used
// for error messages; imports pre-seeds the import list (spec §6
// "Runtime.compile(source, name?, imports?)"). Returns nil and a non-empty
// error list on any lex or parse failure (spec §7: "compile phase fails the
// whole compile").
func Compile(name string, src []byte, imports []string, libs LibraryProvider, debugInfo bool) (*bytecode.Program, []*CompileError) {
	lx := lexer.New(name, src)
	toks, lexErrs := lx.Lex()
	if len(lexErrs) > 0 {
		out := make([]*CompileError, len(lexErrs))
		for i, e := range lexErrs {
			out[i] = &CompileError{Name: e.Name, Line: e.Line, Column: e.Column, Message: e.Message}
		}
		return nil, out
	}

	p := &Parser{
		name:      name,
		toks:      toks,
		libs:      libs,
		imports:   append([]string{}, imports...),
		importSet: make(map[string]bool),
		w:         bytecode.NewWriter(debugInfo),
	}
	for _, im := range p.imports {
		p.importSet[im] = true
	}
	p.frames = []*varFrame{newVarFrame(false)}
	p.atRootFrame = true
	p.atRootScope = true

	p.parseProgram()

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	prog := p.w.Program()
	prog.Name = name
	return prog, nil
}

// --- token stream helpers ---

func (p *Parser) cur() lexer.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return p.toks[len(p.toks)-1] // EOF
}

func (p *Parser) at(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) atKeyword(word string) bool {
	t := p.cur()
	return t.Kind == lexer.Keyword && t.Fold == word
}

func (p *Parser) atFoldedName(word string) bool {
	t := p.cur()
	return (t.Kind == lexer.Name || t.Kind == lexer.Keyword) && t.Fold == word
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errorf(format string, args ...any) {
	t := p.cur()
	p.errs = append(p.errs, &CompileError{Name: p.name, Line: t.Line, Column: t.Column, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) expect(k lexer.Kind, what string) (lexer.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errorf("expected %s, found %s", what, p.cur().Kind)
	return lexer.Token{}, false
}

func (p *Parser) expectKeyword(word string) bool {
	if p.atKeyword(word) {
		p.advance()
		return true
	}
	p.errorf("expected keyword %q, found %q", word, p.cur().Text)
	return false
}

func (p *Parser) skipNewlines() {
	for p.at(lexer.Newline) {
		p.advance()
	}
}

func (p *Parser) expectNewline() {
	if p.at(lexer.Newline) {
		p.advance()
		return
	}
	if p.at(lexer.EOF) {
		return
	}
	p.errorf("expected end of line, found %q", p.cur().Text)
}

func (p *Parser) curFrame() *varFrame { return p.frames[len(p.frames)-1] }

func (p *Parser) markLine() { p.w.MarkLine(uint32(p.cur().Line)) }

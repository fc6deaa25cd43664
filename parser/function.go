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
	"github.com/launix-de/jinx/bytecode"
	"github.com/launix-de/jinx/lexer"
	"github.com/launix-de/jinx/signature"
	"github.com/launix-de/jinx/value"
)

// parseFunctionStmt parses `function [<signature>] newline <body> end
// newline` (spec §4.4.1). Script-declared functions are always Local
// visibility — Private/Public functions are registered by the host via the
// Library API (spec §6 "register_function"), not by script source.
func (p *Parser) parseFunctionStmt() {
	if !p.atRootFrame || !p.atRootScope {
		p.errorf("function must be declared at root scope")
	}
	p.advance() // 'function'

	returns := false
	if p.atKeyword("return") {
		returns = true
		p.advance()
	}

	parts := p.parseSignatureParts()
	if len(parts) == 0 {
		p.errorf("function requires a signature")
		return
	}
	sig := &signature.Signature{ID: signature.NewLocalID(), Visibility: signature.Local, Parts: parts, Returns: returns}
	for _, part := range parts {
		if part.Kind == signature.ParamPart {
			sig.ParamCount++
		}
	}
	if !sig.HasNonKeywordName(func(s string) bool { return lexer.Keywords[s] }) {
		p.errorf("function signature must contain at least one non-keyword name part")
	}
	p.local = append(p.local, sig)
	p.expectNewline()

	p.w.Op(bytecode.OpFunction)
	sig.Encode(p.w)
	// VM convention: the function's bytecode entry point is the address
	// right after this Jump instruction, which itself skips the body so
	// straight-line execution of the enclosing script does not fall into
	// it (spec §4.4.3 "register a function whose body starts at (current
	// IP + size of following Jump)").
	p.w.Op(bytecode.OpJump)
	afterBodyPatch := p.w.ReserveAddress()

	frame := newVarFrame(returns)
	p.frames = append(p.frames, frame)
	prevRootFrame, prevRootScope := p.atRootFrame, p.atRootScope
	p.atRootFrame, p.atRootScope = false, true

	p.w.Op(bytecode.OpScopeBegin)
	for _, part := range parts {
		if part.Kind != signature.ParamPart || part.ParamName == "" {
			continue
		}
		id, idx := frame.declareInnermost(part.ParamName)
		castKind := value.Any // untyped params are bound as-is, no cast
		if part.Typed {
			castKind = part.Type
		}
		p.w.Op(bytecode.OpSetIndex)
		p.w.U64(uint64(id))
		p.w.I32(int32(idx))
		p.w.U8(byte(castKind))
	}

	p.parseBlock("end")

	if returns && !frame.sawReturn {
		p.errorf("function marked returning must return a value on every path")
	}
	p.w.Op(bytecode.OpScopeEnd)
	if !frame.sawReturn {
		// Implicit null return for non-returning functions, so Return
		// always has a value to pop (spec §4.5 CallFunc/Return contract).
		p.w.Op(bytecode.OpPushVal)
		p.w.Value(nullVariant())
		p.w.Op(bytecode.OpReturn)
	}

	p.frames = p.frames[:len(p.frames)-1]
	p.atRootFrame, p.atRootScope = prevRootFrame, prevRootScope

	p.w.PatchAddress(afterBodyPatch, uint32(p.w.Len()))

	p.expectKeyword("end")
	p.expectNewline()
}

// parseSignatureParts parses the token sequence between `function` (and an
// optional leading `return`) and the terminating newline into signature
// Parts: bare Name/Keyword runs (optionally `/`-alternated, optionally
// wrapped in `()` to mark optional) are Name parts; `{[TypeName] name}` is
// a Parameter part (spec §3 FunctionSignature, resolved per scenario 3/5:
// "{x}" binds an untyped parameter x, "{integer y}" binds y cast to
// Integer).
func (p *Parser) parseSignatureParts() []signature.Part {
	var parts []signature.Part
	for !p.at(lexer.Newline) && !p.at(lexer.EOF) {
		if p.at(lexer.LBrace) {
			parts = append(parts, p.parseParamPart())
			continue
		}
		optional := false
		if p.at(lexer.LParen) {
			optional = true
			p.advance()
		}
		var names []string
		for {
			t := p.cur()
			if t.Kind != lexer.Name && t.Kind != lexer.Keyword {
				p.errorf("expected name part in function signature, found %q", t.Text)
				break
			}
			names = append(names, t.Fold)
			p.advance()
			if p.at(lexer.Slash) {
				p.advance()
				continue
			}
			break
		}
		if optional {
			if p.at(lexer.RParen) {
				p.advance()
			} else {
				p.errorf("expected ')' closing optional name part")
			}
		}
		parts = append(parts, signature.Part{Kind: signature.NamePart, Names: names, Optional: optional})
	}
	return parts
}

func (p *Parser) parseParamPart() signature.Part {
	p.advance() // '{'
	part := signature.Part{Kind: signature.ParamPart}
	if p.at(lexer.RBrace) {
		p.advance()
		return part
	}
	first := p.cur()
	if k, ok := typeCastNames[first.Fold]; ok {
		part.Typed = true
		part.Type = k
		p.advance()
		if !p.at(lexer.RBrace) {
			name := p.cur()
			part.ParamName = name.Fold
			p.advance()
		}
	} else {
		part.ParamName = first.Fold
		p.advance()
	}
	if p.at(lexer.RBrace) {
		p.advance()
	} else {
		p.errorf("expected '}' closing parameter")
	}
	return part
}

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
	"github.com/launix-de/jinx/value"
)

// parseExpr parses one expression with no stop-name boundary (spec §4.4.2
// precedence chain, low to high: or, and, not, comparisons, + -, * / %,
// unary -, as, subscript, primary).
func (p *Parser) parseExpr() { p.parseExprStopAt(nil) }

// parseExprStopAt parses an expression but will not consume a Name/Keyword
// token whose folded text is in stop — used both by statement grammar
// (e.g. `loop from <e> to <e>` stops the first <e> at "to") and by the
// function-call matcher (a parameter stops at the next signature NamePart).
func (p *Parser) parseExprStopAt(stop map[string]bool) {
	p.stopStack = append(p.stopStack, stop)
	p.parseOr()
	p.stopStack = p.stopStack[:len(p.stopStack)-1]
}

func (p *Parser) atStop() bool {
	if len(p.stopStack) == 0 {
		return false
	}
	stop := p.stopStack[len(p.stopStack)-1]
	if stop == nil {
		return false
	}
	t := p.cur()
	if t.Kind != lexer.Name && t.Kind != lexer.Keyword {
		return false
	}
	return stop[t.Fold]
}

// parseOr and parseAnd emit short-circuiting bytecode rather than the plain
// two-operand OpOr/OpAnd opcodes: `A or B` must not evaluate B's side
// effects once A is already known true (spec §8 "short-circuit: B's side
// effects are not observed when A determines the result"), so both operators
// lower to a peek-and-skip sequence built on OpJumpTrueCheck/OpJumpFalseCheck,
// normalizing to a Boolean result with OpCast either way. OpAnd/OpOr remain
// in the opcode set for bytecode produced by other means but are no longer
// emitted here (see DESIGN.md).

func (p *Parser) parseOr() {
	p.parseAnd()
	for p.atKeyword("or") && !p.atStop() {
		p.advance()
		p.w.Op(bytecode.OpJumpTrueCheck)
		truePatch := p.w.ReserveAddress()
		p.w.Op(bytecode.OpPop)
		p.parseAnd()
		p.w.Op(bytecode.OpCast)
		p.w.U8(uint8(value.Boolean))
		p.w.Op(bytecode.OpJump)
		endPatch := p.w.ReserveAddress()
		p.w.PatchAddress(truePatch, uint32(p.w.Len()))
		p.w.Op(bytecode.OpPop)
		p.w.Op(bytecode.OpPushVal)
		p.w.Value(value.NewBoolean(true))
		p.w.PatchAddress(endPatch, uint32(p.w.Len()))
	}
}

func (p *Parser) parseAnd() {
	p.parseNot()
	for p.atKeyword("and") && !p.atStop() {
		p.advance()
		p.w.Op(bytecode.OpJumpFalseCheck)
		falsePatch := p.w.ReserveAddress()
		p.w.Op(bytecode.OpPop)
		p.parseNot()
		p.w.Op(bytecode.OpCast)
		p.w.U8(uint8(value.Boolean))
		p.w.Op(bytecode.OpJump)
		endPatch := p.w.ReserveAddress()
		p.w.PatchAddress(falsePatch, uint32(p.w.Len()))
		p.w.Op(bytecode.OpPop)
		p.w.Op(bytecode.OpPushVal)
		p.w.Value(value.NewBoolean(false))
		p.w.PatchAddress(endPatch, uint32(p.w.Len()))
	}
}

func (p *Parser) parseNot() {
	if p.atKeyword("not") {
		p.advance()
		p.parseNot()
		p.w.Op(bytecode.OpNot)
		return
	}
	p.parseCompare()
}

var compareOps = map[lexer.Kind]bytecode.Op{
	lexer.Equals:      bytecode.OpEquals,
	lexer.NotEquals:   bytecode.OpNotEquals,
	lexer.Less:        bytecode.OpLess,
	lexer.LessEq:      bytecode.OpLessEq,
	lexer.Greater:     bytecode.OpGreater,
	lexer.GreaterEq:   bytecode.OpGreaterEq,
}

func (p *Parser) parseCompare() {
	p.parseAddSub()
	if op, ok := compareOps[p.cur().Kind]; ok {
		p.advance()
		p.parseAddSub()
		p.w.Op(op)
	}
}

func (p *Parser) parseAddSub() {
	p.parseMulDiv()
	for p.at(lexer.Plus) || p.at(lexer.Minus) {
		isPlus := p.at(lexer.Plus)
		p.advance()
		p.parseMulDiv()
		if isPlus {
			p.w.Op(bytecode.OpAdd)
		} else {
			p.w.Op(bytecode.OpSub)
		}
	}
}

func (p *Parser) parseMulDiv() {
	p.parseUnaryMinus()
	for p.at(lexer.Star) || p.at(lexer.Slash) || p.at(lexer.Percent) {
		k := p.cur().Kind
		p.advance()
		p.parseUnaryMinus()
		switch k {
		case lexer.Star:
			p.w.Op(bytecode.OpMul)
		case lexer.Slash:
			p.w.Op(bytecode.OpDiv)
		case lexer.Percent:
			p.w.Op(bytecode.OpMod)
		}
	}
}

func (p *Parser) parseUnaryMinus() {
	if p.at(lexer.Minus) {
		p.advance()
		p.parseUnaryMinus()
		p.w.Op(bytecode.OpNegate)
		return
	}
	p.parseAs()
}

var typeCastNames = map[string]value.Kind{
	"null": value.Null, "number": value.Number, "integer": value.Integer,
	"boolean": value.Boolean, "string": value.String, "collection": value.Collect,
	"object": value.UserObject, "buffer": value.BufferKind, "guid": value.GuidKind,
	"type": value.ValType,
}

func (p *Parser) parseAs() {
	p.parsePrimary()
	for p.atKeyword("as") {
		p.advance()
		t := p.cur()
		k, ok := typeCastNames[t.Fold]
		if !ok {
			p.errorf("unknown type name %q in cast", t.Text)
			p.advance()
			continue
		}
		p.advance()
		p.w.Op(bytecode.OpCast)
		p.w.U8(byte(k))
	}
}

// parsePrimary parses literals, parenthesized expressions, collection/list
// literals, and names (with a possible function-call match attempt or a
// `[key]` subscript read).
func (p *Parser) parsePrimary() {
	if p.atStop() {
		p.errorf("expected expression, found %q", p.cur().Text)
		return
	}
	t := p.cur()
	switch t.Kind {
	case lexer.NumberLit:
		p.advance()
		p.w.Op(bytecode.OpPushVal)
		p.w.Value(value.NewNumber(t.Num))
		return
	case lexer.IntegerLit:
		p.advance()
		p.w.Op(bytecode.OpPushVal)
		p.w.Value(value.NewInteger(t.Int))
		return
	case lexer.BooleanLit:
		p.advance()
		p.w.Op(bytecode.OpPushVal)
		p.w.Value(value.NewBoolean(t.Bool))
		return
	case lexer.StringLit:
		p.advance()
		p.w.Op(bytecode.OpPushVal)
		p.w.Value(value.NewString(t.Text))
		return
	case lexer.LParen:
		p.advance()
		p.parseExprStopAt(nil)
		if p.at(lexer.RParen) {
			p.advance()
		} else {
			p.errorf("expected ')'")
		}
		return
	case lexer.LBracket:
		p.parseBracketLiteral()
		return
	case lexer.Keyword:
		switch t.Fold {
		case "null":
			p.advance()
			p.w.Op(bytecode.OpPushVal)
			p.w.Value(value.NewNull())
			return
		case "type":
			p.advance()
			tn := p.cur()
			k, ok := typeCastNames[tn.Fold]
			if !ok {
				p.errorf("unknown type name %q", tn.Text)
				return
			}
			p.advance()
			p.w.Op(bytecode.OpPushVal)
			p.w.Value(value.NewValType(k))
			return
		}
	}

	// Attempt a function call match before falling back to a bare name.
	if p.tryEmitCall() {
		return
	}

	if t.Kind == lexer.Name || t.Kind == lexer.Keyword {
		lv, _ := p.tryParseLValueAt(p.pos)
		p.pos = lv.endPos
		p.emitPushLValue(lv)
		return
	}

	p.errorf("unexpected token %q", t.Text)
	p.advance()
}

// parseBracketLiteral handles `[...]`: a 2-item list is a key/value pair
// (collection-literal context, spec §4.4.2), a single item is a grouped
// value, and 0 or 3+ items form a list.
func (p *Parser) parseBracketLiteral() {
	p.advance() // '['
	count := 0
	for {
		if p.at(lexer.RBracket) {
			break
		}
		p.parseExprStopAt(nil)
		count++
		if p.at(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	if p.at(lexer.RBracket) {
		p.advance()
	} else {
		p.errorf("expected ']'")
	}
	switch count {
	case 1:
		// grouped value, nothing more to emit
	case 2:
		p.w.Op(bytecode.OpPushKeyVal)
	default:
		p.w.Op(bytecode.OpPushList)
		p.w.U32(uint32(count))
	}
}

// parseCollectionOrListExpr parses one expression, then — if followed by a
// comma at this same level — collects a comma-separated sequence into a
// Collection (if every item was written as a `[k,v]` pair) or a 1-indexed
// list (spec §4.4.2, scenario 2). This is used wherever the grammar hands
// control to a full top-level expression (assignment RHS, parenthesized
// groups already handle their own single expression internally).
func (p *Parser) parseCollectionOrListExpr() {
	firstIsPair := p.peekIsPairLiteral()
	p.parseExprStopAt(nil)
	if !p.at(lexer.Comma) {
		return
	}
	allPairs := firstIsPair
	count := 1
	for p.at(lexer.Comma) {
		p.advance()
		isPair := p.peekIsPairLiteral()
		p.parseExprStopAt(nil)
		allPairs = allPairs && isPair
		count++
	}
	if allPairs {
		p.w.Op(bytecode.OpPushColl)
		p.w.U32(uint32(count))
	} else {
		p.w.Op(bytecode.OpPushList)
		p.w.U32(uint32(count))
	}
}

// peekIsPairLiteral reports whether the expression starting at p.pos is
// syntactically a `[a, b]` bracket pair (used to decide Collection-vs-List
// for a comma-separated literal).
func (p *Parser) peekIsPairLiteral() bool {
	if p.cur().Kind != lexer.LBracket {
		return false
	}
	depth := 0
	commas := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case lexer.LBracket:
			depth++
		case lexer.RBracket:
			depth--
			if depth == 0 {
				return commas == 1
			}
		case lexer.Comma:
			if depth == 1 {
				commas++
			}
		case lexer.Newline, lexer.EOF:
			return false
		}
	}
	return false
}

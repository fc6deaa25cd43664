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
)

// candidateAttempt pairs a signature with the token position matching
// should start from (after stripping a recognized library-name prefix,
// spec §4.3 "Library-name prefix ... is stripped before matching").
type candidateAttempt struct {
	sig    *signature.Signature
	start  int
	local  bool
}

// tryEmitCall attempts to match a function call at the current position
// against the local table and visible libraries (spec §4.3, §4.4.2
// "Ambiguity resolution"). On success it emits the call's bytecode
// (including all parameter sub-expressions) and advances the token
// position; returns false (no side effects) if no signature matches.
func (p *Parser) tryEmitCall() bool {
	attempts := p.collectCandidateAttempts()
	if len(attempts) == 0 {
		return false
	}
	outerStop := p.currentStop()

	bestLen := -1
	var winners []candidateAttempt
	for _, a := range attempts {
		n, ok := p.matchDry(a.start, a.sig, outerStop)
		if !ok {
			continue
		}
		switch {
		case n > bestLen:
			bestLen = n
			winners = []candidateAttempt{a}
		case n == bestLen:
			winners = append(winners, a)
		}
	}
	if bestLen < 0 {
		return false
	}
	if len(winners) > 1 {
		// Local precedence: if exactly one winner is a local signature,
		// it wins outright (spec §4.3 "Local signatures have precedence
		// over library signatures in the current script").
		var locals []candidateAttempt
		for _, w := range winners {
			if w.local {
				locals = append(locals, w)
			}
		}
		if len(locals) == 1 {
			winners = locals
		} else {
			p.errorf("ambiguous function call")
			return false
		}
	}

	win := winners[0]
	p.emitCallReal(win.start, win.sig, outerStop)
	return true
}

func (p *Parser) currentStop() map[string]bool {
	if len(p.stopStack) == 0 {
		return nil
	}
	return p.stopStack[len(p.stopStack)-1]
}

func (p *Parser) collectCandidateAttempts() []candidateAttempt {
	var out []candidateAttempt
	for _, s := range p.local {
		out = append(out, candidateAttempt{sig: s, start: p.pos, local: true})
	}
	if p.currentLib != nil {
		for _, s := range p.currentLib.Functions() {
			out = append(out, candidateAttempt{sig: s, start: p.pos})
		}
	}
	for _, name := range p.imports {
		lib := p.libs.GetOrCreateLibrary(name)
		for _, s := range lib.Functions() {
			if s.Visibility == signature.Public {
				out = append(out, candidateAttempt{sig: s, start: p.pos})
			}
		}
	}

	// Library-name prefix: "libname rest-of-call" scopes the search to
	// that library's own table (public or private — it is that library's
	// own script context calling into itself via its full name).
	t := p.cur()
	if t.Kind == lexer.Name || t.Kind == lexer.Keyword {
		if lib, ok := p.knownLibrary(t.Fold); ok {
			for _, s := range lib.Functions() {
				out = append(out, candidateAttempt{sig: s, start: p.pos + 1})
			}
		}
	}
	return out
}

func (p *Parser) knownLibrary(folded string) (*signature.Library, bool) {
	if p.currentLib != nil && signature.FoldName(p.currentLib.Name) == folded {
		return p.currentLib, true
	}
	for _, name := range p.imports {
		if signature.FoldName(name) == folded {
			return p.libs.GetOrCreateLibrary(name), true
		}
	}
	return nil, false
}

// matchDry determines, without emitting bytecode or mutating parser state,
// whether sig matches starting at pos, and how many tokens it consumes.
func (p *Parser) matchDry(pos int, sig *signature.Signature, outerStop map[string]bool) (int, bool) {
	i := pos
	parts := sig.Parts
	for pi, part := range parts {
		if part.Kind == signature.NamePart {
			if i < len(p.toks) {
				tk := p.toks[i]
				if (tk.Kind == lexer.Name || tk.Kind == lexer.Keyword) && part.MatchesName(tk.Fold) {
					i++
					continue
				}
			}
			if part.Optional {
				continue
			}
			return 0, false
		}
		stop := nextNameStop(parts, pi, outerStop)
		n, ok := p.skipExprDry(i, stop)
		if !ok {
			return 0, false
		}
		i = n
	}
	if i == pos {
		return 0, false
	}
	return i - pos, true
}

func nextNameStop(parts []signature.Part, pi int, outer map[string]bool) map[string]bool {
	if pi+1 < len(parts) && parts[pi+1].Kind == signature.NamePart {
		stop := make(map[string]bool, len(parts[pi+1].Names))
		for _, n := range parts[pi+1].Names {
			stop[n] = true
		}
		return stop
	}
	return outer
}

// skipExprDry scans a syntactically plausible expression extent starting
// at pos, stopping at a depth-0 Newline/EOF/Comma/closing-bracket or a
// Name/Keyword token whose fold is in stop. It does not validate grammar
// beyond bracket balance; real validation happens when the winning match
// is re-parsed for emission.
func (p *Parser) skipExprDry(pos int, stop map[string]bool) (int, bool) {
	i := pos
	depth := 0
	consumed := 0
	for i < len(p.toks) {
		t := p.toks[i]
		if depth == 0 {
			switch t.Kind {
			case lexer.Newline, lexer.EOF, lexer.Comma, lexer.RParen, lexer.RBracket:
				goto end
			}
			if (t.Kind == lexer.Name || t.Kind == lexer.Keyword) && stop != nil && stop[t.Fold] {
				goto end
			}
		}
		switch t.Kind {
		case lexer.LParen, lexer.LBracket:
			depth++
		case lexer.RParen, lexer.RBracket:
			depth--
		}
		i++
		consumed++
	}
end:
	if consumed == 0 {
		return pos, false
	}
	return i, true
}

// emitCallReal re-parses the winning match for real, emitting parameter
// expression bytecode (left-to-right push order) followed by CallFunc.
func (p *Parser) emitCallReal(start int, sig *signature.Signature, outerStop map[string]bool) {
	p.pos = start
	parts := sig.Parts
	for pi, part := range parts {
		if part.Kind == signature.NamePart {
			tk := p.cur()
			if (tk.Kind == lexer.Name || tk.Kind == lexer.Keyword) && part.MatchesName(tk.Fold) {
				p.advance()
				continue
			}
			// optional part not present; nothing to consume
			continue
		}
		stop := nextNameStop(parts, pi, outerStop)
		p.parseExprStopAt(stop)
		if part.Typed {
			p.w.Op(bytecode.OpCast)
			p.w.U8(byte(part.Type))
		}
	}
	p.w.Op(bytecode.OpCallFunc)
	p.w.U64(uint64(sig.ID))
}

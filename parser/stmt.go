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

// parseProgram parses the whole token stream: an optional `library`
// statement, then any number of `import` statements, then the root-scope
// body (spec §4.4.1).
func (p *Parser) parseProgram() {
	p.skipNewlines()
	if p.atKeyword("library") {
		p.parseLibraryStmt()
	}
	p.skipNewlines()
	for p.atKeyword("import") {
		p.parseImportStmt()
		p.skipNewlines()
	}
	for !p.at(lexer.EOF) {
		p.parseStatement()
		p.skipNewlines()
	}
	// Reaching the end of the root body finishes the script.
	p.w.Op(bytecode.OpExit)
}

func (p *Parser) parseLibraryStmt() {
	p.advance() // 'library'
	name, ok := p.expect(lexer.Name, "library name")
	if !ok {
		return
	}
	p.currentLib = p.libs.GetOrCreateLibrary(name.Text)
	p.libSelected = true
	p.w.Op(bytecode.OpLibrary)
	p.w.String(name.Text)
	p.expectNewline()
}

func (p *Parser) parseImportStmt() {
	p.advance() // 'import'
	name, ok := p.expect(lexer.Name, "import name")
	if !ok {
		return
	}
	if !p.importSet[name.Text] {
		p.importSet[name.Text] = true
		p.imports = append(p.imports, name.Text)
	}
	p.expectNewline()
}

// parseBlock parses statements until it sees one of the stop keywords
// (without consuming the stop token), used by if/else/loop/function bodies.
func (p *Parser) parseBlock(stop ...string) {
	p.skipNewlines()
	for {
		if p.at(lexer.EOF) {
			return
		}
		for _, s := range stop {
			if p.atKeyword(s) {
				return
			}
		}
		p.parseStatement()
		p.skipNewlines()
	}
}

func (p *Parser) parseStatement() {
	p.markLine()
	t := p.cur()
	if t.Kind == lexer.Keyword {
		switch t.Fold {
		case "set":
			p.parseSetStmt()
			return
		case "external":
			p.parseExternalStmt()
			return
		case "function":
			p.parseFunctionStmt()
			return
		case "increment", "decrement":
			p.parseIncDecStmt()
			return
		case "if":
			p.parseIfStmt()
			return
		case "loop":
			p.parseLoopStmt()
			return
		case "break":
			p.parseBreakStmt()
			return
		case "return":
			p.parseReturnStmt()
			return
		case "wait":
			p.parseWaitStmt()
			return
		case "erase":
			p.parseEraseStmt()
			return
		case "library":
			p.errorf("library statement must be the first statement")
			p.advance()
			return
		case "import":
			p.errorf("import statements must precede all other statements")
			p.advance()
			return
		}
	}
	// Otherwise: a bare expression (commonly a function call invoked for
	// its side effects, e.g. `write "hi"`), or a `<lhs> is <expr>` assignment.
	start := p.pos
	lv, lvOK := p.tryParseLValueAt(start)
	if lvOK && lv.endPos < len(p.toks) && p.toks[lv.endPos].Kind == lexer.Keyword && p.toks[lv.endPos].Fold == "is" {
		p.pos = lv.endPos
		p.advance() // 'is'
		p.emitAssignment(lv, false, signature.Local, true)
		p.expectNewline()
		return
	}
	p.parseExpr()
	p.w.Op(bytecode.OpPop)
	p.expectNewline()
}

func (p *Parser) parseExternalStmt() {
	if !p.atRootFrame || !p.atRootScope {
		p.errorf("external must appear at root scope")
	}
	p.advance() // 'external'
	name, ok := p.expect(lexer.Name, "variable name")
	if !ok {
		return
	}
	id, idx := p.curFrame().declareInnermost(name.Fold)
	// No bytecode is emitted here: the VM seeds this stack slot from
	// bytecode.Program.Externals before the script's first Execute call, so
	// the host may call set_variable(name, ...) "before Execute" (spec
	// §4.4.1) rather than after program order reaches this statement.
	p.w.AddExternal(name.Fold, uint64(id), int32(idx))
	p.expectNewline()
}

func (p *Parser) parseSetStmt() {
	p.advance() // 'set'
	readonly := false
	if p.atKeyword("readonly") {
		readonly = true
		p.advance()
	}
	vis := signature.Local
	if p.atKeyword("private") {
		vis = signature.Private
		p.advance()
	} else if p.atKeyword("public") {
		vis = signature.Public
		p.advance()
	}
	if readonly && vis == signature.Local {
		p.errorf("readonly requires private or public")
	}
	lv, ok := p.tryParseLValueAt(p.pos)
	if !ok {
		p.errorf("expected assignment target")
		return
	}
	p.pos = lv.endPos
	if p.atKeyword("to") {
		p.advance()
	} else if p.atKeyword("is") {
		p.advance()
	} else {
		p.errorf("expected 'to' or 'is' in set statement")
		return
	}
	p.emitAssignment(lv, readonly, vis, true)
	p.expectNewline()
}

func (p *Parser) parseIncDecStmt() {
	dec := p.atKeyword("decrement")
	p.advance() // increment|decrement
	lv, ok := p.tryParseLValueAt(p.pos)
	if !ok {
		p.errorf("expected variable after increment/decrement")
		return
	}
	p.pos = lv.endPos

	rt, ok := p.resolveName(lv.name)
	if !ok {
		p.errorf("unresolved name %q", lv.name)
		return
	}
	if lv.subscript {
		p.emitKeyExpr(lv)
		p.w.Op(bytecode.OpPushTop)
		if rt.isVar {
			p.w.Op(bytecode.OpPushVarKey)
			p.w.U64(uint64(rt.varID))
		} else {
			p.w.Op(bytecode.OpPushPropKeyVal)
			p.w.U64(uint64(rt.prop.ID))
		}
	} else {
		p.emitPushLValue(lv)
	}
	if p.atKeyword("by") {
		p.advance()
		p.parseExprStopAt(nil)
	} else {
		p.w.Op(bytecode.OpPushVal)
		p.w.Value(oneVariant())
	}
	if dec {
		p.w.Op(bytecode.OpDecrement)
	} else {
		p.w.Op(bytecode.OpIncrement)
	}
	if lv.subscript {
		if rt.isVar {
			p.w.Op(bytecode.OpSetVarKey)
			p.w.U64(uint64(rt.varID))
		} else {
			p.w.Op(bytecode.OpSetPropKeyVal)
			p.w.U64(uint64(rt.prop.ID))
		}
	} else {
		p.emitStoreLValue(lv)
	}
	p.expectNewline()
}

func (p *Parser) parseIfStmt() {
	p.advance() // 'if'
	p.parseExprStopAt(nil)
	p.expectNewline()
	jfAddr := p.w.Op(bytecode.OpJumpFalse)
	patch := p.w.ReserveAddress()
	p.pushScope()
	p.parseBlock("else", "end")
	p.popScope()
	endPatches := []int{}
	for p.atKeyword("else") {
		p.advance()
		p.w.Op(bytecode.OpJump)
		endPatch := p.w.ReserveAddress()
		endPatches = append(endPatches, endPatch)
		p.w.PatchAddress(patch, uint32(p.w.Len()))
		if p.atKeyword("if") {
			p.advance()
			p.parseExprStopAt(nil)
			p.expectNewline()
			jfAddr = p.w.Op(bytecode.OpJumpFalse)
			patch = p.w.ReserveAddress()
			p.pushScope()
			p.parseBlock("else", "end")
			p.popScope()
		} else {
			p.expectNewline()
			p.pushScope()
			p.parseBlock("end")
			p.popScope()
			patch = -1
			break
		}
	}
	end := uint32(p.w.Len())
	if patch >= 0 {
		p.w.PatchAddress(patch, end)
	}
	for _, ep := range endPatches {
		p.w.PatchAddress(ep, end)
	}
	p.expectKeyword("end")
	p.expectNewline()
}

func (p *Parser) pushScope() { p.curFrame().pushScope(); p.atRootScope = false }
func (p *Parser) popScope()  { p.curFrame().popScope() }

func (p *Parser) parseLoopStmt() {
	p.advance() // 'loop'
	f := p.curFrame()
	f.pushLoop()
	defer func() {
		targets := f.popLoop()
		end := uint32(p.w.Len())
		for _, t := range targets {
			p.w.PatchAddress(t, end)
		}
	}()

	var loopName string
	if p.at(lexer.Name) {
		loopName = p.cur().Fold
		p.advance()
	}

	switch {
	case p.atKeyword("from"):
		p.advance()
		// Counter/limit/step must be real declared variables, not raw
		// operand-stack temporaries: they have to survive for the loop's
		// whole duration, and the body below them is free to declare its
		// own variables via SetIndex at whatever the next free slot is -
		// if that slot is a temporary's absolute stack position instead of
		// a reserved one, the body's `set` would overwrite the loop's own
		// state (see DESIGN.md).
		p.pushScope()
		p.parseExprStopAt(map[string]bool{"to": true})
		counterID, counterIdx := p.declareHiddenVar(f)
		p.expectKeyword("to")
		p.parseExprStopAt(map[string]bool{"by": true})
		limitID, limitIdx := p.declareHiddenVar(f)
		if p.atKeyword("by") {
			p.advance()
			p.parseExprStopAt(nil)
		} else {
			p.w.Op(bytecode.OpPushVal)
			p.w.Value(oneVariant())
		}
		stepID, stepIdx := p.declareHiddenVar(f)
		bindName := loopName != ""
		var nameID signature.RuntimeID
		var nameIdx int
		if bindName {
			nameID, nameIdx = f.declareInnermost(loopName)
		}
		p.expectNewline()
		start := uint32(p.w.Len())
		p.emitPushVarID(counterID)
		if bindName {
			// Capture the counter's value for this iteration into NAME
			// before LoopCount advances it for the next one.
			p.w.Op(bytecode.OpPushTop)
			p.emitSetIndex(nameID, nameIdx)
		}
		p.emitPushVarID(limitID)
		p.emitPushVarID(stepID)
		p.w.Op(bytecode.OpLoopCount)
		p.w.Op(bytecode.OpJumpFalse)
		exitPatch := p.w.ReserveAddress()
		// LoopCount left [next, limit, step] on the stack when continuing;
		// spill them back into their slots before the body runs so a
		// body-declared variable can never land on top of them.
		p.emitSetIndex(stepID, stepIdx)
		p.emitSetIndex(limitID, limitIdx)
		p.emitSetIndex(counterID, counterIdx)
		p.parseBlock("end")
		p.w.Op(bytecode.OpJump)
		p.w.U32(start)
		p.w.PatchAddress(exitPatch, uint32(p.w.Len()))
		p.popScope()
		p.expectKeyword("end")
		p.expectNewline()
	case p.atKeyword("over"):
		p.advance()
		p.pushScope()
		p.parseExprStopAt(nil)
		// Duplicate the collection: the iterator's SetIndex below writes to
		// the absolute slot the original collection occupies.
		p.w.Op(bytecode.OpPushTop)
		p.w.Op(bytecode.OpPushItr) // peeks the collection, pushes Iterator on top
		itrID, _ := p.declareHiddenVar(f)
		p.w.Op(bytecode.OpPop) // the duplicate collection OpPushItr peeked; the Iterator keeps its own reference
		bindName := loopName != ""
		var nameID signature.RuntimeID
		var nameIdx int
		if bindName {
			nameID, nameIdx = f.declareInnermost(loopName)
		}
		p.expectNewline()
		start := uint32(p.w.Len())
		p.emitPushVarID(itrID)
		p.w.Op(bytecode.OpLoopOver)
		exitPatch := p.w.ReserveAddress()
		// On the continue path LoopOver pushed the current element's
		// value; bind it to NAME, or drop it if the loop didn't name one.
		if bindName {
			p.emitSetIndex(nameID, nameIdx)
		} else {
			p.w.Op(bytecode.OpPop)
		}
		p.parseBlock("end")
		p.w.Op(bytecode.OpJump)
		p.w.U32(start)
		p.w.PatchAddress(exitPatch, uint32(p.w.Len()))
		p.popScope()
		p.expectKeyword("end")
		p.expectNewline()
	case p.atKeyword("while") || p.atKeyword("until"):
		until := p.atKeyword("until")
		p.advance()
		start := uint32(p.w.Len())
		p.parseExprStopAt(nil)
		if until {
			p.w.Op(bytecode.OpNot)
		}
		exitAddr := p.w.Op(bytecode.OpJumpFalse)
		exitPatch := p.w.ReserveAddress()
		_ = exitAddr
		p.expectNewline()
		p.pushScope()
		p.parseBlock("end")
		p.popScope()
		p.w.Op(bytecode.OpJump)
		p.w.U32(start)
		p.w.PatchAddress(exitPatch, uint32(p.w.Len()))
		p.expectKeyword("end")
		p.expectNewline()
	case p.at(lexer.Newline):
		// post-test form: loop \n <block> \n while|until <expr>
		p.expectNewline()
		start := uint32(p.w.Len())
		p.pushScope()
		p.parseBlock("while", "until")
		p.popScope()
		until := p.atKeyword("until")
		if !p.expectKeywordEither("while", "until") {
			return
		}
		p.parseExprStopAt(nil)
		if until {
			p.w.Op(bytecode.OpNot)
		}
		p.w.Op(bytecode.OpJumpTrue)
		p.w.U32(start)
		p.expectNewline()
	default:
		p.errorf("expected from/over/while/until or newline after loop")
	}
}

func (p *Parser) expectKeywordEither(a, b string) bool {
	if p.atKeyword(a) {
		p.advance()
		return true
	}
	if p.atKeyword(b) {
		p.advance()
		return true
	}
	p.errorf("expected %q or %q", a, b)
	return false
}

func (p *Parser) parseBreakStmt() {
	p.advance() // 'break'
	f := p.curFrame()
	if !f.inLoop() {
		p.errorf("break outside of loop")
	} else {
		addr := p.w.Op(bytecode.OpJump)
		patch := p.w.ReserveAddress()
		_ = addr
		f.addBreakTarget(patch)
	}
	p.expectNewline()
}

func (p *Parser) parseReturnStmt() {
	p.advance() // 'return'
	f := p.curFrame()
	f.sawReturn = true
	if p.at(lexer.Newline) || p.at(lexer.EOF) {
		p.w.Op(bytecode.OpPushVal)
		p.w.Value(nullVariant())
	} else {
		p.parseCollectionOrListExpr()
	}
	p.w.Op(bytecode.OpReturn)
	p.expectNewline()
}

func (p *Parser) parseWaitStmt() {
	p.advance() // 'wait'
	if p.atKeyword("while") || p.atKeyword("until") {
		until := p.atKeyword("until")
		p.advance()
		start := uint32(p.w.Len())
		p.parseExprStopAt(nil)
		if until {
			p.w.Op(bytecode.OpNot)
		}
		exitAddr := p.w.Op(bytecode.OpJumpFalse)
		exitPatch := p.w.ReserveAddress()
		_ = exitAddr
		p.w.Op(bytecode.OpWait)
		p.w.Op(bytecode.OpJump)
		p.w.U32(start)
		p.w.PatchAddress(exitPatch, uint32(p.w.Len()))
	} else {
		p.w.Op(bytecode.OpWait)
	}
	p.expectNewline()
}

func (p *Parser) parseEraseStmt() {
	p.advance() // 'erase'
	lv, ok := p.tryParseLValueAt(p.pos)
	if !ok {
		p.errorf("expected erase target")
		return
	}
	p.pos = lv.endPos
	p.emitErase(lv)
	p.expectNewline()
}

func oneVariant() value.Variant  { return value.NewInteger(1) }
func nullVariant() value.Variant { return value.NewNull() }

// declareHiddenVar reserves a fresh variable slot in f for loop-internal
// state (counter/limit/step, the over-loop's iterator) and pops the value
// currently on top of the stack into it. The declared name can never be
// typed by a script (folded identifiers never contain NUL), so it is only
// ever reached again through the returned RuntimeID/index, never by name
// lookup.
func (p *Parser) declareHiddenVar(f *varFrame) (signature.RuntimeID, int) {
	id, idx := f.declareInnermost("\x00loop")
	p.emitSetIndex(id, idx)
	return id, idx
}

func (p *Parser) emitPushVarID(id signature.RuntimeID) {
	p.w.Op(bytecode.OpPushVar)
	p.w.U64(uint64(id))
}

// emitSetIndex pops the value on top of the stack into the variable slot
// id/idx, unchanged (no cast).
func (p *Parser) emitSetIndex(id signature.RuntimeID, idx int) {
	p.w.Op(bytecode.OpSetIndex)
	p.w.U64(uint64(id))
	p.w.I32(int32(idx))
	p.w.U8(byte(value.Any))
}

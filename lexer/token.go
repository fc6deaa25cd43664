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

// Package lexer turns Jinx source text into a symbol stream (spec §4.2):
// case-folded names, literals, keywords and punctuation, each carrying
// line/column position for diagnostics.
package lexer

// Kind discriminates a Token.
type Kind uint8

const (
	Name Kind = iota
	Keyword
	StringLit
	NumberLit
	IntegerLit
	BooleanLit
	Newline
	EOF

	// punctuation / operators
	Slash
	Star
	Plus
	Minus
	Equals
	NotEquals
	Percent
	Comma
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Less
	LessEq
	Greater
	GreaterEq
)

var kindNames = map[Kind]string{
	Name: "name", Keyword: "keyword", StringLit: "string", NumberLit: "number",
	IntegerLit: "integer", BooleanLit: "boolean", Newline: "newline", EOF: "eof",
	Slash: "/", Star: "*", Plus: "+", Minus: "-", Equals: "=", NotEquals: "!=",
	Percent: "%", Comma: ",", LParen: "(", RParen: ")", LBrace: "{", RBrace: "}",
	LBracket: "[", RBracket: "]", Less: "<", LessEq: "<=", Greater: ">", GreaterEq: ">=",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "?"
}

// Token is one element of the symbol stream.
type Token struct {
	Kind   Kind
	Text   string // raw text (Name: case-folded text is Fold; Keyword: canonical spelling); String: decoded content
	Fold   string // case-folded text, valid when Kind == Name
	Num    float64
	Int    int64
	Bool   bool
	Line   int
	Column int
}

// Keywords is the fixed reserved-word table (spec §4.2), excluding the
// boolean literals which lex as BooleanLit instead of Keyword.
var Keywords = map[string]bool{
	"and": true, "as": true, "begin": true, "boolean": true, "break": true,
	"by": true, "collection": true, "decrement": true, "else": true, "end": true,
	"erase": true, "external": true, "from": true, "function": true, "guid": true,
	"if": true, "import": true, "increment": true, "integer": true, "is": true,
	"library": true, "loop": true, "not": true, "null": true, "number": true,
	"object": true, "or": true, "over": true, "private": true, "public": true,
	"readonly": true, "return": true, "set": true, "string": true, "to": true,
	"type": true, "until": true, "wait": true, "while": true,
}

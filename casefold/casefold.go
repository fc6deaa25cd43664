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

// Package casefold provides the identifier-equivalence case folding the
// lexer applies to every Name token (spec §4.2). The reference
// implementation embeds a static table generated from Unicode's
// CaseFolding.txt (C and F mappings, excluding S and T) and is explicit
// that the generator is a build-time tool out of scope for the runtime
// (spec §1, §9). golang.org/x/text/cases implements exactly that
// full-case-folding algorithm against the same Unicode data, so Jinx wires
// it in here instead of hand-rolling or vendoring a fold table — the
// spec's build-time-generator carve-out becomes moot once the folding
// itself comes from a maintained library rather than Jinx's own table.
package casefold

import "golang.org/x/text/cases"

var folder = cases.Fold()

// Fold returns the case-folded form of s, used both to compare Name tokens
// for identifier equivalence and as the normalized key under which
// variables, functions and properties are looked up.
func Fold(s string) string {
	return folder.String(s)
}

// Equal reports whether a and b are the same identifier once folded.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}

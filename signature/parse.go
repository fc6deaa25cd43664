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

package signature

import (
	"fmt"
	"strings"

	"github.com/launix-de/jinx/value"
)

// ParseString parses a host-facing registration signature string (spec §6
// Library API: "signature string uses {} or {TypeName} for parameters, /
// for alternates, () for optional name parts; name parts are
// whitespace-separated.").
func ParseString(s string) ([]Part, error) {
	words := strings.Fields(s)
	parts := make([]Part, 0, len(words))
	for _, w := range words {
		if strings.HasPrefix(w, "{") {
			p, err := parseParam(w)
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
			continue
		}
		optional := false
		body := w
		if strings.HasPrefix(body, "(") && strings.HasSuffix(body, ")") {
			optional = true
			body = body[1 : len(body)-1]
		}
		if body == "" {
			return nil, fmt.Errorf("signature: empty name part in %q", s)
		}
		alts := strings.Split(body, "/")
		for i := range alts {
			alts[i] = FoldName(alts[i])
		}
		parts = append(parts, Part{Kind: NamePart, Names: alts, Optional: optional})
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("signature: empty signature string")
	}
	return parts, nil
}

func parseParam(w string) (Part, error) {
	if !strings.HasSuffix(w, "}") {
		return Part{}, fmt.Errorf("signature: malformed parameter %q", w)
	}
	inner := w[1 : len(w)-1]
	if inner == "" {
		return Part{Kind: ParamPart}, nil
	}
	k, ok := kindByName(inner)
	if !ok {
		return Part{}, fmt.Errorf("signature: unknown parameter type %q", inner)
	}
	return Part{Kind: ParamPart, Typed: true, Type: k}, nil
}

var typeNames = map[string]value.Kind{
	"null": value.Null, "number": value.Number, "integer": value.Integer,
	"boolean": value.Boolean, "string": value.String, "collection": value.Collect,
	"object": value.UserObject, "buffer": value.BufferKind, "guid": value.GuidKind,
	"type": value.ValType, "any": value.Any,
}

func kindByName(name string) (value.Kind, bool) {
	k, ok := typeNames[FoldName(name)]
	return k, ok
}

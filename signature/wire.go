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

	"github.com/launix-de/jinx/bytecode"
	"github.com/launix-de/jinx/value"
)

// Encode writes sig as the operand of a Function opcode (spec §4.4.3
// "Function — FunctionSignature").
func (s *Signature) Encode(w *bytecode.Writer) {
	w.U64(uint64(s.ID))
	w.U8(byte(s.Visibility))
	w.U8(boolByte(s.Returns))
	w.U32(uint32(len(s.Parts)))
	for _, part := range s.Parts {
		if part.Kind == NamePart {
			w.U8(0)
			w.U8(boolByte(part.Optional))
			w.U8(byte(len(part.Names)))
			for _, n := range part.Names {
				w.String(n)
			}
			continue
		}
		w.U8(1)
		w.U8(boolByte(part.Typed))
		w.U8(byte(part.Type))
		w.String(part.ParamName)
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// DecodeSignature reads back a Signature written by Encode.
func DecodeSignature(r *bytecode.Reader) (*Signature, error) {
	id, err := r.RuntimeID()
	if err != nil {
		return nil, err
	}
	vis, err := r.U8()
	if err != nil {
		return nil, err
	}
	returns, err := r.U8()
	if err != nil {
		return nil, err
	}
	count, err := r.U32()
	if err != nil {
		return nil, err
	}
	sig := &Signature{ID: RuntimeID(id), Visibility: Visibility(vis), Returns: returns != 0}
	for i := uint32(0); i < count; i++ {
		kind, err := r.U8()
		if err != nil {
			return nil, err
		}
		if kind == 0 {
			optional, err := r.U8()
			if err != nil {
				return nil, err
			}
			n, err := r.U8()
			if err != nil {
				return nil, err
			}
			names := make([]string, n)
			for j := range names {
				names[j], err = r.String()
				if err != nil {
					return nil, err
				}
			}
			sig.Parts = append(sig.Parts, Part{Kind: NamePart, Optional: optional != 0, Names: names})
			continue
		}
		if kind != 1 {
			return nil, fmt.Errorf("signature: unknown part kind %d", kind)
		}
		typed, err := r.U8()
		if err != nil {
			return nil, err
		}
		typ, err := r.U8()
		if err != nil {
			return nil, err
		}
		name, err := r.String()
		if err != nil {
			return nil, err
		}
		sig.Parts = append(sig.Parts, Part{Kind: ParamPart, Typed: typed != 0, Type: value.Kind(typ), ParamName: name})
		sig.ParamCount++
	}
	return sig, nil
}

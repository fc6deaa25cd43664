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

package value

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Marshal writes v's wire encoding (type-tag + payload) to w, per spec §3
// "Serialization: Variants serialize type-tag + payload;
// Collection/CollectionItr/UserObject do not persist contents (tag only)".
// This is also the encoding used by the PushVal bytecode operand (spec
// §4.4.3). Supplemented from original_source/Source/JxSerialize.cpp, which
// the distillation only summarized.
func (v Variant) Marshal(w io.Writer) error {
	if _, err := w.Write([]byte{byte(v.kind)}); err != nil {
		return err
	}
	switch v.kind {
	case Null, Collect, CollectItr, UserObject:
		return nil // tag only
	case Number:
		return binary.Write(w, binary.LittleEndian, v.num)
	case Integer:
		return binary.Write(w, binary.LittleEndian, v.i)
	case Boolean:
		b := byte(0)
		if v.b {
			b = 1
		}
		_, err := w.Write([]byte{b})
		return err
	case String:
		return writeString(w, v.str)
	case GuidKind:
		_, err := w.Write(v.guid[:])
		return err
	case ValType:
		_, err := w.Write([]byte{byte(v.vt)})
		return err
	case BufferKind:
		var data []byte
		if v.buf != nil {
			data = v.buf.Bytes()
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
			return err
		}
		_, err := w.Write(data)
		return err
	default:
		return fmt.Errorf("value: cannot marshal kind %s", v.kind)
	}
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	_, err := w.Write([]byte{0})
	return err
}

// Unmarshal reads a Variant written by Marshal. Collection/CollectionItr/
// UserObject round-trip as an empty value of the same kind, since their
// contents are never persisted.
func Unmarshal(r io.Reader) (Variant, error) {
	var tagByte [1]byte
	if _, err := io.ReadFull(r, tagByte[:]); err != nil {
		return Variant{}, err
	}
	kind := Kind(tagByte[0])
	switch kind {
	case Null:
		return NewNull(), nil
	case Collect:
		return NewCollectionValue(NewCollection()), nil
	case CollectItr:
		return NewIterator(NewIteratorAtBegin(NewCollection())), nil
	case UserObject:
		return NewUserObject(nil), nil
	case Number:
		var f float64
		if err := binary.Read(r, binary.LittleEndian, &f); err != nil {
			return Variant{}, err
		}
		return NewNumber(f), nil
	case Integer:
		var i int64
		if err := binary.Read(r, binary.LittleEndian, &i); err != nil {
			return Variant{}, err
		}
		return NewInteger(i), nil
	case Boolean:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Variant{}, err
		}
		return NewBoolean(b[0] != 0), nil
	case String:
		s, err := readString(r)
		if err != nil {
			return Variant{}, err
		}
		return NewString(s), nil
	case GuidKind:
		var g [16]byte
		if _, err := io.ReadFull(r, g[:]); err != nil {
			return Variant{}, err
		}
		var u [16]byte
		copy(u[:], g[:])
		return NewGuid(u), nil
	case ValType:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Variant{}, err
		}
		return NewValType(Kind(b[0])), nil
	case BufferKind:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return Variant{}, err
		}
		data := make([]byte, n)
		if _, err := io.ReadFull(r, data); err != nil {
			return Variant{}, err
		}
		return NewBufferValue(NewBuffer(data)), nil
	default:
		return Variant{}, fmt.Errorf("value: cannot unmarshal kind %d", kind)
	}
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return "", err
	}
	var nul [1]byte
	if _, err := io.ReadFull(r, nul[:]); err != nil {
		return "", err
	}
	return string(data), nil
}

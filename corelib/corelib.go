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

// Package corelib implements the "core" library (spec §6 "Core library
// surface"): the handful of built-ins a script reaches via `import core`
// rather than through its own bytecode. Grounded on the teacher's
// scm/declare.go, which registers its builtins as plain Go closures against
// a single shared Globalenv; Jinx generalizes that one step further by
// routing registration through Runtime.RegisterFunction/RegisterProperty so
// "core" is an ordinary Library like any host embedder's own, not a
// special-cased VM intrinsic.
package corelib

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/launix-de/jinx/jinx"
	"github.com/launix-de/jinx/signature"
	"github.com/launix-de/jinx/value"
)

// LibraryName is the name scripts use in `import core` to see these
// signatures (spec §8 scenario 5 "import core").
const LibraryName = "core"

// Output is where `write`/`write line` send their text; it defaults to
// os.Stdout and may be redirected by an embedding host (e.g. to capture
// output in tests) before Register is called.
var Output io.Writer = os.Stdout

// Register installs every core builtin into rt's "core" library (spec §6
// "Core library surface"). A host wires this in once per Runtime, exactly
// like any of its own register_function/register_property calls.
func Register(rt *jinx.Runtime) {
	must(rt.RegisterFunction(LibraryName, signature.Public, "write {}", fnWrite(false)))
	must(rt.RegisterFunction(LibraryName, signature.Public, "write line {}", fnWrite(true)))

	must(rt.RegisterFunction(LibraryName, signature.Public, "{} (get) size", fnSize))
	must(rt.RegisterFunction(LibraryName, signature.Public, "{} (get) (is) empty", fnEmpty))

	must(rt.RegisterFunction(LibraryName, signature.Public, "add {} to {}", fnAddTo))
	must(rt.RegisterFunction(LibraryName, signature.Public, "remove {} from {}", fnRemoveFrom))
	must(rt.RegisterFunction(LibraryName, signature.Public, "remove value {} from {}", fnRemoveValueFrom))
	must(rt.RegisterFunction(LibraryName, signature.Public, "remove values {} from {}", fnRemoveValueFrom))

	must(rt.RegisterFunction(LibraryName, signature.Public, "variable {}", fnGetVariable))
	must(rt.RegisterFunction(LibraryName, signature.Public, "set variable {} to {}", fnSetVariable))

	must(rt.RegisterFunction(LibraryName, signature.Public, "call stack", fnCallStack))

	rt.RegisterProperty(LibraryName, signature.Public, "newline", true, value.NewString("\n"))
}

// must panics on a registration error: every signature string above is a
// compile-time constant, so a failure here is a programming mistake in this
// file, not a runtime condition a caller could recover from.
func must(_ signature.RuntimeID, err error) {
	if err != nil {
		panic(fmt.Sprintf("corelib: %v", err))
	}
}

// fnWrite implements `write {}` / `write line {}` (spec §6: "variadic via
// collections: writes collection elements sequentially; other types
// coerced to String").
func fnWrite(line bool) jinx.NativeFunc {
	return func(_ *jinx.Script, params []value.Variant) (value.Variant, error) {
		writeVariant(Output, params[0])
		if line {
			fmt.Fprint(Output, "\n")
		}
		return value.NewNull(), nil
	}
}

func writeVariant(w io.Writer, v value.Variant) {
	if v.Kind() == value.Collect {
		v.CollectionValue().Range(func(_, val value.Variant) bool {
			writeVariant(w, val)
			return true
		})
		return
	}
	fmt.Fprint(w, v.String())
}

// fnSize implements `{} size` on Collection, String, Buffer (spec §6).
func fnSize(_ *jinx.Script, params []value.Variant) (value.Variant, error) {
	v := params[0]
	switch v.Kind() {
	case value.Collect:
		return value.NewInteger(int64(v.CollectionValue().Len())), nil
	case value.String:
		return value.NewInteger(int64(len(v.StringValue()))), nil
	case value.BufferKind:
		return value.NewInteger(int64(v.BufferValue().Len())), nil
	default:
		return value.Variant{}, fmt.Errorf("size: %s has no size", v.Kind())
	}
}

// fnEmpty implements `{} is empty` on Collection, String, Buffer (spec §6).
func fnEmpty(_ *jinx.Script, params []value.Variant) (value.Variant, error) {
	sz, err := fnSize(nil, params)
	if err != nil {
		return value.Variant{}, err
	}
	return value.NewBoolean(sz.IntegerValue() == 0), nil
}

// fnAddTo implements `add {} to {}` (spec §6: "merges a collection or
// appends a scalar; keys collide -> auto-increment"). The target
// Collection is mutated in place: Collections have shared-ownership
// semantics (value/collection.go), so the caller's variable sees the
// result without a SetVariable round-trip.
func fnAddTo(_ *jinx.Script, params []value.Variant) (value.Variant, error) {
	item, target := params[0], params[1]
	if target.Kind() != value.Collect {
		return value.Variant{}, fmt.Errorf("add to: target is not a collection")
	}
	coll := target.CollectionValue()
	if item.Kind() == value.Collect {
		item.CollectionValue().Range(func(k, v value.Variant) bool {
			if _, exists := coll.Get(k); exists {
				coll.Append(v)
			} else {
				coll.Set(k, v)
			}
			return true
		})
	} else {
		coll.Append(item)
	}
	return target, nil
}

// fnRemoveFrom implements `remove {} from {}` (spec §6: "by key or keys").
func fnRemoveFrom(_ *jinx.Script, params []value.Variant) (value.Variant, error) {
	keys, target := params[0], params[1]
	if target.Kind() != value.Collect {
		return value.Variant{}, fmt.Errorf("remove from: target is not a collection")
	}
	coll := target.CollectionValue()
	if keys.Kind() == value.Collect {
		keys.CollectionValue().Range(func(_, k value.Variant) bool {
			coll.Delete(k)
			return true
		})
	} else {
		coll.Delete(keys)
	}
	return target, nil
}

// fnRemoveValueFrom implements `remove value(s) {} from {}` (spec §6: "by
// value match").
func fnRemoveValueFrom(_ *jinx.Script, params []value.Variant) (value.Variant, error) {
	needles, target := params[0], params[1]
	if target.Kind() != value.Collect {
		return value.Variant{}, fmt.Errorf("remove value from: target is not a collection")
	}
	coll := target.CollectionValue()
	match := func(v value.Variant) bool {
		if needles.Kind() == value.Collect {
			found := false
			needles.CollectionValue().Range(func(_, n value.Variant) bool {
				if value.Equal(v, n) {
					found = true
					return false
				}
				return true
			})
			return found
		}
		return value.Equal(v, needles)
	}
	var dead []value.Variant
	coll.Range(func(k, v value.Variant) bool {
		if match(v) {
			dead = append(dead, k)
		}
		return true
	})
	for _, k := range dead {
		coll.Delete(k)
	}
	return target, nil
}

// fnGetVariable implements `variable {}` (spec §6: "dynamic name access
// into the calling script"), delegating to the same external/property name
// resolution Script.GetVariable exposes to hosts.
func fnGetVariable(s *jinx.Script, params []value.Variant) (value.Variant, error) {
	name := strings.TrimSpace(params[0].String())
	v, ok := s.GetVariable(name)
	if !ok {
		return value.Variant{}, fmt.Errorf("variable: no such variable %q", name)
	}
	return v, nil
}

// fnSetVariable implements `set variable {} to {}` (spec §6).
func fnSetVariable(s *jinx.Script, params []value.Variant) (value.Variant, error) {
	name := strings.TrimSpace(params[0].String())
	if !s.SetVariable(name, params[1]) {
		return value.Variant{}, fmt.Errorf("set variable: no such variable %q", name)
	}
	return value.NewNull(), nil
}

// fnCallStack implements `call stack` (spec §6: "Collection of
// function-name Strings, outermost first").
func fnCallStack(s *jinx.Script, _ []value.Variant) (value.Variant, error) {
	coll := value.NewCollection()
	for _, name := range s.CallStackNames() {
		coll.Append(value.NewString(name))
	}
	return value.NewCollectionValue(coll), nil
}

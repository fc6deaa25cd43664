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

package jinx

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/launix-de/NonLockingReadMap"
	lz4 "github.com/pierrec/lz4/v4"
	"golang.org/x/sync/errgroup"

	"github.com/launix-de/jinx/bytecode"
	"github.com/launix-de/jinx/parser"
	"github.com/launix-de/jinx/signature"
	"github.com/launix-de/jinx/value"
)

// NativeFunc is a host-registered function callback (spec §6
// "register_function"). It receives the calling Script so it can read/write
// variables, recurse into call_function, etc.
type NativeFunc func(s *Script, params []value.Variant) (value.Variant, error)

// funcEntry is the NonLockingReadMap element for Runtime.functions: native
// callbacks only (spec §9 "Global registries ... Runtime handle"). A
// script-declared (always-Local) function is never stored here — it lives
// in its own Script's local function table, registered at runtime when the
// owning Script executes its Function opcode, since local RuntimeIDs are
// random per compile and must not leak across unrelated scripts sharing a
// Runtime (see DESIGN.md).
type funcEntry struct {
	id       uint64
	arity    int
	callback NativeFunc
}

func (f funcEntry) GetKey() uint64    { return f.id }
func (f funcEntry) ComputeSize() uint { return 48 }

// propSlot is one live property value plus its read-only flag (spec §3
// "Runtime: properties: RuntimeID → Variant (plus a read-only flag enforced
// at parse time)").
type propSlot struct {
	value    value.Variant
	readOnly bool
}

// propertyShards is the sharded-mutex property-value store spec §9
// prescribes directly ("Mutex sharding: use an array of locks keyed by
// id % N; N=8 is sufficient") rather than NonLockingReadMap: property
// values are written on nearly every Script tick (scenario 4 increments one
// every Execute), which is the write-heavy case NonLockingReadMap's own
// doc comment says not to use it for ("write in O(N*log N) ... use this map
// if you read often but write very seldom") — see DESIGN.md.
const propertyShardCount = 8

type propertyShards struct {
	locks [propertyShardCount]sync.Mutex
	data  [propertyShardCount]map[uint64]*propSlot
}

func newPropertyShards() *propertyShards {
	ps := &propertyShards{}
	for i := range ps.data {
		ps.data[i] = make(map[uint64]*propSlot)
	}
	return ps
}

func (ps *propertyShards) shard(id uint64) int { return int(id % propertyShardCount) }

// define registers id's default value and read-only flag if absent; if the
// property already exists (registered earlier by this or another Script
// sharing the Runtime) its live value is left untouched, matching "Shared
// between Script instances" (spec §3 Runtime).
func (ps *propertyShards) define(id uint64, def value.Variant, readOnly bool) {
	i := ps.shard(id)
	ps.locks[i].Lock()
	defer ps.locks[i].Unlock()
	if _, ok := ps.data[i][id]; !ok {
		ps.data[i][id] = &propSlot{value: def, readOnly: readOnly}
	}
}

func (ps *propertyShards) get(id uint64) (value.Variant, bool) {
	i := ps.shard(id)
	ps.locks[i].Lock()
	defer ps.locks[i].Unlock()
	s, ok := ps.data[i][id]
	if !ok {
		return value.Variant{}, false
	}
	return s.value, true
}

func (ps *propertyShards) isReadOnly(id uint64) bool {
	i := ps.shard(id)
	ps.locks[i].Lock()
	defer ps.locks[i].Unlock()
	s, ok := ps.data[i][id]
	return ok && s.readOnly
}

func (ps *propertyShards) set(id uint64, v value.Variant) {
	i := ps.shard(id)
	ps.locks[i].Lock()
	defer ps.locks[i].Unlock()
	if s, ok := ps.data[i][id]; ok {
		s.value = v
		return
	}
	ps.data[i][id] = &propSlot{value: v}
}

// update applies fn to id's current value under that shard's lock alone,
// the "update-via-closure" mutation spec §4.7 calls for so a SetVarKey-style
// structural edit (insert one key into a Collection property) never copies
// the whole value under the lock.
func (ps *propertyShards) update(id uint64, fn func(value.Variant) value.Variant) {
	i := ps.shard(id)
	ps.locks[i].Lock()
	defer ps.locks[i].Unlock()
	s, ok := ps.data[i][id]
	if !ok {
		s = &propSlot{}
		ps.data[i][id] = s
	}
	s.value = fn(s.value)
}

func (ps *propertyShards) erase(id uint64) {
	i := ps.shard(id)
	ps.locks[i].Lock()
	defer ps.locks[i].Unlock()
	delete(ps.data[i], id)
}

// Runtime is a process-level-shared registry (spec §3 "Runtime"): library
// table, function table, property values, and perf counters. One Runtime is
// typically created per host "world" and shared by every Script it compiles.
type Runtime struct {
	params GlobalParams

	libMu sync.RWMutex
	libs  map[string]*signature.Library

	functions NonLockingReadMap.NonLockingReadMap[funcEntry, uint64]
	properties *propertyShards

	stats atomicStats
}

// atomicStats backs PerformanceStats with individually-atomic counters
// (spec §5 "library/function/property mutations are atomic individually").
type atomicStats struct {
	compileTime      int64
	executeTime      int64
	instructionCount uint64
	scriptsStarted   uint64
	scriptsCompleted uint64
}

// NewRuntime constructs a Runtime; a zero-value GlobalParams{} yields the
// documented defaults (spec §6 GlobalParams, §4.7 "process init").
func NewRuntime(params GlobalParams) *Runtime {
	return &Runtime{
		params:     params.withDefaults(),
		libs:       make(map[string]*signature.Library),
		functions:  NonLockingReadMap.New[funcEntry, uint64](),
		properties: newPropertyShards(),
	}
}

func (r *Runtime) logf(level LogLevel, format string, args ...any) {
	if !r.params.EnableLogging {
		return
	}
	r.params.LogFn(level, fmt.Sprintf(format, args...))
}

// GetOrCreateLibrary implements parser.LibraryProvider and spec §6
// "Runtime.get_library(name) → Library (create-if-missing)".
func (r *Runtime) GetOrCreateLibrary(name string) *signature.Library {
	r.libMu.RLock()
	lib, ok := r.libs[name]
	r.libMu.RUnlock()
	if ok {
		return lib
	}
	r.libMu.Lock()
	defer r.libMu.Unlock()
	if lib, ok = r.libs[name]; ok {
		return lib
	}
	lib = signature.NewLibrary(name)
	r.libs[name] = lib
	return lib
}

// lookupLibrary returns the named library without creating it (used by
// Script.GetVariable/SetVariable's property-name resolution, which must not
// conjure a library into existence just by asking).
func (r *Runtime) lookupLibrary(name string) (*signature.Library, bool) {
	r.libMu.RLock()
	defer r.libMu.RUnlock()
	lib, ok := r.libs[name]
	return lib, ok
}

// RegisterFunction implements the Library API's `register_function` (spec
// §6): it parses the signature string, derives a stable library-scoped
// RuntimeID, registers the signature into the library's table (for parser
// call-matching) and the native callback into Runtime.functions (for
// CallFunc dispatch).
func (r *Runtime) RegisterFunction(libraryName string, vis signature.Visibility, sigString string, fn NativeFunc) (signature.RuntimeID, error) {
	lib := r.GetOrCreateLibrary(libraryName)
	parts, err := signature.ParseString(sigString)
	if err != nil {
		return 0, err
	}
	sig := &signature.Signature{Visibility: vis, Library: libraryName, Parts: parts}
	for _, p := range parts {
		if p.Kind == signature.ParamPart {
			sig.ParamCount++
		}
	}
	sig.ID = signature.HashLibraryID(sig.Canonical())
	lib.AddFunction(sig)
	r.functions.Set(&funcEntry{id: uint64(sig.ID), arity: sig.ParamCount, callback: fn})
	return sig.ID, nil
}

// RegisterProperty implements `register_property` (spec §6): defines the
// property on the library (for parser resolution) and seeds its live value
// if not already present.
func (r *Runtime) RegisterProperty(libraryName string, vis signature.Visibility, name string, readOnly bool, def value.Variant) signature.RuntimeID {
	lib := r.GetOrCreateLibrary(libraryName)
	folded := signature.FoldName(name)
	id := signature.HashLibraryID("prop:" + libraryName + ":" + folded)
	lib.DefineProperty(&signature.PropertyDef{ID: id, Name: folded, Visibility: vis, ReadOnly: readOnly, Default: def})
	r.properties.define(uint64(id), def, readOnly)
	return id
}

// Compile lexes and parses src into a bytecode.Program (spec §6
// "Runtime.compile(source, name?, imports?)").
func (r *Runtime) Compile(name string, src []byte, imports []string) (*bytecode.Program, []*parser.CompileError) {
	start := time.Now()
	prog, errs := parser.Compile(name, src, imports, r, r.params.EnableDebugInfo)
	atomic.AddInt64(&r.stats.compileTime, int64(time.Since(start)))
	if len(errs) > 0 {
		r.logf(LogError, "compile %q failed: %d error(s)", name, len(errs))
		return nil, errs
	}
	if r.params.LogBytecode {
		r.logf(LogDebug, "compiled %q: %d bytes", name, len(prog.Code))
	}
	return prog, nil
}

// CreateScript implements spec §6 "Runtime.create_script(bytecode,
// user_ctx?) → Script".
func (r *Runtime) CreateScript(prog *bytecode.Program, userCtx any) *Script {
	s := newScript(r, prog, userCtx)
	atomic.AddUint64(&r.stats.scriptsStarted, 1)
	return s
}

// ExecuteScript implements spec §6 "Runtime.execute_script(source, user_ctx?,
// name?, imports?) → Option<Script>": compiles and constructs a Script in
// one call, returning nil on a compile failure.
func (r *Runtime) ExecuteScript(source []byte, userCtx any, name string, imports []string) (*Script, []*parser.CompileError) {
	prog, errs := r.Compile(name, source, imports)
	if errs != nil {
		return nil, errs
	}
	return r.CreateScript(prog, userCtx), nil
}

// ExecuteAll drives Execute on every given Script concurrently on separate
// goroutines until each IsFinished(), using golang.org/x/sync/errgroup the
// way the domain-stack wiring table grounds it: "a convenience for hosts
// running many Scripts concurrently" (spec §5). A single Script's internal
// execution remains single-threaded/cooperative; only the host-level fan-out
// across independent Scripts is concurrent.
func (r *Runtime) ExecuteAll(scripts []*Script) error {
	var g errgroup.Group
	for _, s := range scripts {
		s := s
		g.Go(func() error {
			for !s.IsFinished() {
				if !s.Execute() {
					return s.err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// GetScriptPerformanceStats implements spec §6
// "Runtime.get_script_performance_stats(reset?)".
func (r *Runtime) GetScriptPerformanceStats(reset bool) PerformanceStats {
	stats := PerformanceStats{
		CompileTime:      atomic.LoadInt64(&r.stats.compileTime),
		ExecuteTime:      atomic.LoadInt64(&r.stats.executeTime),
		InstructionCount: atomic.LoadUint64(&r.stats.instructionCount),
		ScriptsStarted:   atomic.LoadUint64(&r.stats.scriptsStarted),
		ScriptsCompleted: atomic.LoadUint64(&r.stats.scriptsCompleted),
	}
	if reset {
		atomic.StoreInt64(&r.stats.compileTime, 0)
		atomic.StoreInt64(&r.stats.executeTime, 0)
		atomic.StoreUint64(&r.stats.instructionCount, 0)
		atomic.StoreUint64(&r.stats.scriptsStarted, 0)
		atomic.StoreUint64(&r.stats.scriptsCompleted, 0)
	}
	return stats
}

// StripDebugInfo implements spec §4.7/§6 "StripDebugInfo(bytecode)".
func (r *Runtime) StripDebugInfo(buf []byte) ([]byte, error) {
	return bytecode.StripDebugInfo(buf)
}

// lz4Magic precedes an lz4-compressed buffer written by SaveBytecode, so
// LoadBytecode can tell a compressed save apart from a raw wire buffer
// (which always starts with the 'JINX' signature instead).
var lz4Magic = [4]byte{'J', 'X', 'L', 'Z'}

// SaveBytecode serializes prog and optionally lz4-compresses the result for
// on-disk persistence (domain-stack wiring: "Runtime.SaveBytecode /
// LoadBytecode, optional on-disk bytecode compression"); the wire-format
// byte layout itself (spec §4.4.3) is never altered, only wrapped.
func (r *Runtime) SaveBytecode(prog *bytecode.Program, compress bool) ([]byte, error) {
	raw := prog.Encode()
	if !compress {
		return raw, nil
	}
	var out bytes.Buffer
	out.Write(lz4Magic[:])
	zw := lz4.NewWriter(&out)
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// LoadBytecode reverses SaveBytecode, transparently lz4-decompressing when
// the lz4Magic prefix is present.
func (r *Runtime) LoadBytecode(buf []byte) (*bytecode.Program, error) {
	if len(buf) >= 4 && bytes.Equal(buf[:4], lz4Magic[:]) {
		zr := lz4.NewReader(bytes.NewReader(buf[4:]))
		raw, err := io.ReadAll(zr)
		if err != nil {
			return nil, err
		}
		return bytecode.Decode(raw)
	}
	return bytecode.Decode(buf)
}

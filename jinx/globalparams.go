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
	"fmt"
	"os"
)

// LogLevel gates a LogFunc call (spec §6 GlobalParams "enable_logging").
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogError
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	case LogError:
		return "error"
	default:
		return "?"
	}
}

// LogFunc is the process-wide log sink hook (spec §6 "log_fn"). Jinx never
// owns a logger of its own, matching the teacher's texture of calling
// fmt.Printf/fmt.Fprintf directly rather than reaching for a structured
// logging framework (scm/scheduler.go "scheduler: task panic: %v").
type LogFunc func(level LogLevel, msg string)

// defaultLogFunc writes to stderr, installed when GlobalParams.LogFn is nil
// and EnableLogging is true.
func defaultLogFunc(level LogLevel, msg string) {
	fmt.Fprintf(os.Stderr, "jinx: %s: %s\n", level, msg)
}

// GlobalParams is the single process-init configuration surface (spec §6
// "GlobalParams (process init)"). A zero-value GlobalParams{} yields the
// documented defaults via NewRuntime.
type GlobalParams struct {
	EnableLogging  bool
	LogSymbols     bool
	LogBytecode    bool
	EnableDebugInfo bool
	LogFn          LogFunc

	// AllocBlockSize/AllocSpareBlocks are accepted for API parity with the
	// source's block-allocator tuning knobs but are inert: Go's runtime
	// allocator replaces the custom arena entirely (spec §9 "Thread-local
	// heap / block allocator ... treat as optional").
	AllocBlockSize   int
	AllocSpareBlocks int

	MaxInstructions        uint32
	ErrorOnMaxInstructions bool
}

const defaultMaxInstructions uint32 = 2000

func (g GlobalParams) withDefaults() GlobalParams {
	if g.MaxInstructions == 0 {
		g.MaxInstructions = defaultMaxInstructions
	}
	if g.LogFn == nil {
		g.LogFn = defaultLogFunc
	}
	return g
}

// PerformanceStats accumulates the counters spec §4.7 requires: "total
// compile time, execute time, instruction count, scripts started, scripts
// completed".
type PerformanceStats struct {
	CompileTime       int64 // nanoseconds
	ExecuteTime       int64 // nanoseconds
	InstructionCount  uint64
	ScriptsStarted    uint64
	ScriptsCompleted  uint64
}

// String renders the counters with human-readable durations (docker/go-units,
// spec's domain-stack wiring table: "PerformanceStats.String()"); counts are
// plain decimal integers.
func (s PerformanceStats) String() string {
	return fmt.Sprintf(
		"compile=%s execute=%s instructions=%s started=%d completed=%d",
		humanDuration(s.CompileTime), humanDuration(s.ExecuteTime),
		humanCount(s.InstructionCount), s.ScriptsStarted, s.ScriptsCompleted,
	)
}

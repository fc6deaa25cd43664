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

// jinx is a minimal host: compile one script file, register the core
// library, and drive Execute to completion, reporting performance counters
// on exit (spec §6 Runtime/Script API).
package main

import (
	"fmt"
	"os"

	"github.com/launix-de/jinx/corelib"
	"github.com/launix-de/jinx/jinx"
)

func main() {
	fmt.Println(`jinx  Copyright (C) 2026  Jinx contributors
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;
`)
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <script.jinx> [import ...]\n", os.Args[0])
		os.Exit(2)
	}

	src, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "jinx: %v\n", err)
		os.Exit(1)
	}

	rt := jinx.NewRuntime(jinx.GlobalParams{EnableLogging: true})
	corelib.Register(rt)

	script, errs := rt.ExecuteScript(src, nil, os.Args[1], os.Args[2:])
	if errs != nil {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s\n", e.Error())
		}
		os.Exit(1)
	}

	for !script.IsFinished() {
		if !script.Execute() {
			fmt.Fprintf(os.Stderr, "jinx: %v\n", script.Err())
			os.Exit(1)
		}
	}

	stats := rt.GetScriptPerformanceStats(false)
	fmt.Println(stats.String())
}

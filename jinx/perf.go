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
	"strconv"
	"time"

	units "github.com/docker/go-units"
)

// humanDuration renders a nanosecond count for PerformanceStats.String(),
// grounded on the domain-stack wiring table's "human-readable formatting in
// PerformanceStats.String()".
func humanDuration(ns int64) string {
	return units.HumanDuration(time.Duration(ns))
}

// humanCount renders an instruction count. go-units has no bare-integer
// formatter (its HumanSize/HumanDuration are byte- and time-scoped), so the
// instruction tally is rendered with strconv rather than misapplying a
// byte-size unit to a dimensionless count.
func humanCount(n uint64) string {
	return strconv.FormatUint(n, 10)
}

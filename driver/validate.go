/*
 * Copyright 2025 The Router Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package driver

import (
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/graph"
)

// ValidateDriver reports an error for every resolved primitive class
// reachable from g whose traits entry is not compatible with driver
// (one of graph.DriverUserlevel, graph.DriverLinuxmodule,
// graph.DriverBsdmodule). A negative driver means "any", matching
// Traits.CompatibleWithDriver's own convention, and is a no-op.
func ValidateDriver(g *graph.Router, driver int, sink *errh.Sink) {
	if driver < 0 {
		return
	}
	visited := make(map[*graph.Router]bool)
	validateRouter(g, driver, sink, visited)
}

func validateRouter(r *graph.Router, driver int, sink *errh.Sink, visited map[*graph.Router]bool) {
	if r == nil || visited[r] {
		return
	}
	visited[r] = true
	for _, e := range r.Elements() {
		validateChain(e.Name, e.Class, driver, sink, visited)
	}
	for name, c := range r.LocalClasses {
		validateChain(name, c, driver, sink, visited)
	}
}

func validateChain(name string, c *graph.ElementClass, driver int, sink *errh.Sink, visited map[*graph.Router]bool) {
	for cur := c; cur != nil; cur = cur.Next {
		resolved := cur.Resolve()
		switch resolved.Kind {
		case graph.ClassPrimitive:
			if resolved.Traits != nil && !resolved.Traits.CompatibleWithDriver(driver) {
				sink.Error(resolved.Landmark, "element class %q (used by %s) does not support the %s driver",
					resolved.Name, name, graph.DriverName(driver))
			}
		case graph.ClassCompound:
			validateRouter(resolved.Inner, driver, sink, visited)
		}
		if cur.Fallback != nil {
			validateChain(name, cur.Fallback, driver, sink, visited)
		}
	}
}

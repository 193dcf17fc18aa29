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

package parser

import (
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/graph"
)

// lookupLocalClass walks r and each enclosing router's LocalClasses:
// first the router's own locally declared classes, then the parent
// router's scope, recursively.
func lookupLocalClass(r *graph.Router, name string) (*graph.ElementClass, bool) {
	for cur := r; cur != nil; cur = cur.Parent {
		if c, ok := cur.LocalClasses[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// resolveClassRef resolves name immediately against the local/parent
// scope chain. If nothing is found, it returns a mutable placeholder
// that the traits package's class-resolution pass fills in later by
// overwriting its fields in place once the global traits table is
// available: every Element.Class that already points at the
// placeholder sees the update without any further bookkeeping here.
func (p *Parser) resolveClassRef(r *graph.Router, name string, lm errh.Landmark) *graph.ElementClass {
	if c, ok := lookupLocalClass(r, name); ok {
		return c
	}
	placeholder := &graph.ElementClass{Name: name, Kind: graph.ClassPrimitive, Landmark: lm}
	r.PendingClassRefs = append(r.PendingClassRefs, graph.PendingClassName{
		Name:     name,
		Landmark: lm,
		Resolve:  func(c *graph.ElementClass) { *placeholder = *c },
	})
	return placeholder
}

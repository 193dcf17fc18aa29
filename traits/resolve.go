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

package traits

import (
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/graph"
)

// ResolveRouter resolves every pending class reference reachable from
// r against r's own local/parent scope (re-checked here to pick up
// forward references the parser couldn't see yet) and, failing that,
// table. Unresolved names are replaced with a fresh error-reporting
// class and a diagnostic is recorded on sink.
//
// The walk descends into every compound class's inner router reached
// either through a router's LocalClasses or through an element's
// resolved Class, deduplicating by router identity so a class shared
// by several elements is only processed once.
func ResolveRouter(r *graph.Router, table *Table, sink *errh.Sink) {
	visited := make(map[*graph.Router]bool)
	resolveInRouter(r, table, sink, visited)
}

func resolveInRouter(r *graph.Router, table *Table, sink *errh.Sink, visited map[*graph.Router]bool) {
	if r == nil || visited[r] {
		return
	}
	visited[r] = true

	for _, pend := range r.PendingClassRefs {
		resolveOne(r, pend, table, sink)
	}
	r.PendingClassRefs = nil

	for _, class := range r.LocalClasses {
		walkClassChain(class, table, sink, visited)
	}
	for _, e := range r.Elements() {
		walkClassChain(e.Class, table, sink, visited)
	}
}

// walkClassChain descends into every inner router reachable from c:
// its own Inner, each Next alternative's, the head's Fallback, and
// (for a synonym) the class it renames.
func walkClassChain(c *graph.ElementClass, table *Table, sink *errh.Sink, visited map[*graph.Router]bool) {
	for cur := c; cur != nil; cur = cur.Next {
		resolveInRouter(cur.Inner, table, sink, visited)
		if cur.Fallback != nil {
			walkClassChain(cur.Fallback, table, sink, visited)
		}
		if cur.Kind == graph.ClassSynonym && cur.SynonymOf != nil {
			walkClassChain(cur.SynonymOf, table, sink, visited)
		}
	}
}

func lookupLocalClass(r *graph.Router, name string) (*graph.ElementClass, bool) {
	for cur := r; cur != nil; cur = cur.Parent {
		if c, ok := cur.LocalClasses[name]; ok {
			return c, true
		}
	}
	return nil, false
}

func resolveOne(r *graph.Router, pend graph.PendingClassName, table *Table, sink *errh.Sink) {
	if c, ok := lookupLocalClass(r, pend.Name); ok {
		pend.Resolve(c)
		return
	}
	if tr, ok := table.Lookup(pend.Name); ok {
		pend.Resolve(&graph.ElementClass{
			Name:     pend.Name,
			Kind:     graph.ClassPrimitive,
			Landmark: pend.Landmark,
			Traits:   tr,
		})
		return
	}
	sink.Error(pend.Landmark, "no such element class %q", pend.Name)
	errClass := graph.NewErrorClass()
	errClass.Landmark = pend.Landmark
	pend.Resolve(errClass)
}

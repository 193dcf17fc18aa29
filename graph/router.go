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

package graph

import (
	"fmt"

	"github.com/bittoy/router/errh"
)

// PendingClassName records a class name that could not be resolved
// against the router's local/parent scopes at parse time. Used both for an element's class
// reference and for an overload chain's `... fallback` name. The
// class-resolution pass resolves Name and invokes Resolve with the
// result (graph.NewErrorClass() if nothing is found).
type PendingClassName struct {
	Name     string
	Landmark errh.Landmark
	Resolve  func(*ElementClass)
}

// Requirement is one require(type [value]) directive: require(word1 [value1], ...) is sugar for a list of (type,
// value) requirements stored on the router. The special type
// "library" resolves value as a filename to inline.
type Requirement struct {
	Type  string
	Value string
}

// Router is a graph of Elements and Connections, plus declared
// local classes, require/provide directives, a variable scope, and
// an optional parent scope for compound classes.
type Router struct {
	Landmark errh.Landmark

	elements     []*Element
	elementIndex map[string]*Element

	Connections []*Connection

	// LocalClasses holds elementclass declarations local to this
	// router, keyed by name. Overload chains are threaded through
	// ElementClass.Next/Fallback.
	LocalClasses map[string]*ElementClass

	Requires []Requirement
	Provides []string

	// PendingClassRefs accumulates unresolved class references found
	// during parsing; consumed by the class-resolution pass.
	PendingClassRefs []PendingClassName

	Scope *Scope

	// Parent is the enclosing router for a compound class's inner
	// router (nil at the top level).
	Parent *Router

	anonCounter map[string]int

	// immutable is set once instantiation begins.
	immutable bool
}

// NewRouter creates an empty router chained to parentScope (nil at
// the top level).
func NewRouter(parentScope *Scope) *Router {
	return &Router{
		elementIndex: make(map[string]*Element),
		LocalClasses: make(map[string]*ElementClass),
		Scope:        NewScope(parentScope),
		anonCounter:  make(map[string]int),
	}
}

// Elements returns all elements in declaration order.
func (r *Router) Elements() []*Element {
	return r.elements
}

// ElementByName looks up an element by its unique local name.
func (r *Router) ElementByName(name string) (*Element, bool) {
	e, ok := r.elementIndex[name]
	return e, ok
}

// AddElement registers e in the router, enforcing name uniqueness.
// Returns an error if the name is already taken.
func (r *Router) AddElement(e *Element) error {
	if r.immutable {
		return fmt.Errorf("router is immutable: cannot add element %q", e.Name)
	}
	if _, exists := r.elementIndex[e.Name]; exists {
		return fmt.Errorf("redeclaration of element %q", e.Name)
	}
	r.elementIndex[e.Name] = e
	r.elements = append(r.elements, e)
	return nil
}

// AnonymousName synthesizes a unique element name of the form
// «classname»@N, N increasing per class name.
func (r *Router) AnonymousName(className string) string {
	r.anonCounter[className]++
	return fmt.Sprintf("%s@%d", className, r.anonCounter[className])
}

// AddConnection appends c to the router's connection list.
func (r *Router) AddConnection(c *Connection) {
	r.Connections = append(r.Connections, c)
}

// Freeze marks the router immutable: once instantiation begins no
// further elements or connections may be added. Called by the driver
// before the graph is handed to the element runtime.
func (r *Router) Freeze() {
	r.immutable = true
}

// RemoveElement deletes e from the router. Used by the flatten pass
// to drop inlined compound-class instances and unused declared
// classes.
func (r *Router) RemoveElement(e *Element) {
	delete(r.elementIndex, e.Name)
	for i, x := range r.elements {
		if x == e {
			r.elements = append(r.elements[:i], r.elements[i+1:]...)
			break
		}
	}
}

// ConnectionsFrom returns every connection whose From port is p.
func (r *Router) ConnectionsFrom(p Port) []*Connection {
	var out []*Connection
	for _, c := range r.Connections {
		if c.From.Equal(p) {
			out = append(out, c)
		}
	}
	return out
}

// ConnectionsTo returns every connection whose To port is p.
func (r *Router) ConnectionsTo(p Port) []*Connection {
	var out []*Connection
	for _, c := range r.Connections {
		if c.To.Equal(p) {
			out = append(out, c)
		}
	}
	return out
}

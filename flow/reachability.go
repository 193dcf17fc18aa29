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

package flow

import "github.com/bittoy/router/graph"

// Direction is the direction a reachability walk travels.
type Direction int

const (
	// Forward follows connections from an output to the input(s) it
	// feeds, then an element's flow code from an input to the
	// outputs it may influence.
	Forward Direction = iota
	// Backward is Forward's mirror image: connections from an input
	// back to its source output, then an element's flow code from
	// an output back to the inputs that may influence it.
	Backward
)

// codeCache memoizes ParseCode per flow-code string so a router with
// many elements of the same class doesn't re-parse its code on every
// visit.
type codeCache struct {
	parsed map[string]Code
}

func newCodeCache() *codeCache {
	return &codeCache{parsed: make(map[string]Code)}
}

func (cc *codeCache) get(code string) Code {
	if c, ok := cc.parsed[code]; ok {
		return c
	}
	c, err := ParseCode(code)
	if err != nil {
		// An unparseable flow code behaves as "no influence": a
		// malformed class declaration shouldn't be silently treated
		// as fully connected.
		c = Code{}
	}
	cc.parsed[code] = c
	return c
}

// Reachable computes every port reachable from seeds by repeatedly
// alternating wire traversal (step a) and per-element flow-code
// propagation (step b) until fixpoint.
func Reachable(r *graph.Router, seeds []graph.Port, dir Direction) map[graph.Port]bool {
	cache := newCodeCache()
	reached := make(map[graph.Port]bool, len(seeds))
	var frontier []graph.Port
	for _, p := range seeds {
		if !reached[p] {
			reached[p] = true
			frontier = append(frontier, p)
		}
	}
	for len(frontier) > 0 {
		var next []graph.Port
		for _, p := range frontier {
			for _, q := range step(r, cache, p, dir) {
				if !reached[q] {
					reached[q] = true
					next = append(next, q)
				}
			}
		}
		frontier = next
	}
	return reached
}

func step(r *graph.Router, cache *codeCache, p graph.Port, dir Direction) []graph.Port {
	switch dir {
	case Forward:
		if p.Dir == graph.DirFrom {
			return wireForward(r, p)
		}
		return flowNeighbors(cache, p)
	default:
		if p.Dir == graph.DirTo {
			return wireBackward(r, p)
		}
		return flowNeighbors(cache, p)
	}
}

func wireForward(r *graph.Router, out graph.Port) []graph.Port {
	var next []graph.Port
	for _, c := range r.ConnectionsFrom(out) {
		next = append(next, c.To)
	}
	return next
}

func wireBackward(r *graph.Router, in graph.Port) []graph.Port {
	var next []graph.Port
	for _, c := range r.ConnectionsTo(in) {
		next = append(next, c.From)
	}
	return next
}

// ElementNeighbors returns the opposite-side ports of p's own element
// that p's flow code connects it to, the same single step
// Reachable's fixpoint walk takes when it crosses from one side of an
// element to the other. Used by processing-discipline propagation,
// which only ever needs to cross one element at a time, never a wire.
func ElementNeighbors(p graph.Port) []graph.Port {
	return flowNeighbors(newCodeCache(), p)
}

// flowNeighbors applies p's element's flow code to find the opposite-
// side ports whose class intersects p's.
func flowNeighbors(cache *codeCache, p graph.Port) []graph.Port {
	e := p.Element
	if e.Class == nil {
		return nil
	}
	code := cache.get(e.Class.FlowCode())
	var out []graph.Port
	if p.Dir == graph.DirTo {
		pc := code.InputClass(p.Index)
		for j := 0; j < e.NOutputs; j++ {
			if pc.Intersects(code.OutputClass(j)) {
				out = append(out, e.Output(j))
			}
		}
	} else {
		pc := code.OutputClass(p.Index)
		for j := 0; j < e.NInputs; j++ {
			if pc.Intersects(code.InputClass(j)) {
				out = append(out, e.Input(j))
			}
		}
	}
	return out
}

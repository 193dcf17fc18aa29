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
	"strings"

	"github.com/bittoy/router/confparse"
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/graph"
)

// Flatten inlines every compound-class instance in r: each instance's
// inner elements are cloned into r with the instance's own path as a
// name prefix, the inner "input"/"output" tunnels are rewritten into
// direct pass-through connections to whatever the instance itself was
// wired to, and the instance element is removed. Runs to a fixpoint
// so nested compounds are inlined too, then drops any declared class
// left with no remaining reference.
func Flatten(r *graph.Router, sink *errh.Sink) {
	for {
		inst := nextCompoundInstance(r)
		if inst == nil {
			break
		}
		inlineOne(r, inst, sink)
	}
	pruneUnusedClasses(r)
}

func nextCompoundInstance(r *graph.Router) *graph.Element {
	for _, e := range r.Elements() {
		if e.Tunnel || e.Dead || e.Class == nil {
			continue
		}
		if e.Class.Resolve().Kind == graph.ClassCompound {
			return e
		}
	}
	return nil
}

func inlineOne(r *graph.Router, inst *graph.Element, sink *errh.Sink) {
	class := inst.Class.Resolve()
	inner := class.Inner
	if inner == nil {
		r.RemoveElement(inst)
		return
	}

	bindScope := bindFormals(class, inst, sink)

	clone := make(map[*graph.Element]*graph.Element, len(inner.Elements()))
	var inputTunnel, outputTunnel *graph.Element
	for _, ie := range inner.Elements() {
		if graph.IsInputTunnelName(ie.Name) {
			inputTunnel = ie
			continue
		}
		if graph.IsOutputTunnelName(ie.Name) {
			outputTunnel = ie
			continue
		}
		cfg, err := expandVariables(ie.ConfigString, bindScope)
		if err != nil {
			sink.Error(ie.Landmark, "expanding formal arguments of %s/%s: %v", inst.Name, ie.Name, err)
			cfg = ie.ConfigString
		}
		ne := &graph.Element{
			Name:         inst.Name + "/" + ie.Name,
			Class:        ie.Class,
			ConfigString: cfg,
			Landmark:     ie.Landmark,
			NInputs:      ie.NInputs,
			NOutputs:     ie.NOutputs,
			Dead:         ie.Dead,
		}
		if err := r.AddElement(ne); err != nil {
			sink.Error(ie.Landmark, "flattening %s: %v", inst.Name, err)
			continue
		}
		clone[ie] = ne
	}

	// Inner connections between two ordinary (non-tunnel) elements
	// carry straight across.
	for _, c := range inner.Connections {
		fromElem, fromIsTunnel := clone[c.From.Element], c.From.Element == inputTunnel
		toElem, toIsTunnel := clone[c.To.Element], c.To.Element == outputTunnel
		if !fromIsTunnel && !toIsTunnel && fromElem != nil && toElem != nil {
			r.AddConnection(&graph.Connection{
				From:     graph.Port{Element: fromElem, Index: c.From.Index, Dir: graph.DirFrom},
				To:       graph.Port{Element: toElem, Index: c.To.Index, Dir: graph.DirTo},
				Landmark: c.Landmark,
			})
		}
	}

	// Rewrite the instance's own external connections through the
	// tunnels: whatever fed input port i of inst now feeds every
	// inner element that was wired to input's output port i, and
	// symmetrically for inst's output ports through the output
	// tunnel's input ports.
	external := externalConnections(r, inst)
	for _, c := range external {
		switch {
		case c.To.Element == inst && inputTunnel != nil:
			for _, ic := range inner.Connections {
				if ic.From.Element != inputTunnel || ic.From.Index != c.To.Index {
					continue
				}
				target := clone[ic.To.Element]
				if target == nil {
					continue
				}
				r.AddConnection(&graph.Connection{
					From:     c.From,
					To:       graph.Port{Element: target, Index: ic.To.Index, Dir: graph.DirTo},
					Landmark: c.Landmark,
				})
			}
		case c.From.Element == inst && outputTunnel != nil:
			for _, ic := range inner.Connections {
				if ic.To.Element != outputTunnel || ic.To.Index != c.From.Index {
					continue
				}
				source := clone[ic.From.Element]
				if source == nil {
					continue
				}
				r.AddConnection(&graph.Connection{
					From:     graph.Port{Element: source, Index: ic.From.Index, Dir: graph.DirFrom},
					To:       c.To,
					Landmark: c.Landmark,
				})
			}
		}
	}

	removeConnectionsTouching(r, inst)
	r.RemoveElement(inst)
}

func externalConnections(r *graph.Router, e *graph.Element) []*graph.Connection {
	var out []*graph.Connection
	for _, c := range r.Connections {
		if c.From.Element == e || c.To.Element == e {
			out = append(out, c)
		}
	}
	return out
}

func removeConnectionsTouching(r *graph.Router, e *graph.Element) {
	kept := r.Connections[:0]
	for _, c := range r.Connections {
		if c.From.Element == e || c.To.Element == e {
			continue
		}
		kept = append(kept, c)
	}
	r.Connections = kept
}

// bindFormals splits inst's configuration string into positional and
// keyword arguments and binds them to class's formal parameter names
// in a scope parented to the compound's own lexical scope, so
// references inside the compound body resolve formals first and fall
// through to the compound's own define()d variables afterward. A
// variadic __REST__ formal (must be last, per the grammar) receives
// every positional argument left over after the named formals claim
// theirs, joined back with ", " the way the rest of a call's argument
// list would read.
func bindFormals(class *graph.ElementClass, inst *graph.Element, sink *errh.Sink) *graph.Scope {
	scope := graph.NewScope(class.Inner.Scope)

	raw, err := confparse.SplitArgs(inst.ConfigString)
	if err != nil {
		sink.Error(inst.Landmark, "splitting configuration of %s: %v", inst.Name, err)
		return scope
	}
	args := confparse.Parse(raw)

	posIdx := 0
	for _, f := range class.Formals {
		if f.Variadic {
			rest := strings.Join(args.Positional[min(posIdx, len(args.Positional)):], ", ")
			scope.Set(f.Name, rest)
			posIdx = len(args.Positional)
			continue
		}
		if f.Keyword != "" {
			if v, ok := args.Keyword[f.Keyword]; ok {
				scope.Set(f.Name, v)
			}
			continue
		}
		if posIdx < len(args.Positional) {
			scope.Set(f.Name, args.Positional[posIdx])
			posIdx++
		}
	}
	return scope
}

// pruneUnusedClasses removes declared classes no remaining element
// references, directly or through an overload chain.
func pruneUnusedClasses(r *graph.Router) {
	used := make(map[*graph.ElementClass]bool)
	for _, e := range r.Elements() {
		for c := e.Class; c != nil; c = c.Next {
			used[c] = true
			if c.Fallback != nil {
				used[c.Fallback] = true
			}
		}
	}
	for name, c := range r.LocalClasses {
		if !used[c] {
			delete(r.LocalClasses, name)
		}
	}
}

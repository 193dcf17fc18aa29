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

package processing

import (
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/flow"
	"github.com/bittoy/router/graph"
)

// Infer runs push/pull discipline inference and validation (R1-R4)
// over r. It does not recurse into compound-class inner routers and
// expects every element's effective class (primitive or compound) to
// carry a usable processing code already; SynthesizeAndInfer derives
// compound codes and calls Infer on each router level, innermost
// first.
func Infer(r *graph.Router, sink *errh.Sink) {
	seedDeclared(r)
	propagateToFixpoint(r)
	resolveRemainingAgnostic(r)
	validate(r, sink)
}

// seedDeclared sets every port's initial processing state from its
// element's declared (or derived, for a compound) processing code.
func seedDeclared(r *graph.Router) {
	for _, e := range r.Elements() {
		code, err := ParseCode(e.Class.ProcessingCode())
		if err != nil {
			code = Code{}
		}
		for i := 0; i < e.NInputs; i++ {
			e.Input(i).State().Processing = code.InputAt(i)
		}
		for j := 0; j < e.NOutputs; j++ {
			e.Output(j).State().Processing = code.OutputAt(j)
		}
	}
}

// propagateToFixpoint is R1 iterated to fixpoint (R2): a push output
// wired to an agnostic input resolves that input to push; a pull
// input wired to an agnostic output resolves that output to pull.
// Either resolution is pulled along to every other still-agnostic
// port of the same element reachable from the newly resolved port via
// its element's flow code.
func propagateToFixpoint(r *graph.Router) {
	for {
		changed := false
		for _, c := range r.Connections {
			fromState := c.From.State()
			toState := c.To.State()

			if fromState.Processing == graph.ProcPush && toState.Processing.IsAgnostic() {
				toState.Processing = graph.ProcPush
				changed = true
				pullAlong(c.To, graph.ProcPush)
			}
			if toState.Processing == graph.ProcPull && fromState.Processing.IsAgnostic() {
				fromState.Processing = graph.ProcPull
				changed = true
				pullAlong(c.From, graph.ProcPull)
			}
		}
		if !changed {
			return
		}
	}
}

// pullAlong propagates a just-resolved discipline to every other port
// of the same element still agnostic and flow-reachable from start,
// breadth-first, since resolving one of those in turn may bring a
// further port of the same element into reach.
func pullAlong(start graph.Port, discipline graph.Processing) {
	queue := []graph.Port{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, n := range flow.ElementNeighbors(p) {
			st := n.State()
			if st.Processing.IsAgnostic() {
				st.Processing = discipline
				queue = append(queue, n)
			}
		}
	}
}

// resolveRemainingAgnostic is R3: any port still agnostic once the
// fixpoint settles resolves to its own preferred discipline (push,
// unless decorated toward pull).
func resolveRemainingAgnostic(r *graph.Router) {
	for _, e := range r.Elements() {
		for i := 0; i < e.NInputs; i++ {
			st := e.Input(i).State()
			if st.Processing.IsAgnostic() {
				st.Processing = st.Processing.Preferred()
			}
		}
		for j := 0; j < e.NOutputs; j++ {
			st := e.Output(j).State()
			if st.Processing.IsAgnostic() {
				st.Processing = st.Processing.Preferred()
			}
		}
	}
}

// validate is R4: every connection whose two ends are both already
// definite must agree (R1's first bullet — a push output wired
// straight to a pull input, or vice versa, is a processing mismatch,
// not something propagation or R3's agnostic resolution can paper
// over), fan-out/fan-in bounds on push/pull ports, every port used by
// some connection (dead elements excepted), and final port counts
// admitted by the class's port-count code.
func validate(r *graph.Router, sink *errh.Sink) {
	for _, c := range r.Connections {
		validateMismatch(c, sink)
	}
	for _, e := range r.Elements() {
		validatePortUsage(r, e, sink)
		validatePortCount(e, sink)
	}
}

func validateMismatch(c *graph.Connection, sink *errh.Sink) {
	fromState := c.From.State()
	toState := c.To.State()
	if fromState.Processing.IsAgnostic() || toState.Processing.IsAgnostic() {
		return
	}
	if fromState.Processing == toState.Processing {
		return
	}
	fromState.ErrorFlag = true
	toState.ErrorFlag = true
	sink.Error(c.From.Element.Landmark,
		"element %q output %d is %s but connects to element %q input %d which is %s",
		c.From.Element.Name, c.From.Index, fromState.Processing,
		c.To.Element.Name, c.To.Index, toState.Processing)
}

func validatePortUsage(r *graph.Router, e *graph.Element, sink *errh.Sink) {
	for i := 0; i < e.NInputs; i++ {
		p := e.Input(i)
		conns := r.ConnectionsTo(p)
		if p.State().Processing == graph.ProcPull && len(conns) > 1 {
			sink.Error(e.Landmark, "element %q input %d is pull but fed by %d connections", e.Name, i, len(conns))
		}
		if len(conns) == 0 && !e.Dead {
			sink.Error(e.Landmark, "element %q input %d has no connection", e.Name, i)
		}
	}
	for j := 0; j < e.NOutputs; j++ {
		p := e.Output(j)
		conns := r.ConnectionsFrom(p)
		if p.State().Processing == graph.ProcPush && len(conns) > 1 {
			sink.Error(e.Landmark, "element %q output %d is push but feeds %d connections", e.Name, j, len(conns))
		}
		if len(conns) == 0 && !e.Dead {
			sink.Error(e.Landmark, "element %q output %d has no connection", e.Name, j)
		}
	}
}

func validatePortCount(e *graph.Element, sink *errh.Sink) {
	code, err := ParsePortCountCode(e.Class.PortCountCode())
	if err != nil {
		return
	}
	if !code.Admits(e.NInputs, e.NOutputs) {
		sink.Error(e.Landmark, "element %q has %d input(s) and %d output(s), not admitted by its port-count code", e.Name, e.NInputs, e.NOutputs)
	}
}

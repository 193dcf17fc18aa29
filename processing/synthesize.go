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
	"strings"

	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/flow"
	"github.com/bittoy/router/graph"
)

// SynthesizeAndInfer walks r and, innermost first, gives every
// compound class reachable from r a derived processing code and flow
// code from its own inner router, then runs Infer on r itself (and on
// every inner router along the way, so a compound's derived code
// always reflects a fully inferred body before anything outside it
// relies on that code).
func SynthesizeAndInfer(r *graph.Router, sink *errh.Sink) {
	visited := make(map[*graph.ElementClass]bool)
	run(r, sink, visited)
}

func run(r *graph.Router, sink *errh.Sink, visited map[*graph.ElementClass]bool) {
	for _, class := range r.LocalClasses {
		synthesizeChain(class, sink, visited)
	}
	for _, e := range r.Elements() {
		synthesizeChain(e.Class, sink, visited)
	}
	Infer(r, sink)
}

// synthesizeChain walks every alternative and fallback in c's overload
// chain, since any of them may be a compound needing its own
// synthesis pass.
func synthesizeChain(c *graph.ElementClass, sink *errh.Sink, visited map[*graph.ElementClass]bool) {
	for cur := c; cur != nil; cur = cur.Next {
		synthesizeOne(cur, sink, visited)
		if cur.Fallback != nil {
			synthesizeChain(cur.Fallback, sink, visited)
		}
	}
}

func synthesizeOne(c *graph.ElementClass, sink *errh.Sink, visited map[*graph.ElementClass]bool) {
	if c == nil || c.Kind != graph.ClassCompound || c.Inner == nil || visited[c] {
		return
	}
	visited[c] = true
	run(c.Inner, sink, visited)
	c.DerivedProcessingCode = synthesizeProcessingCode(c.Inner)
	c.DerivedFlowCode = flow.Synthesize(c.Inner)
}

// synthesizeProcessingCode derives a compound class's own processing
// code from its already-inferred inner router: the "input" tunnel's
// outputs carry the same discipline as the compound's own inputs (the
// tunnel is a transparent pass-through), and the "output" tunnel's
// inputs carry the discipline of the compound's own outputs.
func synthesizeProcessingCode(inner *graph.Router) string {
	inTunnel, hasIn := inner.ElementByName("input")
	outTunnel, hasOut := inner.ElementByName("output")

	nIn := 0
	if hasIn {
		nIn = inTunnel.NOutputs
	}
	nOut := 0
	if hasOut {
		nOut = outTunnel.NInputs
	}
	if nIn == 0 || nOut == 0 {
		return ""
	}

	var inSide, outSide strings.Builder
	for i := 0; i < nIn; i++ {
		inSide.WriteByte(processingLetter(inTunnel.Output(i).State().Processing))
	}
	for j := 0; j < nOut; j++ {
		outSide.WriteByte(processingLetter(outTunnel.Input(j).State().Processing))
	}
	return inSide.String() + "/" + outSide.String()
}

func processingLetter(p graph.Processing) byte {
	switch p {
	case graph.ProcPush, graph.ProcPushAgnostic:
		return 'h'
	case graph.ProcPull, graph.ProcPullAgnostic:
		return 'l'
	default:
		return 'a'
	}
}

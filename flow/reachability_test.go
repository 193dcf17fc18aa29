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

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bittoy/router/graph"
)

func classWithFlowCode(name, code string) *graph.ElementClass {
	return &graph.ElementClass{
		Name: name,
		Kind: graph.ClassPrimitive,
		Traits: &graph.Traits{
			Name:     name,
			FlowCode: code,
		},
	}
}

func newElement(r *graph.Router, name string, class *graph.ElementClass, nIn, nOut int) *graph.Element {
	e := &graph.Element{Name: name, Class: class, NInputs: nIn, NOutputs: nOut}
	if err := r.AddElement(e); err != nil {
		panic(err)
	}
	return e
}

// buildDiamond builds: a -> b, b has two outputs broadcasting to c and d.
func buildDiamond(t *testing.T) (r *graph.Router, a, b, c, d *graph.Element) {
	t.Helper()
	r = graph.NewRouter(nil)
	a = newElement(r, "a", classWithFlowCode("Source", ""), 0, 1)
	b = newElement(r, "b", classWithFlowCode("Tee", ""), 1, 2)
	c = newElement(r, "c", classWithFlowCode("Sink", ""), 1, 0)
	d = newElement(r, "d", classWithFlowCode("Sink", ""), 1, 0)
	r.AddConnection(&graph.Connection{From: a.Output(0), To: b.Input(0)})
	r.AddConnection(&graph.Connection{From: b.Output(0), To: c.Input(0)})
	r.AddConnection(&graph.Connection{From: b.Output(1), To: d.Input(0)})
	return
}

func TestReachableForwardCrossesWireAndFlowCode(t *testing.T) {
	r, a, b, c, d := buildDiamond(t)

	reached := Reachable(r, []graph.Port{a.Output(0)}, Forward)

	assert.True(t, reached[a.Output(0)])
	assert.True(t, reached[b.Input(0)])
	assert.True(t, reached[b.Output(0)])
	assert.True(t, reached[b.Output(1)])
	assert.True(t, reached[c.Input(0)])
	assert.True(t, reached[d.Input(0)])
}

func TestReachableBackwardMirrorsForward(t *testing.T) {
	r, a, b, _, d := buildDiamond(t)

	reached := Reachable(r, []graph.Port{d.Input(0)}, Backward)

	assert.True(t, reached[d.Input(0)])
	assert.True(t, reached[b.Output(1)])
	assert.True(t, reached[b.Input(0)])
	assert.True(t, reached[a.Output(0)])
}

func TestReachableDoesNotCrossDisjointFlowClasses(t *testing.T) {
	r := graph.NewRouter(nil)
	a := newElement(r, "a", classWithFlowCode("Source", ""), 0, 1)
	// split: input 0 only reaches output 0 ('a'), not output 1 ('b').
	split := newElement(r, "split", classWithFlowCode("Split", "a/ab"), 1, 2)
	c := newElement(r, "c", classWithFlowCode("Sink", ""), 1, 0)
	d := newElement(r, "d", classWithFlowCode("Sink", ""), 1, 0)
	r.AddConnection(&graph.Connection{From: a.Output(0), To: split.Input(0)})
	r.AddConnection(&graph.Connection{From: split.Output(0), To: c.Input(0)})
	r.AddConnection(&graph.Connection{From: split.Output(1), To: d.Input(0)})

	reached := Reachable(r, []graph.Port{a.Output(0)}, Forward)

	assert.True(t, reached[c.Input(0)])
	assert.False(t, reached[d.Input(0)])
}

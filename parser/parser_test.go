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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/graph"
)

func TestParseSinglePushChain(t *testing.T) {
	sink := errh.New()
	r := Parse(`src :: InfiniteSource(DATA \<00 01 02\>, LIMIT 1);
src -> Counter -> Discard;`, "t.click", sink)

	require.False(t, sink.HasErrors(), sink.String())
	require.Len(t, r.Elements(), 3)
	require.Len(t, r.Connections, 2)

	src, ok := r.ElementByName("src")
	require.True(t, ok)
	assert.Equal(t, "InfiniteSource", src.Class.Name)
	assert.Equal(t, `DATA \<00 01 02\>, LIMIT 1`, src.ConfigString)

	assert.Equal(t, src.Output(0), r.Connections[0].From)
	assert.Equal(t, "Counter", r.Connections[0].To.Element.Class.Name)
	assert.Equal(t, "Discard", r.Connections[1].To.Element.Class.Name)
}

func TestParseRepeatedClassNameCreatesDistinctAnonymousElements(t *testing.T) {
	sink := errh.New()
	r := Parse(`Queue -> Counter -> Queue;`, "t.click", sink)
	require.False(t, sink.HasErrors(), sink.String())

	// Two distinct anonymous "Queue" instances: Queue@1 and Queue@2.
	require.Len(t, r.Elements(), 3)
	var names []string
	for _, e := range r.Elements() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "Queue@1")
	assert.Contains(t, names, "Queue@2")
}

func TestParseManyToManyOperator(t *testing.T) {
	sink := errh.New()
	r := Parse(`[0,1,2]src => [0,1,2]sink;`, "t.click", sink)
	require.False(t, sink.HasErrors(), sink.String())

	require.Len(t, r.Connections, 3)
	src, ok := r.ElementByName("src@1")
	require.True(t, ok)
	sinkEl, ok := r.ElementByName("sink@1")
	require.True(t, ok)
	for i, c := range r.Connections {
		assert.Equal(t, src.Output(i), c.From)
		assert.Equal(t, sinkEl.Input(i), c.To)
	}
}

func TestParseExpandableEndPort(t *testing.T) {
	sink := errh.New()
	r := Parse(`src[0,] => [0,1,2]sink;`, "t.click", sink)
	require.False(t, sink.HasErrors(), sink.String())

	// src's trailing spec is explicit port 0 plus the trailing-comma
	// sentinel ("expandable"); sink demands three concrete inputs, so
	// src's output side replicates to ports 0, 1, 2.
	require.Len(t, r.Connections, 3)
	src, ok := r.ElementByName("src@1")
	require.True(t, ok)
	sinkEl, ok := r.ElementByName("sink@1")
	require.True(t, ok)
	for i, c := range r.Connections {
		assert.Equal(t, src.Output(i), c.From)
		assert.Equal(t, sinkEl.Input(i), c.To)
	}
}

func TestParseBareEmptyBracketExpandableUnderFanArrow(t *testing.T) {
	sink := errh.New()
	r := Parse(`src[] => [0,1,2]sink;`, "t.click", sink)
	require.False(t, sink.HasErrors(), sink.String())

	// a bare "[]" is expandable under "=>": it contributes no ports of
	// its own, so src's output side replicates to fill all three of
	// sink's demanded inputs.
	require.Len(t, r.Connections, 3)
	src, ok := r.ElementByName("src@1")
	require.True(t, ok)
	sinkEl, ok := r.ElementByName("sink@1")
	require.True(t, ok)
	for i, c := range r.Connections {
		assert.Equal(t, src.Output(i), c.From)
		assert.Equal(t, sinkEl.Input(i), c.To)
	}
}

func TestParseBareEmptyBracketNotExpandableUnderPlainArrow(t *testing.T) {
	sink := errh.New()
	r := Parse(`src[] -> [0,1,2]sink;`, "t.click", sink)

	// under "->" a bare "[]" is not treated as expandable: src
	// contributes zero ports, sink demands three, and that count
	// disagreement is reported rather than silently auto-replicated.
	assert.True(t, sink.HasErrors())
	_ = r
}

func TestParseCompoundClassWithFormal(t *testing.T) {
	sink := errh.New()
	r := Parse(`elementclass Doubled { $n | input -> DupCount($n) -> output; }
src :: InfiniteSource -> Doubled(3) -> Discard;`, "t.click", sink)

	require.False(t, sink.HasErrors(), sink.String())
	cls, ok := r.LocalClasses["Doubled"]
	require.True(t, ok)
	assert.Equal(t, graph.ClassCompound, cls.Kind)
	require.Len(t, cls.Formals, 1)
	assert.Equal(t, "n", cls.Formals[0].Name)
	assert.False(t, cls.Formals[0].Variadic)

	inEl, ok := cls.Inner.ElementByName("input")
	require.True(t, ok)
	assert.True(t, inEl.Tunnel)
	outEl, ok := cls.Inner.ElementByName("output")
	require.True(t, ok)
	assert.True(t, outEl.Tunnel)
	require.Len(t, cls.Inner.Connections, 2)

	doubled, ok := r.ElementByName("Doubled@1")
	require.True(t, ok)
	assert.Equal(t, cls, doubled.Class)
	assert.Equal(t, "3", doubled.ConfigString)
}

func TestParseOverloadChainAndFallback(t *testing.T) {
	sink := errh.New()
	r := Parse(`elementclass Foo { input -> output; } || { input -> output; } ... Discard;`, "t.click", sink)
	require.False(t, sink.HasErrors(), sink.String())

	head, ok := r.LocalClasses["Foo"]
	require.True(t, ok)
	require.NotNil(t, head.Next)
	require.NotNil(t, head.Fallback)
	assert.Equal(t, "Discard", head.Fallback.Name)
}

func TestParseAnonymousGroup(t *testing.T) {
	sink := errh.New()
	r := Parse(`src -> (Counter -> Counter) -> Discard;`, "t.click", sink)
	require.False(t, sink.HasErrors(), sink.String())

	require.Len(t, r.Elements(), 3) // src, the anonymous group, Discard
	grp, ok := r.ElementByName("Group@1")
	require.True(t, ok)
	assert.Equal(t, graph.ClassCompound, grp.Class.Kind)
	assert.Equal(t, 1, grp.NInputs)
	assert.Equal(t, 1, grp.NOutputs)

	inTun, ok := grp.Class.Inner.ElementByName("input")
	require.True(t, ok)
	outTun, ok := grp.Class.Inner.ElementByName("output")
	require.True(t, ok)
	assert.Equal(t, 1, inTun.NOutputs)
	assert.Equal(t, 1, outTun.NInputs)
	require.Len(t, grp.Class.Inner.Connections, 3)
}

func TestRequireDirectiveRecordsRequirement(t *testing.T) {
	sink := errh.New()
	r := Parse(`require(package qos);`, "t.click", sink)
	require.False(t, sink.HasErrors(), sink.String())
	require.Len(t, r.Requires, 1)
	assert.Equal(t, "package", r.Requires[0].Type)
	assert.Equal(t, "qos", r.Requires[0].Value)
}

func TestLibraryRequireInlinesOnce(t *testing.T) {
	loader := fakeLoader{"foo.click": "a :: ElementInFoo;"}
	sink := errh.New()
	r := Parse(`require(library foo.click);
require(library foo.click);
b :: ElementInFoo;`, "t.click", sink, WithLibraryLoader(loader))

	require.False(t, sink.HasErrors(), sink.String())
	_, ok := r.ElementByName("a")
	assert.True(t, ok, "library statements should be inlined exactly once")
	_, ok = r.ElementByName("b")
	assert.True(t, ok)
	require.Len(t, r.Elements(), 2)
}

func TestDefineDuplicateIsError(t *testing.T) {
	sink := errh.New()
	Parse(`define($x 1, $x 2);`, "t.click", sink)
	assert.True(t, sink.HasErrors())
}

type fakeLoader map[string]string

func (f fakeLoader) Load(name, fromFile string) (string, string, error) {
	src, ok := f[name]
	if !ok {
		return "", "", assertNotFoundErr(name)
	}
	return src, name, nil
}

type assertNotFoundErr string

func (e assertNotFoundErr) Error() string { return "not found: " + string(e) }

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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bittoy/router/graph"
)

func primitiveClass(name, portCount string) *graph.ElementClass {
	return &graph.ElementClass{
		Name: name,
		Kind: graph.ClassPrimitive,
		Traits: &graph.Traits{
			Name:          name,
			PortCountCode: portCount,
		},
	}
}

func TestSelectOverloadFirstAdmittingWins(t *testing.T) {
	one := primitiveClass("OneIn", "1/1")
	two := primitiveClass("TwoIn", "2/1")
	one.Next = two

	got := SelectOverload(one, 2, 1)
	assert.Same(t, two, got)
}

func TestSelectOverloadEarliestMatchPreferred(t *testing.T) {
	a := primitiveClass("A", "0-/0-")
	b := primitiveClass("B", "0-/0-")
	a.Next = b

	got := SelectOverload(a, 3, 3)
	assert.Same(t, a, got)
}

func TestSelectOverloadFallsBackWhenNoneAdmit(t *testing.T) {
	one := primitiveClass("OneIn", "1/1")
	fallback := primitiveClass("Fallback", "")
	one.Fallback = fallback

	got := SelectOverload(one, 5, 5)
	assert.Same(t, fallback, got)
}

func TestSelectOverloadErrorClassWhenNoFallback(t *testing.T) {
	one := primitiveClass("OneIn", "1/1")

	got := SelectOverload(one, 5, 5)
	assert.Equal(t, graph.ErrorClassName, got.Name)
}

func TestSelectOverloadCompoundAlternativesAreUnconstrained(t *testing.T) {
	// Compound classes have no declared port-count code of their own
	// (PortCountCode() is only non-empty for primitive classes), so
	// the first declared alternative always admits.
	first := &graph.ElementClass{Name: "First", Kind: graph.ClassCompound}
	second := &graph.ElementClass{Name: "Second", Kind: graph.ClassCompound}
	first.Next = second

	got := SelectOverload(first, 9, 9)
	assert.Same(t, first, got)
}

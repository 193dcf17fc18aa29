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
	"github.com/stretchr/testify/require"
)

func TestParseCodeEmptyIsFullyConnected(t *testing.T) {
	c, err := ParseCode("")
	require.NoError(t, err)
	assert.True(t, c.InputClass(0).Intersects(c.OutputClass(0)))
	assert.True(t, c.InputClass(5).Intersects(c.OutputClass(9)))
}

func TestParseCodeXXIsFullyConnectedByRepetition(t *testing.T) {
	c, err := ParseCode("x/x")
	require.NoError(t, err)
	assert.True(t, c.InputClass(0).Intersects(c.OutputClass(0)))
	assert.True(t, c.InputClass(3).Intersects(c.OutputClass(7)))
}

func TestParseCodeXYIsFullyDisconnected(t *testing.T) {
	c, err := ParseCode("x/y")
	require.NoError(t, err)
	assert.False(t, c.InputClass(0).Intersects(c.OutputClass(0)))
}

func TestParseCodeLastTokenRepeats(t *testing.T) {
	c, err := ParseCode("ab/a")
	require.NoError(t, err)
	// input 0 is class 'a', input 1 (and beyond) repeats 'b'.
	assert.True(t, c.InputClass(0).Intersects(c.OutputClass(0)))
	assert.False(t, c.InputClass(1).Intersects(c.OutputClass(0)))
	assert.False(t, c.InputClass(99).Intersects(c.OutputClass(0)))
}

func TestParseCodeBracketUnion(t *testing.T) {
	c, err := ParseCode("[ab]/b")
	require.NoError(t, err)
	assert.True(t, c.InputClass(0).Intersects(c.OutputClass(0)))
}

func TestParseCodeBracketNegation(t *testing.T) {
	c, err := ParseCode("[^a]b/ab")
	require.NoError(t, err)
	// input 0 is "not a" over {a,b} used in this code, i.e. just 'b',
	// which intersects output 0's class 'a'... no: negation excludes
	// 'a', leaving {'b'}, which does NOT intersect 'a'.
	assert.False(t, c.InputClass(0).Intersects(c.OutputClass(0)))
	// but it does intersect output 1's class 'b'.
	assert.True(t, c.InputClass(0).Intersects(c.OutputClass(1)))
}

func TestParseCodeUniquePerIndex(t *testing.T) {
	c, err := ParseCode("##/##")
	require.NoError(t, err)
	assert.True(t, c.InputClass(0).Intersects(c.OutputClass(0)))
	assert.True(t, c.InputClass(1).Intersects(c.OutputClass(1)))
	assert.False(t, c.InputClass(0).Intersects(c.OutputClass(1)))
}

func TestParseCodeMissingOutputSideRepeatsInput(t *testing.T) {
	c, err := ParseCode("a")
	require.NoError(t, err)
	assert.True(t, c.InputClass(0).Intersects(c.OutputClass(0)))
}

func TestParseCodeRejectsUnterminatedBracket(t *testing.T) {
	_, err := ParseCode("[ab/c")
	assert.Error(t, err)
}

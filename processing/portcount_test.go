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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePortCountCodeExactAndOpenRanges(t *testing.T) {
	c, err := ParsePortCountCode("1-1/1-1")
	require.NoError(t, err)
	assert.True(t, c.Admits(1, 1))
	assert.False(t, c.Admits(0, 1))
	assert.False(t, c.Admits(2, 1))

	c, err = ParsePortCountCode("1-/0-")
	require.NoError(t, err)
	assert.True(t, c.Admits(1, 0))
	assert.True(t, c.Admits(50, 50))
	assert.False(t, c.Admits(0, 0))
}

func TestParsePortCountCodeBareAtMost(t *testing.T) {
	c, err := ParsePortCountCode("2/1")
	require.NoError(t, err)
	assert.True(t, c.Admits(0, 0))
	assert.True(t, c.Admits(2, 1))
	assert.False(t, c.Admits(3, 0))
	assert.False(t, c.Admits(0, 2))
}

func TestParsePortCountCodeEqualsBias(t *testing.T) {
	c, err := ParsePortCountCode("1-/=")
	require.NoError(t, err)
	assert.True(t, c.Admits(3, 3))
	assert.False(t, c.Admits(3, 4))

	c, err = ParsePortCountCode("0-/=++")
	require.NoError(t, err)
	assert.True(t, c.Admits(1, 3))
	assert.False(t, c.Admits(1, 2))
}

func TestParsePortCountCodeEmptyIsUnconstrained(t *testing.T) {
	c, err := ParsePortCountCode("")
	require.NoError(t, err)
	assert.True(t, c.Admits(0, 0))
	assert.True(t, c.Admits(99, 99))
}

func TestParsePortCountCodeSingleSideDefaultsOutputUnconstrained(t *testing.T) {
	c, err := ParsePortCountCode("1-1")
	require.NoError(t, err)
	assert.True(t, c.Admits(1, 0))
	assert.True(t, c.Admits(1, 500))
	assert.False(t, c.Admits(2, 0))
}

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

package confparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArgsBasic(t *testing.T) {
	args, err := SplitArgs("DATA hello, LIMIT 10, ACTIVE true")
	require.NoError(t, err)
	assert.Equal(t, []string{"DATA hello", "LIMIT 10", "ACTIVE true"}, args)
}

func TestSplitArgsIgnoresCommaInsideNestedParens(t *testing.T) {
	args, err := SplitArgs("FILTER (a, b, c), LIMIT 5")
	require.NoError(t, err)
	assert.Equal(t, []string{"FILTER (a, b, c)", "LIMIT 5"}, args)
}

func TestSplitArgsIgnoresCommaInsideQuotedString(t *testing.T) {
	args, err := SplitArgs(`SCRIPT "msg.a, msg.b", LIMIT 5`)
	require.NoError(t, err)
	assert.Equal(t, []string{`SCRIPT "msg.a, msg.b"`, "LIMIT 5"}, args)
}

func TestSplitArgsHandlesRawHexSegment(t *testing.T) {
	args, err := SplitArgs(`DATA "\<00 01 02\>"`)
	require.NoError(t, err)
	assert.Equal(t, []string{`DATA "\<00 01 02\>"`}, args)
}

func TestSplitArgsEmptyStringYieldsNoArgs(t *testing.T) {
	args, err := SplitArgs("")
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestSplitArgsSingleArgNoComma(t *testing.T) {
	args, err := SplitArgs("42")
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, args)
}

func TestSplitArgsUnbalancedClosingFails(t *testing.T) {
	_, err := SplitArgs("FOO )")
	assert.Error(t, err)
}

func TestSplitArgsUnbalancedNestingFails(t *testing.T) {
	_, err := SplitArgs("FOO (bar")
	assert.Error(t, err)
}

func TestSplitArgsUnterminatedStringFails(t *testing.T) {
	_, err := SplitArgs(`FOO "bar`)
	assert.Error(t, err)
}

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

package lexer

import (
	"testing"

	"github.com/bittoy/router/errh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenKinds(t *testing.T, src string) []Kind {
	t.Helper()
	sink := errh.New()
	l := New(src, "test.click", true, sink)
	var kinds []Kind
	for {
		tok := l.Next()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == KindEOF {
			break
		}
	}
	require.False(t, sink.HasErrors(), sink.String())
	return kinds
}

func TestLexPunctuation(t *testing.T) {
	kinds := tokenKinds(t, "a -> b => c :: d || e ... f")
	assert.Equal(t, []Kind{
		KindIdent, KindArrow, KindIdent, KindArrowFan, KindIdent,
		KindDoubleColon, KindIdent, KindBar2, KindIdent, KindEllipsis, KindIdent, KindEOF,
	}, kinds)
}

func TestLexKeywordsAndVariables(t *testing.T) {
	kinds := tokenKinds(t, "elementclass require provide define $n")
	assert.Equal(t, []Kind{
		KindElementClass, KindRequire, KindProvide, KindDefine, KindVariable, KindEOF,
	}, kinds)
}

func TestLexIdentifierWithSlash(t *testing.T) {
	sink := errh.New()
	l := New("ip/classifier", "t.click", true, sink)
	tok := l.Next()
	assert.Equal(t, KindIdent, tok.Kind)
	assert.Equal(t, "ip/classifier", tok.Text)
}

func TestLexCommentsSkipped(t *testing.T) {
	kinds := tokenKinds(t, "a // comment\nb /* block\ncomment */ c")
	assert.Equal(t, []Kind{KindIdent, KindIdent, KindIdent, KindEOF}, kinds)
}

func TestLexLineDirective(t *testing.T) {
	sink := errh.New()
	l := New("a\n#line 100 \"other.click\"\nb", "t.click", true, sink)
	tok1 := l.Next()
	assert.Equal(t, "t.click", tok1.Landmark.File)
	assert.Equal(t, 1, tok1.Landmark.Line)

	tok2 := l.Next()
	assert.Equal(t, "other.click", tok2.Landmark.File)
	assert.Equal(t, 100, tok2.Landmark.Line)
	require.False(t, sink.HasErrors())
}

func TestLexUnknownDirectiveIsError(t *testing.T) {
	sink := errh.New()
	l := New("#bogus\na", "t.click", true, sink)
	_ = l.Next()
	assert.True(t, sink.HasErrors())
}

func TestLexConfigString(t *testing.T) {
	sink := errh.New()
	l := New(`DATA \<00 01\>, LIMIT 3)rest`, "t.click", true, sink)
	tok, err := l.LexConfigString()
	require.NoError(t, err)
	assert.Equal(t, KindConfigString, tok.Kind)
	assert.Equal(t, `DATA \<00 01\>, LIMIT 3`, tok.Text)

	next := l.Next()
	assert.Equal(t, KindIdent, next.Kind)
	assert.Equal(t, "rest", next.Text)
}

func TestLexConfigStringBalancedParens(t *testing.T) {
	sink := errh.New()
	l := New(`Foo(1,2), Bar(3))`, "t.click", true, sink)
	tok, err := l.LexConfigString()
	require.NoError(t, err)
	assert.Equal(t, `Foo(1,2), Bar(3)`, tok.Text)
}

func TestLexConfigStringUnterminated(t *testing.T) {
	sink := errh.New()
	l := New(`Foo(1,2`, "t.click", true, sink)
	_, err := l.LexConfigString()
	assert.Error(t, err)
	assert.True(t, sink.HasErrors())
}

func TestPushback(t *testing.T) {
	sink := errh.New()
	l := New("a b", "t.click", true, sink)
	tok1 := l.Next()
	l.Unlex(tok1)
	tok1again := l.Next()
	assert.Equal(t, tok1.Text, tok1again.Text)
	tok2 := l.Next()
	assert.Equal(t, "b", tok2.Text)
}

func TestPeekOrExpect(t *testing.T) {
	sink := errh.New()
	l := New("foo", "t.click", true, sink)
	_, ok := l.PeekOrExpect(KindVariable)
	assert.False(t, ok)
	tok, ok := l.PeekOrExpect(KindIdent)
	assert.True(t, ok)
	assert.Equal(t, "foo", tok.Text)
}

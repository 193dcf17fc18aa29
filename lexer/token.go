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

import "github.com/bittoy/router/errh"

// Kind identifies the lexical class of a Token.
type Kind int

const (
	KindEOF Kind = iota
	KindIdent
	KindVariable // $name
	KindConfigString
	KindLbrace   // {
	KindRbrace   // }
	KindLbracket // [
	KindRbracket // ]
	KindLparen   // (
	KindRparen   // )
	KindComma
	KindSemicolon
	KindColon
	KindArrow      // ->
	KindArrowFan   // =>
	KindDoubleColon // ::
	KindBar2       // ||
	KindEllipsis   // ...
	KindWord       // bareword/quoted value, e.g. a require() argument

	// keyword identifiers, promoted from KindIdent
	KindElementClass
	KindRequire
	KindProvide
	KindDefine
)

var keywords = map[string]Kind{
	"elementclass": KindElementClass,
	"require":      KindRequire,
	"provide":      KindProvide,
	"define":       KindDefine,
}

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindIdent:
		return "identifier"
	case KindVariable:
		return "variable"
	case KindConfigString:
		return "config-string"
	case KindArrow:
		return "->"
	case KindArrowFan:
		return "=>"
	case KindDoubleColon:
		return "::"
	case KindBar2:
		return "||"
	case KindEllipsis:
		return "..."
	case KindWord:
		return "word"
	case KindElementClass:
		return "elementclass"
	case KindRequire:
		return "require"
	case KindProvide:
		return "provide"
	case KindDefine:
		return "define"
	default:
		return "punctuation"
	}
}

// Token is one lexed unit: a kind tag, the source text it spans, and
// a landmark for diagnostics.
type Token struct {
	Kind     Kind
	Text     string
	Landmark errh.Landmark
}

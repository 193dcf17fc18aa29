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
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/graph"
	"github.com/bittoy/router/lexer"
)

// requireStmt parses `require(word1 [value1], word2 [value2], …)`. A
// `library` requirement with a value is resolved through the
// installed LibraryLoader and inlined into r's statement stream
// immediately.
func (p *Parser) requireStmt(r *graph.Router) bool {
	reqTok, ok := p.expect(lexer.KindRequire)
	if !ok {
		return false
	}
	if _, ok := p.expect(lexer.KindLparen); !ok {
		return false
	}
	for p.lex.PeekSignificantByte() != ')' {
		typeTok := p.lex.LexBareword()
		if typeTok.Text == "" {
			p.errorf(typeTok.Landmark, "expected requirement type in require(...)")
			break
		}
		var value string
		if b := p.lex.PeekSignificantByte(); b != ',' && b != ')' {
			value = stripQuotes(p.lex.LexBareword().Text)
		}
		r.Requires = append(r.Requires, graph.Requirement{Type: typeTok.Text, Value: value})
		if typeTok.Text == "library" && value != "" {
			p.includeLibrary(r, value, reqTok.Landmark)
		}
		if !p.directiveSeparator() {
			break
		}
	}
	_, ok = p.expect(lexer.KindRparen)
	return ok
}

// provideStmt parses `provide(word1, word2, …)`, recording each word
// on r.Provides.
func (p *Parser) provideStmt(r *graph.Router) bool {
	if _, ok := p.expect(lexer.KindProvide); !ok {
		return false
	}
	if _, ok := p.expect(lexer.KindLparen); !ok {
		return false
	}
	for p.lex.PeekSignificantByte() != ')' {
		w := p.lex.LexBareword()
		if w.Text != "" {
			r.Provides = append(r.Provides, w.Text)
		}
		if !p.directiveSeparator() {
			break
		}
	}
	_, ok := p.expect(lexer.KindRparen)
	return ok
}

// defineStmt parses `define($name value, $name2 value2, …)`, adding
// each entry to r's scope. A duplicate definition is a recorded
// error, not a hard parse failure.
func (p *Parser) defineStmt(r *graph.Router) bool {
	if _, ok := p.expect(lexer.KindDefine); !ok {
		return false
	}
	if _, ok := p.expect(lexer.KindLparen); !ok {
		return false
	}
	for p.lex.PeekSignificantByte() != ')' {
		nameTok, ok := p.expect(lexer.KindVariable)
		if !ok {
			break
		}
		value := stripQuotes(p.lex.LexBareword().Text)
		if !r.Scope.Define(nameTok.Text, value) {
			p.errorf(nameTok.Landmark, "duplicate definition of $%s", nameTok.Text)
		}
		if !p.directiveSeparator() {
			break
		}
	}
	_, ok := p.expect(lexer.KindRparen)
	return ok
}

// directiveSeparator consumes a comma and reports true to continue,
// or leaves the token unconsumed and reports false at the closing
// paren or on error.
func (p *Parser) directiveSeparator() bool {
	tok := p.next()
	if tok.Kind == lexer.KindComma {
		return true
	}
	p.unnext(tok)
	return false
}

func stripQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// includeLibrary resolves and inlines a require(library name)
// directive: the named file is loaded relative to the requesting
// file, lexed, and its statements are parsed directly into r. Repeat
// requires of an already-resolved path are silently ignored.
func (p *Parser) includeLibrary(r *graph.Router, name string, lm errh.Landmark) {
	if p.loader == nil {
		p.errorf(lm, "require(library %s): no library loader configured", name)
		return
	}
	src, resolvedPath, err := p.loader.Load(name, p.lex.File())
	if err != nil {
		p.errorf(lm, "require(library %s): %s", name, err)
		return
	}
	if p.included[resolvedPath] {
		return
	}
	p.included[resolvedPath] = true

	saved := p.lex
	p.lex = lexer.New(src, resolvedPath, p.honorLineDirectives, p.sink)
	p.parseStatements(r, lexer.KindEOF)
	p.lex = saved
}

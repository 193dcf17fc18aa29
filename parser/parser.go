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

// Package parser turns a token stream into a graph.Router by
// recursive descent. It follows the same shape as a dedicated
// stateful parser type wrapping a decode loop with an explicit error
// path: a token-driven statement loop with synchronize-on-error
// recovery.
package parser

import (
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/graph"
	"github.com/bittoy/router/lexer"
)

// LibraryLoader resolves a `require(library name)` directive to source text. fromFile is the requesting file's path,
// used to resolve relative names. Implementations may consult
// CLICKPATH-style search paths (see the driver package).
type LibraryLoader interface {
	Load(name, fromFile string) (src, resolvedPath string, err error)
}

// Parser holds the mutable state of one parse: the current lexer (one
// per included file), the error sink, the router being built, and the
// set of files already inlined via require(library) (so repeated
// requires are no-ops).
type Parser struct {
	lex    *lexer.Lexer
	sink   *errh.Sink
	router *graph.Router

	loader LibraryLoader

	included map[string]bool

	honorLineDirectives bool

	// queue holds tokens pushed back beyond the lexer's own
	// single-token pushback, enabling short lookahead (e.g. to
	// distinguish a formal-parameter list from an ordinary
	// statement, or `name` from `name :: classref`).
	queue []lexer.Token
}

// next returns the next token, preferring anything queued via unnext
// over reading from the lexer.
func (p *Parser) next() lexer.Token {
	if len(p.queue) > 0 {
		tok := p.queue[0]
		p.queue = p.queue[1:]
		return tok
	}
	return p.lex.Next()
}

// unnext pushes tok back so the next call to next() returns it again.
// Unlike the lexer's single-slot pushback, unnext supports an
// arbitrary number of pending tokens (LIFO).
func (p *Parser) unnext(tok lexer.Token) {
	p.queue = append([]lexer.Token{tok}, p.queue...)
}

// Option configures a Parser.
type Option func(*Parser)

// WithLibraryLoader installs the loader used to resolve
// require(library ...) directives.
func WithLibraryLoader(l LibraryLoader) Option {
	return func(p *Parser) { p.loader = l }
}

// WithLineDirectives controls whether #line directives are honored by
// the lexer.
func WithLineDirectives(honor bool) Option {
	return func(p *Parser) { p.honorLineDirectives = honor }
}

// Parse lexes and parses src (attributed to file) into a fresh
// top-level Router. Syntax errors are recorded on sink; Parse returns
// the router built so far even when errors occurred, since later
// passes (or the caller) decide whether to abort.
func Parse(src, file string, sink *errh.Sink, opts ...Option) *graph.Router {
	p := &Parser{
		sink:                sink,
		router:              graph.NewRouter(nil),
		included:            make(map[string]bool),
		honorLineDirectives: true,
	}
	for _, o := range opts {
		o(p)
	}
	p.lex = lexer.New(src, file, p.honorLineDirectives, sink)
	p.included[file] = true
	p.parseStatements(p.router, lexer.KindEOF)
	return p.router
}

// parseStatements consumes statements until a token of kind stop is
// seen (and consumed) or EOF is reached. Used both for the top level
// (stop = KindEOF) and for braced compound bodies (stop =
// KindRbrace, so parseOneAlt in classdecl.go need not consume the
// closing brace itself).
func (p *Parser) parseStatements(r *graph.Router, stop lexer.Kind) {
	for {
		tok := p.next()
		if tok.Kind == stop || tok.Kind == lexer.KindEOF {
			return
		}
		if tok.Kind == lexer.KindSemicolon {
			continue
		}
		p.unnext(tok)
		if !p.statement(r) {
			p.synchronize()
		}
	}
}

// statement parses one top-level statement. Returns false if a
// syntax error prevented any progress, signalling the caller to
// synchronize.
func (p *Parser) statement(r *graph.Router) bool {
	tok := p.next()
	switch tok.Kind {
	case lexer.KindRequire:
		p.unnext(tok)
		return p.requireStmt(r)
	case lexer.KindProvide:
		p.unnext(tok)
		return p.provideStmt(r)
	case lexer.KindDefine:
		p.unnext(tok)
		return p.defineStmt(r)
	case lexer.KindElementClass:
		p.unnext(tok)
		return p.classdeclStmt(r)
	default:
		p.unnext(tok)
		return p.connChainStmt(r)
	}
}

// synchronize discards tokens up to and including the next `;`, or up
// to but not including the next `}` or EOF, so parsing can continue after a syntactic error whenever a
// synchronizing token can be found.
func (p *Parser) synchronize() {
	for {
		tok := p.next()
		switch tok.Kind {
		case lexer.KindSemicolon:
			return
		case lexer.KindRbrace:
			p.unnext(tok)
			return
		case lexer.KindEOF:
			p.unnext(tok)
			return
		}
	}
}

func (p *Parser) errorf(lm errh.Landmark, format string, args ...interface{}) {
	p.sink.Error(lm, format, args...)
}

// expect consumes and returns the next token, recording a syntax
// error if its kind does not match want.
func (p *Parser) expect(want lexer.Kind) (lexer.Token, bool) {
	tok := p.next()
	if tok.Kind != want {
		p.errorf(tok.Landmark, "expected %s, found %s %q", want, tok.Kind, tok.Text)
		p.unnext(tok)
		return tok, false
	}
	return tok, true
}

// qualifiedIdent returns tok's text when tok is an identifier or one
// of the promoted keyword kinds, since keywords remain valid class
// and variable names in most positions.
func qualifiedIdent(tok lexer.Token) (string, bool) {
	switch tok.Kind {
	case lexer.KindIdent:
		return tok.Text, true
	case lexer.KindElementClass, lexer.KindRequire, lexer.KindProvide, lexer.KindDefine:
		return tok.Text, true
	default:
		return "", false
	}
}

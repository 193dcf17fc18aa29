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

// classdeclStmt parses `elementclass NAME { ... } (|| { ... })*
// (... fallback)?`, installing the result into r.LocalClasses. A
// second `elementclass` declaration of the same name shadows the
// first: the new chain's tail is linked to the previously installed
// chain so overload resolution can still fall back to it.
func (p *Parser) classdeclStmt(r *graph.Router) bool {
	kwTok, ok := p.expect(lexer.KindElementClass)
	if !ok {
		return false
	}
	nameTok := p.next()
	name, ok := qualifiedIdent(nameTok)
	if !ok {
		p.errorf(nameTok.Landmark, "expected class name after 'elementclass', found %q", nameTok.Text)
		p.unnext(nameTok)
		return false
	}
	head := p.parseOverloadChain(r, name, kwTok.Landmark)
	if head == nil {
		return false
	}
	if existing, shadowed := r.LocalClasses[name]; shadowed {
		last := head
		for last.Next != nil {
			last = last.Next
		}
		if last.Fallback == nil {
			last.Next = existing
		}
	}
	r.LocalClasses[name] = head
	return true
}

// parseOverloadChain parses one compound-class chain: a brace body,
// then zero or more `|| { ... }` alternatives, then an optional
// `... fallbackName`. name is "" for an anonymous inline literal
// (the `{ compound }` classref form).
func (p *Parser) parseOverloadChain(r *graph.Router, name string, lm errh.Landmark) *graph.ElementClass {
	head := p.parseOneAlt(r, name, lm)
	if head == nil {
		return nil
	}
	cur := head
	for {
		tok := p.next()
		switch tok.Kind {
		case lexer.KindBar2:
			alt := p.parseOneAlt(r, name, tok.Landmark)
			if alt == nil {
				return head
			}
			cur.Next = alt
			cur = alt
		case lexer.KindEllipsis:
			fnTok := p.next()
			fname, ok := qualifiedIdent(fnTok)
			if !ok {
				p.errorf(fnTok.Landmark, "expected class name after '...', found %q", fnTok.Text)
				p.unnext(fnTok)
				return head
			}
			head.Fallback = p.resolveClassRef(r, fname, fnTok.Landmark)
			return head
		default:
			p.unnext(tok)
			return head
		}
	}
}

// parseOneAlt parses a single `{ formals? statement* }` compound body.
func (p *Parser) parseOneAlt(r *graph.Router, name string, lm errh.Landmark) *graph.ElementClass {
	if _, ok := p.expect(lexer.KindLbrace); !ok {
		return nil
	}
	formals := p.parseFormals()
	inner := graph.NewRouter(r.Scope)
	inner.Parent = r
	p.parseStatements(inner, lexer.KindRbrace)
	markTunnels(inner)
	return &graph.ElementClass{
		Name:     name,
		Kind:     graph.ClassCompound,
		Landmark: lm,
		Formals:  formals,
		Inner:    inner,
	}
}

// markTunnels flags the elements named "input"/"output" (if present)
// as tunnels.
func markTunnels(r *graph.Router) {
	if e, ok := r.ElementByName("input"); ok {
		e.Tunnel = true
	}
	if e, ok := r.ElementByName("output"); ok {
		e.Tunnel = true
	}
}

// parseFormals consumes a compound's optional formal-parameter list:
// a comma-separated run of `$name` (positional) or `ident $name`
// (keyword) entries terminated by a bare `|`. It uses two-token
// lookahead to decide whether the body begins with formals at all,
// leaving the tokens unconsumed and returning nil when it does not.
func (p *Parser) parseFormals() []graph.FormalParam {
	first := p.next()
	switch first.Kind {
	case lexer.KindVariable:
		p.unnext(first)
	case lexer.KindIdent:
		second := p.next()
		p.unnext(second)
		p.unnext(first)
		if second.Kind != lexer.KindVariable {
			return nil
		}
	default:
		p.unnext(first)
		return nil
	}

	var formals []graph.FormalParam
	sawRest := false
	for {
		tok := p.next()
		switch tok.Kind {
		case lexer.KindVariable:
			variadic := tok.Text == "__REST__"
			if sawRest {
				p.errorf(tok.Landmark, "formal parameter after __REST__")
			}
			sawRest = sawRest || variadic
			formals = append(formals, graph.FormalParam{Name: tok.Text, Variadic: variadic})
		case lexer.KindIdent:
			kwTok := tok
			vtok, ok := p.expect(lexer.KindVariable)
			if !ok {
				return formals
			}
			variadic := vtok.Text == "__REST__"
			if sawRest {
				p.errorf(vtok.Landmark, "formal parameter after __REST__")
			}
			sawRest = sawRest || variadic
			formals = append(formals, graph.FormalParam{Keyword: kwTok.Text, Name: vtok.Text, Variadic: variadic})
		default:
			p.errorf(tok.Landmark, "expected formal parameter, found %q", tok.Text)
			p.unnext(tok)
			return formals
		}

		sep := p.next()
		switch {
		case sep.Kind == lexer.KindComma:
			continue
		case sep.Kind == lexer.KindIdent && sep.Text == "|":
			return formals
		default:
			p.errorf(sep.Landmark, "expected ',' or '|' after formal parameter, found %q", sep.Text)
			p.unnext(sep)
			return formals
		}
	}
}

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

// chainElt is one parsed `elt`: the
// element it resolves to, plus the port specs written immediately
// before (leading, used when this elt sits on the destination side of
// a connection) and after it (trailing, used on the source side).
type chainElt struct {
	elem     *graph.Element
	leading  PortSpec
	trailing PortSpec
}

// connChainStmt parses one top-level connection-chain statement and
// wires its connections directly into r.
func (p *Parser) connChainStmt(r *graph.Router) bool {
	lmTok := p.next()
	p.unnext(lmTok)
	stages, ops := p.parseChain(r)
	if len(stages) == 1 && len(stages[0]) == 0 {
		tok := p.next()
		p.errorf(tok.Landmark, "expected a statement, found %q", tok.Text)
		p.unnext(tok)
		return false
	}
	p.connectStages(r, stages, ops, lmTok.Landmark)
	return true
}

// parseChain parses `elt-list ( ( -> | => ) elt-list )*`, returning
// the stages and the operator between each consecutive pair.
func (p *Parser) parseChain(r *graph.Router) ([][]*chainElt, []lexer.Kind) {
	stages := [][]*chainElt{p.parseEltList(r)}
	var ops []lexer.Kind
	for {
		tok := p.next()
		if tok.Kind == lexer.KindArrow || tok.Kind == lexer.KindArrowFan {
			ops = append(ops, tok.Kind)
			stages = append(stages, p.parseEltList(r))
			continue
		}
		p.unnext(tok)
		return stages, ops
	}
}

// parseEltList parses a comma-separated list of elts.
func (p *Parser) parseEltList(r *graph.Router) []*chainElt {
	var out []*chainElt
	for {
		ce, ok := p.parseElt(r)
		if ce != nil {
			out = append(out, ce)
		}
		if !ok {
			return out
		}
		tok := p.next()
		if tok.Kind == lexer.KindComma {
			continue
		}
		p.unnext(tok)
		return out
	}
}

// parseElt parses one `elt`: an optional leading port spec, the
// element reference itself, and an optional trailing port spec.
func (p *Parser) parseElt(r *graph.Router) (*chainElt, bool) {
	leading, _ := p.maybePortSpec()

	tok := p.next()
	switch tok.Kind {
	case lexer.KindLparen:
		elem := p.parseNestedGroup(r, tok.Landmark)
		if elem == nil {
			return nil, false
		}
		trailing, _ := p.maybePortSpec()
		return &chainElt{elem: elem, leading: leading, trailing: trailing}, true

	case lexer.KindLbrace:
		p.unnext(tok)
		cls := p.parseOverloadChain(r, "", tok.Landmark)
		if cls == nil {
			return nil, false
		}
		cfg, _ := p.maybeConfigString()
		name := r.AnonymousName(anonClassLabel(cls))
		elem := p.declareElement(r, name, cls, cfg, tok.Landmark)
		trailing, _ := p.maybePortSpec()
		return &chainElt{elem: elem, leading: leading, trailing: trailing}, true

	case lexer.KindIdent, lexer.KindElementClass, lexer.KindRequire, lexer.KindProvide, lexer.KindDefine:
		ident, _ := qualifiedIdent(tok)
		dctok := p.next()
		if dctok.Kind == lexer.KindDoubleColon {
			cls, ok := p.parseClassRef(r)
			if !ok {
				return nil, false
			}
			cfg, _ := p.maybeConfigString()
			elem := p.declareElement(r, ident, cls, cfg, tok.Landmark)
			trailing, _ := p.maybePortSpec()
			return &chainElt{elem: elem, leading: leading, trailing: trailing}, true
		}
		p.unnext(dctok)

		if existing, ok := r.ElementByName(ident); ok {
			trailing, _ := p.maybePortSpec()
			return &chainElt{elem: existing, leading: leading, trailing: trailing}, true
		}

		// "input"/"output" name the compound's tunnel pseudo-elements
		//: the bareword declares (or, after the first
		// mention, would already have matched the existing-element
		// branch above) the literal tunnel, not an anonymous instance
		// of a class named "input"/"output".
		if graph.IsInputTunnelName(ident) || graph.IsOutputTunnelName(ident) {
			elem := p.declareElement(r, ident, newTunnelClass(), "", tok.Landmark)
			trailing, _ := p.maybePortSpec()
			return &chainElt{elem: elem, leading: leading, trailing: trailing}, true
		}

		cls := p.resolveClassRef(r, ident, tok.Landmark)
		cfg, _ := p.maybeConfigString()
		name := r.AnonymousName(ident)
		elem := p.declareElement(r, name, cls, cfg, tok.Landmark)
		trailing, _ := p.maybePortSpec()
		return &chainElt{elem: elem, leading: leading, trailing: trailing}, true

	default:
		p.errorf(tok.Landmark, "expected an element, found %q", tok.Text)
		p.unnext(tok)
		return nil, false
	}
}

// parseClassRef parses the `classref := ident | { compound }`
// grammar rule.
func (p *Parser) parseClassRef(r *graph.Router) (*graph.ElementClass, bool) {
	tok := p.next()
	if tok.Kind == lexer.KindLbrace {
		p.unnext(tok)
		cls := p.parseOverloadChain(r, "", tok.Landmark)
		return cls, cls != nil
	}
	name, ok := qualifiedIdent(tok)
	if !ok {
		p.errorf(tok.Landmark, "expected a class name, found %q", tok.Text)
		p.unnext(tok)
		return nil, false
	}
	return p.resolveClassRef(r, name, tok.Landmark), true
}

// maybeConfigString consumes a `(` cfgstr `)` suffix if present. It
// reads the raw parenthesized body directly from the lexer (LexConfigString),
// bypassing the parser's own token queue, which is safe because
// nothing is ever queued between consuming the opening paren and this
// call.
func (p *Parser) maybeConfigString() (string, bool) {
	tok := p.next()
	if tok.Kind != lexer.KindLparen {
		p.unnext(tok)
		return "", false
	}
	cfgTok, err := p.lex.LexConfigString()
	if err != nil {
		p.errorf(cfgTok.Landmark, "%s", err.Error())
	}
	return cfgTok.Text, true
}

func anonClassLabel(cls *graph.ElementClass) string {
	if cls.Name != "" {
		return cls.Name
	}
	return "anon"
}

// declareElement adds a new element to r, enforcing name uniqueness
// across the whole router.
func (p *Parser) declareElement(r *graph.Router, name string, cls *graph.ElementClass, cfg string, lm errh.Landmark) *graph.Element {
	e := &graph.Element{Name: name, Class: cls, ConfigString: cfg, Landmark: lm}
	if graph.IsInputTunnelName(name) || graph.IsOutputTunnelName(name) {
		e.Tunnel = true
	}
	if err := r.AddElement(e); err != nil {
		p.errorf(lm, "%s", err.Error())
	}
	return e
}

// parseNestedGroup parses the `(` nested-chain `)` anonymous-group
// form: the opening `(` has already been consumed.
// The sub-chain's own unconnected leading ports (of its first stage)
// and trailing ports (of its last stage) become the synthesized
// compound's `input`/`output` tunnel arity.
func (p *Parser) parseNestedGroup(r *graph.Router, lm errh.Landmark) *graph.Element {
	inner := graph.NewRouter(r.Scope)
	inner.Parent = r

	stages, ops := p.parseChain(inner)
	p.expect(lexer.KindRparen)

	p.connectStages(inner, stages, ops, lm)

	firstIn, _ := flattenSide(stages[0], false)
	lastOut, _ := flattenSide(stages[len(stages)-1], true)

	inTun := &graph.Element{Name: "input", Tunnel: true, Landmark: lm, Class: newTunnelClass(), NOutputs: len(firstIn)}
	outTun := &graph.Element{Name: "output", Tunnel: true, Landmark: lm, Class: newTunnelClass(), NInputs: len(lastOut)}
	if err := inner.AddElement(inTun); err != nil {
		p.errorf(lm, "%s", err.Error())
	}
	if err := inner.AddElement(outTun); err != nil {
		p.errorf(lm, "%s", err.Error())
	}
	for i, port := range firstIn {
		inner.AddConnection(&graph.Connection{From: inTun.Output(i), To: port, Landmark: lm})
	}
	for i, port := range lastOut {
		inner.AddConnection(&graph.Connection{From: port, To: outTun.Input(i), Landmark: lm})
	}

	cls := &graph.ElementClass{Kind: graph.ClassCompound, Landmark: lm, Inner: inner}
	name := r.AnonymousName("Group")
	elem := &graph.Element{Name: name, Class: cls, Landmark: lm, NInputs: len(firstIn), NOutputs: len(lastOut)}
	if err := r.AddElement(elem); err != nil {
		p.errorf(lm, "%s", err.Error())
	}
	return elem
}

func newTunnelClass() *graph.ElementClass {
	return &graph.ElementClass{Name: "<tunnel>", Kind: graph.ClassTunnel}
}

// expandInfo records that one side of a connection ended in an
// expandable port spec, and where the next
// synthesized port index on that element would start.
type expandInfo struct {
	elem      *graph.Element
	isSource  bool
	nextIndex int
	// bareEmpty mirrors PortSpec.BareEmpty: this expandable end was
	// written as a bare "[]" rather than a trailing-sentinel "[0,1,]".
	bareEmpty bool
}

// flattenSide expands each chain element's port spec into a flat list
// of concrete ports. An elt in the middle of a chain (`a -> [0]b[1]
// -> c`) carries both a leading (input-side) and trailing
// (output-side) spec; an elt at either end of the whole statement
// only ever has one of the two written, so whichever role (source or
// destination) it is asked for here falls back to whichever spec
// actually has a bracket. This matters for a statement like
// `[0,1,2]src => [0,1,2]sink;`, where the only bracket on each side is
// written leading yet `src` is used purely as a source.
func flattenSide(elts []*chainElt, isSource bool) ([]graph.Port, *expandInfo) {
	var endpoints []graph.Port
	var expand *expandInfo
	for _, ce := range elts {
		spec := ce.leading
		alt := ce.trailing
		if isSource {
			spec, alt = ce.trailing, ce.leading
		}
		if !spec.HasBracket && alt.HasBracket {
			spec = alt
		}
		idxs := spec.Indices
		if !spec.HasBracket {
			idxs = []int{0}
		}
		for _, idx := range idxs {
			if isSource {
				endpoints = append(endpoints, ce.elem.Output(idx))
			} else {
				endpoints = append(endpoints, ce.elem.Input(idx))
			}
		}
		if spec.Expandable {
			expand = &expandInfo{elem: ce.elem, isSource: isSource, nextIndex: len(idxs), bareEmpty: spec.BareEmpty}
		}
	}
	return endpoints, expand
}

// connectStages walks the stage boundaries of a parsed chain, pairing
// each side's flattened ports and adding the
// resulting connections to r.
func (p *Parser) connectStages(r *graph.Router, stages [][]*chainElt, ops []lexer.Kind, lm errh.Landmark) {
	for i, op := range ops {
		left, leftExp := flattenSide(stages[i], true)
		right, rightExp := flattenSide(stages[i+1], false)
		for _, c := range p.combine(op, left, leftExp, right, rightExp, lm) {
			r.AddConnection(c)
		}
	}
}

// combine pairs left (source) ports against right (destination)
// ports, expanding whichever side has a lone expandable end to make
// the counts match. A bare "[]" only counts as expandable under "=>";
// under "->" it is left as-is (zero ports on that end) and a
// port-count mismatch is reported like any other count disagreement.
// The trailing-sentinel form "[0,1,]" counts as expandable under
// either operator.
func (p *Parser) combine(op lexer.Kind, left []graph.Port, leftExp *expandInfo, right []graph.Port, rightExp *expandInfo, lm errh.Landmark) []*graph.Connection {
	if op != lexer.KindArrowFan {
		if leftExp != nil && leftExp.bareEmpty {
			leftExp = nil
		}
		if rightExp != nil && rightExp.bareEmpty {
			rightExp = nil
		}
	}
	switch {
	case leftExp != nil && rightExp == nil:
		left = expandPorts(left, leftExp, len(right)-len(left))
	case rightExp != nil && leftExp == nil:
		right = expandPorts(right, rightExp, len(left)-len(right))
	}
	if len(left) != len(right) {
		p.errorf(lm, "connection port-count mismatch: %d output(s) vs %d input(s)", len(left), len(right))
	}
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	conns := make([]*graph.Connection, 0, n)
	for i := 0; i < n; i++ {
		conns = append(conns, &graph.Connection{From: left[i], To: right[i], Landmark: lm})
	}
	return conns
}

func expandPorts(ports []graph.Port, exp *expandInfo, need int) []graph.Port {
	if need <= 0 {
		return ports
	}
	for k := 0; k < need; k++ {
		idx := exp.nextIndex + k
		if exp.isSource {
			ports = append(ports, exp.elem.Output(idx))
		} else {
			ports = append(ports, exp.elem.Input(idx))
		}
	}
	return ports
}

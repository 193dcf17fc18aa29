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
	"github.com/bittoy/router/lexer"
)

// PortSpec is a parsed bracketed port list, e.g. `[0,1]`, `[]`, or the
// trailing-sentinel form `[0,1,]`.
type PortSpec struct {
	HasBracket bool
	Indices    []int
	Expandable bool
	// BareEmpty marks the empty-bracket form "[]" specifically, as
	// opposed to the trailing-sentinel form "[0,1,]": combine treats
	// the two differently depending on the connection operator.
	BareEmpty bool
}

// defaultPortSpec is what an element contributes to a chain side when
// no bracket was written at all: a single reference to port 0,
// non-expandable.
func defaultPortSpec() PortSpec {
	return PortSpec{HasBracket: false, Indices: []int{0}}
}

// maybePortSpec consumes a leading `[` if present and parses the
// bracketed int-list, returning ok=false if no bracket was present.
func (p *Parser) maybePortSpec() (PortSpec, bool) {
	tok := p.next()
	if tok.Kind != lexer.KindLbracket {
		p.unnext(tok)
		return PortSpec{}, false
	}
	spec := PortSpec{HasBracket: true}
	sawComma := false
	for {
		tok = p.next()
		if tok.Kind == lexer.KindRbracket {
			// A bare "[]", or a trailing comma before the closing
			// bracket as in "[0,1,]", both mean expandable, but
			// combine only honors the bare form under "=>" (P1).
			if len(spec.Indices) == 0 {
				spec.Expandable = true
				spec.BareEmpty = true
			} else if sawComma {
				spec.Expandable = true
			}
			return spec, true
		}
		if tok.Kind != lexer.KindIdent {
			p.errorf(tok.Landmark, "expected port index, found %q", tok.Text)
			return spec, true
		}
		n, ok := parsePositiveInt(tok.Text)
		if !ok {
			p.errorf(tok.Landmark, "bad port index %q", tok.Text)
		} else {
			spec.Indices = append(spec.Indices, n)
		}
		sawComma = false
		tok = p.next()
		switch tok.Kind {
		case lexer.KindComma:
			sawComma = true
			continue
		case lexer.KindRbracket:
			return spec, true
		default:
			p.errorf(tok.Landmark, "expected ',' or ']' in port list, found %q", tok.Text)
			p.unnext(tok)
			return spec, true
		}
	}
}

func parsePositiveInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

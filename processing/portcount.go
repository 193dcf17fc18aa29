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

// Package processing implements the processing-discipline inference
// algorithm (push/pull/agnostic resolution via flow-code propagation)
// and the port-count-code grammar used both to validate an element's
// final port counts and to pick among overloaded compound-class
// alternatives.
package processing

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an inclusive port-count bound. Hi == -1 means unbounded.
type Range struct {
	Lo int
	Hi int
}

// Contains reports whether n falls within the range.
func (r Range) Contains(n int) bool {
	if n < r.Lo {
		return false
	}
	return r.Hi < 0 || n <= r.Hi
}

func (r Range) String() string {
	if r.Hi < 0 {
		return fmt.Sprintf("%d-", r.Lo)
	}
	if r.Lo == r.Hi {
		return strconv.Itoa(r.Lo)
	}
	return fmt.Sprintf("%d-%d", r.Lo, r.Hi)
}

// PortCountCode is a parsed `lo[-hi][/lo[-hi]]` (or `.../=[+...]`)
// port-count declaration.
type PortCountCode struct {
	Inputs  Range
	Outputs Range // ignored when OutputsEqualInputs

	// OutputsEqualInputs is set by a trailing "=[+...]" output side:
	// the element always has as many outputs as inputs, plus Bias.
	OutputsEqualInputs bool
	Bias               int
}

// unconstrained admits any port count on a side that was left empty.
var unconstrained = Range{Lo: 0, Hi: -1}

// ParsePortCountCode parses a port-count code. An empty string yields
// a code that admits any input/output count (what tunnels and
// compound classes report, having no declared port-count code).
func ParsePortCountCode(code string) (PortCountCode, error) {
	if code == "" {
		return PortCountCode{Inputs: unconstrained, Outputs: unconstrained}, nil
	}
	sides := strings.SplitN(code, "/", 2)
	in, err := parseRange(sides[0])
	if err != nil {
		return PortCountCode{}, fmt.Errorf("bad input port-count %q: %w", sides[0], err)
	}
	if len(sides) == 1 {
		return PortCountCode{Inputs: in, Outputs: unconstrained}, nil
	}
	outStr := sides[1]
	if strings.HasPrefix(outStr, "=") {
		bias := 0
		for _, c := range outStr[1:] {
			if c != '+' {
				return PortCountCode{}, fmt.Errorf("bad output port-count %q: expected only '+' after '='", outStr)
			}
			bias++
		}
		return PortCountCode{Inputs: in, OutputsEqualInputs: true, Bias: bias}, nil
	}
	out, err := parseRange(outStr)
	if err != nil {
		return PortCountCode{}, fmt.Errorf("bad output port-count %q: %w", outStr, err)
	}
	return PortCountCode{Inputs: in, Outputs: out}, nil
}

// parseRange parses one side of a port-count code: "lo" (at most lo),
// "lo-" (lo or more, no upper bound), or "lo-hi" (a closed range). An
// empty string is unconstrained.
func parseRange(s string) (Range, error) {
	if s == "" {
		return unconstrained, nil
	}
	dash := strings.IndexByte(s, '-')
	if dash < 0 {
		lo, err := strconv.Atoi(s)
		if err != nil {
			return Range{}, err
		}
		return Range{Lo: 0, Hi: lo}, nil
	}
	loStr, hiStr := s[:dash], s[dash+1:]
	lo := 0
	if loStr != "" {
		n, err := strconv.Atoi(loStr)
		if err != nil {
			return Range{}, err
		}
		lo = n
	}
	if hiStr == "" {
		return Range{Lo: lo, Hi: -1}, nil
	}
	hi, err := strconv.Atoi(hiStr)
	if err != nil {
		return Range{}, err
	}
	return Range{Lo: lo, Hi: hi}, nil
}

// Admits reports whether nIn inputs and nOut outputs satisfy the
// code. Used both to validate an element's final port counts and to
// select among overloaded compound-class alternatives.
func (c PortCountCode) Admits(nIn, nOut int) bool {
	if !c.Inputs.Contains(nIn) {
		return false
	}
	if c.OutputsEqualInputs {
		return nOut == nIn+c.Bias
	}
	return c.Outputs.Contains(nOut)
}

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
	"fmt"
	"strings"

	"github.com/bittoy/router/graph"
)

// Code is a parsed processing code: a per-port discipline for a
// class's inputs and outputs. The side's last declared port repeats
// for every port beyond what was written, the same convention as a
// flow code.
type Code struct {
	Inputs  []graph.Processing
	Outputs []graph.Processing
}

func letterProcessing(c byte) (graph.Processing, bool) {
	switch c {
	case 'h':
		return graph.ProcPush, true
	case 'l':
		return graph.ProcPull, true
	case 'a':
		return graph.ProcAgnostic, true
	case 'H':
		return graph.ProcPushAgnostic, true
	case 'L':
		return graph.ProcPullAgnostic, true
	case 'A':
		return graph.ProcAgnostic, true
	default:
		return 0, false
	}
}

// ParseCode parses an "in/out" processing code. A missing output side
// (no '/') repeats the input side, the same default a flow code takes;
// an empty side after the '/' is an error.
func ParseCode(code string) (Code, error) {
	if code == "" {
		return Code{}, nil
	}
	parts := strings.SplitN(code, "/", 2)
	in, err := parseProcessingSide(parts[0])
	if err != nil {
		return Code{}, fmt.Errorf("bad processing code input side %q: %w", parts[0], err)
	}
	out := in
	if len(parts) == 2 {
		out, err = parseProcessingSide(parts[1])
		if err != nil {
			return Code{}, fmt.Errorf("bad processing code output side %q: %w", parts[1], err)
		}
	}
	return Code{Inputs: in, Outputs: out}, nil
}

func parseProcessingSide(s string) ([]graph.Processing, error) {
	if s == "" {
		return nil, fmt.Errorf("empty processing code side")
	}
	out := make([]graph.Processing, 0, len(s))
	for i := 0; i < len(s); i++ {
		p, ok := letterProcessing(s[i])
		if !ok {
			return nil, fmt.Errorf("unexpected character %q in processing code", s[i])
		}
		out = append(out, p)
	}
	return out, nil
}

func procAt(side []graph.Processing, idx int) graph.Processing {
	if len(side) == 0 {
		return graph.ProcAgnostic
	}
	if idx >= len(side) {
		idx = len(side) - 1
	}
	return side[idx]
}

// InputAt returns the declared discipline for input port i, agnostic
// if the code declares no input side at all.
func (c Code) InputAt(i int) graph.Processing { return procAt(c.Inputs, i) }

// OutputAt returns the declared discipline for output port j,
// agnostic if the code declares no output side at all.
func (c Code) OutputAt(j int) graph.Processing { return procAt(c.Outputs, j) }

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

// Package classify implements the expression- and script-driven
// classifying elements: ExprClassifier evaluates a chain of
// expr-lang/expr boolean expressions (or a single integer-valued one)
// to pick an output port, and ScriptFilter evaluates a goja JavaScript
// predicate to pick between two.
package classify

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/bittoy/router/confparse"
	"github.com/bittoy/router/element"
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/packet"
)

func init() {
	must(element.Default.Register("ExprClassifier", func() element.Element { return &ExprClassifier{} }))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// exprClassifierConfig is decoded from ExprClassifier's keyword
// arguments: EXPR "..." PORTS n, or just PORTS n when the case
// expressions are given positionally (see Configure).
//
// With EXPR set, the expression is compiled once and must evaluate to
// an integer output-port index for every packet (out-of-range results
// route to the last port). Without EXPR, every positional argument is
// compiled as a boolean case expression and evaluated in order; the
// first one that returns true selects its own index as the output
// port, and no match falls through to the last port (the classifier's
// "default" output).
type exprClassifierConfig struct {
	Expr  string `json:"EXPR"`
	Ports int    `json:"PORTS"`
}

// packetEnv builds the expression environment exposed to both
// ExprClassifier and ScriptFilter: the packet's payload as a string,
// its length, and its paint annotation, mirroring the fields a
// classifying element can branch on without needing a structured
// message body.
func packetEnv(pkt *packet.Packet) map[string]any {
	return map[string]any{
		"data":   string(pkt.Data()),
		"length": pkt.Length(),
		"paint":  int(pkt.Annotations().Paint()),
	}
}

// ExprClassifier is a push-in, push-out-N-ways element: one input,
// its output count fixed by configuration, dispatching every packet
// to the output its compiled expression (or first matching case)
// selects.
type ExprClassifier struct {
	element.Base

	single   *vm.Program
	cases    []*vm.Program
	numPorts int
}

// Configure implements element.Element.
func (x *ExprClassifier) Configure(args []string, sink *errh.Sink) error {
	a := confparse.Parse(args)
	cfg := exprClassifierConfig{}
	if err := confparse.Decode(&cfg, a); err != nil {
		sink.Error(errh.Landmark{}, "ExprClassifier: %v", err)
		return err
	}

	switch {
	case cfg.Expr != "":
		if cfg.Ports <= 0 {
			err := fmt.Errorf("ExprClassifier: PORTS must be given and positive when EXPR is used")
			sink.Error(errh.Landmark{}, "%v", err)
			return err
		}
		program, err := expr.Compile(cfg.Expr, expr.AllowUndefinedVariables(), expr.AsKind(reflect.Int))
		if err != nil {
			sink.Error(errh.Landmark{}, "ExprClassifier: compiling EXPR: %v", err)
			return err
		}
		x.single = program
		x.numPorts = cfg.Ports

	case len(a.Positional) > 0:
		x.cases = make([]*vm.Program, len(a.Positional))
		for i, src := range a.Positional {
			program, err := expr.Compile(src, expr.AllowUndefinedVariables(), expr.AsKind(reflect.Bool))
			if err != nil {
				sink.Error(errh.Landmark{}, "ExprClassifier: compiling case %d: %v", i, err)
				return err
			}
			x.cases[i] = program
		}
		x.numPorts = len(a.Positional) + 1

	default:
		err := fmt.Errorf("ExprClassifier: one of EXPR or a list of case expressions is required")
		sink.Error(errh.Landmark{}, "%v", err)
		return err
	}
	return nil
}

// Initialize implements element.Element.
func (x *ExprClassifier) Initialize(sink *errh.Sink) error { return nil }

// Cleanup implements element.Element.
func (x *ExprClassifier) Cleanup(stage element.CleanupStage) {}

// Push implements element.Pusher.
func (x *ExprClassifier) Push(port int, pkt *packet.Packet) {
	env := packetEnv(pkt)
	out := x.classify(env)
	x.PushOutput(out, pkt)
}

func (x *ExprClassifier) classify(env map[string]any) int {
	if x.single != nil {
		result, err := vm.Run(x.single, env)
		if err != nil {
			return x.numPorts - 1
		}
		idx, ok := result.(int)
		if !ok || idx < 0 || idx >= x.numPorts {
			return x.numPorts - 1
		}
		return idx
	}
	for i, program := range x.cases {
		result, err := vm.Run(program, env)
		if err != nil {
			continue
		}
		if matched, ok := result.(bool); ok && matched {
			return i
		}
	}
	return x.numPorts - 1
}

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

package graph

import "github.com/bittoy/router/errh"

// Element is an instance of an ElementClass inside a Router.
type Element struct {
	Name          string
	Class         *ElementClass
	ConfigString  string // pre-variable-expansion
	Landmark      errh.Landmark

	NInputs  int
	NOutputs int

	Tunnel bool
	Dead   bool

	// InputStates/OutputStates hold per-port inference state,
	// lazily grown by Port.State(). Indexed independently of
	// NInputs/NOutputs so inference can run before final counts are
	// locked in.
	InputStates  []PortState
	OutputStates []PortState

	// UserData is an opaque slot for the element runtime to attach
	// its live instance once the graph is instantiated.
	UserData interface{}
}

// Input returns the Port naming e's i'th input.
func (e *Element) Input(i int) Port {
	return Port{Element: e, Index: i, Dir: DirTo}
}

// Output returns the Port naming e's i'th output.
func (e *Element) Output(i int) Port {
	return Port{Element: e, Index: i, Dir: DirFrom}
}

// IsInputTunnelName reports whether name is the reserved name for a
// compound class's input tunnel.
func IsInputTunnelName(name string) bool { return name == "input" }

// IsOutputTunnelName reports whether name is the reserved name for a
// compound class's output tunnel.
func IsOutputTunnelName(name string) bool { return name == "output" }

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

// Direction distinguishes which side of an element a Port sits on.
type Direction int

const (
	DirFrom Direction = iota // an output port ("from" side of a connection)
	DirTo                     // an input port ("to" side of a connection)
)

func (d Direction) String() string {
	if d == DirFrom {
		return "output"
	}
	return "input"
}

// Processing is a port's inferred processing discipline: push, pull,
// agnostic, or decorated agnostic.
type Processing int

const (
	ProcAgnostic Processing = iota
	ProcPush
	ProcPull
	// ProcPushAgnostic and ProcPullAgnostic are "decorated agnostic":
	// agnostic but with a preferred resolution, per the uppercase
	// letters in a processing code.
	ProcPushAgnostic
	ProcPullAgnostic
)

func (p Processing) String() string {
	switch p {
	case ProcPush:
		return "push"
	case ProcPull:
		return "pull"
	case ProcPushAgnostic:
		return "push-agnostic"
	case ProcPullAgnostic:
		return "pull-agnostic"
	default:
		return "agnostic"
	}
}

// IsAgnostic reports whether p has not yet been resolved to a
// definite push/pull discipline.
func (p Processing) IsAgnostic() bool {
	return p == ProcAgnostic || p == ProcPushAgnostic || p == ProcPullAgnostic
}

// Preferred returns the discipline a decorated-agnostic port prefers
// when R3 resolution applies.
func (p Processing) Preferred() Processing {
	switch p {
	case ProcPushAgnostic:
		return ProcPush
	case ProcPullAgnostic:
		return ProcPull
	default:
		return ProcPush
	}
}

// PortState is the mutable per-port inference state tracked during
// processing inference and validated once inference reaches
// fixpoint.
type PortState struct {
	Processing Processing
	ErrorFlag  bool
}

// Port identifies one numbered input or output of an Element.
type Port struct {
	Element *Element
	Index   int
	Dir     Direction
}

// State returns the mutable inference state for this port,
// allocating the element's port-state slices on first use.
func (p Port) State() *PortState {
	e := p.Element
	if p.Dir == DirFrom {
		for len(e.OutputStates) <= p.Index {
			e.OutputStates = append(e.OutputStates, PortState{})
		}
		return &e.OutputStates[p.Index]
	}
	for len(e.InputStates) <= p.Index {
		e.InputStates = append(e.InputStates, PortState{})
	}
	return &e.InputStates[p.Index]
}

// Equal reports whether p and other name the same port.
func (p Port) Equal(other Port) bool {
	return p.Element == other.Element && p.Index == other.Index && p.Dir == other.Dir
}

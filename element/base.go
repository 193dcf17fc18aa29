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

package element

import (
	"github.com/bittoy/router/graph"
	"github.com/bittoy/router/packet"
)

// RouterBinder is implemented by elements that push or pull packets on
// their own initiative (a TaskRunner source, a TimerRunner, a Pusher
// whose Push forwards further than its own output). The driver calls
// BindRouter once per element, right after instantiating it and
// before Configure (SchedulerBinder.BindScheduler follows later,
// after Configure), so the element has everything it needs before
// Initialize runs.
type RouterBinder interface {
	BindRouter(r *graph.Router, e *graph.Element)
}

// Base gives an element implementation a stored reference to its own
// graph.Element and owning graph.Router, plus short helpers over the
// package-level PushOutput/PullInput. Embed it in an element type that
// needs to move packets on its own rather than purely in response to
// a Push/Pull call from a neighbor.
type Base struct {
	Router *graph.Router
	Graph  *graph.Element
}

// BindRouter implements RouterBinder.
func (b *Base) BindRouter(r *graph.Router, e *graph.Element) {
	b.Router = r
	b.Graph = e
}

// PushOutput delivers pkt out of the embedding element's output port.
func (b *Base) PushOutput(port int, pkt *packet.Packet) {
	PushOutput(b.Router, b.Graph, port, pkt)
}

// PullInput draws a packet through the embedding element's input port.
func (b *Base) PullInput(port int) *packet.Packet {
	return PullInput(b.Router, b.Graph, port)
}

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

// PushOutput delivers pkt, which the caller must own, out of e's
// output port, following the single connection a resolved push
// output is guaranteed to have. A port with no connection (a dead
// element, or an incompletely wired test graph) kills the packet.
func PushOutput(r *graph.Router, e *graph.Element, port int, pkt *packet.Packet) {
	conns := r.ConnectionsFrom(e.Output(port))
	if len(conns) == 0 {
		pkt.Kill()
		return
	}
	to := conns[0].To
	deliverTo(r, to.Element, to.Index, pkt)
}

// deliverTo hands pkt to e's input port: straight to Push if e is a
// Pusher, or through SimpleAction followed by a recursive PushOutput
// if e is agnostic. An element wired as a push destination that
// implements neither kills the packet rather than leaking it.
func deliverTo(r *graph.Router, e *graph.Element, port int, pkt *packet.Packet) {
	inst := instanceOf(e)
	if inst == nil {
		pkt.Kill()
		return
	}
	if pusher, ok := inst.Impl.(Pusher); ok {
		pusher.Push(port, pkt)
		return
	}
	if actioner, ok := inst.Impl.(SimpleActioner); ok {
		out := actioner.SimpleAction(pkt)
		if out == nil {
			return
		}
		PushOutput(r, e, 0, out)
		return
	}
	pkt.Kill()
}

// PullInput draws a packet through e's input port, following the
// single connection a resolved pull input is guaranteed to have.
// Returns nil if the port has no connection or nothing is available
// upstream.
func PullInput(r *graph.Router, e *graph.Element, port int) *packet.Packet {
	conns := r.ConnectionsTo(e.Input(port))
	if len(conns) == 0 {
		return nil
	}
	from := conns[0].From
	return drawFrom(r, from.Element, from.Index)
}

// drawFrom pulls a packet out of e's output port: straight from Pull
// if e is a Puller, or by recursively pulling e's own input and
// running it through SimpleAction if e is agnostic.
func drawFrom(r *graph.Router, e *graph.Element, port int) *packet.Packet {
	inst := instanceOf(e)
	if inst == nil {
		return nil
	}
	if puller, ok := inst.Impl.(Puller); ok {
		return puller.Pull(port)
	}
	if actioner, ok := inst.Impl.(SimpleActioner); ok {
		in := PullInput(r, e, 0)
		if in == nil {
			return nil
		}
		return actioner.SimpleAction(in)
	}
	return nil
}

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

// Package element defines the runtime contract an element
// implementation satisfies, the registry mapping a graph element
// class name to a Go constructor, the push/pull dispatch that moves
// packets between connected elements, and named read/write handlers.
package element

import (
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/graph"
	"github.com/bittoy/router/packet"
)

// CleanupStage tells Cleanup how far its element got, mirroring the
// stage argument a destructor needs to tell "configuration never
// finished" from "ran, then the whole router is shutting down".
type CleanupStage int

const (
	CleanupConfigureFailed CleanupStage = iota
	CleanupInitFailed
	CleanupRouterInitialized
	CleanupShutdown
)

// Element is the contract every router element implementation
// satisfies: configuration-time argument parsing, post-graph-build
// initialization, and teardown. Dataflow capability is opt-in via
// Pusher, Puller, and SimpleActioner below; an element implements
// whichever of those match its resolved processing code.
type Element interface {
	Configure(args []string, sink *errh.Sink) error
	Initialize(sink *errh.Sink) error
	Cleanup(stage CleanupStage)
}

// Pusher is implemented by elements with one or more push inputs.
// Push takes ownership of pkt; the element must either forward it
// (via PushOutput), hold onto it, or kill it.
type Pusher interface {
	Push(port int, pkt *packet.Packet)
}

// Puller is implemented by elements with one or more pull outputs.
// Pull returns a packet the caller now owns, or nil if none is
// available.
type Puller interface {
	Pull(port int) *packet.Packet
}

// SimpleActioner is implemented by agnostic elements with exactly one
// input and one or two outputs: port 0 carries the transformed
// packet, port 1 (if wired) carries packets the element chooses to
// route aside rather than forward on port 0. Returning nil drops the
// packet.
type SimpleActioner interface {
	SimpleAction(pkt *packet.Packet) *packet.Packet
}

// Cloner lets an element customize how a fresh instance of its own
// class is produced. Most implementations don't need this: the
// registry constructs a new zero value per instance already.
type Cloner interface {
	Clone() Element
}

// TaskRunner is implemented by elements that schedule themselves as
// a cooperative task. RunTask runs one quantum of work and reports
// whether it made progress; the scheduler does not act on that value
// (see scheduler.TaskFunc) and does not adjust tickets from it.
type TaskRunner interface {
	RunTask() bool
}

// TimerRunner is implemented by elements that arm a timer on
// themselves; RunTimer fires once the deadline passes.
type TimerRunner interface {
	RunTimer()
}

// Instance binds one graph element to its live implementation and
// its handler set. The driver's instantiate step stores a *Instance
// in graph.Element.UserData; dispatch and handler lookups both read
// it back from there.
type Instance struct {
	Graph    *graph.Element
	Impl     Element
	Handlers *HandlerSet
}

// NewInstance wires impl to g with a fresh, empty handler set.
func NewInstance(g *graph.Element, impl Element) *Instance {
	return &Instance{Graph: g, Impl: impl, Handlers: NewHandlerSet()}
}

// instanceOf reads the *Instance the driver attached to e, or nil if
// e hasn't been instantiated (or isn't an element this package built).
func instanceOf(e *graph.Element) *Instance {
	inst, _ := e.UserData.(*Instance)
	return inst
}

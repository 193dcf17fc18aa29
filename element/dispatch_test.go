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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/graph"
	"github.com/bittoy/router/packet"
)

// recordingPusher implements Pusher and records every packet it
// receives, keeping it without forwarding or killing it.
type recordingPusher struct {
	got []*packet.Packet
}

func (p *recordingPusher) Configure([]string, *errh.Sink) error { return nil }
func (p *recordingPusher) Initialize(*errh.Sink) error          { return nil }
func (p *recordingPusher) Cleanup(CleanupStage)                 {}
func (p *recordingPusher) Push(port int, pkt *packet.Packet) {
	p.got = append(p.got, pkt)
}

// upperCaser is a SimpleActioner that uppercases the first byte of
// the packet's data in place.
type upperCaser struct{}

func (upperCaser) Configure([]string, *errh.Sink) error { return nil }
func (upperCaser) Initialize(*errh.Sink) error          { return nil }
func (upperCaser) Cleanup(CleanupStage)                 {}
func (upperCaser) SimpleAction(pkt *packet.Packet) *packet.Packet {
	pkt = pkt.MakeUnique()
	if len(pkt.Data()) > 0 && pkt.Data()[0] >= 'a' && pkt.Data()[0] <= 'z' {
		pkt.Data()[0] -= 'a' - 'A'
	}
	return pkt
}

// dropper is a SimpleActioner that always drops the packet.
type dropper struct{}

func (dropper) Configure([]string, *errh.Sink) error          { return nil }
func (dropper) Initialize(*errh.Sink) error                   { return nil }
func (dropper) Cleanup(CleanupStage)                          {}
func (dropper) SimpleAction(*packet.Packet) *packet.Packet { return nil }

// fixedPuller implements Puller and always returns the same packet
// once, then nil.
type fixedPuller struct {
	pkt  *packet.Packet
	used bool
}

func (p *fixedPuller) Configure([]string, *errh.Sink) error { return nil }
func (p *fixedPuller) Initialize(*errh.Sink) error          { return nil }
func (p *fixedPuller) Cleanup(CleanupStage)                 {}
func (p *fixedPuller) Pull(port int) *packet.Packet {
	if p.used {
		return nil
	}
	p.used = true
	return p.pkt
}

func wireElement(r *graph.Router, name string, nIn, nOut int, impl Element) *graph.Element {
	e := &graph.Element{Name: name, NInputs: nIn, NOutputs: nOut}
	if err := r.AddElement(e); err != nil {
		panic(err)
	}
	e.UserData = NewInstance(e, impl)
	return e
}

func TestPushOutputDeliversToConnectedPusher(t *testing.T) {
	r := graph.NewRouter(nil)
	src := wireElement(r, "src", 0, 1, &recordingPusher{})
	sink := wireElement(r, "sink", 1, 0, &recordingPusher{})
	r.AddConnection(&graph.Connection{From: src.Output(0), To: sink.Input(0)})

	pkt := packet.Make(1)
	PushOutput(r, src, 0, pkt)

	got := instanceOf(sink).Impl.(*recordingPusher)
	assert.Equal(t, []*packet.Packet{pkt}, got.got)
}

func TestPushOutputWithNoConnectionKillsPacket(t *testing.T) {
	r := graph.NewRouter(nil)
	src := wireElement(r, "src", 0, 1, &recordingPusher{})

	pkt := packet.Make(1)
	clone := pkt.Clone()
	require.False(t, pkt.Unique())
	PushOutput(r, src, 0, pkt)
	assert.True(t, clone.Unique())
}

func TestPushOutputThroughSimpleActionerTransformsAndForwards(t *testing.T) {
	r := graph.NewRouter(nil)
	src := wireElement(r, "src", 0, 1, &recordingPusher{})
	mid := wireElement(r, "mid", 1, 1, upperCaser{})
	sink := wireElement(r, "sink", 1, 0, &recordingPusher{})
	r.AddConnection(&graph.Connection{From: src.Output(0), To: mid.Input(0)})
	r.AddConnection(&graph.Connection{From: mid.Output(0), To: sink.Input(0)})

	pkt := packet.MakeFromData(0, []byte("abc"), 0)
	PushOutput(r, src, 0, pkt)

	got := instanceOf(sink).Impl.(*recordingPusher)
	require.Len(t, got.got, 1)
	assert.Equal(t, []byte("Abc"), got.got[0].Data())
}

func TestPushOutputThroughSimpleActionerDropDiscardsPacket(t *testing.T) {
	r := graph.NewRouter(nil)
	src := wireElement(r, "src", 0, 1, &recordingPusher{})
	mid := wireElement(r, "mid", 1, 1, dropper{})
	sink := wireElement(r, "sink", 1, 0, &recordingPusher{})
	r.AddConnection(&graph.Connection{From: src.Output(0), To: mid.Input(0)})
	r.AddConnection(&graph.Connection{From: mid.Output(0), To: sink.Input(0)})

	pkt := packet.Make(1)
	PushOutput(r, src, 0, pkt)

	got := instanceOf(sink).Impl.(*recordingPusher)
	assert.Empty(t, got.got)
}

func TestPullInputDrawsFromConnectedPuller(t *testing.T) {
	r := graph.NewRouter(nil)
	pkt := packet.Make(1)
	src := wireElement(r, "src", 0, 1, &fixedPuller{pkt: pkt})
	sink := wireElement(r, "sink", 1, 0, &recordingPusher{})
	r.AddConnection(&graph.Connection{From: src.Output(0), To: sink.Input(0)})

	got := PullInput(r, sink, 0)
	assert.Same(t, pkt, got)

	assert.Nil(t, PullInput(r, sink, 0))
}

func TestPullInputThroughSimpleActionerPullsUpstreamThenTransforms(t *testing.T) {
	r := graph.NewRouter(nil)
	pkt := packet.MakeFromData(0, []byte("abc"), 0)
	src := wireElement(r, "src", 0, 1, &fixedPuller{pkt: pkt})
	mid := wireElement(r, "mid", 1, 1, upperCaser{})
	r.AddConnection(&graph.Connection{From: src.Output(0), To: mid.Input(0)})

	got := PullInput(r, mid, 0)
	require.NotNil(t, got)
	assert.Equal(t, []byte("Abc"), got.Data())
}

func TestPullInputWithNoConnectionReturnsNil(t *testing.T) {
	r := graph.NewRouter(nil)
	sink := wireElement(r, "sink", 1, 0, &recordingPusher{})
	assert.Nil(t, PullInput(r, sink, 0))
}

func TestDeliverToUninstantiatedElementKillsPacket(t *testing.T) {
	r := graph.NewRouter(nil)
	src := wireElement(r, "src", 0, 1, &recordingPusher{})
	sink := &graph.Element{Name: "sink", NInputs: 1, NOutputs: 0}
	require.NoError(t, r.AddElement(sink))
	r.AddConnection(&graph.Connection{From: src.Output(0), To: sink.Input(0)})

	pkt := packet.Make(1)
	clone := pkt.Clone()
	PushOutput(r, src, 0, pkt)
	assert.True(t, clone.Unique())
}

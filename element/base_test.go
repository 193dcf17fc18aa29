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

// selfPushingSource embeds Base and pushes on its own initiative
// rather than through a dispatch-driven Push call, the situation
// RouterBinder exists for.
type selfPushingSource struct {
	Base
}

func (s *selfPushingSource) Configure([]string, *errh.Sink) error { return nil }
func (s *selfPushingSource) Initialize(*errh.Sink) error          { return nil }
func (s *selfPushingSource) Cleanup(CleanupStage)                 {}
func (s *selfPushingSource) emit(pkt *packet.Packet)              { s.PushOutput(0, pkt) }

func TestBaseBindRouterStoresRouterAndElement(t *testing.T) {
	r := graph.NewRouter(nil)
	e := &graph.Element{Name: "src", NInputs: 0, NOutputs: 1}
	require.NoError(t, r.AddElement(e))

	var b Base
	b.BindRouter(r, e)
	assert.Same(t, r, b.Router)
	assert.Same(t, e, b.Graph)
}

func TestBasePushOutputDeliversThroughBoundRouter(t *testing.T) {
	r := graph.NewRouter(nil)
	src := &graph.Element{Name: "src", NInputs: 0, NOutputs: 1}
	require.NoError(t, r.AddElement(src))
	sink := &graph.Element{Name: "sink", NInputs: 1, NOutputs: 0}
	require.NoError(t, r.AddElement(sink))
	require.NoError(t, r.AddConnection(&graph.Connection{From: src.Output(0), To: sink.Input(0)}))

	impl := &selfPushingSource{}
	impl.BindRouter(r, src)
	sinkImpl := &recordingPusher{}
	sink.UserData = NewInstance(sink, sinkImpl)

	pkt := packet.Make(1)
	impl.emit(pkt)

	assert.Equal(t, []*packet.Packet{pkt}, sinkImpl.got)
}

func TestBasePullInputDrawsThroughBoundRouter(t *testing.T) {
	r := graph.NewRouter(nil)
	pkt := packet.Make(1)
	src := &graph.Element{Name: "src", NInputs: 0, NOutputs: 1}
	require.NoError(t, r.AddElement(src))
	src.UserData = NewInstance(src, &fixedPuller{pkt: pkt})
	mid := &graph.Element{Name: "mid", NInputs: 1, NOutputs: 0}
	require.NoError(t, r.AddElement(mid))
	require.NoError(t, r.AddConnection(&graph.Connection{From: src.Output(0), To: mid.Input(0)}))

	var b Base
	b.BindRouter(r, mid)
	assert.Same(t, pkt, b.PullInput(0))
	assert.Nil(t, b.PullInput(0))
}

var _ RouterBinder = (*selfPushingSource)(nil)

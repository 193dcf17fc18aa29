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

package standard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bittoy/router/element"
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/packet"
)

func TestCounterSimpleActionIncrementsAndForwards(t *testing.T) {
	c := &Counter{}
	sink := errh.New()
	require.NoError(t, c.Configure(nil, sink))
	require.NoError(t, c.Initialize(sink))

	pkt := packet.MakeFromData(0, []byte("x"), 0)
	got := c.SimpleAction(pkt)

	assert.Same(t, pkt, got)
	assert.Equal(t, int64(1), c.Count())
}

func TestCounterResetHandlerZeroesCount(t *testing.T) {
	c := &Counter{}
	sink := errh.New()
	require.NoError(t, c.Configure(nil, sink))
	require.NoError(t, c.Initialize(sink))

	c.SimpleAction(packet.Make(1))
	c.SimpleAction(packet.Make(1))
	require.Equal(t, int64(2), c.Count())

	hs := element.NewHandlerSet()
	c.BindHandlers(hs)
	require.NoError(t, hs.Write("reset", "", sink))

	assert.Equal(t, int64(0), c.Count())
}

func TestCounterRateIsZeroBeforeTwoPackets(t *testing.T) {
	c := &Counter{}
	sink := errh.New()
	require.NoError(t, c.Configure(nil, sink))
	require.NoError(t, c.Initialize(sink))

	assert.Equal(t, float64(0), c.Rate())
	c.SimpleAction(packet.Make(1))
	assert.Equal(t, float64(0), c.Rate())
}

func TestCounterHandlersReadCountAndRate(t *testing.T) {
	c := &Counter{}
	sink := errh.New()
	require.NoError(t, c.Configure(nil, sink))
	require.NoError(t, c.Initialize(sink))
	c.SimpleAction(packet.Make(1))

	hs := element.NewHandlerSet()
	c.BindHandlers(hs)

	count, err := hs.Read("count")
	require.NoError(t, err)
	assert.Equal(t, "1", count)

	_, err = hs.Read("rate")
	require.NoError(t, err)
}

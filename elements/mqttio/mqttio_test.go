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

package mqttio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bittoy/router/element"
	"github.com/bittoy/router/errh"
)

func TestSourceConfigureRequiresBrokerAndTopic(t *testing.T) {
	s := &Source{}
	sink := errh.New()
	err := s.Configure([]string{"CLIENTID x"}, sink)
	assert.Error(t, err)
	assert.True(t, sink.HasErrors())
}

func TestSourceConfigureAcceptsBrokerAndTopic(t *testing.T) {
	s := &Source{}
	sink := errh.New()
	err := s.Configure([]string{"BROKER tcp://localhost:1883", "TOPIC sensors/temp", "QOS 1"}, sink)
	require.NoError(t, err)
	assert.False(t, sink.HasErrors())
	assert.Equal(t, "tcp://localhost:1883", s.cfg.Broker)
	assert.Equal(t, "sensors/temp", s.cfg.Topic)
	assert.Equal(t, 1, s.cfg.QoS)
}

func TestSourceReceivedHandlerStartsAtZero(t *testing.T) {
	s := &Source{}
	hs := element.NewHandlerSet()
	s.BindHandlers(hs)
	v, err := hs.Read("received")
	require.NoError(t, err)
	assert.Equal(t, "0", v)
}

func TestSourceRegisteredUnderMQTTSourceName(t *testing.T) {
	assert.True(t, element.Default.Has("MQTTSource"))
	impl, err := element.Default.New("MQTTSource")
	require.NoError(t, err)
	assert.IsType(t, &Source{}, impl)
}

func TestSinkConfigureRequiresBrokerAndTopic(t *testing.T) {
	s := &Sink{}
	sink := errh.New()
	err := s.Configure(nil, sink)
	assert.Error(t, err)
	assert.True(t, sink.HasErrors())
}

func TestSinkConfigureAcceptsFullArgs(t *testing.T) {
	s := &Sink{}
	sink := errh.New()
	err := s.Configure([]string{"BROKER tcp://localhost:1883", "TOPIC out/topic", "QOS 2", "RETAIN true"}, sink)
	require.NoError(t, err)
	assert.Equal(t, "out/topic", s.cfg.Topic)
	assert.Equal(t, 2, s.cfg.QoS)
	assert.True(t, s.cfg.Retain)
}

func TestSinkHandlersStartAtZero(t *testing.T) {
	s := &Sink{}
	hs := element.NewHandlerSet()
	s.BindHandlers(hs)
	published, err := hs.Read("published")
	require.NoError(t, err)
	assert.Equal(t, "0", published)
	errs, err := hs.Read("errors")
	require.NoError(t, err)
	assert.Equal(t, "0", errs)
}

func TestSinkRegisteredUnderMQTTSinkName(t *testing.T) {
	assert.True(t, element.Default.Has("MQTTSink"))
	impl, err := element.Default.New("MQTTSink")
	require.NoError(t, err)
	assert.IsType(t, &Sink{}, impl)
}

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

// Package mqttio implements elements that bridge packets to and from
// an MQTT broker: Source subscribes to a topic and pushes one packet
// per received message, Sink publishes every packet it receives on a
// topic of its own.
package mqttio

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/bittoy/router/confparse"
	"github.com/bittoy/router/element"
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/packet"
)

func init() {
	must(element.Default.Register("MQTTSource", func() element.Element { return &Source{} }))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

type sourceConfig struct {
	Broker   string `json:"BROKER"`
	ClientID string `json:"CLIENTID"`
	Topic    string `json:"TOPIC"`
	QoS      int    `json:"QOS"`
}

// Source has no inputs and a single push output: it subscribes to a
// topic on connect and pushes one freshly made packet, carrying the
// message payload, for every message the broker delivers.
type Source struct {
	element.Base

	cfg    sourceConfig
	client mqtt.Client

	received atomic.Int64
}

// Configure implements element.Element.
func (s *Source) Configure(args []string, sink *errh.Sink) error {
	a := confparse.Parse(args)
	s.cfg = sourceConfig{QoS: 0}
	if err := confparse.Decode(&s.cfg, a); err != nil {
		sink.Error(errh.Landmark{}, "MQTTSource: %v", err)
		return err
	}
	if s.cfg.Broker == "" || s.cfg.Topic == "" {
		err := fmt.Errorf("MQTTSource: BROKER and TOPIC are required")
		sink.Error(errh.Landmark{}, "%v", err)
		return err
	}
	return nil
}

// Initialize implements element.Element: connects to the broker and
// subscribes, pushing one packet per delivered message from whatever
// goroutine paho's client runs the handler on.
func (s *Source) Initialize(sink *errh.Sink) error {
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.Broker).
		SetClientID(s.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	s.client = mqtt.NewClient(opts)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		sink.Error(errh.Landmark{}, "MQTTSource: connecting to %s: %v", s.cfg.Broker, token.Error())
		return token.Error()
	}

	token := s.client.Subscribe(s.cfg.Topic, byte(s.cfg.QoS), func(_ mqtt.Client, msg mqtt.Message) {
		s.received.Add(1)
		pkt := packet.MakeFromData(packet.DefaultHeadroom, msg.Payload(), 0)
		s.PushOutput(0, pkt)
	})
	if token.Wait() && token.Error() != nil {
		sink.Error(errh.Landmark{}, "MQTTSource: subscribing to %s: %v", s.cfg.Topic, token.Error())
		return token.Error()
	}
	return nil
}

// Cleanup implements element.Element.
func (s *Source) Cleanup(stage element.CleanupStage) {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(250)
	}
}

// BindHandlers implements element.HandlerBinder.
func (s *Source) BindHandlers(hs *element.HandlerSet) {
	hs.AddReadHandler("received", func() (string, error) {
		return strconv.FormatInt(s.received.Load(), 10), nil
	})
}

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
	must(element.Default.Register("MQTTSink", func() element.Element { return &Sink{} }))
}

type sinkConfig struct {
	Broker   string `json:"BROKER"`
	ClientID string `json:"CLIENTID"`
	Topic    string `json:"TOPIC"`
	QoS      int    `json:"QOS"`
	Retain   bool   `json:"RETAIN"`
}

// Sink is a single-input push element: it publishes every packet's
// payload as one MQTT message on its configured topic, then kills the
// packet (there is nothing downstream of a publish).
type Sink struct {
	cfg    sinkConfig
	client mqtt.Client

	published atomic.Int64
	errors    atomic.Int64
}

// Configure implements element.Element.
func (s *Sink) Configure(args []string, sink *errh.Sink) error {
	a := confparse.Parse(args)
	s.cfg = sinkConfig{QoS: 0}
	if err := confparse.Decode(&s.cfg, a); err != nil {
		sink.Error(errh.Landmark{}, "MQTTSink: %v", err)
		return err
	}
	if s.cfg.Broker == "" || s.cfg.Topic == "" {
		err := fmt.Errorf("MQTTSink: BROKER and TOPIC are required")
		sink.Error(errh.Landmark{}, "%v", err)
		return err
	}
	return nil
}

// Initialize implements element.Element.
func (s *Sink) Initialize(sink *errh.Sink) error {
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.Broker).
		SetClientID(s.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	s.client = mqtt.NewClient(opts)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		sink.Error(errh.Landmark{}, "MQTTSink: connecting to %s: %v", s.cfg.Broker, token.Error())
		return token.Error()
	}
	return nil
}

// Cleanup implements element.Element.
func (s *Sink) Cleanup(stage element.CleanupStage) {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(250)
	}
}

// BindHandlers implements element.HandlerBinder.
func (s *Sink) BindHandlers(hs *element.HandlerSet) {
	hs.AddReadHandler("published", func() (string, error) {
		return strconv.FormatInt(s.published.Load(), 10), nil
	})
	hs.AddReadHandler("errors", func() (string, error) {
		return strconv.FormatInt(s.errors.Load(), 10), nil
	})
}

// Push implements element.Pusher.
func (s *Sink) Push(port int, pkt *packet.Packet) {
	token := s.client.Publish(s.cfg.Topic, byte(s.cfg.QoS), s.cfg.Retain, pkt.Data())
	token.Wait()
	if token.Error() != nil {
		s.errors.Add(1)
	} else {
		s.published.Add(1)
	}
	pkt.Kill()
}

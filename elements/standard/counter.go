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
	"strconv"
	"sync"
	"time"

	"github.com/bittoy/router/element"
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/packet"
)

func init() {
	must(element.Default.Register("Counter", func() element.Element { return &Counter{} }))
}

// Counter passes every packet from its input to its output unchanged,
// maintaining a running count and an arrival rate computed over the
// time since the first packet was seen.
type Counter struct {
	mu    sync.Mutex
	count int64
	first time.Time
	last  time.Time
}

// Configure implements element.Element.
func (c *Counter) Configure(args []string, sink *errh.Sink) error {
	return nil
}

// Initialize implements element.Element.
func (c *Counter) Initialize(sink *errh.Sink) error {
	c.reset()
	return nil
}

// Cleanup implements element.Element.
func (c *Counter) Cleanup(stage element.CleanupStage) {}

// BindHandlers implements element.HandlerBinder.
func (c *Counter) BindHandlers(hs *element.HandlerSet) {
	hs.AddReadHandler("count", func() (string, error) {
		return strconv.FormatInt(c.Count(), 10), nil
	})
	hs.AddReadHandler("rate", func() (string, error) {
		return strconv.FormatFloat(c.Rate(), 'f', 4, 64), nil
	})
	hs.AddWriteHandler("reset", func(value string, sink *errh.Sink) {
		c.reset()
	})
}

// SimpleAction implements element.SimpleActioner.
func (c *Counter) SimpleAction(pkt *packet.Packet) *packet.Packet {
	c.mu.Lock()
	c.count++
	now := time.Now()
	if c.first.IsZero() {
		c.first = now
	}
	c.last = now
	c.mu.Unlock()
	return pkt
}

func (c *Counter) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = 0
	c.first = time.Time{}
	c.last = time.Time{}
}

// Count returns the number of packets that have passed through so far.
func (c *Counter) Count() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Rate returns the historical packet arrival rate in packets per
// second, or 0 if fewer than two packets (or none) have arrived yet.
func (c *Counter) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	elapsed := c.last.Sub(c.first).Seconds()
	if c.count < 2 || elapsed <= 0 {
		return 0
	}
	return float64(c.count-1) / elapsed
}

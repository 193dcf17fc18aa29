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

	"github.com/bittoy/router/confparse"
	"github.com/bittoy/router/element"
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/packet"
)

func init() {
	must(element.Default.Register("Queue", func() element.Element { return &Queue{} }))
}

const defaultQueueCapacity = 1000

type queueConfig struct {
	Capacity int `json:"CAPACITY"`
}

// Queue is the canonical push-to-pull adapter: a bounded FIFO fed by
// Push on its input and drained by Pull on its output. A packet
// arriving when the queue is already at capacity is dropped and
// counted rather than blocking the pusher.
type Queue struct {
	mu       sync.Mutex
	buf      []*packet.Packet
	capacity int
	dropped  int64
}

// Configure implements element.Element.
func (q *Queue) Configure(args []string, sink *errh.Sink) error {
	a := confparse.Parse(args)
	cfg := queueConfig{Capacity: defaultQueueCapacity}
	if err := confparse.Decode(&cfg, a); err != nil {
		sink.Error(errh.Landmark{}, "Queue: %v", err)
		return err
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = defaultQueueCapacity
	}
	q.capacity = cfg.Capacity
	return nil
}

// Initialize implements element.Element.
func (q *Queue) Initialize(sink *errh.Sink) error { return nil }

// Cleanup implements element.Element.
func (q *Queue) Cleanup(stage element.CleanupStage) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, p := range q.buf {
		p.Kill()
	}
	q.buf = nil
}

// BindHandlers implements element.HandlerBinder.
func (q *Queue) BindHandlers(hs *element.HandlerSet) {
	hs.AddReadHandler("length", func() (string, error) {
		return strconv.Itoa(q.Length()), nil
	})
	hs.AddReadHandler("drops", func() (string, error) {
		q.mu.Lock()
		defer q.mu.Unlock()
		return strconv.FormatInt(q.dropped, 10), nil
	})
}

// Push implements element.Pusher: enqueues pkt, or kills it and counts
// a drop if the queue is already at capacity.
func (q *Queue) Push(port int, pkt *packet.Packet) {
	q.mu.Lock()
	if len(q.buf) >= q.capacity {
		q.dropped++
		q.mu.Unlock()
		pkt.Kill()
		return
	}
	q.buf = append(q.buf, pkt)
	q.mu.Unlock()
}

// Pull implements element.Puller: dequeues the oldest packet, or
// returns nil if the queue is empty.
func (q *Queue) Pull(port int) *packet.Packet {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) == 0 {
		return nil
	}
	pkt := q.buf[0]
	q.buf = q.buf[1:]
	return pkt
}

// Length reports how many packets are currently queued.
func (q *Queue) Length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

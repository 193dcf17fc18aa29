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
	"sync/atomic"

	"github.com/bittoy/router/element"
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/packet"
)

func init() {
	must(element.Default.Register("Discard", func() element.Element { return &Discard{} }))
}

// Discard is a one-input, no-output push sink: every packet that
// arrives is killed immediately.
type Discard struct {
	count atomic.Int64
}

// Configure implements element.Element.
func (d *Discard) Configure(args []string, sink *errh.Sink) error { return nil }

// Initialize implements element.Element.
func (d *Discard) Initialize(sink *errh.Sink) error { return nil }

// Cleanup implements element.Element.
func (d *Discard) Cleanup(stage element.CleanupStage) {}

// BindHandlers implements element.HandlerBinder.
func (d *Discard) BindHandlers(hs *element.HandlerSet) {
	hs.AddReadHandler("count", func() (string, error) {
		return strconv.FormatInt(d.count.Load(), 10), nil
	})
}

// Push implements element.Pusher.
func (d *Discard) Push(port int, pkt *packet.Packet) {
	d.count.Add(1)
	pkt.Kill()
}

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

	"github.com/bittoy/router/confparse"
	"github.com/bittoy/router/element"
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/packet"
)

func init() {
	must(element.Default.Register("DupCount", func() element.Element { return &DupCount{} }))
}

type dupCountConfig struct {
	N int `json:"N"`
}

// DupCount forwards every packet unchanged from its single input to
// its single output, adding N (default 1) to an internal counter per
// packet instead of 1. It exists to give a compound class something
// distinctive to wrap, so a flattened expansion can be told apart from
// the plain Counter it is built from.
type DupCount struct {
	n     int
	count atomic.Int64
}

// Configure implements element.Element.
func (d *DupCount) Configure(args []string, sink *errh.Sink) error {
	a := confparse.Parse(args)
	cfg := dupCountConfig{N: 1}
	if err := confparse.Decode(&cfg, a); err != nil {
		sink.Error(errh.Landmark{}, "DupCount: %v", err)
		return err
	}
	if cfg.N == 0 {
		cfg.N = 1
	}
	d.n = cfg.N
	return nil
}

// Initialize implements element.Element.
func (d *DupCount) Initialize(sink *errh.Sink) error { return nil }

// Cleanup implements element.Element.
func (d *DupCount) Cleanup(stage element.CleanupStage) {}

// BindHandlers implements element.HandlerBinder.
func (d *DupCount) BindHandlers(hs *element.HandlerSet) {
	hs.AddReadHandler("count", func() (string, error) {
		return strconv.FormatInt(d.count.Load(), 10), nil
	})
	hs.AddWriteHandler("reset", func(value string, sink *errh.Sink) {
		d.count.Store(0)
	})
}

// SimpleAction implements element.SimpleActioner.
func (d *DupCount) SimpleAction(pkt *packet.Packet) *packet.Packet {
	d.count.Add(int64(d.n))
	return pkt
}

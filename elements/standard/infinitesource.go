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

// Package standard implements the handful of built-in element classes
// the end-to-end scenarios in the configuration driver's test suite
// exercise: InfiniteSource, Counter, Discard, Queue, and DupCount.
package standard

import (
	"strconv"
	"sync"

	"github.com/bittoy/router/confparse"
	"github.com/bittoy/router/element"
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/packet"
	"github.com/bittoy/router/scheduler"
)

func init() {
	must(element.Default.Register("InfiniteSource", func() element.Element { return &InfiniteSource{} }))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// infiniteSourceConfig is decoded straight out of the split
// configuration arguments: InfiniteSource(DATA <bytes>, LIMIT n,
// ACTIVE bool).
type infiniteSourceConfig struct {
	Data   string `json:"DATA"`
	Limit  int    `json:"LIMIT"`
	Active bool   `json:"ACTIVE"`
}

// InfiniteSource is a task-driven packet generator: once scheduled it
// emits a fresh copy of its configured data on every task quantum and
// reschedules itself, until LIMIT copies have been sent (LIMIT <= 0
// means unlimited). The "active" write handler pauses or resumes the
// underlying task without reconfiguring the element.
type InfiniteSource struct {
	element.Base

	cfg infiniteSourceConfig

	mu     sync.Mutex
	active bool
	sent   int

	task *scheduler.Task
}

// Configure implements element.Element.
func (s *InfiniteSource) Configure(args []string, sink *errh.Sink) error {
	a := confparse.Parse(args)
	s.cfg = infiniteSourceConfig{Active: true}
	if err := confparse.Decode(&s.cfg, a); err != nil {
		sink.Error(errh.Landmark{}, "InfiniteSource: %v", err)
		return err
	}
	s.active = s.cfg.Active
	return nil
}

// BindScheduler implements element.SchedulerBinder.
func (s *InfiniteSource) BindScheduler(sched *scheduler.Scheduler) {
	s.task = sched.NewTask(s.runTask)
}

// BindHandlers implements element.HandlerBinder.
func (s *InfiniteSource) BindHandlers(hs *element.HandlerSet) {
	hs.AddReadWriteHandler("active", s.readActive, s.writeActive)
	hs.AddReadHandler("sent", func() (string, error) {
		return strconv.Itoa(s.Sent()), nil
	})
}

// Initialize implements element.Element.
func (s *InfiniteSource) Initialize(sink *errh.Sink) error {
	if s.active {
		s.task.Reschedule()
	}
	return nil
}

// Cleanup implements element.Element.
func (s *InfiniteSource) Cleanup(stage element.CleanupStage) {
	if s.task != nil {
		s.task.Unschedule()
	}
}

// runTask emits one packet and reports whether it made progress,
// rescheduling itself to run again next quantum as long as it is
// still active and under its limit.
func (s *InfiniteSource) runTask() bool {
	s.mu.Lock()
	if !s.active || (s.cfg.Limit > 0 && s.sent >= s.cfg.Limit) {
		s.active = s.active && !(s.cfg.Limit > 0 && s.sent >= s.cfg.Limit)
		s.mu.Unlock()
		return false
	}
	s.sent++
	data := s.cfg.Data
	s.mu.Unlock()

	pkt := packet.MakeFromData(packet.DefaultHeadroom, []byte(data), 0)
	s.PushOutput(0, pkt)
	s.task.Reschedule()
	return true
}

// Sent reports how many packets have been emitted so far.
func (s *InfiniteSource) Sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

func (s *InfiniteSource) writeActive(value string, sink *errh.Sink) {
	v, err := strconv.ParseBool(value)
	if err != nil {
		sink.Error(errh.Landmark{}, "InfiniteSource.active: %v", err)
		return
	}
	s.mu.Lock()
	s.active = v
	s.mu.Unlock()
	if v {
		s.task.Reschedule()
	}
}

func (s *InfiniteSource) readActive() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strconv.FormatBool(s.active), nil
}

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

// Package scheduler implements the single-threaded cooperative loop
// that drives every element's run_task and run_timer calls: a
// ticket-weighted task queue (stride scheduling) and a deadline-
// ordered timer queue.
package scheduler

const (
	// MinTickets is the smallest weight a task may hold; zero would
	// make its stride infinite and starve it forever, which a task
	// that wants to pause should do via Unschedule instead.
	MinTickets = 1
	// DefaultTickets matches the weight a newly created task starts
	// with before anyone calls SetTickets.
	DefaultTickets = 1
	// MaxTickets bounds a single task's share of the schedule so one
	// runaway SetTickets call can't make that task's own stride
	// (strideBase/tickets) round down to zero.
	MaxTickets = 1 << 20
	// strideBase is the numerator stride scheduling divides by a
	// task's ticket count to get its per-run pass increment; a task
	// at MaxTickets still advances its pass by a non-zero amount.
	strideBase = 1 << 30
)

// TaskFunc runs one quantum of a task's work and reports whether it
// made progress. The scheduler does not interpret the return value
// itself (Click uses it to size idle backoff, out of this core's
// scope); it is threaded through for RunTask callers to act on.
type TaskFunc func() bool

// Task is one schedulable unit of work with a ticket-weighted
// priority. Tasks are created via Scheduler.NewTask and start
// unscheduled; call Reschedule to make one ready to run.
type Task struct {
	s       *Scheduler
	fn      TaskFunc
	tickets int
	stride  int64
	pass    int64
	order   int64

	scheduled bool
}

func newTask(s *Scheduler, fn TaskFunc) *Task {
	t := &Task{s: s, fn: fn, tickets: DefaultTickets}
	t.stride = strideBase / int64(t.tickets)
	return t
}

// SetTickets changes t's weight, clamped to [MinTickets, MaxTickets],
// and recomputes its stride. Safe to call whether or not t is
// currently scheduled.
func (t *Task) SetTickets(n int) {
	if n < MinTickets {
		n = MinTickets
	}
	if n > MaxTickets {
		n = MaxTickets
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.tickets = n
	t.stride = strideBase / int64(n)
}

// Tickets returns t's current weight.
func (t *Task) Tickets() int {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.tickets
}

// Reschedule marks t ready to run. A no-op if t is already
// scheduled.
func (t *Task) Reschedule() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.rescheduleLocked(t)
}

// Unschedule marks t idle; it will not run again until Reschedule.
func (t *Task) Unschedule() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.unscheduleLocked(t)
}

// Scheduled reports whether t is currently in the ready queue.
func (t *Task) Scheduled() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.scheduled
}

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

package element

import "github.com/bittoy/router/scheduler"

// SchedulerBinder is implemented by elements that need to create
// tasks or timers (TaskRunner/TimerRunner implementations, or one-off
// timer-driven sources). The driver calls BindScheduler once per
// element, after Configure and before Initialize, so Initialize can
// immediately call sched.NewTask/Schedule and reschedule them.
type SchedulerBinder interface {
	BindScheduler(sched *scheduler.Scheduler)
}

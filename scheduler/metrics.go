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

package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ticketRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "router",
			Subsystem: "scheduler",
			Name:      "ticket_runs_total",
			Help:      "Total number of task quanta run by the scheduler.",
		},
	)

	taskQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "router",
			Subsystem: "scheduler",
			Name:      "task_queue_depth",
			Help:      "Current number of ready tasks.",
		},
	)

	timerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "router",
			Subsystem: "scheduler",
			Name:      "timer_queue_depth",
			Help:      "Current number of armed timers.",
		},
	)
)

func init() {
	prometheus.MustRegister(ticketRunsTotal, taskQueueDepth, timerQueueDepth)
}

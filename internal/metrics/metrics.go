/**
 * Copyright 2025-present The TRTL Apps Go Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClientRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trtl_client_requests_total",
		Help: "Total TRTL Apps API calls by operation and outcome",
	}, []string{"operation", "outcome"})

	ClientLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trtl_client_request_duration_seconds",
		Help:    "TRTL Apps API call latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"operation"})

	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trtl_webhook_events_total",
		Help: "Webhook calls received by event code and result",
	}, []string{"code", "result"})

	PollerSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trtl_poller_syncs_total",
		Help: "Status syncs performed by the poller",
	}, []string{"kind", "result"})
)

// ObserveCall records one finished client call. Outcome is "ok" or the
// service error code.
func ObserveCall(operation, outcome string, seconds float64) {
	ClientRequests.WithLabelValues(operation, outcome).Inc()
	ClientLatency.WithLabelValues(operation).Observe(seconds)
}

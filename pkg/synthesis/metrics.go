// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package synthesis

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Reasons for which an attempt within a step fails.
const (
	reasonNoColumns = "no_columns"
	reasonCollision = "collision"
	reasonExhausted = "exhausted"
)

type metrics struct {
	// steps counts completed steps, whether or not they added a feature.
	steps prometheus.Counter
	// features counts columns added.
	features prometheus.Counter
	// failures counts failed attempts by reason.
	failures *prometheus.CounterVec
	// attempts observes the number of attempts made by each step.
	attempts prometheus.Histogram
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "godfs",
			Name:      "steps_total",
			Help:      "Total synthesis steps taken",
		}),
		features: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "godfs",
			Name:      "features_total",
			Help:      "Total feature columns added",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "godfs",
			Name:      "step_failures_total",
			Help:      "Total failed attempts within synthesis steps",
		}, []string{"reason"}),
		attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "godfs",
			Name:      "step_attempts",
			Help:      "Attempts made by each synthesis step",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 7),
		}),
	}
	//
	if r == nil {
		return m, nil
	}
	//
	for _, c := range []prometheus.Collector{m.steps, m.features, m.failures, m.attempts} {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	//
	return m, nil
}

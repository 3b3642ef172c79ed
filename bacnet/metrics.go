// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bacnet

import (
	"sync"
	"sync/atomic"
)

// Counter is a monotonically increasing atomic counter.
type Counter struct {
	value int64
}

// Inc increments the counter by 1.
func (c *Counter) Inc() { atomic.AddInt64(&c.value, 1) }

// Add adds delta to the counter.
func (c *Counter) Add(delta int64) { atomic.AddInt64(&c.value, delta) }

// Value returns the counter's current value.
func (c *Counter) Value() int64 { return atomic.LoadInt64(&c.value) }

// Gauge is an atomic value that can go up or down.
type Gauge struct {
	value int64
}

// Set sets the gauge to v.
func (g *Gauge) Set(v int64) { atomic.StoreInt64(&g.value, v) }

// Value returns the gauge's current value.
func (g *Gauge) Value() int64 { return atomic.LoadInt64(&g.value) }

// LatencyHistogram tracks decode/encode latency in a handful of
// buckets plus running min/max/avg, protected by a mutex since the
// update path is not hot enough to justify lock-free bucketing.
type LatencyHistogram struct {
	mu      sync.Mutex
	buckets [10]int64
	bounds  [10]int64 // nanoseconds, ascending
	count   int64
	sum     int64
	min     int64
	max     int64
}

// NewLatencyHistogram returns a LatencyHistogram with default bucket
// boundaries spanning 10 microseconds to 1 second.
func NewLatencyHistogram() *LatencyHistogram {
	return &LatencyHistogram{
		bounds: [10]int64{
			10_000, 50_000, 100_000, 500_000,
			1_000_000, 5_000_000, 10_000_000, 50_000_000,
			100_000_000, 1_000_000_000,
		},
	}
}

// Observe records a latency sample in nanoseconds.
func (h *LatencyHistogram) Observe(nanos int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += nanos
	if h.count == 1 || nanos < h.min {
		h.min = nanos
	}
	if nanos > h.max {
		h.max = nanos
	}
	for i, bound := range h.bounds {
		if nanos <= bound {
			h.buckets[i]++
			return
		}
	}
	h.buckets[len(h.buckets)-1]++
}

// LatencySnapshot is a histogram's count, sum, min, max, and average,
// all in nanoseconds except Count.
type LatencySnapshot struct {
	Count   int64
	SumNS   int64
	MinNS   int64
	MaxNS   int64
	AvgNS   int64
}

// Snapshot returns the histogram's current aggregate statistics.
func (h *LatencyHistogram) Snapshot() LatencySnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := LatencySnapshot{Count: h.count, SumNS: h.sum, MinNS: h.min, MaxNS: h.max}
	if h.count > 0 {
		s.AvgNS = h.sum / h.count
	}
	return s
}

// Metrics aggregates the codec and handler activity counters this
// module exposes.
type Metrics struct {
	RequestsDecoded     Counter
	RequestsRejected    Counter
	RequestsAborted     Counter
	ResponsesEncoded    Counter
	ReadPropertyCalls   Counter
	WritePropertyCalls  Counter
	ReadPropertyMultipleCalls Counter
	COVNotificationsSent      Counter
	PendingSubscriptions      Gauge
	DecodeLatency       *LatencyHistogram
	EncodeLatency       *LatencyHistogram
}

// NewMetrics returns a zeroed Metrics with its histograms initialized.
func NewMetrics() *Metrics {
	return &Metrics{
		DecodeLatency: NewLatencyHistogram(),
		EncodeLatency: NewLatencyHistogram(),
	}
}

// MetricsSnapshot is a point-in-time copy of Metrics' counters, safe to
// retain after the live Metrics continues updating.
type MetricsSnapshot struct {
	RequestsDecoded           int64
	RequestsRejected          int64
	RequestsAborted           int64
	ResponsesEncoded          int64
	ReadPropertyCalls         int64
	WritePropertyCalls        int64
	ReadPropertyMultipleCalls int64
	COVNotificationsSent      int64
	PendingSubscriptions      int64
	DecodeLatency             LatencySnapshot
	EncodeLatency             LatencySnapshot
}

// Snapshot returns a MetricsSnapshot of m's current values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RequestsDecoded:           m.RequestsDecoded.Value(),
		RequestsRejected:          m.RequestsRejected.Value(),
		RequestsAborted:           m.RequestsAborted.Value(),
		ResponsesEncoded:          m.ResponsesEncoded.Value(),
		ReadPropertyCalls:         m.ReadPropertyCalls.Value(),
		WritePropertyCalls:        m.WritePropertyCalls.Value(),
		ReadPropertyMultipleCalls: m.ReadPropertyMultipleCalls.Value(),
		COVNotificationsSent:      m.COVNotificationsSent.Value(),
		PendingSubscriptions:      m.PendingSubscriptions.Value(),
		DecodeLatency:             m.DecodeLatency.Snapshot(),
		EncodeLatency:             m.EncodeLatency.Snapshot(),
	}
}

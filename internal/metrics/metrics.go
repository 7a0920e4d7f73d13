package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxLatencySamples = 1000

type Metrics struct {
	mutex       sync.RWMutex
	requests    map[string]int64
	statusCodes map[int]int64
	failures    map[string]int64
	latencies   []time.Duration
	startTime   time.Time
}

type Snapshot struct {
	TotalRequests int64            `json:"total_requests"`
	Uptime        time.Duration    `json:"uptime"`
	Methods       map[string]int64 `json:"methods"`
	StatusCodes   map[int]int64    `json:"status_codes"`
	Failures      map[string]int64 `json:"failures"`
	AvgLatency    time.Duration    `json:"avg_latency"`
	P50Latency    time.Duration    `json:"p50_latency"`
	P95Latency    time.Duration    `json:"p95_latency"`
	P99Latency    time.Duration    `json:"p99_latency"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests:    make(map[string]int64),
		statusCodes: make(map[int]int64),
		failures:    make(map[string]int64),
		startTime:   time.Now(),
	}
}

func (m *Metrics) IncrementRequests(method string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests[method]++
}

func (m *Metrics) RecordResponse(duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.latencies = append(m.latencies, duration)
	if len(m.latencies) > maxLatencySamples {
		m.latencies = m.latencies[1:]
	}
	m.statusCodes[statusCode]++
}

func (m *Metrics) RecordFailure(kind string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.failures[kind]++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:      time.Since(m.startTime),
		Methods:     make(map[string]int64, len(m.requests)),
		StatusCodes: make(map[int]int64, len(m.statusCodes)),
		Failures:    make(map[string]int64, len(m.failures)),
	}

	for method, n := range m.requests {
		snap.Methods[method] = n
		snap.TotalRequests += n
	}
	for code, n := range m.statusCodes {
		snap.StatusCodes[code] = n
	}
	for kind, n := range m.failures {
		snap.Failures[kind] = n
	}

	if len(m.latencies) > 0 {
		sorted := make([]time.Duration, len(m.latencies))
		copy(sorted, m.latencies)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i] < sorted[j]
		})

		snap.AvgLatency = average(sorted)
		snap.P50Latency = percentile(sorted, 0.50)
		snap.P95Latency = percentile(sorted, 0.95)
		snap.P99Latency = percentile(sorted, 0.99)
	}

	return snap
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}

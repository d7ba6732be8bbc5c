package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	totalDuration map[string]time.Duration
	diagnoses     map[string]int64
}

// RouteStat is the aggregate for one route and status.
type RouteStat struct {
	Key        string `json:"key"`
	Count      int64  `json:"count"`
	AvgLatency string `json:"avg_latency"`
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Requests  []RouteStat      `json:"requests"`
	Errors    map[string]int64 `json:"errors"`
	Diagnoses map[string]int64 `json:"diagnoses"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		totalDuration: make(map[string]time.Duration),
		diagnoses:     make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.totalDuration[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordDiagnosis counts diagnosis outcomes ("ok" or "fallback").
func (m *Metrics) RecordDiagnosis(outcome string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diagnoses[outcome]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := Snapshot{
		Requests:  make([]RouteStat, 0, len(m.requestCount)),
		Errors:    make(map[string]int64, len(m.errorCount)),
		Diagnoses: make(map[string]int64, len(m.diagnoses)),
	}
	for key, count := range m.requestCount {
		avg := m.totalDuration[key] / time.Duration(count)
		snap.Requests = append(snap.Requests, RouteStat{Key: key, Count: count, AvgLatency: avg.String()})
	}
	sort.Slice(snap.Requests, func(i, j int) bool { return snap.Requests[i].Key < snap.Requests[j].Key })
	for key, count := range m.errorCount {
		snap.Errors[key] = count
	}
	for key, count := range m.diagnoses {
		snap.Diagnoses[key] = count
	}
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}

package monitoring

import (
	"sync"
	"time"
)

// Well-known counter names
const (
	RecommendationsServed = "recommendations_served"
	FallbacksServed       = "fallbacks_served"
	OrdersPlaced          = "orders_placed"
	ServiceRequestsRaised = "service_requests_raised"
	TrackingClients       = "tracking_clients"
)

// Monitor keeps in-process counters for the staff dashboard
type Monitor struct {
	counters     map[string]int64
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		counters:  make(map[string]int64),
		startTime: time.Now(),
	}
}

// Inc adds one to a counter
func (m *Monitor) Inc(name string) {
	m.Add(name, 1)
}

// Add adds delta to a counter. Negative deltas are allowed for gauges such
// as connected clients.
func (m *Monitor) Add(name string, delta int64) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.counters[name] += delta
}

// Get returns a counter value
func (m *Monitor) Get(name string) (int64, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.counters[name]
	return value, exists
}

// Snapshot returns a copy of all counters plus uptime
func (m *Monitor) Snapshot() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	out := make(map[string]interface{}, len(m.counters)+1)
	for k, v := range m.counters {
		out[k] = v
	}
	out["uptime_seconds"] = time.Since(m.startTime).Seconds()
	return out
}

// Reset clears all counters
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.counters = make(map[string]int64)
}

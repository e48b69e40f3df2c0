package monitoring

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitor_Snapshot(t *testing.T) {
	m := NewMonitor()
	m.Inc(OrdersPlaced)
	m.Inc(OrdersPlaced)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap[OrdersPlaced])
	assert.Contains(t, snap, "uptime_seconds")

	snap[OrdersPlaced] = int64(99)
	v, ok := m.Get(OrdersPlaced)
	assert.True(t, ok)
	assert.Equal(t, int64(2), v)
}

func TestMonitor_AddNegative(t *testing.T) {
	m := NewMonitor()
	m.Add(TrackingClients, 1)
	m.Add(TrackingClients, 1)
	m.Add(TrackingClients, -1)

	v, _ := m.Get(TrackingClients)
	assert.Equal(t, int64(1), v)
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.Inc(FallbacksServed)
	m.Reset()

	_, exists := m.Get(FallbacksServed)
	assert.False(t, exists)
	assert.Contains(t, m.Snapshot(), "uptime_seconds")
}

func TestMonitor_Concurrent(t *testing.T) {
	m := NewMonitor()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Inc(RecommendationsServed)
			_ = m.Snapshot()
		}()
	}
	wg.Wait()

	v, _ := m.Get(RecommendationsServed)
	assert.Equal(t, int64(50), v)
}

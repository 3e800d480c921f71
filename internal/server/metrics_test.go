package server

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shipnotes/shipnotes/internal/notify"
)

// ============================================================================
// Basic Metrics Tests
// ============================================================================

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()

	snap := m.GetSnapshot()
	if snap.RequestsTotal != 0 || snap.ClientErrors != 0 || snap.ServerErrors != 0 {
		t.Errorf("Expected request counters to start at 0, got %+v", snap)
	}
	if snap.ChangesPublished != 0 || snap.ChangesDropped != 0 {
		t.Errorf("Expected change counters to start at 0, got %+v", snap)
	}
	if snap.ConnectedClients != 0 {
		t.Errorf("Expected ConnectedClients to be 0, got %d", snap.ConnectedClients)
	}

	if time.Since(m.StartTime) > time.Second {
		t.Errorf("Expected StartTime to be recent, got %v", m.StartTime)
	}
}

func TestObserveRequest(t *testing.T) {
	m := NewMetrics()

	for _, status := range []int{
		http.StatusOK,
		http.StatusCreated,
		http.StatusNoContent,
		http.StatusBadRequest,
		http.StatusNotFound,
		http.StatusConflict,
		http.StatusInternalServerError,
	} {
		m.ObserveRequest(status)
	}

	snap := m.GetSnapshot()
	if snap.RequestsTotal != 7 {
		t.Errorf("Expected RequestsTotal to be 7, got %d", snap.RequestsTotal)
	}
	if snap.ClientErrors != 3 {
		t.Errorf("Expected ClientErrors to be 3, got %d", snap.ClientErrors)
	}
	if snap.ServerErrors != 1 {
		t.Errorf("Expected ServerErrors to be 1, got %d", snap.ServerErrors)
	}
}

func TestMetricsPublish(t *testing.T) {
	m := NewMetrics()
	var p notify.Publisher = m

	for i := 0; i < 3; i++ {
		if err := p.Publish(context.Background(), notify.Change{Type: notify.StatusCreated}); err != nil {
			t.Fatalf("Publish returned error: %v", err)
		}
	}

	if got := m.GetSnapshot().ChangesPublished; got != 3 {
		t.Errorf("Expected ChangesPublished to be 3, got %d", got)
	}
}

func TestSnapshotUptime(t *testing.T) {
	m := NewMetrics()
	m.StartTime = time.Now().Add(-90 * time.Second)

	snap := m.GetSnapshot()
	if snap.Uptime != "1m30s" {
		t.Errorf("Expected Uptime 1m30s, got %s", snap.Uptime)
	}
}

// ============================================================================
// Concurrency Tests
// ============================================================================

func TestMetrics_ConcurrentObserve(t *testing.T) {
	m := NewMetrics()
	const goroutines, perGoroutine = 20, 50

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				m.ObserveRequest(http.StatusNotFound)
				_ = m.Publish(context.Background(), notify.Change{})
			}
		}()
	}
	wg.Wait()

	snap := m.GetSnapshot()
	if snap.RequestsTotal != goroutines*perGoroutine {
		t.Errorf("Expected RequestsTotal %d, got %d", goroutines*perGoroutine, snap.RequestsTotal)
	}
	if snap.ClientErrors != goroutines*perGoroutine {
		t.Errorf("Expected ClientErrors %d, got %d", goroutines*perGoroutine, snap.ClientErrors)
	}
	if snap.ChangesPublished != goroutines*perGoroutine {
		t.Errorf("Expected ChangesPublished %d, got %d", goroutines*perGoroutine, snap.ChangesPublished)
	}
}

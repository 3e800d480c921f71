package server

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shipnotes/shipnotes/internal/notify"
)

// Metrics tracks server statistics using atomic operations for thread-safety
type Metrics struct {
	RequestsTotal    atomic.Int64
	ClientErrors     atomic.Int64
	ServerErrors     atomic.Int64
	ChangesPublished atomic.Int64
	ChangesDropped   atomic.Int64
	ConnectedClients atomic.Int32
	StartTime        time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// ObserveRequest counts a finished request by its response status
func (m *Metrics) ObserveRequest(status int) {
	m.RequestsTotal.Add(1)
	switch {
	case status >= 500:
		m.ServerErrors.Add(1)
	case status >= 400:
		m.ClientErrors.Add(1)
	}
}

// Publish counts a committed change. Metrics is part of the change fanout.
func (m *Metrics) Publish(_ context.Context, _ notify.Change) error {
	m.ChangesPublished.Add(1)
	return nil
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	RequestsTotal    int64     `json:"requests_total"`
	ClientErrors     int64     `json:"client_errors"`
	ServerErrors     int64     `json:"server_errors"`
	ChangesPublished int64     `json:"changes_published"`
	ChangesDropped   int64     `json:"changes_dropped"`
	ConnectedClients int32     `json:"connected_clients"`
	StartTime        time.Time `json:"start_time"`
	Uptime           string    `json:"uptime"`
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RequestsTotal:    m.RequestsTotal.Load(),
		ClientErrors:     m.ClientErrors.Load(),
		ServerErrors:     m.ServerErrors.Load(),
		ChangesPublished: m.ChangesPublished.Load(),
		ChangesDropped:   m.ChangesDropped.Load(),
		ConnectedClients: m.ConnectedClients.Load(),
		StartTime:        m.StartTime,
		Uptime:           time.Since(m.StartTime).Round(time.Second).String(),
	}
}

var _ notify.Publisher = (*Metrics)(nil)

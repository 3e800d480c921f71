package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/shipnotes/shipnotes/internal/notify"
)

// subscriber is a connected change-stream client
type subscriber struct {
	send      chan notify.Change
	closeOnce sync.Once // Ensures send channel is closed only once
}

func (s *subscriber) close() {
	s.closeOnce.Do(func() { close(s.send) })
}

// Hub fans committed changes out to live change-stream clients. Slow clients
// miss changes instead of blocking publishers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]bool
	bufferSize  int
	sequence    atomic.Int64
	metrics     *Metrics
	log         log.FieldLogger
	closed      bool
}

// NewHub creates a hub whose clients buffer up to bufferSize changes
func NewHub(bufferSize int, metrics *Metrics, logger log.FieldLogger) *Hub {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Hub{
		subscribers: make(map[*subscriber]bool),
		bufferSize:  bufferSize,
		metrics:     metrics,
		log:         logger.WithField("component", "hub"),
	}
}

// Subscribe registers a client. The returned channel is closed when cancel is
// called or the hub shuts down.
func (h *Hub) Subscribe() (<-chan notify.Change, func()) {
	sub := &subscriber{send: make(chan notify.Change, h.bufferSize)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.close()
		return sub.send, func() {}
	}
	h.subscribers[sub] = true
	h.mu.Unlock()
	h.updateClientCount()

	return sub.send, func() { h.remove(sub) }
}

// Publish stamps change with the hub's sequence and delivers it to every
// client without blocking.
func (h *Hub) Publish(_ context.Context, change notify.Change) error {
	change.SequenceID = h.sequence.Add(1)
	if change.Timestamp.IsZero() {
		change.Timestamp = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub.send <- change:
		default:
			h.metrics.ChangesDropped.Add(1)
			h.log.WithField("change_type", change.Type).Debug("client send queue full, change dropped")
		}
	}
	return nil
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for sub := range h.subscribers {
		sub.close()
	}
	h.subscribers = make(map[*subscriber]bool)
	h.mu.Unlock()
	h.updateClientCount()
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, sub)
	h.mu.Unlock()
	sub.close()
	h.updateClientCount()
}

func (h *Hub) updateClientCount() {
	h.metrics.ConnectedClients.Store(int32(h.Clients()))
}

var _ notify.Publisher = (*Hub)(nil)

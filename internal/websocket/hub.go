package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nibaldox/dureza-relativa/internal/infrastructure"
)

// Event types pushed to dashboard clients
const (
	TypeConnection      = "connection"
	TypeDatasetReplaced = "dataset:replaced"
)

const broadcastBufferSize = 64

var (
	// ErrHubStopped is returned by Broadcast after Stop
	ErrHubStopped = errors.New("websocket hub stopped")
	// ErrBroadcastBufferFull is returned when the hub cannot keep up
	ErrBroadcastBufferFull = errors.New("websocket broadcast buffer full")
)

// Event is the envelope of every message sent to clients
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// Hub maintains the set of active clients and broadcasts events to them.
// Only the Run goroutine mutates the client set and closes send channels.
type Hub struct {
	clients map[*Client]struct{}
	count   atomic.Int64

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	quit     chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once

	logger  *slog.Logger
	metrics *HubMetrics
}

// NewHub creates a hub. metrics may be nil.
func NewHub(logger *slog.Logger, metrics *HubMetrics) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, broadcastBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     infrastructure.WithComponent(logger, "websocket.hub"),
		metrics:    metrics,
	}
}

// Start runs the hub loop in a new goroutine. Subsequent calls are no-ops.
func (h *Hub) Start() {
	if h.started.CompareAndSwap(false, true) {
		go h.Run()
	}
}

// Run is the hub's main loop; it returns after Stop
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.quit:
			for client := range h.clients {
				h.remove(client)
			}
			h.logger.Info("Hub shut down")
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.count.Store(int64(len(h.clients)))
			ctx := client.context()
			h.metrics.recordConnection(ctx)
			h.logger.InfoContext(ctx, "Client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", len(h.clients)))
			h.greet(ctx, client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				h.logger.InfoContext(client.context(), "Client unregistered",
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.remove(client)
					h.metrics.recordDropped(client.context(), "client_buffer_full")
					h.logger.WarnContext(client.context(), "Client send buffer full, disconnecting",
						slog.String("client_id", client.id))
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.count.Store(int64(len(h.clients)))
	h.metrics.recordDisconnection(client.context())
}

// greet sends the connection event to a newly registered client
func (h *Hub) greet(ctx context.Context, client *Client) {
	payload, err := encodeEvent(ctx, TypeConnection, map[string]string{
		"status":    "connected",
		"client_id": client.id,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to encode connection event", slog.String("error", err.Error()))
		return
	}

	select {
	case client.send <- payload:
	default:
		h.logger.WarnContext(ctx, "Failed to send connection event, client buffer full",
			slog.String("client_id", client.id))
	}
}

// Stop shuts the hub down, closing every client's send channel
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.quit)
	})
	if h.started.Load() {
		<-h.done
	}
}

// Register adds a client. It reports false when the hub is stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.quit:
		return false
	}
}

// Unregister removes a client; it never blocks after Stop
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// Broadcast queues an event for every connected client. The trace ID of ctx,
// if any, travels with the event.
func (h *Hub) Broadcast(ctx context.Context, eventType string, data interface{}) error {
	payload, err := encodeEvent(ctx, eventType, data)
	if err != nil {
		return err
	}

	select {
	case <-h.quit:
		return ErrHubStopped
	default:
	}

	select {
	case h.broadcast <- payload:
		h.metrics.recordSent(ctx, eventType, h.ClientCount())
		h.logger.DebugContext(ctx, "Event queued",
			slog.String("type", eventType),
			slog.Int("size", len(payload)))
		return nil
	default:
		h.metrics.recordDropped(ctx, "hub_buffer_full")
		return ErrBroadcastBufferFull
	}
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

func encodeEvent(ctx context.Context, eventType string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
		TraceID:   infrastructure.GetTraceID(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", eventType, err)
	}
	return payload, nil
}

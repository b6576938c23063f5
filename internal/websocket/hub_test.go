package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"

	"github.com/nibaldox/dureza-relativa/internal/config"
	"github.com/nibaldox/dureza-relativa/internal/infrastructure"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func startedHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(testLogger(), nil)
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func receive(t *testing.T, ch <-chan []byte) Event {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "send channel closed")
		var event Event
		require.NoError(t, json.Unmarshal(msg, &event))
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func registered(t *testing.T, hub *Hub, traceID string) *Client {
	t.Helper()
	client := NewClient(hub, newMockConnection(), traceID, config.WebSocketConfig{}, testLogger())
	require.True(t, hub.Register(client))
	return client
}

func TestHub_RegisterSendsConnectionEvent(t *testing.T) {
	hub := startedHub(t)
	client := registered(t, hub, "trace-1")

	event := receive(t, client.send)
	assert.Equal(t, TypeConnection, event.Type)
	assert.Equal(t, "trace-1", event.TraceID)
	assert.Equal(t, client.ID(), event.Data.(map[string]interface{})["client_id"])
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := startedHub(t)
	first := registered(t, hub, "")
	second := registered(t, hub, "")
	receive(t, first.send)
	receive(t, second.send)

	ctx := infrastructure.WithTraceID(context.Background(), "upload-trace")
	require.NoError(t, hub.Broadcast(ctx, TypeDatasetReplaced, map[string]int{"records": 3}))

	for _, client := range []*Client{first, second} {
		event := receive(t, client.send)
		assert.Equal(t, TypeDatasetReplaced, event.Type)
		assert.Equal(t, "upload-trace", event.TraceID)
		assert.Equal(t, float64(3), event.Data.(map[string]interface{})["records"])
	}
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := startedHub(t)
	client := registered(t, hub, "")
	receive(t, client.send)

	hub.Unregister(client)

	require.Eventually(t, func() bool {
		_, ok := <-client.send
		return !ok
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_SlowClientIsDisconnected(t *testing.T) {
	hub := startedHub(t)
	client := registered(t, hub, "")

	// the connection event already occupies one slot
	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, hub.Broadcast(context.Background(), TypeDatasetReplaced, i))
	}

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)

	drained := 0
	for range client.send {
		drained++
	}
	assert.Equal(t, sendBufferSize, drained)
}

func TestHub_Stop(t *testing.T) {
	hub := NewHub(testLogger(), nil)
	hub.Start()
	client := registered(t, hub, "")

	hub.Stop()
	hub.Stop()

	_, ok := <-client.send
	assert.True(t, ok, "connection event is still buffered")
	_, ok = <-client.send
	assert.False(t, ok)

	assert.ErrorIs(t, hub.Broadcast(context.Background(), TypeDatasetReplaced, nil), ErrHubStopped)
	assert.False(t, hub.Register(NewClient(hub, newMockConnection(), "", config.WebSocketConfig{}, testLogger())))
	hub.Unregister(client)
}

func TestHub_StopWithoutStart(t *testing.T) {
	hub := NewHub(testLogger(), nil)
	hub.Stop()
	assert.ErrorIs(t, hub.Broadcast(context.Background(), TypeConnection, nil), ErrHubStopped)
}

func TestHub_BroadcastBufferFull(t *testing.T) {
	hub := NewHub(testLogger(), nil)
	t.Cleanup(hub.Stop)

	for i := 0; i < broadcastBufferSize; i++ {
		require.NoError(t, hub.Broadcast(context.Background(), TypeDatasetReplaced, i))
	}
	assert.ErrorIs(t, hub.Broadcast(context.Background(), TypeDatasetReplaced, "overflow"), ErrBroadcastBufferFull)
}

func TestHub_BroadcastEncodeError(t *testing.T) {
	hub := startedHub(t)
	err := hub.Broadcast(context.Background(), TypeDatasetReplaced, func() {})
	assert.Error(t, err)
}

func TestHub_WithMetrics(t *testing.T) {
	metrics, err := NewHubMetrics(metricnoop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	hub := NewHub(testLogger(), metrics)
	hub.Start()
	t.Cleanup(hub.Stop)

	client := registered(t, hub, "")
	receive(t, client.send)
	require.NoError(t, hub.Broadcast(context.Background(), TypeDatasetReplaced, nil))
	receive(t, client.send)
}

func TestNewClient_Timing(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.WebSocketConfig
		pongWait   time.Duration
		pingPeriod time.Duration
	}{
		{name: "defaults", pongWait: 60 * time.Second, pingPeriod: 54 * time.Second},
		{
			name:       "configured",
			cfg:        config.WebSocketConfig{PongWait: 30 * time.Second, PingPeriod: 10 * time.Second},
			pongWait:   30 * time.Second,
			pingPeriod: 10 * time.Second,
		},
		{
			name:       "ping not shorter than pong",
			cfg:        config.WebSocketConfig{PongWait: 10 * time.Second, PingPeriod: 20 * time.Second},
			pongWait:   10 * time.Second,
			pingPeriod: 9 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(nil, newMockConnection(), "", tt.cfg, nil)
			assert.Equal(t, tt.pongWait, client.pongWait)
			assert.Equal(t, tt.pingPeriod, client.pingPeriod)
			assert.Equal(t, "127.0.0.1:50000", client.remoteAddr)
			assert.NotEmpty(t, client.ID())
		})
	}
}

func TestClient_WritePump(t *testing.T) {
	conn := newMockConnection()
	client := NewClient(nil, conn, "", config.WebSocketConfig{}, testLogger())

	done := make(chan struct{})
	go func() {
		client.WritePump()
		close(done)
	}()

	client.send <- []byte(`{"type":"dataset:replaced"}`)
	close(client.send)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("write pump did not stop")
	}

	written := conn.messages()
	require.Len(t, written, 2)
	assert.Equal(t, websocket.TextMessage, written[0].Type)
	assert.JSONEq(t, `{"type":"dataset:replaced"}`, string(written[0].Data))
	assert.Equal(t, websocket.CloseMessage, written[1].Type)
	assert.True(t, conn.isClosed())
}

func TestClient_ReadPumpUnregistersOnClose(t *testing.T) {
	hub := startedHub(t)
	conn := newMockConnection()
	client := NewClient(hub, conn, "", config.WebSocketConfig{}, testLogger())
	require.True(t, hub.Register(client))
	receive(t, client.send)

	done := make(chan struct{})
	go func() {
		client.ReadPump()
		close(done)
	}()

	conn.reads <- []byte(`{"type":"heartbeat"}`)
	conn.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("read pump did not stop")
	}
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

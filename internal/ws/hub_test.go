package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	msg, err := NewEnvelope(TypeYearRunning, YearRunningPayload{Running: true})
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, TypeYearRunning, env.Type)

	var p YearRunningPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.True(t, p.Running)
}

func TestNewEnvelope_NilPayload(t *testing.T) {
	msg, err := NewEnvelope(TypeRooflightToggle, nil)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, TypeRooflightToggle, env.Type)
	assert.Empty(t, env.Payload)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.ClientCount())

	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())

	// Unregistering twice is a no-op.
	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()
	a := &Client{hub: hub, send: make(chan []byte, 4)}
	b := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.Register(a)
	hub.Register(b)

	hub.Broadcast([]byte("hello"))

	assert.Equal(t, []byte("hello"), <-a.send)
	assert.Equal(t, []byte("hello"), <-b.send)
}

func TestHub_BroadcastDropsOnFullBuffer(t *testing.T) {
	hub := NewHub()
	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)

	hub.Broadcast([]byte("first"))
	hub.Broadcast([]byte("second")) // buffer full, dropped

	assert.Equal(t, []byte("first"), <-c.send)
	select {
	case msg := <-c.send:
		t.Fatalf("unexpected message %q", msg)
	default:
	}
}

func TestMessageTypes(t *testing.T) {
	assert.Equal(t, "config:update", TypeConfigUpdate)
	assert.Equal(t, "window:toggle", TypeWindowToggle)
	assert.Equal(t, "rooflight:toggle", TypeRooflightToggle)
	assert.Equal(t, "day:run", TypeDayRun)
	assert.Equal(t, "year:run", TypeYearRun)
	assert.Equal(t, "snapshot:update", TypeSnapshot)
	assert.Equal(t, "day:series", TypeDaySeries)
	assert.Equal(t, "annual:stats", TypeAnnualStats)
	assert.Equal(t, "windows:state", TypeWindowState)
	assert.Equal(t, "year:running", TypeYearRunning)
}

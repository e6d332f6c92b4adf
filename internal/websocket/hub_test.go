package websocket

import (
	"testing"
	"time"

	"bilara-reader-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func TestHubDropsStalledClientWithoutPanic(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	sessionID := uuid.New()
	stalled := &Client{Hub: hub, SessionID: sessionID, Send: make(chan []byte)}
	healthy := &Client{Hub: hub, SessionID: sessionID, Send: make(chan []byte, 8)}
	hub.register <- stalled
	hub.register <- healthy

	notice := model.StateNotice{SessionId: sessionID.String(), Layout: "plain"}
	assert.NotPanics(t, func() {
		hub.Send(sessionID, notice)
		hub.Send(sessionID, notice)
	})

	// The responsive tab keeps receiving.
	for i := 0; i < 2; i++ {
		select {
		case <-healthy.Send:
		case <-time.After(time.Second):
			t.Fatal("healthy client stopped receiving notices")
		}
	}

	// The stalled tab's channel closes exactly once, on unregister.
	select {
	case _, open := <-stalled.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("stalled client was never unregistered")
	}
}

func TestHubReportsSessionClosedAfterLastTab(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	closed := make(chan string, 2)
	hub.OnSessionClosed(func(sessionID string) { closed <- sessionID })
	go hub.Run()

	sessionID := uuid.New()
	first := &Client{Hub: hub, SessionID: sessionID, Send: make(chan []byte, 1)}
	second := &Client{Hub: hub, SessionID: sessionID, Send: make(chan []byte, 1)}
	hub.register <- first
	hub.register <- second

	hub.unregister <- first
	select {
	case got := <-closed:
		t.Fatalf("session reported closed while a tab remains: %s", got)
	case <-time.After(50 * time.Millisecond):
	}

	hub.unregister <- second
	select {
	case got := <-closed:
		assert.Equal(t, sessionID.String(), got)
	case <-time.After(time.Second):
		t.Fatal("session close was never reported")
	}
}

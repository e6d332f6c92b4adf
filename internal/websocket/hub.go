package websocket

import (
	"context"
	"encoding/json"
	"log"

	"bilara-reader-be/internal/model"
	"bilara-reader-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisChannel carries state notices between instances.
const redisChannel = "reader_state_events"

// outbound is one notice queued for local delivery.
type outbound struct {
	sessionID uuid.UUID
	data      []byte
}

type Hub struct {
	// Registered clients map: SessionID -> List of Clients (multi-tab).
	// Owned exclusively by the Run goroutine; all access goes through the
	// channels below, which also serializes delivery against channel close.
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Local delivery queue.
	broadcast chan outbound

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Identifies this instance on the shared channel, so its own publishes
	// are not delivered twice to local tabs.
	instanceID string

	// Called after a session's last tab disconnects.
	onSessionClosed func(sessionID string)

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, 256),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// OnSessionClosed registers fn to run when a session's last tab disconnects.
// Must be set before Run.
func (h *Hub) OnSessionClosed(fn func(sessionID string)) {
	h.onSessionClosed = fn
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.removeClient(client)

		case out := <-h.broadcast:
			h.deliver(out.sessionID, out.data)
		}
	}
}

// removeClient runs on the Run goroutine only; it is the single place that
// closes a client's Send channel.
func (h *Hub) removeClient(client *Client) {
	clients, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"session_id": client.SessionID})
		if h.onSessionClosed != nil {
			h.onSessionClosed(client.SessionID.String())
		}
	}
}

// deliver runs on the Run goroutine only. A tab whose buffer is full is
// dropped; its write pump sees the closed channel and shuts the socket.
func (h *Hub) deliver(sessionID uuid.UUID, data []byte) {
	clients := h.clients[sessionID]
	for i := len(clients) - 1; i >= 0; i-- {
		client := clients[i]
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"session_id": sessionID})
			h.removeClient(client)
		}
	}
}

// Send pushes a state notice to every open tab of one session, locally and
// via Redis for tabs held by other instances.
func (h *Hub) Send(sessionID uuid.UUID, notice model.StateNotice) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "view_state",
		"data": notice,
	})

	h.broadcast <- outbound{sessionID: sessionID, data: data}

	if h.rdb != nil {
		payload := map[string]interface{}{
			"origin":            h.instanceID,
			"target_session_id": sessionID.String(),
			"message":           json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), redisChannel, jsonPayload)
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the shared channel and queues deliveries
	// for the sessions it holds locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			Origin          string          `json:"origin"`
			TargetSessionID string          `json:"target_session_id"`
			Message         json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}
		if payload.Origin == h.instanceID {
			continue
		}

		sid, err := uuid.Parse(payload.TargetSessionID)
		if err != nil {
			continue
		}

		h.broadcast <- outbound{sessionID: sid, data: payload.Message}
	}
}

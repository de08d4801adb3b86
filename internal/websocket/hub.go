package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"dossier-be/internal/pkg/logger"
	"dossier-be/pkg/casefile"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// Hub fans workspace notifications out to the sockets watching each
// workspace. With Redis configured every message goes through the
// cluster channel, so each instance delivers to its own sockets exactly once.
type Hub struct {
	// workspace id -> sockets (a workspace can be open in several tabs)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb    *redis.Client
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.WorkspaceID] = append(h.clients[client.WorkspaceID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"workspace_id": client.WorkspaceID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.WorkspaceID]
			for i, c := range clients {
				if c == client {
					h.clients[client.WorkspaceID] = append(clients[:i], clients[i+1:]...)
					close(client.Send)
					break
				}
			}
			if len(h.clients[client.WorkspaceID]) == 0 {
				delete(h.clients, client.WorkspaceID)
				h.logger.Info("Hub", "Workspace has no more sockets", map[string]interface{}{"workspace_id": client.WorkspaceID})
			}
			h.mu.Unlock()
		}
	}
}

// Subscribers is the number of local sockets watching a workspace.
func (h *Hub) Subscribers(workspaceID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[workspaceID])
}

type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterMessage struct {
	WorkspaceID string          `json:"workspace_id"`
	Message     json.RawMessage `json:"message"`
}

// Notify delivers n to every socket of the workspace. Notifications for a
// workspace nobody watches are dropped.
func (h *Hub) Notify(workspaceID uuid.UUID, n casefile.Notification) {
	data, err := json.Marshal(envelope{Type: "notification", Data: n})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode notification", map[string]interface{}{"error": err.Error()})
		return
	}

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{WorkspaceID: workspaceID.String(), Message: data})
		err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err()
		if err == nil {
			return
		}
		h.logger.Warn("Hub", "Redis publish failed, delivering locally", map[string]interface{}{"error": err.Error()})
	}
	h.deliver(workspaceID, data)
}

// Notifier binds the hub to one workspace.
func (h *Hub) Notifier(workspaceID uuid.UUID) casefile.Notifier {
	return casefile.NotifierFunc(func(n casefile.Notification) {
		h.Notify(workspaceID, n)
	})
}

func (h *Hub) deliver(workspaceID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[workspaceID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping socket", map[string]interface{}{"workspace_id": workspaceID})
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Bad cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}
		id, err := uuid.Parse(payload.WorkspaceID)
		if err != nil {
			continue
		}
		h.deliver(id, payload.Message)
	}
}

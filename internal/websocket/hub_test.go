package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"dossier-be/internal/pkg/logger"
	"dossier-be/pkg/casefile"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(nil, logger.NewNopLogger())
	go h.Run()
	return h
}

func attach(t *testing.T, h *Hub, workspaceID uuid.UUID) *Client {
	t.Helper()
	c := &Client{Hub: h, WorkspaceID: workspaceID, Send: make(chan []byte, 4)}
	before := h.Subscribers(workspaceID)
	h.register <- c
	require.Eventually(t, func() bool { return h.Subscribers(workspaceID) == before+1 }, time.Second, 5*time.Millisecond)
	return c
}

func TestNotifyReachesWorkspaceSockets(t *testing.T) {
	h := newTestHub(t)
	ws := uuid.New()
	other := uuid.New()
	a := attach(t, h, ws)
	b := attach(t, h, ws)
	c := attach(t, h, other)

	docID := uuid.New()
	h.Notifier(ws).Notify(casefile.Notification{
		Kind:       casefile.KindProcessingSucceeded,
		Level:      casefile.LevelInfo,
		DocumentID: &docID,
		Message:    "3 facts extracted from award.pdf",
		Facts:      3,
	})

	for _, client := range []*Client{a, b} {
		select {
		case raw := <-client.Send:
			var got struct {
				Type string                `json:"type"`
				Data casefile.Notification `json:"data"`
			}
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, "notification", got.Type)
			assert.Equal(t, "3 facts extracted from award.pdf", got.Data.Message)
			assert.Equal(t, 3, got.Data.Facts)
		case <-time.After(time.Second):
			t.Fatal("notification not delivered")
		}
	}
	assert.Empty(t, c.Send)
}

func TestUnregisterClosesSend(t *testing.T) {
	h := newTestHub(t)
	ws := uuid.New()
	c := attach(t, h, ws)

	h.unregister <- c

	require.Eventually(t, func() bool { return h.Subscribers(ws) == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
}

func TestNotifyWithoutSubscribersIsDropped(t *testing.T) {
	h := newTestHub(t)
	assert.NotPanics(t, func() {
		h.Notify(uuid.New(), casefile.Notification{Message: "late"})
	})
}

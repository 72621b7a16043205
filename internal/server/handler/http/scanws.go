package http

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mkravets/pantrypal/internal/scan"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The app server only ever fronts its own browser shell.
		return true
	},
}

// wsClient serializes writes to one websocket connection.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// ScanSocketHandler is the live channel for the continuous barcode decode
// feed. Every connected UI layer shares the single workflow (the camera is
// one resource); each decode event is fed to it and every state change is
// pushed back to all connections.
type ScanSocketHandler struct {
	Workflow ScanWorkflow
	Log      *zap.Logger

	clients sync.Map
	once    sync.Once
	active  int
	mu      sync.Mutex
}

// wsMessage is the envelope for both directions.
type wsMessage struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// Serve handles GET /ws/scan.
func (h *ScanSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Broadcast workflow changes to every connection. Subscribed once for
	// the handler's lifetime; the callback runs under the workflow lock,
	// so it uses the delivered snapshot instead of calling back in.
	h.once.Do(func() {
		h.Workflow.Subscribe(h.broadcast)
	})

	client := &wsClient{conn: conn}
	clientID := uuid.New().String()
	h.clients.Store(clientID, client)
	h.mu.Lock()
	h.active++
	h.mu.Unlock()

	defer func() {
		h.clients.Delete(clientID)
		h.mu.Lock()
		h.active--
		last := h.active == 0
		h.mu.Unlock()
		if last {
			// Last UI layer navigated away: release the scan session so
			// any in-flight lookup result is discarded.
			h.Workflow.Reset()
		}
	}()

	// Send the current state so a late-joining layer renders correctly.
	_ = client.writeJSON(wsMessage{Type: "state", Data: map[string]any{"state": h.Workflow.Snapshot()}})

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			h.Log.Debug("websocket closed", zap.Error(err))
			return
		}
		h.handleMessage(r, client, msg)
	}
}

func (h *ScanSocketHandler) handleMessage(r *http.Request, client *wsClient, msg wsMessage) {
	switch msg.Type {
	case "decode":
		barcode, _ := msg.Data["barcode"].(string)
		// Camera decode errors and empty frames are no-ops, never crashes.
		h.Workflow.Decode(r.Context(), barcode)
	case "reset":
		h.Workflow.Reset()
	default:
		h.sendError(client, "unknown message type")
	}
}

// broadcast pushes a snapshot to all connections. State changes arrive
// here through the workflow subscription.
func (h *ScanSocketHandler) broadcast(snap scan.Snapshot) {
	h.clients.Range(func(_, v any) bool {
		client := v.(*wsClient)
		if err := client.writeJSON(wsMessage{Type: "state", Data: map[string]any{"state": snap}}); err != nil {
			h.Log.Debug("websocket write failed", zap.Error(err))
		}
		return true
	})
}

func (h *ScanSocketHandler) sendError(client *wsClient, message string) {
	if err := client.writeJSON(map[string]any{"type": "error", "message": message}); err != nil {
		h.Log.Debug("websocket write failed", zap.Error(err))
	}
}

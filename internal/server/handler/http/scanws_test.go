package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mkravets/pantrypal/internal/scan"
)

func TestScanSocket_InitialStateAndDecode(t *testing.T) {
	wf := &fakeWorkflow{snap: scan.Snapshot{Step: scan.StepScanning}}
	h := &ScanSocketHandler{Workflow: wf, Log: zap.NewNop()}

	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// First frame is the current state.
	var msg wsMessage
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read initial state: %v", err)
	}
	if msg.Type != "state" {
		t.Fatalf("expected state frame, got %q", msg.Type)
	}

	// A decode event reaches the workflow.
	if err := conn.WriteJSON(wsMessage{Type: "decode", Data: map[string]any{"barcode": "123"}}); err != nil {
		t.Fatalf("write decode: %v", err)
	}

	// An unknown message type yields an inline error frame.
	if err := conn.WriteJSON(wsMessage{Type: "bogus"}); err != nil {
		t.Fatalf("write bogus: %v", err)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read error frame: %v", err)
	}
	if msg.Type != "error" {
		t.Fatalf("expected error frame, got %q", msg.Type)
	}
}

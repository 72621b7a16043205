package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mkravets/pantrypal/internal/scan"
)

// ScanWorkflow defines the workflow operations required by the scan
// handlers. Implemented by scan.Workflow.
type ScanWorkflow interface {
	Snapshot() scan.Snapshot
	Decode(ctx context.Context, barcode string) bool
	SubmitManual(ctx context.Context, barcode string) bool
	Retry(ctx context.Context) bool
	Dismiss() bool
	Cancel() bool
	Submit(ctx context.Context, expiry string) error
	Reset()
	Subscribe(fn func(scan.Snapshot))
}

// ScanHandler handles HTTP requests driving the scan workflow.
type ScanHandler struct {
	Workflow ScanWorkflow
}

// barcodeRequest is the payload of decode and manual-entry requests.
type barcodeRequest struct {
	Barcode string `json:"barcode"`
}

// scanResponse pairs the workflow snapshot with whether the triggering
// event was honored; ignored decode events still return 200 so the
// continuous camera feed never sees an error.
type scanResponse struct {
	Accepted bool          `json:"accepted"`
	State    scan.Snapshot `json:"state"`
}

// State handles GET /api/scan.
func (h *ScanHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Workflow.Snapshot())
}

// Decode handles POST /api/scan/decode, one event of the continuous camera
// feed. Events outside the scanning state are ignored, not errors.
func (h *ScanHandler) Decode(w http.ResponseWriter, r *http.Request) {
	var req barcodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	accepted := h.Workflow.Decode(r.Context(), req.Barcode)
	writeJSON(w, http.StatusOK, scanResponse{Accepted: accepted, State: h.Workflow.Snapshot()})
}

// Manual handles POST /api/scan/manual, an explicitly confirmed typed
// barcode. An empty barcode is a client error here, unlike the camera feed.
func (h *ScanHandler) Manual(w http.ResponseWriter, r *http.Request) {
	var req barcodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Barcode == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "barcode is required"})
		return
	}
	accepted := h.Workflow.SubmitManual(r.Context(), req.Barcode)
	writeJSON(w, http.StatusOK, scanResponse{Accepted: accepted, State: h.Workflow.Snapshot()})
}

// Retry handles POST /api/scan/retry.
func (h *ScanHandler) Retry(w http.ResponseWriter, r *http.Request) {
	accepted := h.Workflow.Retry(r.Context())
	writeJSON(w, http.StatusOK, scanResponse{Accepted: accepted, State: h.Workflow.Snapshot()})
}

// Dismiss handles POST /api/scan/dismiss.
func (h *ScanHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	accepted := h.Workflow.Dismiss()
	writeJSON(w, http.StatusOK, scanResponse{Accepted: accepted, State: h.Workflow.Snapshot()})
}

// Cancel handles POST /api/scan/cancel.
func (h *ScanHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	accepted := h.Workflow.Cancel()
	writeJSON(w, http.StatusOK, scanResponse{Accepted: accepted, State: h.Workflow.Snapshot()})
}

// Submit handles POST /api/scan/submit. Guest-mode and validation
// rejections surface as inline errors while the workflow stays in review.
func (h *ScanHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Expiry string `json:"expiry"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if err := h.Workflow.Submit(r.Context(), req.Expiry); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scanResponse{Accepted: true, State: h.Workflow.Snapshot()})
}

// ResetScan handles POST /api/scan/reset, abandoning the scan session on
// navigation away.
func (h *ScanHandler) ResetScan(w http.ResponseWriter, r *http.Request) {
	h.Workflow.Reset()
	writeJSON(w, http.StatusOK, scanResponse{Accepted: true, State: h.Workflow.Snapshot()})
}

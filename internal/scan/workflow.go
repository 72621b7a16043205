// Package scan implements the scan-identify-save workflow: a small state
// machine coordinating the continuous barcode decode feed, the external
// product lookup, and the save step, with guest gating threaded through.
package scan

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkravets/pantrypal/internal/gateway"
	"github.com/mkravets/pantrypal/internal/models"
)

// Step is the workflow state. The states are an explicit enum rather than
// independent booleans so transitions stay exhaustive.
type Step int

const (
	// StepScanning waits for a barcode from the camera feed or manual entry.
	StepScanning Step = iota
	// StepLoading has a lookup request in flight.
	StepLoading
	// StepError shows a failed lookup with retry and dismiss affordances.
	StepError
	// StepReview shows the lookup result and waits for an expiry date.
	StepReview
)

var stepNames = map[Step]string{
	StepScanning: "scanning",
	StepLoading:  "loading",
	StepError:    "error",
	StepReview:   "review",
}

func (s Step) String() string { return stepNames[s] }

// MarshalText renders the step name for JSON snapshots.
func (s Step) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Gateway is the slice of the backend gateway the workflow needs.
type Gateway interface {
	LookupProductByBarcode(ctx context.Context, barcode string) (*gateway.LookupResult, error)
	SaveProduct(ctx context.Context, userID string, draft models.ProductDraft) (*models.ProductRecord, error)
}

// Identity exposes the session fields the workflow reads.
type Identity interface {
	UserID() string
	IsGuest() bool
}

// Snapshot is an immutable view of the workflow state, safe to hand to
// subscribers and to serialize for the UI.
type Snapshot struct {
	Step         Step                  `json:"step"`
	Barcode      string                `json:"barcode"`
	Result       *gateway.LookupResult `json:"result,omitempty"`
	ErrorMessage string                `json:"errorMessage,omitempty"`
}

// Workflow is the scan session state machine. One instance is shared by
// every UI layer that feeds it decode events; all state is mutex-guarded.
type Workflow struct {
	mu      sync.Mutex
	step    Step
	barcode string
	result  *gateway.LookupResult
	errMsg  string
	saving  bool
	// gen identifies the current scan session. A lookup or save applies
	// its outcome only if the workflow is still in the generation that
	// issued it, so results arriving after a reset are discarded.
	gen uuid.UUID

	gw       Gateway
	identity Identity
	subs     []func(Snapshot)
	log      *zap.Logger
}

// New constructs a Workflow in StepScanning.
func New(gw Gateway, identity Identity, log *zap.Logger) *Workflow {
	return &Workflow{
		step:     StepScanning,
		gen:      uuid.New(),
		gw:       gw,
		identity: identity,
		log:      log,
	}
}

// Snapshot returns the current state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every state change.
func (w *Workflow) Subscribe(fn func(Snapshot)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subs = append(w.subs, fn)
}

// Decode feeds one barcode acquisition from the continuous camera stream.
// Only the first acquisition per scanning visit is honored: events arriving
// while the workflow is not in StepScanning, and empty decodes, are ignored.
// It returns whether the event was accepted; when accepted, the lookup runs
// before Decode returns.
func (w *Workflow) Decode(ctx context.Context, barcode string) bool {
	w.mu.Lock()
	if w.step != StepScanning || barcode == "" {
		w.mu.Unlock()
		return false
	}
	w.barcode = barcode
	w.step = StepLoading
	w.errMsg = ""
	gen := w.gen
	w.notifyLocked()
	w.mu.Unlock()

	w.log.Debug("barcode acquired", zap.String("barcode", barcode))
	w.lookup(ctx, barcode, gen)
	return true
}

// SubmitManual confirms a manually typed barcode. It follows the same
// single-acquisition rule as Decode. Any non-empty string is accepted; no
// checksum or format validation happens client-side.
func (w *Workflow) SubmitManual(ctx context.Context, barcode string) bool {
	return w.Decode(ctx, barcode)
}

// Retry re-runs the lookup for the barcode that just failed. Honored only
// in StepError.
func (w *Workflow) Retry(ctx context.Context) bool {
	w.mu.Lock()
	if w.step != StepError {
		w.mu.Unlock()
		return false
	}
	w.step = StepLoading
	w.errMsg = ""
	barcode := w.barcode
	gen := w.gen
	w.notifyLocked()
	w.mu.Unlock()

	w.lookup(ctx, barcode, gen)
	return true
}

// Dismiss leaves the error state and resets to scanning.
func (w *Workflow) Dismiss() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepError {
		return false
	}
	w.resetLocked()
	w.notifyLocked()
	return true
}

// Cancel discards the reviewed draft and resets to scanning.
func (w *Workflow) Cancel() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepReview {
		return false
	}
	w.resetLocked()
	w.notifyLocked()
	return true
}

// Reset abandons the scan session unconditionally, e.g. on navigation
// away. Any in-flight lookup or save result is fenced off by the new
// generation and will be discarded when it lands.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
	w.notifyLocked()
}

// Submit saves the reviewed product with the given expiry date. In guest
// mode it rejects before any network call and the state stays StepReview,
// as it does on save failure. On success the workflow resets to scanning.
func (w *Workflow) Submit(ctx context.Context, expiry string) error {
	w.mu.Lock()
	if w.step != StepReview || w.result == nil {
		w.mu.Unlock()
		return &gateway.ValidationError{Reason: "nothing to save, scan a product first"}
	}
	if w.saving {
		w.mu.Unlock()
		return &gateway.ValidationError{Reason: "save already in progress"}
	}
	if w.identity.IsGuest() {
		w.mu.Unlock()
		return &gateway.ValidationError{Reason: "guest mode is read-only, please log in to save items"}
	}
	if expiry == "" {
		w.mu.Unlock()
		return &gateway.ValidationError{Reason: "expiry date is required"}
	}
	draft := w.result.Draft(w.barcode, expiry)
	userID := w.identity.UserID()
	gen := w.gen
	w.saving = true
	w.mu.Unlock()

	_, err := w.gw.SaveProduct(ctx, userID, draft)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.saving = false
	if w.gen != gen {
		// The session was reset while the save was in flight; whatever
		// happened belongs to a scan the user already abandoned.
		return nil
	}
	if err != nil {
		w.log.Info("save failed", zap.String("barcode", draft.Barcode), zap.Error(err))
		return err
	}
	w.log.Info("product saved", zap.String("barcode", draft.Barcode))
	w.resetLocked()
	w.notifyLocked()
	return nil
}

// lookup runs the external product lookup and applies its outcome if the
// workflow still belongs to the issuing generation and is still loading.
func (w *Workflow) lookup(ctx context.Context, barcode string, gen uuid.UUID) {
	res, err := w.gw.LookupProductByBarcode(ctx, barcode)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen || w.step != StepLoading {
		w.log.Debug("stale lookup result discarded", zap.String("barcode", barcode))
		return
	}
	if err != nil {
		w.step = StepError
		w.errMsg = gateway.Message(err)
	} else {
		w.step = StepReview
		w.result = res
	}
	w.notifyLocked()
}

func (w *Workflow) resetLocked() {
	w.step = StepScanning
	w.barcode = ""
	w.result = nil
	w.errMsg = ""
	w.gen = uuid.New()
}

func (w *Workflow) snapshotLocked() Snapshot {
	return Snapshot{
		Step:         w.step,
		Barcode:      w.barcode,
		Result:       w.result,
		ErrorMessage: w.errMsg,
	}
}

// notifyLocked delivers the current snapshot to subscribers; callers hold
// w.mu. Callbacks must not call back into the workflow.
func (w *Workflow) notifyLocked() {
	snap := w.snapshotLocked()
	for _, fn := range w.subs {
		fn(snap)
	}
}

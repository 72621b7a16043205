// Package list projects gateway data into the pantry list shown to the
// user: the logged-in user's records, or everyone's in guest mode.
package list

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mkravets/pantrypal/internal/gateway"
	"github.com/mkravets/pantrypal/internal/models"
)

// Gateway is the slice of the backend gateway the list view needs.
type Gateway interface {
	ListAllProducts(ctx context.Context) ([]models.ProductRecord, error)
	ListProductsForUser(ctx context.Context, userID string) ([]models.ProductRecord, error)
	DeleteProduct(ctx context.Context, userID, productID string) error
}

// Identity exposes the session fields the list view reads.
type Identity interface {
	UserID() string
	IsGuest() bool
}

// View holds the last fetched product list. Deletion updates the cached
// slice in place on success; a failed delete leaves it untouched.
type View struct {
	mu       sync.Mutex
	items    []models.ProductRecord
	gw       Gateway
	identity Identity
	log      *zap.Logger
}

// NewView constructs an empty View.
func NewView(gw Gateway, identity Identity, log *zap.Logger) *View {
	return &View{gw: gw, identity: identity, log: log}
}

// Refresh re-fetches the list: all products in guest mode, the user's
// products otherwise.
func (v *View) Refresh(ctx context.Context) error {
	var (
		items []models.ProductRecord
		err   error
	)
	if v.identity.IsGuest() {
		items, err = v.gw.ListAllProducts(ctx)
	} else {
		items, err = v.gw.ListProductsForUser(ctx, v.identity.UserID())
	}
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
	return nil
}

// Items returns a copy of the cached list in read order.
func (v *View) Items() []models.ProductRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.ProductRecord, len(v.items))
	copy(out, v.items)
	return out
}

// Delete removes one record through the gateway and, on success, splices
// exactly that id out of the cached list without re-fetching. Guest mode
// is rejected before any network call.
func (v *View) Delete(ctx context.Context, productID string) error {
	if v.identity.IsGuest() {
		return &gateway.ValidationError{Reason: "guest mode is read-only, please log in to delete items"}
	}
	if err := v.gw.DeleteProduct(ctx, v.identity.UserID(), productID); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	kept := v.items[:0]
	for _, it := range v.items {
		if it.ID != productID {
			kept = append(kept, it)
		}
	}
	v.items = kept
	v.log.Debug("product deleted", zap.String("productId", productID))
	return nil
}

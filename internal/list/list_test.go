package list

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/mkravets/pantrypal/internal/gateway"
	"github.com/mkravets/pantrypal/internal/models"
)

// fakeGateway implements Gateway for testing.
type fakeGateway struct {
	all       []models.ProductRecord
	byUser    []models.ProductRecord
	deleteErr error
	deleted   []string
}

func (f *fakeGateway) ListAllProducts(ctx context.Context) ([]models.ProductRecord, error) {
	return f.all, nil
}

func (f *fakeGateway) ListProductsForUser(ctx context.Context, userID string) ([]models.ProductRecord, error) {
	if userID == "" {
		return nil, &gateway.ValidationError{Reason: "user id is missing"}
	}
	return f.byUser, nil
}

func (f *fakeGateway) DeleteProduct(ctx context.Context, userID, productID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, productID)
	return nil
}

// fakeIdentity implements Identity for testing.
type fakeIdentity struct {
	userID string
	guest  bool
}

func (f fakeIdentity) UserID() string { return f.userID }
func (f fakeIdentity) IsGuest() bool  { return f.guest }

func records(ids ...string) []models.ProductRecord {
	out := make([]models.ProductRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.ProductRecord{ID: id, Name: "item-" + id})
	}
	return out
}

func TestRefresh_PicksGuestOrUserPath(t *testing.T) {
	gw := &fakeGateway{
		all:    records("a", "b", "c"),
		byUser: records("a"),
	}

	guestView := NewView(gw, fakeIdentity{guest: true}, zap.NewNop())
	if err := guestView.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if len(guestView.Items()) != 3 {
		t.Errorf("expected guest view to list all products, got %d", len(guestView.Items()))
	}

	userView := NewView(gw, fakeIdentity{userID: "u-1"}, zap.NewNop())
	if err := userView.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if len(userView.Items()) != 1 {
		t.Errorf("expected user view to list own products, got %d", len(userView.Items()))
	}
}

func TestDelete_RemovesExactlyThatID(t *testing.T) {
	gw := &fakeGateway{byUser: records("a", "b", "c")}
	v := NewView(gw, fakeIdentity{userID: "u-1"}, zap.NewNop())
	_ = v.Refresh(context.Background())

	if err := v.Delete(context.Background(), "b"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got := v.Items()
	want := records("a", "c")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if len(gw.deleted) != 1 || gw.deleted[0] != "b" {
		t.Errorf("expected gateway delete of b, got %v", gw.deleted)
	}
}

func TestDelete_FailureLeavesListUntouched(t *testing.T) {
	gw := &fakeGateway{
		byUser:    records("a", "b"),
		deleteErr: &gateway.RequestError{Status: 500, Detail: "boom"},
	}
	v := NewView(gw, fakeIdentity{userID: "u-1"}, zap.NewNop())
	_ = v.Refresh(context.Background())
	before := v.Items()

	err := v.Delete(context.Background(), "a")
	if err == nil {
		t.Fatal("expected delete error")
	}
	if !reflect.DeepEqual(before, v.Items()) {
		t.Errorf("expected list unchanged after failed delete, got %v", v.Items())
	}
}

func TestDelete_GuestRejectedBeforeNetwork(t *testing.T) {
	gw := &fakeGateway{all: records("a")}
	v := NewView(gw, fakeIdentity{guest: true}, zap.NewNop())
	_ = v.Refresh(context.Background())

	err := v.Delete(context.Background(), "a")
	var ve *gateway.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(gw.deleted) != 0 {
		t.Error("guest delete must not reach the gateway")
	}
	if len(v.Items()) != 1 {
		t.Error("expected list unchanged")
	}
}

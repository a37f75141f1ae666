package orders

import (
	"context"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/shopapi"
)

type stubHistory struct {
	orders []shopapi.Order
	calls  int
}

func (s *stubHistory) Orders(context.Context) ([]shopapi.Order, error) {
	s.calls++
	return s.orders, nil
}

type stubSession bool

func (s stubSession) IsAuthenticated() bool { return bool(s) }

func TestHistoryRequiresSession(t *testing.T) {
	api := &stubHistory{}
	svc, err := NewService(api, stubSession(false))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.History(context.Background()); !pkgerrors.IsCode(err, pkgerrors.CodeNotAuthenticated) {
		t.Fatalf("expected not authenticated, got %v", err)
	}
	if api.calls != 0 {
		t.Fatalf("expected no request without a session")
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	api := &stubHistory{orders: []shopapi.Order{
		{ID: 1, CreatedAt: "2026-01-02T10:00:00Z"},
		{ID: 3, CreatedAt: "2026-03-01T10:00:00Z"},
		{ID: 2, CreatedAt: "2026-03-01T10:00:00Z"},
	}}
	svc, err := NewService(api, stubSession(true))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	got, err := svc.History(context.Background())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if got[0].ID != 3 || got[1].ID != 2 || got[2].ID != 1 {
		t.Fatalf("unexpected order %v", []int{got[0].ID, got[1].ID, got[2].ID})
	}
}

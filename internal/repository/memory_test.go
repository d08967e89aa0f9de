package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"grocito/internal/domain"
)

func seedStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	store.now = func() time.Time { return time.Date(2025, 7, 20, 14, 23, 11, 0, time.UTC) }
	store.AddUser(domain.BackendUser{ID: 1, FullName: "kshitij", Email: "x@example.com", Pincode: "411001"})
	store.AddProduct(domain.BackendProduct{ID: 10, Name: "Paneer", Price: decimal.NewFromInt(90)})
	store.AddProduct(domain.BackendProduct{ID: 11, Name: "Milk", Price: decimal.NewFromInt(25)})
	return store
}

func TestMemoryStore_PlaceFromCart(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)

	if err := store.AddToCart(1, 10, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.AddToCart(1, 11, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	o, err := store.PlaceFromCart(ctx, 1, "12 MG Road")
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if o.ID != 1 || o.Status != domain.OrderStatusPlaced {
		t.Fatalf("unexpected order %+v", o)
	}
	if got := o.TotalAmount.StringFixed(2); got != "140.00" {
		t.Fatalf("total %s", got)
	}
	if len(o.Items) != 2 || o.User.Email != "x@example.com" || o.Pincode != "411001" {
		t.Fatalf("order not assembled: %+v", o)
	}
	if o.OrderTime != "2025-07-20T14:23:11" {
		t.Fatalf("order time %q", o.OrderTime)
	}

	// cart cleared
	if _, err := store.PlaceFromCart(ctx, 1, "12 MG Road"); err != ErrEmptyCart {
		t.Fatalf("expected empty cart, got %v", err)
	}

	got, err := store.GetByID(ctx, o.ID)
	if err != nil || got.ID != o.ID {
		t.Fatalf("get: %v", err)
	}
	all, _ := store.All(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 order, got %d", len(all))
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	if _, err := store.GetByID(ctx, 99); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.PlaceFromCart(ctx, 42, "x"); err != ErrNotFound {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
	if err := store.AddToCart(1, 999, 1); err != ErrNotFound {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}
}

// Package cart holds the shopping cart: line items, derived totals, durable persistence and checkout.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/shopapi"
	"github.com/angelmondragon/storefront/pkg/storage"
	"github.com/angelmondragon/storefront/pkg/types"
)

// StorageKey is the durable storage entry holding the serialized lines.
const StorageKey = "cart"

// OrderPlacer submits checkouts to the backend.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req shopapi.CreateOrderRequest) (*shopapi.Order, error)
}

// AddressSource supplies a default shipping address, normally the signed-in user's.
type AddressSource interface {
	ShippingAddress() string
}

type Params struct {
	Storage storage.Store
	Orders  OrderPlacer
	Address AddressSource
	Logger  *logger.Logger
}

// Store owns the cart lines. Every mutation recomputes totals and writes the lines through to storage.
type Store struct {
	mu      sync.Mutex
	lines   []Line
	totals  Totals
	storage storage.Store
	orders  OrderPlacer
	address AddressSource
	logg    *logger.Logger
}

// NewStore builds the cart and hydrates it from storage.
func NewStore(ctx context.Context, p Params) (*Store, error) {
	if p.Storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if p.Orders == nil {
		return nil, fmt.Errorf("order placer required")
	}
	logg := p.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	s := &Store{
		storage: p.Storage,
		orders:  p.Orders,
		address: p.Address,
		logg:    logg,
	}
	s.hydrate(ctx)
	return s, nil
}

// SetAddressSource replaces the fallback used when checkout gets a blank address.
func (s *Store) SetAddressSource(src AddressSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = src
}

// AddItem merges quantity into the line for (product, size, color), creating it with a price snapshot if absent.
func (s *Store) AddItem(ctx context.Context, product shopapi.Product, quantity int, size, color string) error {
	if product.ID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]any{"quantity": quantity})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := LineKey{ProductID: product.ID, Size: size, Color: color}
	if i := s.indexOf(key); i >= 0 {
		s.lines[i].Quantity += quantity
	} else {
		s.lines = append(s.lines, Line{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  quantity,
			Size:      size,
			Color:     color,
		})
	}
	s.commit(ctx)
	return nil
}

// SetQuantity replaces the quantity of an existing line. quantity <= 0 removes it.
func (s *Store) SetQuantity(ctx context.Context, key LineKey, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(key)
	if i < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item is not in the cart")
	}
	if quantity <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	} else {
		s.lines[i].Quantity = quantity
	}
	s.commit(ctx)
	return nil
}

// RemoveItem drops the line for key if present.
func (s *Store) RemoveItem(ctx context.Context, key LineKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(key)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.commit(ctx)
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.commit(ctx)
}

// Lines returns a copy of the current lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}

func (s *Store) Line(key LineKey) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(key); i >= 0 {
		return s.lines[i], true
	}
	return Line{}, false
}

func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

// Checkout submits every line and the computed total. On success the cart is cleared; on failure it is left for retry.
func (s *Store) Checkout(ctx context.Context, shippingAddress string) types.Result[*shopapi.Order] {
	s.mu.Lock()
	lines := append([]Line(nil), s.lines...)
	totals := s.totals
	address := s.address
	s.mu.Unlock()

	if len(lines) == 0 {
		return types.Fail[*shopapi.Order](pkgerrors.New(pkgerrors.CodeValidation, "Cart is empty"))
	}
	shipTo := strings.TrimSpace(shippingAddress)
	if shipTo == "" && address != nil {
		shipTo = strings.TrimSpace(address.ShippingAddress())
	}
	if shipTo == "" {
		return types.Fail[*shopapi.Order](pkgerrors.New(pkgerrors.CodeValidation, "Shipping address is required"))
	}

	req := shopapi.CreateOrderRequest{
		TotalAmount:     totals.TotalPrice.InexactFloat64(),
		ShippingAddress: shipTo,
		Items:           make([]shopapi.OrderItemRequest, 0, len(lines)),
	}
	for _, line := range lines {
		req.Items = append(req.Items, shopapi.OrderItemRequest{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.Price.InexactFloat64(),
			Size:            line.Size,
			Color:           line.Color,
		})
	}

	order, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "checkout failed")
		return types.Fail[*shopapi.Order](pkgerrors.Wrap(pkgerrors.CodeCheckout, err, checkoutMessage(err)))
	}

	s.Clear(ctx)
	if order == nil {
		s.logg.Info(ctx, "checkout accepted without order details")
	} else {
		s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID), "checkout completed")
	}
	return types.OK(order)
}

// checkoutMessage prefers the server's message; transport failures get the generic one.
func checkoutMessage(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() == pkgerrors.CodeNetwork || typed.Message() == "" {
		return "Checkout failed"
	}
	return typed.Message()
}

func (s *Store) indexOf(key LineKey) int {
	for i, line := range s.lines {
		if line.Key() == key {
			return i
		}
	}
	return -1
}

// commit recomputes totals and persists. Callers hold s.mu.
func (s *Store) commit(ctx context.Context) {
	s.totals = computeTotals(s.lines)
	s.persist(ctx)
}

// persist is the single store-to-storage sync. Failures are logged, never returned.
func (s *Store) persist(ctx context.Context) {
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err == nil {
		err = s.storage.Set(ctx, StorageKey, raw)
	}
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "persisting cart failed")
	}
}

// hydrate is the single storage-to-store sync, run once at construction.
func (s *Store) hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totals = computeTotals(nil)
	raw, err := s.storage.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "reading saved cart failed, starting empty")
		return
	}

	var saved []Line
	if err := json.Unmarshal(raw, &saved); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "discarding unreadable saved cart")
		return
	}
	lines, changed := normalizeLines(saved)
	s.lines = lines
	s.totals = computeTotals(lines)
	if changed {
		s.persist(ctx)
	}
	s.logg.Debug(s.logg.WithField(ctx, "lines", len(lines)), "cart restored")
}

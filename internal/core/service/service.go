package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zzzuuusurp/faux-cart-copy/internal/core/domain"
	"github.com/zzzuuusurp/faux-cart-copy/internal/core/port"
)

var _ port.CartKeeper = (*CartService)(nil)

// A CartService owns the in-memory cart and its persisted mirror.
//
// Every mutation is validated, applied to a copy, persisted, and only
// then swapped in, so memory and storage never diverge after a call
// returns. All calls are serialized through one mutex.
type CartService struct {
	mu      sync.Mutex
	shopID  string
	cart    domain.Cart
	storage port.CartStorage
	events  port.CartEventsProducer
	ready   bool
}

// New constructs the service. The events producer is optional:
// nil disables the activity trail.
func New(
	shopID string,
	storage port.CartStorage,
	events port.CartEventsProducer,
) *CartService {
	return &CartService{
		shopID:  shopID,
		storage: storage,
		events:  events,
	}
}

// Init loads the persisted cart for the configured shop identifier,
// creating and persisting an empty record when none exists.
// Safe to call more than once; only the first call does work.
func (s *CartService) Init(ctx context.Context) error {
	const op = "CartService.Init"
	log := slog.With("op", op)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.storage.LoadCart(ctx, s.shopID)
	if err != nil {
		if !errors.Is(err, port.ErrCartNotFound) {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := s.storage.SaveCart(ctx, s.shopID, domain.Cart{}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		c = domain.Cart{}
	}

	s.cart = c
	s.ready = true
	log.Info("cart ready", "shopID", s.shopID, "nItems", len(c.Items))
	return nil
}

func (s *CartService) AddOrMerge(
	ctx context.Context, v domain.Candidate,
) ([]domain.CartItem, error) {
	const op = "CartService.AddOrMerge"

	if err := v.Validate(); err != nil {
		slog.Warn("rejected candidate", "op", op, "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.mutate(ctx, op, domain.CartOpAdd,
		func(c *domain.Cart) (string, error) {
			c.AddOrMerge(v)
			return v.Name, nil
		})
}

func (s *CartService) Increase(
	ctx context.Context, index int,
) ([]domain.CartItem, error) {
	const op = "CartService.Increase"
	return s.mutateAt(ctx, op, domain.CartOpIncrease, index,
		(*domain.Cart).Increase)
}

func (s *CartService) Decrease(
	ctx context.Context, index int,
) ([]domain.CartItem, error) {
	const op = "CartService.Decrease"
	return s.mutateAt(ctx, op, domain.CartOpDecrease, index,
		(*domain.Cart).Decrease)
}

func (s *CartService) Remove(
	ctx context.Context, index int,
) ([]domain.CartItem, error) {
	const op = "CartService.Remove"
	return s.mutateAt(ctx, op, domain.CartOpRemove, index,
		(*domain.Cart).Remove)
}

// RemoveByName is the stable addressing mode: it resolves the name to the
// current position and removes that line. Positional semantics are untouched.
func (s *CartService) RemoveByName(
	ctx context.Context, name string,
) ([]domain.CartItem, error) {
	const op = "CartService.RemoveByName"

	return s.mutate(ctx, op, domain.CartOpRemove,
		func(c *domain.Cart) (string, error) {
			i := c.IndexOf(name)
			if i < 0 {
				return "", fmt.Errorf("%w: %q", domain.ErrUnknownName, name)
			}
			return name, c.Remove(i)
		})
}

func (s *CartService) Clear(ctx context.Context) ([]domain.CartItem, error) {
	const op = "CartService.Clear"

	return s.mutate(ctx, op, domain.CartOpClear,
		func(c *domain.Cart) (string, error) {
			c.Clear()
			return "", nil
		})
}

// Items returns a snapshot of the current line sequence.
func (s *CartService) Items(ctx context.Context) []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone().Items
}

// Totals is a pure read: sum of price*qty and sum of qty.
func (s *CartService) Totals(ctx context.Context) domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Totals()
}

func (s *CartService) mutateAt(
	ctx context.Context,
	op string,
	cartOp domain.CartOp,
	index int,
	fn func(*domain.Cart, int) error,
) ([]domain.CartItem, error) {
	return s.mutate(ctx, op, cartOp,
		func(c *domain.Cart) (string, error) {
			// resolve the name before the mutation, so a removal
			// still reports the line it removed
			var name string
			if index >= 0 && index < len(c.Items) {
				name = c.Items[index].Name
			}
			return name, fn(c, index)
		})
}

// mutate applies fn to a copy of the cart, persists the copy, swaps it in
// and emits the activity event. fn returns the product name the event
// should carry. On any error no state changes.
func (s *CartService) mutate(
	ctx context.Context,
	op string,
	cartOp domain.CartOp,
	fn func(*domain.Cart) (string, error),
) ([]domain.CartItem, error) {
	log := slog.With("op", op)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	next := s.cart.Clone()
	productName, err := fn(&next)
	if err != nil {
		log.Warn("operation rejected", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SaveCart(ctx, s.shopID, next); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.cart = next

	s.emit(ctx, cartOp, productName)
	return next.Clone().Items, nil
}

// emit publishes the activity event for an already persisted mutation.
// The persisted cart is the source of truth, so a failed emit is logged
// and never fails the operation.
func (s *CartService) emit(
	ctx context.Context, cartOp domain.CartOp, productName string,
) {
	const op = "CartService.emit"

	if s.events == nil {
		return
	}

	evt := domain.CartEvent{
		ShopID:      s.shopID,
		Op:          cartOp,
		ProductName: productName,
		Totals:      s.cart.Totals(),
	}
	if err := s.events.ProduceEvent(ctx, evt); err != nil {
		slog.Warn("failed to produce cart event", "op", op, "err", err)
	}
}

package port

import (
	"context"
	"errors"
	"sync"

	"github.com/zzzuuusurp/faux-cart-copy/internal/core/domain"
)

// ErrCartNotFound is returned by CartStorage.LoadCart when no record
// exists for the shop identifier. Absence is a valid state, not a failure.
var ErrCartNotFound = errors.New("cart not found")

// ErrActivityNotFound is returned by ProductActivityReader.Additions
// when the product has no recorded activity yet.
var ErrActivityNotFound = errors.New("activity not found")

type (
	runnerContextWg interface {
		Run(context.Context, context.CancelFunc, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

// A CartStorage is the persisted mirror of the cart,
// one record per shop identifier.
type CartStorage interface {
	// LoadCart returns the persisted cart for shopID,
	// or an error wrapping [ErrCartNotFound] when no record exists.
	LoadCart(ctx context.Context, shopID string) (domain.Cart, error)
	SaveCart(ctx context.Context, shopID string, c domain.Cart) error
}

// A CartKeeper is the single source of truth for cart contents.
// Every mutating call persists synchronously before returning
// and returns the resulting snapshot.
type CartKeeper interface {
	AddOrMerge(ctx context.Context, v domain.Candidate) ([]domain.CartItem, error)
	Increase(ctx context.Context, index int) ([]domain.CartItem, error)
	Decrease(ctx context.Context, index int) ([]domain.CartItem, error)
	Remove(ctx context.Context, index int) ([]domain.CartItem, error)
	RemoveByName(ctx context.Context, name string) ([]domain.CartItem, error)
	Clear(ctx context.Context) ([]domain.CartItem, error)
	Items(ctx context.Context) []domain.CartItem
	Totals(ctx context.Context) domain.Totals
}

// A CartEventsProducer publishes the activity trail of completed mutations.
type CartEventsProducer interface {
	ProduceEvent(ctx context.Context, evt domain.CartEvent) error
}

// A ProductActivityReader serves per-product add counts
// aggregated from the activity trail.
type ProductActivityReader interface {
	Additions(productName string) (int64, error)
}

type CartActivityProcessor interface {
	runnerContextWg
	closer
}

type CartActivityView interface {
	runnerContextWg
	ProductActivityReader
}

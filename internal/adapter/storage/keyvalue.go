package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/zzzuuusurp/faux-cart-copy/internal/core/domain"
	"github.com/zzzuuusurp/faux-cart-copy/internal/core/port"
)

var _ port.CartStorage = (*KVStorage)(nil)

// A KVStorage keeps one JSON cart record per shop id
// in an embedded LevelDB database.
type KVStorage struct {
	db *leveldb.DB
}

func NewKVStorage(path string) (KVStorage, error) {
	const op = "NewKVStorage"

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return KVStorage{}, fmt.Errorf("%s: %w", op, err)
	}
	slog.Info("key-value storage is opened", "op", op, "path", path)
	return KVStorage{db}, nil
}

func (s KVStorage) LoadCart(
	ctx context.Context, shopID string,
) (domain.Cart, error) {
	const op = "KVStorage.LoadCart"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	data, err := s.db.Get([]byte(shopID), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return domain.Cart{}, fmt.Errorf("%s: %w", op, port.ErrCartNotFound)
		}
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := decodeCart(data)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s KVStorage) SaveCart(
	ctx context.Context, shopID string, c domain.Cart,
) error {
	const op = "KVStorage.SaveCart"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	data, err := encodeCart(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.db.Put([]byte(shopID), data, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s KVStorage) Close() {
	const op = "KVStorage.Close"
	log := slog.With("op", op)

	log.Info("closing key-value storage...")
	if err := s.db.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("key-value storage is closed")
}

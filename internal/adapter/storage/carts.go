package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zzzuuusurp/faux-cart-copy/internal/core/domain"
	"github.com/zzzuuusurp/faux-cart-copy/internal/core/port"
)

var _ port.CartStorage = (*SQLStorage)(nil)

// A SQLStorage keeps the cart record in the carts table,
// one jsonb row per shop id.
type SQLStorage struct {
	sqldb sqldb
}

func NewSQLStorage(sqldb sqldb) SQLStorage {
	return SQLStorage{sqldb}
}

func (s SQLStorage) LoadCart(
	ctx context.Context, shopID string,
) (domain.Cart, error) {
	const op = "SQLStorage.LoadCart"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT record FROM carts WHERE shop_id = $1;`

	var data []byte
	err := s.sqldb.QueryRowContext(ctx, query, shopID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

func (s SQLStorage) SaveCart(
	ctx context.Context, shopID string, c domain.Cart,
) error {
	const op = "SQLStorage.SaveCart"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	data, err := encodeCart(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO carts (shop_id, record)
		VALUES ($1, $2)
		ON CONFLICT (shop_id) DO UPDATE SET
			record = EXCLUDED.record,
			updated_at = now();
	`

	if _, err := s.sqldb.ExecContext(ctx, query, shopID, data); err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}

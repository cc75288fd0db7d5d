package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/bodyshop/internal/domain"
)

// ShopRepository handles database operations for shops.
type ShopRepository struct {
	pool *pgxpool.Pool
}

// NewShopRepository creates a new ShopRepository.
func NewShopRepository(pool *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{pool: pool}
}

// GetByID retrieves a shop by ID.
func (r *ShopRepository) GetByID(ctx context.Context, shopID string) (*domain.Shop, error) {
	query, args, err := psql.
		Select("id", "name", "created_at").
		From("shops").
		Where(sq.Eq{"id": shopID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for shop %s: %w", shopID, err)
	}

	var shop domain.Shop
	err = r.pool.QueryRow(ctx, query, args...).Scan(&shop.ID, &shop.Name, &shop.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShopNotFound
		}
		return nil, fmt.Errorf("query shop: %w", err)
	}

	return &shop, nil
}

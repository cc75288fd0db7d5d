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

var staffColumns = []string{"id", "shop_id", "name", "role", "token", "is_active", "created_at"}

// StaffRepository handles database operations for staff members. Staff are
// administered externally; only lookups are needed here.
type StaffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository creates a new StaffRepository.
func NewStaffRepository(pool *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{pool: pool}
}

func (r *StaffRepository) getOne(ctx context.Context, pred sq.Eq) (*domain.Staff, error) {
	query, args, err := psql.
		Select(staffColumns...).
		From("staff").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build staff query: %w", err)
	}

	var staff domain.Staff
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&staff.ID,
		&staff.ShopID,
		&staff.Name,
		&staff.Role,
		&staff.Token,
		&staff.IsActive,
		&staff.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStaffNotFound
		}
		return nil, fmt.Errorf("query staff: %w", err)
	}

	return &staff, nil
}

// GetByToken finds a staff member by authentication token.
func (r *StaffRepository) GetByToken(ctx context.Context, token string) (*domain.Staff, error) {
	return r.getOne(ctx, sq.Eq{"token": token})
}

// GetByID retrieves a staff member by ID.
func (r *StaffRepository) GetByID(ctx context.Context, staffID string) (*domain.Staff, error) {
	return r.getOne(ctx, sq.Eq{"id": staffID})
}

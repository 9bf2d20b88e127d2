package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sokoni/market/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

// RunAtomic executes fn within a transaction shared by every repository
// call made inside it.
func (r *OrderRepository) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	return runAtomic(ctx, r.db, fn)
}

// Create assigns the order id and creation time.
func (r *OrderRepository) Create(ctx context.Context, o *model.Order) error {
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC()
	_, err := executor(ctx, r.db).Exec(ctx,
		"INSERT INTO orders (id, product_id, quantity, total, status, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		o.ID, o.ProductID, o.Quantity, o.Total, o.Status, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrOrderNotFound
	}
	var o model.Order
	err := r.db.QueryRow(ctx,
		"SELECT id, product_id, quantity, total, status, created_at FROM orders WHERE id = $1", id).
		Scan(&o.ID, &o.ProductID, &o.Quantity, &o.Total, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

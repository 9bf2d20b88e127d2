package repository

import (
	"context"
	"errors"
	"fmt"

	"sokoni/market/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const productColumns = "id, name, description, price, image, location, quantity"

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Location, &p.Quantity)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepository) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, "SELECT "+productColumns+" FROM products ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *CatalogRepository) Get(ctx context.Context, id string) (*model.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrProductNotFound
	}
	p, err := scanProduct(r.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// GetForUpdate locks the product row for the remainder of the enclosing
// transaction.
func (r *CatalogRepository) GetForUpdate(ctx context.Context, id string) (*model.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrProductNotFound
	}
	row := executor(ctx, r.db).QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1 FOR UPDATE", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// Create assigns the product id.
func (r *CatalogRepository) Create(ctx context.Context, p *model.Product) error {
	p.ID = uuid.NewString()
	_, err := executor(ctx, r.db).Exec(ctx,
		"INSERT INTO products (id, name, description, price, image, location, quantity) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		p.ID, p.Name, p.Description, p.Price, p.Image, p.Location, p.Quantity)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Replace overwrites every field of an existing product.
func (r *CatalogRepository) Replace(ctx context.Context, p *model.Product) error {
	if _, err := uuid.Parse(p.ID); err != nil {
		return model.ErrProductNotFound
	}
	tag, err := r.db.Exec(ctx,
		"UPDATE products SET name = $2, description = $3, price = $4, image = $5, location = $6, quantity = $7 WHERE id = $1",
		p.ID, p.Name, p.Description, p.Price, p.Image, p.Location, p.Quantity)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.ErrProductNotFound
	}
	tag, err := r.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// DecrementStock reduces the product's quantity.
func (r *CatalogRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	_, err := executor(ctx, r.db).Exec(ctx, "UPDATE products SET quantity = quantity - $1 WHERE id = $2", quantity, id)
	if err != nil {
		return fmt.Errorf("failed to update product stock: %w", err)
	}
	return nil
}

func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

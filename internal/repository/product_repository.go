package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stock-service/internal/domain"

	"github.com/google/uuid"
)

const selectProducts = `SELECT p.id, p.name, p.description, p.price, p.sku,
		c.id, c.name, c.description
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

// productColumns holds the scan targets of the product columns plus its optional category
type productColumns struct {
	product      domain.Product
	categoryID   uuid.NullUUID
	categoryName sql.NullString
	categoryDesc sql.NullString
}

func (pc *productColumns) targets() []interface{} {
	return []interface{}{
		&pc.product.ID, &pc.product.Name, &pc.product.Description, &pc.product.Price, &pc.product.SKU,
		&pc.categoryID, &pc.categoryName, &pc.categoryDesc,
	}
}

func (pc *productColumns) result() *domain.Product {
	p := pc.product
	if pc.categoryID.Valid {
		p.Category = &domain.Category{
			ID:          pc.categoryID.UUID,
			Name:        pc.categoryName.String,
			Description: pc.categoryDesc.String,
		}
	}
	return &p
}

type sqlProductRepository struct {
	q querier
}

func (r *sqlProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, selectProducts+` ORDER BY p.name`)
}

func (r *sqlProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error) {
	return r.list(ctx, selectProducts+` WHERE p.category_id = ? ORDER BY p.name`, categoryID)
}

func (r *sqlProductRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var pc productColumns
		if err := rows.Scan(pc.targets()...); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *pc.result())
	}
	return products, rows.Err()
}

func (r *sqlProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return r.findOne(ctx, selectProducts+` WHERE p.id = ?`, id)
}

func (r *sqlProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return r.findOne(ctx, selectProducts+` WHERE p.sku = ?`, sku)
}

func (r *sqlProductRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.Product, error) {
	var pc productColumns
	if err := r.q.QueryRowContext(ctx, query, arg).Scan(pc.targets()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return pc.result(), nil
}

func (r *sqlProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE category_id = ?`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func (r *sqlProductRepository) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price, sku, category_id) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price.StringFixed(domain.PriceScale), p.SKU, nullableID(p.CategoryID()))
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", translateError(err))
	}
	return nil
}

func (r *sqlProductRepository) Update(ctx context.Context, p *domain.Product) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, price = ?, sku = ?, category_id = ? WHERE id = ?`,
		p.Name, p.Description, p.Price.StringFixed(domain.PriceScale), p.SKU, nullableID(p.CategoryID()), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", translateError(err))
	}
	return expectOne(result)
}

func (r *sqlProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", translateError(err))
	}
	return expectOne(result)
}

func (r *sqlProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete products: %w", translateError(err))
	}
	return result.RowsAffected()
}

func nullableID(id uuid.UUID) interface{} {
	if id == uuid.Nil {
		return nil
	}
	return id.String()
}

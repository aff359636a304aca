package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stock-service/internal/domain"

	"github.com/google/uuid"
)

const selectCategories = `SELECT id, name, description FROM categories`

type sqlCategoryRepository struct {
	q querier
}

func (r *sqlCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.q.QueryContext(ctx, selectCategories+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *sqlCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return r.findOne(ctx, selectCategories+` WHERE id = ?`, id)
}

func (r *sqlCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.findOne(ctx, selectCategories+` WHERE name = ?`, name)
}

func (r *sqlCategoryRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.Category, error) {
	var c domain.Category
	err := r.q.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

func (r *sqlCategoryRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return n, nil
}

func (r *sqlCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO categories (id, name, description) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.Description)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", translateError(err))
	}
	return nil
}

func (r *sqlCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ? WHERE id = ?`,
		c.Name, c.Description, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", translateError(err))
	}
	return expectOne(result)
}

func (r *sqlCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", translateError(err))
	}
	return expectOne(result)
}

func (r *sqlCategoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM categories`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete categories: %w", translateError(err))
	}
	return result.RowsAffected()
}

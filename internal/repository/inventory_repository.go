package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stock-service/internal/domain"

	"github.com/google/uuid"
)

const selectInventory = `SELECT i.id, i.quantity, i.min_stock_level, i.last_updated,
		p.id, p.name, p.description, p.price, p.sku,
		c.id, c.name, c.description
	FROM inventory i
	JOIN products p ON p.id = i.product_id
	LEFT JOIN categories c ON c.id = p.category_id`

type sqlInventoryRepository struct {
	q querier
	// lockRows appends FOR UPDATE to single-row reads (MySQL transactions)
	lockRows bool
}

func scanInventory(scan func(dest ...interface{}) error) (*domain.Inventory, error) {
	var (
		inv         domain.Inventory
		lastUpdated string
		pc          productColumns
	)
	dest := append([]interface{}{&inv.ID, &inv.Quantity, &inv.MinStockLevel, &lastUpdated}, pc.targets()...)
	if err := scan(dest...); err != nil {
		return nil, err
	}
	inv.LastUpdated = parseTime(lastUpdated)
	inv.Product = pc.result()
	return &inv, nil
}

func (r *sqlInventoryRepository) FindAll(ctx context.Context) ([]domain.Inventory, error) {
	return r.list(ctx, selectInventory+` ORDER BY p.name`)
}

func (r *sqlInventoryRepository) FindLowStock(ctx context.Context) ([]domain.Inventory, error) {
	return r.list(ctx, selectInventory+` WHERE i.quantity <= i.min_stock_level ORDER BY p.name`)
}

func (r *sqlInventoryRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Inventory, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	records := make([]domain.Inventory, 0)
	for rows.Next() {
		inv, err := scanInventory(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory: %w", err)
		}
		records = append(records, *inv)
	}
	return records, rows.Err()
}

func (r *sqlInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Inventory, error) {
	return r.findOne(ctx, selectInventory+` WHERE i.id = ?`, id)
}

func (r *sqlInventoryRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*domain.Inventory, error) {
	return r.findOne(ctx, selectInventory+` WHERE i.product_id = ?`, productID)
}

func (r *sqlInventoryRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.Inventory, error) {
	if r.lockRows {
		query += ` FOR UPDATE`
	}
	inv, err := scanInventory(r.q.QueryRowContext(ctx, query, arg).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return inv, nil
}

func (r *sqlInventoryRepository) Create(ctx context.Context, inv *domain.Inventory) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO inventory (id, product_id, quantity, min_stock_level, last_updated) VALUES (?, ?, ?, ?, ?)`,
		inv.ID, inv.ProductID(), inv.Quantity, inv.MinStockLevel, formatTime(inv.LastUpdated))
	if err != nil {
		return fmt.Errorf("failed to insert inventory: %w", translateError(err))
	}
	return nil
}

// Update persists quantity, minimum stock level and timestamp. The product
// reference of an existing record never changes.
func (r *sqlInventoryRepository) Update(ctx context.Context, inv *domain.Inventory) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE inventory SET quantity = ?, min_stock_level = ?, last_updated = ? WHERE id = ?`,
		inv.Quantity, inv.MinStockLevel, formatTime(inv.LastUpdated), inv.ID)
	if err != nil {
		return fmt.Errorf("failed to update inventory: %w", translateError(err))
	}
	return expectOne(result)
}

func (r *sqlInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM inventory WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory: %w", translateError(err))
	}
	return expectOne(result)
}

func (r *sqlInventoryRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM inventory WHERE product_id = ?`, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete inventory: %w", translateError(err))
	}
	return result.RowsAffected()
}

func (r *sqlInventoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM inventory`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete inventory: %w", translateError(err))
	}
	return result.RowsAffected()
}

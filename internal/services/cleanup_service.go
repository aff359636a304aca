package services

import (
	"context"
	"errors"

	"stock-service/internal/domain"
	"stock-service/internal/repository"

	"go.uber.org/zap"
)

// CleanupResult counts the rows removed per table
type CleanupResult struct {
	Inventory  int64 `json:"inventory"`
	Products   int64 `json:"products"`
	Categories int64 `json:"categories"`
}

// CleanupService removes data in bulk, dependents first. Each cleanup is all-or-nothing.
type CleanupService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewCleanupService(store repository.Store, logger *zap.Logger) *CleanupService {
	return &CleanupService{store: store, logger: logger}
}

// CleanupAll deletes every inventory record, product and category
func (s *CleanupService) CleanupAll(ctx context.Context) (*CleanupResult, error) {
	result := &CleanupResult{}
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		if result.Inventory, err = repos.Inventory.DeleteAll(ctx); err != nil {
			return err
		}
		if result.Products, err = repos.Products.DeleteAll(ctx); err != nil {
			return err
		}
		result.Categories, err = repos.Categories.DeleteAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("All data cleaned up",
		zap.Int64("inventory", result.Inventory),
		zap.Int64("products", result.Products),
		zap.Int64("categories", result.Categories),
	)
	return result, nil
}

// CleanupSeeded deletes the sample data only. Records that no longer exist are skipped.
// A sample category still referenced by another product aborts the whole cleanup.
func (s *CleanupService) CleanupSeeded(ctx context.Context) (*CleanupResult, error) {
	result := &CleanupResult{}
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		for _, sku := range SeededSKUs() {
			product, err := repos.Products.FindBySKU(ctx, sku)
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			inventory, err := repos.Inventory.FindByProduct(ctx, product.ID)
			switch {
			case err == nil:
				if err := repos.Inventory.Delete(ctx, inventory.ID); err != nil {
					return err
				}
				result.Inventory++
			case !errors.Is(err, repository.ErrNotFound):
				return err
			}

			if err := repos.Products.Delete(ctx, product.ID); err != nil {
				return err
			}
			result.Products++
			s.logger.Debug("Deleted seeded product", zap.String("sku", sku))
		}

		for _, name := range SeededCategoryNames() {
			category, err := repos.Categories.FindByName(ctx, name)
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			n, err := repos.Products.CountByCategory(ctx, category.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return domain.Conflictf("cannot delete seeded category %q because it still has %d associated products", name, n)
			}

			if err := repos.Categories.Delete(ctx, category.ID); err != nil {
				return translateStoreError(err, "category conflict")
			}
			result.Categories++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Seeded data cleaned up",
		zap.Int64("inventory", result.Inventory),
		zap.Int64("products", result.Products),
		zap.Int64("categories", result.Categories),
	)
	return result, nil
}

package services

import (
	"context"
	"errors"
	"time"

	"stock-service/internal/commands"
	"stock-service/internal/domain"
	"stock-service/internal/events"
	"stock-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService manages categories
type CategoryService struct {
	store     repository.Store
	publisher events.EventPublisher
	logger    *zap.Logger
}

func NewCategoryService(store repository.Store, publisher events.EventPublisher, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.store.Repositories().Categories.FindAll(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.find(ctx, s.store.Repositories(), id)
}

// find resolves a category through repos, so callers inside a transaction see its state
func (s *CategoryService) find(ctx context.Context, repos repository.Repositories, id uuid.UUID) (*domain.Category, error) {
	category, err := repos.Categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundf("category not found with id: %s", id)
		}
		return nil, err
	}
	return category, nil
}

// Create persists a new category. A duplicate name is reported by the store's unique index.
func (s *CategoryService) Create(ctx context.Context, cmd commands.CreateCategoryCommand) (*domain.Category, error) {
	category := domain.NewCategory(cmd.Name, cmd.Description)
	if err := category.Validate(); err != nil {
		return nil, err
	}

	err := s.store.Repositories().Categories.Create(ctx, category)
	if err != nil {
		return nil, translateStoreError(err, "category already exists with name: "+category.Name)
	}

	s.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	publishAll(ctx, s.publisher, s.logger, events.CategoryCreatedEvent{
		CategoryID:  category.ID,
		Name:        category.Name,
		Description: category.Description,
		OccurredAt:  time.Now().UTC(),
	})
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, cmd commands.UpdateCategoryCommand) (*domain.Category, error) {
	var category *domain.Category
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		category, err = s.find(ctx, repos, cmd.ID)
		if err != nil {
			return err
		}

		updated := domain.NewCategory(cmd.Name, cmd.Description)
		category.Name = updated.Name
		category.Description = updated.Description
		if err := category.Validate(); err != nil {
			return err
		}

		return translateStoreError(repos.Categories.Update(ctx, category),
			"category already exists with name: "+category.Name)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Category updated", zap.String("category_id", category.ID.String()))
	publishAll(ctx, s.publisher, s.logger, events.CategoryUpdatedEvent{
		CategoryID:  category.ID,
		Name:        category.Name,
		Description: category.Description,
		OccurredAt:  time.Now().UTC(),
	})
	return category, nil
}

// Delete removes a category that no product references
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	var category *domain.Category
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		category, err = s.find(ctx, repos, id)
		if err != nil {
			return err
		}

		n, err := repos.Products.CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.Conflictf("cannot delete category %q because it has associated products; delete or reassign the products first", category.Name)
		}

		return translateStoreError(repos.Categories.Delete(ctx, id), "category conflict")
	})
	if err != nil {
		return err
	}

	s.logger.Info("Category deleted", zap.String("category_id", id.String()))
	publishAll(ctx, s.publisher, s.logger, events.CategoryDeletedEvent{
		CategoryID: id,
		Name:       category.Name,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"stock-service/internal/commands"
	"stock-service/internal/domain"
	"stock-service/internal/services"
	"stock-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockCategoryService is a mock implementation of CategoryService
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, cmd commands.CreateCategoryCommand) (*domain.Category, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, cmd commands.UpdateCategoryCommand) (*domain.Category, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductService is a mock implementation of ProductService
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, cmd commands.CreateProductCommand) (*domain.Product, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, cmd commands.UpdateProductCommand) (*domain.Product, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockInventoryService is a mock implementation of InventoryService
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) list(args mock.Arguments) ([]domain.Inventory, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Inventory), args.Error(1)
}

func (m *MockInventoryService) one(args mock.Arguments) (*domain.Inventory, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

func (m *MockInventoryService) List(ctx context.Context) ([]domain.Inventory, error) {
	return m.list(m.Called(ctx))
}

func (m *MockInventoryService) ListLowStock(ctx context.Context) ([]domain.Inventory, error) {
	return m.list(m.Called(ctx))
}

func (m *MockInventoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Inventory, error) {
	return m.one(m.Called(ctx, id))
}

func (m *MockInventoryService) GetByProduct(ctx context.Context, productID uuid.UUID) (*domain.Inventory, error) {
	return m.one(m.Called(ctx, productID))
}

func (m *MockInventoryService) Create(ctx context.Context, cmd commands.CreateInventoryCommand) (*domain.Inventory, error) {
	return m.one(m.Called(ctx, cmd))
}

func (m *MockInventoryService) Update(ctx context.Context, cmd commands.UpdateInventoryCommand) (*domain.Inventory, error) {
	return m.one(m.Called(ctx, cmd))
}

func (m *MockInventoryService) SetStock(ctx context.Context, cmd commands.StockCommand) (*domain.Inventory, error) {
	return m.one(m.Called(ctx, cmd))
}

func (m *MockInventoryService) AddStock(ctx context.Context, cmd commands.StockCommand) (*domain.Inventory, error) {
	return m.one(m.Called(ctx, cmd))
}

func (m *MockInventoryService) RemoveStock(ctx context.Context, cmd commands.StockCommand) (*domain.Inventory, error) {
	return m.one(m.Called(ctx, cmd))
}

func (m *MockInventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCleanupService is a mock implementation of CleanupService
type MockCleanupService struct {
	mock.Mock
}

func (m *MockCleanupService) CleanupAll(ctx context.Context) (*services.CleanupResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CleanupResult), args.Error(1)
}

func (m *MockCleanupService) CleanupSeeded(ctx context.Context) (*services.CleanupResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CleanupResult), args.Error(1)
}

type routeRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

func setupTestRouter(handlers ...routeRegistrar) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RecoveryHandler(zap.NewNop()))
	router.Use(middleware.ErrorHandler(zap.NewNop()))

	api := router.Group("/api")
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}
	return router
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

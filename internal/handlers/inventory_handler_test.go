package handlers

import (
	"net/http"
	"testing"
	"time"

	"stock-service/internal/commands"
	"stock-service/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func testInventory(quantity, minStock int) *domain.Inventory {
	product := domain.NewProduct("Laptop", "High-performance laptop", decimal.RequireFromString("1200.00"), "ELEC-001", nil)
	return domain.NewInventory(product, quantity, minStock, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
}

func TestListLowStock(t *testing.T) {
	svc := new(MockInventoryService)
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), svc))

	svc.On("ListLowStock", mock.Anything).Return([]domain.Inventory{*testInventory(0, 5)}, nil)

	w := performRequest(router, http.MethodGet, "/api/inventory/low-stock", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"minStockLevel":5`)
	assert.Contains(t, w.Body.String(), `"lastUpdated":"2024-03-01T10:00:00Z"`)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestGetInventoryByProduct(t *testing.T) {
	svc := new(MockInventoryService)
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), svc))
	inv := testInventory(10, 5)

	svc.On("GetByProduct", mock.Anything, inv.ProductID()).Return(inv, nil)

	w := performRequest(router, http.MethodGet, "/api/inventory/product/"+inv.ProductID().String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(w)
	product, ok := body["product"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "ELEC-001", product["sku"])
	assert.Equal(t, float64(10), body["quantity"])
}

func TestCreateInventory(t *testing.T) {
	svc := new(MockInventoryService)
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), svc))
	inv := testInventory(10, 5)
	productID := inv.ProductID()

	svc.On("Create", mock.Anything, commands.CreateInventoryCommand{
		ProductID:     &productID,
		Quantity:      10,
		MinStockLevel: 5,
	}).Return(inv, nil)

	w := performRequest(router, http.MethodPost, "/api/inventory", map[string]interface{}{
		"product":       map[string]interface{}{"id": productID.String()},
		"quantity":      10,
		"minStockLevel": 5,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestCreateInventory_Errors(t *testing.T) {
	svc := new(MockInventoryService)
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), svc))
	existing := uuid.New()

	svc.On("Create", mock.Anything, commands.CreateInventoryCommand{Quantity: 1}).
		Return(nil, domain.InvalidArgumentf("product is required"))
	svc.On("Create", mock.Anything, commands.CreateInventoryCommand{ProductID: &existing, Quantity: 1}).
		Return(nil, domain.Conflictf("inventory already exists for product: Laptop"))

	w := performRequest(router, http.MethodPost, "/api/inventory", map[string]interface{}{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidArgument", decodeBody(w)["error"])

	w = performRequest(router, http.MethodPost, "/api/inventory", map[string]interface{}{
		"product":  map[string]interface{}{"id": existing.String()},
		"quantity": 1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateInventory(t *testing.T) {
	svc := new(MockInventoryService)
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), svc))
	inv := testInventory(3, 4)

	svc.On("Update", mock.Anything, commands.UpdateInventoryCommand{ID: inv.ID, Quantity: 3, MinStockLevel: 4}).
		Return(inv, nil)

	w := performRequest(router, http.MethodPut, "/api/inventory/"+inv.ID.String(), map[string]interface{}{
		"quantity":      3,
		"minStockLevel": 4,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestStockRoutes(t *testing.T) {
	svc := new(MockInventoryService)
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), svc))
	productID := uuid.New()

	svc.On("SetStock", mock.Anything, commands.StockCommand{ProductID: productID, Quantity: 0}).Return(testInventory(0, 5), nil)
	svc.On("AddStock", mock.Anything, commands.StockCommand{ProductID: productID, Quantity: 5}).Return(testInventory(15, 5), nil)
	svc.On("RemoveStock", mock.Anything, commands.StockCommand{ProductID: productID, Quantity: 20}).
		Return(nil, domain.Conflictf("not enough stock available for product %s: available 15, requested 20", productID))

	base := "/api/inventory/product/" + productID.String()

	w := performRequest(router, http.MethodPut, base, map[string]interface{}{"quantity": 0})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(w)["quantity"])

	w = performRequest(router, http.MethodPut, base+"/add", map[string]interface{}{"quantity": 5})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(15), decodeBody(w)["quantity"])

	w = performRequest(router, http.MethodPut, base+"/remove", map[string]interface{}{"quantity": 20})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decodeBody(w)["message"], "not enough stock")

	svc.AssertExpectations(t)
}

func TestStockRoutes_MissingQuantity(t *testing.T) {
	svc := new(MockInventoryService)
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), svc))
	base := "/api/inventory/product/" + uuid.New().String()

	for _, path := range []string{base, base + "/add", base + "/remove"} {
		w := performRequest(router, http.MethodPut, path, map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}

	w := performRequest(router, http.MethodPut, "/api/inventory/product/bad-id/add", map[string]interface{}{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "AddStock", mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "RemoveStock", mock.Anything, mock.Anything)
}

func TestAddStock_NonPositive(t *testing.T) {
	svc := new(MockInventoryService)
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), svc))
	productID := uuid.New()

	svc.On("AddStock", mock.Anything, commands.StockCommand{ProductID: productID, Quantity: 0}).
		Return(nil, domain.InvalidArgumentf("quantity to add must be positive: 0"))

	w := performRequest(router, http.MethodPut, "/api/inventory/product/"+productID.String()+"/add", map[string]interface{}{"quantity": 0})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidArgument", decodeBody(w)["error"])
}

func TestDeleteInventory(t *testing.T) {
	svc := new(MockInventoryService)
	router := setupTestRouter(NewInventoryHandler(zap.NewNop(), svc))
	id := uuid.New()

	svc.On("Delete", mock.Anything, id).Return(nil)

	w := performRequest(router, http.MethodDelete, "/api/inventory/"+id.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

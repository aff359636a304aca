package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"stock-service/internal/config"
	"stock-service/internal/events"
	"stock-service/internal/repository"
	"stock-service/internal/services"
	"stock-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testApp struct {
	router    *gin.Engine
	publisher *events.InMemoryEventPublisher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	store, err := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "stock.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	seeded, err := services.NewSeeder(store, logger).Seed(context.Background())
	require.NoError(t, err)
	require.True(t, seeded)

	requestIDStore := middleware.NewInMemoryRequestIDStore()
	t.Cleanup(func() { requestIDStore.Close() })

	publisher := events.NewInMemoryEventPublisher(logger)
	cfg := &config.Config{CORSAllowedOrigin: "http://localhost:5173", IdempotencyTTL: 300}

	return &testApp{
		router:    newRouter(cfg, logger, store, publisher, requestIDStore),
		publisher: publisher,
	}
}

func (a *testApp) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (a *testApp) productIDBySKU(t *testing.T, sku string) string {
	t.Helper()
	w := a.do(http.MethodGet, "/api/products", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []map[string]interface{}
	decode(t, w, &products)
	for _, p := range products {
		if p["sku"] == sku {
			return p["id"].(string)
		}
	}
	t.Fatalf("product %s not found", sku)
	return ""
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/api/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, serviceName, body["service"])
	assert.Equal(t, "up", body["database"])
}

func TestSeededCatalog(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/api/categories", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []map[string]interface{}
	decode(t, w, &categories)
	assert.Len(t, categories, 3)

	w = app.do(http.MethodGet, "/api/inventory", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inventory []map[string]interface{}
	decode(t, w, &inventory)
	assert.Len(t, inventory, 6)
}

func TestRemoveStockDrivesLowStock(t *testing.T) {
	app := newTestApp(t)
	laptopID := app.productIDBySKU(t, "ELEC-001")

	w := app.do(http.MethodPut, "/api/inventory/product/"+laptopID+"/remove", map[string]int{"quantity": 6}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var record map[string]interface{}
	decode(t, w, &record)
	assert.Equal(t, float64(4), record["quantity"])

	w = app.do(http.MethodGet, "/api/inventory/low-stock", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var low []map[string]interface{}
	decode(t, w, &low)
	require.Len(t, low, 1)
	product := low[0]["product"].(map[string]interface{})
	assert.Equal(t, "ELEC-001", product["sku"])

	w = app.do(http.MethodPut, "/api/inventory/product/"+laptopID+"/remove", map[string]int{"quantity": 10}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	var errBody map[string]string
	decode(t, w, &errBody)
	assert.Equal(t, "Conflict", errBody["error"])

	assert.Contains(t, app.publisher.EventTypes(), "LowStockDetected")
}

func TestStockMutationRequiresQuantity(t *testing.T) {
	app := newTestApp(t)
	laptopID := app.productIDBySKU(t, "ELEC-001")

	w := app.do(http.MethodPut, "/api/inventory/product/"+laptopID+"/add", map[string]int{}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDuplicateWriteIsReplayed(t *testing.T) {
	app := newTestApp(t)
	headers := map[string]string{middleware.RequestIDHeader: uuid.New().String()}
	body := map[string]string{"name": "Garden", "description": "Outdoor"}

	first := app.do(http.MethodPost, "/api/categories", body, headers)
	second := app.do(http.MethodPost, "/api/categories", body, headers)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	w := app.do(http.MethodGet, "/api/categories", nil, nil)
	var categories []map[string]interface{}
	decode(t, w, &categories)
	assert.Len(t, categories, 4)
}

func TestReusedRequestIDOnOtherStockRoute(t *testing.T) {
	app := newTestApp(t)
	laptopID := app.productIDBySKU(t, "ELEC-001")
	headers := map[string]string{middleware.RequestIDHeader: "fixed-id"}

	w := app.do(http.MethodPut, "/api/inventory/product/"+laptopID+"/add", map[string]int{"quantity": 5}, headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(http.MethodPut, "/api/inventory/product/"+laptopID+"/remove", map[string]int{"quantity": 3}, headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var record map[string]interface{}
	decode(t, w, &record)
	assert.Equal(t, float64(12), record["quantity"])

	// a retry of the remove is replayed, not applied again
	w = app.do(http.MethodPut, "/api/inventory/product/"+laptopID+"/remove", map[string]int{"quantity": 3}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/api/inventory/product/"+laptopID, nil, nil)
	decode(t, w, &record)
	assert.Equal(t, float64(12), record["quantity"])
}

func TestPricesKeepTwoDecimals(t *testing.T) {
	app := newTestApp(t)
	laptopID := app.productIDBySKU(t, "ELEC-001")

	w := app.do(http.MethodGet, "/api/products/"+laptopID, nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":1200.00`)
}

func TestFailedWriteIsNotReplayed(t *testing.T) {
	app := newTestApp(t)
	headers := map[string]string{middleware.RequestIDHeader: uuid.New().String()}
	body := map[string]string{"name": "Electronics"}

	first := app.do(http.MethodPost, "/api/categories", body, headers)
	second := app.do(http.MethodPost, "/api/categories", body, headers)

	assert.Equal(t, http.StatusConflict, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestUnknownCategory(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/api/categories/"+uuid.New().String(), nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "NotFound", body["error"])
}

func TestCleanupSeeded(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodDelete, "/api/data/cleanup/seeded", nil, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "Seeded data cleaned up successfully", body["message"])
	assert.Equal(t, float64(6), body["products"])
	assert.Equal(t, float64(3), body["categories"])

	w = app.do(http.MethodGet, "/api/products", nil, nil)
	var products []map[string]interface{}
	decode(t, w, &products)
	assert.Empty(t, products)
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodOptions, "/api/categories", nil, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

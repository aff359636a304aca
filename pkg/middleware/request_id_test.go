package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stock-service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newIdempotentRouter(store RequestIDStore, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	router := gin.New()
	router.Use(RequestIDMiddleware(logger))
	router.Use(IdempotencyMiddleware(store, logger))
	router.Use(StoreResponseMiddleware(store, logger, 5*time.Minute))
	router.POST("/test", handler)
	router.GET("/test", handler)
	return router
}

func TestRequestIDMiddleware_GenerateID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware(zap.NewNop()))
	router.GET("/test", func(c *gin.Context) {
		assert.Equal(t, GetRequestID(c), RequestIDFromContext(c.Request.Context()))
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	responseID := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, responseID)
	_, err := uuid.Parse(responseID)
	assert.NoError(t, err)
}

func TestRequestIDMiddleware_UseProvidedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware(zap.NewNop()))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	providedID := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, providedID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, providedID, w.Header().Get(RequestIDHeader))
}

func TestIdempotencyMiddleware_DuplicateRequest(t *testing.T) {
	store := NewInMemoryRequestIDStore()
	defer store.Close()

	calls := 0
	router := newIdempotentRouter(store, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	requestID := uuid.New().String()
	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.Header.Set(RequestIDHeader, requestID)
	router.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/test", nil)
	req2.Header.Set(RequestIDHeader, requestID)
	router.ServeHTTP(second, req2)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)
}

func TestIdempotencyMiddleware_SameIDOtherRouteIsProcessed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewInMemoryRequestIDStore()
	defer store.Close()

	logger := zap.NewNop()
	stock := 10
	router := gin.New()
	router.Use(RequestIDMiddleware(logger))
	router.Use(IdempotencyMiddleware(store, logger))
	router.Use(StoreResponseMiddleware(store, logger, 5*time.Minute))
	router.PUT("/stock/add", func(c *gin.Context) {
		stock += 5
		c.JSON(http.StatusOK, gin.H{"quantity": stock})
	})
	router.PUT("/stock/remove", func(c *gin.Context) {
		stock -= 3
		c.JSON(http.StatusOK, gin.H{"quantity": stock})
	})

	requestID := uuid.New().String()
	add := httptest.NewRequest(http.MethodPut, "/stock/add", nil)
	add.Header.Set(RequestIDHeader, requestID)
	first := httptest.NewRecorder()
	router.ServeHTTP(first, add)

	remove := httptest.NewRequest(http.MethodPut, "/stock/remove", nil)
	remove.Header.Set(RequestIDHeader, requestID)
	second := httptest.NewRecorder()
	router.ServeHTTP(second, remove)

	assert.JSONEq(t, `{"quantity":15}`, first.Body.String())
	assert.JSONEq(t, `{"quantity":12}`, second.Body.String())
	assert.Equal(t, 12, stock)
}

func TestIdempotencyMiddleware_ReplaysNoContent(t *testing.T) {
	store := NewInMemoryRequestIDStore()
	defer store.Close()

	calls := 0
	router := newIdempotentRouter(store, func(c *gin.Context) {
		calls++
		c.Status(http.StatusNoContent)
	})

	requestID := uuid.New().String()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		req.Header.Set(RequestIDHeader, requestID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	}

	assert.Equal(t, 1, calls)
}

func TestIdempotencyMiddleware_FailedRequestNotStored(t *testing.T) {
	store := NewInMemoryRequestIDStore()
	defer store.Close()

	calls := 0
	router := newIdempotentRouter(store, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict"})
	})

	requestID := uuid.New().String()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		req.Header.Set(RequestIDHeader, requestID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)
	}

	assert.Equal(t, 2, calls)
}

func TestIdempotencyMiddleware_HandlerErrorNotStored(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewInMemoryRequestIDStore()
	defer store.Close()

	logger := zap.NewNop()
	calls := 0
	router := gin.New()
	router.Use(RequestIDMiddleware(logger))
	router.Use(IdempotencyMiddleware(store, logger))
	router.Use(ErrorHandler(logger))
	router.Use(StoreResponseMiddleware(store, logger, 5*time.Minute))
	router.POST("/test", func(c *gin.Context) {
		calls++
		_ = c.Error(domain.NotFoundf("category not found"))
	})

	requestID := uuid.New().String()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		req.Header.Set(RequestIDHeader, requestID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	assert.Equal(t, 2, calls)
	exists, err := store.Exists(context.Background(), "POST /test "+requestID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIdempotencyMiddleware_WithoutHeaderAlwaysProcessed(t *testing.T) {
	store := NewInMemoryRequestIDStore()
	defer store.Close()

	calls := 0
	router := newIdempotentRouter(store, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"call": calls})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", nil))
	}

	assert.Equal(t, 2, calls)
}

func TestIdempotencyMiddleware_GETRequest(t *testing.T) {
	store := NewInMemoryRequestIDStore()
	defer store.Close()

	calls := 0
	router := newIdempotentRouter(store, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"call": calls})
	})

	requestID := uuid.New().String()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, requestID)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 2, calls)
}

func TestInMemoryRequestIDStore_CloseTwice(t *testing.T) {
	store := NewInMemoryRequestIDStore()

	assert.NoError(t, store.Close())
	assert.NotPanics(t, func() { _ = store.Close() })
}

func TestInMemoryRequestIDStore_Expiration(t *testing.T) {
	store := NewInMemoryRequestIDStore()
	defer store.Close()
	ctx := context.Background()
	requestID := uuid.New().String()

	require.NoError(t, store.Store(ctx, requestID, []byte(`{"message":"test"}`), 100*time.Millisecond))

	exists, err := store.Exists(ctx, requestID)
	require.NoError(t, err)
	assert.True(t, exists)

	time.Sleep(150 * time.Millisecond)

	exists, err = store.Exists(ctx, requestID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Get(ctx, requestID)
	assert.Equal(t, ErrRequestIDNotFound, err)
}

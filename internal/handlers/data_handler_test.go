package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"stock-service/internal/domain"
	"stock-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestCleanupAll(t *testing.T) {
	svc := new(MockCleanupService)
	router := setupTestRouter(NewDataHandler(zap.NewNop(), svc))

	svc.On("CleanupAll", mock.Anything).Return(&services.CleanupResult{Inventory: 6, Products: 6, Categories: 3}, nil)

	w := performRequest(router, http.MethodDelete, "/api/data/cleanup/all", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(w)
	assert.Equal(t, "All data cleaned up successfully", body["message"])
	assert.Equal(t, float64(3), body["categories"])
}

func TestCleanupSeeded(t *testing.T) {
	svc := new(MockCleanupService)
	router := setupTestRouter(NewDataHandler(zap.NewNop(), svc))

	svc.On("CleanupSeeded", mock.Anything).Return(&services.CleanupResult{Inventory: 6, Products: 6, Categories: 3}, nil).Once()
	svc.On("CleanupSeeded", mock.Anything).
		Return(nil, domain.Conflictf("cannot delete seeded category %q because it still has 1 associated products", "Electronics")).Once()

	w := performRequest(router, http.MethodDelete, "/api/data/cleanup/seeded", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Seeded data cleaned up successfully", decodeBody(w)["message"])

	w = performRequest(router, http.MethodDelete, "/api/data/cleanup/seeded", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func TestHealthCheck(t *testing.T) {
	for _, tc := range []struct {
		name     string
		err      error
		status   int
		database string
	}{
		{"up", nil, http.StatusOK, "up"},
		{"down", errors.New("database is closed"), http.StatusServiceUnavailable, "down"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.GET("/api/health", NewHealthHandler(stubPinger{err: tc.err}, "stock-service").HealthCheck)

			w := performRequest(router, http.MethodGet, "/api/health", nil)

			assert.Equal(t, tc.status, w.Code)
			body := decodeBody(w)
			assert.Equal(t, "stock-service", body["service"])
			assert.Equal(t, tc.database, body["database"])
		})
	}
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey is the gin context key for request ID
	RequestIDContextKey = "request_id"

	requestIDKey contextKey = RequestIDContextKey
)

// RequestIDStore stores responses of processed write requests for idempotent replay.
// Keys are built by the middleware from method, path and request ID.
type RequestIDStore interface {
	// Store stores a response under key
	Store(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Get retrieves a stored response by key
	Get(ctx context.Context, key string) ([]byte, error)
	// Exists checks if a key exists
	Exists(ctx context.Context, key string) (bool, error)
}

// InMemoryRequestIDStore is an in-memory implementation of RequestIDStore
type InMemoryRequestIDStore struct {
	mu        sync.Mutex
	store     map[string]requestIDEntry
	stop      chan struct{}
	closeOnce sync.Once
}

type requestIDEntry struct {
	response  []byte
	expiresAt time.Time
}

// NewInMemoryRequestIDStore creates a new in-memory request ID store.
// Expired entries are swept every minute until Close is called.
func NewInMemoryRequestIDStore() *InMemoryRequestIDStore {
	store := &InMemoryRequestIDStore{
		store: make(map[string]requestIDEntry),
		stop:  make(chan struct{}),
	}

	go store.cleanupExpired(time.Minute)

	return store
}

func (s *InMemoryRequestIDStore) Store(ctx context.Context, requestID string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store[requestID] = requestIDEntry{
		response:  response,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

func (s *InMemoryRequestIDStore) Get(ctx context.Context, requestID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(requestID)
	if !ok {
		return nil, ErrRequestIDNotFound
	}
	return entry.response, nil
}

func (s *InMemoryRequestIDStore) Exists(ctx context.Context, requestID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.live(requestID)
	return ok, nil
}

// Close stops the background sweeper. It is safe to call more than once.
func (s *InMemoryRequestIDStore) Close() error {
	s.closeOnce.Do(func() { close(s.stop) })
	return nil
}

// live returns the entry if present and not expired. Caller holds s.mu.
func (s *InMemoryRequestIDStore) live(requestID string) (requestIDEntry, bool) {
	entry, exists := s.store[requestID]
	if !exists {
		return requestIDEntry{}, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.store, requestID)
		return requestIDEntry{}, false
	}
	return entry, true
}

func (s *InMemoryRequestIDStore) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for id, entry := range s.store {
				if now.After(entry.expiresAt) {
					delete(s.store, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

var (
	ErrRequestIDNotFound = &RequestIDError{Message: "request ID not found"}
)

type RequestIDError struct {
	Message string
}

func (e *RequestIDError) Error() string {
	return e.Message
}

// RequestIDMiddleware extracts or generates X-Request-ID header
func RequestIDMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			logger.Debug("Generated new request ID",
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
		}

		c.Set(RequestIDContextKey, requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), requestIDKey, requestID))
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID retrieves the request ID from the Gin context
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDContextKey)
}

// RequestIDFromContext retrieves the request ID from a request context
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func isReadOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// storedResponse is the replayable part of a processed write
type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// idempotencyKey scopes a client request ID to the method and path it was used on,
// so reusing an ID on another write never replays an unrelated response.
func idempotencyKey(c *gin.Context, requestID string) string {
	return c.Request.Method + " " + c.Request.URL.Path + " " + requestID
}

// IdempotencyMiddleware replays the stored response of a write request whose
// X-Request-ID has already been processed successfully on the same route.
func IdempotencyMiddleware(store RequestIDStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isReadOnly(c.Request.Method) {
			c.Next()
			return
		}

		// Only client-supplied IDs are meaningful for deduplication
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			c.Next()
			return
		}
		key := idempotencyKey(c, requestID)

		exists, err := store.Exists(c.Request.Context(), key)
		if err != nil {
			logger.Warn("Error checking request ID existence",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			// fail open
			c.Next()
			return
		}

		if exists {
			if cached, ok := loadResponse(c.Request.Context(), store, key); ok {
				logger.Info("Duplicate request detected, returning stored response",
					zap.String("request_id", requestID),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.Int("status", cached.Status),
				)
				if len(cached.Body) == 0 {
					c.AbortWithStatus(cached.Status)
					return
				}
				c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

func loadResponse(ctx context.Context, store RequestIDStore, key string) (storedResponse, bool) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return storedResponse{}, false
	}
	var cached storedResponse
	if err := json.Unmarshal(raw, &cached); err != nil || cached.Status == 0 {
		return storedResponse{}, false
	}
	return cached, true
}

// StoreResponseMiddleware stores successful write responses for idempotent replay
func StoreResponseMiddleware(store RequestIDStore, logger *zap.Logger, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isReadOnly(c.Request.Method) {
			c.Next()
			return
		}

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			c.Next()
			return
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           make([]byte, 0),
		}
		c.Writer = writer

		c.Next()

		// errors are rendered by ErrorHandler after this point, so the status is not final yet
		status := c.Writer.Status()
		if len(c.Errors) > 0 || status < 200 || status >= 300 || c.IsAborted() {
			return
		}

		payload, err := json.Marshal(storedResponse{Status: status, Body: writer.body})
		if err != nil {
			logger.Warn("Failed to encode response for idempotency",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			return
		}

		if err := store.Store(c.Request.Context(), idempotencyKey(c, requestID), payload, ttl); err != nil {
			logger.Warn("Failed to store response for idempotency",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			return
		}
		logger.Debug("Stored response for idempotency",
			zap.String("request_id", requestID),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
		)
	}
}

// responseWriter captures the response body
type responseWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body = append(w.body, s...)
	return w.ResponseWriter.WriteString(s)
}

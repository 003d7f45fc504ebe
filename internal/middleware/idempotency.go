package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taxi/internal/redis"
)

const (
	idempotencyHeader  = "Idempotency-Key"
	idempotencyTTL     = 24 * time.Hour
	idempotencyLockTTL = 30 * time.Second
)

// cachedResponse stores the response for idempotent requests.
type cachedResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
	Headers    http.Header     `json:"headers"`
}

// responseWriter wraps gin.ResponseWriter to capture the response.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response of a mutating request
// that repeats an Idempotency-Key. Keys are scoped to the caller, method and
// path. A nil store disables the middleware.
func IdempotencyMiddleware(store redis.ResponseStoreInterface, locks redis.LockStoreInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.Next()
			return
		}

		// Only apply to mutating methods.
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		userID, _ := UserID(c)
		scopedKey := fmt.Sprintf("%d:%s:%s:%s", userID, c.Request.Method, c.Request.URL.Path, key)

		cached, err := getCachedResponse(ctx, store, scopedKey)
		if err != nil {
			// Redis error - proceed without idempotency.
			c.Next()
			return
		}
		if cached != nil {
			replay(c, cached)
			return
		}

		if locks != nil {
			acquired, err := locks.Acquire(ctx, "idempotency:"+scopedKey, idempotencyLockTTL)
			if err == nil && !acquired {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "a request with this idempotency key is in progress"})
				return
			}
			if err == nil {
				defer func() { _ = locks.Release(context.WithoutCancel(ctx), "idempotency:"+scopedKey) }()
			}
		}

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		// Server errors are not cached so the client can retry.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			response := cachedResponse{
				StatusCode: c.Writer.Status(),
				Body:       w.body.Bytes(),
				Headers:    extractResponseHeaders(c),
			}
			_ = setCachedResponse(context.WithoutCancel(ctx), store, scopedKey, &response, idempotencyTTL)
		}
	}
}

func replay(c *gin.Context, cached *cachedResponse) {
	for k, v := range cached.Headers {
		for _, val := range v {
			c.Header(k, val)
		}
	}
	c.Header("Idempotent-Replayed", "true")
	c.Data(cached.StatusCode, "application/json", cached.Body)
	c.Abort()
}

// getCachedResponse retrieves a cached response. A miss returns nil, nil.
func getCachedResponse(ctx context.Context, store redis.ResponseStoreInterface, key string) (*cachedResponse, error) {
	data, found, err := store.Get(ctx, key)
	if err != nil || !found {
		return nil, err
	}

	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	return &cached, nil
}

// setCachedResponse stores a response.
func setCachedResponse(ctx context.Context, store redis.ResponseStoreInterface, key string, response *cachedResponse, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	return store.Set(ctx, key, data, ttl)
}

// extractResponseHeaders extracts headers to cache.
func extractResponseHeaders(c *gin.Context) http.Header {
	headers := make(http.Header)
	// Only cache Content-Type header.
	if ct := c.Writer.Header().Get("Content-Type"); ct != "" {
		headers.Set("Content-Type", ct)
	}
	return headers
}

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader    = "Idempotency-Key"
	IdempotencyHitHeader = "X-Idempotency-Hit"

	// IdempotencyCacheTTL is how long a successful response is replayed
	IdempotencyCacheTTL = 24 * time.Hour

	// idempotencyLockTTL bounds how long a crashed request can hold its key
	idempotencyLockTTL = 10 * time.Second

	idempotencyKeyPrefix     = "idempotency:"
	idempotencyLockKeyPrefix = "idempotency-lock:"
)

// Idempotency replays the cached response for a repeated Idempotency-Key.
// Keys are scoped by path. Only 2xx responses are cached; a request that
// arrives while another with the same key is in flight gets 409.
func Idempotency(rdb *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			logger := LoggerFromContext(ctx).With(zap.String("idempotency_key", key))
			cacheKey := idempotencyKeyPrefix + r.URL.Path + ":" + key
			lockKey := idempotencyLockKeyPrefix + r.URL.Path + ":" + key

			replayed, err := replayCached(ctx, w, rdb, cacheKey)
			if err != nil {
				logger.Error("Idempotency cache lookup failed", zap.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if replayed {
				logger.Info("Idempotency cache hit")
				return
			}

			acquired, err := rdb.SetNX(ctx, lockKey, "processing", idempotencyLockTTL).Result()
			if err != nil {
				logger.Error("Idempotency lock acquisition failed", zap.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if !acquired {
				logger.Warn("Concurrent request with the same idempotency key")
				writeJSON(w, http.StatusConflict, map[string]string{
					"error":   "conflict",
					"message": "A request with this idempotency key is currently being processed",
				})
				return
			}
			defer func() {
				if err := rdb.Del(ctx, lockKey).Err(); err != nil {
					logger.Warn("Failed to release idempotency lock", zap.Error(err))
				}
			}()

			// The previous holder may have cached its response and released
			// the lock between our lookup and SetNX.
			replayed, err = replayCached(ctx, w, rdb, cacheKey)
			if err != nil {
				logger.Error("Idempotency cache lookup failed", zap.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if replayed {
				logger.Info("Idempotency cache hit after acquiring lock")
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			var body bytes.Buffer
			ww.Tee(&body)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status < 200 || status >= 300 {
				return
			}
			if err := rdb.Set(ctx, cacheKey, body.String(), IdempotencyCacheTTL).Err(); err != nil {
				logger.Warn("Failed to cache idempotent response", zap.Error(err))
				return
			}
			logger.Debug("Cached idempotent response", zap.Duration("ttl", IdempotencyCacheTTL))
		})
	}
}

// replayCached writes the cached response for cacheKey, if there is one.
func replayCached(ctx context.Context, w http.ResponseWriter, rdb *redis.Client, cacheKey string) (bool, error) {
	cached, err := rdb.Get(ctx, cacheKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(IdempotencyHitHeader, "true")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(cached))
	return true, nil
}

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	KeyIdempotencyCacheKey = "idempotency_cache_key"
	KeyIdempotencyLockKey  = "idempotency_lock_key"

	idempotencyTTL     = 24 * time.Hour
	idempotencyLockTTL = 30 * time.Second
)

// Idempotency replays the cached response for a repeated POST carrying the
// same Idempotency-Key, and holds a short redis lock while the first
// attempt is still in flight.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		userID := c.GetString(KeyUserID)
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cached json.RawMessage = []byte(val)
			c.AbortWithStatusJSON(http.StatusOK, response.ApiEnvelope{Ok: true, Data: cached})
			return
		}

		// Lock expires on its own so a crashed server never wedges the key.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()
		if !isNew {
			response.Error(c, http.StatusConflict, apperror.CodeConflict, "request with this idempotency key is already in progress", nil)
			c.Abort()
			return
		}

		c.Set(KeyIdempotencyCacheKey, cacheKey)
		c.Set(KeyIdempotencyLockKey, lockKey)

		c.Next()
	}
}

// StoreIdempotentResult caches a successful handler result and releases
// the in-flight lock. Handlers call it after committing.
func StoreIdempotentResult(c *gin.Context, rdb *redis.Client, data any) {
	cacheKey := c.GetString(KeyIdempotencyCacheKey)
	if cacheKey == "" {
		return
	}

	if raw, err := json.Marshal(data); err == nil {
		rdb.Set(c.Request.Context(), cacheKey, raw, idempotencyTTL)
	}
	if lockKey := c.GetString(KeyIdempotencyLockKey); lockKey != "" {
		rdb.Del(c.Request.Context(), lockKey)
	}
}

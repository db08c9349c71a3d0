package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	apierrors "github.com/yukikurage/promptvault-api/internal/errors"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports whether the backing stores answer.
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler creates a HealthHandler. rdb may be nil when sessions do not use redis.
func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb}
}

// Health pings the database and, when configured, redis
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		_ = c.Error(err)
		apierrors.ServiceUnavailable(c, "Database unavailable")
		return
	}

	checks := gin.H{"database": "ok"}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			_ = c.Error(err)
			apierrors.ServiceUnavailable(c, "Session store unavailable")
			return
		}
		checks["redis"] = "ok"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": checks,
	})
}

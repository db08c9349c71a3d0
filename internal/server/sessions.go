package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/redis/go-redis/v9"

	"github.com/yukikurage/promptvault-api/internal/config"
)

// NewSessionStore returns a redis backed store when redis is configured and a
// signed cookie store otherwise.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	secret := []byte(cfg.Session.Secret)

	var store sessions.Store
	if cfg.Redis.Addr != "" {
		rs, err := redisStore.NewStore(
			cfg.Redis.PoolSize,
			"tcp",
			cfg.Redis.Addr,
			cfg.Redis.Username,
			cfg.Redis.Password,
			secret,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis session store: %w", err)
		}
		store = rs
	} else {
		store = cookie.NewStore(secret)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsRelease(),
		SameSite: http.SameSiteLaxMode,
	})

	return store, nil
}

// NewRedisClient returns nil when redis is not configured.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		PoolSize: cfg.PoolSize,
	})
}

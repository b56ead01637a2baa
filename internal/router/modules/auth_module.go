package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/LewisCM14/allotment-sub001/internal/interface/http"
	"github.com/LewisCM14/allotment-sub001/internal/interface/middleware"
)

// AuthModule wires the token endpoints.
// Public: POST /api/auth/token, POST /api/auth/token/refresh
type AuthModule struct {
	Handler *handlers.AuthHandler
	RDB     *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, RDB: rdb}
}

func (m *AuthModule) Mount(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath())
	refreshLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/auth/token", loginLimiter, m.Handler.Login)
	rg.POST("/auth/token/refresh", refreshLimiter, m.Handler.Refresh)
}

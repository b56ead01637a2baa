package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/LewisCM14/allotment-sub001/internal/interface/http"
	"github.com/LewisCM14/allotment-sub001/internal/interface/middleware"
)

// UserModule wires registration, verification, password reset and profile
// routes.
// Public: POST /api/registration, POST /api/email-verifications/:token,
// POST /api/password-resets, POST /api/password-resets/:token
// Protected: POST /api/email-verifications, GET /api/email-verifications/status,
// GET/PUT /api/users/profile
type UserModule struct {
	Handler *handlers.UserHandler
	AuthMW  gin.HandlerFunc
	RDB     *redis.Client
}

func NewUserModule(h *handlers.UserHandler, authMW gin.HandlerFunc, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, AuthMW: authMW, RDB: rdb}
}

func (m *UserModule) Mount(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath())
	verifyLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath())
	resetInitLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath())
	resetConfirmLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/registration", registerLimiter, m.Handler.Register)
	rg.POST("/email-verifications/:token", verifyLimiter, m.Handler.VerifyEmail)
	rg.POST("/password-resets", resetInitLimiter, m.Handler.ResetInit)
	rg.POST("/password-resets/:token", resetConfirmLimiter, m.Handler.ResetConfirm)

	auth := rg.Group("/")
	auth.Use(m.AuthMW)
	auth.Use(middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("/email-verifications", m.Handler.RequestVerification)
		auth.GET("/email-verifications/status", m.Handler.VerificationStatus)
		auth.GET("/users/profile", m.Handler.GetProfile)
		auth.PUT("/users/profile", m.Handler.UpdateProfile)
	}
}

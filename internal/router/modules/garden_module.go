package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/LewisCM14/allotment-sub001/internal/interface/http"
	"github.com/LewisCM14/allotment-sub001/internal/interface/middleware"
)

// GardenModule wires the per-user gardening routes: allotment, active
// varieties, preferences and the derived weekly task list. Everything here
// requires a bearer token.
type GardenModule struct {
	Allotments  *handlers.AllotmentHandler
	Varieties   *handlers.VarietyHandler
	Preferences *handlers.PreferenceHandler
	AuthMW      gin.HandlerFunc
	RDB         *redis.Client
}

func NewGardenModule(a *handlers.AllotmentHandler, v *handlers.VarietyHandler, p *handlers.PreferenceHandler, authMW gin.HandlerFunc, rdb *redis.Client) *GardenModule {
	return &GardenModule{Allotments: a, Varieties: v, Preferences: p, AuthMW: authMW, RDB: rdb}
}

func (m *GardenModule) Mount(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(m.AuthMW)
	auth.Use(middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.GET("/allotment", m.Allotments.Get)
		auth.PUT("/allotment", m.Allotments.Upsert)

		auth.GET("/active-varieties", m.Varieties.ListActive)
		auth.PUT("/active-varieties/:varietyID", m.Varieties.Activate)
		auth.DELETE("/active-varieties/:varietyID", m.Varieties.Deactivate)

		auth.GET("/preferences", m.Preferences.Get)
		auth.PUT("/preferences", m.Preferences.Update)
		auth.GET("/tasks/weekly", m.Preferences.WeeklyTasks)
	}
}

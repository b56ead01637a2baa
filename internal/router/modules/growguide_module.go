package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/LewisCM14/allotment-sub001/internal/interface/http"
	"github.com/LewisCM14/allotment-sub001/internal/interface/middleware"
)

// GrowGuideModule wires the reference-data routes. The grow guide is
// shared read-only data, so the routes are public behind an IP limiter.
type GrowGuideModule struct {
	Handler *handlers.GrowGuideHandler
	RDB     *redis.Client
}

func NewGrowGuideModule(h *handlers.GrowGuideHandler, rdb *redis.Client) *GrowGuideModule {
	return &GrowGuideModule{Handler: h, RDB: rdb}
}

func (m *GrowGuideModule) Mount(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIPAndPath())

	guide := rg.Group("/grow-guides", rl)
	{
		guide.GET("/botanical-groups", m.Handler.ListBotanicalGroups)
		guide.GET("/families/:id", m.Handler.GetFamily)
		guide.GET("/varieties", m.Handler.ListVarieties)
		guide.GET("/varieties/:id", m.Handler.GetVariety)
		guide.GET("/search", m.Handler.Search)
	}
}

package router

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/LewisCM14/allotment-sub001/config"
	"github.com/LewisCM14/allotment-sub001/internal/application"
	pginfra "github.com/LewisCM14/allotment-sub001/internal/infrastructure/postgres"
	handlers "github.com/LewisCM14/allotment-sub001/internal/interface/http"
	"github.com/LewisCM14/allotment-sub001/internal/interface/middleware"
	"github.com/LewisCM14/allotment-sub001/internal/router/modules"
	"github.com/LewisCM14/allotment-sub001/internal/tokens"
	"github.com/LewisCM14/allotment-sub001/pkg/helpers"
)

// Deps carries everything the modules need. All wiring is explicit: the
// caller constructs the shared clients once and hands them in.
type Deps struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	DB     *pgxpool.Pool
	RDB    *redis.Client
	Pub    *helpers.RabbitPublisher
	Codec  *tokens.Codec
	ES     *elasticsearch.Client
}

// InitModules builds the repository/service/handler graph and registers
// every feature module with the registry.
func InitModules(r *Registry, d Deps) {
	users := pginfra.NewUserRepository(d.DB)
	allotments := pginfra.NewAllotmentRepository(d.DB)
	growGuide := pginfra.NewGrowGuideRepository(d.DB)
	varieties := pginfra.NewActiveVarietyRepository(d.DB)
	preferences := pginfra.NewPreferenceRepository(d.DB)

	uow := pginfra.NewManager(d.DB, d.Logger, d.Cfg.SlowOpThreshold)

	authSvc := application.NewAuthService(users, d.Codec, d.Logger)
	userSvc := application.NewUserService(uow, users, authSvc, d.Codec, d.Pub, d.RDB, d.Cfg, d.Logger)
	allotmentSvc := application.NewAllotmentService(uow, allotments)
	growGuideSvc := application.NewGrowGuideService(growGuide, d.ES, d.Cfg.ESVarietiesIndex, d.Logger)
	varietySvc := application.NewVarietyService(uow, varieties, d.RDB)
	preferenceSvc := application.NewPreferenceService(uow, preferences, d.RDB)
	taskSvc := application.NewTaskService(varieties, preferences, d.RDB)

	authMW := middleware.Auth(authSvc)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, d.Logger), d.RDB))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, d.Logger), authMW, d.RDB))
	r.Add(modules.NewGrowGuideModule(handlers.NewGrowGuideHandler(growGuideSvc), d.RDB))
	r.Add(modules.NewGardenModule(
		handlers.NewAllotmentHandler(allotmentSvc),
		handlers.NewVarietyHandler(varietySvc),
		handlers.NewPreferenceHandler(preferenceSvc, taskSvc),
		authMW,
		d.RDB,
	))
	r.Add(modules.NewDebugModule(d.RDB))

	r.Engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

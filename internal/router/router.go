package router

import (
	"time"

	"github.com/FedyaB/restapi-server-spbstu/internal/config"
	"github.com/FedyaB/restapi-server-spbstu/internal/handler"
	"github.com/FedyaB/restapi-server-spbstu/internal/mapper"
	"github.com/FedyaB/restapi-server-spbstu/internal/middleware"
	"github.com/FedyaB/restapi-server-spbstu/internal/repository"
	"github.com/FedyaB/restapi-server-spbstu/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DocStore/DB
// rdb may be nil, in which case rate-limit counters stay in memory.
func New(cfg *config.Config, repo repository.EmployeeRepository, rdb *redis.Client) *gin.Engine {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(middleware.NewLimiter(rdb, "ratelimit:api", time.Minute), cfg.APIRateLimit))

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(repo, cfg)
	employeeSvc := service.NewEmployeeService(repo, authSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	employeesH := handler.NewEmployeesHandler(employeeSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	required := middleware.AuthRequired(authSvc)
	optional := middleware.AuthOptional(authSvc)

	r.GET("/", optional, handler.Index)
	r.GET("/health", handler.Health(repo, rdb))

	employees := r.Group(mapper.EmployeesRoute)
	{
		employees.GET("", employeesH.List)
		employees.POST("", employeesH.Create)
		employees.GET("/:id", employeesH.Get)
		employees.PUT("/:id", required, employeesH.Update)
		employees.DELETE("/:id", required, employeesH.Delete)
	}

	loginLimiter := middleware.NewLimiter(rdb, "ratelimit:login", time.Minute)
	r.POST("/users/login", middleware.RateLimiter(loginLimiter, cfg.LoginRateLimit), authH.Login)

	// Swagger UI, only outside production
	if !cfg.Production() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.NoRoute(handler.NotFound)

	return r
}

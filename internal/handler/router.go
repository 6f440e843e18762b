package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/classroom-client/api/swagger"
	"github.com/noah-isme/classroom-client/internal/middleware"
	"github.com/noah-isme/classroom-client/internal/service"
	"github.com/noah-isme/classroom-client/pkg/logger"
	corsmiddleware "github.com/noah-isme/classroom-client/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/classroom-client/pkg/middleware/requestid"
)

// RouterConfig carries everything the bridge router mounts.
type RouterConfig struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool

	Logger   *zap.Logger
	Metrics  *service.MetricsService
	Session  *service.Session
	Sessions *SessionHandler
	Rooms    *ClassroomHandler
	Profile  *ProfileHandler
}

// NewRouter builds the presentation bridge.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics, "/metrics", "/health"))

	// a nil *service.Session must not become a non-nil interface
	var session sessionChecker
	if cfg.Session != nil {
		session = cfg.Session
	}

	metricsHandler := NewMetricsHandler(cfg.Metrics, session)
	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix, middleware.WithResponseMeta())

	sessionRoutes := api.Group("/session")
	sessionRoutes.POST("", cfg.Sessions.Login)
	sessionRoutes.GET("", cfg.Sessions.Status)
	sessionRoutes.DELETE("", cfg.Sessions.Logout)

	classrooms := api.Group("/classrooms")
	classrooms.GET("", cfg.Rooms.List)
	classrooms.POST("", cfg.Rooms.Join)
	classrooms.DELETE("", cfg.Rooms.Remove)
	classrooms.DELETE("/:id", cfg.Rooms.Remove)

	remote := classrooms.Group("/:id", middleware.RequireSession(session))
	remote.GET("", cfg.Rooms.Get)
	remote.GET("/assignments", cfg.Rooms.Assignments)
	remote.GET("/materials", cfg.Rooms.Materials)

	profile := api.Group("/profile")
	profile.GET("", cfg.Profile.Get)
	profile.PUT("", cfg.Profile.Update)
	profile.PUT("/theme", cfg.Profile.SetTheme)

	return r
}

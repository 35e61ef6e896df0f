package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/handler"
	"github.com/noah-isme/school-records-api/internal/middleware"
	"github.com/noah-isme/school-records-api/pkg/config"
	"github.com/noah-isme/school-records-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-records-api/pkg/middleware/requestid"
)

// Registrar mounts a resource's routes on its group.
type Registrar interface {
	Register(group gin.IRoutes)
}

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Metrics *handler.MetricsHandler

	Roles           Registrar
	Grades          Registrar
	Subjects        Registrar
	Users           Registrar
	Students        Registrar
	Teachers        Registrar
	GradeRecords    Registrar
	TeacherSubjects Registrar
	TeacherGrades   Registrar
	GradeSubjects   Registrar
	Assignments     Registrar
}

func (h *Handlers) resources() map[string]Registrar {
	return map[string]Registrar{
		"/roles":                    h.Roles,
		"/grades":                   h.Grades,
		"/subjects":                 h.Subjects,
		"/users":                    h.Users,
		"/students":                 h.Students,
		"/teachers":                 h.Teachers,
		"/grade-records":            h.GradeRecords,
		"/teacher-subjects":         h.TeacherSubjects,
		"/teacher-grades":           h.TeacherGrades,
		"/grade-subjects":           h.GradeSubjects,
		"/student-teacher-subjects": h.Assignments,
	}
}

// Setup configures the engine: global middleware, probes, docs and the
// resource groups under cfg.APIPrefix. tokens may be nil only when auth is
// disabled; requests is optional.
func Setup(cfg *config.Config, logr *zap.Logger, handlers *Handlers, tokens middleware.TokenValidator, requests middleware.RequestObserver) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled && requests != nil {
		r.Use(middleware.Metrics(requests))
	}

	if handlers.Metrics != nil {
		r.GET("/health", handlers.Metrics.Health)
		r.GET("/ready", handlers.Metrics.Ready)
		if cfg.Metrics.Enabled {
			r.GET("/metrics", handlers.Metrics.Prometheus)
		}
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	if handlers.Auth != nil && tokens != nil {
		auth := api.Group("/auth")
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/logout", middleware.JWT(tokens), handlers.Auth.Logout)
		auth.GET("/me", middleware.JWT(tokens), handlers.Auth.Me)
	}

	resources := api.Group("")
	switch {
	case cfg.Auth.Enabled:
		resources.Use(middleware.JWT(tokens), middleware.RequireWriteRoles(cfg.Auth.WriteRoles...))
	case tokens != nil:
		resources.Use(middleware.OptionalJWT(tokens))
	}
	for path, h := range handlers.resources() {
		if h == nil {
			continue
		}
		h.Register(resources.Group(path))
	}

	return r
}

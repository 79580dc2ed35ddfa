package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/maintain_ai/backend/internal/config"
	"github.com/maintain_ai/backend/internal/db"
	"github.com/maintain_ai/backend/internal/geocode"
	"github.com/maintain_ai/backend/internal/http/handlers"
	"github.com/maintain_ai/backend/internal/http/middleware"
	"github.com/maintain_ai/backend/internal/metrics"
	"github.com/maintain_ai/backend/internal/ratelimit"
	"github.com/maintain_ai/backend/internal/service"

	_ "github.com/maintain_ai/backend/docs"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Store    *db.Store
	Issues   *service.IssueService
	Geocoder geocode.Geocoder
	Limiter  ratelimit.Limiter
	Metrics  *metrics.Metrics
	// Gatherer backs /metrics; nil serves the default registry.
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

func Router(cfg config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	origins := cfg.CORSOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = origins
	}
	r.Use(cors.New(corsCfg))

	limiter := deps.Limiter
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	h := &handlers.Handler{
		Store:     deps.Store,
		Issues:    deps.Issues,
		Geocoder:  deps.Geocoder,
		Metrics:   deps.Metrics,
		Validator: validator.New(),
		Logger:    deps.Logger,
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.Use(middleware.Timeout(cfg.RequestTimeout))
	api.Use(middleware.BodyLimit(cfg.MaxUploadSizeMB << 20))
	api.Use(middleware.Identity(cfg.AuthJWTSecret))
	{
		api.GET("/issues", h.IssuesList)
		api.GET("/issues/nearby", h.IssuesNearby)
		api.GET("/issues/:id", h.IssueDetails)
		api.GET("/issues/:id/comments", h.CommentsList)
		api.GET("/technicians", h.TechniciansList)
		api.GET("/technicians/:id", h.TechnicianDetails)
		api.GET("/users/:id", h.UserDetails)
		api.GET("/users/:id/issues", h.UserIssues)
		api.GET("/stats", h.Stats)
		api.GET("/geocode", h.Geocode)
		api.GET("/reverse-geocode", h.ReverseGeocode)
		api.POST("/classify", h.Classify)
		api.POST("/users", h.UserCreate)
	}

	write := api.Group("")
	write.Use(middleware.RequireIdentity(cfg.AuthJWTSecret))
	{
		write.POST("/issues", middleware.ReportRateLimit(limiter, deps.Metrics, deps.Logger), h.IssueCreate)
		write.PATCH("/issues/:id", h.IssueUpdate)
		write.DELETE("/issues/:id", h.IssueDelete)
		write.POST("/issues/:id/upvote", h.IssueUpvote)
		write.POST("/issues/:id/assign", h.IssueAssign)
		write.POST("/issues/:id/comments", h.CommentCreate)
		write.POST("/technicians", h.TechnicianCreate)
		write.PATCH("/technicians/:id", h.TechnicianUpdate)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/reset", h.AdminReset)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

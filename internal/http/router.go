package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/methodgraph-backend/internal/http/handlers"
	httpMW "github.com/yungbote/methodgraph-backend/internal/http/middleware"
	"github.com/yungbote/methodgraph-backend/internal/observability"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	HealthHandler        *httpH.HealthHandler
	MethodHandler        *httpH.MethodHandler
	ConfigurationHandler *httpH.ConfigurationHandler
	ItemHandler          *httpH.ItemHandler
	QuoteHandler         *httpH.QuoteHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, "/healthcheck", "/metrics"))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")

	// Method graph
	if cfg.MethodHandler != nil {
		api.POST("/methods/get-method", cfg.MethodHandler.GetMethod)
		api.GET("/make-methods/:id/tree", cfg.MethodHandler.GetTree)
		api.POST("/make-methods/:id/versions", cfg.MethodHandler.CreateVersion)
		api.POST("/make-methods/:id/activate", cfg.MethodHandler.Activate)
		api.GET("/items/:id/make-methods", cfg.MethodHandler.ListVersions)
		api.POST("/items/:id/make-methods", cfg.MethodHandler.EnsureForItem)
	}

	// Configuration
	if cfg.ConfigurationHandler != nil {
		api.GET("/items/:id/configuration/groups", cfg.ConfigurationHandler.ListGroups)
		api.POST("/items/:id/configuration/groups", cfg.ConfigurationHandler.CreateGroup)
		api.DELETE("/configuration/groups/:id", cfg.ConfigurationHandler.DeleteGroup)
		api.GET("/items/:id/configuration/parameters", cfg.ConfigurationHandler.ListParameters)
		api.POST("/items/:id/configuration/parameters", cfg.ConfigurationHandler.CreateParameter)
		api.DELETE("/configuration/parameters/:id", cfg.ConfigurationHandler.DeleteParameter)
		api.GET("/items/:id/configuration/rules", cfg.ConfigurationHandler.ListRules)
		api.PUT("/items/:id/configuration/rules", cfg.ConfigurationHandler.UpsertRule)
		api.DELETE("/items/:id/configuration/rules", cfg.ConfigurationHandler.DeleteRule)
		api.POST("/items/:id/configuration/resolve", cfg.ConfigurationHandler.Resolve)
	}

	// Items
	if cfg.ItemHandler != nil {
		api.POST("/items", cfg.ItemHandler.CreateItem)
		api.GET("/items", cfg.ItemHandler.ListRevisions)
		api.GET("/items/:id", cfg.ItemHandler.GetItem)
		api.POST("/items/:id/default-revision", cfg.ItemHandler.SetDefaultRevision)
	}

	// Quotes
	if cfg.QuoteHandler != nil {
		api.POST("/quotes", cfg.QuoteHandler.CreateQuote)
		api.POST("/quotes/:id/lines", cfg.QuoteHandler.AddLine)
		api.GET("/quote-lines/:id", cfg.QuoteHandler.GetLine)
	}

	return r
}

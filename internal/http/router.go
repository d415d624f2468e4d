package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/neurobridge-questionbank/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-questionbank/internal/http/middleware"
	"github.com/yungbote/neurobridge-questionbank/internal/observability"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	QuestionBankHandler *httpH.QuestionBankHandler
	HealthHandler       *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")

	// Question bank
	if h := cfg.QuestionBankHandler; h != nil {
		qb := api.Group("/question-bank")
		qb.POST("/preview", h.Preview)
		qb.POST("/import", h.Import)
		qb.GET("/questions", h.List)
		qb.GET("/questions/:id", h.Get)
		qb.PUT("/questions/:id", h.Update)
		qb.DELETE("/questions/:id", h.Delete)
		qb.GET("/random", h.Random)
		qb.POST("/grade", h.Grade)
	}

	return r
}

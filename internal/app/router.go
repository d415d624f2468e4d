package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-questionbank/internal/http"
	"github.com/yungbote/neurobridge-questionbank/internal/observability"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *gin.Engine {
	log.Info("Wiring router...")
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:                 log,
		ServiceName:         serviceName,
		CORSOrigins:         cfg.CORSOrigins,
		Metrics:             metrics,
		QuestionBankHandler: handlers.QuestionBank,
		HealthHandler:       handlers.Health,
	})
}

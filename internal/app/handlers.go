package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/neurobridge-questionbank/internal/http/handlers"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/logger"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	QuestionBank *httpH.QuestionBankHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		QuestionBank: httpH.NewQuestionBankHandlerWithDeps(httpH.QuestionBankHandlerDeps{
			Log:     log,
			Service: services.QuestionBank,
		}),
	}
}

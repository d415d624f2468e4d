package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-questionbank/internal/modules/quizimport"
	"github.com/yungbote/neurobridge-questionbank/internal/observability"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/logger"
	"github.com/yungbote/neurobridge-questionbank/internal/services"
)

type Services struct {
	QuestionBank services.QuestionBankService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	qbCfg := cfg.QuestionBank
	qbCfg.Metrics = metrics
	return Services{
		QuestionBank: services.NewQuestionBankService(
			db,
			log,
			repos.Question,
			clients.PreviewCache,
			quizimport.NewRenderer(),
			qbCfg,
		),
	}
}

package app

import (
	"gorm.io/gorm"

	quizrepo "github.com/yungbote/neurobridge-questionbank/internal/data/repos/quiz"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/logger"
)

type Repos struct {
	Question quizrepo.QuestionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Question: quizrepo.NewQuestionRepo(db, log),
	}
}

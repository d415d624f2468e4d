package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-questionbank/internal/domain/quiz"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&quiz.Question{},
		&quiz.Option{},
	)
}

func (s *Service) AutoMigrateAll() error {
	if err := AutoMigrateAll(s.db); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	s.log.Info("Database migrated")
	return nil
}

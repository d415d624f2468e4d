package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-questionbank/internal/domain/quiz"
	"github.com/yungbote/neurobridge-questionbank/internal/modules/quizimport/mdquiz"
)

// NewQuestion returns an unsaved two-option question whose first option is
// correct.
func NewQuestion(text string, h quiz.Hierarchy, position int) *quiz.Question {
	return &quiz.Question{
		CourseID:     h.CourseID,
		ModuleID:     h.ModuleID,
		LessonID:     h.LessonID,
		QuestionText: text,
		QuestionType: quiz.TypeMultipleChoice,
		Difficulty:   mdquiz.DifficultyMedium,
		Points:       1,
		Position:     position,
		Source:       quiz.SourceManual,
		Options: []quiz.Option{
			{Key: "A", OptionText: text + " right", IsCorrect: true, Position: 0},
			{Key: "B", OptionText: text + " wrong", Position: 1},
		},
	}
}

func SeedQuestions(tb testing.TB, ctx context.Context, tx *gorm.DB, h quiz.Hierarchy, n int) []*quiz.Question {
	tb.Helper()
	out := make([]*quiz.Question, 0, n)
	for i := 0; i < n; i++ {
		q := NewQuestion(fmt.Sprintf("question %d", i), h, i)
		if err := tx.WithContext(ctx).Create(q).Error; err != nil {
			tb.Fatalf("seed question: %v", err)
		}
		out = append(out, q)
	}
	return out
}

func UUIDPtr() *uuid.UUID {
	id := uuid.New()
	return &id
}

package quiz

import (
	"github.com/google/uuid"
)

type QuestionOutcome struct {
	QuestionID       uuid.UUID   `json:"question_id"`
	SelectedOptionID *uuid.UUID  `json:"selected_option_id,omitempty"`
	Correct          bool        `json:"correct"`
	CorrectOptionIDs []uuid.UUID `json:"correct_option_ids"`
	EarnedPoints     int         `json:"earned_points"`
}

type GradeResult struct {
	Score        float64           `json:"score"`
	Passed       bool              `json:"passed"`
	EarnedPoints int               `json:"earned_points"`
	TotalPoints  int               `json:"total_points"`
	Outcomes     []QuestionOutcome `json:"outcomes"`
}

// Grade scores answers (question id -> chosen option id) against questions.
// Score is the earned share of total points as a percentage; an attempt
// passes when Score >= passingScore.
func Grade(questions []*Question, answers map[uuid.UUID]uuid.UUID, passingScore float64) (*GradeResult, error) {
	if passingScore < 0 || passingScore > 100 {
		return nil, invalid("passing_score", "must be between 0 and 100, got %v", passingScore)
	}

	res := &GradeResult{Outcomes: make([]QuestionOutcome, 0, len(questions))}
	for _, q := range questions {
		if q == nil {
			continue
		}
		res.TotalPoints += q.Points
		out := QuestionOutcome{QuestionID: q.ID, CorrectOptionIDs: q.CorrectOptionIDs()}
		if chosen, ok := answers[q.ID]; ok {
			sel := chosen
			out.SelectedOptionID = &sel
			for _, o := range q.Options {
				if o.ID == chosen && o.IsCorrect {
					out.Correct = true
					out.EarnedPoints = q.Points
					break
				}
			}
		}
		res.EarnedPoints += out.EarnedPoints
		res.Outcomes = append(res.Outcomes, out)
	}
	if res.TotalPoints > 0 {
		res.Score = float64(res.EarnedPoints) / float64(res.TotalPoints) * 100
	}
	res.Passed = res.Score >= passingScore
	return res, nil
}

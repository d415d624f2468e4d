package quiz

import (
	"strings"

	"github.com/yungbote/neurobridge-questionbank/internal/modules/quizimport/mdquiz"
)

var trueFalsePairs = map[string]string{
	"verdadeiro": "falso",
	"true":       "false",
	"certo":      "errado",
}

// FromParsed builds an unsaved question from a parser record. Options without
// a source label get positional keys (A, B, ...) here, after the parser has
// already reconciled the gabarito. points <= 0 falls back to DefaultPoints.
func FromParsed(p mdquiz.ParsedQuestion, h Hierarchy, position, points int) *Question {
	if points <= 0 {
		points = DefaultPoints
	}
	difficulty := p.Difficulty
	if difficulty == "" {
		difficulty = mdquiz.DifficultyMedium
	}
	q := &Question{
		CourseID:      h.CourseID,
		ModuleID:      h.ModuleID,
		LessonID:      h.LessonID,
		QuestionText:  p.QuestionText,
		QuestionType:  TypeMultipleChoice,
		Difficulty:    difficulty,
		Points:        points,
		Position:      position,
		Gabarito:      p.Gabarito,
		Justification: p.Justificativa,
		Options:       make([]Option, 0, len(p.Options)),
	}
	for i, o := range p.Options {
		key := o.Key
		if key == "" {
			key = mdquiz.PositionalKey(i)
		}
		q.Options = append(q.Options, Option{
			Key:        key,
			OptionText: o.OptionText,
			IsCorrect:  o.IsCorrect,
			Position:   i,
		})
	}
	if isTrueFalse(q.Options) {
		q.QuestionType = TypeTrueFalse
	}
	return q
}

func isTrueFalse(opts []Option) bool {
	if len(opts) != 2 {
		return false
	}
	a := strings.ToLower(strings.TrimSpace(opts[0].OptionText))
	b := strings.ToLower(strings.TrimSpace(opts[1].OptionText))
	for t, f := range trueFalsePairs {
		if (a == t && b == f) || (a == f && b == t) {
			return true
		}
	}
	return false
}

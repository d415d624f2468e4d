package quiz

import (
	"fmt"
	"strings"
)

const (
	MinOptions    = 2
	DefaultPoints = 1
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate reports the first rule the question breaks.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return invalid("question_text", "must not be empty")
	}
	if q.Points <= 0 {
		return invalid("points", "must be greater than zero, got %d", q.Points)
	}
	if !q.Difficulty.Valid() {
		return invalid("difficulty", "unknown value %q", q.Difficulty)
	}
	switch q.QuestionType {
	case TypeMultipleChoice:
	case TypeTrueFalse:
		if len(q.Options) != 2 {
			return invalid("options", "true/false questions need exactly 2 options, got %d", len(q.Options))
		}
	default:
		return invalid("question_type", "unknown value %q", q.QuestionType)
	}
	if len(q.Options) < MinOptions {
		return invalid("options", "need at least %d options, got %d", MinOptions, len(q.Options))
	}
	correct := 0
	for i, o := range q.Options {
		if strings.TrimSpace(o.OptionText) == "" {
			return invalid("options", "option %d has no text", i)
		}
		if o.IsCorrect {
			correct++
		}
	}
	if correct == 0 {
		return invalid("options", "no option is marked correct")
	}
	return nil
}

package mdquiz

import (
	"strconv"
	"strings"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps a free-text difficulty value ("Fácil", "hard", "Médio", ...)
// onto the three supported levels. Anything unrecognised is medium.
func ParseDifficulty(raw string) Difficulty {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(v, "fácil"), strings.Contains(v, "facil"), strings.Contains(v, "easy"):
		return DifficultyEasy
	case strings.Contains(v, "difícil"), strings.Contains(v, "dificil"), strings.Contains(v, "hard"):
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

type ParsedOption struct {
	Key        string `json:"key" yaml:"key"`
	OptionText string `json:"optionText" yaml:"optionText"`
	IsCorrect  bool   `json:"isCorrect" yaml:"isCorrect"`
}

type ParsedQuestion struct {
	QuestionText  string         `json:"questionText" yaml:"questionText"`
	Options       []ParsedOption `json:"options" yaml:"options"`
	Gabarito      string         `json:"gabarito" yaml:"gabarito"`
	Justificativa string         `json:"justificativa" yaml:"justificativa"`
	Difficulty    Difficulty     `json:"difficulty" yaml:"difficulty"`
}

// CorrectCount reports how many options are flagged correct.
func (q ParsedQuestion) CorrectCount() int {
	n := 0
	for _, o := range q.Options {
		if o.IsCorrect {
			n++
		}
	}
	return n
}

// PositionalKey returns the fallback letter for the option at index i
// (A, B, C, ...). Past Z it falls back to the 1-based number.
func PositionalKey(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}

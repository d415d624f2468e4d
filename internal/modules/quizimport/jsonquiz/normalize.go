// Package jsonquiz normalizes JSON question exports whose field names drift
// between Portuguese and English spellings into mdquiz records.
package jsonquiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yungbote/neurobridge-questionbank/internal/modules/quizimport/mdquiz"
)

var ErrUnsupportedShape = errors.New("jsonquiz: expected an array of questions or an object with a questions array")

var (
	textKeys          = []string{"questionText", "enunciado", "pergunta", "texto", "prompt", "question"}
	optionsKeys       = []string{"options", "alternativas", "opcoes", "choices", "respostas", "answers"}
	gabaritoKeys      = []string{"gabarito", "resposta", "respostaCorreta", "correct", "correct_option", "correctAnswerIndex"}
	justificationKeys = []string{"justificativa", "explicacao", "explicação", "feedback", "reason", "justification"}
	difficultyKeys    = []string{"difficulty", "dificuldade"}

	optionTextKeys    = []string{"optionText", "text", "texto"}
	optionCorrectKeys = []string{"isCorrect", "is_correct", "correta"}
	optionKeyKeys     = []string{"key", "letter"}
)

// Normalize decodes raw and returns the questions that have text and at least
// two non-empty options, in input order.
func Normalize(raw []byte) ([]mdquiz.ParsedQuestion, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode question json: %w", err)
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		list, ok := firstValue(v, "questions", "questoes", "questões").([]any)
		if !ok {
			return nil, ErrUnsupportedShape
		}
		items = list
	default:
		return nil, ErrUnsupportedShape
	}

	out := make([]mdquiz.ParsedQuestion, 0, len(items))
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		if q, ok := normalizeQuestion(obj); ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func normalizeQuestion(obj map[string]any) (mdquiz.ParsedQuestion, bool) {
	text := strings.TrimSpace(stringOf(firstValue(obj, textKeys...)))
	justification := strings.TrimSpace(stringOf(firstValue(obj, justificationKeys...)))
	if text != "" && justification != "" {
		text += "\n\n> **Justificativa:** " + justification
	}

	gabarito := strings.TrimSpace(stringOf(firstValue(obj, gabaritoKeys...)))
	options := normalizeOptions(firstValue(obj, optionsKeys...), strings.ToUpper(gabarito))

	difficulty := mdquiz.DifficultyMedium
	if raw := stringOf(firstValue(obj, difficultyKeys...)); raw != "" {
		difficulty = mdquiz.ParseDifficulty(raw)
	}

	if text == "" || len(options) < 2 {
		return mdquiz.ParsedQuestion{}, false
	}
	return mdquiz.ParsedQuestion{
		QuestionText:  text,
		Options:       options,
		Gabarito:      gabarito,
		Justificativa: justification,
		Difficulty:    difficulty,
	}, true
}

type rawOption struct {
	key     string
	text    string
	correct bool
}

func normalizeOptions(raw any, gabarito string) []mdquiz.ParsedOption {
	var opts []rawOption
	switch v := raw.(type) {
	case []any:
		for _, o := range v {
			switch ov := o.(type) {
			case string:
				opts = append(opts, rawOption{text: ov})
			case map[string]any:
				opts = append(opts, rawOption{
					key:     stringOf(firstValue(ov, optionKeyKeys...)),
					text:    stringOf(firstValue(ov, optionTextKeys...)),
					correct: boolOf(firstValue(ov, optionCorrectKeys...)),
				})
			}
		}
	case map[string]any:
		// object form {"a": "...", "b": "..."}; JSON objects carry no order, so keys sort
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			opts = append(opts, rawOption{key: k, text: stringOf(v[k])})
		}
	}

	out := make([]mdquiz.ParsedOption, 0, len(opts))
	for idx, o := range opts {
		text := strings.TrimSpace(o.text)
		if text == "" {
			continue
		}
		correct := o.correct
		if gabarito != "" {
			key := strings.ToUpper(strings.TrimSpace(o.key))
			if key == gabarito ||
				mdquiz.PositionalKey(idx) == gabarito ||
				strconv.Itoa(idx) == gabarito ||
				strings.ToUpper(text) == gabarito {
				correct = true
			}
		}
		out = append(out, mdquiz.ParsedOption{
			Key:        strings.TrimSpace(o.key),
			OptionText: text,
			IsCorrect:  correct,
		})
	}
	return out
}

func firstValue(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func stringOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func boolOf(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	case float64:
		return t != 0
	default:
		return false
	}
}

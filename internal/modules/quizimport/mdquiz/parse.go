// Package mdquiz turns loosely structured, LLM-authored markdown into
// multiple-choice question records.
//
// Parsing happens in two phases. The input is first cut into blocks at
// question headings ("### Questão 2", "## Question 3") and numbered starts
// ("4)", "5."). Each block is then scanned line by line by a small state
// machine that collects topic, context, question text, options, answer key
// (gabarito), justification and difficulty.
//
// Malformed blocks are never an error: a block without text or with fewer
// than two options is silently dropped.
package mdquiz

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var ErrInvalidArgument = errors.New("mdquiz: invalid argument")

// Parse converts markdown into questions in source order. It has no side
// effects and is safe for concurrent use.
func Parse(markdown string) []ParsedQuestion {
	questions := make([]ParsedQuestion, 0)
	for _, block := range splitBlocks(markdown) {
		b := newBlockBuilder()
		for _, line := range strings.Split(block, "\n") {
			b.feed(line)
		}
		if q, ok := b.build(); ok {
			questions = append(questions, q)
		}
	}
	return questions
}

// ParseReader reads the whole stream and parses it. A nil reader or content
// that is not valid UTF-8 is rejected with ErrInvalidArgument.
func ParseReader(r io.Reader) ([]ParsedQuestion, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", ErrInvalidArgument)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: markdown is not valid UTF-8", ErrInvalidArgument)
	}
	return Parse(string(raw)), nil
}

// splitBlocks cuts the input before every question delimiter line. The
// delimiter stays with the block it opens.
func splitBlocks(markdown string) []string {
	lines := strings.Split(markdown, "\n")
	blocks := make([]string, 0)
	start := 0
	flush := func(end int) {
		block := strings.Join(lines[start:end], "\n")
		if strings.TrimSpace(block) != "" {
			blocks = append(blocks, block)
		}
		start = end
	}
	for i := 1; i < len(lines); i++ {
		if blockStartRe.MatchString(strings.TrimLeft(lines[i], " \t\r")) {
			flush(i)
		}
	}
	flush(len(lines))
	return blocks
}

func (b *blockBuilder) build() (ParsedQuestion, bool) {
	var sb strings.Builder
	if b.topic != "" {
		sb.WriteString("**Tópico:** ")
		sb.WriteString(b.topic)
		sb.WriteString("\n\n")
	}
	if ctx := strings.TrimSpace(b.context.String()); ctx != "" {
		sb.WriteString("**Contexto:** ")
		sb.WriteString(ctx)
		sb.WriteString("\n\n")
	}
	sb.WriteString(strings.TrimSpace(b.question.String()))
	justification := strings.TrimSpace(b.justification.String())
	if justification != "" {
		sb.WriteString("\n\n> **Justificativa:** ")
		sb.WriteString(justification)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" || len(b.options) < 2 {
		return ParsedQuestion{}, false
	}

	reconcileGabarito(b.options, b.gabarito)
	return ParsedQuestion{
		QuestionText:  text,
		Options:       b.options,
		Gabarito:      b.gabarito,
		Justificativa: justification,
		Difficulty:    b.difficulty,
	}, true
}

// reconcileGabarito flags the options matching the answer key. It only ever
// sets IsCorrect; inline [x] markers are never cleared.
func reconcileGabarito(options []ParsedOption, gabarito string) {
	if gabarito == "" {
		return
	}
	want := NormalizeKey(gabarito)
	for i := range options {
		key := NormalizeKey(options[i].Key)
		if key == "" {
			key = PositionalKey(i)
		}
		if key == want || strings.HasPrefix(options[i].OptionText, gabarito+")") {
			options[i].IsCorrect = true
		}
	}
}

// NormalizeKey drops everything but ASCII letters and digits and upper-cases
// the rest, so "b)", "**B**" and " B " all compare equal.
func NormalizeKey(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			sb.WriteByte(c - 'a' + 'A')
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

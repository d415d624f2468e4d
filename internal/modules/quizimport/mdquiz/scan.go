package mdquiz

import (
	"strings"
)

type section int

const (
	sectionHeader section = iota
	sectionContext
	sectionQuestion
	sectionOptions
	sectionJustification
)

func (s section) String() string {
	switch s {
	case sectionHeader:
		return "header"
	case sectionContext:
		return "context"
	case sectionQuestion:
		return "question"
	case sectionOptions:
		return "options"
	case sectionJustification:
		return "justification"
	default:
		return "unknown"
	}
}

// blockBuilder accumulates one question block. It is flushed once by build.
type blockBuilder struct {
	section       section
	topic         string
	context       strings.Builder
	question      strings.Builder
	justification strings.Builder
	options       []ParsedOption
	gabarito      string
	difficulty    Difficulty
}

func newBlockBuilder() *blockBuilder {
	return &blockBuilder{section: sectionHeader, difficulty: DifficultyMedium}
}

// scanLine is one trimmed source line plus its variant with a single pair of
// surrounding bold markers removed, used for the plain metadata fallbacks.
type scanLine struct {
	text  string
	plain string
}

func newScanLine(raw string) scanLine {
	text := strings.TrimSpace(raw)
	plain := strings.TrimPrefix(text, "**")
	plain = strings.TrimSuffix(plain, "**")
	return scanLine{text: text, plain: strings.TrimSpace(plain)}
}

// lineRule reports whether it consumed the line.
type lineRule func(b *blockBuilder, ln scanLine) bool

// lineRules is tried top to bottom; the first rule that consumes a line wins.
// Lines no rule consumes go to the continuation registered for the current
// section.
var lineRules = []lineRule{
	ruleBlank,
	ruleThematicBreak,
	ruleHeaderTopic,
	ruleTopic,
	ruleContextStart,
	ruleQuestionStart,
	ruleBlockquote,
	ruleBoldGabarito,
	ruleBoldJustification,
	rulePlainGabarito,
	rulePlainJustification,
	ruleDifficulty,
	ruleOption,
}

var continuations = map[section]func(b *blockBuilder, ln scanLine){
	sectionContext:       continueContext,
	sectionJustification: continueJustification,
	sectionOptions:       func(*blockBuilder, scanLine) {},
}

func (b *blockBuilder) feed(raw string) {
	ln := newScanLine(raw)
	for _, rule := range lineRules {
		if rule(b, ln) {
			return
		}
	}
	if next, ok := continuations[b.section]; ok {
		next(b, ln)
		return
	}
	continueQuestion(b, ln)
}

func ruleBlank(b *blockBuilder, ln scanLine) bool {
	if ln.text != "" {
		return false
	}
	switch b.section {
	case sectionContext:
		b.context.WriteByte('\n')
	case sectionQuestion:
		b.question.WriteByte('\n')
	}
	return true
}

// Thematic breaks are layout between blocks and never land in the justification.
func ruleThematicBreak(_ *blockBuilder, ln scanLine) bool {
	return thematicBreakRe.MatchString(ln.text)
}

func ruleHeaderTopic(b *blockBuilder, ln scanLine) bool {
	m := headerTopicRe.FindStringSubmatch(ln.text)
	if m == nil {
		return false
	}
	b.topic = strings.TrimSpace(m[1])
	return true
}

// ruleTopic leaves the section alone so a topic line inside a context
// paragraph does not end it.
func ruleTopic(b *blockBuilder, ln scanLine) bool {
	m := topicRe.FindStringSubmatch(ln.text)
	if m == nil {
		return false
	}
	b.topic = strings.TrimSpace(m[1])
	return true
}

func ruleContextStart(b *blockBuilder, ln scanLine) bool {
	m := contextRe.FindStringSubmatch(ln.text)
	if m == nil {
		return false
	}
	b.context.Reset()
	b.context.WriteString(strings.TrimSpace(m[1]))
	b.section = sectionContext
	return true
}

func ruleQuestionStart(b *blockBuilder, ln scanLine) bool {
	m := questionStartRe.FindStringSubmatch(ln.text)
	if m == nil {
		return false
	}
	b.question.Reset()
	b.question.WriteString(strings.TrimSpace(m[1]))
	b.section = sectionQuestion
	return true
}

func ruleBlockquote(b *blockBuilder, ln scanLine) bool {
	m := blockquoteRe.FindStringSubmatch(ln.text)
	if m == nil {
		return false
	}
	content := strings.TrimSpace(m[1])
	if content == "" {
		return true
	}
	if g := quotedGabaritoRe.FindStringSubmatch(content); g != nil {
		b.gabarito = g[1]
		return true
	}
	if j := quotedJustificaRe.FindStringSubmatch(content); j != nil {
		b.setJustification(j[1])
		return true
	}
	if g := gabaritoRe.FindStringSubmatch(content); g != nil {
		b.gabarito = strings.TrimSpace(g[1])
		return true
	}
	if b.section == sectionJustification {
		b.appendJustification(content)
	}
	return true
}

func ruleBoldGabarito(b *blockBuilder, ln scanLine) bool {
	m := boldGabaritoRe.FindStringSubmatch(ln.text)
	if m == nil {
		return false
	}
	b.gabarito = strings.TrimSpace(m[1])
	return true
}

func ruleBoldJustification(b *blockBuilder, ln scanLine) bool {
	m := boldJustificationRe.FindStringSubmatch(ln.text)
	if m == nil {
		return false
	}
	b.setJustification(m[1])
	return true
}

func rulePlainGabarito(b *blockBuilder, ln scanLine) bool {
	m := gabaritoRe.FindStringSubmatch(ln.plain)
	if m == nil {
		return false
	}
	b.gabarito = strings.TrimSpace(m[1])
	return true
}

func rulePlainJustification(b *blockBuilder, ln scanLine) bool {
	m := justificationRe.FindStringSubmatch(ln.plain)
	if m == nil {
		return false
	}
	b.setJustification(m[1])
	return true
}

func ruleDifficulty(b *blockBuilder, ln scanLine) bool {
	m := difficultyRe.FindStringSubmatch(ln.text)
	if m == nil {
		return false
	}
	b.difficulty = ParseDifficulty(m[1])
	return true
}

func ruleOption(b *blockBuilder, ln scanLine) bool {
	var opt ParsedOption
	if m := bracketOptionRe.FindStringSubmatch(ln.text); m != nil {
		opt = ParsedOption{
			Key:        m[2],
			OptionText: cleanOptionText(m[3]),
			IsCorrect:  strings.EqualFold(m[1], "x"),
		}
	} else if m := letterOptionRe.FindStringSubmatch(ln.text); m != nil {
		opt = ParsedOption{Key: m[1], OptionText: cleanOptionText(m[2])}
	} else {
		return false
	}
	b.options = append(b.options, opt)
	b.section = sectionOptions
	return true
}

func continueContext(b *blockBuilder, ln scanLine) {
	b.context.WriteByte('\n')
	b.context.WriteString(ln.text)
}

func continueJustification(b *blockBuilder, ln scanLine) {
	b.appendJustification(ln.text)
}

func continueQuestion(b *blockBuilder, ln scanLine) {
	text := ln.text
	if dataLabelRe.MatchString(ln.plain) {
		return
	}
	if m := headingLabelRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	} else if m := plainLabelRe.FindStringSubmatch(ln.plain); m != nil {
		text = m[1]
	} else {
		text = headingPrefixRe.ReplaceAllString(text, "")
		text = numberedPrefixRe.ReplaceAllString(text, "")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if b.question.Len() > 0 {
		b.question.WriteByte('\n')
	}
	b.question.WriteString(text)
}

func (b *blockBuilder) setJustification(text string) {
	b.justification.Reset()
	b.justification.WriteString(strings.TrimSpace(text))
	b.section = sectionJustification
}

func (b *blockBuilder) appendJustification(text string) {
	b.justification.WriteByte(' ')
	b.justification.WriteString(text)
}

// cleanOptionText trims the option body and strips one layer of quotes plus
// any asterisks left over from bold markers.
func cleanOptionText(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if n := len(s); n > 0 && (s[n-1] == '"' || s[n-1] == '\'') {
		s = s[:n-1]
	}
	return strings.TrimSpace(strings.Trim(s, "* \t"))
}

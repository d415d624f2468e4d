package mdquiz

import "regexp"

const (
	gabaritoKeywords      = `(?:gabarito|resposta correta|resposta|correct answer|correct|answer)`
	justificationKeywords = `(?:justificativa|explicação|explicacao|explanation|feedback|reason)`
)

var (
	// block delimiters: "### Questão", "## Question", "1)", "2."
	blockStartRe = regexp.MustCompile(`(?i)^(?:#{1,3}\s+(?:questão|question)|\d+[).](?:\s|$))`)

	headerTopicRe   = regexp.MustCompile(`(?i)^#{1,3}\s+(?:questão|question)\s+\d+\s*\((?:tópico|topico|topic):\s*(.+)\)`)
	topicRe         = regexp.MustCompile(`(?i)^\*\*(?:tópico|topico|topic):\*\*\s*(.+)$`)
	contextRe       = regexp.MustCompile(`(?i)^\*\*(?:contexto|context):\*\*\s*(.*)$`)
	questionStartRe = regexp.MustCompile(`(?i)^\*\*(?:pergunta|enunciado):\*\*\s*(.*)$`)

	blockquoteRe        = regexp.MustCompile(`^>\s?(.*)$`)
	quotedGabaritoRe    = regexp.MustCompile(`(?i)^\*\*resposta correta:\*\*\s*([A-Z])`)
	quotedJustificaRe   = regexp.MustCompile(`(?i)^(?:\[[^\]]*\])?\*\*justificativa:\*\*\s*(.+)$`)
	boldGabaritoRe      = regexp.MustCompile(`(?i)^\*\*` + gabaritoKeywords + `(?::\*\*|\*\*:)\s*(.+)$`)
	boldJustificationRe = regexp.MustCompile(`(?i)^\*\*` + justificationKeywords + `(?::\*\*|\*\*:)\s*(.+)$`)
	gabaritoRe          = regexp.MustCompile(`(?i)^` + gabaritoKeywords + `:\s*(.+)$`)
	justificationRe     = regexp.MustCompile(`(?i)^` + justificationKeywords + `:\s*(.+)$`)
	difficultyRe        = regexp.MustCompile(`(?i)^(?:\*\*)?(?:dificuldade|difficulty)(?:\*\*)?:(?:\*\*)?\s*(.+)$`)

	// "- [ ] A) text", "[x] text"
	bracketOptionRe = regexp.MustCompile(`^(?:-\s*)?\[([ xX])\]\s*(?:([A-Z])\))?\s*(.*)$`)
	// "A) text", "B. text", "**C)** text"
	letterOptionRe = regexp.MustCompile(`^(?:\*\*)?([A-Z])[).](?:\*\*)?\s*(.*)$`)

	thematicBreakRe = regexp.MustCompile(`^(?:-{3,}|\*{3,}|_{3,})$`)

	// "### Questão 3", "## Question 2: text"; text after the label is kept as question text.
	headingLabelRe = regexp.MustCompile(`(?i)^#{1,6}\s+(?:questão|question)(?:\s+\d+)?(?:\s*[:.\-–)]\s*|\s+|$)(.*)$`)
	// "Questão 3", "Question: text"
	plainLabelRe = regexp.MustCompile(`(?i)^(?:questão|question)\s*(?:\d+\s*[:.\-–)]?|[:.\-–)])\s*(.*)$`)
	dataLabelRe  = regexp.MustCompile(`(?i)^data\s*:`)

	headingPrefixRe  = regexp.MustCompile(`^#{1,6}\s+`)
	numberedPrefixRe = regexp.MustCompile(`^\d+[).]\s+`)
)

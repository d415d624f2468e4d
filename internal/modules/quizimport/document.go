// Package quizimport turns an uploaded question document (markdown with
// optional YAML frontmatter, or a JSON export) into parsed questions plus the
// hierarchy metadata the document carries.
package quizimport

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-questionbank/internal/modules/quizimport/jsonquiz"
	"github.com/yungbote/neurobridge-questionbank/internal/modules/quizimport/mdquiz"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

var ErrUnsupportedFormat = errors.New("quizimport: unsupported format")

// ParseFormat maps a user supplied format name; empty means markdown.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// Meta is the document level metadata taken from markdown frontmatter.
type Meta struct {
	CourseID *uuid.UUID     `json:"course_id,omitempty" yaml:"course_id,omitempty"`
	ModuleID *uuid.UUID     `json:"module_id,omitempty" yaml:"module_id,omitempty"`
	LessonID *uuid.UUID     `json:"lesson_id,omitempty" yaml:"lesson_id,omitempty"`
	Points   int            `json:"points,omitempty" yaml:"points,omitempty"`
	Tags     []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Extras   map[string]any `json:"extras,omitempty" yaml:"extras,omitempty"`
}

type Document struct {
	Format    Format                  `json:"format" yaml:"format"`
	Meta      Meta                    `json:"meta" yaml:"meta"`
	Questions []mdquiz.ParsedQuestion `json:"questions" yaml:"questions"`
}

type frontMatterEnvelope struct {
	CourseID string         `yaml:"course_id"`
	ModuleID string         `yaml:"module_id"`
	LessonID string         `yaml:"lesson_id"`
	Points   int            `yaml:"points"`
	Tags     []string       `yaml:"tags"`
	Custom   map[string]any `yaml:",inline"`
}

// Decode parses content according to format. Markdown without frontmatter is
// accepted as is.
func Decode(format string, content []byte) (*Document, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatJSON:
		questions, err := jsonquiz.Normalize(content)
		if err != nil {
			return nil, err
		}
		return &Document{Format: f, Questions: questions}, nil
	default:
		meta, body, err := ParseFrontMatter(content)
		if err != nil {
			return nil, err
		}
		return &Document{Format: f, Meta: meta, Questions: mdquiz.Parse(string(body))}, nil
	}
}

// ParseFrontMatter splits YAML frontmatter from the markdown body.
func ParseFrontMatter(source []byte) (Meta, []byte, error) {
	var env frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	meta := Meta{Points: env.Points, Tags: env.Tags}
	ids := []struct {
		name string
		raw  string
		dst  **uuid.UUID
	}{
		{"course_id", env.CourseID, &meta.CourseID},
		{"module_id", env.ModuleID, &meta.ModuleID},
		{"lesson_id", env.LessonID, &meta.LessonID},
	}
	for _, id := range ids {
		raw := strings.TrimSpace(id.raw)
		if raw == "" {
			continue
		}
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return Meta{}, nil, fmt.Errorf("parse frontmatter: invalid %s %q: %w", id.name, raw, err)
		}
		*id.dst = &parsed
	}
	if meta.Points < 0 {
		return Meta{}, nil, fmt.Errorf("parse frontmatter: points must be positive, got %d", meta.Points)
	}
	if len(env.Custom) > 0 {
		meta.Extras = make(map[string]any, len(env.Custom))
		for k, v := range env.Custom {
			meta.Extras[k] = stringKeys(v)
		}
	}
	return meta, body, nil
}

// stringKeys converts the map[interface{}]interface{} values the YAML decoder
// produces for nested mappings so the result can be JSON encoded.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = stringKeys(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = stringKeys(val)
		}
		return out
	default:
		return v
	}
}

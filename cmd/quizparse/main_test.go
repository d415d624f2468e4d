package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const sampleMarkdown = `### Questão 1
**Pergunta:** Qual bloco repete?
A) se
B) repita
**Gabarito:** B

### Questão 2
**Pergunta:** Sem gabarito?
A) um
B) dois
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunParsesFilesInOrderAsJSON(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "aula.md", sampleMarkdown)
	js := writeFile(t, dir, "extra.json", `[{"pergunta":"Ok?","alternativas":["sim","não"],"gabarito":"a"}]`)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-input", md, "-input", js, "-workers", "2"}, nil, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, stderr.String())
	}

	var got []fileResult
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, stdout.String())
	}
	if len(got) != 2 || got[0].File != md || got[1].File != js {
		t.Fatalf("results out of order: %+v", got)
	}
	if len(got[0].Document.Questions) != 2 || got[0].Skipped != 1 {
		t.Fatalf("markdown result: %+v", got[0])
	}
	if got[1].Document.Format != "json" || len(got[1].Document.Questions) != 1 {
		t.Fatalf("json result: %+v", got[1])
	}
}

func TestRunYAMLFromStdinToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.yaml")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-format", "yaml", "-output", out}, strings.NewReader(sampleMarkdown), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout should be empty when -output is set")
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var got []map[string]any
	if err := yaml.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, raw)
	}
	if len(got) != 1 || got[0]["file"] != "-" {
		t.Fatalf("unexpected yaml: %v", got)
	}
	if !strings.Contains(string(raw), "questionText:") || !strings.Contains(string(raw), "Qual bloco repete?") {
		t.Fatalf("question text missing:\n%s", raw)
	}
}

func TestRunReportsFailures(t *testing.T) {
	cases := []struct {
		name string
		args []string
		code int
	}{
		{"bad output format", []string{"-format", "xml"}, 2},
		{"unknown flag", []string{"-nope"}, 2},
		{"stdin twice", []string{"-input", "-", "-input", "-"}, 2},
		{"missing file", []string{"-input", filepath.Join(t.TempDir(), "missing.md")}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if got := run(context.Background(), tc.args, strings.NewReader(""), &stdout, &stderr); got != tc.code {
				t.Fatalf("exit: got=%d want=%d stderr=%s", got, tc.code, stderr.String())
			}
		})
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout, stderr bytes.Buffer
	if got := run(ctx, []string{"-input", "-"}, strings.NewReader(sampleMarkdown), &stdout, &stderr); got != 1 {
		t.Fatalf("exit: got=%d", got)
	}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/neurobridge-questionbank/internal/app"
	"github.com/yungbote/neurobridge-questionbank/internal/domain/quiz"
	"github.com/yungbote/neurobridge-questionbank/internal/modules/quizimport"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/logger"
	"github.com/yungbote/neurobridge-questionbank/internal/services"
)

type pathList []string

func (l *pathList) String() string { return strings.Join(*l, ",") }
func (l *pathList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if v == "-" && slices.Contains(*l, "-") {
		return errors.New("stdin (-) may only be given once")
	}
	*l = append(*l, v)
	return nil
}

type options struct {
	inputs  pathList
	format  string
	output  string
	verbose bool
	persist bool
	workers int
}

// fileResult is one input's outcome. Err is set instead of Document when the
// file could not be read or decoded.
type fileResult struct {
	File     string               `json:"file" yaml:"file"`
	Document *quizimport.Document `json:"document,omitempty" yaml:"document,omitempty"`
	Imported int                  `json:"imported,omitempty" yaml:"imported,omitempty"`
	Skipped  int                  `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Err      string               `json:"error,omitempty" yaml:"error,omitempty"`
}

// importer persists a decoded file. It is nil unless -import is set.
type importer func(ctx context.Context, format, content string) (*services.ImportResult, error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("quizparse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.Var(&opts.inputs, "input", "markdown or json file to parse (repeatable, - for stdin)")
	fs.StringVar(&opts.format, "format", "json", "output format: json or yaml")
	fs.StringVar(&opts.output, "output", "", "write output to this path instead of stdout")
	fs.BoolVar(&opts.verbose, "verbose", false, "log per-file progress to stderr")
	fs.BoolVar(&opts.persist, "import", false, "also import valid questions into the configured database")
	fs.IntVar(&opts.workers, "workers", runtime.NumCPU(), "files parsed concurrently")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if len(opts.inputs) == 0 {
		opts.inputs = pathList{"-"}
	}
	opts.format = strings.ToLower(strings.TrimSpace(opts.format))
	if opts.format != "json" && opts.format != "yaml" {
		fmt.Fprintf(stderr, "unsupported -format %q (want json or yaml)\n", opts.format)
		return 2
	}

	log := logger.NewNop()
	if opts.verbose {
		l, err := logger.New("development")
		if err != nil {
			fmt.Fprintf(stderr, "init logger: %v\n", err)
			return 1
		}
		defer l.Sync()
		log = l
	}

	var imp importer
	if opts.persist {
		application, err := app.New(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "init app: %v\n", err)
			return 1
		}
		defer application.Close()
		imp = func(ctx context.Context, format, content string) (*services.ImportResult, error) {
			return application.Services.QuestionBank.Import(ctx, services.ImportRequest{Format: format, Content: content})
		}
	}

	results, err := parseAll(ctx, opts, stdin, log, imp)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	out := stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			fmt.Fprintf(stderr, "create output: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}
	if err := writeResults(out, opts.format, results); err != nil {
		fmt.Fprintf(stderr, "write output: %v\n", err)
		return 1
	}

	for _, r := range results {
		if r.Err != "" {
			return 1
		}
	}
	return 0
}

// parseAll decodes every input concurrently. Per-file failures are recorded
// on the result; only context cancellation aborts the run.
func parseAll(ctx context.Context, opts options, stdin io.Reader, log *logger.Logger, imp importer) ([]fileResult, error) {
	results := make([]fileResult, len(opts.inputs))
	workers := opts.workers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range opts.inputs {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = parseFile(gctx, path, stdin, log, imp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseFile(ctx context.Context, path string, stdin io.Reader, log *logger.Logger, imp importer) fileResult {
	res := fileResult{File: path}
	raw, err := readInput(path, stdin)
	if err != nil {
		res.Err = err.Error()
		log.Warn("read failed", "file", path, "error", err)
		return res
	}

	format := formatFor(path)
	doc, err := quizimport.Decode(format, raw)
	if err != nil {
		res.Err = err.Error()
		log.Warn("decode failed", "file", path, "error", err)
		return res
	}
	res.Document = doc

	if imp != nil {
		ir, err := imp(ctx, format, string(raw))
		if err != nil {
			res.Err = err.Error()
			log.Warn("import failed", "file", path, "error", err)
			return res
		}
		res.Imported = len(ir.Imported)
		res.Skipped = len(ir.Skipped)
	} else {
		for _, q := range doc.Questions {
			if err := quiz.FromParsed(q, quiz.Hierarchy{}, 0, quiz.DefaultPoints).Validate(); err != nil {
				res.Skipped++
			}
		}
	}
	log.Info("parsed", "file", path, "questions", len(doc.Questions), "imported", res.Imported, "skipped", res.Skipped)
	return res
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		if stdin == nil {
			return nil, errors.New("stdin is not available")
		}
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func formatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return string(quizimport.FormatJSON)
	}
	return string(quizimport.FormatMarkdown)
}

func writeResults(w io.Writer, format string, results []fileResult) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

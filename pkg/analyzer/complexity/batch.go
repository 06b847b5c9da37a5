package complexity

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/panbanda/swiftcx/internal/fileproc"
	"github.com/panbanda/swiftcx/pkg/parser"
	"github.com/panbanda/swiftcx/pkg/syntax"
)

// FileInput is one file of a batch. Parse produces the file's syntax tree and
// is called from the task that analyzes it.
type FileInput struct {
	Path  string
	Parse func(ctx context.Context) (*syntax.File, error)
}

// Parsed wraps an already parsed tree as a batch input.
func Parsed(path string, file *syntax.File) FileInput {
	return FileInput{
		Path: path,
		Parse: func(context.Context) (*syntax.File, error) {
			return file, nil
		},
	}
}

// Source wraps in-memory source as a batch input. The task parses it with
// its own parser.
func Source(path string, content []byte) FileInput {
	return FileInput{
		Path: path,
		Parse: func(ctx context.Context) (*syntax.File, error) {
			psr := parser.New()
			defer psr.Close()
			return psr.Parse(ctx, content, path)
		},
	}
}

// ParseFailure reports the file whose parse step failed a batch.
type ParseFailure struct {
	Path string
	Err  error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseFailure) Unwrap() error {
	return e.Err
}

// Outcome is the per-file result of AnalyzeBatchOutcomes. Exactly one of
// Result and Err is meaningful.
type Outcome struct {
	Path   string
	Result ComplexityResult
	Err    error
}

type batchConfig struct {
	workers    int
	onProgress fileproc.ProgressFunc
}

// BatchOption configures a batch run.
type BatchOption func(*batchConfig)

// WithBatchWorkers bounds the number of concurrent tasks (<= 0 uses 2x NumCPU).
func WithBatchWorkers(n int) BatchOption {
	return func(c *batchConfig) {
		c.workers = n
	}
}

// WithProgress registers a callback invoked once per finished file.
func WithProgress(fn func()) BatchOption {
	return func(c *batchConfig) {
		c.onProgress = fn
	}
}

func newBatchConfig(opts []BatchOption) batchConfig {
	var c batchConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// analyzeInput parses and analyzes a single batch input. Each call owns its
// tree, so tasks share no state.
func analyzeInput(ctx context.Context, in FileInput) (ComplexityResult, error) {
	if in.Parse == nil {
		return ComplexityResult{}, &ParseFailure{Path: in.Path, Err: errors.New("no parse step")}
	}
	file, err := in.Parse(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return ComplexityResult{}, err
		}
		return ComplexityResult{}, &ParseFailure{Path: in.Path, Err: err}
	}
	if file == nil {
		return ComplexityResult{}, &ParseFailure{Path: in.Path, Err: errors.New("no syntax tree")}
	}
	return Analyze(file, in.Path), nil
}

// AnalyzeBatch analyzes every input concurrently and returns the results
// sorted by path. The first parse failure cancels the outstanding tasks and
// is returned as a *ParseFailure; partial results are discarded.
func AnalyzeBatch(ctx context.Context, inputs []FileInput, opts ...BatchOption) ([]ComplexityResult, error) {
	cfg := newBatchConfig(opts)

	results, err := fileproc.MapFailFast(ctx, inputs, cfg.workers, analyzeInput, cfg.onProgress)
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].FilePath < results[j].FilePath
	})
	if results == nil {
		results = []ComplexityResult{}
	}
	return results, nil
}

// AnalyzeBatchOutcomes analyzes every input concurrently without stopping at
// failures. Outcomes are sorted by path; failed files carry a *ParseFailure,
// or the context error once ctx is canceled.
func AnalyzeBatchOutcomes(ctx context.Context, inputs []FileInput, opts ...BatchOption) []Outcome {
	cfg := newBatchConfig(opts)

	mapped := fileproc.MapAll(ctx, inputs, cfg.workers, analyzeInput, cfg.onProgress)

	outcomes := make([]Outcome, 0, len(mapped))
	for _, m := range mapped {
		outcomes = append(outcomes, Outcome{Path: m.Item.Path, Result: m.Value, Err: m.Err})
	}
	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].Path < outcomes[j].Path
	})
	return outcomes
}

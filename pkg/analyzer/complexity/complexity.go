// Package complexity computes cyclomatic and cognitive complexity for Swift
// functions.
package complexity

import (
	"context"
	"fmt"
	"os"

	"github.com/panbanda/swiftcx/pkg/parser"
	"github.com/panbanda/swiftcx/pkg/syntax"
)

// Analyze detects the functions of file and scores each one. Results keep
// detection order.
func Analyze(file *syntax.File, path string) ComplexityResult {
	detected := Detect(file)
	functions := make([]FunctionComplexity, 0, len(detected))
	for _, fn := range detected {
		functions = append(functions, FunctionComplexity{
			Name:                 fn.Name,
			Signature:            fn.Signature,
			CyclomaticComplexity: Cyclomatic(fn.Body),
			CognitiveComplexity:  Cognitive(fn.Body),
			Location:             fn.Location,
		})
	}
	return NewResult(path, functions)
}

// Analyzer parses and analyzes Swift files.
type Analyzer struct {
	maxFileSize int64
	workers     int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithMaxFileSize sets the maximum file size to analyze (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// WithWorkers sets the batch worker count (<= 0 uses the default).
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// New creates a new complexity analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFile parses and analyzes a single file.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*ComplexityResult, error) {
	psr := parser.New()
	defer psr.Close()
	return a.analyzeFile(ctx, psr, path)
}

// AnalyzeSource analyzes in-memory source attributed to path.
func (a *Analyzer) AnalyzeSource(ctx context.Context, source []byte, path string) (*ComplexityResult, error) {
	psr := parser.New()
	defer psr.Close()

	file, err := psr.Parse(ctx, source, path)
	if err != nil {
		return nil, err
	}
	result := Analyze(file, path)
	return &result, nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, psr *parser.Parser, path string) (*ComplexityResult, error) {
	if err := a.checkSize(path); err != nil {
		return nil, err
	}

	file, err := psr.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	result := Analyze(file, path)
	return &result, nil
}

func (a *Analyzer) checkSize(path string) error {
	if a.maxFileSize <= 0 {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > a.maxFileSize {
		return fmt.Errorf("file exceeds max size (%d > %d bytes)", info.Size(), a.maxFileSize)
	}
	return nil
}

// Inputs builds batch inputs that parse each path from disk. Every task
// creates and releases its own parser.
func (a *Analyzer) Inputs(paths []string) []FileInput {
	inputs := make([]FileInput, 0, len(paths))
	for _, path := range paths {
		inputs = append(inputs, FileInput{
			Path: path,
			Parse: func(ctx context.Context) (*syntax.File, error) {
				if err := a.checkSize(path); err != nil {
					return nil, err
				}
				psr := parser.New()
				defer psr.Close()
				return psr.ParseFile(ctx, path)
			},
		})
	}
	return inputs
}

// Analyze analyzes paths concurrently. The first failure cancels the
// remaining work and is returned as a *ParseFailure.
func (a *Analyzer) Analyze(ctx context.Context, paths []string, opts ...BatchOption) ([]ComplexityResult, error) {
	return AnalyzeBatch(ctx, a.Inputs(paths), a.batchOptions(opts)...)
}

// AnalyzeAll analyzes paths concurrently and reports a per-file outcome
// instead of stopping at the first failure.
func (a *Analyzer) AnalyzeAll(ctx context.Context, paths []string, opts ...BatchOption) []Outcome {
	return AnalyzeBatchOutcomes(ctx, a.Inputs(paths), a.batchOptions(opts)...)
}

func (a *Analyzer) batchOptions(opts []BatchOption) []BatchOption {
	if a.workers <= 0 {
		return opts
	}
	return append([]BatchOption{WithBatchWorkers(a.workers)}, opts...)
}

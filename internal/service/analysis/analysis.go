package analysis

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/panbanda/swiftcx/internal/cache"
	"github.com/panbanda/swiftcx/internal/fileproc"
	"github.com/panbanda/swiftcx/internal/scanner"
	"github.com/panbanda/swiftcx/pkg/analyzer/complexity"
	"github.com/panbanda/swiftcx/pkg/config"
)

// Service orchestrates file discovery, caching and batch analysis.
type Service struct {
	config *config.Config
	cache  *cache.Cache
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithCache sets the result cache. A nil or disabled cache is never consulted.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = config.LoadOrDefault()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Config returns the service configuration.
func (s *Service) Config() *config.Config {
	return s.config
}

// CollectOptions configures file discovery.
type CollectOptions struct {
	// Recursive overrides the configured recursion when set.
	Recursive *bool
	Exclude   []string
}

// Collect resolves input paths into the Swift files to analyze.
func (s *Service) Collect(paths []string, opts CollectOptions) ([]string, error) {
	scanOpts := []scanner.Option{scanner.WithExcludeRegex(opts.Exclude...)}
	if opts.Recursive != nil {
		scanOpts = append(scanOpts, scanner.WithRecursive(*opts.Recursive))
	}

	sc, err := scanner.NewScanner(s.config, scanOpts...)
	if err != nil {
		return nil, err
	}
	files, err := sc.Collect(paths)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("collected files", "count", len(files))
	return files, nil
}

// ComplexityOptions configures complexity analysis.
type ComplexityOptions struct {
	// KeepGoing reports failed files instead of aborting on the first one.
	KeepGoing  bool
	Workers    int
	OnProgress func()
}

// Report is the outcome of analyzing a set of files. Failures is never nil
// and is only populated with KeepGoing.
type Report struct {
	Results  []complexity.ComplexityResult
	Failures *fileproc.ProcessingErrors
	Cached   int
}

// AnalyzeComplexity runs complexity analysis on files. Without KeepGoing the
// first failure is returned as the error and no results are reported.
func (s *Service) AnalyzeComplexity(ctx context.Context, files []string, opts ComplexityOptions) (*Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = s.config.Analysis.Workers
	}
	batchOpts := []complexity.BatchOption{complexity.WithBatchWorkers(workers)}
	if opts.OnProgress != nil {
		batchOpts = append(batchOpts, complexity.WithProgress(opts.OnProgress))
	}

	report := &Report{Failures: &fileproc.ProcessingErrors{}}
	inputs, contents := s.inputs(files, report, opts.OnProgress)

	if opts.KeepGoing {
		for _, outcome := range complexity.AnalyzeBatchOutcomes(ctx, inputs, batchOpts...) {
			if outcome.Err != nil {
				s.logger.Debug("analysis failed", "path", outcome.Path, "error", outcome.Err)
				report.Failures.Add(outcome.Path, outcome.Err)
				continue
			}
			report.Results = append(report.Results, outcome.Result)
		}
	} else {
		results, err := complexity.AnalyzeBatch(ctx, inputs, batchOpts...)
		if err != nil {
			return nil, err
		}
		report.Results = append(report.Results, results...)
	}

	s.store(report.Results, contents)

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].FilePath < report.Results[j].FilePath
	})
	if report.Results == nil {
		report.Results = []complexity.ComplexityResult{}
	}
	return report, nil
}

// inputs builds batch inputs for files. With the cache enabled, file
// contents are read up front so unchanged files skip parsing entirely.
func (s *Service) inputs(files []string, report *Report, onProgress func()) ([]complexity.FileInput, map[string][]byte) {
	maxSize := s.config.Analysis.MaxFileSize
	az := complexity.New(complexity.WithMaxFileSize(maxSize))
	if !s.cache.Enabled() {
		return az.Inputs(files), nil
	}

	contents := make(map[string][]byte, len(files))
	var misses []string
	inputs := make([]complexity.FileInput, 0, len(files))
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil || (maxSize > 0 && int64(len(content)) > maxSize) {
			// The disk-backed input reports the failure.
			misses = append(misses, path)
			continue
		}
		if result, ok := s.cache.Get(path, content); ok {
			s.logger.Debug("cache hit", "path", path)
			report.Results = append(report.Results, result)
			report.Cached++
			if onProgress != nil {
				onProgress()
			}
			continue
		}
		contents[path] = content
		inputs = append(inputs, complexity.Source(path, content))
	}
	return append(inputs, az.Inputs(misses)...), contents
}

func (s *Service) store(results []complexity.ComplexityResult, contents map[string][]byte) {
	for _, r := range results {
		content, ok := contents[r.FilePath]
		if !ok {
			continue
		}
		if err := s.cache.Put(r.FilePath, content, r); err != nil {
			s.logger.Warn("cache write failed", "path", r.FilePath, "error", err)
		}
	}
}

// AnalyzeSource analyzes in-memory Swift source attributed to name.
func (s *Service) AnalyzeSource(ctx context.Context, source []byte, name string) (*complexity.ComplexityResult, error) {
	return complexity.New().AnalyzeSource(ctx, source, name)
}

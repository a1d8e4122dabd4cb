// Package analysis runs the variable change pipeline over source files and
// commits: parse, extract methods, pair them, map statements, classify
// variables.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/panbanda/varscope/internal/cache"
	"github.com/panbanda/varscope/internal/vcs"
	"github.com/panbanda/varscope/pkg/analyzer/stmtmap"
	"github.com/panbanda/varscope/pkg/analyzer/varchange"
	"github.com/panbanda/varscope/pkg/config"
	"github.com/panbanda/varscope/pkg/extract"
	"github.com/panbanda/varscope/pkg/models"
	"github.com/panbanda/varscope/pkg/parser"
)

var (
	// ErrUnsupportedFile is returned for files that are neither Java nor Go.
	ErrUnsupportedFile = errors.New("unsupported file")
	// ErrLanguageMismatch is returned when the two versions of a diff are in
	// different languages.
	ErrLanguageMismatch = errors.New("before and after are in different languages")
)

// Service orchestrates variable change analysis.
type Service struct {
	config *config.Config
	opener vcs.Opener
	logger *slog.Logger
	cache  *cache.Cache
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithOpener sets the VCS opener (for testing).
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// WithLogger sets the logger passed down to the analyzer.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCache enables result caching keyed by file contents.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
		opener: vcs.DefaultOpener(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the active configuration.
func (s *Service) Config() *config.Config {
	return s.config
}

// Source is one version of a source file.
type Source struct {
	Path    string
	Content []byte
}

// ReadSource reads the file at path.
func ReadSource(path string) (Source, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Source{Path: path, Content: content}, nil
}

// DiffOptions configures the analysis of two versions of a file.
type DiffOptions struct {
	// Method restricts the analysis to the operations matching this name on
	// both sides. Empty analyzes every paired operation.
	Method string
	// Workers overrides analysis.workers when positive.
	Workers int
	// OnProgress is called after each method pair.
	OnProgress func()
}

// AnalyzeFiles analyzes two versions of a file on disk.
func (s *Service) AnalyzeFiles(ctx context.Context, beforePath, afterPath string, opts DiffOptions) (*varchange.Results, error) {
	before, err := ReadSource(beforePath)
	if err != nil {
		return nil, err
	}
	after, err := ReadSource(afterPath)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeSources(ctx, before, after, opts)
}

// AnalyzeSources analyzes two versions of a source file.
func (s *Service) AnalyzeSources(ctx context.Context, before, after Source, opts DiffOptions) (*varchange.Results, error) {
	lang := parser.DetectLanguage(after.Path)
	if lang == parser.LangUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, after.Path)
	}
	if other := parser.DetectLanguage(before.Path); other != lang {
		return nil, fmt.Errorf("%w: %s is %s, %s is %s", ErrLanguageMismatch, before.Path, other, after.Path, lang)
	}

	key := s.cacheKey(before, after, opts.Method)
	var cached varchange.Results
	if s.cache != nil && s.cache.Load(key, &cached) {
		s.logger.Debug("cache hit", "before", before.Path, "after", after.Path)
		return &cached, nil
	}

	beforeOps, err := s.operations(ctx, before, lang)
	if err != nil {
		return nil, err
	}
	afterOps, err := s.operations(ctx, after, lang)
	if err != nil {
		return nil, err
	}

	pairs, err := selectPairs(beforeOps, afterOps, opts.Method)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = s.config.Analysis.Workers
	}
	analyses, err := s.analyzer().AnalyzeAll(ctx, s.inputs(pairs), workers, opts.OnProgress)
	if err != nil {
		return nil, err
	}

	results := varchange.NewResults(title(before.Path, after.Path), analyses)
	if s.cache != nil {
		if err := s.cache.Store(key, results); err != nil {
			s.logger.Warn("caching analysis failed", "error", err)
		}
	}
	return results, nil
}

func title(before, after string) string {
	if before == after {
		return before
	}
	return before + " -> " + after
}

func (s *Service) cacheKey(before, after Source, method string) string {
	cfg := s.config
	return cache.Key(
		"diff",
		before.Path, cache.HashBytes(before.Content),
		after.Path, cache.HashBytes(after.Content),
		method,
		strconv.FormatBool(cfg.Analysis.Compat),
		strconv.FormatFloat(cfg.Analysis.MinUsageSimilarity, 'g', -1, 64),
		strconv.FormatBool(cfg.Mapper.RenameAware),
	)
}

func (s *Service) analyzer() *varchange.Analyzer {
	return varchange.New(
		varchange.WithCompat(s.config.Analysis.Compat),
		varchange.WithMinUsageSimilarity(s.config.Analysis.MinUsageSimilarity),
		varchange.WithLogger(s.logger),
	)
}

func (s *Service) inputs(pairs []extract.Pair) []varchange.Input {
	mapper := stmtmap.New(stmtmap.WithRenameAware(s.config.Mapper.RenameAware))
	inputs := make([]varchange.Input, 0, len(pairs))
	for _, p := range pairs {
		inputs = append(inputs, varchange.Input{
			Before:   p.Before,
			After:    p.After,
			Mappings: mapper.Map(p.Before, p.After).Mappings(),
		})
	}
	return inputs
}

func (s *Service) operations(ctx context.Context, src Source, lang parser.Language) ([]*models.Operation, error) {
	p := parser.New()
	defer p.Close()

	result, err := p.ParseContext(ctx, src.Content, lang, src.Path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src.Path, err)
	}
	if result.HasErrors() {
		s.logger.Warn("source has syntax errors; results may be incomplete", "path", src.Path)
	}

	ops, err := extract.Extract(result)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", src.Path, err)
	}
	return ops, nil
}

func selectPairs(before, after []*models.Operation, method string) ([]extract.Pair, error) {
	if method == "" {
		return extract.PairOperations(before, after), nil
	}
	b, err := extract.FindOperation(before, method)
	if err != nil {
		return nil, fmt.Errorf("before: %w", err)
	}
	a, err := extract.FindOperation(after, method)
	if err != nil {
		return nil, fmt.Errorf("after: %w", err)
	}
	return []extract.Pair{{Before: b, After: a}}, nil
}

// Package scanner runs every handler over a project and gathers the
// language elements they find.
package scanner

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"langscan/internal/collector"
	"langscan/internal/config"
	"langscan/internal/dbscan"
	"langscan/internal/filewalker"
	"langscan/internal/metrics"
	"langscan/internal/progress"
	"langscan/internal/worker"
)

// Option configures a Scanner.
type Option func(*Scanner)

// WithSink reports progress to sink.
func WithSink(sink progress.Sink) Option {
	return func(s *Scanner) { s.sink = sink }
}

// WithMetrics counts into m instead of a private set of counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scanner) { s.metrics = m }
}

// WithConnector reads tables through c instead of opening pgx pools.
func WithConnector(c dbscan.Connector) Option {
	return func(s *Scanner) { s.connector = c }
}

// Scanner extracts language elements from the configured roots and tables.
type Scanner struct {
	cfg       *config.Config
	sink      progress.Sink
	metrics   *metrics.Metrics
	connector dbscan.Connector
	pools     *dbscan.Pools
	files     *filewalker.Cache
	collector *collector.Collector
	ignored   map[string]struct{}
	handlers  []handler

	mu     sync.Mutex
	result *collector.Result
}

// handler scans one kind of source.
type handler interface {
	// name labels the handler in metrics.
	name() string
	// title is the progress line prefix.
	title() string
	run(ctx context.Context, s *Scanner) error
}

// New validates cfg and prepares a scanner. Configuration errors, such as a
// marker with no tokens or an incomplete table, are returned here.
func New(cfg *config.Config, opts ...Option) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if err := filewalker.ValidateRoots(cfg.Roots); err != nil {
		return nil, fmt.Errorf("validate roots: %w", err)
	}
	walker, err := filewalker.NewWalker(cfg.IgnoredItems)
	if err != nil {
		return nil, fmt.Errorf("validate ignored items: %w", err)
	}

	s := &Scanner{
		cfg:     cfg,
		files:   filewalker.NewCache(walker, cfg.Roots),
		ignored: cfg.IgnoredCategorySet(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sink == nil {
		s.sink = progress.Discard{}
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.connector == nil {
		s.pools = dbscan.NewPools(cfg.DSN)
		s.connector = s.pools
	}
	s.collector = collector.New(s.sink)

	js, err := newJavaScriptHandler(cfg.JavaScript.Translators, cfg.JavaScript.Category)
	if err != nil {
		return nil, fmt.Errorf("javascript translators: %w", err)
	}
	php, err := newPHPFunctionHandler(cfg.PHP.Translators, s.ignored)
	if err != nil {
		return nil, fmt.Errorf("php translators: %w", err)
	}
	s.handlers = []handler{
		&dbHandler{reader: dbscan.NewReader(cfg.Database.Tables, cfg.Database.Category, s.connector, s.sink)},
		js,
		&arrayHandler{category: cfg.PHPArray.Category, ignored: s.ignored},
		php,
	}
	return s, nil
}

// Execute runs every handler once and returns the collected elements.
// Later calls return the first result.
func (s *Scanner) Execute(ctx context.Context) (*collector.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return s.result, nil
	}

	for _, h := range s.handlers {
		s.sink.Status("Detect "+h.title()+" - BEGIN", progress.Section)
		if err := h.run(ctx, s); err != nil {
			return nil, fmt.Errorf("run %s handler: %w", h.name(), err)
		}
		s.sink.Status("Detect "+h.title()+" - END", progress.Section)
	}

	s.result = s.collector.Snapshot()
	log.Info().Int("items", s.collector.Len()).Int("categories", len(s.result.Categories)).Msg("Scan completed")
	return s.result, nil
}

// Close releases database connections opened by the scanner.
func (s *Scanner) Close() {
	if s.pools != nil {
		s.pools.Close()
	}
}

// record stores items found by handler, skipping ignored categories.
func (s *Scanner) record(handler string, items []collector.LanguageItem) {
	kept := make([]collector.LanguageItem, 0, len(items))
	for _, item := range items {
		if _, ok := s.ignored[item.Category]; !ok {
			kept = append(kept, item)
		}
	}
	s.metrics.Matches.WithLabelValues(handler).Add(float64(len(kept)))
	s.metrics.ItemsRecorded.Add(float64(s.collector.RecordItems(kept)))
}

// fileResult is what a handler found in one file. Candidate is false when
// the file was skipped before tokenizing.
type fileResult struct {
	candidate bool
	items     []collector.LanguageItem
}

// fileFunc extracts items from the contents of one file. It runs on a
// worker goroutine.
type fileFunc func(src string) fileResult

// scanFiles runs fn over every file matching pattern on the worker pool and
// records the results in file order.
func (s *Scanner) scanFiles(ctx context.Context, h handler, pattern string, fn fileFunc) error {
	if !s.cfg.ScansPattern(pattern) {
		log.Debug().Str("handler", h.name()).Str("pattern", pattern).Msg("Pattern disabled, skipping")
		return nil
	}
	files, err := s.files.Files(pattern)
	if err != nil {
		return fmt.Errorf("find %s files: %w", pattern, err)
	}

	pool := worker.NewPool(s.cfg.WorkerCount, func(_ context.Context, path string) (fileResult, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return fileResult{}, fmt.Errorf("read file: %w", err)
		}
		res := fn(string(data))
		if res.candidate {
			s.metrics.FilesScanned.Inc()
		}
		return res, nil
	})

	for _, task := range pool.Execute(ctx, files) {
		if !task.Done {
			continue
		}
		if task.Err != nil {
			s.metrics.FileErrors.Inc()
			log.Warn().Err(task.Err).Str("file", task.Input).Msg("Skipping unreadable file")
			continue
		}
		if task.Result.candidate {
			s.sink.Status("Extracting messages from "+task.Input, progress.Detail)
		}
		s.record(h.name(), task.Result.items)
	}
	return ctx.Err()
}

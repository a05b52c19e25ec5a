package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"langscan/internal/collector"
	"langscan/internal/config"
	"langscan/internal/graph"
	"langscan/internal/metrics"
	"langscan/internal/progress"
	"langscan/internal/report"
	"langscan/internal/scanner"
	"langscan/internal/store"
)

type scanOptions struct {
	configPath        string
	roots             []string
	patterns          []string
	ignored           []string
	ignoredCategories []string
	workers           int

	list        bool
	lang        string
	jsonPath    string
	tsvPath     string
	sync        bool
	neo4j       bool
	metricsPath string
}

func scanCmd() *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the project and report the language elements found",
		Long: `Walks every root for *.php and *.js files, extracts the literal arguments of
translator calls (Yii::t, lajax.t) and @translate arrays, reads the configured
table columns and prints the number of distinct elements per category.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			ctx, cancel := setupContext()
			defer cancel()
			return runScan(ctx, cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&opts.roots, "root", nil, "Directory to scan (repeatable)")
	f.StringSliceVar(&opts.patterns, "pattern", nil, "File pattern to scan, e.g. *.php (repeatable)")
	f.StringSliceVar(&opts.ignored, "ignore", nil, "Additional file or directory to skip; a leading / anchors it to the root")
	f.StringSliceVar(&opts.ignoredCategories, "ignore-category", nil, "Category whose messages are dropped (repeatable)")
	f.IntVar(&opts.workers, "workers", 0, "Number of files tokenized in parallel")
	f.BoolVar(&opts.list, "list", false, "Print every element instead of the per-category summary")
	f.StringVar(&opts.lang, "lang", "en", "Language used to order categories")
	f.StringVar(&opts.jsonPath, "json", "", "Write the result to a JSON file")
	f.StringVar(&opts.tsvPath, "tsv", "", "Write the result to a TSV file")
	f.BoolVar(&opts.sync, "sync", false, "Insert new elements into the language_source table at DATABASE_URL")
	f.BoolVar(&opts.neo4j, "neo4j", false, "Export the result to Neo4j")
	f.StringVar(&opts.metricsPath, "metrics-file", "", "Write run metrics in Prometheus text format")

	return cmd
}

// apply overrides cfg with the flags that were set.
func (o *scanOptions) apply(cfg *config.Config) {
	if len(o.roots) > 0 {
		cfg.Roots = o.roots
	}
	if len(o.patterns) > 0 {
		cfg.Patterns = o.patterns
	}
	if o.workers > 0 {
		cfg.WorkerCount = o.workers
	}
	cfg.IgnoredItems = append(cfg.IgnoredItems, o.ignored...)
	cfg.IgnoredCategories = append(cfg.IgnoredCategories, o.ignoredCategories...)
}

// runScan handles the `scan` command.
func runScan(ctx context.Context, cmd *cobra.Command, opts *scanOptions) error {
	tag, err := language.Parse(opts.lang)
	if err != nil {
		return fmt.Errorf("parse --lang: %w", err)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(cfg)

	m := metrics.New()
	s, err := scanner.New(cfg,
		scanner.WithSink(progress.NewLogSink(log.Logger)),
		scanner.WithMetrics(m),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	log.Info().Strs("roots", cfg.Roots).Strs("patterns", cfg.Patterns).Int("workers", cfg.WorkerCount).Msg("Starting scan")

	res, err := s.Execute(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.list {
		err = report.Items(out, res, tag)
	} else {
		err = report.Summary(out, res, tag)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if opts.jsonPath != "" {
		if err := store.ExportJSON(res, opts.jsonPath); err != nil {
			return fmt.Errorf("export JSON: %w", err)
		}
	}
	if opts.tsvPath != "" {
		if err := store.ExportTSV(res, opts.tsvPath); err != nil {
			return fmt.Errorf("export TSV: %w", err)
		}
	}
	if opts.sync {
		if err := syncStore(ctx, cfg, res); err != nil {
			return err
		}
	}
	if opts.neo4j {
		if err := exportGraph(ctx, cfg, res); err != nil {
			return err
		}
	}
	if opts.metricsPath != "" {
		if err := m.WriteTextfile(opts.metricsPath); err != nil {
			return err
		}
	}

	return nil
}

func syncStore(ctx context.Context, cfg *config.Config, res *collector.Result) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("--sync requires DATABASE_URL")
	}
	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect PostgreSQL: %w", err)
	}
	defer pgPool.Close()

	if err := pgPool.Ping(ctx); err != nil {
		return fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")

	st := store.New(pgPool)
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}
	if _, err := st.Sync(ctx, res); err != nil {
		return fmt.Errorf("sync language sources: %w", err)
	}
	return nil
}

func exportGraph(ctx context.Context, cfg *config.Config, res *collector.Result) error {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return fmt.Errorf("connect Neo4j: %w", err)
	}
	defer driver.Close(ctx)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("verify Neo4j connectivity: %w", err)
	}
	log.Info().Msg("Connected to Neo4j")

	exporter := graph.NewExporter(driver)
	if err := exporter.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := exporter.Export(ctx, res); err != nil {
		return err
	}

	total, err := exporter.CountMessages(ctx)
	if err != nil {
		return err
	}
	log.Info().Int64("messages", total).Msg("Graph message count")
	return nil
}

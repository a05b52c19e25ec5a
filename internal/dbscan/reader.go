package dbscan

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"langscan/internal/collector"
	"langscan/internal/progress"
)

const maxConcurrentTables = 4

// Reader turns configured table columns into language items.
type Reader struct {
	tables    []Table
	category  string
	connector Connector
	sink      progress.Sink
}

// NewReader creates a reader. category is the default for tables without
// one of their own.
func NewReader(tables []Table, category string, connector Connector, sink progress.Sink) *Reader {
	if sink == nil {
		sink = progress.Discard{}
	}
	return &Reader{
		tables:    tables,
		category:  category,
		connector: connector,
		sink:      sink,
	}
}

// Read fetches every table concurrently and returns the items in table
// configuration order. A table that cannot be read is logged and skipped;
// only cancellation is returned as an error.
func (r *Reader) Read(ctx context.Context) ([]collector.LanguageItem, error) {
	results := make([][]collector.LanguageItem, len(r.tables))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTables)
	for i, t := range r.tables {
		g.Go(func() error {
			items, err := r.readTable(gctx, t)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn().Err(err).Str("table", t.Table).Str("connection", t.Connection).Msg("Skipping table")
				return nil
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}

	var items []collector.LanguageItem
	for _, res := range results {
		items = append(items, res...)
	}
	return items, nil
}

func (r *Reader) readTable(ctx context.Context, t Table) ([]collector.LanguageItem, error) {
	r.sink.Status(fmt.Sprintf("Extracting messages from %s.%s", t.Table, strings.Join(t.Columns, ",")), progress.Plain)

	src, err := r.connector.Source(ctx, t.Connection)
	if err != nil {
		return nil, err
	}
	rows, err := src.ReadColumns(ctx, t.Table, t.Columns)
	if err != nil {
		return nil, err
	}

	category := t.CategoryFor(r.category)
	var items []collector.LanguageItem
	for _, row := range rows {
		for _, value := range row {
			if value = strings.TrimSpace(value); value != "" {
				items = append(items, collector.LanguageItem{Category: category, Message: value})
			}
		}
	}
	return items, nil
}

package dbscan

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Source reads the text values of a table's columns, row by row. NULL
// values are returned as empty strings.
type Source interface {
	ReadColumns(ctx context.Context, table string, columns []string) ([][]string, error)
}

// Connector opens the Source behind a named connection.
type Connector interface {
	Source(ctx context.Context, name string) (Source, error)
}

// PgSource is a Source over a PostgreSQL pool.
type PgSource struct {
	pool   *pgxpool.Pool
	prefix string
}

// NewPgSource creates a source expanding "{{%name}}" table names with prefix.
func NewPgSource(pool *pgxpool.Pool, prefix string) *PgSource {
	return &PgSource{pool: pool, prefix: prefix}
}

func (s *PgSource) ReadColumns(ctx context.Context, table string, columns []string) ([][]string, error) {
	query := selectQuery(physicalName(table, s.prefix), columns)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		values := make([]*string, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		row := make([]string, len(columns))
		for i, v := range values {
			if v != nil {
				row[i] = *v
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return out, nil
}

// selectQuery builds a SELECT casting every column to text.
func selectQuery(table []string, columns []string) string {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = pgx.Identifier{c}.Sanitize() + "::text"
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + pgx.Identifier(table).Sanitize()
}

// Pools opens one pgx pool per named connection on first use.
type Pools struct {
	resolve func(name string) (Connection, error)

	mu    sync.Mutex
	pools map[string]*pgxpool.Pool
}

// NewPools creates a connector resolving names through resolve.
func NewPools(resolve func(name string) (Connection, error)) *Pools {
	return &Pools{
		resolve: resolve,
		pools:   make(map[string]*pgxpool.Pool),
	}
}

func (p *Pools) Source(ctx context.Context, name string) (Source, error) {
	conn, err := p.resolve(name)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pool, ok := p.pools[name]; ok {
		return NewPgSource(pool, conn.TablePrefix), nil
	}

	pool, err := pgxpool.New(ctx, conn.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL %s: %w", name, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL %s: %w", name, err)
	}
	p.pools[name] = pool
	log.Info().Str("connection", name).Msg("Connected to PostgreSQL")

	return NewPgSource(pool, conn.TablePrefix), nil
}

// Close closes every opened pool.
func (p *Pools) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for name, pool := range p.pools {
		pool.Close()
		delete(p.pools, name)
	}
}

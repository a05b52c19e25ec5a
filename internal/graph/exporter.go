// Package graph exports scan results into Neo4j.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"

	"langscan/internal/collector"
	"langscan/internal/textutil"
	"langscan/internal/worker"
)

// batchSize bounds the rows sent in one UNWIND statement.
const batchSize = 500

const mergeMessages = `
	UNWIND $rows AS row
	MERGE (c:Category {name: row.category})
	MERGE (m:Message {hash: row.hash})
	SET m.text = row.message
	MERGE (c)-[:HAS_MESSAGE]->(m)
`

// Exporter writes Category and Message nodes linked by HAS_MESSAGE.
type Exporter struct {
	driver neo4j.DriverWithContext
}

// NewExporter creates a new exporter.
func NewExporter(driver neo4j.DriverWithContext) *Exporter {
	return &Exporter{driver: driver}
}

// EnsureSchema creates constraints on the Neo4j database.
func (e *Exporter) EnsureSchema(ctx context.Context) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (c:Category) REQUIRE c.name IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (m:Message) REQUIRE m.hash IS UNIQUE",
	}
	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Info().Msg("Graph schema ensured")
	return nil
}

// Export merges every pair of res into the graph.
func (e *Exporter) Export(ctx context.Context, res *collector.Result) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	for _, rows := range messageBatches(res.Items, batchSize) {
		if _, err := session.Run(ctx, mergeMessages, map[string]any{"rows": rows}); err != nil {
			return fmt.Errorf("merge messages: %w", err)
		}
	}

	log.Info().Int("messages", len(res.Items)).Int("categories", len(res.Categories)).Msg("Exported language elements to graph")
	return nil
}

// CountMessages returns the number of Message nodes in the graph.
func (e *Exporter) CountMessages(ctx context.Context) (int64, error) {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, "MATCH (m:Message) RETURN count(m) AS total", nil)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	total, _, err := neo4j.GetRecordValue[int64](record, "total")
	if err != nil {
		return 0, fmt.Errorf("read message count: %w", err)
	}
	return total, nil
}

// messageBatches turns items into UNWIND parameter rows of at most size rows.
func messageBatches(items []collector.LanguageItem, size int) [][]map[string]any {
	var batches [][]map[string]any
	for _, batch := range worker.Batch(items, size) {
		rows := make([]map[string]any, 0, len(batch))
		for _, item := range batch {
			rows = append(rows, map[string]any{
				"hash":     textutil.Hash(item.Category, item.Message),
				"category": item.Category,
				"message":  item.Message,
			})
		}
		batches = append(batches, rows)
	}
	return batches
}

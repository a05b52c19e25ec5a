// Package metrics counts what a scan run did.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters of one run on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// FilesScanned counts files that were read and tokenized.
	FilesScanned prometheus.Counter
	// ItemsRecorded counts distinct language elements.
	ItemsRecorded prometheus.Counter
	// Matches counts extracted items per handler, duplicates included.
	Matches *prometheus.CounterVec
	// FileErrors counts files that could not be read.
	FileErrors prometheus.Counter
}

// New creates and registers the run counters.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FilesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "langscan_files_scanned_total",
			Help: "Total number of files tokenized",
		}),
		ItemsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "langscan_items_recorded_total",
			Help: "Total number of distinct language elements recorded",
		}),
		Matches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "langscan_matches_total",
				Help: "Total number of language elements extracted, by handler",
			},
			[]string{"handler"},
		),
		FileErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "langscan_file_errors_total",
			Help: "Total number of files that could not be read",
		}),
	}
	m.registry.MustRegister(m.FilesScanned, m.ItemsRecorded, m.Matches, m.FileErrors)
	return m
}

// WriteTextfile writes the counters in the text exposition format, for
// node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
